// Package schema checks shapes of parsed config trees.
//
// A Validator turns a *yaml.Node into typed data or fails with ValidationError values aggregated by
// github.com/hashicorp/go-multierror.
package schema

import (
	"fmt"
	"reflect"
	"strings"

	"tachikoma_config/util/yaml"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// Validator represents a capability to turn parsed tree into typed data
type Validator[T any] interface {
	Validate(node *yaml.Node) (T, error)
}

// ValidatorFunc is an adapter to allow the use of ordinary functions as Validator
type ValidatorFunc[T any] func(node *yaml.Node) (T, error)

// Validate calls f(node)
func (f ValidatorFunc[T]) Validate(node *yaml.Node) (T, error) {
	return f(node)
}

// ValidationError represents error thrown if a value at dotted Path does not match the expected shape
type ValidationError struct {
	Path   string
	Reason string
}

// Error is used to satisfy golang error interface
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("%v: %v", e.Path, e.Reason)
}

// Reasons returns message of every violation aggregated in <err>
func Reasons(err error) []string {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return lo.Map(merr.Errors, func(e error, _ int) string { return e.Error() })
	}
	return []string{err.Error()}
}

// Parse returns <content> parsed with <opts> and validated by <v>.
//
// Returns zero T and error if validation fails.
func Parse[T any](content string, v Validator[T], opts yaml.ParseOptions) (T, error) {
	out, err := v.Validate(yaml.Parse(content, opts))
	if err != nil {
		var zero T
		return zero, errors.Wrap(err, "Validate config")
	}
	return out, nil
}

// Decode returns <node> decoded into T using "yaml" struct tags.
//
// Scalars are converted to numbers and booleans where T expects them, comma separated scalars are split into string
// slices. Unknown keys are ignored.
func Decode[T any](node *yaml.Node) (T, error) {
	return decode[T](node, false)
}

// decode returns <node> decoded into T. If <strict> is true, unknown keys cause an error.
func decode[T any](node *yaml.Node, strict bool) (T, error) {
	var out T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			editFormatHook,
			stringToListHook,
			mapstructure.StringToTimeDurationHookFunc(),
		),
		ErrorUnused:      strict,
		Result:           &out,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return out, errors.Wrap(err, "Create decoder")
	}
	if err := decoder.Decode(node.Interface()); err != nil {
		return out, errors.Wrap(err, "Decode config")
	}
	return out, nil
}

// editFormatHook converts strings to EditFormat, failing on unknown formats
func editFormatHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(EditFormat("")) || from.Kind() != reflect.String {
		return data, nil
	}
	return ParseEditFormat(reflect.ValueOf(data).String())
}

// stringToListHook converts comma separated strings to string slices with trimmed, non-empty items
func stringToListHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf([]string{}) || from.Kind() != reflect.String {
		return data, nil
	}
	items := strings.Split(reflect.ValueOf(data).String(), ",")
	return lo.Compact(lo.Map(items, func(item string, _ int) string {
		return strings.TrimSpace(item)
	})), nil
}

// decodeReason returns human readable reason of decode error <err>
func decodeReason(err error) string {
	var msErr *mapstructure.Error
	if errors.As(err, &msErr) {
		return strings.Join(msErr.Errors, "; ")
	}
	var fmtErr UnknownEditFormatError
	if errors.As(err, &fmtErr) {
		return fmtErr.Error()
	}
	return err.Error()
}

// joinPath returns dotted path made of non-empty <items>
func joinPath(items ...string) string {
	return strings.Join(lo.Compact(items), ".")
}
