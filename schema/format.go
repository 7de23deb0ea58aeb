package schema

import (
	"fmt"
	"sort"
	"strings"

	"tachikoma_config/util/text"
	"tachikoma_config/util/yaml"

	"github.com/hashicorp/go-multierror"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
)

// EditFormat represents the way an LLM model edits files
type EditFormat string

const (
	StrReplace      EditFormat = "str_replace"
	StrReplaceFuzzy EditFormat = "str_replace_fuzzy"
	ApplyPatch      EditFormat = "apply_patch"
	Hashline        EditFormat = "hashline"
	Whole           EditFormat = "whole"
	UDiff           EditFormat = "udiff"
	EditBlock       EditFormat = "editblock"
)

// DefaultEditFormat represents edit format used for unknown models
const DefaultEditFormat = Hashline

// EditFormats returns every known edit format
func EditFormats() []EditFormat {
	return []EditFormat{StrReplace, StrReplaceFuzzy, ApplyPatch, Hashline, Whole, UDiff, EditBlock}
}

// JSONSchema is used to satisfy jsonschema.JSONSchema interface
func (EditFormat) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: "Edit format",
		Enum:        lo.Map(EditFormats(), func(f EditFormat, _ int) any { return string(f) }),
	}
}

// UnknownEditFormatError represents error thrown if edit format is not one of EditFormats
type UnknownEditFormatError struct {
	Value string
}

// Error is used to satisfy golang error interface
func (e UnknownEditFormatError) Error() string {
	return fmt.Sprintf("unknown edit format %q", e.Value)
}

// ParseEditFormat returns edit format matching <inp> case-insensitively or UnknownEditFormatError
func ParseEditFormat(inp string) (EditFormat, error) {
	format, found := lo.Find(EditFormats(), func(f EditFormat) bool {
		return text.EqualFold(string(f), strings.TrimSpace(inp))
	})
	if !found {
		return "", UnknownEditFormatError{Value: inp}
	}
	return format, nil
}

// FormatConfig represents edit format settings per model
type FormatConfig struct {
	// ModelFormats represents shipped model to edit format mapping
	ModelFormats map[string]EditFormat `yaml:"model_formats" json:"model_formats,omitempty"`

	// UserModels represents user defined model to edit format mapping. Overrides ModelFormats.
	UserModels map[string]EditFormat `yaml:"user_models" json:"user_models,omitempty"`
}

// FormatFor returns edit format for <model> and true if it is configured.
//
// Model names are compared case-insensitively, UserModels win over ModelFormats. If no name equals <model>, the
// longest name contained in <model> is used. Names are checked in sorted order, so ties resolve to the
// alphabetically first one.
func (c FormatConfig) FormatFor(model string) (EditFormat, bool) {
	model = strings.TrimSpace(model)
	if model == "" {
		return "", false
	}
	sources := []map[string]EditFormat{c.UserModels, c.ModelFormats}

	for _, formats := range sources {
		for _, name := range sortedNames(formats) {
			if text.EqualFold(name, model) {
				return formats[name], true
			}
		}
	}

	for _, formats := range sources {
		var best string
		for _, name := range sortedNames(formats) {
			if name != "" && text.ContainsFold(model, name) && len(name) > len(best) {
				best = name
			}
		}
		if best != "" {
			return formats[best], true
		}
	}

	return "", false
}

// sortedNames returns model names of <formats> in sorted order
func sortedNames(formats map[string]EditFormat) []string {
	names := lo.Keys(formats)
	sort.Strings(names)
	return names
}

// FormatsValidator returns validator of format config documents.
//
// Both "model_formats" and "user_models" sections are optional, other top level keys are ignored. Model names are
// lowercased, of names differing only in case the last one in the file wins.
func FormatsValidator() Validator[FormatConfig] {
	return ValidatorFunc[FormatConfig](validateFormats)
}

func validateFormats(node *yaml.Node) (FormatConfig, error) {
	if node == nil || node.Kind != yaml.MappingKind {
		return FormatConfig{}, ValidationError{Reason: "document must be a mapping"}
	}

	var errs *multierror.Error
	out := FormatConfig{ModelFormats: map[string]EditFormat{}, UserModels: map[string]EditFormat{}}

	sections := map[string]map[string]EditFormat{"model_formats": out.ModelFormats, "user_models": out.UserModels}
	for _, key := range []string{"model_formats", "user_models"} {
		section, ok := node.Get(key)
		if !ok {
			continue
		}
		if section.Kind != yaml.MappingKind {
			errs = multierror.Append(errs, ValidationError{Path: key, Reason: "must be a mapping"})
			continue
		}
		for _, model := range section.Keys {
			path := joinPath(key, model)
			value := section.Fields[model]
			if value.Kind != yaml.ScalarKind {
				errs = multierror.Append(errs, ValidationError{Path: path, Reason: "must be an edit format"})
				continue
			}
			format, err := ParseEditFormat(value.Value)
			if err != nil {
				errs = multierror.Append(errs, ValidationError{Path: path, Reason: err.Error()})
				continue
			}
			sections[key][strings.ToLower(model)] = format
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return FormatConfig{}, err
	}
	return out, nil
}

// DefaultFormats returns format config used if no config file is available
func DefaultFormats() FormatConfig {
	return FormatConfig{
		ModelFormats: map[string]EditFormat{
			"claude":   StrReplace,
			"gpt-4":    ApplyPatch,
			"gpt-5":    ApplyPatch,
			"o3":       ApplyPatch,
			"gemini":   StrReplaceFuzzy,
			"deepseek": EditBlock,
			"qwen":     UDiff,
		},
		UserModels: map[string]EditFormat{},
	}
}
