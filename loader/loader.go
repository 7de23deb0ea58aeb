// Package loader reads config files into typed data, falling back to caller defaults on any failure.
package loader

import (
	"net/url"
	"reflect"
	"time"

	"tachikoma_config/schema"
	"tachikoma_config/util/file"
	"tachikoma_config/util/yaml"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// DefaultRemoteTimeout represents HTTP response timeout used for remote configs if none specified
const DefaultRemoteTimeout = 10 * time.Second

// LoadResult represents outcome of a config load.
//
// LoadedFromFile is true only if Success is true. On failure Data holds the default supplied by the caller.
type LoadResult[T any] struct {
	Success        bool
	Data           T
	LoadedFromFile bool
}

// Options represents Load settings
type Options[T any] struct {
	// Path represents local file path or HTTP(S) URL of the config
	Path string

	// Default represents data returned if config can not be loaded
	Default T

	// Schema represents validator of the parsed tree.
	//
	// If nil, the tree is decoded into T with schema.Decode, or returned as is if T is *yaml.Node.
	Schema schema.Validator[T]

	// RemoteTimeout represents HTTP response timeout for remote configs. Values <= 0 mean DefaultRemoteTimeout.
	RemoteTimeout time.Duration
}

// Load returns config read from <opts>.Path, parsed in the simplified YAML dialect and validated by <opts>.Schema.
//
// Never fails: unreadable config is logged at debug level, invalid config is logged as warning naming the path.
// Both result in LoadResult with Success == false and Data == <opts>.Default. Nil <log> means the standard logger.
func Load[T any](log *logrus.Logger, opts Options[T]) LoadResult[T] {
	log = orStandard(log)
	fallback := LoadResult[T]{Data: opts.Default}
	logWithPath := log.WithField("path", opts.Path)

	res := read(opts.Path, opts.RemoteTimeout)
	if !res.Success {
		logWithPath.Debugf("Can not read config, using defaults: %v", res.Err)
		return fallback
	}

	data, err := validate(yaml.Parse(res.Data, yaml.DefaultOptions()), opts.Schema)
	if err != nil {
		for _, reason := range schema.Reasons(err) {
			logWithPath.Warnf("Invalid config: %v", reason)
		}
		logWithPath.Warn("Using default config")
		return fallback
	}

	return LoadResult[T]{Success: true, Data: data, LoadedFromFile: true}
}

// LoadJSON returns config read from JSON file at <path>.
//
// Unreadable, malformed, null or falsy (false, 0, "") JSON results in LoadResult with Success == false and
// Data == <def>. Empty objects and arrays are loaded. Nil <log> means the standard logger.
func LoadJSON[T any](log *logrus.Logger, path string, def T) LoadResult[T] {
	log = orStandard(log)
	fallback := LoadResult[T]{Data: def}

	res := file.ReadJSON[*T](path)
	if !res.Success {
		log.WithField("path", path).Debugf("Can not read JSON config, using defaults: %v", res.Err)
		return fallback
	}
	if res.Data == nil || isFalsy(*res.Data) {
		log.WithField("path", path).Debug("JSON config is empty, using defaults")
		return fallback
	}

	return LoadResult[T]{Success: true, Data: *res.Data, LoadedFromFile: true}
}

// isFalsy returns true if <v> is a zero bool, number or string
func isFalsy(v any) bool {
	val := reflect.ValueOf(v)
	if !val.IsValid() {
		return true
	}
	switch val.Kind() {
	case reflect.Bool, reflect.String, reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return val.IsZero()
	case reflect.Interface, reflect.Pointer:
		if val.IsNil() {
			return true
		}
		return isFalsy(val.Elem().Interface())
	}
	return false
}

// orStandard returns <log> or the standard logger if <log> is nil
func orStandard(log *logrus.Logger) *logrus.Logger {
	return lo.Ternary(log != nil, log, logrus.StandardLogger())
}

// IsRemote returns true if <path> is an HTTP(S) URL
func IsRemote(path string) bool {
	u, err := url.Parse(path)
	if err != nil {
		return false
	}
	return lo.Contains([]string{"http", "https"}, u.Scheme) && u.Host != ""
}

// read returns content of local file or URL at <path>
func read(path string, timeout time.Duration) file.ReadResult[string] {
	if !IsRemote(path) {
		return file.ReadText(path)
	}
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	return file.ReadURIText(path, timeout)
}

// validate returns <tree> turned into T by <v>
func validate[T any](tree *yaml.Node, v schema.Validator[T]) (T, error) {
	if v != nil {
		return v.Validate(tree)
	}
	if node, ok := any(tree).(T); ok {
		return node, nil
	}
	return schema.Decode[T](tree)
}
