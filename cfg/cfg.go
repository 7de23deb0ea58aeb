package cfg

import (
	_ "embed"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/knadh/koanf"
	koanfYaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"tachikoma_config/util/logger"
	"tachikoma_config/util/parse"
	"tachikoma_config/util/yaml"
)

//go:embed default.yaml
var defCfgBytes []byte

// EnvPrefix represents prefix of environment variables overriding config values
const EnvPrefix = "TACHIKOMA_"

// Root represents root settings of the program
type Root struct {
	General General `koanf:"general"`
	Routes  Routes  `koanf:"routes"`
	Formats Formats `koanf:"formats"`
	Cache   Cache   `koanf:"cache"`
	Loader  Loader  `koanf:"loader"`
}

// General represents general settings of the program
type General struct {
	// LogLevel represents logging level name or number from 0 to 6
	LogLevel string `koanf:"log_level"`
}

// Routes represents intent routes related settings of the program
type Routes struct {
	// Paths represents intent routes files: local paths, glob patterns or HTTP(S) URLs.
	//
	// Files are merged in order, routes of later files win.
	Paths []string `koanf:"paths"`
}

// Formats represents edit format related settings of the program
type Formats struct {
	// Path represents edit format config file path
	Path string `koanf:"path"`
}

// Cache represents config cache settings of the program
type Cache struct {
	// MaxSize represents maximum amount of loaded config files kept in memory
	MaxSize int `koanf:"max_size"`
}

// Loader represents config loading settings of the program
type Loader struct {
	// Workers represents maximum amount of config files loaded concurrently
	Workers int `koanf:"workers"`

	// WatchInterval represents reload interval of watch mode
	WatchInterval time.Duration `koanf:"watch_interval"`

	// RemoteTimeout represents HTTP response timeout for remote config files
	RemoteTimeout time.Duration `koanf:"remote_timeout"`
}

// DamagedConfigError represents error thrown if program config is missing unexpected fields
type DamagedConfigError struct {
	MissingFields []string
}

// Error is used to satisfy golang error interface
func (e DamagedConfigError) Error() string {
	msg := "Existing program config is missing unexpected fields. Create new config or add missing fields manually"
	return fmt.Sprintf("%v: %v", msg, strings.Join(e.MissingFields, ", "))
}

// BadValueError represents error thrown if program config has invalid value
type BadValueError struct {
	Field  string
	Reason string
}

// Error is used to satisfy golang error interface
func (e BadValueError) Error() string {
	return fmt.Sprintf("Bad value of %v: %v", e.Field, e.Reason)
}

// migration represents a field added to the config after the first release
type migration struct {
	field   string   // Dotted path of the field
	after   string   // Section to insert the parent section after if it is missing too
	comment []string // Head comment of the field
}

// migrations represents fields which are added to existing configs automatically
var migrations = []migration{
	{
		field:   "cache.max_size",
		after:   "formats",
		comment: []string{"Maximum amount of loaded config files kept in memory."},
	},
	{
		field:   "loader.remote_timeout",
		after:   "cache",
		comment: []string{"HTTP response timeout for remote config files."},
	},
}

// Init returns config instance and false if config at <cfgFilePath> already exist.
//
// If config does not exist, creates a default, returns default instance and true.
//
// Fields listed in migrations which are missing in existing config are added to the file with default values.
// Environment variables with EnvPrefix override values of the file.
//
// Can return errors defined in this package: DamagedConfigError, BadValueError.
func Init(log *logrus.Logger, cfgFilePath string) (Root, bool, error) {
	log.Info("Reading program config")

	var root Root
	isNew := false

	cfgBytes, err := os.ReadFile(cfgFilePath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info("Config file not found, creating a default")
		if err := os.WriteFile(cfgFilePath, defCfgBytes, 0644); err != nil {
			return root, false, errors.Wrap(err, "Write default config")
		}
		cfgBytes, isNew = defCfgBytes, true
	} else if err != nil {
		return root, false, errors.Wrap(err, "Read config")
	}

	if cfgBytes, err = migrate(log, cfgFilePath, cfgBytes); err != nil {
		return root, false, err
	}

	// Layers: defaults, config file, environment
	ko := koanf.New(".")
	if err := ko.Load(rawbytes.Provider(defCfgBytes), koanfYaml.Parser()); err != nil {
		return root, false, errors.Wrap(err, "Load default config")
	}
	if err := ko.Load(rawbytes.Provider(cfgBytes), koanfYaml.Parser()); err != nil {
		return root, false, errors.Wrap(err, "Load config")
	}
	if err := ko.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return root, false, errors.Wrap(err, "Load environment variables")
	}

	// Decode loaded config into structure
	err = ko.UnmarshalWithConf("", &root, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			ErrorUnused:          true,
			IgnoreUntaggedFields: true,
			Result:               &root,
			WeaklyTypedInput:     true,
			ZeroFields:           true,
		},
	})
	if err != nil {
		return root, false, errors.Wrap(err, "Decode config")
	}

	if err := validate(root); err != nil {
		return root, false, errors.Wrap(err, "Validate config")
	}

	return root, isNew, nil
}

// envKey returns config key for environment variable <name>, e.g. TACHIKOMA_GENERAL__LOG_LEVEL -> general.log_level
func envKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "__", ".")
}

// migrate returns <cfgBytes> with missing migration fields added and saves them to <cfgFilePath> if changed.
//
// Returns DamagedConfigError if fields not listed in migrations are missing.
func migrate(log *logrus.Logger, cfgFilePath string, cfgBytes []byte) ([]byte, error) {
	defKo, fileKo := koanf.New("."), koanf.New(".")
	if err := defKo.Load(rawbytes.Provider(defCfgBytes), koanfYaml.Parser()); err != nil {
		return cfgBytes, errors.Wrap(err, "Load default config")
	}
	if err := fileKo.Load(rawbytes.Provider(cfgBytes), koanfYaml.Parser()); err != nil {
		return cfgBytes, errors.Wrap(err, "Load config")
	}

	missingFields := lo.Filter(defKo.Keys(), func(key string, _ int) bool { return !fileKo.Exists(key) })
	knownFields := lo.Map(migrations, func(m migration, _ int) string { return m.field })
	if unknownMissing, _ := lo.Difference(missingFields, knownFields); len(unknownMissing) > 0 {
		return cfgBytes, errors.Wrap(DamagedConfigError{MissingFields: unknownMissing}, "Check config")
	}

	changed := false
	for _, m := range migrations {
		if !lo.Contains(missingFields, m.field) {
			continue
		}
		defVal := defKo.String(m.field)
		log.Infof("Adding missing field to config: %v: %v", m.field, defVal)

		section := strings.TrimSuffix(m.field, "."+parse.LastPathItem(m.field, "."))
		entry := yaml.Entry{HeadComment: m.comment, Key: parse.LastPathItem(m.field, "."), Value: defVal}
		var err error
		if hasSection(cfgBytes, section) {
			entry.StartNewline = true
			cfgBytes, err = yaml.Insert(cfgBytes, section, true, entry)
		} else {
			cfgBytes, err = yaml.Insert(cfgBytes, m.after, false, yaml.Entry{
				StartNewline: true,
				Key:          section,
				Children:     []yaml.Entry{entry},
			})
		}
		if err != nil {
			return cfgBytes, errors.Wrap(err, "Add missing field to config")
		}
		changed = true
	}

	if changed {
		if err := os.WriteFile(cfgFilePath, cfgBytes, 0644); err != nil {
			return cfgBytes, errors.Wrap(err, "Write config")
		}
	}
	return cfgBytes, nil
}

// hasSection returns true if <section> exists in <cfgBytes>, including sections added by previous migrations
func hasSection(cfgBytes []byte, section string) bool {
	_, ok := yaml.Parse(string(cfgBytes), yaml.DefaultOptions()).Lookup(parse.PathItems(section, ".")...)
	return ok
}

// validate returns BadValueError if any value of <root> is out of range
func validate(root Root) error {
	if _, err := logger.ParseLevel(root.General.LogLevel); err != nil {
		return BadValueError{Field: "general.log_level", Reason: err.Error()}
	}
	if len(root.Routes.Paths) == 0 {
		return BadValueError{Field: "routes.paths", Reason: "at least one path is required"}
	}
	if root.Cache.MaxSize < 1 {
		return BadValueError{Field: "cache.max_size", Reason: "should be at least 1"}
	}
	if root.Loader.Workers < 1 {
		return BadValueError{Field: "loader.workers", Reason: "should be at least 1"}
	}
	if root.Loader.WatchInterval <= 0 {
		return BadValueError{Field: "loader.watch_interval", Reason: "should be positive"}
	}
	if root.Loader.RemoteTimeout <= 0 {
		return BadValueError{Field: "loader.remote_timeout", Reason: "should be positive"}
	}
	return nil
}

// NewDefCfg returns new default program config
func NewDefCfg() Root {
	return Root{
		General: General{LogLevel: "info"},
		Routes:  Routes{Paths: []string{"config/intent-routes.yaml"}},
		Formats: Formats{Path: "config/edit-format-model-config.yaml"},
		Cache:   Cache{MaxSize: 32},
		Loader: Loader{
			Workers:       4,
			WatchInterval: 5 * time.Second,
			RemoteTimeout: 10 * time.Second,
		},
	}
}
