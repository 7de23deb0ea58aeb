package cli

import (
	"strings"

	"github.com/cockroachdb/errors"
	goFlags "github.com/jessevdk/go-flags"
)

// Flags represents command line flags
type Flags struct {
	Version        bool     `short:"v" long:"version"        description:"Print the program version"`
	LogLevel       string   `short:"l" long:"logLevel"       description:"Logging level, overrides program config. Can be a name or a number from 0 (least verbose) to 6 (most verbose)"`
	ProgramCfgPath string   `short:"c" long:"programCfgPath" description:"Program config file path to read from or initialize a default"`
	Routes         []string `short:"r" long:"routes"         description:"Intent routes file path, glob pattern or URL. Can be repeated. Overrides program config"`
	Formats        string   `short:"f" long:"formats"        description:"Edit format config file path or URL. Overrides program config"`
	Model          string   `short:"m" long:"model"          description:"Print edit format used for the model"`
	Dump           bool     `long:"dump"                     description:"Print merged intent routes in the simplified YAML dialect"`
	JSON           bool     `long:"json"                     description:"Print merged intent routes as JSON"`
	Lint           bool     `long:"lint"                     description:"Report values of config files which the simplified YAML dialect reads differently than full YAML"`
	Schema         string   `long:"schema"                   description:"Print JSON Schema of a config shape" choice:"routes" choice:"route" choice:"formats"`
	SetFormat      string   `long:"setFormat"                description:"Set edit format of a model in the edit format config, in format of model=format"`
	Watch          bool     `long:"watch"                    description:"Reload intent routes periodically and print them on change until interrupted"`
}

// Parse returns a structure initialized with command line arguments and error if parsing failed
func Parse() (Flags, error) {
	flags := Flags{
		// Set defaults
		ProgramCfgPath: "tachikoma_config.yaml",
	}
	parser := goFlags.NewParser(&flags, goFlags.Options(goFlags.Default))
	_, err := parser.Parse()
	return flags, errors.Wrap(err, "Parse CLI arguments")
}

// IsErrOfType returns true if <err> is of type <t>
func IsErrOfType(err error, t goFlags.ErrorType) bool {
	goFlagsErr := &goFlags.Error{}
	if ok := errors.As(err, &goFlagsErr); ok && goFlagsErr.Type == t {
		return true
	}
	return false
}

// SplitAssignment returns key and value of <inp> in format of key=value.
//
// Returns error if key or value is empty.
func SplitAssignment(inp string) (string, string, error) {
	key, value, found := strings.Cut(inp, "=")
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)
	if !found || key == "" || value == "" {
		return "", "", errors.Newf("Expected value in format of key=value, got %q", inp)
	}
	return key, value, nil
}
