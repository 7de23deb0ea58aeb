package schema

import (
	"testing"
	"time"

	"tachikoma_config/util/yaml"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	type shape struct {
		Name    string        `yaml:"name"`
		Ratio   float64       `yaml:"ratio"`
		Count   int           `yaml:"count"`
		Enabled bool          `yaml:"enabled"`
		Tags    []string      `yaml:"tags"`
		Timeout time.Duration `yaml:"timeout"`
		Format  EditFormat    `yaml:"format"`
		Nested  struct {
			Key string `yaml:"key"`
		} `yaml:"nested"`
	}

	content := "name: x\nratio: 0.5\ncount: 3\nenabled: true\ntags: a, b,,c\ntimeout: 5s\nformat: UDiff\n" +
		"nested:\n  key: v\nunknown: 1\n"
	out, err := Decode[shape](yaml.Parse(content, yaml.DefaultOptions()))
	assert.NoError(t, err, "should not return error")
	assert.Exactly(t, "x", out.Name)
	assert.Exactly(t, 0.5, out.Ratio, "should convert scalars to float")
	assert.Exactly(t, 3, out.Count, "should convert scalars to int")
	assert.True(t, out.Enabled, "should convert scalars to bool")
	assert.Exactly(t, []string{"a", "b", "c"}, out.Tags, "should split comma separated lists")
	assert.Exactly(t, 5*time.Second, out.Timeout, "should convert durations")
	assert.Exactly(t, UDiff, out.Format, "should convert edit formats")
	assert.Exactly(t, "v", out.Nested.Key, "should decode nested sections")

	_, err = Decode[shape](yaml.Parse("count: many\n", yaml.DefaultOptions()))
	assert.ErrorContains(t, err, "Decode config", "should return error for bad numbers")

	_, err = Decode[shape](yaml.Parse("format: bogus\n", yaml.DefaultOptions()))
	assert.Error(t, err, "should return error for unknown edit format")
}

func TestParse(t *testing.T) {
	content := "routes:\n  debug:\n    skill: code-agent\n"
	out, err := Parse(content, RoutesValidator(), yaml.DefaultOptions())
	assert.NoError(t, err, "should not return error")
	assert.Exactly(t, "code-agent", out.Routes["debug"].Skill)

	out, err = Parse("name: x\n", RoutesValidator(), yaml.DefaultOptions())
	assert.ErrorContains(t, err, "Validate config", "should wrap validation error")
	assert.ErrorContains(t, err, "routes: is required")
	assert.Exactly(t, IntentRoutes{}, out, "should return zero value on error")

	var valErr ValidationError
	assert.True(t, errors.As(err, &valErr), "should be possible to extract validation error")
	assert.Exactly(t, ValidationError{Path: "routes", Reason: "is required"}, valErr)
}

func TestValidatorFunc(t *testing.T) {
	var v Validator[string] = ValidatorFunc[string](func(node *yaml.Node) (string, error) {
		name, ok := node.Get("name")
		if !ok {
			return "", ValidationError{Path: "name", Reason: "is required"}
		}
		return name.Value, nil
	})

	out, err := Parse("name: tachikoma\n", v, yaml.DefaultOptions())
	assert.NoError(t, err, "should not return error")
	assert.Exactly(t, "tachikoma", out)

	_, err = Parse("other: x\n", v, yaml.DefaultOptions())
	assert.ErrorContains(t, err, "name: is required")
}

func TestValidationError(t *testing.T) {
	assert.Exactly(t, "routes.debug: is required", ValidationError{Path: "routes.debug", Reason: "is required"}.Error())
	assert.Exactly(t, "must be a mapping", ValidationError{Reason: "must be a mapping"}.Error())
}

func TestReasons(t *testing.T) {
	assert.Nil(t, Reasons(nil))

	_, err := Parse("routes:\n  a:\n    skill: x\n  b: y\n  c:\n    strategy: z\n", RoutesValidator(),
		yaml.DefaultOptions())
	expected := []string{"routes.b: route must be a mapping", "routes.c.skill: is required"}
	assert.Exactly(t, expected, Reasons(err), "should list every aggregated violation")

	assert.Exactly(t, []string{"plain"}, Reasons(errors.New("plain")))
}
