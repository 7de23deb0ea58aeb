package loader

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"tachikoma_config/schema"
	"tachikoma_config/util/logger"
	"tachikoma_config/util/yaml"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/zenizh/go-capturer"
)

const routesContent = `# Intent routes
routes:
  debug:
    skill: code-agent
    confidence_threshold: 0.7
`

// writeFile writes <content> to file <name> in <dir> and returns it's path
func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644), "should write test file")
	return path
}

func TestLoad(t *testing.T) {
	log := logger.New(logrus.DebugLevel)
	path := writeFile(t, t.TempDir(), "intent-routes.yaml", routesContent)

	res := Load(log, Options[schema.IntentRoutes]{
		Path:    path,
		Default: schema.DefaultRoutes(),
		Schema:  schema.RoutesValidator(),
	})
	assert.True(t, res.Success, "should load valid config")
	assert.True(t, res.LoadedFromFile, "should be loaded from file")
	assert.Exactly(t, schema.Route{Skill: "code-agent", ConfidenceThreshold: 0.7}, res.Data.Routes["debug"])
	assert.Len(t, res.Data.Routes, 1, "should not mix in defaults")
}

func TestLoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	def := schema.DefaultRoutes()

	var res LoadResult[schema.IntentRoutes]
	out := capturer.CaptureStderr(func() {
		log := logger.New(logrus.DebugLevel)
		res = Load(log, Options[schema.IntentRoutes]{Path: path, Default: def, Schema: schema.RoutesValidator()})
	})
	assert.Exactly(t, LoadResult[schema.IntentRoutes]{Data: def}, res, "should return default")
	assert.Contains(t, out, "Can not read config, using defaults", "should log read failure")
	assert.NotContains(t, out, "WARN", "should not warn about missing config")

	out = capturer.CaptureStderr(func() {
		log := logger.New(logrus.InfoLevel)
		res = Load(log, Options[schema.IntentRoutes]{Path: path, Default: def})
	})
	assert.Empty(t, out, "read failure should only be visible at debug level")
	assert.False(t, res.Success)
}

func TestLoadInvalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "intent-routes.yaml", "routes:\n  debug:\n    strategy: x\n  review: y\n")
	def := schema.DefaultRoutes()

	var res LoadResult[schema.IntentRoutes]
	out := capturer.CaptureStderr(func() {
		log := logger.New(logrus.InfoLevel)
		res = Load(log, Options[schema.IntentRoutes]{Path: path, Default: def, Schema: schema.RoutesValidator()})
	})
	assert.False(t, res.Success, "should fail on invalid config")
	assert.False(t, res.LoadedFromFile, "should not be loaded from file")
	assert.Exactly(t, def, res.Data, "should return default, not partially parsed data")
	assert.Contains(t, out, "Invalid config: routes.debug.skill: is required", "should warn about every violation")
	assert.Contains(t, out, "Invalid config: routes.review: route must be a mapping")
	assert.Contains(t, out, "Using default config")
	assert.Contains(t, out, "intent-routes.yaml", "should name the failing path")
}

func TestLoadWithoutSchema(t *testing.T) {
	log := logger.New(logrus.DebugLevel)
	path := writeFile(t, t.TempDir(), "cfg.yaml", "name: tachikoma\nlimits:\n  max: 3\n")

	type shape struct {
		Name   string `yaml:"name"`
		Limits struct {
			Max int `yaml:"max"`
		} `yaml:"limits"`
	}
	res := Load(log, Options[shape]{Path: path})
	assert.True(t, res.Success, "should decode without schema")
	assert.Exactly(t, "tachikoma", res.Data.Name)
	assert.Exactly(t, 3, res.Data.Limits.Max)

	nodeRes := Load(log, Options[*yaml.Node]{Path: path})
	assert.True(t, nodeRes.Success, "should return tree as is")
	assert.Exactly(t, yaml.Parse("name: tachikoma\nlimits:\n  max: 3\n", yaml.DefaultOptions()), nodeRes.Data)

	mapRes := Load(log, Options[map[string]any]{Path: path})
	assert.Exactly(t, map[string]any{"name": "tachikoma", "limits": map[string]any{"max": "3"}}, mapRes.Data)

	badRes := Load(log, Options[shape]{Path: writeFile(t, t.TempDir(), "bad.yaml", "limits:\n  max: many\n")})
	assert.False(t, badRes.Success, "should fail if tree can not be decoded")
}

func TestLoadRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/intent-routes.yaml" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(routesContent))
	}))
	defer srv.Close()

	log := logger.New(logrus.DebugLevel)
	opts := Options[schema.IntentRoutes]{Path: srv.URL + "/intent-routes.yaml", Schema: schema.RoutesValidator()}
	res := Load(log, opts)
	assert.True(t, res.Success, "should load config from URL")
	assert.Exactly(t, "code-agent", res.Data.Routes["debug"].Skill)

	opts.Path = srv.URL + "/missing.yaml"
	res = Load(log, opts)
	assert.False(t, res.Success, "should fall back on HTTP errors")
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("http://host/routes.yaml"))
	assert.True(t, IsRemote("https://host:8080/routes.yaml"))
	assert.False(t, IsRemote("/etc/tachikoma/routes.yaml"))
	assert.False(t, IsRemote("routes.yaml"))
	assert.False(t, IsRemote(`C:\config\routes.yaml`))
	assert.False(t, IsRemote("http://"))
}

func TestLoadJSON(t *testing.T) {
	log := logger.New(logrus.DebugLevel)
	dir := t.TempDir()

	type shape struct {
		Skill string `json:"skill"`
	}
	def := shape{Skill: "default"}

	res := LoadJSON(log, writeFile(t, dir, "ok.json", `{"skill": "code-agent"}`), def)
	assert.Exactly(t, LoadResult[shape]{Success: true, Data: shape{Skill: "code-agent"}, LoadedFromFile: true}, res)

	res = LoadJSON(log, writeFile(t, dir, "null.json", "null"), def)
	assert.Exactly(t, LoadResult[shape]{Data: def}, res, "null should count as missing")

	res = LoadJSON(log, writeFile(t, dir, "bad.json", "{skill"), def)
	assert.Exactly(t, LoadResult[shape]{Data: def}, res, "should fall back on malformed JSON")

	res = LoadJSON(log, filepath.Join(dir, "missing.json"), def)
	assert.Exactly(t, LoadResult[shape]{Data: def}, res, "should fall back on missing file")

	res = LoadJSON(log, writeFile(t, dir, "empty.json", "{}"), def)
	assert.Exactly(t, LoadResult[shape]{Success: true, LoadedFromFile: true}, res, "should load empty object")
}

func TestLoadJSONFalsy(t *testing.T) {
	log := logger.NewWithWriter(logrus.DebugLevel, io.Discard)
	dir := t.TempDir()

	num := LoadJSON(log, writeFile(t, dir, "zero.json", "0"), 5)
	assert.Exactly(t, LoadResult[int]{Data: 5}, num, "zero should count as missing")

	num = LoadJSON(log, writeFile(t, dir, "seven.json", "7"), 5)
	assert.Exactly(t, LoadResult[int]{Success: true, Data: 7, LoadedFromFile: true}, num)

	flag := LoadJSON(log, writeFile(t, dir, "false.json", "false"), true)
	assert.Exactly(t, LoadResult[bool]{Data: true}, flag, "false should count as missing")

	str := LoadJSON(log, writeFile(t, dir, "str.json", `""`), "default")
	assert.Exactly(t, LoadResult[string]{Data: "default"}, str, "empty string should count as missing")

	anyVal := LoadJSON[any](log, writeFile(t, dir, "any.json", "0"), "default")
	assert.Exactly(t, LoadResult[any]{Data: "default"}, anyVal, "zero should count as missing for untyped data")

	list := LoadJSON(log, writeFile(t, dir, "list.json", "[]"), []string{"default"})
	assert.Exactly(t, LoadResult[[]string]{Success: true, Data: []string{}, LoadedFromFile: true}, list,
		"empty array should be loaded")
}

func TestLoadNilLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	def := schema.DefaultRoutes()

	assert.NotPanics(t, func() {
		res := Load(nil, Options[schema.IntentRoutes]{Path: path, Default: def, Schema: schema.RoutesValidator()})
		assert.Exactly(t, LoadResult[schema.IntentRoutes]{Data: def}, res, "should return default")

		json := LoadJSON(nil, path, 1)
		assert.Exactly(t, LoadResult[int]{Data: 1}, json, "should return default")
	}, "should use standard logger if logger is nil")
}
