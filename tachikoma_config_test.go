package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tachikoma_config/cfg"
	"tachikoma_config/util/file"
	"tachikoma_config/util/logger"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/zenizh/go-capturer"
)

const routesContent = `routes:
  debug:
    skill: systematic-debugging
    strategy: root-cause
    confidence_threshold: 0.7
    invoke_via: skill
  review:
    skill: code-review
intent_keywords:
  debug: bug, error, crash
`

const formatsContent = `model_formats:
  claude: hashline
  gpt-4: udiff
user_models:
  my-model: whole
`

func TestMainCrash(t *testing.T) {
	dir := t.TempDir()
	programCfgPath := filepath.Join(dir, "tachikoma_config_main_test.yaml")

	err := file.Copy(filepath.Join("cfg", "default.yaml"), programCfgPath)
	assert.NoError(t, err, "should copy default program config")

	routesPath := filepath.Join(dir, "intent-routes.yaml")
	err = os.WriteFile(routesPath, []byte(routesContent), 0644)
	assert.NoError(t, err, "should write intent routes file")

	formatsPath := filepath.Join(dir, "edit-format-model-config.yaml")
	err = os.WriteFile(formatsPath, []byte(formatsContent), 0644)
	assert.NoError(t, err, "should write edit format config file")

	common := []string{"", "-c", programCfgPath, "-r", routesPath, "-f", formatsPath}

	os.Args = append(common, "--dump")
	out := capturer.CaptureStdout(main)
	assert.Contains(t, out, "skill: systematic-debugging", "should dump merged routes")

	os.Args = append(common, "--json")
	out = capturer.CaptureStdout(main)
	assert.Contains(t, out, `"skill": "code-review"`, "should print routes as JSON")

	os.Args = common
	out = capturer.CaptureStdout(main)
	assert.Contains(t, out, "systematic-debugging", "should print routes table")

	os.Args = append(common, "--lint")
	capturer.CaptureOutput(main)

	os.Args = append(common, "--setFormat", "Local-Model=whole")
	capturer.CaptureOutput(main)
	content := file.ReadTextSafe(formatsPath, "")
	assert.Contains(t, content, "  local-model: whole", "should store model format in lower case")

	os.Args = append(common, "-m", "claude-sonnet")
	out = capturer.CaptureStdout(main)
	assert.Contains(t, out, "hashline", "should print format of the model")

	os.Args = append(common, "--schema", "route")
	out = capturer.CaptureStdout(main)
	assert.True(t, strings.Contains(out, `"skill"`), "should print route schema")
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yaml", "c.txt"} {
		err := os.WriteFile(filepath.Join(dir, name), []byte(routesContent), 0644)
		assert.NoError(t, err, "should write file")
	}
	log := logger.NewWithWriter(logrus.InfoLevel, io.Discard)

	paths := expandPaths(log, []string{filepath.Join(dir, "*.yaml"), "https://example.com/routes.yaml",
		filepath.Join(dir, "a.yaml")})
	expected := []string{filepath.Join(dir, "a.yaml"), filepath.Join(dir, "b.yaml"), "https://example.com/routes.yaml"}
	assert.Exactly(t, expected, paths, "should expand globs, keep URLs and remove duplicates")

	out := capturer.CaptureStderr(func() {
		log := logger.New(logrus.InfoLevel)
		paths = expandPaths(log, []string{filepath.Join(dir, "*.json")})
	})
	assert.Empty(t, paths, "should return no paths if nothing matches")
	assert.Contains(t, out, "No files match the pattern", "should warn about empty match")
}

func TestLoadRoutes(t *testing.T) {
	dir := t.TempDir()
	firstPath := filepath.Join(dir, "first.yaml")
	err := os.WriteFile(firstPath, []byte(routesContent), 0644)
	assert.NoError(t, err, "should write file")

	secondPath := filepath.Join(dir, "second.yaml")
	err = os.WriteFile(secondPath, []byte("routes:\n  debug:\n    skill: quick-fix\n"), 0644)
	assert.NoError(t, err, "should write file")

	log := logger.NewWithWriter(logrus.InfoLevel, io.Discard)
	settings := cfg.NewDefCfg()

	routes := loadRoutes(log, settings, []string{firstPath, secondPath, filepath.Join(dir, "missing.yaml")})
	assert.Equal(t, "quick-fix", routes.Routes["debug"].Skill, "later file should win")
	assert.Equal(t, "code-review", routes.Routes["review"].Skill, "should keep routes of earlier files")
	assert.Exactly(t, []string{"bug", "error", "crash"}, routes.IntentKeywords["debug"], "should keep keywords")

	routes = loadRoutes(log, settings, []string{filepath.Join(dir, "missing.yaml")})
	assert.Contains(t, routes.Routes, "debug", "should use default routes if nothing is loaded")
}
