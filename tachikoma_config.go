package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"tachikoma_config/cfg"
	"tachikoma_config/cli"
	"tachikoma_config/loader"
	"tachikoma_config/schema"
	"tachikoma_config/util/file"
	"tachikoma_config/util/logger"
	"tachikoma_config/util/text"
	"tachikoma_config/util/tw"
	"tachikoma_config/util/yaml"

	json "github.com/SCP002/jsonexraw"
	"github.com/adampresley/sigint"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	goFlags "github.com/jessevdk/go-flags"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

const version = "v1.0.0"

// maxKeywordsWidth represents maximum length of keywords cell in routes table
const maxKeywordsWidth = 60

func main() {
	// Init logger
	log := logger.New(logrus.InfoLevel)

	// Parse command line arguments
	log.Debug("Parsing command line arguments\n")
	flags, err := cli.Parse()
	if flags.Version {
		fmt.Println(version)
		os.Exit(0)
	}
	if cli.IsErrOfType(err, goFlags.ErrHelp) {
		// Help message will be printed by go-flags
		os.Exit(0)
	}
	if err != nil {
		log.Panic(err)
	}

	// Read program config
	settings, isNewCfg, err := cfg.Init(log, flags.ProgramCfgPath)
	if err != nil {
		log.Panic(err)
	}
	if isNewCfg {
		log.Infof("New config is written to %v, using it's defaults", flags.ProgramCfgPath)
	}
	setLogLevel(log, lo.Ternary(flags.LogLevel != "", flags.LogLevel, settings.General.LogLevel))

	if flags.Schema != "" {
		printSchema(log, flags.Schema)
		return
	}

	formatsPath := lo.Ternary(flags.Formats != "", flags.Formats, settings.Formats.Path)
	if flags.SetFormat != "" {
		setFormat(log, formatsPath, flags.SetFormat)
		return
	}
	if flags.Model != "" {
		printModelFormat(log, settings, formatsPath, flags.Model)
		return
	}

	routesPaths := expandPaths(log, lo.Ternary(len(flags.Routes) > 0, flags.Routes, settings.Routes.Paths))
	if flags.Lint {
		if !lint(log, settings, append(routesPaths, formatsPath)) {
			os.Exit(1)
		}
		return
	}

	if flags.Watch {
		watch(log, settings, routesPaths)
		return
	}

	routes := loadRoutes(log, settings, routesPaths)
	switch {
	case flags.JSON:
		printJSON(log, routes)
	case flags.Dump:
		printDump(log, routes)
	default:
		printRoutes(routes)
	}
}

// setLogLevel sets level of <log> to <lvl> or keeps the current one if <lvl> is bad
func setLogLevel(log *logrus.Logger, lvl string) {
	level, err := logger.ParseLevel(lvl)
	if err != nil {
		log.Warn(err)
		return
	}
	log.SetLevel(level)
}

// expandPaths returns <paths> with glob patterns replaced by matching files. URLs are kept as is.
func expandPaths(log *logrus.Logger, paths []string) []string {
	out := []string{}
	for _, path := range paths {
		if loader.IsRemote(path) || !strings.ContainsAny(path, "*?[{") {
			out = append(out, path)
			continue
		}
		matches, err := doublestar.FilepathGlob(path)
		if err != nil {
			log.WithField("pattern", path).Warnf("Bad glob pattern: %v", err)
			continue
		}
		if len(matches) == 0 {
			log.WithField("pattern", path).Warn("No files match the pattern")
		}
		out = append(out, matches...)
	}
	return lo.Uniq(out)
}

// loadRoutes returns intent routes from every path in <paths> merged in order.
//
// Returns default routes if none of the files are loaded.
func loadRoutes(log *logrus.Logger, settings cfg.Root, paths []string) schema.IntentRoutes {
	log.Infof("Loading %v intent routes file(s)\n", len(paths))
	opts := loader.Options[schema.IntentRoutes]{
		Schema:        schema.RoutesValidator(),
		RemoteTimeout: settings.Loader.RemoteTimeout,
	}
	results := loader.LoadAll(log, settings.Loader.Workers, opts, paths...)

	loaded := lo.Filter(results, func(res loader.LoadResult[schema.IntentRoutes], _ int) bool {
		return res.Success
	})
	for idx, res := range results {
		printStatus(paths[idx], res.Success)
	}
	if len(loaded) == 0 {
		log.Warn("No intent routes loaded, using defaults")
		return schema.DefaultRoutes()
	}

	return schema.IntentRoutes{
		Routes: loader.Merge(lo.Map(loaded, func(res loader.LoadResult[schema.IntentRoutes], _ int) map[string]schema.Route {
			return res.Data.Routes
		})...),
		IntentKeywords: loader.Merge(lo.Map(loaded, func(res loader.LoadResult[schema.IntentRoutes], _ int) map[string][]string {
			return res.Data.IntentKeywords
		})...),
	}
}

// printStatus prints colored load status of <path>
func printStatus(path string, success bool) {
	if success {
		color.New(color.FgGreen).Fprintf(os.Stderr, "loaded   %v\n", path)
	} else {
		color.New(color.FgYellow).Fprintf(os.Stderr, "skipped  %v\n", path)
	}
}

// printRoutes prints <routes> as a table sorted by intent name
func printRoutes(routes schema.IntentRoutes) {
	w := tw.New()
	w.AppendHeader([]any{"Intent", "Skill", "Invoke via", "Strategy", "Threshold", "Keywords", "Description"})
	intents := lo.Keys(routes.Routes)
	sort.Strings(intents)
	for _, intent := range intents {
		route := routes.Routes[intent]
		keywords := text.Truncate(strings.Join(routes.IntentKeywords[intent], ", "), maxKeywordsWidth)
		w.AppendRow([]any{intent, route.Skill, route.InvokeVia, route.Strategy, route.ConfidenceThreshold, keywords,
			route.Description})
	}
	w.Render()
}

// printJSON prints <routes> as indented JSON
func printJSON(log *logrus.Logger, routes schema.IntentRoutes) {
	out, err := json.MarshalIndent(routes, "", "  ")
	if err != nil {
		log.Panic(err)
	}
	fmt.Println(string(out))
}

// printDump prints <routes> in the simplified YAML dialect
func printDump(log *logrus.Logger, routes schema.IntentRoutes) {
	// JSON round trip turns structures into plain maps and lists honoring field tags
	bytes, err := json.Marshal(routes)
	if err != nil {
		log.Panic(err)
	}
	var plain map[string]any
	if err := json.Unmarshal(bytes, &plain); err != nil {
		log.Panic(err)
	}
	out := yaml.Marshal(yaml.FromAny(plain))
	fmt.Print(out)
	log.Debugf("Dump is about %v tokens long", text.EstimateTokens(out))
}

// printSchema prints JSON Schema of config shape <name>
func printSchema(log *logrus.Logger, name string) {
	shape, ok := schema.Shapes()[name]
	if !ok {
		log.Panicf("Unknown config shape %q", name)
	}
	out, err := schema.JSONSchema(shape)
	if err != nil {
		log.Panic(err)
	}
	fmt.Println(string(out))
}

// setFormat stores edit format in the edit format config at <path> for assignment <inp> in format of model=format
func setFormat(log *logrus.Logger, path, inp string) {
	model, format, err := cli.SplitAssignment(inp)
	if err != nil {
		log.Panic(err)
	}
	if err := loader.SetModelFormat(path, model, format); err != nil {
		log.Panic(err)
	}
	color.New(color.FgGreen).Fprintf(os.Stderr, "%v now uses %v edit format in %v\n", model, format, path)
}

// printModelFormat prints edit format used for <model> according to edit format config at <path>
func printModelFormat(log *logrus.Logger, settings cfg.Root, path, model string) {
	load := loader.Cached(log, loader.Options[schema.FormatConfig]{
		Default:       schema.DefaultFormats(),
		Schema:        schema.FormatsValidator(),
		RemoteTimeout: settings.Loader.RemoteTimeout,
	}, settings.Cache.MaxSize)
	res := load(path)
	if !res.Success {
		log.WithField("path", path).Info("Using default edit formats")
	}

	format, found := res.Data.FormatFor(model)
	if !found {
		format = schema.DefaultEditFormat
	}
	w := tw.New()
	w.AppendHeader([]any{"Model", "Format"})
	w.AppendRow([]any{model, string(format)})
	w.Render()
}

// lint prints findings of every config at <paths> and returns true if there are none
func lint(log *logrus.Logger, settings cfg.Root, paths []string) bool {
	w := tw.New()
	w.AppendHeader([]any{"Path", "Reason"})
	clean := true
	for _, path := range paths {
		res := file.ReadURIText(path, settings.Loader.RemoteTimeout)
		if !res.Success {
			log.WithField("path", path).Warnf("Can not read config: %v", res.Err)
			continue
		}
		findings, err := yaml.Lint(res.Data, yaml.DefaultOptions())
		if err != nil {
			log.WithField("path", path).Warn(err)
			clean = false
			continue
		}
		for _, finding := range findings {
			w.AppendRow([]any{path + ": " + finding.Path, finding.Reason})
		}
		clean = clean && len(findings) == 0
	}
	if !clean {
		w.Render()
	} else {
		log.Info("No findings")
	}
	return clean
}

// watch prints intent routes of every path in <paths> on each change until interrupted
func watch(log *logrus.Logger, settings cfg.Root, paths []string) {
	opts := loader.Options[schema.IntentRoutes]{
		Schema:        schema.RoutesValidator(),
		RemoteTimeout: settings.Loader.RemoteTimeout,
	}
	watchers := []*loader.Watcher[schema.IntentRoutes]{}
	for _, path := range paths {
		pathOpts := opts
		pathOpts.Path = path
		watcher := loader.NewWatcher(log, pathOpts, settings.Loader.WatchInterval,
			func(res loader.LoadResult[schema.IntentRoutes]) {
				printStatus(path, res.Success)
				if res.Success {
					printRoutes(res.Data)
				}
			})
		if err := watcher.Start(); err != nil {
			log.Panic(err)
		}
		watchers = append(watchers, watcher)
	}

	done := make(chan struct{})
	sigint.ListenForSIGINT(func() {
		log.Info("Stopping")
		for _, watcher := range watchers {
			watcher.Stop()
		}
		close(done)
	})
	<-done
}
