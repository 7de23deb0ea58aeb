package loader

import (
	"tachikoma_config/util/copier"
	"tachikoma_config/util/memo"

	"github.com/alitto/pond"
	"github.com/sirupsen/logrus"
)

// DefaultCacheSize represents default amount of configs kept by Cached
const DefaultCacheSize = 32

// Cached returns function which loads config at given path with <opts> once and then returns the cached result.
//
// Up to <maxSize> paths are kept, the oldest loaded is evicted first. Values <= 0 mean DefaultCacheSize.
//
// Every call returns a deep copy of the cached result, so callers can not modify the cache.
func Cached[T any](log *logrus.Logger, opts Options[T], maxSize int) func(path string) LoadResult[T] {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	load := func(path string) LoadResult[T] {
		pathOpts := opts
		pathOpts.Path = path
		return Load(log, pathOpts)
	}
	cached := memo.Memoize(load, memo.Options[string]{
		MaxSize:      maxSize,
		KeyGenerator: func(path string) string { return path },
	})
	return func(path string) LoadResult[T] {
		return copier.Clone(cached(path))
	}
}

// LoadAll returns configs loaded with <opts> from every path in <paths> using up to <workers> concurrent loads.
//
// Results are in the same order as <paths>.
func LoadAll[T any](log *logrus.Logger, workers int, opts Options[T], paths ...string) []LoadResult[T] {
	out := make([]LoadResult[T], len(paths))
	if len(paths) == 0 {
		return out
	}

	pool := pond.New(max(workers, 1), 0, pond.MinWorkers(0))
	for idx, path := range paths {
		pool.Submit(func() {
			pathOpts := opts
			pathOpts.Path = path
			out[idx] = Load(log, pathOpts)
		})
	}
	pool.StopAndWait()

	return out
}
