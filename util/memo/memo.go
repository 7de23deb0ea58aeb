// Package memo caches results of pure functions.
package memo

import (
	"fmt"
	"sync"
	"time"

	json "github.com/SCP002/jsonexraw"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DefaultMaxSize represents default amount of cached results
const DefaultMaxSize = 100

// Options represents Memoize settings
type Options[A any] struct {
	// MaxSize represents maximum amount of cached results. Values <= 0 mean DefaultMaxSize.
	MaxSize int

	// KeyGenerator returns cache key for the argument. JSON encoding of the argument is used if nil.
	KeyGenerator func(A) string
}

// entry represents cached result
type entry[R any] struct {
	value     R
	timestamp time.Time
}

// Memoize returns wrapped <fn> which caches results by key of the argument.
//
// Cached results never expire. When cache is full, the oldest inserted entry is evicted, even if it was read
// recently: a cache hit does not change eviction order (FIFO, not LRU).
//
// Returned function is safe for concurrent use. <fn> may run more than once for the same key if called
// concurrently, but only one result per key is kept.
func Memoize[A, R any](fn func(A) R, opts Options[A]) func(A) R {
	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	keyOf := opts.KeyGenerator
	if keyOf == nil {
		keyOf = jsonKey[A]
	}

	var mut sync.Mutex
	cache := orderedmap.New[string, entry[R]]()

	return func(arg A) R {
		key := keyOf(arg)

		mut.Lock()
		if cached, ok := cache.Get(key); ok {
			mut.Unlock()
			return cached.value
		}
		mut.Unlock()

		value := fn(arg)

		mut.Lock()
		defer mut.Unlock()
		// Computed concurrently by another caller
		if cached, ok := cache.Get(key); ok {
			return cached.value
		}
		if cache.Len() >= maxSize {
			if oldest := cache.Oldest(); oldest != nil {
				cache.Delete(oldest.Key)
			}
		}
		cache.Set(key, entry[R]{value: value, timestamp: time.Now()})
		return value
	}
}

// jsonKey returns JSON encoding of <arg> or it's Go representation if encoding fails
func jsonKey[A any](arg A) string {
	bytes, err := json.Marshal(arg)
	if err != nil {
		return fmt.Sprintf("%#v", arg)
	}
	return string(bytes)
}
