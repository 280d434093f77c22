// Package observability defines hook interfaces for instrumenting the
// rendering pipeline without coupling it to a metrics backend.
//
// All hooks default to no-ops. Applications that want metrics register
// implementations at startup; library code calls the accessor functions and
// never pays attention to whether anything is listening.
package observability

import (
	"sync"
	"time"
)

// PipelineHooks receives pipeline lifecycle events.
type PipelineHooks interface {
	// StageStarted is called when a pipeline stage begins.
	StageStarted(stage string)

	// StageCompleted is called when a pipeline stage finishes.
	StageCompleted(stage string, duration time.Duration, err error)
}

// CacheHooks receives cache access events.
type CacheHooks interface {
	// CacheHit is called when a key is found.
	CacheHit(key string)

	// CacheMiss is called when a key is absent or expired.
	CacheMiss(key string)
}

type noopPipelineHooks struct{}

func (noopPipelineHooks) StageStarted(string)                         {}
func (noopPipelineHooks) StageCompleted(string, time.Duration, error) {}

type noopCacheHooks struct{}

func (noopCacheHooks) CacheHit(string)  {}
func (noopCacheHooks) CacheMiss(string) {}

var (
	mu            sync.RWMutex
	pipelineHooks PipelineHooks = noopPipelineHooks{}
	cacheHooks    CacheHooks    = noopCacheHooks{}
)

// SetPipelineHooks registers pipeline hooks. Passing nil restores the no-op.
func SetPipelineHooks(h PipelineHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = noopPipelineHooks{}
	}
	pipelineHooks = h
}

// SetCacheHooks registers cache hooks. Passing nil restores the no-op.
func SetCacheHooks(h CacheHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = noopCacheHooks{}
	}
	cacheHooks = h
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	mu.RLock()
	defer mu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cacheHooks
}
