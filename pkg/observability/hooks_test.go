package observability

import (
	"testing"
	"time"
)

type recordingPipelineHooks struct {
	started   []string
	completed []string
}

func (r *recordingPipelineHooks) StageStarted(stage string) {
	r.started = append(r.started, stage)
}

func (r *recordingPipelineHooks) StageCompleted(stage string, d time.Duration, err error) {
	r.completed = append(r.completed, stage)
}

type recordingCacheHooks struct {
	hits, misses int
}

func (r *recordingCacheHooks) CacheHit(string)  { r.hits++ }
func (r *recordingCacheHooks) CacheMiss(string) { r.misses++ }

func TestDefaultHooksAreNoops(t *testing.T) {
	// Should not panic.
	Pipeline().StageStarted("layout")
	Pipeline().StageCompleted("layout", time.Millisecond, nil)
	Cache().CacheHit("k")
	Cache().CacheMiss("k")
}

func TestSetPipelineHooks(t *testing.T) {
	rec := &recordingPipelineHooks{}
	SetPipelineHooks(rec)
	defer SetPipelineHooks(nil)

	Pipeline().StageStarted("render")
	Pipeline().StageCompleted("render", time.Second, nil)

	if len(rec.started) != 1 || rec.started[0] != "render" {
		t.Errorf("started = %v, want [render]", rec.started)
	}
	if len(rec.completed) != 1 || rec.completed[0] != "render" {
		t.Errorf("completed = %v, want [render]", rec.completed)
	}
}

func TestSetCacheHooks(t *testing.T) {
	rec := &recordingCacheHooks{}
	SetCacheHooks(rec)
	defer SetCacheHooks(nil)

	Cache().CacheHit("a")
	Cache().CacheMiss("b")
	Cache().CacheMiss("c")

	if rec.hits != 1 || rec.misses != 2 {
		t.Errorf("hits=%d misses=%d, want 1 and 2", rec.hits, rec.misses)
	}
}

func TestSetNilRestoresNoop(t *testing.T) {
	rec := &recordingPipelineHooks{}
	SetPipelineHooks(rec)
	SetPipelineHooks(nil)

	Pipeline().StageStarted("x")
	if len(rec.started) != 0 {
		t.Error("nil registration should restore the no-op hooks")
	}
}
