package store

import (
	"context"
	"math"
	"testing"

	"github.com/cdyellick/ponte/pkg/chartfile"
	"github.com/cdyellick/ponte/pkg/errors"
)

func sampleDefinition(title string) chartfile.Definition {
	return chartfile.Definition{
		Title:    title,
		Segments: []string{"Start", "Delta", "End"},
		Totals:   []bool{true, false, true},
		Layers: []chartfile.LayerDef{
			{Values: []float64{100, 20, 120}},
		},
	}
}

func TestMemoryStoreSaveAssignsID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	chart := &StoredChart{Definition: sampleDefinition("Cash")}
	if err := s.Save(ctx, chart); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if chart.ID == "" {
		t.Fatal("Save should assign an ID")
	}
	if chart.CreatedAt.IsZero() || chart.UpdatedAt.IsZero() {
		t.Error("Save should set timestamps")
	}

	got, err := s.Get(ctx, chart.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Definition.Title != "Cash" {
		t.Errorf("Title = %q, want Cash", got.Definition.Title)
	}
}

func TestMemoryStoreSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	chart := &StoredChart{Definition: sampleDefinition("v1")}
	if err := s.Save(ctx, chart); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	created := chart.CreatedAt

	chart.Definition.Title = "v2"
	if err := s.Save(ctx, chart); err != nil {
		t.Fatalf("second Save error: %v", err)
	}

	got, err := s.Get(ctx, chart.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Definition.Title != "v2" {
		t.Errorf("Title = %q, want v2", got.Definition.Title)
	}
	if !got.CreatedAt.Equal(created) {
		t.Error("replacing a chart should preserve CreatedAt")
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get(context.Background(), "nope")
	if err == nil {
		t.Fatal("Get of missing chart should error")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeChartNotFound {
		t.Errorf("code = %v, want ErrCodeChartNotFound", code)
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, title := range []string{"a", "b", "c"} {
		if err := s.Save(ctx, &StoredChart{Definition: sampleDefinition(title)}); err != nil {
			t.Fatalf("Save %s error: %v", title, err)
		}
	}

	charts, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(charts) != 3 {
		t.Fatalf("List returned %d charts, want 3", len(charts))
	}
	for i := 1; i < len(charts); i++ {
		if charts[i].CreatedAt.Before(charts[i-1].CreatedAt) {
			t.Error("List should order by creation time")
		}
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	chart := &StoredChart{Definition: sampleDefinition("gone")}
	if err := s.Save(ctx, chart); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := s.Delete(ctx, chart.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := s.Get(ctx, chart.ID); errors.GetCode(err) != errors.ErrCodeChartNotFound {
		t.Error("Get after Delete should report ErrCodeChartNotFound")
	}
	if err := s.Delete(ctx, chart.ID); errors.GetCode(err) != errors.ErrCodeChartNotFound {
		t.Error("second Delete should report ErrCodeChartNotFound")
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	chart := &StoredChart{Definition: sampleDefinition("iso")}
	if err := s.Save(ctx, chart); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := s.Get(ctx, chart.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	got.Definition.Title = "mutated"

	again, err := s.Get(ctx, chart.ID)
	if err != nil {
		t.Fatalf("second Get error: %v", err)
	}
	if again.Definition.Title != "iso" {
		t.Error("mutating a returned chart should not affect the store")
	}
}

func TestStoredChartPreservesGaps(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	def := sampleDefinition("gaps")
	def.Layers[0].Values = []float64{100, math.NaN(), 120}
	chart := &StoredChart{Definition: def}
	if err := s.Save(ctx, chart); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := s.Get(ctx, chart.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !math.IsNaN(got.Definition.Layers[0].Values[1]) {
		t.Error("gap value should survive a store round trip")
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if a == "" || a == b {
		t.Errorf("NewID should produce unique non-empty IDs, got %q and %q", a, b)
	}
}
