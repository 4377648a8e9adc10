package evidence

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ChromatinCloud/Arti-sub001/internal/cache"
	"github.com/ChromatinCloud/Arti-sub001/internal/model"
)

type stubSource struct {
	name   string
	bundle *model.EvidenceBundle
	err    error
	calls  atomic.Int32
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(_ context.Context, _ model.Variant, _ model.CancerContext) (*model.EvidenceBundle, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	if s.bundle == nil {
		return &model.EvidenceBundle{}, nil
	}
	return s.bundle, nil
}

func brafVariant() model.Variant {
	return model.Variant{
		Gene: "BRAF", Chromosome: "7", Position: 140753336,
		Ref: "A", Alt: "T", Consequence: model.ConsequenceMissense,
		ProteinChange: "p.Val600Glu", ProteinPosition: 600,
	}
}

func melanoma() model.CancerContext {
	return model.CancerContext{CancerType: "melanoma", Analysis: model.TumorNormal}
}

func TestCollector_MergesInRegistrationOrder(t *testing.T) {
	first := &stubSource{name: "gnomad", bundle: &model.EvidenceBundle{
		Population: &model.PopulationEvidence{
			Source:          model.SourceRef{Name: "gnomad", Version: "4.1"},
			AlleleFrequency: 0.0001,
		},
	}}
	second := &stubSource{name: "mirror", bundle: &model.EvidenceBundle{
		Population: &model.PopulationEvidence{
			Source:          model.SourceRef{Name: "mirror", Version: "old"},
			AlleleFrequency: 0.5,
		},
		Hotspot: &model.HotspotEvidence{
			Source:    model.SourceRef{Name: "mirror", Version: "old"},
			InHotspot: true,
		},
	}}

	c := NewCollector(model.CollectorConfig{Parallelism: 2}, first, second)
	b, err := c.Collect(context.Background(), brafVariant(), melanoma())
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	if b.SchemaVersion != BundleSchemaVersion {
		t.Errorf("expected schema %s, got %s", BundleSchemaVersion, b.SchemaVersion)
	}
	if b.Population == nil || b.Population.Source.Name != "gnomad" {
		t.Error("first-registered source must win the population category")
	}
	if b.Hotspot == nil || !b.Hotspot.InHotspot {
		t.Error("categories only the later source resolves must still merge")
	}
}

func TestCollector_TherapiesAccumulate(t *testing.T) {
	mk := func(name, therapy string) *stubSource {
		return &stubSource{name: name, bundle: &model.EvidenceBundle{
			Therapies: []model.TherapeuticEvidence{{
				Source:     model.SourceRef{Name: name},
				Therapy:    therapy,
				CancerType: "melanoma",
				Level:      model.LevelApproved,
			}},
		}}
	}

	c := NewCollector(model.CollectorConfig{Parallelism: 2}, mk("oncokb", "vemurafenib"), mk("civic", "dabrafenib"))
	b, err := c.Collect(context.Background(), brafVariant(), melanoma())
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if len(b.Therapies) != 2 {
		t.Errorf("expected therapies from both sources, got %d", len(b.Therapies))
	}
}

func TestCollector_SourceFailureIsAtomic(t *testing.T) {
	healthy := &stubSource{name: "gnomad"}
	broken := &stubSource{name: "clinvar", err: errors.New("snapshot truncated")}

	c := NewCollector(model.CollectorConfig{Parallelism: 2}, healthy, broken)
	_, err := c.Collect(context.Background(), brafVariant(), melanoma())
	if err == nil {
		t.Fatal("expected collection to fail when any source fails")
	}
	if !strings.Contains(err.Error(), "clinvar") {
		t.Errorf("error should name the failing source: %v", err)
	}
}

func TestCachedSource_SecondFetchHitsCache(t *testing.T) {
	inner := &stubSource{name: "gnomad", bundle: &model.EvidenceBundle{
		Population: &model.PopulationEvidence{
			Source:          model.SourceRef{Name: "gnomad", Version: "4.1"},
			AlleleFrequency: 0.0001,
		},
	}}
	src := NewCachedSource(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	b1, err := src.Fetch(context.Background(), brafVariant(), melanoma())
	if err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	b2, err := src.Fetch(context.Background(), brafVariant(), melanoma())
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}

	if got := inner.calls.Load(); got != 1 {
		t.Errorf("expected exactly one backing fetch, got %d", got)
	}

	// Cached copies must be isolated from each other.
	b1.Population.AlleleFrequency = 0.99
	if b2.Population.AlleleFrequency != 0.0001 {
		t.Error("cache hits must not alias earlier results")
	}
}

func TestFileSource_ServesSnapshots(t *testing.T) {
	v := brafVariant()
	snapshot := map[string]*model.EvidenceBundle{
		v.Key(): {
			Hotspot: &model.HotspotEvidence{
				Source:      model.SourceRef{Name: "cancerhotspots", Version: "2"},
				SampleCount: 120,
				InHotspot:   true,
			},
		},
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	path := filepath.Join(t.TempDir(), "hotspots.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	src, err := NewFileSource("cancerhotspots", path)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}

	b, err := src.Fetch(context.Background(), v, melanoma())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if b.Hotspot == nil || b.Hotspot.SampleCount != 120 {
		t.Error("known variant should resolve from the snapshot")
	}

	other := v
	other.Gene = "KRAS"
	b, err = src.Fetch(context.Background(), other, melanoma())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if b.Hotspot != nil {
		t.Error("unknown variant should yield an empty partial, not an error")
	}
}

func TestFileSource_RejectsMalformedSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	if _, err := NewFileSource("bad", path); err == nil {
		t.Error("expected an error for a malformed snapshot file")
	}
}
