package cache

import (
	"os"
	"testing"
	"time"
)

func TestKey_StableAndDistinct(t *testing.T) {
	a := Key("gnomad", "BRAF:7:140753336:A>T")
	b := Key("gnomad", "BRAF:7:140753336:A>T")
	if a != b {
		t.Errorf("same components must produce the same key: %s vs %s", a, b)
	}

	c := Key("clinvar", "BRAF:7:140753336:A>T")
	if a == c {
		t.Error("different sources must produce different keys")
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	dc := NewDiskCache(t.TempDir(), time.Hour)

	if err := dc.Set(Key("gnomad", "k1"), []byte("snapshot"), 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, found := dc.Get(Key("gnomad", "k1"))
	if !found {
		t.Fatal("expected a hit after set")
	}
	if string(val) != "snapshot" {
		t.Errorf("expected snapshot, got %s", val)
	}

	if _, found := dc.Get(Key("gnomad", "k2")); found {
		t.Error("unexpected hit for a key never set")
	}
}

func TestDiskCache_ExpiredEntriesAreDropped(t *testing.T) {
	dc := NewDiskCache(t.TempDir(), time.Hour)

	if err := dc.Set("k", []byte("stale"), -time.Second); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if _, found := dc.Get("k"); found {
		t.Error("expected expired entry to miss")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	first := NewLayeredCache(time.Hour, dir, time.Hour)
	if err := first.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	// A fresh layered cache over the same directory has a cold memory
	// layer; the first Get must come from disk and be promoted.
	second := NewLayeredCache(time.Hour, dir, time.Hour)
	if val, found := second.Get("k"); !found || string(val) != "v" {
		t.Fatalf("expected disk hit, got found=%v val=%s", found, val)
	}

	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("remove cache dir: %v", err)
	}
	if _, found := second.Get("k"); !found {
		t.Error("expected memory hit after promotion")
	}
}
