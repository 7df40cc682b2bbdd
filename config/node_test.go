package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSetGet(t *testing.T) {
	n := New()
	if err := n.Set("model.path", "weights.bin"); err != nil {
		t.Fatal(err)
	}
	if err := n.Set("workers", 3); err != nil {
		t.Fatal(err)
	}

	if got := n.GetString("model.path"); got != "weights.bin" {
		t.Errorf("model.path = %q", got)
	}
	if got := n.GetInt("workers"); got != 3 {
		t.Errorf("workers = %d", got)
	}
	if _, ok := n.Get("missing"); ok {
		t.Error("expected missing key to be absent")
	}
	if _, ok := n.Get("model.missing"); ok {
		t.Error("expected missing nested key to be absent")
	}
}

func TestInvalidKey(t *testing.T) {
	tests := []string{"1bad", "with-dash", "", "sp ace"}
	for _, key := range tests {
		t.Run(key, func(t *testing.T) {
			n := New()
			if err := n.Set(key, 1); err == nil {
				t.Errorf("expected error for key %q", key)
			}
		})
	}
}

func TestFromMapNesting(t *testing.T) {
	n, err := FromMap(map[string]any{
		"a": map[string]any{"b": map[string]any{"c": 42}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := n.GetInt("a.b.c"); got != 42 {
		t.Errorf("a.b.c = %d", got)
	}
	child, ok := n.Child("a.b")
	if !ok {
		t.Fatal("expected child node a.b")
	}
	if got := child.GetInt("c"); got != 42 {
		t.Errorf("child c = %d", got)
	}
}

func TestCloneIsolation(t *testing.T) {
	src := New()
	if err := src.Set("nested.value", 1); err != nil {
		t.Fatal(err)
	}
	if err := src.Set("list", []any{1, 2}); err != nil {
		t.Fatal(err)
	}

	clone := src.Clone()
	if err := clone.Set("nested.value", 99); err != nil {
		t.Fatal(err)
	}
	if err := clone.Set("nested.extra", "x"); err != nil {
		t.Fatal(err)
	}

	if got := src.GetInt("nested.value"); got != 1 {
		t.Errorf("source mutated through clone: %d", got)
	}
	if src.Has("nested.extra") {
		t.Error("source gained key added to clone")
	}
}

func TestCloneUnfreezes(t *testing.T) {
	src := New()
	src.Freeze(true)
	clone := src.Clone()
	if clone.IsFrozen() {
		t.Error("clone should be writable")
	}
}

func TestMergeOverride(t *testing.T) {
	base, err := FromMap(map[string]any{
		"a": 1,
		"sub": map[string]any{
			"keep":     "yes",
			"override": "old",
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	other, err := FromMap(map[string]any{
		"a": 2,
		"sub": map[string]any{
			"override": "new",
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := base.Merge(other); err != nil {
		t.Fatal(err)
	}
	if got := base.GetInt("a"); got != 2 {
		t.Errorf("a = %d, want 2", got)
	}
	if got := base.GetString("sub.keep"); got != "yes" {
		t.Errorf("sub.keep = %q", got)
	}
	if got := base.GetString("sub.override"); got != "new" {
		t.Errorf("sub.override = %q", got)
	}
}

func TestFreeze(t *testing.T) {
	n := New()
	if err := n.Set("sub.x", 1); err != nil {
		t.Fatal(err)
	}
	n.Freeze(true)

	if err := n.Set("y", 2); err == nil {
		t.Error("expected frozen set to fail")
	}
	sub, _ := n.Child("sub")
	if err := sub.Set("x", 3); err == nil {
		t.Error("expected frozen child set to fail")
	}

	n.Freeze(false)
	if err := n.Set("y", 2); err != nil {
		t.Errorf("unfrozen set failed: %v", err)
	}
}

func TestDelete(t *testing.T) {
	n := New()
	if err := n.Set("a.b", 1); err != nil {
		t.Fatal(err)
	}
	if err := n.Delete("a.b"); err != nil {
		t.Fatal(err)
	}
	if n.Has("a.b") {
		t.Error("key survived delete")
	}
	if err := n.Delete("a.b"); err == nil {
		t.Error("expected delete of missing key to fail")
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	src, err := FromMap(map[string]any{
		"name": "engine",
		"pool": map[string]any{
			"workers": 3,
			"scale":   1.5,
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	dump, err := src.Dump()
	if err != nil {
		t.Fatal(err)
	}
	back, err := ParseYAML([]byte(dump))
	if err != nil {
		t.Fatal(err)
	}

	if got := back.GetString("name"); got != "engine" {
		t.Errorf("name = %q", got)
	}
	if got := back.GetInt("pool.workers"); got != 3 {
		t.Errorf("pool.workers = %d", got)
	}
	if got := back.GetFloat("pool.scale"); got != 1.5 {
		t.Errorf("pool.scale = %v", got)
	}
}

func TestSaveAndOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yml")

	n := New()
	if err := n.Set("device.count", 4); err != nil {
		t.Fatal(err)
	}
	if err := n.SaveFile(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := loaded.GetInt("device.count"); got != 4 {
		t.Errorf("device.count = %d", got)
	}
}

func TestKeysSorted(t *testing.T) {
	n := New()
	for _, k := range []string{"zeta", "alpha", "mid"} {
		if err := n.Set(k, 1); err != nil {
			t.Fatal(err)
		}
	}
	keys := n.Keys()
	if strings.Join(keys, ",") != "alpha,mid,zeta" {
		t.Errorf("keys = %v", keys)
	}
}
