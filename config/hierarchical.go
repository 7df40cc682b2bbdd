package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// BaseKey names the file a YAML config inherits from. The value is
// resolved relative to the referring file first, then as an absolute
// path. Keys in the referring file override inherited ones.
const BaseKey = "__BASE__"

// OpenHierarchical builds a Node from a YAML file, following BaseKey
// references through any number of levels. Inheritance chains that loop
// back on themselves are an error.
func OpenHierarchical(path string) (*Node, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolving %s: %w", path, err)
	}

	visited := make(map[string]bool)
	var chain []*Node

	for {
		if visited[abs] {
			return nil, fmt.Errorf("config: inheritance loop at %s", abs)
		}
		visited[abs] = true

		node, err := OpenFile(abs)
		if err != nil {
			return nil, err
		}
		chain = append(chain, node)

		if !node.Has(BaseKey) {
			break
		}
		base := node.GetString(BaseKey)

		next := filepath.Join(filepath.Dir(abs), base)
		if _, err := os.Stat(next); err != nil {
			if _, absErr := os.Stat(base); absErr != nil {
				return nil, fmt.Errorf("config: %s %q in %s not found", BaseKey, base, abs)
			}
			next = base
		}
		if abs, err = filepath.Abs(next); err != nil {
			return nil, fmt.Errorf("config: resolving %s: %w", next, err)
		}
	}

	// fold from the deepest base upward, later files overriding
	result := chain[len(chain)-1]
	for i := len(chain) - 2; i >= 0; i-- {
		overlay := chain[i]
		if overlay.Has(BaseKey) {
			if err := overlay.Delete(BaseKey); err != nil {
				return nil, err
			}
		}
		if err := result.Merge(overlay); err != nil {
			return nil, err
		}
	}
	return result, nil
}
