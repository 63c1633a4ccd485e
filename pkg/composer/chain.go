package composer

import (
	"path/filepath"
)

// ManifestFile is the per-directory composer manifest.
const ManifestFile = "composer.json"

// Chain is the ancestry of composer manifests above a directory, nearest
// directory first. A chain holds at most one project, always the last entry.
type Chain []Context

// Find returns the first context of the given type.
func (c Chain) Find(typ string) (Context, bool) {
	for _, ctx := range c {
		if ctx.Type == typ {
			return ctx, true
		}
	}
	return Context{}, false
}

// Project returns the root project of the chain, if one was reached.
func (c Chain) Project() (Context, bool) {
	return c.Find(TypeProject)
}

// CollectChain collects the composer manifests in start and all of its
// parent directories. The walk stops after the first project manifest or at
// the filesystem root. An empty chain means no manifest was found at all;
// callers decide how to report that.
//
// A manifest that exists but cannot be parsed aborts the walk with an error.
func CollectChain(start string) (Chain, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, err
	}

	var chain Chain
	for {
		if fileExists(manifestPath(dir)) {
			ctx, err := ReadContext(dir)
			if err != nil {
				return nil, err
			}
			chain = append(chain, ctx)
			if ctx.IsProject() {
				return chain, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == "" || parent == dir {
			return chain, nil
		}
		dir = parent
	}
}

func manifestPath(dir string) string {
	return filepath.Join(dir, ManifestFile)
}
