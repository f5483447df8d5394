package storage

import (
	"path"
	"strings"
)

const tablesDir = "tables"

// Volumes are the path prefixes the cluster stores data under.
type Volumes []string

// Match returns the configured volume containing p.
func (v Volumes) Match(p string) (string, bool) {
	p = clean(p)
	for _, vol := range v {
		vol = clean(vol)
		if vol == "." || vol == "" {
			return "", true
		}
		if p == vol || strings.HasPrefix(p, vol+"/") {
			return vol, true
		}
	}
	return "", false
}

// TablesDir returns the directory holding per-table data on the volume
// that contains p.
func (v Volumes) TablesDir(p string) (string, bool) {
	vol, ok := v.Match(p)
	if !ok {
		return "", false
	}
	return path.Join(vol, tablesDir), true
}
