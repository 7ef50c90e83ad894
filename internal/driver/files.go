package driver

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"stylint/internal/config"
)

// Extensions lists the file suffixes picked up when walking directories.
var Extensions = []string{".js", ".mjs", ".cjs", ".jsx"}

func isSource(path string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(path)))
}

// CollectFiles expands paths into a sorted, duplicate-free list of files.
// Directories are walked recursively; hidden directories and paths matching
// cfg's ignore patterns are skipped. Files named explicitly are always kept.
func CollectFiles(paths []string, cfg *config.File) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, filepath.Clean(root))
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != root && ignored(path, d, cfg) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && isSource(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	// Сортируем для детерминированного порядка
	slices.Sort(files)
	return slices.Compact(files), nil
}

func ignored(path string, d fs.DirEntry, cfg *config.File) bool {
	if d.IsDir() && strings.HasPrefix(d.Name(), ".") {
		return true
	}
	if cfg == nil || len(cfg.Ignore) == 0 {
		return false
	}
	rel := path
	if root := cfg.Root(); root != "" {
		abs, err := filepath.Abs(path)
		if err == nil {
			if r, err := filepath.Rel(root, abs); err == nil && !strings.HasPrefix(r, "..") {
				rel = r
			}
		}
	}
	return cfg.Ignored(rel)
}
