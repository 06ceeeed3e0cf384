package aggregate

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Collect returns the script files under root/subpath in lexical order.
// Hidden entries are skipped when configured; symbolic links to files are
// followed when configured, each target at most once. Symbolic links to
// directories are never descended into. Unreadable subdirectories are logged
// and skipped; only a missing or unreadable starting directory is an error.
func (a *Aggregator) Collect(root, subpath string) ([]string, error) {
	dir := filepath.Join(root, subpath)

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Path: dir, Message: "directory not found", Cause: err}
		}
		return nil, &LoadError{Path: dir, Message: "failed to access directory", Cause: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{Path: dir, Message: "not a directory"}
	}

	var files []string
	linked := make(map[string]bool)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			a.logger.Warn("Skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if a.cfg.Aggregate.SkipHidden && path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			if !a.cfg.Aggregate.FollowSymlinks {
				return nil
			}
			target, err := os.Stat(path)
			if err != nil {
				a.logger.Warn("Skipping broken symlink", "path", path, "error", err)
				return nil
			}
			if !target.Mode().IsRegular() || !a.hasValidExtension(path) {
				return nil
			}
			real, err := filepath.EvalSymlinks(path)
			if err != nil {
				a.logger.Warn("Skipping unresolvable symlink", "path", path, "error", err)
				return nil
			}
			if linked[real] {
				return nil
			}
			linked[real] = true
			files = append(files, path)
			return nil
		}

		if !d.Type().IsRegular() || !a.hasValidExtension(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, &LoadError{Path: dir, Message: "failed to walk directory", Cause: err}
	}

	return files, nil
}

// hasValidExtension reports whether path has one of the configured extensions.
// Matching is case-insensitive.
func (a *Aggregator) hasValidExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, valid := range a.cfg.Aggregate.Extensions {
		if ext == strings.ToLower(valid) {
			return true
		}
	}
	return false
}
