// Package discovery finds exercise videos in a dataset tree.
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/five82/vidsift/internal/util"
)

// DiscoveryLogger defines the interface for discovery logging.
type DiscoveryLogger interface {
	Info(format string, args ...any)
	Debug(format string, args ...any)
}

// Group is the set of videos directly inside one directory. The directory's
// base name is the exercise label.
type Group struct {
	Dir      string
	RelDir   string
	Exercise string
	Files    []string
}

// DiscoveryResult contains the results of file discovery with metadata.
type DiscoveryResult struct {
	Root         string
	Groups       []Group
	SkippedCount int
	Errors       []error
}

// TotalFiles returns the number of videos across all groups.
func (r *DiscoveryResult) TotalFiles() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Files)
	}
	return n
}

// FindVideoGroups walks inputDir and groups video files by containing
// directory. Groups are ordered by relative directory path and files by
// name. Hidden files and directories are skipped, as is any directory listed
// in exclude. Symlinked video files are followed. Unreadable subdirectories
// are recorded in Errors and skipped. A missing or non-directory inputDir is
// an error.
func FindVideoGroups(inputDir string, exclude ...string) (*DiscoveryResult, error) {
	info, err := os.Stat(inputDir)
	if err != nil {
		return nil, fmt.Errorf("directory does not exist: %s", inputDir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", inputDir)
	}

	root, err := filepath.Abs(inputDir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve %s: %w", inputDir, err)
	}

	skipDirs := make(map[string]bool, len(exclude))
	for _, dir := range exclude {
		if abs, err := filepath.Abs(dir); err == nil && abs != root {
			skipDirs[abs] = true
		}
	}

	result := &DiscoveryResult{Root: root}
	byDir := make(map[string]*Group)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			result.Errors = append(result.Errors, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		if path != root && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if skipDirs[path] {
				return filepath.SkipDir
			}
			return nil
		}

		if !isRegularFile(path, d) || !util.HasVideoExtension(name) {
			result.SkippedCount++
			return nil
		}

		dir := filepath.Dir(path)
		g, ok := byDir[dir]
		if !ok {
			rel, err := filepath.Rel(root, dir)
			if err != nil {
				return err
			}
			g = &Group{Dir: dir, RelDir: rel, Exercise: filepath.Base(dir)}
			byDir[dir] = g
		}
		g.Files = append(g.Files, path)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("cannot read directory %s: %w", inputDir, walkErr)
	}

	for _, g := range byDir {
		sort.Slice(g.Files, func(i, j int) bool {
			return filepath.Base(g.Files[i]) < filepath.Base(g.Files[j])
		})
		result.Groups = append(result.Groups, *g)
	}
	sort.Slice(result.Groups, func(i, j int) bool {
		return filepath.ToSlash(result.Groups[i].RelDir) < filepath.ToSlash(result.Groups[j].RelDir)
	})

	return result, nil
}

// isRegularFile reports whether d is a regular file or a symlink to one.
func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// FindVideoGroupsWithLogging finds video groups and logs discovery progress.
func FindVideoGroupsWithLogging(inputDir string, logger DiscoveryLogger, exclude ...string) (*DiscoveryResult, error) {
	result, err := FindVideoGroups(inputDir, exclude...)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logDiscoveredGroups(result, logger)
	}
	return result, nil
}

// logDiscoveredGroups logs a count summary plus one line per group.
func logDiscoveredGroups(result *DiscoveryResult, logger DiscoveryLogger) {
	if len(result.Groups) == 0 {
		logger.Info("No video files found")
		return
	}

	logger.Info("Found %d video file(s) in %d exercise folder(s)", result.TotalFiles(), len(result.Groups))

	for _, g := range result.Groups {
		logger.Debug("  %s: %d file(s)", g.RelDir, len(g.Files))
	}

	if result.SkippedCount > 0 {
		logger.Debug("  skipped %d non-video file(s)", result.SkippedCount)
	}
	for _, err := range result.Errors {
		logger.Info("Skipped unreadable path: %v", err)
	}
}
