// Package ingest discovers contract files: a one-shot directory scan for batch
// runs and an fsnotify watcher for the daemon.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joseph-ayodele/lease-extractor/constants"
)

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned    uint32 // directory entries seen
	Matched    uint32 // files with an allowed extension
	Hidden     uint32
	Skipped    uint32 // subdirectories and unsupported extensions
	Duplicates uint32 // matched files whose output name another file owns
}

// Scan is the listing of one input directory.
type Scan struct {
	Paths []string // every matched file, sorted by name
	// Duplicates maps a matched path to the path that owns its output name.
	Duplicates map[string]string
	Stats      DirStats
}

// Owner reports which file owns the output name of path, if not path itself.
func (s Scan) Owner(path string) (string, bool) {
	owner, ok := s.Duplicates[path]
	return owner, ok
}

// ScanDirectory lists the supported files directly under root, sorted by name.
// Subdirectories are not descended into. Hidden entries are skipped.
func ScanDirectory(root string) (Scan, error) {
	var scan Scan
	if strings.TrimSpace(root) == "" {
		return scan, fmt.Errorf("input directory is required")
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return scan, fmt.Errorf("read dir %s: %w", root, err)
	}

	for _, e := range entries {
		scan.Stats.Scanned++
		switch {
		case IsHidden(e.Name()):
			scan.Stats.Hidden++
		case e.IsDir() || !AllowedExt(filepath.Ext(e.Name())):
			scan.Stats.Skipped++
		default:
			scan.Stats.Matched++
			scan.Paths = append(scan.Paths, filepath.Join(root, e.Name()))
		}
	}
	sort.Strings(scan.Paths)
	scan.Duplicates = Duplicates(scan.Paths)
	scan.Stats.Duplicates = uint32(len(scan.Duplicates))
	return scan, nil
}

// Duplicates finds paths that would write the same output as another path.
// A PDF owns the name over a text file; otherwise the first path in order
// does. The result maps each losing path to its owner.
func Duplicates(paths []string) map[string]string {
	owner := make(map[string]string, len(paths))
	for _, p := range paths {
		key := constants.OutputKey(p)
		cur, ok := owner[key]
		if !ok || (isPDF(p) && !isPDF(cur)) {
			owner[key] = p
		}
	}
	dups := map[string]string{}
	for _, p := range paths {
		if o := owner[constants.OutputKey(p)]; o != p {
			dups[p] = o
		}
	}
	return dups
}

func isPDF(path string) bool {
	return constants.MapExtToFormat(filepath.Ext(path)) == constants.PDF
}
