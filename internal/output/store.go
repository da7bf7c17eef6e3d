// Package output persists per-document artifacts: the record JSON and,
// optionally, the raw acquired text.
package output

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/joseph-ayodele/lease-extractor/constants"
	"github.com/joseph-ayodele/lease-extractor/internal/common"
	"github.com/joseph-ayodele/lease-extractor/internal/fields"
)

type Store struct {
	outputDir string
	textDir   string // empty disables raw text output
	logger    *slog.Logger

	mu     sync.Mutex
	owners map[string]string // output key -> source that claimed it
}

func NewStore(outputDir, textDir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{outputDir: outputDir, textDir: textDir, logger: logger, owners: map[string]string{}}
}

// Claim reserves the output name of source for the lifetime of the store.
// Claiming again for the same source is fine; a different source mapping to
// the same name gets common.ErrDuplicateOutput.
func (s *Store) Claim(source string) error {
	key := constants.OutputKey(source)
	s.mu.Lock()
	defer s.mu.Unlock()
	if owner, ok := s.owners[key]; ok && owner != source {
		return common.KindError(common.ErrDuplicateOutput,
			fmt.Sprintf("%s writes the same record as %s", filepath.Base(source), filepath.Base(owner)), nil)
	}
	s.owners[key] = source
	return nil
}

// Prepare creates the output directories.
func (s *Store) Prepare() error {
	for _, dir := range []string{s.outputDir, s.textDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// RecordPath is where the record for source is written.
func (s *Store) RecordPath(source string) string {
	return filepath.Join(s.outputDir, constants.BaseName(source)+constants.RecordExt)
}

// WriteRecord writes <OutputDir>/<basename>.json, replacing any earlier file.
func (s *Store) WriteRecord(source string, rec fields.Record) (string, error) {
	b, err := rec.Encode()
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	path := s.RecordPath(source)
	if err := writeAtomic(path, b); err != nil {
		return "", err
	}
	s.logger.Debug("output.record.written", "path", path, "bytes", len(b))
	return path, nil
}

// WriteText saves raw text as <TextDir>/<basename>.txt. It is a no-op when no
// text directory is configured.
func (s *Store) WriteText(source, text string) (string, error) {
	if s.textDir == "" {
		return "", nil
	}
	path := filepath.Join(s.textDir, constants.BaseName(source)+constants.RawTextExt)
	if err := writeAtomic(path, []byte(text)); err != nil {
		return "", err
	}
	s.logger.Debug("output.text.written", "path", path, "bytes", len(text))
	return path, nil
}

// writeAtomic writes to a temp file in the target directory and renames it,
// so readers never see a partial file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp in %s: %w", dir, err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(name, 0o644); err != nil {
		_ = os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
