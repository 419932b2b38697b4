package memory

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/scorelect/drillboard/internal/util"
	"github.com/scorelect/drillboard/pkg/core"
)

const (
	jsonExt = ".json"
	gzipExt = ".json.gz"
)

// snapshotPath returns the file a document is written to.
func (b *Backend) snapshotPath(id string) string {
	ext := jsonExt
	if b.cfg.CompressOutput {
		ext = gzipExt
	}
	return filepath.Join(b.cfg.OutputDir, util.SanitizeFilename(id)+ext)
}

func (b *Backend) writeSnapshot(doc *core.Document) error {
	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := b.snapshotPath(doc.ID)
	tmp := path + ".tmp"
	var err error
	if b.cfg.CompressOutput {
		err = writeGzipJSON(tmp, doc)
	} else {
		err = writeJSON(tmp, doc)
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	// a document saved under the other compression setting leaves a stale copy
	return removeIfExists(b.otherPath(doc.ID))
}

func (b *Backend) otherPath(id string) string {
	name := util.SanitizeFilename(id)
	if b.cfg.CompressOutput {
		return filepath.Join(b.cfg.OutputDir, name+jsonExt)
	}
	return filepath.Join(b.cfg.OutputDir, name+gzipExt)
}

func (b *Backend) removeSnapshot(id string) error {
	name := util.SanitizeFilename(id)
	for _, ext := range []string{jsonExt, gzipExt} {
		if err := removeIfExists(filepath.Join(b.cfg.OutputDir, name+ext)); err != nil {
			return err
		}
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// readSnapshots decodes every .json and .json.gz file in the output directory.
func (b *Backend) readSnapshots() ([]*core.Document, error) {
	entries, err := os.ReadDir(b.cfg.OutputDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	var docs []*core.Document
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !(strings.HasSuffix(name, jsonExt) || strings.HasSuffix(name, gzipExt)) {
			continue
		}
		doc, err := readSnapshot(filepath.Join(b.cfg.OutputDir, name))
		if err != nil {
			return nil, err
		}
		if doc.ID == "" {
			doc.ID = strings.TrimSuffix(strings.TrimSuffix(name, gzipExt), jsonExt)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func readSnapshot(path string) (*core.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, gzipExt) {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip snapshot %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	var doc core.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	return &doc, nil
}

func writeJSON(path string, doc *core.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func writeGzipJSON(path string, doc *core.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	if err := json.NewEncoder(gzWriter).Encode(doc); err != nil {
		gzWriter.Close()
		return err
	}
	return gzWriter.Close()
}
