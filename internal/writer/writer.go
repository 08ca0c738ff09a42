// Package writer materializes compiled artifacts onto a filesystem:
// one output file per document, plus REF-BY-COPY assets copied
// verbatim into an assets directory alongside them.
package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/murkdown/murkdown/internal/artifact"
)

// AssetsDir is the directory, relative to an output root, that
// REF-BY-COPY assets are copied into.
const AssetsDir = "assets"

// Writer writes build artifacts to an afero.Fs rooted at OutputDir.
// Tests construct one over afero.NewMemMapFs(); cmd/build.go uses
// afero.NewOsFs().
type Writer struct {
	Fs        afero.Fs
	OutputDir string
}

// New returns a Writer rooted at outputDir on fs.
func New(fs afero.Fs, outputDir string) *Writer {
	return &Writer{Fs: fs, OutputDir: outputDir}
}

// Prepare ensures the output directory (and its assets subdirectory)
// exist, creating them if necessary.
func (w *Writer) Prepare() error {
	if err := w.Fs.MkdirAll(w.OutputDir, 0o755); err != nil {
		return fmt.Errorf("writer: create output dir %s: %w", w.OutputDir, err)
	}

	if err := w.Fs.MkdirAll(filepath.Join(w.OutputDir, AssetsDir), 0o755); err != nil {
		return fmt.Errorf("writer: create assets dir: %w", err)
	}

	return nil
}

// WriteDocument writes a compiled document's bytes to relPath under
// the output directory, creating any parent directories it needs.
func (w *Writer) WriteDocument(relPath string, a *artifact.Artifact) error {
	dest := filepath.Join(w.OutputDir, relPath)

	if err := w.Fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("writer: create parent dir for %s: %w", relPath, err)
	}

	if err := afero.WriteFile(w.Fs, dest, a.Bytes, 0o644); err != nil {
		return fmt.Errorf("writer: write %s: %w", relPath, err)
	}

	return nil
}

// WriteAsset materializes a REF-BY-COPY artifact under
// <output>/assets/<name>, copying from a.PathOnDisk when the artifact
// was never buffered into memory.
func (w *Writer) WriteAsset(a *artifact.Artifact) (string, error) {
	name := filepath.Base(a.Name)
	relPath := filepath.Join(AssetsDir, name)
	dest := filepath.Join(w.OutputDir, relPath)

	if a.Bytes != nil {
		if err := afero.WriteFile(w.Fs, dest, a.Bytes, 0o644); err != nil {
			return "", fmt.Errorf("writer: write asset %s: %w", name, err)
		}

		return relPath, nil
	}

	if a.PathOnDisk == "" {
		return "", fmt.Errorf("writer: asset %s has neither bytes nor a source path", a.Name)
	}

	if err := w.copyFile(a.PathOnDisk, dest); err != nil {
		return "", fmt.Errorf("writer: copy asset %s: %w", name, err)
	}

	return relPath, nil
}

func (w *Writer) copyFile(srcPath, destPath string) error {
	src, err := w.Fs.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dest, err := w.Fs.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer dest.Close()

	_, err = io.Copy(dest, src)

	return err
}
