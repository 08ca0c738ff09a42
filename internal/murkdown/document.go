// Package murkdown wires the source parser, rule parser, path
// matcher, execution engine, subprocess runner, reference resolver
// and build graph together into one buildable project: given a set of
// ".mu" source files and a ruleset, it compiles every document and
// writes the result to an output directory.
package murkdown

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/murkdown/murkdown/internal/block"
	"github.com/murkdown/murkdown/internal/engine"
	"github.com/murkdown/murkdown/internal/murkerrs"
)

// SourceExt is the file extension Murkdown source documents use.
const SourceExt = ".mu"

// Document is one parsed source file, tracked through every pipeline
// stage by the scheduler's Load/Parse/Preprocess/Compile/Write tasks.
type Document struct {
	// ID identifies the document for src=/ref= resolution: its first
	// top-level directive's id= prop, or else Path as discovered with
	// the .mu extension stripped; directory components are kept, so it
	// is not just the file stem.
	ID string

	// Path is the source file's path on Fs.
	Path string

	// Dir is Path's containing directory, the working directory EXEC
	// commands in this document run from.
	Dir string

	Source string
	Root   *block.Root

	// State is this document's engine.State, shared across its own
	// Preprocess and Compile tasks.
	State *engine.State

	Output string
}

// Discover walks roots on fs, collecting every ".mu" file as a
// Document. A root that is itself a file is treated as a single
// document regardless of extension.
func Discover(fs afero.Fs, roots []string) ([]*Document, error) {
	var docs []*Document

	for _, root := range roots {
		info, err := fs.Stat(root)
		if err != nil {
			return nil, &murkerrs.IOError{Op: "load", Path: root, Err: err}
		}

		if !info.IsDir() {
			docs = append(docs, newDocument(root))
			continue
		}

		err = afero.Walk(fs, root, func(path string, fi afero.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if fi.IsDir() || filepath.Ext(path) != SourceExt {
				return nil
			}

			docs = append(docs, newDocument(path))

			return nil
		})
		if err != nil {
			return nil, &murkerrs.IOError{Op: "load", Path: root, Err: err}
		}
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })

	return docs, nil
}

func newDocument(path string) *Document {
	return &Document{
		Path:  path,
		Dir:   filepath.Dir(path),
		State: engine.NewState(),
	}
}

// Load reads the document's source bytes from fs.
func (d *Document) Load(fs afero.Fs) error {
	b, err := afero.ReadFile(fs, d.Path)
	if err != nil {
		return &murkerrs.IOError{Op: "load", Path: d.Path, Err: err}
	}

	d.Source = string(b)

	return nil
}

// ParseSource parses the document's source into a Block Tree,
// assigning its ID from the first top-level directive's id= prop when
// present, falling back to its path stripped of the ".mu" extension.
func (d *Document) ParseSource() error {
	root, warnings := block.Parse(d.Path, d.Source)
	for _, w := range warnings {
		if !w.Warning() {
			return w
		}
	}

	d.Root = root
	d.ID = idFor(d)

	return nil
}

func idFor(d *Document) string {
	if dir, ok := firstDirective(d.Root); ok {
		if id, ok := dir.Props.Get("id"); ok && id != "" {
			return id
		}
	}

	trimmed := strings.TrimSuffix(d.Path, SourceExt)

	return trimmed
}

func firstDirective(root *block.Root) (*block.Directive, bool) {
	if root == nil {
		return nil, false
	}

	for _, c := range root.Children {
		if dir, ok := c.(*block.Directive); ok {
			return dir, true
		}
	}

	return nil, false
}

// OutputPath returns the path, relative to an output root, this
// document's compiled artifact should be written to: its ID with the
// given extension.
func (d *Document) OutputPath(ext string) string {
	return fmt.Sprintf("%s%s", d.ID, ext)
}
