package murkdown

import (
	"path/filepath"
	"strings"

	"github.com/murkdown/murkdown/internal/artifact"
	"github.com/murkdown/murkdown/internal/block"
	"github.com/murkdown/murkdown/internal/ref"
)

// copyJob is a pending REF-BY-COPY obligation: an asset file on disk
// that must be copied into the output tree's assets directory rather
// than inlined, because its src= value never matches a published
// artifact id.
type copyJob struct {
	SourcePath string
	Name       string
}

// publishExecArtifacts registers every stack a document's EXEC
// commands populated as an artifact addressable as "exec:<name>", so a
// downstream src="exec:name" reference can inline it. Must run after
// Engine.Preprocess, which is what actually runs EXEC. Only names
// recorded in State.ExecMedia come from an actual EXEC "TO media AS
// name" call — other stacks (a ruleset's own PUSH/POP bookkeeping,
// e.g. "tabid") are not publishable artifacts and are left alone. The
// artifact's media is the one the rule author declared in the EXEC
// clause, not the document's own produce media.
func publishExecArtifacts(d *Document, resolver *ref.Resolver) {
	for name, media := range d.State.ExecMedia {
		items := d.State.Stacks[name]
		if len(items) == 0 {
			continue
		}

		resolver.Publish("exec:"+name, &artifact.Artifact{
			Name:      "exec:" + name,
			MediaType: media,
			Bytes:     []byte(strings.Join(items, "")),
		})
	}
}

// resolveReferences walks a document's tree, splicing any src=
// reference that resolves to a published artifact (another document,
// or an "exec:" result) directly into the tree as literal text, and
// collecting a copyJob for any src= that does not resolve — per
// [REF-BY-COPY semantics, spec.md §4.D] an unresolved src= always
// names a file on disk to be copied rather than an unknown id, since
// recognized ids are always either a document's own id= prop or an
// "exec:" artifact. A bare ref= is validated (and checked for cycles)
// but never spliced, matching its non-inlining "pointer" semantics.
func resolveReferences(d *Document, resolver *ref.Resolver, mediaType string) ([]copyJob, error) {
	var jobs []copyJob

	chain := ref.NewChain()

	var walk func(n block.Node) (block.Node, error)

	walk = func(n block.Node) (block.Node, error) {
		switch v := n.(type) {
		case *block.Directive:
			spliced, job, err := resolveNode(d, v.Props, resolver, mediaType, chain)
			if err != nil {
				return nil, err
			}

			if spliced != nil {
				return spliced, nil
			}

			if job != nil {
				jobs = append(jobs, *job)
			}

			if err := walkChildren(v.Children, walk); err != nil {
				return nil, err
			}

			return v, nil

		case *block.Section:
			if err := walkChildren(v.Children, walk); err != nil {
				return nil, err
			}

			return v, nil

		default:
			return n, nil
		}
	}

	if err := walkChildren(d.Root.Children, walk); err != nil {
		return nil, err
	}

	return jobs, nil
}

func walkChildren(children []block.Node, walk func(block.Node) (block.Node, error)) error {
	for i, c := range children {
		nc, err := walk(c)
		if err != nil {
			return err
		}

		children[i] = nc
	}

	return nil
}

// resolveNode resolves the src=/ref= props on one node. It returns a
// non-nil replacement node when src= was spliced, a non-nil copyJob
// when src= named an unresolved filesystem asset, or both nil when the
// node carries neither prop.
func resolveNode(
	d *Document, props *block.Props, resolver *ref.Resolver, mediaType string, chain *ref.Chain,
) (block.Node, *copyJob, error) {
	if props == nil {
		return nil, nil, nil
	}

	if refID, ok := props.Get("ref"); ok && refID != "" {
		if _, err := resolver.Resolve(refID, d.ID, "", chain); err != nil {
			return nil, nil, err
		}
	}

	srcID, ok := props.Get("src")
	if !ok || srcID == "" {
		return nil, nil, nil
	}

	if _, ok := resolver.Lookup(srcID); ok {
		spliced, err := resolver.Splice(srcID, d.ID, mediaType, chain)
		if err != nil {
			return nil, nil, err
		}

		return &block.Line{Text: string(spliced.Bytes)}, nil, nil
	}

	return nil, &copyJob{SourcePath: filepath.Join(d.Dir, srcID), Name: filepath.Base(srcID)}, nil
}

// assetArtifact turns a copyJob into the artifact.Artifact shape
// writer.Writer.WriteAsset expects: a disk-backed, unbuffered asset.
func assetArtifact(j copyJob) *artifact.Artifact {
	return &artifact.Artifact{Name: j.Name, PathOnDisk: j.SourcePath}
}
