package murkdown

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/murkdown/murkdown/internal/artifact"
	"github.com/murkdown/murkdown/internal/graph"
)

// taskExecutor dispatches a graph.Task to the Project component that
// performs its stage. Load and Parse are already done by the time the
// scheduler runs: Build must parse every document up front in order to
// compute the src=/ref= dependency edges the graph itself needs, so
// those two stages here only confirm that earlier work succeeded.
type taskExecutor struct {
	project *Project
	fs      afero.Fs
}

func (x *taskExecutor) Execute(ctx context.Context, t *graph.Task) error {
	d, ok := x.project.Docs[t.DocID]
	if !ok {
		return fmt.Errorf("murkdown: unknown document %q", t.DocID)
	}

	switch t.Kind {
	case graph.KindLoad, graph.KindParse:
		return x.checkParsed(d)
	case graph.KindPreprocess:
		return x.preprocess(ctx, d)
	case graph.KindCompile:
		return x.compile(ctx, d)
	case graph.KindWrite:
		return x.write(d)
	default:
		return fmt.Errorf("murkdown: unknown task kind %q", t.Kind)
	}
}

func (x *taskExecutor) checkParsed(d *Document) error {
	if d.Root == nil {
		return fmt.Errorf("murkdown: document %q was never parsed", d.ID)
	}

	return nil
}

func (x *taskExecutor) preprocess(ctx context.Context, d *Document) error {
	p := x.project

	if err := p.Engine.Preprocess(ctx, d.Root, d.Dir, d.State); err != nil {
		return err
	}

	// Published immediately: this document's own EXEC results never
	// depend on another document, so there is no ordering to respect.
	publishExecArtifacts(d, p.Resolver)

	return nil
}

// compile splices this document's src=/ref= references before running
// COMPILE rules. Splicing must wait until here rather than happening
// in Preprocess: the build graph only orders Compile-after-Compile
// across documents, so a referenced document's artifact is only
// guaranteed published by the time this document's own Compile task
// runs.
func (x *taskExecutor) compile(ctx context.Context, d *Document) error {
	p := x.project

	jobs, err := resolveReferences(d, p.Resolver, p.Engine.MediaType())
	if err != nil {
		return err
	}

	p.recordJobs(d.ID, jobs)

	out, err := p.Engine.Compile(ctx, d.Root, d.Dir, d.State)
	if err != nil {
		return err
	}

	d.Output = out

	p.Resolver.Publish(d.ID, &artifact.Artifact{
		Name:      d.ID,
		MediaType: p.Engine.MediaType(),
		Bytes:     []byte(out),
	})

	return nil
}

func (x *taskExecutor) write(d *Document) error {
	p := x.project

	ext := mediaExt[p.Engine.MediaType()]
	if ext == "" {
		ext = "." + p.Engine.MediaType()
	}

	return p.Writer.WriteDocument(d.OutputPath(ext), &artifact.Artifact{
		Name:      d.ID,
		MediaType: p.Engine.MediaType(),
		Bytes:     []byte(d.Output),
	})
}
