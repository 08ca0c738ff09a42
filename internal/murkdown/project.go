package murkdown

import (
	"context"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/murkdown/murkdown/internal/block"
	"github.com/murkdown/murkdown/internal/engine"
	"github.com/murkdown/murkdown/internal/graph"
	"github.com/murkdown/murkdown/internal/lang"
	"github.com/murkdown/murkdown/internal/ref"
	"github.com/murkdown/murkdown/internal/subproc"
	"github.com/murkdown/murkdown/internal/writer"
)

// mediaExt maps a ruleset's declared PRODUCE media type to the file
// extension a compiled document is written under.
var mediaExt = map[string]string{
	"html": ".html",
	"md":   ".md",
}

// Project is a buildable set of Murkdown documents compiled by one
// ruleset and written to one output directory.
type Project struct {
	Docs     map[string]*Document
	RuleSet  *lang.RuleSet
	Engine   *engine.Engine
	Resolver *ref.Resolver
	Writer   *writer.Writer

	// SubprocCap bounds concurrent Preprocess/Compile tasks, which is
	// where EXEC subprocesses actually run.
	SubprocCap int

	// Strict makes an unmatched node a fatal RuleMatchError instead of
	// a passthrough emission.
	Strict bool

	// Hook, when set, wraps the scheduler's executor before Build runs
	// it — the seam --interactive build progress attaches through,
	// without the scheduler itself knowing a progress view exists.
	Hook func(graph.Executor) graph.Executor

	mu   sync.Mutex
	jobs map[string][]copyJob
}

// recordJobs stores docID's REF-BY-COPY copy obligations, discovered
// while compiling it, for the post-build asset copy pass.
func (p *Project) recordJobs(docID string, jobs []copyJob) {
	if len(jobs) == 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs[docID] = jobs
}

// New builds a Project over docs, compiling with rs and running EXEC
// subprocesses through runner.
func New(
	docs []*Document, rs *lang.RuleSet, runner subproc.Runner, out *writer.Writer, subprocCap int,
) (*Project, error) {
	eng, err := engine.New(rs, runner)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*Document, len(docs))
	for _, d := range docs {
		// IDs are only assigned by LoadAndParse; until then a document
		// is keyed by its path so that none overwrites another.
		key := d.ID
		if key == "" {
			key = d.Path
		}

		byID[key] = d
	}

	return &Project{
		Docs:       byID,
		RuleSet:    rs,
		Engine:     eng,
		Resolver:   ref.New(),
		Writer:     out,
		SubprocCap: subprocCap,
		jobs:       make(map[string][]copyJob),
	}, nil
}

// LoadAndParse reads and parses every document, assigning its ID.
// Must run before Build, since Build's dependency graph is computed
// from the parsed trees' src=/ref= props.
func (p *Project) LoadAndParse(fs afero.Fs) error {
	for _, d := range p.Docs {
		if err := d.Load(fs); err != nil {
			return err
		}

		if err := d.ParseSource(); err != nil {
			return err
		}
	}

	reIndexed := make(map[string]*Document, len(p.Docs))
	for _, d := range p.Docs {
		reIndexed[d.ID] = d
	}

	p.Docs = reIndexed

	return nil
}

// Build runs the full Load→Parse→Preprocess→Compile→Write pipeline
// for every document in the project, respecting cross-document src=/
// ref= ordering, and returns the first error encountered.
func (p *Project) Build(ctx context.Context, fs afero.Fs) error {
	if err := p.LoadAndParse(fs); err != nil {
		return err
	}

	if err := p.Writer.Prepare(); err != nil {
		return err
	}

	p.Engine.Strict = p.Strict

	docIDs := make([]string, 0, len(p.Docs))
	for id := range p.Docs {
		docIDs = append(docIDs, id)
	}

	refs := p.dependencyEdges()

	g := graph.New(docIDs, refs)

	var exec graph.Executor = &taskExecutor{project: p, fs: fs}
	if p.Hook != nil {
		exec = p.Hook(exec)
	}

	sched := graph.NewScheduler(g, exec, max(p.SubprocCap, 1))

	if err := sched.Run(ctx); err != nil {
		return err
	}

	return p.copyAssets()
}

// TaskIDs returns every task ID this project's build graph will run,
// in no particular order. LoadAndParse must have already populated
// Docs with final IDs — a CLI front-end calls it once to seed a
// progress view before Build runs the same graph for real.
func (p *Project) TaskIDs() []string {
	docIDs := make([]string, 0, len(p.Docs))
	for id := range p.Docs {
		docIDs = append(docIDs, id)
	}

	g := graph.New(docIDs, p.dependencyEdges())

	ids := make([]string, 0, len(g.Tasks))
	for id := range g.Tasks {
		ids = append(ids, id)
	}

	return ids
}

// dependencyEdges scans every document for src=/ref= props whose
// value names another document already known to the project, so the
// build graph can order cross-document Compile tasks correctly. A
// value prefixed "exec:" is resolved against the document it names
// too: that artifact is published during the named document's own
// Preprocess, which the pipeline always runs before its Compile, so
// depending on its Compile task is still a correct (if coarser than
// strictly necessary) ordering. An on-disk asset path matches no
// known document and is left without an edge — it is copied, never
// compiled.
func (p *Project) dependencyEdges() map[string][]string {
	refs := make(map[string][]string)

	for id, d := range p.Docs {
		var deps []string

		walkProps(d.Root, func(props *block.Props) {
			for _, key := range []string{"src", "ref"} {
				v, ok := props.Get(key)
				if !ok {
					continue
				}

				v = strings.TrimPrefix(v, "exec:")

				if _, known := p.Docs[v]; known && v != id {
					deps = append(deps, v)
				}
			}
		})

		if len(deps) > 0 {
			refs[id] = deps
		}
	}

	return refs
}

func walkProps(n block.Node, visit func(*block.Props)) {
	switch v := n.(type) {
	case *block.Root:
		for _, c := range v.Children {
			walkProps(c, visit)
		}
	case *block.Directive:
		if v.Props != nil {
			visit(v.Props)
		}

		for _, c := range v.Children {
			walkProps(c, visit)
		}
	case *block.Section:
		if v.Props != nil {
			visit(v.Props)
		}

		for _, c := range v.Children {
			walkProps(c, visit)
		}
	}
}

func (p *Project) copyAssets() error {
	for _, jobs := range p.jobs {
		for _, j := range jobs {
			if _, err := p.Writer.WriteAsset(assetArtifact(j)); err != nil {
				return err
			}
		}
	}

	return nil
}
