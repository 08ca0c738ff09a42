// Package graph builds and schedules the task dependency graph that
// drives a build: one chain of stages per source document, threaded
// together by the cross-document edges that src=/ref= references
// impose. It owns ordering only — the work a task actually performs
// (parsing, running rules, writing output) belongs to the engine,
// writer and ref packages; a graph.Executor supplied by the caller is
// what invokes them.
//
// Task dependencies are inferred the same way the document's own
// pipeline position implies them:
//   - a document's Parse task depends on its Load task
//   - Preprocess depends on Parse, Compile depends on Preprocess,
//     Write depends on Compile
//   - a document that references another (src= or ref=) has its
//     Compile task depend on the referenced document's Compile task,
//     since resolution happens while compiling and the referenced
//     artifact must already be published
package graph

import (
	"errors"
	"fmt"
)

// ErrCircularDependency is returned when the task graph contains a
// cycle that topological sort cannot resolve, typically caused by a
// src=/ref= cycle between two documents.
var ErrCircularDependency = errors.New("circular dependency detected in task graph")

// Kind identifies a task's position in a document's compile pipeline.
type Kind string

// Recognized task kinds, in pipeline order.
const (
	KindLoad       Kind = "load"
	KindParse      Kind = "parse"
	KindPreprocess Kind = "preprocess"
	KindCompile    Kind = "compile"
	KindWrite      Kind = "write"
)

// pipeline lists the intra-document stage order; each stage depends on
// the one before it.
var pipeline = []Kind{KindLoad, KindParse, KindPreprocess, KindCompile, KindWrite}

// Task is one unit of work in the graph: a single pipeline stage for a
// single document.
type Task struct {
	// ID uniquely identifies the task: "<docID>#<kind>".
	ID string

	// DocID is the document this task belongs to.
	DocID string

	// Kind is the pipeline stage this task performs.
	Kind Kind

	// deps are the task IDs this task waits on before it may run.
	deps []string
}

// TaskID formats the ID a document/kind pair resolves to.
func TaskID(docID string, kind Kind) string {
	return docID + "#" + string(kind)
}

// Graph is a dependency graph over the tasks needed to build a set of
// documents, including the cross-document edges references impose.
type Graph struct {
	Tasks map[string]*Task

	// dependents is the reverse of deps: taskID -> task IDs waiting on it.
	dependents map[string][]string
}

// New builds a Graph for docIDs, one Load/Parse/Preprocess/Compile/Write
// chain per document, plus a Compile-after-Compile edge for every entry
// in refs: refs[docID] lists the IDs of documents docID references via
// src= or ref=.
func New(docIDs []string, refs map[string][]string) *Graph {
	g := &Graph{
		Tasks:      make(map[string]*Task),
		dependents: make(map[string][]string),
	}

	for _, docID := range docIDs {
		g.addDocument(docID)
	}

	for docID, deps := range refs {
		consumer := TaskID(docID, KindCompile)
		for _, depDocID := range deps {
			producer := TaskID(depDocID, KindCompile)
			g.addEdge(producer, consumer)
		}
	}

	return g
}

// addDocument wires the five pipeline-stage tasks for one document, in
// their natural sequential order.
func (g *Graph) addDocument(docID string) {
	var prev string

	for _, kind := range pipeline {
		id := TaskID(docID, kind)
		g.Tasks[id] = &Task{ID: id, DocID: docID, Kind: kind}

		if prev != "" {
			g.addEdge(prev, id)
		}

		prev = id
	}
}

// addEdge records that dependent cannot run until dependency completes.
func (g *Graph) addEdge(dependency, dependent string) {
	dep := g.Tasks[dependent]
	if dep == nil {
		return
	}

	dep.deps = append(dep.deps, dependency)
	g.dependents[dependency] = append(g.dependents[dependency], dependent)
}

// TopologicalSort returns execution stages: tasks within one stage have
// no dependency on each other and may run concurrently; stages must
// run in the returned order. Grounded on a standard Kahn's-algorithm
// level-by-level sort.
func (g *Graph) TopologicalSort() ([][]string, error) {
	inDegree := make(map[string]int, len(g.Tasks))
	for id, t := range g.Tasks {
		inDegree[id] = len(t.deps)
	}

	visited := make(map[string]bool, len(g.Tasks))
	stages := make([][]string, 0)

	for len(visited) < len(g.Tasks) {
		stage := make([]string, 0)

		for id := range g.Tasks {
			if !visited[id] && inDegree[id] == 0 {
				stage = append(stage, id)
			}
		}

		if len(stage) == 0 {
			return nil, ErrCircularDependency
		}

		for _, id := range stage {
			visited[id] = true

			for _, dependent := range g.dependents[id] {
				inDegree[dependent]--
			}
		}

		stages = append(stages, stage)
	}

	return stages, nil
}

// DependenciesOf returns the task IDs t waits on, for diagnostics.
func (g *Graph) DependenciesOf(taskID string) []string {
	t, ok := g.Tasks[taskID]
	if !ok {
		return nil
	}

	return append([]string(nil), t.deps...)
}

// String renders a task ID back to a readable "docID (kind)" form, for
// error messages.
func (t *Task) String() string {
	return fmt.Sprintf("%s (%s)", t.DocID, t.Kind)
}
