// Package ref resolves the src= and ref= cross-document references a
// Block Tree node can carry: splicing another document's published
// artifact into this one (src=, a copy of the artifact's bytes that is
// not walked again for references of its own) or pointing at one
// without inlining it (ref=). A src= that names no published artifact
// is treated by internal/murkdown as an asset to copy to the output
// tree; this package copies no files.
//
// The resolver itself holds no ordering logic — it is a registry the
// Build Graph publishes into as each document finishes compiling, and
// a cycle detector for the chains that walk through it. Component G
// (internal/graph) is responsible for scheduling documents so a
// reference is always published before something tries to resolve
// it.
package ref

import (
	"sync"

	"github.com/murkdown/murkdown/internal/artifact"
	"github.com/murkdown/murkdown/internal/murkerrs"
)

// Resolver is the shared, concurrency-safe registry of artifacts
// published by id, keyed the same way documents name themselves (the
// id prop on a document's outermost directive, or its source path
// without the .mu extension).
type Resolver struct {
	mu        sync.Mutex
	artifacts map[string]*artifact.Artifact
}

// New returns an empty Resolver.
func New() *Resolver {
	return &Resolver{artifacts: make(map[string]*artifact.Artifact)}
}

// Publish records the compiled artifact for id. Later Publish calls
// for the same id overwrite the earlier one; the Build Graph's
// at-most-once dedup makes that a non-issue in practice.
func (r *Resolver) Publish(id string, a *artifact.Artifact) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.artifacts[id] = a
}

// Lookup returns the published artifact for id, if any.
func (r *Resolver) Lookup(id string) (*artifact.Artifact, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.artifacts[id]

	return a, ok
}

// Chain tracks the ids visited while resolving one reference so a
// cycle back to an id already on the chain is reported instead of
// recursing forever.
type Chain struct {
	visited []string
	seen    map[string]bool
}

// NewChain returns an empty resolution chain.
func NewChain() *Chain {
	return &Chain{seen: make(map[string]bool)}
}

// Enter records that id is now being resolved, returning a
// ReferenceCycleError if id is already on the chain.
func (c *Chain) Enter(id string) error {
	if c.seen[id] {
		return &murkerrs.ReferenceCycleError{Chain: append(append([]string{}, c.visited...), id)}
	}

	c.seen[id] = true
	c.visited = append(c.visited, id)

	return nil
}

// Leave removes id from the chain, allowing it to be visited again
// along a sibling branch that does not cycle back to it.
func (c *Chain) Leave(id string) {
	delete(c.seen, id)

	if n := len(c.visited); n > 0 && c.visited[n-1] == id {
		c.visited = c.visited[:n-1]
	}
}

// Resolve looks up id, checked against chain for cycles and against
// wantMediaType (empty to accept any type). from names the
// referencing document, for error messages.
func (r *Resolver) Resolve(id, from, wantMediaType string, chain *Chain) (*artifact.Artifact, error) {
	if err := chain.Enter(id); err != nil {
		return nil, err
	}
	defer chain.Leave(id)

	a, ok := r.Lookup(id)
	if !ok {
		return nil, &murkerrs.UnknownReferenceError{ID: id, From: from}
	}

	if wantMediaType != "" && a.MediaType != wantMediaType {
		return nil, &murkerrs.MediaTypeMismatchError{ID: id, Want: wantMediaType, Got: a.MediaType}
	}

	return a, nil
}

// Splice returns a copy of the artifact to inline for a src=
// reference. The copy is of the artifact's bytes and is not re-walked
// for further src=/ref= resolution of its own, so a reference cycle
// can only ever be introduced by the chain the caller is already
// tracking.
func (r *Resolver) Splice(id, from, wantMediaType string, chain *Chain) (*artifact.Artifact, error) {
	a, err := r.Resolve(id, from, wantMediaType, chain)
	if err != nil {
		return nil, err
	}

	return a.Copy(), nil
}
