package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stageOf(stages [][]string, id string) int {
	for i, stage := range stages {
		for _, s := range stage {
			if s == id {
				return i
			}
		}
	}

	return -1
}

func TestNewBuildsPerDocumentPipeline(t *testing.T) {
	g := New([]string{"a"}, nil)

	assert.Len(t, g.Tasks, 5)
	assert.ElementsMatch(t, []string{TaskID("a", KindCompile)}, g.DependenciesOf(TaskID("a", KindWrite)))
	assert.Empty(t, g.DependenciesOf(TaskID("a", KindLoad)))
}

func TestTopologicalSortOrdersPipelineStages(t *testing.T) {
	g := New([]string{"a"}, nil)

	stages, err := g.TopologicalSort()
	require.NoError(t, err)

	loadStage := stageOf(stages, TaskID("a", KindLoad))
	parseStage := stageOf(stages, TaskID("a", KindParse))
	writeStage := stageOf(stages, TaskID("a", KindWrite))

	assert.Less(t, loadStage, parseStage)
	assert.Less(t, parseStage, writeStage)
}

func TestTopologicalSortRunsIndependentDocumentsInParallel(t *testing.T) {
	g := New([]string{"a", "b"}, nil)

	stages, err := g.TopologicalSort()
	require.NoError(t, err)

	loadA := stageOf(stages, TaskID("a", KindLoad))
	loadB := stageOf(stages, TaskID("b", KindLoad))
	assert.Equal(t, loadA, loadB)
}

func TestNewAppliesCrossDocumentReferenceEdge(t *testing.T) {
	g := New([]string{"a", "b"}, map[string][]string{"b": {"a"}})

	stages, err := g.TopologicalSort()
	require.NoError(t, err)

	compileA := stageOf(stages, TaskID("a", KindCompile))
	compileB := stageOf(stages, TaskID("b", KindCompile))
	assert.Less(t, compileA, compileB)
}

func TestTopologicalSortDetectsCycle(t *testing.T) {
	g := New([]string{"a", "b"}, map[string][]string{"a": {"b"}, "b": {"a"}})

	_, err := g.TopologicalSort()
	require.ErrorIs(t, err, ErrCircularDependency)
}
