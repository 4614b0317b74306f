package dag_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/radiofrance/dagspec/pkg/dag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Node_VertexIsACopy(t *testing.T) {
	t.Parallel()

	plan := createPlan(t)
	node, ok := plan.Node("v1")
	require.True(t, ok)

	info := node.Vertex()
	info.Name = "renamed"

	assert.Equal(t, "v1", node.Name())
	assert.Equal(t, "MapProcessor", node.Vertex().Processor.ClassName)
	assert.Empty(t, node.Parents())
	assert.Len(t, node.Children(), 2)
}

func Test_Walk_RunsAllNodes(t *testing.T) {
	t.Parallel()

	tracking := make(map[*dag.Node]bool)

	plan := createPlan(t)
	plan.Walk(func(node *dag.Node) {
		for _, parent := range node.Parents() {
			_, ok := tracking[parent]

			assert.True(t, ok, "The visitor func is supposed to run on parent nodes before children")
		}

		for _, child := range node.Children() {
			_, ok := tracking[child]

			assert.False(t, ok, "The visitor func is supposed to run on parent nodes before children")
		}

		tracking[node] = true
	})

	// Assert that the visitor func ran on every node.
	assert.Len(t, tracking, 6)
}

func Test_Walk_RunsAllNodesOnlyOnce(t *testing.T) {
	t.Parallel()

	visits := make(map[*dag.Node]int)

	root1 := newVertex(t, "root1")
	root2 := newVertex(t, "root2")
	child1 := newVertex(t, "child1")
	child2 := newVertex(t, "child2")

	plan, err := newDAG([]*dag.Vertex{root1, root2, child1, child2},
		dag.NewEdge(root1, child1, scatterGather()),
		dag.NewEdge(root1, child2, scatterGather()),
		dag.NewEdge(root2, child2, scatterGather()),
	).Build()
	require.NoError(t, err)

	plan.Walk(func(node *dag.Node) {
		visits[node]++
	})

	// Assert that the visitor func ran on every node.
	assert.Len(t, visits, 4)

	// Assert that the visitor func ran once per node.
	for _, visits := range visits {
		assert.Equal(t, 1, visits)
	}
}

func Test_WalkErr_RunsAllNodesWhenNoError(t *testing.T) {
	t.Parallel()

	tracking := make(map[*dag.Node]bool)

	plan := createPlan(t)
	err := plan.WalkErr(func(node *dag.Node) error {
		for _, parent := range node.Parents() {
			_, ok := tracking[parent]

			assert.True(t, ok, "The visitor func is supposed to run on parent nodes before children")
		}

		tracking[node] = true

		return nil
	})

	require.NoError(t, err)
	assert.Len(t, tracking, 6)
}

func Test_WalkErr_StopsOnError(t *testing.T) {
	t.Parallel()

	tracking := make(map[*dag.Node]bool)

	plan := createPlan(t)
	failingNode, ok := plan.Node("v5")
	require.True(t, ok)
	failingNodeError := errors.New("something went wrong")

	err := plan.WalkErr(func(node *dag.Node) error {
		tracking[node] = true

		if node == failingNode {
			return failingNodeError
		}

		return nil
	})

	require.Error(t, err)
	require.EqualError(t, err, failingNodeError.Error())

	// v4, v1, v5 are visited, in that order.
	assert.Len(t, tracking, 3)
}

func Test_WalkInDepth_RunsAllNodes(t *testing.T) {
	t.Parallel()

	tracking := make(map[*dag.Node]bool)

	plan := createPlan(t)
	plan.WalkInDepth(func(node *dag.Node) {
		for _, parent := range node.Parents() {
			_, ok := tracking[parent]

			assert.False(t, ok, "The visitor func is supposed to run on children nodes before parents")
		}

		for _, child := range node.Children() {
			_, ok := tracking[child]

			assert.True(t, ok, "The visitor func is supposed to run on children nodes before parents")
		}

		tracking[node] = true
	})

	assert.Len(t, tracking, 6)
}

func Test_WalkParallel_RunsAllNodes(t *testing.T) {
	t.Parallel()

	tracking := &sync.Map{}

	plan := createPlan(t)
	err := plan.WalkParallel(context.Background(), func(node *dag.Node) error {
		for _, parent := range node.Parents() {
			_, ok := tracking.Load(parent)

			assert.True(t, ok, "The visitor func is supposed to run on parent nodes before children")
		}

		for _, child := range node.Children() {
			_, ok := tracking.Load(child)

			assert.False(t, ok, "The visitor func is supposed to run on parent nodes before children")
		}

		time.Sleep(100 * time.Millisecond) // Simulate long job

		tracking.Store(node, true)
		return nil
	})
	require.NoError(t, err)

	var length int

	tracking.Range(func(_, _ any) bool {
		length++
		return true
	})

	assert.Equal(t, 6, length)
}

func Test_WalkParallel_StopsOnError(t *testing.T) {
	t.Parallel()

	tracking := &sync.Map{}

	plan := createPlan(t)
	failingNode, ok := plan.Node("v4")
	require.True(t, ok)
	failingNodeError := errors.New("something went wrong")

	err := plan.WalkParallel(context.Background(), func(node *dag.Node) error {
		tracking.Store(node.Name(), true)

		if node == failingNode {
			return failingNodeError
		}

		return nil
	})

	require.ErrorIs(t, err, failingNodeError)

	// Descendants of the failing node are never visited.
	_, visited := tracking.Load("v5")
	assert.False(t, visited)
	_, visited = tracking.Load("v6")
	assert.False(t, visited)
}

func Test_WalkParallel_HonorsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int
	var mu sync.Mutex

	plan := createPlan(t)
	err := plan.WalkParallel(ctx, func(*dag.Node) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}
