package taskclean_test

import (
	"testing"

	"github.com/radiofrance/dagspec/pkg/dag"
	"github.com/radiofrance/dagspec/pkg/taskclean"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TaskAttemptID_String(t *testing.T) {
	t.Parallel()

	id := taskclean.TaskAttemptID{VertexName: "map_stage", TaskIndex: 42, Attempt: 1}
	assert.Equal(t, "attempt_map_stage_000042_1", id.String())

	parsed, err := taskclean.ParseTaskAttemptID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func Test_ParseTaskAttemptID_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input            string
		expectedErrorMsg string
	}{
		{input: "task_v1_000001_0", expectedErrorMsg: "is not a task attempt ID"},
		{input: "attempt_000001", expectedErrorMsg: "is not a task attempt ID"},
		{input: "attempt_v1_000001_x", expectedErrorMsg: "has an invalid attempt number"},
		{input: "attempt_v1_-1_0", expectedErrorMsg: "has an invalid task index"},
		{input: "attempt__000001_0", expectedErrorMsg: "has no vertex name"},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			t.Parallel()

			_, err := taskclean.ParseTaskAttemptID(test.input)
			require.Error(t, err)
			assert.ErrorContains(t, err, test.expectedErrorMsg)
		})
	}
}

func Test_CleanupEvent_Started(t *testing.T) {
	t.Parallel()

	id := taskclean.TaskAttemptID{VertexName: "v1"}
	container := taskclean.ContainerID("container_1_0001_01_000002")

	notStarted := taskclean.NewCleanupEvent(id, nil, nil, nil)
	assert.False(t, notStarted.Started())
	assert.Equal(t, taskclean.TaskClean, notStarted.Type())
	assert.Equal(t, "TASK_CLEAN", notStarted.Type().String())

	started := taskclean.NewCleanupEvent(id, &container, nil, map[string]string{"job": "1"})
	assert.True(t, started.Started())
	assert.Equal(t, container, *started.ContainerID)
}

func createPlan(t *testing.T) *dag.Plan {
	t.Helper()

	resource := &dag.Resource{MemoryMB: 512, VirtualCores: 1}
	fixed, err := dag.NewVertex("fixed", dag.ProcessorDescriptor{ClassName: "MapProcessor"}, 2, resource)
	require.NoError(t, err)
	auto, err := dag.NewVertex("auto", dag.ProcessorDescriptor{ClassName: "ReduceProcessor"}, -1, resource)
	require.NoError(t, err)

	graph := dag.NewDAG("plan")
	graph.AddVertex(fixed)
	graph.AddVertex(auto)
	graph.AddEdge(dag.NewEdge(fixed, auto, dag.NewEdgeProperty(dag.ScatterGather, dag.Persisted,
		dag.Sequential, dag.OutputDescriptor{}, dag.InputDescriptor{})))

	plan, err := graph.Build()
	require.NoError(t, err)

	return plan
}

func Test_CleanupEvent_Validate(t *testing.T) {
	t.Parallel()

	plan := createPlan(t)

	tests := []struct {
		name             string
		id               taskclean.TaskAttemptID
		expectedErrorMsg string
	}{
		{
			name: "known task",
			id:   taskclean.TaskAttemptID{VertexName: "fixed", TaskIndex: 1, Attempt: 3},
		},
		{
			name: "runtime parallelism is not bounded",
			id:   taskclean.TaskAttemptID{VertexName: "auto", TaskIndex: 1000},
		},
		{
			name: "unknown vertex",
			id:   taskclean.TaskAttemptID{VertexName: "other"},
			expectedErrorMsg: "invalid cleanup event: attempt_other_000000_0 references vertex \"other\" " +
				"which is not part of the dag",
		},
		{
			name: "task out of range",
			id:   taskclean.TaskAttemptID{VertexName: "fixed", TaskIndex: 2},
			expectedErrorMsg: "invalid cleanup event: attempt_fixed_000002_0 references task 2 " +
				"but vertex fixed has 2 tasks",
		},
		{
			name:             "negative attempt",
			id:               taskclean.TaskAttemptID{VertexName: "fixed", Attempt: -1},
			expectedErrorMsg: "has a negative task index or attempt",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			err := taskclean.NewCleanupEvent(test.id, nil, nil, nil).Validate(plan)
			if test.expectedErrorMsg == "" {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, taskclean.ErrInvalidEvent)
			assert.ErrorContains(t, err, test.expectedErrorMsg)
		})
	}
}
