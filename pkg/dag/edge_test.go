package dag_test

import (
	"testing"

	"github.com/radiofrance/dagspec/pkg/dag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func edgeProperty(movement dag.DataMovementType, source dag.DataSourceType,
	scheduling dag.SchedulingType,
) dag.EdgeProperty {
	return dag.NewEdgeProperty(movement, source, scheduling,
		dag.OutputDescriptor{ClassName: "dummy output class"},
		dag.InputDescriptor{ClassName: "dummy input class"})
}

func scatterGather() dag.EdgeProperty {
	return edgeProperty(dag.ScatterGather, dag.Persisted, dag.Sequential)
}

func Test_NewEdge(t *testing.T) {
	t.Parallel()

	v1 := newVertex(t, "v1")
	v2 := newVertex(t, "v2")

	e1 := dag.NewEdge(v1, v2, scatterGather())
	e2 := dag.NewEdge(v1, v2, scatterGather())

	assert.NotEmpty(t, e1.ID())
	assert.NotEqual(t, e1.ID(), e2.ID())
	assert.Same(t, v1, e1.From())
	assert.Same(t, v2, e1.To())
	assert.Equal(t, dag.ScatterGather, e1.Property().DataMovementType)
	assert.Equal(t, "v1 -> v2 (SCATTER_GATHER, PERSISTED, SEQUENTIAL)", e1.String())

	// Creating an edge does not connect the vertices, registering it does.
	assert.Empty(t, v1.OutputVertices())
	assert.Empty(t, v2.InputVertices())
}

func Test_ParseDataMovementType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		given    string
		expected dag.DataMovementType
	}{
		{given: "ONE_TO_ONE", expected: dag.OneToOne},
		{given: "one-to-one", expected: dag.OneToOne},
		{given: "broadcast", expected: dag.Broadcast},
		{given: " Scatter_Gather ", expected: dag.ScatterGather},
	}

	for _, test := range tests {
		t.Run(test.given, func(t *testing.T) {
			t.Parallel()

			actual, err := dag.ParseDataMovementType(test.given)
			require.NoError(t, err)
			assert.Equal(t, test.expected, actual)
		})
	}

	_, err := dag.ParseDataMovementType("shuffle")
	require.EqualError(t, err, "\"shuffle\" is not a valid data movement type")
}

func Test_ParseDataSourceAndSchedulingTypes(t *testing.T) {
	t.Parallel()

	source, err := dag.ParseDataSourceType("ephemeral")
	require.NoError(t, err)
	assert.Equal(t, dag.Ephemeral, source)

	_, err = dag.ParseDataSourceType("volatile")
	require.EqualError(t, err, "\"volatile\" is not a valid data source type")

	scheduling, err := dag.ParseSchedulingType("Concurrent")
	require.NoError(t, err)
	assert.Equal(t, dag.Concurrent, scheduling)

	_, err = dag.ParseSchedulingType("eager")
	require.EqualError(t, err, "\"eager\" is not a valid scheduling type")
}
