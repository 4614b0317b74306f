package dag

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DataMovementType describes how data is routed from producer tasks to consumer tasks.
type DataMovementType int

const (
	// OneToOne routes the output of producer task i to consumer task i.
	OneToOne DataMovementType = iota
	// Broadcast routes the output of every producer task to every consumer task.
	Broadcast
	// ScatterGather partitions the output of every producer task across the consumer tasks.
	ScatterGather
)

// DataSourceType describes whether the output of the producer outlives the consumer readiness.
type DataSourceType int

const (
	// Persisted output is available independently of the consumer.
	Persisted DataSourceType = iota
	// Ephemeral output must be consumed live.
	Ephemeral
)

// SchedulingType describes whether producer and consumer tasks may run concurrently.
type SchedulingType int

const (
	Sequential SchedulingType = iota
	Concurrent
)

func (t DataMovementType) String() string {
	switch t {
	case OneToOne:
		return "ONE_TO_ONE"
	case Broadcast:
		return "BROADCAST"
	case ScatterGather:
		return "SCATTER_GATHER"
	}
	return "Unknown"
}

func (t DataSourceType) String() string {
	switch t {
	case Persisted:
		return "PERSISTED"
	case Ephemeral:
		return "EPHEMERAL"
	}
	return "Unknown"
}

func (t SchedulingType) String() string {
	switch t {
	case Sequential:
		return "SEQUENTIAL"
	case Concurrent:
		return "CONCURRENT"
	}
	return "Unknown"
}

// normalizeEnum makes "scatter-gather", "Scatter_Gather" and "SCATTER_GATHER" equivalent.
func normalizeEnum(s string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_")
}

// ParseDataMovementType parses the name of a DataMovementType, case-insensitively.
func ParseDataMovementType(s string) (DataMovementType, error) {
	for _, t := range []DataMovementType{OneToOne, Broadcast, ScatterGather} {
		if t.String() == normalizeEnum(s) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%q is not a valid data movement type", s)
}

// ParseDataSourceType parses the name of a DataSourceType, case-insensitively.
func ParseDataSourceType(s string) (DataSourceType, error) {
	for _, t := range []DataSourceType{Persisted, Ephemeral} {
		if t.String() == normalizeEnum(s) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%q is not a valid data source type", s)
}

// ParseSchedulingType parses the name of a SchedulingType, case-insensitively.
func ParseSchedulingType(s string) (SchedulingType, error) {
	for _, t := range []SchedulingType{Sequential, Concurrent} {
		if t.String() == normalizeEnum(s) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%q is not a valid scheduling type", s)
}

// EdgeProperty describes how data flows across an edge. Compatibility between
// its fields is checked by DAG.Verify, not at construction.
type EdgeProperty struct {
	DataMovementType DataMovementType
	DataSourceType   DataSourceType
	SchedulingType   SchedulingType
	OutputDescriptor OutputDescriptor
	InputDescriptor  InputDescriptor
}

func NewEdgeProperty(
	movement DataMovementType,
	source DataSourceType,
	scheduling SchedulingType,
	output OutputDescriptor,
	input InputDescriptor,
) EdgeProperty {
	return EdgeProperty{
		DataMovementType: movement,
		DataSourceType:   source,
		SchedulingType:   scheduling,
		OutputDescriptor: output,
		InputDescriptor:  input,
	}
}

func (p EdgeProperty) clone() EdgeProperty {
	p.OutputDescriptor = p.OutputDescriptor.clone()
	p.InputDescriptor = p.InputDescriptor.clone()
	return p
}

// Edge is a directed connection from a producer vertex to a consumer vertex.
type Edge struct {
	id       string
	from     *Vertex
	to       *Vertex
	property EdgeProperty
}

// NewEdge creates an edge with a unique ID. Several edges may connect the same pair of vertices.
func NewEdge(from, to *Vertex, property EdgeProperty) *Edge {
	return &Edge{
		id:       uuid.NewString(),
		from:     from,
		to:       to,
		property: property,
	}
}

func (e *Edge) ID() string { return e.id }

// From returns the producer vertex.
func (e *Edge) From() *Vertex { return e.from }

// To returns the consumer vertex.
func (e *Edge) To() *Vertex { return e.to }

func (e *Edge) Property() EdgeProperty { return e.property }

func (e *Edge) String() string {
	return fmt.Sprintf("%s -> %s (%s, %s, %s)",
		e.from.Name(), e.to.Name(),
		e.property.DataMovementType, e.property.DataSourceType, e.property.SchedulingType)
}
