package taskclean

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/radiofrance/dagspec/pkg/dag"
)

// ErrInvalidEvent is returned when a cleanup event does not match the plan it is validated against.
var ErrInvalidEvent = errors.New("invalid cleanup event")

// EventType is the type of events handled by the task cleaner.
type EventType int

const (
	TaskClean EventType = iota
)

func (t EventType) String() string {
	switch t {
	case TaskClean:
		return "TASK_CLEAN"
	}
	return "Unknown"
}

// TaskAttemptID identifies one attempt of one task of a vertex.
type TaskAttemptID struct {
	VertexName string
	TaskIndex  int
	Attempt    int
}

// String formats the ID as attempt_<vertex>_<task>_<attempt>, the task index padded to 6 digits.
func (id TaskAttemptID) String() string {
	return fmt.Sprintf("attempt_%s_%06d_%d", id.VertexName, id.TaskIndex, id.Attempt)
}

// ParseTaskAttemptID parses the output of TaskAttemptID.String.
// The vertex name may itself contain underscores.
func ParseTaskAttemptID(s string) (TaskAttemptID, error) {
	rest, ok := strings.CutPrefix(s, "attempt_")
	if !ok {
		return TaskAttemptID{}, fmt.Errorf("%q is not a task attempt ID", s)
	}

	parts := strings.Split(rest, "_")
	if len(parts) < 3 {
		return TaskAttemptID{}, fmt.Errorf("%q is not a task attempt ID", s)
	}

	attempt, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || attempt < 0 {
		return TaskAttemptID{}, fmt.Errorf("%q has an invalid attempt number", s)
	}
	task, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil || task < 0 {
		return TaskAttemptID{}, fmt.Errorf("%q has an invalid task index", s)
	}

	vertex := strings.Join(parts[:len(parts)-2], "_")
	if vertex == "" {
		return TaskAttemptID{}, fmt.Errorf("%q has no vertex name", s)
	}

	return TaskAttemptID{VertexName: vertex, TaskIndex: task, Attempt: attempt}, nil
}

// ContainerID identifies the container a task attempt ran in.
type ContainerID string

// OutputCommitter aborts the output written by a task attempt.
type OutputCommitter interface {
	AbortTask(ctx context.Context, attemptContext map[string]string) error
}

// CleanupEvent requests the cleanup of a task attempt.
type CleanupEvent struct {
	AttemptID TaskAttemptID
	// ContainerID is nil when the attempt never started.
	ContainerID    *ContainerID
	Committer      OutputCommitter
	AttemptContext map[string]string
}

func NewCleanupEvent(attemptID TaskAttemptID, containerID *ContainerID, committer OutputCommitter,
	attemptContext map[string]string,
) CleanupEvent {
	return CleanupEvent{
		AttemptID:      attemptID,
		ContainerID:    containerID,
		Committer:      committer,
		AttemptContext: attemptContext,
	}
}

func (e CleanupEvent) Type() EventType {
	return TaskClean
}

// Started reports whether the attempt was given a container.
func (e CleanupEvent) Started() bool {
	return e.ContainerID != nil
}

// Validate checks the event targets a task of a vertex of the plan.
// Tasks of a vertex whose parallelism is decided at runtime are not bounded.
func (e CleanupEvent) Validate(plan *dag.Plan) error {
	id := e.AttemptID

	node, ok := plan.Node(id.VertexName)
	if !ok {
		return fmt.Errorf("%w: %s references vertex %q which is not part of the dag",
			ErrInvalidEvent, id, id.VertexName)
	}

	if id.TaskIndex < 0 || id.Attempt < 0 {
		return fmt.Errorf("%w: %s has a negative task index or attempt", ErrInvalidEvent, id)
	}

	parallelism := node.Vertex().Parallelism
	if parallelism >= 0 && id.TaskIndex >= parallelism {
		return fmt.Errorf("%w: %s references task %d but vertex %s has %d tasks",
			ErrInvalidEvent, id, id.TaskIndex, id.VertexName, parallelism)
	}

	return nil
}
