package dag

import "maps"

// ProcessorDescriptor references the processing logic run by every task of a vertex.
// It is never interpreted by this package.
type ProcessorDescriptor struct {
	ClassName   string `yaml:"class"`
	UserPayload []byte `yaml:"-"`
}

// InputDescriptor references the consumer side of an edge, or a root input.
type InputDescriptor struct {
	ClassName   string `yaml:"class"`
	UserPayload []byte `yaml:"-"`
}

// OutputDescriptor references the producer side of an edge, or a leaf output.
type OutputDescriptor struct {
	ClassName   string `yaml:"class"`
	UserPayload []byte `yaml:"-"`
}

// Resource is the amount of resources each task of a vertex requires.
type Resource struct {
	MemoryMB     int `yaml:"memory_mb"`
	VirtualCores int `yaml:"vcores"`
}

// TaskLocationHint is a placement hint for a single task.
type TaskLocationHint struct {
	Hosts []string `yaml:"hosts,flow,omitempty"`
	Racks []string `yaml:"racks,flow,omitempty"`
}

// LocalResource is a file or archive localized on the node before a task starts.
type LocalResource struct {
	URL        string `yaml:"url"`
	Size       int64  `yaml:"size,omitempty"`
	Timestamp  int64  `yaml:"timestamp,omitempty"`
	Type       string `yaml:"type,omitempty"`
	Visibility string `yaml:"visibility,omitempty"`
}

// RootInput is a named input reading directly from an external source.
type RootInput struct {
	Name       string          `yaml:"name"`
	Descriptor InputDescriptor `yaml:"descriptor"`
	// InitializerClassName references an initializer which may determine the
	// parallelism of the vertex at runtime. Empty means no initializer.
	InitializerClassName string `yaml:"initializer,omitempty"`
}

// RootOutput is a named output writing directly to an external destination.
type RootOutput struct {
	Name       string           `yaml:"name"`
	Descriptor OutputDescriptor `yaml:"descriptor"`
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

func (d ProcessorDescriptor) clone() ProcessorDescriptor {
	d.UserPayload = cloneBytes(d.UserPayload)
	return d
}

func (d InputDescriptor) clone() InputDescriptor {
	d.UserPayload = cloneBytes(d.UserPayload)
	return d
}

func (d OutputDescriptor) clone() OutputDescriptor {
	d.UserPayload = cloneBytes(d.UserPayload)
	return d
}

func cloneHints(hints []TaskLocationHint) []TaskLocationHint {
	if hints == nil {
		return nil
	}
	res := make([]TaskLocationHint, len(hints))
	for i, hint := range hints {
		res[i] = TaskLocationHint{
			Hosts: append([]string(nil), hint.Hosts...),
			Racks: append([]string(nil), hint.Racks...),
		}
	}
	return res
}

func cloneMap[V any](m map[string]V) map[string]V {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}
