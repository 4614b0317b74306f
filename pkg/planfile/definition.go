package planfile

import (
	"errors"
	"fmt"
	"io"

	"github.com/radiofrance/dagspec/pkg/dag"
	"github.com/radiofrance/dagspec/pkg/strutil"
	"gopkg.in/yaml.v3"
)

// Definition is the YAML description of a DAG.
type Definition struct {
	Name     string             `yaml:"name"`
	Vertices []VertexDefinition `yaml:"vertices"`
	Edges    []EdgeDefinition   `yaml:"edges"`
}

// Descriptor references a class and its opaque payload.
type Descriptor struct {
	Class   string `yaml:"class"`
	Payload string `yaml:"payload,omitempty"`
}

type VertexDefinition struct {
	Name           string                       `yaml:"name"`
	Processor      Descriptor                   `yaml:"processor"`
	Parallelism    int                          `yaml:"parallelism"`
	Resource       *dag.Resource                `yaml:"resource"`
	Environment    []string                     `yaml:"environment"`
	LaunchOpts     string                       `yaml:"launch_opts"`
	LocalResources map[string]dag.LocalResource `yaml:"local_resources"`
	LocationHints  []dag.TaskLocationHint       `yaml:"location_hints"`
	Inputs         []InputDefinition            `yaml:"inputs"`
	Outputs        []OutputDefinition           `yaml:"outputs"`
}

type InputDefinition struct {
	Name        string `yaml:"name"`
	Class       string `yaml:"class"`
	Payload     string `yaml:"payload"`
	Initializer string `yaml:"initializer"`
}

type OutputDefinition struct {
	Name    string `yaml:"name"`
	Class   string `yaml:"class"`
	Payload string `yaml:"payload"`
}

type EdgeDefinition struct {
	From       string     `yaml:"from"`
	To         string     `yaml:"to"`
	Movement   string     `yaml:"movement"`
	Source     string     `yaml:"source"`
	Scheduling string     `yaml:"scheduling"`
	Output     Descriptor `yaml:"output"`
	Input      Descriptor `yaml:"input"`
}

// Parse decodes a plan definition. Unknown fields are rejected.
func Parse(r io.Reader) (*Definition, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var def Definition
	if err := decoder.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("plan definition is empty")
		}
		return nil, fmt.Errorf("cannot decode plan definition: %w", err)
	}

	return &def, nil
}

// Build creates the DAG described by the definition. The DAG is not verified:
// vertices sharing a name are all registered, so that verification reports them.
func (d *Definition) Build() (*dag.DAG, error) {
	graph := dag.NewDAG(d.Name)

	for i := range d.Vertices {
		vertex, err := d.Vertices[i].build()
		if err != nil {
			return nil, fmt.Errorf("vertex %q: %w", d.Vertices[i].Name, err)
		}
		graph.AddVertex(vertex)
	}

	for i, def := range d.Edges {
		edge, err := def.build(graph)
		if err != nil {
			return nil, fmt.Errorf("edge #%d (%s -> %s): %w", i, def.From, def.To, err)
		}
		graph.AddEdge(edge)
	}

	return graph, nil
}

func (v *VertexDefinition) build() (*dag.Vertex, error) {
	vertex, err := dag.NewVertex(v.Name,
		dag.ProcessorDescriptor{ClassName: v.Processor.Class, UserPayload: payload(v.Processor.Payload)},
		v.Parallelism, v.Resource)
	if err != nil {
		return nil, err
	}

	if len(v.Environment) > 0 {
		env, err := strutil.ParseKeyValues(v.Environment)
		if err != nil {
			return nil, fmt.Errorf("invalid environment: %w", err)
		}
		vertex.SetTaskEnvironment(env)
	}

	if len(v.LocalResources) > 0 {
		vertex.SetTaskLocalResources(v.LocalResources)
	}
	vertex.SetLaunchOpts(v.LaunchOpts)

	if len(v.LocationHints) > 0 {
		if len(v.LocationHints) != v.Parallelism {
			return nil, fmt.Errorf("got %d location hints, expected one per task (%d)",
				len(v.LocationHints), v.Parallelism)
		}
		hints := make([]dag.TaskLocationHint, 0, len(v.LocationHints))
		for _, hint := range v.LocationHints {
			hints = append(hints, dag.TaskLocationHint{
				Hosts: strutil.Dedupe(hint.Hosts),
				Racks: strutil.Dedupe(hint.Racks),
			})
		}
		vertex.SetTaskLocationsHint(hints)
	}

	for _, input := range v.Inputs {
		desc := dag.InputDescriptor{ClassName: input.Class, UserPayload: payload(input.Payload)}
		if err := vertex.AddInput(input.Name, desc, input.Initializer); err != nil {
			return nil, err
		}
	}

	for _, output := range v.Outputs {
		vertex.AddOutput(output.Name,
			dag.OutputDescriptor{ClassName: output.Class, UserPayload: payload(output.Payload)})
	}

	return vertex, nil
}

func (e EdgeDefinition) build(graph *dag.DAG) (*dag.Edge, error) {
	from, ok := graph.Vertex(e.From)
	if !ok {
		return nil, fmt.Errorf("unknown vertex %q", e.From)
	}
	to, ok := graph.Vertex(e.To)
	if !ok {
		return nil, fmt.Errorf("unknown vertex %q", e.To)
	}

	movement, err := dag.ParseDataMovementType(e.Movement)
	if err != nil {
		return nil, err
	}
	source, err := dag.ParseDataSourceType(e.Source)
	if err != nil {
		return nil, err
	}
	scheduling, err := dag.ParseSchedulingType(e.Scheduling)
	if err != nil {
		return nil, err
	}

	property := dag.NewEdgeProperty(movement, source, scheduling,
		dag.OutputDescriptor{ClassName: e.Output.Class, UserPayload: payload(e.Output.Payload)},
		dag.InputDescriptor{ClassName: e.Input.Class, UserPayload: payload(e.Input.Payload)})

	return dag.NewEdge(from, to, property), nil
}

func payload(s string) []byte {
	if s == "" {
		return nil
	}
	return []byte(s)
}
