package dag

import "fmt"

// VertexInfo holds the user-authored description of a vertex.
type VertexInfo struct {
	Name           string                   `yaml:"name"`
	Processor      ProcessorDescriptor      `yaml:"processor"`
	Parallelism    int                      `yaml:"parallelism"`
	Resource       Resource                 `yaml:"resource"`
	LocationHints  []TaskLocationHint       `yaml:"location_hints,omitempty"`
	LocalResources map[string]LocalResource `yaml:"local_resources,omitempty"`
	Environment    map[string]string        `yaml:"environment,omitempty"`
	LaunchOpts     string                   `yaml:"launch_opts,omitempty"`
	Input          *RootInput               `yaml:"input,omitempty"`
	Outputs        []RootOutput             `yaml:"outputs,omitempty"`
}

// Clone returns a deep copy of the vertex description.
func (info VertexInfo) Clone() VertexInfo {
	info.Processor = info.Processor.clone()
	info.LocationHints = cloneHints(info.LocationHints)
	info.LocalResources = cloneMap(info.LocalResources)
	info.Environment = cloneMap(info.Environment)
	if info.Input != nil {
		input := *info.Input
		input.Descriptor = input.Descriptor.clone()
		info.Input = &input
	}
	if info.Outputs != nil {
		outputs := make([]RootOutput, len(info.Outputs))
		for i, output := range info.Outputs {
			output.Descriptor = output.Descriptor.clone()
			outputs[i] = output
		}
		info.Outputs = outputs
	}
	return info
}

// Vertex describes a unit of work of the DAG.
type Vertex struct {
	info VertexInfo

	inputVertices  []*Vertex
	outputVertices []*Vertex
	inputEdgeIDs   []string
	outputEdgeIDs  []string
}

// NewVertex creates a new vertex. A parallelism of -1 means it will be determined
// at runtime by the initializer of the root input.
func NewVertex(name string, processor ProcessorDescriptor, parallelism int, resource *Resource) (*Vertex, error) {
	if parallelism < -1 {
		return nil, &ConfigurationError{
			Msg: "Parallelism should be -1 if determined by the AM, otherwise should be >= 0",
		}
	}
	if resource == nil {
		return nil, &ConfigurationError{Msg: "Resource cannot be null"}
	}
	if name == "" {
		return nil, &ConfigurationError{Msg: "Vertex name cannot be empty"}
	}

	return &Vertex{
		info: VertexInfo{
			Name:        name,
			Processor:   processor,
			Parallelism: parallelism,
			Resource:    *resource,
		},
	}, nil
}

func (v *Vertex) Name() string { return v.info.Name }

func (v *Vertex) Processor() ProcessorDescriptor { return v.info.Processor }

func (v *Vertex) Parallelism() int { return v.info.Parallelism }

func (v *Vertex) Resource() Resource { return v.info.Resource }

// SetTaskLocationsHint sets one placement hint per task. Empty hints are ignored.
// It panics if the number of hints differs from the parallelism.
func (v *Vertex) SetTaskLocationsHint(hints []TaskLocationHint) {
	if len(hints) == 0 {
		return
	}
	if len(hints) != v.info.Parallelism {
		panic(fmt.Sprintf("vertex %s: %d location hints given for a parallelism of %d",
			v.info.Name, len(hints), v.info.Parallelism))
	}
	v.info.LocationHints = hints
}

func (v *Vertex) TaskLocationsHint() []TaskLocationHint { return v.info.LocationHints }

func (v *Vertex) SetTaskLocalResources(resources map[string]LocalResource) {
	v.info.LocalResources = resources
}

func (v *Vertex) TaskLocalResources() map[string]LocalResource { return v.info.LocalResources }

func (v *Vertex) SetTaskEnvironment(env map[string]string) {
	v.info.Environment = env
}

func (v *Vertex) TaskEnvironment() map[string]string { return v.info.Environment }

// SetLaunchOpts sets the options used to launch the process of every task.
func (v *Vertex) SetLaunchOpts(opts string) {
	v.info.LaunchOpts = opts
}

func (v *Vertex) LaunchOpts() string { return v.info.LaunchOpts }

// AddInput adds a root input, read directly from an external source.
// Data produced by another vertex must be connected with DAG.AddEdge instead.
// Only a single root input is supported per vertex.
func (v *Vertex) AddInput(name string, descriptor InputDescriptor, initializerClassName string) error {
	if v.info.Input != nil {
		return &StateError{Msg: "For now, only a single Root Input can be added to a Vertex"}
	}
	v.info.Input = &RootInput{
		Name:                 name,
		Descriptor:           descriptor,
		InitializerClassName: initializerClassName,
	}
	return nil
}

// AddOutput adds a leaf output, written directly to an external destination.
func (v *Vertex) AddOutput(name string, descriptor OutputDescriptor) {
	v.info.Outputs = append(v.info.Outputs, RootOutput{Name: name, Descriptor: descriptor})
}

// Inputs returns the root inputs of the vertex. It holds at most one element.
func (v *Vertex) Inputs() []RootInput {
	if v.info.Input == nil {
		return nil
	}
	return []RootInput{*v.info.Input}
}

// Outputs returns the leaf outputs of the vertex.
func (v *Vertex) Outputs() []RootOutput {
	return append([]RootOutput(nil), v.info.Outputs...)
}

// InputVertices returns the vertices connected to this one by an incoming edge.
func (v *Vertex) InputVertices() []*Vertex {
	return append([]*Vertex(nil), v.inputVertices...)
}

// OutputVertices returns the vertices connected to this one by an outgoing edge.
func (v *Vertex) OutputVertices() []*Vertex {
	return append([]*Vertex(nil), v.outputVertices...)
}

func (v *Vertex) InputEdgeIDs() []string {
	return append([]string(nil), v.inputEdgeIDs...)
}

func (v *Vertex) OutputEdgeIDs() []string {
	return append([]string(nil), v.outputEdgeIDs...)
}

// Info returns a deep copy of the vertex description.
func (v *Vertex) Info() VertexInfo {
	return v.info.Clone()
}

func (v *Vertex) String() string {
	return fmt.Sprintf("[%s : %s]", v.info.Name, v.info.Processor.ClassName)
}

func (v *Vertex) addInputVertex(input *Vertex, edgeID string) {
	v.inputVertices = append(v.inputVertices, input)
	v.inputEdgeIDs = append(v.inputEdgeIDs, edgeID)
}

func (v *Vertex) addOutputVertex(output *Vertex, edgeID string) {
	v.outputVertices = append(v.outputVertices, output)
	v.outputEdgeIDs = append(v.outputEdgeIDs, edgeID)
}
