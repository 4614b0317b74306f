package dag

// DAG is a mutable builder of a directed acyclic graph of vertices.
// It is not safe for concurrent use, and must not be modified while being verified.
type DAG struct {
	name string

	// added records every AddVertex call, so duplicate names can be detected at verification.
	added    []*Vertex
	vertices map[string]*Vertex
	edges    []*Edge
}

// NewDAG creates an empty DAG.
func NewDAG(name string) *DAG {
	return &DAG{
		name:     name,
		vertices: make(map[string]*Vertex),
	}
}

func (d *DAG) Name() string {
	return d.name
}

// AddVertex registers a vertex. Registering two vertices under the same name does not fail
// here, it makes the DAG fail verification.
func (d *DAG) AddVertex(vertex *Vertex) {
	d.added = append(d.added, vertex)
	if _, exists := d.vertices[vertex.Name()]; !exists {
		d.vertices[vertex.Name()] = vertex
	}
}

// AddEdge registers an edge and connects both of its vertices.
func (d *DAG) AddEdge(edge *Edge) {
	d.edges = append(d.edges, edge)

	edge.from.addOutputVertex(edge.to, edge.id)
	edge.to.addInputVertex(edge.from, edge.id)
}

// Vertices returns every registered vertex, in registration order, duplicates included.
func (d *DAG) Vertices() []*Vertex {
	return append([]*Vertex(nil), d.added...)
}

// Vertex returns the first vertex registered under the given name.
func (d *DAG) Vertex(name string) (*Vertex, bool) {
	vertex, ok := d.vertices[name]
	return vertex, ok
}

// Edges returns the registered edges, in registration order.
func (d *DAG) Edges() []*Edge {
	return append([]*Edge(nil), d.edges...)
}

// Build verifies the DAG and returns an immutable snapshot of it.
func (d *DAG) Build() (*Plan, error) {
	if err := d.Verify(); err != nil {
		return nil, err
	}

	return newPlan(d), nil
}
