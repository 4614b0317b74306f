package dag

import (
	"gopkg.in/yaml.v3"
)

// Plan is an immutable snapshot of a verified DAG.
type Plan struct {
	name   string
	nodes  []*Node // Topological order.
	byName map[string]*Node
	edges  []*PlanEdge
}

// PlanEdge is an edge of a Plan.
type PlanEdge struct {
	id       string
	from     *Node
	to       *Node
	property EdgeProperty
}

func (e *PlanEdge) ID() string { return e.id }

func (e *PlanEdge) From() *Node { return e.from }

func (e *PlanEdge) To() *Node { return e.to }

// Property returns a copy of the edge property.
func (e *PlanEdge) Property() EdgeProperty { return e.property.clone() }

// newPlan freezes a verified DAG. Nodes are sorted topologically,
// ties are broken by registration order.
func newPlan(d *DAG) *Plan {
	plan := &Plan{
		name:   d.name,
		byName: make(map[string]*Node, len(d.added)),
	}

	registered := make([]*Node, 0, len(d.added))
	nodeOf := make(map[*Vertex]*Node, len(d.added))
	for _, vertex := range d.added {
		node := &Node{info: vertex.info.Clone()}
		nodeOf[vertex] = node
		plan.byName[node.info.Name] = node
		registered = append(registered, node)
	}

	indegree := make(map[*Node]int, len(registered))
	for _, edge := range d.edges {
		from, to := nodeOf[edge.from], nodeOf[edge.to]
		planEdge := &PlanEdge{id: edge.id, from: from, to: to, property: edge.property.clone()}
		plan.edges = append(plan.edges, planEdge)

		from.outEdges = append(from.outEdges, planEdge)
		to.inEdges = append(to.inEdges, planEdge)
		indegree[to]++
		from.addChild(to)
	}

	queue := make([]*Node, 0, len(registered))
	for _, node := range registered {
		if indegree[node] == 0 {
			queue = append(queue, node)
		}
	}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		plan.nodes = append(plan.nodes, node)

		for _, edge := range node.outEdges {
			indegree[edge.to]--
			if indegree[edge.to] == 0 {
				queue = append(queue, edge.to)
			}
		}
	}

	return plan
}

func (p *Plan) Name() string {
	return p.name
}

// Nodes returns every node, parents always before their children.
func (p *Plan) Nodes() []*Node {
	return append([]*Node(nil), p.nodes...)
}

// Roots returns the nodes without parents.
func (p *Plan) Roots() []*Node {
	var roots []*Node
	for _, node := range p.nodes {
		if len(node.parents) == 0 {
			roots = append(roots, node)
		}
	}
	return roots
}

// Node returns the node of the given vertex name.
func (p *Plan) Node(name string) (*Node, bool) {
	node, ok := p.byName[name]
	return node, ok
}

// Edges returns the edges, in registration order.
func (p *Plan) Edges() []*PlanEdge {
	return append([]*PlanEdge(nil), p.edges...)
}

// ListVertices returns a YAML document of every vertex description, keyed by vertex name.
func (p *Plan) ListVertices() string {
	vertices := make(map[string]VertexInfo, len(p.nodes))
	for _, node := range p.nodes {
		vertices[node.info.Name] = node.info
	}

	out, err := yaml.Marshal(vertices)
	if err != nil {
		return err.Error()
	}

	return string(out)
}
