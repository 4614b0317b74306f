package dag

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// NodeVisitorFunc visits a node of the plan.
type NodeVisitorFunc func(*Node)

// NodeVisitorFuncErr visits a node of the plan, and can return an error.
type NodeVisitorFuncErr func(*Node) error

// Node is a vertex of a Plan.
type Node struct {
	info VertexInfo

	parents  []*Node
	children []*Node
	inEdges  []*PlanEdge
	outEdges []*PlanEdge
}

func (n *Node) Name() string {
	return n.info.Name
}

// Vertex returns a copy of the vertex description.
func (n *Node) Vertex() VertexInfo {
	return n.info.Clone()
}

// Children returns the distinct consumers of the node.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// Parents returns the distinct producers of the node.
func (n *Node) Parents() []*Node {
	return append([]*Node(nil), n.parents...)
}

// InEdges returns every incoming edge, parallel edges included.
func (n *Node) InEdges() []*PlanEdge {
	return append([]*PlanEdge(nil), n.inEdges...)
}

// OutEdges returns every outgoing edge, parallel edges included.
func (n *Node) OutEdges() []*PlanEdge {
	return append([]*PlanEdge(nil), n.outEdges...)
}

// addChild links both nodes, unless they are already linked by a parallel edge.
func (n *Node) addChild(child *Node) {
	for _, existing := range n.children {
		if existing == child {
			return
		}
	}
	n.children = append(n.children, child)
	child.parents = append(child.parents, n)
}

// Walk applies the visitor func to every node, parents always before their children.
func (p *Plan) Walk(visitor NodeVisitorFunc) {
	for _, node := range p.nodes {
		visitor(node)
	}
}

// WalkErr applies the visitor func to every node, parents always before their children.
// If an error occurs, it stops traversing the plan and returns the error immediately.
func (p *Plan) WalkErr(visitor NodeVisitorFuncErr) error {
	for _, node := range p.nodes {
		if err := visitor(node); err != nil {
			return err
		}
	}
	return nil
}

// WalkInDepth makes a depth-first recursive walk through the plan, starting from the roots.
// Every node is visited once, after all of its children.
func (p *Plan) WalkInDepth(visitor NodeVisitorFunc) {
	visited := make(map[*Node]struct{}, len(p.nodes))
	for _, root := range p.Roots() {
		root.walkInDepth(visitor, visited)
	}
}

// walkInDepth applies the visitor func to every children node, then to the current node itself.
func (n *Node) walkInDepth(visitor NodeVisitorFunc, visited map[*Node]struct{}) {
	if _, exists := visited[n]; exists {
		return
	}
	visited[n] = struct{}{}

	for _, child := range n.children {
		child.walkInDepth(visitor, visited)
	}
	visitor(n)
}

// WalkParallel applies the visitor func to every node, in parallel.
// Before processing a node it waits for every parent node to be completed.
// The first error cancels the walk and is returned.
func (p *Plan) WalkParallel(ctx context.Context, visitor NodeVisitorFuncErr) error {
	done := make(map[*Node]chan struct{}, len(p.nodes))
	for _, node := range p.nodes {
		done[node] = make(chan struct{})
	}

	errG, ctx := errgroup.WithContext(ctx)
	for _, node := range p.nodes {
		errG.Go(func() error {
			for _, parent := range node.parents {
				select {
				case <-done[parent]:
				case <-ctx.Done():
					return ctx.Err()
				}
			}

			if err := ctx.Err(); err != nil {
				return err
			}
			if err := visitor(node); err != nil {
				return err
			}

			close(done[node])
			return nil
		})
	}

	return errG.Wait()
}
