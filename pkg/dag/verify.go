package dag

import "fmt"

// Names of the verification passes, in the order they run.
const (
	CheckNonEmpty       = "non-empty"
	CheckUniqueNames    = "unique-names"
	CheckNamespace      = "namespace"
	CheckEdgeProperties = "edge-properties"
	CheckAcyclic        = "acyclic"
)

type check struct {
	name string
	run  func(d *DAG) error
}

var checks = []check{
	{name: CheckNonEmpty, run: checkNonEmpty},
	{name: CheckUniqueNames, run: checkUniqueNames},
	{name: CheckNamespace, run: checkNamespace},
	{name: CheckEdgeProperties, run: checkEdgeProperties},
	{name: CheckAcyclic, run: checkAcyclic},
}

// Checks returns the names of the verification passes, in the order they run.
func Checks() []string {
	names := make([]string, 0, len(checks))
	for _, c := range checks {
		names = append(names, c.name)
	}
	return names
}

// CheckStatus is the outcome of a single verification pass.
type CheckStatus int

const (
	CheckPassed CheckStatus = iota
	CheckFailed
	// CheckSkipped is reported for every pass following a failed one.
	CheckSkipped
)

func (s CheckStatus) String() string {
	switch s {
	case CheckPassed:
		return "passed"
	case CheckFailed:
		return "failed"
	case CheckSkipped:
		return "skipped"
	}
	return "unknown"
}

// CheckResult reports the outcome of a single verification pass.
type CheckResult struct {
	Name   string
	Status CheckStatus
	Err    error
}

// Verify runs every verification pass in order and returns the first failure,
// as a *VerificationError. It does not modify the DAG.
func (d *DAG) Verify() error {
	for _, c := range checks {
		if err := c.run(d); err != nil {
			return err
		}
	}
	return nil
}

// VerifyChecks runs the same passes as Verify, and reports the outcome of each of them.
// Passes following the first failure are reported as skipped.
func (d *DAG) VerifyChecks() []CheckResult {
	results := make([]CheckResult, 0, len(checks))
	failed := false
	for _, c := range checks {
		if failed {
			results = append(results, CheckResult{Name: c.name, Status: CheckSkipped})
			continue
		}
		if err := c.run(d); err != nil {
			failed = true
			results = append(results, CheckResult{Name: c.name, Status: CheckFailed, Err: err})
			continue
		}
		results = append(results, CheckResult{Name: c.name, Status: CheckPassed})
	}
	return results
}

func checkNonEmpty(d *DAG) error {
	if len(d.added) == 0 {
		return verificationError(CheckNonEmpty, "Invalid dag containing 0 vertices")
	}
	return nil
}

func checkUniqueNames(d *DAG) error {
	seen := make(map[string]struct{}, len(d.added))
	for _, vertex := range d.added {
		if _, exists := seen[vertex.Name()]; exists {
			return verificationError(CheckUniqueNames,
				fmt.Sprintf("Vertex %s already defined", vertex.Name()))
		}
		seen[vertex.Name()] = struct{}{}
	}
	return nil
}

type entryKind int

const (
	vertexEntry entryKind = iota
	inputEntry
	outputEntry
)

func (k entryKind) String() string {
	switch k {
	case inputEntry:
		return "Input"
	case outputEntry:
		return "Output"
	}
	return "vertex"
}

type namespaceEntry struct {
	owner *Vertex
	kind  entryKind
}

// checkNamespace ensures vertex names and port names can be resolved through a single lookup.
// A vertex may only reuse one of its own port names in the opposite direction.
func checkNamespace(d *DAG) error {
	names := make(map[string]namespaceEntry, len(d.added))
	for _, vertex := range d.added {
		names[vertex.Name()] = namespaceEntry{owner: vertex, kind: vertexEntry}
	}

	for _, vertex := range d.added {
		if input := vertex.info.Input; input != nil {
			if err := claimPortName(names, vertex, input.Name, inputEntry); err != nil {
				return err
			}
		}
		for _, output := range vertex.info.Outputs {
			if err := claimPortName(names, vertex, output.Name, outputEntry); err != nil {
				return err
			}
		}
	}
	return nil
}

func claimPortName(names map[string]namespaceEntry, vertex *Vertex, name string, kind entryKind) error {
	entry, exists := names[name]
	if !exists {
		names[name] = namespaceEntry{owner: vertex, kind: kind}
		return nil
	}

	switch {
	case entry.kind == vertexEntry:
		return verificationError(CheckNamespace, fmt.Sprintf(
			"Vertex: %s contains an %s with the same name as vertex: %s", vertex.Name(), kind, name))
	case entry.owner != vertex:
		return verificationError(CheckNamespace, fmt.Sprintf(
			"Vertex: %s contains an %s named %s which is already used by vertex: %s",
			vertex.Name(), kind, name, entry.owner.Name()))
	case entry.kind == kind:
		return verificationError(CheckNamespace, fmt.Sprintf(
			"Vertex: %s contains duplicate %s name: %s", vertex.Name(), kind, name))
	}
	return nil
}

func checkEdgeProperties(d *DAG) error {
	registered := make(map[*Vertex]struct{}, len(d.added))
	for _, vertex := range d.added {
		registered[vertex] = struct{}{}
	}

	for _, edge := range d.edges {
		property := edge.property
		if property.DataMovementType == ScatterGather && property.DataSourceType != Persisted {
			return verificationError(CheckEdgeProperties, "Unsupported source type on edge. "+edge.String())
		}

		for _, vertex := range []*Vertex{edge.from, edge.to} {
			if _, ok := registered[vertex]; !ok {
				return verificationError(CheckEdgeProperties, fmt.Sprintf(
					"Edge %s references vertex %s which is not part of the dag", edge, vertex.Name()))
			}
		}
	}
	return nil
}

type color int

const (
	white color = iota // not visited yet
	gray               // on the current depth-first path
	black              // fully explored
)

// checkAcyclic runs a three-color depth-first search from every vertex, in registration order.
func checkAcyclic(d *DAG) error {
	adjacency := make(map[*Vertex][]*Vertex, len(d.added))
	for _, edge := range d.edges {
		adjacency[edge.from] = append(adjacency[edge.from], edge.to)
	}

	colors := make(map[*Vertex]color, len(d.added))
	var path []*Vertex

	var visit func(vertex *Vertex) []string
	visit = func(vertex *Vertex) []string {
		colors[vertex] = gray
		path = append(path, vertex)

		for _, next := range adjacency[vertex] {
			switch colors[next] {
			case gray:
				return cyclePath(path, next)
			case white:
				if cycle := visit(next); cycle != nil {
					return cycle
				}
			case black:
			}
		}

		path = path[:len(path)-1]
		colors[vertex] = black
		return nil
	}

	for _, vertex := range d.added {
		if colors[vertex] != white {
			continue
		}
		if cycle := visit(vertex); cycle != nil {
			return cycleError(cycle)
		}
	}
	return nil
}

// cyclePath returns the names of the vertices on the path from cycleStart, closing the loop.
func cyclePath(path []*Vertex, cycleStart *Vertex) []string {
	startIdx := 0
	for i, vertex := range path {
		if vertex == cycleStart {
			startIdx = i
			break
		}
	}

	names := make([]string, 0, len(path)-startIdx+1)
	for _, vertex := range path[startIdx:] {
		names = append(names, vertex.Name())
	}
	return append(names, cycleStart.Name())
}
