package dagspec

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"slices"
	"sort"
	"sync"

	"github.com/radiofrance/dagspec/pkg/dag"
	"github.com/wolfeidau/humanhash"
)

// Fingerprints holds the human-readable hashes of a plan and of each of its vertices.
type Fingerprints struct {
	Plan     string
	Vertices map[string]string
}

// Fingerprint hashes every vertex of the plan, parents first.
// The hash of a vertex covers its description, its incoming edges and the hashes of its parents,
// so changing a vertex changes the hash of all of its descendants.
// The plan fingerprint covers every vertex hash. None of them depend on registration order.
func Fingerprint(ctx context.Context, plan *dag.Plan) (Fingerprints, error) {
	var lock sync.Mutex
	digests := make(map[string][]byte, len(plan.Nodes()))

	err := plan.WalkParallel(ctx, func(node *dag.Node) error {
		lock.Lock()
		parentDigests := make([]string, 0, len(node.Parents()))
		for _, parent := range node.Parents() {
			parentDigests = append(parentDigests, hex.EncodeToString(digests[parent.Name()]))
		}
		lock.Unlock()

		digest := hashVertex(node, parentDigests)

		lock.Lock()
		digests[node.Name()] = digest
		lock.Unlock()

		return nil
	})
	if err != nil {
		return Fingerprints{}, err
	}

	fingerprints := Fingerprints{Vertices: make(map[string]string, len(digests))}

	names := make([]string, 0, len(digests))
	for name := range digests {
		names = append(names, name)
	}
	sort.Strings(names)

	planHash := sha256.New()
	for _, name := range names {
		fmt.Fprintf(planHash, "%x  %s\n", digests[name], name)

		human, err := humanhash.Humanize(digests[name], 4)
		if err != nil {
			return Fingerprints{}, fmt.Errorf("could not humanize hash of vertex %s: %w", name, err)
		}
		fingerprints.Vertices[name] = human
	}

	fingerprints.Plan, err = humanhash.Humanize(planHash.Sum(nil), 4)
	if err != nil {
		return Fingerprints{}, fmt.Errorf("could not humanize hash: %w", err)
	}

	return fingerprints, nil
}

func hashVertex(node *dag.Node, parentDigests []string) []byte {
	vertex := node.Vertex()
	h := sha256.New()

	fmt.Fprintf(h, "name %s\n", vertex.Name)
	fmt.Fprintf(h, "processor %s %x\n", vertex.Processor.ClassName, payloadDigest(vertex.Processor.UserPayload))
	fmt.Fprintf(h, "parallelism %d\n", vertex.Parallelism)
	fmt.Fprintf(h, "resource %d %d\n", vertex.Resource.MemoryMB, vertex.Resource.VirtualCores)
	fmt.Fprintf(h, "launch_opts %q\n", vertex.LaunchOpts)

	writeSortedMap(h, "env", vertex.Environment, func(v string) string { return v })
	writeSortedMap(h, "local_resource", vertex.LocalResources, func(r dag.LocalResource) string {
		return fmt.Sprintf("%s %d %d %s %s", r.URL, r.Size, r.Timestamp, r.Type, r.Visibility)
	})

	for i, hint := range vertex.LocationHints {
		fmt.Fprintf(h, "hint %d %q %q\n", i, hint.Hosts, hint.Racks)
	}

	if input := vertex.Input; input != nil {
		fmt.Fprintf(h, "input %s %s %x %s\n", input.Name, input.Descriptor.ClassName,
			payloadDigest(input.Descriptor.UserPayload), input.InitializerClassName)
	}

	outputs := make([]string, 0, len(vertex.Outputs))
	for _, output := range vertex.Outputs {
		outputs = append(outputs, fmt.Sprintf("output %s %s %x\n", output.Name, output.Descriptor.ClassName,
			payloadDigest(output.Descriptor.UserPayload)))
	}
	writeSorted(h, outputs)

	edges := make([]string, 0, len(node.InEdges()))
	for _, edge := range node.InEdges() {
		property := edge.Property()
		edges = append(edges, fmt.Sprintf("edge %s %s %s %s %s %x %s %x\n", edge.From().Name(),
			property.DataMovementType, property.DataSourceType, property.SchedulingType,
			property.OutputDescriptor.ClassName, payloadDigest(property.OutputDescriptor.UserPayload),
			property.InputDescriptor.ClassName, payloadDigest(property.InputDescriptor.UserPayload)))
	}
	writeSorted(h, edges)

	parents := make([]string, 0, len(parentDigests))
	for _, digest := range parentDigests {
		parents = append(parents, "parent "+digest+"\n")
	}
	writeSorted(h, parents)

	return h.Sum(nil)
}

func payloadDigest(payload []byte) []byte {
	sum := sha256.Sum256(payload)
	return sum[:]
}

func writeSorted(h hash.Hash, lines []string) {
	lines = slices.Clone(lines)
	sort.Strings(lines)
	for _, line := range lines {
		_, _ = io.WriteString(h, line)
	}
}

func writeSortedMap[V any](h hash.Hash, prefix string, m map[string]V, format func(V) string) {
	lines := make([]string, 0, len(m))
	for key, value := range m {
		lines = append(lines, fmt.Sprintf("%s %q %q\n", prefix, key, format(value)))
	}
	writeSorted(h, lines)
}
