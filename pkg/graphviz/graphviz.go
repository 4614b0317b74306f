package graphviz

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/radiofrance/dagspec/pkg/dag"
)

const (
	// graphDot is the name of the file containing the raw graphviz dot language representation of the plan.
	graphDot = "dag.dot"

	// graphPng is the final file inside we put the plan graph.
	graphPng = "dag.png"
)

// GenerateGraph generates a graphviz representation (dot and png) of the plan in the given directory.
func GenerateGraph(ctx context.Context, plan *dag.Plan, outputDir string) error {
	rawGraphvizOutput := GenerateRawOutput(plan)

	graphvizFile := path.Join(outputDir, graphDot)
	pngFile := path.Join(outputDir, graphPng)

	err := os.WriteFile(graphvizFile, []byte(rawGraphvizOutput), 0o644) //nolint:gosec
	if err != nil {
		return err
	}

	g, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("failed to create graphviz: %w", err)
	}

	defer func() {
		_ = g.Close()
	}()

	graph, err := graphviz.ParseBytes([]byte(rawGraphvizOutput))
	if err != nil {
		return fmt.Errorf("failed to parse graphviz: %w", err)
	}

	defer func() {
		_ = graph.Close()
	}()

	err = g.RenderFilename(ctx, graph, graphviz.PNG, pngFile)
	if err != nil {
		return fmt.Errorf("failed to render graph: %w", err)
	}

	return nil
}

// GenerateRawOutput generates the raw graphviz dot language from the given plan.
// Vertices reading a root input are green, vertices writing root outputs are blue.
// Edges are labelled with their data movement type, ephemeral edges are dashed.
func GenerateRawOutput(plan *dag.Plan) string {
	rawGraphvizDotLang := []string{
		"digraph dag {\n",
		"  rankdir = \"LR\";\n",
		"  node[fontsize=10, shape=box, height=0.4];\n",
		"  edge[fontsize=8, arrowhead=vee];\n",
		"\n",
	}

	if plan != nil {
		plan.Walk(func(node *dag.Node) {
			vertex := node.Vertex()

			color := "white"
			switch {
			case vertex.Input != nil:
				color = "palegreen"
			case len(vertex.Outputs) > 0:
				color = "lightblue"
			}

			rawGraphvizDotLang = append(rawGraphvizDotLang, fmt.Sprintf(
				"  %q [label=%q, fillcolor=%s, style=filled];\n",
				vertex.Name,
				vertex.Name+"\n"+vertex.Processor.ClassName,
				color,
			))

			for _, edge := range node.OutEdges() {
				property := edge.Property()

				style := "solid"
				if property.DataSourceType == dag.Ephemeral {
					style = "dashed"
				}

				rawGraphvizDotLang = append(rawGraphvizDotLang, fmt.Sprintf(
					"  %q -> %q [label=%q, style=%s];\n",
					vertex.Name,
					edge.To().Name(),
					property.DataMovementType.String(),
					style,
				))
			}
		})
	}

	rawGraphvizDotLang = append(rawGraphvizDotLang, "}\n")

	return strings.Join(rawGraphvizDotLang, "")
}
