package dagspec

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/moby/patternmatcher"
	"github.com/olekukonko/tablewriter"
	"github.com/radiofrance/dagspec/pkg/dag"
	"github.com/radiofrance/dagspec/pkg/graphviz"
	"gopkg.in/yaml.v3"
)

const (
	ConsoleFormat        = "console"
	YAMLFormat           = "yaml"
	GraphvizFormat       = "graphviz"
	TreeFormat           = "tree"
	GoTemplateFileFormat = "go-template-file"
)

type ListOpts struct {
	// Root options
	S3Region string `mapstructure:"s3_region"`

	// List specific options
	Output string   `mapstructure:"output,omitempty"`
	Match  []string `mapstructure:"match,omitempty"`
}

type FormatOpts struct {
	Type         string
	TemplatePath string
}

// VertexSummary describes a vertex of a plan, as listed.
type VertexSummary struct {
	Name         string
	Processor    string
	Parallelism  int
	MemoryMB     int
	VirtualCores int
	Parents      []string
	Children     []string
	Hash         string
}

// GenerateList writes the vertices of the plan matching the patterns in the given format.
// The graphviz and tree formats always render the whole plan.
func GenerateList(ctx context.Context, w io.Writer, plan *dag.Plan, patterns []string, opts FormatOpts) error {
	verticesList, err := GetVerticesList(ctx, plan)
	if err != nil {
		return err
	}

	verticesList, err = SelectVertices(verticesList, patterns)
	if err != nil {
		return err
	}

	switch opts.Type {
	case ConsoleFormat:
		renderConsoleOutput(w, verticesList)
	case YAMLFormat:
		return renderYAMLOutput(w, plan, verticesList, len(patterns) == 0)
	case GraphvizFormat:
		_, err := io.WriteString(w, graphviz.GenerateRawOutput(plan))
		return err
	case TreeFormat:
		return plan.Fprint(w)
	case GoTemplateFileFormat:
		outputTemplate, err := template.ParseFiles(opts.TemplatePath)
		if err != nil {
			return fmt.Errorf("failed to parse go-template file : %w", err)
		}

		err = outputTemplate.Execute(w, verticesList)
		if err != nil {
			return fmt.Errorf("failed to render go-template file : %w", err)
		}
	default:
		return fmt.Errorf("\"%s\" is not a valid output format", opts.Type)
	}

	return nil
}

// GetVerticesList returns a summary of every vertex of the plan, sorted by name.
func GetVerticesList(ctx context.Context, plan *dag.Plan) ([]VertexSummary, error) {
	fingerprints, err := Fingerprint(ctx, plan)
	if err != nil {
		return nil, err
	}

	var verticesList []VertexSummary
	plan.Walk(func(node *dag.Node) {
		vertex := node.Vertex()
		verticesList = append(verticesList, VertexSummary{
			Name:         vertex.Name,
			Processor:    vertex.Processor.ClassName,
			Parallelism:  vertex.Parallelism,
			MemoryMB:     vertex.Resource.MemoryMB,
			VirtualCores: vertex.Resource.VirtualCores,
			Parents:      names(node.Parents()),
			Children:     names(node.Children()),
			Hash:         fingerprints.Vertices[vertex.Name],
		})
	})

	sort.SliceStable(verticesList, func(i, j int) bool {
		return verticesList[i].Name < verticesList[j].Name
	})

	return verticesList, nil
}

// SelectVertices keeps the vertices whose name matches the patterns.
// Patterns follow the .dockerignore syntax, "!" excludes. No pattern selects every vertex.
func SelectVertices(verticesList []VertexSummary, patterns []string) ([]VertexSummary, error) {
	if len(patterns) == 0 {
		return verticesList, nil
	}

	matcher, err := patternmatcher.New(patterns)
	if err != nil {
		return nil, fmt.Errorf("invalid vertex pattern: %w", err)
	}

	var selected []VertexSummary
	for _, vertex := range verticesList {
		match, err := matcher.MatchesOrParentMatches(vertex.Name)
		if err != nil {
			return nil, fmt.Errorf("could not match vertex %s: %w", vertex.Name, err)
		}
		if match {
			selected = append(selected, vertex)
		}
	}

	return selected, nil
}

// ParseOutputOptions parse value of the "--output" flag and ensure they are valid.
func ParseOutputOptions(output string) (FormatOpts, error) {
	formatOpts := FormatOpts{}
	switch output {
	case "", ConsoleFormat:
		formatOpts.Type = ConsoleFormat
		return formatOpts, nil
	case YAMLFormat, GraphvizFormat, TreeFormat:
		formatOpts.Type = output
		return formatOpts, nil
	}

	parsed := strings.SplitN(output, "=", 2)
	switch parsed[0] {
	case GoTemplateFileFormat:
		if len(parsed) == 1 || parsed[1] == "" {
			return formatOpts, fmt.Errorf("you need to provide a path to template file when using \"go-template-file\" options")
		}

		formatOpts.Type = GoTemplateFileFormat
		formatOpts.TemplatePath = parsed[1]
	default:
		return formatOpts, fmt.Errorf("\"%s\" is not a valid output format", output)
	}

	return formatOpts, nil
}

// renderConsoleOutput displays the list of vertices as a nice table.
func renderConsoleOutput(w io.Writer, verticesList []VertexSummary) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	var data [][]string
	for _, vertex := range verticesList {
		parallelism := "auto"
		if vertex.Parallelism >= 0 {
			parallelism = strconv.Itoa(vertex.Parallelism)
		}
		data = append(data, []string{vertex.Name, vertex.Processor, parallelism, vertex.Hash})
	}

	table.AppendBulk(data)

	table.SetHeader([]string{"Name", "Processor", "Parallelism", "Hash"})
	table.Render()
}

func renderYAMLOutput(w io.Writer, plan *dag.Plan, verticesList []VertexSummary, all bool) error {
	if all {
		_, err := io.WriteString(w, plan.ListVertices())
		return err
	}

	vertices := make(map[string]dag.VertexInfo, len(verticesList))
	for _, summary := range verticesList {
		if node, ok := plan.Node(summary.Name); ok {
			vertices[summary.Name] = node.Vertex()
		}
	}

	out, err := yaml.Marshal(vertices)
	if err != nil {
		return fmt.Errorf("failed to marshal vertices: %w", err)
	}

	_, err = w.Write(out)
	return err
}

func names(nodes []*dag.Node) []string {
	result := make([]string, 0, len(nodes))
	for _, node := range nodes {
		result = append(result, node.Name())
	}
	sort.Strings(result)
	return result
}
