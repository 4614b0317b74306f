package dag

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/pterm/pterm"
)

var defaultPrinter = GraphPrinter{
	TopRightCornerString: "└",
	TopRightDownString:   "├",
	HorizontalString:     "─",
	VerticalString:       "│",
	RightDownLeftString:  "┬",
	Indent:               3,
}

// GraphPrinter renders a plan as a tree. A node with several parents is rendered under each of them.
type GraphPrinter struct {
	Title                string
	Roots                []*Node
	TreeStyle            *pterm.Style
	TextStyle            *pterm.Style
	TopRightCornerString string
	TopRightDownString   string
	HorizontalString     string
	VerticalString       string
	RightDownLeftString  string
	Indent               int
	Writer               io.Writer
}

// WithPlan returns a new GraphPrinter rendering the given plan.
func (p GraphPrinter) WithPlan(plan *Plan) *GraphPrinter {
	p.Title = plan.Name()
	p.Roots = plan.Roots()
	return &p
}

// Render prints the tree to the printer writer.
func (p GraphPrinter) Render() error {
	s, err := p.Srender()
	if err != nil {
		return err
	}
	pterm.Fprintln(p.Writer, s)

	return nil
}

// Srender renders the tree as a string.
func (p GraphPrinter) Srender() (string, error) {
	if p.TreeStyle == nil {
		p.TreeStyle = pterm.NewStyle()
	}
	if p.TextStyle == nil {
		p.TextStyle = pterm.NewStyle()
	}

	var result string
	if p.Title != "" {
		result += p.TextStyle.Sprint(p.Title) + "\n"
	}
	result += walkOverTree(sortedByName(p.Roots), p, "")
	return result, nil
}

// Fprint writes the plan as a tree to w.
func (p *Plan) Fprint(w io.Writer) error {
	printer := defaultPrinter.WithPlan(p)
	printer.Writer = w
	return printer.Render()
}

// Sprint renders the plan as a tree, children sorted by name.
func (p *Plan) Sprint() string {
	s, err := defaultPrinter.WithPlan(p).Srender()
	if err != nil {
		return err.Error()
	}
	return s
}

func sortedByName(nodes []*Node) []*Node {
	sorted := append([]*Node(nil), nodes...)
	slices.SortFunc(sorted, func(a, b *Node) int {
		return cmp.Compare(strings.ToLower(a.Name()), strings.ToLower(b.Name()))
	})
	return sorted
}

func nodeLabel(node *Node) string {
	parallelism := "auto"
	if node.info.Parallelism >= 0 {
		parallelism = fmt.Sprintf("x%d", node.info.Parallelism)
	}
	return fmt.Sprintf("%s [%s]\n", node.Name(), parallelism)
}

func walkOverTree(nodes []*Node, printer GraphPrinter, prefix string) string {
	var res string
	for nodeIndex, node := range nodes {
		txt := nodeLabel(node)
		children := sortedByName(node.children)

		corner := printer.TopRightCornerString
		childPrefix := prefix + strings.Repeat(" ", printer.Indent)
		if nodeIndex < len(nodes)-1 { // if not last in nodes
			corner = printer.TopRightDownString
			childPrefix = prefix + printer.TreeStyle.Sprint(printer.VerticalString) +
				strings.Repeat(" ", printer.Indent-1)
		}

		if len(children) == 0 {
			res += prefix + printer.TreeStyle.Sprint(corner) +
				strings.Repeat(printer.TreeStyle.Sprint(printer.HorizontalString), printer.Indent) +
				printer.TextStyle.Sprint(txt)
			continue
		}

		res += prefix + printer.TreeStyle.Sprint(corner) +
			strings.Repeat(printer.TreeStyle.Sprint(printer.HorizontalString), printer.Indent-1) +
			printer.TreeStyle.Sprint(printer.RightDownLeftString) +
			printer.TextStyle.Sprint(txt)
		res += walkOverTree(children, printer, childPrefix)
	}
	return res
}
