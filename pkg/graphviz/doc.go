// Package graphviz provides tools and utilities for generating Graphviz visualizations of a plan.
//
// The main functionalities include:
// - Rendering a verified plan in the DOT language, one edge per DAG edge.
// - Exporting the graph to PNG.
package graphviz
