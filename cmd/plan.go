package cmd

import (
	"context"
	"strings"

	"github.com/radiofrance/dagspec/pkg/dag"
	"github.com/radiofrance/dagspec/pkg/planfile"
)

// newSource returns a source able to open every location. The S3 client is only
// configured when at least one location is an s3:// URL.
func newSource(ctx context.Context, region string, locations []string) (planfile.Source, error) {
	source := planfile.MultiSource{Local: planfile.LocalSource{}}

	for _, location := range locations {
		if strings.HasPrefix(location, "s3://") {
			s3Source, err := planfile.NewS3Source(ctx, region)
			if err != nil {
				return nil, err
			}
			source.S3 = s3Source
			break
		}
	}

	return source, nil
}

// loadPlan loads, verifies and freezes the plan definition found at location.
func loadPlan(ctx context.Context, region, location string) (*dag.Plan, error) {
	source, err := newSource(ctx, region, []string{location})
	if err != nil {
		return nil, err
	}

	graph, err := planfile.LoadDAG(ctx, source, location)
	if err != nil {
		return nil, err
	}

	return graph.Build()
}
