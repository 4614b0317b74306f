package planfile

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/radiofrance/dagspec/internal/logger"
	"github.com/radiofrance/dagspec/pkg/dag"
)

const s3Scheme = "s3://"

// Source opens plan definitions.
type Source interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// LocalSource reads plan definitions from the local filesystem.
type LocalSource struct{}

func (LocalSource) Open(_ context.Context, location string) (io.ReadCloser, error) {
	file, err := os.Open(location) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("can't open file %s: %w", location, err)
	}
	return file, nil
}

// ObjectGetter is the subset of the S3 client used to fetch plan definitions.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads plan definitions from s3://bucket/key locations.
type S3Source struct {
	client ObjectGetter
}

// NewS3Source creates an S3Source from the default AWS configuration.
// An empty region falls back to the region of the environment.
func NewS3Source(ctx context.Context, region string) (*S3Source, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("can't load AWS config: %w", err)
	}

	return NewS3SourceFromClient(s3.NewFromConfig(cfg)), nil
}

// NewS3SourceFromClient creates an S3Source using the given client.
func NewS3SourceFromClient(client ObjectGetter) *S3Source {
	return &S3Source{client: client}
}

func (s *S3Source) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	bucket, key, err := ParseS3Location(location)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("can't send S3 GET request for %s: %w", location, err)
	}

	return out.Body, nil
}

// ParseS3Location splits s3://bucket/key into its bucket and key.
func ParseS3Location(location string) (string, string, error) {
	path, ok := strings.CutPrefix(location, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("%q is not an S3 location", location)
	}

	bucket, key, _ := strings.Cut(path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%q must have the form s3://bucket/key", location)
	}

	return bucket, key, nil
}

// MultiSource dispatches s3:// locations to S3 and everything else to Local.
// S3 may be nil when no S3 location is expected.
type MultiSource struct {
	Local Source
	S3    Source
}

func (m MultiSource) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if strings.HasPrefix(location, s3Scheme) {
		if m.S3 == nil {
			return nil, fmt.Errorf("can't open %s: S3 source is not configured", location)
		}
		return m.S3.Open(ctx, location)
	}

	local := m.Local
	if local == nil {
		local = LocalSource{}
	}
	return local.Open(ctx, location)
}

// Load reads and parses the plan definition found at location.
func Load(ctx context.Context, source Source, location string) (*Definition, error) {
	logger.Debugf("Loading plan definition from %s", location)

	reader, err := source.Open(ctx, location)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := reader.Close(); err != nil {
			logger.Errorf("can't close %s: %v", location, err)
		}
	}()

	def, err := Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}

	return def, nil
}

// LoadDAG reads a plan definition and builds its DAG, without verifying it.
func LoadDAG(ctx context.Context, source Source, location string) (*dag.DAG, error) {
	def, err := Load(ctx, source, location)
	if err != nil {
		return nil, err
	}

	graph, err := def.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}

	return graph, nil
}
