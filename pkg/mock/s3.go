package mock

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3ObjectGetter serves in-memory objects, keyed by "bucket/key".
type S3ObjectGetter struct {
	Objects map[string]string

	lock      sync.Mutex
	requested []string
}

func NewS3ObjectGetter(objects map[string]string) *S3ObjectGetter {
	return &S3ObjectGetter{Objects: objects}
}

func (g *S3ObjectGetter) GetObject(_ context.Context, params *s3.GetObjectInput,
	_ ...func(*s3.Options),
) (*s3.GetObjectOutput, error) {
	path := aws.ToString(params.Bucket) + "/" + aws.ToString(params.Key)

	g.lock.Lock()
	g.requested = append(g.requested, path)
	g.lock.Unlock()

	content, ok := g.Objects[path]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}

	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(content))}, nil
}

// Requested returns the "bucket/key" paths requested so far.
func (g *S3ObjectGetter) Requested() []string {
	g.lock.Lock()
	defer g.lock.Unlock()

	return append([]string(nil), g.requested...)
}
