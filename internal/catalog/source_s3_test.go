package catalog

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	body   string
	err    error
	bucket string
	key    string
}

func (f *fakeGetter) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestLoadS3(t *testing.T) {
	g := &fakeGetter{body: smallDataset}

	ds, err := LoadS3(context.Background(), g, "media", "catalog/movies.json")
	require.NoError(t, err)

	assert.Equal(t, "media", g.bucket)
	assert.Equal(t, "catalog/movies.json", g.key)
	assert.Len(t, ds.Items, 2)
}

func TestLoadS3_GetError(t *testing.T) {
	boom := errors.New("access denied")

	_, err := LoadS3(context.Background(), &fakeGetter{err: boom}, "media", "k")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "s3://media/k")
}
