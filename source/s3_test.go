package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore serves objects from memory, two keys per page.
type fakeStore struct {
	objects map[string][]byte
}

func (f *fakeStore) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	keys := []string{}
	for key := range f.objects {
		if strings.HasPrefix(key, aws.ToString(params.Prefix)) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	start := 0
	if params.ContinuationToken != nil {
		for i, key := range keys {
			if key == *params.ContinuationToken {
				start = i
			}
		}
	}
	end := min(start+2, len(keys))

	output := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, key := range keys[start:end] {
		output.Contents = append(output.Contents, types.Object{Key: aws.String(key)})
	}
	if end < len(keys) {
		output.NextContinuationToken = aws.String(keys[end])
	}
	return output, nil
}

func (f *fakeStore) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	content, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, errors.New("no such key")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(content))}, nil
}

func TestS3Source(t *testing.T) {
	store := &fakeStore{objects: map[string][]byte{
		"poems/a.txt":        []byte("First poem"),
		"poems/b/second.txt": []byte("Second poem"),
		"poems/c.docx":       docx(t, "Word poem"),
		"poems/d.txt":        []byte(""),
		"poems/e.pdf":        []byte("%PDF"),
		"poems/folder/":      nil,
		"other/f.txt":        []byte("Other prefix"),
	}}

	source, err := NewS3Source(store, "bucket", "poems/", []string{".txt", ".docx"}, nil, nil)
	require.NoError(t, err)

	t.Run("Lists matching keys over all pages", func(t *testing.T) {
		keys, err := source.Keys(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"poems/a.txt", "poems/b/second.txt", "poems/c.docx", "poems/d.txt"}, keys)
	})

	t.Run("Reads documents relative to prefix", func(t *testing.T) {
		docs, err := source.Documents(context.Background())
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, "a.txt", docs[0].Filename)
		assert.Equal(t, "b/second.txt", docs[1].Filename)
		assert.Equal(t, "c.docx", docs[2].Filename)
		assert.Equal(t, "Word poem", docs[2].Content)
	})
}
