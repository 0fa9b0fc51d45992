package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/siherrmann/poetry/helper"
	"github.com/siherrmann/poetry/model"
)

// S3Scheme is the location prefix of bucket sources.
const S3Scheme = "s3://"

// Source lists and extracts the documents of a corpus.
// Documents that fail to extract are logged and skipped, documents
// without content are left out.
type Source interface {
	Documents(ctx context.Context) ([]model.RawDocument, error)
}

// New returns the source for location, a folder path or s3://bucket/prefix.
func New(ctx context.Context, location string, extensions []string, logger *slog.Logger, metrics *helper.Metrics) (Source, error) {
	if strings.HasPrefix(location, S3Scheme) {
		bucket, prefix, err := ParseS3Location(location)
		if err != nil {
			return nil, err
		}
		client, err := NewS3Client(ctx, S3ConfigFromEnv())
		if err != nil {
			return nil, err
		}
		return NewS3Source(client, bucket, prefix, extensions, logger, metrics)
	}

	return NewFolderSource(location, extensions, logger, metrics)
}

// ParseS3Location splits s3://bucket/prefix into bucket and prefix.
func ParseS3Location(location string) (bucket string, prefix string, err error) {
	rest, ok := strings.CutPrefix(location, S3Scheme)
	if !ok {
		return "", "", fmt.Errorf("location %q does not start with %s", location, S3Scheme)
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("location %q has no bucket", location)
	}
	return bucket, prefix, nil
}
