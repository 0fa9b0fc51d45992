package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gobwas/glob"
	"github.com/siherrmann/poetry/helper"
	"github.com/siherrmann/poetry/model"
)

// ObjectStore is the part of the S3 client used by S3Source.
type ObjectStore interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config configures the S3 client.
type S3Config struct {
	Region   string
	Endpoint string // Custom endpoint, for example MinIO
}

// S3ConfigFromEnv reads S3_REGION (default us-east-1) and S3_ENDPOINT.
func S3ConfigFromEnv() S3Config {
	region := os.Getenv("S3_REGION")
	if region == "" {
		region = "us-east-1"
	}
	return S3Config{
		Region:   region,
		Endpoint: os.Getenv("S3_ENDPOINT"),
	}
}

// NewS3Client creates an S3 client with the default credential chain.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	opts := []func(*s3.Options){}
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = &cfg.Endpoint
			o.UsePathStyle = true
		})
	}

	return s3.NewFromConfig(awsCfg, opts...), nil
}

// S3Source reads the documents below a prefix of a bucket.
type S3Source struct {
	Bucket  string
	Prefix  string
	client  ObjectStore
	matcher glob.Glob
	log     *slog.Logger
	metrics *helper.Metrics
}

// NewS3Source creates a source for all objects below prefix with one of the extensions.
func NewS3Source(client ObjectStore, bucket string, prefix string, extensions []string, logger *slog.Logger, metrics *helper.Metrics) (*S3Source, error) {
	matcher, err := ExtensionMatcher(extensions)
	if err != nil {
		return nil, helper.NewError("open s3 source", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &S3Source{
		Bucket:  bucket,
		Prefix:  prefix,
		client:  client,
		matcher: matcher,
		log:     logger,
		metrics: metrics,
	}, nil
}

// Keys lists the matching object keys.
func (s *S3Source) Keys(ctx context.Context) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.Bucket),
		Prefix: aws.String(s.Prefix),
	})

	keys := []string{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, helper.NewError("list objects", err)
		}
		for _, object := range page.Contents {
			key := aws.ToString(object.Key)
			if strings.HasSuffix(key, "/") {
				continue
			}
			if s.matcher.Match(strings.ToLower(key)) {
				keys = append(keys, key)
			}
		}
	}

	return keys, nil
}

// Documents extracts the text of every matching object.
// Filenames are the keys relative to Prefix.
func (s *S3Source) Documents(ctx context.Context) ([]model.RawDocument, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Info("Found documents", slog.String("bucket", s.Bucket), slog.String("prefix", s.Prefix), slog.Int("count", len(keys)))

	docs := make([]model.RawDocument, 0, len(keys))
	for _, key := range keys {
		text, err := s.read(ctx, key)
		if err != nil {
			if ctx.Err() != nil {
				return nil, helper.NewError("read documents", ctx.Err())
			}
			s.metrics.DocumentFailed()
			s.log.Error("Failed to extract document", slog.String("key", key), slog.Any("error", err))
			continue
		}
		s.metrics.DocumentRead()

		if text == "" {
			continue
		}
		filename := strings.TrimPrefix(strings.TrimPrefix(key, s.Prefix), "/")
		docs = append(docs, model.RawDocument{Filename: filename, Content: text})
	}

	return docs, nil
}

func (s *S3Source) read(ctx context.Context, key string) (string, error) {
	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get object: %w", err)
	}
	defer output.Body.Close()

	content, err := io.ReadAll(output.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read object: %w", err)
	}

	return ExtractText(key, content)
}
