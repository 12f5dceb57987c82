package catalog

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/vango-ext/internal/errors"
)

// Publisher stores a manifest and returns where it was stored.
type Publisher interface {
	Publish(ctx context.Context, m *Manifest) (string, error)
}

// PutObjectAPI is the part of the S3 client the publisher uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads manifests to an S3 bucket.
//
// Example usage:
//
//	client := catalog.NewS3Client("eu-west-1", "")
//	pub := catalog.NewS3Publisher(client, "my-bucket", "vangoext/catalog.json")
//	where, err := pub.Publish(ctx, catalog.FromEngine(engine))
type S3Publisher struct {
	client PutObjectAPI
	bucket string
	key    string
}

// NewS3Publisher creates a publisher writing to bucket/key.
func NewS3Publisher(client PutObjectAPI, bucket, key string) *S3Publisher {
	return &S3Publisher{client: client, bucket: bucket, key: key}
}

// Publish implements Publisher.
func (p *S3Publisher) Publish(ctx context.Context, m *Manifest) (string, error) {
	data, err := m.JSON()
	if err != nil {
		return "", errors.New("E142").Wrap(err)
	}
	digest, err := m.Digest()
	if err != nil {
		return "", errors.New("E142").Wrap(err)
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(p.key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String("application/json"),
		CacheControl: aws.String("no-cache"),
		Metadata: map[string]string{
			"catalog-digest":  digest,
			"component-count": strconv.Itoa(len(m.Components)),
		},
	})
	if err != nil {
		return "", errors.New("E142").
			WithDetailf("s3://%s/%s", p.bucket, p.key).
			Wrap(fmt.Errorf("s3 upload failed: %w", err))
	}
	return "s3://" + p.bucket + "/" + p.key, nil
}

// FilePublisher writes manifests to a local file.
type FilePublisher struct {
	Path string
}

// Publish implements Publisher.
func (p FilePublisher) Publish(ctx context.Context, m *Manifest) (string, error) {
	data, err := m.JSON()
	if err != nil {
		return "", errors.New("E142").Wrap(err)
	}
	if err := os.MkdirAll(filepath.Dir(p.Path), 0o755); err != nil {
		return "", errors.New("E142").Wrap(err)
	}
	if err := os.WriteFile(p.Path, data, 0o644); err != nil {
		return "", errors.New("E142").Wrap(err)
	}
	return p.Path, nil
}

// NewS3Client creates an S3 client using credentials from the standard
// AWS_* environment variables. An empty region falls back to AWS_REGION;
// a non-empty endpoint selects an S3-compatible store with path-style
// addressing.
func NewS3Client(region, endpoint string) *s3.Client {
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}
	opts := s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

func envCredentials(ctx context.Context) (aws.Credentials, error) {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}, nil
}
