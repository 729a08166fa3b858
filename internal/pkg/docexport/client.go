package docexport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gofiber/fiber/v2/log"
)

// Client wraps the S3 client for the contract document archive
type Client struct {
	s3Client *s3.Client
	config   *Config
}

// NewClient creates a new document archive client
func NewClient(cfg *Config) (*Client, error) {
	if !cfg.IsEnabled() {
		return nil, errors.New("document export is disabled")
	}

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// S3-compatible services need path-style URLs
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	client := &Client{
		s3Client: s3Client,
		config:   cfg,
	}

	if err := client.testConnection(); err != nil {
		return nil, fmt.Errorf("failed to connect to S3: %w", err)
	}

	log.Infof("[DocExport] Successfully initialized S3 client for bucket: %s", cfg.BucketName)
	return client, nil
}

// testConnection checks if the bucket exists, creating it outside production
func (c *Client) testConnection() error {
	ctx := context.Background()

	_, err := c.s3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.config.BucketName),
	})
	if err != nil {
		if GetAppEnv() != "prod" {
			log.Warnf("[DocExport] Bucket %s not found, attempting to create it", c.config.BucketName)
			return c.createBucket(c.config.BucketName)
		}
		return fmt.Errorf("bucket %s not accessible: %w", c.config.BucketName, err)
	}
	return nil
}

func (c *Client) createBucket(bucketName string) error {
	ctx := context.Background()

	input := &s3.CreateBucketInput{
		Bucket: aws.String(bucketName),
	}
	// Regions other than us-east-1 need an explicit location constraint.
	// S3-compatible endpoints must not set one.
	if c.config.EndpointURL == "" && c.config.Region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(c.config.Region),
		}
	}

	if _, err := c.s3Client.CreateBucket(ctx, input); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucketName, err)
	}
	log.Infof("[DocExport] Successfully created bucket: %s", bucketName)
	return nil
}

// UploadDocument stores a rendered contract document under the given key
func (c *Client) UploadDocument(ctx context.Context, objectKey string, document []byte) error {
	contentType := "text/html; charset=utf-8"
	if strings.HasSuffix(objectKey, ".pdf") {
		contentType = "application/pdf"
	}

	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.config.BucketName),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(document),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload document %s: %w", objectKey, err)
	}

	log.Infof("[DocExport] Uploaded document %s (%d bytes)", objectKey, len(document))
	return nil
}

// DownloadDocument fetches an archived contract document
func (c *Client) DownloadDocument(ctx context.Context, objectKey string) ([]byte, error) {
	out, err := c.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.config.BucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download document %s: %w", objectKey, err)
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

// DocumentExists checks whether a document is already archived
func (c *Client) DocumentExists(ctx context.Context, objectKey string) (bool, error) {
	_, err := c.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.config.BucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

var (
	defaultClientMu sync.Mutex
	defaultClient   *Client
)

// GetClient returns the shared archive client, initializing it on first use.
func GetClient() (*Client, error) {
	defaultClientMu.Lock()
	defer defaultClientMu.Unlock()

	if defaultClient != nil {
		return defaultClient, nil
	}
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	defaultClient = client
	return defaultClient, nil
}

// ObjectKey builds the archive key for a contract document.
func (c *Client) ObjectKey(contractUUID string, year, month int) string {
	return c.config.ObjectKey(contractUUID, year, month)
}
