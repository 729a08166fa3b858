package docexport

import (
	"errors"
	"fmt"

	"github.com/TobiasFuchs/AdBoard/internal/pkg/env"
)

// Config holds the S3 settings for archived contract documents
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	Enabled         bool
}

// LoadConfig loads the document archive configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-west-001"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		Enabled:         env.GetEnv("DOC_EXPORT_ENABLED", "false") == "true",
	}

	if config.Enabled {
		if config.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when document export is enabled")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when document export is enabled")
		}
		if config.BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required when document export is enabled")
		}
	}

	return config, nil
}

// IsEnabled returns true if document export is enabled
func (c *Config) IsEnabled() bool {
	return c.Enabled
}

// ObjectKey generates the S3 object key for an archived contract document.
// Format: contracts/YYYY/MM/UUID.html
func (c *Config) ObjectKey(contractUUID string, year, month int) string {
	return fmt.Sprintf("contracts/%04d/%02d/%s.html", year, month, contractUUID)
}

// GetAppEnv returns the current application environment
func GetAppEnv() string {
	return env.GetEnv("APP_ENV", "dev")
}
