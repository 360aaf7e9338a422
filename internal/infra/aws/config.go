package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"go-todo/pkg/resource"
)

// CloudConfig holds the app.cloud.* settings
type CloudConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

func CloudConfigFromProperties() CloudConfig {
	return CloudConfig{
		Region:          resource.GetString("app.cloud.aws-region"),
		Endpoint:        resource.GetString("app.cloud.aws-endpoint"),
		AccessKeyID:     resource.GetString("app.cloud.aws-access-key-id"),
		SecretAccessKey: resource.GetString("app.cloud.aws-secret-access-key"),
	}
}

// LoadConfig builds the SDK config. Without static keys the default credential chain is used.
func LoadConfig(ctx context.Context, cloud CloudConfig) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cloud.Region),
	}

	if cloud.AccessKeyID != "" && cloud.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cloud.AccessKeyID, cloud.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}
