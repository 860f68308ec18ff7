// Where: internal/infra/publish/factory.go
// What: AWS client factory for plan publication.
// Why: Keep SDK configuration (region, endpoint, credentials) out of the publisher.
package publish

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrRegionRequired reports a publication target without a region.
var ErrRegionRequired = errors.New("publish region is required")

// Target selects where published plans go. An empty Endpoint uses the
// regional AWS endpoints and the default credential chain.
type Target struct {
	Region   string
	Endpoint string
}

// ClientFactory builds the storage clients used by the publisher.
type ClientFactory interface {
	Objects(ctx context.Context, target Target) (ObjectStore, error)
	Ledger(ctx context.Context, target Target) (LedgerStore, error)
}

// NewClientFactory returns the SDK-backed factory.
func NewClientFactory() ClientFactory {
	return awsClientFactory{}
}

type awsClientFactory struct{}

func (awsClientFactory) Objects(ctx context.Context, target Target) (ObjectStore, error) {
	cfg, err := loadAWSConfig(ctx, target)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(options *s3.Options) {
		if target.Endpoint != "" {
			options.BaseEndpoint = aws.String(target.Endpoint)
			options.UsePathStyle = true
		}
	})
	return awsS3Client{client: client}, nil
}

func (awsClientFactory) Ledger(ctx context.Context, target Target) (LedgerStore, error) {
	cfg, err := loadAWSConfig(ctx, target)
	if err != nil {
		return nil, err
	}
	client := dynamodb.NewFromConfig(cfg, func(options *dynamodb.Options) {
		if target.Endpoint != "" {
			options.BaseEndpoint = aws.String(target.Endpoint)
		}
	})
	return awsDynamoClient{client: client}, nil
}

func loadAWSConfig(ctx context.Context, target Target) (aws.Config, error) {
	region := strings.TrimSpace(target.Region)
	if region == "" {
		return aws.Config{}, ErrRegionRequired
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	// Local emulators accept any credentials; real endpoints use the default chain.
	if target.Endpoint != "" {
		creds := credentials.NewStaticCredentialsProvider(localAccessKey(), localSecretKey(), "")
		opts = append(opts, config.WithCredentialsProvider(creds))
	}
	return config.LoadDefaultConfig(ctx, opts...)
}

func localAccessKey() string {
	if value := os.Getenv("STACKPLAN_LOCAL_ACCESS_KEY"); value != "" {
		return value
	}
	return "dummy"
}

func localSecretKey() string {
	if value := os.Getenv("STACKPLAN_LOCAL_SECRET_KEY"); value != "" {
		return value
	}
	return "dummy"
}
