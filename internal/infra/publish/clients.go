// Where: internal/infra/publish/clients.go
// What: AWS SDK adapters for the plan bucket and the publication ledger.
// Why: Map publisher records to SDK inputs behind small interfaces.
package publish

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStore writes rendered plans.
type ObjectStore interface {
	PutObject(ctx context.Context, bucket, key, contentType string, body []byte) error
}

// LedgerStore records publications.
type LedgerStore interface {
	PutRecord(ctx context.Context, table string, record Record) error
}

type awsS3Client struct {
	client *s3.Client
}

func (c awsS3Client) PutObject(ctx context.Context, bucket, key, contentType string, body []byte) error {
	if c.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        bytes.NewReader(body),
	})
	return err
}

type awsDynamoClient struct {
	client *dynamodb.Client
}

func (c awsDynamoClient) PutRecord(ctx context.Context, table string, record Record) error {
	if c.client == nil {
		return fmt.Errorf("dynamodb client is nil")
	}
	_, err := c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      recordItem(record),
	})
	return err
}

func recordItem(record Record) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"environment":  &types.AttributeValueMemberS{Value: record.Environment},
		"published_at": &types.AttributeValueMemberS{Value: record.PublishedAt},
		"id":           &types.AttributeValueMemberS{Value: record.ID},
		"digest":       &types.AttributeValueMemberS{Value: record.Digest},
		"infra_state":  &types.AttributeValueMemberS{Value: record.InfraState},
		"key":          &types.AttributeValueMemberS{Value: record.Key},
	}
}
