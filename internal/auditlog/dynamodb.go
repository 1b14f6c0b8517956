package auditlog

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// PutItemAPI is the subset of the DynamoDB client used by DynamoDBRecorder.
type PutItemAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// dynamoItem mirrors the table layout: emailId (S), Status (S), sentAt (N, epoch ms).
type dynamoItem struct {
	EmailID string `dynamodbav:"emailId"`
	Status  string `dynamodbav:"Status"`
	SentAt  int64  `dynamodbav:"sentAt"`
}

// DynamoDBRecorder writes records to a DynamoDB table.
type DynamoDBRecorder struct {
	client PutItemAPI
	table  string
}

// NewDynamoDBRecorder loads the default AWS configuration (environment,
// shared config, or the Lambda execution role).
func NewDynamoDBRecorder(ctx context.Context, table, region string) (*DynamoDBRecorder, error) {
	if table == "" {
		return nil, errors.New("dynamodb table name is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return NewDynamoDBRecorderFromClient(dynamodb.NewFromConfig(cfg), table), nil
}

// NewDynamoDBRecorderFromClient wraps an existing client.
func NewDynamoDBRecorderFromClient(client PutItemAPI, table string) *DynamoDBRecorder {
	return &DynamoDBRecorder{client: client, table: table}
}

func (d *DynamoDBRecorder) Type() string {
	return "dynamodb"
}

func (d *DynamoDBRecorder) Record(ctx context.Context, rec Record) error {
	item, err := attributevalue.MarshalMap(dynamoItem{
		EmailID: rec.Email,
		Status:  rec.Status,
		SentAt:  rec.SentAtMillis(),
	})
	if err != nil {
		return fmt.Errorf("marshal delivery record: %w", err)
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put delivery record: %w", err)
	}
	return nil
}
