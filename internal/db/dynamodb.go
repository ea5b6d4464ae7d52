package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/summariser/internal/models"
)

const recordTTL = 24 * time.Hour

// PutItemAPI is the slice of the DynamoDB client used by RecordStore.
type PutItemAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// RecordStore writes one audit item per summary to a DynamoDB table.
type RecordStore struct {
	client PutItemAPI
	table  string
	now    func() time.Time
}

func NewRecordStore(client PutItemAPI, table string) *RecordStore {
	return &RecordStore{client: client, table: table, now: time.Now}
}

func (s *RecordStore) PutRecord(ctx context.Context, record models.SummaryRecord) error {
	item, err := RecordToDynamoDBItem(record, s.now())
	if err != nil {
		return err
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to put summary record: %w", err)
	}

	slog.Info("[DynamoDB] Stored summary record",
		slog.String("table", s.table),
		slog.String("request_id", record.RequestID))
	return nil
}

// RecordToDynamoDBItem marshals the record and stamps created_at plus a ttl
// attribute so the table expires old entries.
func RecordToDynamoDBItem(record models.SummaryRecord, now time.Time) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] Failed to marshal summary record: %w", err)
	}

	item["created_at"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", now.Unix())}
	item["ttl"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", now.Add(recordTTL).Unix())}
	return item, nil
}
