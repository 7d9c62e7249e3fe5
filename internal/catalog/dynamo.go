package catalog

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of the DynamoDB client the store uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoStore reads scheme records from the welfare schemes table.
type DynamoStore struct {
	client DynamoAPI
	table  string
}

// NewDynamoStore creates a store over the given table.
func NewDynamoStore(client DynamoAPI, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table}
}

// dynamoScheme mirrors the table item layout.
type dynamoScheme struct {
	SchemeID  string   `dynamodbav:"scheme_id"`
	NameHi    string   `dynamodbav:"name_hi"`
	NameEn    string   `dynamodbav:"name_en"`
	Benefit   string   `dynamodbav:"benefit"`
	Documents []string `dynamodbav:"documents"`
	ApplyAt   string   `dynamodbav:"apply_at"`
}

func (d dynamoScheme) record() SchemeRecord {
	return SchemeRecord{
		ID: d.SchemeID,
		Names: map[string]string{
			"hi-IN": d.NameHi,
			"en-IN": d.NameEn,
		},
		Benefit:   d.Benefit,
		Documents: d.Documents,
		ApplyAt:   d.ApplyAt,
	}
}

// Scheme fetches a single record by id.
func (s *DynamoStore) Scheme(ctx context.Context, id string) (SchemeRecord, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"scheme_id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return SchemeRecord{}, fmt.Errorf("get scheme %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return SchemeRecord{}, ErrNotFound
	}
	var item dynamoScheme
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return SchemeRecord{}, fmt.Errorf("unmarshal scheme %s: %w", id, err)
	}
	return item.record(), nil
}

// All scans the full table.
func (s *DynamoStore) All(ctx context.Context) ([]SchemeRecord, error) {
	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	})
	if err != nil {
		return nil, fmt.Errorf("scan schemes: %w", err)
	}
	var items []dynamoScheme
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, fmt.Errorf("unmarshal schemes: %w", err)
	}
	records := make([]SchemeRecord, 0, len(items))
	for _, item := range items {
		records = append(records, item.record())
	}
	return records, nil
}
