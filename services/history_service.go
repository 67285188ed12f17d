package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/k3053/GeoInsight.AI/models"
)

// dynamoAPI is the slice of the DynamoDB client the store uses.
type dynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// HistoryStore is an append-only client over the external chat-history
// table, keyed by session id with RFC3339 timestamps as the sort key.
// Entries are written after each turn and never mutated or deleted.
type HistoryStore struct {
	db    dynamoAPI
	table string
}

// NewHistoryStore connects to DynamoDB. A non-empty endpoint targets a local
// or self-hosted instance with static placeholder credentials.
func NewHistoryStore(ctx context.Context, region, endpoint, table string) (*HistoryStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{URL: endpoint}, nil
		})
		opts = append(opts,
			awsconfig.WithEndpointResolverWithOptions(resolver),
			awsconfig.WithCredentialsProvider(credentials.StaticCredentialsProvider{
				Value: aws.Credentials{
					AccessKeyID: "dummy", SecretAccessKey: "dummy", SessionToken: "dummy",
				},
			}),
		)
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	store := &HistoryStore{db: dynamodb.NewFromConfig(cfg), table: table}
	store.ensureTableExists(ctx)
	return store, nil
}

func (s *HistoryStore) ensureTableExists(ctx context.Context) {
	_, err := s.db.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.table),
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String("SessionID"),
				AttributeType: types.ScalarAttributeTypeS,
			},
			{
				AttributeName: aws.String("Timestamp"),
				AttributeType: types.ScalarAttributeTypeS,
			},
		},
		KeySchema: []types.KeySchemaElement{
			{
				AttributeName: aws.String("SessionID"),
				KeyType:       types.KeyTypeHash,
			},
			{
				AttributeName: aws.String("Timestamp"),
				KeyType:       types.KeyTypeRange,
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		log.Printf("history table %s might already exist: %v", s.table, err)
	}
}

// AddUserMessage appends one user turn.
func (s *HistoryStore) AddUserMessage(ctx context.Context, sessionID, text string) error {
	return s.appendMessage(ctx, sessionID, models.RoleUser, text)
}

// AddAIMessage appends one assistant turn.
func (s *HistoryStore) AddAIMessage(ctx context.Context, sessionID, text string) error {
	return s.appendMessage(ctx, sessionID, models.RoleAssistant, text)
}

func (s *HistoryStore) appendMessage(ctx context.Context, sessionID, role, text string) error {
	entry := models.ChatHistoryEntry{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   text,
		Timestamp: time.Now(),
	}
	_, err := s.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item: map[string]types.AttributeValue{
			"ID":        &types.AttributeValueMemberS{Value: entry.ID},
			"SessionID": &types.AttributeValueMemberS{Value: entry.SessionID},
			"Role":      &types.AttributeValueMemberS{Value: entry.Role},
			"Content":   &types.AttributeValueMemberS{Value: entry.Content},
			"Timestamp": &types.AttributeValueMemberS{Value: entry.Timestamp.Format(time.RFC3339Nano)},
		},
	})
	if err != nil {
		return fmt.Errorf("append %s message: %w", role, err)
	}
	return nil
}

// Messages returns the full ordered transcript for a session, oldest first.
func (s *HistoryStore) Messages(ctx context.Context, sessionID string) ([]models.ChatHistoryEntry, error) {
	result, err := s.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("SessionID = :sid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid": &types.AttributeValueMemberS{Value: sessionID},
		},
		ScanIndexForward: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("query session %s: %w", sessionID, err)
	}

	entries := make([]models.ChatHistoryEntry, 0, len(result.Items))
	for _, item := range result.Items {
		entries = append(entries, entryFromItem(item))
	}
	return entries, nil
}

func entryFromItem(item map[string]types.AttributeValue) models.ChatHistoryEntry {
	entry := models.ChatHistoryEntry{}
	if v, ok := item["ID"].(*types.AttributeValueMemberS); ok {
		entry.ID = v.Value
	}
	if v, ok := item["SessionID"].(*types.AttributeValueMemberS); ok {
		entry.SessionID = v.Value
	}
	if v, ok := item["Role"].(*types.AttributeValueMemberS); ok {
		entry.Role = v.Value
	}
	if v, ok := item["Content"].(*types.AttributeValueMemberS); ok {
		entry.Content = v.Value
	}
	if v, ok := item["Timestamp"].(*types.AttributeValueMemberS); ok {
		entry.Timestamp, _ = time.Parse(time.RFC3339Nano, v.Value)
	}
	return entry
}
