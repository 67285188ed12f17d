package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k3053/GeoInsight.AI/models"
)

type fakeDynamo struct {
	putInputs   []*dynamodb.PutItemInput
	putErr      error
	queryInput  *dynamodb.QueryInput
	queryOutput *dynamodb.QueryOutput
	queryErr    error
}

func (f *fakeDynamo) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putInputs = append(f.putInputs, params)
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queryInput = params
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.queryOutput, nil
}

func (f *fakeDynamo) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	return &dynamodb.CreateTableOutput{}, nil
}

func stringAttr(item map[string]types.AttributeValue, key string) string {
	if v, ok := item[key].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func TestAddUserMessageWritesItem(t *testing.T) {
	db := &fakeDynamo{}
	store := &HistoryStore{db: db, table: "ChatHistory"}

	require.NoError(t, store.AddUserMessage(context.Background(), "s1", "hello"))

	require.Len(t, db.putInputs, 1)
	input := db.putInputs[0]
	assert.Equal(t, "ChatHistory", aws.ToString(input.TableName))
	assert.Equal(t, "s1", stringAttr(input.Item, "SessionID"))
	assert.Equal(t, models.RoleUser, stringAttr(input.Item, "Role"))
	assert.Equal(t, "hello", stringAttr(input.Item, "Content"))
	assert.NotEmpty(t, stringAttr(input.Item, "ID"))

	_, err := time.Parse(time.RFC3339Nano, stringAttr(input.Item, "Timestamp"))
	assert.NoError(t, err)
}

func TestAddAIMessageUsesAssistantRole(t *testing.T) {
	db := &fakeDynamo{}
	store := &HistoryStore{db: db, table: "ChatHistory"}

	require.NoError(t, store.AddAIMessage(context.Background(), "s1", "answer"))

	require.Len(t, db.putInputs, 1)
	assert.Equal(t, models.RoleAssistant, stringAttr(db.putInputs[0].Item, "Role"))
}

func TestAppendMessagePropagatesError(t *testing.T) {
	db := &fakeDynamo{putErr: errors.New("throttled")}
	store := &HistoryStore{db: db, table: "ChatHistory"}

	err := store.AddUserMessage(context.Background(), "s1", "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestMessagesQueriesOldestFirst(t *testing.T) {
	db := &fakeDynamo{queryOutput: &dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{
			{
				"ID":        &types.AttributeValueMemberS{Value: "id1"},
				"SessionID": &types.AttributeValueMemberS{Value: "s1"},
				"Role":      &types.AttributeValueMemberS{Value: models.RoleUser},
				"Content":   &types.AttributeValueMemberS{Value: "q"},
				"Timestamp": &types.AttributeValueMemberS{Value: "2026-01-02T15:04:05.000000001Z"},
			},
			{
				"ID":        &types.AttributeValueMemberS{Value: "id2"},
				"SessionID": &types.AttributeValueMemberS{Value: "s1"},
				"Role":      &types.AttributeValueMemberS{Value: models.RoleAssistant},
				"Content":   &types.AttributeValueMemberS{Value: "a"},
				"Timestamp": &types.AttributeValueMemberS{Value: "2026-01-02T15:04:06Z"},
			},
		},
	}}
	store := &HistoryStore{db: db, table: "ChatHistory"}

	entries, err := store.Messages(context.Background(), "s1")

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "q", entries[0].Content)
	assert.Equal(t, models.RoleAssistant, entries[1].Role)
	assert.Equal(t, 2026, entries[0].Timestamp.Year())

	require.NotNil(t, db.queryInput)
	assert.Equal(t, "SessionID = :sid", aws.ToString(db.queryInput.KeyConditionExpression))
	assert.True(t, aws.ToBool(db.queryInput.ScanIndexForward))
	sid := db.queryInput.ExpressionAttributeValues[":sid"].(*types.AttributeValueMemberS)
	assert.Equal(t, "s1", sid.Value)
}

func TestMessagesQueryError(t *testing.T) {
	db := &fakeDynamo{queryErr: errors.New("table missing")}
	store := &HistoryStore{db: db, table: "ChatHistory"}

	_, err := store.Messages(context.Background(), "s1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "table missing")
}
