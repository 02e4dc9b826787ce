package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"go.uber.org/zap"

	"github.com/bobrnor/crawlinit/internal/model"
)

const (
	hashKey  = "visitedURL"
	rangeKey = "runId"
)

// DynamoStore keeps visited records in a table keyed by (visitedURL, runId).
type DynamoStore struct {
	db     dynamodbiface.DynamoDBAPI
	table  string
	logger *zap.Logger
}

// NewDynamoStore creates a client for the table in the session's region.
func NewDynamoStore(s *session.Session, table string, logger *zap.Logger) *DynamoStore {
	return NewDynamoStoreWithClient(dynamodb.New(s), table, logger)
}

func NewDynamoStoreWithClient(db dynamodbiface.DynamoDBAPI, table string, logger *zap.Logger) *DynamoStore {
	return &DynamoStore{db: db, table: table, logger: logger}
}

func (s *DynamoStore) MarkVisited(ctx context.Context, v model.VisitedURL) (bool, error) {
	item, err := dynamodbattribute.MarshalMap(v)
	if err != nil {
		return false, fmt.Errorf("marshal visited url: %w", err)
	}

	_, err = s.db.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(#url)"),
		ExpressionAttributeNames: map[string]*string{
			"#url": aws.String(hashKey),
		},
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == dynamodb.ErrCodeConditionalCheckFailedException {
			s.logger.Info("url already visited",
				zap.String("url", v.URL),
				zap.String("runId", v.RunID))
			return false, nil
		}
		return false, fmt.Errorf("put visited url %s: %w", v.URL, err)
	}

	s.logger.Debug("marked as visited",
		zap.String("table", s.table),
		zap.String("url", v.URL),
		zap.String("runId", v.RunID))
	return true, nil
}

func (s *DynamoStore) IsVisited(ctx context.Context, url, runID string) (bool, error) {
	out, err := s.db.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		ConsistentRead: aws.Bool(true),
		Key: map[string]*dynamodb.AttributeValue{
			hashKey:  {S: aws.String(url)},
			rangeKey: {S: aws.String(runID)},
		},
	})
	if err != nil {
		return false, fmt.Errorf("get visited url %s: %w", url, err)
	}
	return len(out.Item) > 0, nil
}
