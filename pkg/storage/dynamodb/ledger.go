package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
)

// RecordTransaction appends a ledger entry. It returns false without error when an
// entry with the same transaction id already exists.
func (s *Store) RecordTransaction(ctx context.Context, tx *models.PartnerTransaction) (bool, error) {
	item, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return false, fmt.Errorf("failed to marshal transaction: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.TransactionsTableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(transaction_id)"),
	})
	if err != nil {
		if _, ok := isConditionalCheckFailed(err); ok {
			return false, nil
		}
		return false, fmt.Errorf("failed to put transaction in DynamoDB: %w", err)
	}

	return true, nil
}

// ListTransactionsByOwner returns the most recent ledger entries of an owner.
func (s *Store) ListTransactionsByOwner(ctx context.Context, ownerID string, limit int32) ([]models.PartnerTransaction, error) {
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.TransactionsTableName),
		IndexName:              aws.String(ownerIndex),
		KeyConditionExpression: aws.String("owner_id = :owner"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: ownerID},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by owner: %w", err)
	}

	var txs []models.PartnerTransaction
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &txs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
	}

	return txs, nil
}
