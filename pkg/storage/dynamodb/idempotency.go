package dynamodb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage"
)

const (
	idempotencyRetention = 30 * 24 * time.Hour
	statusClaimedIndex   = "status-claimed_at-index"
)

// ClaimEvent writes a PENDING record for an event. storage.ErrEventClaimed is returned
// when any record for the event already exists.
func (s *Store) ClaimEvent(ctx context.Context, record *models.IdempotencyRecord) error {
	if record.TTL == 0 {
		record.TTL = record.ClaimedAt.Add(idempotencyRetention).Unix()
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal idempotency record: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.IdempotencyTableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(transaction_id)"),
	})
	if err != nil {
		if _, ok := isConditionalCheckFailed(err); ok {
			return storage.ErrEventClaimed
		}
		return fmt.Errorf("failed to claim event: %w", err)
	}

	return nil
}

// GetIdempotencyRecord retrieves the record of an event.
func (s *Store) GetIdempotencyRecord(ctx context.Context, transactionID string) (*models.IdempotencyRecord, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.IdempotencyTableName),
		Key:            idempotencyKey(transactionID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get idempotency record: %w", err)
	}
	if result.Item == nil {
		return nil, storage.ErrNotFound
	}

	var record models.IdempotencyRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal idempotency record: %w", err)
	}
	return &record, nil
}

// CompleteEvent moves a PENDING record to COMPLETED.
func (s *Store) CompleteEvent(ctx context.Context, transactionID string, issued int, at time.Time) error {
	update, err := s.completeUpdate(transactionID, issued, at)
	if err != nil {
		return err
	}

	_, err = s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 update.TableName,
		Key:                       update.Key,
		UpdateExpression:          update.UpdateExpression,
		ConditionExpression:       update.ConditionExpression,
		ExpressionAttributeNames:  update.ExpressionAttributeNames,
		ExpressionAttributeValues: update.ExpressionAttributeValues,
	})
	if err != nil {
		if _, ok := isConditionalCheckFailed(err); ok {
			return storage.ErrClaimNotHeld
		}
		return fmt.Errorf("failed to complete event: %w", err)
	}
	return nil
}

// ReleaseClaim deletes a PENDING record so the event can be processed again.
func (s *Store) ReleaseClaim(ctx context.Context, transactionID string) error {
	_, err := s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(s.IdempotencyTableName),
		Key:                      idempotencyKey(transactionID),
		ConditionExpression:      aws.String("#status = :pending"),
		ExpressionAttributeNames: map[string]string{"#status": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending": &types.AttributeValueMemberS{Value: string(models.IdempotencyPending)},
		},
	})
	if err != nil {
		if _, ok := isConditionalCheckFailed(err); ok {
			return storage.ErrClaimNotHeld
		}
		return fmt.Errorf("failed to release claim: %w", err)
	}
	return nil
}

// GetStaleClaims returns PENDING records claimed before cutoff. claimed_at is stored
// as epoch seconds, the numeric sort key of the status index.
func (s *Store) GetStaleClaims(ctx context.Context, cutoff time.Time) ([]models.IdempotencyRecord, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.IdempotencyTableName),
		IndexName:              aws.String(statusClaimedIndex),
		KeyConditionExpression: aws.String("#status = :pending AND #claimed_at < :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#status":     "status",
			"#claimed_at": "claimed_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending": &types.AttributeValueMemberS{Value: string(models.IdempotencyPending)},
			":cutoff":  &types.AttributeValueMemberN{Value: strconv.FormatInt(cutoff.Unix(), 10)},
		},
	}

	var records []models.IdempotencyRecord
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query for stale claims: %w", err)
		}

		var page []models.IdempotencyRecord
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stale claims: %w", err)
		}
		records = append(records, page...)

		if len(result.LastEvaluatedKey) == 0 {
			return records, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

func (s *Store) completeUpdate(transactionID string, issued int, at time.Time) (*types.Update, error) {
	completedAt, err := attributevalue.Marshal(at)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completed_at: %w", err)
	}

	return &types.Update{
		TableName:           aws.String(s.IdempotencyTableName),
		Key:                 idempotencyKey(transactionID),
		UpdateExpression:    aws.String("SET #status = :completed, issued_count = :issued, completed_at = :completed_at"),
		ConditionExpression: aws.String("#status = :pending"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":completed":    &types.AttributeValueMemberS{Value: string(models.IdempotencyCompleted)},
			":pending":      &types.AttributeValueMemberS{Value: string(models.IdempotencyPending)},
			":issued":       &types.AttributeValueMemberN{Value: fmt.Sprint(issued)},
			":completed_at": completedAt,
		},
	}, nil
}

func idempotencyKey(transactionID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"transaction_id": &types.AttributeValueMemberS{Value: transactionID},
	}
}
