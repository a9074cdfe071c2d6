package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage"
)

// maxTransactItems is the DynamoDB limit on actions in one TransactWriteItems call.
const maxTransactItems = 100

// MaxAtomicLinks is the largest link count FulfillEvent accepts: the ledger entry and
// the idempotency update take the two remaining slots.
func (s *Store) MaxAtomicLinks() int {
	return maxTransactItems - 2
}

// FulfillEvent writes the ledger entry, the links and the COMPLETED marker of a claimed
// event in a single transaction.
func (s *Store) FulfillEvent(ctx context.Context, tx *models.PartnerTransaction, links []models.SecureLink, at time.Time) error {
	if len(links) > s.MaxAtomicLinks() {
		return fmt.Errorf("%d links: %w", len(links), storage.ErrTooManyItems)
	}

	txItem, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	items := make([]types.TransactWriteItem, 0, len(links)+2)
	items = append(items, types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(s.TransactionsTableName),
			Item:                txItem,
			ConditionExpression: aws.String("attribute_not_exists(transaction_id)"),
		},
	})

	for i := range links {
		item, err := marshalLink(&links[i])
		if err != nil {
			return err
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:                aws.String(s.LinksTableName),
				Item:                     item,
				ConditionExpression:      aws.String("attribute_not_exists(#token)"),
				ExpressionAttributeNames: map[string]string{"#token": "token"},
			},
		})
	}

	complete, err := s.completeUpdate(tx.TransactionID, len(links), at)
	if err != nil {
		return err
	}
	items = append(items, types.TransactWriteItem{Update: complete})

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			return cancellationError(tce)
		}
		return fmt.Errorf("failed to execute fulfillment transaction: %w", err)
	}

	return nil
}

// cancellationError maps the per-item reasons of a cancelled transaction. Reasons are
// positional: ledger first, idempotency marker last.
func cancellationError(tce *types.TransactionCanceledException) error {
	reasons := tce.CancellationReasons
	failed := func(i int) bool {
		return i >= 0 && i < len(reasons) && aws.ToString(reasons[i].Code) == "ConditionalCheckFailed"
	}

	switch {
	case failed(len(reasons) - 1):
		return fmt.Errorf("fulfillment cancelled: %w", storage.ErrClaimNotHeld)
	case failed(0):
		return fmt.Errorf("fulfillment cancelled, ledger entry exists: %w", storage.ErrAlreadyExists)
	}
	for i := 1; i < len(reasons)-1; i++ {
		if failed(i) {
			return fmt.Errorf("fulfillment cancelled, link token collision: %w", storage.ErrAlreadyExists)
		}
	}
	return fmt.Errorf("fulfillment transaction cancelled: %w", tce)
}
