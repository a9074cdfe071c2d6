package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage/dynamodb/mocks"
)

func TestRecordTransaction(t *testing.T) {
	tx := &models.PartnerTransaction{
		TransactionID: "sale-t-1",
		Type:          models.TransactionSale,
		OwnerID:       "P-1",
		Amount:        1999,
		Quantity:      1,
		Currency:      "usd",
		Status:        models.StatusCompleted,
		CreatedAt:     time.Now().UTC(),
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			return aws.ToString(in.TableName) == "transactions"
		})).Return(&dynamodb.PutItemOutput{}, nil).Once()

		created, err := store.RecordTransaction(context.Background(), tx)

		assert.NoError(t, err)
		assert.True(t, created)
		mockClient.AssertExpectations(t)
	})

	t.Run("Duplicate", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{}).Once()

		created, err := store.RecordTransaction(context.Background(), tx)

		assert.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

		_, err := store.RecordTransaction(context.Background(), tx)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to put transaction in DynamoDB")
	})
}

func TestListTransactionsByOwner(t *testing.T) {
	mockClient := new(mocks.DynamoDBAPI)
	store := newTestStore(mockClient)

	items := marshalItems(t, []models.PartnerTransaction{
		{TransactionID: "evt-2", OwnerID: "P-1", Quantity: 2},
		{TransactionID: "evt-1", OwnerID: "P-1", Quantity: 5},
	})
	mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return aws.ToInt32(in.Limit) == 10 && !aws.ToBool(in.ScanIndexForward)
	})).Return(&dynamodb.QueryOutput{Items: items}, nil).Once()

	txs, err := store.ListTransactionsByOwner(context.Background(), "P-1", 10)

	assert.NoError(t, err)
	assert.Len(t, txs, 2)
	assert.Equal(t, "evt-2", txs[0].TransactionID)
	mockClient.AssertExpectations(t)
}
