package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage"
)

// GetLink retrieves a link from DynamoDB by its token.
func (s *Store) GetLink(ctx context.Context, token string) (*models.SecureLink, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"token": token})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal link token: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.LinksTableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get link from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("link %s: %w", token, storage.ErrNotFound)
	}

	var link models.SecureLink
	if err := attributevalue.UnmarshalMap(result.Item, &link); err != nil {
		return nil, fmt.Errorf("failed to unmarshal link: %w", err)
	}

	return &link, nil
}
