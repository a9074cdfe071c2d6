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

const ownerIndex = "owner_id-created_at-index"

// ListLinksByOwner queries every link of an owner, newest first.
func (s *Store) ListLinksByOwner(ctx context.Context, ownerID string) ([]models.SecureLink, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.LinksTableName),
		IndexName:              aws.String(ownerIndex),
		KeyConditionExpression: aws.String("owner_id = :owner"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: ownerID},
		},
		ScanIndexForward: aws.Bool(false), // Newest first
	}

	var links []models.SecureLink
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query links by owner: %w", err)
		}

		var page []models.SecureLink
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal links: %w", err)
		}
		links = append(links, page...)

		if len(result.LastEvaluatedKey) == 0 {
			return links, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

// CountLinks counts an owner's links matching status without transferring the items.
func (s *Store) CountLinks(ctx context.Context, ownerID string, status models.LinkStatus) (int, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.LinksTableName),
		IndexName:              aws.String(ownerIndex),
		KeyConditionExpression: aws.String("owner_id = :owner"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: ownerID},
		},
		Select: types.SelectCount,
	}

	switch status {
	case models.LinkStatusUsed, models.LinkStatusUnused:
		input.FilterExpression = aws.String("is_used = :flag")
		input.ExpressionAttributeValues[":flag"] = &types.AttributeValueMemberBOOL{Value: status == models.LinkStatusUsed}
	case models.LinkStatusSold, models.LinkStatusUnsold:
		input.FilterExpression = aws.String("#meta.#sold = :flag")
		input.ExpressionAttributeNames = map[string]string{"#meta": "metadata", "#sold": "sold"}
		input.ExpressionAttributeValues[":flag"] = &types.AttributeValueMemberBOOL{Value: status == models.LinkStatusSold}
	}

	total := 0
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return 0, fmt.Errorf("failed to count links by owner: %w", err)
		}
		total += int(result.Count)

		if len(result.LastEvaluatedKey) == 0 {
			return total, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}
