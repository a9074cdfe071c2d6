package dynamodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage"
)

// MarkLinkUsed sets is_used on a link that is not used yet. It returns false without
// error when the link was already used, and storage.ErrNotFound when it does not exist.
func (s *Store) MarkLinkUsed(ctx context.Context, token string, at time.Time) (bool, error) {
	usedAt, err := attributevalue.Marshal(at)
	if err != nil {
		return false, fmt.Errorf("failed to marshal used_at: %w", err)
	}

	return s.conditionalLinkUpdate(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.LinksTableName),
		Key:                 linkKey(token),
		UpdateExpression:    aws.String("SET is_used = :true, used_at = :used_at"),
		ConditionExpression: aws.String("attribute_exists(#token) AND is_used = :false"),
		ExpressionAttributeNames: map[string]string{
			"#token": "token",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":true":    &types.AttributeValueMemberBOOL{Value: true},
			":false":   &types.AttributeValueMemberBOOL{Value: false},
			":used_at": usedAt,
		},
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
}

// MarkLinkSold records a sale in the link's metadata. Only non-empty sale fields are
// written. It returns false without error when the link was already sold.
func (s *Store) MarkLinkSold(ctx context.Context, token string, sale models.LinkMetadata) (bool, error) {
	names := map[string]string{
		"#token": "token",
		"#meta":  "metadata",
		"#sold":  "sold",
	}
	values := map[string]types.AttributeValue{
		":true":  &types.AttributeValueMemberBOOL{Value: true},
		":false": &types.AttributeValueMemberBOOL{Value: false},
	}
	sets := []string{"#meta.#sold = :true"}

	add := func(attr string, v any) error {
		av, err := attributevalue.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", attr, err)
		}
		names["#"+attr] = attr
		values[":"+attr] = av
		sets = append(sets, fmt.Sprintf("#meta.#%s = :%s", attr, attr))
		return nil
	}

	if sale.SoldAt != nil {
		if err := add("sold_at", *sale.SoldAt); err != nil {
			return false, err
		}
	}
	if sale.CustomerEmail != "" {
		if err := add("customer_email", sale.CustomerEmail); err != nil {
			return false, err
		}
	}
	if sale.Plan != "" {
		if err := add("plan", sale.Plan); err != nil {
			return false, err
		}
	}
	if sale.PurchaseDate != nil {
		if err := add("purchase_date", *sale.PurchaseDate); err != nil {
			return false, err
		}
	}
	if sale.Amount > 0 {
		if err := add("amount", sale.Amount); err != nil {
			return false, err
		}
	}
	if len(sale.Extra) > 0 {
		if err := add("extra", sale.Extra); err != nil {
			return false, err
		}
	}

	return s.conditionalLinkUpdate(ctx, &dynamodb.UpdateItemInput{
		TableName:                           aws.String(s.LinksTableName),
		Key:                                 linkKey(token),
		UpdateExpression:                    aws.String("SET " + strings.Join(sets, ", ")),
		ConditionExpression:                 aws.String("attribute_exists(#token) AND #meta.#sold = :false"),
		ExpressionAttributeNames:            names,
		ExpressionAttributeValues:           values,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
}

// conditionalLinkUpdate runs a guarded update. A failed condition with no old item
// means the link is missing; with an old item it means the flag was already set.
func (s *Store) conditionalLinkUpdate(ctx context.Context, input *dynamodb.UpdateItemInput) (bool, error) {
	_, err := s.Client.UpdateItem(ctx, input)
	if err == nil {
		return true, nil
	}

	if ccf, ok := isConditionalCheckFailed(err); ok {
		if len(ccf.Item) == 0 {
			return false, storage.ErrNotFound
		}
		return false, nil
	}

	return false, fmt.Errorf("failed to update link: %w", err)
}

func linkKey(token string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"token": &types.AttributeValueMemberS{Value: token},
	}
}
