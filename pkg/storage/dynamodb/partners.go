package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage"
)

const emailGuardPrefix = "EMAIL#"

// emailGuard reserves an encrypted email in the partners table.
type emailGuard struct {
	PartnerID    string `dynamodbav:"partner_id"`
	RefPartnerID string `dynamodbav:"ref_partner_id"`
}

// CreatePartner stores a partner together with its email guard item so that two
// partners can never share an email.
func (s *Store) CreatePartner(ctx context.Context, partner *models.Partner) error {
	partnerItem, err := attributevalue.MarshalMap(partner)
	if err != nil {
		return fmt.Errorf("failed to marshal partner: %w", err)
	}
	guardItem, err := attributevalue.MarshalMap(emailGuard{
		PartnerID:    emailGuardPrefix + partner.Email,
		RefPartnerID: partner.PartnerID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email guard: %w", err)
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(s.PartnersTableName),
					Item:                partnerItem,
					ConditionExpression: aws.String("attribute_not_exists(partner_id)"),
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(s.PartnersTableName),
					Item:                guardItem,
					ConditionExpression: aws.String("attribute_not_exists(partner_id)"),
				},
			},
		},
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			return fmt.Errorf("partner or email already registered: %w", storage.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create partner: %w", err)
	}

	return nil
}

// GetPartner retrieves a partner by id.
func (s *Store) GetPartner(ctx context.Context, partnerID string) (*models.Partner, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.PartnersTableName),
		Key:       partnerKey(partnerID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get partner from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("partner %s: %w", partnerID, storage.ErrNotFound)
	}

	var partner models.Partner
	if err := attributevalue.UnmarshalMap(result.Item, &partner); err != nil {
		return nil, fmt.Errorf("failed to unmarshal partner: %w", err)
	}
	return &partner, nil
}

// GetPartnerByEmail resolves the email guard item and loads the partner it points to.
func (s *Store) GetPartnerByEmail(ctx context.Context, encryptedEmail string) (*models.Partner, error) {
	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.PartnersTableName),
		Key:       partnerKey(emailGuardPrefix + encryptedEmail),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get email guard from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, storage.ErrNotFound
	}

	var guard emailGuard
	if err := attributevalue.UnmarshalMap(result.Item, &guard); err != nil {
		return nil, fmt.Errorf("failed to unmarshal email guard: %w", err)
	}

	return s.GetPartner(ctx, guard.RefPartnerID)
}

func partnerKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"partner_id": &types.AttributeValueMemberS{Value: id},
	}
}
