package dynamodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
)

const (
	batchWriteLimit        = 25
	maxUnprocessedAttempts = 5
)

var unprocessedBackoff = 50 * time.Millisecond

// CreateLinks writes links in BatchWriteItem chunks. There is no rollback: chunks
// written before a failure stay in the table.
func (s *Store) CreateLinks(ctx context.Context, links []models.SecureLink) error {
	for start := 0; start < len(links); start += batchWriteLimit {
		end := min(start+batchWriteLimit, len(links))

		requests := make([]types.WriteRequest, 0, end-start)
		for i := start; i < end; i++ {
			item, err := marshalLink(&links[i])
			if err != nil {
				return err
			}
			requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
		}

		if err := s.writeChunk(ctx, requests); err != nil {
			return fmt.Errorf("failed to write links %d-%d of %d: %w", start, end, len(links), err)
		}
	}

	slog.DebugContext(ctx, "created links", "count", len(links))
	return nil
}

// writeChunk resubmits unprocessed items a bounded number of times.
func (s *Store) writeChunk(ctx context.Context, requests []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{s.LinksTableName: requests}

	for attempt := 1; attempt <= maxUnprocessedAttempts; attempt++ {
		out, err := s.Client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return fmt.Errorf("failed to batch write links: %w", err)
		}
		if out == nil || len(out.UnprocessedItems[s.LinksTableName]) == 0 {
			return nil
		}
		pending = out.UnprocessedItems

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(unprocessedBackoff * time.Duration(attempt)):
		}
	}

	return fmt.Errorf("%d links still unprocessed after %d attempts", len(pending[s.LinksTableName]), maxUnprocessedAttempts)
}

func marshalLink(link *models.SecureLink) (map[string]types.AttributeValue, error) {
	if link.ExpiresAt != nil {
		link.TTL = link.ExpiresAt.Unix()
	}
	item, err := attributevalue.MarshalMap(link)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal link: %w", err)
	}
	return item, nil
}
