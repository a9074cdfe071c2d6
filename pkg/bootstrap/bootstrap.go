// Package bootstrap builds the shared dependencies of the service binaries.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/config"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/notifier"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage"
	dydbstore "github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage/dynamodb"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage/memory"
)

// AWS loads the SDK configuration from the default credential chain.
func AWS(ctx context.Context) (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return cfg, nil
}

// Store opens the configured storage backend.
func Store(cfg *config.Config, awsCfg aws.Config) storage.Storage {
	if cfg.StorageBackend == config.BackendMemory {
		slog.Warn("using in-memory storage, data is lost on restart")
		return memory.New()
	}
	return dydbstore.New(dynamodb.NewFromConfig(awsCfg), dydbstore.Tables{
		Links:        cfg.LinksTable,
		Transactions: cfg.TransactionsTable,
		Idempotency:  cfg.IdempotencyTable,
		Partners:     cfg.PartnersTable,
	})
}

// Notifier returns the SQS notifier, or a logging no-op when no queue is configured.
func Notifier(cfg *config.Config, awsCfg aws.Config) notifier.Notifier {
	if cfg.NotificationQueueURL == "" {
		slog.Warn("NOTIFICATION_QUEUE_URL not set, notifications are only logged")
		return notifier.NoOpNotifier{}
	}
	return notifier.NewSQSNotifier(sqs.NewFromConfig(awsCfg), cfg.NotificationQueueURL)
}

// Mailer returns the SES mailer.
func Mailer(cfg *config.Config, awsCfg aws.Config) *notifier.SESMailer {
	return notifier.NewSESMailer(sesv2.NewFromConfig(awsCfg), cfg.MailFrom)
}
