package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/bootstrap"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/config"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/notifier"
)

// Deliverer is implemented by notifier.Dispatcher.
type Deliverer interface {
	Deliver(ctx context.Context, n *models.Notification) error
}

var dispatcher Deliverer

func init() {
	// Load environment variables from .env file (useful for local testing).
	config.LoadDotEnv()

	cfg, err := config.Load(config.GroupCipher, config.GroupTables, config.GroupMail)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(cfg.NewLogger())

	// Initialize dependencies once.
	awsCfg, err := bootstrap.AWS(context.Background())
	if err != nil {
		slog.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	cipher, err := cfg.Cipher()
	if err != nil {
		slog.Error("invalid field cipher keys", "error", err)
		os.Exit(1)
	}

	dispatcher = notifier.NewDispatcher(bootstrap.Store(cfg, awsCfg), cipher, bootstrap.Mailer(cfg, awsCfg), cfg.PublicBaseURL)
}

// HandleRequest delivers queued link notifications. Failed messages are reported
// individually so SQS redelivers only those.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	return deliverAll(ctx, dispatcher, sqsEvent), nil
}

func deliverAll(ctx context.Context, d Deliverer, sqsEvent events.SQSEvent) events.SQSEventResponse {
	var resp events.SQSEventResponse
	for _, message := range sqsEvent.Records {
		n, err := notifier.Decode(message.Body)
		if err != nil {
			slog.ErrorContext(ctx, "dropping malformed notification", "message_id", message.MessageId, "error", err)
			continue
		}

		if err := d.Deliver(ctx, n); err != nil {
			slog.ErrorContext(ctx, "failed to deliver notification", "message_id", message.MessageId, "type", n.Type, "error", err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
		}
	}
	return resp
}

func main() {
	lambda.Start(HandleRequest)
}
