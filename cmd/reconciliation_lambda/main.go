package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/bootstrap"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/config"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/payments"
)

// staleClaimThreshold is well past the time a webhook delivery needs to finish.
const staleClaimThreshold = 15 * time.Minute

var reconciler *payments.Reconciler

func init() {
	// Load environment variables for local testing.
	config.LoadDotEnv()

	cfg, err := config.Load(config.GroupCipher, config.GroupTables)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(cfg.NewLogger())

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

	reconciler = payments.NewReconciler(bootstrap.Store(cfg, awsCfg), cipher)
}

// HandleRequest is triggered by an EventBridge Schedule. It releases idempotency claims
// left behind by deliveries that crashed mid-fulfillment so the gateway's next retry
// can provision the purchase.
func HandleRequest(ctx context.Context) error {
	slog.InfoContext(ctx, "releasing stale payment claims", "older_than", staleClaimThreshold.String())

	released, err := reconciler.ReleaseStale(ctx, staleClaimThreshold)
	if err != nil {
		slog.ErrorContext(ctx, "failed to release stale claims", "released", released, "error", err)
		return err
	}

	slog.InfoContext(ctx, "stale claim sweep finished", "released", released)
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
