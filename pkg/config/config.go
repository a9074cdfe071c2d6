// Package config reads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/fieldcipher"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/payments"
)

// Storage backends.
const (
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

const (
	defaultHTTPPort  = "8080"
	defaultPlansFile = "plans.yaml"
	defaultStarter   = 3
)

// Group is a set of variables one process needs.
type Group int

const (
	GroupCipher Group = iota
	GroupTables
	GroupPayments
	GroupSessions
	GroupQueue
	GroupMail
)

var groupVars = map[Group][]string{
	GroupCipher:   {"FIELD_KEY_1", "FIELD_IV_1", "FIELD_KEY_2", "FIELD_IV_2"},
	GroupTables:   {"DYNAMODB_LINKS_TABLE_NAME", "DYNAMODB_TRANSACTIONS_TABLE_NAME", "DYNAMODB_IDEMPOTENCY_TABLE_NAME", "DYNAMODB_PARTNERS_TABLE_NAME"},
	GroupPayments: {"STRIPE_SECRET_KEY", "STRIPE_WEBHOOK_SECRET"},
	GroupSessions: {"SESSION_SECRET"},
	GroupQueue:    {"NOTIFICATION_QUEUE_URL"},
	GroupMail:     {"MAIL_FROM"},
}

// Server lists what the HTTP API requires.
var Server = []Group{GroupCipher, GroupTables, GroupPayments, GroupSessions, GroupQueue}

// MissingError lists every required variable that is unset.
type MissingError struct {
	Vars []string
}

func (e *MissingError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Vars, ", ")
}

// Config is the resolved environment.
type Config struct {
	HTTPPort       string
	PublicBaseURL  string
	LogLevel       slog.Level
	StorageBackend string

	LinksTable        string
	TransactionsTable string
	IdempotencyTable  string
	PartnersTable     string

	FieldKey1 string
	FieldIV1  string
	FieldKey2 string
	FieldIV2  string

	StripeSecretKey     string
	StripeWebhookSecret string
	CheckoutSuccessURL  string
	CheckoutCancelURL   string
	PlansFile           string

	SessionSecret        string
	NotificationQueueURL string
	MailFrom             string
	StarterLinkCount     int
}

// LoadDotEnv loads a .env file when one exists.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
}

// Load reads the environment and fails if any variable of the given groups is unset.
// Table and queue variables are not required with the memory backend.
func Load(groups ...Group) (*Config, error) {
	return load(os.LookupEnv, groups)
}

func load(lookup func(string) (string, bool), groups []Group) (*Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}
	getOr := func(key, def string) string {
		if v := get(key); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		HTTPPort:       getOr("HTTP_PORT", defaultHTTPPort),
		PublicBaseURL:  strings.TrimRight(get("PUBLIC_BASE_URL"), "/"),
		StorageBackend: strings.ToLower(getOr("STORAGE_BACKEND", BackendDynamoDB)),

		LinksTable:        get("DYNAMODB_LINKS_TABLE_NAME"),
		TransactionsTable: get("DYNAMODB_TRANSACTIONS_TABLE_NAME"),
		IdempotencyTable:  get("DYNAMODB_IDEMPOTENCY_TABLE_NAME"),
		PartnersTable:     get("DYNAMODB_PARTNERS_TABLE_NAME"),

		FieldKey1: get("FIELD_KEY_1"),
		FieldIV1:  get("FIELD_IV_1"),
		FieldKey2: get("FIELD_KEY_2"),
		FieldIV2:  get("FIELD_IV_2"),

		StripeSecretKey:     get("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: get("STRIPE_WEBHOOK_SECRET"),
		CheckoutSuccessURL:  get("CHECKOUT_SUCCESS_URL"),
		CheckoutCancelURL:   get("CHECKOUT_CANCEL_URL"),
		PlansFile:           get("PLANS_FILE"),

		SessionSecret:        get("SESSION_SECRET"),
		NotificationQueueURL: get("NOTIFICATION_QUEUE_URL"),
		MailFrom:             get("MAIL_FROM"),
		StarterLinkCount:     defaultStarter,
	}

	var problems []string

	switch cfg.StorageBackend {
	case BackendDynamoDB, BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("STORAGE_BACKEND must be %q or %q, got %q", BackendDynamoDB, BackendMemory, cfg.StorageBackend))
	}

	if raw := get("LOG_LEVEL"); raw != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(raw)); err != nil {
			problems = append(problems, fmt.Sprintf("LOG_LEVEL: %v", err))
		}
	}

	if raw := get("STARTER_LINK_COUNT"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			problems = append(problems, "STARTER_LINK_COUNT must be a non-negative integer")
		} else {
			cfg.StarterLinkCount = n
		}
	}

	if cfg.CheckoutSuccessURL == "" {
		cfg.CheckoutSuccessURL = cfg.PublicBaseURL + "/partners/checkout/success?session_id={CHECKOUT_SESSION_ID}"
	}
	if cfg.CheckoutCancelURL == "" {
		cfg.CheckoutCancelURL = cfg.PublicBaseURL + "/partners/checkout/cancel"
	}

	var missing []string
	for _, g := range groups {
		if cfg.StorageBackend == BackendMemory && (g == GroupTables || g == GroupQueue) {
			continue
		}
		for _, key := range groupVars[g] {
			if get(key) == "" {
				missing = append(missing, key)
			}
		}
	}

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, &MissingError{Vars: missing})
	}
	for _, p := range problems {
		errs = append(errs, errors.New(p))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// Cipher builds the field cipher from the configured key pairs.
func (c *Config) Cipher() (*fieldcipher.Cipher, error) {
	first, err := fieldcipher.ParseKeyPair(c.FieldKey1, c.FieldIV1)
	if err != nil {
		return nil, fmt.Errorf("FIELD_KEY_1/FIELD_IV_1: %w", err)
	}
	second, err := fieldcipher.ParseKeyPair(c.FieldKey2, c.FieldIV2)
	if err != nil {
		return nil, fmt.Errorf("FIELD_KEY_2/FIELD_IV_2: %w", err)
	}
	return fieldcipher.New(first, second)
}

// Catalog loads the plan catalog. An explicit PLANS_FILE must exist; without one the
// default file is used when present and the built-in catalog otherwise.
func (c *Config) Catalog() (*payments.Catalog, error) {
	if c.PlansFile != "" {
		return payments.LoadCatalog(c.PlansFile)
	}
	if _, err := os.Stat(defaultPlansFile); err == nil {
		return payments.LoadCatalog(defaultPlansFile)
	}
	return payments.DefaultCatalog(), nil
}

// NewLogger returns a JSON slog logger at the configured level.
func (c *Config) NewLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: c.LogLevel}))
}
