// Where: internal/infra/publish/publisher.go
// What: Uploads rendered plans and records each publication in a ledger.
// Why: Give resource construction a durable, addressable snapshot per environment.
package publish

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidDocument reports a document missing environment, digest, or body.
var ErrInvalidDocument = errors.New("invalid plan document")

const (
	keyPrefix       = "plans"
	latestName      = "latest.yaml"
	defaultAttempts = 5
)

// Document is a rendered plan ready for upload. Body must already be redacted.
type Document struct {
	Environment string
	InfraState  string
	Digest      string
	ContentType string
	Body        []byte
}

// Record is one ledger item.
type Record struct {
	ID          string
	Environment string
	PublishedAt string
	Digest      string
	InfraState  string
	Key         string
}

// Result describes a completed publication.
type Result struct {
	Record
	LatestKey string
}

// Publisher writes documents to the bucket and the ledger table.
type Publisher struct {
	Objects ObjectStore
	Ledger  LedgerStore
	Bucket  string
	Table   string
	Logger  *zap.Logger

	// MaxRetries bounds retries per storage call; zero uses the default.
	MaxRetries uint64
	// Backoff overrides the retry schedule, mainly for tests.
	Backoff func() backoff.BackOff
	Now     func() time.Time
	NewID   func() string
}

// DigestKey returns the object key of a digest-addressed snapshot.
func DigestKey(environment, digest string) string {
	return path.Join(keyPrefix, environment, digest+".yaml")
}

// LatestKey returns the object key of the moving latest pointer.
func LatestKey(environment string) string {
	return path.Join(keyPrefix, environment, latestName)
}

// Publish uploads doc under its digest key, refreshes the latest key, and then
// records the ledger item. The ledger is written last so a recorded
// publication always has its object in place.
func (p *Publisher) Publish(ctx context.Context, doc Document) (Result, error) {
	if err := validateDocument(doc); err != nil {
		return Result{}, err
	}
	if p.Objects == nil || p.Ledger == nil {
		return Result{}, fmt.Errorf("publisher is not configured")
	}
	if strings.TrimSpace(p.Bucket) == "" || strings.TrimSpace(p.Table) == "" {
		return Result{}, fmt.Errorf("bucket and table are required")
	}

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/yaml"
	}
	record := Record{
		ID:          p.newID(),
		Environment: doc.Environment,
		PublishedAt: p.now().UTC().Format(time.RFC3339),
		Digest:      doc.Digest,
		InfraState:  doc.InfraState,
		Key:         DigestKey(doc.Environment, doc.Digest),
	}
	result := Result{Record: record, LatestKey: LatestKey(doc.Environment)}
	logger := p.logger().With(zap.String("environment", doc.Environment), zap.String("digest", doc.Digest))

	for _, key := range []string{result.Key, result.LatestKey} {
		err := p.retry(ctx, logger, "put object "+key, func() error {
			return p.Objects.PutObject(ctx, p.Bucket, key, contentType, doc.Body)
		})
		if err != nil {
			return Result{}, fmt.Errorf("upload %s: %w", key, err)
		}
		logger.Debug("uploaded plan", zap.String("bucket", p.Bucket), zap.String("key", key))
	}

	err := p.retry(ctx, logger, "put ledger record", func() error {
		return p.Ledger.PutRecord(ctx, p.Table, record)
	})
	if err != nil {
		return Result{}, fmt.Errorf("record publication: %w", err)
	}
	logger.Info("published plan", zap.String("id", record.ID), zap.String("key", record.Key))
	return result, nil
}

func (p *Publisher) retry(ctx context.Context, logger *zap.Logger, op string, fn func() error) error {
	var bo backoff.BackOff
	if p.Backoff != nil {
		bo = p.Backoff()
	} else {
		bo = backoff.NewExponentialBackOff()
	}
	maxRetries := p.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultAttempts
	}
	bo = backoff.WithContext(backoff.WithMaxRetries(bo, maxRetries), ctx)

	return backoff.RetryNotify(fn, bo, func(err error, wait time.Duration) {
		logger.Warn("retrying", zap.String("operation", op), zap.Duration("wait", wait), zap.Error(err))
	})
}

func validateDocument(doc Document) error {
	var missing []string
	if strings.TrimSpace(doc.Environment) == "" {
		missing = append(missing, "environment")
	}
	if strings.TrimSpace(doc.Digest) == "" {
		missing = append(missing, "digest")
	}
	if len(doc.Body) == 0 {
		missing = append(missing, "body")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidDocument, strings.Join(missing, ", "))
	}
	return nil
}

func (p *Publisher) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Publisher) newID() string {
	if p.NewID != nil {
		return p.NewID()
	}
	return uuid.NewString()
}

func (p *Publisher) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}
