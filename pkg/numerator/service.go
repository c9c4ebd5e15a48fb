// Package numerator provides document auto-numbering.
// Numbers are allocated with an atomic UPSERT on sys_sequences so that a
// counter increment and the document it numbers commit or roll back together.
package numerator

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Querier is the minimal database surface the numerator needs.
// Inside a transaction this is the pgx.Tx, otherwise the pool.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// QuerierProvider resolves the querier for the current context.
// The postgres transaction manager supplies one that returns the
// in-flight transaction when present, so numbers roll back with the
// document that requested them.
type QuerierProvider func(ctx context.Context) Querier

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g., "INV", "PUR")
	Prefix string

	// PadWidth is the minimum counter width (default 4)
	PadWidth int

	// ResetPeriod: "day", "year", "never"
	ResetPeriod string
}

// DefaultConfig returns day-scoped numbering, the pattern used for all
// invoice documents: PREFIX-YYYYMMDD-NNNN.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		PadWidth:    4,
		ResetPeriod: "day",
	}
}

// Service provides document numbering functionality.
type Service struct {
	provider QuerierProvider
}

// New creates a numerator backed by a querier provider.
func New(provider QuerierProvider) *Service {
	return &Service{provider: provider}
}

// NewStatic creates a numerator bound to a fixed querier.
// Use for seeding and tests.
func NewStatic(querier Querier) *Service {
	return &Service{provider: func(context.Context) Querier { return querier }}
}

// NextNumber allocates and formats the next document number for the
// period. The counter restarts when the period key changes; earlier
// periods keep their counters so numbers are never reused.
func (s *Service) NextNumber(ctx context.Context, cfg Config, period time.Time) (string, error) {
	if s == nil || s.provider == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	key := s.buildKey(cfg, period)

	var num int64
	err := s.provider(ctx).QueryRow(ctx, `
        INSERT INTO sys_sequences (key, current_val)
        VALUES ($1, 1)
        ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
        RETURNING current_val
	`, key).Scan(&num)
	if err != nil {
		return "", fmt.Errorf("next number for %s: %w", key, err)
	}

	return s.formatNumber(cfg, period, num), nil
}

// SetNextValue overwrites the counter for the period (restore/migration).
func (s *Service) SetNextValue(ctx context.Context, cfg Config, period time.Time, value int64) error {
	key := s.buildKey(cfg, period)

	var result int64
	err := s.provider(ctx).QueryRow(ctx, `
        INSERT INTO sys_sequences (key, current_val)
        VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET current_val = $2
        RETURNING current_val
	`, key, value).Scan(&result)
	if err != nil {
		return fmt.Errorf("set counter for %s: %w", key, err)
	}
	return nil
}

// buildKey creates the sequence key based on config and period.
func (s *Service) buildKey(cfg Config, period time.Time) string {
	switch cfg.ResetPeriod {
	case "day":
		return fmt.Sprintf("%s_counter_%s", cfg.Prefix, period.Format("20060102"))
	case "year":
		return fmt.Sprintf("%s_counter_%s", cfg.Prefix, period.Format("2006"))
	default:
		return fmt.Sprintf("%s_counter", cfg.Prefix)
	}
}

// formatNumber creates the final number string.
func (s *Service) formatNumber(cfg Config, period time.Time, num int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 4
	}

	switch cfg.ResetPeriod {
	case "day":
		return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, period.Format("20060102"), padWidth, num)
	case "year":
		return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, period.Format("2006"), padWidth, num)
	default:
		return fmt.Sprintf("%s-%0*d", cfg.Prefix, padWidth, num)
	}
}

// ParseNumber extracts the counter part from a formatted number.
// Returns -1 if parsing fails.
func ParseNumber(formatted string) int64 {
	var num int64
	patterns := []string{
		"%*[^-]-%*d-%d",
		"%*[^-]-%d",
	}

	for _, pattern := range patterns {
		if _, err := fmt.Sscanf(formatted, pattern, &num); err == nil {
			return num
		}
	}

	return -1
}
