package settings

import (
	"context"
	"strconv"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/tx"
	"retailpos/internal/core/types"
	"retailpos/pkg/logger"
)

// DefaultTaxRate applies when the taxRate setting is missing or unreadable.
var DefaultTaxRate = types.MustMoney("15")

// Service reads and writes store configuration.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// EnsureDefaults seeds the well-known settings that are not present yet.
func (s *Service) EnsureDefaults(ctx context.Context) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.SeedDefaults(ctx, Defaults())
	})
}

func (s *Service) Get(ctx context.Context, key string) (*Setting, error) {
	return s.repo.Get(ctx, key)
}

func (s *Service) GetAll(ctx context.Context) ([]*Setting, error) {
	return s.repo.GetAll(ctx)
}

// Set validates and upserts one setting.
func (s *Service) Set(ctx context.Context, key, value string, typ ValueType) (*Setting, error) {
	setting := New(key, value, typ)
	if err := setting.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Upsert(ctx, setting)
	}); err != nil {
		return nil, err
	}
	logger.Info(ctx, "setting updated", "key", key)
	return setting, nil
}

// SetAll upserts a batch of settings atomically.
func (s *Service) SetAll(ctx context.Context, batch []*Setting) error {
	for _, st := range batch {
		if err := st.Validate(ctx); err != nil {
			return err
		}
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, st := range batch {
			if err := s.repo.Upsert(ctx, st); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetString returns the string value of key, or fallback when missing.
func (s *Service) GetString(ctx context.Context, key, fallback string) (string, error) {
	setting, err := s.repo.Get(ctx, key)
	if apperror.IsNotFound(err) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

// GetBool returns the boolean value of key, or fallback when missing
// or unparsable.
func (s *Service) GetBool(ctx context.Context, key string, fallback bool) (bool, error) {
	setting, err := s.repo.Get(ctx, key)
	if apperror.IsNotFound(err) {
		return fallback, nil
	}
	if err != nil {
		return false, err
	}
	v, perr := strconv.ParseBool(setting.Value)
	if perr != nil {
		logger.Warn(ctx, "setting is not a boolean, using fallback",
			"key", key, "value", setting.Value)
		return fallback, nil
	}
	return v, nil
}

// GetNumber returns the numeric value of key, or fallback when missing
// or unparsable.
func (s *Service) GetNumber(ctx context.Context, key string, fallback types.Money) (types.Money, error) {
	setting, err := s.repo.Get(ctx, key)
	if apperror.IsNotFound(err) {
		return fallback, nil
	}
	if err != nil {
		return types.Zero(), err
	}
	v, perr := types.NewMoneyFromString(setting.Value)
	if perr != nil {
		logger.Warn(ctx, "setting is not a number, using fallback",
			"key", key, "value", setting.Value)
		return fallback, nil
	}
	return v, nil
}

// TaxConfig returns the store's tax rate (percent) and whether tax is
// applied at checkout. Satisfies the sale service's tax provider.
func (s *Service) TaxConfig(ctx context.Context) (types.Money, bool, error) {
	rate, err := s.GetNumber(ctx, KeyTaxRate, DefaultTaxRate)
	if err != nil {
		return types.Zero(), false, err
	}
	enabled, err := s.GetBool(ctx, KeyTaxEnabled, true)
	if err != nil {
		return types.Zero(), false, err
	}
	return rate, enabled, nil
}
