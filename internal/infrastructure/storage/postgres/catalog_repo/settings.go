package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"retailpos/internal/core/apperror"
	"retailpos/internal/domain/settings"
	"retailpos/internal/infrastructure/storage/postgres"
)

const settingsTable = "settings"

// SettingsRepo implements settings.Repository. Settings are keyed by a
// unique key column rather than listed like a catalog, so it does not
// embed the generic base.
type SettingsRepo struct {
	txManager  *postgres.TxManager
	selectCols []string
}

// NewSettingsRepo creates a new settings repository.
func NewSettingsRepo(txManager *postgres.TxManager) *SettingsRepo {
	return &SettingsRepo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[settings.Setting](),
	}
}

func (r *SettingsRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Get retrieves one setting by key.
func (r *SettingsRepo) Get(ctx context.Context, key string) (*settings.Setting, error) {
	q := r.builder().
		Select(r.selectCols...).
		From(settingsTable).
		Where(squirrel.Eq{"key": key}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	s := &settings.Setting{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("setting", key)
		}
		return nil, fmt.Errorf("get setting: %w", err)
	}

	return s, nil
}

// GetAll returns every setting ordered by key.
func (r *SettingsRepo) GetAll(ctx context.Context) ([]*settings.Setting, error) {
	q := r.builder().
		Select(r.selectCols...).
		From(settingsTable).
		OrderBy("key ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*settings.Setting
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}

	return items, nil
}

// Upsert inserts the setting or replaces the stored value and type.
func (r *SettingsRepo) Upsert(ctx context.Context, s *settings.Setting) error {
	data := postgres.StructToMap(s)
	delete(data, "id")

	q := r.builder().
		Insert(settingsTable).
		SetMap(data).
		Suffix(`ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			type = EXCLUDED.type,
			version = ` + settingsTable + `.version + 1,
			updated_at = EXCLUDED.updated_at
		RETURNING id`)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	var id int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}
	s.SetID(id)

	return nil
}

// SeedDefaults inserts the given settings for keys not present yet.
func (r *SettingsRepo) SeedDefaults(ctx context.Context, defaults []*settings.Setting) error {
	for _, s := range defaults {
		data := postgres.StructToMap(s)
		delete(data, "id")

		q := r.builder().
			Insert(settingsTable).
			SetMap(data).
			Suffix("ON CONFLICT (key) DO NOTHING")

		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build seed insert: %w", err)
		}
		if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("seed setting %s: %w", s.Key, err)
		}
	}
	return nil
}
