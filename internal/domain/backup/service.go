package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/tx"
	"retailpos/pkg/logger"
)

// Store dumps and restores raw table rows. The restore side replaces
// table contents wholesale; the service wraps it in one transaction.
type Store interface {
	// DumpTable returns every row of the table as JSON objects.
	DumpTable(ctx context.Context, table string) ([]json.RawMessage, error)

	// DeleteAll removes every row of the table.
	DeleteAll(ctx context.Context, table string) error

	// InsertRows bulk-inserts the rows verbatim.
	InsertRows(ctx context.Context, table string, rows []json.RawMessage) error
}

// Service exports and imports whole-database backups.
type Service struct {
	store     Store
	txManager tx.Manager
}

func NewService(store Store, txManager tx.Manager) *Service {
	return &Service{store: store, txManager: txManager}
}

// Export writes a gzip-compressed JSON backup of every table to w.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	doc := Document{
		Version: CurrentVersion,
		Date:    time.Now().UTC(),
		Data:    make(map[string][]json.RawMessage, len(Tables)),
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, table := range Tables {
			rows, err := s.store.DumpTable(ctx, table)
			if err != nil {
				return err
			}
			doc.Data[table] = rows
		}
		return nil
	})
	if err != nil {
		return err
	}

	gz := gzip.NewWriter(w)
	if err := json.NewEncoder(gz).Encode(doc); err != nil {
		gz.Close()
		return apperror.NewInternal(fmt.Errorf("encode backup: %w", err))
	}
	if err := gz.Close(); err != nil {
		return apperror.NewInternal(fmt.Errorf("compress backup: %w", err))
	}

	var total int
	for _, rows := range doc.Data {
		total += len(rows)
	}
	logger.Info(ctx, "backup exported", "tables", len(doc.Data), "rows", total)
	return nil
}

// Import replaces the entire database with the backup read from r.
// Children are cleared before parents and restored parents-first, all
// inside one transaction, so a failed import leaves the data untouched.
func (s *Service) Import(ctx context.Context, r io.Reader) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return apperror.NewValidation("backup is not a gzip archive").WithCause(err)
	}
	defer gz.Close()

	var doc Document
	if err := json.NewDecoder(gz).Decode(&doc); err != nil {
		return apperror.NewValidation("backup is not valid JSON").WithCause(err)
	}
	if doc.Version != CurrentVersion {
		return apperror.NewBackupVersion(doc.Version)
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for i := len(Tables) - 1; i >= 0; i-- {
			if err := s.store.DeleteAll(ctx, Tables[i]); err != nil {
				return err
			}
		}
		for _, table := range Tables {
			rows := doc.Data[table]
			if len(rows) == 0 {
				continue
			}
			if err := s.store.InsertRows(ctx, table, rows); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "backup imported", "date", doc.Date, "tables", len(doc.Data))
	return nil
}
