package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/entity"
	"retailpos/internal/domain"
	"retailpos/internal/domain/cashbox"
	"retailpos/internal/infrastructure/storage/postgres"
)

const (
	shiftsTable        = "shifts"
	shiftPaymentsTable = "payments"
)

// ShiftRepo implements cashbox.Repository. Shifts have no document
// number, so it shares only the builder plumbing with the other repos.
type ShiftRepo struct {
	txManager  *postgres.TxManager
	selectCols []string
}

// NewShiftRepo creates a new shift repository.
func NewShiftRepo(txManager *postgres.TxManager) *ShiftRepo {
	return &ShiftRepo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[cashbox.Shift](),
	}
}

func (r *ShiftRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *ShiftRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(r.selectCols...).
		From(shiftsTable)
}

// Create inserts a new shift and assigns its ID.
func (r *ShiftRepo) Create(ctx context.Context, shift *cashbox.Shift) error {
	data := postgres.StructToMap(shift)
	delete(data, "id")

	q := r.builder().
		Insert(shiftsTable).
		SetMap(data).
		Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return fmt.Errorf("insert shift: %w", err)
	}
	shift.SetID(id)

	return nil
}

// GetByID retrieves a shift.
func (r *ShiftRepo) GetByID(ctx context.Context, id int64) (*cashbox.Shift, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": id}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	shift := &cashbox.Shift{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), shift, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("shift", id)
		}
		return nil, fmt.Errorf("get shift: %w", err)
	}

	return shift, nil
}

// GetOpen returns the single open shift with a row lock, so concurrent
// open and close attempts serialize on it.
func (r *ShiftRepo) GetOpen(ctx context.Context) (*cashbox.Shift, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"status": cashbox.ShiftOpen}).
		Limit(1)
	if r.txManager.GetTx(ctx) != nil {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	shift := &cashbox.Shift{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), shift, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("open shift", "current")
		}
		return nil, fmt.Errorf("get open shift: %w", err)
	}

	return shift, nil
}

// Update persists shift mutations with optimistic locking.
func (r *ShiftRepo) Update(ctx context.Context, shift *cashbox.Shift) error {
	data := postgres.StructToMap(shift)
	version, _ := data["version"].(int)
	delete(data, "id")
	delete(data, "version")
	delete(data, "created_at")

	q := r.builder().
		Update(shiftsTable).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": shift.ID}).
		Where(squirrel.Eq{"version": version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update shift: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("shift", shift.ID)
	}

	return nil
}

// List returns shifts newest first.
func (r *ShiftRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*cashbox.Shift], error) {
	result := domain.ListResult[*cashbox.Shift]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()
	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}

	countQ := r.builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("opened_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list shifts: %w", err)
	}

	return result, nil
}

// SumCash aggregates cash payments linked to the shift. Non-cash
// payments never carry a shift_id, so the method filter is redundant
// but keeps the intent visible.
func (r *ShiftRepo) SumCash(ctx context.Context, shiftID int64) (cashbox.CashFlow, error) {
	q := r.builder().
		Select(
			"COALESCE(SUM(amount) FILTER (WHERE direction = 'in'), 0) AS cash_in",
			"COALESCE(SUM(amount) FILTER (WHERE direction = 'out'), 0) AS cash_out",
		).
		From(shiftPaymentsTable).
		Where(squirrel.Eq{"shift_id": shiftID}).
		Where(squirrel.Eq{"method": entity.MethodCash})

	sql, args, err := q.ToSql()
	if err != nil {
		return cashbox.CashFlow{}, fmt.Errorf("build query: %w", err)
	}

	var flow cashbox.CashFlow
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&flow.In, &flow.Out); err != nil {
		return cashbox.CashFlow{}, fmt.Errorf("sum shift cash: %w", err)
	}

	return flow, nil
}
