package cashbox

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/entity"
	"retailpos/internal/core/types"
	"retailpos/internal/domain"
)

func money(s string) types.Money { return types.MustMoney(s) }

type fakeRepo struct {
	shifts map[int64]*Shift
	flows  map[int64]CashFlow
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{shifts: map[int64]*Shift{}, flows: map[int64]CashFlow{}}
}

func (f *fakeRepo) Create(_ context.Context, s *Shift) error {
	f.nextID++
	s.ID = f.nextID
	f.shifts[s.ID] = s
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*Shift, error) {
	s, ok := f.shifts[id]
	if !ok {
		return nil, apperror.NewNotFound("shift", id)
	}
	return s, nil
}

func (f *fakeRepo) GetOpen(context.Context) (*Shift, error) {
	for _, s := range f.shifts {
		if s.Status == ShiftOpen {
			return s, nil
		}
	}
	return nil, apperror.NewNotFound("shift", "open")
}

func (f *fakeRepo) Update(_ context.Context, s *Shift) error {
	f.shifts[s.ID] = s
	return nil
}

func (f *fakeRepo) List(context.Context, domain.ListFilter) (domain.ListResult[*Shift], error) {
	out := domain.ListResult[*Shift]{}
	for _, s := range f.shifts {
		out.Items = append(out.Items, s)
		out.TotalCount++
	}
	return out, nil
}

func (f *fakeRepo) SumCash(_ context.Context, shiftID int64) (CashFlow, error) {
	return f.flows[shiftID], nil
}

type fakeAppender struct {
	appended []*entity.Payment
}

func (f *fakeAppender) Append(_ context.Context, payments ...*entity.Payment) error {
	f.appended = append(f.appended, payments...)
	return nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestOpenShift(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeAppender{}, passthroughTx{})

	shift, err := svc.OpenShift(context.Background(), 1, money("100"))
	require.NoError(t, err)
	assert.Equal(t, ShiftOpen, shift.Status)
	assert.True(t, shift.OpeningCash.Equal(money("100")))
}

func TestOpenShift_SecondFails(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeAppender{}, passthroughTx{})
	ctx := context.Background()

	_, err := svc.OpenShift(ctx, 1, money("100"))
	require.NoError(t, err)

	// Single open shift system-wide, even for a different user.
	_, err = svc.OpenShift(ctx, 2, money("50"))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeShiftAlreadyOpen))
}

func TestCloseShift_ExpectedAndDifference(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeAppender{}, passthroughTx{})
	ctx := context.Background()

	shift, err := svc.OpenShift(ctx, 1, money("100"))
	require.NoError(t, err)
	repo.flows[shift.ID] = CashFlow{In: money("400"), Out: money("50")}

	// expected = 100 + 400 - 50 = 450; counted 470 leaves +20 recorded.
	closed, err := svc.CloseShift(ctx, money("470"), "evening count")
	require.NoError(t, err)

	assert.Equal(t, ShiftClosed, closed.Status)
	assert.True(t, closed.ExpectedCash.Equal(money("450")), "expected %s", closed.ExpectedCash)
	assert.True(t, closed.Difference.Equal(money("20")), "difference %s", closed.Difference)
	require.NotNil(t, closed.ClosedAt)
}

func TestCloseShift_NoneOpen(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeAppender{}, passthroughTx{})

	_, err := svc.CloseShift(context.Background(), money("100"), "")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeShiftNotOpen))
}

func TestCurrentShift_LiveExpected(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeAppender{}, passthroughTx{})
	ctx := context.Background()

	shift, err := svc.OpenShift(ctx, 1, money("100"))
	require.NoError(t, err)
	repo.flows[shift.ID] = CashFlow{In: money("30"), Out: money("10")}

	view, err := svc.CurrentShift(ctx)
	require.NoError(t, err)
	assert.True(t, view.ExpectedCash.Equal(money("120")))
}

func TestOpenShiftID(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeAppender{}, passthroughTx{})
	ctx := context.Background()

	id, err := svc.OpenShiftID(ctx)
	require.NoError(t, err)
	assert.Nil(t, id, "no open shift means nil, not an error")

	shift, err := svc.OpenShift(ctx, 1, money("100"))
	require.NoError(t, err)

	id, err = svc.OpenShiftID(ctx)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, shift.ID, *id)
}

func TestRecordCashMovement(t *testing.T) {
	repo := newFakeRepo()
	payments := &fakeAppender{}
	svc := NewService(repo, payments, passthroughTx{})
	ctx := context.Background()

	_, err := svc.RecordCashMovement(ctx, CashMovementInput{
		Direction: entity.PayOut,
		Amount:    money("25"),
		Note:      "window cleaning",
	})
	require.Error(t, err, "no open shift")
	assert.True(t, apperror.IsCode(err, apperror.CodeShiftNotOpen))

	shift, err := svc.OpenShift(ctx, 1, money("100"))
	require.NoError(t, err)

	p, err := svc.RecordCashMovement(ctx, CashMovementInput{
		Direction: entity.PayOut,
		Amount:    money("25"),
		Note:      "window cleaning",
	})
	require.NoError(t, err)
	require.NotNil(t, p.ShiftID)
	assert.Equal(t, shift.ID, *p.ShiftID)
	assert.Equal(t, entity.PayRefExpense, p.RefType)
	assert.Equal(t, entity.MethodCash, p.Method)
	require.Len(t, payments.appended, 1)
}

func TestRecordCashMovement_Invalid(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeAppender{}, passthroughTx{})
	ctx := context.Background()

	_, err := svc.RecordCashMovement(ctx, CashMovementInput{Direction: entity.PayIn, Amount: money("0")})
	require.Error(t, err)

	_, err = svc.RecordCashMovement(ctx, CashMovementInput{Direction: "sideways", Amount: money("5")})
	require.Error(t, err)
}
