package sale

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/entity"
	"retailpos/internal/core/types"
	"retailpos/internal/domain"
	"retailpos/internal/domain/catalogs/customer"
	"retailpos/internal/domain/catalogs/variant"
	"retailpos/internal/domain/pricing"
	"retailpos/internal/domain/registers/stockledger"
	"retailpos/pkg/numerator"
)

func money(s string) types.Money { return types.MustMoney(s) }

// --- fakes ---

type fakeRepo struct {
	invoices map[int64]*Invoice
	items    map[int64][]*Item
	nextID   int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{invoices: map[int64]*Invoice{}, items: map[int64][]*Item{}}
}

func (f *fakeRepo) Create(_ context.Context, inv *Invoice) error {
	f.nextID++
	inv.ID = f.nextID
	f.invoices[inv.ID] = inv
	return nil
}

func (f *fakeRepo) SaveItems(_ context.Context, invoiceID int64, items []*Item) error {
	f.items[invoiceID] = items
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return nil, apperror.NewNotFound("sales invoice", id)
	}
	return inv, nil
}

func (f *fakeRepo) GetByNumber(_ context.Context, number string) (*Invoice, error) {
	for _, inv := range f.invoices {
		if inv.Number == number {
			return inv, nil
		}
	}
	return nil, apperror.NewNotFound("sales invoice", number)
}

func (f *fakeRepo) GetItems(_ context.Context, invoiceID int64) ([]*Item, error) {
	return f.items[invoiceID], nil
}

func (f *fakeRepo) AddReturnedQty(_ context.Context, itemID int64, qty int64) error {
	for _, items := range f.items {
		for _, item := range items {
			if item.ID == itemID {
				item.ReturnedQty += qty
				return nil
			}
		}
	}
	return apperror.NewNotFound("sales item", itemID)
}

func (f *fakeRepo) UpdateStatus(_ context.Context, invoiceID int64, status string) error {
	f.invoices[invoiceID].Status = entity.DocumentStatus(status)
	return nil
}

func (f *fakeRepo) List(context.Context, domain.ListFilter) (domain.ListResult[*Invoice], error) {
	return domain.ListResult[*Invoice]{}, nil
}

type fakeVariants struct {
	variant.Repository
	byID map[int64]*variant.Variant
}

func (f *fakeVariants) GetByID(_ context.Context, id int64) (*variant.Variant, error) {
	v, ok := f.byID[id]
	if !ok {
		return nil, apperror.NewNotFound("variant", id)
	}
	return v, nil
}

func (f *fakeVariants) UpdateCost(_ context.Context, id int64, cost types.Money) error {
	f.byID[id].CostPrice = cost
	return nil
}

type fakeCustomers struct {
	customer.Repository
	byID map[int64]*customer.Customer
}

func (f *fakeCustomers) GetByID(_ context.Context, id int64) (*customer.Customer, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, apperror.NewNotFound("customer", id)
	}
	return c, nil
}

func (f *fakeCustomers) GetForUpdate(ctx context.Context, id int64) (*customer.Customer, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeCustomers) AdjustBalance(_ context.Context, id int64, delta types.Money) error {
	f.byID[id].CurrentBalance = f.byID[id].CurrentBalance.Add(delta)
	return nil
}

type fakeStockRepo struct {
	moves   []*entity.StockMove
	failAt  int // fail on the Nth append call (1-based), 0 disables
	appends int
}

func (f *fakeStockRepo) Append(_ context.Context, moves ...*entity.StockMove) error {
	f.appends++
	if f.failAt > 0 && f.appends >= f.failAt {
		return apperror.NewDatabase(assert.AnError)
	}
	f.moves = append(f.moves, moves...)
	return nil
}

func (f *fakeStockRepo) SumQty(_ context.Context, variantID int64) (int64, error) {
	var sum int64
	for _, m := range f.moves {
		if m.VariantID == variantID {
			sum += m.QtyIn - m.QtyOut
		}
	}
	return sum, nil
}

func (f *fakeStockRepo) SumQtyBulk(ctx context.Context, ids []int64) (map[int64]int64, error) {
	out := map[int64]int64{}
	for _, id := range ids {
		out[id], _ = f.SumQty(ctx, id)
	}
	return out, nil
}

func (f *fakeStockRepo) SumQtyAsOf(ctx context.Context, variantID int64, _ time.Time) (int64, error) {
	return f.SumQty(ctx, variantID)
}

func (f *fakeStockRepo) History(context.Context, int64, stockledger.HistoryFilter) ([]*entity.StockMove, error) {
	return nil, nil
}

type fakePayments struct {
	rows []*entity.Payment
	fail bool
}

func (f *fakePayments) Append(_ context.Context, ps ...*entity.Payment) error {
	if f.fail {
		return apperror.NewDatabase(assert.AnError)
	}
	f.rows = append(f.rows, ps...)
	return nil
}

type fakeShifts struct{ open *int64 }

func (f *fakeShifts) OpenShiftID(context.Context) (*int64, error) { return f.open, nil }

type fakeTaxes struct {
	rate    types.Money
	enabled bool
}

func (f *fakeTaxes) TaxConfig(context.Context) (types.Money, bool, error) {
	return f.rate, f.enabled, nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// seqRow / seqQuerier back the numerator in tests.
type seqRow struct{ val int64 }

func (r *seqRow) Scan(dest ...any) error {
	if p, ok := dest[0].(*int64); ok {
		*p = r.val
	}
	return nil
}

type seqQuerier struct{ counters map[string]int64 }

func (q *seqQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	if q.counters == nil {
		q.counters = map[string]int64{}
	}
	key := args[0].(string)
	q.counters[key]++
	return &seqRow{val: q.counters[key]}
}

// --- fixture ---

type fixture struct {
	repo      *fakeRepo
	variants  *fakeVariants
	customers *fakeCustomers
	stockRepo *fakeStockRepo
	payments  *fakePayments
	shifts    *fakeShifts
	svc       *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v1 := variant.New(1, "SKU-1")
	v1.ID = 1
	v1.SalePrice = money("100")
	v1.CostPrice = money("60")
	v2 := variant.New(1, "SKU-2")
	v2.ID = 2
	v2.SalePrice = money("40")
	v2.CostPrice = money("25")

	c := customer.New("Ali")
	c.ID = 7

	f := &fixture{
		repo:      newFakeRepo(),
		variants:  &fakeVariants{byID: map[int64]*variant.Variant{1: v1, 2: v2}},
		customers: &fakeCustomers{byID: map[int64]*customer.Customer{7: c}},
		stockRepo: &fakeStockRepo{},
		payments:  &fakePayments{},
		shifts:    &fakeShifts{},
	}
	f.svc = NewService(
		f.repo,
		f.variants,
		f.customers,
		stockledger.NewService(f.stockRepo),
		f.payments,
		f.shifts,
		&fakeTaxes{rate: money("15"), enabled: false},
		numerator.NewStatic(&seqQuerier{}),
		passthroughTx{},
	)
	return f
}

// --- tests ---

func TestCreate_FullyPaidWalkIn(t *testing.T) {
	f := newFixture(t)
	shiftID := int64(3)
	f.shifts.open = &shiftID

	inv, err := f.svc.Create(context.Background(), CreateInput{
		Lines: []Line{
			{VariantID: 1, Qty: 2, UnitPrice: money("100")},
			{VariantID: 2, Qty: 1, UnitPrice: money("40")},
		},
		PaidAmount:    money("240"),
		PaymentMethod: entity.MethodCash,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(inv.Number, "INV-"))
	assert.Equal(t, entity.StatusCompleted, inv.Status)
	assert.Equal(t, entity.PaymentPaid, inv.PaymentStatus)
	assert.True(t, inv.Total.Equal(money("240")))

	// Items snapshot the variant cost at sale time.
	require.Len(t, inv.Items, 2)
	assert.True(t, inv.Items[0].UnitCostSnapshot.Equal(money("60")))

	// One stock-out move per line.
	require.Len(t, f.stockRepo.moves, 2)
	assert.Equal(t, int64(2), f.stockRepo.moves[0].QtyOut)
	assert.Equal(t, entity.MoveRefSale, f.stockRepo.moves[0].RefType)
	assert.Equal(t, inv.ID, f.stockRepo.moves[0].RefID)

	// Cash payment joined the open shift.
	require.Len(t, f.payments.rows, 1)
	p := f.payments.rows[0]
	assert.Equal(t, entity.PayIn, p.Direction)
	assert.Equal(t, entity.PayRefSale, p.RefType)
	require.NotNil(t, p.ShiftID)
	assert.Equal(t, shiftID, *p.ShiftID)
}

func TestCreate_OverpaymentRecordsSettledAmountOnly(t *testing.T) {
	f := newFixture(t)
	cid := int64(7)

	// 250 tendered against a 240 total: 10 goes back as change and
	// never enters the ledger.
	inv, err := f.svc.Create(context.Background(), CreateInput{
		Lines: []Line{
			{VariantID: 1, Qty: 2, UnitPrice: money("100")},
			{VariantID: 2, Qty: 1, UnitPrice: money("40")},
		},
		CustomerID:    &cid,
		PaidAmount:    money("250"),
		PaymentMethod: entity.MethodCash,
	})
	require.NoError(t, err)

	assert.True(t, inv.Total.Equal(money("240")))
	assert.True(t, inv.PaidAmount.Equal(money("240")), "paid clamps to total, got %s", inv.PaidAmount)
	assert.Equal(t, entity.PaymentPaid, inv.PaymentStatus)

	require.Len(t, f.payments.rows, 1)
	assert.True(t, f.payments.rows[0].Amount.Equal(money("240")))

	// A fully settled invoice leaves the customer balance untouched,
	// so the statement fold still lands exactly on the cached value.
	assert.True(t, f.customers.byID[7].CurrentBalance.IsZero())
}

func TestCreate_PartialPaymentCreatesDebt(t *testing.T) {
	f := newFixture(t)
	cid := int64(7)

	inv, err := f.svc.Create(context.Background(), CreateInput{
		Lines:         []Line{{VariantID: 1, Qty: 2, UnitPrice: money("100")}},
		CustomerID:    &cid,
		PaidAmount:    money("120"),
		PaymentMethod: entity.MethodCash,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PaymentPartial, inv.PaymentStatus)
	// Customer owes the remainder: 200 - 120 = 80.
	assert.True(t, f.customers.byID[7].CurrentBalance.Equal(money("80")))
}

func TestCreate_UnpaidCreditSale(t *testing.T) {
	f := newFixture(t)
	cid := int64(7)

	inv, err := f.svc.Create(context.Background(), CreateInput{
		Lines:      []Line{{VariantID: 1, Qty: 1, UnitPrice: money("100")}},
		CustomerID: &cid,
		PaidAmount: money("0"),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PaymentUnpaid, inv.PaymentStatus)
	assert.Empty(t, f.payments.rows, "no payment row for a zero payment")
	assert.True(t, f.customers.byID[7].CurrentBalance.Equal(money("100")))
}

func TestCreate_DiscountAndTax(t *testing.T) {
	f := newFixture(t)
	f.svc.taxes = &fakeTaxes{rate: money("15"), enabled: true}

	inv, err := f.svc.Create(context.Background(), CreateInput{
		Lines:         []Line{{VariantID: 1, Qty: 2, UnitPrice: money("100")}},
		DiscountMode:  pricing.DiscountPercent,
		DiscountValue: money("10"),
		PaidAmount:    money("207"),
	})
	require.NoError(t, err)

	assert.True(t, inv.DiscountAmount.Equal(money("20")))
	assert.True(t, inv.TaxAmount.Equal(money("27")))
	assert.True(t, inv.Total.Equal(money("207")))
	assert.Equal(t, entity.PaymentPaid, inv.PaymentStatus)
}

func TestCreate_EmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), CreateInput{})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeEmptyCart))
}

func TestCreate_UnknownVariantAborts(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateInput{
		Lines: []Line{{VariantID: 99, Qty: 1, UnitPrice: money("10")}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, f.stockRepo.moves, "no moves posted after a failed lookup")
	assert.Empty(t, f.payments.rows)
}

func TestCreate_PaymentFailureStopsBalanceWrite(t *testing.T) {
	f := newFixture(t)
	f.payments.fail = true
	cid := int64(7)

	_, err := f.svc.Create(context.Background(), CreateInput{
		Lines:      []Line{{VariantID: 1, Qty: 1, UnitPrice: money("100")}},
		CustomerID: &cid,
		PaidAmount: money("50"),
	})
	require.Error(t, err)
	// Steps after the failure never ran.
	assert.True(t, f.customers.byID[7].CurrentBalance.IsZero())
}

func TestCreate_NonCashSkipsShift(t *testing.T) {
	f := newFixture(t)
	shiftID := int64(3)
	f.shifts.open = &shiftID

	_, err := f.svc.Create(context.Background(), CreateInput{
		Lines:         []Line{{VariantID: 1, Qty: 1, UnitPrice: money("100")}},
		PaidAmount:    money("100"),
		PaymentMethod: entity.MethodCard,
	})
	require.NoError(t, err)
	require.Len(t, f.payments.rows, 1)
	assert.Nil(t, f.payments.rows[0].ShiftID)
}
