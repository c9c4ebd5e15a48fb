package purchase

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
	"retailpos/internal/domain/catalogs/supplier"
	"retailpos/internal/domain/catalogs/variant"
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
		return nil, apperror.NewNotFound("purchase invoice", id)
	}
	return inv, nil
}

func (f *fakeRepo) GetByNumber(_ context.Context, number string) (*Invoice, error) {
	for _, inv := range f.invoices {
		if inv.Number == number {
			return inv, nil
		}
	}
	return nil, apperror.NewNotFound("purchase invoice", number)
}

func (f *fakeRepo) GetItems(_ context.Context, invoiceID int64) ([]*Item, error) {
	return f.items[invoiceID], nil
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

type fakeSuppliers struct {
	supplier.Repository
	byID map[int64]*supplier.Supplier
}

func (f *fakeSuppliers) GetByID(_ context.Context, id int64) (*supplier.Supplier, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, apperror.NewNotFound("supplier", id)
	}
	return s, nil
}

func (f *fakeSuppliers) GetForUpdate(ctx context.Context, id int64) (*supplier.Supplier, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeSuppliers) AdjustBalance(_ context.Context, id int64, delta types.Money) error {
	f.byID[id].CurrentBalance = f.byID[id].CurrentBalance.Add(delta)
	return nil
}

type fakeStockRepo struct {
	moves []*entity.StockMove
}

func (f *fakeStockRepo) Append(_ context.Context, moves ...*entity.StockMove) error {
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

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

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
	suppliers *fakeSuppliers
	stockRepo *fakeStockRepo
	stock     *stockledger.Service
	svc       *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v := variant.New(1, "SKU-1")
	v.ID = 1
	v.CostPrice = money("8")

	sup := supplier.New("Acme")
	sup.ID = 3

	f := &fixture{
		repo:      newFakeRepo(),
		variants:  &fakeVariants{byID: map[int64]*variant.Variant{1: v}},
		suppliers: &fakeSuppliers{byID: map[int64]*supplier.Supplier{3: sup}},
		stockRepo: &fakeStockRepo{},
	}
	f.stock = stockledger.NewService(f.stockRepo)
	f.svc = NewService(f.repo, f.variants, f.suppliers, f.stock,
		numerator.NewStatic(&seqQuerier{}), passthroughTx{})
	return f
}

// --- tests ---

func TestWeightedAverageCost(t *testing.T) {
	// stock=10 at cost=8 receives 5 at 11: (10*8 + 5*11)/15 = 9.0
	got := WeightedAverageCost(money("8"), 15, money("11"), 5)
	assert.True(t, got.Equal(money("9")), "got %s", got)
}

func TestWeightedAverageCost_ZeroPriorStock(t *testing.T) {
	got := WeightedAverageCost(money("8"), 5, money("11"), 5)
	assert.True(t, got.Equal(money("11")), "received cost wins when prior stock is zero")
}

func TestWeightedAverageCost_NegativePriorStock(t *testing.T) {
	// Oversold variant (stock went negative before the receipt).
	got := WeightedAverageCost(money("8"), 2, money("11"), 5)
	assert.True(t, got.Equal(money("11")))
}

func TestCreate_ReceiptUpdatesStockCostAndBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Seed existing stock of 10 at cost 8.
	seed := entity.NewStockMove()
	seed.VariantID = 1
	seed.QtyIn = 10
	seed.UnitCost = money("8")
	seed.RefType = entity.MoveRefOpening
	seed.RefID = 1
	require.NoError(t, f.stock.PostMoves(ctx, &seed))

	inv, err := f.svc.Create(ctx, CreateInput{
		SupplierID: 3,
		Lines:      []Line{{VariantID: 1, Qty: 5, UnitCost: money("11")}},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(inv.Number, "PUR-"))
	assert.True(t, inv.Total.Equal(money("55")))

	stock, err := f.stock.GetStock(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(15), stock)

	// Weighted average: (10*8 + 5*11)/15 = 9.0
	assert.True(t, f.variants.byID[1].CostPrice.Equal(money("9")),
		"cost %s", f.variants.byID[1].CostPrice)

	// Purchases are fully on credit.
	assert.True(t, f.suppliers.byID[3].CurrentBalance.Equal(money("55")))
}

func TestCreate_SequentialCostRecompute(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Two lines of the same variant: the second recompute must see the
	// stock level left by the first.
	_, err := f.svc.Create(ctx, CreateInput{
		SupplierID: 3,
		Lines: []Line{
			{VariantID: 1, Qty: 10, UnitCost: money("8")},
			{VariantID: 1, Qty: 5, UnitCost: money("11")},
		},
	})
	require.NoError(t, err)

	// First line: empty stock, cost = 8. Second: (10*8 + 5*11)/15 = 9.
	assert.True(t, f.variants.byID[1].CostPrice.Equal(money("9")),
		"cost %s", f.variants.byID[1].CostPrice)

	stock, err := f.stock.GetStock(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(15), stock)
}

func TestCreate_EmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), CreateInput{SupplierID: 3})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeEmptyCart))
}

func TestCreate_UnknownSupplier(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), CreateInput{
		SupplierID: 99,
		Lines:      []Line{{VariantID: 1, Qty: 1, UnitCost: money("10")}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, f.stockRepo.moves)
}
