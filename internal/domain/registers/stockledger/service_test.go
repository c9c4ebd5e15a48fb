package stockledger

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/entity"
	"retailpos/internal/core/types"
)

// fakeRepo keeps moves in memory and derives sums the same way the SQL
// implementation does.
type fakeRepo struct {
	moves []*entity.StockMove
}

func (f *fakeRepo) Append(_ context.Context, moves ...*entity.StockMove) error {
	f.moves = append(f.moves, moves...)
	return nil
}

func (f *fakeRepo) SumQty(_ context.Context, variantID int64) (int64, error) {
	var sum int64
	for _, m := range f.moves {
		if m.VariantID == variantID {
			sum += m.QtyIn - m.QtyOut
		}
	}
	return sum, nil
}

func (f *fakeRepo) SumQtyBulk(ctx context.Context, ids []int64) (map[int64]int64, error) {
	out := make(map[int64]int64)
	for _, id := range ids {
		sum, _ := f.SumQty(ctx, id)
		if sum != 0 {
			out[id] = sum
		}
	}
	return out, nil
}

func (f *fakeRepo) SumQtyAsOf(_ context.Context, variantID int64, t time.Time) (int64, error) {
	var sum int64
	for _, m := range f.moves {
		if m.VariantID == variantID && !m.Date.After(t) {
			sum += m.QtyIn - m.QtyOut
		}
	}
	return sum, nil
}

func (f *fakeRepo) History(_ context.Context, variantID int64, _ HistoryFilter) ([]*entity.StockMove, error) {
	var out []*entity.StockMove
	for _, m := range f.moves {
		if m.VariantID == variantID {
			out = append(out, m)
		}
	}
	return out, nil
}

func inMove(variantID, qty int64, cost string) *entity.StockMove {
	m := entity.NewStockMove()
	m.VariantID = variantID
	m.QtyIn = qty
	m.UnitCost = types.MustMoney(cost)
	m.RefType = entity.MoveRefPurchase
	m.RefID = 1
	return &m
}

func outMove(variantID, qty int64) *entity.StockMove {
	m := entity.NewStockMove()
	m.VariantID = variantID
	m.QtyOut = qty
	m.RefType = entity.MoveRefSale
	m.RefID = 1
	return &m
}

func TestPostMoves_DerivedStock(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.PostMoves(ctx, inMove(1, 10, "8"), outMove(1, 3), inMove(2, 5, "4")))

	stock, err := svc.GetStock(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stock)

	bulk, err := svc.GetStockBulk(ctx, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, int64(7), bulk[1])
	assert.Equal(t, int64(5), bulk[2])
	assert.Equal(t, int64(0), bulk[3], "variant without moves reports zero")
}

func TestPostMoves_OrderIndependence(t *testing.T) {
	// Replaying the same moves in any order yields the same total.
	base := []*entity.StockMove{
		inMove(1, 10, "8"),
		outMove(1, 4),
		inMove(1, 5, "11"),
		outMove(1, 2),
		outMove(1, 6),
		inMove(1, 1, "9"),
	}

	rng := rand.New(rand.NewSource(42))
	var want int64 = 10 - 4 + 5 - 2 - 6 + 1

	for trial := 0; trial < 10; trial++ {
		shuffled := make([]*entity.StockMove, len(base))
		copy(shuffled, base)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		repo := &fakeRepo{}
		svc := NewService(repo)
		require.NoError(t, svc.PostMoves(context.Background(), shuffled...))

		got, err := svc.GetStock(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, want, got, "trial %d", trial)
	}
}

func TestPostMoves_NegativeStockPermitted(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	// Oversell is a policy choice, not an error.
	require.NoError(t, svc.PostMoves(ctx, outMove(1, 5)))

	stock, err := svc.GetStock(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), stock)
}

func TestPostMoves_RejectsInvalid(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	both := entity.NewStockMove()
	both.VariantID = 1
	both.QtyIn = 2
	both.QtyOut = 3
	both.RefType = entity.MoveRefAdjustment

	err := svc.PostMoves(ctx, &both)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, repo.moves, "nothing appended on validation failure")
}

func TestStockAsOf(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	early := inMove(1, 10, "8")
	early.Date = time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	late := outMove(1, 4)
	late.Date = time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.PostMoves(ctx, early, late))

	asOf, err := svc.StockAsOf(ctx, 1, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(10), asOf)

	now, err := svc.GetStock(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(6), now)
}
