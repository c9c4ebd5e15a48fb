package variant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpos/internal/core/types"
)

func money(s string) types.Money { return types.MustMoney(s) }

type fakeRepo struct {
	Repository
	annotated []*Annotated
}

func (f *fakeRepo) ListAllAnnotated(context.Context) ([]*Annotated, error) {
	return f.annotated, nil
}

type fakeStock struct {
	stocks map[int64]int64
}

func (f *fakeStock) GetStockBulk(_ context.Context, ids []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(ids))
	for _, id := range ids {
		out[id] = f.stocks[id]
	}
	return out, nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func annotated(id int64, sku, modelName, brandName string, minStock int64) *Annotated {
	v := New(1, sku)
	v.ID = id
	v.MinStock = minStock
	v.SalePrice = money("100")
	return &Annotated{Variant: *v, ModelName: modelName, BrandName: brandName}
}

func TestListLowStock(t *testing.T) {
	repo := &fakeRepo{annotated: []*Annotated{
		annotated(1, "SKU-1", "Galaxy A15", "Samsung", 5),
		annotated(2, "SKU-2", "Galaxy A15", "Samsung", 5),
		annotated(3, "SKU-3", "Redmi 13", "Xiaomi", 3),
	}}
	stock := &fakeStock{stocks: map[int64]int64{1: 10, 2: 5, 3: 0}}
	svc := NewService(repo, nil, stock, nil, passthroughTx{})

	low, err := svc.ListLowStock(context.Background())
	require.NoError(t, err)

	// At-threshold counts as low; healthy stock does not.
	require.Len(t, low, 2)
	assert.Equal(t, "SKU-2", low[0].SKU)
	assert.Equal(t, int64(5), low[0].Stock)
	assert.Equal(t, "SKU-3", low[1].SKU)
	assert.Equal(t, int64(0), low[1].Stock)

	// Low stock rows carry parent names like search results do.
	for _, r := range low {
		assert.NotEmpty(t, r.ModelName, "sku %s", r.SKU)
		assert.NotEmpty(t, r.BrandName, "sku %s", r.SKU)
	}
}
