package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/types"
)

type fakeRepo struct {
	byKey  map[string]*Setting
	nextID int64
}

func newFakeRepo() *fakeRepo { return &fakeRepo{byKey: map[string]*Setting{}} }

func (f *fakeRepo) Get(_ context.Context, key string) (*Setting, error) {
	s, ok := f.byKey[key]
	if !ok {
		return nil, apperror.NewNotFound("setting", key)
	}
	return s, nil
}

func (f *fakeRepo) GetAll(_ context.Context) ([]*Setting, error) {
	out := make([]*Setting, 0, len(f.byKey))
	for _, s := range f.byKey {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeRepo) Upsert(_ context.Context, s *Setting) error {
	if prev, ok := f.byKey[s.Key]; ok {
		s.ID = prev.ID
	} else {
		f.nextID++
		s.ID = f.nextID
	}
	f.byKey[s.Key] = s
	return nil
}

func (f *fakeRepo) SeedDefaults(ctx context.Context, defaults []*Setting) error {
	for _, s := range defaults {
		if _, ok := f.byKey[s.Key]; !ok {
			if err := f.Upsert(ctx, s); err != nil {
				return err
			}
		}
	}
	return nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestEnsureDefaults(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, passthroughTx{})
	ctx := context.Background()

	require.NoError(t, svc.EnsureDefaults(ctx))

	name, err := svc.GetString(ctx, KeyStoreName, "")
	require.NoError(t, err)
	assert.Equal(t, "Hoor", name)

	rate, enabled, err := svc.TaxConfig(ctx)
	require.NoError(t, err)
	assert.True(t, rate.Equal(types.MustMoney("15")))
	assert.True(t, enabled)
}

func TestEnsureDefaults_KeepsExisting(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, passthroughTx{})
	ctx := context.Background()

	_, err := svc.Set(ctx, KeyTaxRate, "5", TypeNumber)
	require.NoError(t, err)

	require.NoError(t, svc.EnsureDefaults(ctx))

	rate, _, err := svc.TaxConfig(ctx)
	require.NoError(t, err)
	assert.True(t, rate.Equal(types.MustMoney("5")))
}

func TestTaxConfig_FallbacksOnMissing(t *testing.T) {
	svc := NewService(newFakeRepo(), passthroughTx{})

	rate, enabled, err := svc.TaxConfig(context.Background())
	require.NoError(t, err)
	assert.True(t, rate.Equal(DefaultTaxRate))
	assert.True(t, enabled)
}

func TestTaxConfig_GarbageValueFallsBack(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, passthroughTx{})
	ctx := context.Background()

	_, err := svc.Set(ctx, KeyTaxRate, "not-a-number", TypeNumber)
	require.NoError(t, err)
	_, err = svc.Set(ctx, KeyTaxEnabled, "false", TypeBoolean)
	require.NoError(t, err)

	rate, enabled, err := svc.TaxConfig(ctx)
	require.NoError(t, err)
	assert.True(t, rate.Equal(DefaultTaxRate))
	assert.False(t, enabled)
}

func TestSet_Validation(t *testing.T) {
	svc := NewService(newFakeRepo(), passthroughTx{})

	_, err := svc.Set(context.Background(), "", "x", TypeString)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.Set(context.Background(), "k", "x", ValueType("weird"))
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}
