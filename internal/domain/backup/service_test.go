package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpos/internal/core/apperror"
)

type fakeStore struct {
	tables  map[string][]json.RawMessage
	failOn  string
	deletes []string
	inserts []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{tables: map[string][]json.RawMessage{}}
}

func (f *fakeStore) DumpTable(_ context.Context, table string) ([]json.RawMessage, error) {
	return f.tables[table], nil
}

func (f *fakeStore) DeleteAll(_ context.Context, table string) error {
	f.deletes = append(f.deletes, table)
	f.tables[table] = nil
	return nil
}

func (f *fakeStore) InsertRows(_ context.Context, table string, rows []json.RawMessage) error {
	if table == f.failOn {
		return apperror.NewDatabase(assert.AnError)
	}
	f.inserts = append(f.inserts, table)
	f.tables[table] = append(f.tables[table], rows...)
	return nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func row(s string) json.RawMessage { return json.RawMessage(s) }

func TestExportImport_RoundTrip(t *testing.T) {
	src := newFakeStore()
	src.tables["brands"] = []json.RawMessage{row(`{"id":1,"name":"Nike"}`)}
	src.tables["variants"] = []json.RawMessage{
		row(`{"id":1,"sku":"SKU-1"}`),
		row(`{"id":2,"sku":"SKU-2"}`),
	}
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, NewService(src, passthroughTx{}).Export(ctx, &buf))

	dst := newFakeStore()
	dst.tables["brands"] = []json.RawMessage{row(`{"id":9,"name":"Stale"}`)}
	require.NoError(t, NewService(dst, passthroughTx{}).Import(ctx, &buf))

	assert.Equal(t, src.tables["variants"], dst.tables["variants"])
	require.Len(t, dst.tables["brands"], 1)
	assert.JSONEq(t, `{"id":1,"name":"Nike"}`, string(dst.tables["brands"][0]))
}

func TestExport_DocumentShape(t *testing.T) {
	store := newFakeStore()
	store.tables["customers"] = []json.RawMessage{row(`{"id":7}`)}

	var buf bytes.Buffer
	require.NoError(t, NewService(store, passthroughTx{}).Export(context.Background(), &buf))

	gz, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	var doc Document
	require.NoError(t, json.NewDecoder(gz).Decode(&doc))

	assert.Equal(t, 1, doc.Version)
	assert.False(t, doc.Date.IsZero())
	assert.Len(t, doc.Data, len(Tables), "every table appears even when empty")
	assert.Len(t, doc.Data["customers"], 1)
}

func TestImport_RejectsUnknownVersion(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	require.NoError(t, json.NewEncoder(gz).Encode(Document{Version: 2}))
	require.NoError(t, gz.Close())

	store := newFakeStore()
	store.tables["brands"] = []json.RawMessage{row(`{"id":1}`)}

	err := NewService(store, passthroughTx{}).Import(context.Background(), &buf)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeBackupVersion))
	assert.Len(t, store.tables["brands"], 1, "existing data untouched")
}

func TestImport_RejectsGarbage(t *testing.T) {
	err := NewService(newFakeStore(), passthroughTx{}).
		Import(context.Background(), bytes.NewReader([]byte("not gzip")))
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestImport_DeletesChildrenFirstRestoresParentsFirst(t *testing.T) {
	src := newFakeStore()
	src.tables["brands"] = []json.RawMessage{row(`{"id":1}`)}
	src.tables["models"] = []json.RawMessage{row(`{"id":1,"brandId":1}`)}

	var buf bytes.Buffer
	require.NoError(t, NewService(src, passthroughTx{}).Export(context.Background(), &buf))

	dst := newFakeStore()
	require.NoError(t, NewService(dst, passthroughTx{}).Import(context.Background(), &buf))

	idx := func(list []string, name string) int {
		for i, v := range list {
			if v == name {
				return i
			}
		}
		return -1
	}
	assert.Less(t, idx(dst.deletes, "models"), idx(dst.deletes, "brands"))
	assert.Less(t, idx(dst.inserts, "brands"), idx(dst.inserts, "models"))
}
