package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"retailpos/internal/domain/catalogs/variant"
)

type embedded struct {
	Inner string `db:"inner"`
}

type sample struct {
	embedded
	Name    string `db:"name"`
	Skipped string `db:"-"`
	NoTag   string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[sample]()
	assert.Equal(t, []string{"inner", "name"}, cols)
}

func TestExtractDBColumns_Entity(t *testing.T) {
	cols := ExtractDBColumns[variant.Variant]()
	assert.Contains(t, cols, "id")
	assert.Contains(t, cols, "sku")
	assert.Contains(t, cols, "sale_price")
	assert.NotContains(t, cols, "-")
}

func TestStructToMap(t *testing.T) {
	s := sample{embedded: embedded{Inner: "i"}, Name: "n", Skipped: "x", NoTag: "y"}
	m := StructToMap(s)
	assert.Equal(t, map[string]any{"inner": "i", "name": "n"}, m)

	// Pointers work too.
	m = StructToMap(&s)
	assert.Equal(t, "n", m["name"])
}

func TestStructToMap_EmbeddedBase(t *testing.T) {
	v := variant.New(1, "SKU-1")
	v.ID = 42
	m := StructToMap(v)
	assert.Equal(t, int64(42), m["id"])
	assert.Equal(t, "SKU-1", m["sku"])
	_, hasVersion := m["version"]
	assert.True(t, hasVersion)
}
