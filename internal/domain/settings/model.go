package settings

import (
	"context"

	"retailpos/internal/core/apperror"
	"retailpos/internal/core/entity"
)

// ValueType tags how a setting's raw string value should be read.
type ValueType string

const (
	TypeString  ValueType = "string"
	TypeNumber  ValueType = "number"
	TypeBoolean ValueType = "boolean"
	TypeJSON    ValueType = "json"
)

// Well-known setting keys.
const (
	KeyStoreName     = "storeName"
	KeyStorePhone    = "storePhone"
	KeyStoreAddress  = "storeAddress"
	KeyCurrency      = "currency"
	KeyTaxRate       = "taxRate"
	KeyTaxEnabled    = "taxEnabled"
	KeyReceiptFooter = "receiptFooter"
)

// Setting is one typed key/value pair of store configuration.
type Setting struct {
	entity.BaseEntity
	Key   string    `json:"key" db:"key"`
	Value string    `json:"value" db:"value"`
	Type  ValueType `json:"type" db:"type"`
}

func New(key, value string, typ ValueType) *Setting {
	return &Setting{
		BaseEntity: entity.NewBaseEntity(),
		Key:        key,
		Value:      value,
		Type:       typ,
	}
}

func (s *Setting) Validate(_ context.Context) error {
	if s.Key == "" {
		return apperror.NewValidation("setting key is required")
	}
	switch s.Type {
	case TypeString, TypeNumber, TypeBoolean, TypeJSON:
		return nil
	default:
		return apperror.NewValidation("invalid setting type").
			WithDetail("type", string(s.Type))
	}
}

// Defaults are seeded on first start and after a destructive import
// that left the table empty.
func Defaults() []*Setting {
	return []*Setting{
		New(KeyStoreName, "Hoor", TypeString),
		New(KeyCurrency, "SAR", TypeString),
		New(KeyTaxRate, "15", TypeNumber),
		New(KeyTaxEnabled, "true", TypeBoolean),
	}
}
