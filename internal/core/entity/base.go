package entity

import (
	"context"
	"time"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// SyncStatus is a reserved tag for a future multi-terminal sync protocol.
// Core logic never reads it; it is persisted and exported verbatim.
type SyncStatus string

const (
	SyncPending  SyncStatus = "pending"
	SyncSynced   SyncStatus = "synced"
	SyncConflict SyncStatus = "conflict"
)

///////////////////
// Base Entity   //
///////////////////

// BaseEntity contains common fields for all entities (catalogs, documents,
// ledger rows). The numeric ID is assigned by the store on insert (BIGSERIAL)
// and stable for the entity lifetime.
type BaseEntity struct {
	// ID is the primary key, zero until the row is inserted
	ID int64 `db:"id" json:"id"`

	// Version for optimistic locking (incremented on each update)
	Version int `db:"version" json:"version"`

	// Audit timestamps (UTC)
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// SyncStatus is reserved for a future sync protocol (unused by core logic)
	SyncStatus SyncStatus `db:"sync_status" json:"syncStatus,omitempty"`
}

// NewBaseEntity creates a new BaseEntity with timestamps set.
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
		SyncStatus: SyncPending,
	}
}

// Touch updates the UpdatedAt timestamp and increments the version.
func (b *BaseEntity) Touch() {
	b.Version++
	b.UpdatedAt = time.Now().UTC()
}

// SetVersion updates the version number (used by repository after load).
func (b *BaseEntity) SetVersion(v int) {
	b.Version = v
}

// GetID returns the entity's assigned ID, zero for unsaved entities.
func (b *BaseEntity) GetID() int64 {
	return b.ID
}

// SetID assigns the database-generated ID (used by repository after insert).
func (b *BaseEntity) SetID(id int64) {
	b.ID = id
}

// IsNew reports whether the entity has been persisted yet.
func (b *BaseEntity) IsNew() bool {
	return b.ID == 0
}

//////////////
// Catalogs //
//////////////

// BaseCatalog extends BaseEntity for reference data (brands, models, variants,
// customers, suppliers, users). Catalog entities are soft-deactivated, never
// hard-deleted while referenced by documents or ledger rows.
type BaseCatalog struct {
	BaseEntity

	// IsActive marks the entity as usable in new documents
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewBaseCatalog creates a new active BaseCatalog.
func NewBaseCatalog() BaseCatalog {
	return BaseCatalog{
		BaseEntity: NewBaseEntity(),
		IsActive:   true,
	}
}

// Deactivate marks the catalog entity inactive (soft delete).
func (c *BaseCatalog) Deactivate() {
	c.IsActive = false
	c.Touch()
}

// Activate clears the inactive mark.
func (c *BaseCatalog) Activate() {
	c.IsActive = true
	c.Touch()
}
