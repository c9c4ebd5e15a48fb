package dto

import "retailpos/internal/domain/settings"

// SetSettingRequest writes one setting.
type SetSettingRequest struct {
	Value string             `json:"value"`
	Type  settings.ValueType `json:"type" binding:"required"`
}

// SettingEntry is one key in a bulk write.
type SettingEntry struct {
	Key   string             `json:"key" binding:"required"`
	Value string             `json:"value"`
	Type  settings.ValueType `json:"type" binding:"required"`
}

// SetSettingsRequest writes several settings atomically.
type SetSettingsRequest struct {
	Settings []SettingEntry `json:"settings" binding:"required"`
}
