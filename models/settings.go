package models

import "time"

// SettingsDocumentID is the key of the single settings row.
const SettingsDocumentID = "main"

// AdminSettings is the storefront switchboard shared by every instance
type AdminSettings struct {
	ID             string    `json:"id" gorm:"primaryKey;size:32"`
	ServiceActive  bool      `json:"service_active"`
	HiddenProducts []int     `json:"hidden_products" gorm:"serializer:json"`
	UpdatedBy      string    `json:"updated_by"`
	LastUpdated    time.Time `json:"last_updated"`
}
