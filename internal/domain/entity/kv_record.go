package entity

import (
	"time"

	"gorm.io/datatypes"
)

// KVRecord is one durable key-value pair. Values are JSON documents.
type KVRecord struct {
	Key       string         `gorm:"primaryKey;size:191" json:"key"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null" json:"value"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName returns the table name for KVRecord
func (KVRecord) TableName() string {
	return "kv_records"
}
