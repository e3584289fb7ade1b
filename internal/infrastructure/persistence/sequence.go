package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// documentSequence backs per-hospital, per-day document number allocation.
// One row per (hospital, document type, date).
type documentSequence struct {
	HospitalID uuid.UUID `gorm:"type:uuid;primaryKey"`
	DocType    string    `gorm:"type:varchar(10);primaryKey"`
	DateKey    string    `gorm:"type:varchar(8);primaryKey"`
	LastValue  int64     `gorm:"not null"`
}

func (documentSequence) TableName() string {
	return "document_sequences"
}

// nextDocumentNumber allocates the next number for a document type,
// formatted as PREFIX-YYYYMMDD-NNNN. The upsert increments the counter
// atomically, so concurrent allocations never observe a duplicate.
func nextDocumentNumber(ctx context.Context, db *gorm.DB, hospitalID uuid.UUID, prefix string) (string, error) {
	dateKey := time.Now().Format("20060102")

	var next int64
	err := db.WithContext(ctx).Raw(`
		INSERT INTO document_sequences (hospital_id, doc_type, date_key, last_value)
		VALUES (?, ?, ?, 1)
		ON CONFLICT (hospital_id, doc_type, date_key)
		DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`,
		hospitalID, prefix, dateKey,
	).Scan(&next).Error
	if err != nil {
		return "", fmt.Errorf("failed to allocate %s number: %w", prefix, err)
	}

	return fmt.Sprintf("%s-%s-%04d", prefix, dateKey, next), nil
}
