package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"DESC uppercase returns DESC", "DESC", "DESC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE invoices;--", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		allowed      map[string]bool
		defaultField string
		expected     string
	}{
		{"empty string returns default", "", InvoiceSortFields, "created_at", "created_at"},
		{"valid field returns field", "invoice_number", InvoiceSortFields, "created_at", "invoice_number"},
		{"invalid field returns default", "secret_column", InvoiceSortFields, "created_at", "created_at"},
		{"sql injection attempt returns default", "id; DROP TABLE invoices;--", InvoiceSortFields, "created_at", "created_at"},
		{"case sensitive uppercase rejected", "STATUS", InvoiceSortFields, "created_at", "created_at"},
		{"whitespace around valid field returns field", "  due_date  ", InvoiceSortFields, "created_at", "due_date"},
		{"field with quotes injection returns default", "status'--", InvoiceSortFields, "created_at", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, tt.allowed, tt.defaultField))
		})
	}
}

func TestOrderClause(t *testing.T) {
	t.Run("combines validated field and direction", func(t *testing.T) {
		assert.Equal(t, "scheduled_at ASC", orderClause("scheduled_at", "asc", AppointmentSortFields, "scheduled_at"))
	})

	t.Run("falls back to default on bad input", func(t *testing.T) {
		assert.Equal(t, "created_at DESC", orderClause("evil; --", "sideways", CommonSortFields, "created_at"))
	})
}
