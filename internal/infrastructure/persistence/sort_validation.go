package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC.
// Returns "DESC" if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist.
// Returns defaultField if the input is empty or not whitelisted.
// Sort fields are interpolated into ORDER BY, so anything outside the
// whitelist must never reach the query.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields contains allowed sort fields for staff accounts
var UserSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"username":   true,
	"name":       true,
	"role":       true,
}

// GuardianSortFields contains allowed sort fields for guardians
var GuardianSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"phone":      true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
}

// AnimalSortFields contains allowed sort fields for animals
var AnimalSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"species":    true,
	"birth_date": true,
}

// AppointmentSortFields contains allowed sort fields for appointments
var AppointmentSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"scheduled_at": true,
	"status":       true,
}

// MedicalRecordSortFields contains allowed sort fields for medical records
var MedicalRecordSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"visited_at": true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"sku":        true,
	"name":       true,
	"category":   true,
	"sale_price": true,
}

// StockSortFields contains allowed sort fields for stock rows
var StockSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"quantity":        true,
	"lot_number":      true,
	"expiration_date": true,
}

// TransactionSortFields contains allowed sort fields for ledger entries
var TransactionSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"transaction_number": true,
	"transaction_date":   true,
	"type":               true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"total_amount":   true,
	"due_amount":     true,
	"status":         true,
	"due_date":       true,
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"payment_number": true,
	"amount":         true,
	"status":         true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"order_number":  true,
	"total_amount":  true,
	"status":        true,
	"expected_date": true,
}

// orderClause builds a validated ORDER BY clause
func orderClause(orderBy, orderDir string, allowed map[string]bool, defaultField string) string {
	field := ValidateSortField(orderBy, allowed, defaultField)
	return field + " " + ValidateSortOrder(orderDir)
}
