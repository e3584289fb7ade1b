package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/partner"
)

// CreateGuardianRequest is the input for registering a guardian
type CreateGuardianRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// UpdateGuardianRequest is the input for updating a guardian
type UpdateGuardianRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// GuardianListFilter is the filter input for listing guardians
type GuardianListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Active   *bool
}

// GuardianResponse is the API representation of a guardian
type GuardianResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateSupplierRequest is the input for registering a supplier
type CreateSupplierRequest struct {
	Name           string `json:"name"`
	BusinessNumber string `json:"business_number,omitempty"`
	ContactName    string `json:"contact_name,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	Address        string `json:"address,omitempty"`
}

// UpdateSupplierRequest is the input for updating a supplier
type UpdateSupplierRequest struct {
	Name           string `json:"name"`
	BusinessNumber string `json:"business_number,omitempty"`
	ContactName    string `json:"contact_name,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	Address        string `json:"address,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// SupplierListFilter is the filter input for listing suppliers
type SupplierListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Active   *bool
}

// SupplierResponse is the API representation of a supplier
type SupplierResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	BusinessNumber string    `json:"business_number,omitempty"`
	ContactName    string    `json:"contact_name,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Email          string    `json:"email,omitempty"`
	Address        string    `json:"address,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToGuardianResponse converts a guardian to its response representation
func ToGuardianResponse(g *partner.Guardian) GuardianResponse {
	return GuardianResponse{
		ID:        g.ID,
		Name:      g.Name,
		Phone:     g.Phone,
		Email:     g.Email,
		Address:   g.Address,
		Notes:     g.Notes,
		Active:    g.Active,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// ToGuardianResponses converts a slice of guardians
func ToGuardianResponses(guardians []partner.Guardian) []GuardianResponse {
	responses := make([]GuardianResponse, len(guardians))
	for i := range guardians {
		responses[i] = ToGuardianResponse(&guardians[i])
	}
	return responses
}

// ToSupplierResponse converts a supplier to its response representation
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:             s.ID,
		Name:           s.Name,
		BusinessNumber: s.BusinessNumber,
		ContactName:    s.ContactName,
		Phone:          s.Phone,
		Email:          s.Email,
		Address:        s.Address,
		Notes:          s.Notes,
		Active:         s.Active,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// ToSupplierResponses converts a slice of suppliers
func ToSupplierResponses(suppliers []partner.Supplier) []SupplierResponse {
	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses
}
