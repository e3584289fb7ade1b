package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vetcare/backend/internal/domain/billing"
	"github.com/vetcare/backend/internal/domain/clinic"
	"github.com/vetcare/backend/internal/domain/identity"
	"github.com/vetcare/backend/internal/domain/partner"
	"github.com/vetcare/backend/internal/domain/shared"
)

// InvoiceService handles invoice business operations
type InvoiceService struct {
	invoiceRepo    billing.InvoiceRepository
	animalRepo     clinic.AnimalRepository
	guardianRepo   partner.GuardianRepository
	eventPublisher shared.EventPublisher
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo billing.InvoiceRepository, animalRepo clinic.AnimalRepository, guardianRepo partner.GuardianRepository) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		animalRepo:   animalRepo,
		guardianRepo: guardianRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new invoice with its line items
func (s *InvoiceService) Create(ctx context.Context, hospitalID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	// Referenced animal and guardian must exist
	if _, err := s.animalRepo.FindByIDForHospital(ctx, hospitalID, req.AnimalID); err != nil {
		return nil, err
	}
	if _, err := s.guardianRepo.FindByIDForHospital(ctx, hospitalID, req.GuardianID); err != nil {
		return nil, err
	}

	invoiceNumber, err := s.invoiceRepo.GenerateInvoiceNumber(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	inv, err := billing.NewInvoice(hospitalID, invoiceNumber, req.AnimalID, req.GuardianID, req.DueDate)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		if _, err := inv.AddItem(item.Description, item.ProductID, item.Quantity, item.UnitPrice, item.DiscountRate, item.DiscountAmount); err != nil {
			return nil, err
		}
	}

	if req.Notes != "" {
		inv.Notes = req.Notes
	}
	if req.CreatedBy != nil {
		inv.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, inv)

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// GetByID retrieves an invoice, refreshing the OVERDUE status lazily
func (s *InvoiceService) GetByID(ctx context.Context, hospitalID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForHospital(ctx, hospitalID, invoiceID)
	if err != nil {
		return nil, err
	}

	if inv.RefreshOverdue(time.Now()) {
		// Best effort: a concurrent writer winning the version race just
		// means the next read refreshes again.
		_ = s.invoiceRepo.SaveWithLock(ctx, inv)
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, hospitalID uuid.UUID, filter InvoiceListFilter) ([]InvoiceListItemResponse, int64, error) {
	domainFilter := buildInvoiceFilter(filter)

	invoices, err := s.invoiceRepo.FindAllForHospital(ctx, hospitalID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.invoiceRepo.CountForHospital(ctx, hospitalID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	// Present overdue state without persisting it; the detail read persists.
	now := time.Now()
	for i := range invoices {
		invoices[i].RefreshOverdue(now)
	}

	return ToInvoiceListItemResponses(invoices), total, nil
}

// Update updates the restricted invoice fields (due date, notes, submit).
// Only ADMIN and VET roles may modify invoices.
func (s *InvoiceService) Update(ctx context.Context, hospitalID, invoiceID uuid.UUID, actorRole identity.Role, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	if !actorRole.CanManageBilling() {
		return nil, shared.NewDomainError("FORBIDDEN", "청구서를 수정할 권한이 없습니다")
	}

	inv, err := s.invoiceRepo.FindByIDForHospital(ctx, hospitalID, invoiceID)
	if err != nil {
		return nil, err
	}

	dueDate := inv.DueDate
	if req.DueDate != nil {
		dueDate = req.DueDate
	}
	notes := inv.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}
	if err := inv.UpdateDetails(dueDate, notes); err != nil {
		return nil, err
	}

	if req.Submit {
		if err := inv.Submit(); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// AddItem adds a line item to an invoice and recomputes its totals
func (s *InvoiceService) AddItem(ctx context.Context, hospitalID, invoiceID uuid.UUID, req InvoiceItemRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForHospital(ctx, hospitalID, invoiceID)
	if err != nil {
		return nil, err
	}

	if _, err := inv.AddItem(req.Description, req.ProductID, req.Quantity, req.UnitPrice, req.DiscountRate, req.DiscountAmount); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// UpdateItem updates a line item and recomputes the invoice totals
func (s *InvoiceService) UpdateItem(ctx context.Context, hospitalID, invoiceID, itemID uuid.UUID, req InvoiceItemRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForHospital(ctx, hospitalID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := inv.UpdateItem(itemID, req.Description, req.Quantity, req.UnitPrice, req.DiscountRate, req.DiscountAmount); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// RemoveItem removes a line item and recomputes the invoice totals
func (s *InvoiceService) RemoveItem(ctx context.Context, hospitalID, invoiceID, itemID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForHospital(ctx, hospitalID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := inv.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// Cancel cancels an invoice before any payment has been applied
func (s *InvoiceService) Cancel(ctx context.Context, hospitalID, invoiceID uuid.UUID, reason string) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForHospital(ctx, hospitalID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := inv.Cancel(reason); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// Delete removes an invoice. Invoices with applied payments cannot be deleted.
func (s *InvoiceService) Delete(ctx context.Context, hospitalID, invoiceID uuid.UUID, actorRole identity.Role) error {
	if !actorRole.CanManageBilling() {
		return shared.NewDomainError("FORBIDDEN", "청구서를 삭제할 권한이 없습니다")
	}

	inv, err := s.invoiceRepo.FindByIDForHospital(ctx, hospitalID, invoiceID)
	if err != nil {
		return err
	}

	if inv.HasPayments() {
		return shared.NewDomainError("HAS_PAYMENTS", "결제 내역이 있는 청구서는 삭제할 수 없습니다")
	}

	return s.invoiceRepo.DeleteForHospital(ctx, hospitalID, invoiceID)
}

func (s *InvoiceService) publishEvents(ctx context.Context, inv *billing.Invoice) {
	if s.eventPublisher == nil {
		return
	}
	events := inv.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	inv.ClearDomainEvents()
}

func buildInvoiceFilter(filter InvoiceListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.AnimalID != nil {
		domainFilter.Filters["animal_id"] = *filter.AnimalID
	}
	if filter.GuardianID != nil {
		domainFilter.Filters["guardian_id"] = *filter.GuardianID
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	return domainFilter
}
