package procurement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetcare/backend/internal/domain/shared"
	"github.com/vetcare/backend/internal/domain/shared/valueobject"
)

// TaxRate is the fixed purchase tax rate (10%)
var TaxRate = decimal.NewFromFloat(0.10)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusPending   PurchaseOrderStatus = "PENDING"
	PurchaseOrderStatusApproved  PurchaseOrderStatus = "APPROVED"
	PurchaseOrderStatusOrdered   PurchaseOrderStatus = "ORDERED"
	PurchaseOrderStatusPartial   PurchaseOrderStatus = "PARTIAL"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusPending, PurchaseOrderStatusApproved,
		PurchaseOrderStatusOrdered, PurchaseOrderStatusPartial, PurchaseOrderStatusReceived,
		PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusPending || target == PurchaseOrderStatusApproved || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusPending:
		return target == PurchaseOrderStatusApproved || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusApproved:
		return target == PurchaseOrderStatusOrdered || target == PurchaseOrderStatusPartial ||
			target == PurchaseOrderStatusReceived || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusOrdered:
		return target == PurchaseOrderStatusPartial || target == PurchaseOrderStatusReceived || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusPartial:
		return target == PurchaseOrderStatusPartial || target == PurchaseOrderStatusReceived
	case PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// CanReceive returns true if receiving goods is allowed in this status
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusApproved || s == PurchaseOrderStatusOrdered || s == PurchaseOrderStatusPartial
}

// PurchaseOrderItem represents a line item in a purchase order
type PurchaseOrderItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	OrderedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Monotonically non-decreasing
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null"` // OrderedQuantity * UnitPrice
	LotNumber        string          `gorm:"type:varchar(50)"`            // Captured at receipt time
	ExpirationDate   *time.Time
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// NewPurchaseOrderItem creates a new purchase order item
func NewPurchaseOrderItem(orderID, productID uuid.UUID, productName string, quantity decimal.Decimal, unitPrice valueobject.Money) (*PurchaseOrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "수량은 0보다 커야 합니다")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "단가는 음수일 수 없습니다")
	}

	now := time.Now()
	return &PurchaseOrderItem{
		ID:               uuid.New(),
		OrderID:          orderID,
		ProductID:        productID,
		ProductName:      productName,
		OrderedQuantity:  quantity,
		ReceivedQuantity: decimal.Zero,
		UnitPrice:        unitPrice.Amount(),
		Amount:           quantity.Mul(unitPrice.Amount()),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// RemainingQuantity returns the quantity still to be received
func (i *PurchaseOrderItem) RemainingQuantity() decimal.Decimal {
	remaining := i.OrderedQuantity.Sub(i.ReceivedQuantity)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsFullyReceived returns true if all ordered quantity has been received
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQuantity.GreaterThanOrEqual(i.OrderedQuantity)
}

// AddReceivedQuantity adds to the received quantity.
// A receipt exceeding the remaining quantity is rejected.
func (i *PurchaseOrderItem) AddReceivedQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "입고 수량은 0보다 커야 합니다")
	}

	newReceived := i.ReceivedQuantity.Add(quantity)
	if newReceived.GreaterThan(i.OrderedQuantity) {
		return shared.NewDomainError("QUANTITY_EXCEEDED",
			fmt.Sprintf("입고 수량이 잔여 발주 수량을 초과합니다 (잔여: %s)", i.RemainingQuantity().String()))
	}

	i.ReceivedQuantity = newReceived
	i.UpdatedAt = time.Now()

	return nil
}

// CaptureLot records the lot number and expiration date at receipt time
func (i *PurchaseOrderItem) CaptureLot(lotNumber string, expirationDate *time.Time) {
	if lotNumber != "" {
		i.LotNumber = lotNumber
	}
	if expirationDate != nil {
		i.ExpirationDate = expirationDate
	}
	i.UpdatedAt = time.Now()
}

// ReceiveItem represents a single line being received in a receiving operation
type ReceiveItem struct {
	ProductID      uuid.UUID       `json:"product_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	LotNumber      string          `json:"lot_number,omitempty"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
}

// ReceivedItemInfo describes a line actually received, for ledger posting and events
type ReceivedItemInfo struct {
	ItemID         uuid.UUID       `json:"item_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	LotNumber      string          `json:"lot_number,omitempty"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
}

// PurchaseOrder represents a purchase order aggregate root.
// It tracks a supplier order from draft through approval and receiving.
type PurchaseOrder struct {
	shared.HospitalAggregateRoot
	OrderNumber  string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchase_order_hospital_number,priority:2"`
	SupplierID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	SupplierName string              `gorm:"type:varchar(200);not null"`
	Items        []PurchaseOrderItem `gorm:"foreignKey:OrderID;references:ID"`
	Subtotal     decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount    decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"` // Subtotal * 10%
	TotalAmount  decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"` // Subtotal + TaxAmount
	Status       PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	ExpectedDate *time.Time          `gorm:"index"`
	ApprovedBy   *uuid.UUID          `gorm:"type:uuid"`
	ApprovedAt   *time.Time
	ReceivedAt   *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
	Notes        string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in DRAFT status
func NewPurchaseOrder(hospitalID uuid.UUID, orderNumber string, supplierID uuid.UUID, supplierName string, expectedDate *time.Time) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}

	order := &PurchaseOrder{
		HospitalAggregateRoot: shared.NewHospitalAggregateRoot(hospitalID),
		OrderNumber:           orderNumber,
		SupplierID:            supplierID,
		SupplierName:          supplierName,
		Items:                 make([]PurchaseOrderItem, 0),
		Subtotal:              decimal.Zero,
		TaxAmount:             decimal.Zero,
		TotalAmount:           decimal.Zero,
		Status:                PurchaseOrderStatusDraft,
		ExpectedDate:          expectedDate,
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a new item to the order. Only allowed in DRAFT status.
func (o *PurchaseOrder) AddItem(productID uuid.UUID, productName string, quantity decimal.Decimal, unitPrice valueobject.Money) (*PurchaseOrderItem, error) {
	if o.Status != PurchaseOrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft order")
	}

	for _, item := range o.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order, update quantity instead")
		}
	}

	item, err := NewPurchaseOrderItem(o.ID, productID, productName, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItemQuantity updates the ordered quantity of an existing item.
// Only allowed in DRAFT status.
func (o *PurchaseOrder) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a non-draft order")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "수량은 0보다 커야 합니다")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			o.Items[idx].OrderedQuantity = quantity
			o.Items[idx].Amount = quantity.Mul(o.Items[idx].UnitPrice)
			o.Items[idx].UpdatedAt = time.Now()
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "발주 항목을 찾을 수 없습니다")
}

// RemoveItem removes an item from the order. Only allowed in DRAFT status.
func (o *PurchaseOrder) RemoveItem(itemID uuid.UUID) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft order")
	}

	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "발주 항목을 찾을 수 없습니다")
}

// Submit transitions the order from DRAFT to PENDING for approval
func (o *PurchaseOrder) Submit() error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "발주 항목이 없는 발주서는 제출할 수 없습니다")
	}

	o.Status = PurchaseOrderStatusPending
	o.UpdatedAt = time.Now()

	return nil
}

// Approve approves the order. Allowed only from PENDING.
func (o *PurchaseOrder) Approve(approvedBy uuid.UUID) error {
	if o.Status != PurchaseOrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve order in %s status", o.Status))
	}
	if approvedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_APPROVER", "Approver ID cannot be empty")
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "발주 항목이 없는 발주서는 승인할 수 없습니다")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusApproved
	o.ApprovedBy = &approvedBy
	o.ApprovedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewPurchaseOrderApprovedEvent(o))

	return nil
}

// MarkOrdered marks the order as sent to the supplier. Allowed only from APPROVED.
func (o *PurchaseOrder) MarkOrdered() error {
	if o.Status != PurchaseOrderStatusApproved {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark order in %s status as ordered", o.Status))
	}

	o.Status = PurchaseOrderStatusOrdered
	o.UpdatedAt = time.Now()

	return nil
}

// Receive processes receipt of goods for one or more lines.
// Allowed only from APPROVED, ORDERED or PARTIAL. The order becomes
// RECEIVED when every item is fully received, PARTIAL otherwise.
func (o *PurchaseOrder) Receive(receiveItems []ReceiveItem) ([]ReceivedItemInfo, error) {
	if !o.Status.CanReceive() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("입고할 수 없는 발주 상태입니다 (상태: %s)", o.Status))
	}
	if len(receiveItems) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "입고할 항목이 없습니다")
	}

	receivedInfos := make([]ReceivedItemInfo, 0, len(receiveItems))

	for _, ri := range receiveItems {
		if ri.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("입고 수량은 0보다 커야 합니다 (상품: %s)", ri.ProductID))
		}

		var found bool
		for idx := range o.Items {
			if o.Items[idx].ProductID == ri.ProductID {
				if err := o.Items[idx].AddReceivedQuantity(ri.Quantity); err != nil {
					return nil, err
				}
				o.Items[idx].CaptureLot(ri.LotNumber, ri.ExpirationDate)

				receivedInfos = append(receivedInfos, ReceivedItemInfo{
					ItemID:         o.Items[idx].ID,
					ProductID:      ri.ProductID,
					ProductName:    o.Items[idx].ProductName,
					Quantity:       ri.Quantity,
					UnitPrice:      o.Items[idx].UnitPrice,
					LotNumber:      ri.LotNumber,
					ExpirationDate: ri.ExpirationDate,
				})

				found = true
				break
			}
		}

		if !found {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("발주서에 없는 상품입니다 (상품: %s)", ri.ProductID))
		}
	}

	if o.isAllItemsReceived() {
		now := time.Now()
		o.Status = PurchaseOrderStatusReceived
		o.ReceivedAt = &now
	} else {
		o.Status = PurchaseOrderStatusPartial
	}

	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o, receivedInfos))

	return receivedInfos, nil
}

// Cancel cancels the order. Disallowed once goods have been received.
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("취소할 수 없는 발주 상태입니다 (상태: %s)", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "취소 사유를 입력해야 합니다")
	}
	if o.hasReceivedAnyGoods() {
		return shared.NewDomainError("ALREADY_RECEIVED", "입고가 시작된 발주서는 취소할 수 없습니다")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now

	o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o))

	return nil
}

// SetNotes sets the order notes
func (o *PurchaseOrder) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
}

// recalculateTotals recomputes subtotal, tax and total from the items
func (o *PurchaseOrder) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Amount)
	}
	o.Subtotal = subtotal
	o.TaxAmount = subtotal.Mul(TaxRate)
	o.TotalAmount = o.Subtotal.Add(o.TaxAmount)
}

// isAllItemsReceived checks if all items have been fully received
func (o *PurchaseOrder) isAllItemsReceived() bool {
	for _, item := range o.Items {
		if !item.IsFullyReceived() {
			return false
		}
	}
	return len(o.Items) > 0
}

// hasReceivedAnyGoods checks if any goods have been received
func (o *PurchaseOrder) hasReceivedAnyGoods() bool {
	for _, item := range o.Items {
		if item.ReceivedQuantity.GreaterThan(decimal.Zero) {
			return true
		}
	}
	return false
}

// GetTotalAmountMoney returns the total amount as Money
func (o *PurchaseOrder) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyKRW(o.TotalAmount)
}
