package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ServiceType string

const (
	ServiceTypeStandard ServiceType = "Standard"
	ServiceTypeExpress  ServiceType = "Express"
	ServiceTypeEconomy  ServiceType = "Economy"
	ServiceTypePriority ServiceType = "Priority"
)

func (s ServiceType) Valid() bool {
	switch s {
	case ServiceTypeStandard, ServiceTypeExpress, ServiceTypeEconomy, ServiceTypePriority:
		return true
	}
	return false
}

type HandoverMethod string

const (
	HandoverPickup  HandoverMethod = "PICKUP"
	HandoverDropOff HandoverMethod = "DROP_OFF"
)

func (h HandoverMethod) Valid() bool {
	return h == HandoverPickup || h == HandoverDropOff
}

type Currency string

var supportedCurrencies = map[Currency]struct{}{
	"USD": {}, "EUR": {}, "GBP": {}, "INR": {}, "AED": {}, "SGD": {}, "CNY": {}, "JPY": {},
}

func (c Currency) Valid() bool {
	_, ok := supportedCurrencies[c]
	return ok
}

const DefaultCurrency Currency = "USD"

// Address is a postal address used for pickups and warehouses.
type Address struct {
	Line1        string `json:"line1" dynamodbav:"line1"`
	Line2        string `json:"line2,omitempty" dynamodbav:"line2,omitempty"`
	City         string `json:"city" dynamodbav:"city"`
	State        string `json:"state,omitempty" dynamodbav:"state,omitempty"`
	PostalCode   string `json:"postal_code,omitempty" dynamodbav:"postal_code,omitempty"`
	Country      string `json:"country" dynamodbav:"country"`
	ContactName  string `json:"contact_name,omitempty" dynamodbav:"contact_name,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty" dynamodbav:"contact_phone,omitempty"`
}

func (a Address) IsZero() bool {
	return a == Address{}
}

// DropOffPlaceholder is the pickup address recorded for drop-off shipments. The
// carrier collects the cargo at the warehouse, so the warehouse address is used
// when known and the origin city otherwise.
func DropOffPlaceholder(origin Address, warehouse *Warehouse) Address {
	if warehouse != nil {
		a := warehouse.Address
		if a.ContactName == "" {
			a.ContactName = warehouse.Name
		}
		return a
	}
	return Address{
		Line1:   "Drop-off at warehouse",
		City:    origin.City,
		State:   origin.State,
		Country: origin.Country,
	}
}

type LineItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category,omitempty"`
}

// StatusHistoryEntry records one status change. ChangedBy is nil for system changes.
type StatusHistoryEntry struct {
	Status    QuotationStatus `json:"status"`
	ChangedBy *string         `json:"changed_by"`
	Reason    string          `json:"reason,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Quotation is a priced offer for a shipment request.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI status-index: status / created_at
//   - GSI client_id-index: client_id / created_at
//
// Version is bumped on every write and guards read-modify-write saves.
type Quotation struct {
	ID              string `json:"id"`
	QuotationNumber string `json:"quotation_number"`
	ClientID        string `json:"client_id"`
	ManagerID       string `json:"manager_id,omitempty"`

	Origin             Address        `json:"origin"`
	Destination        Address        `json:"destination"`
	PickupAddress      *Address       `json:"pickup_address,omitempty"`
	CargoType          string         `json:"cargo_type"`
	ServiceType        ServiceType    `json:"service_type"`
	HandoverMethod     HandoverMethod `json:"handover_method"`
	DropOffWarehouseID string         `json:"drop_off_warehouse_id,omitempty"`
	Items              []LineItem     `json:"items"`

	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Tax         decimal.Decimal `json:"tax"`
	Discount    decimal.Decimal `json:"discount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    Currency        `json:"currency"`

	IsApprovedByManager   bool       `json:"is_approved_by_manager"`
	ManagerApprovedAt     *time.Time `json:"manager_approved_at,omitempty"`
	IsAcceptedByClient    bool       `json:"is_accepted_by_client"`
	ClientAcceptedAt      *time.Time `json:"client_accepted_at,omitempty"`
	IsRejectedByClient    bool       `json:"is_rejected_by_client"`
	ClientRejectedAt      *time.Time `json:"client_rejected_at,omitempty"`
	ClientRejectionReason string     `json:"client_rejection_reason,omitempty"`

	ValidUntil *time.Time `json:"valid_until,omitempty"`

	Status        QuotationStatus      `json:"status"`
	StatusHistory []StatusHistoryEntry `json:"status_history"`

	RevisionNumber     int    `json:"revision_number"`
	PreviousRevisionID string `json:"previous_revision_id,omitempty"`
	DocumentURL        string `json:"document_url,omitempty"`

	Version   int       `json:"version"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewQuotationNumber builds a QT-YYYYMMDD-XXXXXX number from the creation date and a
// random suffix.
func NewQuotationNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("QT-%s-%s", now.UTC().Format("20060102"), suffix)
}

// Apply moves the quotation through action a and appends one history entry.
// The quotation is left untouched when a is not allowed from the current status.
func (q *Quotation) Apply(a QuotationAction, actor *string, reason string, now time.Time) error {
	if !q.Status.CanApply(a) {
		return fmt.Errorf("%w: cannot %s from %s", ErrInvalidStateTransition, a, q.Status)
	}
	q.setStatus(a.Target(), actor, reason, now)
	return nil
}

func (q *Quotation) setStatus(s QuotationStatus, actor *string, reason string, now time.Time) {
	q.Status = s
	q.StatusHistory = append(q.StatusHistory, StatusHistoryEntry{
		Status:    s,
		ChangedBy: actor,
		Reason:    reason,
		Timestamp: now,
	})
	q.UpdatedAt = now
}

// Requote opens the next revision of a rejected or expired quotation. The
// receiver is not modified; the copy keeps the request and the line items,
// links back through PreviousRevisionID and waits for approval again.
func (q Quotation) Requote(actor *string, now time.Time) (Quotation, error) {
	if !q.Status.CanRequote() {
		return Quotation{}, fmt.Errorf("%w: cannot requote from %s", ErrInvalidStateTransition, q.Status)
	}
	next := q.Clone()
	next.ID = uuid.NewString()
	next.QuotationNumber = NewQuotationNumber(now)
	next.PreviousRevisionID = q.ID
	next.RevisionNumber = q.RevisionNumber + 1

	next.IsApprovedByManager = false
	next.ManagerApprovedAt = nil
	next.IsAcceptedByClient = false
	next.ClientAcceptedAt = nil
	next.IsRejectedByClient = false
	next.ClientRejectedAt = nil
	next.ClientRejectionReason = ""
	next.ValidUntil = nil
	next.DocumentURL = ""

	next.StatusHistory = []StatusHistoryEntry{}
	next.Version = 0
	next.CreatedAt = now
	next.setStatus(QuotationStatusCostCalculated, actor, "Re-quoted from "+q.QuotationNumber, now)
	return next, nil
}

// IsPastValidity reports whether the validity window closed before now.
func (q *Quotation) IsPastValidity(now time.Time) bool {
	return q.ValidUntil != nil && q.ValidUntil.Before(now)
}

// Clone returns a deep copy, so callers can mutate it without touching the original.
func (q Quotation) Clone() Quotation {
	c := q
	if q.PickupAddress != nil {
		a := *q.PickupAddress
		c.PickupAddress = &a
	}
	c.Items = append([]LineItem(nil), q.Items...)
	c.StatusHistory = make([]StatusHistoryEntry, len(q.StatusHistory))
	for i, h := range q.StatusHistory {
		c.StatusHistory[i] = h
		if h.ChangedBy != nil {
			by := *h.ChangedBy
			c.StatusHistory[i].ChangedBy = &by
		}
	}
	c.ManagerApprovedAt = cloneTime(q.ManagerApprovedAt)
	c.ClientAcceptedAt = cloneTime(q.ClientAcceptedAt)
	c.ClientRejectedAt = cloneTime(q.ClientRejectedAt)
	c.ValidUntil = cloneTime(q.ValidUntil)
	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
