package request

import (
	"cargo_quotes/internal/domain/entities"
	"cargo_quotes/internal/usecase"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type AddressRequest struct {
	Line1        string `json:"line1"`
	Line2        string `json:"line2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country" binding:"required"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
}

func (a AddressRequest) ToEntity() entities.Address {
	return entities.Address{
		Line1:        strings.TrimSpace(a.Line1),
		Line2:        strings.TrimSpace(a.Line2),
		City:         strings.TrimSpace(a.City),
		State:        strings.TrimSpace(a.State),
		PostalCode:   strings.TrimSpace(a.PostalCode),
		Country:      strings.TrimSpace(a.Country),
		ContactName:  strings.TrimSpace(a.ContactName),
		ContactPhone: strings.TrimSpace(a.ContactPhone),
	}
}

type LineItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Category    string          `json:"category"`
}

func toLineItems(in []LineItemRequest) []entities.LineItem {
	out := make([]entities.LineItem, 0, len(in))
	for _, it := range in {
		out = append(out, entities.LineItem{
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Category:    strings.TrimSpace(it.Category),
		})
	}
	return out
}

// CreateQuotationRequest is the shipment request submitted by a client, or by
// staff on behalf of ClientID.
type CreateQuotationRequest struct {
	ClientID           string            `json:"client_id"`
	Origin             AddressRequest    `json:"origin" binding:"required"`
	Destination        *AddressRequest   `json:"destination"`
	PickupAddress      *AddressRequest   `json:"pickup_address"`
	CargoType          string            `json:"cargo_type" binding:"required"`
	ServiceType        string            `json:"service_type" binding:"omitempty,service_type"`
	HandoverMethod     string            `json:"handover_method" binding:"omitempty,oneof=PICKUP DROP_OFF"`
	DropOffWarehouseID string            `json:"drop_off_warehouse_id"`
	Items              []LineItemRequest `json:"items" binding:"omitempty,dive"`
	TaxRate            decimal.Decimal   `json:"tax_rate"`
	Discount           decimal.Decimal   `json:"discount"`
	Currency           string            `json:"currency" binding:"omitempty,currency"`
	ValidUntil         *time.Time        `json:"valid_until"`
	Draft              bool              `json:"draft"`
}

func (r CreateQuotationRequest) ToInput() usecase.CreateQuotationInput {
	in := usecase.CreateQuotationInput{
		ClientID:           strings.TrimSpace(r.ClientID),
		Origin:             r.Origin.ToEntity(),
		CargoType:          r.CargoType,
		ServiceType:        entities.ServiceType(r.ServiceType),
		HandoverMethod:     entities.HandoverMethod(r.HandoverMethod),
		DropOffWarehouseID: strings.TrimSpace(r.DropOffWarehouseID),
		Items:              toLineItems(r.Items),
		TaxRate:            r.TaxRate,
		Discount:           r.Discount,
		Currency:           entities.Currency(strings.ToUpper(r.Currency)),
		ValidUntil:         r.ValidUntil,
		Draft:              r.Draft,
	}
	if r.Destination != nil {
		in.Destination = r.Destination.ToEntity()
	}
	if r.PickupAddress != nil {
		a := r.PickupAddress.ToEntity()
		in.PickupAddress = &a
	}
	return in
}

type UpdatePriceRequest struct {
	Items      []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	TaxRate    decimal.Decimal   `json:"tax_rate"`
	Discount   decimal.Decimal   `json:"discount"`
	Currency   string            `json:"currency" binding:"omitempty,currency"`
	ValidUntil *time.Time        `json:"valid_until"`
	Reason     string            `json:"reason"`
}

func (r UpdatePriceRequest) ToInput() usecase.UpdatePricingInput {
	return usecase.UpdatePricingInput{
		Items:      toLineItems(r.Items),
		TaxRate:    r.TaxRate,
		Discount:   r.Discount,
		Currency:   entities.Currency(strings.ToUpper(r.Currency)),
		ValidUntil: r.ValidUntil,
		Reason:     r.Reason,
	}
}

// ReasonRequest is the optional body of transitions that record a reason.
type ReasonRequest struct {
	Reason string `json:"reason"`
}

type ProvideAddressRequest struct {
	Destination AddressRequest `json:"destination" binding:"required"`
	WarehouseID string         `json:"warehouse_id"`
}

func (r ProvideAddressRequest) ToInput() usecase.ProvideAddressInput {
	return usecase.ProvideAddressInput{
		Destination: r.Destination.ToEntity(),
		WarehouseID: strings.TrimSpace(r.WarehouseID),
	}
}

type ListQuotationsQuery struct {
	Status   string `form:"status"`
	ClientID string `form:"client_id"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Cursor   string `form:"cursor"`
}

func (q ListQuotationsQuery) ToInput() usecase.ListQuotationsInput {
	return usecase.ListQuotationsInput{Status: q.Status, ClientID: q.ClientID, Limit: q.Limit, Cursor: q.Cursor}
}
