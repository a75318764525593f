package response

import (
	"cargo_quotes/internal/domain/entities"
	"cargo_quotes/internal/usecase/interfaces"
	"time"

	"github.com/shopspring/decimal"
)

type LineItemResponse struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Amount      string `json:"amount"`
	Category    string `json:"category,omitempty"`
}

type StatusHistoryResponse struct {
	Status    string    `json:"status"`
	ChangedBy *string   `json:"changed_by"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// QuotationResponse renders money as fixed two-decimal strings.
type QuotationResponse struct {
	ID                    string                  `json:"id"`
	QuotationNumber       string                  `json:"quotation_number"`
	ClientID              string                  `json:"client_id"`
	ManagerID             string                  `json:"manager_id,omitempty"`
	Origin                entities.Address        `json:"origin"`
	Destination           entities.Address        `json:"destination"`
	PickupAddress         *entities.Address       `json:"pickup_address,omitempty"`
	CargoType             string                  `json:"cargo_type"`
	ServiceType           string                  `json:"service_type"`
	HandoverMethod        string                  `json:"handover_method"`
	DropOffWarehouseID    string                  `json:"drop_off_warehouse_id,omitempty"`
	Items                 []LineItemResponse      `json:"items"`
	Subtotal              string                  `json:"subtotal"`
	TaxRate               string                  `json:"tax_rate"`
	Tax                   string                  `json:"tax"`
	Discount              string                  `json:"discount"`
	TotalAmount           string                  `json:"total_amount"`
	Currency              string                  `json:"currency"`
	IsApprovedByManager   bool                    `json:"is_approved_by_manager"`
	ManagerApprovedAt     *time.Time              `json:"manager_approved_at,omitempty"`
	IsAcceptedByClient    bool                    `json:"is_accepted_by_client"`
	ClientAcceptedAt      *time.Time              `json:"client_accepted_at,omitempty"`
	IsRejectedByClient    bool                    `json:"is_rejected_by_client"`
	ClientRejectedAt      *time.Time              `json:"client_rejected_at,omitempty"`
	ClientRejectionReason string                  `json:"client_rejection_reason,omitempty"`
	ValidUntil            *time.Time              `json:"valid_until,omitempty"`
	Status                string                  `json:"status"`
	StatusHistory         []StatusHistoryResponse `json:"status_history"`
	RevisionNumber        int                     `json:"revision_number"`
	PreviousRevisionID    string                  `json:"previous_revision_id,omitempty"`
	DocumentURL           string                  `json:"document_url,omitempty"`
	Version               int                     `json:"version"`
	CreatedBy             string                  `json:"created_by"`
	CreatedAt             time.Time               `json:"created_at"`
	UpdatedAt             time.Time               `json:"updated_at"`
}

type QuotationListResponse struct {
	Items      []QuotationResponse `json:"items"`
	NextCursor string              `json:"next_cursor,omitempty"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func FromQuotation(q entities.Quotation) QuotationResponse {
	items := make([]LineItemResponse, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, LineItemResponse{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   money(it.UnitPrice),
			Amount:      money(it.Amount),
			Category:    it.Category,
		})
	}
	history := make([]StatusHistoryResponse, 0, len(q.StatusHistory))
	for _, h := range q.StatusHistory {
		history = append(history, StatusHistoryResponse{
			Status:    string(h.Status),
			ChangedBy: h.ChangedBy,
			Reason:    h.Reason,
			Timestamp: h.Timestamp,
		})
	}
	return QuotationResponse{
		ID:                    q.ID,
		QuotationNumber:       q.QuotationNumber,
		ClientID:              q.ClientID,
		ManagerID:             q.ManagerID,
		Origin:                q.Origin,
		Destination:           q.Destination,
		PickupAddress:         q.PickupAddress,
		CargoType:             q.CargoType,
		ServiceType:           string(q.ServiceType),
		HandoverMethod:        string(q.HandoverMethod),
		DropOffWarehouseID:    q.DropOffWarehouseID,
		Items:                 items,
		Subtotal:              money(q.Subtotal),
		TaxRate:               q.TaxRate.String(),
		Tax:                   money(q.Tax),
		Discount:              money(q.Discount),
		TotalAmount:           money(q.TotalAmount),
		Currency:              string(q.Currency),
		IsApprovedByManager:   q.IsApprovedByManager,
		ManagerApprovedAt:     q.ManagerApprovedAt,
		IsAcceptedByClient:    q.IsAcceptedByClient,
		ClientAcceptedAt:      q.ClientAcceptedAt,
		IsRejectedByClient:    q.IsRejectedByClient,
		ClientRejectedAt:      q.ClientRejectedAt,
		ClientRejectionReason: q.ClientRejectionReason,
		ValidUntil:            q.ValidUntil,
		Status:                string(q.Status),
		StatusHistory:         history,
		RevisionNumber:        q.RevisionNumber,
		PreviousRevisionID:    q.PreviousRevisionID,
		DocumentURL:           q.DocumentURL,
		Version:               q.Version,
		CreatedBy:             q.CreatedBy,
		CreatedAt:             q.CreatedAt,
		UpdatedAt:             q.UpdatedAt,
	}
}

func FromQuotationPage(p interfaces.QuotationPage) QuotationListResponse {
	items := make([]QuotationResponse, 0, len(p.Items))
	for _, q := range p.Items {
		items = append(items, FromQuotation(q))
	}
	return QuotationListResponse{Items: items, NextCursor: p.NextCursor}
}
