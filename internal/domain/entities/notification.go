package entities

import "time"

type NotificationType string

const (
	NotificationQuotationPriced   NotificationType = "quotation.priced"
	NotificationQuotationSent     NotificationType = "quotation.sent"
	NotificationQuotationAccepted NotificationType = "quotation.accepted"
	NotificationQuotationRejected NotificationType = "quotation.rejected"
	NotificationQuotationExpired  NotificationType = "quotation.expired"
	NotificationNegotiation       NotificationType = "quotation.negotiation_requested"
	NotificationInfoRequired      NotificationType = "quotation.info_required"
)

// Notification is an event addressed to a single user.
type Notification struct {
	Type            NotificationType `json:"type"`
	UserID          string           `json:"user_id"`
	QuotationID     string           `json:"quotation_id"`
	QuotationNumber string           `json:"quotation_number"`
	Status          QuotationStatus  `json:"status"`
	Message         string           `json:"message"`
	CreatedAt       time.Time        `json:"created_at"`
}
