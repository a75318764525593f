package entities

import (
	"errors"
	"strings"
)

// QuotationStatus is the canonical lifecycle status of a quotation.
//
// Two vocabularies exist in stored data. The canonical one is the pricing-flow
// vocabulary (request_sent, cost_calculated, Approved, Sent, ...) plus the intake
// states (DRAFT, PENDING_REVIEW, ...). Legacy names from the document-flow
// vocabulary are mapped through ParseStatus.
type QuotationStatus string

const (
	QuotationStatusDraft                QuotationStatus = "DRAFT"
	QuotationStatusPendingReview        QuotationStatus = "PENDING_REVIEW"
	QuotationStatusInfoRequired         QuotationStatus = "INFO_REQUIRED"
	QuotationStatusVerified             QuotationStatus = "VERIFIED"
	QuotationStatusAddressProvided      QuotationStatus = "ADDRESS_PROVIDED"
	QuotationStatusRequestSent          QuotationStatus = "request_sent"
	QuotationStatusCostCalculated       QuotationStatus = "cost_calculated"
	QuotationStatusApproved             QuotationStatus = "Approved"
	QuotationStatusSent                 QuotationStatus = "Sent"
	QuotationStatusNegotiationRequested QuotationStatus = "NEGOTIATION_REQUESTED"
	QuotationStatusAccepted             QuotationStatus = "Accepted"
	QuotationStatusRejected             QuotationStatus = "Rejected"
	QuotationStatusExpired              QuotationStatus = "EXPIRED"
	QuotationStatusBooked               QuotationStatus = "BOOKED"
)

// LegacyQuotationStatusSent is the document-flow name for Sent. The expiry sweep
// still matches it so records written before normalisation are not missed.
const LegacyQuotationStatusSent QuotationStatus = "QUOTATION_SENT"

var (
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrUnknownStatus          = errors.New("unknown quotation status")
)

var canonicalStatuses = map[QuotationStatus]struct{}{
	QuotationStatusDraft:                {},
	QuotationStatusPendingReview:        {},
	QuotationStatusInfoRequired:         {},
	QuotationStatusVerified:             {},
	QuotationStatusAddressProvided:      {},
	QuotationStatusRequestSent:          {},
	QuotationStatusCostCalculated:       {},
	QuotationStatusApproved:             {},
	QuotationStatusSent:                 {},
	QuotationStatusNegotiationRequested: {},
	QuotationStatusAccepted:             {},
	QuotationStatusRejected:             {},
	QuotationStatusExpired:              {},
	QuotationStatusBooked:               {},
}

var legacyStatusAliases = map[string]QuotationStatus{
	"QUOTATION_GENERATED": QuotationStatusApproved,
	"QUOTATION_SENT":      QuotationStatusSent,
	"ACCEPTED":            QuotationStatusAccepted,
	"REJECTED":            QuotationStatusRejected,
}

// ParseStatus resolves a raw status (canonical or legacy) to its canonical value.
func ParseStatus(raw string) (QuotationStatus, error) {
	raw = strings.TrimSpace(raw)
	if s := QuotationStatus(raw); isCanonical(s) {
		return s, nil
	}
	if s, ok := legacyStatusAliases[raw]; ok {
		return s, nil
	}
	return "", ErrUnknownStatus
}

func isCanonical(s QuotationStatus) bool {
	_, ok := canonicalStatuses[s]
	return ok
}

// IsTerminal reports whether no workflow operation may leave s.
func (s QuotationStatus) IsTerminal() bool {
	switch s {
	case QuotationStatusAccepted, QuotationStatusRejected, QuotationStatusExpired, QuotationStatusBooked:
		return true
	}
	return false
}

// CanRequote reports whether a new revision may be opened from s.
func (s QuotationStatus) CanRequote() bool {
	return s == QuotationStatusRejected || s == QuotationStatusExpired
}

// QuotationAction names an operation of the quotation workflow.
type QuotationAction string

const (
	ActionSubmit             QuotationAction = "submit"
	ActionRequestInfo        QuotationAction = "request_info"
	ActionVerify             QuotationAction = "verify"
	ActionUpdatePrice        QuotationAction = "update_price"
	ActionApprove            QuotationAction = "approve"
	ActionSend               QuotationAction = "send"
	ActionRequestNegotiation QuotationAction = "request_negotiation"
	ActionAccept             QuotationAction = "accept"
	ActionReject             QuotationAction = "reject"
	ActionProvideAddress     QuotationAction = "provide_address"
	ActionExpire             QuotationAction = "expire"
)

type actionRule struct {
	from           []QuotationStatus
	anyNonTerminal bool
	to             QuotationStatus
}

var actionRules = map[QuotationAction]actionRule{
	ActionSubmit:             {from: []QuotationStatus{QuotationStatusDraft}, to: QuotationStatusPendingReview},
	ActionRequestInfo:        {from: []QuotationStatus{QuotationStatusPendingReview}, to: QuotationStatusInfoRequired},
	ActionVerify:             {from: []QuotationStatus{QuotationStatusPendingReview, QuotationStatusInfoRequired}, to: QuotationStatusVerified},
	ActionUpdatePrice:        {anyNonTerminal: true, to: QuotationStatusCostCalculated},
	ActionApprove:            {from: []QuotationStatus{QuotationStatusCostCalculated}, to: QuotationStatusApproved},
	ActionSend:               {from: []QuotationStatus{QuotationStatusApproved}, to: QuotationStatusSent},
	ActionRequestNegotiation: {from: []QuotationStatus{QuotationStatusSent}, to: QuotationStatusNegotiationRequested},
	ActionAccept:             {from: []QuotationStatus{QuotationStatusSent}, to: QuotationStatusAccepted},
	ActionReject:             {from: []QuotationStatus{QuotationStatusSent}, to: QuotationStatusRejected},
	ActionProvideAddress:     {from: []QuotationStatus{QuotationStatusVerified, QuotationStatusApproved}, to: QuotationStatusAddressProvided},
	ActionExpire:             {from: []QuotationStatus{QuotationStatusSent}, to: QuotationStatusExpired},
}

// CanApply reports whether action a is allowed from status s.
func (s QuotationStatus) CanApply(a QuotationAction) bool {
	rule, ok := actionRules[a]
	if !ok {
		return false
	}
	if rule.anyNonTerminal {
		return !s.IsTerminal()
	}
	for _, from := range rule.from {
		if s == from {
			return true
		}
	}
	return false
}

// Target returns the status an action moves a quotation to.
func (a QuotationAction) Target() QuotationStatus {
	return actionRules[a].to
}
