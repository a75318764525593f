package usecase

import (
	"cargo_quotes/internal/domain/entities"
	"cargo_quotes/internal/usecase/interfaces"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	maxSaveAttempts      = 3
	defaultListLimit     = 20
	maxListLimit         = 100
	defaultValidityDays  = 30
	priceUpdatedReason   = "Price updated"
	addressProvidedNotes = "Drop-off address provided"
)

type CreateQuotationInput struct {
	ClientID           string
	Origin             entities.Address
	Destination        entities.Address
	PickupAddress      *entities.Address
	CargoType          string
	ServiceType        entities.ServiceType
	HandoverMethod     entities.HandoverMethod
	DropOffWarehouseID string
	Items              []entities.LineItem
	TaxRate            decimal.Decimal
	Discount           decimal.Decimal
	Currency           entities.Currency
	ValidUntil         *time.Time
	Draft              bool
}

type UpdatePricingInput struct {
	Items      []entities.LineItem
	TaxRate    decimal.Decimal
	Discount   decimal.Decimal
	Currency   entities.Currency
	ValidUntil *time.Time
	Reason     string
}

type ProvideAddressInput struct {
	Destination entities.Address
	WarehouseID string
}

type ListQuotationsInput struct {
	Status   string
	ClientID string
	Limit    int
	Cursor   string
}

// IQuotationUseCase exposes the quotation lifecycle.
//
// Every operation that changes status appends exactly one history entry and
// fails with ErrInvalidStateTransition, leaving the record untouched, when the
// current status does not allow it.
type IQuotationUseCase interface {
	Create(ctx context.Context, sess entities.Session, in CreateQuotationInput) (entities.Quotation, error)
	GetByID(ctx context.Context, sess entities.Session, id string) (entities.Quotation, error)
	List(ctx context.Context, sess entities.Session, in ListQuotationsInput) (interfaces.QuotationPage, error)
	Submit(ctx context.Context, sess entities.Session, id string) (entities.Quotation, error)
	RequestInfo(ctx context.Context, sess entities.Session, id, reason string) (entities.Quotation, error)
	Verify(ctx context.Context, sess entities.Session, id string) (entities.Quotation, error)
	UpdatePricing(ctx context.Context, sess entities.Session, id string, in UpdatePricingInput) (entities.Quotation, error)
	Approve(ctx context.Context, sess entities.Session, id string) (entities.Quotation, error)
	Send(ctx context.Context, sess entities.Session, id string) (entities.Quotation, error)
	RequestNegotiation(ctx context.Context, sess entities.Session, id, reason string) (entities.Quotation, error)
	Accept(ctx context.Context, sess entities.Session, id string) (entities.Quotation, error)
	Reject(ctx context.Context, sess entities.Session, id, reason string) (entities.Quotation, error)
	ProvideAddress(ctx context.Context, sess entities.Session, id string, in ProvideAddressInput) (entities.Quotation, error)
	Requote(ctx context.Context, sess entities.Session, id string) (entities.Quotation, error)
}

type QuotationUseCase struct {
	repo         interfaces.IQuotationRepository
	warehouses   interfaces.IWarehouseRepository
	notifier     interfaces.INotifier
	documents    interfaces.IDocumentService
	log          *zap.Logger
	clock        func() time.Time
	validityDays int
}

var _ IQuotationUseCase = (*QuotationUseCase)(nil)

type QuotationOption func(*QuotationUseCase)

func WithQuotationClock(clock func() time.Time) QuotationOption {
	return func(u *QuotationUseCase) { u.clock = clock }
}

func WithQuotationLogger(l *zap.Logger) QuotationOption {
	return func(u *QuotationUseCase) { u.log = l }
}

// WithDocumentService enables document generation on send.
func WithDocumentService(d interfaces.IDocumentService) QuotationOption {
	return func(u *QuotationUseCase) { u.documents = d }
}

func WithDefaultValidityDays(days int) QuotationOption {
	return func(u *QuotationUseCase) {
		if days > 0 {
			u.validityDays = days
		}
	}
}

func NewQuotationUseCase(repo interfaces.IQuotationRepository, warehouses interfaces.IWarehouseRepository, notifier interfaces.INotifier, opts ...QuotationOption) *QuotationUseCase {
	u := &QuotationUseCase{
		repo:         repo,
		warehouses:   warehouses,
		notifier:     notifier,
		log:          zap.NewNop(),
		clock:        time.Now,
		validityDays: defaultValidityDays,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *QuotationUseCase) Create(ctx context.Context, sess entities.Session, in CreateQuotationInput) (entities.Quotation, error) {
	clientID := strings.TrimSpace(in.ClientID)
	if sess.Role == entities.RoleClient {
		clientID = sess.UserID
	}
	now := u.clock().UTC()

	fe := fieldErrors{}
	if clientID == "" {
		fe.add("client_id", "is required")
	}
	if strings.TrimSpace(in.Origin.City) == "" || strings.TrimSpace(in.Origin.Country) == "" {
		fe.add("origin", "city and country are required")
	}
	if strings.TrimSpace(in.CargoType) == "" {
		fe.add("cargo_type", "is required")
	}
	if in.ServiceType == "" {
		in.ServiceType = entities.ServiceTypeStandard
	}
	if !in.ServiceType.Valid() {
		fe.add("service_type", "is not supported")
	}
	if in.HandoverMethod == "" {
		in.HandoverMethod = entities.HandoverPickup
	}
	if !in.HandoverMethod.Valid() {
		fe.add("handover_method", "is not supported")
	}
	if in.HandoverMethod == entities.HandoverPickup && in.PickupAddress == nil && !in.Draft {
		fe.add("pickup_address", "is required for pickup")
	}
	if in.Currency == "" {
		in.Currency = entities.DefaultCurrency
	}
	if !in.Currency.Valid() {
		fe.add("currency", "is not supported")
	}
	if in.ValidUntil != nil && !in.ValidUntil.After(now) {
		fe.add("valid_until", "must be in the future")
	}
	if err := fe.err(); err != nil {
		return entities.Quotation{}, err
	}

	q := entities.Quotation{
		ID:              uuid.NewString(),
		QuotationNumber: entities.NewQuotationNumber(now),
		ClientID:        clientID,
		Origin:          in.Origin,
		Destination:     in.Destination,
		CargoType:       strings.TrimSpace(in.CargoType),
		ServiceType:     in.ServiceType,
		HandoverMethod:  in.HandoverMethod,
		Currency:        in.Currency,
		ValidUntil:      utcPtr(in.ValidUntil),
		Status:          entities.QuotationStatusRequestSent,
		StatusHistory:   []entities.StatusHistoryEntry{},
		RevisionNumber:  1,
		Version:         1,
		CreatedBy:       sess.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.Draft {
		q.Status = entities.QuotationStatusDraft
	}
	if in.PickupAddress != nil {
		a := *in.PickupAddress
		q.PickupAddress = &a
	}
	if in.HandoverMethod == entities.HandoverDropOff {
		wh, err := u.lookupWarehouse(ctx, in.DropOffWarehouseID)
		if err != nil {
			return entities.Quotation{}, err
		}
		if wh != nil {
			q.DropOffWarehouseID = wh.ID
		}
		if q.PickupAddress == nil {
			a := entities.DropOffPlaceholder(q.Origin, wh)
			q.PickupAddress = &a
		}
	}
	if err := q.Reprice(in.Items, in.TaxRate, in.Discount); err != nil {
		return entities.Quotation{}, asValidation(err)
	}

	created, err := u.repo.Create(ctx, q)
	if err != nil {
		return entities.Quotation{}, err
	}
	u.log.Info("quotation created",
		zap.String("quotation_id", created.ID),
		zap.String("quotation_number", created.QuotationNumber),
		zap.String("status", string(created.Status)),
		zap.String("actor", sess.UserID),
	)
	return created, nil
}

func (u *QuotationUseCase) GetByID(ctx context.Context, sess entities.Session, id string) (entities.Quotation, error) {
	q, err := u.load(ctx, id)
	if err != nil {
		return entities.Quotation{}, err
	}
	if err := canView(sess, q); err != nil {
		return entities.Quotation{}, err
	}
	return q, nil
}

func (u *QuotationUseCase) List(ctx context.Context, sess entities.Session, in ListQuotationsInput) (interfaces.QuotationPage, error) {
	f := interfaces.QuotationFilter{
		ClientID: strings.TrimSpace(in.ClientID),
		Limit:    in.Limit,
		Cursor:   strings.TrimSpace(in.Cursor),
	}
	if raw := strings.TrimSpace(in.Status); raw != "" {
		s, err := entities.ParseStatus(raw)
		if err != nil {
			return interfaces.QuotationPage{}, newValidationError("status", "is not a known quotation status")
		}
		f.Status = s
	}
	if sess.Role == entities.RoleClient {
		f.ClientID = sess.UserID
	}
	if f.Limit < 0 || f.Limit > maxListLimit {
		return interfaces.QuotationPage{}, newValidationError("limit", fmt.Sprintf("must be between 1 and %d", maxListLimit))
	}
	if f.Limit == 0 {
		f.Limit = defaultListLimit
	}
	page, err := u.repo.List(ctx, f)
	if errors.Is(err, interfaces.ErrInvalidCursor) {
		return interfaces.QuotationPage{}, newValidationError("cursor", "is invalid")
	}
	return page, err
}

func (u *QuotationUseCase) Submit(ctx context.Context, sess entities.Session, id string) (entities.Quotation, error) {
	return u.mutate(ctx, sess, id, entities.ActionSubmit, func(q *entities.Quotation, now time.Time) error {
		if err := ownerOrStaff(sess, *q); err != nil {
			return err
		}
		return q.Apply(entities.ActionSubmit, sess.Actor(), "", now)
	})
}

func (u *QuotationUseCase) RequestInfo(ctx context.Context, sess entities.Session, id, reason string) (entities.Quotation, error) {
	if err := requireStaff(sess); err != nil {
		return entities.Quotation{}, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return entities.Quotation{}, newValidationError("reason", "is required")
	}
	q, err := u.mutate(ctx, sess, id, entities.ActionRequestInfo, func(q *entities.Quotation, now time.Time) error {
		return q.Apply(entities.ActionRequestInfo, sess.Actor(), reason, now)
	})
	if err != nil {
		return entities.Quotation{}, err
	}
	u.notify(ctx, q, q.ClientID, entities.NotificationInfoRequired, reason)
	return q, nil
}

func (u *QuotationUseCase) Verify(ctx context.Context, sess entities.Session, id string) (entities.Quotation, error) {
	if err := requireStaff(sess); err != nil {
		return entities.Quotation{}, err
	}
	return u.mutate(ctx, sess, id, entities.ActionVerify, func(q *entities.Quotation, now time.Time) error {
		return q.Apply(entities.ActionVerify, sess.Actor(), "", now)
	})
}

// UpdatePricing replaces the line items and pricing inputs and recomputes totals.
// Re-pricing an approved, sent or negotiated quotation opens a new revision of
// the same record and withdraws the manager approval. The client is told when a
// price it has already seen is being revised.
func (u *QuotationUseCase) UpdatePricing(ctx context.Context, sess entities.Session, id string, in UpdatePricingInput) (entities.Quotation, error) {
	if err := requireStaff(sess); err != nil {
		return entities.Quotation{}, err
	}
	if len(in.Items) == 0 {
		return entities.Quotation{}, newValidationError("items", "at least one item is required")
	}
	if in.Currency != "" && !in.Currency.Valid() {
		return entities.Quotation{}, newValidationError("currency", "is not supported")
	}

	var seenByClient bool
	q, err := u.mutate(ctx, sess, id, entities.ActionUpdatePrice, func(q *entities.Quotation, now time.Time) error {
		if !q.Status.CanApply(entities.ActionUpdatePrice) {
			return fmt.Errorf("%w: cannot %s from %s", ErrInvalidStateTransition, entities.ActionUpdatePrice, q.Status)
		}
		seenByClient = q.Status == entities.QuotationStatusSent || q.Status == entities.QuotationStatusNegotiationRequested
		if in.ValidUntil != nil && !in.ValidUntil.After(now) {
			return newValidationError("valid_until", "must be in the future")
		}
		if err := q.Reprice(in.Items, in.TaxRate, in.Discount); err != nil {
			return asValidation(err)
		}
		if in.Currency != "" {
			q.Currency = in.Currency
		}
		if in.ValidUntil != nil {
			q.ValidUntil = utcPtr(in.ValidUntil)
		}
		if q.HandoverMethod == entities.HandoverDropOff && q.PickupAddress == nil {
			wh, err := u.lookupWarehouse(ctx, q.DropOffWarehouseID)
			if err != nil {
				return err
			}
			a := entities.DropOffPlaceholder(q.Origin, wh)
			q.PickupAddress = &a
		}
		switch q.Status {
		case entities.QuotationStatusApproved, entities.QuotationStatusSent, entities.QuotationStatusNegotiationRequested:
			q.RevisionNumber++
			q.IsApprovedByManager = false
			q.ManagerApprovedAt = nil
		}
		q.ManagerID = sess.UserID

		if q.Status == entities.QuotationStatusCostCalculated {
			q.UpdatedAt = now
			return nil
		}
		reason := strings.TrimSpace(in.Reason)
		if reason == "" {
			reason = priceUpdatedReason
		}
		return q.Apply(entities.ActionUpdatePrice, sess.Actor(), reason, now)
	})
	if err != nil {
		return entities.Quotation{}, err
	}
	if seenByClient {
		u.notify(ctx, q, q.ClientID, entities.NotificationQuotationPriced,
			fmt.Sprintf("Quotation %s is being revised (revision %d)", q.QuotationNumber, q.RevisionNumber))
	}
	return q, nil
}

func (u *QuotationUseCase) Approve(ctx context.Context, sess entities.Session, id string) (entities.Quotation, error) {
	if err := requireStaff(sess); err != nil {
		return entities.Quotation{}, err
	}
	return u.mutate(ctx, sess, id, entities.ActionApprove, func(q *entities.Quotation, now time.Time) error {
		if err := q.Apply(entities.ActionApprove, sess.Actor(), "", now); err != nil {
			return err
		}
		q.IsApprovedByManager = true
		q.ManagerApprovedAt = &now
		q.ManagerID = sess.UserID
		return nil
	})
}

// Send delivers an approved quotation to the client. A missing valid_until is
// defaulted from the configured validity window. When a document service is
// configured the document is rendered once, before the write, from the loaded
// version; if that version changes before the save lands the send fails with
// ErrConcurrentModification instead of rendering again.
func (u *QuotationUseCase) Send(ctx context.Context, sess entities.Session, id string) (entities.Quotation, error) {
	if err := requireStaff(sess); err != nil {
		return entities.Quotation{}, err
	}
	current, err := u.load(ctx, id)
	if err != nil {
		return entities.Quotation{}, err
	}
	if !current.Status.CanApply(entities.ActionSend) {
		return entities.Quotation{}, fmt.Errorf("%w: cannot %s from %s", ErrInvalidStateTransition, entities.ActionSend, current.Status)
	}

	var documentURL string
	var rendered *time.Time
	if u.documents != nil {
		if rendered, err = u.sendValidity(current, u.clock().UTC()); err != nil {
			return entities.Quotation{}, err
		}
		doc := current.Clone()
		doc.ValidUntil = rendered
		if documentURL, err = u.documents.Generate(ctx, doc); err != nil {
			return entities.Quotation{}, fmt.Errorf("generate quotation document: %w", err)
		}
	}

	q, err := u.mutate(ctx, sess, id, entities.ActionSend, func(q *entities.Quotation, now time.Time) error {
		if !q.Status.CanApply(entities.ActionSend) {
			return fmt.Errorf("%w: cannot %s from %s", ErrInvalidStateTransition, entities.ActionSend, q.Status)
		}
		if u.documents != nil {
			if q.Version != current.Version {
				return ErrConcurrentModification
			}
			q.ValidUntil = utcPtr(rendered)
			q.DocumentURL = documentURL
		} else {
			until, err := u.sendValidity(*q, now)
			if err != nil {
				return err
			}
			q.ValidUntil = until
		}
		return q.Apply(entities.ActionSend, sess.Actor(), "", now)
	})
	if err != nil {
		return entities.Quotation{}, err
	}
	u.notify(ctx, q, q.ClientID, entities.NotificationQuotationSent,
		fmt.Sprintf("Quotation %s is ready for review", q.QuotationNumber))
	return q, nil
}

// sendValidity returns the valid_until a send stores for q.
func (u *QuotationUseCase) sendValidity(q entities.Quotation, now time.Time) (*time.Time, error) {
	if q.ValidUntil == nil {
		until := now.AddDate(0, 0, u.validityDays)
		return &until, nil
	}
	if !q.ValidUntil.After(now) {
		return nil, newValidationError("valid_until", "must be in the future")
	}
	return utcPtr(q.ValidUntil), nil
}

func (u *QuotationUseCase) RequestNegotiation(ctx context.Context, sess entities.Session, id, reason string) (entities.Quotation, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return entities.Quotation{}, newValidationError("reason", "is required")
	}
	q, err := u.mutate(ctx, sess, id, entities.ActionRequestNegotiation, func(q *entities.Quotation, now time.Time) error {
		if err := ownerOrAdmin(sess, *q); err != nil {
			return err
		}
		if err := guardValidity(*q, now); err != nil {
			return err
		}
		return q.Apply(entities.ActionRequestNegotiation, sess.Actor(), reason, now)
	})
	if err != nil {
		return entities.Quotation{}, err
	}
	if q.ManagerID != "" {
		u.notify(ctx, q, q.ManagerID, entities.NotificationNegotiation, reason)
	}
	return q, nil
}

func (u *QuotationUseCase) Accept(ctx context.Context, sess entities.Session, id string) (entities.Quotation, error) {
	q, err := u.mutate(ctx, sess, id, entities.ActionAccept, func(q *entities.Quotation, now time.Time) error {
		if err := ownerOrAdmin(sess, *q); err != nil {
			return err
		}
		if err := guardValidity(*q, now); err != nil {
			return err
		}
		if err := q.Apply(entities.ActionAccept, sess.Actor(), "", now); err != nil {
			return err
		}
		q.IsAcceptedByClient = true
		q.ClientAcceptedAt = &now
		return nil
	})
	if err != nil {
		return entities.Quotation{}, err
	}
	if q.ManagerID != "" {
		u.notify(ctx, q, q.ManagerID, entities.NotificationQuotationAccepted,
			fmt.Sprintf("Quotation %s was accepted", q.QuotationNumber))
	}
	return q, nil
}

func (u *QuotationUseCase) Reject(ctx context.Context, sess entities.Session, id, reason string) (entities.Quotation, error) {
	reason = strings.TrimSpace(reason)
	q, err := u.mutate(ctx, sess, id, entities.ActionReject, func(q *entities.Quotation, now time.Time) error {
		if err := ownerOrAdmin(sess, *q); err != nil {
			return err
		}
		if err := guardValidity(*q, now); err != nil {
			return err
		}
		if err := q.Apply(entities.ActionReject, sess.Actor(), reason, now); err != nil {
			return err
		}
		q.IsRejectedByClient = true
		q.ClientRejectedAt = &now
		q.ClientRejectionReason = reason
		return nil
	})
	if err != nil {
		return entities.Quotation{}, err
	}
	if q.ManagerID != "" {
		u.notify(ctx, q, q.ManagerID, entities.NotificationQuotationRejected,
			fmt.Sprintf("Quotation %s was rejected", q.QuotationNumber))
	}
	return q, nil
}

// ProvideAddress records the destination of a drop-off shipment and sets the
// pickup address to the drop-off warehouse.
func (u *QuotationUseCase) ProvideAddress(ctx context.Context, sess entities.Session, id string, in ProvideAddressInput) (entities.Quotation, error) {
	if err := requireStaff(sess); err != nil {
		return entities.Quotation{}, err
	}
	if strings.TrimSpace(in.Destination.City) == "" || strings.TrimSpace(in.Destination.Country) == "" {
		return entities.Quotation{}, newValidationError("destination", "city and country are required")
	}
	return u.mutate(ctx, sess, id, entities.ActionProvideAddress, func(q *entities.Quotation, now time.Time) error {
		if !q.Status.CanApply(entities.ActionProvideAddress) {
			return fmt.Errorf("%w: cannot %s from %s", ErrInvalidStateTransition, entities.ActionProvideAddress, q.Status)
		}
		warehouseID := strings.TrimSpace(in.WarehouseID)
		if warehouseID == "" {
			warehouseID = q.DropOffWarehouseID
		}
		wh, err := u.lookupWarehouse(ctx, warehouseID)
		if err != nil {
			return err
		}
		placeholder := entities.DropOffPlaceholder(q.Origin, wh)
		q.PickupAddress = &placeholder
		q.Destination = in.Destination
		q.HandoverMethod = entities.HandoverDropOff
		if wh != nil {
			q.DropOffWarehouseID = wh.ID
		}
		return q.Apply(entities.ActionProvideAddress, sess.Actor(), addressProvidedNotes, now)
	})
}

// Requote stores the next revision of a rejected or expired quotation as a new
// record. The source stays terminal and untouched.
func (u *QuotationUseCase) Requote(ctx context.Context, sess entities.Session, id string) (entities.Quotation, error) {
	if err := requireStaff(sess); err != nil {
		return entities.Quotation{}, err
	}
	source, err := u.load(ctx, id)
	if err != nil {
		return entities.Quotation{}, err
	}
	next, err := source.Requote(sess.Actor(), u.clock().UTC())
	if err != nil {
		return entities.Quotation{}, err
	}
	next.ManagerID = sess.UserID
	next.CreatedBy = sess.UserID

	created, err := u.repo.Create(ctx, next)
	if err != nil {
		return entities.Quotation{}, err
	}
	u.log.Info("quotation requoted",
		zap.String("quotation_id", created.ID),
		zap.String("previous_revision_id", source.ID),
		zap.Int("revision_number", created.RevisionNumber),
		zap.String("actor", sess.UserID),
	)
	return created, nil
}

// mutate runs a guarded read-modify-write. On a version conflict the record is
// reloaded and fn re-evaluated against the fresh state, up to maxSaveAttempts.
func (u *QuotationUseCase) mutate(ctx context.Context, sess entities.Session, id string, action entities.QuotationAction, fn func(q *entities.Quotation, now time.Time) error) (entities.Quotation, error) {
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		current, err := u.load(ctx, id)
		if err != nil {
			return entities.Quotation{}, err
		}
		next := current.Clone()
		if err := fn(&next, u.clock().UTC()); err != nil {
			if errors.Is(err, ErrInvalidStateTransition) || errors.Is(err, ErrQuotationExpired) {
				u.log.Warn("quotation transition refused",
					zap.String("quotation_id", current.ID),
					zap.String("status", string(current.Status)),
					zap.String("action", string(action)),
					zap.String("actor", sess.UserID),
				)
			}
			return entities.Quotation{}, err
		}

		saved, err := u.repo.Save(ctx, next, current.Version)
		if err == nil {
			if saved.Status != current.Status {
				u.log.Info("quotation status changed",
					zap.String("quotation_id", saved.ID),
					zap.String("from", string(current.Status)),
					zap.String("status", string(saved.Status)),
					zap.String("actor", sess.UserID),
				)
			}
			return saved, nil
		}
		if !errors.Is(err, interfaces.ErrVersionConflict) {
			return entities.Quotation{}, err
		}
		u.log.Debug("quotation version conflict",
			zap.String("quotation_id", current.ID),
			zap.Int("attempt", attempt),
		)
	}
	return entities.Quotation{}, ErrConcurrentModification
}

func (u *QuotationUseCase) load(ctx context.Context, id string) (entities.Quotation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Quotation{}, newValidationError("id", "is required")
	}
	q, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Quotation{}, err
	}
	if q.ID == "" {
		return entities.Quotation{}, ErrQuotationNotFound
	}
	return q, nil
}

// lookupWarehouse resolves an optional warehouse id. An empty id yields nil.
func (u *QuotationUseCase) lookupWarehouse(ctx context.Context, id string) (*entities.Warehouse, error) {
	id = strings.TrimSpace(id)
	if id == "" || u.warehouses == nil {
		return nil, nil
	}
	w, err := u.warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.ID == "" {
		return nil, newValidationError("drop_off_warehouse_id", "unknown warehouse")
	}
	return &w, nil
}

func (u *QuotationUseCase) notify(ctx context.Context, q entities.Quotation, userID string, typ entities.NotificationType, msg string) {
	if u.notifier == nil || userID == "" {
		return
	}
	n := entities.Notification{
		Type:            typ,
		UserID:          userID,
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		Status:          q.Status,
		Message:         msg,
		CreatedAt:       u.clock().UTC(),
	}
	if err := u.notifier.Notify(ctx, n); err != nil {
		u.log.Warn("notification failed",
			zap.String("quotation_id", q.ID),
			zap.String("type", string(typ)),
			zap.Error(err),
		)
	}
}

func guardValidity(q entities.Quotation, now time.Time) error {
	if q.Status == entities.QuotationStatusSent && q.IsPastValidity(now) {
		return ErrQuotationExpired
	}
	return nil
}

func requireStaff(sess entities.Session) error {
	if !sess.Role.IsStaff() {
		return ErrForbidden
	}
	return nil
}

func ownerOrStaff(sess entities.Session, q entities.Quotation) error {
	if sess.Role.IsStaff() || q.ClientID == sess.UserID {
		return nil
	}
	return ErrForbidden
}

func ownerOrAdmin(sess entities.Session, q entities.Quotation) error {
	if sess.Role == entities.RoleAdmin || q.ClientID == sess.UserID {
		return nil
	}
	return ErrForbidden
}

func canView(sess entities.Session, q entities.Quotation) error {
	if sess.Role == entities.RoleClient && q.ClientID != sess.UserID {
		return ErrForbidden
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
