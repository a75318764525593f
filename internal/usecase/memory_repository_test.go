package usecase

import (
	"cargo_quotes/internal/domain/entities"
	"cargo_quotes/internal/usecase/interfaces"
	"context"
	"sort"
	"strconv"
	"sync"
	"time"
)

// memoryQuotationRepo is a versioned in-memory IQuotationRepository with the same
// write conditions as the DynamoDB repository.
type memoryQuotationRepo struct {
	mu    sync.Mutex
	items map[string]entities.Quotation
	saves int
}

var _ interfaces.IQuotationRepository = (*memoryQuotationRepo)(nil)

func newMemoryQuotationRepo() *memoryQuotationRepo {
	return &memoryQuotationRepo{items: map[string]entities.Quotation{}}
}

func (r *memoryQuotationRepo) Create(_ context.Context, q entities.Quotation) (entities.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[q.ID]; ok {
		return entities.Quotation{}, &interfaces.DuplicateKeyError{Field: "id", Value: q.ID}
	}
	if q.Version == 0 {
		q.Version = 1
	}
	r.items[q.ID] = q.Clone()
	return q.Clone(), nil
}

func (r *memoryQuotationRepo) GetByID(_ context.Context, id string) (entities.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.items[id]
	if !ok {
		return entities.Quotation{}, nil
	}
	return q.Clone(), nil
}

func (r *memoryQuotationRepo) List(_ context.Context, f interfaces.QuotationFilter) (interfaces.QuotationPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []entities.Quotation
	for _, q := range r.items {
		if f.Status != "" && q.Status != f.Status {
			continue
		}
		if f.ClientID != "" && q.ClientID != f.ClientID {
			continue
		}
		all = append(all, q.Clone())
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })

	offset, _ := strconv.Atoi(f.Cursor)
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + f.Limit
	page := interfaces.QuotationPage{}
	if f.Limit <= 0 || end >= len(all) {
		page.Items = all[offset:]
		return page, nil
	}
	page.Items = all[offset:end]
	page.NextCursor = strconv.Itoa(end)
	return page, nil
}

func (r *memoryQuotationRepo) Save(_ context.Context, q entities.Quotation, expectedVersion int) (entities.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	stored, ok := r.items[q.ID]
	if !ok || stored.Version != expectedVersion {
		return entities.Quotation{}, interfaces.ErrVersionConflict
	}
	q.Version = expectedVersion + 1
	r.items[q.ID] = q.Clone()
	return q.Clone(), nil
}

func (r *memoryQuotationRepo) FindExpirable(_ context.Context, now time.Time) ([]entities.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Quotation
	for _, q := range r.items {
		if expirable(q, now) {
			out = append(out, q.Clone())
		}
	}
	return out, nil
}

func (r *memoryQuotationRepo) ExpireIfOverdue(_ context.Context, id string, entry entities.StatusHistoryEntry) (entities.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.items[id]
	if !ok || !expirable(q, entry.Timestamp) {
		return entities.Quotation{}, interfaces.ErrConditionNotMet
	}
	q = q.Clone()
	q.Status = entities.QuotationStatusExpired
	q.StatusHistory = append(q.StatusHistory, entry)
	q.UpdatedAt = entry.Timestamp
	q.Version++
	r.items[id] = q
	return q.Clone(), nil
}

func (r *memoryQuotationRepo) put(q entities.Quotation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[q.ID] = q.Clone()
}

func (r *memoryQuotationRepo) get(id string) entities.Quotation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id].Clone()
}

func expirable(q entities.Quotation, now time.Time) bool {
	sent := q.Status == entities.QuotationStatusSent || q.Status == entities.LegacyQuotationStatusSent
	return sent && q.IsPastValidity(now)
}

// recordingNotifier collects notifications for assertions.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []entities.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, msg entities.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) types() []entities.NotificationType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]entities.NotificationType, 0, len(n.sent))
	for _, m := range n.sent {
		out = append(out, m.Type)
	}
	return out
}
