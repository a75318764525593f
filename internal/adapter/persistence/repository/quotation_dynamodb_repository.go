package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"cargo_quotes/internal/domain/entities"
	"cargo_quotes/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

const (
	StatusIndex   = "status-index"
	ClientIDIndex = "client_id-index"

	quotationNumberGuardPrefix = "QNUM#"
)

type lineItemItem struct {
	Description string `dynamodbav:"description"`
	Quantity    int    `dynamodbav:"quantity"`
	UnitPrice   string `dynamodbav:"unit_price"`
	Amount      string `dynamodbav:"amount"`
	Category    string `dynamodbav:"category,omitempty"`
}

type historyItem struct {
	Status    string  `dynamodbav:"status"`
	ChangedBy *string `dynamodbav:"changed_by"`
	Reason    string  `dynamodbav:"reason,omitempty"`
	Timestamp string  `dynamodbav:"timestamp"`
}

type quotationItem struct {
	ID              string `dynamodbav:"id"`
	QuotationNumber string `dynamodbav:"quotation_number"`
	ClientID        string `dynamodbav:"client_id"`
	ManagerID       string `dynamodbav:"manager_id,omitempty"`

	Origin             entities.Address  `dynamodbav:"origin"`
	Destination        entities.Address  `dynamodbav:"destination"`
	PickupAddress      *entities.Address `dynamodbav:"pickup_address,omitempty"`
	CargoType          string            `dynamodbav:"cargo_type"`
	ServiceType        string            `dynamodbav:"service_type"`
	HandoverMethod     string            `dynamodbav:"handover_method"`
	DropOffWarehouseID string            `dynamodbav:"drop_off_warehouse_id,omitempty"`
	Items              []lineItemItem    `dynamodbav:"items"`

	Subtotal    string `dynamodbav:"subtotal"`
	TaxRate     string `dynamodbav:"tax_rate"`
	Tax         string `dynamodbav:"tax"`
	Discount    string `dynamodbav:"discount"`
	TotalAmount string `dynamodbav:"total_amount"`
	Currency    string `dynamodbav:"currency"`

	IsApprovedByManager   bool   `dynamodbav:"is_approved_by_manager"`
	ManagerApprovedAt     string `dynamodbav:"manager_approved_at,omitempty"`
	IsAcceptedByClient    bool   `dynamodbav:"is_accepted_by_client"`
	ClientAcceptedAt      string `dynamodbav:"client_accepted_at,omitempty"`
	IsRejectedByClient    bool   `dynamodbav:"is_rejected_by_client"`
	ClientRejectedAt      string `dynamodbav:"client_rejected_at,omitempty"`
	ClientRejectionReason string `dynamodbav:"client_rejection_reason,omitempty"`

	ValidUntil string `dynamodbav:"valid_until,omitempty"`

	Status        string        `dynamodbav:"status"`
	StatusHistory []historyItem `dynamodbav:"status_history"`

	RevisionNumber     int    `dynamodbav:"revision_number"`
	PreviousRevisionID string `dynamodbav:"previous_revision_id,omitempty"`
	DocumentURL        string `dynamodbav:"document_url,omitempty"`

	Version   int    `dynamodbav:"version"`
	CreatedBy string `dynamodbav:"created_by"`
	CreatedAt string `dynamodbav:"created_at"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// QuotationDynamoRepository persists Quotation entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI status-index: status (HASH), created_at (RANGE)
//   - GSI client_id-index: client_id (HASH), created_at (RANGE)
//
// Quotation numbers are kept unique with a guard item (id "QNUM#<number>")
// written in the same transaction as the quotation. Guard items carry no
// status or client_id, so neither index sees them.
type QuotationDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IQuotationRepository = (*QuotationDynamoRepository)(nil)

func NewQuotationDynamoRepository(ddb DynamoAPI, tableName string) *QuotationDynamoRepository {
	return &QuotationDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *QuotationDynamoRepository) Create(ctx context.Context, q entities.Quotation) (entities.Quotation, error) {
	if q.Version == 0 {
		q.Version = 1
	}
	av, err := attributevalue.MarshalMap(toQuotationItem(q))
	if err != nil {
		return entities.Quotation{}, fmt.Errorf("marshal quotation: %w", err)
	}
	guard := map[string]types.AttributeValue{
		"id":           &types.AttributeValueMemberS{Value: quotationNumberGuardPrefix + q.QuotationNumber},
		"quotation_id": &types.AttributeValueMemberS{Value: q.ID},
	}
	notExists := aws.String("attribute_not_exists(#id)")
	names := map[string]string{"#id": "id"}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{TableName: aws.String(r.tableName), Item: av, ConditionExpression: notExists, ExpressionAttributeNames: names}},
			{Put: &types.Put{TableName: aws.String(r.tableName), Item: guard, ConditionExpression: notExists, ExpressionAttributeNames: names}},
		},
	})
	if err != nil {
		if failed, ok := canceledConditions(err); ok {
			if failed[0] == 0 {
				return entities.Quotation{}, &interfaces.DuplicateKeyError{Field: "id", Value: q.ID}
			}
			return entities.Quotation{}, &interfaces.DuplicateKeyError{Field: "quotation_number", Value: q.QuotationNumber}
		}
		return entities.Quotation{}, storeError("create quotation", err)
	}
	return q, nil
}

func (r *QuotationDynamoRepository) GetByID(ctx context.Context, id string) (entities.Quotation, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            stringKey("id", id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Quotation{}, storeError("get quotation", err)
	}
	if len(out.Item) == 0 || out.Item["status"] == nil {
		return entities.Quotation{}, nil
	}
	return unmarshalQuotation(out.Item)
}

// List pages newest first. A client filter uses client_id-index, a status
// filter alone uses status-index, and no filter falls back to a scan.
// DynamoDB applies Limit before filters, so a page can hold fewer items
// than requested while NextCursor is still set.
func (r *QuotationDynamoRepository) List(ctx context.Context, f interfaces.QuotationFilter) (interfaces.QuotationPage, error) {
	start, err := decodeCursor(f.Cursor)
	if err != nil {
		return interfaces.QuotationPage{}, err
	}
	var limit *int32
	if f.Limit > 0 {
		limit = aws.Int32(int32(f.Limit))
	}

	var (
		rawItems []map[string]types.AttributeValue
		lastKey  map[string]types.AttributeValue
	)
	switch {
	case f.ClientID != "" || f.Status != "":
		in := &dynamodb.QueryInput{
			TableName:         aws.String(r.tableName),
			ScanIndexForward:  aws.Bool(false),
			Limit:             limit,
			ExclusiveStartKey: start,
		}
		if f.ClientID != "" {
			in.IndexName = aws.String(ClientIDIndex)
			in.KeyConditionExpression = aws.String("#client_id = :client_id")
			in.ExpressionAttributeNames = map[string]string{"#client_id": "client_id"}
			in.ExpressionAttributeValues = map[string]types.AttributeValue{":client_id": &types.AttributeValueMemberS{Value: f.ClientID}}
			if f.Status != "" {
				in.FilterExpression = aws.String("#status = :status")
				in.ExpressionAttributeNames["#status"] = "status"
				in.ExpressionAttributeValues[":status"] = &types.AttributeValueMemberS{Value: string(f.Status)}
			}
		} else {
			in.IndexName = aws.String(StatusIndex)
			in.KeyConditionExpression = aws.String("#status = :status")
			in.ExpressionAttributeNames = map[string]string{"#status": "status"}
			in.ExpressionAttributeValues = map[string]types.AttributeValue{":status": &types.AttributeValueMemberS{Value: string(f.Status)}}
		}
		out, err := r.ddb.Query(ctx, in)
		if err != nil {
			return interfaces.QuotationPage{}, storeError("query quotations", err)
		}
		rawItems, lastKey = out.Items, out.LastEvaluatedKey
	default:
		out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
			TableName:                aws.String(r.tableName),
			FilterExpression:         aws.String("attribute_exists(#status)"),
			ExpressionAttributeNames: map[string]string{"#status": "status"},
			Limit:                    limit,
			ExclusiveStartKey:        start,
		})
		if err != nil {
			return interfaces.QuotationPage{}, storeError("scan quotations", err)
		}
		rawItems, lastKey = out.Items, out.LastEvaluatedKey
	}

	page := interfaces.QuotationPage{Items: make([]entities.Quotation, 0, len(rawItems))}
	for _, raw := range rawItems {
		q, err := unmarshalQuotation(raw)
		if err != nil {
			return interfaces.QuotationPage{}, err
		}
		page.Items = append(page.Items, q)
	}
	if page.NextCursor, err = encodeCursor(lastKey); err != nil {
		return interfaces.QuotationPage{}, err
	}
	return page, nil
}

func (r *QuotationDynamoRepository) Save(ctx context.Context, q entities.Quotation, expectedVersion int) (entities.Quotation, error) {
	q.Version = expectedVersion + 1
	av, err := attributevalue.MarshalMap(toQuotationItem(q))
	if err != nil {
		return entities.Quotation{}, fmt.Errorf("marshal quotation: %w", err)
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      aws.String("#version = :expected"),
		ExpressionAttributeNames: map[string]string{"#version": "version"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: strconv.Itoa(expectedVersion)},
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return entities.Quotation{}, interfaces.ErrVersionConflict
		}
		return entities.Quotation{}, storeError("save quotation", err)
	}
	return q, nil
}

// FindExpirable returns Sent quotations, including the legacy sent status,
// whose valid_until is before now.
func (r *QuotationDynamoRepository) FindExpirable(ctx context.Context, now time.Time) ([]entities.Quotation, error) {
	var out []entities.Quotation
	for _, status := range []entities.QuotationStatus{entities.QuotationStatusSent, entities.LegacyQuotationStatusSent} {
		in := &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(StatusIndex),
			KeyConditionExpression: aws.String("#status = :status"),
			FilterExpression:       aws.String("attribute_exists(#valid_until) AND #valid_until < :now"),
			ExpressionAttributeNames: map[string]string{
				"#status":      "status",
				"#valid_until": "valid_until",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":status": &types.AttributeValueMemberS{Value: string(status)},
				":now":    &types.AttributeValueMemberS{Value: formatTime(now)},
			},
		}
		paginator := dynamodb.NewQueryPaginator(r.ddb, in)
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, storeError("query expirable quotations", err)
			}
			for _, raw := range page.Items {
				q, err := unmarshalQuotation(raw)
				if err != nil {
					return nil, err
				}
				out = append(out, q)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ExpireIfOverdue re-checks status and validity inside the write, so a
// concurrent accept or reject always wins over the sweep or loses cleanly.
func (r *QuotationDynamoRepository) ExpireIfOverdue(ctx context.Context, id string, entry entities.StatusHistoryEntry) (entities.Quotation, error) {
	hist, err := attributevalue.MarshalList([]historyItem{toHistoryItem(entry)})
	if err != nil {
		return entities.Quotation{}, fmt.Errorf("marshal history entry: %w", err)
	}
	now := formatTime(entry.Timestamp)

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 stringKey("id", id),
		ConditionExpression: aws.String("#status IN (:sent, :legacy) AND #valid_until < :now"),
		UpdateExpression: aws.String("SET #status = :expired, #updated_at = :now, " +
			"#history = list_append(if_not_exists(#history, :empty), :entry), #version = #version + :one"),
		ExpressionAttributeNames: map[string]string{
			"#status":      "status",
			"#valid_until": "valid_until",
			"#updated_at":  "updated_at",
			"#history":     "status_history",
			"#version":     "version",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sent":    &types.AttributeValueMemberS{Value: string(entities.QuotationStatusSent)},
			":legacy":  &types.AttributeValueMemberS{Value: string(entities.LegacyQuotationStatusSent)},
			":expired": &types.AttributeValueMemberS{Value: string(entities.QuotationStatusExpired)},
			":now":     &types.AttributeValueMemberS{Value: now},
			":entry":   &types.AttributeValueMemberL{Value: hist},
			":empty":   &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":one":     &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return entities.Quotation{}, interfaces.ErrConditionNotMet
		}
		return entities.Quotation{}, storeError("expire quotation", err)
	}
	if len(out.Attributes) == 0 {
		return entities.Quotation{}, errors.New("expire quotation: empty response")
	}
	return unmarshalQuotation(out.Attributes)
}

func unmarshalQuotation(raw map[string]types.AttributeValue) (entities.Quotation, error) {
	var it quotationItem
	if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
		return entities.Quotation{}, fmt.Errorf("unmarshal quotation: %w", err)
	}
	return fromQuotationItem(it), nil
}

func toQuotationItem(q entities.Quotation) quotationItem {
	it := quotationItem{
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
		Items:                 make([]lineItemItem, 0, len(q.Items)),
		Subtotal:              q.Subtotal.String(),
		TaxRate:               q.TaxRate.String(),
		Tax:                   q.Tax.String(),
		Discount:              q.Discount.String(),
		TotalAmount:           q.TotalAmount.String(),
		Currency:              string(q.Currency),
		IsApprovedByManager:   q.IsApprovedByManager,
		ManagerApprovedAt:     formatTimePtr(q.ManagerApprovedAt),
		IsAcceptedByClient:    q.IsAcceptedByClient,
		ClientAcceptedAt:      formatTimePtr(q.ClientAcceptedAt),
		IsRejectedByClient:    q.IsRejectedByClient,
		ClientRejectedAt:      formatTimePtr(q.ClientRejectedAt),
		ClientRejectionReason: q.ClientRejectionReason,
		ValidUntil:            formatTimePtr(q.ValidUntil),
		Status:                string(q.Status),
		StatusHistory:         make([]historyItem, 0, len(q.StatusHistory)),
		RevisionNumber:        q.RevisionNumber,
		PreviousRevisionID:    q.PreviousRevisionID,
		DocumentURL:           q.DocumentURL,
		Version:               q.Version,
		CreatedBy:             q.CreatedBy,
		CreatedAt:             formatTime(q.CreatedAt),
		UpdatedAt:             formatTime(q.UpdatedAt),
	}
	for _, li := range q.Items {
		it.Items = append(it.Items, lineItemItem{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice.String(),
			Amount:      li.Amount.String(),
			Category:    li.Category,
		})
	}
	for _, h := range q.StatusHistory {
		it.StatusHistory = append(it.StatusHistory, toHistoryItem(h))
	}
	return it
}

func toHistoryItem(h entities.StatusHistoryEntry) historyItem {
	return historyItem{
		Status:    string(h.Status),
		ChangedBy: h.ChangedBy,
		Reason:    h.Reason,
		Timestamp: formatTime(h.Timestamp),
	}
}

func fromQuotationItem(it quotationItem) entities.Quotation {
	q := entities.Quotation{
		ID:                    it.ID,
		QuotationNumber:       it.QuotationNumber,
		ClientID:              it.ClientID,
		ManagerID:             it.ManagerID,
		Origin:                it.Origin,
		Destination:           it.Destination,
		PickupAddress:         it.PickupAddress,
		CargoType:             it.CargoType,
		ServiceType:           entities.ServiceType(it.ServiceType),
		HandoverMethod:        entities.HandoverMethod(it.HandoverMethod),
		DropOffWarehouseID:    it.DropOffWarehouseID,
		Items:                 make([]entities.LineItem, 0, len(it.Items)),
		Subtotal:              parseDecimal(it.Subtotal),
		TaxRate:               parseDecimal(it.TaxRate),
		Tax:                   parseDecimal(it.Tax),
		Discount:              parseDecimal(it.Discount),
		TotalAmount:           parseDecimal(it.TotalAmount),
		Currency:              entities.Currency(it.Currency),
		IsApprovedByManager:   it.IsApprovedByManager,
		ManagerApprovedAt:     parseTimePtr(it.ManagerApprovedAt),
		IsAcceptedByClient:    it.IsAcceptedByClient,
		ClientAcceptedAt:      parseTimePtr(it.ClientAcceptedAt),
		IsRejectedByClient:    it.IsRejectedByClient,
		ClientRejectedAt:      parseTimePtr(it.ClientRejectedAt),
		ClientRejectionReason: it.ClientRejectionReason,
		ValidUntil:            parseTimePtr(it.ValidUntil),
		Status:                normalizeStatus(it.Status),
		StatusHistory:         make([]entities.StatusHistoryEntry, 0, len(it.StatusHistory)),
		RevisionNumber:        it.RevisionNumber,
		PreviousRevisionID:    it.PreviousRevisionID,
		DocumentURL:           it.DocumentURL,
		Version:               it.Version,
		CreatedBy:             it.CreatedBy,
		CreatedAt:             parseTime(it.CreatedAt),
		UpdatedAt:             parseTime(it.UpdatedAt),
	}
	for _, li := range it.Items {
		q.Items = append(q.Items, entities.LineItem{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   parseDecimal(li.UnitPrice),
			Amount:      parseDecimal(li.Amount),
			Category:    li.Category,
		})
	}
	for _, h := range it.StatusHistory {
		q.StatusHistory = append(q.StatusHistory, entities.StatusHistoryEntry{
			Status:    normalizeStatus(h.Status),
			ChangedBy: h.ChangedBy,
			Reason:    h.Reason,
			Timestamp: parseTime(h.Timestamp),
		})
	}
	return q
}

// normalizeStatus maps legacy spellings to the canonical status and keeps
// unknown values as stored.
func normalizeStatus(raw string) entities.QuotationStatus {
	if s, err := entities.ParseStatus(raw); err == nil {
		return s
	}
	return entities.QuotationStatus(raw)
}

func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
