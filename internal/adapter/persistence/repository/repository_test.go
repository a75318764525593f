package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"cargo_quotes/internal/domain/entities"
	"cargo_quotes/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDynamo records inputs and returns canned outputs.
type stubDynamo struct {
	getItems map[string]map[string]types.AttributeValue
	getErr   error

	puts   []*dynamodb.PutItemInput
	putErr error

	updates   []*dynamodb.UpdateItemInput
	updateOut *dynamodb.UpdateItemOutput
	updateErr error

	queries  []*dynamodb.QueryInput
	queryOut map[string][]*dynamodb.QueryOutput
	queryErr error

	scans   []*dynamodb.ScanInput
	scanOut []*dynamodb.ScanOutput

	transactions []*dynamodb.TransactWriteItemsInput
	transactErr  error
}

func (s *stubDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	id := in.Key["id"].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: s.getItems[id]}, nil
}

func (s *stubDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	s.puts = append(s.puts, in)
	return &dynamodb.PutItemOutput{}, s.putErr
}

func (s *stubDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	s.updates = append(s.updates, in)
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.updateOut, nil
}

// Query pops the next canned page for the queried status or client id.
func (s *stubDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	s.queries = append(s.queries, in)
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	var key string
	for _, name := range []string{":status", ":client_id"} {
		if v, ok := in.ExpressionAttributeValues[name].(*types.AttributeValueMemberS); ok {
			key = v.Value
			break
		}
	}
	pages := s.queryOut[key]
	if len(pages) == 0 {
		return &dynamodb.QueryOutput{}, nil
	}
	s.queryOut[key] = pages[1:]
	return pages[0], nil
}

func (s *stubDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	s.scans = append(s.scans, in)
	if len(s.scanOut) == 0 {
		return &dynamodb.ScanOutput{}, nil
	}
	out := s.scanOut[0]
	s.scanOut = s.scanOut[1:]
	return out, nil
}

func (s *stubDynamo) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	s.transactions = append(s.transactions, in)
	return &dynamodb.TransactWriteItemsOutput{}, s.transactErr
}

func canceledAt(n, failed int) error {
	reasons := make([]types.CancellationReason, n)
	for i := range reasons {
		reasons[i].Code = aws.String("None")
	}
	reasons[failed].Code = aws.String("ConditionalCheckFailed")
	return &types.TransactionCanceledException{Message: aws.String("canceled"), CancellationReasons: reasons}
}

func sampleQuotation() entities.Quotation {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	valid := now.AddDate(0, 0, 30)
	manager := "manager-1"
	return entities.Quotation{
		ID:              "q-1",
		QuotationNumber: "QT-20260301-ABC123",
		ClientID:        "client-1",
		Origin:          entities.Address{Line1: "1 Dock Rd", City: "Rotterdam", Country: "NL"},
		Destination:     entities.Address{Line1: "9 Pier St", City: "Dubai", Country: "AE"},
		CargoType:       "General",
		ServiceType:     entities.ServiceTypeExpress,
		HandoverMethod:  entities.HandoverPickup,
		Items: []entities.LineItem{
			{Description: "Freight", Quantity: 2, UnitPrice: decimal.RequireFromString("100.50"), Amount: decimal.RequireFromString("201.00")},
		},
		Subtotal:            decimal.RequireFromString("201.00"),
		TaxRate:             decimal.RequireFromString("0.05"),
		Tax:                 decimal.RequireFromString("10.05"),
		Discount:            decimal.Zero,
		TotalAmount:         decimal.RequireFromString("211.05"),
		Currency:            "USD",
		IsApprovedByManager: true,
		ManagerApprovedAt:   &now,
		ValidUntil:          &valid,
		Status:              entities.QuotationStatusApproved,
		StatusHistory: []entities.StatusHistoryEntry{
			{Status: entities.QuotationStatusApproved, ChangedBy: &manager, Timestamp: now},
		},
		RevisionNumber: 1,
		Version:        3,
		CreatedBy:      "client-1",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func marshalQuotation(t *testing.T, q entities.Quotation) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(toQuotationItem(q))
	require.NoError(t, err)
	return av
}

func TestQuotationDynamoRepository_Create(t *testing.T) {
	t.Run("writes quotation and number guard", func(t *testing.T) {
		ddb := &stubDynamo{}
		repo := NewQuotationDynamoRepository(ddb, "quotations")
		q := sampleQuotation()
		q.Version = 0

		created, err := repo.Create(context.Background(), q)
		require.NoError(t, err)
		assert.Equal(t, 1, created.Version)

		require.Len(t, ddb.transactions, 1)
		items := ddb.transactions[0].TransactItems
		require.Len(t, items, 2)
		assert.Equal(t, "attribute_not_exists(#id)", aws.ToString(items[0].Put.ConditionExpression))
		guardID := items[1].Put.Item["id"].(*types.AttributeValueMemberS).Value
		assert.Equal(t, "QNUM#QT-20260301-ABC123", guardID)
	})

	t.Run("duplicate number", func(t *testing.T) {
		ddb := &stubDynamo{transactErr: canceledAt(2, 1)}
		repo := NewQuotationDynamoRepository(ddb, "quotations")

		_, err := repo.Create(context.Background(), sampleQuotation())
		var dup *interfaces.DuplicateKeyError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "quotation_number", dup.Field)
		assert.ErrorIs(t, err, interfaces.ErrDuplicateKey)
	})

	t.Run("store failure", func(t *testing.T) {
		ddb := &stubDynamo{transactErr: errors.New("throttled")}
		repo := NewQuotationDynamoRepository(ddb, "quotations")

		_, err := repo.Create(context.Background(), sampleQuotation())
		assert.ErrorIs(t, err, interfaces.ErrStore)
	})
}

func TestQuotationDynamoRepository_GetByID(t *testing.T) {
	q := sampleQuotation()

	t.Run("round trip", func(t *testing.T) {
		ddb := &stubDynamo{getItems: map[string]map[string]types.AttributeValue{q.ID: marshalQuotation(t, q)}}
		repo := NewQuotationDynamoRepository(ddb, "quotations")

		got, err := repo.GetByID(context.Background(), q.ID)
		require.NoError(t, err)
		assert.Equal(t, q.ID, got.ID)
		assert.Equal(t, q.Status, got.Status)
		assert.True(t, q.TotalAmount.Equal(got.TotalAmount))
		assert.True(t, q.Items[0].UnitPrice.Equal(got.Items[0].UnitPrice))
		require.NotNil(t, got.ValidUntil)
		assert.True(t, q.ValidUntil.Equal(*got.ValidUntil))
		require.Len(t, got.StatusHistory, 1)
		assert.Equal(t, "manager-1", *got.StatusHistory[0].ChangedBy)
		assert.True(t, q.CreatedAt.Equal(got.CreatedAt))
		assert.Equal(t, q.Origin, got.Origin)
		assert.Nil(t, got.ClientAcceptedAt)
		assert.Equal(t, 3, got.Version)
	})

	t.Run("legacy status is normalized", func(t *testing.T) {
		legacy := q
		legacy.Status = entities.LegacyQuotationStatusSent
		ddb := &stubDynamo{getItems: map[string]map[string]types.AttributeValue{q.ID: marshalQuotation(t, legacy)}}
		repo := NewQuotationDynamoRepository(ddb, "quotations")

		got, err := repo.GetByID(context.Background(), q.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.QuotationStatusSent, got.Status)
	})

	t.Run("not found", func(t *testing.T) {
		repo := NewQuotationDynamoRepository(&stubDynamo{}, "quotations")

		got, err := repo.GetByID(context.Background(), "missing")
		require.NoError(t, err)
		assert.Empty(t, got.ID)
	})

	t.Run("guard item is not a quotation", func(t *testing.T) {
		ddb := &stubDynamo{getItems: map[string]map[string]types.AttributeValue{
			"QNUM#X": {"id": &types.AttributeValueMemberS{Value: "QNUM#X"}, "quotation_id": &types.AttributeValueMemberS{Value: "q-1"}},
		}}
		repo := NewQuotationDynamoRepository(ddb, "quotations")

		got, err := repo.GetByID(context.Background(), "QNUM#X")
		require.NoError(t, err)
		assert.Empty(t, got.ID)
	})
}

func TestQuotationDynamoRepository_Save(t *testing.T) {
	t.Run("conditional put bumps version", func(t *testing.T) {
		ddb := &stubDynamo{}
		repo := NewQuotationDynamoRepository(ddb, "quotations")

		saved, err := repo.Save(context.Background(), sampleQuotation(), 3)
		require.NoError(t, err)
		assert.Equal(t, 4, saved.Version)

		require.Len(t, ddb.puts, 1)
		put := ddb.puts[0]
		assert.Equal(t, "#version = :expected", aws.ToString(put.ConditionExpression))
		assert.Equal(t, "3", put.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberN).Value)
		assert.Equal(t, "4", put.Item["version"].(*types.AttributeValueMemberN).Value)
	})

	t.Run("version conflict", func(t *testing.T) {
		ddb := &stubDynamo{putErr: &types.ConditionalCheckFailedException{Message: aws.String("failed")}}
		repo := NewQuotationDynamoRepository(ddb, "quotations")

		_, err := repo.Save(context.Background(), sampleQuotation(), 3)
		assert.ErrorIs(t, err, interfaces.ErrVersionConflict)
	})
}

func TestQuotationDynamoRepository_List(t *testing.T) {
	q := sampleQuotation()

	t.Run("by client with status filter", func(t *testing.T) {
		ddb := &stubDynamo{queryOut: map[string][]*dynamodb.QueryOutput{
			"client-1": {{
				Items:            []map[string]types.AttributeValue{marshalQuotation(t, q)},
				LastEvaluatedKey: map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "q-1"}, "client_id": &types.AttributeValueMemberS{Value: "client-1"}},
			}},
		}}
		repo := NewQuotationDynamoRepository(ddb, "quotations")

		page, err := repo.List(context.Background(), interfaces.QuotationFilter{ClientID: "client-1", Status: entities.QuotationStatusApproved, Limit: 1})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		require.NotEmpty(t, page.NextCursor)

		in := ddb.queries[0]
		assert.Equal(t, ClientIDIndex, aws.ToString(in.IndexName))
		assert.Equal(t, "#status = :status", aws.ToString(in.FilterExpression))
		assert.False(t, aws.ToBool(in.ScanIndexForward))
		assert.Equal(t, int32(1), aws.ToInt32(in.Limit))

		start, err := decodeCursor(page.NextCursor)
		require.NoError(t, err)
		assert.Equal(t, "q-1", start["id"].(*types.AttributeValueMemberS).Value)
	})

	t.Run("by status", func(t *testing.T) {
		ddb := &stubDynamo{queryOut: map[string][]*dynamodb.QueryOutput{}}
		repo := NewQuotationDynamoRepository(ddb, "quotations")

		page, err := repo.List(context.Background(), interfaces.QuotationFilter{Status: entities.QuotationStatusSent})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Empty(t, page.NextCursor)
		assert.Equal(t, StatusIndex, aws.ToString(ddb.queries[0].IndexName))
		assert.Nil(t, ddb.queries[0].Limit)
	})

	t.Run("unfiltered scan", func(t *testing.T) {
		ddb := &stubDynamo{scanOut: []*dynamodb.ScanOutput{{Items: []map[string]types.AttributeValue{marshalQuotation(t, q)}}}}
		repo := NewQuotationDynamoRepository(ddb, "quotations")

		page, err := repo.List(context.Background(), interfaces.QuotationFilter{})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "attribute_exists(#status)", aws.ToString(ddb.scans[0].FilterExpression))
	})

	t.Run("invalid cursor", func(t *testing.T) {
		repo := NewQuotationDynamoRepository(&stubDynamo{}, "quotations")

		_, err := repo.List(context.Background(), interfaces.QuotationFilter{Cursor: "%%%"})
		assert.ErrorIs(t, err, interfaces.ErrInvalidCursor)
	})
}

func TestQuotationDynamoRepository_FindExpirable(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	sent := sampleQuotation()
	sent.Status = entities.QuotationStatusSent
	legacy := sampleQuotation()
	legacy.ID = "q-0"
	legacy.Status = entities.LegacyQuotationStatusSent
	legacy.CreatedAt = sent.CreatedAt.Add(-time.Hour)

	ddb := &stubDynamo{queryOut: map[string][]*dynamodb.QueryOutput{
		string(entities.QuotationStatusSent): {
			{Items: []map[string]types.AttributeValue{marshalQuotation(t, sent)}, LastEvaluatedKey: map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "q-1"}}},
			{},
		},
		string(entities.LegacyQuotationStatusSent): {
			{Items: []map[string]types.AttributeValue{marshalQuotation(t, legacy)}},
		},
	}}
	repo := NewQuotationDynamoRepository(ddb, "quotations")

	got, err := repo.FindExpirable(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "q-0", got[0].ID)
	assert.Equal(t, entities.QuotationStatusSent, got[0].Status)
	assert.Equal(t, "q-1", got[1].ID)

	require.Len(t, ddb.queries, 3)
	assert.Equal(t, formatTime(now), ddb.queries[0].ExpressionAttributeValues[":now"].(*types.AttributeValueMemberS).Value)
	assert.Equal(t, StatusIndex, aws.ToString(ddb.queries[0].IndexName))
}

func TestQuotationDynamoRepository_ExpireIfOverdue(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	entry := entities.StatusHistoryEntry{Status: entities.QuotationStatusExpired, Reason: "validity ended", Timestamp: now}

	t.Run("expires", func(t *testing.T) {
		expired := sampleQuotation()
		expired.Status = entities.QuotationStatusExpired
		expired.StatusHistory = append(expired.StatusHistory, entry)
		expired.Version = 4
		ddb := &stubDynamo{updateOut: &dynamodb.UpdateItemOutput{Attributes: marshalQuotation(t, expired)}}
		repo := NewQuotationDynamoRepository(ddb, "quotations")

		got, err := repo.ExpireIfOverdue(context.Background(), "q-1", entry)
		require.NoError(t, err)
		assert.Equal(t, entities.QuotationStatusExpired, got.Status)
		assert.Nil(t, got.StatusHistory[1].ChangedBy)

		in := ddb.updates[0]
		assert.Equal(t, types.ReturnValueAllNew, in.ReturnValues)
		assert.Contains(t, aws.ToString(in.ConditionExpression), "#valid_until < :now")
		assert.Equal(t, formatTime(now), in.ExpressionAttributeValues[":now"].(*types.AttributeValueMemberS).Value)
	})

	t.Run("condition not met", func(t *testing.T) {
		ddb := &stubDynamo{updateErr: &types.ConditionalCheckFailedException{Message: aws.String("failed")}}
		repo := NewQuotationDynamoRepository(ddb, "quotations")

		_, err := repo.ExpireIfOverdue(context.Background(), "q-1", entry)
		assert.ErrorIs(t, err, interfaces.ErrConditionNotMet)
	})

	t.Run("store failure", func(t *testing.T) {
		ddb := &stubDynamo{updateErr: errors.New("timeout")}
		repo := NewQuotationDynamoRepository(ddb, "quotations")

		_, err := repo.ExpireIfOverdue(context.Background(), "q-1", entry)
		assert.ErrorIs(t, err, interfaces.ErrStore)
	})
}

func TestWarehouseDynamoRepository(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	w := entities.Warehouse{ID: "w-1", Code: "RTM1", Name: "Rotterdam Main", Address: entities.Address{Line1: "1 Dock Rd", City: "Rotterdam", Country: "NL"}, CreatedAt: now, UpdatedAt: now}

	t.Run("create writes guards", func(t *testing.T) {
		ddb := &stubDynamo{}
		repo := NewWarehouseDynamoRepository(ddb, "warehouses")

		_, err := repo.Create(context.Background(), w)
		require.NoError(t, err)
		items := ddb.transactions[0].TransactItems
		require.Len(t, items, 3)
		assert.Equal(t, "CODE#RTM1", items[1].Put.Item["id"].(*types.AttributeValueMemberS).Value)
		assert.Equal(t, "NAME#rotterdam main", items[2].Put.Item["id"].(*types.AttributeValueMemberS).Value)
	})

	t.Run("duplicate name", func(t *testing.T) {
		ddb := &stubDynamo{transactErr: canceledAt(3, 2)}
		repo := NewWarehouseDynamoRepository(ddb, "warehouses")

		_, err := repo.Create(context.Background(), w)
		var dup *interfaces.DuplicateKeyError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "name", dup.Field)
	})

	t.Run("list sorts by code", func(t *testing.T) {
		other := w
		other.ID, other.Code, other.Name = "w-2", "AMS1", "Amsterdam"
		mk := func(x entities.Warehouse) map[string]types.AttributeValue {
			av, err := attributevalue.MarshalMap(warehouseItem{ID: x.ID, Code: x.Code, Name: x.Name, Address: x.Address, CreatedAt: formatTime(x.CreatedAt)})
			require.NoError(t, err)
			return av
		}
		ddb := &stubDynamo{scanOut: []*dynamodb.ScanOutput{{Items: []map[string]types.AttributeValue{mk(w), mk(other)}}}}
		repo := NewWarehouseDynamoRepository(ddb, "warehouses")

		got, err := repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "AMS1", got[0].Code)
		assert.Equal(t, "RTM1", got[1].Code)
	})

	t.Run("get missing", func(t *testing.T) {
		repo := NewWarehouseDynamoRepository(&stubDynamo{}, "warehouses")

		got, err := repo.GetByID(context.Background(), "w-9")
		require.NoError(t, err)
		assert.Empty(t, got.ID)
	})
}

func TestUserDynamoRepository(t *testing.T) {
	u := entities.User{ID: "u-1", Email: " Ana@Example.com ", Name: "Ana", Role: entities.RoleManager, PasswordHash: "hash", CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}

	t.Run("create normalizes email", func(t *testing.T) {
		ddb := &stubDynamo{}
		repo := NewUserDynamoRepository(ddb, "users")

		created, err := repo.Create(context.Background(), u)
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", created.Email)
		guard := ddb.transactions[0].TransactItems[1].Put.Item
		assert.Equal(t, "EMAIL#ana@example.com", guard["id"].(*types.AttributeValueMemberS).Value)
	})

	t.Run("duplicate email", func(t *testing.T) {
		ddb := &stubDynamo{transactErr: canceledAt(2, 1)}
		repo := NewUserDynamoRepository(ddb, "users")

		_, err := repo.Create(context.Background(), u)
		var dup *interfaces.DuplicateKeyError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "email", dup.Field)
	})

	t.Run("get by email follows guard", func(t *testing.T) {
		av, err := attributevalue.MarshalMap(userItem{ID: "u-1", Email: "ana@example.com", Name: "Ana", Role: "manager", PasswordHash: "hash"})
		require.NoError(t, err)
		ddb := &stubDynamo{getItems: map[string]map[string]types.AttributeValue{
			"EMAIL#ana@example.com": {"id": &types.AttributeValueMemberS{Value: "EMAIL#ana@example.com"}, "user_id": &types.AttributeValueMemberS{Value: "u-1"}},
			"u-1":                   av,
		}}
		repo := NewUserDynamoRepository(ddb, "users")

		got, err := repo.GetByEmail(context.Background(), "ANA@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u-1", got.ID)
		assert.Equal(t, entities.RoleManager, got.Role)
		assert.Equal(t, "hash", got.PasswordHash)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := NewUserDynamoRepository(&stubDynamo{}, "users")

		got, err := repo.GetByEmail(context.Background(), "nobody@example.com")
		require.NoError(t, err)
		assert.Empty(t, got.ID)
	})
}

func TestTimeHelpers(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 6, time.FixedZone("X", 3600))
	s := formatTime(ts)
	assert.Equal(t, "2026-01-02T02:04:05.000000006Z", s)
	assert.True(t, ts.Equal(parseTime(s)))
	assert.True(t, ts.Equal(parseTime(ts.Format(time.RFC3339Nano))))
	assert.Empty(t, formatTime(time.Time{}))
	assert.Nil(t, parseTimePtr(""))
}
