package repository

import (
	"context"
	"fmt"
	"sort"

	"cargo_quotes/internal/domain/entities"
	"cargo_quotes/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	warehouseCodeGuardPrefix = "CODE#"
	warehouseNameGuardPrefix = "NAME#"
)

type warehouseItem struct {
	ID        string           `dynamodbav:"id"`
	Code      string           `dynamodbav:"code"`
	Name      string           `dynamodbav:"name"`
	Address   entities.Address `dynamodbav:"address"`
	CreatedAt string           `dynamodbav:"created_at"`
	UpdatedAt string           `dynamodbav:"updated_at"`
}

// WarehouseDynamoRepository persists Warehouse entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
type WarehouseDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IWarehouseRepository = (*WarehouseDynamoRepository)(nil)

func NewWarehouseDynamoRepository(ddb DynamoAPI, tableName string) *WarehouseDynamoRepository {
	return &WarehouseDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *WarehouseDynamoRepository) Create(ctx context.Context, w entities.Warehouse) (entities.Warehouse, error) {
	av, err := attributevalue.MarshalMap(warehouseItem{
		ID:        w.ID,
		Code:      w.Code,
		Name:      w.Name,
		Address:   w.Address,
		CreatedAt: formatTime(w.CreatedAt),
		UpdatedAt: formatTime(w.UpdatedAt),
	})
	if err != nil {
		return entities.Warehouse{}, fmt.Errorf("marshal warehouse: %w", err)
	}
	guard := func(key string) map[string]types.AttributeValue {
		return map[string]types.AttributeValue{
			"id":           &types.AttributeValueMemberS{Value: key},
			"warehouse_id": &types.AttributeValueMemberS{Value: w.ID},
		}
	}
	put := func(item map[string]types.AttributeValue) types.TransactWriteItem {
		return types.TransactWriteItem{Put: &types.Put{
			TableName:                aws.String(r.tableName),
			Item:                     item,
			ConditionExpression:      aws.String("attribute_not_exists(#id)"),
			ExpressionAttributeNames: map[string]string{"#id": "id"},
		}}
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			put(av),
			put(guard(warehouseCodeGuardPrefix + entities.NormalizeWarehouseCode(w.Code))),
			put(guard(warehouseNameGuardPrefix + entities.NormalizeWarehouseName(w.Name))),
		},
	})
	if err != nil {
		if failed, ok := canceledConditions(err); ok {
			switch failed[0] {
			case 0:
				return entities.Warehouse{}, &interfaces.DuplicateKeyError{Field: "id", Value: w.ID}
			case 1:
				return entities.Warehouse{}, &interfaces.DuplicateKeyError{Field: "code", Value: w.Code}
			default:
				return entities.Warehouse{}, &interfaces.DuplicateKeyError{Field: "name", Value: w.Name}
			}
		}
		return entities.Warehouse{}, storeError("create warehouse", err)
	}
	return w, nil
}

func (r *WarehouseDynamoRepository) GetByID(ctx context.Context, id string) (entities.Warehouse, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            stringKey("id", id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Warehouse{}, storeError("get warehouse", err)
	}
	// Guard items share the table but carry no code attribute.
	if len(out.Item) == 0 || out.Item["code"] == nil {
		return entities.Warehouse{}, nil
	}
	return unmarshalWarehouse(out.Item)
}

// List returns every warehouse ordered by code.
func (r *WarehouseDynamoRepository) List(ctx context.Context) ([]entities.Warehouse, error) {
	paginator := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{
		TableName:                aws.String(r.tableName),
		FilterExpression:         aws.String("attribute_exists(#code)"),
		ExpressionAttributeNames: map[string]string{"#code": "code"},
	})
	out := []entities.Warehouse{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, storeError("list warehouses", err)
		}
		for _, raw := range page.Items {
			w, err := unmarshalWarehouse(raw)
			if err != nil {
				return nil, err
			}
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func unmarshalWarehouse(raw map[string]types.AttributeValue) (entities.Warehouse, error) {
	var it warehouseItem
	if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
		return entities.Warehouse{}, fmt.Errorf("unmarshal warehouse: %w", err)
	}
	return entities.Warehouse{
		ID:        it.ID,
		Code:      it.Code,
		Name:      it.Name,
		Address:   it.Address,
		CreatedAt: parseTime(it.CreatedAt),
		UpdatedAt: parseTime(it.UpdatedAt),
	}, nil
}
