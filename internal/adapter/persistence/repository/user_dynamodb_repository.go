package repository

import (
	"context"
	"fmt"

	"cargo_quotes/internal/domain/entities"
	"cargo_quotes/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const userEmailGuardPrefix = "EMAIL#"

type userItem struct {
	ID           string `dynamodbav:"id"`
	Email        string `dynamodbav:"email"`
	Name         string `dynamodbav:"name"`
	Role         string `dynamodbav:"role"`
	PasswordHash string `dynamodbav:"password_hash"`
	CreatedAt    string `dynamodbav:"created_at"`
}

// UserDynamoRepository persists User entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// Each user has a companion item "EMAIL#<email>" holding user_id, which keeps
// emails unique and serves lookups by email without an index.
type UserDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IUserRepository = (*UserDynamoRepository)(nil)

func NewUserDynamoRepository(ddb DynamoAPI, tableName string) *UserDynamoRepository {
	return &UserDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *UserDynamoRepository) Create(ctx context.Context, u entities.User) (entities.User, error) {
	u.Email = entities.NormalizeEmail(u.Email)
	av, err := attributevalue.MarshalMap(userItem{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         string(u.Role),
		PasswordHash: u.PasswordHash,
		CreatedAt:    formatTime(u.CreatedAt),
	})
	if err != nil {
		return entities.User{}, fmt.Errorf("marshal user: %w", err)
	}
	guard := map[string]types.AttributeValue{
		"id":      &types.AttributeValueMemberS{Value: userEmailGuardPrefix + u.Email},
		"user_id": &types.AttributeValueMemberS{Value: u.ID},
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
				return entities.User{}, &interfaces.DuplicateKeyError{Field: "id", Value: u.ID}
			}
			return entities.User{}, &interfaces.DuplicateKeyError{Field: "email", Value: u.Email}
		}
		return entities.User{}, storeError("create user", err)
	}
	return u, nil
}

func (r *UserDynamoRepository) GetByID(ctx context.Context, id string) (entities.User, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            stringKey("id", id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.User{}, storeError("get user", err)
	}
	if len(out.Item) == 0 || out.Item["email"] == nil {
		return entities.User{}, nil
	}
	var it userItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.User{}, fmt.Errorf("unmarshal user: %w", err)
	}
	return entities.User{
		ID:           it.ID,
		Email:        it.Email,
		Name:         it.Name,
		Role:         entities.Role(it.Role),
		PasswordHash: it.PasswordHash,
		CreatedAt:    parseTime(it.CreatedAt),
	}, nil
}

func (r *UserDynamoRepository) GetByEmail(ctx context.Context, email string) (entities.User, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            stringKey("id", userEmailGuardPrefix+entities.NormalizeEmail(email)),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.User{}, storeError("get user by email", err)
	}
	ref, ok := out.Item["user_id"].(*types.AttributeValueMemberS)
	if !ok || ref.Value == "" {
		return entities.User{}, nil
	}
	return r.GetByID(ctx, ref.Value)
}
