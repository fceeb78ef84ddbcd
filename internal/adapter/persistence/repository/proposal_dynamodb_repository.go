package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"propostas_service/internal/domain/entities"
	"propostas_service/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	DefaultProposalsTableName = "proposals"
	DefaultCountersTableName  = "counters"

	proposalsTokenIndex = "access_token-index"
	proposalNumberKey   = "proposal_number"
)

// proposalItem flattens a Proposal. Owned lists and the signature are kept
// as JSON strings; access_token is omitted when empty so the token index
// stays sparse.
type proposalItem struct {
	ID                 string `dynamodbav:"id"`
	Number             int64  `dynamodbav:"number"`
	ClientID           string `dynamodbav:"client_id"`
	ClientName         string `dynamodbav:"client_name"`
	ClientContactEmail string `dynamodbav:"client_contact_email"`
	CreatedBy          string `dynamodbav:"created_by"`
	Title              string `dynamodbav:"title"`
	Scope              string `dynamodbav:"scope"`
	Terms              string `dynamodbav:"terms"`
	Stages             string `dynamodbav:"stages"`
	Materials          string `dynamodbav:"materials"`
	EstimatedValue     string `dynamodbav:"estimated_value"`
	Margin             string `dynamodbav:"margin"`
	Price              string `dynamodbav:"price"`
	Status             string `dynamodbav:"status"`
	SentAt             string `dynamodbav:"sent_at,omitempty"`
	SignedAt           string `dynamodbav:"signed_at,omitempty"`
	ApprovedAt         string `dynamodbav:"approved_at,omitempty"`
	CancelledAt        string `dynamodbav:"cancelled_at,omitempty"`
	CancelReason       string `dynamodbav:"cancel_reason,omitempty"`
	DeletedAt          string `dynamodbav:"deleted_at,omitempty"`
	AccessToken        string `dynamodbav:"access_token,omitempty"`
	TokenExpiresAt     string `dynamodbav:"token_expires_at,omitempty"`
	TokenExpiresUnix   int64  `dynamodbav:"token_expires_unix,omitempty"`
	Signature          string `dynamodbav:"signature,omitempty"`
	Approval           string `dynamodbav:"approval,omitempty"`
	Version            int64  `dynamodbav:"version"`
	CreatedAt          string `dynamodbav:"created_at"`
	UpdatedAt          string `dynamodbav:"updated_at"`
}

// ProposalDynamoRepository persists Proposal entities in DynamoDB.
//
// Table requirements:
//   - proposals PK: id (string)
//   - GSI: access_token-index (PK: access_token), sparse
//   - counters PK: name (string)
type ProposalDynamoRepository struct {
	ddb           *dynamodb.Client
	tableName     string
	countersTable string
	auditTable    string
}

var _ interfaces.IAtomicProposalRepository = (*ProposalDynamoRepository)(nil)

func NewProposalDynamoRepository(ddb *dynamodb.Client, tableName, countersTable, auditTable string) *ProposalDynamoRepository {
	if tableName == "" {
		tableName = DefaultProposalsTableName
	}
	if countersTable == "" {
		countersTable = DefaultCountersTableName
	}
	if auditTable == "" {
		auditTable = DefaultAuditEventsTableName
	}
	return &ProposalDynamoRepository{
		ddb:           ddb,
		tableName:     tableName,
		countersTable: countersTable,
		auditTable:    auditTable,
	}
}

func (r *ProposalDynamoRepository) NextNumber(ctx context.Context) (int64, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.countersTable),
		Key: map[string]types.AttributeValue{
			"name": &types.AttributeValueMemberS{Value: proposalNumberKey},
		},
		UpdateExpression:         aws.String("ADD #value :one"),
		ExpressionAttributeNames: map[string]string{"#value": "value"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, err
	}
	v, ok := out.Attributes["value"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("counter %s: unexpected attribute %T", proposalNumberKey, out.Attributes["value"])
	}
	return strconv.ParseInt(v.Value, 10, 64)
}

func (r *ProposalDynamoRepository) Create(ctx context.Context, p entities.Proposal) (entities.Proposal, error) {
	av, err := marshalProposal(p)
	if err != nil {
		return entities.Proposal{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Proposal{}, err
	}
	return p, nil
}

func (r *ProposalDynamoRepository) GetByID(ctx context.Context, id string) (entities.Proposal, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Proposal{}, err
	}
	if len(out.Item) == 0 {
		return entities.Proposal{}, nil
	}
	return unmarshalProposal(out.Item)
}

// GetByToken queries the eventually consistent token index, then re-reads
// the row consistently and checks the token still matches.
func (r *ProposalDynamoRepository) GetByToken(ctx context.Context, token string) (entities.Proposal, error) {
	if token == "" {
		return entities.Proposal{}, nil
	}
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(proposalsTokenIndex),
		KeyConditionExpression: aws.String("access_token = :token"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":token": &types.AttributeValueMemberS{Value: token},
		},
		ProjectionExpression: aws.String("id"),
	})
	if err != nil {
		return entities.Proposal{}, err
	}

	for _, raw := range out.Items {
		var ref struct {
			ID string `dynamodbav:"id"`
		}
		if err := attributevalue.UnmarshalMap(raw, &ref); err != nil {
			return entities.Proposal{}, err
		}
		p, err := r.GetByID(ctx, ref.ID)
		if err != nil {
			return entities.Proposal{}, err
		}
		if p.AccessToken == token {
			return p, nil
		}
	}
	return entities.Proposal{}, nil
}

func (r *ProposalDynamoRepository) CompareAndSwap(ctx context.Context, next entities.Proposal, cond interfaces.SwapCondition) (entities.Proposal, error) {
	put, err := r.conditionalPut(next, cond)
	if err != nil {
		return entities.Proposal{}, err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 put.TableName,
		Item:                      put.Item,
		ConditionExpression:       put.ConditionExpression,
		ExpressionAttributeNames:  put.ExpressionAttributeNames,
		ExpressionAttributeValues: put.ExpressionAttributeValues,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Proposal{}, interfaces.ErrPreconditionFailed
		}
		return entities.Proposal{}, err
	}
	return next, nil
}

// CompareAndSwapWithEvent writes the proposal and inserts the audit event
// in one TransactWriteItems call.
func (r *ProposalDynamoRepository) CompareAndSwapWithEvent(ctx context.Context, next entities.Proposal, cond interfaces.SwapCondition, event entities.AuditEvent) (entities.Proposal, error) {
	put, err := r.conditionalPut(next, cond)
	if err != nil {
		return entities.Proposal{}, err
	}
	eventAV, err := marshalAuditEvent(event)
	if err != nil {
		return entities.Proposal{}, err
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: put},
			{Put: &types.Put{
				TableName:                aws.String(r.auditTable),
				Item:                     eventAV,
				ConditionExpression:      aws.String("attribute_not_exists(#sk)"),
				ExpressionAttributeNames: map[string]string{"#sk": "sk"},
			}},
		},
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) && len(tce.CancellationReasons) > 0 &&
			aws.ToString(tce.CancellationReasons[0].Code) == "ConditionalCheckFailed" {
			return entities.Proposal{}, interfaces.ErrPreconditionFailed
		}
		return entities.Proposal{}, err
	}
	return next, nil
}

func (r *ProposalDynamoRepository) conditionalPut(next entities.Proposal, cond interfaces.SwapCondition) (*types.Put, error) {
	av, err := marshalProposal(next)
	if err != nil {
		return nil, err
	}
	expr := "attribute_exists(#id) AND attribute_not_exists(#deleted_at) AND #status = :cond_status AND #version = :cond_version"
	names := map[string]string{
		"#id":         "id",
		"#deleted_at": "deleted_at",
		"#status":     "status",
		"#version":    "version",
	}
	values := map[string]types.AttributeValue{
		":cond_status":  &types.AttributeValueMemberS{Value: string(cond.Status)},
		":cond_version": &types.AttributeValueMemberN{Value: strconv.FormatInt(cond.Version, 10)},
	}
	if cond.Token != "" {
		expr += " AND #access_token = :cond_token"
		names = mergeNames(names, map[string]string{"#access_token": "access_token"})
		values[":cond_token"] = &types.AttributeValueMemberS{Value: cond.Token}
	}
	return &types.Put{
		TableName:                 aws.String(r.tableName),
		Item:                      av,
		ConditionExpression:       aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}, nil
}

func (r *ProposalDynamoRepository) ListWithTokenExpiredBefore(ctx context.Context, before time.Time, limit int) ([]entities.Proposal, error) {
	var (
		out   []entities.Proposal
		start map[string]types.AttributeValue
	)
	for {
		page, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(r.tableName),
			FilterExpression: aws.String("attribute_exists(#access_token) AND #token_expires_unix < :before"),
			ExpressionAttributeNames: map[string]string{
				"#access_token":       "access_token",
				"#token_expires_unix": "token_expires_unix",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":before": &types.AttributeValueMemberN{Value: strconv.FormatInt(before.UTC().Unix(), 10)},
			},
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			p, err := unmarshalProposal(raw)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
			if limit > 0 && len(out) >= limit {
				return out, nil
			}
		}
		if len(page.LastEvaluatedKey) == 0 {
			return out, nil
		}
		start = page.LastEvaluatedKey
	}
}

func marshalProposal(p entities.Proposal) (map[string]types.AttributeValue, error) {
	it, err := toProposalItem(p)
	if err != nil {
		return nil, err
	}
	return attributevalue.MarshalMap(it)
}

func unmarshalProposal(raw map[string]types.AttributeValue) (entities.Proposal, error) {
	var it proposalItem
	if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
		return entities.Proposal{}, err
	}
	return fromProposalItem(it)
}

func toProposalItem(p entities.Proposal) (proposalItem, error) {
	stages, err := json.Marshal(p.Stages)
	if err != nil {
		return proposalItem{}, err
	}
	materials, err := json.Marshal(p.Materials)
	if err != nil {
		return proposalItem{}, err
	}
	it := proposalItem{
		ID:                 p.ID,
		Number:             p.Number,
		ClientID:           p.ClientID,
		ClientName:         p.ClientName,
		ClientContactEmail: p.ClientContactEmail,
		CreatedBy:          p.CreatedBy,
		Title:              p.Title,
		Scope:              p.Scope,
		Terms:              p.Terms,
		Stages:             string(stages),
		Materials:          string(materials),
		EstimatedValue:     floatToString(p.EstimatedValue),
		Margin:             floatToString(p.Margin),
		Price:              floatToString(p.Price),
		Status:             string(p.Status),
		SentAt:             formatTimePtr(p.SentAt),
		SignedAt:           formatTimePtr(p.SignedAt),
		ApprovedAt:         formatTimePtr(p.ApprovedAt),
		CancelledAt:        formatTimePtr(p.CancelledAt),
		CancelReason:       p.CancelReason,
		DeletedAt:          formatTimePtr(p.DeletedAt),
		AccessToken:        p.AccessToken,
		TokenExpiresAt:     formatTimePtr(p.TokenExpiresAt),
		Version:            p.Version,
		CreatedAt:          formatTime(p.CreatedAt),
		UpdatedAt:          formatTime(p.UpdatedAt),
	}
	if p.TokenExpiresAt != nil {
		it.TokenExpiresUnix = p.TokenExpiresAt.UTC().Unix()
	}
	if p.Signature != nil {
		b, err := json.Marshal(p.Signature)
		if err != nil {
			return proposalItem{}, err
		}
		it.Signature = string(b)
	}
	if p.Approval != nil {
		b, err := json.Marshal(p.Approval)
		if err != nil {
			return proposalItem{}, err
		}
		it.Approval = string(b)
	}
	return it, nil
}

func fromProposalItem(it proposalItem) (entities.Proposal, error) {
	p := entities.Proposal{
		ID:                 it.ID,
		Number:             it.Number,
		ClientID:           it.ClientID,
		ClientName:         it.ClientName,
		ClientContactEmail: it.ClientContactEmail,
		CreatedBy:          it.CreatedBy,
		Title:              it.Title,
		Scope:              it.Scope,
		Terms:              it.Terms,
		EstimatedValue:     parseFloat(it.EstimatedValue),
		Margin:             parseFloat(it.Margin),
		Price:              parseFloat(it.Price),
		Status:             entities.ProposalStatus(it.Status),
		SentAt:             parseTimePtr(it.SentAt),
		SignedAt:           parseTimePtr(it.SignedAt),
		ApprovedAt:         parseTimePtr(it.ApprovedAt),
		CancelledAt:        parseTimePtr(it.CancelledAt),
		CancelReason:       it.CancelReason,
		DeletedAt:          parseTimePtr(it.DeletedAt),
		AccessToken:        it.AccessToken,
		TokenExpiresAt:     parseTimePtr(it.TokenExpiresAt),
		Version:            it.Version,
		CreatedAt:          parseTime(it.CreatedAt),
		UpdatedAt:          parseTime(it.UpdatedAt),
	}
	if err := unmarshalJSONField(it.Stages, &p.Stages); err != nil {
		return entities.Proposal{}, fmt.Errorf("proposal %s stages: %w", it.ID, err)
	}
	if err := unmarshalJSONField(it.Materials, &p.Materials); err != nil {
		return entities.Proposal{}, fmt.Errorf("proposal %s materials: %w", it.ID, err)
	}
	if it.Signature != "" {
		p.Signature = &entities.Signature{}
		if err := json.Unmarshal([]byte(it.Signature), p.Signature); err != nil {
			return entities.Proposal{}, fmt.Errorf("proposal %s signature: %w", it.ID, err)
		}
	}
	if it.Approval != "" {
		p.Approval = &entities.Approval{}
		if err := json.Unmarshal([]byte(it.Approval), p.Approval); err != nil {
			return entities.Proposal{}, fmt.Errorf("proposal %s approval: %w", it.ID, err)
		}
	}
	return p, nil
}

func unmarshalJSONField(raw string, dst any) error {
	if raw == "" || raw == "null" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}
