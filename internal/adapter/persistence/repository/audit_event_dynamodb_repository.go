package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"propostas_service/internal/domain/entities"
	"propostas_service/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const DefaultAuditEventsTableName = "audit_events"

type auditEventItem struct {
	ProposalID     string         `dynamodbav:"proposal_id"`
	SK             string         `dynamodbav:"sk"`
	ID             string         `dynamodbav:"id"`
	Kind           string         `dynamodbav:"kind"`
	ActorType      string         `dynamodbav:"actor_type"`
	ActorUserID    string         `dynamodbav:"actor_user_id,omitempty"`
	ActorIP        string         `dynamodbav:"actor_ip,omitempty"`
	ActorUserAgent string         `dynamodbav:"actor_user_agent,omitempty"`
	FromStatus     string         `dynamodbav:"from_status,omitempty"`
	ToStatus       string         `dynamodbav:"to_status,omitempty"`
	Timestamp      string         `dynamodbav:"timestamp"`
	Detail         map[string]any `dynamodbav:"detail,omitempty"`
	State          string         `dynamodbav:"state"`
}

// AuditEventDynamoRepository persists the audit trail in DynamoDB.
//
// Table requirements:
//   - PK: proposal_id (string)
//   - SK: sk (string), "<fixed width timestamp>#<event id>"
type AuditEventDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IAuditRepository = (*AuditEventDynamoRepository)(nil)

func NewAuditEventDynamoRepository(ddb *dynamodb.Client, tableName string) *AuditEventDynamoRepository {
	if tableName == "" {
		tableName = DefaultAuditEventsTableName
	}
	return &AuditEventDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *AuditEventDynamoRepository) Append(ctx context.Context, e entities.AuditEvent) error {
	av, err := marshalAuditEvent(e)
	if err != nil {
		return err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#sk)"),
		ExpressionAttributeNames: map[string]string{"#sk": "sk"},
	})
	return err
}

func (r *AuditEventDynamoRepository) ListByProposalID(ctx context.Context, proposalID string) ([]entities.AuditEvent, error) {
	var (
		events []entities.AuditEvent
		start  map[string]types.AttributeValue
	)
	for {
		out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			KeyConditionExpression: aws.String("proposal_id = :pid"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pid": &types.AttributeValueMemberS{Value: proposalID},
			},
			ScanIndexForward:  aws.Bool(true),
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, err
		}
		for _, raw := range out.Items {
			e, err := unmarshalAuditEvent(raw)
			if err != nil {
				return nil, err
			}
			events = append(events, e)
		}
		if len(out.LastEvaluatedKey) == 0 {
			return events, nil
		}
		start = out.LastEvaluatedKey
	}
}

func (r *AuditEventDynamoRepository) ListPending(ctx context.Context, olderThan time.Time) ([]entities.AuditEvent, error) {
	var (
		events []entities.AuditEvent
		start  map[string]types.AttributeValue
	)
	for {
		out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(r.tableName),
			FilterExpression: aws.String("#state = :pending AND #sk < :older"),
			ExpressionAttributeNames: map[string]string{
				"#state": "state",
				"#sk":    "sk",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pending": &types.AttributeValueMemberS{Value: string(entities.AuditEventStatePending)},
				":older":   &types.AttributeValueMemberS{Value: olderThan.UTC().Format(sortableTime)},
			},
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, err
		}
		for _, raw := range out.Items {
			e, err := unmarshalAuditEvent(raw)
			if err != nil {
				return nil, err
			}
			events = append(events, e)
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		start = out.LastEvaluatedKey
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Timestamp.Before(events[j].Timestamp) })
	return events, nil
}

// SetState only moves a pending event; anything else fails the condition.
func (r *AuditEventDynamoRepository) SetState(ctx context.Context, e entities.AuditEvent, state entities.AuditEventState) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"proposal_id": &types.AttributeValueMemberS{Value: e.ProposalID},
			"sk":          &types.AttributeValueMemberS{Value: auditSortKey(e)},
		},
		ConditionExpression: aws.String("#state = :pending"),
		UpdateExpression:    aws.String("SET #state = :state"),
		ExpressionAttributeNames: map[string]string{
			"#state": "state",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending": &types.AttributeValueMemberS{Value: string(entities.AuditEventStatePending)},
			":state":   &types.AttributeValueMemberS{Value: string(state)},
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return fmt.Errorf("audit event %s is not pending", e.ID)
		}
		return err
	}
	return nil
}

func auditSortKey(e entities.AuditEvent) string {
	return e.Timestamp.UTC().Format(sortableTime) + "#" + e.ID
}

func marshalAuditEvent(e entities.AuditEvent) (map[string]types.AttributeValue, error) {
	return attributevalue.MarshalMap(auditEventItem{
		ProposalID:     e.ProposalID,
		SK:             auditSortKey(e),
		ID:             e.ID,
		Kind:           string(e.Kind),
		ActorType:      string(e.Actor.Type),
		ActorUserID:    e.Actor.UserID,
		ActorIP:        e.Actor.IP,
		ActorUserAgent: e.Actor.UserAgent,
		FromStatus:     string(e.FromStatus),
		ToStatus:       string(e.ToStatus),
		Timestamp:      formatTime(e.Timestamp),
		Detail:         e.Detail,
		State:          string(e.State),
	})
}

func unmarshalAuditEvent(raw map[string]types.AttributeValue) (entities.AuditEvent, error) {
	var it auditEventItem
	if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
		return entities.AuditEvent{}, err
	}
	return entities.AuditEvent{
		ID:         it.ID,
		ProposalID: it.ProposalID,
		Kind:       entities.AuditEventKind(it.Kind),
		Actor: entities.Actor{
			Type:      entities.ActorType(it.ActorType),
			UserID:    it.ActorUserID,
			IP:        it.ActorIP,
			UserAgent: it.ActorUserAgent,
		},
		FromStatus: entities.ProposalStatus(it.FromStatus),
		ToStatus:   entities.ProposalStatus(it.ToStatus),
		Timestamp:  parseTime(it.Timestamp),
		Detail:     it.Detail,
		State:      entities.AuditEventState(it.State),
	}, nil
}
