package messaging

import (
	"context"
	"fmt"
	"log"

	"propostas_service/internal/domain/entities"
	"propostas_service/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQSSender is the subset of *sqs.Client the notifier needs.
type SQSSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSNotifier publishes notifications to an SQS queue consumed by the mail
// relay.
type SQSNotifier struct {
	client        SQSSender
	queueURL      string
	publicBaseURL string
}

var _ interfaces.INotifier = (*SQSNotifier)(nil)

func NewSQSClient(awsCfg aws.Config, endpoint string) *sqs.Client {
	return sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

func NewSQSNotifier(client SQSSender, queueURL, publicBaseURL string) *SQSNotifier {
	return &SQSNotifier{client: client, queueURL: queueURL, publicBaseURL: publicBaseURL}
}

func (n *SQSNotifier) Notify(ctx context.Context, kind entities.AuditEventKind, p entities.Proposal, recipient string) error {
	body, err := NewMessage(kind, p, recipient, n.publicBaseURL).Encode()
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	out, err := n.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(n.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event": {DataType: aws.String("String"), StringValue: aws.String(string(kind))},
		},
	})
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	log.Printf("[notify][sqs] sent event=%s proposal_id=%s message_id=%s", kind, p.ID, aws.ToString(out.MessageId))
	return nil
}
