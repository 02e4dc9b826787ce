package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
	"go.uber.org/zap"

	"github.com/bobrnor/crawlinit/internal/model"
)

// SQSPublisher sends one message per crawl request to an SQS queue.
type SQSPublisher struct {
	client   sqsiface.SQSAPI
	queueURL string
	sender   string
	logger   *zap.Logger
}

func NewSQSPublisher(s *session.Session, queueURL, sender string, logger *zap.Logger) *SQSPublisher {
	return NewSQSPublisherWithClient(sqs.New(s), queueURL, sender, logger)
}

func NewSQSPublisherWithClient(client sqsiface.SQSAPI, queueURL, sender string, logger *zap.Logger) *SQSPublisher {
	return &SQSPublisher{
		client:   client,
		queueURL: queueURL,
		sender:   sender,
		logger:   logger,
	}
}

func (p *SQSPublisher) Publish(ctx context.Context, msg model.CrawlMessage) (string, error) {
	encodedBody, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("marshal crawl message: %w", err)
	}

	result, err := p.client.SendMessageWithContext(ctx, &sqs.SendMessageInput{
		MessageAttributes: map[string]*sqs.MessageAttributeValue{
			"Sender": {
				DataType:    aws.String("String"),
				StringValue: aws.String(p.sender),
			},
			"RunId": {
				DataType:    aws.String("String"),
				StringValue: aws.String(msg.RunID),
			},
		},
		MessageBody: aws.String(string(encodedBody)),
		QueueUrl:    aws.String(p.queueURL),
	})
	if err != nil {
		return "", fmt.Errorf("send message to %s: %w", p.queueURL, err)
	}

	id := aws.StringValue(result.MessageId)
	p.logger.Info("url enqueued",
		zap.String("messageId", id),
		zap.String("url", msg.VisitedURL),
		zap.String("runId", msg.RunID))
	return id, nil
}
