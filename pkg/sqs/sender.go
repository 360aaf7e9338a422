package sqs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQSClient defines the subset of the SQS API used by Sender and Worker
type SQSClient interface {
	GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

var _ SQSClient = (*sqs.Client)(nil)

// Message is an outgoing message. Body is sent as JSON.
type Message struct {
	Body       any
	Attributes map[string]string
	// GroupID and DeduplicationID are only sent to FIFO queues
	GroupID         string
	DeduplicationID string
}

// Sender sends JSON messages, caching queue URLs by name
type Sender struct {
	sqsClient SQSClient
	queueURLs sync.Map
}

func NewSender(sqsClient SQSClient) *Sender {
	return &Sender{sqsClient: sqsClient}
}

// IsFIFO reports whether queueName names a FIFO queue
func IsFIFO(queueName string) bool {
	return strings.HasSuffix(queueName, ".fifo")
}

func (s *Sender) Send(ctx context.Context, queueName string, message Message) error {
	queueURL, err := s.queueURL(ctx, queueName)
	if err != nil {
		return fmt.Errorf("failed to get queue URL for %s: %w", queueName, err)
	}

	body, err := json.Marshal(message.Body)
	if err != nil {
		return fmt.Errorf("failed to serialize message body to JSON: %w", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(queueURL),
		MessageBody: aws.String(string(body)),
	}
	if len(message.Attributes) > 0 {
		input.MessageAttributes = make(map[string]types.MessageAttributeValue, len(message.Attributes))
		for name, value := range message.Attributes {
			input.MessageAttributes[name] = types.MessageAttributeValue{
				DataType:    aws.String("String"),
				StringValue: aws.String(value),
			}
		}
	}
	if IsFIFO(queueName) {
		input.MessageGroupId = aws.String(message.GroupID)
		if message.DeduplicationID != "" {
			input.MessageDeduplicationId = aws.String(message.DeduplicationID)
		}
	}

	if _, err = s.sqsClient.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("failed to send message to queue %s: %w", queueName, err)
	}
	return nil
}

func (s *Sender) queueURL(ctx context.Context, queueName string) (string, error) {
	if url, ok := s.queueURLs.Load(queueName); ok {
		return url.(string), nil
	}
	url, err := resolveQueueURL(ctx, s.sqsClient, queueName)
	if err != nil {
		return "", err
	}
	s.queueURLs.Store(queueName, url)
	return url, nil
}

func resolveQueueURL(ctx context.Context, client SQSClient, queueName string) (string, error) {
	result, err := client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{QueueName: aws.String(queueName)})
	if err != nil {
		return "", err
	}
	if result.QueueUrl == nil {
		return "", fmt.Errorf("queue URL is nil for queue %s", queueName)
	}
	return *result.QueueUrl, nil
}
