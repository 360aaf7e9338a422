package sqs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"go-todo/pkg/log"
)

// HandlerFunc defines a function that handles a SQS Message
type HandlerFunc func(ctx context.Context, msg *types.Message) error

func (f HandlerFunc) HandleMessage(ctx context.Context, msg *types.Message) error {
	return f(ctx, msg)
}

// Handler processes one SQS message. A nil error deletes the message; any error leaves it
// on the queue for redelivery after the visibility timeout.
type Handler interface {
	HandleMessage(ctx context.Context, msg *types.Message) error
}

// WorkerConfig defines the configuration options for a Worker. Zero fields take the defaults:
// 10 messages per receive, 20s long polling, 1 handler, 1s pause after a failed receive and
// the queue's own visibility timeout.
type WorkerConfig struct {
	MaxNumberOfMessages int32
	WaitTimeSeconds     int32
	PoolSize            int
	ErrorDelay          time.Duration
	VisibilityTimeout   int32
}

func (c WorkerConfig) withDefaults() WorkerConfig {
	if c.MaxNumberOfMessages == 0 {
		c.MaxNumberOfMessages = 10
	}
	if c.WaitTimeSeconds == 0 {
		c.WaitTimeSeconds = 20
	}
	if c.PoolSize == 0 {
		c.PoolSize = 1
	}
	if c.ErrorDelay == 0 {
		c.ErrorDelay = time.Second
	}
	return c
}

func (c WorkerConfig) validate() error {
	var errs []error
	if c.MaxNumberOfMessages < 1 || c.MaxNumberOfMessages > 10 {
		errs = append(errs, errors.New("maxNumberOfMessages must be between 1 and 10"))
	}
	if c.WaitTimeSeconds < 1 || c.WaitTimeSeconds > 20 {
		errs = append(errs, errors.New("waitTimeSeconds must be between 1 and 20"))
	}
	if c.PoolSize < 1 {
		errs = append(errs, errors.New("poolSize must be greater than 0"))
	}
	if c.VisibilityTimeout < 0 {
		errs = append(errs, errors.New("visibilityTimeout must be non-negative"))
	}
	return errors.Join(errs...)
}

// Worker long-polls a queue and hands each message to a pool of handlers
type Worker struct {
	sqsClient SQSClient
	queueName string
	queueURL  string
	config    WorkerConfig
	handler   Handler

	running   atomic.Bool
	processed atomic.Int64
	failed    atomic.Int64
}

// NewWorker validates the config and resolves the queue URL
func NewWorker(ctx context.Context, sqsClient SQSClient, queueName string, handler Handler, config *WorkerConfig) (*Worker, error) {
	var cfg WorkerConfig
	if config != nil {
		cfg = *config
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	queueURL, err := resolveQueueURL(ctx, sqsClient, queueName)
	if err != nil {
		return nil, fmt.Errorf("unable to get queue URL: %w", err)
	}

	return &Worker{
		sqsClient: sqsClient,
		queueName: queueName,
		queueURL:  queueURL,
		config:    cfg,
		handler:   handler,
	}, nil
}

// Start blocks until ctx is canceled. Messages already received are handled before it returns.
func (w *Worker) Start(ctx context.Context) {
	w.running.Store(true)
	defer w.running.Store(false)

	jobs := make(chan *types.Message)

	var wg sync.WaitGroup
	for i := 0; i < w.config.PoolSize; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for msg := range jobs {
				w.handleMessage(ctx, msg)
			}
		}()
	}

	w.poll(ctx, jobs)
	close(jobs)
	wg.Wait()
}

func (w *Worker) poll(ctx context.Context, jobs chan<- *types.Message) {
	input := &sqs.ReceiveMessageInput{
		QueueUrl:              &w.queueURL,
		MaxNumberOfMessages:   w.config.MaxNumberOfMessages,
		WaitTimeSeconds:       w.config.WaitTimeSeconds,
		VisibilityTimeout:     w.config.VisibilityTimeout,
		MessageAttributeNames: []string{"All"},
	}

	for ctx.Err() == nil {
		output, err := w.sqsClient.ReceiveMessage(ctx, input)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error("failed to receive messages", zap.String("queue", w.queueName), zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.config.ErrorDelay):
			}
			continue
		}

		for i := range output.Messages {
			select {
			case jobs <- &output.Messages[i]:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (w *Worker) handleMessage(ctx context.Context, msg *types.Message) {
	fields := []zap.Field{zap.String("queue", w.queueName), zap.String("message_id", messageID(msg))}

	if err := w.handler.HandleMessage(ctx, msg); err != nil {
		w.failed.Add(1)
		log.Error("error processing message", append(fields, zap.Error(err))...)
		return
	}
	w.processed.Add(1)

	// detached from ctx: the handler already succeeded
	deleteCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if _, err := w.sqsClient.DeleteMessage(deleteCtx, &sqs.DeleteMessageInput{
		QueueUrl:      &w.queueURL,
		ReceiptHandle: msg.ReceiptHandle,
	}); err != nil {
		log.Error("failed to delete message", append(fields, zap.Error(err))...)
		return
	}
	log.Debug("message processed", fields...)
}

// HealthDetails reports the worker state
func (w *Worker) HealthDetails() (bool, map[string]string) {
	running := w.running.Load()
	return running, map[string]string{
		"queue":              w.queueName,
		"pool_size":          strconv.Itoa(w.config.PoolSize),
		"is_running":         strconv.FormatBool(running),
		"messages_processed": strconv.FormatInt(w.processed.Load(), 10),
		"messages_failed":    strconv.FormatInt(w.failed.Load(), 10),
	}
}

// Attribute returns a string message attribute, or "" when absent
func Attribute(msg *types.Message, name string) string {
	if msg == nil {
		return ""
	}
	if value, ok := msg.MessageAttributes[name]; ok && value.StringValue != nil {
		return *value.StringValue
	}
	return ""
}

func messageID(msg *types.Message) string {
	if msg == nil || msg.MessageId == nil {
		return ""
	}
	return *msg.MessageId
}
