package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"go-todo/pkg/log"
)

// MessageHandler processes one pub/sub payload. Errors are logged and counted; pub/sub has no redelivery.
type MessageHandler interface {
	HandleMessage(ctx context.Context, channel string, message string) error
}

// HandlerFunc adapts a function to MessageHandler
type HandlerFunc func(ctx context.Context, channel string, message string) error

func (f HandlerFunc) HandleMessage(ctx context.Context, channel string, message string) error {
	return f(ctx, channel, message)
}

// PubSubConfig is shared by publishers and subscribers of the same channels
type PubSubConfig struct {
	// PoolSize is the number of concurrent message handlers
	PoolSize int
	// ChannelNamespace prefixes every channel as namespace::channel
	ChannelNamespace string
}

func NewPubSubConfig() *PubSubConfig {
	return &PubSubConfig{PoolSize: 1}
}

func (psc *PubSubConfig) WithPoolSize(poolSize int) *PubSubConfig {
	psc.PoolSize = poolSize
	return psc
}

func (psc *PubSubConfig) WithChannelNamespace(namespace string) *PubSubConfig {
	psc.ChannelNamespace = namespace
	return psc
}

func (psc *PubSubConfig) channelName(channel string) string {
	if psc.ChannelNamespace != "" {
		return psc.ChannelNamespace + "::" + channel
	}
	return channel
}

// Publisher publishes JSON payloads on namespaced channels
type Publisher struct {
	client *Client
	config *PubSubConfig
}

func NewPublisher(client *Client, config *PubSubConfig) *Publisher {
	if config == nil {
		config = NewPubSubConfig()
	}
	return &Publisher{client: client, config: config}
}

// PublishJSON returns the number of subscribers that received the message
func (p *Publisher) PublishJSON(ctx context.Context, channel string, message any) (int64, error) {
	payload, err := json.Marshal(message)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal message to JSON: %w", err)
	}
	return p.client.rdb.Publish(ctx, p.config.channelName(channel), payload).Result()
}

// Subscriber reads namespaced channels and hands payloads to a pool of handlers
type Subscriber struct {
	client   *Client
	config   *PubSubConfig
	handler  MessageHandler
	channels []string

	running   atomic.Bool
	processed atomic.Int64
	failed    atomic.Int64

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewSubscriber(client *Client, handler MessageHandler, config *PubSubConfig, channels ...string) (*Subscriber, error) {
	if config == nil {
		config = NewPubSubConfig()
	}

	var errs []error
	if config.PoolSize < 1 {
		errs = append(errs, errors.New("pool size must be greater than 0"))
	}
	if len(channels) == 0 {
		errs = append(errs, errors.New("at least one channel is required"))
	}
	if handler == nil {
		errs = append(errs, errors.New("handler is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	namespaced := make([]string, len(channels))
	for i, channel := range channels {
		namespaced[i] = config.channelName(channel)
	}

	return &Subscriber{client: client, config: config, handler: handler, channels: namespaced}, nil
}

// Start subscribes and blocks until the context is canceled or Stop is called.
func (s *Subscriber) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	sub := s.client.rdb.Subscribe(ctx, s.channels...)
	defer func() { _ = sub.Close() }()

	s.running.Store(true)
	defer s.running.Store(false)

	messages := sub.Channel()

	var wg sync.WaitGroup
	for i := 0; i < s.config.PoolSize; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case m, ok := <-messages:
					if !ok {
						return
					}
					s.handle(ctx, m.Channel, m.Payload)
				}
			}
		}()
	}
	wg.Wait()
}

func (s *Subscriber) handle(ctx context.Context, channel, payload string) {
	if err := s.handler.HandleMessage(ctx, channel, payload); err != nil {
		s.failed.Add(1)
		log.Error("error processing redis message", zap.String("channel", channel), zap.Error(err))
		return
	}
	s.processed.Add(1)
}

// Stop cancels a running subscriber. Safe to call more than once.
func (s *Subscriber) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// HealthDetails reports whether the subscriber is running, with its counters
func (s *Subscriber) HealthDetails() (bool, map[string]string) {
	health := s.Health()
	return health.Up, health.Details
}

func (s *Subscriber) Health() Health {
	return Health{
		Up: s.running.Load(),
		Details: map[string]string{
			"channels":           strings.Join(s.channels, ","),
			"pool_size":          strconv.Itoa(s.config.PoolSize),
			"messages_processed": strconv.FormatInt(s.processed.Load(), 10),
			"messages_failed":    strconv.FormatInt(s.failed.Load(), 10),
		},
	}
}
