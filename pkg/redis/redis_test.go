package redis

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{"defaults", NewRedisConfig(), false},
		{"empty host", NewRedisConfig().WithHost(""), true},
		{"bad port", NewRedisConfig().WithPort(0), true},
		{"bad database", NewRedisConfig().WithDatabase(16), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRateLimiterOptionsValidate(t *testing.T) {
	if err := NewRateLimiterOptions(0).Validate(); err == nil {
		t.Fatalf("expected error for zero max")
	}
	if err := NewRateLimiterOptions(3).WithWindow(0).Validate(); err == nil {
		t.Fatalf("expected error for zero window")
	}
}

func TestConfigValidate_JoinsErrors(t *testing.T) {
	err := NewRedisConfig().WithHost("").WithPort(0).Validate()
	if err == nil || !strings.Contains(err.Error(), "host") || !strings.Contains(err.Error(), "port") {
		t.Fatalf("err = %v", err)
	}
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"", "session:revoked:abc"},
		{"go-todo", "go-todo:session:revoked:abc"},
	}
	for _, tt := range tests {
		client, err := NewClient(NewRedisConfig().WithKeyPrefix(tt.prefix))
		if err != nil {
			t.Fatalf("NewClient: %v", err)
		}
		if got := client.Key("session", "revoked", "abc"); got != tt.want {
			t.Errorf("Key = %q, want %q", got, tt.want)
		}
		_ = client.Close()
	}
}

func TestNewSubscriber_Validation(t *testing.T) {
	_, err := NewSubscriber(nil, nil, NewPubSubConfig().WithPoolSize(0))
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"pool size", "channel", "handler"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestPubSubChannelName(t *testing.T) {
	c := NewPubSubConfig().WithChannelNamespace("go-todo")
	if got := c.channelName("todo-events"); got != "go-todo::todo-events" {
		t.Fatalf("got %q", got)
	}
}

// newTestClient connects to REDIS_HOST when set; integration tests skip otherwise.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		t.Skip("REDIS_HOST not set")
	}
	client, err := NewClient(NewRedisConfig().WithHost(host).WithDatabase(15))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRateLimiter_Allow(t *testing.T) {
	client := newTestClient(t)
	limiter, err := NewRateLimiter(client, NewRateLimiterOptions(2).WithNamespace("test-"+time.Now().Format("150405.000")))
	if err != nil {
		t.Fatalf("NewRateLimiter: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := limiter.Allow(ctx, "k"); err != nil {
			t.Fatalf("hit %d: %v", i, err)
		}
	}
	if err := limiter.Allow(ctx, "k"); !errors.Is(err, ErrRateLimitExceeded) {
		t.Fatalf("third hit err = %v", err)
	}
}

func TestPublisherSubscriber(t *testing.T) {
	client := newTestClient(t)
	config := NewPubSubConfig().WithChannelNamespace("test")

	got := make(chan string, 1)
	sub, err := NewSubscriber(client, HandlerFunc(func(ctx context.Context, channel, message string) error {
		got <- message
		return nil
	}), config, "events")
	if err != nil {
		t.Fatalf("NewSubscriber: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sub.Start(ctx)
	time.Sleep(200 * time.Millisecond)

	if _, err := NewPublisher(client, config).PublishJSON(ctx, "events", map[string]string{"a": "b"}); err != nil {
		t.Fatalf("PublishJSON: %v", err)
	}

	select {
	case m := <-got:
		if m != `{"a":"b"}` {
			t.Fatalf("message = %q", m)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("no message received")
	}
	sub.Stop()
}
