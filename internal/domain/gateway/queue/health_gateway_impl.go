package queue

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"go-todo/internal/domain/model"
)

// QueueHealthGateway aggregates the event consumers of one transport
type QueueHealthGateway struct {
	transport string
	consumers map[string]Consumer
	mutex     sync.RWMutex
}

var _ HealthGateway = (*QueueHealthGateway)(nil)

// NewQueueHealthGateway reports consumers of transport (sqs, redis or none)
func NewQueueHealthGateway(transport string) *QueueHealthGateway {
	return &QueueHealthGateway{
		transport: transport,
		consumers: make(map[string]Consumer),
	}
}

func (gateway *QueueHealthGateway) RegisterConsumer(name string, consumer Consumer) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()
	gateway.consumers[name] = consumer
}

func (gateway *QueueHealthGateway) UnregisterConsumer(name string) {
	gateway.mutex.Lock()
	defer gateway.mutex.Unlock()
	delete(gateway.consumers, name)
}

// Health is UNKNOWN without consumers and DOWN when any consumer stopped
func (gateway *QueueHealthGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	gateway.mutex.RLock()
	defer gateway.mutex.RUnlock()

	details := map[string]string{
		"transport":       gateway.transport,
		"consumers_total": strconv.Itoa(len(gateway.consumers)),
	}
	if len(gateway.consumers) == 0 {
		details["message"] = "no event consumers"
		return model.ComponentHealthStatus{Status: model.StatusUnknown, Details: details}
	}

	names := make([]string, 0, len(gateway.consumers))
	for name := range gateway.consumers {
		names = append(names, name)
	}
	sort.Strings(names)

	var down []string
	for _, name := range names {
		running, consumerDetails := gateway.consumers[name].HealthDetails()
		status := model.StatusUp
		if !running {
			status = model.StatusDown
			down = append(down, name)
		}
		details[name+"_status"] = string(status)
		for key, value := range consumerDetails {
			details[name+"_"+key] = value
		}
	}
	details["consumers_down"] = strconv.Itoa(len(down))

	if len(down) > 0 {
		return model.ComponentHealthStatus{Status: model.StatusDown, Details: details}
	}
	return model.ComponentHealthStatus{Status: model.StatusUp, Details: details}
}
