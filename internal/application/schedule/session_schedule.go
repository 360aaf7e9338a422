package schedule

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"go-todo/pkg/log"
	"go-todo/pkg/msg"
)

// IdleEvicter drops sessions that have not been used for a while
type IdleEvicter interface {
	EvictIdle(ctx context.Context, maxIdle time.Duration) int
}

type SessionScheduler struct {
	cron     *cron.Cron
	sessions IdleEvicter
	maxIdle  time.Duration
}

func NewSessionScheduler(sessions IdleEvicter, maxIdle time.Duration) *SessionScheduler {
	return &SessionScheduler{cron: cron.New(), sessions: sessions, maxIdle: maxIdle}
}

// InitSessionScheduleTasks registers the idle session eviction and starts the scheduler
func (scheduler *SessionScheduler) InitSessionScheduleTasks(spec string) error {
	if _, err := scheduler.cron.AddFunc(spec, scheduler.EvictIdleSessions); err != nil {
		return err
	}

	scheduler.cron.Start()
	return nil
}

func (scheduler *SessionScheduler) EvictIdleSessions() {
	log.Info(msg.GetMessage("session.cron.start"))

	evicted := scheduler.sessions.EvictIdle(context.Background(), scheduler.maxIdle)

	log.Info(msg.GetMessage("session.cron.end", evicted))
}

// Stop waits for a running eviction to finish
func (scheduler *SessionScheduler) Stop() {
	<-scheduler.cron.Stop().Done()
}
