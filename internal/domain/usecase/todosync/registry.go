package todosync

import (
	"context"
	"sort"
	"sync"
	"time"

	"go-todo/internal/domain/entity"
	"go-todo/internal/domain/gateway/db"
	"go-todo/internal/domain/gateway/notify"
	"go-todo/internal/domain/gateway/queue"
	"go-todo/pkg/log"
	"go-todo/pkg/msg"
)

// flashCapacity bounds notifications kept for a session between page renders
const flashCapacity = 8

// Session is a live synchronizer bound to one signed-in session
type Session struct {
	UseCase
	ID            string
	Notifications *notify.Recorder

	registry  *Registry
	lastSeen  time.Time
	owner     string
	followers int
}

// Subscribe follows the session. A followed session is kept alive by the registry until
// the returned function is called.
func (s *Session) Subscribe(listener Listener) func() {
	s.registry.follow(s, 1)
	unsubscribe := s.UseCase.Subscribe(listener)

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			s.registry.follow(s, -1)
		})
	}
}

// NotifierFactory returns an extra notification sink for a session, or nil
type NotifierFactory func(sessionID string) notify.Notifier

// Registry maps session ids to their synchronizers
type Registry struct {
	gateway   db.TodoGateway
	publisher queue.EventPublisher
	notifiers NotifierFactory
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(gateway db.TodoGateway, publisher queue.EventPublisher, notifiers NotifierFactory) *Registry {
	return &Registry{
		gateway:   gateway,
		publisher: publisher,
		notifiers: notifiers,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// Acquire returns the session's synchronizer, creating it on first use. The identity is
// applied on every call, so the first caller fetches and later ones reuse the list.
func (r *Registry) Acquire(ctx context.Context, sessionID string, identity entity.Identity) *Session {
	r.mu.Lock()
	session, ok := r.sessions[sessionID]
	if !ok {
		recorder := notify.NewRecorder(flashCapacity)
		notifier := notify.FanOut{notify.LogNotifier{Session: sessionID}, recorder}
		if r.notifiers != nil {
			if extra := r.notifiers(sessionID); extra != nil {
				notifier = append(notifier, extra)
			}
		}
		session = &Session{
			UseCase:       NewTodoSyncUseCase(r.gateway, notifier, WithSessionID(sessionID), WithPublisher(r.publisher)),
			ID:            sessionID,
			Notifications: recorder,
			registry:      r,
		}
		r.sessions[sessionID] = session
		sessionsActive.Inc()
		log.Info(msg.GetMessage("session.log.opened", sessionID, identity.UserID))
	}
	session.lastSeen = r.now()
	session.owner = identity.UserID
	r.mu.Unlock()

	session.SetIdentity(ctx, &identity)
	return session
}

func (r *Registry) follow(session *Session, delta int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session.followers += delta
	session.lastSeen = r.now()
}

// Get returns a live session without touching it
func (r *Registry) Get(sessionID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[sessionID]
	return session, ok
}

// Release signs a session out and forgets it
func (r *Registry) Release(ctx context.Context, sessionID string) {
	r.mu.Lock()
	session, ok := r.sessions[sessionID]
	if ok {
		delete(r.sessions, sessionID)
		sessionsActive.Dec()
	}
	r.mu.Unlock()

	if ok {
		session.SetIdentity(ctx, nil)
		log.Info(msg.GetMessage("session.log.closed", sessionID))
	}
}

// ForOwner lists the live sessions of a user, ordered by id
func (r *Registry) ForOwner(owner string) []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions := make([]*Session, 0)
	for _, s := range r.sessions {
		if s.owner == owner {
			sessions = append(sessions, s)
		}
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID < sessions[j].ID })
	return sessions
}

// Resync refetches every live session of owner except the one the change came from
func (r *Registry) Resync(ctx context.Context, owner, originSessionID string) int {
	resynced := 0
	for _, s := range r.ForOwner(owner) {
		if s.ID == originSessionID {
			continue
		}
		if err := s.FetchAll(ctx); err == nil {
			resynced++
		}
	}
	return resynced
}

// EvictIdle releases sessions not acquired within maxIdle and returns how many were dropped.
// Sessions with followers are never idle.
func (r *Registry) EvictIdle(ctx context.Context, maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	idle := make([]*Session, 0)
	for id, s := range r.sessions {
		if s.followers == 0 && s.lastSeen.Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
			sessionsActive.Dec()
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.SetIdentity(ctx, nil)
		log.Info(msg.GetMessage("session.log.closed", s.ID))
	}
	return len(idle)
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
