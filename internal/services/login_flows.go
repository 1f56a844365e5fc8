package services

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Eltn555/admin/domain"
	"github.com/Eltn555/admin/internal/logging"
)

const defaultAttemptTTL = 30 * time.Minute

type flowEntry struct {
	flow     *LoginFlow
	lastSeen time.Time
}

// LoginFlowRegistry implements domain.LoginFlows. Each login attempt gets
// its own flow over the shared session store. Attempts idle for longer
// than the TTL are stopped and dropped on the next access.
type LoginFlowRegistry struct {
	store  domain.SessionStore
	config LoginFlowConfig
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
	// newFlow builds the flow of a new attempt
	newFlow func() *LoginFlow

	mu    sync.Mutex
	flows map[string]*flowEntry
}

// NewLoginFlowRegistry creates an empty registry. A non-positive ttl uses
// 30 minutes.
func NewLoginFlowRegistry(store domain.SessionStore, config LoginFlowConfig, ttl time.Duration, logger *zap.Logger) *LoginFlowRegistry {
	if ttl <= 0 {
		ttl = defaultAttemptTTL
	}
	r := &LoginFlowRegistry{
		store:  store,
		config: config,
		ttl:    ttl,
		logger: logging.OrNop(logger).Named("attempts"),
		now:    time.Now,
		flows:  make(map[string]*flowEntry),
	}
	r.newFlow = func() *LoginFlow { return NewLoginFlow(store, config, logger) }
	return r
}

// Flow returns the flow of attemptID, creating it on first use
func (r *LoginFlowRegistry) Flow(attemptID string) domain.LoginFlow {
	return r.flow(attemptID)
}

func (r *LoginFlowRegistry) flow(attemptID string) *LoginFlow {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)

	entry, ok := r.flows[attemptID]
	if !ok {
		entry = &flowEntry{flow: r.newFlow()}
		r.flows[attemptID] = entry
		r.logger.Debug("login attempt started", zap.Int("active", len(r.flows)))
	}
	entry.lastSeen = now
	return entry.flow
}

// Forget stops and drops the flow of attemptID
func (r *LoginFlowRegistry) Forget(attemptID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.flows[attemptID]; ok {
		entry.flow.Stop()
		delete(r.flows, attemptID)
	}
}

// Len returns the number of live attempts
func (r *LoginFlowRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flows)
}

func (r *LoginFlowRegistry) sweepLocked(now time.Time) {
	for id, entry := range r.flows {
		if now.Sub(entry.lastSeen) > r.ttl {
			entry.flow.Stop()
			delete(r.flows, id)
		}
	}
}

// Stop halts every countdown and drops all attempts
func (r *LoginFlowRegistry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, entry := range r.flows {
		entry.flow.Stop()
		delete(r.flows, id)
	}
}
