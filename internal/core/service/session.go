package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ldhng/retail-backoffice/internal/core/domain"
	"github.com/ldhng/retail-backoffice/internal/core/state"
	"github.com/ldhng/retail-backoffice/internal/port"
)

// SessionService consumes an authenticated identity, loads the initial state,
// and runs the two background pollers for as long as the session lasts: a
// liveness check against the invalidated-session set and an activity
// heartbeat. Both stop on sign-out; this is a polling design, so revocation
// can go unnoticed for up to one poll interval.
type SessionService struct {
	store *state.Store
	gw    port.Gateway
	cache port.SessionCache
	log   *zap.Logger

	livenessEvery time.Duration
	activityEvery time.Duration
	logoutGrace   time.Duration

	// epoch increments on every session change so a forced logout from a
	// poller of a replaced session becomes a no-op
	mu      sync.Mutex
	epoch   uint64
	cancel  context.CancelFunc
	pollers *sync.WaitGroup
}

func NewSessionService(
	store *state.Store,
	gw port.Gateway,
	cache port.SessionCache,
	log *zap.Logger,
	livenessEvery, activityEvery, logoutGrace time.Duration,
) *SessionService {
	return &SessionService{
		store:         store,
		gw:            gw,
		cache:         cache,
		log:           log,
		livenessEvery: livenessEvery,
		activityEvery: activityEvery,
		logoutGrace:   logoutGrace,
	}
}

// SignIn stores the session, loads every collection from the backend, marks
// the session active, and starts the pollers. A fresh sign-in replaces any
// running session: its pollers are stopped and awaited before the new pair
// starts, so a stale liveness loop can never force the new user out.
func (s *SessionService) SignIn(ctx context.Context, user domain.User, token string) error {
	if wg := s.teardown(); wg != nil {
		wg.Wait()
	}

	s.store.SetSession(domain.Session{User: user, Token: token})
	s.gw.SetToken(token)

	if err := s.bootstrap(ctx); err != nil {
		// a failed sign-in must not look signed in
		s.teardown()
		s.store.PushNotification("Failed to load data from the server")
		return err
	}

	// heartbeat fires once on login, then on its interval
	if err := s.gw.PingActivity(ctx, user.ID); err != nil {
		s.log.Warn("activity ping failed", zap.Error(err))
	}
	if err := s.cache.MarkActive(ctx, user.ID, 2*s.activityEvery); err != nil {
		s.log.Warn("mark active failed", zap.Error(err))
	}

	s.startPollers(user.ID)
	s.log.Info("signed in", zap.String("user", user.ID), zap.String("role", string(user.Role)))
	return nil
}

// SignOut stops the pollers and clears all session state. It does not wait
// for the loops to exit; they observe the cancelled context on their next
// tick. Safe to call more than once.
func (s *SessionService) SignOut() {
	s.teardown()
	s.log.Info("signed out")
}

// Close signs out and waits for the pollers to exit. For process shutdown.
func (s *SessionService) Close() {
	wg := s.teardown()
	s.log.Info("signed out")
	if wg != nil {
		wg.Wait()
	}
}

// teardown cancels the pollers and clears the token and the store, returning
// the pollers' WaitGroup so the caller can decide whether to wait. The token
// and store reset happen under the lock so a forced logout and a concurrent
// sign-in cannot interleave their writes.
func (s *SessionService) teardown() *sync.WaitGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teardownLocked()
}

func (s *SessionService) teardownLocked() *sync.WaitGroup {
	s.epoch++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	wg := s.pollers
	s.pollers = nil
	s.gw.SetToken("")
	s.store.Reset()
	return wg
}

// forceSignOut is the liveness loop's logout path. It no-ops when a newer
// sign-in has already replaced the session the loop was watching.
func (s *SessionService) forceSignOut(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return
	}
	s.teardownLocked()
	s.log.Info("signed out")
}

func (s *SessionService) bootstrap(ctx context.Context) error {
	invT := s.store.Ticket(state.KeyInventory)
	inv, err := s.gw.FetchInventory(ctx)
	if err != nil {
		return fmt.Errorf("fetch inventory: %w", err)
	}
	s.store.SetInventory(invT, inv)

	dscT := s.store.Ticket(state.KeyDiscounts)
	dsc, err := s.gw.FetchDiscounts(ctx)
	if err != nil {
		return fmt.Errorf("fetch discounts: %w", err)
	}
	s.store.SetDiscounts(dscT, dsc)

	ordT := s.store.Ticket(state.KeyOrders)
	ords, err := s.gw.FetchOrders(ctx)
	if err != nil {
		return fmt.Errorf("fetch orders: %w", err)
	}
	s.store.SetOrders(ordT, ords)

	usrT := s.store.Ticket(state.KeyUsers)
	users, err := s.gw.FetchUsers(ctx)
	if err != nil {
		return fmt.Errorf("fetch users: %w", err)
	}
	s.store.SetUsers(usrT, users)

	inqT := s.store.Ticket(state.KeyInquiries)
	inqs, err := s.gw.FetchInquiries(ctx)
	if err != nil {
		return fmt.Errorf("fetch inquiries: %w", err)
	}
	s.store.SetInquiries(inqT, inqs)

	return nil
}

func (s *SessionService) startPollers(userID string) {
	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.cancel = cancel
	s.pollers = wg
	s.mu.Unlock()

	wg.Add(2)
	go s.livenessLoop(ctx, wg, epoch, userID)
	go s.activityLoop(ctx, wg, userID)
}

func (s *SessionService) livenessLoop(ctx context.Context, wg *sync.WaitGroup, epoch uint64, userID string) {
	defer wg.Done()
	t := time.NewTicker(s.livenessEvery)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			revoked, err := s.cache.IsInvalidated(ctx, userID)
			if err != nil {
				s.log.Warn("liveness check failed", zap.Error(err))
				continue
			}
			if !revoked {
				continue
			}
			s.store.PushNotification("Your session was revoked by an administrator. Signing out shortly.")
			s.log.Warn("session revoked", zap.String("user", userID))

			// grace delay before the forced logout
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.logoutGrace):
			}
			s.forceSignOut(epoch)
			return
		}
	}
}

func (s *SessionService) activityLoop(ctx context.Context, wg *sync.WaitGroup, userID string) {
	defer wg.Done()
	t := time.NewTicker(s.activityEvery)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.gw.PingActivity(ctx, userID); err != nil {
				s.log.Warn("activity ping failed", zap.Error(err))
			}
			if err := s.cache.MarkActive(ctx, userID, 2*s.activityEvery); err != nil {
				s.log.Warn("mark active failed", zap.Error(err))
			}
		}
	}
}
