// Package session holds the signed-in identity and the identity roster.
//
// The store is the single source of truth for both. It loads once from the
// key/value backend on Open and writes a snapshot synchronously after every
// mutation, before subscribers are told about the change.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"leavedesk-backend/internal/db"
	"leavedesk-backend/internal/domain"
	"leavedesk-backend/internal/ports"
)

// Storage keys.
const (
	KeyCurrentUser = "currentUser"
	KeyRoster      = "mockUsers"
)

// Defaults for self-registered identities.
const (
	DefaultDepartment = "General"
	DefaultPosition   = "New Joiner"
)

// Event is delivered to subscribers after a mutation has been persisted.
type Event struct {
	Kind    EventKind
	Current *domain.Identity
}

type EventKind string

const (
	EventSignedIn   EventKind = "signed_in"
	EventRegistered EventKind = "registered"
	EventSignedOut  EventKind = "signed_out"
)

type Store struct {
	kv  ports.KVStore
	now func() time.Time

	mu      sync.RWMutex
	current *domain.Identity
	roster  []domain.Identity
	nextID  int64

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

type Option func(*Store)

// WithClock overrides the clock used for join dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open loads persisted state. With nothing stored the store starts signed out
// with the seed roster.
func Open(ctx context.Context, kv ports.KVStore, seed []domain.Identity, opts ...Option) (*Store, error) {
	s := &Store{
		kv:     kv,
		now:    time.Now,
		roster: append([]domain.Identity(nil), seed...),
		subs:   map[int]func(Event){},
	}
	for _, o := range opts {
		o(s)
	}

	var roster []domain.Identity
	found, err := db.LoadJSON(ctx, kv, KeyRoster, &roster)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	if found {
		s.roster = roster
	}

	var current domain.Identity
	found, err = db.LoadJSON(ctx, kv, KeyCurrentUser, &current)
	if err != nil {
		return nil, fmt.Errorf("load current identity: %w", err)
	}
	if found && current.ID != "" {
		pub := current.Public()
		s.current = &pub
	}

	s.nextID = maxNumericID(s.roster) + 1
	return s, nil
}

// Authenticate signs in the identity whose email and password both match
// exactly. Unknown email and wrong password are indistinguishable.
func (s *Store) Authenticate(ctx context.Context, email, password string) (domain.Identity, error) {
	s.mu.Lock()
	var found *domain.Identity
	for i := range s.roster {
		u := s.roster[i]
		if u.Email == email && u.Password != "" && u.Password == password {
			found = &u
			break
		}
	}
	if found == nil {
		s.mu.Unlock()
		return domain.Identity{}, domain.ErrInvalidCredentials
	}
	pub := found.Public()
	if err := db.SaveJSON(ctx, s.kv, KeyCurrentUser, pub); err != nil {
		s.mu.Unlock()
		return domain.Identity{}, fmt.Errorf("persist current identity: %w", err)
	}
	s.current = &pub
	s.mu.Unlock()

	s.publish(Event{Kind: EventSignedIn, Current: &pub})
	return pub, nil
}

// Register appends a new Employee identity and signs it in.
func (s *Store) Register(ctx context.Context, email, password string) (domain.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.Identity{}, domain.Validationf("email and password are required")
	}

	s.mu.Lock()
	for _, u := range s.roster {
		if u.Email == email {
			s.mu.Unlock()
			return domain.Identity{}, domain.ErrEmailTaken
		}
	}

	id := s.nextID
	name, _, _ := strings.Cut(email, "@")
	created := domain.Identity{
		ID:         strconv.FormatInt(id, 10),
		Name:       name,
		Email:      email,
		Password:   password,
		Role:       domain.RoleEmployee,
		Department: DefaultDepartment,
		Position:   DefaultPosition,
		JoinDate:   domain.DateOf(s.now()),
	}
	roster := append(append([]domain.Identity(nil), s.roster...), created)
	if err := db.SaveJSON(ctx, s.kv, KeyRoster, roster); err != nil {
		s.mu.Unlock()
		return domain.Identity{}, fmt.Errorf("persist roster: %w", err)
	}

	// Memory is only swapped once both keys are written; a failed second
	// write puts the stored roster back.
	pub := created.Public()
	if err := db.SaveJSON(ctx, s.kv, KeyCurrentUser, pub); err != nil {
		if rerr := db.SaveJSON(context.WithoutCancel(ctx), s.kv, KeyRoster, s.roster); rerr != nil {
			err = errors.Join(err, fmt.Errorf("restore roster: %w", rerr))
		}
		s.mu.Unlock()
		return domain.Identity{}, fmt.Errorf("persist current identity: %w", err)
	}
	s.roster = roster
	s.nextID = id + 1
	s.current = &pub
	s.mu.Unlock()

	s.publish(Event{Kind: EventRegistered, Current: &pub})
	return pub, nil
}

// Deauthenticate clears the signed-in identity.
func (s *Store) Deauthenticate(ctx context.Context) error {
	s.mu.Lock()
	if err := s.kv.Delete(ctx, KeyCurrentUser); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("clear current identity: %w", err)
	}
	s.current = nil
	s.mu.Unlock()

	s.publish(Event{Kind: EventSignedOut})
	return nil
}

// Current returns the signed-in identity, if any.
func (s *Store) Current() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return domain.Identity{}, false
	}
	return *s.current, true
}

// Roster returns every identity without credentials.
func (s *Store) Roster() []domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Identity, 0, len(s.roster))
	for _, u := range s.roster {
		out = append(out, u.Public())
	}
	return out
}

// Lookup finds an identity by id, without its credential.
func (s *Store) Lookup(id string) (domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.roster {
		if u.ID == id {
			return u.Public(), nil
		}
	}
	return domain.Identity{}, domain.ErrNotFound
}

// Subscribe registers fn for future events. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) publish(e Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}

// maxNumericID returns the highest numeric id in roster. New ids continue
// from it and are never reissued.
func maxNumericID(roster []domain.Identity) int64 {
	var max int64
	for _, u := range roster {
		if n, err := strconv.ParseInt(u.ID, 10, 64); err == nil && n > max {
			max = n
		}
	}
	return max
}
