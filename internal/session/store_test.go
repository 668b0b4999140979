package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"leavedesk-backend/internal/db"
	"leavedesk-backend/internal/domain"
	"leavedesk-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC) }

func openStore(t *testing.T, kv *db.Memory) *Store {
	t.Helper()
	s, err := Open(context.Background(), kv, repository.SeedIdentities(), WithClock(fixedNow))
	require.NoError(t, err)
	return s
}

func TestOpenWithoutStateIsSignedOut(t *testing.T) {
	s := openStore(t, db.NewMemory())
	_, ok := s.Current()
	assert.False(t, ok)
	assert.Len(t, s.Roster(), 5)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	kv := db.NewMemory()
	s := openStore(t, kv)

	u, err := s.Authenticate(ctx, "sarah.employee@company.com", "employee123")
	require.NoError(t, err)
	assert.Equal(t, "3", u.ID)
	assert.Empty(t, u.Password)

	raw, found, err := kv.Get(ctx, KeyCurrentUser)
	require.NoError(t, err)
	require.True(t, found)
	var stored map[string]any
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.NotContains(t, stored, "password")
	assert.Equal(t, "3", stored["id"])

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "Sarah Employee", cur.Name)
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	s := openStore(t, db.NewMemory())
	ctx := context.Background()

	_, errUnknown := s.Authenticate(ctx, "nobody@company.com", "employee123")
	_, errWrong := s.Authenticate(ctx, "sarah.employee@company.com", "wrong")
	_, errCase := s.Authenticate(ctx, "Sarah.Employee@company.com", "employee123")

	for _, err := range []error{errUnknown, errWrong, errCase} {
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), err.Error())
	}
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	kv := db.NewMemory()
	s := openStore(t, kv)

	u, err := s.Register(ctx, "new.hire@company.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "6", u.ID)
	assert.Equal(t, "new.hire", u.Name)
	assert.Equal(t, domain.RoleEmployee, u.Role)
	assert.Equal(t, DefaultDepartment, u.Department)
	assert.Equal(t, DefaultPosition, u.Position)
	assert.Equal(t, "2026-10-14", u.JoinDate.String())
	assert.Empty(t, u.Password)

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "6", cur.ID)

	// The stored roster keeps the credential so the account can sign in after a restart.
	reopened := openStore(t, kv)
	assert.Len(t, reopened.Roster(), 6)
	again, err := reopened.Authenticate(ctx, "new.hire@company.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "6", again.ID)
}

func TestRegisterEmailTakenDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	kv := db.NewMemory()
	s := openStore(t, kv)

	_, err := s.Register(ctx, "admin@company.com", "whatever")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Len(t, s.Roster(), 5)
	_, found, _ := kv.Get(ctx, KeyRoster)
	assert.False(t, found)
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestRegisterNeverReusesIDs(t *testing.T) {
	ctx := context.Background()
	seed := []domain.Identity{
		{ID: "1", Email: "a@x.io", Password: "p", Role: domain.RoleAdmin},
		{ID: "7", Email: "b@x.io", Password: "p", Role: domain.RoleEmployee},
	}
	s, err := Open(ctx, db.NewMemory(), seed)
	require.NoError(t, err)

	first, err := s.Register(ctx, "c@x.io", "p")
	require.NoError(t, err)
	second, err := s.Register(ctx, "d@x.io", "p")
	require.NoError(t, err)
	assert.Equal(t, "8", first.ID)
	assert.Equal(t, "9", second.ID)
}

func TestDeauthenticate(t *testing.T) {
	ctx := context.Background()
	kv := db.NewMemory()
	s := openStore(t, kv)
	_, err := s.Authenticate(ctx, "admin@company.com", "admin123")
	require.NoError(t, err)

	require.NoError(t, s.Deauthenticate(ctx))
	_, ok := s.Current()
	assert.False(t, ok)
	_, found, _ := kv.Get(ctx, KeyCurrentUser)
	assert.False(t, found)

	reopened := openStore(t, kv)
	_, ok = reopened.Current()
	assert.False(t, ok)
}

func TestCurrentSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	kv := db.NewMemory()
	s := openStore(t, kv)
	_, err := s.Authenticate(ctx, "john.manager@company.com", "manager123")
	require.NoError(t, err)

	reopened := openStore(t, kv)
	cur, ok := reopened.Current()
	require.True(t, ok)
	assert.Equal(t, domain.RoleManager, cur.Role)
}

func TestLookupAndRosterHideCredentials(t *testing.T) {
	s := openStore(t, db.NewMemory())
	u, err := s.Lookup("2")
	require.NoError(t, err)
	assert.Empty(t, u.Password)
	for _, r := range s.Roster() {
		assert.Empty(t, r.Password)
	}
	_, err = s.Lookup("42")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, db.NewMemory())

	var events []EventKind
	cancel := s.Subscribe(func(e Event) { events = append(events, e.Kind) })

	_, _ = s.Authenticate(ctx, "admin@company.com", "admin123")
	_, _ = s.Register(ctx, "x@company.com", "pw")
	_ = s.Deauthenticate(ctx)
	cancel()
	_, _ = s.Authenticate(ctx, "admin@company.com", "admin123")

	assert.Equal(t, []EventKind{EventSignedIn, EventRegistered, EventSignedOut}, events)
}

type failingKV struct{ *db.Memory }

func (failingKV) Set(context.Context, string, []byte) error { return errors.New("disk full") }

func TestRegisterPersistFailureLeavesRosterUntouched(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, failingKV{db.NewMemory()}, repository.SeedIdentities())
	require.NoError(t, err)

	_, err = s.Register(ctx, "new@company.com", "pw")
	assert.ErrorContains(t, err, "disk full")
	assert.Len(t, s.Roster(), 5)
}

// keyFailingKV fails writes to one key while fail is set.
type keyFailingKV struct {
	*db.Memory
	key  string
	fail *atomic.Bool
}

func (k keyFailingKV) Set(ctx context.Context, key string, value []byte) error {
	if key == k.key && k.fail.Load() {
		return errors.New("disk full")
	}
	return k.Memory.Set(ctx, key, value)
}

func TestRegisterRollsBackRosterWhenSignInWriteFails(t *testing.T) {
	ctx := context.Background()
	mem := db.NewMemory()
	fail := &atomic.Bool{}
	fail.Store(true)
	kv := keyFailingKV{Memory: mem, key: KeyCurrentUser, fail: fail}
	s, err := Open(ctx, kv, repository.SeedIdentities(), WithClock(fixedNow))
	require.NoError(t, err)

	_, err = s.Register(ctx, "late@company.com", "pw")
	assert.ErrorContains(t, err, "disk full")
	assert.Len(t, s.Roster(), 5)
	_, ok := s.Current()
	assert.False(t, ok)

	var stored []domain.Identity
	found, err := db.LoadJSON(ctx, mem, KeyRoster, &stored)
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, stored, 5)

	fail.Store(false)
	u, err := s.Register(ctx, "late@company.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "6", u.ID)
}

func TestConcurrentRegisterIssuesUniqueIDs(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, db.NewMemory())

	const n = 20
	var wg sync.WaitGroup
	ids := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := s.Register(ctx, fmt.Sprintf("user%d@company.com", i), "pw")
			ids[i], errs[i] = u.ID, err
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[ids[i]], "duplicate id %s", ids[i])
		seen[ids[i]] = true
	}
	assert.Len(t, s.Roster(), 5+n)
}

func TestConcurrentRegisterSameEmail(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, db.NewMemory())

	const n = 10
	var (
		wg      sync.WaitGroup
		okCount atomic.Int32
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Register(ctx, "twin@company.com", "pw")
			if err == nil {
				okCount.Add(1)
				return
			}
			assert.ErrorIs(t, err, domain.ErrEmailTaken)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), okCount.Load())
	assert.Len(t, s.Roster(), 6)
}
