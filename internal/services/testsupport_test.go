package services

import (
	"context"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nnminh-sam/watch-store-backend/internal/config"
	"github.com/nnminh-sam/watch-store-backend/internal/models"
	"github.com/nnminh-sam/watch-store-backend/internal/repositories"
)

func testConfig() *config.Config {
	return &config.Config{
		OrganizationName:          "Watch Store",
		AppName:                   "watch-store-backend-test",
		JWTSecret:                 []byte("unit-test-secret"),
		AccessTokenExpiry:         1 * time.Hour,
		RefreshTokenExpiry:        30 * 24 * time.Hour,
		PasswordChangeGuardWindow: 10 * 24 * time.Hour,
		MaxLoginAttempts:          10,
		AttemptWindow:             5 * time.Minute,
		LockDuration:              10 * time.Minute,
		TempPasswordLength:        12,
	}
}

// ----------------------------
// Manual clock
// ----------------------------

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock(start time.Time) *testClock {
	return &testClock{t: start}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// ----------------------------
// In-memory KV store honoring TTLs against the manual clock
// ----------------------------

type fakeKVEntry struct {
	value     string
	expiresAt time.Time
}

type fakeKV struct {
	clock *testClock

	mu      sync.Mutex
	entries map[string]fakeKVEntry
}

func newFakeKV(clock *testClock) *fakeKV {
	return &fakeKV{
		clock:   clock,
		entries: make(map[string]fakeKVEntry),
	}
}

var _ repositories.KVStore = (*fakeKV)(nil)

func (f *fakeKV) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = fakeKVEntry{value: value, expiresAt: f.clock.Now().Add(ttl)}
	return nil
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[key]
	if !ok || !f.clock.Now().Before(entry.expiresAt) {
		return "", false, nil
	}
	return entry.value, true, nil
}

// Scan pages through matching keys in sorted order so callers are
// forced to follow the cursor to completion, like a real store.
func (f *fakeKV) Scan(ctx context.Context, cursor uint64, match string, count int64) ([]string, uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []string
	now := f.clock.Now()
	for key, entry := range f.entries {
		if !now.Before(entry.expiresAt) {
			continue
		}
		if ok, _ := path.Match(match, key); ok {
			matched = append(matched, key)
		}
	}
	sort.Strings(matched)

	start := int(cursor)
	if start >= len(matched) {
		return nil, 0, nil
	}
	end := start + int(count)
	if end >= len(matched) {
		return matched[start:], 0, nil
	}
	return matched[start:end], uint64(end), nil
}

// ----------------------------
// User repository fake
// ----------------------------

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

var _ repositories.UserRepository = (*fakeUserRepo)(nil)

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByPhoneNumber(ctx context.Context, phone string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.PhoneNumber != nil && *u.PhoneNumber == phone {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

// ----------------------------
// Login attempts fake (never locks unless told to)
// ----------------------------

type fakeLoginRepo struct {
	mu          sync.Mutex
	increments  map[uuid.UUID]int
	lockedUntil map[uuid.UUID]time.Time
}

func newFakeLoginRepo() *fakeLoginRepo {
	return &fakeLoginRepo{
		increments:  make(map[uuid.UUID]int),
		lockedUntil: make(map[uuid.UUID]time.Time),
	}
}

var _ repositories.LoginAttemptsRepository = (*fakeLoginRepo)(nil)

func (f *fakeLoginRepo) GetOrCreate(ctx context.Context, userID uuid.UUID) (*repositories.LoginAttempts, error) {
	return &repositories.LoginAttempts{UserID: userID}, nil
}

func (f *fakeLoginRepo) Increment(ctx context.Context, userID uuid.UUID, lockDuration, window time.Duration, maxAttempts int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.increments[userID]++
	return nil
}

func (f *fakeLoginRepo) Reset(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.increments[userID] = 0
	return nil
}

func (f *fakeLoginRepo) IsLocked(ctx context.Context, userID uuid.UUID) (bool, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	until, ok := f.lockedUntil[userID]
	if ok && until.After(time.Now()) {
		return true, until, nil
	}
	return false, time.Time{}, nil
}

func (f *fakeLoginRepo) CleanupStale(ctx context.Context, olderThan time.Duration) error {
	return nil
}

// ----------------------------
// Cart / mail fakes
// ----------------------------

type fakeCartService struct {
	mu      sync.Mutex
	created []uuid.UUID
	failErr error
}

var _ CartService = (*fakeCartService)(nil)

func (f *fakeCartService) CreateForUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	f.created = append(f.created, userID)
	return &models.Cart{ID: uuid.New(), UserID: userID}, nil
}

type fakeMailService struct {
	mu           sync.Mutex
	welcomes     []string
	newPasswords map[string]string
}

func newFakeMailService() *fakeMailService {
	return &fakeMailService{newPasswords: make(map[string]string)}
}

var _ MailService = (*fakeMailService)(nil)

func (f *fakeMailService) SendWelcomeEmail(ctx context.Context, toEmail, firstName string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.welcomes = append(f.welcomes, toEmail)
}

func (f *fakeMailService) SendNewPasswordEmail(ctx context.Context, toEmail, newPassword string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.newPasswords[toEmail] = newPassword
}
