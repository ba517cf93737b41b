package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/stringing-service/internal/domain"
	"github.com/spec-kit/stringing-service/internal/events"
	apperrors "github.com/spec-kit/stringing-service/pkg/util"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]domain.User{}}
}

func (r *memUserRepo) add(user domain.User) domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	r.users[user.ID] = user
	return user
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return apperrors.NewNotFound("user", nil)
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
	}
	copied := user
	return &copied, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			copied := user
			return &copied, nil
		}
	}
	return nil, apperrors.NewNotFound("user", map[string]any{"username": username})
}

func (r *memUserRepo) ListStringers(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, user := range r.users {
		if user.IsStringer {
			out = append(out, user)
		}
	}
	return out, nil
}

type memStringingRepo struct {
	mu    sync.Mutex
	rows  map[string]domain.Stringing
	order []string
}

func newMemStringingRepo() *memStringingRepo {
	return &memStringingRepo{rows: map[string]domain.Stringing{}}
}

func (r *memStringingRepo) add(s domain.Stringing) domain.Stringing {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Version == 0 {
		s.Version = 1
	}
	r.rows[s.ID] = s
	r.order = append(r.order, s.ID)
	return s
}

func (r *memStringingRepo) Create(_ context.Context, s *domain.Stringing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = uuid.NewString()
	s.Version = 1
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if s.RequestedAt.IsZero() {
		s.RequestedAt = s.CreatedAt
	}
	r.rows[s.ID] = *s
	r.order = append(r.order, s.ID)
	return nil
}

// Update mirrors the compare-and-swap semantics of the SQL store: the write
// only lands when the caller's version matches the stored one.
func (r *memStringingRepo) Update(_ context.Context, s *domain.Stringing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[s.ID]
	if !ok {
		return apperrors.NewNotFound("stringing", map[string]any{"stringing_id": s.ID})
	}
	if stored.Version != s.Version {
		return apperrors.NewConcurrentModification("stringing")
	}
	s.Version++
	r.rows[s.ID] = *s
	return nil
}

func (r *memStringingRepo) GetByID(_ context.Context, id string) (*domain.Stringing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[id]
	if !ok {
		return nil, apperrors.NewNotFound("stringing", map[string]any{"stringing_id": id})
	}
	copied := stored
	return &copied, nil
}

func (r *memStringingRepo) ListByOwner(_ context.Context, ownerUserID string) ([]domain.Stringing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Stringing
	for _, id := range r.order {
		if row := r.rows[id]; row.OwnerUserID == ownerUserID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *memStringingRepo) ListByStringer(_ context.Context, stringerUserID string) ([]domain.Stringing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Stringing
	for _, id := range r.order {
		if row := r.rows[id]; row.StringerUserID == stringerUserID {
			out = append(out, row)
		}
	}
	return out, nil
}

type memAnalyticsCache struct {
	mu      sync.Mutex
	entries map[string]domain.UserAnalytics
	puts    int
	gets    int
}

func newMemAnalyticsCache() *memAnalyticsCache {
	return &memAnalyticsCache{entries: map[string]domain.UserAnalytics{}}
}

func (c *memAnalyticsCache) Get(_ context.Context, userID string) (*domain.UserAnalytics, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	entry, ok := c.entries[userID]
	if !ok {
		return nil, nil
	}
	copied := entry
	return &copied, nil
}

func (c *memAnalyticsCache) Put(_ context.Context, analytics *domain.UserAnalytics) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	c.entries[analytics.UserID] = *analytics
	return nil
}

func (c *memAnalyticsCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	return nil
}

type captureDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *captureDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *captureDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *captureDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, e := range d.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
