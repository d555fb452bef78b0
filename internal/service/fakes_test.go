package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"smartbin"
	"smartbin/internal/repository"
)

// fakeBinRepo is an in-memory BinRepo for service tests.
type fakeBinRepo struct {
	mu   sync.Mutex
	bins map[int]smartbin.Bin

	listErr   error
	insertErr error
	updateErr error
}

func newFakeBinRepo(bins ...smartbin.Bin) *fakeBinRepo {
	r := &fakeBinRepo{bins: make(map[int]smartbin.Bin)}
	for _, b := range bins {
		r.bins[b.BinID] = b
	}
	return r
}

func (r *fakeBinRepo) ListAll(ctx context.Context) ([]smartbin.Bin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]smartbin.Bin, 0, len(r.bins))
	for _, b := range r.bins {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BinID < out[j].BinID })
	return out, nil
}

func (r *fakeBinRepo) GetByID(ctx context.Context, binID int) (smartbin.Bin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bins[binID]
	if !ok {
		return smartbin.Bin{}, repository.ErrNotFound
	}
	return b, nil
}

func (r *fakeBinRepo) Insert(ctx context.Context, b smartbin.Bin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.bins[b.BinID] = b
	return nil
}

func (r *fakeBinRepo) UpdateByID(ctx context.Context, binID int, u smartbin.BinUpdate) (smartbin.Bin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return smartbin.Bin{}, r.updateErr
	}
	b, ok := r.bins[binID]
	if !ok {
		return smartbin.Bin{}, repository.ErrNotFound
	}
	if u.Location != nil {
		b.Location = *u.Location
	}
	if u.FillLevel != nil {
		b.FillLevel = *u.FillLevel
	}
	if u.BatteryLevel != nil {
		b.BatteryLevel = *u.BatteryLevel
	}
	if u.Temperature != nil {
		b.Temperature = *u.Temperature
	}
	if u.SensorStatus != nil {
		b.SensorStatus = *u.SensorStatus
	}
	if u.Capacity != nil {
		b.Capacity = *u.Capacity
	}
	if u.LastEmptied != nil {
		b.LastEmptied = *u.LastEmptied
	}
	b.LastUpdated = time.Now().UTC()
	r.bins[binID] = b
	return b, nil
}

func (r *fakeBinRepo) DeleteByID(ctx context.Context, binID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bins[binID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.bins, binID)
	return nil
}

func (r *fakeBinRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bins), nil
}

// fakeUserRepo is an in-memory UserRepo for auth tests.
type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]smartbin.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]smartbin.User), nextID: 1}
}

func (r *fakeUserRepo) Create(ctx context.Context, u smartbin.User) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = r.nextID
	r.nextID++
	r.users[u.Username] = u
	return u.ID, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*smartbin.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*smartbin.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

// recordingBroadcaster captures events instead of fanning them out.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []smartbin.ChangeEvent
}

func (b *recordingBroadcaster) Broadcast(ev smartbin.ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
}

func (b *recordingBroadcaster) all() []smartbin.ChangeEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]smartbin.ChangeEvent, len(b.events))
	copy(out, b.events)
	return out
}

func (b *recordingBroadcaster) last() (smartbin.ChangeEvent, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.events) == 0 {
		return smartbin.ChangeEvent{}, false
	}
	return b.events[len(b.events)-1], true
}
