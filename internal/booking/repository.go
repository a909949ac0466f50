package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/IFernandes27/barbershop-platform/internal/catalog"
	"github.com/IFernandes27/barbershop-platform/internal/schedule"
)

// Repository defines the interface for booking storage.
type Repository interface {
	// Create persists a new booking. Returns ErrSlotTaken when another
	// non-cancelled booking already holds the professional's start time.
	Create(ctx context.Context, b *Booking) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	// ListByCustomer returns the customer's bookings, newest start first.
	ListByCustomer(ctx context.Context, customerID string) ([]*Booking, error)
	// ListByProfessional returns the professional's agenda, newest start first.
	ListByProfessional(ctx context.Context, professionalID string) ([]*Booking, error)
	// BusyIntervals returns the occupied windows for a professional
	// between from (inclusive) and to (exclusive), cancelled excluded.
	BusyIntervals(ctx context.Context, professionalID string, from, to time.Time) ([]schedule.Interval, error)
	// UpdateStatus stores a lifecycle transition.
	UpdateStatus(ctx context.Context, id string, status Status) error
}

// InMemoryRepository is a stub Repository used in tests and local dev.
// It resolves service durations through the catalog to compute busy
// intervals the same way the SQL join does.
type InMemoryRepository struct {
	mu       sync.RWMutex
	bookings map[string]*Booking
	services catalog.ServiceRepository
}

// NewInMemoryRepository creates an in-memory booking repository.
func NewInMemoryRepository(services catalog.ServiceRepository) *InMemoryRepository {
	return &InMemoryRepository{
		bookings: make(map[string]*Booking),
		services: services,
	}
}

// Create stores a booking, enforcing the per-professional slot
// uniqueness the production schema guarantees with a partial index.
func (r *InMemoryRepository) Create(ctx context.Context, b *Booking) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, other := range r.bookings {
		if other.Status != StatusCancelled &&
			other.ProfessionalID == b.ProfessionalID &&
			other.StartAt.Equal(b.StartAt) {
			return nil, ErrSlotTaken
		}
	}

	stored := *b
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.bookings[stored.ID] = &stored
	return &stored, nil
}

// GetByID retrieves a booking by ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *b
	return &copied, nil
}

// ListByCustomer returns the customer's bookings, newest start first.
func (r *InMemoryRepository) ListByCustomer(ctx context.Context, customerID string) ([]*Booking, error) {
	return r.listWhere(func(b *Booking) bool { return b.CustomerID == customerID }), nil
}

// ListByProfessional returns the professional's agenda, newest start first.
func (r *InMemoryRepository) ListByProfessional(ctx context.Context, professionalID string) ([]*Booking, error) {
	return r.listWhere(func(b *Booking) bool { return b.ProfessionalID == professionalID }), nil
}

func (r *InMemoryRepository) listWhere(match func(*Booking) bool) []*Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Booking
	for _, b := range r.bookings {
		if match(b) {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartAt.Equal(out[j].StartAt) {
			return out[i].StartAt.After(out[j].StartAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// BusyIntervals returns occupied windows for a professional in [from, to).
func (r *InMemoryRepository) BusyIntervals(ctx context.Context, professionalID string, from, to time.Time) ([]schedule.Interval, error) {
	r.mu.RLock()
	candidates := make([]*Booking, 0)
	for _, b := range r.bookings {
		if b.ProfessionalID != professionalID || b.Status == StatusCancelled {
			continue
		}
		if b.StartAt.Before(from) || !b.StartAt.Before(to) {
			continue
		}
		candidates = append(candidates, b)
	}
	r.mu.RUnlock()

	intervals := make([]schedule.Interval, 0, len(candidates))
	for _, b := range candidates {
		svc, err := r.services.GetByID(ctx, b.ServiceID)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, schedule.NewInterval(b.StartAt, svc.Duration()))
	}
	sort.Slice(intervals, func(i, j int) bool { return intervals[i].Start.Before(intervals[j].Start) })
	return intervals, nil
}

// UpdateStatus stores a lifecycle transition.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return ErrNotFound
	}
	b.Status = status
	return nil
}
