package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ServiceRepository defines the interface for service storage.
type ServiceRepository interface {
	Create(ctx context.Context, svc *Service) (*Service, error)
	GetByID(ctx context.Context, id string) (*Service, error)
	// List returns all services ordered by price then name.
	List(ctx context.Context) ([]*Service, error)
}

// ProfessionalRepository defines the interface for professional storage.
type ProfessionalRepository interface {
	Create(ctx context.Context, pro *Professional) (*Professional, error)
	GetByID(ctx context.Context, id string) (*Professional, error)
	GetByUserID(ctx context.Context, userID string) (*Professional, error)
	// ListActive returns active professionals ordered by display name.
	ListActive(ctx context.Context) ([]*Professional, error)
}

// InMemoryServiceRepository is a stub ServiceRepository for tests and local dev.
type InMemoryServiceRepository struct {
	mu       sync.RWMutex
	services map[string]*Service
}

// NewInMemoryServiceRepository creates an empty in-memory service repo.
func NewInMemoryServiceRepository() *InMemoryServiceRepository {
	return &InMemoryServiceRepository{services: make(map[string]*Service)}
}

// Create stores a service in memory.
func (r *InMemoryServiceRepository) Create(ctx context.Context, svc *Service) (*Service, error) {
	if err := svc.Validate(); err != nil {
		return nil, err
	}
	stored := *svc
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	r.services[stored.ID] = &stored
	r.mu.Unlock()
	return &stored, nil
}

// GetByID retrieves a service by ID.
func (r *InMemoryServiceRepository) GetByID(ctx context.Context, id string) (*Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	svc, ok := r.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

// List returns services ordered by price then name.
func (r *InMemoryServiceRepository) List(ctx context.Context) ([]*Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Service, 0, len(r.services))
	for _, svc := range r.services {
		out = append(out, svc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PriceCents != out[j].PriceCents {
			return out[i].PriceCents < out[j].PriceCents
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// InMemoryProfessionalRepository is a stub ProfessionalRepository.
type InMemoryProfessionalRepository struct {
	mu            sync.RWMutex
	professionals map[string]*Professional
}

// NewInMemoryProfessionalRepository creates an empty in-memory professional repo.
func NewInMemoryProfessionalRepository() *InMemoryProfessionalRepository {
	return &InMemoryProfessionalRepository{professionals: make(map[string]*Professional)}
}

// Create stores a professional in memory.
func (r *InMemoryProfessionalRepository) Create(ctx context.Context, pro *Professional) (*Professional, error) {
	if err := pro.Validate(); err != nil {
		return nil, err
	}
	stored := *pro
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	r.professionals[stored.ID] = &stored
	r.mu.Unlock()
	return &stored, nil
}

// GetByID retrieves a professional by ID.
func (r *InMemoryProfessionalRepository) GetByID(ctx context.Context, id string) (*Professional, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pro, ok := r.professionals[id]
	if !ok {
		return nil, ErrProfessionalNotFound
	}
	return pro, nil
}

// GetByUserID retrieves the professional linked to a user account.
func (r *InMemoryProfessionalRepository) GetByUserID(ctx context.Context, userID string) (*Professional, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, pro := range r.professionals {
		if pro.UserID == userID {
			return pro, nil
		}
	}
	return nil, ErrProfessionalNotFound
}

// ListActive returns active professionals ordered by display name.
func (r *InMemoryProfessionalRepository) ListActive(ctx context.Context) ([]*Professional, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Professional, 0, len(r.professionals))
	for _, pro := range r.professionals {
		if pro.Active {
			out = append(out, pro)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out, nil
}
