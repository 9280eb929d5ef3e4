package listing

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests and embedding.
type MemoryStore struct {
	mu        sync.RWMutex
	listings  []Listing
	favorites map[string]map[string]struct{}
}

// NewMemoryStore creates a store holding a copy of listings.
func NewMemoryStore(listings ...Listing) *MemoryStore {
	cpy := make([]Listing, len(listings))
	copy(cpy, listings)
	return &MemoryStore{
		listings:  cpy,
		favorites: make(map[string]map[string]struct{}),
	}
}

// List returns a copy of the active listings in insertion order.
func (s *MemoryStore) List(_ context.Context) ([]Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return activeOnly(s.listings), nil
}

// ListAll returns a copy of every listing.
func (s *MemoryStore) ListAll(_ context.Context) ([]Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Listing, len(s.listings))
	copy(out, s.listings)
	return out, nil
}

// ListByOwner returns an owner's listings, newest first.
func (s *MemoryStore) ListByOwner(_ context.Context, ownerID string) ([]Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Listing, 0)
	for _, l := range s.listings {
		if l.Owner.ID == ownerID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Get looks up a listing by ID.
func (s *MemoryStore) Get(_ context.Context, id string) (Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.listings[i], nil
	}
	return Listing{}, ErrNotFound
}

func (s *MemoryStore) index(id string) int {
	for i := range s.listings {
		if s.listings[i].ID == id {
			return i
		}
	}
	return -1
}

// Put adds or replaces a listing.
func (s *MemoryStore) Put(l Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(l.ID); i >= 0 {
		s.listings[i] = l
		return
	}
	s.listings = append(s.listings, l)
}

// Create adds l, assigning an ID and creation time when missing.
func (s *MemoryStore) Create(_ context.Context, l Listing) (Listing, error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.Status == "" {
		l.Status = StatusActive
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	s.Put(l)
	return l, nil
}

func (s *MemoryStore) modify(id string, fn func(*Listing)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	fn(&s.listings[i])
	return nil
}

// SetFeatured flags or unflags a listing as featured.
func (s *MemoryStore) SetFeatured(_ context.Context, id string, featured bool) error {
	return s.modify(id, func(l *Listing) { l.Featured = featured })
}

// SetStatus moves a listing between active and suspended.
func (s *MemoryStore) SetStatus(_ context.Context, id, status string) error {
	if status != StatusActive && status != StatusSuspended {
		return fmt.Errorf("invalid listing status %q", status)
	}
	return s.modify(id, func(l *Listing) { l.Status = status })
}

// AddFavorite records a favorite for userID.
func (s *MemoryStore) AddFavorite(_ context.Context, userID, listingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.favorites[userID]
	if !ok {
		set = make(map[string]struct{})
		s.favorites[userID] = set
	}
	set[listingID] = struct{}{}
	return nil
}

// RemoveFavorite deletes a favorite if present.
func (s *MemoryStore) RemoveFavorite(_ context.Context, userID, listingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.favorites[userID], listingID)
	return nil
}

// FavoriteIDs returns the user's favorites. A user with none gets an empty,
// non-nil set.
func (s *MemoryStore) FavoriteIDs(_ context.Context, userID string) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]struct{}, len(s.favorites[userID]))
	for id := range s.favorites[userID] {
		out[id] = struct{}{}
	}
	return out, nil
}
