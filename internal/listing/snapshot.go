package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sudo-init-do/gearhub/internal/storage"
)

// SnapshotVersion is the current snapshot format.
const SnapshotVersion = 1

// Snapshot is a point-in-time export of the catalog.
type Snapshot struct {
	Version     int       `json:"version"`
	GeneratedAt time.Time `json:"generated_at"`
	Listings    []Listing `json:"listings"`
}

// EncodeSnapshot serializes listings as a snapshot document.
func EncodeSnapshot(listings []Listing, at time.Time) ([]byte, error) {
	if listings == nil {
		listings = []Listing{}
	}
	data, err := json.Marshal(Snapshot{
		Version:     SnapshotVersion,
		GeneratedAt: at.UTC(),
		Listings:    listings,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a snapshot document.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	return &s, nil
}

// SnapshotStore is a read-only catalog backed by a snapshot object.
// The decoded snapshot is reused until ttl passes.
type SnapshotStore struct {
	store storage.Store
	key   string
	ttl   time.Duration
	now   func() time.Time

	mu       sync.Mutex
	cached   []Listing
	loadedAt time.Time
}

// NewSnapshotStore reads the snapshot at key from store.
func NewSnapshotStore(store storage.Store, key string, ttl time.Duration) *SnapshotStore {
	if key == "" {
		key = storage.LatestSnapshotPath()
	}
	return &SnapshotStore{store: store, key: key, ttl: ttl, now: time.Now}
}

func (s *SnapshotStore) load(ctx context.Context) ([]Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.now().Sub(s.loadedAt) < s.ttl {
		return s.cached, nil
	}

	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		if s.cached != nil {
			// Serve stale data rather than failing searches.
			return s.cached, nil
		}
		return nil, fmt.Errorf("failed to fetch snapshot: %w", err)
	}
	snap, err := DecodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	s.cached = activeOnly(snap.Listings)
	s.loadedAt = s.now()
	return s.cached, nil
}

// List returns the snapshot's active listings.
func (s *SnapshotStore) List(ctx context.Context) ([]Listing, error) {
	listings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Listing, len(listings))
	copy(out, listings)
	return out, nil
}

// Get looks up a listing in the snapshot.
func (s *SnapshotStore) Get(ctx context.Context, id string) (Listing, error) {
	listings, err := s.load(ctx)
	if err != nil {
		return Listing{}, err
	}
	for _, l := range listings {
		if l.ID == id {
			return l, nil
		}
	}
	return Listing{}, ErrNotFound
}

// FavoriteIDs returns nil: snapshots carry no user data.
func (s *SnapshotStore) FavoriteIDs(_ context.Context, _ string) (map[string]struct{}, error) {
	return nil, nil
}
