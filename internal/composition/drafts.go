package composition

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/agrofeira/feira-backend/pkg/errors"
	"github.com/agrofeira/feira-backend/pkg/redis"
)

// DraftSnapshot is the wire form of an in-progress composition, keyed by
// (cycle, market). Groups and quantities are stored as arrays so the JSON
// round trip keeps insertion order intact.
type DraftSnapshot struct {
	CycleID    uuid.UUID       `json:"cycle_id"`
	MarketID   uuid.UUID       `json:"market_id"`
	Groups     []DraftGroup    `json:"groups"`
	Quantities []DraftQuantity `json:"quantities"`
	SavedAt    time.Time       `json:"saved_at"`
}

// DraftGroup records one base-product group and its selected offers in order.
type DraftGroup struct {
	Key      string      `json:"key"`
	OfferIDs []uuid.UUID `json:"offer_ids"`
}

// DraftQuantity records one positive quantity entry.
type DraftQuantity struct {
	OfferID  uuid.UUID `json:"offer_id"`
	Quantity int       `json:"quantity"`
}

// Snapshot serializes the allocator's current state.
func (a *Allocator) Snapshot(cycleID, marketID uuid.UUID, now time.Time) DraftSnapshot {
	snap := DraftSnapshot{
		CycleID:  cycleID,
		MarketID: marketID,
		SavedAt:  now.UTC(),
	}
	for _, groupKey := range a.groupOrder {
		snap.Groups = append(snap.Groups, DraftGroup{
			Key:      groupKey,
			OfferIDs: append([]uuid.UUID(nil), a.selection[groupKey]...),
		})
	}
	for _, group := range snap.Groups {
		for _, id := range group.OfferIDs {
			if qty := a.quantities[id]; qty > 0 {
				snap.Quantities = append(snap.Quantities, DraftQuantity{OfferID: id, Quantity: qty})
			}
		}
	}
	return snap
}

// Restore replays a snapshot through the regular operations so every entry is
// re-validated against the current catalog: offers that disappeared are
// dropped and quantities are re-clamped to today's availability.
func (a *Allocator) Restore(snap DraftSnapshot) {
	for _, group := range snap.Groups {
		for _, id := range group.OfferIDs {
			if !a.IsSelected(group.Key, id) {
				a.Toggle(group.Key, id)
			}
		}
	}
	for _, entry := range snap.Quantities {
		a.SetQuantity(entry.OfferID, entry.Quantity)
	}
}

// DraftBackend is the slice of the redis client the draft store relies on.
type DraftBackend interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	DraftKey(cycleID, marketID string) string
}

// DraftStore persists composition drafts in redis with a sliding TTL.
type DraftStore struct {
	store DraftBackend
	ttl   time.Duration
}

// NewDraftStore panics when the redis client is nil.
func NewDraftStore(store DraftBackend, ttl time.Duration) *DraftStore {
	if store == nil {
		panic("composition: redis client is required")
	}
	return &DraftStore{store: store, ttl: ttl}
}

// Save writes the snapshot, resetting the TTL.
func (s *DraftStore) Save(ctx context.Context, snap DraftSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal draft snapshot")
	}
	key := s.store.DraftKey(snap.CycleID.String(), snap.MarketID.String())
	if err := s.store.Set(ctx, key, payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save draft snapshot")
	}
	return nil
}

// Load fetches the snapshot for the pair. Returns a CodeNotFound error when
// no draft exists.
func (s *DraftStore) Load(ctx context.Context, cycleID, marketID uuid.UUID) (DraftSnapshot, error) {
	key := s.store.DraftKey(cycleID.String(), marketID.String())
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.ErrKeyNotFound) {
			return DraftSnapshot{}, pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
		}
		return DraftSnapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load draft snapshot")
	}
	var snap DraftSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return DraftSnapshot{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode draft snapshot")
	}
	return snap, nil
}

// Discard deletes the draft for the pair. Missing drafts are not an error.
func (s *DraftStore) Discard(ctx context.Context, cycleID, marketID uuid.UUID) error {
	key := s.store.DraftKey(cycleID.String(), marketID.String())
	if err := s.store.Del(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "discard draft snapshot")
	}
	return nil
}
