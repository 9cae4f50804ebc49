package registry

import (
	"context"
	"encoding/json"
	"strings"

	"quizmaster/internal/bank"
	"quizmaster/internal/domain"
)

// StateStore is the slice of the shared key-value state the registry needs.
type StateStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Update(ctx context.Context, key string, mutate func([]byte) ([]byte, error)) error
}

// Registry resolves access codes against a track's provisioned identities and
// answers ban/approval questions from persisted state.
type Registry struct {
	track      bank.Track
	identities []domain.ParticipantIdentity
	state      StateStore
}

// NewBusiness builds the track-1 registry.
func NewBusiness(state StateStore) *Registry {
	return &Registry{track: bank.TrackBusiness, identities: businessParticipants, state: state}
}

// NewReading builds the track-2 registry. Track 2 admits holders of track-1
// credentials, so the business identities are part of its universe alongside
// the track's own provisioned list; ban and approval lists resolve against
// both.
func NewReading(state StateStore) *Registry {
	identities := make([]domain.ParticipantIdentity, 0, len(readingParticipants)+len(businessParticipants))
	identities = append(identities, readingParticipants...)
	identities = append(identities, businessParticipants...)
	return &Registry{track: bank.TrackReading, identities: identities, state: state}
}

// NewWithIdentities is for tests that need a small custom identity set.
func NewWithIdentities(track bank.Track, identities []domain.ParticipantIdentity, state StateStore) *Registry {
	return &Registry{track: track, identities: identities, state: state}
}

// Identities returns the full provisioned list.
func (r *Registry) Identities() []domain.ParticipantIdentity {
	return r.identities
}

// Lookup finds an identity by access code without checking the ban list.
// Callers use it to distinguish "invalid code" from "banned".
func (r *Registry) Lookup(code string) (domain.ParticipantIdentity, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	for _, identity := range r.identities {
		if identity.AccessCode == normalized {
			return identity, true
		}
	}
	return domain.ParticipantIdentity{}, false
}

// ByID finds an identity by participant id.
func (r *Registry) ByID(id string) (domain.ParticipantIdentity, bool) {
	for _, identity := range r.identities {
		if identity.ID == id {
			return identity, true
		}
	}
	return domain.ParticipantIdentity{}, false
}

// Authenticate resolves an access code to an identity. It fails with
// ErrInvalidCode when the code matches nobody and ErrAccessRevoked when the
// matched identity is banned.
func (r *Registry) Authenticate(ctx context.Context, code string) (domain.ParticipantIdentity, error) {
	identity, ok := r.Lookup(code)
	if !ok {
		return domain.ParticipantIdentity{}, domain.ErrInvalidCode
	}
	banned, err := r.IsBanned(ctx, identity.ID)
	if err != nil {
		return domain.ParticipantIdentity{}, err
	}
	if banned {
		return domain.ParticipantIdentity{}, domain.ErrAccessRevoked
	}
	return identity, nil
}

// IsBanned reports whether the participant id is on the track's ban list.
func (r *Registry) IsBanned(ctx context.Context, id string) (bool, error) {
	ids, err := r.ids(ctx, r.track.BannedKey())
	if err != nil {
		return false, err
	}
	return contains(ids, id), nil
}

// Ban marks the participant permanently ineligible. Idempotent.
func (r *Registry) Ban(ctx context.Context, id string) error {
	return r.addID(ctx, r.track.BannedKey(), id)
}

// Unban removes the participant from the ban list.
func (r *Registry) Unban(ctx context.Context, id string) error {
	return r.removeID(ctx, r.track.BannedKey(), id)
}

// BannedIdentities resolves the ban list against the provisioned identities.
func (r *Registry) BannedIdentities(ctx context.Context) ([]domain.ParticipantIdentity, error) {
	ids, err := r.ids(ctx, r.track.BannedKey())
	if err != nil {
		return nil, err
	}
	banned := make([]domain.ParticipantIdentity, 0, len(ids))
	for _, identity := range r.identities {
		if contains(ids, identity.ID) {
			banned = append(banned, identity)
		}
	}
	return banned, nil
}

// IsApproved reports track-2 approval. Tracks without an approval gate always
// answer true.
func (r *Registry) IsApproved(ctx context.Context, id string) (bool, error) {
	key := r.track.ApprovedKey()
	if key == "" {
		return true, nil
	}
	ids, err := r.ids(ctx, key)
	if err != nil {
		return false, err
	}
	return contains(ids, id), nil
}

// Approve permits the participant to start the track. Idempotent.
func (r *Registry) Approve(ctx context.Context, id string) error {
	return r.addID(ctx, r.track.ApprovedKey(), id)
}

// Revoke withdraws approval.
func (r *Registry) Revoke(ctx context.Context, id string) error {
	return r.removeID(ctx, r.track.ApprovedKey(), id)
}

// ToggleApproval flips the participant's approval and reports the new state.
func (r *Registry) ToggleApproval(ctx context.Context, id string) (bool, error) {
	approved, err := r.IsApproved(ctx, id)
	if err != nil {
		return false, err
	}
	if approved {
		if err := r.Revoke(ctx, id); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := r.Approve(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}

// ApprovedIDs returns the raw approval set.
func (r *Registry) ApprovedIDs(ctx context.Context) ([]string, error) {
	key := r.track.ApprovedKey()
	if key == "" {
		return nil, nil
	}
	return r.ids(ctx, key)
}

func (r *Registry) ids(ctx context.Context, key string) ([]string, error) {
	raw, err := r.state.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return decodeIDs(raw), nil
}

func (r *Registry) addID(ctx context.Context, key, id string) error {
	return r.state.Update(ctx, key, func(raw []byte) ([]byte, error) {
		ids := decodeIDs(raw)
		if contains(ids, id) {
			return json.Marshal(ids)
		}
		return json.Marshal(append(ids, id))
	})
}

func (r *Registry) removeID(ctx context.Context, key, id string) error {
	return r.state.Update(ctx, key, func(raw []byte) ([]byte, error) {
		ids := decodeIDs(raw)
		kept := ids[:0]
		for _, existing := range ids {
			if existing != id {
				kept = append(kept, existing)
			}
		}
		return json.Marshal(kept)
	})
}

// decodeIDs treats missing or malformed data as an empty set.
func decodeIDs(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return []string{}
	}
	return ids
}

func contains(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
