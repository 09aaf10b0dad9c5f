package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"pawshome/internal/models"
	"pawshome/internal/repository"
	"pawshome/internal/security"
)

type fakeAdminMembership struct {
	members map[string]bool
	err     error
}

func (f *fakeAdminMembership) Exists(_ context.Context, uid string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.members[uid], nil
}

type fakeUserLookup struct {
	users map[string]models.User
	err   error
}

func (f *fakeUserLookup) GetByID(_ context.Context, id string) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func newGate(admins *fakeAdminMembership, users *fakeUserLookup) *AdminGate {
	if admins == nil {
		admins = &fakeAdminMembership{}
	}
	if users == nil {
		users = &fakeUserLookup{}
	}
	return NewAdminGate(admins, users, zerolog.Nop())
}

func TestAdminGateUnauthenticated(t *testing.T) {
	gate := newGate(nil, nil)

	assert.False(t, gate.IsAdmin(context.Background(), security.Identity{}))
	assert.False(t, gate.IsAdmin(context.Background(), security.Identity{Authenticated: true}))
}

func TestAdminGateVerifiedClaim(t *testing.T) {
	// The claim alone is enough on a verified token; no store lookups needed.
	gate := newGate(&fakeAdminMembership{err: assert.AnError}, &fakeUserLookup{err: assert.AnError})

	identity := security.Identity{Authenticated: true, Verified: true, Admin: true, UID: "u1"}
	assert.True(t, gate.IsAdmin(context.Background(), identity))
}

func TestAdminGateUnverifiedClaimNotTrusted(t *testing.T) {
	gate := newGate(nil, nil)

	identity := security.Identity{Authenticated: true, Verified: false, Admin: true, UID: "u1"}
	assert.False(t, gate.IsAdmin(context.Background(), identity))
}

func TestAdminGateMembershipTable(t *testing.T) {
	gate := newGate(&fakeAdminMembership{members: map[string]bool{"u1": true}}, nil)

	identity := security.Identity{Authenticated: true, Verified: true, UID: "u1"}
	assert.True(t, gate.IsAdmin(context.Background(), identity))
}

func TestAdminGateUserField(t *testing.T) {
	users := &fakeUserLookup{users: map[string]models.User{
		"u1": {ID: "u1", IsAdmin: true},
		"u2": {ID: "u2"},
	}}
	gate := newGate(nil, users)

	assert.True(t, gate.IsAdmin(context.Background(), security.Identity{Authenticated: true, UID: "u1"}))
	assert.False(t, gate.IsAdmin(context.Background(), security.Identity{Authenticated: true, UID: "u2"}))
}

func TestAdminGateFailsClosed(t *testing.T) {
	gate := newGate(&fakeAdminMembership{err: assert.AnError}, &fakeUserLookup{err: assert.AnError})

	identity := security.Identity{Authenticated: true, UID: "u1"}
	assert.False(t, gate.IsAdmin(context.Background(), identity))
}
