package service

import (
	"context"

	"github.com/rs/zerolog"

	"pawshome/internal/models"
	"pawshome/internal/security"
)

type AdminMembershipStore interface {
	Exists(ctx context.Context, uid string) (bool, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

// AdminGate answers "may this identity mutate?". Three sources are consulted
// in order: the verified token claim, membership in the admins table, and the
// is_admin field on the user record. Lookup errors are treated as "not admin"
// rather than surfaced, so an outage can never fail open.
type AdminGate struct {
	admins AdminMembershipStore
	users  UserLookup
	log    zerolog.Logger
}

func NewAdminGate(admins AdminMembershipStore, users UserLookup, log zerolog.Logger) *AdminGate {
	return &AdminGate{
		admins: admins,
		users:  users,
		log:    log,
	}
}

func (g *AdminGate) IsAdmin(ctx context.Context, identity security.Identity) bool {
	if !identity.Authenticated || identity.UID == "" {
		return false
	}

	// The claim is only trusted on a signature-verified token.
	if identity.Verified && identity.Admin {
		return true
	}

	exists, err := g.admins.Exists(ctx, identity.UID)
	if err != nil {
		g.log.Debug().Err(err).Str("uid", identity.UID).Msg("admin membership lookup failed")
	} else if exists {
		return true
	}

	user, err := g.users.GetByID(ctx, identity.UID)
	if err != nil {
		g.log.Debug().Err(err).Str("uid", identity.UID).Msg("user lookup failed")
		return false
	}
	return user.IsAdmin
}
