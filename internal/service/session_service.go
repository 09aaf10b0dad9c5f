package service

import (
	"context"
	"crypto/sha256"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pawshome/internal/config"
	"pawshome/internal/ids"
	"pawshome/internal/models"
	"pawshome/internal/repository"
	"pawshome/internal/security"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type SessionService struct {
	users    *repository.UserRepository
	sessions *repository.SessionRepository
	admins   *repository.AdminRepository
	activity ActivityRecorder
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewSessionService(
	users *repository.UserRepository,
	sessions *repository.SessionRepository,
	admins *repository.AdminRepository,
	activity ActivityRecorder,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		users:    users,
		sessions: sessions,
		admins:   admins,
		activity: activity,
		cfg:      cfg,
		log:      log,
	}
}

type LoginInput struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

type SessionResult struct {
	Token string
	User  models.User
}

func (s *SessionService) Login(ctx context.Context, input LoginInput) (SessionResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || input.Password == "" {
		return SessionResult{}, ErrValidation
	}

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return SessionResult{}, ErrInvalidCredentials
		}
		return SessionResult{}, err
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return SessionResult{}, ErrInvalidCredentials
	}

	if user.Status != models.UserStatusActive {
		return SessionResult{}, ErrForbidden
	}

	return s.mint(ctx, user, input.IPAddress, input.UserAgent)
}

// CreateSession exchanges an already-issued bearer token for a session
// cookie. Only fully verified tokens are accepted here; the payload-decode
// fallback never mints a new session.
func (s *SessionService) CreateSession(ctx context.Context, token string, ip string, userAgent string) (SessionResult, error) {
	identity := security.VerifySessionToken(token, s.cfg.Session.Secret)
	if !identity.Authenticated || !identity.Verified {
		return SessionResult{}, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, identity.UID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return SessionResult{}, ErrUnauthenticated
		}
		return SessionResult{}, err
	}
	if user.Status != models.UserStatusActive {
		return SessionResult{}, ErrForbidden
	}

	return s.mint(ctx, user, ip, userAgent)
}

// ValidateSession reports whether the session row behind a verified identity
// is still present and unexpired, refreshing its last-seen stamp when it is.
// A logged-out or swept session fails here even if the cookie is still valid.
func (s *SessionService) ValidateSession(ctx context.Context, sessionID string, ip string, userAgent string) bool {
	if sessionID == "" {
		return false
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, repository.ErrSessionNotFound) {
			s.log.Warn().Err(err).Str("session_id", sessionID).Msg("session lookup failed")
		}
		return false
	}
	if time.Now().After(session.ExpiresAt) {
		return false
	}

	if err := s.sessions.Touch(ctx, sessionID, ip, userAgent); err != nil {
		s.log.Debug().Err(err).Str("session_id", sessionID).Msg("session touch failed")
	}
	return true
}

func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.DeleteByID(ctx, sessionID)
}

type CreateUserInput struct {
	Email       string
	Password    string
	DisplayName string
	Admin       bool
}

func (s *SessionService) CreateUser(ctx context.Context, input CreateUserInput, actor string) (models.User, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || !strings.Contains(input.Email, "@") || len(input.Password) < 8 {
		return models.User{}, ErrValidation
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Email:        input.Email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		IsAdmin:      input.Admin,
		Status:       models.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, err
	}

	if input.Admin {
		if err := s.admins.Add(ctx, user.ID, actor); err != nil {
			return models.User{}, err
		}
	}

	s.activity.Record(ctx, actor, "create", "user", user.ID, user.Email)
	return user, nil
}

func (s *SessionService) SetUserStatus(ctx context.Context, uid string, status models.UserStatus, actor string) error {
	if uid == "" {
		return ErrValidation
	}
	switch status {
	case models.UserStatusActive, models.UserStatusSuspended:
	default:
		return ErrValidation
	}

	if err := s.users.UpdateStatus(ctx, uid, status); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.activity.Record(ctx, actor, "set-status", "user", uid, string(status))
	return nil
}

func (s *SessionService) SetAdmin(ctx context.Context, uid string, admin bool, actor string) error {
	if uid == "" {
		return ErrValidation
	}

	if err := s.users.SetAdmin(ctx, uid, admin); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return err
	}

	if admin {
		if err := s.admins.Add(ctx, uid, actor); err != nil {
			return err
		}
	} else {
		if err := s.admins.Remove(ctx, uid); err != nil {
			return err
		}
	}

	detail := "revoked"
	if admin {
		detail = "granted"
	}
	s.activity.Record(ctx, actor, "set-admin", "user", uid, detail)
	return nil
}

func (s *SessionService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *SessionService) mint(ctx context.Context, user models.User, ip string, userAgent string) (SessionResult, error) {
	sessionID := ids.New()

	token, err := security.GenerateSessionToken(
		s.cfg.Session.Secret,
		user.ID,
		sessionID,
		user.Email,
		user.IsAdmin,
		s.cfg.Session.TTL,
	)
	if err != nil {
		return SessionResult{}, err
	}

	hash := sha256.Sum256([]byte(token))
	session := models.Session{
		ID:        sessionID,
		UserID:    user.ID,
		TokenHash: hash[:],
		IPAddress: ip,
		UserAgent: userAgent,
		ExpiresAt: time.Now().Add(s.cfg.Session.TTL),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return SessionResult{}, err
	}

	return SessionResult{Token: token, User: user}, nil
}
