// Package session holds the signed-in identity of the app and the access
// token the gateway sends with table calls.
//
// A Manager keeps at most one session. SignOut bumps an epoch counter, so a
// sign-in that was still in flight when the user signed out finishes with
// ErrSuperseded instead of restoring the old identity.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"encore-rentals/internal/domain"
	"encore-rentals/internal/gateway"
	"encore-rentals/internal/logger"

	"github.com/golang-jwt/jwt/v5"
)

const defaultDisplayName = "User"

var (
	ErrSuperseded   = errors.New("session changed while the request was in flight")
	ErrNotSignedIn  = errors.New("not signed in")
	ErrInvalidToken = errors.New("invalid access token")
)

// AuthClient is the part of the gateway the manager needs.
type AuthClient interface {
	SignInWithPassword(ctx context.Context, email, password string) (*gateway.AuthSession, error)
	SignUp(ctx context.Context, req gateway.SignUpRequest) (*gateway.SignUpResponse, error)
}

type Options struct {
	// JWTSecret enables signature checks on access tokens. When empty, claims
	// are read without verification; the backend remains the authority.
	JWTSecret string
	Now       func() time.Time
}

// Session is the signed-in state.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        domain.User
}

// Expired reports whether the access token has passed its exp claim.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type Outcome int

const (
	OutcomeSignedIn Outcome = iota + 1
	// OutcomeConfirmationPending means the account exists but the backend
	// wants the email confirmed before it issues a session. Not an error.
	OutcomeConfirmationPending
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSignedIn:
		return "signed_in"
	case OutcomeConfirmationPending:
		return "confirmation_pending"
	}
	return "unknown"
}

type Result struct {
	Outcome Outcome
	Session *Session
}

type SignUpInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

type Manager struct {
	auth   AuthClient
	secret []byte
	now    func() time.Time

	mu      sync.RWMutex
	epoch   uint64
	current *Session
}

func NewManager(auth AuthClient, opts Options) *Manager {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		auth:   auth,
		secret: []byte(opts.JWTSecret),
		now:    now,
	}
}

func (m *Manager) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	epoch := m.currentEpoch()

	resp, err := m.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	sess, err := m.newSession(resp, nil)
	if err != nil {
		return nil, err
	}
	if err := m.install(epoch, sess); err != nil {
		return nil, err
	}
	logger.Info("User signed in", "user_id", sess.User.ID, "role", sess.User.Role)
	return sess.copy(), nil
}

func (m *Manager) SignUp(ctx context.Context, in SignUpInput) (Result, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return Result{}, fmt.Errorf("email and password are required")
	}
	role := in.Role
	if role != domain.RoleHost {
		role = domain.RoleRenter
	}
	epoch := m.currentEpoch()

	resp, err := m.auth.SignUp(ctx, gateway.SignUpRequest{
		Email:    email,
		Password: in.Password,
		Data:     gateway.UserMetadata{Name: strings.TrimSpace(in.Name), Role: string(role)},
	})
	if err != nil {
		return Result{}, err
	}

	active, ok := resp.ActiveSession()
	if !ok {
		logger.Info("Sign-up awaiting email confirmation", "email", email)
		return Result{Outcome: OutcomeConfirmationPending}, nil
	}
	sess, err := m.newSession(active, resp.User)
	if err != nil {
		return Result{}, err
	}
	if err := m.install(epoch, sess); err != nil {
		return Result{}, err
	}
	logger.Info("User signed up", "user_id", sess.User.ID, "role", sess.User.Role)
	return Result{Outcome: OutcomeSignedIn, Session: sess.copy()}, nil
}

// SignOut drops the session. It is safe to call when already signed out.
func (m *Manager) SignOut() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.epoch++
	if m.current != nil {
		logger.Info("User signed out", "user_id", m.current.User.ID)
	}
	m.current = nil
}

// Current returns a copy of the session, or nil when signed out.
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.copy()
}

// User returns the signed-in user.
func (m *Manager) User() (domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return domain.User{}, ErrNotSignedIn
	}
	return m.current.User, nil
}

// AccessToken implements gateway.TokenSource. Expired tokens are not offered.
func (m *Manager) AccessToken() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil || m.current.Expired(m.now()) {
		return "", false
	}
	return m.current.AccessToken, true
}

// UpdateUser replaces the mutable profile fields of the held user.
func (m *Manager) UpdateUser(name, avatarURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ErrNotSignedIn
	}
	m.current.User.Name = name
	m.current.User.AvatarURL = avatarURL
	return nil
}

func (m *Manager) currentEpoch() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.epoch
}

func (m *Manager) install(epoch uint64, sess *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		logger.Warn("Discarding stale auth result", "user_id", sess.User.ID)
		return ErrSuperseded
	}
	m.epoch++
	m.current = sess
	return nil
}

func (m *Manager) newSession(resp *gateway.AuthSession, fallback *gateway.AuthUser) (*Session, error) {
	if resp == nil || resp.AccessToken == "" {
		return nil, &gateway.Error{Kind: gateway.KindAuth, Op: "session", Detail: "Invalid credentials"}
	}
	claims, err := m.parseClaims(resp.AccessToken)
	if err != nil {
		return nil, err
	}

	au := resp.User
	if au == nil {
		au = fallback
	}
	user := userFrom(au, claims)

	sess := &Session{AccessToken: resp.AccessToken, User: user}
	if claims != nil && claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	} else if resp.ExpiresIn > 0 {
		sess.ExpiresAt = m.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	return sess, nil
}

func userFrom(au *gateway.AuthUser, claims *tokenClaims) domain.User {
	var user domain.User
	var meta gateway.UserMetadata
	if au != nil {
		user.ID = au.ID
		user.Email = au.Email
		meta = au.UserMetadata
	}
	if claims != nil {
		if user.ID == "" {
			user.ID = claims.Subject
		}
		if user.Email == "" {
			user.Email = claims.Email
		}
		if meta.Name == "" {
			meta.Name = claims.UserMetadata.Name
		}
		if meta.Role == "" {
			meta.Role = claims.UserMetadata.Role
		}
	}
	user.Name = strings.TrimSpace(meta.Name)
	if user.Name == "" {
		user.Name = defaultDisplayName
	}
	user.Role = domain.ParseRole(meta.Role)
	return user
}

type tokenClaims struct {
	Email        string               `json:"email,omitempty"`
	UserMetadata gateway.UserMetadata `json:"user_metadata"`
	jwt.RegisteredClaims
}

// parseClaims reads the access token. Opaque tokens are accepted without
// claims unless a secret is configured.
func (m *Manager) parseClaims(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	if len(m.secret) == 0 {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return nil, nil
		}
		return claims, nil
	}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

func (s *Session) copy() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}
