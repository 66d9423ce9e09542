package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/stakeledger/internal/authority"
	"github.com/mcoot/stakeledger/internal/dependencies/clock"
	"github.com/mcoot/stakeledger/internal/dependencies/salt"
	"github.com/mcoot/stakeledger/internal/model"
	"github.com/mcoot/stakeledger/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidUsername    = errors.New("username and password are required")
)

// Session represents an authenticated session
type Session struct {
	Token     string
	Address   model.Address
	Identity  model.Identity
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Signer returns the capability to sign ledger operations as this identity
func (s *Session) Signer() authority.Signer {
	return authority.Identity(s.Address)
}

// Service handles identities and session management
type Service struct {
	store  storage.Store
	clock  clock.Clock
	salt   salt.Generator
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new auth Service
func New(store storage.Store, clock clock.Clock, salt salt.Generator, logger *slog.Logger, cfg Config) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		store:           store,
		clock:           clock,
		salt:            salt,
		logger:          logger,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}
}

// CreateGuest creates an identity without credentials, and a session for it
func (s *Service) CreateGuest(ctx context.Context, displayName string) (*Session, error) {
	identity := &model.Identity{
		Address:     s.newAddress(),
		DisplayName: displayName,
		IsGuest:     true,
		CreatedAt:   s.clock.Now(),
	}

	err := s.store.Update(ctx, func(tx storage.Tx) error {
		return storage.NewRepo(tx).SaveIdentity(ctx, identity)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("guest identity created",
		slog.String("address", string(identity.Address)),
	)

	return s.createSession(identity), nil
}

// Register creates an identity with a username and password, and a session for it
func (s *Service) Register(ctx context.Context, username, password, displayName string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	identity := &model.Identity{
		Address:     s.newAddress(),
		DisplayName: displayName,
		CreatedAt:   now,
	}
	credential := &model.Credential{
		Address:      identity.Address,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}

	err = s.store.Update(ctx, func(tx storage.Tx) error {
		repo := storage.NewRepo(tx)

		_, err := repo.GetCredentialByUsername(ctx, username)
		if err == nil {
			return ErrUsernameExists
		}
		if !errors.Is(err, model.ErrIdentityNotFound) {
			return err
		}

		if err := repo.SaveIdentity(ctx, identity); err != nil {
			return err
		}
		return repo.SaveCredential(ctx, credential)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("identity registered",
		slog.String("address", string(identity.Address)),
		slog.String("username", username),
	)

	return s.createSession(identity), nil
}

// Login authenticates a registered identity and creates a session
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	var identity *model.Identity
	err := s.store.View(ctx, func(tx storage.Tx) error {
		repo := storage.NewRepo(tx)

		cred, err := repo.GetCredentialByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, model.ErrIdentityNotFound) {
				return ErrInvalidCredentials
			}
			return err
		}

		if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
			return ErrInvalidCredentials
		}

		identity, err = repo.GetIdentity(ctx, cred.Address)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.createSession(identity), nil
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// GetIdentity returns the identity for a session token
func (s *Service) GetIdentity(token string) (*model.Identity, error) {
	session, err := s.ValidateSession(token)
	if err != nil {
		return nil, err
	}
	return &session.Identity, nil
}

// createSession creates a new session for an identity
func (s *Service) createSession(identity *model.Identity) *Session {
	now := s.clock.Now()
	session := &Session{
		Token:     "sess_" + s.salt.New(),
		Address:   identity.Address,
		Identity:  *identity,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session
}

func (s *Service) newAddress() model.Address {
	return model.Address("id_" + s.salt.New())
}

// CleanExpiredSessions removes expired sessions and returns how many it removed
func (s *Service) CleanExpiredSessions() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}
