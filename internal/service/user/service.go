package user

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	"github.com/jwalitptl/hospital-api/pkg/clock"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/security"
)

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int, username, role string) (string, time.Time, error)
}

// Option configures optional collaborators.
type Option func(*Service)

// WithRoleCache flushes cached role reads whenever user membership changes,
// since roles report how many users carry their name.
func WithRoleCache(c interface{ Invalidate() }) Option {
	return func(s *Service) { s.roleCache = c }
}

type Service struct {
	repo      repository.UserRepository
	hasher    security.PasswordHasher
	tokens    TokenIssuer
	clock     clock.Clock
	roleCache interface{ Invalidate() }
}

func NewService(repo repository.UserRepository, hasher security.PasswordHasher, tokens TokenIssuer, clk clock.Clock, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		clock:  clk,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" {
		return nil, apperrors.BadRequest("username and email are required")
	}
	role, ok := model.ParseUserRole(string(req.Role))
	if !ok {
		return nil, apperrors.BadRequest("invalid role")
	}

	if existing, err := service.Optional(s.repo.GetByUsername(ctx, username)); err != nil {
		return nil, apperrors.Internal(err)
	} else if existing != nil {
		return nil, apperrors.BadRequest("username already exists")
	}
	if existing, err := service.Optional(s.repo.GetByEmail(ctx, email)); err != nil {
		return nil, apperrors.Internal(err)
	} else if existing != nil {
		return nil, apperrors.BadRequest("email already exists")
	}

	digest, err := s.hasher.Hash(req.Password)
	if errors.Is(err, security.ErrPasswordTooShort) {
		return nil, apperrors.BadRequest("password must be at least 8 characters")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	u := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: digest,
		Role:         role,
		IsActive:     true,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if service.IsDuplicate(err) {
			return nil, apperrors.BadRequest("username or email already exists")
		}
		return nil, apperrors.Internal(err)
	}

	s.invalidateRoles()
	log.Info().Int("user_id", u.ID).Str("role", string(u.Role)).Msg("User registered")
	return u, nil
}

// Login checks the password before the active flag, so an inactive account
// is only reported to someone holding its credentials.
func (s *Service) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	u, err := service.Optional(s.repo.GetByUsername(ctx, strings.TrimSpace(req.Username)))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if u == nil || !s.hasher.Verify(req.Password, u.PasswordHash) {
		log.Warn().Str("username", req.Username).Msg("Failed login attempt")
		return nil, apperrors.Unauthorized("invalid credentials")
	}
	if !u.IsActive {
		return nil, apperrors.Unauthorized("user account is inactive")
	}

	token, expiresAt, err := s.tokens.Issue(u.ID, u.Username, string(u.Role))
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Username:  u.Username,
		Role:      u.Role,
		User:      u,
	}, nil
}

func (s *Service) GetUser(ctx context.Context, id int) (*model.User, error) {
	u, err := service.Optional(s.repo.GetByID(ctx, id))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return u, nil
}

// ListUsers returns users ordered by username.
func (s *Service) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (s *Service) SetActive(ctx context.Context, id int, active bool) (*model.User, error) {
	err := s.repo.UpdateActive(ctx, id, active)
	if service.IsNotFound(err) {
		return nil, apperrors.NotFound("user")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	log.Info().Int("user_id", id).Bool("active", active).Msg("User active flag changed")
	return s.GetUser(ctx, id)
}

func (s *Service) invalidateRoles() {
	if s.roleCache != nil {
		s.roleCache.Invalidate()
	}
}
