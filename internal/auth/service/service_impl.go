package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/medipos/internal/auth/domain"
	"github.com/smallbiznis/medipos/internal/auth/password"
	"github.com/smallbiznis/medipos/internal/config"
	"github.com/smallbiznis/medipos/internal/storecontext"
	"github.com/smallbiznis/medipos/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Cfg   config.Config
	Repo  domain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	repo       domain.Repository
	genID      *snowflake.Node
	sessionTTL time.Duration
}

func New(p Params) domain.Service {
	ttl := p.Cfg.SessionTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("auth.service"),
		repo:       p.Repo,
		genID:      p.GenID,
		sessionTTL: ttl,
	}
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindUserByEmail(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, domain.ErrInvalidCredentials
	}
	if !password.Verify(req.Password, user.PasswordHash) {
		s.log.Warn("failed login attempt", zap.String("email", email))
		return nil, domain.ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:        s.genID.Generate().Int64(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.repo.CreateSession(ctx, s.db, session); err != nil {
		return nil, err
	}

	return &domain.LoginResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User:      toUserResponse(user),
	}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrInvalidSession
	}
	return s.repo.RevokeSession(ctx, s.db, token)
}

func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrInvalidSession
	}

	session, err := s.repo.FindSessionByToken(ctx, s.db, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrInvalidSession
	}
	if session.RevokedAt != nil {
		return nil, domain.ErrSessionRevoked
	}
	if time.Now().UTC().After(session.ExpiresAt) {
		return nil, domain.ErrSessionExpired
	}

	user, err := s.repo.FindUserByID(ctx, s.db, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, domain.ErrInvalidSession
	}

	return &domain.Identity{
		UserID:  user.ID,
		StoreID: user.StoreID,
		Role:    user.Role,
	}, nil
}

// CreateUser registers a staff member in the caller's store. Only reachable
// through admin routes; the role itself is validated here.
func (s *Service) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.UserResponse, error) {
	storeID, ok := storecontext.StoreIDFromContext(ctx)
	if !ok || storeID == 0 {
		return nil, domain.ErrInvalidStore
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}
	if len(req.Password) < 8 {
		return nil, domain.ErrInvalidPassword
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	switch role {
	case storecontext.RoleAdmin, storecontext.RoleDealer, storecontext.RoleCounter:
	default:
		return nil, domain.ErrInvalidRole
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           s.genID.Generate().Int64(),
		StoreID:      storeID.Int64(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		Role:         role,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateUser(ctx, s.db, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func toUserResponse(u *domain.User) domain.UserResponse {
	return domain.UserResponse{
		ID:      snowflake.ID(u.ID).String(),
		StoreID: snowflake.ID(u.StoreID).String(),
		Email:   u.Email,
		Name:    u.Name,
		Role:    u.Role,
		Active:  u.Active,
	}
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
