package domain

import (
	"context"
	"errors"
	"time"
)

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	StoreID      int64     `json:"store_id" gorm:"column:store_id;not null;index"`
	Email        string    `json:"email" gorm:"type:text;not null;uniqueIndex"`
	Name         string    `json:"name" gorm:"type:text;not null"`
	Role         string    `json:"role" gorm:"type:text;not null"`
	PasswordHash string    `json:"-" gorm:"type:text;not null"`
	Active       bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (User) TableName() string { return "users" }

type Session struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index"`
	Token     string    `json:"-" gorm:"type:text;not null;uniqueIndex"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Session) TableName() string { return "sessions" }

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*Identity, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// Identity is what the auth middleware resolves a session token into.
type Identity struct {
	UserID  int64
	StoreID int64
	Role    string
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID      string `json:"id"`
	StoreID string `json:"store_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Active  bool   `json:"active"`
}

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidSession     = errors.New("invalid_session")
	ErrSessionExpired     = errors.New("session_expired")
	ErrSessionRevoked     = errors.New("session_revoked")
	ErrUserExists         = errors.New("user_exists")
	ErrInvalidStore       = errors.New("invalid_store")
	ErrInvalidRole        = errors.New("invalid_role")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidPassword    = errors.New("invalid_password")
)
