package storecontext

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// StoreContextKey is the request context key for the active store ID.
type StoreContextKey struct{}

// RoleContextKey is the request context key for the acting staff role.
type RoleContextKey struct{}

// UserContextKey is the request context key for the acting user ID.
type UserContextKey struct{}

// Staff roles. Counter is the restricted front-desk role: profit figures
// are suppressed for it and supplier/purchase routes are closed to it.
const (
	RoleAdmin   = "admin"
	RoleDealer  = "dealer"
	RoleCounter = "counter"
)

// WithStoreID stores the store ID in the context.
func WithStoreID(ctx context.Context, storeID int64) context.Context {
	return context.WithValue(ctx, StoreContextKey{}, storeID)
}

// WithRole stores the acting role in the context.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, RoleContextKey{}, strings.ToLower(strings.TrimSpace(role)))
}

// WithUserID stores the acting user ID in the context.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserContextKey{}, userID)
}

// StoreIDFromContext returns the store ID from context, if set.
func StoreIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}

	value := ctx.Value(StoreContextKey{})
	switch typed := value.(type) {
	case int64:
		return snowflake.ID(typed), true
	case snowflake.ID:
		return typed, true
	case string:
		parsed, err := snowflake.ParseString(strings.TrimSpace(typed))
		if err == nil {
			return parsed, true
		}
	}
	return 0, false
}

// RoleFromContext returns the acting role from context, if set.
func RoleFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	role, ok := ctx.Value(RoleContextKey{}).(string)
	if !ok || role == "" {
		return "", false
	}
	return role, true
}

// UserIDFromContext returns the acting user ID from context, if set.
func UserIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}
	switch typed := ctx.Value(UserContextKey{}).(type) {
	case int64:
		return snowflake.ID(typed), true
	case snowflake.ID:
		return typed, true
	}
	return 0, false
}

// IsCounter reports whether the context role is the restricted counter role.
func IsCounter(ctx context.Context) bool {
	role, ok := RoleFromContext(ctx)
	return ok && role == RoleCounter
}
