package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound   = errors.New("player not found")
	ErrDuplicateGameID  = errors.New("duplicate key: game id already exists")
	ErrInvalidPlayStyle = errors.New("invalid play style")
	ErrVersionConflict  = errors.New("player was modified concurrently")

	// Profile and account errors
	ErrProfileNotFound = errors.New("profile not found")
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailExists     = errors.New("email already registered")

	// Storage errors
	ErrStoreNotInitialized = errors.New("storage schema is not initialized")
)
