package store

import (
	"errors"                          // Sentinel error handling
	"strings"                         // Unique-violation detection
	"wenxing_backend/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Sentinel errors mapped to HTTP statuses at the API layer
var (
	ErrNotFound          = errors.New("user not found")        // No row for the given id/username
	ErrDuplicateUsername = errors.New("username already taken") // Unique constraint violation on username
)

// Store provides durable CRUD over users plus atomic quota bookkeeping
type Store struct {
	db *gorm.DB // Database handle, opened and migrated before use
}

// New wraps an opened database handle
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreateUser inserts a new user with default quota fields
func (s *Store) CreateUser(username, passwordHash string) (*domain.User, error) {
	user := domain.User{
		Username:     username,     // Unique username
		PasswordHash: passwordHash, // Already hashed by the caller
		IsPro:        false,        // New users start on the free tier
		QuotaTotal:   3,            // Lifetime allowance of 3 AI calls
		QuotaUsed:    0,            // Nothing consumed yet
	}
	if err := s.db.Create(&user).Error; err != nil {
		// SQLite reports the unique index violation in the error text
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "unique") {
			return nil, ErrDuplicateUsername
		}
		return nil, err // Any other creation failure
	}
	return &user, nil
}

// GetByID fetches a user by primary key
func (s *Store) GetByID(id uint) (*domain.User, error) {
	var user domain.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound // No such user
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername fetches a user by exact username
func (s *Store) GetByUsername(username string) (*domain.User, error) {
	var user domain.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound // No such user
		}
		return nil, err
	}
	return &user, nil
}

// SetProStatus flips the pro flag and returns the updated user
func (s *Store) SetProStatus(id uint, isPro bool) (*domain.User, error) {
	res := s.db.Model(&domain.User{}).Where("id = ?", id).Update("is_pro", isPro)
	if res.Error != nil {
		return nil, res.Error // Update failure
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound // No row matched the id
	}
	return s.GetByID(id) // Return the fresh row
}

// AdjustQuotaUsed applies quotaUsed += delta as a single server-side update.
// The statement-level atomicity of this UPDATE is the only guard against
// double-spend between concurrent requests for the same user.
func (s *Store) AdjustQuotaUsed(id uint, delta int) (*domain.User, error) {
	res := s.db.Model(&domain.User{}).Where("id = ?", id).
		Update("ai_quota_used", gorm.Expr("ai_quota_used + ?", delta))
	if res.Error != nil {
		return nil, res.Error // Update failure
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound // No row matched the id
	}
	return s.GetByID(id) // Return the fresh row
}

// ListUsers returns all users, newest first
func (s *Store) ListUsers() ([]domain.User, error) {
	var users []domain.User
	if err := s.db.Order("id DESC").Find(&users).Error; err != nil {
		return nil, err // Query failure
	}
	return users, nil
}

// CountPro counts the pro users in a listing
func CountPro(users []domain.User) int {
	n := 0
	for _, u := range users {
		if u.IsPro {
			n++ // Count pro users
		}
	}
	return n
}
