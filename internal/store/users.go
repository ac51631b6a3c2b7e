package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/i474232898/weather-notification-service/internal/apperr"
)

// MsgUserExists is returned when a username or email is already registered.
const MsgUserExists = "User already existing"

// UserRepository persists users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts u and fills its id and creation time.
func (r *UserRepository) Create(ctx context.Context, u *User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return apperr.Wrap(apperr.KindConflict, MsgUserExists, err)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) ByID(ctx context.Context, id uint) (*User, error) {
	return r.first(ctx, "user_id = ?", id)
}

func (r *UserRepository) ByUsername(ctx context.Context, username string) (*User, error) {
	return r.first(ctx, "user_name = ?", username)
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*User, error) {
	return r.first(ctx, "user_email = ?", email)
}

func (r *UserRepository) first(ctx context.Context, query string, arg interface{}) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// UpdateLocation overwrites the stored location of user id.
func (r *UserRepository) UpdateLocation(ctx context.Context, id uint, location string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&User{}).Where("user_id = ?", id).Update("location", location)
		if result.Error != nil {
			return fmt.Errorf("update location: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperr.NotFound("not found")
		}
		return nil
	})
}

// WithLocation returns every user that has a non-empty location, ordered by id.
func (r *UserRepository) WithLocation(ctx context.Context) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Where("location IS NOT NULL AND location <> ''").
		Order("user_id ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list users with location: %w", err)
	}
	return users, nil
}

// Delete removes a user; its notifications go with it.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("user_id = ?", id).Delete(&User{})
	if result.Error != nil {
		return fmt.Errorf("delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("not found")
	}
	return nil
}
