package sql

import (
	"context"
	"fmt"
	"strings"

	"quickai/internal/entity"

	"gorm.io/gorm"
)

// CreateUser persists a new user record.
func (r *GormRepository) CreateUser(ctx context.Context, user *entity.DbUser) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if user == nil {
		return fmt.Errorf("user is nil")
	}
	return r.db.WithContext(ctx).Create(user).Error
}

// GetUserByEmail loads a user by email.
func (r *GormRepository) GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return nil, fmt.Errorf("email is empty")
	}

	var user entity.DbUser
	if err := r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(trimmed)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID loads a user by ID.
func (r *GormRepository) GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	var user entity.DbUser
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CountUsers returns the total number of registered users.
func (r *GormRepository) CountUsers(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.DbUser{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateUserPlan switches a user between the free and premium tiers.
func (r *GormRepository) UpdateUserPlan(ctx context.Context, id uint, plan string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid user id")
	}
	trimmed := strings.TrimSpace(plan)
	if trimmed != entity.PlanFree && trimmed != entity.PlanPremium {
		return fmt.Errorf("unsupported plan: %s", plan)
	}
	return r.db.WithContext(ctx).Model(&entity.DbUser{}).Where("id = ?", id).
		Update("plan", trimmed).Error
}

// IncrementFreeUsage bumps the free-usage counter atomically in SQL, so two
// in-flight requests from the same account cannot both write the same value.
func (r *GormRepository) IncrementFreeUsage(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid user id")
	}
	return r.db.WithContext(ctx).Model(&entity.DbUser{}).Where("id = ?", id).
		UpdateColumn("free_usage", gorm.Expr("free_usage + ?", 1)).Error
}
