package model

import (
	"context"

	"quickai/internal/entity"
)

// Repository 定义数据库操作接口
type Repository interface {
	// 用户管理
	CreateUser(ctx context.Context, user *entity.DbUser) error
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	CountUsers(ctx context.Context) (int64, error)
	UpdateUserPlan(ctx context.Context, id uint, plan string) error

	// IncrementFreeUsage bumps the caller's free-usage counter by one with a
	// single SQL expression, so concurrent requests from the same account
	// cannot lose an increment.
	IncrementFreeUsage(ctx context.Context, id uint) error

	// 创作记录（仅追加）
	CreateCreation(ctx context.Context, creation *entity.DbCreation) error
	GetCreation(ctx context.Context, id uint) (*entity.DbCreation, error)
	ListCreations(ctx context.Context, params *entity.CreationQuery) ([]entity.DbCreation, *entity.Meta, error)
	SetCreationLikes(ctx context.Context, id uint, likes entity.StringArray) error
}
