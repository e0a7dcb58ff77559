package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"quickai/internal/entity"
	"quickai/internal/model"
)

// ErrCreationNotFound 目标创作记录不存在
var ErrCreationNotFound = errors.New("creation not found")

// CreationService 创作记录查询与社区互动
type CreationService struct {
	repo model.Repository
}

func NewCreationService(repo model.Repository) *CreationService {
	return &CreationService{repo: repo}
}

// ListUserCreations 返回指定用户的创作记录，按创建时间倒序分页。
func (s *CreationService) ListUserCreations(ctx context.Context, userID uint, params *entity.CreationQuery) (*entity.CreationListResponse, error) {
	if params == nil {
		params = &entity.CreationQuery{}
	}
	params.UserID = userID
	params.PublishedOnly = false

	creations, meta, err := s.repo.ListCreations(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list creations: %w", err)
	}
	return &entity.CreationListResponse{Creations: creations, Meta: meta}, nil
}

// ListPublishedCreations 返回社区公开的图片创作。
func (s *CreationService) ListPublishedCreations(ctx context.Context, params *entity.CreationQuery) (*entity.CreationListResponse, error) {
	if params == nil {
		params = &entity.CreationQuery{}
	}
	params.UserID = 0
	params.Type = entity.CreationTypeImage
	params.PublishedOnly = true

	creations, meta, err := s.repo.ListCreations(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list published creations: %w", err)
	}
	return &entity.CreationListResponse{Creations: creations, Meta: meta}, nil
}

// ToggleLike 切换当前用户对一条公开创作的点赞状态，返回最新点赞数。
func (s *CreationService) ToggleLike(ctx context.Context, userID uint, creationID uint) (int, error) {
	creation, err := s.repo.GetCreation(ctx, creationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrCreationNotFound
		}
		return 0, fmt.Errorf("load creation: %w", err)
	}
	if creation == nil {
		return 0, ErrCreationNotFound
	}
	if !creation.Publish {
		return 0, ErrCreationNotFound
	}

	token := strconv.FormatUint(uint64(userID), 10)
	likes := make(entity.StringArray, 0, len(creation.Likes)+1)
	removed := false
	for _, id := range creation.Likes {
		if id == token {
			removed = true
			continue
		}
		likes = append(likes, id)
	}
	if !removed {
		likes = append(likes, token)
	}

	if err := s.repo.SetCreationLikes(ctx, creationID, likes); err != nil {
		return 0, fmt.Errorf("update likes: %w", err)
	}
	return len(likes), nil
}
