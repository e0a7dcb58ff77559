package sql

import (
	"context"
	"fmt"
	"strings"

	"quickai/internal/entity"
)

// CreateCreation inserts a new creation record. Creations are append-only;
// the generation flow never updates or deletes them.
func (r *GormRepository) CreateCreation(ctx context.Context, creation *entity.DbCreation) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if creation == nil {
		return fmt.Errorf("creation is nil")
	}
	return r.db.WithContext(ctx).Create(creation).Error
}

// GetCreation loads a single creation by ID.
func (r *GormRepository) GetCreation(ctx context.Context, id uint) (*entity.DbCreation, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid creation id")
	}
	var creation entity.DbCreation
	if err := r.db.WithContext(ctx).First(&creation, id).Error; err != nil {
		return nil, err
	}
	return &creation, nil
}

// ListCreations retrieves paginated creations, newest first.
func (r *GormRepository) ListCreations(ctx context.Context, params *entity.CreationQuery) ([]entity.DbCreation, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbCreation{})
	if params != nil {
		if params.UserID > 0 {
			query = query.Where("user_id = ?", params.UserID)
		}
		if trimmed := strings.TrimSpace(params.Type); trimmed != "" {
			query = query.Where("type = ?", trimmed)
		}
		if params.PublishedOnly {
			query = query.Where("publish = ?", true)
		}
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, nil, err
	}

	page := 1
	pageSize := 20
	if params != nil {
		if params.Page > 0 {
			page = int(params.Page)
		}
		if params.PageSize > 0 {
			pageSize = int(params.PageSize)
		}
	}

	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}

	var creations []entity.DbCreation
	if err := query.Order("id DESC").Offset(offset).Limit(pageSize).Find(&creations).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(totalCount, page, pageSize)
	return creations, meta, nil
}

// SetCreationLikes replaces the likes array of a published creation.
func (r *GormRepository) SetCreationLikes(ctx context.Context, id uint, likes entity.StringArray) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid creation id")
	}
	return r.db.WithContext(ctx).Model(&entity.DbCreation{}).Where("id = ?", id).
		Update("likes", likes).Error
}
