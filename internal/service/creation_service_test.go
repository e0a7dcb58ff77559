package service

import (
	"context"
	"errors"
	"testing"

	"quickai/internal/entity"
)

func TestToggleLikeAddsAndRemoves(t *testing.T) {
	repo := newFakeRepo()
	repo.creations = []entity.DbCreation{
		{ID: 1, UserID: 2, Type: entity.CreationTypeImage, Publish: true},
	}
	svc := NewCreationService(repo)

	count, err := svc.ToggleLike(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("ToggleLike failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 like, got %d", count)
	}
	if !repo.creations[0].Likes.Contains("7") {
		t.Fatalf("expected user 7 in likes, got %v", repo.creations[0].Likes)
	}

	count, err = svc.ToggleLike(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("ToggleLike failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 likes after second toggle, got %d", count)
	}
}

func TestToggleLikeUnpublishedCreation(t *testing.T) {
	repo := newFakeRepo()
	repo.creations = []entity.DbCreation{
		{ID: 1, UserID: 2, Type: entity.CreationTypeImage, Publish: false},
	}
	svc := NewCreationService(repo)

	_, err := svc.ToggleLike(context.Background(), 7, 1)
	if !errors.Is(err, ErrCreationNotFound) {
		t.Fatalf("expected ErrCreationNotFound, got %v", err)
	}
}

func TestToggleLikeMissingCreation(t *testing.T) {
	svc := NewCreationService(newFakeRepo())

	_, err := svc.ToggleLike(context.Background(), 7, 99)
	if !errors.Is(err, ErrCreationNotFound) {
		t.Fatalf("expected ErrCreationNotFound, got %v", err)
	}
}

func TestListPublishedCreationsForcesFilters(t *testing.T) {
	repo := newFakeRepo()
	svc := NewCreationService(repo)

	params := &entity.CreationQuery{UserID: 42, Type: entity.CreationTypeArticle}
	if _, err := svc.ListPublishedCreations(context.Background(), params); err != nil {
		t.Fatalf("ListPublishedCreations failed: %v", err)
	}
	if params.UserID != 0 || params.Type != entity.CreationTypeImage || !params.PublishedOnly {
		t.Fatalf("expected community filters enforced, got %+v", params)
	}
}
