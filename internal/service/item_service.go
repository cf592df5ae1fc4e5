package service

import (
	"context"
	"strings"

	"sharik/internal/domain"
	"sharik/internal/models"

	"github.com/rs/zerolog"
)

// ItemService управляет вещами и комментариями к ним.
type ItemService struct {
	repo   domain.Repository
	logger *zerolog.Logger
	now    nowFunc
}

func NewItemService(repo domain.Repository, logger *zerolog.Logger) *ItemService {
	return &ItemService{repo: repo, logger: logger, now: defaultNow}
}

func (s *ItemService) Create(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error) {
	if _, err := s.repo.GetUserByID(ctx, ownerID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(item.Name) == "" {
		return nil, models.ErrInvalidItem
	}

	item.OwnerID = ownerID
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	return item, nil
}

// Update применяет частичное обновление; разрешено только владельцу.
func (s *ItemService) Update(ctx context.Context, itemID, userID int64, patch models.ItemPatch) (*models.Item, error) {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != userID {
		return nil, models.ErrNotAuthorized
	}

	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.IsAvailable != nil {
		item.IsAvailable = *patch.IsAvailable
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemService) Get(ctx context.Context, itemID int64) (*models.Item, error) {
	return s.repo.GetItemByID(ctx, itemID)
}

func (s *ItemService) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error) {
	if _, err := s.repo.GetUserByID(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.repo.GetItemsByOwner(ctx, ownerID)
}

// Search ищет доступные вещи по подстроке; пустой запрос даёт пустой список.
func (s *ItemService) Search(ctx context.Context, text string) ([]*models.Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*models.Item{}, nil
	}
	return s.repo.SearchItems(ctx, text)
}

// AddComment принимает отзыв только от пользователя с завершённой
// подтверждённой арендой этой вещи.
func (s *ItemService) AddComment(ctx context.Context, itemID, authorID int64, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.ErrInvalidComment
	}

	author, err := s.repo.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetItemByID(ctx, itemID); err != nil {
		return nil, err
	}

	rented, err := s.repo.HasFinishedApprovedBooking(ctx, itemID, authorID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if !rented {
		return nil, models.ErrNotRented
	}

	comment := &models.Comment{
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
		Text:       text,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", itemID).Int64("author_id", authorID).Msg("comment added")
	return comment, nil
}

func (s *ItemService) Comments(ctx context.Context, itemID int64) ([]*models.Comment, error) {
	if _, err := s.repo.GetItemByID(ctx, itemID); err != nil {
		return nil, err
	}
	return s.repo.GetItemComments(ctx, itemID)
}
