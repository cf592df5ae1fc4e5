package service

import (
	"context"
	"io"
	"testing"
	"time"

	"sharik/internal/database"
	"sharik/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestItemService(repo *mockRepo) *ItemService {
	logger := zerolog.New(io.Discard)
	s := NewItemService(repo, &logger)
	s.now = func() time.Time { return testNow }
	return s
}

func TestItemCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetUserByID", ctx, int64(1)).Return(testUser(1), nil)
		repo.On("CreateItem", ctx, mock.AnythingOfType("*models.Item")).Return(nil)

		svc := newTestItemService(repo)
		got, err := svc.Create(ctx, 1, &models.Item{Name: "drill", IsAvailable: true})
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.OwnerID)
	})

	t.Run("empty name", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetUserByID", ctx, int64(1)).Return(testUser(1), nil)

		svc := newTestItemService(repo)
		_, err := svc.Create(ctx, 1, &models.Item{Name: "   "})
		assert.ErrorIs(t, err, models.ErrInvalidItem)
	})

	t.Run("unknown owner", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetUserByID", ctx, int64(99)).Return(nil, database.ErrUserNotFound)

		svc := newTestItemService(repo)
		_, err := svc.Create(ctx, 99, &models.Item{Name: "drill"})
		assert.ErrorIs(t, err, database.ErrUserNotFound)
	})
}

func TestItemUpdate(t *testing.T) {
	ctx := context.Background()
	name := "new name"
	available := false

	t.Run("owner applies partial patch", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetItemByID", ctx, int64(10)).Return(testItem(10, 1, true), nil)
		repo.On("UpdateItem", ctx, mock.AnythingOfType("*models.Item")).Return(nil)

		svc := newTestItemService(repo)
		got, err := svc.Update(ctx, 10, 1, models.ItemPatch{Name: &name, IsAvailable: &available})
		require.NoError(t, err)
		assert.Equal(t, "new name", got.Name)
		assert.False(t, got.IsAvailable)
		// Описание не тронуто.
		assert.Equal(t, "", got.Description)
	})

	t.Run("non-owner denied", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetItemByID", ctx, int64(10)).Return(testItem(10, 1, true), nil)

		svc := newTestItemService(repo)
		_, err := svc.Update(ctx, 10, 2, models.ItemPatch{Name: &name})
		assert.ErrorIs(t, err, models.ErrNotAuthorized)
		repo.AssertNotCalled(t, "UpdateItem", mock.Anything, mock.Anything)
	})
}

func TestItemSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("empty text returns empty list", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newTestItemService(repo)

		got, err := svc.Search(ctx, "   ")
		require.NoError(t, err)
		assert.Empty(t, got)
		repo.AssertNotCalled(t, "SearchItems", mock.Anything, mock.Anything)
	})

	t.Run("delegates to repository", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("SearchItems", ctx, "drill").Return([]*models.Item{testItem(10, 1, true)}, nil)

		svc := newTestItemService(repo)
		got, err := svc.Search(ctx, " drill ")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()

	t.Run("after finished approved booking", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetUserByID", ctx, int64(2)).Return(testUser(2), nil)
		repo.On("GetItemByID", ctx, int64(10)).Return(testItem(10, 1, true), nil)
		repo.On("HasFinishedApprovedBooking", ctx, int64(10), int64(2), testNow).Return(true, nil)
		repo.On("CreateComment", ctx, mock.AnythingOfType("*models.Comment")).Return(nil)

		svc := newTestItemService(repo)
		got, err := svc.AddComment(ctx, 10, 2, "great drill")
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.AuthorID)
		assert.Equal(t, "user", got.AuthorName)
	})

	t.Run("without finished booking", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetUserByID", ctx, int64(2)).Return(testUser(2), nil)
		repo.On("GetItemByID", ctx, int64(10)).Return(testItem(10, 1, true), nil)
		repo.On("HasFinishedApprovedBooking", ctx, int64(10), int64(2), testNow).Return(false, nil)

		svc := newTestItemService(repo)
		_, err := svc.AddComment(ctx, 10, 2, "great drill")
		assert.ErrorIs(t, err, models.ErrNotRented)
		repo.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything)
	})

	t.Run("empty text", func(t *testing.T) {
		svc := newTestItemService(new(mockRepo))
		_, err := svc.AddComment(ctx, 10, 2, "")
		assert.ErrorIs(t, err, models.ErrInvalidComment)
	})
}

func TestUserServiceCreate(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)

	t.Run("success", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("CreateUser", ctx, mock.AnythingOfType("*models.User")).Return(nil)

		svc := NewUserService(repo, &logger)
		_, err := svc.Create(ctx, &models.User{Name: "test", Email: "test@example.com"})
		assert.NoError(t, err)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := NewUserService(new(mockRepo), &logger)
		_, err := svc.Create(ctx, &models.User{Name: "test"})
		assert.ErrorIs(t, err, models.ErrInvalidUser)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("CreateUser", ctx, mock.Anything).Return(database.ErrDuplicateEmail)

		svc := NewUserService(repo, &logger)
		_, err := svc.Create(ctx, &models.User{Name: "test", Email: "dup@example.com"})
		assert.ErrorIs(t, err, database.ErrDuplicateEmail)
	})
}
