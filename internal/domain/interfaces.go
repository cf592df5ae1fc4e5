package domain

import (
	"context"
	"time"

	"sharik/internal/models"
)

// Repository объединяет хранилище бронирований, вещей и пользователей.
type Repository interface {
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	CreateBookingWithLock(ctx context.Context, booking *models.Booking) error
	UpdateBookingStatusWithVersion(ctx context.Context, id, version int64, status models.Status) error
	HasConflict(ctx context.Context, itemID int64, start, end time.Time, excludeID int64) (bool, error)
	ListBookingsByBooker(ctx context.Context, bookerID int64, state models.QueryState, now time.Time) ([]*models.Booking, error)
	ListBookingsByOwner(ctx context.Context, ownerID int64, state models.QueryState, now time.Time) ([]*models.Booking, error)
	GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error)
	HasFinishedApprovedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)

	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error)
	SearchItems(ctx context.Context, text string) ([]*models.Item, error)

	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetItemComments(ctx context.Context, itemID int64) ([]*models.Comment, error)
}

// LimiterRepository ограничивает частоту запросов пользователя.
type LimiterRepository interface {
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// NotifySender доставляет текст уведомления в чат пользователя.
type NotifySender interface {
	SendMessage(chatID int64, text string) error
}

// NotifyEnqueuer ставит задачу на доставку уведомления о бронировании.
type NotifyEnqueuer interface {
	EnqueueBookingNotice(ctx context.Context, taskType string, booking *models.Booking) error
}

type BookingService interface {
	Create(ctx context.Context, itemID, bookerID int64, start, end time.Time) (*models.Booking, error)
	Approve(ctx context.Context, bookingID, userID int64) (*models.Booking, error)
	Reject(ctx context.Context, bookingID, userID int64) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID, userID int64) (*models.Booking, error)
	Get(ctx context.Context, bookingID, userID int64) (*models.Booking, error)
	ListByBooker(ctx context.Context, bookerID int64, state models.QueryState) ([]*models.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, state models.QueryState) ([]*models.Booking, error)
}

type ItemService interface {
	Create(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error)
	Update(ctx context.Context, itemID, userID int64, patch models.ItemPatch) (*models.Item, error)
	Get(ctx context.Context, itemID int64) (*models.Item, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error)
	Search(ctx context.Context, text string) ([]*models.Item, error)
	AddComment(ctx context.Context, itemID, authorID int64, text string) (*models.Comment, error)
	Comments(ctx context.Context, itemID int64) ([]*models.Comment, error)
}

type UserService interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
}
