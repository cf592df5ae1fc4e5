package service

import (
	"context"
	"errors"
	"time"

	"sharik/internal/database"
	"sharik/internal/domain"
	"sharik/internal/events"
	"sharik/internal/metrics"
	"sharik/internal/models"

	"github.com/rs/zerolog"
)

// BookingService оркестрирует жизненный цикл бронирования: создание,
// решения владельца, отмену и выборки.
type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	notifier domain.NotifyEnqueuer
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, notifier domain.NotifyEnqueuer, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		eventBus: eventBus,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Create проверяет интервал, права и конфликты, после чего сохраняет
// заявку в статусе WAITING.
func (s *BookingService) Create(ctx context.Context, itemID, bookerID int64, start, end time.Time) (*models.Booking, error) {
	start = start.UTC()
	end = end.UTC()

	if err := models.ValidateInterval(start, end, s.now().UTC()); err != nil {
		return nil, err
	}

	booker, err := s.repo.GetUserByID(ctx, bookerID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item.OwnerID == booker.ID {
		return nil, models.ErrSelfBooking
	}
	if !item.IsAvailable {
		return nil, models.ErrItemUnavailable
	}

	booking := &models.Booking{
		ItemID:   item.ID,
		ItemName: item.Name,
		OwnerID:  item.OwnerID,
		BookerID: booker.ID,
		Start:    start,
		End:      end,
		Status:   models.StatusWaiting,
	}

	// Проверка конфликта и вставка сериализуются внутри хранилища.
	if err := s.repo.CreateBookingWithLock(ctx, booking); err != nil {
		if errors.Is(err, database.ErrSlotUnavailable) {
			metrics.IncConflict()
			s.logger.Info().
				Int64("item_id", itemID).
				Time("start", start).
				Time("end", end).
				Msg("booking rejected: slot conflict")
		}
		return nil, err
	}

	metrics.IncBookingCreated()
	s.publishEvent(ctx, events.EventBookingCreated, booking, bookerID)
	s.enqueueNotice(ctx, "booking_created", booking)

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("item_id", itemID).
		Int64("booker_id", bookerID).
		Msg("booking created")

	return booking, nil
}

// Approve переводит заявку в APPROVED; доступно только владельцу вещи.
// Перед подтверждением конфликт проверяется повторно, исключая саму заявку.
func (s *BookingService) Approve(ctx context.Context, bookingID, userID int64) (*models.Booking, error) {
	return s.transition(ctx, bookingID, userID, models.EventApprove)
}

// Reject переводит заявку в REJECTED; доступно только владельцу вещи.
func (s *BookingService) Reject(ctx context.Context, bookingID, userID int64) (*models.Booking, error) {
	return s.transition(ctx, bookingID, userID, models.EventReject)
}

// Cancel переводит заявку в CANCELED; доступно только автору заявки.
func (s *BookingService) Cancel(ctx context.Context, bookingID, userID int64) (*models.Booking, error) {
	return s.transition(ctx, bookingID, userID, models.EventCancel)
}

func (s *BookingService) transition(ctx context.Context, bookingID, userID int64, event models.Event) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	next, err := models.Transition(booking.Status, event, booking.RoleFor(userID))
	if err != nil {
		return nil, err
	}

	if event == models.EventApprove {
		// Между подачей и подтверждением слот мог занять другой APPROVED.
		conflict, err := s.repo.HasConflict(ctx, booking.ItemID, booking.Start, booking.End, booking.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			metrics.IncConflict()
			return nil, database.ErrSlotUnavailable
		}
	}

	if err := s.repo.UpdateBookingStatusWithVersion(ctx, booking.ID, booking.Version, next); err != nil {
		return nil, err
	}
	booking.Status = next
	booking.Version++

	metrics.IncTransition(string(event))
	s.publishEvent(ctx, eventTypeFor(event), booking, userID)
	s.enqueueNotice(ctx, "booking_"+string(next), booking)

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Str("event", string(event)).
		Str("status", string(next)).
		Msg("booking transitioned")

	return booking, nil
}

// Get возвращает бронирование только его автору или владельцу вещи.
func (s *BookingService) Get(ctx context.Context, bookingID, userID int64) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.CanView(userID) {
		return nil, models.ErrNotAuthorized
	}
	return booking, nil
}

// ListByBooker возвращает бронирования пользователя в срезе state.
func (s *BookingService) ListByBooker(ctx context.Context, bookerID int64, state models.QueryState) ([]*models.Booking, error) {
	if _, err := s.repo.GetUserByID(ctx, bookerID); err != nil {
		return nil, err
	}
	return s.repo.ListBookingsByBooker(ctx, bookerID, state, s.now().UTC())
}

// ListByOwner возвращает бронирования на вещи владельца в срезе state.
func (s *BookingService) ListByOwner(ctx context.Context, ownerID int64, state models.QueryState) ([]*models.Booking, error) {
	if _, err := s.repo.GetUserByID(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListBookingsByOwner(ctx, ownerID, state, s.now().UTC())
}

func eventTypeFor(event models.Event) string {
	switch event {
	case models.EventApprove:
		return events.EventBookingApproved
	case models.EventReject:
		return events.EventBookingRejected
	case models.EventCancel:
		return events.EventBookingCanceled
	}
	return ""
}

func (s *BookingService) publishEvent(ctx context.Context, eventType string, booking *models.Booking, changedBy int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		ItemName:  booking.ItemName,
		OwnerID:   booking.OwnerID,
		BookerID:  booking.BookerID,
		Status:    string(booking.Status),
		Start:     booking.Start,
		End:       booking.End,
		ChangedBy: changedBy,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueNotice(ctx context.Context, taskType string, booking *models.Booking) {
	if s.notifier == nil {
		return
	}

	if err := s.notifier.EnqueueBookingNotice(ctx, taskType, booking); err != nil {
		s.logger.Error().Err(err).Int64("booking_id", booking.ID).Str("task", taskType).Msg("notify enqueue error")
	}
}
