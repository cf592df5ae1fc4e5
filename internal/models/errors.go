package models

import "errors"

var (
	// ErrInvalidInterval — конец интервала не позже начала или границы пустые.
	ErrInvalidInterval = errors.New("booking interval is invalid")

	// ErrPastStart — начало бронирования в прошлом.
	ErrPastStart = errors.New("booking start is in the past")

	// ErrInvalidTransition — попытка перехода из терминального статуса
	// или неизвестное событие.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotAuthorized — пользователь не имеет нужной роли для операции.
	ErrNotAuthorized = errors.New("user is not authorized for this booking")

	// ErrSelfBooking — владелец бронирует собственную вещь.
	ErrSelfBooking = errors.New("owner cannot book own item")

	// ErrItemUnavailable — вещь снята с бронирования владельцем.
	ErrItemUnavailable = errors.New("item is not available for booking")

	// ErrNotRented — комментарий без завершённой подтверждённой аренды.
	ErrNotRented = errors.New("user has no finished approved booking for item")

	// ErrInvalidItem — вещь без имени.
	ErrInvalidItem = errors.New("item name is required")

	// ErrInvalidComment — пустой текст комментария.
	ErrInvalidComment = errors.New("comment text is required")

	// ErrInvalidUser — пользователь без имени или email.
	ErrInvalidUser = errors.New("user name and email are required")
)
