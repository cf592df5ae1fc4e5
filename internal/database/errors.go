package database

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrUserNotFound    = errors.New("user not found")

	// ErrSlotUnavailable — на вещь уже есть пересекающееся активное бронирование.
	ErrSlotUnavailable = errors.New("booking slot is unavailable")

	// ErrConcurrentModification — версия записи изменилась между чтением и записью.
	ErrConcurrentModification = errors.New("booking was modified concurrently")

	// ErrDuplicateEmail — email уже занят другим пользователем.
	ErrDuplicateEmail = errors.New("email is already registered")
)
