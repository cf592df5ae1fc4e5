package models

import "time"

type User struct {
	ID         int64     `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Email      string    `json:"email" yaml:"email"`
	TelegramID int64     `json:"telegram_id,omitempty" yaml:"telegram_id"` // chat id для уведомлений, 0 если не привязан
	CreatedAt  time.Time `json:"created_at" yaml:"-"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"-"`
}
