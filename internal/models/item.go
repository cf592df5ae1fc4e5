package models

import "time"

type Item struct {
	ID          int64     `json:"id" yaml:"id"`
	OwnerID     int64     `json:"owner_id" yaml:"owner_id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	IsAvailable bool      `json:"is_available" yaml:"is_available"`
	CreatedAt   time.Time `json:"created_at" yaml:"-"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"-"`
}

// ItemPatch — частичное обновление: nil-поля не трогаются.
type ItemPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsAvailable *bool   `json:"is_available"`
}
