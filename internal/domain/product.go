package domain

import "time"

// Product price is stored in cents to keep the two-digit fixed point exact.
type Product struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	PriceCents  int64     `db:"price_cents" json:"price_cents"`
	Stock       int64     `db:"stock" json:"stock"`
	ImageUrl    string    `db:"image_url" json:"image_url"`
	CategoryID  int64     `db:"category_id" json:"category_id"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	// Category is eagerly joined on every product read path.
	Category *Category `db:"-" json:"category,omitempty"`
}

type UpdateProductInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"price_cents"`
	Stock       *int64  `json:"stock"`
	ImageUrl    *string `json:"image_url"`
	CategoryID  *int64  `json:"category_id"`
}
