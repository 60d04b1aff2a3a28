package domain

import "time"

type User struct {
	ID         int64     `db:"id" json:"id"`
	Email      string    `db:"email" json:"email"`
	Password   string    `db:"password_hash" json:"-"`
	GivenName  string    `db:"given_name" json:"given_name"`
	FamilyName string    `db:"family_name" json:"family_name"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// UpdateUserInput carries a partial update: nil fields are left untouched.
type UpdateUserInput struct {
	Email      *string `json:"email"`
	Password   *string `json:"password"`
	GivenName  *string `json:"given_name"`
	FamilyName *string `json:"family_name"`
}
