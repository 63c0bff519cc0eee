package model

import "tably/shared/model"

const (
	TableName  = "users"
	EntityName = "user"

	FieldID       = "id"
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldPhone    = "phone"
	FieldRole     = "role"
	FieldVerified = "verified"
	FieldActive   = "active"
)

type User struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Email    string `db:"email"`
	Password string `db:"password"`
	Phone    string `db:"phone"`
	Role     string `db:"role"`
	Verified bool   `db:"verified"`
	Active   bool   `db:"active"`
	model.Metadata
}

// Exists reports whether the row was actually loaded; the generic
// repository returns a zero value instead of an error on no rows.
func (u *User) Exists() bool {
	return u.ID != ""
}
