package identity

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("identity: user not found")

type User struct {
	ID       string
	Username string
	Email    string
	Active   bool
}

type Store interface {
	GetUser(ctx context.Context, id string) (*User, error)
}
