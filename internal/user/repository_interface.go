package user

import "context"

type Repository interface {
	Create(ctx context.Context, username, name, email, passwordHash string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateBio(ctx context.Context, id int, bio string) error
}
