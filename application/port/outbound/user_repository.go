package outbound

import (
	"context"
	"errors"

	"github.com/medilink/medilink/domain/entity"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository is the credential store collaborator. The wider CRUD surface
// of the platform lives elsewhere; this subsystem only reads credentials and
// writes the refresh-session hash.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// UpdateRefreshHash overwrites the stored refresh-token hash for the
	// user. A nil hash closes the refresh session (logout/revoke). The write
	// is unconditional: concurrent rotations resolve last-write-wins.
	UpdateRefreshHash(ctx context.Context, id int64, hash *string) error
}
