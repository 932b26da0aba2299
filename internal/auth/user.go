package auth

import "context"

// Credentials is what login, refresh and password reset need to know
// about a user and the role it holds.
type Credentials struct {
	UserID       int64
	EID          string
	Email        string
	FirstName    string
	PasswordHash string
	Status       string
	RoleID       int64
	RoleName     string
	RoleActive   bool
}

// CanSignIn reports whether the account and its role are usable.
func (c *Credentials) CanSignIn() bool {
	return c.Status == "ACTIVE" && c.RoleActive
}

func (c *Credentials) Subject() Subject {
	return Subject{UserID: c.UserID, RoleID: c.RoleID, RoleName: c.RoleName}
}

type RepositoryAPI interface {
	GetCredentialsByEmail(ctx context.Context, email string) (*Credentials, error)
	GetCredentialsByID(ctx context.Context, userID int64) (*Credentials, error)
	UpdatePasswordHash(ctx context.Context, userID int64, passwordHash string) error
}
