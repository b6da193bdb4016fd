package user

import "context"

// column bounds of the users table
const (
	MaxEmailLen = 64
	MaxNameLen  = 64
	MaxBioLen   = 1024
)

type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Bio   string `json:"bio"`
}

// Summary is the listing shape, bio is never included.
type Summary struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// with pointers if optional, it will be nil
type CreateRequest struct {
	Email string  `json:"email"`
	Name  string  `json:"name"`
	Bio   *string `json:"bio"`
}

func (r CreateRequest) BioOrDefault() string {
	if r.Bio == nil {
		return ""
	}
	return *r.Bio
}

// a full update payload; the target row is identified by the email in the path.
type UpdateRequest struct {
	Email *string `json:"email"`
	Name  string  `json:"name"`
	Bio   *string `json:"bio"`
}

// Resolve fills the defaults of an update: a missing or empty new email keeps the
// original one and a missing bio becomes empty.
func (r UpdateRequest) Resolve(original string) User {
	u := User{Email: original, Name: r.Name}

	if r.Email != nil && *r.Email != "" {
		u.Email = *r.Email
	}

	if r.Bio != nil {
		u.Bio = *r.Bio
	}

	return u
}

// Store owns persistence of the users relation.
type Store interface {
	CreateTable(ctx context.Context) error
	DropTable(ctx context.Context) error
	List(ctx context.Context) ([]Summary, error)
	// Get reports absence with ok == false and a nil error.
	Get(ctx context.Context, email string) (u User, ok bool, err error)
	Insert(ctx context.Context, email, name, bio string) error
	Update(ctx context.Context, oldEmail, newEmail, name, bio string) error
	Delete(ctx context.Context, email string) error
	Ping(ctx context.Context) error
}
