package domain

import (
	"context"
	"errors"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleEntreprise        Role = "entreprise"
	RoleAdmin             Role = "admin"
	RoleMinistere         Role = "ministere"
	RoleMinisterePublique Role = "ministerepublique"
)

// IsMinistry reports whether the role belongs to the ministry family,
// which is treated as one equivalence class for authorization.
func (r Role) IsMinistry() bool {
	switch r {
	case RoleAdmin, RoleMinistere, RoleMinisterePublique:
		return true
	}
	return false
}

func (r Role) Valid() bool {
	switch r {
	case RoleEntreprise, RoleAdmin, RoleMinistere, RoleMinisterePublique:
		return true
	}
	return false
}

// MinistryRoles is the role set reported back on 403 responses.
var MinistryRoles = []Role{RoleAdmin, RoleMinistere, RoleMinisterePublique}

// Duplicate-identity errors surfaced by the unique constraints on users.
var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already taken")
)

type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Nom         *string   `json:"nom,omitempty"`
	Email       string    `json:"email"`
	Password    string    `json:"-"`
	Role        Role      `json:"role"`
	CompanyName *string   `json:"company_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RegisterInput carries the self-registration payload. Role is always
// entreprise for self-registration.
type RegisterInput struct {
	Username    string `validate:"required,min=3,max=64"`
	Email       string `validate:"required,email"`
	Password    string `validate:"required,min=8"`
	Nom         string `validate:"max=128"`
	CompanyName string `validate:"max=128"`
}

// LoginResult is the successful login response payload.
type LoginResult struct {
	Token      string `json:"token"`
	User       *User  `json:"user"`
	RedirectTo string `json:"redirectTo"`
	ExpiresIn  string `json:"expiresIn"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	// GetByUsernameOrEmail backs the duplicate check at registration.
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*User, error)
	Fetch(ctx context.Context) ([]User, error)
	DeleteByUsername(ctx context.Context, username string) error
}

type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	GetCurrentUser(ctx context.Context, id int64) (*User, error)
}

type UserUsecase interface {
	ListUsers(ctx context.Context) ([]User, error)
	// GetUser resolves a numeric id or a username to one account.
	GetUser(ctx context.Context, idOrUsername string) (*User, error)
	DeleteUser(ctx context.Context, username string) error
}
