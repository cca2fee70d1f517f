package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"go-procurement-backend/internal/domain"
	"go-procurement-backend/pkg/apperror"
	"go-procurement-backend/pkg/hash"
	"go-procurement-backend/pkg/token"
)

// Role-dependent landing pages returned to the frontend after login.
const (
	redirectEntreprise = "/entreprise/home"
	redirectMinistere  = "/ministere/home"
	redirectDefault    = "/dashboard"
)

type authUsecase struct {
	userRepo domain.UserRepository
	hasher   *hash.Hasher
	tokens   *token.Manager
	validate *validator.Validate
}

func NewAuthUsecase(userRepo domain.UserRepository, hasher *hash.Hasher, tokens *token.Manager, validate *validator.Validate) domain.AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		validate: validate,
	}
}

// Register creates an entreprise account. Self-registration never produces
// any other role.
func (u *authUsecase) Register(ctx context.Context, input domain.RegisterInput) (*domain.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	if err := u.validate.Struct(input); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	existing, err := u.userRepo.GetByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		if existing.Username == input.Username {
			return nil, apperror.Conflict(domain.ErrUsernameTaken.Error())
		}
		return nil, apperror.Conflict(domain.ErrEmailTaken.Error())
	}

	credential, err := u.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &domain.User{
		Username: input.Username,
		Email:    input.Email,
		Password: credential,
		Role:     domain.RoleEntreprise,
	}
	if input.Nom != "" {
		user.Nom = &input.Nom
	}
	if input.CompanyName != "" {
		user.CompanyName = &input.CompanyName
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		// pre-check can race with a concurrent registration
		if errors.Is(err, domain.ErrUsernameTaken) || errors.Is(err, domain.ErrEmailTaken) {
			return nil, apperror.Conflict(err.Error())
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	if username == "" || password == "" {
		return nil, apperror.BadRequest("username and password are required")
	}

	user, err := u.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid credentials")
		}
		return nil, apperror.Internal(err)
	}

	if !u.hasher.Verify(password, user.Password) {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	signed, err := u.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.LoginResult{
		Token:      signed,
		User:       user,
		RedirectTo: redirectFor(user.Role),
		ExpiresIn:  u.tokens.TTL().String(),
	}, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func redirectFor(role domain.Role) string {
	switch {
	case role == domain.RoleEntreprise:
		return redirectEntreprise
	case role.IsMinistry():
		return redirectMinistere
	default:
		return redirectDefault
	}
}
