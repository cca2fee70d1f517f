package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go-procurement-backend/internal/domain"
	"go-procurement-backend/pkg/apperror"
)

type userUsecase struct {
	userRepo domain.UserRepository
}

func NewUserUsecase(userRepo domain.UserRepository) domain.UserUsecase {
	return &userUsecase{userRepo: userRepo}
}

func (u *userUsecase) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := u.userRepo.Fetch(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return users, nil
}

// GetUser resolves a numeric id or a username to one account.
func (u *userUsecase) GetUser(ctx context.Context, idOrUsername string) (*domain.User, error) {
	idOrUsername = strings.TrimSpace(idOrUsername)
	if idOrUsername == "" {
		return nil, apperror.BadRequest("user id or username is required")
	}

	var (
		user *domain.User
		err  error
	)
	if id, perr := strconv.ParseInt(idOrUsername, 10, 64); perr == nil {
		user, err = u.userRepo.GetByID(ctx, id)
	} else {
		user, err = u.userRepo.GetByUsername(ctx, idOrUsername)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

// DeleteUser removes an account. Candidatures cascade away with it; deletion
// is refused while the account still owns offers.
func (u *userUsecase) DeleteUser(ctx context.Context, username string) error {
	err := u.userRepo.DeleteByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return apperror.NotFound("user not found")
		case errors.Is(err, domain.ErrUserOwnsOffers):
			return apperror.Conflict("user still owns offers; delete or reassign them first")
		}
		return apperror.Internal(err)
	}
	return nil
}
