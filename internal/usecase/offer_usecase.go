package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-procurement-backend/internal/domain"
	"go-procurement-backend/pkg/apperror"
)

type offerUsecase struct {
	offerRepo domain.OfferRepository
}

func NewOfferUsecase(offerRepo domain.OfferRepository) domain.OfferUsecase {
	return &offerUsecase{offerRepo: offerRepo}
}

// CreateOffer inserts a new tender in pending status. The deadline must be
// strictly in the future.
func (u *offerUsecase) CreateOffer(ctx context.Context, creatorID int64, input domain.CreateOfferInput) (*domain.Offer, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	domaine := strings.TrimSpace(input.Domaine)

	if title == "" || description == "" || domaine == "" {
		return nil, apperror.BadRequest("title, description and domaine are required")
	}
	if input.DateLimite.IsZero() || !input.DateLimite.After(time.Now()) {
		return nil, apperror.BadRequest("dateLimite must be in the future")
	}

	offer := &domain.Offer{
		Title:       title,
		Description: description,
		Domaine:     domaine,
		DateLimite:  input.DateLimite,
		Status:      domain.OfferStatusPending,
		CreatedByID: creatorID,
	}
	if err := u.offerRepo.Create(ctx, offer); err != nil {
		return nil, apperror.Internal(err)
	}
	return offer, nil
}

func (u *offerUsecase) ListOffers(ctx context.Context) ([]domain.Offer, error) {
	offers, err := u.offerRepo.Fetch(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return offers, nil
}

func (u *offerUsecase) ListPublishedOffers(ctx context.Context) ([]domain.Offer, error) {
	offers, err := u.offerRepo.FetchByStatus(ctx, domain.OfferStatusValidated, 0)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return offers, nil
}

func (u *offerUsecase) GetOffer(ctx context.Context, id int64) (*domain.Offer, error) {
	offer, err := u.offerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("offer not found")
		}
		return nil, apperror.Internal(err)
	}
	return offer, nil
}

func (u *offerUsecase) ValidateOffer(ctx context.Context, id int64) (*domain.Offer, error) {
	return u.setStatus(ctx, id, domain.OfferStatusValidated)
}

func (u *offerUsecase) RejectOffer(ctx context.Context, id int64) (*domain.Offer, error) {
	return u.setStatus(ctx, id, domain.OfferStatusRejected)
}

// setStatus is deliberately guard-free: re-validating a rejected offer (and
// vice versa) is an allowed overwrite.
func (u *offerUsecase) setStatus(ctx context.Context, id int64, status string) (*domain.Offer, error) {
	offer, err := u.offerRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("offer not found")
		}
		return nil, apperror.Internal(err)
	}
	return offer, nil
}

func (u *offerUsecase) DeleteOffer(ctx context.Context, id int64) error {
	if err := u.offerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("offer not found")
		}
		return apperror.Internal(err)
	}
	return nil
}
