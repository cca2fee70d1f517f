package usecase

import (
	"context"
	"errors"
	"strings"

	"go-procurement-backend/internal/domain"
	"go-procurement-backend/pkg/apperror"
)

type candidatureUsecase struct {
	candidatureRepo domain.CandidatureRepository
	offerRepo       domain.OfferRepository
}

func NewCandidatureUsecase(candidatureRepo domain.CandidatureRepository, offerRepo domain.OfferRepository) domain.CandidatureUsecase {
	return &candidatureUsecase{
		candidatureRepo: candidatureRepo,
		offerRepo:       offerRepo,
	}
}

// Submit creates a pending candidature for a validated offer. At least one of
// message or document must be present, and an entreprise may apply to a given
// offer only once.
func (uc *candidatureUsecase) Submit(ctx context.Context, entrepriseID int64, input domain.SubmitCandidatureInput) (*domain.Candidature, error) {
	if input.OfferID == 0 {
		return nil, apperror.BadRequest("offerId is required")
	}

	offer, err := uc.offerRepo.GetByID(ctx, input.OfferID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("offer not found")
		}
		return nil, apperror.Internal(err)
	}
	if offer.Status != domain.OfferStatusValidated {
		return nil, apperror.Conflict("offer is not available for submission")
	}

	exists, err := uc.candidatureRepo.Exists(ctx, entrepriseID, input.OfferID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict("you have already applied to this offer")
	}

	message := strings.TrimSpace(input.Message)
	if message == "" && input.DocumentRef == "" {
		return nil, apperror.BadRequest("provide at least a motivation message or a document")
	}

	candidature := &domain.Candidature{
		Status:       domain.CandidatureStatusPending,
		EntrepriseID: entrepriseID,
		OfferID:      input.OfferID,
	}
	if message != "" {
		candidature.Message = &message
	}
	if input.DocumentRef != "" {
		candidature.DocumentRef = &input.DocumentRef
	}

	if err := uc.candidatureRepo.Create(ctx, candidature); err != nil {
		// pre-check can race with a concurrent submission
		if errors.Is(err, domain.ErrDuplicateCandidature) {
			return nil, apperror.Conflict("you have already applied to this offer")
		}
		return nil, apperror.Internal(err)
	}
	return candidature, nil
}

func (uc *candidatureUsecase) ListByOffer(ctx context.Context, offerID int64) ([]domain.Candidature, error) {
	candidatures, err := uc.candidatureRepo.GetByOfferID(ctx, offerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return candidatures, nil
}

func (uc *candidatureUsecase) ListMine(ctx context.Context, entrepriseID int64) ([]domain.Candidature, error) {
	candidatures, err := uc.candidatureRepo.GetByEntrepriseID(ctx, entrepriseID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return candidatures, nil
}

// UpdateStatus transitions a candidature to accepted or rejected. Acceptance
// is exclusive per offer: the repository performs the check and the sibling
// cascade in one transaction, and the result reports how many pending
// siblings were auto-rejected.
func (uc *candidatureUsecase) UpdateStatus(ctx context.Context, id int64, status string) (*domain.StatusUpdateResult, error) {
	switch status {
	case domain.CandidatureStatusAccepted:
		candidature, autoRejected, err := uc.candidatureRepo.Accept(ctx, id)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				return nil, apperror.NotFound("candidature not found")
			case errors.Is(err, domain.ErrAlreadyAccepted):
				return nil, apperror.Conflict("a candidature has already been accepted for this offer")
			}
			return nil, apperror.Internal(err)
		}
		return &domain.StatusUpdateResult{Candidature: candidature, AutoRejected: autoRejected}, nil

	case domain.CandidatureStatusRejected:
		candidature, err := uc.candidatureRepo.Reject(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, apperror.NotFound("candidature not found")
			}
			return nil, apperror.Internal(err)
		}
		return &domain.StatusUpdateResult{Candidature: candidature, AutoRejected: 0}, nil

	default:
		return nil, apperror.BadRequest("invalid status, use \"accepted\" or \"rejected\"")
	}
}
