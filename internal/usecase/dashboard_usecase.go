package usecase

import (
	"context"

	"go-procurement-backend/internal/domain"
	"go-procurement-backend/pkg/apperror"
)

const (
	dashboardListLimit  = 10
	chartTrailingMonths = 6
)

type dashboardUsecase struct {
	dashboardRepo   domain.DashboardRepository
	offerRepo       domain.OfferRepository
	candidatureRepo domain.CandidatureRepository
}

func NewDashboardUsecase(
	dashboardRepo domain.DashboardRepository,
	offerRepo domain.OfferRepository,
	candidatureRepo domain.CandidatureRepository,
) domain.DashboardUsecase {
	return &dashboardUsecase{
		dashboardRepo:   dashboardRepo,
		offerRepo:       offerRepo,
		candidatureRepo: candidatureRepo,
	}
}

// EntrepriseDashboard composes the applicant view: the latest published
// offers plus the entreprise's own candidatures and their status counts.
func (u *dashboardUsecase) EntrepriseDashboard(ctx context.Context, entrepriseID int64) (*domain.EntrepriseDashboard, error) {
	offers, err := u.offerRepo.FetchByStatus(ctx, domain.OfferStatusValidated, dashboardListLimit)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	candidatures, err := u.candidatureRepo.GetByEntrepriseID(ctx, entrepriseID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	stats, err := u.dashboardRepo.CandidatureStatsForEntreprise(ctx, entrepriseID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.EntrepriseDashboard{
		Offers:       offers,
		Candidatures: candidatures,
		Stats:        *stats,
		OffersTotal:  int64(len(offers)),
	}, nil
}

// MinistereDashboard composes the ministry view: global status counts, the
// ten most recent records of each kind and the trailing six-month chart data.
func (u *dashboardUsecase) MinistereDashboard(ctx context.Context) (*domain.MinistereDashboard, error) {
	userStats, err := u.dashboardRepo.UserStats(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	offerStats, err := u.dashboardRepo.OfferStats(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	candidatureStats, err := u.dashboardRepo.CandidatureStats(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	users, err := u.dashboardRepo.RecentUsers(ctx, dashboardListLimit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	offers, err := u.dashboardRepo.RecentOffers(ctx, dashboardListLimit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	candidatures, err := u.dashboardRepo.RecentCandidatures(ctx, dashboardListLimit)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	chartData, err := u.dashboardRepo.MonthlyCreations(ctx, chartTrailingMonths)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.MinistereDashboard{
		Users:        users,
		Offers:       offers,
		Candidatures: candidatures,
		Stats: domain.DashboardStats{
			Users:        *userStats,
			Offers:       *offerStats,
			Candidatures: *candidatureStats,
		},
		ChartData: chartData,
	}, nil
}
