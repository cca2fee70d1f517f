package domain

import (
	"context"
	"errors"
	"time"
)

// Offer status constants
const (
	OfferStatusPending   = "pending"
	OfferStatusValidated = "validated"
	OfferStatusRejected  = "rejected"
)

var ErrNotFound = errors.New("resource not found")

// ErrUserOwnsOffers is returned when deleting a user that still owns offers.
var ErrUserOwnsOffers = errors.New("user still owns offers")

// Offer is a published procurement opportunity (tender).
type Offer struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Domaine     string     `json:"domaine"`
	DateLimite  time.Time  `json:"dateLimite"`
	Status      string     `json:"status"` // pending, then validated or rejected; re-settable
	ValidatedAt *time.Time `json:"validated_at,omitempty"`
	RejectedAt  *time.Time `json:"rejected_at,omitempty"`
	CreatedByID int64      `json:"created_by_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Joined creator identity for ministry dashboard listings
	CreatorName    *string `json:"creator_name,omitempty"`
	CreatorCompany *string `json:"creator_company,omitempty"`
}

// CreateOfferInput carries the offer creation payload. Status is forced to
// pending regardless of input.
type CreateOfferInput struct {
	Title       string
	Description string
	Domaine     string
	DateLimite  time.Time
}

type OfferRepository interface {
	Create(ctx context.Context, offer *Offer) error
	GetByID(ctx context.Context, id int64) (*Offer, error)
	Fetch(ctx context.Context) ([]Offer, error)
	FetchByStatus(ctx context.Context, status string, limit int) ([]Offer, error)
	// UpdateStatus stamps validated_at or rejected_at depending on status.
	UpdateStatus(ctx context.Context, id int64, status string) (*Offer, error)
	Delete(ctx context.Context, id int64) error
}

type OfferUsecase interface {
	CreateOffer(ctx context.Context, creatorID int64, input CreateOfferInput) (*Offer, error)
	ListOffers(ctx context.Context) ([]Offer, error)
	ListPublishedOffers(ctx context.Context) ([]Offer, error)
	GetOffer(ctx context.Context, id int64) (*Offer, error)
	ValidateOffer(ctx context.Context, id int64) (*Offer, error)
	RejectOffer(ctx context.Context, id int64) (*Offer, error)
	DeleteOffer(ctx context.Context, id int64) error
}
