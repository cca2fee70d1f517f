package usecase_test

import (
	"context"
	"testing"
	"time"

	"go-procurement-backend/internal/domain"
	"go-procurement-backend/internal/usecase"
	"go-procurement-backend/pkg/apperror"
	"go-procurement-backend/pkg/hash"
	"go-procurement-backend/pkg/token"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Fetch(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) DeleteByUsername(ctx context.Context, username string) error {
	return m.Called(ctx, username).Error(0)
}

type MockOfferRepo struct {
	mock.Mock
}

func (m *MockOfferRepo) Create(ctx context.Context, offer *domain.Offer) error {
	return m.Called(ctx, offer).Error(0)
}
func (m *MockOfferRepo) GetByID(ctx context.Context, id int64) (*domain.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}
func (m *MockOfferRepo) Fetch(ctx context.Context) ([]domain.Offer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Offer), args.Error(1)
}
func (m *MockOfferRepo) FetchByStatus(ctx context.Context, status string, limit int) ([]domain.Offer, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Offer), args.Error(1)
}
func (m *MockOfferRepo) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Offer, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}
func (m *MockOfferRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockCandidatureRepo struct {
	mock.Mock
}

func (m *MockCandidatureRepo) Create(ctx context.Context, c *domain.Candidature) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockCandidatureRepo) GetByID(ctx context.Context, id int64) (*domain.Candidature, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidature), args.Error(1)
}
func (m *MockCandidatureRepo) GetByOfferID(ctx context.Context, offerID int64) ([]domain.Candidature, error) {
	args := m.Called(ctx, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Candidature), args.Error(1)
}
func (m *MockCandidatureRepo) GetByEntrepriseID(ctx context.Context, entrepriseID int64) ([]domain.Candidature, error) {
	args := m.Called(ctx, entrepriseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Candidature), args.Error(1)
}
func (m *MockCandidatureRepo) Exists(ctx context.Context, entrepriseID, offerID int64) (bool, error) {
	args := m.Called(ctx, entrepriseID, offerID)
	return args.Bool(0), args.Error(1)
}
func (m *MockCandidatureRepo) Accept(ctx context.Context, id int64) (*domain.Candidature, int64, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*domain.Candidature), args.Get(1).(int64), args.Error(2)
}
func (m *MockCandidatureRepo) Reject(ctx context.Context, id int64) (*domain.Candidature, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidature), args.Error(1)
}

func newAuthUsecase(repo domain.UserRepository) domain.AuthUsecase {
	hasher := hash.NewHasher(4) // low cost to keep tests fast
	tokens := token.NewManager("0123456789abcdef0123456789abcdef", time.Hour)
	return usecase.NewAuthUsecase(repo, hasher, tokens, validator.New())
}

func appErrCode(t *testing.T, err error) int {
	t.Helper()
	appErr, ok := err.(*apperror.AppError)
	if !ok {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

func TestRegister(t *testing.T) {
	t.Run("Should create an entreprise account", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := newAuthUsecase(mockRepo)

		mockRepo.On("GetByUsernameOrEmail", mock.Anything, "acme", "contact@acme.fr").
			Return(nil, domain.ErrNotFound)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

		user, err := uc.Register(context.Background(), domain.RegisterInput{
			Username:    "acme",
			Email:       "contact@acme.fr",
			Password:    "supersecret",
			CompanyName: "ACME SARL",
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.RoleEntreprise, user.Role)
		assert.NotEqual(t, "supersecret", user.Password, "password must be hashed before storage")
		mockRepo.AssertExpectations(t)
	})

	t.Run("Should reject a taken username with 409", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := newAuthUsecase(mockRepo)

		mockRepo.On("GetByUsernameOrEmail", mock.Anything, "acme", "new@acme.fr").
			Return(&domain.User{Username: "acme", Email: "old@acme.fr"}, nil)

		_, err := uc.Register(context.Background(), domain.RegisterInput{
			Username: "acme",
			Email:    "new@acme.fr",
			Password: "supersecret",
		})
		assert.Error(t, err)
		assert.Equal(t, 409, appErrCode(t, err))
		assert.Contains(t, err.Error(), "username")
	})

	t.Run("Should reject a short password with 400", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := newAuthUsecase(mockRepo)

		_, err := uc.Register(context.Background(), domain.RegisterInput{
			Username: "acme",
			Email:    "contact@acme.fr",
			Password: "short",
		})
		assert.Error(t, err)
		assert.Equal(t, 400, appErrCode(t, err))
		mockRepo.AssertNotCalled(t, "Create")
	})
}

func TestLogin(t *testing.T) {
	hasher := hash.NewHasher(4)
	credential, _ := hasher.Hash("supersecret")

	t.Run("Should return token and entreprise redirect", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := newAuthUsecase(mockRepo)

		mockRepo.On("GetByUsername", mock.Anything, "acme").Return(&domain.User{
			ID:       42,
			Username: "acme",
			Password: credential,
			Role:     domain.RoleEntreprise,
		}, nil)

		result, err := uc.Login(context.Background(), "acme", "supersecret")
		assert.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "/entreprise/home", result.RedirectTo)
		assert.Equal(t, "1h0m0s", result.ExpiresIn)
	})

	t.Run("Should return ministere redirect for ministry roles", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := newAuthUsecase(mockRepo)

		mockRepo.On("GetByUsername", mock.Anything, "dgmp").Return(&domain.User{
			ID:       7,
			Username: "dgmp",
			Password: credential,
			Role:     domain.RoleMinistere,
		}, nil)

		result, err := uc.Login(context.Background(), "dgmp", "supersecret")
		assert.NoError(t, err)
		assert.Equal(t, "/ministere/home", result.RedirectTo)
	})

	t.Run("Should fail with 401 on wrong password", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := newAuthUsecase(mockRepo)

		mockRepo.On("GetByUsername", mock.Anything, "acme").Return(&domain.User{
			Username: "acme",
			Password: credential,
		}, nil)

		_, err := uc.Login(context.Background(), "acme", "wrongpass")
		assert.Error(t, err)
		assert.Equal(t, 401, appErrCode(t, err))
		assert.Contains(t, err.Error(), "invalid credentials")
	})

	t.Run("Should fail with 401 on unknown user, not 404", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := newAuthUsecase(mockRepo)

		mockRepo.On("GetByUsername", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

		_, err := uc.Login(context.Background(), "ghost", "whatever")
		assert.Error(t, err)
		assert.Equal(t, 401, appErrCode(t, err))
	})
}

func TestCreateOffer(t *testing.T) {
	t.Run("Should create a pending offer", func(t *testing.T) {
		mockRepo := new(MockOfferRepo)
		uc := usecase.NewOfferUsecase(mockRepo)

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Offer")).Return(nil)

		offer, err := uc.CreateOffer(context.Background(), 7, domain.CreateOfferInput{
			Title:       "Construction d'un pont",
			Description: "Pont sur le fleuve",
			Domaine:     "BTP",
			DateLimite:  time.Now().Add(30 * 24 * time.Hour),
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.OfferStatusPending, offer.Status)
		assert.Equal(t, int64(7), offer.CreatedByID)
	})

	t.Run("Should reject a past deadline", func(t *testing.T) {
		mockRepo := new(MockOfferRepo)
		uc := usecase.NewOfferUsecase(mockRepo)

		_, err := uc.CreateOffer(context.Background(), 7, domain.CreateOfferInput{
			Title:       "Construction d'un pont",
			Description: "Pont sur le fleuve",
			Domaine:     "BTP",
			DateLimite:  time.Now().Add(-time.Hour),
		})
		assert.Error(t, err)
		assert.Equal(t, 400, appErrCode(t, err))
		mockRepo.AssertNotCalled(t, "Create")
	})
}

func TestSubmitCandidature(t *testing.T) {
	validated := &domain.Offer{ID: 1, Status: domain.OfferStatusValidated}

	t.Run("Should submit against a validated offer", func(t *testing.T) {
		mockCandidatures := new(MockCandidatureRepo)
		mockOffers := new(MockOfferRepo)
		uc := usecase.NewCandidatureUsecase(mockCandidatures, mockOffers)

		mockOffers.On("GetByID", mock.Anything, int64(1)).Return(validated, nil)
		mockCandidatures.On("Exists", mock.Anything, int64(42), int64(1)).Return(false, nil)
		mockCandidatures.On("Create", mock.Anything, mock.AnythingOfType("*domain.Candidature")).Return(nil)

		candidature, err := uc.Submit(context.Background(), 42, domain.SubmitCandidatureInput{
			OfferID: 1,
			Message: "Notre dossier technique",
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.CandidatureStatusPending, candidature.Status)
		mockCandidatures.AssertExpectations(t)
	})

	t.Run("Should refuse a pending offer with 409", func(t *testing.T) {
		mockCandidatures := new(MockCandidatureRepo)
		mockOffers := new(MockOfferRepo)
		uc := usecase.NewCandidatureUsecase(mockCandidatures, mockOffers)

		mockOffers.On("GetByID", mock.Anything, int64(2)).
			Return(&domain.Offer{ID: 2, Status: domain.OfferStatusPending}, nil)

		_, err := uc.Submit(context.Background(), 42, domain.SubmitCandidatureInput{
			OfferID: 2,
			Message: "Dossier",
		})
		assert.Error(t, err)
		assert.Equal(t, 409, appErrCode(t, err))
		mockCandidatures.AssertNotCalled(t, "Create")
	})

	t.Run("Should refuse a duplicate submission with 409", func(t *testing.T) {
		mockCandidatures := new(MockCandidatureRepo)
		mockOffers := new(MockOfferRepo)
		uc := usecase.NewCandidatureUsecase(mockCandidatures, mockOffers)

		mockOffers.On("GetByID", mock.Anything, int64(1)).Return(validated, nil)
		mockCandidatures.On("Exists", mock.Anything, int64(42), int64(1)).Return(true, nil)

		_, err := uc.Submit(context.Background(), 42, domain.SubmitCandidatureInput{
			OfferID: 1,
			Message: "Dossier",
		})
		assert.Error(t, err)
		assert.Equal(t, 409, appErrCode(t, err))
		assert.Contains(t, err.Error(), "already applied")
	})

	t.Run("Should require a message or a document", func(t *testing.T) {
		mockCandidatures := new(MockCandidatureRepo)
		mockOffers := new(MockOfferRepo)
		uc := usecase.NewCandidatureUsecase(mockCandidatures, mockOffers)

		mockOffers.On("GetByID", mock.Anything, int64(1)).Return(validated, nil)
		mockCandidatures.On("Exists", mock.Anything, int64(42), int64(1)).Return(false, nil)

		_, err := uc.Submit(context.Background(), 42, domain.SubmitCandidatureInput{
			OfferID: 1,
			Message: "   ",
		})
		assert.Error(t, err)
		assert.Equal(t, 400, appErrCode(t, err))
		mockCandidatures.AssertNotCalled(t, "Create")
	})

	t.Run("Should refuse a missing offer with 404", func(t *testing.T) {
		mockCandidatures := new(MockCandidatureRepo)
		mockOffers := new(MockOfferRepo)
		uc := usecase.NewCandidatureUsecase(mockCandidatures, mockOffers)

		mockOffers.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrNotFound)

		_, err := uc.Submit(context.Background(), 42, domain.SubmitCandidatureInput{
			OfferID: 99,
			Message: "Dossier",
		})
		assert.Error(t, err)
		assert.Equal(t, 404, appErrCode(t, err))
	})
}

func TestUpdateCandidatureStatus(t *testing.T) {
	t.Run("Should accept and report the auto-rejected count", func(t *testing.T) {
		mockCandidatures := new(MockCandidatureRepo)
		uc := usecase.NewCandidatureUsecase(mockCandidatures, new(MockOfferRepo))

		accepted := &domain.Candidature{ID: 5, OfferID: 1, Status: domain.CandidatureStatusAccepted}
		mockCandidatures.On("Accept", mock.Anything, int64(5)).Return(accepted, int64(3), nil)

		result, err := uc.UpdateStatus(context.Background(), 5, domain.CandidatureStatusAccepted)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), result.AutoRejected)
		assert.Equal(t, domain.CandidatureStatusAccepted, result.Candidature.Status)
	})

	t.Run("Should surface 409 when another candidature already holds the acceptance", func(t *testing.T) {
		mockCandidatures := new(MockCandidatureRepo)
		uc := usecase.NewCandidatureUsecase(mockCandidatures, new(MockOfferRepo))

		mockCandidatures.On("Accept", mock.Anything, int64(6)).
			Return(nil, int64(0), domain.ErrAlreadyAccepted)

		_, err := uc.UpdateStatus(context.Background(), 6, domain.CandidatureStatusAccepted)
		assert.Error(t, err)
		assert.Equal(t, 409, appErrCode(t, err))
		assert.Contains(t, err.Error(), "already been accepted")
	})

	t.Run("Should reject without a cascade", func(t *testing.T) {
		mockCandidatures := new(MockCandidatureRepo)
		uc := usecase.NewCandidatureUsecase(mockCandidatures, new(MockOfferRepo))

		rejected := &domain.Candidature{ID: 8, OfferID: 1, Status: domain.CandidatureStatusRejected}
		mockCandidatures.On("Reject", mock.Anything, int64(8)).Return(rejected, nil)

		result, err := uc.UpdateStatus(context.Background(), 8, domain.CandidatureStatusRejected)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), result.AutoRejected)
	})

	t.Run("Should refuse any other status value", func(t *testing.T) {
		mockCandidatures := new(MockCandidatureRepo)
		uc := usecase.NewCandidatureUsecase(mockCandidatures, new(MockOfferRepo))

		_, err := uc.UpdateStatus(context.Background(), 5, "pending")
		assert.Error(t, err)
		assert.Equal(t, 400, appErrCode(t, err))
		mockCandidatures.AssertNotCalled(t, "Accept")
		mockCandidatures.AssertNotCalled(t, "Reject")
	})
}

func TestGetUser(t *testing.T) {
	t.Run("Should resolve a numeric id through GetByID", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := usecase.NewUserUsecase(mockRepo)

		mockRepo.On("GetByID", mock.Anything, int64(42)).
			Return(&domain.User{ID: 42, Username: "acme"}, nil)

		user, err := uc.GetUser(context.Background(), "42")
		assert.NoError(t, err)
		assert.Equal(t, "acme", user.Username)
		mockRepo.AssertNotCalled(t, "GetByUsername")
	})

	t.Run("Should resolve a username through GetByUsername", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := usecase.NewUserUsecase(mockRepo)

		mockRepo.On("GetByUsername", mock.Anything, "acme").
			Return(&domain.User{ID: 42, Username: "acme"}, nil)

		user, err := uc.GetUser(context.Background(), "acme")
		assert.NoError(t, err)
		assert.Equal(t, int64(42), user.ID)
		mockRepo.AssertNotCalled(t, "GetByID")
	})

	t.Run("Should surface 404 for an unknown account", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := usecase.NewUserUsecase(mockRepo)

		mockRepo.On("GetByUsername", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

		_, err := uc.GetUser(context.Background(), "ghost")
		assert.Error(t, err)
		assert.Equal(t, 404, appErrCode(t, err))
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("Should surface 409 when the user still owns offers", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := usecase.NewUserUsecase(mockRepo)

		mockRepo.On("DeleteByUsername", mock.Anything, "dgmp").Return(domain.ErrUserOwnsOffers)

		err := uc.DeleteUser(context.Background(), "dgmp")
		assert.Error(t, err)
		assert.Equal(t, 409, appErrCode(t, err))
	})

	t.Run("Should surface 404 for an unknown user", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		uc := usecase.NewUserUsecase(mockRepo)

		mockRepo.On("DeleteByUsername", mock.Anything, "ghost").Return(domain.ErrNotFound)

		err := uc.DeleteUser(context.Background(), "ghost")
		assert.Error(t, err)
		assert.Equal(t, 404, appErrCode(t, err))
	})
}
