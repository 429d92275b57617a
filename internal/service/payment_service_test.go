package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lumora/memoria-backend/internal/common"
	"github.com/lumora/memoria-backend/internal/config"
	"github.com/lumora/memoria-backend/internal/domain"
	"github.com/lumora/memoria-backend/internal/gateway"
)

// --- Mock PaymentRepository ---

type mockPaymentRepo struct {
	mock.Mock
}

func (m *mockPaymentRepo) Create(ctx context.Context, tx *domain.PaymentTransaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *mockPaymentRepo) FindByReference(ctx context.Context, reference string) (*domain.PaymentTransaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentTransaction), args.Error(1)
}

func (m *mockPaymentRepo) MarkApplied(ctx context.Context, reference string) error {
	return m.Called(ctx, reference).Error(0)
}

func (m *mockPaymentRepo) MarkFailed(ctx context.Context, reference, reason string) error {
	return m.Called(ctx, reference, reason).Error(0)
}

func (m *mockPaymentRepo) ListByMemorial(ctx context.Context, memorialID string) ([]*domain.PaymentTransaction, error) {
	args := m.Called(ctx, memorialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PaymentTransaction), args.Error(1)
}

// --- Mock gateway verifier ---

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) VerifyTransaction(ctx context.Context, reference string) (*gateway.VerifyResult, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.VerifyResult), args.Error(1)
}

// --- Tests ---

func testPlanConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: "test"},
		Plans: []config.PlanPolicy{
			{Plan: "essence", PriceMinor: 500000, Currency: "NGN", DurationYears: 1},
			{Plan: "legacy", PriceMinor: 1500000, Currency: "NGN", DurationYears: 5},
			{Plan: "eternal", PriceMinor: 5000000, Currency: "NGN", DurationYears: 0},
		},
	}
}

func newTestPaymentService(payRepo *mockPaymentRepo, memRepo *mockMemorialRepo, verifier *mockVerifier) *paymentService {
	svc := NewPaymentService(payRepo, memRepo, verifier, testPlanConfig(), nil).(*paymentService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func upgradeRequest(plan string) *domain.VerifyPaymentRequest {
	return &domain.VerifyPaymentRequest{
		Reference:  "ref-1",
		MemorialID: "mem-1",
		Plan:       plan,
	}
}

func TestVerifyAndUpgrade_LegacyPlan(t *testing.T) {
	payRepo := new(mockPaymentRepo)
	memRepo := new(mockMemorialRepo)
	verifier := new(mockVerifier)
	svc := newTestPaymentService(payRepo, memRepo, verifier)

	memRepo.On("FindByID", mock.Anything, "mem-1").Return(&domain.Memorial{ID: "mem-1", OwnerID: "u1"}, nil)
	payRepo.On("FindByReference", mock.Anything, "ref-1").Return(nil, nil)
	verifier.On("VerifyTransaction", mock.Anything, "ref-1").Return(&gateway.VerifyResult{
		Reference: "ref-1", Status: "success", Amount: 1500000, Currency: "NGN",
	}, nil)
	payRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.PaymentTransaction")).Return(nil)
	memRepo.On("UpdatePlan", mock.Anything, "mem-1", domain.PlanLegacy, "2030-06-01").Return(nil)
	payRepo.On("MarkApplied", mock.Anything, "ref-1").Return(nil)

	resp, err := svc.VerifyAndUpgrade(context.Background(), upgradeRequest("legacy"), "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanLegacy, resp.Plan)
	assert.Equal(t, "2030-06-01", resp.PlanExpiry)
	memRepo.AssertExpectations(t)
	payRepo.AssertExpectations(t)
}

func TestVerifyAndUpgrade_EternalPlanNeverExpires(t *testing.T) {
	payRepo := new(mockPaymentRepo)
	memRepo := new(mockMemorialRepo)
	verifier := new(mockVerifier)
	svc := newTestPaymentService(payRepo, memRepo, verifier)

	memRepo.On("FindByID", mock.Anything, "mem-1").Return(&domain.Memorial{ID: "mem-1", OwnerID: "u1"}, nil)
	payRepo.On("FindByReference", mock.Anything, "ref-1").Return(nil, nil)
	verifier.On("VerifyTransaction", mock.Anything, "ref-1").Return(&gateway.VerifyResult{
		Reference: "ref-1", Status: "success", Amount: 5000000, Currency: "NGN",
	}, nil)
	payRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.PaymentTransaction")).Return(nil)
	memRepo.On("UpdatePlan", mock.Anything, "mem-1", domain.PlanEternal, domain.ExpiryNever).Return(nil)
	payRepo.On("MarkApplied", mock.Anything, "ref-1").Return(nil)

	resp, err := svc.VerifyAndUpgrade(context.Background(), upgradeRequest("ETERNAL"), "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.ExpiryNever, resp.PlanExpiry)
}

func TestVerifyAndUpgrade_DuplicateReferenceRejected(t *testing.T) {
	payRepo := new(mockPaymentRepo)
	memRepo := new(mockMemorialRepo)
	verifier := new(mockVerifier)
	svc := newTestPaymentService(payRepo, memRepo, verifier)

	memRepo.On("FindByID", mock.Anything, "mem-1").Return(&domain.Memorial{ID: "mem-1", OwnerID: "u1"}, nil)
	payRepo.On("FindByReference", mock.Anything, "ref-1").Return(&domain.PaymentTransaction{
		Reference: "ref-1", Status: domain.PaymentStatusApplied,
	}, nil)

	_, err := svc.VerifyAndUpgrade(context.Background(), upgradeRequest("legacy"), "u1")
	assert.ErrorIs(t, err, common.ErrPaymentAlreadyApplied)

	// a replayed reference never reaches the gateway or the plan write
	verifier.AssertNotCalled(t, "VerifyTransaction", mock.Anything, mock.Anything)
	memRepo.AssertNotCalled(t, "UpdatePlan", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyAndUpgrade_GatewayDeclined(t *testing.T) {
	payRepo := new(mockPaymentRepo)
	memRepo := new(mockMemorialRepo)
	verifier := new(mockVerifier)
	svc := newTestPaymentService(payRepo, memRepo, verifier)

	memRepo.On("FindByID", mock.Anything, "mem-1").Return(&domain.Memorial{ID: "mem-1", OwnerID: "u1"}, nil)
	payRepo.On("FindByReference", mock.Anything, "ref-1").Return(nil, nil)
	verifier.On("VerifyTransaction", mock.Anything, "ref-1").Return(&gateway.VerifyResult{
		Reference: "ref-1", Status: "abandoned",
	}, nil)

	_, err := svc.VerifyAndUpgrade(context.Background(), upgradeRequest("legacy"), "u1")
	assert.ErrorIs(t, err, common.ErrPaymentNotVerified)
	memRepo.AssertNotCalled(t, "UpdatePlan", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyAndUpgrade_AmountMismatch(t *testing.T) {
	payRepo := new(mockPaymentRepo)
	memRepo := new(mockMemorialRepo)
	verifier := new(mockVerifier)
	svc := newTestPaymentService(payRepo, memRepo, verifier)

	memRepo.On("FindByID", mock.Anything, "mem-1").Return(&domain.Memorial{ID: "mem-1", OwnerID: "u1"}, nil)
	payRepo.On("FindByReference", mock.Anything, "ref-1").Return(nil, nil)
	verifier.On("VerifyTransaction", mock.Anything, "ref-1").Return(&gateway.VerifyResult{
		Reference: "ref-1", Status: "success", Amount: 100, Currency: "NGN",
	}, nil)

	_, err := svc.VerifyAndUpgrade(context.Background(), upgradeRequest("legacy"), "u1")
	assert.ErrorIs(t, err, common.ErrAmountMismatch)
}

func TestVerifyAndUpgrade_NonOwnerForbidden(t *testing.T) {
	payRepo := new(mockPaymentRepo)
	memRepo := new(mockMemorialRepo)
	verifier := new(mockVerifier)
	svc := newTestPaymentService(payRepo, memRepo, verifier)

	memRepo.On("FindByID", mock.Anything, "mem-1").Return(&domain.Memorial{ID: "mem-1", OwnerID: "u1"}, nil)

	_, err := svc.VerifyAndUpgrade(context.Background(), upgradeRequest("legacy"), "intruder")
	assert.ErrorIs(t, err, common.ErrForbidden)
	verifier.AssertNotCalled(t, "VerifyTransaction", mock.Anything, mock.Anything)
}

func TestVerifyAndUpgrade_UnknownPlan(t *testing.T) {
	payRepo := new(mockPaymentRepo)
	memRepo := new(mockMemorialRepo)
	verifier := new(mockVerifier)
	svc := newTestPaymentService(payRepo, memRepo, verifier)

	_, err := svc.VerifyAndUpgrade(context.Background(), upgradeRequest("spirit"), "u1")
	assert.ErrorIs(t, err, common.ErrInvalidPlan)
}

func TestVerifyAndUpgrade_ApplyFailureSurfaced(t *testing.T) {
	payRepo := new(mockPaymentRepo)
	memRepo := new(mockMemorialRepo)
	verifier := new(mockVerifier)
	svc := newTestPaymentService(payRepo, memRepo, verifier)

	memRepo.On("FindByID", mock.Anything, "mem-1").Return(&domain.Memorial{ID: "mem-1", OwnerID: "u1"}, nil)
	payRepo.On("FindByReference", mock.Anything, "ref-1").Return(nil, nil)
	verifier.On("VerifyTransaction", mock.Anything, "ref-1").Return(&gateway.VerifyResult{
		Reference: "ref-1", Status: "success", Amount: 1500000, Currency: "NGN",
	}, nil)
	payRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.PaymentTransaction")).Return(nil)
	memRepo.On("UpdatePlan", mock.Anything, "mem-1", domain.PlanLegacy, "2030-06-01").Return(assert.AnError)
	payRepo.On("MarkFailed", mock.Anything, "ref-1", mock.AnythingOfType("string")).Return(nil)

	_, err := svc.VerifyAndUpgrade(context.Background(), upgradeRequest("legacy"), "u1")
	assert.ErrorIs(t, err, common.ErrUpgradeFailed)
	payRepo.AssertCalled(t, "MarkFailed", mock.Anything, "ref-1", mock.AnythingOfType("string"))
	payRepo.AssertNotCalled(t, "MarkApplied", mock.Anything, mock.Anything)
}

func TestVerifyAndUpgrade_RetryAfterFailureApplies(t *testing.T) {
	payRepo := new(mockPaymentRepo)
	memRepo := new(mockMemorialRepo)
	verifier := new(mockVerifier)
	svc := newTestPaymentService(payRepo, memRepo, verifier)

	// a failed transaction record exists from the previous attempt
	memRepo.On("FindByID", mock.Anything, "mem-1").Return(&domain.Memorial{ID: "mem-1", OwnerID: "u1"}, nil)
	payRepo.On("FindByReference", mock.Anything, "ref-1").Return(&domain.PaymentTransaction{
		Reference: "ref-1", Status: domain.PaymentStatusFailed,
	}, nil)
	verifier.On("VerifyTransaction", mock.Anything, "ref-1").Return(&gateway.VerifyResult{
		Reference: "ref-1", Status: "success", Amount: 1500000, Currency: "NGN",
	}, nil)
	memRepo.On("UpdatePlan", mock.Anything, "mem-1", domain.PlanLegacy, "2030-06-01").Return(nil)
	payRepo.On("MarkApplied", mock.Anything, "ref-1").Return(nil)

	resp, err := svc.VerifyAndUpgrade(context.Background(), upgradeRequest("legacy"), "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanLegacy, resp.Plan)

	// no duplicate transaction row for the retried reference
	payRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
