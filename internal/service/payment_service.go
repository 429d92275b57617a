package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lumora/memoria-backend/internal/common"
	"github.com/lumora/memoria-backend/internal/config"
	"github.com/lumora/memoria-backend/internal/domain"
	"github.com/lumora/memoria-backend/internal/gateway"
	"github.com/lumora/memoria-backend/internal/repository"
	pkgcache "github.com/lumora/memoria-backend/pkg/cache"
	pkglogger "github.com/lumora/memoria-backend/pkg/logger"
)

// PaymentService verifies gateway transactions and applies plan upgrades
type PaymentService interface {
	VerifyAndUpgrade(ctx context.Context, req *domain.VerifyPaymentRequest, userID string) (*domain.UpgradeResponse, error)
	ListTransactions(ctx context.Context, memorialID, userID string) ([]*domain.PaymentTransaction, error)
}

type paymentService struct {
	payRepo  repository.PaymentRepository
	memRepo  repository.MemorialRepository
	verifier gateway.Verifier
	cfg      *config.Config
	cache    pkgcache.Service
	now      func() time.Time
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(payRepo repository.PaymentRepository, memRepo repository.MemorialRepository, verifier gateway.Verifier, cfg *config.Config, cache pkgcache.Service) PaymentService {
	return &paymentService{
		payRepo:  payRepo,
		memRepo:  memRepo,
		verifier: verifier,
		cfg:      cfg,
		cache:    cache,
		now:      time.Now,
	}
}

// VerifyAndUpgrade confirms a transaction reference with the gateway and,
// exactly once per reference, upgrades the memorial's plan. Verification and
// plan application are one logical step: if the write fails after the
// gateway confirmed payment, the failure is surfaced and logged at error
// severity for manual reconciliation.
func (s *paymentService) VerifyAndUpgrade(ctx context.Context, req *domain.VerifyPaymentRequest, userID string) (*domain.UpgradeResponse, error) {
	plan := domain.ParsePlan(req.Plan)
	if !plan.IsPaid() {
		return nil, common.ErrInvalidPlan
	}
	policy, ok := s.cfg.PlanPolicyFor(plan)
	if !ok {
		return nil, common.ErrInvalidPlan
	}

	m, err := s.memRepo.FindByID(ctx, req.MemorialID)
	if err != nil {
		return nil, err
	}
	if m.OwnerID != userID {
		return nil, common.ErrForbidden
	}

	// Idempotency guard: a reference that already upgraded a plan is never
	// applied again, webhook retries included.
	existing, err := s.payRepo.FindByReference(ctx, req.Reference)
	if err != nil {
		return nil, fmt.Errorf("lookup payment reference: %w", err)
	}
	if existing != nil && existing.Status == domain.PaymentStatusApplied {
		return nil, common.ErrPaymentAlreadyApplied
	}

	result, err := s.verifier.VerifyTransaction(ctx, req.Reference)
	if err != nil {
		return nil, fmt.Errorf("gateway verification: %w", err)
	}
	if !result.Success() {
		return nil, common.ErrPaymentNotVerified
	}
	if result.Amount != policy.PriceMinor || !strings.EqualFold(result.Currency, policy.Currency) {
		pkglogger.GetLogger().Warn().
			Str("reference", req.Reference).
			Int64("amount", result.Amount).
			Str("currency", result.Currency).
			Str("plan", string(plan)).
			Msg("payment amount mismatch")
		return nil, common.ErrAmountMismatch
	}

	if existing == nil {
		tx := &domain.PaymentTransaction{
			Reference:  req.Reference,
			MemorialID: req.MemorialID,
			UserID:     userID,
			Plan:       plan,
			Amount:     result.Amount,
			Currency:   result.Currency,
			Status:     domain.PaymentStatusPending,
		}
		if err := s.payRepo.Create(ctx, tx); err != nil {
			// unique index collision means a concurrent call won the race
			return nil, fmt.Errorf("record payment: %w", err)
		}
	}

	expiry := s.expiryFor(policy)
	if err := s.memRepo.UpdatePlan(ctx, req.MemorialID, plan, expiry); err != nil {
		// money already moved; this must not disappear silently
		pkglogger.GetLogger().Error().
			Str("reference", req.Reference).
			Str("memorial_id", req.MemorialID).
			Str("plan", string(plan)).
			Err(err).
			Msg("verified payment could not be applied, needs manual reconciliation")
		if markErr := s.payRepo.MarkFailed(ctx, req.Reference, err.Error()); markErr != nil {
			pkglogger.GetLogger().Error().Str("reference", req.Reference).Err(markErr).Msg("mark failed also failed")
		}
		return nil, fmt.Errorf("%w: %s", common.ErrUpgradeFailed, req.Reference)
	}

	if err := s.payRepo.MarkApplied(ctx, req.Reference); err != nil {
		pkglogger.GetLogger().Error().Str("reference", req.Reference).Err(err).Msg("mark applied failed")
	}

	if s.cache != nil {
		_ = s.cache.InvalidateMemorial(ctx, req.MemorialID)
	}

	pkglogger.GetLogger().Info().
		Str("reference", req.Reference).
		Str("memorial_id", req.MemorialID).
		Str("plan", string(plan)).
		Str("plan_expiry", expiry).
		Msg("plan upgrade applied")

	return &domain.UpgradeResponse{
		MemorialID: req.MemorialID,
		Plan:       plan,
		PlanExpiry: expiry,
		Reference:  req.Reference,
	}, nil
}

// expiryFor computes the plan expiry date from the configured duration.
// A zero duration means the plan never expires.
func (s *paymentService) expiryFor(policy config.PlanPolicy) string {
	if policy.DurationYears == 0 {
		return domain.ExpiryNever
	}
	return s.now().AddDate(policy.DurationYears, 0, 0).Format("2006-01-02")
}

// ListTransactions returns the payment history for a memorial, owner only
func (s *paymentService) ListTransactions(ctx context.Context, memorialID, userID string) ([]*domain.PaymentTransaction, error) {
	m, err := s.memRepo.FindByID(ctx, memorialID)
	if err != nil {
		return nil, err
	}
	if m.OwnerID != userID {
		return nil, common.ErrForbidden
	}
	return s.payRepo.ListByMemorial(ctx, memorialID)
}
