package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/TobiasFuchs/AdBoard/app/models"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/entitlements"
)

// Service provides provider-neutral billing synchronization and reconciliation.
type Service struct {
	repo Repository
}

// NewService creates a billing service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// ResolveMappedPlan resolves provider plan references to an internal plan.
func (s *Service) ResolveMappedPlan(ctx context.Context, provider, providerPlanRef, interval string) (string, error) {
	_ = ctx
	p := strings.ToLower(strings.TrimSpace(provider))
	ref := strings.TrimSpace(providerPlanRef)
	i := normalizeInterval(interval)
	if p == "" || ref == "" {
		return string(entitlements.PlanFree), errors.New("provider and provider plan ref are required")
	}

	// Prefer exact interval match.
	m, err := s.repo.FindActivePlanMapping(p, ref, i)
	if err == nil {
		return normalizePlan(m.InternalPlan), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	// Fallback for mappings that intentionally use "unknown".
	m, err = s.repo.FindActivePlanMapping(p, ref, "unknown")
	if err == nil {
		return normalizePlan(m.InternalPlan), nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return string(entitlements.PlanFree), gorm.ErrRecordNotFound
	}
	return "", err
}

// SyncSubscription upserts provider subscription data and reconciles the
// company plan.
func (s *Service) SyncSubscription(ctx context.Context, in NormalizedSubscription) (*models.BillingSubscription, string, error) {
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if in.CompanyID == 0 || provider == "" || strings.TrimSpace(in.ProviderSubscriptionID) == "" {
		return nil, "", errors.New("company_id, provider and provider_subscription_id are required")
	}

	interval := normalizeInterval(in.BillingInterval)
	status := strings.ToLower(strings.TrimSpace(in.Status))
	if status == "" {
		status = models.BillingStatusActive
	}

	internalPlan, err := s.ResolveMappedPlan(ctx, provider, in.ProviderPlanRef, interval)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}
	if internalPlan == "" {
		internalPlan = string(entitlements.PlanFree)
	}

	sub := &models.BillingSubscription{
		CompanyID:              in.CompanyID,
		Provider:               provider,
		ProviderSubscriptionID: strings.TrimSpace(in.ProviderSubscriptionID),
		ProviderPlanRef:        strings.TrimSpace(in.ProviderPlanRef),
		InternalPlan:           internalPlan,
		BillingInterval:        interval,
		Status:                 status,
		CurrentPeriodStart:     in.CurrentPeriodStart,
		CurrentPeriodEnd:       in.CurrentPeriodEnd,
		CancelAtPeriodEnd:      in.CancelAtPeriodEnd,
		RawPayloadJSON:         in.RawPayloadJSON,
	}
	if err := s.repo.UpsertSubscription(sub); err != nil {
		return nil, "", err
	}

	effectivePlan, err := s.ReconcileCompanyPlan(ctx, in.CompanyID)
	if err != nil {
		return sub, "", err
	}
	return sub, effectivePlan, nil
}

// ReconcileCompanyPlan computes and writes the best effective plan for a
// company based on its entitling subscriptions.
func (s *Service) ReconcileCompanyPlan(ctx context.Context, companyID uint) (string, error) {
	_ = ctx
	if companyID == 0 {
		return "", errors.New("company_id is required")
	}

	subs, err := s.repo.ListSubscriptionsByCompany(companyID)
	if err != nil {
		return "", err
	}

	best := string(entitlements.PlanFree)
	for _, sub := range subs {
		if !isEntitlingStatus(sub.Status) {
			continue
		}
		candidate := normalizePlan(sub.InternalPlan)
		if planRank(candidate) > planRank(best) {
			best = candidate
		}
	}

	company, err := s.repo.GetCompany(companyID)
	if err != nil {
		return "", err
	}
	if normalizePlan(company.Plan) == best {
		return best, nil
	}
	company.Plan = best
	if err := s.repo.SaveCompany(company); err != nil {
		return "", err
	}
	return best, nil
}

// RecordWebhookEvent persists webhook payloads idempotently.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.BillingWebhookEvent, error) {
	_ = ctx
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return false, nil, errors.New("provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.BillingWebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		SignatureValid:  in.SignatureValid,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	_ = ctx
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(webhookEventID, errMsg)
}
