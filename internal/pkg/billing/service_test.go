package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/TobiasFuchs/AdBoard/app/models"
)

type fakeRepository struct {
	mappings  map[string]string
	subs      map[string]*models.BillingSubscription
	companies map[uint]*models.Company
	events    map[string]*models.BillingWebhookEvent
	nextID    uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		mappings:  map[string]string{},
		subs:      map[string]*models.BillingSubscription{},
		companies: map[uint]*models.Company{},
		events:    map[string]*models.BillingWebhookEvent{},
	}
}

func (r *fakeRepository) FindActivePlanMapping(provider, ref, interval string) (*models.BillingPlanMapping, error) {
	plan, ok := r.mappings[provider+"/"+ref+"/"+interval]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.BillingPlanMapping{
		Provider:        provider,
		ProviderPlanRef: ref,
		InternalPlan:    plan,
		BillingInterval: interval,
		IsActive:        true,
	}, nil
}

func (r *fakeRepository) UpsertSubscription(sub *models.BillingSubscription) error {
	key := sub.Provider + "/" + sub.ProviderSubscriptionID
	if existing, ok := r.subs[key]; ok {
		sub.ID = existing.ID
	} else {
		r.nextID++
		sub.ID = r.nextID
	}
	copied := *sub
	r.subs[key] = &copied
	return nil
}

func (r *fakeRepository) ListSubscriptionsByCompany(companyID uint) ([]models.BillingSubscription, error) {
	var out []models.BillingSubscription
	for _, sub := range r.subs {
		if sub.CompanyID == companyID {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (r *fakeRepository) GetCompany(companyID uint) (*models.Company, error) {
	company, ok := r.companies[companyID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return company, nil
}

func (r *fakeRepository) SaveCompany(company *models.Company) error {
	r.companies[company.ID] = company
	return nil
}

func (r *fakeRepository) CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	key := event.Provider + "/" + event.ProviderEventID
	if stored, ok := r.events[key]; ok {
		return false, stored, nil
	}
	r.nextID++
	event.ID = r.nextID
	r.events[key] = event
	return true, event, nil
}

func (r *fakeRepository) MarkWebhookProcessed(id uint, processingError string) error {
	for _, event := range r.events {
		if event.ID == id {
			now := time.Now()
			event.ProcessedAt = &now
			event.ProcessingError = processingError
			return nil
		}
	}
	return errors.New("event not found")
}

func TestSyncSubscriptionUpgradesCompanyPlan(t *testing.T) {
	repo := newFakeRepository()
	repo.mappings["stripe/price_pro_monthly/month"] = "pro"
	repo.companies[7] = &models.Company{ID: 7, Plan: "free"}
	svc := NewService(repo)

	sub, plan, err := svc.SyncSubscription(context.Background(), NormalizedSubscription{
		CompanyID:              7,
		Provider:               "stripe",
		ProviderSubscriptionID: "sub_123",
		ProviderPlanRef:        "price_pro_monthly",
		BillingInterval:        "month",
		Status:                 "active",
	})
	require.NoError(t, err)
	assert.Equal(t, "pro", sub.InternalPlan)
	assert.Equal(t, "pro", plan)
	assert.Equal(t, "pro", repo.companies[7].Plan)
}

func TestSyncSubscriptionCanceledDowngradesToFree(t *testing.T) {
	repo := newFakeRepository()
	repo.mappings["stripe/price_business_yearly/year"] = "business"
	repo.companies[7] = &models.Company{ID: 7, Plan: "business"}
	svc := NewService(repo)

	_, plan, err := svc.SyncSubscription(context.Background(), NormalizedSubscription{
		CompanyID:              7,
		Provider:               "stripe",
		ProviderSubscriptionID: "sub_123",
		ProviderPlanRef:        "price_business_yearly",
		BillingInterval:        "year",
		Status:                 "canceled",
	})
	require.NoError(t, err)
	assert.Equal(t, "free", plan)
	assert.Equal(t, "free", repo.companies[7].Plan)
}

func TestSyncSubscriptionUnmappedPriceFallsBackToFree(t *testing.T) {
	repo := newFakeRepository()
	repo.companies[7] = &models.Company{ID: 7, Plan: "free"}
	svc := NewService(repo)

	sub, plan, err := svc.SyncSubscription(context.Background(), NormalizedSubscription{
		CompanyID:              7,
		Provider:               "stripe",
		ProviderSubscriptionID: "sub_999",
		ProviderPlanRef:        "price_unknown",
		BillingInterval:        "month",
		Status:                 "active",
	})
	require.NoError(t, err)
	assert.Equal(t, "free", sub.InternalPlan)
	assert.Equal(t, "free", plan)
}

func TestReconcilePicksBestEntitlingSubscription(t *testing.T) {
	repo := newFakeRepository()
	repo.companies[7] = &models.Company{ID: 7, Plan: "free"}
	repo.subs["stripe/sub_old"] = &models.BillingSubscription{CompanyID: 7, Provider: "stripe", ProviderSubscriptionID: "sub_old", InternalPlan: "business", Status: "canceled"}
	repo.subs["stripe/sub_new"] = &models.BillingSubscription{CompanyID: 7, Provider: "stripe", ProviderSubscriptionID: "sub_new", InternalPlan: "pro", Status: "active"}
	svc := NewService(repo)

	plan, err := svc.ReconcileCompanyPlan(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "pro", plan)
}

func TestRecordWebhookEventDeduplicates(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	created, first, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		Provider:        "stripe",
		ProviderEventID: "evt_1",
		EventType:       "customer.subscription.updated",
		PayloadJSON:     "{}",
		SignatureValid:  true,
	})
	require.NoError(t, err)
	assert.True(t, created)

	created, second, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		Provider:        "stripe",
		ProviderEventID: "evt_1",
		EventType:       "customer.subscription.updated",
		PayloadJSON:     "{}",
		SignatureValid:  true,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func signStripePayload(t *testing.T, payload []byte, secret string) string {
	t.Helper()
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestHandleStripeWebhookRejectsBadSignature(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")
	repo := newFakeRepository()
	svc := NewService(repo)

	payload := []byte(`{"id":"evt_bad","type":"customer.subscription.updated"}`)
	err := svc.HandleStripeWebhook(context.Background(), payload, "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestHandleStripeWebhookIgnoresUnknownEventType(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")
	repo := newFakeRepository()
	svc := NewService(repo)

	payload := []byte(`{"id":"evt_42","type":"invoice.finalized","data":{"object":{}}}`)
	header := signStripePayload(t, payload, "whsec_test")

	err := svc.HandleStripeWebhook(context.Background(), payload, header)
	require.NoError(t, err)

	event, ok := repo.events["stripe/evt_42"]
	require.True(t, ok)
	assert.True(t, event.SignatureValid)
	assert.NotNil(t, event.ProcessedAt)
}
