package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/TobiasFuchs/AdBoard/app/models"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/entitlements"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/env"
)

// ErrInvalidSignature is returned when the Stripe-Signature header does not
// match the payload.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// InitStripe configures the Stripe client from the environment. Call once at
// startup before any checkout or webhook handling.
func InitStripe() {
	stripe.Key = env.GetEnv("STRIPE_SECRET_KEY", "")
	if stripe.Key == "" {
		log.Print("STRIPE_SECRET_KEY not set, billing is disabled")
	}
}

// StripePriceID returns the configured Stripe price for an internal plan.
func StripePriceID(plan string) (string, error) {
	switch normalizePlan(plan) {
	case string(entitlements.PlanPro):
		if id := env.GetEnv("STRIPE_PRICE_PRO", ""); id != "" {
			return id, nil
		}
	case string(entitlements.PlanBusiness):
		if id := env.GetEnv("STRIPE_PRICE_BUSINESS", ""); id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("no stripe price configured for plan %q", plan)
}

// CreateCheckoutSession starts a Stripe subscription checkout for a company
// and returns the hosted payment page URL.
func (s *Service) CreateCheckoutSession(ctx context.Context, companyID uint, plan, successURL, cancelURL string) (string, error) {
	_ = ctx
	if companyID == 0 {
		return "", errors.New("company_id is required")
	}
	priceID, err := StripePriceID(plan)
	if err != nil {
		return "", err
	}

	companyRef := strconv.FormatUint(uint64(companyID), 10)
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		ClientReferenceID: stripe.String(companyRef),
		SuccessURL:        stripe.String(successURL),
		CancelURL:         stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{"company_id": companyRef},
		},
	}
	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

// HandleStripeWebhook verifies, records and processes one webhook delivery.
// Events are persisted before processing so redeliveries are no-ops.
func (s *Service) HandleStripeWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	secret := env.GetEnv("STRIPE_WEBHOOK_SECRET", "")
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		// Record the rejected delivery for forensics, then refuse it.
		_, _, recErr := s.RecordWebhookEvent(ctx, WebhookEventInput{
			Provider:       models.BillingProviderStripe,
			EventType:      "signature_invalid",
			PayloadJSON:    string(payload),
			SignatureValid: false,
		})
		if recErr != nil {
			log.Printf("failed to record rejected webhook: %v", recErr)
		}
		return ErrInvalidSignature
	}

	created, stored, err := s.RecordWebhookEvent(ctx, WebhookEventInput{
		Provider:        models.BillingProviderStripe,
		ProviderEventID: event.ID,
		EventType:       string(event.Type),
		PayloadJSON:     string(payload),
		SignatureValid:  true,
	})
	if err != nil {
		return err
	}
	if !created && stored.ProcessedAt != nil {
		return nil
	}

	procErr := s.processStripeEvent(ctx, event)
	if err := s.MarkWebhookProcessed(ctx, stored.ID, procErr); err != nil {
		log.Printf("failed to mark webhook %d processed: %v", stored.ID, err)
	}
	return procErr
}

func (s *Service) processStripeEvent(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case "customer.subscription.created",
		"customer.subscription.updated",
		"customer.subscription.deleted":
		return s.syncStripeSubscription(ctx, event)
	case "checkout.session.completed":
		// The subscription events carry the authoritative state; the
		// checkout completion is informational only.
		log.Printf("stripe checkout completed (event %s)", event.ID)
		return nil
	default:
		log.Printf("ignoring stripe event type %s", event.Type)
		return nil
	}
}

func (s *Service) syncStripeSubscription(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("parse subscription payload: %w", err)
	}

	companyID, err := companyIDFromMetadata(sub.Metadata)
	if err != nil {
		return fmt.Errorf("event %s: %w", event.ID, err)
	}

	priceRef := ""
	interval := ""
	var periodStart, periodEnd *time.Time
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		if item.Price != nil {
			priceRef = item.Price.ID
			if item.Price.Recurring != nil {
				interval = string(item.Price.Recurring.Interval)
			}
		}
		if item.CurrentPeriodStart > 0 {
			t := time.Unix(item.CurrentPeriodStart, 0)
			periodStart = &t
		}
		if item.CurrentPeriodEnd > 0 {
			t := time.Unix(item.CurrentPeriodEnd, 0)
			periodEnd = &t
		}
	}

	status := string(sub.Status)
	if event.Type == "customer.subscription.deleted" {
		status = models.BillingStatusCanceled
	}

	_, _, err = s.SyncSubscription(ctx, NormalizedSubscription{
		CompanyID:              companyID,
		Provider:               models.BillingProviderStripe,
		ProviderSubscriptionID: sub.ID,
		ProviderPlanRef:        priceRef,
		BillingInterval:        interval,
		Status:                 status,
		CurrentPeriodStart:     periodStart,
		CurrentPeriodEnd:       periodEnd,
		CancelAtPeriodEnd:      sub.CancelAtPeriodEnd,
		RawPayloadJSON:         string(event.Data.Raw),
	})
	return err
}

func companyIDFromMetadata(metadata map[string]string) (uint, error) {
	raw, ok := metadata["company_id"]
	if !ok || raw == "" {
		return 0, errors.New("missing company_id metadata")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid company_id metadata %q", raw)
	}
	return uint(id), nil
}
