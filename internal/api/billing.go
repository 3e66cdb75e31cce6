package api

import (
	"context"
	"net/url"
	"strconv"
)

// BillingService exposes the payment-provider integration endpoints.
//
// These calls never mutate local entitlement state: the redirect target
// (the external payment provider) is the source of truth, and entitlement
// is refreshed only by re-fetching the identity after the user returns.
type BillingService struct {
	client *Client
}

// NewBillingService creates a [BillingService] over the given transport.
func NewBillingService(client *Client) *BillingService {
	return &BillingService{client: client}
}

// CheckoutSession is a provider-hosted checkout handoff.
type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// PortalSession is a provider-hosted subscription management handoff.
type PortalSession struct {
	URL string `json:"url"`
}

// Subscription describes a provider-side subscription.
type Subscription struct {
	SubscriptionID     string `json:"subscription_id"`
	Status             string `json:"status"`
	PlanType           string `json:"plan_type"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
	CancelAtPeriodEnd  bool   `json:"cancel_at_period_end"`
}

// Config carries the provider's publishable key.
type Config struct {
	PublishableKey string `json:"publishable_key"`
}

type checkoutRequest struct {
	PlanType PlanType `json:"plan_type"`
}

// CreateCheckout creates a checkout session for the given plan.
func (b *BillingService) CreateCheckout(ctx context.Context, planType PlanType) (*CheckoutSession, error) {
	var session CheckoutSession
	if err := b.client.postJSON(ctx, "/billing/checkout", nil, checkoutRequest{PlanType: planType}, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CreatePortalSession creates a customer-portal session for subscription management.
func (b *BillingService) CreatePortalSession(ctx context.Context) (*PortalSession, error) {
	var session PortalSession
	if err := b.client.postJSON(ctx, "/billing/portal", nil, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CreateOneshotPayment creates a one-time purchase of additional hours.
func (b *BillingService) CreateOneshotPayment(ctx context.Context, hours int) (*CheckoutSession, error) {
	query := url.Values{"hours": {strconv.Itoa(hours)}}

	var session CheckoutSession
	if err := b.client.postJSON(ctx, "/billing/oneshot", query, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CancelSubscription cancels the given subscription, at period end by default.
func (b *BillingService) CancelSubscription(ctx context.Context, subscriptionID string, atPeriodEnd bool) (*Subscription, error) {
	query := url.Values{
		"subscription_id": {subscriptionID},
		"at_period_end":   {strconv.FormatBool(atPeriodEnd)},
	}

	var sub Subscription
	if err := b.client.postJSON(ctx, "/billing/cancel-subscription", query, nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetConfig fetches the provider's publishable key.
func (b *BillingService) GetConfig(ctx context.Context) (*Config, error) {
	var config Config
	if err := b.client.getJSON(ctx, "/billing/config", nil, &config); err != nil {
		return nil, err
	}
	return &config, nil
}
