package main

import (
	"context"
	"fmt"

	"github.com/kikitori/kikitori/internal/api"
	"github.com/kikitori/kikitori/internal/shared"
	"github.com/urfave/cli/v3"
)

// planPrices maps plan tiers to their monthly price in yen.
var planPrices = map[api.PlanType]int{
	api.PlanFree:      0,
	api.PlanLite:      680,
	api.PlanStandard:  1200,
	api.PlanUnlimited: 4000,
}

// BillingPlans lists available plans and prices.
func (r *Runner) BillingPlans(ctx context.Context, cmd *cli.Command) error {
	rows := [][]string{
		{"free", "¥0", "Trial quota for new accounts"},
		{"lite", "¥680", "Light monthly usage"},
		{"standard", "¥1,200", "Regular monthly usage"},
		{"unlimited", "¥4,000", "No session or hour caps"},
	}

	return r.writePlain("%s\n", renderTable(
		[]string{"TIER", "PRICE / MONTH", "NOTES"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft},
	))
}

// BillingCheckout starts a subscription checkout and opens the payment page.
func (r *Runner) BillingCheckout(ctx context.Context, cmd *cli.Command) error {
	tier, err := parseTier(cmd.String("tier"))
	if err != nil {
		return err
	}
	if tier == api.PlanFree {
		return fmt.Errorf("%w: the free tier has no checkout", shared.ErrInvalidArgument)
	}

	r.logger.Info("starting checkout", "tier", tier, "price", planPrices[tier])

	checkout, err := r.billing.CreateCheckout(ctx, tier)
	if err != nil {
		return fmt.Errorf("failed to start checkout: %w", err)
	}

	return r.openURL(cmd, "checkout", checkout.URL)
}

// BillingOneshot buys a one-time block of transcription hours.
func (r *Runner) BillingOneshot(ctx context.Context, cmd *cli.Command) error {
	hours := int(cmd.Int("hours"))
	if hours <= 0 {
		return fmt.Errorf("%w: hours must be positive", shared.ErrInvalidArgument)
	}

	checkout, err := r.billing.CreateOneshotPayment(ctx, hours)
	if err != nil {
		return fmt.Errorf("failed to start one-time purchase: %w", err)
	}

	return r.openURL(cmd, "payment", checkout.URL)
}

// BillingPortal opens the billing portal for the signed-in account.
func (r *Runner) BillingPortal(ctx context.Context, cmd *cli.Command) error {
	portal, err := r.billing.CreatePortalSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to open billing portal: %w", err)
	}

	return r.openURL(cmd, "portal", portal.URL)
}

// BillingCancel cancels a subscription.
func (r *Runner) BillingCancel(ctx context.Context, cmd *cli.Command) error {
	subscriptionID := cmd.String("subscription")
	atPeriodEnd := !cmd.Bool("now")

	sub, err := r.billing.CancelSubscription(ctx, subscriptionID, atPeriodEnd)
	if err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}

	if atPeriodEnd {
		return r.writePlain("✓ Subscription %s will end at the close of the current period\n", sub.SubscriptionID)
	}
	return r.writePlain("✓ Subscription %s cancelled\n", sub.SubscriptionID)
}

// BillingConfig shows the payment provider configuration.
func (r *Runner) BillingConfig(ctx context.Context, cmd *cli.Command) error {
	config, err := r.billing.GetConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch billing config: %w", err)
	}

	return r.writeJSON(config, true)
}

// openURL opens a billing URL in the browser, or prints it with --no-browser.
func (r *Runner) openURL(cmd *cli.Command, kind, url string) error {
	if cmd.Bool("no-browser") {
		return r.writePlain("Open this URL to continue:\n%s\n", url)
	}

	r.logger.Info("opening browser", "kind", kind)
	if err := shared.OpenBrowser(url); err != nil {
		r.logger.Warn("failed to open browser", "error", err)
		return r.writePlain("Open this URL to continue:\n%s\n", url)
	}
	return r.writePlain("✓ Opened %s page in browser\n", kind)
}
