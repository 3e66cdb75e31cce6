package main

import (
	"context"
	"fmt"

	"github.com/kikitori/kikitori/internal/api"
	"github.com/kikitori/kikitori/internal/formatter"
	"github.com/kikitori/kikitori/internal/shared"
	"github.com/urfave/cli/v3"
)

// AccountProfile shows the signed-in profile.
func (r *Runner) AccountProfile(ctx context.Context, cmd *cli.Command) error {
	identity, err := r.users.Profile(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(identity, true)
	}

	name := identity.DisplayName
	if name == "" {
		name = "(not set)"
	}

	r.writePlain("Email: %s\n", identity.Email)
	r.writePlain("Name: %s\n", name)
	r.writePlain("Plan: %s\n", formatter.FormatPlanType(identity.Plan.PlanType))
	if identity.IsAdmin {
		r.writePlain("Role: admin\n")
	}
	return nil
}

// AccountUpdate updates the profile display name.
func (r *Runner) AccountUpdate(ctx context.Context, cmd *cli.Command) error {
	displayName := cmd.String("display-name")

	identity, err := r.users.UpdateProfile(ctx, displayName)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return r.writePlain("✓ Display name set to %s\n", identity.DisplayName)
}

// AccountUsage shows plan usage for the current billing cycle.
func (r *Runner) AccountUsage(ctx context.Context, cmd *cli.Command) error {
	plan, err := r.users.Usage(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch usage: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(plan, true)
	}

	r.writePlain("Plan: %s\n", formatter.FormatPlanType(plan.PlanType))
	r.writePlain("Sessions: %s\n", formatter.FormatSessionsUsage(plan.SessionsUsed, plan.SessionsLimit))
	r.writePlain("Hours: %s\n", formatter.FormatHoursUsage(plan.HoursUsed, plan.HoursLimit))
	r.writePlain("Cycle: %s — %s\n",
		plan.BillingCycleStart.Format("2006-01-02"),
		plan.BillingCycleEnd.Format("2006-01-02"))
	if plan.AutoRenew {
		r.writePlain("Auto-renew: on\n")
	} else {
		r.writePlain("Auto-renew: off\n")
	}
	return nil
}

// AccountPlan changes the subscription plan tier.
func (r *Runner) AccountPlan(ctx context.Context, cmd *cli.Command) error {
	tier, err := parseTier(cmd.String("tier"))
	if err != nil {
		return err
	}

	identity, err := r.users.UpdatePlan(ctx, tier, cmd.Bool("auto-renew"))
	if err != nil {
		return fmt.Errorf("failed to change plan: %w", err)
	}

	return r.writePlain("✓ Plan changed to %s\n", formatter.FormatPlanType(identity.Plan.PlanType))
}

func parseTier(tier string) (api.PlanType, error) {
	switch api.PlanType(tier) {
	case api.PlanFree, api.PlanLite, api.PlanStandard, api.PlanUnlimited:
		return api.PlanType(tier), nil
	default:
		return "", fmt.Errorf("%w: unknown plan tier %q", shared.ErrInvalidArgument, tier)
	}
}
