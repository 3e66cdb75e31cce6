package api

import "context"

// UserService exposes the profile and usage endpoints.
type UserService struct {
	client *Client
}

// NewUserService creates a [UserService] over the given transport.
func NewUserService(client *Client) *UserService {
	return &UserService{client: client}
}

// Profile fetches the caller's profile.
func (u *UserService) Profile(ctx context.Context) (*Identity, error) {
	var identity Identity
	if err := u.client.getJSON(ctx, "/users/me", nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

type profileUpdateRequest struct {
	DisplayName string `json:"display_name"`
}

// UpdateProfile replaces the caller's display name and returns the refreshed identity.
func (u *UserService) UpdateProfile(ctx context.Context, displayName string) (*Identity, error) {
	var identity Identity
	if err := u.client.patchJSON(ctx, "/users/me", profileUpdateRequest{DisplayName: displayName}, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// Usage fetches the caller's current entitlement counters. The backend is
// authoritative; the client never adjusts these locally.
func (u *UserService) Usage(ctx context.Context) (*Plan, error) {
	var plan Plan
	if err := u.client.getJSON(ctx, "/users/me/usage", nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

type planUpdateRequest struct {
	PlanType  PlanType `json:"plan_type"`
	AutoRenew bool     `json:"auto_renew"`
}

// UpdatePlan switches the caller's plan and returns the refreshed identity.
func (u *UserService) UpdatePlan(ctx context.Context, planType PlanType, autoRenew bool) (*Identity, error) {
	var identity Identity
	if err := u.client.postJSON(ctx, "/users/me/plan", nil, planUpdateRequest{PlanType: planType, AutoRenew: autoRenew}, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}
