package api

import "context"

// AdminService exposes the read-only aggregate statistics endpoint.
// Access is enforced server-side; the client only uses is_admin to decide
// whether to render the admin page at all.
type AdminService struct {
	client *Client
}

// NewAdminService creates an [AdminService] over the given transport.
func NewAdminService(client *Client) *AdminService {
	return &AdminService{client: client}
}

// PlanStats aggregates users and revenue for one plan tier.
type PlanStats struct {
	PlanType     PlanType `json:"plan_type"`
	UserCount    int      `json:"user_count"`
	TotalRevenue int      `json:"total_revenue"`
}

// MonthlyRevenue is one month of the revenue history.
type MonthlyRevenue struct {
	Month              string  `json:"month"` // YYYY-MM
	TotalRevenue       int     `json:"total_revenue"`
	TotalCost          float64 `json:"total_cost"`
	UserCount          int     `json:"user_count"`
	TranscriptionCount int     `json:"transcription_count"`
}

// Stats is the aggregate metrics payload for the admin view.
type Stats struct {
	TotalUsers          int     `json:"total_users"`
	ActiveUsers         int     `json:"active_users"`
	TotalTranscriptions int     `json:"total_transcriptions"`
	TotalHoursProcessed float64 `json:"total_hours_processed"`

	MonthlyRevenue int     `json:"monthly_revenue"`
	MonthlyCost    float64 `json:"monthly_cost"`
	MonthlyProfit  float64 `json:"monthly_profit"`

	PlanStats []PlanStats `json:"plan_stats"`

	AverageProcessingRatio float64 `json:"average_processing_ratio"`
	TotalGPUHours          float64 `json:"total_gpu_hours"`

	MonthlyHistory []MonthlyRevenue `json:"monthly_history"`
}

// Stats fetches the aggregate metrics.
func (a *AdminService) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := a.client.getJSON(ctx, "/admin/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
