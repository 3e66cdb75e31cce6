package api

import "time"

// PlanType enumerates the subscription tiers.
type PlanType string

const (
	PlanFree      PlanType = "free"
	PlanLite      PlanType = "lite"
	PlanStandard  PlanType = "standard"
	PlanUnlimited PlanType = "unlimited"
)

// NoLimit is the wire sentinel for "unbounded" on sessions_limit and
// hours_limit. It is never compared numerically against usage.
const NoLimit = -1

// Plan is the entitlement snapshot attached to an identity. It is read-only
// from the client's perspective; the backend recomputes it after every
// transcription or billing event and the client simply re-fetches.
type Plan struct {
	PlanType          PlanType  `json:"plan_type"`
	SessionsLimit     int       `json:"sessions_limit"`
	HoursLimit        float64   `json:"hours_limit"`
	SessionsUsed      int       `json:"sessions_used"`
	HoursUsed         float64   `json:"hours_used"`
	BillingCycleStart time.Time `json:"billing_cycle_start"`
	BillingCycleEnd   time.Time `json:"billing_cycle_end"`
	AutoRenew         bool      `json:"auto_renew"`
}

// Unmetered reports whether the plan has no session or hour caps.
func (p Plan) Unmetered() bool {
	return p.SessionsLimit == NoLimit && p.HoursLimit == NoLimit
}

// Identity is the authenticated user's profile and entitlement snapshot.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Plan        Plan   `json:"plan"`
	IsAdmin     bool   `json:"is_admin"`
}

// Credentials is the payload returned by login and signup.
type Credentials struct {
	AccessToken string   `json:"access_token"`
	User        Identity `json:"user"`
}

// Status enumerates transcription job states. Transitions are monotonic and
// owned entirely by the backend; the client only observes them.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether the job will never change state again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Downloadable reports whether artifacts exist for this job. Only completed
// jobs expose download controls.
func (s Status) Downloadable() bool {
	return s == StatusCompleted
}

// Segment is a single timestamped span of transcript text, immutable once
// delivered.
type Segment struct {
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Transcription is a server-owned transcription job observed by the client.
type Transcription struct {
	ID             string     `json:"id"`
	Status         Status     `json:"status"`
	AudioFilename  string     `json:"audio_filename"`
	AudioDuration  *float64   `json:"audio_duration,omitempty"`
	AudioSize      int64      `json:"audio_size"`
	FullText       string     `json:"full_text,omitempty"`
	Segments       []Segment  `json:"segments"`
	SessionLog     string     `json:"session_log,omitempty"`
	MixedOutput    string     `json:"mixed_output,omitempty"`
	ProcessingTime *float64   `json:"processing_time,omitempty"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`

	// ExpiresAt is the advisory deletion deadline set by server-side
	// retention. The server remains authoritative; this field only feeds
	// the countdown banner.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// TranscriptionList is a 1-indexed page of jobs.
type TranscriptionList struct {
	Transcriptions []Transcription `json:"transcriptions"`
	Total          int             `json:"total"`
	Page           int             `json:"page"`
	PageSize       int             `json:"page_size"`
}

// DownloadFormat enumerates artifact formats served by the backend.
type DownloadFormat string

const (
	FormatTxt  DownloadFormat = "txt"
	FormatJSON DownloadFormat = "json"
	FormatHTML DownloadFormat = "html"
)

// Valid reports whether f is a format the backend serves.
func (f DownloadFormat) Valid() bool {
	switch f {
	case FormatTxt, FormatJSON, FormatHTML:
		return true
	}
	return false
}
