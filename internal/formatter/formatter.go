// package formatter renders plan, usage, and job fields for terminal display
package formatter

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kikitori/kikitori/internal/api"
)

// FormatSessionsLimit renders a sessions cap, mapping the unbounded sentinel
// to "unlimited" so a negative number never reaches any usage display.
func FormatSessionsLimit(limit int) string {
	if limit < 0 {
		return "unlimited"
	}
	return strconv.Itoa(limit)
}

// FormatHoursLimit renders an hours cap, mapping the unbounded sentinel to "unlimited".
func FormatHoursLimit(limit float64) string {
	if limit < 0 {
		return "unlimited"
	}
	return strconv.FormatFloat(limit, 'f', -1, 64)
}

// FormatSessionsUsage renders "used / limit" for session counters.
func FormatSessionsUsage(used, limit int) string {
	return fmt.Sprintf("%d / %s", used, FormatSessionsLimit(limit))
}

// FormatHoursUsage renders "used / limit" for hour counters.
func FormatHoursUsage(used, limit float64) string {
	return fmt.Sprintf("%.1f / %s", used, FormatHoursLimit(limit))
}

// FormatBytes renders a byte count using binary units.
func FormatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}

// FormatClock renders a position in seconds as mm:ss or h:mm:ss,
// used for segment timestamps.
func FormatClock(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// FormatAudioDuration renders an optional audio length.
func FormatAudioDuration(seconds *float64) string {
	if seconds == nil {
		return "—"
	}
	return FormatClock(*seconds)
}

// FormatStatus renders a job status as a display label.
func FormatStatus(status api.Status) string {
	switch status {
	case api.StatusPending:
		return "Pending"
	case api.StatusProcessing:
		return "Processing"
	case api.StatusCompleted:
		return "Completed"
	case api.StatusFailed:
		return "Failed"
	case api.StatusCancelled:
		return "Cancelled"
	default:
		return string(status)
	}
}

// FormatExpiry renders the advisory deletion countdown for a job, or an
// empty string when no deadline is set or it already passed.
func FormatExpiry(expiresAt *time.Time, now time.Time) string {
	if expiresAt == nil {
		return ""
	}
	remaining := expiresAt.Sub(now)
	if remaining <= 0 {
		return "scheduled for deletion"
	}

	switch {
	case remaining >= 48*time.Hour:
		return fmt.Sprintf("deleted in %d days", int(remaining.Hours()/24))
	case remaining >= time.Hour:
		return fmt.Sprintf("deleted in %dh", int(remaining.Hours()))
	default:
		minutes := int(remaining.Minutes())
		if minutes < 1 {
			minutes = 1
		}
		return fmt.Sprintf("deleted in %dm", minutes)
	}
}

// FormatPlanType renders a plan tier as a display label.
func FormatPlanType(planType api.PlanType) string {
	switch planType {
	case api.PlanFree:
		return "Free"
	case api.PlanLite:
		return "Lite"
	case api.PlanStandard:
		return "Standard"
	case api.PlanUnlimited:
		return "Unlimited"
	default:
		return string(planType)
	}
}
