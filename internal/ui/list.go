package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/kikitori/kikitori/internal/api"
	"github.com/kikitori/kikitori/internal/formatter"
)

var _ list.Item = jobItem{}

// jobItem wraps [api.Transcription] to implement [list.Item].
type jobItem struct {
	job api.Transcription
}

func (i jobItem) FilterValue() string { return i.job.AudioFilename }
func (i jobItem) Title() string       { return i.job.AudioFilename }
func (i jobItem) Description() string {
	desc := formatter.FormatStatus(i.job.Status)
	if i.job.AudioDuration != nil {
		desc = fmt.Sprintf("%s • %s", desc, formatter.FormatAudioDuration(i.job.AudioDuration))
	}
	desc = fmt.Sprintf("%s • %s", desc, i.job.CreatedAt.Format("2006-01-02 15:04"))
	return desc
}
