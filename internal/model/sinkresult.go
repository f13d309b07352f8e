package model

// SinkName identifies one fan-out delivery channel.
type SinkName string

const (
	SinkEmail SinkName = "email"
	SinkSheet SinkName = "sheet"
	SinkCRM   SinkName = "crm"
)

// SinkResult is the per-channel outcome of a fan-out dispatch. It exists
// for logging only and is never surfaced to the end user.
type SinkResult struct {
	Sink  SinkName `json:"sink"`
	OK    bool     `json:"ok"`
	Error string   `json:"error,omitempty"`
}
