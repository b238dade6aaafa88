package domain

// Event type names shared between publisher and subscribers.
const (
	EventSpinCompleted  = "wheel.spin.completed"
	EventCreditsGranted = "wheel.credits.granted"
)

// SpinCompletedPayload is the event payload for wheel.spin.completed events
type SpinCompletedPayload struct {
	SpinID      string `json:"spin_id"`
	UserID      string `json:"user_id"`
	SegmentID   int    `json:"segment_id"`
	Reward      int    `json:"reward"`
	Paid        bool   `json:"paid"`
	Description string `json:"description"`
}

// CreditsGrantedPayload is the event payload for wheel.credits.granted events
type CreditsGrantedPayload struct {
	UserID  string `json:"user_id"`
	Granted int    `json:"granted"`
	Total   int    `json:"total"`
}
