package views

import "sentinel/internal/domain"

// CollisionsLoadedMsg carries a fresh detection run
type CollisionsLoadedMsg struct {
	Collisions []domain.ScoredCollision
	Err        error
}

// AckRequestMsg asks the app to confirm acknowledging Label
type AckRequestMsg struct {
	Label string
	Path  string
}

// AckConfirmedMsg is sent when the user confirms an acknowledgment
type AckConfirmedMsg struct {
	Label string
	Path  string
}

// AckDoneMsg reports the outcome of an acknowledgment
type AckDoneMsg struct {
	Message string
	Err     error
}

// SwitchToReviewMsg returns to the collision list
type SwitchToReviewMsg struct{}

// SwitchToHelpMsg opens the help view
type SwitchToHelpMsg struct{}
