package simulator

import "github.com/danyuchn/GMAT-score-report-analysis-sub002/internal/irt"

// State is a phase of a run.
type State string

const (
	StateReady         State = "ready"
	StateAdministering State = "administering-item"
	StateUpdating      State = "updating-ability"
	StateTerminated    State = "terminated"
)

// Termination records why a run ended.
type Termination string

const (
	// Completed means the (possibly truncated) run length was reached.
	Completed Termination = "completed"
	// StoppedEarly means the selector found no informative item.
	StoppedEarly Termination = "stopped-early"
)

// Step is one administered item and the ability update it caused.
type Step struct {
	QuestionNumber int        `json:"question_number"`
	ItemID         int        `json:"item_id"`
	A              float64    `json:"a"`
	B              float64    `json:"b"`
	C              float64    `json:"c"`
	Correct        bool       `json:"answered_correctly"`
	ThetaBefore    float64    `json:"theta_before"`
	ThetaAfter     float64    `json:"theta_after"`
	Estimate       irt.Status `json:"estimate"`
}
