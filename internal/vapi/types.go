package vapi

import "time"

type Status string

const (
	StatusQueued     Status = "queued"
	StatusRinging    Status = "ringing"
	StatusInProgress Status = "in-progress"
	StatusForwarding Status = "forwarding"
	StatusEnded      Status = "ended"
	StatusFailed     Status = "failed"
	StatusBusy       Status = "busy"
	StatusNoAnswer   Status = "no-answer"
)

// Terminal reports whether no further status change is expected.
func (s Status) Terminal() bool {
	switch s {
	case StatusEnded, StatusFailed, StatusBusy, StatusNoAnswer:
		return true
	}
	return false
}

// CallRecord is a read-only view of a call owned by the calling service.
type CallRecord struct {
	ID              string
	Status          Status
	DurationSeconds int

	EndedReason       *string
	Summary           *string
	Transcript        *string
	SuccessEvaluation *string

	CreatedAt *time.Time
	EndedAt   *time.Time
}

// CreateCallRequest is the body of POST /call.
type CreateCallRequest struct {
	PhoneNumberID      string             `json:"phoneNumberId"`
	AssistantID        string             `json:"assistantId"`
	Customer           Customer           `json:"customer"`
	AssistantOverrides AssistantOverrides `json:"assistantOverrides"`
}

type Customer struct {
	Number string `json:"number"`
}

type AssistantOverrides struct {
	VariableValues map[string]string `json:"variableValues"`
}

// callResponse is the wire shape of a call object.
type callResponse struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	Duration    float64    `json:"duration"`
	EndedReason *string    `json:"endedReason"`
	Summary     *string    `json:"summary"`
	Transcript  *string    `json:"transcript"`
	CreatedAt   *time.Time `json:"createdAt"`
	EndedAt     *time.Time `json:"endedAt"`
	Analysis    *struct {
		Summary           *string `json:"summary"`
		SuccessEvaluation *string `json:"successEvaluation"`
	} `json:"analysis"`
}

func (r callResponse) record() CallRecord {
	rec := CallRecord{
		ID:              r.ID,
		Status:          Status(r.Status),
		DurationSeconds: int(r.Duration + 0.5),
		EndedReason:     nonEmpty(r.EndedReason),
		Summary:         nonEmpty(r.Summary),
		Transcript:      nonEmpty(r.Transcript),
		CreatedAt:       r.CreatedAt,
		EndedAt:         r.EndedAt,
	}
	if r.Analysis != nil {
		if rec.Summary == nil {
			rec.Summary = nonEmpty(r.Analysis.Summary)
		}
		rec.SuccessEvaluation = nonEmpty(r.Analysis.SuccessEvaluation)
	}
	return rec
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
