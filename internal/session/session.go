// Package session holds the per-session view state: the active mode, the
// uploaded inputs, the single current result slot, and the request status
// machine that guards submissions.
package session

import (
	"fmt"
	"sync"
	"time"

	"outfit-studio-server/internal/domain"
)

// Inputs are the text inputs recorded at submit time. Which fields are read
// depends on the active mode.
type Inputs struct {
	Scene        string             `json:"scene,omitempty"`
	Prompt       string             `json:"prompt,omitempty"`
	Instruction  string             `json:"instruction,omitempty"`
	AspectRatio  domain.AspectRatio `json:"aspect_ratio"`
	WantAnalysis bool               `json:"want_analysis,omitempty"`
}

// Session is the mutable state behind one browser session. All access goes
// through its methods; the mutex makes each transition atomic, so a reader
// never observes a half-applied submit or reset.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	mode      domain.Mode
	status    domain.RequestStatus
	failure   string
	submitSeq uint64

	items     []domain.UploadedItem
	reference *domain.UploadedItem
	inputs    Inputs

	result *domain.GenerationResult
}

// New constructs an idle session in try-on mode.
func New(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		CreatedAt: now,
		mode:      domain.ModeTryOn,
		status:    domain.StatusIdle,
		inputs:    Inputs{AspectRatio: domain.AspectSquare},
	}
}

// SetMode switches the active workflow. Inputs belonging to other modes are
// kept; the mode only gates which actions are available.
func (s *Session) SetMode(mode domain.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", domain.ErrValidation, mode)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	return nil
}

// Mode returns the active workflow.
func (s *Session) Mode() domain.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// AppendItems adds accepted uploads to the item list, preserving order.
func (s *Session) AppendItems(items ...domain.UploadedItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, items...)
}

// Items returns a copy of the current item list.
func (s *Session) Items() []domain.UploadedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.UploadedItem, len(s.items))
	copy(out, s.items)
	return out
}

// RemoveItem removes the item with the matching ID and returns it so the
// caller can release its preview. An absent ID returns false and changes
// nothing.
func (s *Session) RemoveItem(id string) (domain.UploadedItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return item, true
		}
	}
	return domain.UploadedItem{}, false
}

// Reference returns the current single reference image, if any.
func (s *Session) Reference() *domain.UploadedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reference
}

// SetReference installs the new reference image.
func (s *Session) SetReference(item *domain.UploadedItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reference = item
}

// BeginSubmit moves the session into Submitting and wipes the pending result
// slot. The wipe happens at call start, not at success: a failed regeneration
// leaves the slot empty rather than reverting to the previous artifact.
// While a submit is in flight, further submits fail with ErrRequestInFlight.
// The returned sequence number ties the eventual Complete or Fail back to
// this submit; a stale sequence (after a reset) is ignored.
func (s *Session) BeginSubmit(in Inputs) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == domain.StatusSubmitting {
		return 0, domain.ErrRequestInFlight
	}
	s.submitSeq++
	s.status = domain.StatusSubmitting
	s.failure = ""
	s.result = nil
	s.inputs = in
	return s.submitSeq, nil
}

// Complete records a successful generation for the submit identified by seq.
// It reports false when the submit was superseded by a reset in the meantime.
func (s *Session) Complete(seq uint64, result *domain.GenerationResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.submitSeq || s.status != domain.StatusSubmitting {
		return false
	}
	s.status = domain.StatusSucceeded
	s.result = result
	return true
}

// Fail records a failed generation for the submit identified by seq.
func (s *Session) Fail(seq uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.submitSeq || s.status != domain.StatusSubmitting {
		return false
	}
	s.status = domain.StatusFailed
	s.failure = err.Error()
	return true
}

// Status returns the request status and, when failed, the failure reason.
func (s *Session) Status() (domain.RequestStatus, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.failure
}

// Result returns the current artifact, or ErrNoResult when the slot is empty.
func (s *Session) Result() (*domain.GenerationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil, domain.ErrNoResult
	}
	return s.result, nil
}

// Drain clears all inputs and the result slot, returns the session to Idle,
// and hands back every item that still owns a preview so the caller can
// release the handles. Available from any state; an in-flight submit is
// orphaned and its eventual outcome discarded.
func (s *Session) Drain() []domain.UploadedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	owned := make([]domain.UploadedItem, 0, len(s.items)+1)
	owned = append(owned, s.items...)
	if s.reference != nil {
		owned = append(owned, *s.reference)
	}
	s.items = nil
	s.reference = nil
	s.result = nil
	s.inputs = Inputs{AspectRatio: domain.AspectSquare}
	s.failure = ""
	s.status = domain.StatusIdle
	s.submitSeq++
	return owned
}

// ItemView is the per-item slice of a snapshot exposed to the client.
type ItemView struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	PreviewKey string `json:"preview_key"`
}

// Snapshot is a consistent read of everything the presentation layer renders.
type Snapshot struct {
	ID            string               `json:"id"`
	Mode          domain.Mode          `json:"mode"`
	Status        domain.RequestStatus `json:"status"`
	FailureReason string               `json:"failure_reason,omitempty"`
	Items         []ItemView           `json:"items"`
	Reference     *ItemView            `json:"reference,omitempty"`
	Inputs        Inputs               `json:"inputs"`
	HasResult     bool                 `json:"has_result"`
	Analysis      string               `json:"analysis,omitempty"`
	Actions       []string             `json:"actions"`
	CreatedAt     time.Time            `json:"created_at"`
}

// Snapshot captures the current state in one atomic read.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:        s.ID,
		Mode:      s.mode,
		Status:    s.status,
		Inputs:    s.inputs,
		CreatedAt: s.CreatedAt,
	}
	if s.status == domain.StatusFailed {
		snap.FailureReason = s.failure
	}
	snap.Items = make([]ItemView, 0, len(s.items))
	for _, item := range s.items {
		snap.Items = append(snap.Items, ItemView{ID: item.ID, Filename: item.Filename, PreviewKey: item.PreviewKey})
	}
	if s.reference != nil {
		snap.Reference = &ItemView{ID: s.reference.ID, Filename: s.reference.Filename, PreviewKey: s.reference.PreviewKey}
	}
	if s.result != nil {
		snap.HasResult = true
		snap.Analysis = s.result.Analysis
	}
	snap.Actions = availableActions(s.status, s.result != nil)
	return snap
}

// availableActions lists which follow-up intents are currently valid.
func availableActions(status domain.RequestStatus, hasResult bool) []string {
	actions := []string{"reset"}
	if status != domain.StatusSubmitting {
		actions = append(actions, "submit")
	}
	if hasResult {
		actions = append(actions, "edit", "download", "zoom")
	}
	return actions
}
