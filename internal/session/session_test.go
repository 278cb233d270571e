package session

import (
	"errors"
	"testing"
	"time"

	"outfit-studio-server/internal/domain"
)

func newTestSession() *Session {
	return New("sess-1", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
}

func TestSubmitGuardRejectsOverlap(t *testing.T) {
	sess := newTestSession()

	seq, err := sess.BeginSubmit(Inputs{Scene: "sunset park"})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}

	if _, err := sess.BeginSubmit(Inputs{Scene: "another"}); !errors.Is(err, domain.ErrRequestInFlight) {
		t.Fatalf("second submit err = %v, want ErrRequestInFlight", err)
	}

	// The rejected submit must not disturb the in-flight one.
	if status, _ := sess.Status(); status != domain.StatusSubmitting {
		t.Fatalf("status = %q after rejected overlap", status)
	}
	if ok := sess.Complete(seq, &domain.GenerationResult{Image: domain.EncodedImage{Data: []byte("img")}}); !ok {
		t.Fatalf("original submit could not complete")
	}
	if status, _ := sess.Status(); status != domain.StatusSucceeded {
		t.Fatalf("status = %q, want succeeded", status)
	}
}

func TestSubmitWipesPendingResult(t *testing.T) {
	sess := newTestSession()

	seq, _ := sess.BeginSubmit(Inputs{Scene: "first"})
	sess.Complete(seq, &domain.GenerationResult{Image: domain.EncodedImage{Data: []byte("first")}})
	if _, err := sess.Result(); err != nil {
		t.Fatalf("result after success: %v", err)
	}

	// The slot is cleared at call start. A failed regeneration leaves it
	// empty instead of reverting to the previous artifact.
	seq, _ = sess.BeginSubmit(Inputs{Scene: "second"})
	if _, err := sess.Result(); !errors.Is(err, domain.ErrNoResult) {
		t.Fatalf("result not wiped at submit start: %v", err)
	}
	sess.Fail(seq, domain.ErrGeneration)

	if _, err := sess.Result(); !errors.Is(err, domain.ErrNoResult) {
		t.Fatalf("failed submit restored a result: %v", err)
	}
	status, reason := sess.Status()
	if status != domain.StatusFailed || reason == "" {
		t.Fatalf("status = %q reason = %q", status, reason)
	}
}

func TestResubmitAfterTerminalState(t *testing.T) {
	sess := newTestSession()

	seq, _ := sess.BeginSubmit(Inputs{Prompt: "astronaut on Mars"})
	sess.Fail(seq, domain.ErrTransport)

	if _, err := sess.BeginSubmit(Inputs{Prompt: "try again"}); err != nil {
		t.Fatalf("submit after failure: %v", err)
	}
	if _, reason := sess.Status(); reason != "" {
		t.Fatalf("failure reason survived a new submit: %q", reason)
	}
}

func TestStaleCompletionIgnoredAfterReset(t *testing.T) {
	sess := newTestSession()

	seq, _ := sess.BeginSubmit(Inputs{Scene: "sunset park"})
	sess.Drain()

	if ok := sess.Complete(seq, &domain.GenerationResult{Image: domain.EncodedImage{Data: []byte("late")}}); ok {
		t.Fatalf("completion accepted for a reset session")
	}
	if _, err := sess.Result(); !errors.Is(err, domain.ErrNoResult) {
		t.Fatalf("stale completion installed a result")
	}
	if status, _ := sess.Status(); status != domain.StatusIdle {
		t.Fatalf("status = %q after reset", status)
	}
}

func TestRemoveItem(t *testing.T) {
	sess := newTestSession()
	sess.AppendItems(
		domain.UploadedItem{ID: "a", Filename: "dress.png", PreviewKey: "previews/a.png"},
		domain.UploadedItem{ID: "b", Filename: "shoes.png", PreviewKey: "previews/b.png"},
	)

	removed, ok := sess.RemoveItem("a")
	if !ok || removed.PreviewKey != "previews/a.png" {
		t.Fatalf("remove a: ok=%v item=%+v", ok, removed)
	}
	items := sess.Items()
	if len(items) != 1 || items[0].ID != "b" {
		t.Fatalf("items after remove = %+v", items)
	}

	if _, ok := sess.RemoveItem("missing"); ok {
		t.Fatalf("removing an absent id must be a no-op")
	}
	if len(sess.Items()) != 1 {
		t.Fatalf("no-op remove changed the item list")
	}
}

func TestDrainReturnsOwnedPreviews(t *testing.T) {
	sess := newTestSession()
	sess.AppendItems(domain.UploadedItem{ID: "a", PreviewKey: "previews/a.png"})
	sess.SetReference(&domain.UploadedItem{ID: "ref", PreviewKey: "previews/ref.jpg"})
	seq, _ := sess.BeginSubmit(Inputs{Scene: "x"})
	sess.Complete(seq, &domain.GenerationResult{Image: domain.EncodedImage{Data: []byte("img")}})

	owned := sess.Drain()
	if len(owned) != 2 {
		t.Fatalf("owned = %d, want items + reference", len(owned))
	}
	if len(sess.Items()) != 0 || sess.Reference() != nil {
		t.Fatalf("inputs survived drain")
	}
	if _, err := sess.Result(); !errors.Is(err, domain.ErrNoResult) {
		t.Fatalf("result survived drain")
	}
}

func TestSetModeKeepsInputs(t *testing.T) {
	sess := newTestSession()
	sess.AppendItems(domain.UploadedItem{ID: "a", Filename: "dress.png"})

	if err := sess.SetMode(domain.ModeGenerate); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	if len(sess.Items()) != 1 {
		t.Fatalf("mode switch cleared unrelated inputs")
	}
	if err := sess.SetMode("paint"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if sess.Mode() != domain.ModeGenerate {
		t.Fatalf("invalid mode changed active mode")
	}
}

func TestSnapshotActions(t *testing.T) {
	sess := newTestSession()

	snap := sess.Snapshot()
	if !containsAction(snap.Actions, "submit") || !containsAction(snap.Actions, "reset") {
		t.Fatalf("idle actions = %v", snap.Actions)
	}
	if containsAction(snap.Actions, "download") {
		t.Fatalf("download offered without a result")
	}

	seq, _ := sess.BeginSubmit(Inputs{Scene: "x"})
	if snap = sess.Snapshot(); containsAction(snap.Actions, "submit") {
		t.Fatalf("submit offered while submitting")
	}

	sess.Complete(seq, &domain.GenerationResult{
		Image:    domain.EncodedImage{Data: []byte("img")},
		Analysis: "nice fit",
	})
	snap = sess.Snapshot()
	for _, want := range []string{"submit", "edit", "download", "zoom", "reset"} {
		if !containsAction(snap.Actions, want) {
			t.Fatalf("actions after success = %v, missing %q", snap.Actions, want)
		}
	}
	if !snap.HasResult || snap.Analysis != "nice fit" {
		t.Fatalf("snapshot result view = %+v", snap)
	}
}

func containsAction(actions []string, want string) bool {
	for _, a := range actions {
		if a == want {
			return true
		}
	}
	return false
}
