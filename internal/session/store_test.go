package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"outfit-studio-server/internal/domain"
)

type stubReleaser struct {
	mu      sync.Mutex
	removed []string
}

func (r *stubReleaser) Remove(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, key)
	return nil
}

func (r *stubReleaser) keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.removed))
	copy(out, r.removed)
	return out
}

func TestStoreCreateAndGet(t *testing.T) {
	store := NewStore(time.Minute, &stubReleaser{}, zerolog.Nop())

	sess := store.Create()
	if sess.ID == "" {
		t.Fatalf("session without ID")
	}

	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != sess {
		t.Fatalf("Get returned a different session")
	}
	if store.Count() != 1 {
		t.Fatalf("count = %d, want 1", store.Count())
	}
}

func TestStoreGetUnknown(t *testing.T) {
	store := NewStore(time.Minute, &stubReleaser{}, zerolog.Nop())

	if _, err := store.Get("nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestStoreDeleteReleasesPreviews(t *testing.T) {
	releaser := &stubReleaser{}
	store := NewStore(time.Minute, releaser, zerolog.Nop())

	sess := store.Create()
	sess.AppendItems(domain.UploadedItem{ID: "a", PreviewKey: "previews/a.png"})
	sess.SetReference(&domain.UploadedItem{ID: "ref", PreviewKey: "previews/ref.jpg"})

	store.Delete(sess.ID)

	if _, err := store.Get(sess.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("deleted session still retrievable")
	}
	keys := releaser.keys()
	if len(keys) != 2 {
		t.Fatalf("released keys = %v, want both previews", keys)
	}
}

func TestStoreExpiryReleasesPreviews(t *testing.T) {
	releaser := &stubReleaser{}
	store := NewStore(40*time.Millisecond, releaser, zerolog.Nop())

	sess := store.Create()
	sess.AppendItems(domain.UploadedItem{ID: "a", PreviewKey: "previews/a.png"})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(releaser.keys()) == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expired session never released its previews")
}
