package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
	"viewer/internal/config"
	"viewer/internal/domain"
	"viewer/internal/session"

	"github.com/rs/zerolog"
)

type fakeProfileFetcher struct {
	mu        sync.Mutex
	calls     int
	overrides []string
	err       error
	block     chan struct{}
	started   chan struct{}
}

func (f *fakeProfileFetcher) GetProfile(ctx context.Context, nameOverride string) (domain.UserRecord, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.overrides = append(f.overrides, nameOverride)
	err := f.err
	f.mu.Unlock()

	if f.block != nil {
		f.started <- struct{}{}
		<-f.block
	}
	if err != nil {
		return domain.UserRecord{}, err
	}

	rec := domain.UserRecord{FirstName: fmt.Sprintf("User%d", n), LastName: "Random", Email: fmt.Sprintf("user%d@example.com", n)}
	if nameOverride != "" {
		var first, last string
		fmt.Sscan(nameOverride, &first, &last)
		rec = rec.WithName(first, last)
	}
	return rec, nil
}

func (f *fakeProfileFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newStore() *session.Store {
	return session.NewStore(&config.Config{MaxSessions: 16, SessionTTL: time.Minute}, zerolog.Nop())
}

func TestProfileService_StartFetchesOnce(t *testing.T) {
	fetcher := &fakeProfileFetcher{}
	store := newStore()
	svc := NewProfileService(fetcher, store, zerolog.Nop())
	sess := store.Create()

	view, err := svc.Start(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Profile == nil || view.Profile.FirstName != "User1" {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.Cursor != 0 || view.Length != 1 {
		t.Errorf("expected cursor 0 len 1, got %d/%d", view.Cursor, view.Length)
	}

	view, err = svc.Start(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.Calls() != 1 {
		t.Errorf("start on a populated session must not fetch, calls = %d", fetcher.Calls())
	}
	if view.Profile.FirstName != "User1" {
		t.Errorf("expected current profile, got %+v", view.Profile)
	}
}

func TestProfileService_NextAndPrevious(t *testing.T) {
	fetcher := &fakeProfileFetcher{}
	store := newStore()
	svc := NewProfileService(fetcher, store, zerolog.Nop())
	sess := store.Create()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Next(ctx, sess.ID, ""); err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
	}

	view, err := svc.Previous(sess.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !view.Moved || view.Cursor != 1 || view.Profile.FirstName != "User2" {
		t.Errorf("unexpected view %+v", view)
	}

	svc.Previous(sess.ID)
	view, _ = svc.Previous(sess.ID)
	if view.Moved {
		t.Error("previous at cursor 0 must be a no-op")
	}
	if view.Cursor != 0 || view.Length != 3 || view.Profile.FirstName != "User1" {
		t.Errorf("history changed at cursor 0: %+v", view)
	}
	if fetcher.Calls() != 3 {
		t.Errorf("previous must not fetch, calls = %d", fetcher.Calls())
	}

	view, _ = svc.Next(ctx, sess.ID, "")
	if view.Cursor != 3 || view.Length != 4 {
		t.Errorf("next after back appends at the end, got cursor %d len %d", view.Cursor, view.Length)
	}
}

func TestProfileService_PreviousOnEmptySession(t *testing.T) {
	store := newStore()
	svc := NewProfileService(&fakeProfileFetcher{}, store, zerolog.Nop())
	sess := store.Create()

	view, err := svc.Previous(sess.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Moved || view.Profile != nil || view.Cursor != -1 {
		t.Errorf("unexpected view %+v", view)
	}
}

func TestProfileService_NextFailureLeavesHistory(t *testing.T) {
	fetcher := &fakeProfileFetcher{}
	store := newStore()
	svc := NewProfileService(fetcher, store, zerolog.Nop())
	sess := store.Create()
	ctx := context.Background()

	if _, err := svc.Next(ctx, sess.ID, ""); err != nil {
		t.Fatal(err)
	}

	fetcher.err = &domain.FetchError{Kind: domain.ServerError, Attempt: 3, Message: "Server error: 503 Service Unavailable"}
	_, err := svc.Next(ctx, sess.ID, "")
	if kind, _ := domain.KindOf(err); kind != domain.ServerError {
		t.Fatalf("expected the fetch failure to surface, got %v", err)
	}
	if sess.History.Len() != 1 || sess.History.Cursor() != 0 {
		t.Errorf("history changed on failure: len %d cursor %d", sess.History.Len(), sess.History.Cursor())
	}
}

func TestProfileService_Search(t *testing.T) {
	fetcher := &fakeProfileFetcher{}
	store := newStore()
	svc := NewProfileService(fetcher, store, zerolog.Nop())
	sess := store.Create()
	ctx := context.Background()

	_, err := svc.Search(ctx, sess.ID, "Jane")
	if kind, _ := domain.KindOf(err); kind != domain.ValidationError {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if fetcher.Calls() != 0 {
		t.Error("validation errors must short-circuit before any fetch")
	}

	view, err := svc.Search(ctx, sess.ID, " Jane Doe ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Profile.FirstName != "Jane" || view.Profile.LastName != "Doe" {
		t.Errorf("expected override applied, got %+v", view.Profile)
	}
	if fetcher.overrides[0] != "Jane Doe" {
		t.Errorf("expected trimmed override, got %q", fetcher.overrides[0])
	}
}

func TestProfileService_RejectsOverlappingNavigation(t *testing.T) {
	fetcher := &fakeProfileFetcher{block: make(chan struct{}), started: make(chan struct{}, 1)}
	store := newStore()
	svc := NewProfileService(fetcher, store, zerolog.Nop())
	sess := store.Create()

	done := make(chan error, 1)
	go func() {
		_, err := svc.Next(context.Background(), sess.ID, "")
		done <- err
	}()
	<-fetcher.started

	if _, err := svc.Next(context.Background(), sess.ID, ""); !errors.Is(err, session.ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	if _, err := svc.Previous(sess.ID); !errors.Is(err, session.ErrBusy) {
		t.Errorf("expected ErrBusy for previous, got %v", err)
	}

	close(fetcher.block)
	if err := <-done; err != nil {
		t.Fatalf("first navigation failed: %v", err)
	}
	if fetcher.Calls() != 1 {
		t.Errorf("expected a single fetch, got %d", fetcher.Calls())
	}
}

func TestProfileService_UnknownSession(t *testing.T) {
	svc := NewProfileService(&fakeProfileFetcher{}, newStore(), zerolog.Nop())
	if _, err := svc.Next(context.Background(), "missing", ""); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}
