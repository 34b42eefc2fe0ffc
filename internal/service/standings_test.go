package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	"viewer/internal/config"
	"viewer/internal/domain"

	"github.com/rs/zerolog"
)

type fakeStandingsFetcher struct {
	mu    sync.Mutex
	calls int
	index domain.StandingsIndex
	err   error

	// when set, the first call signals started and waits for block
	block   chan struct{}
	started chan struct{}
	// later, when set, is returned by every call after the first
	later   domain.StandingsIndex
	ctxErrs []error
}

func (f *fakeStandingsFetcher) GetStandings(ctx context.Context) (domain.StandingsIndex, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	index, err := f.index, f.err
	if n > 1 && f.later != nil {
		index = f.later
	}
	f.mu.Unlock()

	if n == 1 && f.block != nil {
		f.started <- struct{}{}
		<-f.block
	}

	f.mu.Lock()
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return index, nil
}

func (f *fakeStandingsFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func sampleIndex() domain.StandingsIndex {
	return domain.StandingsIndex{
		2023: {
			{Team: "Jets", Win: 10, Loss: 6},
			{Team: "Hawks", Win: 9, Loss: 7},
			{Team: "Bears", Win: 8, Loss: 8},
		},
		2024: {
			{Team: "Rams", Win: 12, Loss: 4},
		},
	}
}

func newStandingsService(fetcher StandingsFetcher, ttl time.Duration, pageSize int) (*StandingsService, string) {
	store := newStore()
	cfg := &config.Config{StandingsCacheTTL: ttl, StandingsPageSize: pageSize}
	return NewStandingsService(fetcher, store, cfg, zerolog.Nop()), store.Create().ID
}

func TestStandingsService_InitialPage(t *testing.T) {
	svc, id := newStandingsService(&fakeStandingsFetcher{index: sampleIndex()}, time.Minute, 5)

	page, err := svc.Page(context.Background(), id, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Year != 2024 || page.Page != 1 {
		t.Errorf("expected page 1 of 2024, got %d/%d", page.Page, page.Year)
	}
	if len(page.Teams) != 1 || page.Teams[0].Team != "Rams" {
		t.Errorf("unexpected teams %+v", page.Teams)
	}
	if !page.HasPrev || page.HasNext {
		t.Errorf("expected prev only, got prev=%v next=%v", page.HasPrev, page.HasNext)
	}
}

func TestStandingsService_NavigatesAcrossYears(t *testing.T) {
	svc, id := newStandingsService(&fakeStandingsFetcher{index: sampleIndex()}, time.Minute, 2)
	ctx := context.Background()

	page, err := svc.Previous(ctx, id, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Year != 2023 || page.Page != 2 {
		t.Fatalf("expected last page of 2023, got %d/%d", page.Page, page.Year)
	}
	if len(page.Teams) != 1 || page.Teams[0].Team != "Bears" {
		t.Errorf("unexpected teams %+v", page.Teams)
	}

	page, _ = svc.Previous(ctx, id, "")
	if page.Year != 2023 || page.Page != 1 || page.HasPrev {
		t.Errorf("expected first page of earliest year, got %+v", page)
	}

	page, _ = svc.Previous(ctx, id, "")
	if page.Year != 2023 || page.Page != 1 {
		t.Errorf("previous at the start must be a no-op, got %d/%d", page.Page, page.Year)
	}

	page, _ = svc.Next(ctx, id, "")
	page, _ = svc.Next(ctx, id, "")
	if page.Year != 2024 || page.Page != 1 {
		t.Errorf("expected to roll into 2024, got %d/%d", page.Page, page.Year)
	}

	page, _ = svc.Next(ctx, id, "")
	if page.Year != 2024 || page.Page != 1 || page.HasNext {
		t.Errorf("next at the end must be a no-op, got %+v", page)
	}
}

func TestStandingsService_FilterNoResults(t *testing.T) {
	svc, id := newStandingsService(&fakeStandingsFetcher{index: sampleIndex()}, time.Minute, 5)

	page, err := svc.Page(context.Background(), id, "dolphins")
	if err != nil {
		t.Fatalf("no results is not an error, got %v", err)
	}
	if !page.Empty {
		t.Error("expected explicit empty signal")
	}
}

func TestStandingsService_CachesPerSession(t *testing.T) {
	fetcher := &fakeStandingsFetcher{index: sampleIndex()}
	svc, id := newStandingsService(fetcher, time.Minute, 5)
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	svc.Page(ctx, id, "")
	svc.Previous(ctx, id, "")
	svc.Next(ctx, id, "")
	if fetcher.Calls() != 1 {
		t.Errorf("expected one load within ttl, got %d", fetcher.Calls())
	}

	now = now.Add(2 * time.Minute)
	svc.Page(ctx, id, "")
	if fetcher.Calls() != 2 {
		t.Errorf("expected reload after ttl, got %d", fetcher.Calls())
	}

	svc.Reload(ctx, id, "")
	if fetcher.Calls() != 3 {
		t.Errorf("expected explicit reload, got %d", fetcher.Calls())
	}
}

func TestStandingsService_NoCacheReloadsEveryAction(t *testing.T) {
	fetcher := &fakeStandingsFetcher{index: sampleIndex()}
	svc, id := newStandingsService(fetcher, 0, 5)
	ctx := context.Background()

	svc.Page(ctx, id, "")
	svc.Next(ctx, id, "")
	svc.Previous(ctx, id, "")
	if fetcher.Calls() != 3 {
		t.Errorf("expected a load per action, got %d", fetcher.Calls())
	}
}

func TestStandingsService_LoadFailure(t *testing.T) {
	fetcher := &fakeStandingsFetcher{index: sampleIndex()}
	svc, id := newStandingsService(fetcher, 0, 2)
	ctx := context.Background()

	if _, err := svc.Previous(ctx, id, ""); err != nil {
		t.Fatal(err)
	}

	fetcher.err = &domain.FetchError{Kind: domain.ResourceNotFound, Attempt: 1, Message: "Resource not found: 404 Not Found"}
	_, err := svc.Previous(ctx, id, "")
	if kind, _ := domain.KindOf(err); kind != domain.ResourceNotFound {
		t.Fatalf("expected ResourceNotFound, got %v", err)
	}

	fetcher.err = nil
	page, err := svc.Page(ctx, id, "")
	if err != nil {
		t.Fatal(err)
	}
	if page.Year != 2023 || page.Page != 2 {
		t.Errorf("failed navigation must not move the page, got %d/%d", page.Page, page.Year)
	}
}

func TestStandingsService_SharedLoadSurvivesCancelledCaller(t *testing.T) {
	fetcher := &fakeStandingsFetcher{
		index:   sampleIndex(),
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	svc, first := newStandingsService(fetcher, time.Minute, 5)
	second := svc.sessions.Create().ID

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Page(ctx, first, "")
		firstErr <- err
	}()
	<-fetcher.started

	type result struct {
		page domain.Page
		err  error
	}
	secondDone := make(chan result, 1)
	go func() {
		page, err := svc.Page(context.Background(), second, "")
		secondDone <- result{page, err}
	}()

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller: expected context.Canceled, got %v", err)
	}

	close(fetcher.block)
	res := <-secondDone
	if res.err != nil {
		t.Fatalf("other session must not inherit the cancellation: %v", res.err)
	}
	if res.page.Year != 2024 || len(res.page.Teams) != 1 {
		t.Errorf("unexpected page %+v", res.page)
	}

	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	for i, err := range fetcher.ctxErrs {
		if err != nil {
			t.Errorf("load %d ran under a cancelled context: %v", i+1, err)
		}
	}
}

func TestStandingsService_ReloadSkipsInFlightLoad(t *testing.T) {
	fresh := domain.StandingsIndex{2025: {{Team: "Owls", Win: 11, Loss: 5}}}
	fetcher := &fakeStandingsFetcher{
		index:   sampleIndex(),
		later:   fresh,
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	svc, first := newStandingsService(fetcher, time.Minute, 5)
	second := svc.sessions.Create().ID

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Page(context.Background(), first, "")
		firstDone <- err
	}()
	<-fetcher.started

	page, err := svc.Reload(context.Background(), second, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Year != 2025 || len(page.Teams) != 1 || page.Teams[0].Team != "Owls" {
		t.Errorf("reload must return freshly loaded data, got %+v", page)
	}
	if got := fetcher.Calls(); got != 2 {
		t.Errorf("expected a second load for the reload, got %d loads", got)
	}

	close(fetcher.block)
	if err := <-firstDone; err != nil {
		t.Errorf("in-flight load: unexpected error %v", err)
	}
}
