package service

import (
	"context"
	"viewer/internal/api"
	"viewer/internal/constants"
	"viewer/internal/domain"
	"viewer/internal/metrics"
	"viewer/internal/session"

	"github.com/rs/zerolog"
)

type ProfileFetcher interface {
	GetProfile(ctx context.Context, nameOverride string) (domain.UserRecord, error)
}

// ProfileView is what the renderer needs after a profile navigation.
// Profile is nil only while the session has never loaded a profile.
type ProfileView struct {
	Profile *domain.UserRecord `json:"profile,omitempty"`
	Cursor  int                `json:"cursor"`
	Length  int                `json:"length"`
	Moved   bool               `json:"moved"`
}

type ProfileService struct {
	fetcher  ProfileFetcher
	sessions *session.Store
	logger   zerolog.Logger
}

func NewProfileService(fetcher ProfileFetcher, sessions *session.Store, logger zerolog.Logger) *ProfileService {
	return &ProfileService{fetcher: fetcher, sessions: sessions, logger: logger}
}

// Start shows the first profile of a session, fetching it if the history
// is still empty.
func (s *ProfileService) Start(ctx context.Context, sessionID string) (ProfileView, error) {
	sess, err := s.begin(sessionID, "start")
	if err != nil {
		return ProfileView{}, err
	}
	defer sess.End()

	if !sess.History.IsEmpty() {
		return viewOf(sess, false), nil
	}
	return s.forward(ctx, sess, "", "start")
}

// Next fetches a new profile and appends it to the history. On failure
// the history is left untouched and the error is returned.
func (s *ProfileService) Next(ctx context.Context, sessionID, nameOverride string) (ProfileView, error) {
	sess, err := s.begin(sessionID, "next")
	if err != nil {
		return ProfileView{}, err
	}
	defer sess.End()

	return s.forward(ctx, sess, nameOverride, "next")
}

// Search validates rawName before fetching a profile that carries it.
func (s *ProfileService) Search(ctx context.Context, sessionID, rawName string) (ProfileView, error) {
	name, err := api.ValidateName(rawName)
	if err != nil {
		metrics.Navigations.WithLabelValues("profile", "search", "invalid").Inc()
		s.logger.Debug().Str("session_id", sessionID).Str("input", rawName).Msg("rejected name override")
		return ProfileView{}, err
	}

	sess, err := s.begin(sessionID, "search")
	if err != nil {
		return ProfileView{}, err
	}
	defer sess.End()

	return s.forward(ctx, sess, name, "search")
}

// Previous steps back through the history without any network access.
// At the first entry it keeps the current profile and reports Moved=false.
func (s *ProfileService) Previous(sessionID string) (ProfileView, error) {
	sess, err := s.begin(sessionID, "previous")
	if err != nil {
		return ProfileView{}, err
	}
	defer sess.End()

	if _, ok := sess.History.Back(); !ok {
		metrics.Navigations.WithLabelValues("profile", "previous", "noop").Inc()
		return viewOf(sess, false), nil
	}

	metrics.Navigations.WithLabelValues("profile", "previous", "ok").Inc()
	s.logger.Debug().Str("session_id", sess.ID).Int("cursor", sess.History.Cursor()).Msg("moved back in history")
	return viewOf(sess, true), nil
}

func (s *ProfileService) begin(sessionID, action string) (*session.Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		metrics.Navigations.WithLabelValues("profile", action, "no_session").Inc()
		return nil, err
	}
	if err := sess.TryBegin(); err != nil {
		metrics.Navigations.WithLabelValues("profile", action, "busy").Inc()
		s.logger.Warn().Str("session_id", sessionID).Str("action", action).Msg("navigation rejected, another is in flight")
		return nil, err
	}
	return sess, nil
}

func (s *ProfileService) forward(ctx context.Context, sess *session.Session, nameOverride, action string) (ProfileView, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.logger.Info().Str("session_id", sess.ID).Bool("override", nameOverride != "").Msg("fetching profile")

	record, err := s.fetcher.GetProfile(ctx, nameOverride)
	if err != nil {
		metrics.Navigations.WithLabelValues("profile", action, "error").Inc()
		s.logger.Error().Err(err).Str("session_id", sess.ID).Msg("failed to fetch profile")
		return ProfileView{}, err
	}

	sess.History.Push(record)
	metrics.Navigations.WithLabelValues("profile", action, "ok").Inc()
	s.logger.Info().
		Str("session_id", sess.ID).
		Int("cursor", sess.History.Cursor()).
		Msg("profile fetched successfully")

	return viewOf(sess, true), nil
}

func viewOf(sess *session.Session, moved bool) ProfileView {
	view := ProfileView{
		Cursor: sess.History.Cursor(),
		Length: sess.History.Len(),
		Moved:  moved,
	}
	if rec, ok := sess.History.Current(); ok {
		view.Profile = &rec
	}
	return view
}
