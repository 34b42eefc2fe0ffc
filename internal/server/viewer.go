package server

import (
	"context"
	"errors"
	"net/http"
	"time"
	"viewer/internal/api"
	"viewer/internal/domain"
	"viewer/internal/service"
	"viewer/internal/session"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

const (
	ViewerServicePath = "/viewer.v1.ViewerService/"

	OpenSessionProcedure       = ViewerServicePath + "OpenSession"
	CloseSessionProcedure      = ViewerServicePath + "CloseSession"
	StartProfileProcedure      = ViewerServicePath + "StartProfile"
	NextProfileProcedure       = ViewerServicePath + "NextProfile"
	SearchProfileProcedure     = ViewerServicePath + "SearchProfile"
	PreviousProfileProcedure   = ViewerServicePath + "PreviousProfile"
	GetStandingsProcedure      = ViewerServicePath + "GetStandings"
	NextStandingsProcedure     = ViewerServicePath + "NextStandings"
	PreviousStandingsProcedure = ViewerServicePath + "PreviousStandings"
	ReloadStandingsProcedure   = ViewerServicePath + "ReloadStandings"
	GetDiagnosticsProcedure    = ViewerServicePath + "GetDiagnostics"
)

const (
	defaultDiagnosticsWindow = time.Hour
	defaultDiagnosticsLimit  = 20
	maxDiagnosticsLimit      = 200
)

type ViewerServer struct {
	sessions    *session.Store
	profiles    *service.ProfileService
	standings   *service.StandingsService
	diagnostics *service.DiagnosticsService
	logger      zerolog.Logger
}

func NewViewerServer(sessions *session.Store, profiles *service.ProfileService, standings *service.StandingsService, diagnostics *service.DiagnosticsService, logger zerolog.Logger) *ViewerServer {
	return &ViewerServer{sessions: sessions, profiles: profiles, standings: standings, diagnostics: diagnostics, logger: logger}
}

// Handler returns the service path prefix and a handler serving every
// viewer procedure under it.
func (s *ViewerServer) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(OpenSessionProcedure, connect.NewUnaryHandler(OpenSessionProcedure, s.OpenSession, opts...))
	mux.Handle(CloseSessionProcedure, connect.NewUnaryHandler(CloseSessionProcedure, s.CloseSession, opts...))
	mux.Handle(StartProfileProcedure, connect.NewUnaryHandler(StartProfileProcedure, s.StartProfile, opts...))
	mux.Handle(NextProfileProcedure, connect.NewUnaryHandler(NextProfileProcedure, s.NextProfile, opts...))
	mux.Handle(SearchProfileProcedure, connect.NewUnaryHandler(SearchProfileProcedure, s.SearchProfile, opts...))
	mux.Handle(PreviousProfileProcedure, connect.NewUnaryHandler(PreviousProfileProcedure, s.PreviousProfile, opts...))
	mux.Handle(GetStandingsProcedure, connect.NewUnaryHandler(GetStandingsProcedure, s.GetStandings, opts...))
	mux.Handle(NextStandingsProcedure, connect.NewUnaryHandler(NextStandingsProcedure, s.NextStandings, opts...))
	mux.Handle(PreviousStandingsProcedure, connect.NewUnaryHandler(PreviousStandingsProcedure, s.PreviousStandings, opts...))
	mux.Handle(ReloadStandingsProcedure, connect.NewUnaryHandler(ReloadStandingsProcedure, s.ReloadStandings, opts...))
	mux.Handle(GetDiagnosticsProcedure, connect.NewUnaryHandler(GetDiagnosticsProcedure, s.GetDiagnostics, opts...))
	return ViewerServicePath, mux
}

func (s *ViewerServer) OpenSession(ctx context.Context, req *connect.Request[OpenSessionRequest]) (*connect.Response[OpenSessionResponse], error) {
	sess := s.sessions.Create()
	zerolog.Ctx(ctx).Info().Str("session_id", sess.ID).Msg("session opened")
	return connect.NewResponse(&OpenSessionResponse{SessionID: sess.ID}), nil
}

func (s *ViewerServer) CloseSession(ctx context.Context, req *connect.Request[CloseSessionRequest]) (*connect.Response[CloseSessionResponse], error) {
	closed := s.sessions.Delete(req.Msg.SessionID)
	return connect.NewResponse(&CloseSessionResponse{Closed: closed}), nil
}

func (s *ViewerServer) StartProfile(ctx context.Context, req *connect.Request[ProfileRequest]) (*connect.Response[ProfileResponse], error) {
	view, err := s.profiles.Start(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&view), nil
}

func (s *ViewerServer) NextProfile(ctx context.Context, req *connect.Request[ProfileRequest]) (*connect.Response[ProfileResponse], error) {
	view, err := s.profiles.Next(ctx, req.Msg.SessionID, "")
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&view), nil
}

func (s *ViewerServer) SearchProfile(ctx context.Context, req *connect.Request[SearchProfileRequest]) (*connect.Response[ProfileResponse], error) {
	view, err := s.profiles.Search(ctx, req.Msg.SessionID, req.Msg.Name)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&view), nil
}

func (s *ViewerServer) PreviousProfile(ctx context.Context, req *connect.Request[ProfileRequest]) (*connect.Response[ProfileResponse], error) {
	view, err := s.profiles.Previous(req.Msg.SessionID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&view), nil
}

func (s *ViewerServer) GetStandings(ctx context.Context, req *connect.Request[StandingsRequest]) (*connect.Response[StandingsResponse], error) {
	page, err := s.standings.Page(ctx, req.Msg.SessionID, req.Msg.Filter)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&page), nil
}

func (s *ViewerServer) NextStandings(ctx context.Context, req *connect.Request[StandingsRequest]) (*connect.Response[StandingsResponse], error) {
	page, err := s.standings.Next(ctx, req.Msg.SessionID, req.Msg.Filter)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&page), nil
}

func (s *ViewerServer) PreviousStandings(ctx context.Context, req *connect.Request[StandingsRequest]) (*connect.Response[StandingsResponse], error) {
	page, err := s.standings.Previous(ctx, req.Msg.SessionID, req.Msg.Filter)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&page), nil
}

func (s *ViewerServer) ReloadStandings(ctx context.Context, req *connect.Request[StandingsRequest]) (*connect.Response[StandingsResponse], error) {
	page, err := s.standings.Reload(ctx, req.Msg.SessionID, req.Msg.Filter)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&page), nil
}

func (s *ViewerServer) GetDiagnostics(ctx context.Context, req *connect.Request[DiagnosticsRequest]) (*connect.Response[DiagnosticsResponse], error) {
	source := req.Msg.Source
	if source == "" {
		source = api.SourceProfile
	}
	if source != api.SourceProfile && source != api.SourceStandings {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("unknown source "+source))
	}

	window := defaultDiagnosticsWindow
	if req.Msg.WindowSeconds > 0 {
		window = time.Duration(req.Msg.WindowSeconds) * time.Second
	}
	limit := defaultDiagnosticsLimit
	if req.Msg.Limit > 0 {
		limit = min(req.Msg.Limit, maxDiagnosticsLimit)
	}

	summary, err := s.diagnostics.Summary(ctx, source, window, limit)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(summary), nil
}

func toConnectError(err error) *connect.Error {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, session.ErrBusy):
		return connect.NewError(connect.CodeResourceExhausted, err)
	}

	kind, ok := domain.KindOf(err)
	if !ok {
		return connect.NewError(connect.CodeInternal, err)
	}
	switch kind {
	case domain.ValidationError:
		return connect.NewError(connect.CodeInvalidArgument, err)
	case domain.ClientError, domain.ResourceNotFound:
		return connect.NewError(connect.CodeNotFound, err)
	case domain.Timeout:
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeUnavailable, err)
	}
}
