package server

import (
	"encoding/json"
	"viewer/internal/domain"
	"viewer/internal/service"

	"connectrpc.com/connect"
)

type OpenSessionRequest struct{}

type OpenSessionResponse struct {
	SessionID string `json:"session_id"`
}

type CloseSessionRequest struct {
	SessionID string `json:"session_id"`
}

type CloseSessionResponse struct {
	Closed bool `json:"closed"`
}

type ProfileRequest struct {
	SessionID string `json:"session_id"`
}

type SearchProfileRequest struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
}

type ProfileResponse = service.ProfileView

type StandingsRequest struct {
	SessionID string `json:"session_id"`
	Filter    string `json:"filter"`
}

type StandingsResponse = domain.Page

type DiagnosticsRequest struct {
	Source        string `json:"source"`
	WindowSeconds int64  `json:"window_seconds"`
	Limit         int    `json:"limit"`
}

type DiagnosticsResponse = service.DiagnosticsSummary

// jsonCodec lets connect carry the plain structs above as application/json.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// Codec is exported for connect clients talking to this server.
func Codec() connect.Codec { return jsonCodec{} }
