package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"viewer/internal/domain"
)

// GetStandings loads the full standings index in a single attempt. The
// configured source is either an http(s) URL or a local file path.
func (c *Client) GetStandings(ctx context.Context) (domain.StandingsIndex, error) {
	var (
		body []byte
		err  error
	)
	if isRemote(c.standingsSource) {
		body, err = c.FetchOnce(ctx, SourceStandings, c.standingsSource, c.standingsTimeout)
	} else {
		body, err = readStandingsFile(c.standingsSource)
	}
	if err != nil {
		return nil, err
	}
	return ParseStandings(body)
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func readStandingsFile(path string) ([]byte, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.FetchError{
				Kind:    domain.ResourceNotFound,
				Attempt: 1,
				Message: "Resource not found: " + path,
				Err:     err,
			}
		}
		return nil, &domain.FetchError{
			Kind:    domain.NetworkError,
			Attempt: 1,
			Message: fmt.Sprintf("failed to read standings: %v", err),
			Err:     err,
		}
	}
	return body, nil
}

type standingsYear struct {
	Response []domain.TeamRecord `json:"response"`
}

// ParseStandings decodes {"<year>": {"response": [...]}, ...}.
func ParseStandings(body []byte) (domain.StandingsIndex, error) {
	var raw map[string]standingsYear
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &domain.FetchError{
			Kind:    domain.NetworkError,
			Message: fmt.Sprintf("invalid standings response: %v", err),
			Err:     err,
		}
	}

	index := make(domain.StandingsIndex, len(raw))
	for key, year := range raw {
		y, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, &domain.FetchError{
				Kind:    domain.NetworkError,
				Message: fmt.Sprintf("invalid standings year %q", key),
				Err:     err,
			}
		}
		rows := year.Response
		if rows == nil {
			rows = []domain.TeamRecord{}
		}
		index[y] = rows
	}
	return index, nil
}
