package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"viewer/internal/domain"
)

// GetProfile fetches one random user. A nameOverride made of exactly two
// whitespace-separated tokens replaces the fetched first and last name.
func (c *Client) GetProfile(ctx context.Context, nameOverride string) (domain.UserRecord, error) {
	body, err := c.FetchWithRetry(ctx, SourceProfile, c.profileURL, c.profilePolicy)
	if err != nil {
		return domain.UserRecord{}, err
	}

	record, err := ParseProfile(body)
	if err != nil {
		return domain.UserRecord{}, err
	}

	if parts := strings.Fields(nameOverride); len(parts) == 2 {
		record = record.WithName(parts[0], parts[1])
	}
	return record, nil
}

// ParseProfile maps the first entry of a randomuser.me payload.
func ParseProfile(body []byte) (domain.UserRecord, error) {
	var resp RandomUserResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.UserRecord{}, &domain.FetchError{
			Kind:    domain.NetworkError,
			Message: fmt.Sprintf("invalid profile response: %v", err),
			Err:     err,
		}
	}
	if len(resp.Results) == 0 {
		return domain.UserRecord{}, &domain.FetchError{
			Kind:    domain.NetworkError,
			Message: "profile response contained no results",
		}
	}

	u := resp.Results[0]
	return domain.UserRecord{
		FirstName:  u.Name.First,
		LastName:   u.Name.Last,
		Email:      u.Email,
		PictureURL: u.Picture.Large,
		City:       u.Location.City,
		Country:    u.Location.Country,
	}, nil
}

type RandomUserResponse struct {
	Results []RandomUser `json:"results"`
	Info    struct {
		Seed    string `json:"seed"`
		Results int    `json:"results"`
		Page    int    `json:"page"`
		Version string `json:"version"`
	} `json:"info"`
}

type RandomUser struct {
	Gender string `json:"gender"`
	Name   struct {
		Title string `json:"title"`
		First string `json:"first"`
		Last  string `json:"last"`
	} `json:"name"`
	Location struct {
		City    string `json:"city"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"location"`
	Email   string `json:"email"`
	Picture struct {
		Large     string `json:"large"`
		Medium    string `json:"medium"`
		Thumbnail string `json:"thumbnail"`
	} `json:"picture"`
	Nat string `json:"nat"`
}
