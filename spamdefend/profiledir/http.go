package profiledir

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kigurumi-social/mamoru/util"

	"golang.org/x/time/rate"
)

// APIDirectory resolves profiles through the backend's `users/show` API
// endpoint. Outbound requests are retried and rate-limited.
type APIDirectory struct {
	// base URL of the backend API, eg "https://example.com/api"
	Host       string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
}

var _ Directory = (*APIDirectory)(nil)

func NewAPIDirectory(host string, rps int) *APIDirectory {
	return &APIDirectory{
		Host:       host,
		HTTPClient: util.RobustHTTPClient(),
		Limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

type showUserRequest struct {
	UserID string `json:"userId"`
}

type showUserResponse struct {
	Name           *string   `json:"name"`
	Username       string    `json:"username"`
	Host           *string   `json:"host"`
	AvatarURL      *string   `json:"avatarUrl"`
	Description    *string   `json:"description"`
	FollowersCount int64     `json:"followersCount"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (d *APIDirectory) FetchProfile(ctx context.Context, actorID string) (*ProfileSnapshot, error) {
	if err := d.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(showUserRequest{UserID: actorID})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.Host+"/users/show", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching actor profile: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProfileNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile fetch failed, status=%d", resp.StatusCode)
	}

	var out showUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("parsing actor profile: %w", err)
	}

	return &ProfileSnapshot{
		Name:           out.Name,
		Username:       out.Username,
		Host:           out.Host,
		AvatarURL:      out.AvatarURL,
		Description:    out.Description,
		FollowersCount: out.FollowersCount,
		CreatedAt:      out.CreatedAt,
	}, nil
}
