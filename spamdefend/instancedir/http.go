package instancedir

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

// APIDirectory resolves instance records through the backend's
// `federation/show-instance` API endpoint.
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

type showInstanceRequest struct {
	Host string `json:"host"`
}

type showInstanceResponse struct {
	Host             string    `json:"host"`
	FollowersCount   int64     `json:"followersCount"`
	FirstRetrievedAt time.Time `json:"firstRetrievedAt"`
	Description      *string   `json:"description"`
}

func (d *APIDirectory) FetchInstance(ctx context.Context, host string) (*InstanceRecord, error) {
	if err := d.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(showInstanceRequest{Host: host})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.Host+"/federation/show-instance", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching instance record: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// an unobserved host is a fresh record, not an error
	if resp.StatusCode == http.StatusNotFound {
		return NewUnseenRecord(host), nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instance fetch failed, status=%d", resp.StatusCode)
	}

	// the endpoint replies `null` for hosts it has no record of
	var out *showInstanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("parsing instance record: %w", err)
	}
	if out == nil {
		return NewUnseenRecord(host), nil
	}

	return &InstanceRecord{
		Host:             out.Host,
		FollowersCount:   out.FollowersCount,
		FirstRetrievedAt: out.FirstRetrievedAt,
		Description:      out.Description,
	}, nil
}
