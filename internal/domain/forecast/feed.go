package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ProcedureFeed supplies scheduled-procedure admission predictions. Read-only
// external collaborator; only its output is merged here, never written back.
type ProcedureFeed interface {
	Admissions(ctx context.Context, hospitalID uuid.UUID) ([]ProcedureAdmission, error)
}

type httpFeed struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFeed returns a feed client for the given base URL. An empty URL
// yields a feed that always reports no admissions, so the combined forecast
// degrades to the basic one when no feed is configured.
func NewHTTPFeed(baseURL string) ProcedureFeed {
	return &httpFeed{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (f *httpFeed) Admissions(ctx context.Context, hospitalID uuid.UUID) ([]ProcedureAdmission, error) {
	if f.baseURL == "" {
		return nil, nil
	}
	url := fmt.Sprintf("%s/admissions?hospital_id=%s", f.baseURL, hospitalID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching admissions feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("admissions feed returned status %d", resp.StatusCode)
	}
	var admissions []ProcedureAdmission
	if err := json.NewDecoder(resp.Body).Decode(&admissions); err != nil {
		return nil, fmt.Errorf("decoding admissions feed: %w", err)
	}
	return admissions, nil
}
