package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rawen554/userdir/internal/models"
)

var ErrUnexpectedStatus = errors.New("unexpected response status")

type RemoteSource struct {
	client *http.Client
	url    string
}

func NewRemoteSource(client *http.Client, url string) *RemoteSource {
	return &RemoteSource{client: client, url: url}
}

// Fetch performs a single GET; there is no retry.
func (s *RemoteSource) Fetch(ctx context.Context) ([]models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error requesting users: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, res.StatusCode)
	}

	var users []models.User
	if err := json.NewDecoder(res.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("error decode users: %w", err)
	}

	return users, nil
}

func (s *RemoteSource) Close() {}
