package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	apperrors "moneta/internal/errors"
	"moneta/internal/logger"
)

// HTTPStore talks to a hosted collection API over plain HTTP/JSON:
//
//	GET    /:collection?order_by=<field>&dir=<asc|desc>
//	POST   /:collection
//	PATCH  /:collection/:id
//	DELETE /:collection/:id
//	DELETE /:collection?field=<f>&value=<v>
//	GET    /health
//
// Connection failures and 5xx responses classify as transient; 4xx responses
// as permanent.
type HTTPStore struct {
	baseURL string
	client  *http.Client
}

// NewHTTPStore creates a client for the backend at baseURL.
func NewHTTPStore(baseURL string, timeout time.Duration) *HTTPStore {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPStore{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// List implements Store.
func (s *HTTPStore) List(ctx context.Context, collection string, orderBy Order) ([]Row, error) {
	q := url.Values{}
	if orderBy.Field != "" {
		q.Set("order_by", orderBy.Field)
		dir := "asc"
		if orderBy.Descending {
			dir = "desc"
		}
		q.Set("dir", dir)
	}
	body, err := s.do(ctx, http.MethodGet, "/"+collection, q, nil)
	if err != nil {
		return nil, err
	}
	var rows []Row
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRemoteRejected, err)
	}
	return rows, nil
}

// Insert implements Store.
func (s *HTTPStore) Insert(ctx context.Context, collection string, row Row) (Row, error) {
	body, err := s.do(ctx, http.MethodPost, "/"+collection, nil, row)
	if err != nil {
		return nil, err
	}
	return Row(body), nil
}

// Update implements Store.
func (s *HTTPStore) Update(ctx context.Context, collection, id string, patch Row) error {
	_, err := s.do(ctx, http.MethodPatch, "/"+collection+"/"+url.PathEscape(id), nil, patch)
	return err
}

// Delete implements Store.
func (s *HTTPStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.do(ctx, http.MethodDelete, "/"+collection+"/"+url.PathEscape(id), nil, nil)
	return err
}

// DeleteWhere implements Store.
func (s *HTTPStore) DeleteWhere(ctx context.Context, collection, field, value string) error {
	q := url.Values{}
	q.Set("field", field)
	q.Set("value", value)
	_, err := s.do(ctx, http.MethodDelete, "/"+collection, q, nil)
	return err
}

// Subscribe implements Store. Plain HTTP has no push channel, so this is a
// no-op; callers fall back to sync-on-reconnect and on-demand refresh.
func (s *HTTPStore) Subscribe(collection string, fn func()) func() {
	return func() {}
}

// Ping implements Store.
func (s *HTTPStore) Ping(ctx context.Context) error {
	_, err := s.do(ctx, http.MethodGet, "/health", nil, nil)
	return err
}

// do runs one request and classifies the outcome.
func (s *HTTPStore) do(ctx context.Context, method, path string, query url.Values, payload Row) ([]byte, error) {
	u := s.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Get().Debugw("remote request failed", "method", method, "path", path, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRemoteUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, apperrors.Wrap(apperrors.ErrRemoteUnavailable,
			fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode))
	case resp.StatusCode >= 400:
		return nil, apperrors.WithMessage(apperrors.ErrRemoteRejected,
			fmt.Sprintf("%s %s: status %d: %s", method, path, resp.StatusCode, body))
	}
	return body, nil
}
