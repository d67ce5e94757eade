package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// Remote exposes row-level operations on the three remote tables. Upserts
// are keyed by id and idempotent; re-pushing the same rows is always safe.
type Remote interface {
	ListTasks(ctx context.Context, since *time.Time) ([]TaskRow, error)
	UpsertTasks(ctx context.Context, rows []TaskRow) error
	DeleteTask(ctx context.Context, id string) error
	DeleteTasks(ctx context.Context, ids []string) error

	ListCategories(ctx context.Context) ([]CategoryRow, error)
	UpsertCategories(ctx context.Context, rows []CategoryRow) error

	ListInbox(ctx context.Context) ([]InboxRow, error)
	CaptureInbox(ctx context.Context, rawText string) error
}

// RemoteConfig holds connection parameters for the HTTP remote.
type RemoteConfig struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
}

// httpRemote implements Remote against the task server's REST API.
type httpRemote struct {
	cfg  RemoteConfig
	http *http.Client
}

// NewHTTPRemote creates a Remote that talks to the task server over HTTP.
func NewHTTPRemote(cfg RemoteConfig) Remote {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &httpRemote{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

func (r *httpRemote) ListTasks(ctx context.Context, since *time.Time) ([]TaskRow, error) {
	path := "/tasks/sync"
	if since != nil {
		path += "?since=" + url.QueryEscape(since.UTC().Format(wireLayout))
	}
	var rows []TaskRow
	if err := r.do(ctx, http.MethodGet, path, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *httpRemote) UpsertTasks(ctx context.Context, rows []TaskRow) error {
	if len(rows) == 0 {
		return nil
	}
	return r.do(ctx, http.MethodPost, "/tasks/batch", rows, nil)
}

func (r *httpRemote) DeleteTask(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil)
}

func (r *httpRemote) DeleteTasks(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	q := url.Values{}
	for _, id := range ids {
		q.Add("task_ids", id)
	}
	return r.do(ctx, http.MethodDelete, "/tasks?"+q.Encode(), nil, nil)
}

func (r *httpRemote) ListCategories(ctx context.Context) ([]CategoryRow, error) {
	var rows []CategoryRow
	if err := r.do(ctx, http.MethodGet, "/categories", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *httpRemote) UpsertCategories(ctx context.Context, rows []CategoryRow) error {
	if len(rows) == 0 {
		return nil
	}
	return r.do(ctx, http.MethodPost, "/categories/batch", rows, nil)
}

func (r *httpRemote) ListInbox(ctx context.Context) ([]InboxRow, error) {
	var rows []InboxRow
	if err := r.do(ctx, http.MethodGet, "/inbox", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *httpRemote) CaptureInbox(ctx context.Context, rawText string) error {
	body := map[string]string{"raw_text": rawText}
	return r.do(ctx, http.MethodPost, "/inbox", body, nil)
}

// do performs one JSON round trip with the configured timeout and maps
// transport failures onto the transient error taxonomy.
func (r *httpRemote) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.cfg.Endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.Token)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s %s: %w", method, path, ErrTimeout)
		}
		if isConnectionError(err) {
			return fmt.Errorf("%s %s: %w", method, path, ErrRemoteUnavailable)
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s returned %d: %s", ErrRemoteRejected, method, path, resp.StatusCode, string(respBody))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

// IsTransient reports whether a sync error should be retried on the next
// pass rather than surfaced to the user.
func IsTransient(err error) bool {
	return errors.Is(err, ErrRemoteUnavailable) || errors.Is(err, ErrTimeout)
}
