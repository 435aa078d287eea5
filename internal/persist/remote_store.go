package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/CultivationChroniclesV1/ronnetsv12-sub000/internal/state"
)

// RemoteStore talks to the companion server's save API. It is the gateway
// a client-side engine uses when saves live on the server instead of on
// disk.
type RemoteStore struct {
	baseURL string
	slot    string
	client  *http.Client
}

func NewRemoteStore(baseURL, slot string, client *http.Client) *RemoteStore {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RemoteStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		slot:    slotName(slot),
		client:  client,
	}
}

func (r *RemoteStore) saveURL() string {
	return r.baseURL + "/api/save/" + url.PathEscape(r.slot)
}

func (r *RemoteStore) Save(ctx context.Context, gs *state.GameState) (SaveReceipt, error) {
	if err := gs.Validate(); err != nil {
		return SaveReceipt{}, &ValidationError{Err: err}
	}
	b, err := json.Marshal(gs)
	if err != nil {
		return SaveReceipt{}, &TransportError{Op: "encode save", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, r.saveURL(), bytes.NewReader(b))
	if err != nil {
		return SaveReceipt{}, &TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return SaveReceipt{}, &TransportError{Op: "upload save", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SaveReceipt{}, &TransportError{
			Op:  "upload save",
			Err: fmt.Errorf("server returned %s", resp.Status),
		}
	}

	var receipt SaveReceipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		receipt.SavedAt = time.Now().UTC()
	}
	return receipt, nil
}

func (r *RemoteStore) Load(ctx context.Context) (*state.GameState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.saveURL(), nil)
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "download save", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{
			Op:  "download save",
			Err: fmt.Errorf("server returned %s", resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "download save", Err: err}
	}

	var gs state.GameState
	if err := json.Unmarshal(body, &gs); err != nil {
		return nil, ErrNotFound
	}
	gs.Normalize()
	if err := gs.Validate(); err != nil {
		return nil, ErrNotFound
	}
	return &gs, nil
}
