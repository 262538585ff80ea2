package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gamedex/gamedex-backend/pkg/logger"
)

// Message is a Discord-compatible webhook payload
type Message struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// Embed is a single rich-content block
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// EmbedField is a name/value pair inside an embed
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Sink delivers messages to configured webhook targets.
// All sends are best-effort: failures are logged, never returned.
type Sink struct {
	targets []string
	client  *http.Client
}

// NewSink creates a Sink for the given targets.
// Targets are fixed for the lifetime of the process.
func NewSink(targets []string, timeout time.Duration) *Sink {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Sink{
		targets: targets,
		client:  &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether any target is configured
func (s *Sink) Enabled() bool {
	return s != nil && len(s.targets) > 0
}

// Broadcast sends the message to every target concurrently and waits for
// all sends to settle. A failed target never affects the others.
func (s *Sink) Broadcast(ctx context.Context, msg *Message) {
	if !s.Enabled() {
		return
	}

	var wg sync.WaitGroup
	for _, target := range s.targets {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			if _, err := s.Send(ctx, url, msg); err != nil {
				logger.GetLogger().Warn().Err(err).Msg("webhook send failed")
			}
		}(target)
	}
	wg.Wait()
}

// Send posts the message to a single target and returns the created
// message ID when the target reports one ("" otherwise).
func (s *Sink) Send(ctx context.Context, target string, msg *Message) (string, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}

	// ?wait=true makes Discord return the created message object
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target+"?wait=true", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", nil // 204 No Content or non-JSON body, no message id
	}
	return created.ID, nil
}

// Update edits a previously sent message in place (best-effort)
func (s *Sink) Update(ctx context.Context, target, messageID string, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/messages/%s", target, messageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
