// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package rebuild tells the static site that content changed, either by
// calling a build hook URL or by publishing on a Valkey channel, or both.
package rebuild

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// Channel is the Valkey pub/sub channel change events are published on.
const Channel = "sitecms:content-changed"

// Event is the payload sent to the build hook and published on Channel.
type Event struct {
	Keys []string  `json:"keys"`
	At   time.Time `json:"at"`
}

// Trigger fans a change event out to the configured targets. The zero
// targets case is valid and does nothing.
type Trigger struct {
	hookURL string
	http    *http.Client
	valkey  *redis.Client
	now     func() time.Time
}

// Option configures a Trigger.
type Option func(*Trigger)

// WithHook posts every event to url.
func WithHook(url string, client *http.Client) Option {
	return func(t *Trigger) {
		t.hookURL = url
		if client != nil {
			t.http = client
		}
	}
}

// WithPublisher publishes every event on Channel.
func WithPublisher(client *redis.Client) Option {
	return func(t *Trigger) { t.valkey = client }
}

// New creates a Trigger.
func New(opts ...Option) *Trigger {
	t := &Trigger{
		http: &http.Client{Timeout: 10 * time.Second},
		now:  time.Now,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Enabled reports whether any target is configured.
func (t *Trigger) Enabled() bool {
	return t.hookURL != "" || t.valkey != nil
}

// Notify implements persist.Notifier. Failures are logged, never returned.
func (t *Trigger) Notify(ctx context.Context, keys []string) {
	if len(keys) == 0 || !t.Enabled() {
		return
	}
	ev := Event{Keys: keys, At: t.now().UTC()}
	body, err := json.Marshal(ev)
	if err != nil {
		slog.Warn("rebuild: encode event failed", "error", err)
		return
	}

	if t.hookURL != "" {
		if err := t.callHook(ctx, body); err != nil {
			slog.Warn("rebuild: build hook failed", "error", err)
		} else {
			slog.Info("rebuild triggered", "keys", len(keys))
		}
	}
	if t.valkey != nil {
		if err := t.valkey.Publish(ctx, Channel, body).Err(); err != nil {
			slog.Warn("rebuild: publish failed", "channel", Channel, "error", err)
		}
	}
}

func (t *Trigger) callHook(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.hookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("post hook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("hook returned status %d", resp.StatusCode)
	}
	return nil
}

// Subscribe delivers events published on Channel until ctx is done.
// Undecodable messages are skipped.
func Subscribe(ctx context.Context, client *redis.Client, fn func(Event)) error {
	sub := client.Subscribe(ctx, Channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", Channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				slog.Warn("rebuild: bad event", "error", err)
				continue
			}
			fn(ev)
		}
	}
}
