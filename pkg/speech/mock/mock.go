// Package mock provides in-memory speech adapters for tests.
package mock

import (
	"context"
	"io"
	"sync"

	"github.com/AnmolMathad15/real-time-linguistic-bridge/pkg/speech"
)

// Capture replays a fixed list of utterances, then returns io.EOF.
type Capture struct {
	mu         sync.Mutex
	utterances []speech.CapturedUtterance
	next       int
	closed     bool
}

var _ speech.Capture = (*Capture)(nil)

// NewCapture creates a Capture that yields the given utterances in order.
func NewCapture(utterances ...speech.CapturedUtterance) *Capture {
	return &Capture{utterances: utterances}
}

// Next implements [speech.Capture].
func (c *Capture) Next(ctx context.Context) (speech.CapturedUtterance, error) {
	if err := ctx.Err(); err != nil {
		return speech.CapturedUtterance{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.next >= len(c.utterances) {
		return speech.CapturedUtterance{}, io.EOF
	}
	u := c.utterances[c.next]
	c.next++
	return u, nil
}

// Close implements [speech.Capture].
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Playback records every Speak call for assertions.
type Playback struct {
	mu    sync.Mutex
	calls []SpokenText

	// Err, when non-nil, is returned from every Speak call.
	Err error
}

// SpokenText is one recorded Speak invocation.
type SpokenText struct {
	Text     string
	Language string
}

var _ speech.Playback = (*Playback)(nil)

// NewPlayback creates an empty recording Playback.
func NewPlayback() *Playback { return &Playback{} }

// Speak implements [speech.Playback].
func (p *Playback) Speak(ctx context.Context, text, language string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, SpokenText{Text: text, Language: language})
	return p.Err
}

// Calls returns a copy of all recorded Speak invocations.
func (p *Playback) Calls() []SpokenText {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]SpokenText, len(p.calls))
	copy(out, p.calls)
	return out
}
