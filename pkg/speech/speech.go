// Package speech defines the adapter interfaces between the core pipeline
// and the speech periphery: capture (microphone + speech-to-text) on the way
// in, playback (text-to-speech) on the way out.
//
// The core treats both as external collaborators. Capture confidence is
// advisory metadata only — it never alters pipeline behaviour — and playback
// is fire-and-forget from the pipeline's perspective.
package speech

import "context"

// CapturedUtterance is one recognised utterance delivered by a capture
// adapter.
type CapturedUtterance struct {
	// Text is the recognised speech content.
	Text string

	// Language is the language tag the recogniser operated in.
	Language string

	// Confidence is the recogniser's confidence in [0, 1]. Advisory only.
	Confidence float64
}

// Capture supplies utterances from some speech source. Implementations may
// block in Next until an utterance is available, the source is exhausted
// (io.EOF), or ctx is cancelled.
type Capture interface {
	// Next returns the next captured utterance.
	Next(ctx context.Context) (CapturedUtterance, error)

	// Close releases the underlying audio resources.
	Close() error
}

// Playback synthesizes and plays a finished response. Implementations must
// be safe for concurrent use.
type Playback interface {
	// Speak hands text to the synthesis backend. The returned error is a
	// simple success/failure signal for the UI layer; the pipeline does not
	// depend on it.
	Speak(ctx context.Context, text, language string) error
}

// PlaybackFunc adapts a function to the [Playback] interface.
type PlaybackFunc func(ctx context.Context, text, language string) error

// Speak implements [Playback].
func (f PlaybackFunc) Speak(ctx context.Context, text, language string) error {
	return f(ctx, text, language)
}
