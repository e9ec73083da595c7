// Package logspeaker provides a [speech.Playback] implementation that logs
// the response instead of synthesizing audio. Used when no real TTS backend
// is wired up (headless deployments, development, tests).
package logspeaker

import (
	"context"
	"log/slog"

	"github.com/AnmolMathad15/real-time-linguistic-bridge/pkg/speech"
)

// Speaker logs each Speak call at info level.
type Speaker struct{}

var _ speech.Playback = (*Speaker)(nil)

// New returns a ready Speaker.
func New() *Speaker { return &Speaker{} }

// Speak implements [speech.Playback].
func (s *Speaker) Speak(ctx context.Context, text, language string) error {
	slog.Info("speak", "language", language, "text", text)
	return nil
}
