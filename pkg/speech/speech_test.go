package speech_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/AnmolMathad15/real-time-linguistic-bridge/pkg/speech"
	"github.com/AnmolMathad15/real-time-linguistic-bridge/pkg/speech/mock"
)

func TestMockCapture_ReplaysThenEOF(t *testing.T) {
	t.Parallel()

	c := mock.NewCapture(
		speech.CapturedUtterance{Text: "kitna hai", Language: "hindi", Confidence: 0.9},
		speech.CapturedUtterance{Text: "do you have rice", Language: "english", Confidence: 0.8},
	)
	ctx := context.Background()

	first, err := c.Next(ctx)
	if err != nil || first.Text != "kitna hai" || first.Language != "hindi" {
		t.Fatalf("first = %+v, %v", first, err)
	}
	second, err := c.Next(ctx)
	if err != nil || second.Text != "do you have rice" {
		t.Fatalf("second = %+v, %v", second, err)
	}
	if _, err := c.Next(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("exhausted capture returned %v, want io.EOF", err)
	}
}

func TestMockCapture_CloseStopsDelivery(t *testing.T) {
	t.Parallel()

	c := mock.NewCapture(speech.CapturedUtterance{Text: "hello", Language: "english"})
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := c.Next(context.Background()); !errors.Is(err, io.EOF) {
		t.Errorf("closed capture returned %v, want io.EOF", err)
	}
}

func TestMockCapture_HonoursContext(t *testing.T) {
	t.Parallel()

	c := mock.NewCapture(speech.CapturedUtterance{Text: "hello", Language: "english"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled Next returned %v, want context.Canceled", err)
	}
}

func TestPlaybackFunc(t *testing.T) {
	t.Parallel()

	var gotText, gotLang string
	var p speech.Playback = speech.PlaybackFunc(func(ctx context.Context, text, language string) error {
		gotText, gotLang = text, language
		return nil
	})
	if err := p.Speak(context.Background(), "namaste", "hindi"); err != nil {
		t.Fatalf("Speak: %v", err)
	}
	if gotText != "namaste" || gotLang != "hindi" {
		t.Errorf("Speak forwarded (%q, %q)", gotText, gotLang)
	}
}
