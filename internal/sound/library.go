package sound

import (
	"fmt"
	"io"
	"sync"

	"github.com/gopxl/beep/wav"
	"github.com/orcaman/writerseeker"

	"pokermoon/internal/feedback"
)

// Library renders cues on first use and keeps the encoded WAV bytes.
type Library struct {
	mu    sync.RWMutex
	store map[feedback.Cue][]byte
}

func NewLibrary() *Library {
	return &Library{store: make(map[feedback.Cue][]byte)}
}

// WAV returns the encoded cue. Callers must not modify the returned bytes.
func (l *Library) WAV(c feedback.Cue) ([]byte, error) {
	l.mu.RLock()
	if b, ok := l.store[c]; ok {
		l.mu.RUnlock()
		return b, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if b, ok := l.store[c]; ok {
		return b, nil
	}
	b, err := Render(c)
	if err != nil {
		return nil, err
	}
	l.store[c] = b
	return b, nil
}

// Preload renders every cue up front.
func (l *Library) Preload() error {
	for _, c := range feedback.Cues() {
		if _, err := l.WAV(c); err != nil {
			return err
		}
	}
	return nil
}

// Render synthesizes and encodes one cue.
func Render(c feedback.Cue) ([]byte, error) {
	s, err := Streamer(c)
	if err != nil {
		return nil, err
	}
	// wav.Encode seeks back to patch the header sizes
	var ws writerseeker.WriterSeeker
	if err := wav.Encode(&ws, s, Format); err != nil {
		return nil, fmt.Errorf("encode %v: %w", c, err)
	}
	return io.ReadAll(ws.Reader())
}
