// Package clipboard copies citation text to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when clipboard access is not available.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// Writer receives copied text.
type Writer interface {
	WriteAll(text string) error
}

// Hooks over the system clipboard, replaced in tests.
var (
	writeAll    = clipboard.WriteAll
	unsupported = func() bool { return clipboard.Unsupported }
)

// IsAvailable checks if clipboard functionality is available on this system.
func IsAvailable() bool {
	return !unsupported()
}

// Copy copies the given text to the system clipboard.
// Returns ErrClipboardUnavailable if clipboard access is not available.
func Copy(text string) error {
	if !IsAvailable() {
		return ErrClipboardUnavailable
	}
	if err := writeAll(text); err != nil {
		return fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
	}
	return nil
}

// System writes to the system clipboard.
type System struct{}

// WriteAll implements Writer.
func (System) WriteAll(text string) error {
	return Copy(text)
}

// Memory is an in-process clipboard for headless use.
type Memory struct {
	mu   sync.Mutex
	text string
}

// WriteAll implements Writer.
func (m *Memory) WriteAll(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

// Text returns the last copied text.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}
