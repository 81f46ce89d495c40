package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Recorder writes every message the editor handles, and the frame it
// rendered afterwards, to a directory for debugging.
type Recorder struct {
	logFile  *os.File
	frameDir string
	frameNum int
}

// NewRecorder creates dir and starts a log inside it.
func NewRecorder(dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create recording directory: %w", err)
	}

	logPath := filepath.Join(dir, "editor.log")
	logFile, err := os.Create(filepath.Clean(logPath)) // #nosec G304 -- path under the requested directory
	if err != nil {
		return nil, fmt.Errorf("failed to create recording log: %w", err)
	}

	r := &Recorder{logFile: logFile, frameDir: dir}
	r.Log("Recording started at %s", dir)
	return r, nil
}

// Dir returns the recording directory.
func (r *Recorder) Dir() string {
	return r.frameDir
}

// Frames returns how many frames were captured.
func (r *Recorder) Frames() int {
	return r.frameNum
}

// RecordState captures the model after it handled msg.
func (r *Recorder) RecordState(m Model, msg tea.Msg) {
	r.frameNum++

	r.Log("\n=== Frame %d ===", r.frameNum)
	r.Log("Time: %s", time.Now().Format("15:04:05.000"))
	r.Log("Message Type: %T", msg)
	r.Log("Mode: %d", m.mode)
	if tab := m.registry.Active(); tab != nil {
		r.Log("Tab: %s (%d rows), cursor %d:%d", tab.Name, len(tab.TableData), m.row, m.col)
	}

	view := m.View()
	framePath := filepath.Join(r.frameDir, fmt.Sprintf("frame-%04d.txt", r.frameNum))
	if err := os.WriteFile(framePath, []byte(view), 0600); err != nil {
		r.Log("Error saving frame: %v", err)
	}
}

// Log writes to the log file.
func (r *Recorder) Log(format string, args ...any) {
	if r.logFile == nil {
		return
	}
	if _, err := fmt.Fprintf(r.logFile, format+"\n", args...); err != nil {
		return
	}
	_ = r.logFile.Sync()
}

// Close closes the recorder.
func (r *Recorder) Close() {
	if r.logFile != nil {
		r.Log("Recording complete. %d frames captured.", r.frameNum)
		_ = r.logFile.Close() // Best effort close
		r.logFile = nil
	}
}

// recordingModel records every update of the wrapped editor.
type recordingModel struct {
	rec   *Recorder
	inner Model
}

func (r recordingModel) Init() tea.Cmd {
	return r.inner.Init()
}

func (r recordingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := r.inner.Update(msg)
	if m, ok := next.(Model); ok {
		r.inner = m
		r.rec.RecordState(m, msg)
	}
	return r, cmd
}

func (r recordingModel) View() string {
	return r.inner.View()
}
