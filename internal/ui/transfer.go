package ui

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// transferFrames matches the phase symbols for a consistent look.
var transferFrames = spinner.Spinner{
	Frames: []string{"◐", "◓", "◑", "◒"},
	FPS:    time.Second / 10,
}

type transferLineMsg string

type transferDoneMsg struct{}

// transferModel is a Bubble Tea model showing an animated spinner plus the
// most recent rclone progress line.
type transferModel struct {
	spinner  spinner.Model
	label    string
	lastLine string
	quitting bool
}

func newTransferModel(label string) transferModel {
	sp := spinner.New()
	sp.Spinner = transferFrames
	sp.Style = lipgloss.NewStyle().Foreground(ColorSecondary)

	return transferModel{spinner: sp, label: label}
}

func (m transferModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m transferModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case transferLineMsg:
		m.lastLine = string(msg)
		return m, nil
	case transferDoneMsg:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m transferModel) View() string {
	if m.quitting {
		// The final status line belongs to the phase display.
		return ""
	}

	var b strings.Builder
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(m.label)
	b.WriteString("\n")
	if m.lastLine != "" {
		muted := lipgloss.NewStyle().Foreground(ColorMuted)
		b.WriteString("  " + muted.Render(m.lastLine) + "\n")
	}
	return b.String()
}

// TransferDisplay renders a live transfer view fed by rclone's progress
// output. Callers stream output into Writer() and call Finish when the
// transfer ends.
type TransferDisplay struct {
	prog *tea.Program
	done chan struct{}
	once sync.Once
}

// NewTransferDisplay creates a transfer display with the given label.
func NewTransferDisplay(label string) *TransferDisplay {
	return &TransferDisplay{
		prog: tea.NewProgram(newTransferModel(label)),
		done: make(chan struct{}),
	}
}

// Start launches the view. It must be called before writing progress.
func (t *TransferDisplay) Start() {
	go func() {
		defer close(t.done)
		_, _ = t.prog.Run()
	}()
}

// Writer returns the sink for rclone's progress output. Each complete
// line (rclone redraws with carriage returns) updates the view.
func (t *TransferDisplay) Writer() io.Writer {
	return &lineWriter{send: func(line string) {
		t.prog.Send(transferLineMsg(line))
	}}
}

// Finish stops the view and waits for the terminal to be restored.
func (t *TransferDisplay) Finish() {
	t.once.Do(func() {
		t.prog.Send(transferDoneMsg{})
		<-t.done
	})
}

// lineWriter splits a byte stream into lines on \n and \r and forwards
// non-empty lines.
type lineWriter struct {
	send func(string)
	buf  bytes.Buffer
}

func (w *lineWriter) Write(p []byte) (int, error) {
	for _, b := range p {
		if b == '\n' || b == '\r' {
			line := strings.TrimSpace(w.buf.String())
			w.buf.Reset()
			if line != "" {
				w.send(line)
			}
			continue
		}
		w.buf.WriteByte(b)
	}
	return len(p), nil
}
