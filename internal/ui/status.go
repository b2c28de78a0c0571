package ui

import (
	"sync"
	"time"
)

// Message is a status line message
type Message struct {
	Text      string
	Error     bool
	Timestamp time.Time
}

// StatusLog keeps the last status messages for the status line. Socket
// handlers and the UI loop both write to it.
type StatusLog struct {
	mu       sync.Mutex
	messages []Message
	maxSize  int
	ttl      time.Duration
	now      func() time.Time
}

// NewStatusLog keeps up to maxSize messages; each is shown for ttl
func NewStatusLog(maxSize int, ttl time.Duration) *StatusLog {
	return &StatusLog{maxSize: maxSize, ttl: ttl, now: time.Now}
}

// Info adds a message
func (l *StatusLog) Info(text string) {
	l.add(text, false)
}

// Error adds an error message
func (l *StatusLog) Error(text string) {
	l.add(text, true)
}

func (l *StatusLog) add(text string, isErr bool) {
	if text == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, Message{Text: text, Error: isErr, Timestamp: l.now()})
	if len(l.messages) > l.maxSize {
		l.messages = l.messages[len(l.messages)-l.maxSize:]
	}
}

// Current returns the newest message while it has not expired
func (l *StatusLog) Current() (Message, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.messages) == 0 {
		return Message{}, false
	}
	msg := l.messages[len(l.messages)-1]
	if l.ttl > 0 && l.now().Sub(msg.Timestamp) > l.ttl {
		return Message{}, false
	}
	return msg, true
}

// Messages returns all kept messages, newest first
func (l *StatusLog) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]Message, len(l.messages))
	for i, msg := range l.messages {
		result[len(l.messages)-1-i] = msg
	}
	return result
}

// RenderStatusLine draws the mode label and the current message on row y
func RenderStatusLine(screen *Screen, y int, mode string, log *StatusLog) {
	width := screen.GetWidth()
	screen.Fill(0, y, width, 1, screen.BackgroundStyle())

	x := 0
	if mode != "" {
		x = screen.DrawString(0, y, " "+mode+" ", screen.StatusModeStyle()) + 1
	}
	msg, ok := log.Current()
	if !ok {
		return
	}
	style := screen.StatusMessageStyle()
	if msg.Error {
		style = screen.StatusErrorStyle()
	}
	screen.DrawStringLimited(x, y, msg.Text, width-x, style)
}
