package socket

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const responseTimeout = 10 * time.Second

var errShuttingDown = errors.New("server is shutting down")

// Server accepts one JSON message per connection on a unix socket and
// hands it to the UI loop through Messages.
type Server struct {
	path     string
	listener net.Listener
	messages chan Message
	done     chan struct{}
	stopOnce sync.Once
	log      logrus.FieldLogger
}

// SocketDir is $XDG_RUNTIME_DIR/tui-listbind, falling back to the user's data dir.
func SocketDir() string {
	if runtime := os.Getenv("XDG_RUNTIME_DIR"); runtime != "" {
		return filepath.Join(runtime, "tui-listbind")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "tui-listbind")
	}
	return filepath.Join(os.TempDir(), "tui-listbind")
}

// NewServer listens in SocketDir on a socket named after pid
func NewServer(pid int, log logrus.FieldLogger) (*Server, error) {
	return NewServerIn(SocketDir(), pid, log)
}

// NewServerIn listens on dir/listbind-<pid>.sock, replacing a stale socket.
func NewServerIn(dir string, pid int, log logrus.FieldLogger) (*Server, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create socket directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("listbind-%d.sock", pid))
	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}
	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", path, err)
	}
	log.WithField("path", path).Info("socket server listening")

	return &Server{
		path:     path,
		listener: listener,
		messages: make(chan Message, 10),
		done:     make(chan struct{}),
		log:      log,
	}, nil
}

// Start accepts connections in the background until Stop
func (s *Server) Start() {
	go func() {
		for {
			conn, err := s.listener.Accept()
			if err == nil {
				go s.serve(conn)
				continue
			}
			select {
			case <-s.done:
				return
			default:
				s.log.WithError(err).Warn("accept failed")
			}
		}
	}()
}

func (s *Server) serve(conn net.Conn) {
	defer conn.Close()
	resp := s.dispatch(json.NewDecoder(conn))
	if err := json.NewEncoder(conn).Encode(resp); err != nil {
		s.log.WithError(err).Debug("write response")
	}
}

// dispatch decodes one message, queues it and, for synchronous commands,
// waits for the handler's answer.
func (s *Server) dispatch(dec *json.Decoder) *Response {
	var msg Message
	if err := dec.Decode(&msg); err != nil {
		if !errors.Is(err, io.EOF) {
			s.log.WithError(err).Warn("invalid socket message")
		}
		return failure(fmt.Errorf("invalid message format: %w", err))
	}
	if msg.Command == "" {
		return failure(errors.New("missing command field"))
	}
	if synchronous(msg.Command) {
		msg.ResponseChan = make(chan *Response, 1)
	}

	select {
	case s.messages <- msg:
	case <-s.done:
		return failure(errShuttingDown)
	}
	if msg.ResponseChan == nil {
		return &Response{Success: true, Message: "Command queued"}
	}

	select {
	case resp := <-msg.ResponseChan:
		return resp
	case <-time.After(responseTimeout):
		return failure(errors.New("command timed out"))
	case <-s.done:
		return failure(errShuttingDown)
	}
}

func failure(err error) *Response {
	return &Response{Message: err.Error()}
}

// Messages delivers queued commands to the UI loop
func (s *Server) Messages() <-chan Message {
	return s.messages
}

func (s *Server) SocketPath() string {
	return s.path
}

// Stop closes the listener and removes the socket. Calling it again is a no-op.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.listener.Close()
		os.Remove(s.path)
		s.log.Info("socket server stopped")
	})
}
