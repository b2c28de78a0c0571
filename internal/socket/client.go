package socket

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrNoInstance is returned when no running instance has a socket
var ErrNoInstance = errors.New("no running listbind instance found")

// Client represents a Unix socket client for sending commands
type Client struct {
	socketPath string
}

// FindRunningInstance finds the socket of the most recently started instance
// in SocketDir. It returns the socket path and PID.
func FindRunningInstance() (string, int, error) {
	return FindRunningInstanceIn(SocketDir())
}

// FindRunningInstanceIn finds the newest instance socket in dir
func FindRunningInstanceIn(dir string) (string, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", 0, ErrNoInstance
		}
		return "", 0, fmt.Errorf("error scanning socket directory: %w", err)
	}

	var newestSocket string
	var newestTime time.Time
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "listbind-") || !strings.HasSuffix(name, ".sock") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newestSocket == "" || info.ModTime().After(newestTime) {
			newestTime = info.ModTime()
			newestSocket = filepath.Join(dir, name)
		}
	}
	if newestSocket == "" {
		return "", 0, ErrNoInstance
	}

	pidStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(newestSocket), "listbind-"), ".sock")
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		pid = 0 // Unknown PID
	}
	return newestSocket, pid, nil
}

// NewClient creates a new client connected to the specified socket
func NewClient(socketPath string) (*Client, error) {
	if _, err := os.Stat(socketPath); err != nil {
		return nil, fmt.Errorf("socket not found: %w", err)
	}
	return &Client{socketPath: socketPath}, nil
}

// Send sends a message to the server and returns the response
func (c *Client) Send(msg Message) (*Response, error) {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to socket: %w", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(responseTimeout + time.Second))

	if err := json.NewEncoder(conn).Encode(msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	var response Response
	if err := json.NewDecoder(conn).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to receive response: %w", err)
	}
	return &response, nil
}

// SendAddRow is a convenience method to send an add_row command
func (c *Client) SendAddRow(text, section string, tags []string, attributes map[string]string) (*Response, error) {
	return c.Send(Message{
		Command:    CommandAddRow,
		Text:       text,
		Section:    section,
		Tags:       tags,
		Attributes: attributes,
	})
}

// SendRemoveRow sends a remove_row command for key
func (c *Client) SendRemoveRow(key string) (*Response, error) {
	return c.Send(Message{Command: CommandRemoveRow, Key: key})
}

// List asks the instance for its row keys
func (c *Client) List() (*Response, error) {
	return c.Send(Message{Command: CommandList})
}
