package socket

import (
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	// unix socket paths are length limited, so avoid deep test directories
	dir, err := os.MkdirTemp("", "lb")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	server, err := NewServerIn(dir, os.Getpid(), log)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	t.Cleanup(server.Stop)
	server.Start()
	return server, dir
}

func TestSendAddRow(t *testing.T) {
	server, _ := testServer(t)

	client, err := NewClient(server.SocketPath())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	attributes := map[string]string{"priority": "high"}
	response, err := client.SendAddRow("Test row", "inbox", []string{"work"}, attributes)
	if err != nil {
		t.Fatalf("Failed to send add_row: %v", err)
	}
	if !response.Success {
		t.Errorf("Expected success=true, got success=false: %s", response.Message)
	}

	select {
	case msg := <-server.Messages():
		if msg.Command != CommandAddRow {
			t.Errorf("Expected command=%s, got command=%s", CommandAddRow, msg.Command)
		}
		if msg.Text != "Test row" || msg.Section != "inbox" {
			t.Errorf("Unexpected message: %+v", msg)
		}
		if len(msg.Tags) != 1 || msg.Tags[0] != "work" {
			t.Errorf("Expected tags [work], got %v", msg.Tags)
		}
		if msg.Attributes["priority"] != "high" {
			t.Errorf("Expected priority='high', got '%s'", msg.Attributes["priority"])
		}
		if msg.ResponseChan != nil {
			t.Errorf("add_row should be asynchronous")
		}
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for message")
	}
}

func TestSynchronousList(t *testing.T) {
	server, _ := testServer(t)

	go func() {
		msg := <-server.Messages()
		msg.ResponseChan <- &Response{Success: true, Rows: []string{"a", "b"}}
	}()

	client, err := NewClient(server.SocketPath())
	if err != nil {
		t.Fatal(err)
	}
	response, err := client.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !response.Success || len(response.Rows) != 2 {
		t.Errorf("Unexpected response: %+v", response)
	}
}

func TestMissingCommand(t *testing.T) {
	server, _ := testServer(t)
	client, err := NewClient(server.SocketPath())
	if err != nil {
		t.Fatal(err)
	}
	response, err := client.Send(Message{Text: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if response.Success {
		t.Errorf("A message without command should fail")
	}
}

func TestFindRunningInstance(t *testing.T) {
	server, dir := testServer(t)

	socketPath, pid, err := FindRunningInstanceIn(dir)
	if err != nil {
		t.Fatalf("Failed to find running instance: %v", err)
	}
	if socketPath != server.SocketPath() {
		t.Errorf("Expected socketPath=%s, got %s", server.SocketPath(), socketPath)
	}
	if pid != os.Getpid() {
		t.Errorf("Expected pid=%d, got %d", os.Getpid(), pid)
	}

	server.Stop()
	if _, _, err := FindRunningInstanceIn(dir); !errors.Is(err, ErrNoInstance) {
		t.Errorf("Expected ErrNoInstance after Stop, got %v", err)
	}
}

func TestRemoveRowWaitsForHandler(t *testing.T) {
	server, _ := testServer(t)

	go func() {
		msg := <-server.Messages()
		msg.ResponseChan <- &Response{Message: "no row with key " + msg.Key}
	}()

	client, err := NewClient(server.SocketPath())
	if err != nil {
		t.Fatal(err)
	}
	response, err := client.SendRemoveRow("r9")
	if err != nil {
		t.Fatalf("SendRemoveRow failed: %v", err)
	}
	if response.Success || response.Message != "no row with key r9" {
		t.Errorf("Unexpected response: %+v", response)
	}
}
