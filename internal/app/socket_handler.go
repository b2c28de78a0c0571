package app

import (
	"fmt"

	"github.com/pstuifzand/tui-listbind/internal/socket"
)

// handleSocketMessage processes messages received from the Unix socket
func (a *App) handleSocketMessage(msg socket.Message) {
	a.log.WithField("command", msg.Command).WithField("text", msg.Text).Debug("socket message")

	resp := a.runSocketCommand(msg)
	if msg.ResponseChan != nil {
		msg.ResponseChan <- resp
	} else if !resp.Success {
		a.status.Error(resp.Message)
	}
}

func (a *App) runSocketCommand(msg socket.Message) *socket.Response {
	switch msg.Command {
	case socket.CommandAddRow:
		key, err := a.addRow(msg.Section, msg.Text, msg.Tags, msg.Attributes)
		if err != nil {
			a.log.WithError(err).Warn("add_row failed")
			return &socket.Response{Message: err.Error()}
		}
		a.status.Info("Added " + msg.Text)
		return &socket.Response{Success: true, Message: key}
	case socket.CommandRemoveRow:
		if a.deleteRows(msg.Key) == 0 {
			return &socket.Response{Message: "no row with key " + msg.Key}
		}
		return &socket.Response{Success: true, Message: "removed " + msg.Key}
	case socket.CommandList:
		rows := a.rowKeys()
		return &socket.Response{Success: true, Message: fmt.Sprintf("%d rows", len(rows)), Rows: rows}
	default:
		a.log.WithField("command", msg.Command).Warn("unknown socket command")
		return &socket.Response{Message: "unknown command: " + msg.Command}
	}
}
