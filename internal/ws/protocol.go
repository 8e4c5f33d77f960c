// Package ws exposes a Supervisor to a local front-end over a websocket and
// a small JSON HTTP API.
package ws

import (
	"github.com/vrclog/roundwatch/pkg/roundwatch"
)

// MessageType is the "type" field of a server-to-client message.
type MessageType string

// Notification kinds are sent with their own names as the message type.
const (
	MsgStatus MessageType = "status"
	MsgError  MessageType = "error"
)

// WSMessage is a server-to-client message.
type WSMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// CommandType is the "type" field of a client-to-server command.
type CommandType string

const (
	CmdStartWatch      CommandType = "start_watch"
	CmdSendReset       CommandType = "send_reset"
	CmdToggleRecording CommandType = "toggle_recording"
	CmdStatus          CommandType = "status"
)

// Command is a client-to-server command. Targets takes precedence over
// TargetList for start_watch.
type Command struct {
	Type       CommandType         `json:"type"`
	Targets    []roundwatch.Target `json:"targets,omitempty"`
	TargetList string              `json:"target_list,omitempty"`
	Enabled    *bool               `json:"enabled,omitempty"`
}

// targets resolves the target list carried by a start_watch command.
func (c Command) targets() []roundwatch.Target {
	if len(c.Targets) > 0 {
		return c.Targets
	}
	return roundwatch.ParseTargets(c.TargetList)
}

// notificationMessage converts a notification to its wire form. log-hit
// carries the number and recording-new-player the name; the other kinds have
// a null payload.
func notificationMessage(n roundwatch.Notification) WSMessage {
	msg := WSMessage{Type: MessageType(n.Kind)}
	switch n.Kind {
	case roundwatch.NotifyLogHit:
		msg.Payload = n.Number
	case roundwatch.NotifyNewPlayer:
		msg.Payload = n.Name
	}
	return msg
}
