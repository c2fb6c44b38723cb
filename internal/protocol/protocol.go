// Package protocol defines the JSON messages exchanged between the sandbox
// server and its remote viewers.
package protocol

import (
	"encoding/json"
	"fmt"
	"strings"

	"mad-sand/internal/core"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Version is sent in Hello so viewers can reject an incompatible server.
const Version = "1"

// Client to server message types.
const (
	TypePaint  = "PAINT"
	TypeSelect = "SELECT"
	TypeClear  = "CLEAR"
)

// Server to client message types.
const (
	TypeHello = "HELLO"
	TypeFrame = "FRAME"
)

// Command is one inbound viewer request.
type Command struct {
	Type string `json:"type"`
	X    int    `json:"x,omitempty"`
	Y    int    `json:"y,omitempty"`
	Tag  string `json:"tag,omitempty"`
}

// Hello is sent once per connection before any frame.
type Hello struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	Width           int      `json:"w"`
	Height          int      `json:"h"`
	Tags            []string `json:"tags"`
}

// Frame carries the changed cells of one redraw as [x, y, value] triples.
type Frame struct {
	Type    string   `json:"type"`
	Tick    uint64   `json:"tick"`
	Full    bool     `json:"full,omitempty"`
	Changes [][3]int `json:"changes"`
}

// NewFrame packs change records for the wire.
func NewFrame(tick uint64, full bool, changes []core.Change) Frame {
	out := make([][3]int, len(changes))
	for i, c := range changes {
		out[i] = [3]int{c.X, c.Y, int(c.Value)}
	}
	return Frame{Type: TypeFrame, Tick: tick, Full: full, Changes: out}
}

const commandSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["type"],
  "oneOf": [
    {
      "properties": {
        "type": {"const": "PAINT"},
        "x": {"type": "integer"},
        "y": {"type": "integer"}
      },
      "required": ["x", "y"]
    },
    {
      "properties": {
        "type": {"const": "SELECT"},
        "tag": {"type": "string", "minLength": 1, "maxLength": 8}
      },
      "required": ["tag"]
    },
    {
      "properties": {
        "type": {"const": "CLEAR"}
      }
    }
  ]
}`

var commandValidator = jsonschema.MustCompileString("command.schema.json", commandSchema)

// DecodeCommand validates and decodes one inbound message.
func DecodeCommand(raw []byte) (Command, error) {
	var cmd Command
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return cmd, fmt.Errorf("bad json: %w", err)
	}
	if err := commandValidator.Validate(doc); err != nil {
		return cmd, fmt.Errorf("invalid command: %s", strings.TrimSpace(err.Error()))
	}
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return cmd, fmt.Errorf("decode command: %w", err)
	}
	return cmd, nil
}
