package protocol

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the command as [id, cmd].
func (c UnitCommand) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{c.ID, c.Cmd})
}

// UnmarshalJSON decodes a [id, cmd] pair.
func (c *UnitCommand) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("unit command: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("unit command: expected [id, cmd], got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &c.ID); err != nil {
		return fmt.Errorf("unit command id: %w", err)
	}
	if err := json.Unmarshal(raw[1], &c.Cmd); err != nil {
		return fmt.Errorf("unit command %d: %w", c.ID, err)
	}
	return c.Cmd.validate()
}

func (c UnitCmd) validate() error {
	switch {
	case c.Target != nil && c.Summon != nil:
		return fmt.Errorf("unit command sets both Target and Summon")
	case c.Target == nil && c.Summon == nil:
		return ErrUnknownCommand
	}
	return nil
}

// DecodeClientMsg parses a client frame. Unknown variants are an error.
func DecodeClientMsg(b []byte) (ClientMsg, error) {
	if len(b) == 0 {
		return ClientMsg{}, fmt.Errorf("empty client message")
	}

	var msg ClientMsg
	if err := json.Unmarshal(b, &msg); err != nil {
		return ClientMsg{}, fmt.Errorf("decoding client message: %w", err)
	}
	if msg.Commands == nil {
		return ClientMsg{}, ErrUnknownMessage
	}
	return msg, nil
}

// Encode serializes a server message. Exactly one variant must be set.
func Encode(msg ServerMsg) ([]byte, error) {
	if (msg.Room == nil) == (msg.Update == nil) {
		return nil, fmt.Errorf("server message must set exactly one of Room or Update")
	}
	return json.Marshal(msg)
}

// DecodeServerMsg parses a server frame. It is used by tests and tooling
// acting as a client.
func DecodeServerMsg(b []byte) (ServerMsg, error) {
	var msg ServerMsg
	if err := json.Unmarshal(b, &msg); err != nil {
		return ServerMsg{}, fmt.Errorf("decoding server message: %w", err)
	}
	if (msg.Room == nil) == (msg.Update == nil) {
		return ServerMsg{}, ErrUnknownMessage
	}
	return msg, nil
}
