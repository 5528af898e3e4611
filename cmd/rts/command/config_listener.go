package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-rts/internal/listener"
	"github.com/pixil98/go-service"
)

type ListenerType int

const (
	ListenerTypeWebsocket ListenerType = iota
	ListenerTypeTelnet
	ListenerTypeSSH
)

func (lt *ListenerType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "websocket":
		*lt = ListenerTypeWebsocket
	case "telnet":
		*lt = ListenerTypeTelnet
	case "ssh":
		*lt = ListenerTypeSSH
	default:
		return fmt.Errorf("unknown listener type: %s", text)
	}
	return nil
}

func (lt ListenerType) String() string {
	switch lt {
	case ListenerTypeWebsocket:
		return "websocket"
	case ListenerTypeTelnet:
		return "telnet"
	case ListenerTypeSSH:
		return "ssh"
	default:
		return fmt.Sprintf("ListenerType(%d)", int(lt))
	}
}

type ListenerConfig struct {
	Protocol     ListenerType `json:"protocol"`
	Port         uint16       `json:"port"`
	MessageRate  float64      `json:"message_rate,omitempty"`
	MessageBurst int          `json:"message_burst,omitempty"`
	HostKeyPath  string       `json:"host_key_path,omitempty"`
}

func (cl *ListenerConfig) validate() error {
	el := errors.NewErrorList()

	if cl.Port == 0 {
		el.Add(fmt.Errorf("port must be set to a positive integer"))
	}
	if cl.MessageRate < 0 {
		el.Add(fmt.Errorf("message_rate must not be negative"))
	}
	if cl.MessageBurst < 0 {
		el.Add(fmt.Errorf("message_burst must not be negative"))
	}
	if cl.Protocol != ListenerTypeWebsocket && (cl.MessageRate != 0 || cl.MessageBurst != 0) {
		el.Add(fmt.Errorf("message limits only apply to websocket listeners"))
	}
	if cl.Protocol != ListenerTypeSSH && cl.HostKeyPath != "" {
		el.Add(fmt.Errorf("host_key_path only applies to ssh listeners"))
	}

	return el.Err()
}

func (cl *ListenerConfig) BuildListener(rooms listener.Rooms, cm *listener.ConnectionManager) (service.Worker, error) {
	switch cl.Protocol {
	case ListenerTypeWebsocket:
		return listener.NewWebsocketListener(cl.Port, rooms, listener.WithMessageRate(cl.MessageRate, cl.MessageBurst)), nil
	case ListenerTypeTelnet:
		return listener.NewTelnetListener(cl.Port, cm), nil
	case ListenerTypeSSH:
		hostKey, err := listener.LoadHostKey(cl.HostKeyPath)
		if err != nil {
			return nil, fmt.Errorf("setting up ssh host key: %w", err)
		}
		return listener.NewSshListener(cl.Port, cm, hostKey), nil
	default:
		return nil, fmt.Errorf("unknown listener type: %v", cl.Protocol)
	}
}
