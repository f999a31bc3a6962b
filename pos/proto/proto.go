package proto

import "strings"

// Kind identifies the message type carried in kernel.Message.Kind.
type Kind uint16

const (
	// MsgLogLine carries one UTF-8 log line; see LogLinePayload.
	MsgLogLine Kind = iota + 1
	// MsgTermInput carries VT100 key bytes. A message never ends inside an escape sequence.
	MsgTermInput
	// MsgPointer carries a press or release; see PointerPayload.
	MsgPointer
	// MsgAppShutdown has no payload. The receiving app unmounts and exits.
	MsgAppShutdown
)

func (k Kind) String() string {
	switch k {
	case MsgLogLine:
		return "log_line"
	case MsgTermInput:
		return "term_input"
	case MsgPointer:
		return "pointer"
	case MsgAppShutdown:
		return "app_shutdown"
	default:
		return "unknown"
	}
}

// LogLinePayload encodes a MsgLogLine payload: the line without trailing newlines.
// The logger service adds its own line ending.
func LogLinePayload(line string) []byte {
	return []byte(strings.TrimRight(line, "\r\n"))
}
