package logger

import (
	"fmt"

	"till/pos/kernel"
	"till/pos/proto"
)

// Log sends a log line to the logger service.
//
// The call is best-effort: it may drop on queue full.
func Log(ctx *kernel.Context, logCap kernel.Capability, line string) kernel.SendResult {
	if ctx == nil {
		return kernel.SendErrInvalidFromCap
	}
	return ctx.SendToCapResult(logCap, uint16(proto.MsgLogLine), clip(proto.LogLinePayload(line)), kernel.Capability{})
}

// Logf formats and sends a log line; see Log.
func Logf(ctx *kernel.Context, logCap kernel.Capability, format string, args ...any) kernel.SendResult {
	return Log(ctx, logCap, fmt.Sprintf(format, args...))
}

// clip truncates to the IPC payload limit without splitting a UTF-8 sequence.
func clip(b []byte) []byte {
	if len(b) <= kernel.MaxMessageBytes {
		return b
	}
	n := kernel.MaxMessageBytes
	for n > 0 && b[n]&0xC0 == 0x80 {
		n--
	}
	return b[:n]
}
