package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Frame is one server-sent event. A keep-alive frame carries no data and is
// written as a bare blank line.
type Frame struct {
	Data      string
	KeepAlive bool
}

var keepAliveFrame = Frame{KeepAlive: true}

// WriteTo renders the frame in text/event-stream framing. Data frames carry
// the file contents as a single JSON string.
func (f Frame) WriteTo(w io.Writer) (int64, error) {
	if f.KeepAlive {
		n, err := io.WriteString(w, "\n\n")
		return int64(n), err
	}

	var encoded bytes.Buffer
	enc := json.NewEncoder(&encoded)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(f.Data); err != nil {
		return 0, fmt.Errorf("failed to encode frame: %w", err)
	}

	n, err := fmt.Fprintf(w, "data: %s\n\n", bytes.TrimSuffix(encoded.Bytes(), []byte("\n")))
	return int64(n), err
}
