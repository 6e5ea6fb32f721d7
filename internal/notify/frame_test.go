package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame_WriteTo(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		want  string
	}{
		{"keep-alive", keepAliveFrame, "\n\n"},
		{"plain text", Frame{Data: "hello"}, "data: \"hello\"\n\n"},
		{"multi-line stays on one data line", Frame{Data: "<scxml>\n  <state id=\"a\"/>\n</scxml>\n"}, "data: \"<scxml>\\n  <state id=\\\"a\\\"/>\\n</scxml>\\n\"\n\n"},
		{"empty file", Frame{Data: ""}, "data: \"\"\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := tt.frame.WriteTo(&buf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
			assert.Equal(t, int64(len(tt.want)), n)
		})
	}
}
