package correlation

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID_Length(t *testing.T) {
	assert.Len(t, NewID(), 8)
}

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{"no header", "", false},
		{"valid header", "req-42", true},
		{"too long", strings.Repeat("a", maxInboundIDLength+1), false},
		{"control characters", "bad\nid", false},
		{"spaces", "has space", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set(Header, tt.header)
			}

			id := FromRequest(req)
			if tt.wantSame {
				assert.Equal(t, tt.header, id)
			} else {
				assert.Len(t, id, 8)
			}
		})
	}
}

func TestID_Missing(t *testing.T) {
	id, ok := ID(context.Background())
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestID_EmptyString(t *testing.T) {
	_, ok := ID(WithID(context.Background(), ""))
	assert.False(t, ok)
}

func TestHandler_AddsCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(slog.NewTextHandler(&buf, nil)))

	logger.InfoContext(WithID(context.Background(), "test1234"), "test message", "key", "value")

	output := buf.String()
	assert.Contains(t, output, "correlation_id=test1234")
	assert.Contains(t, output, "key=value")
}

func TestHandler_WithAttrs_PreservesCorrelation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(slog.NewTextHandler(&buf, nil))).With("component", "notify")

	logger.InfoContext(WithID(context.Background(), "attr1234"), "with attrs")
	logger.Info("without")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "correlation_id=attr1234")
	assert.Contains(t, lines[0], "component=notify")
	assert.NotContains(t, lines[1], "correlation_id")
}
