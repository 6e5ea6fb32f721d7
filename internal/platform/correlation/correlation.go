// Package correlation ties log lines of one request together through an id
// carried in the request context.
package correlation

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
)

const Header = "X-Request-ID"

// Inbound ids longer than this, or with bytes outside printable ASCII, are
// replaced rather than echoed into logs and response headers.
const maxInboundIDLength = 64

const attrKey = "correlation_id"

type contextKey struct{}

// NewID returns 8 random hex characters.
func NewID() string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

func FromRequest(r *http.Request) string {
	id := r.Header.Get(Header)
	if !acceptable(id) {
		return NewID()
	}
	return id
}

func acceptable(id string) bool {
	if id == "" || len(id) > maxInboundIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// ID reports the id stored by WithID. An empty id counts as absent.
func ID(ctx context.Context) (string, bool) {
	id, _ := ctx.Value(contextKey{}).(string)
	return id, id != ""
}

// Handler decorates every record logged with a request context by
// correlation_id. Records logged without one pass through unchanged.
type Handler struct {
	slog.Handler
}

func NewHandler(inner slog.Handler) *Handler {
	return &Handler{Handler: inner}
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := ID(ctx); ok {
		r.AddAttrs(slog.String(attrKey, id))
	}
	if err := h.Handler.Handle(ctx, r); err != nil {
		return fmt.Errorf("correlation handler: %w", err)
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewHandler(h.Handler.WithAttrs(attrs))
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return NewHandler(h.Handler.WithGroup(name))
}
