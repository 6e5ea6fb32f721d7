package notify

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	apperrors "github.com/pscheid92/smaas/internal/platform/errors"
)

// Handler serves path as a text/event-stream. Each request gets its own
// subscription, torn down when the client disconnects or the notifier shuts
// down.
func (n *Notifier) Handler(path string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		sub, err := n.Subscribe(path)
		if err != nil {
			if errors.Is(err, ErrNotifierClosed) {
				return apperrors.UnavailableError("server is shutting down")
			}
			return apperrors.InternalError("failed to watch file", err).WithField("path", path)
		}
		defer sub.Close()

		res := c.Response()
		header := res.Header()
		header.Set(echo.HeaderContentType, "text/event-stream")
		header.Set("Cache-Control", "no-cache")
		header.Set("Connection", "keep-alive")
		header.Set("X-Accel-Buffering", "no")
		res.WriteHeader(http.StatusOK)
		res.Flush()

		slog.InfoContext(ctx, "Change stream opened", "subscription_id", sub.ID, "path", sub.Path)

		err = sub.Run(ctx, func(f Frame) error {
			if _, err := f.WriteTo(res); err != nil {
				return err
			}
			res.Flush()
			return nil
		})

		switch {
		case err == nil:
			slog.InfoContext(ctx, "Change stream closed", "subscription_id", sub.ID)
		case errors.Is(err, ErrNotifierClosed):
			slog.InfoContext(ctx, "Change stream ended by shutdown", "subscription_id", sub.ID)
		case errors.Is(err, ErrWatchClosed):
			slog.WarnContext(ctx, "Change stream ended by watch", "subscription_id", sub.ID)
		default:
			slog.InfoContext(ctx, "Change stream write failed", "subscription_id", sub.ID, "error", err)
		}
		return nil
	}
}
