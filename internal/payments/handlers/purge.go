package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Purger interface {
	Purge(ctx context.Context) error
}

type QueueClearer interface {
	Clear() int
}

type PurgeHandler struct {
	store Purger
	queue QueueClearer
}

func NewPurgeHandler(store Purger, queue QueueClearer) *PurgeHandler {
	return &PurgeHandler{store: store, queue: queue}
}

// Handle flushes the shared store and drops anything still queued locally.
func (h *PurgeHandler) Handle(c echo.Context) error {
	if h.queue != nil {
		h.queue.Clear()
	}
	if err := h.store.Purge(c.Request().Context()); err != nil {
		c.Logger().Errorf("failed to purge payments: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to purge payments"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "payments purged"})
}

func HealthCheck(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
