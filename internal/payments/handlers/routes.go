package handlers

import "github.com/labstack/echo/v4"

func Register(e *echo.Echo, create *CreatePaymentHandler, summary *GetSummaryHandler, purge *PurgeHandler) {
	e.POST("/payments", create.Handle)
	e.GET("/payments-summary", summary.Handle)
	e.POST("/purge-payments", purge.Handle)
	e.GET("/healthcheck", HealthCheck)
}
