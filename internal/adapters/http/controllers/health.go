package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status   string            `json:"status" example:"ok"`
	Services map[string]string `json:"services" example:"mongodb:ok,redis:ok,rabbitmq:ok"`
}

type HealthChecker struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthController struct {
	checkers []HealthChecker
	timeout  time.Duration
}

// NewHealthController bounds each check by timeout so one hung dependency
// cannot stall the probe.
func NewHealthController(timeout time.Duration, checkers ...HealthChecker) *HealthController {
	return &HealthController{checkers: checkers, timeout: timeout}
}

// Health godoc
// @Summary     Health check
// @Description Checks MongoDB, Redis and RabbitMQ
// @Tags        health
// @Produce     json
// @Success     200 {object} HealthResponse
// @Failure     503 {object} HealthResponse
// @Router      /api/v1/health [get]
func (h *HealthController) Health(c *gin.Context) {
	status := "ok"
	services := make(map[string]string, len(h.checkers))

	for _, checker := range h.checkers {
		if err := h.check(c.Request.Context(), checker); err != nil {
			services[checker.Name] = err.Error()
			status = "degraded"
		} else {
			services[checker.Name] = "ok"
		}
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status:   status,
		Services: services,
	})
}

func (h *HealthController) check(ctx context.Context, checker HealthChecker) error {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	return checker.Check(ctx)
}
