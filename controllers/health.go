package controllers

import (
	"madrasa_go/services"

	"github.com/gofiber/fiber/v2"
)

// HealthController exposes the liveness probe and the detailed health report.
type HealthController struct {
	Service *services.HealthService
}

func NewHealthController(service *services.HealthService) *HealthController {
	return &HealthController{Service: service}
}

// Health is a cheap liveness probe with no dependency checks.
func (hc *HealthController) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "Madrasa API",
	})
}

// HealthDetails probes the database and Redis and reports runtime metrics.
// Returns 503 when a critical dependency is down.
func (hc *HealthController) HealthDetails(c *fiber.Ctx) error {
	report := hc.Service.GetHealthReport()
	return c.Status(hc.Service.HTTPStatusForOverall(report.Status)).JSON(report)
}
