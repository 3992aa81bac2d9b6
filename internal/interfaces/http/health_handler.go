package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/field-assets-api/internal/application/dto"
)

// Pinger dependencia que se puede sondear (pool de Postgres, Redis).
type Pinger interface {
	Ping(ctx context.Context) error
}

const healthTimeout = 2 * time.Second

// HealthHandler estado del servicio y sus dependencias.
type HealthHandler struct {
	db    Pinger
	cache Pinger // nil = caché deshabilitada
}

// NewHealthHandler construye el handler. cache puede ser nil.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Check godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Failure      503  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Database: pingStatus(ctx, h.db), Cache: "disabled"}
	if h.cache != nil {
		// La caché es opcional: su caída degrada pero no tumba el servicio.
		resp.Cache = pingStatus(ctx, h.cache)
	}
	if resp.Database != "up" {
		resp.Status = "degraded"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}

func pingStatus(ctx context.Context, p Pinger) string {
	if p == nil {
		return "down"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
