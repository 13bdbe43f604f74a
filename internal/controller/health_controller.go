package controller

import (
	"context"
	"net/http"
	"time"

	"risk-copilot-be/internal/dto"
	"risk-copilot-be/internal/model"
	"risk-copilot-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	db         *gorm.DB
	rdb        *redis.Client
	llmBaseURL string
	httpClient *http.Client
	startedAt  time.Time
}

func NewHealthController(db *gorm.DB, rdb *redis.Client, llmBaseURL string) IHealthController {
	return &healthController{
		db:         db,
		rdb:        rdb,
		llmBaseURL: llmBaseURL,
		httpClient: &http.Client{Timeout: 2 * time.Second},
		startedAt:  time.Now(),
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

// Health reports per-component status. Degraded components do not change
// the HTTP status; the body carries the detail.
func (c *healthController) Health(ctx *fiber.Ctx) error {
	components := map[string]string{}
	status := "ok"

	if sqlDB, err := c.db.DB(); err != nil || sqlDB.PingContext(ctx.Context()) != nil {
		components["database"] = "down"
		status = "degraded"
	} else {
		components["database"] = "ok"
	}

	var chunkCount int64
	if err := c.db.WithContext(ctx.Context()).Model(&model.PolicyChunk{}).Count(&chunkCount).Error; err != nil {
		components["index"] = "down"
		status = "degraded"
	} else if chunkCount == 0 {
		components["index"] = "empty"
	} else {
		components["index"] = "ok"
	}

	components["llm"] = probeHTTP(ctx.Context(), c.httpClient, c.llmBaseURL)
	if components["llm"] == "down" {
		status = "degraded"
	}

	if c.rdb == nil {
		components["redis"] = "disabled"
	} else if err := c.rdb.Ping(ctx.Context()).Err(); err != nil {
		components["redis"] = "down"
		status = "degraded"
	} else {
		components["redis"] = "ok"
	}

	return ctx.JSON(serverutils.SuccessResponse("Health check", dto.HealthResponse{
		Status:        status,
		Components:    components,
		UptimeSeconds: int64(time.Since(c.startedAt).Seconds()),
	}))
}

// probeHTTP checks that the provider endpoint answers at all; any HTTP
// status counts as reachable.
func probeHTTP(ctx context.Context, client *http.Client, baseURL string) string {
	if baseURL == "" {
		return "unconfigured"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return "down"
	}
	res, err := client.Do(req)
	if err != nil {
		return "down"
	}
	res.Body.Close()
	return "ok"
}
