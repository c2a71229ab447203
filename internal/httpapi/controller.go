package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rtnapps/Loyalty-Program/internal/apperr"
	"github.com/rtnapps/Loyalty-Program/internal/clock"
	"github.com/rtnapps/Loyalty-Program/internal/database"
	"github.com/rtnapps/Loyalty-Program/internal/logging"
	"github.com/rtnapps/Loyalty-Program/internal/pipeline"
)

var controllerlog = logging.GetLogger("rewards-controller")

// RewardsController exposes the decision engine over HTTP.
type RewardsController struct {
	engine *pipeline.Engine
	clock  clock.Clock
}

// NewRewardsController creates a new rewards controller.
func NewRewardsController(engine *pipeline.Engine, clk clock.Clock) *RewardsController {
	return &RewardsController{engine: engine, clock: clk}
}

// PostRewards handles POST /api/v1/rewards: the single POS-facing operation
// this service exposes (spec.md §6).
func (rc *RewardsController) PostRewards(c *gin.Context) {
	var req rewardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Schema errors that prevent extracting transaction_id or any basket
		// line are fatal at ingress (spec.md §7).
		controllerlog.Warn("malformed rewards request", "error", err)
		c.JSON(http.StatusBadRequest, errorResponse{Error: "malformed request: " + err.Error()})
		return
	}

	if req.TransactionID == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "transaction_id is required"})
		return
	}

	resp, err := rc.engine.Decide(c.Request.Context(), req.toPipelineRequest(), rc.clock.Now())
	if err != nil {
		controllerlog.Error("rewards decision failed", "transaction_id", req.TransactionID, "error", err)
		status := http.StatusInternalServerError
		if fault, ok := err.(*apperr.InfraFault); ok && !fault.Retryable {
			status = http.StatusBadRequest
		}
		c.JSON(status, errorResponse{Error: "unable to compute rewards"})
		return
	}

	c.JSON(http.StatusOK, toRewardsResponse(resp))
}

// HealthCheck reports liveness; used by the orchestrator's readiness probe.
func (rc *RewardsController) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DetailedHealth reports database connectivity and pool stats, mirrored
// from order_service's admin health endpoint.
func (rc *RewardsController) DetailedHealth(c *gin.Context) {
	dbHealth := "healthy"
	if err := database.HealthCheck(); err != nil {
		dbHealth = "unhealthy: " + err.Error()
	}

	c.JSON(http.StatusOK, gin.H{
		"service":        "loyalty-decision-engine",
		"database":       dbHealth,
		"database_stats": database.Stats(),
	})
}
