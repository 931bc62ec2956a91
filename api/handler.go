package api

import (
	"context"
	"net/http"
	"strconv"

	"tambola/service"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups the service layer used by the HTTP handlers
type Services struct {
	Games   service.GameService
	Tickets service.TicketFactory
	Draws   service.DrawEngine
	Winners service.WinnerService
	Prizes  service.PrizeDistributor
	Clubs   service.ClubService
}

// Handler serves the JSON API
type Handler struct {
	games   service.GameService
	tickets service.TicketFactory
	draws   service.DrawEngine
	winners service.WinnerService
	prizes  service.PrizeDistributor
	clubs   service.ClubService
	db      Pinger
}

// NewHandler creates a new Handler
func NewHandler(services Services, db Pinger) *Handler {
	return &Handler{
		games:   services.Games,
		tickets: services.Tickets,
		draws:   services.Draws,
		winners: services.Winners,
		prizes:  services.Prizes,
		clubs:   services.Clubs,
		db:      db,
	}
}

// RegisterRoutes registers the API under /api plus the health check
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/healthz", h.Health)

	api := router.Group("/api")

	games := api.Group("/games")
	games.POST("", h.CreateGame)
	games.GET("/:gameID", h.GetGame)
	games.POST("/:gameID/tickets", h.GenerateTicket)
	games.POST("/:gameID/tickets/build", h.BuildTickets)
	games.POST("/:gameID/start", h.StartGame)
	games.POST("/:gameID/reset", h.ResetGame)
	games.POST("/:gameID/draw", h.DrawNumber)
	games.GET("/:gameID/state", h.GameState)
	games.POST("/:gameID/evaluate", h.EvaluateWinners)
	games.POST("/:gameID/rewards/distribute", h.DistributeRewards)
	games.GET("/:gameID/live", h.LiveResults)

	api.GET("/players/:serial", h.PlayerDetails)
	api.GET("/players/:serial/rewards", h.PlayerRewards)

	api.GET("/rewards/config", h.RewardConfigs)
	api.PUT("/rewards/config/:id", h.UpdateRewardConfig)

	clubs := api.Group("/clubs")
	clubs.POST("", h.CreateClub)
	clubs.GET("", h.ListClubs)
	clubs.GET("/:clubID", h.GetClub)
	clubs.POST("/:clubID/players", h.AddPlayers)
	clubs.POST("/:clubID/distribute", h.DistributeClubPrizes)
}

// Health reports liveness and store reachability
func (h *Handler) Health(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// idParam parses a positive integer path parameter
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, service.ValidationError("invalid %s %q", name, c.Param(name)))
		return 0, false
	}
	return id, true
}

// forceParam reads the optional force query flag
func forceParam(c *gin.Context) (bool, bool) {
	raw := c.Query("force")
	if raw == "" {
		return false, true
	}
	force, err := strconv.ParseBool(raw)
	if err != nil {
		respondError(c, service.ValidationError("invalid force flag %q", raw))
		return false, false
	}
	return force, true
}

// bindJSON decodes the request body, answering 400 on malformed input
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, service.ValidationError("invalid request body: %v", err))
		return false
	}
	return true
}
