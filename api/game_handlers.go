package api

import (
	"net/http"

	"tambola/models"
	"tambola/service"

	"github.com/gin-gonic/gin"
)

type createGameRequest struct {
	Name     string  `json:"name"`
	TimeSlot *string `json:"timeSlot"`
}

type ticketRequest struct {
	PlayerName string  `json:"playerName"`
	EmailID    string  `json:"emailId"`
	UserID     *string `json:"userId"`
}

func (r ticketRequest) identity() models.PlayerIdentity {
	return models.PlayerIdentity{Name: r.PlayerName, Email: r.EmailID, UserID: r.UserID}
}

type buildTicketsRequest struct {
	ticketRequest
	Count int `json:"count"`
}

type updateRewardConfigRequest struct {
	Amount   *int64 `json:"amount"`
	IsActive *bool  `json:"isActive"`
}

func (h *Handler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if !bindJSON(c, &req) {
		return
	}
	game, err := h.games.CreateGame(c.Request.Context(), req.Name, req.TimeSlot)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

func (h *Handler) GetGame(c *gin.Context) {
	gameID, ok := idParam(c, "gameID")
	if !ok {
		return
	}
	game, err := h.games.GetGame(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

func (h *Handler) GenerateTicket(c *gin.Context) {
	gameID, ok := idParam(c, "gameID")
	if !ok {
		return
	}
	var req ticketRequest
	if !bindJSON(c, &req) {
		return
	}
	ticket, err := h.tickets.GenerateTicket(c.Request.Context(), gameID, req.identity())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (h *Handler) BuildTickets(c *gin.Context) {
	gameID, ok := idParam(c, "gameID")
	if !ok {
		return
	}
	var req buildTicketsRequest
	if !bindJSON(c, &req) {
		return
	}
	tickets, err := h.tickets.BuildTickets(c.Request.Context(), gameID, req.identity(), req.Count)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tickets": tickets, "count": len(tickets)})
}

func (h *Handler) StartGame(c *gin.Context) {
	gameID, ok := idParam(c, "gameID")
	if !ok {
		return
	}
	state, err := h.draws.Start(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *Handler) ResetGame(c *gin.Context) {
	gameID, ok := idParam(c, "gameID")
	if !ok {
		return
	}
	state, err := h.draws.Reset(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *Handler) DrawNumber(c *gin.Context) {
	gameID, ok := idParam(c, "gameID")
	if !ok {
		return
	}
	result, err := h.draws.DrawNext(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) GameState(c *gin.Context) {
	gameID, ok := idParam(c, "gameID")
	if !ok {
		return
	}
	state, err := h.draws.State(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *Handler) EvaluateWinners(c *gin.Context) {
	gameID, ok := idParam(c, "gameID")
	if !ok {
		return
	}
	summary, err := h.winners.EvaluateWinners(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) DistributeRewards(c *gin.Context) {
	gameID, ok := idParam(c, "gameID")
	if !ok {
		return
	}
	force, ok := forceParam(c)
	if !ok {
		return
	}
	summary, err := h.prizes.DistributePending(c.Request.Context(), models.DistributeOptions{GameID: gameID, Force: force})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) LiveResults(c *gin.Context) {
	gameID, ok := idParam(c, "gameID")
	if !ok {
		return
	}
	results, err := h.games.LiveResults(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *Handler) PlayerDetails(c *gin.Context) {
	details, err := h.games.PlayerDetails(c.Request.Context(), c.Param("serial"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *Handler) PlayerRewards(c *gin.Context) {
	payments, err := h.games.PlayerRewards(c.Request.Context(), c.Param("serial"))
	if err != nil {
		respondError(c, err)
		return
	}
	var total int64
	for _, p := range payments {
		total += p.Amount
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments, "totalAmount": total})
}

func (h *Handler) RewardConfigs(c *gin.Context) {
	configs, err := h.games.RewardConfigs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if configs == nil {
		configs = []*models.RewardConfig{}
	}
	c.JSON(http.StatusOK, configs)
}

func (h *Handler) UpdateRewardConfig(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updateRewardConfigRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Amount == nil {
		respondError(c, service.ValidationError("reward amount is required"))
		return
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	cfg, err := h.games.UpdateRewardConfig(c.Request.Context(), id, *req.Amount, isActive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}
