package api

import (
	"net/http"

	"tambola/models"

	"github.com/gin-gonic/gin"
)

type addPlayersRequest struct {
	Serials []string `json:"serials"`
}

func (h *Handler) CreateClub(c *gin.Context) {
	var input models.ClubInput
	if !bindJSON(c, &input) {
		return
	}
	club, err := h.clubs.CreateClub(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, club)
}

func (h *Handler) ListClubs(c *gin.Context) {
	status := models.ClubStatus(c.Query("status"))
	clubs, err := h.clubs.ListClubs(c.Request.Context(), status, c.Query("organizerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, clubs)
}

func (h *Handler) GetClub(c *gin.Context) {
	clubID, ok := idParam(c, "clubID")
	if !ok {
		return
	}
	detail, err := h.clubs.GetClub(c.Request.Context(), clubID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) AddPlayers(c *gin.Context) {
	clubID, ok := idParam(c, "clubID")
	if !ok {
		return
	}
	var req addPlayersRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.clubs.AddPlayers(c.Request.Context(), clubID, req.Serials)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DistributeClubPrizes pays the club's winners once every ticket is sold
func (h *Handler) DistributeClubPrizes(c *gin.Context) {
	clubID, ok := idParam(c, "clubID")
	if !ok {
		return
	}
	force, ok := forceParam(c)
	if !ok {
		return
	}
	distribution, err := h.clubs.DistributePrizes(c.Request.Context(), clubID, force)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, distribution)
}
