package handler

import (
	"context"
	"net/http"
	"time"

	"player-auction/internal/biddingerrors"
	"player-auction/internal/models"
	"player-auction/services/bidding/helpers"
	"player-auction/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=bidding_handler.go -destination=mock_service.go -package=handler

type BiddingServiceInterface interface {
	CreateItem(ctx context.Context, caller models.Caller, req models.NewItem) (models.Item, error)
	ListItems(ctx context.Context, biddableOnly bool) ([]models.Item, error)
	GetItem(ctx context.Context, itemID string) (models.Item, error)
	DeleteItem(ctx context.Context, caller models.Caller, itemID string) error
	StartLot(ctx context.Context, caller models.Caller, itemID string) (models.Item, error)
	PlaceBid(ctx context.Context, caller models.Caller, itemID, teamID string, amount float64) (models.Item, error)
	SettleLot(ctx context.Context, caller models.Caller, itemID string) (models.SettleResult, error)
	OpenEnrollment(ctx context.Context, caller models.Caller) (time.Time, error)
	SelfEnroll(ctx context.Context, req models.NewItem) (models.Item, error)
	CreateTeam(ctx context.Context, caller models.Caller, req models.NewTeam) (models.Team, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	DeleteTeam(ctx context.Context, caller models.Caller, teamID string) error
	MyRoster(ctx context.Context, caller models.Caller) ([]models.Item, error)
	Stats(ctx context.Context) (models.Stats, error)
	UpdateSettings(ctx context.Context, caller models.Caller, settings models.Settings) (models.Settings, error)
}

type BiddingHandler struct {
	service BiddingServiceInterface
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service}
}

// callerOrAbort returns the authenticated caller set by the auth middleware
func callerOrAbort(c *gin.Context, handlerName string) (models.Caller, bool) {
	caller, ok := helpers.CallerFrom(c)
	if !ok {
		helpers.RespondError(c, handlerName, biddingerrors.ErrMissingToken, nil)
	}
	return caller, ok
}

// HealthHandler handles GET /healthz
func (h *BiddingHandler) HealthHandler(c *gin.Context) {
	utils.JSONResponse(c, http.StatusOK, gin.H{"time": time.Now().UTC().Format(time.RFC3339)}, "ok")
}

// StatsHandler handles GET /stats
func (h *BiddingHandler) StatsHandler(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		helpers.RespondError(c, "StatsHandler", err, nil)
		return
	}
	utils.JSONResponse(c, http.StatusOK, stats, "stats retrieved successfully")
}

// ListItemsHandler handles GET /items
func (h *BiddingHandler) ListItemsHandler(c *gin.Context) {
	h.listItems(c, "ListItemsHandler", false)
}

// ListAvailableItemsHandler handles GET /items/available
func (h *BiddingHandler) ListAvailableItemsHandler(c *gin.Context) {
	h.listItems(c, "ListAvailableItemsHandler", true)
}

func (h *BiddingHandler) listItems(c *gin.Context, handlerName string, biddableOnly bool) {
	items, err := h.service.ListItems(c.Request.Context(), biddableOnly)
	if err != nil {
		helpers.RespondError(c, handlerName, err, nil)
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToItemResponses(items), "items retrieved successfully")
	helpers.LogSuccess(handlerName, "items retrieved successfully", map[string]any{
		"items_count": len(items),
	})
}

// GetItemHandler handles GET /items/:item_id
func (h *BiddingHandler) GetItemHandler(c *gin.Context) {
	itemID := c.Param("item_id")
	item, err := h.service.GetItem(c.Request.Context(), itemID)
	if err != nil {
		helpers.RespondError(c, "GetItemHandler", err, map[string]any{"item_id": itemID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, helpers.ToItemResponse(item), "item retrieved successfully")
}

// CreateItemHandler handles POST /items
func (h *BiddingHandler) CreateItemHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c, "CreateItemHandler")
	if !ok {
		return
	}
	var req helpers.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateItemHandler", err)
		return
	}

	item, err := h.service.CreateItem(c.Request.Context(), caller, models.NewItem{
		Name:      req.Name,
		Category:  req.Category,
		BasePrice: req.BasePrice,
	})
	if err != nil {
		helpers.RespondError(c, "CreateItemHandler", err, map[string]any{"name": req.Name})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToItemResponse(item), "item created successfully")
	helpers.LogSuccess("CreateItemHandler", "item created successfully", map[string]any{
		"item_id":    item.ID,
		"name":       item.Name,
		"base_price": item.BasePrice,
	})
}

// DeleteItemHandler handles DELETE /items/:item_id
func (h *BiddingHandler) DeleteItemHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c, "DeleteItemHandler")
	if !ok {
		return
	}
	itemID := c.Param("item_id")
	if err := h.service.DeleteItem(c.Request.Context(), caller, itemID); err != nil {
		helpers.RespondError(c, "DeleteItemHandler", err, map[string]any{"item_id": itemID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"id": itemID}, "item deleted successfully")
	helpers.LogSuccess("DeleteItemHandler", "item deleted successfully", map[string]any{"item_id": itemID})
}

// StartLotHandler handles POST /items/:item_id/start
func (h *BiddingHandler) StartLotHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c, "StartLotHandler")
	if !ok {
		return
	}
	itemID := c.Param("item_id")
	item, err := h.service.StartLot(c.Request.Context(), caller, itemID)
	if err != nil {
		helpers.RespondError(c, "StartLotHandler", err, map[string]any{"item_id": itemID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToItemResponse(item), "auction started")
	helpers.LogSuccess("StartLotHandler", "auction started", map[string]any{
		"item_id":      item.ID,
		"active_until": item.ActiveUntil,
	})
}

// RecordBidHandler handles POST /items/:item_id/bids
func (h *BiddingHandler) RecordBidHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c, "RecordBidHandler")
	if !ok {
		return
	}
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RecordBidHandler", err)
		return
	}

	itemID := c.Param("item_id")
	item, err := h.service.PlaceBid(c.Request.Context(), caller, itemID, req.TeamID, req.Amount)
	if err != nil {
		helpers.RespondError(c, "RecordBidHandler", err, map[string]any{
			"item_id": itemID,
			"user_id": caller.ID,
			"amount":  req.Amount,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToItemResponse(item), "bid recorded successfully")
	helpers.LogSuccess("RecordBidHandler", "bid recorded successfully", map[string]any{
		"item_id": item.ID,
		"user_id": caller.ID,
		"amount":  req.Amount,
	})
}

// SettleLotHandler handles POST /items/:item_id/settle
func (h *BiddingHandler) SettleLotHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c, "SettleLotHandler")
	if !ok {
		return
	}
	itemID := c.Param("item_id")
	res, err := h.service.SettleLot(c.Request.Context(), caller, itemID)
	if err != nil {
		helpers.RespondError(c, "SettleLotHandler", err, map[string]any{"item_id": itemID})
		return
	}

	message := "lot settled"
	if !res.Applied {
		message = "lot already settled"
	}
	utils.JSONResponse(c, http.StatusOK, helpers.SettleResponse{
		Applied: res.Applied,
		Item:    helpers.ToItemResponse(res.Item),
	}, message)
	helpers.LogSuccess("SettleLotHandler", message, map[string]any{
		"item_id": itemID,
		"status":  res.Item.Status,
	})
}

// OpenEnrollmentHandler handles POST /enrollment
func (h *BiddingHandler) OpenEnrollmentHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c, "OpenEnrollmentHandler")
	if !ok {
		return
	}
	deadline, err := h.service.OpenEnrollment(c.Request.Context(), caller)
	if err != nil {
		helpers.RespondError(c, "OpenEnrollmentHandler", err, nil)
		return
	}

	resp := helpers.EnrollmentResponse{OpenUntil: deadline.UTC().Format(time.RFC3339)}
	utils.JSONResponse(c, http.StatusOK, resp, "enrollment opened")
	helpers.LogSuccess("OpenEnrollmentHandler", "enrollment opened", map[string]any{"open_until": resp.OpenUntil})
}

// SelfEnrollHandler handles POST /enrollment/items
func (h *BiddingHandler) SelfEnrollHandler(c *gin.Context) {
	var req helpers.SelfEnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SelfEnrollHandler", err)
		return
	}

	item, err := h.service.SelfEnroll(c.Request.Context(), models.NewItem{Name: req.Name, Discord: req.Discord, ImageURL: req.ImageURL})
	if err != nil {
		helpers.RespondError(c, "SelfEnrollHandler", err, map[string]any{"name": req.Name})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToItemResponse(item), "enrolled successfully")
	helpers.LogSuccess("SelfEnrollHandler", "enrolled successfully", map[string]any{"item_id": item.ID, "name": item.Name})
}

// DeleteTeamHandler handles DELETE /teams/:team_id
func (h *BiddingHandler) DeleteTeamHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c, "DeleteTeamHandler")
	if !ok {
		return
	}
	teamID := c.Param("team_id")
	if err := h.service.DeleteTeam(c.Request.Context(), caller, teamID); err != nil {
		helpers.RespondError(c, "DeleteTeamHandler", err, map[string]any{"team_id": teamID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"id": teamID}, "team deleted successfully")
	helpers.LogSuccess("DeleteTeamHandler", "team deleted successfully", map[string]any{"team_id": teamID})
}

// ListTeamsHandler handles GET /teams
func (h *BiddingHandler) ListTeamsHandler(c *gin.Context) {
	teams, err := h.service.ListTeams(c.Request.Context())
	if err != nil {
		helpers.RespondError(c, "ListTeamsHandler", err, nil)
		return
	}
	utils.JSONResponse(c, http.StatusOK, helpers.ToTeamResponses(teams), "teams retrieved successfully")
}

// CreateTeamHandler handles POST /teams
func (h *BiddingHandler) CreateTeamHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c, "CreateTeamHandler")
	if !ok {
		return
	}
	var req helpers.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateTeamHandler", err)
		return
	}

	team, err := h.service.CreateTeam(c.Request.Context(), caller, models.NewTeam{
		Name:    req.Name,
		OwnerID: req.OwnerID,
		Budget:  req.Budget,
	})
	if err != nil {
		helpers.RespondError(c, "CreateTeamHandler", err, map[string]any{"owner_id": req.OwnerID})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToTeamResponse(team), "team created successfully")
	helpers.LogSuccess("CreateTeamHandler", "team created successfully", map[string]any{
		"team_id":  team.ID,
		"owner_id": team.OwnerID,
		"budget":   team.Budget,
	})
}

// MyRosterHandler handles GET /teams/mine/items
func (h *BiddingHandler) MyRosterHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c, "MyRosterHandler")
	if !ok {
		return
	}
	items, err := h.service.MyRoster(c.Request.Context(), caller)
	if err != nil {
		helpers.RespondError(c, "MyRosterHandler", err, map[string]any{"user_id": caller.ID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToItemResponses(items), "roster retrieved successfully")
	helpers.LogSuccess("MyRosterHandler", "roster retrieved successfully", map[string]any{
		"user_id":     caller.ID,
		"items_count": len(items),
	})
}

// UpdateSettingsHandler handles PUT /admin/settings
func (h *BiddingHandler) UpdateSettingsHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c, "UpdateSettingsHandler")
	if !ok {
		return
	}
	var req helpers.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateSettingsHandler", err)
		return
	}

	settings, err := h.service.UpdateSettings(c.Request.Context(), caller, models.Settings{LotDurationSeconds: req.LotDurationSeconds})
	if err != nil {
		helpers.RespondError(c, "UpdateSettingsHandler", err, map[string]any{"lot_duration_seconds": req.LotDurationSeconds})
		return
	}

	utils.JSONResponse(c, http.StatusOK, settings, "settings updated")
	helpers.LogSuccess("UpdateSettingsHandler", "settings updated", map[string]any{"lot_duration_seconds": settings.LotDurationSeconds})
}
