package helpers

import (
	"time"

	"player-auction/internal/models"
)

// Request DTOs
type CreateItemRequest struct {
	Name      string          `json:"name" binding:"required"`
	Category  models.Category `json:"category"`
	BasePrice float64         `json:"base_price" binding:"gte=0"`
}

type SelfEnrollRequest struct {
	Name     string `json:"name" binding:"required"`
	Discord  string `json:"discord_username" binding:"required"`
	ImageURL string `json:"image_url" binding:"omitempty,url"`
}

type PlaceBidRequest struct {
	TeamID string  `json:"team_id"`
	Amount float64 `json:"amount" binding:"required"`
}

type CreateTeamRequest struct {
	Name    string   `json:"name" binding:"required"`
	OwnerID string   `json:"owner_id" binding:"required"`
	Budget  *float64 `json:"budget"`
}

type SettingsRequest struct {
	LotDurationSeconds int `json:"lot_duration_seconds" binding:"required"`
}

// Response DTOs
type BidResponse struct {
	BidID     string  `json:"bid_id"`
	TeamID    string  `json:"team_id"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"created_at"`
}

type ItemResponse struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Category     string        `json:"category"`
	SelfEnrolled bool          `json:"self_enrolled"`
	Discord      string        `json:"discord_username,omitempty"`
	ImageURL     string        `json:"image_url,omitempty"`
	BasePrice    float64       `json:"base_price"`
	CurrentPrice float64       `json:"current_price"`
	Status       string        `json:"status"`
	ActiveUntil  string        `json:"active_until,omitempty"`
	Bids         []BidResponse `json:"bids"`
	WinnerID     string        `json:"winner_id,omitempty"`
	SoldAmount   *float64      `json:"sold_amount,omitempty"`
	Waived       bool          `json:"waived,omitempty"`
	CreatedAt    string        `json:"created_at"`
}

type TeamResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	OwnerID       string   `json:"owner_id"`
	Budget        float64  `json:"budget"`
	InitialBudget float64  `json:"initial_budget"`
	OwnedItems    []string `json:"owned_items"`
}

type SettleResponse struct {
	Applied bool         `json:"applied"`
	Item    ItemResponse `json:"item"`
}

type EnrollmentResponse struct {
	OpenUntil string `json:"open_until"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ToItemResponse converts a domain item to its wire shape
func ToItemResponse(item models.Item) ItemResponse {
	bids := make([]BidResponse, 0, len(item.Bids))
	for _, b := range item.Bids {
		bids = append(bids, BidResponse{
			BidID:     b.ID,
			TeamID:    b.TeamID,
			Amount:    b.Amount,
			CreatedAt: formatTime(b.CreatedAt),
		})
	}
	resp := ItemResponse{
		ID:           item.ID,
		Name:         item.Name,
		Category:     string(item.Category),
		SelfEnrolled: item.SelfEnrolled,
		Discord:      item.Discord,
		ImageURL:     item.ImageURL,
		BasePrice:    item.BasePrice,
		CurrentPrice: item.CurrentPrice,
		Status:       string(item.Status),
		Bids:         bids,
		WinnerID:     item.WinnerID,
		SoldAmount:   item.SoldAmount,
		Waived:       item.Waived,
		CreatedAt:    formatTime(item.CreatedAt),
	}
	if item.ActiveUntil != nil {
		resp.ActiveUntil = formatTime(*item.ActiveUntil)
	}
	return resp
}

func ToItemResponses(items []models.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, ToItemResponse(item))
	}
	return out
}

func ToTeamResponse(team models.Team) TeamResponse {
	owned := team.OwnedItems
	if owned == nil {
		owned = []string{}
	}
	return TeamResponse{
		ID:            team.ID,
		Name:          team.Name,
		OwnerID:       team.OwnerID,
		Budget:        team.Budget,
		InitialBudget: team.InitialBudget,
		OwnedItems:    owned,
	}
}

func ToTeamResponses(teams []models.Team) []TeamResponse {
	out := make([]TeamResponse, 0, len(teams))
	for _, team := range teams {
		out = append(out, ToTeamResponse(team))
	}
	return out
}
