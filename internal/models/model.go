package models

import "time"

// Role is the authorization role of a caller
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleTeamOwner Role = "TeamOwner"
)

// Caller is the identity resolved for an inbound request
type Caller struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the caller holds the admin role
func (c Caller) IsAdmin() bool { return c.Role == RoleAdmin }

// ItemStatus is the lifecycle state of an auctioned item
type ItemStatus string

const (
	StatusPending ItemStatus = "Pending"
	StatusOngoing ItemStatus = "Ongoing"
	StatusSold    ItemStatus = "Sold"
	StatusUnsold  ItemStatus = "Unsold"
)

// Terminal reports whether no further settlement may be applied in this status
func (s ItemStatus) Terminal() bool {
	return s == StatusSold || s == StatusUnsold
}

// Category classifies a player in the catalog
type Category string

const (
	CategoryBatsman    Category = "Batsman"
	CategoryBowler     Category = "Bowler"
	CategoryAllRounder Category = "All-Rounder"
	CategoryUnassigned Category = "Unassigned"
)

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	switch c {
	case CategoryBatsman, CategoryBowler, CategoryAllRounder, CategoryUnassigned:
		return true
	}
	return false
}

// Item represents a player put up for auction
type Item struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Category     Category   `json:"category"`
	SelfEnrolled bool       `json:"self_enrolled"`
	Discord      string     `json:"discord_username,omitempty"` // contact handle, unique among self-enrolled items
	ImageURL     string     `json:"image_url,omitempty"`
	BasePrice    float64    `json:"base_price"`
	CurrentPrice float64    `json:"current_price"`
	Status       ItemStatus `json:"status"`
	ActiveUntil  *time.Time `json:"active_until,omitempty"`
	Bids         []Bid      `json:"bids"`
	WinnerID     string     `json:"winner_id,omitempty"`
	SoldAmount   *float64   `json:"sold_amount,omitempty"`
	Waived       bool       `json:"waived,omitempty"` // sold without charging the winner
	Version      int        `json:"version"`
	CreatedAt    time.Time  `json:"created_at"`
}

// LastBid returns the most recent (and therefore highest) bid
func (i Item) LastBid() (Bid, bool) {
	if len(i.Bids) == 0 {
		return Bid{}, false
	}
	return i.Bids[len(i.Bids)-1], true
}

// Clone returns a copy that shares no mutable state with i
func (i Item) Clone() Item {
	c := i
	if i.ActiveUntil != nil {
		t := *i.ActiveUntil
		c.ActiveUntil = &t
	}
	if i.SoldAmount != nil {
		a := *i.SoldAmount
		c.SoldAmount = &a
	}
	c.Bids = append([]Bid(nil), i.Bids...)
	return c
}

// Bid represents a team's bid on an item
type Bid struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"team_id"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Team represents a buyer with a budget and a roster
type Team struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	OwnerID       string    `json:"owner_id"`
	Budget        float64   `json:"budget"`
	InitialBudget float64   `json:"initial_budget"`
	OwnedItems    []string  `json:"owned_items"`
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
}

// Owns reports whether itemID is already on the team's roster
func (t Team) Owns(itemID string) bool {
	for _, id := range t.OwnedItems {
		if id == itemID {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no mutable state with t
func (t Team) Clone() Team {
	c := t
	c.OwnedItems = append([]string(nil), t.OwnedItems...)
	return c
}

// NewItem holds the fields needed to add an item to the catalog
type NewItem struct {
	Name      string   `json:"name"`
	Category  Category `json:"category"`
	BasePrice float64  `json:"base_price"`
	Discord   string   `json:"discord_username,omitempty"`
	ImageURL  string   `json:"image_url,omitempty"`
}

// NewTeam holds the fields needed to register a team
type NewTeam struct {
	Name    string   `json:"name"`
	OwnerID string   `json:"owner_id"`
	Budget  *float64 `json:"budget,omitempty"`
}

// Stats aggregates catalog counters for dashboards
type Stats struct {
	TotalItems      int `json:"total_items"`
	LiveLots        int `json:"live_lots"`
	ItemsSold       int `json:"items_sold"`
	RegisteredTeams int `json:"registered_teams"`
}

// Settings are the runtime-adjustable auction parameters
type Settings struct {
	LotDurationSeconds int `json:"lot_duration_seconds"`
}

// SettleResult reports the outcome of a settlement attempt
type SettleResult struct {
	Item    Item `json:"item"`
	Applied bool `json:"applied"` // false when the lot was already terminal
}
