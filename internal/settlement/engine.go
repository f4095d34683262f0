package settlement

import (
	"context"
	"errors"
	"fmt"

	"player-auction/internal/auction"
	"player-auction/internal/biddingerrors"
	"player-auction/internal/models"
	"player-auction/internal/repository"

	"github.com/shopspring/decimal"
)

// Engine closes lots: it charges the winner, grows their roster and marks the
// item terminal, committing team and item together.
type Engine struct {
	repo repository.AuctionDB
}

// NewEngine creates a settlement Engine over repo
func NewEngine(repo repository.AuctionDB) *Engine {
	return &Engine{repo: repo}
}

// Settle closes item. The caller must hold the item's lock so no bid lands
// between the read of item and the commit.
//
// A lot that is already Sold or Unsold yields biddingerrors.ErrAlreadySettled
// with the item unchanged. When adminTriggered is set the winner is not
// charged and the funds check is skipped.
func (e *Engine) Settle(ctx context.Context, item models.Item, adminTriggered bool) (models.Item, []models.Event, error) {
	res, err := auction.Resolve(item)
	if err != nil {
		return item, nil, err
	}

	if !res.Sold {
		next, events := auction.Award(item, res, false)
		saved, err := e.repo.CommitSettlement(ctx, nil, next)
		if err != nil {
			return item, nil, fmt.Errorf("settlement: commit unsold %s: %w", item.ID, err)
		}
		return saved, events, nil
	}

	team, err := e.repo.GetTeam(ctx, res.WinnerID)
	if err != nil {
		if errors.Is(err, biddingerrors.ErrNotFound) {
			return item, nil, fmt.Errorf("settlement: %w - team %s", biddingerrors.ErrWinnerMissing, res.WinnerID)
		}
		return item, nil, fmt.Errorf("settlement: load team %s: %w", res.WinnerID, err)
	}

	// a team that already holds the item was charged by an earlier attempt
	if !team.Owns(item.ID) {
		if !adminTriggered {
			budget := decimal.NewFromFloat(team.Budget)
			amount := decimal.NewFromFloat(res.Amount)
			if budget.LessThan(amount) {
				return item, nil, fmt.Errorf("settlement: %w - team %s has %.2f, owes %.2f",
					biddingerrors.ErrSettleFundsShort, team.ID, team.Budget, res.Amount)
			}
			team.Budget = budget.Sub(amount).InexactFloat64()
		}
		team.OwnedItems = append(team.OwnedItems, item.ID)
	}

	next, events := auction.Award(item, res, adminTriggered)
	saved, err := e.repo.CommitSettlement(ctx, &team, next)
	if err != nil {
		return item, nil, fmt.Errorf("settlement: commit sale of %s to %s: %w", item.ID, team.ID, err)
	}
	return saved, events, nil
}

// VerifyLedger checks that a team's spend equals the sum of its charged wins:
// initialBudget - budget == Σ soldAmount over non-waived items it won.
func VerifyLedger(team models.Team, items []models.Item) error {
	spent := decimal.NewFromFloat(team.InitialBudget).Sub(decimal.NewFromFloat(team.Budget))
	won := decimal.Zero
	for _, item := range items {
		if item.Status != models.StatusSold || item.WinnerID != team.ID || item.Waived || item.SoldAmount == nil {
			continue
		}
		won = won.Add(decimal.NewFromFloat(*item.SoldAmount))
	}
	if !spent.Round(2).Equal(won.Round(2)) {
		return fmt.Errorf("ledger mismatch for team %s: spent %s, won %s", team.ID, spent.StringFixed(2), won.StringFixed(2))
	}
	return nil
}
