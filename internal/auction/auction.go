package auction

import (
	"fmt"
	"time"

	"player-auction/internal/biddingerrors"
	"player-auction/internal/models"
)

// Timing configures the anti-sniping extension
type Timing struct {
	SnipeWindow    time.Duration // a bid with less than this left extends the countdown
	SnipeExtension time.Duration // the countdown is pushed to now+SnipeExtension
}

// Resolution is the outcome decided for a lot at settlement
type Resolution struct {
	Sold     bool
	WinnerID string
	Amount   float64
}

/*
	Start    -> players_updated, auction_log, stats_updated
	PlaceBid -> players_updated, teams_updated, auction_log [, timer_update when extended]
	Award    -> players_updated [, teams_updated, my_players_updated], stats_updated, auction_log
*/

// Start opens bidding on a Pending or Unsold item. It does not check the
// single-active-lot invariant; the caller holds the start lock for that.
func Start(item models.Item, now time.Time, lotDuration time.Duration) (models.Item, []models.Event, error) {
	if item.Status != models.StatusPending && item.Status != models.StatusUnsold {
		return item, nil, fmt.Errorf("auction: %w - status is %s", biddingerrors.ErrItemNotEligible, item.Status)
	}

	next := item.Clone()
	deadline := now.Add(lotDuration)
	next.Status = models.StatusOngoing
	next.CurrentPrice = item.BasePrice
	next.Bids = []models.Bid{}
	next.ActiveUntil = &deadline
	next.WinnerID = ""
	next.SoldAmount = nil
	next.Waived = false

	events := []models.Event{
		models.ItemUpdated(item.ID),
		models.AuditLog(fmt.Sprintf("Auction started for %s at %.2f", item.Name, item.BasePrice)),
		models.StatsChanged(),
	}
	return next, events, nil
}

// Biddable reports whether item accepts bids at now
func Biddable(item models.Item, now time.Time) error {
	if item.Status != models.StatusOngoing {
		return fmt.Errorf("auction: %w - status is %s", biddingerrors.ErrLotNotOngoing, item.Status)
	}
	if item.ActiveUntil == nil || !now.Before(*item.ActiveUntil) {
		return fmt.Errorf("auction: %w", biddingerrors.ErrLotExpired)
	}
	return nil
}

// PlaceBid appends an already validated bid to an Ongoing lot
func PlaceBid(item models.Item, bid models.Bid, now time.Time, timing Timing) (models.Item, []models.Event, error) {
	if err := Biddable(item, now); err != nil {
		return item, nil, err
	}

	next := item.Clone()
	next.Bids = append(next.Bids, bid)
	next.CurrentPrice = bid.Amount

	events := []models.Event{
		models.ItemUpdated(item.ID),
		models.TeamUpdated(bid.TeamID),
		models.AuditLog(fmt.Sprintf("Team %s bid %.2f on %s", bid.TeamID, bid.Amount, item.Name)),
	}

	// extend only, never shorten
	if item.ActiveUntil.Sub(now) < timing.SnipeWindow {
		extended := now.Add(timing.SnipeExtension)
		if extended.After(*item.ActiveUntil) {
			next.ActiveUntil = &extended
			events = append(events, models.Countdown(item.ID, SecondsLeft(extended, now)))
		}
	}
	return next, events, nil
}

// Resolve decides who wins the lot. Terminal lots report ErrAlreadySettled,
// which callers treat as a no-op.
func Resolve(item models.Item) (Resolution, error) {
	if item.Status != models.StatusOngoing && item.Status != models.StatusPending {
		return Resolution{}, fmt.Errorf("auction: %w - status is %s", biddingerrors.ErrAlreadySettled, item.Status)
	}
	last, ok := item.LastBid()
	if !ok {
		return Resolution{}, nil
	}
	return Resolution{Sold: true, WinnerID: last.TeamID, Amount: last.Amount}, nil
}

// Award applies the terminal transition chosen by Resolve
func Award(item models.Item, res Resolution, waived bool) (models.Item, []models.Event) {
	next := item.Clone()
	next.ActiveUntil = nil

	if !res.Sold {
		next.Status = models.StatusUnsold
		return next, []models.Event{
			models.ItemUpdated(item.ID),
			models.StatsChanged(),
			models.AuditLog(fmt.Sprintf("%s went unsold", item.Name)),
		}
	}

	amount := res.Amount
	next.Status = models.StatusSold
	next.WinnerID = res.WinnerID
	next.SoldAmount = &amount
	next.Waived = waived

	text := fmt.Sprintf("%s sold to team %s for %.2f", item.Name, res.WinnerID, amount)
	if waived {
		text = fmt.Sprintf("%s awarded to team %s by admin", item.Name, res.WinnerID)
	}
	return next, []models.Event{
		models.ItemUpdated(item.ID),
		models.TeamUpdated(res.WinnerID),
		models.RosterUpdated(res.WinnerID),
		models.StatsChanged(),
		models.AuditLog(text),
	}
}

// SecondsLeft rounds the time remaining until deadline up to whole seconds
func SecondsLeft(deadline, now time.Time) int {
	d := deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	secs := int(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return secs
}
