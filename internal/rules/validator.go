package rules

import (
	"fmt"

	"player-auction/internal/biddingerrors"
	"player-auction/internal/config"

	"github.com/shopspring/decimal"
)

const monetaryPrecision int32 = 2

// Rules configures bid acceptance
type Rules struct {
	MaxRosterSize   int
	MaxBid          float64
	Policy          string // config.PolicyFixed or config.PolicyPercent
	Step            float64
	Percent         float64
	RequireMultiple bool
}

// FromConfig builds Rules from the application configuration
func FromConfig(cfg config.Config) Rules {
	return Rules{
		MaxRosterSize:   cfg.MaxRosterSize,
		MaxBid:          cfg.MaxBid,
		Policy:          cfg.IncrementPolicy,
		Step:            cfg.IncrementStep,
		Percent:         cfg.IncrementPercent,
		RequireMultiple: cfg.RequireMultiple,
	}
}

// ItemState is the part of an item the validator looks at
type ItemState struct {
	BasePrice    float64
	CurrentPrice float64
	BidCount     int
}

// TeamState is the part of a team the validator looks at
type TeamState struct {
	Budget     float64
	OwnedCount int
}

// Floor returns the minimum acceptable amount for the next bid.
// The first bid may match the base price; later bids must clear the increment.
func (r Rules) Floor(item ItemState) float64 {
	if item.BidCount == 0 {
		return round(decimal.NewFromFloat(item.BasePrice))
	}
	current := decimal.NewFromFloat(item.CurrentPrice)
	var inc decimal.Decimal
	if r.Policy == config.PolicyPercent {
		inc = current.Mul(decimal.NewFromFloat(r.Percent)).Div(decimal.NewFromInt(100)).RoundCeil(monetaryPrecision)
	} else {
		inc = decimal.NewFromFloat(r.Step)
	}
	return round(current.Add(inc))
}

// Validate checks amount against the item and team state. It returns nil when
// the bid is acceptable, otherwise a biddingerrors reason of kind ErrValidation.
func (r Rules) Validate(item ItemState, team TeamState, amount float64) error {
	raw := decimal.NewFromFloat(amount)
	bid := raw.Round(monetaryPrecision)

	if !bid.IsPositive() {
		return biddingerrors.ErrBidNotPositive
	}
	// the stored amount is the raw one, so every check must see exactly it
	if !bid.Equal(raw) {
		return fmt.Errorf("%w - got %s", biddingerrors.ErrBidSubCent, raw.String())
	}
	if team.OwnedCount >= r.MaxRosterSize {
		return fmt.Errorf("%w - roster holds %d of %d", biddingerrors.ErrRosterFull, team.OwnedCount, r.MaxRosterSize)
	}
	if bid.GreaterThan(decimal.NewFromFloat(r.MaxBid)) {
		return fmt.Errorf("%w - maximum is %.2f", biddingerrors.ErrBidAboveCap, r.MaxBid)
	}

	floor := r.Floor(item)
	if bid.LessThan(decimal.NewFromFloat(floor)) {
		return fmt.Errorf("%w - minimum is %.2f", biddingerrors.ErrBidBelowFloor, floor)
	}

	if r.Policy != config.PolicyPercent && r.RequireMultiple && r.Step > 0 {
		if !bid.Mod(decimal.NewFromFloat(r.Step)).IsZero() {
			return fmt.Errorf("%w of %.2f", biddingerrors.ErrBidNotMultiple, r.Step)
		}
	}

	if decimal.NewFromFloat(team.Budget).LessThan(bid) {
		return fmt.Errorf("%w - budget is %.2f", biddingerrors.ErrBudgetExceeded, team.Budget)
	}
	return nil
}

func round(d decimal.Decimal) float64 {
	return d.Round(monetaryPrecision).InexactFloat64()
}
