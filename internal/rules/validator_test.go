package rules

import (
	"errors"
	"testing"

	"player-auction/internal/biddingerrors"
	"player-auction/internal/config"

	"github.com/peterldowns/testy/check"
	"github.com/stretchr/testify/require"
)

func fixedRules() Rules {
	return Rules{
		MaxRosterSize:   6,
		MaxBid:          500,
		Policy:          config.PolicyFixed,
		Step:            10,
		RequireMultiple: true,
	}
}

func TestFloor(t *testing.T) {
	percent := fixedRules()
	percent.Policy = config.PolicyPercent
	percent.Percent = 10

	tests := []struct {
		name     string
		rules    Rules
		item     ItemState
		expected float64
	}{
		{"first bid uses base price", fixedRules(), ItemState{BasePrice: 50, CurrentPrice: 50}, 50},
		{"zero base price", fixedRules(), ItemState{}, 0},
		{"fixed step after a bid", fixedRules(), ItemState{BasePrice: 50, CurrentPrice: 60, BidCount: 1}, 70},
		{"percent of current price", percent, ItemState{BasePrice: 50, CurrentPrice: 100, BidCount: 2}, 110},
		{"percent rounds up to cents", percent, ItemState{BasePrice: 1, CurrentPrice: 33.33, BidCount: 1}, 36.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check.Equal(t, tt.expected, tt.rules.Floor(tt.item))
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	open := ItemState{BasePrice: 50, CurrentPrice: 50}
	bidded := ItemState{BasePrice: 50, CurrentPrice: 60, BidCount: 1}
	rich := TeamState{Budget: 1000}

	percent := fixedRules()
	percent.Policy = config.PolicyPercent
	percent.Percent = 10

	tests := []struct {
		name    string
		rules   Rules
		item    ItemState
		team    TeamState
		amount  float64
		wantErr error
	}{
		{"first bid at base price", fixedRules(), open, rich, 50, nil},
		{"first bid above base price", fixedRules(), open, rich, 80, nil},
		{"first bid below base price", fixedRules(), open, rich, 40, biddingerrors.ErrBidBelowFloor},
		{"zero amount", fixedRules(), open, rich, 0, biddingerrors.ErrBidNotPositive},
		{"negative amount", fixedRules(), open, rich, -10, biddingerrors.ErrBidNotPositive},
		{"roster full", fixedRules(), open, TeamState{Budget: 1000, OwnedCount: 6}, 50, biddingerrors.ErrRosterFull},
		{"above absolute cap", fixedRules(), open, rich, 510, biddingerrors.ErrBidAboveCap},
		{"at absolute cap", fixedRules(), open, rich, 500, nil},
		{"matching current price", fixedRules(), bidded, rich, 60, biddingerrors.ErrBidBelowFloor},
		{"one step above current", fixedRules(), bidded, rich, 70, nil},
		{"not a multiple of step", fixedRules(), bidded, rich, 75, biddingerrors.ErrBidNotMultiple},
		{"over budget", fixedRules(), bidded, TeamState{Budget: 60}, 70, biddingerrors.ErrBudgetExceeded},
		{"exactly budget", fixedRules(), bidded, TeamState{Budget: 70}, 70, nil},
		{"percent policy accepts non multiples", percent, bidded, rich, 66, nil},
		{"percent policy below floor", percent, bidded, rich, 65.99, biddingerrors.ErrBidBelowFloor},
		{"sub cent amount within budget", fixedRules(), open, TeamState{Budget: 110}, 110.004, biddingerrors.ErrBidSubCent},
		{"sub cent amount under percent floor", percent, bidded, rich, 65.996, biddingerrors.ErrBidSubCent},
		{"whole cents under percent policy", percent, bidded, rich, 66.01, nil},
		{"roster checked before floor", fixedRules(), bidded, TeamState{Budget: 1000, OwnedCount: 7}, 10, biddingerrors.ErrRosterFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.rules.Validate(tt.item, tt.team, tt.amount)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			require.True(t, errors.Is(err, biddingerrors.ErrValidation))
		})
	}
}

func TestValidateIsPure(t *testing.T) {
	r := fixedRules()
	item := ItemState{BasePrice: 50, CurrentPrice: 60, BidCount: 1}
	team := TeamState{Budget: 200, OwnedCount: 2}

	for i := 0; i < 3; i++ {
		check.NoError(t, r.Validate(item, team, 70))
	}
	check.Equal(t, 60.0, item.CurrentPrice)
	check.Equal(t, 200.0, team.Budget)
}
