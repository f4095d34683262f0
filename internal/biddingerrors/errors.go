package biddingerrors

import (
	"errors"
	"strings"
)

// Error kinds. Every error returned by the service unwraps to exactly one of these.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidState      = errors.New("invalid state")
	ErrValidation        = errors.New("validation error")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInternal          = errors.New("internal error")
)

// Reason is a specific, machine-checkable rejection that belongs to one error kind.
type Reason struct {
	Kind error
	Code string
	Msg  string
}

func (r *Reason) Error() string { return r.Msg }

func (r *Reason) Unwrap() error { return r.Kind }

func newReason(kind error, code, msg string) *Reason {
	return &Reason{Kind: kind, Code: code, Msg: msg}
}

// Authorization
var (
	ErrMissingToken  = newReason(ErrUnauthorized, "missing_token", "missing bearer token")
	ErrInvalidToken  = newReason(ErrUnauthorized, "invalid_token", "token is not valid")
	ErrNotAdmin      = newReason(ErrForbidden, "not_admin", "admin role required")
	ErrNotTeamOwner  = newReason(ErrForbidden, "not_team_owner", "only team owners can bid")
	ErrNoTeam        = newReason(ErrForbidden, "no_team", "caller does not own a team")
	ErrTeamMismatch  = newReason(ErrForbidden, "team_mismatch", "caller does not own the bidding team")
	ErrItemNotFound  = newReason(ErrNotFound, "item_not_found", "item not found")
	ErrTeamNotFound  = newReason(ErrNotFound, "team_not_found", "team not found")
	ErrWinnerMissing = newReason(ErrNotFound, "winning_team_not_found", "winning team not found")
)

// Lifecycle
var (
	ErrLotActive        = newReason(ErrConflict, "lot_active", "another lot is already being auctioned")
	ErrEnrollmentOpen   = newReason(ErrConflict, "enrollment_open", "enrollment window is already open")
	ErrDuplicateItem    = newReason(ErrConflict, "duplicate_item", "an item with this name already exists")
	ErrOwnerHasTeam     = newReason(ErrConflict, "owner_has_team", "owner already has a team")
	ErrDuplicateTeam    = newReason(ErrConflict, "duplicate_team", "a team with this name already exists")
	ErrDuplicateDiscord = newReason(ErrConflict, "duplicate_discord_username", "this discord username is already enrolled")
	ErrStaleWrite       = newReason(ErrConflict, "stale_write", "record was modified concurrently")
	ErrItemNotEligible  = newReason(ErrInvalidState, "item_not_eligible", "item must be Pending or Unsold to start")
	ErrLotNotOngoing    = newReason(ErrInvalidState, "lot_not_ongoing", "item is not currently up for auction")
	ErrLotExpired       = newReason(ErrInvalidState, "lot_expired", "countdown has elapsed, lot is settling")
	ErrItemNotDeletable = newReason(ErrInvalidState, "item_not_deletable", "only Pending or Unsold items can be deleted")
	ErrTeamNotDeletable = newReason(ErrInvalidState, "team_not_deletable", "team owns items or leads the live lot")
	ErrEnrollmentClosed = newReason(ErrInvalidState, "enrollment_closed", "enrollment window is closed")
	ErrAlreadySettled   = newReason(ErrInvalidState, "already_settled", "lot is already settled")
	ErrSettleFundsShort = newReason(ErrInsufficientFunds, "insufficient_funds", "winning team cannot cover the sale")
	ErrStoreFailure     = newReason(ErrInternal, "store_failure", "catalog store failure")
)

// Validation
var (
	ErrInvalidRequest   = newReason(ErrValidation, "invalid_request", "invalid request")
	ErrBidNotPositive   = newReason(ErrValidation, "bid_not_positive", "bid amount must be positive")
	ErrBidSubCent       = newReason(ErrValidation, "bid_sub_cent", "bid amount must be in whole cents")
	ErrRosterFull       = newReason(ErrValidation, "roster_full", "team roster is full")
	ErrBidAboveCap      = newReason(ErrValidation, "bid_above_cap", "bid exceeds the per-lot cap")
	ErrBidBelowFloor    = newReason(ErrValidation, "bid_below_floor", "bid amount below the minimum")
	ErrBidNotMultiple   = newReason(ErrValidation, "bid_not_multiple", "bid must be a multiple of the increment")
	ErrBudgetExceeded   = newReason(ErrValidation, "budget_exceeded", "insufficient budget for this bid")
	ErrInvalidBasePrice = newReason(ErrValidation, "invalid_base_price", "base price must not be negative")
	ErrInvalidCategory  = newReason(ErrValidation, "invalid_category", "unknown category")
	ErrInvalidDuration  = newReason(ErrValidation, "invalid_duration", "lot duration must exceed 5 seconds")
)

var kinds = []error{
	ErrUnauthorized, ErrForbidden, ErrNotFound, ErrConflict,
	ErrInvalidState, ErrValidation, ErrInsufficientFunds, ErrInternal,
}

// Code returns the machine-checkable reason for err. Errors without a specific
// reason fall back to their kind; unknown errors report "internal".
func Code(err error) string {
	if err == nil {
		return ""
	}
	var r *Reason
	if errors.As(err, &r) {
		return r.Code
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return strings.ReplaceAll(k.Error(), " ", "_")
		}
	}
	return "internal"
}
