package models

// EventName identifies a broadcast event observers subscribe to
type EventName string

const (
	EventItemsUpdated  EventName = "players_updated"
	EventTeamsUpdated  EventName = "teams_updated"
	EventRosterUpdated EventName = "my_players_updated"
	EventTimer         EventName = "timer_update"
	EventEnrollTimer   EventName = "reg_timer_update"
	EventAuditLog      EventName = "auction_log"
	EventStatsUpdated  EventName = "stats_updated"
)

// Event is a side effect produced by a state transition, dispatched to observers
type Event struct {
	Name        EventName `json:"event"`
	ItemID      string    `json:"item_id,omitempty"`
	TeamID      string    `json:"team_id,omitempty"`
	SecondsLeft *int      `json:"seconds_left,omitempty"`
	Text        string    `json:"text,omitempty"`
	Stats       *Stats    `json:"stats,omitempty"`
}

// ItemUpdated signals an item lifecycle change
func ItemUpdated(itemID string) Event {
	return Event{Name: EventItemsUpdated, ItemID: itemID}
}

// TeamUpdated signals a change to a team's budget or bidding state
func TeamUpdated(teamID string) Event {
	return Event{Name: EventTeamsUpdated, TeamID: teamID}
}

// RosterUpdated signals a change to a team's owned items
func RosterUpdated(teamID string) Event {
	return Event{Name: EventRosterUpdated, TeamID: teamID}
}

// Countdown reports the seconds remaining on the active lot
func Countdown(itemID string, secondsLeft int) Event {
	return Event{Name: EventTimer, ItemID: itemID, SecondsLeft: &secondsLeft}
}

// EnrollmentCountdown reports the seconds remaining in the enrollment window
func EnrollmentCountdown(secondsLeft int) Event {
	return Event{Name: EventEnrollTimer, SecondsLeft: &secondsLeft}
}

// AuditLog carries a human readable log line
func AuditLog(text string) Event {
	return Event{Name: EventAuditLog, Text: text}
}

// StatsChanged signals that aggregate counters changed; the payload is filled at dispatch
func StatsChanged() Event {
	return Event{Name: EventStatsUpdated}
}
