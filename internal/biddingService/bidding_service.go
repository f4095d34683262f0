package bidding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"player-auction/internal/auction"
	"player-auction/internal/biddingerrors"
	"player-auction/internal/config"
	"player-auction/internal/enrollment"
	"player-auction/internal/models"
	"player-auction/internal/repository"
	"player-auction/internal/rules"
	"player-auction/internal/settlement"
	"player-auction/utils"
)

// Emitter queues events for observers without blocking
type Emitter interface {
	Emit(events ...models.Event)
}

// Options tune the auction
type Options struct {
	Rules               rules.Rules
	Timing              auction.Timing
	LotDuration         time.Duration
	EnrollmentDuration  time.Duration
	DefaultTeamBudget   float64
	SelfEnrollBasePrice float64
	Clock               func() time.Time
}

// OptionsFromConfig maps the application configuration onto service options
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Rules: rules.FromConfig(cfg),
		Timing: auction.Timing{
			SnipeWindow:    cfg.SnipeWindow,
			SnipeExtension: cfg.SnipeExtension,
		},
		LotDuration:         cfg.LotDuration,
		EnrollmentDuration:  cfg.EnrollmentDuration,
		DefaultTeamBudget:   cfg.DefaultTeamBudget,
		SelfEnrollBasePrice: cfg.SelfEnrollBasePrice,
	}
}

// BiddingService runs the live auction. Bids and settlement on the same item
// are serialized by a per-item lock; starting a lot additionally holds startMu
// so the single-active-lot check and the commit happen together.
type BiddingService struct {
	repo       repository.AuctionDB
	events     Emitter
	settler    *settlement.Engine
	enrollment *enrollment.Window
	rules      rules.Rules
	timing     auction.Timing
	now        func() time.Time

	enrollmentDuration  time.Duration
	defaultTeamBudget   float64
	selfEnrollBasePrice float64

	settingsMu  sync.RWMutex
	lotDuration time.Duration

	startMu   sync.Mutex
	itemLocks sync.Map // itemID -> *sync.Mutex
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionDB, events Emitter, opts Options) *BiddingService {
	clock := opts.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &BiddingService{
		repo:                repo,
		events:              events,
		settler:             settlement.NewEngine(repo),
		enrollment:          &enrollment.Window{},
		rules:               opts.Rules,
		timing:              opts.Timing,
		now:                 clock,
		enrollmentDuration:  opts.EnrollmentDuration,
		defaultTeamBudget:   opts.DefaultTeamBudget,
		selfEnrollBasePrice: opts.SelfEnrollBasePrice,
		lotDuration:         opts.LotDuration,
	}
}

func (s *BiddingService) lockItem(itemID string) func() {
	v, _ := s.itemLocks.LoadOrStore(itemID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func requireAdmin(caller models.Caller) error {
	if !caller.IsAdmin() {
		return fmt.Errorf("service: %w", biddingerrors.ErrNotAdmin)
	}
	return nil
}

// emit fills the stats payload and hands events to the dispatcher
func (s *BiddingService) emit(ctx context.Context, events []models.Event) {
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if e.Name == models.EventStatsUpdated && e.Stats == nil {
			stats, err := s.Stats(ctx)
			if err != nil {
				utils.Warn("stats unavailable, skipping stats event", map[string]any{"error": err.Error()})
				continue
			}
			e.Stats = &stats
		}
		out = append(out, e)
	}
	s.events.Emit(out...)
}

// CreateItem adds a Pending item to the catalog
func (s *BiddingService) CreateItem(ctx context.Context, caller models.Caller, req models.NewItem) (models.Item, error) {
	if err := requireAdmin(caller); err != nil {
		return models.Item{}, err
	}
	item, err := s.newItem(req, false)
	if err != nil {
		return models.Item{}, err
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return models.Item{}, fmt.Errorf("service: failed to create item %q: %w", item.Name, err)
	}

	s.emit(ctx, []models.Event{
		models.ItemUpdated(item.ID),
		models.StatsChanged(),
		models.AuditLog(fmt.Sprintf("%s added to the catalog at %.2f", item.Name, item.BasePrice)),
	})
	return item, nil
}

func (s *BiddingService) newItem(req models.NewItem, selfEnrolled bool) (models.Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Item{}, fmt.Errorf("service: %w - name is required", biddingerrors.ErrInvalidRequest)
	}
	if req.BasePrice < 0 {
		return models.Item{}, fmt.Errorf("service: %w", biddingerrors.ErrInvalidBasePrice)
	}
	category := req.Category
	if category == "" {
		category = models.CategoryUnassigned
	}
	if !category.Valid() {
		return models.Item{}, fmt.Errorf("service: %w - %q", biddingerrors.ErrInvalidCategory, category)
	}

	return models.Item{
		ID:           utils.GenerateID(),
		Name:         name,
		Category:     category,
		SelfEnrolled: selfEnrolled,
		Discord:      strings.TrimSpace(req.Discord),
		ImageURL:     strings.TrimSpace(req.ImageURL),
		BasePrice:    req.BasePrice,
		CurrentPrice: req.BasePrice,
		Status:       models.StatusPending,
		Bids:         []models.Bid{},
		Version:      1,
		CreatedAt:    s.now(),
	}, nil
}

// ListItems returns the catalog, or only Pending and Ongoing items when biddableOnly is set
func (s *BiddingService) ListItems(ctx context.Context, biddableOnly bool) ([]models.Item, error) {
	filter := repository.ItemFilter{}
	if biddableOnly {
		filter = repository.Biddable
	}
	items, err := s.repo.ListItems(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list items: %w", err)
	}
	return items, nil
}

// GetItem returns one item
func (s *BiddingService) GetItem(ctx context.Context, itemID string) (models.Item, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return models.Item{}, fmt.Errorf("service: failed to get item %s: %w", itemID, err)
	}
	return item, nil
}

// DeleteItem removes a Pending or Unsold item
func (s *BiddingService) DeleteItem(ctx context.Context, caller models.Caller, itemID string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	item, err := s.deleteItem(ctx, itemID)
	if err != nil {
		return err
	}

	s.emit(ctx, []models.Event{
		models.ItemUpdated(itemID),
		models.StatsChanged(),
		models.AuditLog(fmt.Sprintf("Admin deleted %s", item.Name)),
	})
	return nil
}

func (s *BiddingService) deleteItem(ctx context.Context, itemID string) (models.Item, error) {
	unlock := s.lockItem(itemID)
	defer unlock()

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return models.Item{}, fmt.Errorf("service: failed to get item %s: %w", itemID, err)
	}
	if item.Status != models.StatusPending && item.Status != models.StatusUnsold {
		return models.Item{}, fmt.Errorf("service: %w - status is %s", biddingerrors.ErrItemNotDeletable, item.Status)
	}
	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return models.Item{}, fmt.Errorf("service: failed to delete item %s: %w", itemID, err)
	}
	// goroutines already waiting on the old mutex will find the item gone
	s.itemLocks.Delete(itemID)
	return item, nil
}

// StartLot puts an item on the block
func (s *BiddingService) StartLot(ctx context.Context, caller models.Caller, itemID string) (models.Item, error) {
	if err := requireAdmin(caller); err != nil {
		return models.Item{}, err
	}
	saved, events, err := s.startLot(ctx, itemID)
	if err != nil {
		return models.Item{}, err
	}

	s.emit(ctx, events)
	return saved, nil
}

func (s *BiddingService) startLot(ctx context.Context, itemID string) (models.Item, []models.Event, error) {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	unlock := s.lockItem(itemID)
	defer unlock()

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return models.Item{}, nil, fmt.Errorf("service: failed to get item %s: %w", itemID, err)
	}

	active, err := s.repo.FindOngoingItem(ctx)
	switch {
	case err == nil && active.ID != itemID:
		return models.Item{}, nil, fmt.Errorf("service: %w - %s is being auctioned", biddingerrors.ErrLotActive, active.Name)
	case err != nil && !errors.Is(err, biddingerrors.ErrNotFound):
		return models.Item{}, nil, fmt.Errorf("service: failed to check active lot: %w", err)
	}

	next, events, err := auction.Start(item, s.now(), s.LotDuration())
	if err != nil {
		return models.Item{}, nil, fmt.Errorf("service: %w", err)
	}
	saved, err := s.repo.SaveItem(ctx, next)
	if err != nil {
		return models.Item{}, nil, fmt.Errorf("service: failed to start item %s: %w", itemID, err)
	}
	return saved, events, nil
}

// PlaceBid records a bid by the caller's team. teamID may be empty, in which
// case the caller's own team is used.
func (s *BiddingService) PlaceBid(ctx context.Context, caller models.Caller, itemID, teamID string, amount float64) (models.Item, error) {
	if caller.Role != models.RoleTeamOwner {
		return models.Item{}, fmt.Errorf("service: %w", biddingerrors.ErrNotTeamOwner)
	}

	saved, events, err := s.placeBid(ctx, caller, itemID, teamID, amount)
	if err != nil {
		return models.Item{}, err
	}

	s.emit(ctx, events)
	return saved, nil
}

func (s *BiddingService) placeBid(ctx context.Context, caller models.Caller, itemID, teamID string, amount float64) (models.Item, []models.Event, error) {
	unlock := s.lockItem(itemID)
	defer unlock()

	// the team is read under the item lock so its budget and roster are current
	team, err := s.repo.FindTeamByOwner(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, biddingerrors.ErrNotFound) {
			return models.Item{}, nil, fmt.Errorf("service: %w", biddingerrors.ErrNoTeam)
		}
		return models.Item{}, nil, fmt.Errorf("service: failed to load team for %s: %w", caller.ID, err)
	}
	if teamID != "" && teamID != team.ID {
		return models.Item{}, nil, fmt.Errorf("service: %w", biddingerrors.ErrTeamMismatch)
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return models.Item{}, nil, fmt.Errorf("service: failed to get item %s: %w", itemID, err)
	}

	now := s.now()
	if err := auction.Biddable(item, now); err != nil {
		return models.Item{}, nil, fmt.Errorf("service: %w", err)
	}

	itemState := rules.ItemState{BasePrice: item.BasePrice, CurrentPrice: item.CurrentPrice, BidCount: len(item.Bids)}
	teamState := rules.TeamState{Budget: team.Budget, OwnedCount: len(team.OwnedItems)}
	if err := s.rules.Validate(itemState, teamState, amount); err != nil {
		return models.Item{}, nil, fmt.Errorf("service: %w", err)
	}

	bid := models.Bid{
		ID:        utils.GenerateID(),
		TeamID:    team.ID,
		Amount:    amount,
		CreatedAt: now,
	}
	next, events, err := auction.PlaceBid(item, bid, now, s.timing)
	if err != nil {
		return models.Item{}, nil, fmt.Errorf("service: %w", err)
	}
	saved, err := s.repo.SaveItem(ctx, next)
	if err != nil {
		return models.Item{}, nil, fmt.Errorf("service: failed to record bid on %s by team %s: %w", itemID, team.ID, err)
	}
	return saved, events, nil
}

// SettleLot closes a lot on an admin's request. The winner is not charged.
func (s *BiddingService) SettleLot(ctx context.Context, caller models.Caller, itemID string) (models.SettleResult, error) {
	if err := requireAdmin(caller); err != nil {
		return models.SettleResult{}, err
	}
	return s.settle(ctx, itemID, true)
}

// settle closes the lot if it is still open. A lot that is already terminal,
// or whose countdown was extended since the timer looked at it, is left as is.
func (s *BiddingService) settle(ctx context.Context, itemID string, adminTriggered bool) (models.SettleResult, error) {
	res, events, err := s.settleLot(ctx, itemID, adminTriggered)
	if err != nil {
		return models.SettleResult{}, err
	}
	s.emit(ctx, events)
	return res, nil
}

func (s *BiddingService) settleLot(ctx context.Context, itemID string, adminTriggered bool) (models.SettleResult, []models.Event, error) {
	unlock := s.lockItem(itemID)
	defer unlock()

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return models.SettleResult{}, nil, fmt.Errorf("service: failed to get item %s: %w", itemID, err)
	}

	if !adminTriggered && item.Status == models.StatusOngoing && item.ActiveUntil != nil && s.now().Before(*item.ActiveUntil) {
		return models.SettleResult{Item: item}, nil, nil
	}

	saved, events, err := s.settler.Settle(ctx, item, adminTriggered)
	if err != nil {
		if errors.Is(err, biddingerrors.ErrAlreadySettled) {
			return models.SettleResult{Item: item}, nil, nil
		}
		return models.SettleResult{}, nil, fmt.Errorf("service: failed to settle %s: %w", itemID, err)
	}
	return models.SettleResult{Item: saved, Applied: true}, events, nil
}

// OpenEnrollment opens the self-enrollment window
func (s *BiddingService) OpenEnrollment(ctx context.Context, caller models.Caller) (time.Time, error) {
	if err := requireAdmin(caller); err != nil {
		return time.Time{}, err
	}
	now := s.now()
	deadline, err := s.enrollment.Open(now, s.enrollmentDuration)
	if err != nil {
		return time.Time{}, fmt.Errorf("service: %w", err)
	}

	s.emit(ctx, []models.Event{
		models.EnrollmentCountdown(auction.SecondsLeft(deadline, now)),
		models.AuditLog(fmt.Sprintf("Self-enrollment open until %s", deadline.Format(time.RFC3339))),
	})
	return deadline, nil
}

// SelfEnroll adds an item while the enrollment window is open
func (s *BiddingService) SelfEnroll(ctx context.Context, req models.NewItem) (models.Item, error) {
	if !s.enrollment.IsOpen(s.now()) {
		return models.Item{}, fmt.Errorf("service: %w", biddingerrors.ErrEnrollmentClosed)
	}
	if strings.TrimSpace(req.Discord) == "" {
		return models.Item{}, fmt.Errorf("service: %w - discord username is required", biddingerrors.ErrInvalidRequest)
	}
	req.BasePrice = s.selfEnrollBasePrice
	req.Category = models.CategoryUnassigned

	item, err := s.newItem(req, true)
	if err != nil {
		return models.Item{}, err
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return models.Item{}, fmt.Errorf("service: failed to enroll %q: %w", item.Name, err)
	}

	s.emit(ctx, []models.Event{
		models.ItemUpdated(item.ID),
		models.StatsChanged(),
		models.AuditLog(fmt.Sprintf("%s self-enrolled", item.Name)),
	})
	return item, nil
}

// CreateTeam registers a team for an owner
func (s *BiddingService) CreateTeam(ctx context.Context, caller models.Caller, req models.NewTeam) (models.Team, error) {
	if err := requireAdmin(caller); err != nil {
		return models.Team{}, err
	}
	name := strings.TrimSpace(req.Name)
	owner := strings.TrimSpace(req.OwnerID)
	if name == "" || owner == "" {
		return models.Team{}, fmt.Errorf("service: %w - name and owner are required", biddingerrors.ErrInvalidRequest)
	}
	budget := s.defaultTeamBudget
	if req.Budget != nil {
		budget = *req.Budget
	}
	if budget < 0 {
		return models.Team{}, fmt.Errorf("service: %w - budget must not be negative", biddingerrors.ErrInvalidRequest)
	}

	team := models.Team{
		ID:            utils.GenerateID(),
		Name:          name,
		OwnerID:       owner,
		Budget:        budget,
		InitialBudget: budget,
		OwnedItems:    []string{},
		Version:       1,
		CreatedAt:     s.now(),
	}
	if err := s.repo.CreateTeam(ctx, team); err != nil {
		return models.Team{}, fmt.Errorf("service: failed to create team %q: %w", name, err)
	}

	s.emit(ctx, []models.Event{
		models.TeamUpdated(team.ID),
		models.StatsChanged(),
		models.AuditLog(fmt.Sprintf("Team %s registered with budget %.2f", team.Name, team.Budget)),
	})
	return team, nil
}

// ListTeams returns every team
func (s *BiddingService) ListTeams(ctx context.Context) ([]models.Team, error) {
	teams, err := s.repo.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list teams: %w", err)
	}
	return teams, nil
}

// DeleteTeam removes a team that owns nothing and is not leading the live lot
func (s *BiddingService) DeleteTeam(ctx context.Context, caller models.Caller, teamID string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	team, err := s.deleteTeam(ctx, teamID)
	if err != nil {
		return err
	}

	s.emit(ctx, []models.Event{
		models.TeamUpdated(team.ID),
		models.StatsChanged(),
		models.AuditLog(fmt.Sprintf("Admin deleted team %s", team.Name)),
	})
	return nil
}

func (s *BiddingService) deleteTeam(ctx context.Context, teamID string) (models.Team, error) {
	// no lot can start, and no bid can land on the live one, while the team goes away
	s.startMu.Lock()
	defer s.startMu.Unlock()

	live, err := s.repo.FindOngoingItem(ctx)
	switch {
	case err == nil:
		unlock := s.lockItem(live.ID)
		defer unlock()
		current, err := s.repo.GetItem(ctx, live.ID)
		if err != nil {
			return models.Team{}, fmt.Errorf("service: failed to get item %s: %w", live.ID, err)
		}
		live = current
	case !errors.Is(err, biddingerrors.ErrNotFound):
		return models.Team{}, fmt.Errorf("service: failed to check active lot: %w", err)
	}

	team, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		return models.Team{}, fmt.Errorf("service: failed to get team %s: %w", teamID, err)
	}
	if len(team.OwnedItems) > 0 {
		return models.Team{}, fmt.Errorf("service: %w - roster holds %d items", biddingerrors.ErrTeamNotDeletable, len(team.OwnedItems))
	}
	if last, ok := live.LastBid(); ok && last.TeamID == team.ID {
		return models.Team{}, fmt.Errorf("service: %w - leading the bid on %s", biddingerrors.ErrTeamNotDeletable, live.Name)
	}

	if err := s.repo.DeleteTeam(ctx, teamID); err != nil {
		return models.Team{}, fmt.Errorf("service: failed to delete team %s: %w", teamID, err)
	}
	return team, nil
}

// MyRoster returns the Sold items owned by the caller's team
func (s *BiddingService) MyRoster(ctx context.Context, caller models.Caller) ([]models.Item, error) {
	team, err := s.repo.FindTeamByOwner(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, biddingerrors.ErrNotFound) {
			return nil, fmt.Errorf("service: %w", biddingerrors.ErrNoTeam)
		}
		return nil, fmt.Errorf("service: failed to load team for %s: %w", caller.ID, err)
	}

	items := make([]models.Item, 0, len(team.OwnedItems))
	for _, id := range team.OwnedItems {
		item, err := s.repo.GetItem(ctx, id)
		if errors.Is(err, biddingerrors.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("service: failed to load roster item %s: %w", id, err)
		}
		if item.Status == models.StatusSold {
			items = append(items, item)
		}
	}
	return items, nil
}

// Stats returns the aggregate counters shown on dashboards
func (s *BiddingService) Stats(ctx context.Context) (models.Stats, error) {
	var (
		stats models.Stats
		err   error
	)
	if stats.TotalItems, err = s.repo.CountItems(ctx, repository.ItemFilter{}); err != nil {
		return models.Stats{}, fmt.Errorf("service: failed to count items: %w", err)
	}
	live := repository.ItemFilter{Statuses: []models.ItemStatus{models.StatusOngoing}}
	if stats.LiveLots, err = s.repo.CountItems(ctx, live); err != nil {
		return models.Stats{}, fmt.Errorf("service: failed to count live lots: %w", err)
	}
	sold := repository.ItemFilter{Statuses: []models.ItemStatus{models.StatusSold}}
	if stats.ItemsSold, err = s.repo.CountItems(ctx, sold); err != nil {
		return models.Stats{}, fmt.Errorf("service: failed to count sold items: %w", err)
	}
	if stats.RegisteredTeams, err = s.repo.CountTeams(ctx); err != nil {
		return models.Stats{}, fmt.Errorf("service: failed to count teams: %w", err)
	}
	return stats, nil
}

// LotDuration is the countdown given to newly started lots
func (s *BiddingService) LotDuration() time.Duration {
	s.settingsMu.RLock()
	defer s.settingsMu.RUnlock()
	return s.lotDuration
}

// UpdateSettings changes the lot duration for lots started from now on
func (s *BiddingService) UpdateSettings(ctx context.Context, caller models.Caller, settings models.Settings) (models.Settings, error) {
	if err := requireAdmin(caller); err != nil {
		return models.Settings{}, err
	}
	if settings.LotDurationSeconds <= 5 {
		return models.Settings{}, fmt.Errorf("service: %w - got %ds", biddingerrors.ErrInvalidDuration, settings.LotDurationSeconds)
	}

	s.settingsMu.Lock()
	s.lotDuration = time.Duration(settings.LotDurationSeconds) * time.Second
	s.settingsMu.Unlock()

	s.emit(ctx, []models.Event{
		models.AuditLog(fmt.Sprintf("Admin set the lot duration to %d seconds", settings.LotDurationSeconds)),
	})
	return settings, nil
}

// Tick advances the clocks: it settles an elapsed lot or reports its
// countdown, and does the same for the enrollment window. Failures are
// returned after both steps ran; the next tick retries.
func (s *BiddingService) Tick(ctx context.Context) error {
	var errs []error
	now := s.now()

	item, err := s.repo.FindOngoingItem(ctx)
	switch {
	case err == nil:
		if item.ActiveUntil == nil || !now.Before(*item.ActiveUntil) {
			if _, err := s.settle(ctx, item.ID, false); err != nil {
				errs = append(errs, err)
				s.emit(ctx, []models.Event{
					models.AuditLog(fmt.Sprintf("Settlement of %s failed: %s", item.Name, biddingerrors.Code(err))),
				})
			}
		} else {
			s.emit(ctx, []models.Event{models.Countdown(item.ID, auction.SecondsLeft(*item.ActiveUntil, now))})
		}
	case errors.Is(err, biddingerrors.ErrNotFound):
	default:
		errs = append(errs, fmt.Errorf("service: failed to find active lot: %w", err))
	}

	switch status, left := s.enrollment.Tick(now); status {
	case enrollment.Open:
		s.emit(ctx, []models.Event{models.EnrollmentCountdown(auction.SecondsLeft(now.Add(left), now))})
	case enrollment.JustClosed:
		s.emit(ctx, []models.Event{
			models.EnrollmentCountdown(0),
			models.AuditLog("Self-enrollment window closed"),
		})
	}

	return errors.Join(errs...)
}
