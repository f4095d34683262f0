package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"player-auction/internal/biddingerrors"
	model "player-auction/internal/models"
)

// ItemFilter narrows item queries. An empty filter matches every item.
type ItemFilter struct {
	Statuses []model.ItemStatus
}

// Biddable matches items a team owner can currently see on the block
var Biddable = ItemFilter{Statuses: []model.ItemStatus{model.StatusPending, model.StatusOngoing}}

func (f ItemFilter) matches(item model.Item) bool {
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if item.Status == s {
			return true
		}
	}
	return false
}

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// AuctionDB defines the catalog storage interface for the auction system.
// Saves are compare-and-save: the caller passes the version it read and the
// store rejects the write with ErrStaleWrite if another writer got there first.
type AuctionDB interface {
	GetItem(ctx context.Context, itemID string) (model.Item, error)
	FindItemByName(ctx context.Context, name string) (model.Item, error)
	FindOngoingItem(ctx context.Context) (model.Item, error)
	ListItems(ctx context.Context, filter ItemFilter) ([]model.Item, error)
	CountItems(ctx context.Context, filter ItemFilter) (int, error)
	CreateItem(ctx context.Context, item model.Item) error
	SaveItem(ctx context.Context, item model.Item) (model.Item, error)
	DeleteItem(ctx context.Context, itemID string) error

	GetTeam(ctx context.Context, teamID string) (model.Team, error)
	FindTeamByOwner(ctx context.Context, ownerID string) (model.Team, error)
	ListTeams(ctx context.Context) ([]model.Team, error)
	CountTeams(ctx context.Context) (int, error)
	CreateTeam(ctx context.Context, team model.Team) error
	DeleteTeam(ctx context.Context, teamID string) error

	// CommitSettlement persists the winning team (nil for an unsold lot) and the
	// settled item as one unit. The team write is applied first.
	CommitSettlement(ctx context.Context, team *model.Team, item model.Item) (model.Item, error)
}

// sortItems orders by status name then by current price, highest first
func sortItems(items []model.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Status != items[j].Status {
			return items[i].Status < items[j].Status
		}
		return items[i].CurrentPrice > items[j].CurrentPrice
	})
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]model.Item // key: itemID
	teams map[string]model.Team // key: teamID
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		items: make(map[string]model.Item),
		teams: make(map[string]model.Team),
	}
}

// GetItem returns a copy of the item with the given id
func (r *MemoryRepo) GetItem(_ context.Context, itemID string) (model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[itemID]
	if !ok {
		return model.Item{}, fmt.Errorf("get item %s: %w", itemID, biddingerrors.ErrItemNotFound)
	}
	return item.Clone(), nil
}

// FindItemByName returns the item with the given name
func (r *MemoryRepo) FindItemByName(_ context.Context, name string) (model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.Name == name {
			return item.Clone(), nil
		}
	}
	return model.Item{}, fmt.Errorf("find item %q: %w", name, biddingerrors.ErrItemNotFound)
}

// FindOngoingItem returns the lot currently being auctioned, if any
func (r *MemoryRepo) FindOngoingItem(_ context.Context) (model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.Status == model.StatusOngoing {
			return item.Clone(), nil
		}
	}
	return model.Item{}, fmt.Errorf("find ongoing item: %w", biddingerrors.ErrItemNotFound)
}

// ListItems returns the items matching filter in catalog order
func (r *MemoryRepo) ListItems(_ context.Context, filter ItemFilter) ([]model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.Item, 0, len(r.items))
	for _, item := range r.items {
		if filter.matches(item) {
			items = append(items, item.Clone())
		}
	}
	sortItems(items)
	return items, nil
}

// CountItems returns how many items match filter
func (r *MemoryRepo) CountItems(_ context.Context, filter ItemFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, item := range r.items {
		if filter.matches(item) {
			n++
		}
	}
	return n, nil
}

// CreateItem inserts a new item; names and non-empty discord usernames are unique
func (r *MemoryRepo) CreateItem(_ context.Context, item model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; ok {
		return fmt.Errorf("create item %s: %w", item.ID, biddingerrors.ErrDuplicateItem)
	}
	for _, existing := range r.items {
		if existing.Name == item.Name {
			return fmt.Errorf("create item %q: %w", item.Name, biddingerrors.ErrDuplicateItem)
		}
		if item.Discord != "" && existing.Discord == item.Discord {
			return fmt.Errorf("create item %q: %w", item.Name, biddingerrors.ErrDuplicateDiscord)
		}
	}
	if item.Status == model.StatusOngoing {
		if err := r.checkNoOtherOngoingLocked(item.ID); err != nil {
			return err
		}
	}
	r.items[item.ID] = item.Clone()
	return nil
}

// SaveItem replaces an item if its version still matches the stored one
func (r *MemoryRepo) SaveItem(_ context.Context, item model.Item) (model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkItemLocked(item); err != nil {
		return model.Item{}, err
	}
	return r.putItemLocked(item), nil
}

// DeleteItem removes an item from the catalog
func (r *MemoryRepo) DeleteItem(_ context.Context, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[itemID]; !ok {
		return fmt.Errorf("delete item %s: %w", itemID, biddingerrors.ErrItemNotFound)
	}
	delete(r.items, itemID)
	return nil
}

// GetTeam returns a copy of the team with the given id
func (r *MemoryRepo) GetTeam(_ context.Context, teamID string) (model.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	team, ok := r.teams[teamID]
	if !ok {
		return model.Team{}, fmt.Errorf("get team %s: %w", teamID, biddingerrors.ErrTeamNotFound)
	}
	return team.Clone(), nil
}

// FindTeamByOwner returns the team owned by the given user
func (r *MemoryRepo) FindTeamByOwner(_ context.Context, ownerID string) (model.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, team := range r.teams {
		if team.OwnerID == ownerID {
			return team.Clone(), nil
		}
	}
	return model.Team{}, fmt.Errorf("find team for owner %s: %w", ownerID, biddingerrors.ErrTeamNotFound)
}

// ListTeams returns every team ordered by name
func (r *MemoryRepo) ListTeams(_ context.Context) ([]model.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teams := make([]model.Team, 0, len(r.teams))
	for _, team := range r.teams {
		teams = append(teams, team.Clone())
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams, nil
}

// CountTeams returns the number of registered teams
func (r *MemoryRepo) CountTeams(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.teams), nil
}

// CreateTeam registers a team; each owner may hold one team and names are unique
func (r *MemoryRepo) CreateTeam(_ context.Context, team model.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.teams {
		if existing.OwnerID == team.OwnerID {
			return fmt.Errorf("create team for owner %s: %w", team.OwnerID, biddingerrors.ErrOwnerHasTeam)
		}
		if existing.Name == team.Name {
			return fmt.Errorf("create team %q: %w", team.Name, biddingerrors.ErrDuplicateTeam)
		}
	}
	if _, ok := r.teams[team.ID]; ok {
		return fmt.Errorf("create team %s: %w", team.ID, biddingerrors.ErrStaleWrite)
	}
	r.teams[team.ID] = team.Clone()
	return nil
}

// DeleteTeam removes a team
func (r *MemoryRepo) DeleteTeam(_ context.Context, teamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.teams[teamID]; !ok {
		return fmt.Errorf("delete team %s: %w", teamID, biddingerrors.ErrTeamNotFound)
	}
	delete(r.teams, teamID)
	return nil
}

// CommitSettlement checks both versions before writing either record, so a
// rejected commit leaves the store untouched
func (r *MemoryRepo) CommitSettlement(_ context.Context, team *model.Team, item model.Item) (model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if team != nil {
		stored, ok := r.teams[team.ID]
		if !ok {
			return model.Item{}, fmt.Errorf("commit settlement: %w", biddingerrors.ErrTeamNotFound)
		}
		if stored.Version != team.Version {
			return model.Item{}, fmt.Errorf("commit settlement team %s: %w", team.ID, biddingerrors.ErrStaleWrite)
		}
	}
	if err := r.checkItemLocked(item); err != nil {
		return model.Item{}, err
	}

	if team != nil {
		next := team.Clone()
		next.Version++
		r.teams[team.ID] = next
	}
	return r.putItemLocked(item), nil
}

func (r *MemoryRepo) checkItemLocked(item model.Item) error {
	stored, ok := r.items[item.ID]
	if !ok {
		return fmt.Errorf("save item %s: %w", item.ID, biddingerrors.ErrItemNotFound)
	}
	if stored.Version != item.Version {
		return fmt.Errorf("save item %s: %w", item.ID, biddingerrors.ErrStaleWrite)
	}
	if item.Status == model.StatusOngoing {
		return r.checkNoOtherOngoingLocked(item.ID)
	}
	return nil
}

func (r *MemoryRepo) checkNoOtherOngoingLocked(itemID string) error {
	for id, other := range r.items {
		if id != itemID && other.Status == model.StatusOngoing {
			return fmt.Errorf("save item %s: %w", itemID, biddingerrors.ErrLotActive)
		}
	}
	return nil
}

func (r *MemoryRepo) putItemLocked(item model.Item) model.Item {
	next := item.Clone()
	next.Version++
	r.items[item.ID] = next
	return next.Clone()
}
