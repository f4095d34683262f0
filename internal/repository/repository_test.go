package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"player-auction/internal/biddingerrors"
	model "player-auction/internal/models"

	"github.com/stretchr/testify/require"
)

// Helper to create a new Item
func newItem(itemID, name string, status model.ItemStatus, currentPrice float64) model.Item {
	item := model.Item{
		ID:           itemID,
		Name:         name,
		Category:     model.CategoryUnassigned,
		BasePrice:    10,
		CurrentPrice: currentPrice,
		Status:       status,
		Bids:         []model.Bid{},
		Version:      1,
		CreatedAt:    time.Now().UTC(),
	}
	if status == model.StatusOngoing {
		until := time.Now().Add(time.Minute)
		item.ActiveUntil = &until
	}
	return item
}

// Helper to create a new Team
func newTeam(teamID, ownerID string, budget float64) model.Team {
	return model.Team{
		ID:            teamID,
		Name:          "Team " + teamID,
		OwnerID:       ownerID,
		Budget:        budget,
		InitialBudget: budget,
		OwnedItems:    []string{},
		Version:       1,
	}
}

// Test CreateItem
func TestMemoryRepo_CreateItem(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := NewMemoryRepo()
	require.NoError(t, repo.CreateItem(ctx, newItem("item1", "Alpha", model.StatusPending, 10)))
	require.NoError(t, repo.CreateItem(ctx, newItem("item9", "Live", model.StatusOngoing, 10)))

	tests := []struct {
		name    string
		item    model.Item
		wantErr error
	}{
		{name: "new_item", item: newItem("item2", "Beta", model.StatusPending, 10)},
		{name: "duplicate_id", item: newItem("item1", "Gamma", model.StatusPending, 10), wantErr: biddingerrors.ErrDuplicateItem},
		{name: "duplicate_name", item: newItem("item3", "Alpha", model.StatusPending, 10), wantErr: biddingerrors.ErrDuplicateItem},
		{name: "second_ongoing", item: newItem("item4", "Delta", model.StatusOngoing, 10), wantErr: biddingerrors.ErrLotActive},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := repo.CreateItem(ctx, tc.item)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			got, err := repo.GetItem(ctx, tc.item.ID)
			require.NoError(t, err)
			require.Equal(t, tc.item.Name, got.Name)
		})
	}
}

// Test SaveItem version checks
func TestMemoryRepo_SaveItem(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := NewMemoryRepo()
	require.NoError(t, repo.CreateItem(ctx, newItem("item1", "Alpha", model.StatusPending, 10)))
	require.NoError(t, repo.CreateItem(ctx, newItem("item2", "Beta", model.StatusOngoing, 10)))

	t.Run("saves_and_bumps_version", func(t *testing.T) {
		item, err := repo.GetItem(ctx, "item1")
		require.NoError(t, err)
		item.CurrentPrice = 40

		saved, err := repo.SaveItem(ctx, item)
		require.NoError(t, err)
		require.Equal(t, 2, saved.Version)

		stored, err := repo.GetItem(ctx, "item1")
		require.NoError(t, err)
		require.Equal(t, 40.0, stored.CurrentPrice)
	})

	t.Run("stale_version_rejected", func(t *testing.T) {
		stale := newItem("item1", "Alpha", model.StatusPending, 99)
		_, err := repo.SaveItem(ctx, stale)
		require.ErrorIs(t, err, biddingerrors.ErrStaleWrite)
		require.ErrorIs(t, err, biddingerrors.ErrConflict)
	})

	t.Run("unknown_item", func(t *testing.T) {
		_, err := repo.SaveItem(ctx, newItem("itemX", "X", model.StatusPending, 10))
		require.ErrorIs(t, err, biddingerrors.ErrItemNotFound)
	})

	t.Run("second_ongoing_rejected", func(t *testing.T) {
		item, err := repo.GetItem(ctx, "item1")
		require.NoError(t, err)
		item.Status = model.StatusOngoing
		_, err = repo.SaveItem(ctx, item)
		require.ErrorIs(t, err, biddingerrors.ErrLotActive)
	})

	t.Run("returned_copy_is_isolated", func(t *testing.T) {
		item, err := repo.GetItem(ctx, "item2")
		require.NoError(t, err)
		item.Bids = append(item.Bids, model.Bid{ID: "b1", TeamID: "t1", Amount: 20})

		again, err := repo.GetItem(ctx, "item2")
		require.NoError(t, err)
		require.Empty(t, again.Bids)
	})
}

// Test ListItems ordering and filters
func TestMemoryRepo_ListItems(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := NewMemoryRepo()
	seed := []model.Item{
		newItem("item1", "Sold Cheap", model.StatusSold, 20),
		newItem("item2", "Pending High", model.StatusPending, 90),
		newItem("item3", "Pending Low", model.StatusPending, 30),
		newItem("item4", "Live", model.StatusOngoing, 50),
		newItem("item5", "Unsold", model.StatusUnsold, 10),
	}
	for _, item := range seed {
		require.NoError(t, repo.CreateItem(ctx, item))
	}

	tests := []struct {
		name    string
		filter  ItemFilter
		wantIDs []string
	}{
		{name: "all_items", filter: ItemFilter{}, wantIDs: []string{"item4", "item2", "item3", "item1", "item5"}},
		{name: "biddable_items", filter: Biddable, wantIDs: []string{"item4", "item2", "item3"}},
		{name: "sold_only", filter: ItemFilter{Statuses: []model.ItemStatus{model.StatusSold}}, wantIDs: []string{"item1"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			items, err := repo.ListItems(ctx, tc.filter)
			require.NoError(t, err)
			ids := make([]string, 0, len(items))
			for _, item := range items {
				ids = append(ids, item.ID)
			}
			require.Equal(t, tc.wantIDs, ids)

			n, err := repo.CountItems(ctx, tc.filter)
			require.NoError(t, err)
			require.Equal(t, len(tc.wantIDs), n)
		})
	}
}

// Test team lookups
func TestMemoryRepo_Teams(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := NewMemoryRepo()
	require.NoError(t, repo.CreateTeam(ctx, newTeam("t1", "owner1", 1000)))
	require.NoError(t, repo.CreateTeam(ctx, newTeam("t2", "owner2", 800)))

	err := repo.CreateTeam(ctx, newTeam("t3", "owner1", 500))
	require.ErrorIs(t, err, biddingerrors.ErrOwnerHasTeam)

	team, err := repo.FindTeamByOwner(ctx, "owner2")
	require.NoError(t, err)
	require.Equal(t, "t2", team.ID)

	_, err = repo.FindTeamByOwner(ctx, "nobody")
	require.ErrorIs(t, err, biddingerrors.ErrTeamNotFound)

	_, err = repo.GetTeam(ctx, "tX")
	require.ErrorIs(t, err, biddingerrors.ErrNotFound)

	teams, err := repo.ListTeams(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 2)

	n, err := repo.CountTeams(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	sameName := newTeam("t4", "owner4", 500)
	sameName.Name = "Team t1"
	err = repo.CreateTeam(ctx, sameName)
	require.ErrorIs(t, err, biddingerrors.ErrDuplicateTeam)

	require.NoError(t, repo.DeleteTeam(ctx, "t1"))
	_, err = repo.GetTeam(ctx, "t1")
	require.ErrorIs(t, err, biddingerrors.ErrTeamNotFound)
	require.ErrorIs(t, repo.DeleteTeam(ctx, "t1"), biddingerrors.ErrNotFound)

	// the name and owner are free again
	require.NoError(t, repo.CreateTeam(ctx, sameName))
}

// Test CommitSettlement atomicity
func TestMemoryRepo_CommitSettlement(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("writes_team_and_item", func(t *testing.T) {
		t.Parallel()
		repo := NewMemoryRepo()
		require.NoError(t, repo.CreateTeam(ctx, newTeam("t1", "owner1", 1000)))
		require.NoError(t, repo.CreateItem(ctx, newItem("item1", "Alpha", model.StatusOngoing, 70)))

		team, err := repo.GetTeam(ctx, "t1")
		require.NoError(t, err)
		item, err := repo.GetItem(ctx, "item1")
		require.NoError(t, err)

		team.Budget -= 70
		team.OwnedItems = append(team.OwnedItems, item.ID)
		amount := 70.0
		item.Status = model.StatusSold
		item.ActiveUntil = nil
		item.WinnerID = team.ID
		item.SoldAmount = &amount

		saved, err := repo.CommitSettlement(ctx, &team, item)
		require.NoError(t, err)
		require.Equal(t, model.StatusSold, saved.Status)

		stored, err := repo.GetTeam(ctx, "t1")
		require.NoError(t, err)
		require.Equal(t, 930.0, stored.Budget)
		require.Equal(t, []string{"item1"}, stored.OwnedItems)
		require.Equal(t, 2, stored.Version)
	})

	t.Run("stale_item_leaves_team_untouched", func(t *testing.T) {
		t.Parallel()
		repo := NewMemoryRepo()
		require.NoError(t, repo.CreateTeam(ctx, newTeam("t1", "owner1", 1000)))
		require.NoError(t, repo.CreateItem(ctx, newItem("item1", "Alpha", model.StatusOngoing, 70)))

		team, err := repo.GetTeam(ctx, "t1")
		require.NoError(t, err)
		team.Budget = 0

		stale := newItem("item1", "Alpha", model.StatusSold, 70)
		stale.Version = 7
		_, err = repo.CommitSettlement(ctx, &team, stale)
		require.ErrorIs(t, err, biddingerrors.ErrStaleWrite)

		stored, err := repo.GetTeam(ctx, "t1")
		require.NoError(t, err)
		require.Equal(t, 1000.0, stored.Budget)
	})

	t.Run("unsold_without_team", func(t *testing.T) {
		t.Parallel()
		repo := NewMemoryRepo()
		require.NoError(t, repo.CreateItem(ctx, newItem("item1", "Alpha", model.StatusOngoing, 10)))
		item, err := repo.GetItem(ctx, "item1")
		require.NoError(t, err)
		item.Status = model.StatusUnsold
		item.ActiveUntil = nil

		saved, err := repo.CommitSettlement(ctx, nil, item)
		require.NoError(t, err)
		require.Equal(t, model.StatusUnsold, saved.Status)
	})
}

// concurrency test: only one writer per version wins
func TestMemoryRepo_ConcurrentSaves(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := NewMemoryRepo()
	require.NoError(t, repo.CreateItem(ctx, newItem("item1", "Alpha", model.StatusPending, 10)))
	base, err := repo.GetItem(ctx, "item1")
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			attempt := base.Clone()
			attempt.CurrentPrice = float64(100 + i)
			if _, err := repo.SaveItem(ctx, attempt); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			} else if !errorsIsStale(err) {
				panic(fmt.Sprintf("unexpected error: %v", err))
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, wins)
}

func errorsIsStale(err error) bool {
	return biddingerrors.Code(err) == biddingerrors.ErrStaleWrite.Code
}
