package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"player-auction/internal/biddingerrors"
	model "player-auction/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	itemColumns = `id, name, category, self_enrolled, discord_username, image_url, base_price, current_price, status, active_until,
		bids, COALESCE(winner_id::text, ''), sold_amount, waived, version, created_at`
	teamColumns = `id, name, owner_id, budget, initial_budget, owned_items, version, created_at`

	uniqueViolation = "23505"
	oneOngoingIndex = "items_one_ongoing"
	discordIndex    = "items_discord_username"
	teamNameKey     = "teams_name_key"
)

// PostgresRepo implements AuctionDB on top of a pgx connection pool
type PostgresRepo struct {
	DB *pgxpool.Pool
}

// NewPostgresRepo creates a new PostgresRepo
func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

// InitPool opens a pgx pool and verifies connectivity
func InitPool(ctx context.Context, conn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return pool, nil
}

func scanItem(row pgx.Row) (model.Item, error) {
	var item model.Item
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Category,
		&item.SelfEnrolled,
		&item.Discord,
		&item.ImageURL,
		&item.BasePrice,
		&item.CurrentPrice,
		&item.Status,
		&item.ActiveUntil,
		&item.Bids,
		&item.WinnerID,
		&item.SoldAmount,
		&item.Waived,
		&item.Version,
		&item.CreatedAt,
	)
	if item.Bids == nil {
		item.Bids = []model.Bid{}
	}
	return item, err
}

func scanTeam(row pgx.Row) (model.Team, error) {
	var team model.Team
	err := row.Scan(
		&team.ID,
		&team.Name,
		&team.OwnerID,
		&team.Budget,
		&team.InitialBudget,
		&team.OwnedItems,
		&team.Version,
		&team.CreatedAt,
	)
	return team, err
}

// storeErr maps driver errors onto the error taxonomy
func storeErr(op string, err error, notFound error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, notFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch {
		case pgErr.ConstraintName == oneOngoingIndex:
			return fmt.Errorf("%s: %w", op, biddingerrors.ErrLotActive)
		case strings.Contains(pgErr.ConstraintName, "owner"):
			return fmt.Errorf("%s: %w", op, biddingerrors.ErrOwnerHasTeam)
		case pgErr.ConstraintName == discordIndex:
			return fmt.Errorf("%s: %w", op, biddingerrors.ErrDuplicateDiscord)
		case pgErr.ConstraintName == teamNameKey:
			return fmt.Errorf("%s: %w", op, biddingerrors.ErrDuplicateTeam)
		default:
			return fmt.Errorf("%s: %w", op, biddingerrors.ErrDuplicateItem)
		}
	}
	return fmt.Errorf("%s: %w: %v", op, biddingerrors.ErrStoreFailure, err)
}

// GetItem returns the item with the given id
func (r *PostgresRepo) GetItem(ctx context.Context, itemID string) (model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	item, err := scanItem(r.DB.QueryRow(ctx, query, itemID))
	if err != nil {
		return model.Item{}, storeErr("get item "+itemID, err, biddingerrors.ErrItemNotFound)
	}
	return item, nil
}

// FindItemByName returns the item with the given name
func (r *PostgresRepo) FindItemByName(ctx context.Context, name string) (model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE name = $1`
	item, err := scanItem(r.DB.QueryRow(ctx, query, name))
	if err != nil {
		return model.Item{}, storeErr("find item "+name, err, biddingerrors.ErrItemNotFound)
	}
	return item, nil
}

// FindOngoingItem returns the lot currently being auctioned
func (r *PostgresRepo) FindOngoingItem(ctx context.Context) (model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE status = $1 LIMIT 1`
	item, err := scanItem(r.DB.QueryRow(ctx, query, model.StatusOngoing))
	if err != nil {
		return model.Item{}, storeErr("find ongoing item", err, biddingerrors.ErrItemNotFound)
	}
	return item, nil
}

func filterClause(filter ItemFilter) (string, []any) {
	if len(filter.Statuses) == 0 {
		return "", nil
	}
	statuses := make([]string, 0, len(filter.Statuses))
	for _, s := range filter.Statuses {
		statuses = append(statuses, string(s))
	}
	return ` WHERE status = ANY($1)`, []any{statuses}
}

// ListItems returns the items matching filter ordered by status then price
func (r *PostgresRepo) ListItems(ctx context.Context, filter ItemFilter) ([]model.Item, error) {
	where, args := filterClause(filter)
	query := `SELECT ` + itemColumns + ` FROM items` + where + ` ORDER BY status ASC, current_price DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list items", err, biddingerrors.ErrItemNotFound)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, storeErr("scan item", err, biddingerrors.ErrItemNotFound)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list items", err, biddingerrors.ErrItemNotFound)
	}
	return items, nil
}

// CountItems returns how many items match filter
func (r *PostgresRepo) CountItems(ctx context.Context, filter ItemFilter) (int, error) {
	where, args := filterClause(filter)
	var n int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM items`+where, args...).Scan(&n); err != nil {
		return 0, storeErr("count items", err, biddingerrors.ErrItemNotFound)
	}
	return n, nil
}

// CreateItem inserts a new item
func (r *PostgresRepo) CreateItem(ctx context.Context, item model.Item) error {
	query := `INSERT INTO items (id, name, category, self_enrolled, discord_username, image_url,
		base_price, current_price, status, active_until, bids, waived, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.DB.Exec(ctx, query,
		item.ID,
		item.Name,
		item.Category,
		item.SelfEnrolled,
		item.Discord,
		item.ImageURL,
		item.BasePrice,
		item.CurrentPrice,
		item.Status,
		item.ActiveUntil,
		nonNilBids(item.Bids),
		item.Waived,
		item.Version,
		item.CreatedAt)
	if err != nil {
		return storeErr("create item "+item.Name, err, biddingerrors.ErrItemNotFound)
	}
	return nil
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func saveItem(ctx context.Context, db execer, item model.Item) (model.Item, error) {
	var winner *string
	if item.WinnerID != "" {
		winner = &item.WinnerID
	}
	query := `UPDATE items SET category = $2, base_price = $3, current_price = $4, status = $5, active_until = $6,
		bids = $7, winner_id = $8, sold_amount = $9, waived = $10, version = version + 1
		WHERE id = $1 AND version = $11`
	tag, err := db.Exec(ctx, query,
		item.ID,
		item.Category,
		item.BasePrice,
		item.CurrentPrice,
		item.Status,
		item.ActiveUntil,
		nonNilBids(item.Bids),
		winner,
		item.SoldAmount,
		item.Waived,
		item.Version)
	if err != nil {
		return model.Item{}, storeErr("save item "+item.ID, err, biddingerrors.ErrItemNotFound)
	}
	if tag.RowsAffected() == 0 {
		return model.Item{}, fmt.Errorf("save item %s: %w", item.ID, biddingerrors.ErrStaleWrite)
	}
	saved := item.Clone()
	saved.Version++
	return saved, nil
}

// SaveItem updates an item if its version still matches
func (r *PostgresRepo) SaveItem(ctx context.Context, item model.Item) (model.Item, error) {
	return saveItem(ctx, r.DB, item)
}

// DeleteItem removes an item from the catalog
func (r *PostgresRepo) DeleteItem(ctx context.Context, itemID string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM items WHERE id = $1`, itemID)
	if err != nil {
		return storeErr("delete item "+itemID, err, biddingerrors.ErrItemNotFound)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete item %s: %w", itemID, biddingerrors.ErrItemNotFound)
	}
	return nil
}

// GetTeam returns the team with the given id
func (r *PostgresRepo) GetTeam(ctx context.Context, teamID string) (model.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	team, err := scanTeam(r.DB.QueryRow(ctx, query, teamID))
	if err != nil {
		return model.Team{}, storeErr("get team "+teamID, err, biddingerrors.ErrTeamNotFound)
	}
	return team, nil
}

// FindTeamByOwner returns the team owned by ownerID
func (r *PostgresRepo) FindTeamByOwner(ctx context.Context, ownerID string) (model.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE owner_id = $1`
	team, err := scanTeam(r.DB.QueryRow(ctx, query, ownerID))
	if err != nil {
		return model.Team{}, storeErr("find team for owner "+ownerID, err, biddingerrors.ErrTeamNotFound)
	}
	return team, nil
}

// ListTeams returns every team ordered by name
func (r *PostgresRepo) ListTeams(ctx context.Context) ([]model.Team, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY name`)
	if err != nil {
		return nil, storeErr("list teams", err, biddingerrors.ErrTeamNotFound)
	}
	defer rows.Close()

	teams := []model.Team{}
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, storeErr("scan team", err, biddingerrors.ErrTeamNotFound)
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list teams", err, biddingerrors.ErrTeamNotFound)
	}
	return teams, nil
}

// CountTeams returns the number of registered teams
func (r *PostgresRepo) CountTeams(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM teams`).Scan(&n); err != nil {
		return 0, storeErr("count teams", err, biddingerrors.ErrTeamNotFound)
	}
	return n, nil
}

// CreateTeam registers a new team
func (r *PostgresRepo) CreateTeam(ctx context.Context, team model.Team) error {
	owned := team.OwnedItems
	if owned == nil {
		owned = []string{}
	}
	query := `INSERT INTO teams (id, name, owner_id, budget, initial_budget, owned_items, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.Exec(ctx, query,
		team.ID,
		team.Name,
		team.OwnerID,
		team.Budget,
		team.InitialBudget,
		owned,
		team.Version,
		team.CreatedAt)
	if err != nil {
		return storeErr("create team "+team.Name, err, biddingerrors.ErrTeamNotFound)
	}
	return nil
}

// DeleteTeam removes a team
func (r *PostgresRepo) DeleteTeam(ctx context.Context, teamID string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM teams WHERE id = $1`, teamID)
	if err != nil {
		return storeErr("delete team "+teamID, err, biddingerrors.ErrTeamNotFound)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete team %s: %w", teamID, biddingerrors.ErrTeamNotFound)
	}
	return nil
}

// CommitSettlement writes the team then the item inside one transaction
func (r *PostgresRepo) CommitSettlement(ctx context.Context, team *model.Team, item model.Item) (model.Item, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return model.Item{}, storeErr("begin settlement", err, biddingerrors.ErrItemNotFound)
	}
	defer func() {
		_ = tx.Rollback(ctx) // no-op once committed
	}()

	if team != nil {
		query := `UPDATE teams SET budget = $2, owned_items = $3, version = version + 1
			WHERE id = $1 AND version = $4`
		tag, err := tx.Exec(ctx, query, team.ID, team.Budget, team.OwnedItems, team.Version)
		if err != nil {
			return model.Item{}, storeErr("settle team "+team.ID, err, biddingerrors.ErrTeamNotFound)
		}
		if tag.RowsAffected() == 0 {
			return model.Item{}, fmt.Errorf("settle team %s: %w", team.ID, biddingerrors.ErrStaleWrite)
		}
	}

	saved, err := saveItem(ctx, tx, item)
	if err != nil {
		return model.Item{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Item{}, storeErr("commit settlement", err, biddingerrors.ErrItemNotFound)
	}
	return saved, nil
}

func nonNilBids(bids []model.Bid) []model.Bid {
	if bids == nil {
		return []model.Bid{}
	}
	return bids
}
