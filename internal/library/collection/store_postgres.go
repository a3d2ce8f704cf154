// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/kigo/internal/platform/apperr"
	"github.com/taibuivan/kigo/internal/platform/database/schema"
	"github.com/taibuivan/kigo/internal/platform/dberr"
	"github.com/taibuivan/kigo/internal/platform/postgres"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository constructs a PostgreSQL backed collection store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var errCollectionNotFound = apperr.NotFound("Collection")

// # Collection

/*
Create inserts a new collection.

Parameters:
  - context: context.Context
  - collection: *Collection

Returns:
  - error: apperr.NotFound("User") when the owner has no profile, or database failures
*/
func (repository *PostgresRepository) Create(context context.Context, collection *Collection) error {
	table := schema.LibraryCollection
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, 0, 0, 0, $6, $7)`,
		table.Table,
		table.ID, table.OwnerID, table.Name, table.Description, table.IsPublic,
		table.ItemCount, table.NextOrder, table.FollowerCount, table.CreatedAt, table.UpdatedAt,
	)

	_, err := postgres.Conn(context, repository.pool).Exec(context, query,
		collection.ID, collection.OwnerID, collection.Name, collection.Description, collection.IsPublic,
		collection.CreatedAt, collection.UpdatedAt,
	)
	if postgres.IsForeignKeyViolation(err) {
		return apperr.NotFound("User")
	}
	return dberr.Wrap(err, "create_collection")
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Collection, error) {
	const query = `
		SELECT id, ownerid, name, description, ispublic, itemcount, nextorder, followercount, createdat, updatedat
		FROM library.collection
		WHERE id = $1
	`
	collection := &Collection{}
	err := postgres.Conn(context, repository.pool).QueryRow(context, query, id).Scan(
		&collection.ID, &collection.OwnerID, &collection.Name, &collection.Description, &collection.IsPublic,
		&collection.ItemCount, &collection.NextOrder, &collection.FollowerCount, &collection.CreatedAt, &collection.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errCollectionNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_collection_by_id")
	}
	return collection, nil
}

// IncrementItemCount implements [Repository].
func (repository *PostgresRepository) IncrementItemCount(context context.Context, collectionID string, updatedAt time.Time) error {
	const query = `UPDATE library.collection SET itemcount = itemcount + 1, nextorder = nextorder + 1, updatedat = $2 WHERE id = $1`

	tag, err := postgres.Conn(context, repository.pool).Exec(context, query, collectionID, updatedAt)
	if err != nil {
		return dberr.Wrap(err, "increment_collection_item_count")
	}
	if tag.RowsAffected() == 0 {
		return errCollectionNotFound
	}
	return nil
}

// # Membership

// MembershipExists implements [Repository].
func (repository *PostgresRepository) MembershipExists(context context.Context, collectionID, haikuID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM library.collectionitem WHERE collectionid = $1 AND haikuid = $2)`

	var exists bool
	err := postgres.Conn(context, repository.pool).QueryRow(context, query, collectionID, haikuID).Scan(&exists)
	if err != nil {
		return false, dberr.Wrap(err, "check_collection_item")
	}
	return exists, nil
}

// AddMembership implements [Repository].
func (repository *PostgresRepository) AddMembership(context context.Context, membership Membership) error {
	table := schema.LibraryCollectionItem
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		table.Table, table.CollectionID, table.HaikuID, table.SortOrder, table.AddedAt,
	)

	_, err := postgres.Conn(context, repository.pool).Exec(context, query,
		membership.CollectionID, membership.HaikuID, membership.Order, membership.AddedAt,
	)
	return dberr.Wrap(err, "add_collection_item")
}

/*
ListItems returns one page of a collection's memberships.

Description: Ordered by sortorder ascending; COUNT(*) OVER() supplies the total.

Parameters:
  - context: context.Context
  - collectionID: string
  - limit: int
  - offset: int

Returns:
  - []Membership: Page of items
  - int: Total item count
  - error: Database failures
*/
func (repository *PostgresRepository) ListItems(context context.Context, collectionID string, limit, offset int) ([]Membership, int, error) {
	const query = `
		SELECT collectionid, haikuid, sortorder, addedat, COUNT(*) OVER() AS total
		FROM library.collectionitem
		WHERE collectionid = $1
		ORDER BY sortorder ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := postgres.Conn(context, repository.pool).Query(context, query, collectionID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_collection_items")
	}
	defer rows.Close()

	items := []Membership{}
	var total int
	for rows.Next() {
		var item Membership
		if err := rows.Scan(&item.CollectionID, &item.HaikuID, &item.Order, &item.AddedAt, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_collection_item")
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_collection_items")
	}

	return items, total, nil
}
