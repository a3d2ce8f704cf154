// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package haiku

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

// NewPostgresRepository constructs a PostgreSQL backed haiku store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var errHaikuNotFound = apperr.NotFound("Haiku")

// # Retrieval

/*
FindByID retrieves a single haiku by primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Haiku: Hydrated entity
  - error: apperr.NotFound("Haiku") or database failures
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Haiku, error) {
	const query = `
		SELECT id, ownerid, content, theme, isai, ispublic, issaved, likecount, likedby, createdat
		FROM content.haiku
		WHERE id = $1
	`
	haiku := &Haiku{}
	err := postgres.Conn(context, repository.pool).QueryRow(context, query, id).Scan(
		&haiku.ID, &haiku.OwnerID, &haiku.Content, &haiku.Theme, &haiku.IsAI,
		&haiku.IsPublic, &haiku.IsSaved, &haiku.LikeCount, &haiku.LikedBy, &haiku.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errHaikuNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_haiku_by_id")
	}
	return haiku, nil
}

// CountByOwner implements [Repository].
func (repository *PostgresRepository) CountByOwner(context context.Context, ownerID string, filter CountFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM content.haiku WHERE ownerid = $1`
	switch filter {
	case CountSaved:
		query += ` AND issaved = TRUE`
	case CountPublic:
		query += ` AND ispublic = TRUE`
	}

	var count int64
	err := postgres.Conn(context, repository.pool).QueryRow(context, query, ownerID).Scan(&count)
	if err != nil {
		return 0, dberr.Wrap(err, "count_haiku_by_owner")
	}
	return count, nil
}

// # Mutation

// Create implements [Repository].
func (repository *PostgresRepository) Create(context context.Context, haiku *Haiku) error {
	table := schema.ContentHaiku
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, '{}', $8)`,
		table.Table,
		table.ID, table.OwnerID, table.Content, table.Theme, table.IsAI,
		table.IsPublic, table.IsSaved, table.LikeCount, table.LikedBy, table.CreatedAt,
	)

	_, err := postgres.Conn(context, repository.pool).Exec(context, query,
		haiku.ID, haiku.OwnerID, haiku.Content, haiku.Theme, haiku.IsAI,
		haiku.IsPublic, haiku.IsSaved, haiku.CreatedAt,
	)
	if postgres.IsForeignKeyViolation(err) {
		return apperr.NotFound("User")
	}
	return dberr.Wrap(err, "create_haiku")
}

/*
AdjustLikes moves the like counter and the likedby set together.

Parameters:
  - context: context.Context
  - id: string
  - actorID: string
  - delta: int64 (+1 like, -1 unlike)

Returns:
  - error: apperr.NotFound("Haiku") or database failures
*/
func (repository *PostgresRepository) AdjustLikes(context context.Context, id, actorID string, delta int64) error {
	var query string
	if delta > 0 {
		query = `
			UPDATE content.haiku
			SET likecount = likecount + 1,
			    likedby = CASE WHEN $2 = ANY(likedby) THEN likedby ELSE array_append(likedby, $2) END
			WHERE id = $1
		`
	} else {
		query = `
			UPDATE content.haiku
			SET likecount = GREATEST(likecount - 1, 0),
			    likedby = array_remove(likedby, $2)
			WHERE id = $1
		`
	}

	tag, err := postgres.Conn(context, repository.pool).Exec(context, query, id, actorID)
	if err != nil {
		return dberr.Wrap(err, "adjust_haiku_likes")
	}
	if tag.RowsAffected() == 0 {
		return errHaikuNotFound
	}
	return nil
}

// MarkSaved implements [Repository].
func (repository *PostgresRepository) MarkSaved(context context.Context, id string) error {
	tag, err := postgres.Conn(context, repository.pool).Exec(context,
		`UPDATE content.haiku SET issaved = TRUE WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "mark_haiku_saved")
	}
	if tag.RowsAffected() == 0 {
		return errHaikuNotFound
	}
	return nil
}

/*
DeleteExpired removes one batch of expired unsaved haiku.

Description: A single statement with data-modifying CTEs locks the batch,
decrements the owners' counters and the collections' item counts, and deletes
the haiku. Like and membership rows are removed by ON DELETE CASCADE.

Parameters:
  - context: context.Context
  - cutoff: time.Time
  - limit: int

Returns:
  - int: Number of haiku removed
  - error: Database failures
*/
func (repository *PostgresRepository) DeleteExpired(context context.Context, cutoff time.Time, limit int) (int, error) {
	const query = `
		WITH doomed AS (
			SELECT id, ownerid, likecount
			FROM content.haiku
			WHERE issaved = FALSE AND createdat < $1
			ORDER BY createdat
			LIMIT $2
			FOR UPDATE
		),
		owners AS (
			UPDATE users.account a
			SET totalhaikus = GREATEST(a.totalhaikus - d.haikus, 0),
			    totallikes  = GREATEST(a.totallikes - d.likes, 0)
			FROM (
				SELECT ownerid, COUNT(*) AS haikus, SUM(likecount) AS likes
				FROM doomed
				WHERE ownerid IS NOT NULL
				GROUP BY ownerid
			) d
			WHERE a.id = d.ownerid
		),
		collections AS (
			UPDATE library.collection c
			SET itemcount = GREATEST(c.itemcount - m.items, 0)
			FROM (
				SELECT ci.collectionid, COUNT(*) AS items
				FROM library.collectionitem ci
				JOIN doomed ON ci.haikuid = doomed.id
				GROUP BY ci.collectionid
			) m
			WHERE c.id = m.collectionid
		)
		DELETE FROM content.haiku h
		USING doomed
		WHERE h.id = doomed.id
	`
	tag, err := postgres.Conn(context, repository.pool).Exec(context, query, cutoff, limit)
	if err != nil {
		return 0, dberr.Wrap(err, fmt.Sprintf("delete_expired_haiku_before_%s", cutoff.Format(time.RFC3339)))
	}
	return int(tag.RowsAffected()), nil
}
