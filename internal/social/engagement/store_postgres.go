// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engagement

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/kigo/internal/platform/apperr"
	"github.com/taibuivan/kigo/internal/platform/database/schema"
	"github.com/taibuivan/kigo/internal/platform/dberr"
	"github.com/taibuivan/kigo/internal/platform/postgres"
)

// # Likes

// PostgresLikeRepository implements [LikeRepository] using pgx.
type PostgresLikeRepository struct {
	pool *pgxpool.Pool
}

var _ LikeRepository = (*PostgresLikeRepository)(nil)

// NewPostgresLikeRepository constructs a PostgreSQL backed like store.
func NewPostgresLikeRepository(pool *pgxpool.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{pool: pool}
}

// Exists implements [LikeRepository].
func (repository *PostgresLikeRepository) Exists(context context.Context, actorID, haikuID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM social.haikulike WHERE actorid = $1 AND haikuid = $2)`

	var exists bool
	err := postgres.Conn(context, repository.pool).QueryRow(context, query, actorID, haikuID).Scan(&exists)
	if err != nil {
		return false, dberr.Wrap(err, "check_haiku_like")
	}
	return exists, nil
}

// Create implements [LikeRepository].
func (repository *PostgresLikeRepository) Create(context context.Context, like Like) error {
	table := schema.SocialHaikuLike
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
		table.Table, table.ActorID, table.HaikuID, table.LikedAt,
	)

	_, err := postgres.Conn(context, repository.pool).Exec(context, query, like.ActorID, like.HaikuID, like.LikedAt)
	if postgres.IsForeignKeyViolation(err) {
		return apperr.NotFound("Haiku")
	}
	return dberr.Wrap(err, "create_haiku_like")
}

// Delete implements [LikeRepository].
func (repository *PostgresLikeRepository) Delete(context context.Context, actorID, haikuID string) error {
	const query = `DELETE FROM social.haikulike WHERE actorid = $1 AND haikuid = $2`

	_, err := postgres.Conn(context, repository.pool).Exec(context, query, actorID, haikuID)
	return dberr.Wrap(err, "delete_haiku_like")
}

// # Follows

// PostgresFollowRepository implements [FollowRepository] using pgx.
type PostgresFollowRepository struct {
	pool *pgxpool.Pool
}

var _ FollowRepository = (*PostgresFollowRepository)(nil)

// NewPostgresFollowRepository constructs a PostgreSQL backed follow store.
func NewPostgresFollowRepository(pool *pgxpool.Pool) *PostgresFollowRepository {
	return &PostgresFollowRepository{pool: pool}
}

// IsFollowing implements [FollowRepository].
func (repository *PostgresFollowRepository) IsFollowing(context context.Context, actorID, targetID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.SocialFollowing.Table, schema.SocialFollowing.OwnerID, schema.SocialFollowing.OtherID,
	)

	var exists bool
	err := postgres.Conn(context, repository.pool).QueryRow(context, query, actorID, targetID).Scan(&exists)
	if err != nil {
		return false, dberr.Wrap(err, "check_following")
	}
	return exists, nil
}

/*
Create writes both directions of a follow edge.

Description: Must run inside the caller's transaction so that the two inserts
commit or roll back together.
*/
func (repository *PostgresFollowRepository) Create(context context.Context, edge Edge) error {
	conn := postgres.Conn(context, repository.pool)

	for _, table := range []schema.SocialFollowEdgeTable{schema.SocialFollowing, schema.SocialFollower} {
		owner, other := edge.ActorID, edge.TargetID
		if table.Table == schema.SocialFollower.Table {
			owner, other = edge.TargetID, edge.ActorID
		}

		query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
			table.Table, table.OwnerID, table.OtherID, table.FollowedAt,
		)
		if _, err := conn.Exec(context, query, owner, other, edge.FollowedAt); err != nil {
			return dberr.Wrap(err, "create_follow_edge")
		}
	}
	return nil
}

// Delete removes both directions of a follow edge.
func (repository *PostgresFollowRepository) Delete(context context.Context, actorID, targetID string) error {
	conn := postgres.Conn(context, repository.pool)

	// Both tables name their columns actorid/targetid.
	for _, table := range []string{schema.SocialFollowing.Table, schema.SocialFollower.Table} {
		query := fmt.Sprintf(`DELETE FROM %s WHERE actorid = $1 AND targetid = $2`, table)
		if _, err := conn.Exec(context, query, actorID, targetID); err != nil {
			return dberr.Wrap(err, "delete_follow_edge")
		}
	}
	return nil
}

// ListFollowers implements [FollowRepository].
func (repository *PostgresFollowRepository) ListFollowers(context context.Context, targetID string, limit, offset int) ([]Edge, int, error) {
	return repository.list(context, schema.SocialFollower, targetID, limit, offset)
}

// ListFollowing implements [FollowRepository].
func (repository *PostgresFollowRepository) ListFollowing(context context.Context, actorID string, limit, offset int) ([]Edge, int, error) {
	return repository.list(context, schema.SocialFollowing, actorID, limit, offset)
}

// list pages through one direction, keyed by the table's owner column.
func (repository *PostgresFollowRepository) list(context context.Context, table schema.SocialFollowEdgeTable, ownerID string, limit, offset int) ([]Edge, int, error) {
	query := fmt.Sprintf(`
		SELECT actorid, targetid, followedat, COUNT(*) OVER() AS total
		FROM %s
		WHERE %s = $1
		ORDER BY followedat DESC
		LIMIT $2 OFFSET $3`,
		table.Table, table.OwnerID,
	)

	rows, err := postgres.Conn(context, repository.pool).Query(context, query, ownerID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_follow_edges")
	}
	defer rows.Close()

	edges := []Edge{}
	var total int
	for rows.Next() {
		var edge Edge
		if err := rows.Scan(&edge.ActorID, &edge.TargetID, &edge.FollowedAt, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_follow_edge")
		}
		edges = append(edges, edge)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_follow_edges")
	}

	return edges, total, nil
}
