// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

// NewPostgresRepository creates a new Postgres implementation for profiles.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// statColumns maps counters to their users.account columns.
var statColumns = map[StatField]string{
	StatTotalHaikus:    schema.UserAccount.TotalHaikus,
	StatTotalLikes:     schema.UserAccount.TotalLikes,
	StatTotalFollowers: schema.UserAccount.TotalFollowers,
	StatTotalFollowing: schema.UserAccount.TotalFollowing,
}

var errUserNotFound = apperr.NotFound("User")

// # Retrieval

/*
FindByID retrieves an actor from the users.account table.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Actor: Hydrated profile
  - error: apperr.NotFound("User") or database execution failure
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Actor, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(schema.UserAccount.Columns(), ", "),
		schema.UserAccount.Table, schema.UserAccount.ID,
	)

	actor := &Actor{}
	err := postgres.Conn(context, repository.pool).QueryRow(context, query, id).Scan(
		&actor.ID,
		&actor.DisplayName,
		&actor.Username,
		&actor.Bio,
		&actor.Website,
		&actor.SocialLinks.Twitter,
		&actor.SocialLinks.Instagram,
		&actor.Stats.TotalHaikus,
		&actor.Stats.TotalLikes,
		&actor.Stats.TotalFollowers,
		&actor.Stats.TotalFollowing,
		&actor.CreatedAt,
		&actor.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(err, "find_account_by_id")
	}

	return actor, nil
}

// CurrentUsername implements [username.ActorStore].
func (repository *PostgresRepository) CurrentUsername(context context.Context, actorID string) (*string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.UserAccount.Username, schema.UserAccount.Table, schema.UserAccount.ID,
	)

	var current *string
	err := postgres.Conn(context, repository.pool).QueryRow(context, query, actorID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, dberr.Wrap(err, "find_account_username")
	}
	return current, nil
}

// # Mutation

// Create implements [Repository]. Existing rows are left untouched.
func (repository *PostgresRepository) Create(context context.Context, actor *Actor) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (%s) DO NOTHING`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.DisplayName, schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	tag, err := postgres.Conn(context, repository.pool).Exec(context, query,
		actor.ID, actor.DisplayName, actor.CreatedAt, actor.UpdatedAt,
	)
	if err != nil {
		return false, dberr.Wrap(err, "create_account")
	}
	return tag.RowsAffected() == 1, nil
}

/*
ApplyPatch writes the provided profile fields.

Description: Builds the SET clause from the non-nil fields of patch;
updatedat is always refreshed.

Parameters:
  - context: context.Context
  - id: string
  - patch: Patch
  - updatedAt: time.Time

Returns:
  - error: apperr.NotFound("User") or database execution failure
*/
func (repository *PostgresRepository) ApplyPatch(context context.Context, id string, patch Patch, updatedAt time.Time) error {
	assignments := []string{fmt.Sprintf("%s = $2", schema.UserAccount.UpdatedAt)}
	args := []any{id, updatedAt}

	set := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.DisplayName != nil {
		set(schema.UserAccount.DisplayName, *patch.DisplayName)
	}
	if patch.Bio != nil {
		set(schema.UserAccount.Bio, *patch.Bio)
	}
	if patch.Website != nil {
		set(schema.UserAccount.Website, *patch.Website)
	}
	if patch.SocialLinks != nil {
		set(schema.UserAccount.Twitter, patch.SocialLinks.Twitter)
		set(schema.UserAccount.Instagram, patch.SocialLinks.Instagram)
	}

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $1`,
		schema.UserAccount.Table, strings.Join(assignments, ", "), schema.UserAccount.ID,
	)

	tag, err := postgres.Conn(context, repository.pool).Exec(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, "update_account_profile")
	}
	if tag.RowsAffected() == 0 {
		return errUserNotFound
	}
	return nil
}

// AssignUsername implements [username.ActorStore].
func (repository *PostgresRepository) AssignUsername(context context.Context, actorID, name string, updatedAt time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.Username, schema.UserAccount.UpdatedAt, schema.UserAccount.ID,
	)

	tag, err := postgres.Conn(context, repository.pool).Exec(context, query, actorID, name, updatedAt)
	if err != nil {
		return dberr.Wrap(err, "update_account_username")
	}
	if tag.RowsAffected() == 0 {
		return errUserNotFound
	}
	return nil
}

// IncrementStat implements [Repository].
func (repository *PostgresRepository) IncrementStat(context context.Context, id string, field StatField, delta int64) error {
	column, ok := statColumns[field]
	if !ok {
		return apperr.Internal(fmt.Errorf("unknown stat field %q", field))
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = GREATEST(%s + $2, 0) WHERE %s = $1`,
		schema.UserAccount.Table, column, column, schema.UserAccount.ID,
	)

	tag, err := postgres.Conn(context, repository.pool).Exec(context, query, id, delta)
	if err != nil {
		return dberr.Wrap(err, "increment_account_stat")
	}
	if tag.RowsAffected() == 0 {
		return errUserNotFound
	}
	return nil
}
