// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package username

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/kigo/internal/platform/database/schema"
	"github.com/taibuivan/kigo/internal/platform/dberr"
	"github.com/taibuivan/kigo/internal/platform/postgres"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed reservation store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Find implements [Repository].
func (repository *PostgresRepository) Find(context context.Context, name string) (*Reservation, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		schema.UserUsername.Username, schema.UserUsername.OwnerID, schema.UserUsername.CreatedAt,
		schema.UserUsername.Table, schema.UserUsername.Username,
	)

	reservation := &Reservation{}
	err := postgres.Conn(context, repository.pool).QueryRow(context, query, name).Scan(
		&reservation.Username, &reservation.OwnerID, &reservation.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, "find_username_reservation")
	}
	return reservation, nil
}

// Create implements [Repository].
func (repository *PostgresRepository) Create(context context.Context, reservation *Reservation) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
		schema.UserUsername.Table,
		schema.UserUsername.Username, schema.UserUsername.OwnerID, schema.UserUsername.CreatedAt,
	)

	_, err := postgres.Conn(context, repository.pool).Exec(context, query,
		reservation.Username, reservation.OwnerID, reservation.CreatedAt,
	)
	return dberr.Wrap(err, "create_username_reservation")
}

// Delete implements [Repository].
func (repository *PostgresRepository) Delete(context context.Context, name string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.UserUsername.Table, schema.UserUsername.Username)

	_, err := postgres.Conn(context, repository.pool).Exec(context, query, name)
	return dberr.Wrap(err, "delete_username_reservation")
}
