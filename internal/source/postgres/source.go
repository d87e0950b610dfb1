package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rawen554/userdir/internal/models"
)

const selectUsers = `
	SELECT id, name, username,
		COALESCE(email, ''), COALESCE(phone, ''), COALESCE(website, ''),
		COALESCE(street, ''), COALESCE(suite, ''), COALESCE(city, '')
	FROM users
	ORDER BY id
`

// PostgresSource only reads; directory changes are never written back.
type PostgresSource struct {
	pool *pgxpool.Pool
}

func NewPostgresSource(ctx context.Context, dsn string) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("error creating pgx pool: %w", err)
	}

	return &PostgresSource{pool: pool}, nil
}

func (s *PostgresSource) Fetch(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, selectUsers)
	if err != nil {
		return nil, fmt.Errorf("error querying users: %w", err)
	}

	users, err := pgx.CollectRows(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("error scanning users: %w", err)
	}

	return users, nil
}

func scanUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Username,
		&u.Email,
		&u.Phone,
		&u.Website,
		&u.Address.Street,
		&u.Address.Suite,
		&u.Address.City,
	)
	return u, err
}

func (s *PostgresSource) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresSource) Close() {
	s.pool.Close()
}
