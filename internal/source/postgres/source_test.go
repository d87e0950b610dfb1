package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresSource_Fetch(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}
	ctx := context.Background()

	s, err := NewPostgresSource(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Ping(ctx))

	_, err = s.pool.Exec(ctx, "DROP TABLE IF EXISTS users;")
	require.NoError(t, err)
	defer func() {
		if _, err := s.pool.Exec(ctx, "DROP TABLE IF EXISTS users;"); err != nil {
			t.Error(err)
		}
	}()

	_, err = s.pool.Exec(ctx, `
		CREATE TABLE users(
			id INTEGER PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			username VARCHAR(255) NOT NULL,
			email VARCHAR(255), phone VARCHAR(255), website VARCHAR(255),
			street VARCHAR(255), suite VARCHAR(255), city VARCHAR(255)
		)`)
	require.NoError(t, err)
	_, err = s.pool.Exec(ctx, `
		INSERT INTO users (id, name, username, city) VALUES
			(2, 'Bo', 'bo1', 'LA'),
			(1, 'Ana', 'ana1', 'NY')`)
	require.NoError(t, err)

	users, err := s.Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, 1, users[0].ID)
	assert.Equal(t, "NY", users[0].Address.City)
	assert.Equal(t, "", users[1].Email)
}
