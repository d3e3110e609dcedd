//go:build integration

package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/stuck-lehnert/cloud/runtime/client"
)

const postgresSchema = `
CREATE TABLE teams (id SERIAL PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE groups (id SERIAL PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE users (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	email_address TEXT UNIQUE,
	team_id INTEGER REFERENCES teams (id)
);
CREATE TABLE memberships (
	user_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	group_id INTEGER NOT NULL REFERENCES groups (id),
	PRIMARY KEY (user_id, group_id)
);
INSERT INTO teams (name) VALUES ('core');
INSERT INTO groups (name) VALUES ('admins'), ('devs');
`

func postgresClient(t *testing.T, provider string) *client.Client {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("cloud"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	c, err := client.Open(ctx, client.WithProvider(provider), client.WithDatabaseURL(dsn))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	_, err = c.DB().ExecContext(ctx, postgresSchema)
	require.NoError(t, err)
	return c
}

func TestPostgres_Lifecycle(t *testing.T) {
	for _, provider := range []string{"postgres", "pgx"} {
		t.Run(provider, func(t *testing.T) {
			c := postgresClient(t, provider)
			ctx := context.Background()

			_, users := testRegistry(t)
			h := users.Bind(c, nil)

			ada, err := h.Create(ctx, map[string]any{"name": "ada", "email": "ada@example.com", "teamId": 1})
			require.NoError(t, err)
			assert.Equal(t, "ADA", ada["display"])

			_, err = h.Create(ctx, map[string]any{"name": "bob", "email": "ada@example.com"})
			assert.True(t, client.IsExecution(err), "unique violation surfaces as execution error")

			bob, err := h.Create(ctx, map[string]any{"name": "bob"})
			require.NoError(t, err)

			_, err = c.DB().ExecContext(ctx, `INSERT INTO memberships VALUES ($1, 1), ($1, 2)`, ada["id"])
			require.NoError(t, err)

			found, err := h.FindMany(ctx, nil, FindOptions{Include: []string{"team", "groups"}, Limit: intPtr(5)})
			require.NoError(t, err)
			require.Len(t, found, 2)
			assert.Len(t, found[0]["groups"], 2)
			assert.NotNil(t, found[0]["team"])
			assert.Equal(t, []Record{}, found[1]["groups"])

			modified, err := h.Modify(ctx, map[string]any{"id": bob["id"]}, map[string]any{"name": "robert"})
			require.NoError(t, err)
			require.Len(t, modified, 1)
			assert.Equal(t, "ROBERT", modified[0]["display"])

			result := h.DeleteEach(ctx, []map[string]any{{"id": ada["id"]}, {"id": bob["id"]}})
			assert.Len(t, result.Succeeded, 2)
			assert.Empty(t, result.Failed)

			missing, err := h.FindUnique(ctx, map[string]any{"id": ada["id"]}, FindOptions{})
			require.NoError(t, err)
			assert.Nil(t, missing)
		})
	}
}
