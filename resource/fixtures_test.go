package resource

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stuck-lehnert/cloud/query/sqlgen"
	"github.com/stuck-lehnert/cloud/validator"
)

const userColumns = `upper("main"."name") AS "display", "main"."email_address" AS "email", "main"."id" AS "id", "main"."name" AS "name", "main"."team_id" AS "teamId"`

const userReturning = `upper("users"."name") AS "display", "users"."email_address" AS "email", "users"."id" AS "id", "users"."name" AS "name", "users"."team_id" AS "teamId"`

var userRowColumns = []string{"display", "email", "id", "name", "teamId"}

func userDefinition() Definition {
	return Definition{
		Name:  "User",
		Table: "users",
		Attributes: map[string]Attribute{
			"id":     Static{Type: validator.NotNull(validator.Int())},
			"name":   Static{Type: validator.NotNull(validator.String())},
			"email":  Static{Type: validator.String(), Column: "email_address"},
			"teamId": Static{Type: validator.Int(), Column: "team_id"},
			"display": Dynamic{
				Type: validator.String(),
				Expr: func(ref string, _ any) sqlgen.Fragment {
					return sqlgen.Raw("upper(" + ref + `."name")`)
				},
			},
		},
		PrimaryKey: []string{"id"},
		CreateOnly: []string{"email"},
		Modifiable: []string{"name", "teamId"},
		References: map[string]Reference{
			"team": {
				Resource:    "Team",
				Cardinality: OptionalSingle,
				Join: func(lhs, rhs string) sqlgen.Fragment {
					return sqlgen.Raw(lhs + `."team_id" = ` + rhs + `."id"`)
				},
			},
			"groups": {
				Resource:      "Group",
				Cardinality:   Many,
				JunctionTable: "memberships",
				Junction: func(lhs, junc, rhs string) [2]sqlgen.Fragment {
					return [2]sqlgen.Fragment{
						sqlgen.Raw(lhs + `."id" = ` + junc + `."user_id"`),
						sqlgen.Raw(junc + `."group_id" = ` + rhs + `."id"`),
					}
				},
			},
		},
		OrderBy: []Order{{Attribute: "name"}},
	}
}

func namedDefinition(name, table string) Definition {
	return Definition{
		Name:  name,
		Table: table,
		Attributes: map[string]Attribute{
			"id":   Static{Type: validator.NotNull(validator.Int())},
			"name": Static{Type: validator.NotNull(validator.String())},
		},
		PrimaryKey: []string{"id"},
		Modifiable: []string{"name"},
	}
}

// testRegistry registers User before its reference targets to exercise
// late binding.
func testRegistry(t *testing.T) (*Registry, *Resource) {
	t.Helper()

	g := NewRegistry()
	users, err := g.Register(userDefinition())
	require.NoError(t, err)
	_, err = g.Register(namedDefinition("Team", "teams"))
	require.NoError(t, err)
	_, err = g.Register(namedDefinition("Group", "groups"))
	require.NoError(t, err)
	require.NoError(t, g.Validate())

	return g, users
}

func intPtr(n int) *int { return &n }
