// Package catalog holds the resource definitions of the cloud database:
// users, groups, their memberships and projects.
package catalog

import (
	"fmt"

	"github.com/stuck-lehnert/cloud/query/builder"
	"github.com/stuck-lehnert/cloud/query/sqlgen"
	"github.com/stuck-lehnert/cloud/resource"
	"github.com/stuck-lehnert/cloud/validator"
)

// Resource names.
const (
	User       = "User"
	Group      = "Group"
	Membership = "Membership"
	Project    = "Project"
)

// Scope is the per-request context passed to resource.Resource.Bind.
type Scope struct {
	// IncludeArchived makes archived projects visible to finds.
	IncludeArchived bool
}

func scopeOf(v any) Scope {
	switch s := v.(type) {
	case Scope:
		return s
	case *Scope:
		if s != nil {
			return *s
		}
	}
	return Scope{}
}

func timestamps(attrs map[string]resource.Attribute) map[string]resource.Attribute {
	attrs["createdAt"] = resource.Static{Type: validator.NotNull(validator.DateTime()), Column: "created_at"}
	attrs["modifiedAt"] = resource.Static{Type: validator.NotNull(validator.DateTime()), Column: "modified_at"}
	return attrs
}

func column(ref, name string) string {
	return ref + `."` + name + `"`
}

func eq(lhs, rhs string) sqlgen.Fragment {
	return sqlgen.Raw(lhs + " = " + rhs)
}

func userDefinition() resource.Definition {
	return resource.Definition{
		Name:  User,
		Table: "users",
		Attributes: timestamps(map[string]resource.Attribute{
			"id":        resource.Static{Type: validator.NotNull(validator.UUID())},
			"firstName": resource.Static{Type: validator.NotNull(validator.String().Max(100)), Column: "first_name"},
			"lastName":  resource.Static{Type: validator.String().Max(100), Column: "last_name"},
			"username":  resource.Static{Type: validator.String().Lower().Max(64)},
			"email":     resource.Static{Type: validator.String().Lower().Max(254)},
			"displayName": resource.Dynamic{
				Type: validator.String(),
				Expr: func(ref string, _ any) sqlgen.Fragment {
					return sqlgen.Raw(fmt.Sprintf(`concat_ws(' ', %s, %s)`, column(ref, "first_name"), column(ref, "last_name")))
				},
			},
		}),
		PrimaryKey: []string{"id"},
		Modifiable: []string{"firstName", "lastName", "username", "email"},
		References: map[string]resource.Reference{
			"groups": {
				Resource:      Group,
				Cardinality:   resource.Many,
				JunctionTable: "group_member_users",
				Junction: func(lhs, junc, rhs string) [2]sqlgen.Fragment {
					return [2]sqlgen.Fragment{
						eq(column(lhs, "id"), column(junc, "member_user_id")),
						eq(column(junc, "group_id"), column(rhs, "id")),
					}
				},
			},
			"projects": {
				Resource:    Project,
				Cardinality: resource.Many,
				Join: func(lhs, rhs string) sqlgen.Fragment {
					return eq(column(lhs, "id"), column(rhs, "owner_id"))
				},
			},
		},
		OrderBy: []resource.Order{{Attribute: "firstName"}, {Attribute: "lastName"}},
	}
}

func groupDefinition() resource.Definition {
	return resource.Definition{
		Name:  Group,
		Table: "groups",
		Attributes: timestamps(map[string]resource.Attribute{
			"id":          resource.Static{Type: validator.NotNull(validator.UUID())},
			"name":        resource.Static{Type: validator.NotNull(validator.String().Max(100))},
			"description": resource.Static{Type: validator.String()},
		}),
		PrimaryKey: []string{"id"},
		Modifiable: []string{"name", "description"},
		References: map[string]resource.Reference{
			"members": {
				Resource:      User,
				Cardinality:   resource.Many,
				JunctionTable: "group_member_users",
				Junction: func(lhs, junc, rhs string) [2]sqlgen.Fragment {
					return [2]sqlgen.Fragment{
						eq(column(lhs, "id"), column(junc, "group_id")),
						eq(column(junc, "member_user_id"), column(rhs, "id")),
					}
				},
			},
		},
		OrderBy: []resource.Order{{Attribute: "name"}},
	}
}

func membershipDefinition() resource.Definition {
	return resource.Definition{
		Name:  Membership,
		Table: "group_member_users",
		Attributes: map[string]resource.Attribute{
			"groupId":  resource.Static{Type: validator.NotNull(validator.UUID()), Column: "group_id"},
			"userId":   resource.Static{Type: validator.NotNull(validator.UUID()), Column: "member_user_id"},
			"joinedAt": resource.Static{Type: validator.NotNull(validator.DateTime()), Column: "joined_at"},
		},
		PrimaryKey: []string{"groupId", "userId"},
		CreateOnly: []string{"groupId", "userId"},
		References: map[string]resource.Reference{
			"group": {
				Resource:    Group,
				Cardinality: resource.RequiredSingle,
				Join: func(lhs, rhs string) sqlgen.Fragment {
					return eq(column(lhs, "group_id"), column(rhs, "id"))
				},
			},
			"user": {
				Resource:    User,
				Cardinality: resource.RequiredSingle,
				Join: func(lhs, rhs string) sqlgen.Fragment {
					return eq(column(lhs, "member_user_id"), column(rhs, "id"))
				},
			},
		},
		OrderBy: []resource.Order{{Attribute: "joinedAt"}},
	}
}

// Archived projects are hidden from finds unless the scope asks for them,
// and only archived projects can be deleted.
func projectDefinition() resource.Definition {
	return resource.Definition{
		Name:  Project,
		Table: "projects",
		Attributes: timestamps(map[string]resource.Attribute{
			"id":          resource.Static{Type: validator.NotNull(validator.UUID())},
			"ownerId":     resource.Static{Type: validator.NotNull(validator.UUID()), Column: "owner_id"},
			"name":        resource.Static{Type: validator.NotNull(validator.String().Max(100))},
			"description": resource.Static{Type: validator.String()},
			"archived":    resource.Static{Type: validator.NotNull(validator.Bool())},
		}),
		PrimaryKey: []string{"id"},
		CreateOnly: []string{"ownerId"},
		Modifiable: []string{"name", "description", "archived"},
		References: map[string]resource.Reference{
			"owner": {
				Resource:    User,
				Cardinality: resource.RequiredSingle,
				Join: func(lhs, rhs string) sqlgen.Fragment {
					return eq(column(lhs, "owner_id"), column(rhs, "id"))
				},
			},
		},
		OrderBy: []resource.Order{
			{Attribute: "modifiedAt", Direction: builder.Desc},
			{Attribute: "name"},
		},
		BaseFilter: func(ref string, scope any) sqlgen.Fragment {
			if scopeOf(scope).IncludeArchived {
				return sqlgen.Fragment{}
			}
			return sqlgen.Raw("NOT " + column(ref, "archived"))
		},
		DeleteFilter: func(ref string, _ any) sqlgen.Fragment {
			return sqlgen.Raw(column(ref, "archived"))
		},
	}
}

// Definitions returns fresh definitions of every catalog resource.
func Definitions() []resource.Definition {
	return []resource.Definition{
		userDefinition(),
		groupDefinition(),
		membershipDefinition(),
		projectDefinition(),
	}
}

// Registry registers every catalog resource and checks that all references
// resolve.
func Registry() (*resource.Registry, error) {
	g := resource.NewRegistry()
	for _, def := range Definitions() {
		if _, err := g.Register(def); err != nil {
			return nil, err
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// MustRegistry is like Registry but panics on error.
func MustRegistry() *resource.Registry {
	g, err := Registry()
	if err != nil {
		panic(err)
	}
	return g
}
