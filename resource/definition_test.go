package resource

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stuck-lehnert/cloud/query/sqlgen"
	"github.com/stuck-lehnert/cloud/validator"
)

func TestNew_Valid(t *testing.T) {
	res, err := New(userDefinition())
	require.NoError(t, err)

	assert.Equal(t, "User", res.Name())
	assert.Equal(t, "users", res.Table())
	assert.Equal(t, []string{"id"}, res.PrimaryKey())
	assert.Equal(t, []string{"display", "email", "id", "name", "teamId"}, res.Attributes())
	assert.Equal(t, []string{"groups", "team"}, res.References())

	attr, ok := res.Attribute("name")
	require.True(t, ok)
	assert.Equal(t, "name", attr.(Static).Column, "column defaults to the attribute name")
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Definition)
		want   string
	}{
		{"empty name", func(d *Definition) { d.Name = "" }, "name must not be empty"},
		{"empty table", func(d *Definition) { d.Table = "" }, "table must not be empty"},
		{"no attributes", func(d *Definition) { d.Attributes = nil }, "at least one attribute"},
		{"no primary key", func(d *Definition) { d.PrimaryKey = nil }, "at least one primary key"},
		{"unknown primary key", func(d *Definition) { d.PrimaryKey = []string{"uuid"} }, `primary key references "uuid"`},
		{"dynamic primary key", func(d *Definition) { d.PrimaryKey = []string{"display"} }, "not a static attribute"},
		{"dynamic modifiable", func(d *Definition) { d.Modifiable = []string{"display"} }, "not a static attribute"},
		{"create-only and modifiable", func(d *Definition) { d.CreateOnly = []string{"name"} }, `"name" is both create-only and modifiable`},
		{"duplicate modifiable", func(d *Definition) { d.Modifiable = []string{"name", "name"} }, "lists \"name\" twice"},
		{"untyped attribute", func(d *Definition) { d.Attributes["x"] = Static{} }, `"x" has no type`},
		{"dynamic without expr", func(d *Definition) {
			d.Attributes["x"] = Dynamic{Type: validator.String()}
		}, "has no expression"},
		{"reserved prefix", func(d *Definition) {
			d.Attributes["__x"] = Static{Type: validator.String()}
		}, "must not start with __"},
		{"reference shadows attribute", func(d *Definition) {
			d.References["name"] = d.References["team"]
		}, "shadows an attribute"},
		{"reference without target", func(d *Definition) {
			ref := d.References["team"]
			ref.Resource = ""
			d.References["team"] = ref
		}, "names no resource"},
		{"reference with join and junction", func(d *Definition) {
			ref := d.References["groups"]
			ref.Join = d.References["team"].Join
			d.References["groups"] = ref
		}, "both a join and a junction"},
		{"reference without join", func(d *Definition) {
			d.References["team"] = Reference{Resource: "Team"}
		}, "neither a join nor a junction"},
		{"junction without table", func(d *Definition) {
			ref := d.References["groups"]
			ref.JunctionTable = ""
			d.References["groups"] = ref
		}, "needs both a junction table"},
		{"order by unknown attribute", func(d *Definition) {
			d.OrderBy = []Order{{Attribute: "age"}}
		}, `unknown attribute "age"`},
		{"empty order term", func(d *Definition) { d.OrderBy = []Order{{}} }, "order term 0 is empty"},
		{"bad direction", func(d *Definition) {
			d.OrderBy = []Order{{Attribute: "name", Direction: "SIDEWAYS"}}
		}, `direction "SIDEWAYS"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := userDefinition()
			tt.modify(&def)

			_, err := New(def)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDefinition)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNew_InvalidIdentifiers(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Definition)
		bad    string
	}{
		{"table", func(d *Definition) { d.Table = "users;drop" }, "users;drop"},
		{"column", func(d *Definition) {
			d.Attributes["email"] = Static{Type: validator.String(), Column: "e-mail"}
		}, "e-mail"},
		{"attribute", func(d *Definition) {
			d.Attributes["1st"] = Static{Type: validator.String()}
		}, "1st"},
		{"junction table", func(d *Definition) {
			ref := d.References["groups"]
			ref.JunctionTable = "member ships"
			d.References["groups"] = ref
		}, "member ships"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := userDefinition()
			tt.modify(&def)

			_, err := New(def)
			var identErr *sqlgen.InvalidIdentifierError
			require.True(t, errors.As(err, &identErr), "got %v", err)
			assert.Equal(t, tt.bad, identErr.Name)
		})
	}
}

func TestNew_DoesNotAliasDefinition(t *testing.T) {
	def := userDefinition()
	res, err := New(def)
	require.NoError(t, err)

	def.PrimaryKey[0] = "name"
	delete(def.References, "team")

	assert.Equal(t, []string{"id"}, res.PrimaryKey())
	assert.Equal(t, []string{"groups", "team"}, res.References())
}

func TestRegistry(t *testing.T) {
	g, users := testRegistry(t)

	found, ok := g.Lookup("User")
	require.True(t, ok)
	assert.Same(t, users, found)
	assert.Equal(t, []string{"Group", "Team", "User"}, g.Names())

	team, err := g.Resolve(users, "team")
	require.NoError(t, err)
	assert.Equal(t, "teams", team.Table())

	_, err = g.Resolve(users, "manager")
	assert.ErrorContains(t, err, `no reference "manager"`)

	_, err = g.Register(namedDefinition("Team", "teams"))
	assert.ErrorIs(t, err, ErrInvalidDefinition)

	assert.Panics(t, func() { g.MustRegister(namedDefinition("Group", "groups")) })
}

func TestRegistry_ValidateMissingTarget(t *testing.T) {
	g := NewRegistry()
	g.MustRegister(userDefinition())
	g.MustRegister(namedDefinition("Team", "teams"))

	err := g.Validate()
	assert.ErrorIs(t, err, ErrInvalidDefinition)
	assert.ErrorContains(t, err, `unknown resource "Group"`)
}

func TestCardinalityString(t *testing.T) {
	assert.Equal(t, "optional-single", OptionalSingle.String())
	assert.Equal(t, "required-single", RequiredSingle.String())
	assert.Equal(t, "many", Many.String())
	assert.Equal(t, "cardinality(9)", Cardinality(9).String())
}
