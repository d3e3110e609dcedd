package sqlgen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckIdentifier(t *testing.T) {
	for _, name := range []string{"a", "A1", "tbl_name", "_private", "created_at"} {
		t.Run("accepts "+name, func(t *testing.T) {
			assert.NoError(t, CheckIdentifier(name))
		})
	}

	for _, name := range []string{"a-b", "1tbl", "tbl;drop", "", `a"b`, "a b", "users.id"} {
		t.Run("rejects "+name, func(t *testing.T) {
			err := CheckIdentifier(name)
			require.Error(t, err)

			var identErr *InvalidIdentifierError
			require.True(t, errors.As(err, &identErr))
			assert.Equal(t, name, identErr.Name)
			assert.True(t, IsInvalidIdentifier(err))
			assert.False(t, IsPrecondition(err))
		})
	}
}

func TestColumn(t *testing.T) {
	f, err := Column("main", "first_name")
	require.NoError(t, err)
	assert.Equal(t, `"main"."first_name"`, f.SQL)
	assert.Empty(t, f.Args)

	_, err = Column("main", "x;--")
	assert.True(t, IsInvalidIdentifier(err))

	assert.Panics(t, func() { MustColumn("1main", "id") })
}

func TestJoinKeepsArgOrder(t *testing.T) {
	f := Join(" AND ",
		Raw("a = ??", 1),
		Raw("b BETWEEN ?? AND ??", 2, 3),
		Raw("c IS NULL"),
		Value(4),
	)

	assert.Equal(t, "a = ?? AND b BETWEEN ?? AND ?? AND c IS NULL AND ??", f.SQL)
	assert.Equal(t, []any{1, 2, 3, 4}, f.Args)
	assert.Equal(t, len(f.Args), f.Placeholders())
}

func TestConcatAndWrap(t *testing.T) {
	f := Concat(Raw("count + "), Value(1)).Wrap()
	assert.Equal(t, "(count + ??)", f.SQL)
	assert.Equal(t, []any{1}, f.Args)
	assert.False(t, f.IsEmpty())
	assert.True(t, Raw("  ").IsEmpty())
}

func TestConcat_OperatorBeforeValue(t *testing.T) {
	f := Concat(Raw(`"main"."tags" ?`), Value("x"))
	assert.Equal(t, `"main"."tags" ? ??`, f.SQL)
	assert.Equal(t, 1, f.Placeholders())
	assert.Equal(t, `"main"."tags" ? $1`, Renumber(f.SQL))

	f = Join(" AND ", Raw(`"t" ?| ??`, "a"), Raw(`"t" ?`), Value("b"))
	assert.Equal(t, 2, f.Placeholders())
	assert.Equal(t, len(f.Args), f.Placeholders())
	assert.Equal(t, `"t" ?| $1 AND "t" ? $2`, Renumber(f.SQL))

	f = Concat(Value(1), Value(2))
	assert.Equal(t, "????", f.SQL)
	assert.Equal(t, 2, f.Placeholders())
}

func TestRenumber(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no markers", "SELECT 1;", "SELECT 1;"},
		{"single", "a = ??", "a = $1"},
		{"many", "(??, ??, DEFAULT), (??, DEFAULT, ??)", "($1, $2, DEFAULT), ($3, DEFAULT, $4)"},
		{"adjacent", "????", "$1$2"},
		{"trailing", "LIMIT ?? OFFSET ??;", "LIMIT $1 OFFSET $2;"},
		{"operator before marker", `"main"."tags" ???`, `"main"."tags" ?$1`},
		{"operator alone", `"main"."tags" ? 'x'`, `"main"."tags" ? 'x'`},
		{"odd run", "?????", "?$1$2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Renumber(tt.in))
		})
	}
}

func TestPreconditionError(t *testing.T) {
	var err error = &PreconditionError{Statement: "DELETE", Clause: "WHERE predicate"}
	assert.Equal(t, "DELETE requires at least one WHERE predicate", err.Error())
	assert.True(t, IsPrecondition(err))
	assert.True(t, errors.Is(err, ErrPrecondition))
	assert.False(t, IsInvalidIdentifier(err))
}
