package builder_test

import (
	"fmt"

	"github.com/stuck-lehnert/cloud/query/builder"
	"github.com/stuck-lehnert/cloud/query/sqlgen"
)

func ExampleSelect() {
	stmt, err := builder.Select("posts", "main").
		Column("id", "id").
		Column("title", "title").
		WhereValues(map[string]any{"published": true}).
		OrderBy("created_at", builder.Desc).
		Limit(10).
		Build()
	if err != nil {
		panic(err)
	}

	fmt.Println(stmt.SQL)
	fmt.Println(stmt.Args)
	// Output:
	// SELECT "main"."id" AS "id", "main"."title" AS "title" FROM "posts" AS "main" WHERE ("main"."published" = $1) ORDER BY "main"."created_at" DESC LIMIT $2;
	// [true 10]
}

func ExampleInsert() {
	stmt, err := builder.Insert("users").
		Values(map[string]any{"name": "Ada", "email": "ada@example.com"}).
		Column("id", "id").
		Build()
	if err != nil {
		panic(err)
	}

	fmt.Println(stmt.SQL)
	fmt.Println(stmt.Args)
	// Output:
	// INSERT INTO "users" ("email", "name") VALUES ($1, $2) RETURNING "users"."id" AS "id";
	// [ada@example.com Ada]
}

func ExampleDelete() {
	_, err := builder.Delete("sessions").Build()
	fmt.Println(sqlgen.IsPrecondition(err))

	stmt, err := builder.Delete("sessions").
		Where(sqlgen.Raw(`"sessions"."expires_at" < ??`, "2024-01-01")).
		Build()
	if err != nil {
		panic(err)
	}
	fmt.Println(stmt.SQL)
	// Output:
	// true
	// DELETE FROM "sessions" WHERE ("sessions"."expires_at" < $1);
}
