package builder

import (
	"github.com/stuck-lehnert/cloud/query/sqlgen"
)

type join struct {
	mode      JoinMode
	table     string
	alias     string
	condition sqlgen.Fragment
}

// joins accumulates JOIN clauses in insertion order.
type joins struct {
	items []join
}

func (j *joins) add(mode JoinMode, table, alias string, condition sqlgen.Fragment) error {
	if err := sqlgen.CheckIdentifiers(table, alias); err != nil {
		return err
	}
	j.items = append(j.items, join{mode: mode, table: table, alias: alias, condition: condition})
	return nil
}

func (j *joins) render() (sqlgen.Fragment, bool) {
	if len(j.items) == 0 {
		return sqlgen.Fragment{}, false
	}

	parts := make([]sqlgen.Fragment, len(j.items))
	for i, item := range j.items {
		parts[i] = sqlgen.Concat(
			sqlgen.Raw(string(item.mode)+` JOIN "`+item.table+`" AS "`+item.alias+`" ON `),
			item.condition,
		)
	}
	return sqlgen.Join(" ", parts...), true
}
