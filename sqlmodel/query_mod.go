package sqlmodel

import (
	"github.com/Masterminds/squirrel"
	"github.com/samber/lo"
)

type (
	Q = squirrel.SelectBuilder
	// QueryMod changes a select on the given table (or table alias).
	QueryMod func(q Q, table string) Q
)

// Col selects the given columns of the table.
func Col(names ...string) QueryMod {
	return func(q Q, table string) Q {
		return q.Columns(lo.Map(names, func(name string, _ int) string { return TableCol(table, name) })...)
	}
}

// WhereEq filters rows on col = value.
func WhereEq(col string, value any) QueryMod {
	return func(q Q, table string) Q {
		return q.Where(squirrel.Eq{TableCol(table, col): value})
	}
}

// OrderBy sorts ascending on col.
func OrderBy(col string) QueryMod {
	return func(q Q, table string) Q {
		return q.OrderBy(TableCol(table, col))
	}
}

func TableCol(table, name string) string {
	if table == "" {
		return name
	}
	return table + "." + name
}

func applyMods(q Q, table string, mods []QueryMod) Q {
	for _, mod := range mods {
		q = mod(q, table)
	}

	return q
}
