// Package store implements the Postgres record store: one repository per
// collection plus a workflow repository for multi-table commits.
package store

import (
	sq "github.com/Masterminds/squirrel"
)

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}
