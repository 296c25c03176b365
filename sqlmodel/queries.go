package sqlmodel

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Collect runs q and scans every row into a new T.
func Collect[T any](ctx context.Context, q Q, scans RowScan[T]) ([]T, error) {
	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "collect: query")
	}
	defer func() {
		if err := rows.Close(); err != nil {
			zap.L().Error("collect: failed to close rows", zap.Error(err))
		}
	}()

	var collection []T
	for rows.Next() {
		var t T
		pointers, action := scans(&t)
		if err := rows.Scan(pointers...); err != nil {
			return nil, errors.Wrap(err, "collect: scan")
		}
		if action != nil {
			action()
		}
		collection = append(collection, t)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "collect: rows")
	}

	return collection, nil
}

// Insert writes one row and returns the id the database assigned to it.
func Insert(
	ctx context.Context,
	db squirrel.BaseRunner,
	table string,
	columns []string,
	values ...any,
) (int64, error) {
	result, err := squirrel.Insert(table).
		Columns(columns...).
		Values(values...).
		RunWith(db).
		ExecContext(ctx)
	if err != nil {
		return 0, errors.Wrapf(err, "insert into %s", table)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.Wrapf(err, "insert into %s: last insert id", table)
	}

	return id, nil
}
