package sqlmodel

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/samber/lo"
)

type (
	// Resolve loads the related children of parents and binds them in place.
	Resolve[M any]            func(ctx context.Context, db squirrel.BaseRunner, parents []M, fields []string) error
	FieldCheck                func(field string) error
	Binder[M, N any]          func(parents []M, children []N)
	ModelQueryModifier[M any] func(model ModelQuery[M]) ModelQuery[M]
)

type Relation[M any] struct {
	Resolve       Resolve[M]
	Check         FieldCheck
	ModelQueryMod ModelQueryModifier[M]
}

// HasMany binds every child that belongs to a parent, keeping the order in
// which the child query returned them.
func HasMany[M, N any](
	child *ModelSchema[N],
	belongTogether func(M, N) bool,
	assign func(*M, []N),
	wherer func(parents []M) QueryMod,
	depends []string,
) Relation[M] {
	return CreateRelation(child, BindBy(belongTogether, assign), wherer, selectDepends[M](depends))
}

// HasOne binds the first child that belongs to a parent. Parents without a
// matching child are left untouched.
func HasOne[M, N any](
	child *ModelSchema[N],
	belongTogether func(M, N) bool,
	assign func(*M, N),
	wherer func(parents []M) QueryMod,
	depends []string,
) Relation[M] {
	return CreateRelation(child, BindByOne(belongTogether, assign), wherer, selectDepends[M](depends))
}

func CreateRelation[M, N any](
	child *ModelSchema[N],
	binder Binder[M, N],
	wherer func(parents []M) QueryMod,
	depends ModelQueryModifier[M],
) Relation[M] {
	return Relation[M]{
		Check: child.Check,
		Resolve: func(ctx context.Context, db squirrel.BaseRunner, parents []M, fields []string) error {
			if len(parents) == 0 {
				return nil
			}

			children, err := child.Query(fields...).
				ModifyQuery(wherer(parents)).
				Collect(ctx, db)
			if err != nil {
				return err
			}

			binder(parents, children)

			return nil
		},
		ModelQueryMod: depends,
	}
}

func BindBy[M, N any](belongTogether func(M, N) bool, assign func(*M, []N)) Binder[M, N] {
	return func(parents []M, children []N) {
		for ix := range parents {
			parent := &parents[ix]
			assign(parent, lo.Filter(children, func(child N, _ int) bool {
				return belongTogether(*parent, child)
			}))
		}
	}
}

func BindByOne[M, N any](belongTogether func(M, N) bool, assign func(*M, N)) Binder[M, N] {
	return func(parents []M, children []N) {
		for ix := range parents {
			parent := &parents[ix]
			child, ok := lo.Find(children, func(child N) bool { return belongTogether(*parent, child) })
			if ok {
				assign(parent, child)
			}
		}
	}
}

// WhereIDs limits the child query to rows whose col is one of the parents' ids.
func WhereIDs[M any, K comparable](col string, getID func(m M) K) func(parents []M) QueryMod {
	return func(parents []M) QueryMod {
		return func(q Q, table string) Q {
			ids := lo.Uniq(lo.Map(parents, func(parent M, _ int) K { return getID(parent) }))
			return q.Where(squirrel.Eq{TableCol(table, col): ids})
		}
	}
}

// DependsOn lists the fields a relation needs selected to bind children to
// parents. Nested names ("books.author_id") address the child side.
func DependsOn(fields ...string) []string {
	return fields
}

func selectDepends[M any](depends []string) ModelQueryModifier[M] {
	return func(model ModelQuery[M]) ModelQuery[M] {
		if len(depends) == 0 {
			return model
		}
		return model.Select(depends...)
	}
}
