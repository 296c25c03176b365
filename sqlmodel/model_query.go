package sqlmodel

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
)

var (
	// ErrNoSuchField is returned when there is no field or no relation with that name.
	ErrNoSuchField = errors.New("field does not exist")
	// ErrNoSuchRelation is returned when selecting a nested field on something that is not a relation.
	ErrNoSuchRelation = errors.New("relation does not exist")
	// ErrTooManyResults is returned when CollectOne finds more than one row.
	ErrTooManyResults = errors.New("too many results for CollectOne")
)

type ModelQuery[T any] struct {
	schema ModelSchema[T]

	selectedFields         map[string]FieldType[T]
	selectedRelations      map[string]Relation[T]
	selectedRelationFields map[string][]string
	tableAlias             string
	queryMods              []QueryMod

	errors []error
}

func newModelQuery[T any](schema ModelSchema[T], fields ...string) ModelQuery[T] {
	query := ModelQuery[T]{
		schema:                 schema,
		selectedFields:         map[string]FieldType[T]{},
		selectedRelations:      map[string]Relation[T]{},
		selectedRelationFields: map[string][]string{},
		tableAlias:             schema.Table,
	}

	return query.Select(fields...)
}

func (model ModelQuery[T]) ModifyQuery(mod QueryMod) ModelQuery[T] {
	model.queryMods = append(model.queryMods, mod)

	return model
}

func (model ModelQuery[T]) Select(fieldNames ...string) ModelQuery[T] {
	if len(fieldNames) == 0 {
		model.selectAllFields()
		return model
	}

	for _, name := range fieldNames {
		model.resolveSelect(name)
	}

	return model
}

func (model *ModelQuery[T]) resolveSelect(name string) {
	field, rest := isNested(name)

	switch {
	case field == "*":
		if rest != "" {
			model.addError(errors.Wrap(ErrNoSuchRelation, field))
			return
		}
		model.selectAllFields()

	case model.schema.hasRelation(field):
		if rest != "" && rest != "*" {
			if err := model.schema.Relations[field].Check(rest); err != nil {
				model.addError(err)
				return
			}
		}
		model.selectRelation(field, rest)

	case model.schema.hasField(field):
		if rest != "" {
			model.addError(errors.Wrap(ErrNoSuchRelation, field))
			return
		}
		model.selectedFields[field] = model.schema.Fields[field]

	default:
		model.addError(errors.Wrap(ErrNoSuchField, field))
	}
}

func (model *ModelQuery[T]) selectAllFields() {
	for name, field := range model.schema.Fields {
		model.selectedFields[name] = field
	}
}

func (model *ModelQuery[T]) selectRelation(relName, relField string) {
	if relField == "" {
		relField = "*"
	}

	model.selectedRelations[relName] = model.schema.Relations[relName]
	model.selectedRelationFields[relName] = append(model.selectedRelationFields[relName], relField)
}

// Err joins every error recorded while selecting fields.
func (model ModelQuery[T]) Err() error {
	return stderrors.Join(model.errors...)
}

func (model ModelQuery[T]) Collect(ctx context.Context, db squirrel.BaseRunner) ([]T, error) {
	if err := model.Err(); err != nil {
		return nil, err
	}

	model = model.withRelationDependencies()

	parents, err := model.collectBaseModels(ctx, db)
	if err != nil {
		return nil, err
	}

	if err := model.resolveRelations(ctx, db, parents); err != nil {
		return nil, err
	}

	return parents, nil
}

// CollectOne returns sql.ErrNoRows when nothing matched and ErrTooManyResults
// when more than one row did.
func (model ModelQuery[T]) CollectOne(ctx context.Context, db squirrel.BaseRunner) (*T, error) {
	if err := model.Err(); err != nil {
		return nil, err
	}

	model = model.withRelationDependencies()

	parents, err := model.collectBaseModels(ctx, db)
	if err != nil {
		return nil, err
	}

	switch {
	case len(parents) == 0:
		return nil, sql.ErrNoRows
	case len(parents) > 1:
		return nil, ErrTooManyResults
	}

	if err := model.resolveRelations(ctx, db, parents); err != nil {
		return nil, err
	}

	return &parents[0], nil
}

// Count returns the number of rows the query matches, ignoring relations.
func (model ModelQuery[T]) Count(ctx context.Context, db squirrel.BaseRunner) (int64, error) {
	if err := model.Err(); err != nil {
		return 0, err
	}

	q := squirrel.Select("COUNT(*)").From(model.schema.Table).RunWith(db)
	q = applyMods(q, model.tableAlias, model.filterMods())

	var count int64
	if err := q.QueryRowContext(ctx).Scan(&count); err != nil {
		return 0, errors.Wrapf(err, "count %s", model.schema.Table)
	}

	return count, nil
}

// filterMods are the schema and runtime mods. Ordering mods are harmless on a
// count, so no attempt is made to strip them.
func (model ModelQuery[T]) filterMods() []QueryMod {
	mods := make([]QueryMod, 0, len(model.schema.QueryMods)+len(model.queryMods))
	mods = append(mods, model.schema.QueryMods...)
	return append(mods, model.queryMods...)
}

// withRelationDependencies selects the fields each selected relation needs to
// bind its children, on both sides of the relation.
func (model ModelQuery[T]) withRelationDependencies() ModelQuery[T] {
	for _, rel := range model.selectedRelations {
		if rel.ModelQueryMod != nil {
			model = rel.ModelQueryMod(model)
		}
	}

	return model
}

func (model ModelQuery[T]) collectBaseModels(ctx context.Context, db squirrel.BaseRunner) ([]T, error) {
	q := squirrel.StatementBuilder.RunWith(db).Select().From(model.schema.Table)
	q = applyMods(q, model.tableAlias, model.filterMods())

	var scans []RowScan[T]
	for _, field := range model.selectedFields {
		q = field.Mod(q, model.tableAlias)
		scans = append(scans, field.RowScan)
	}

	return Collect(ctx, q, flattenRowScan(scans))
}

func (model ModelQuery[T]) resolveRelations(ctx context.Context, db squirrel.BaseRunner, parents []T) error {
	for name, relation := range model.selectedRelations {
		if err := relation.Resolve(ctx, db, parents, model.selectedRelationFields[name]); err != nil {
			return errors.Wrapf(err, "resolve relation %s", name)
		}
	}

	return nil
}

func (model *ModelQuery[T]) addError(err error) {
	model.errors = append(model.errors, err)
}

func isNested(name string) (string, string) {
	field, rest, _ := strings.Cut(name, ".")
	return field, rest
}
