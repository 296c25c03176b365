// Package sqlmodel maps rows of a table onto Go structs and resolves the
// relations between them with one batched query per relation.
package sqlmodel

import (
	"github.com/pkg/errors"
)

type ModelSchema[T any] struct {
	Table     string
	Fields    map[string]FieldType[T]
	Relations map[string]Relation[T]
	QueryMods []QueryMod
}

func New[T any](table string) *ModelSchema[T] {
	return &ModelSchema[T]{
		Table:     table,
		Fields:    map[string]FieldType[T]{},
		Relations: map[string]Relation[T]{},
	}
}

func (schema *ModelSchema[T]) AddField(name string, mod QueryMod, rowScan RowScan[T]) *ModelSchema[T] {
	schema.Fields[name] = Field(mod, rowScan)

	return schema
}

// AddSimpleField adds a field whose name is also its column name.
func (schema *ModelSchema[T]) AddSimpleField(name string, ptr func(t *T) any) *ModelSchema[T] {
	return schema.AddField(name, Col(name), Ptr(ptr))
}

func (schema *ModelSchema[T]) AddRelation(name string, relation Relation[T]) *ModelSchema[T] {
	schema.Relations[name] = relation

	return schema
}

// ModifyQuery registers a mod applied to every query of this schema.
func (schema *ModelSchema[T]) ModifyQuery(mod QueryMod) *ModelSchema[T] {
	schema.QueryMods = append(schema.QueryMods, mod)

	return schema
}

// Query starts a query selecting fields. No fields selects every field.
func (schema *ModelSchema[T]) Query(fields ...string) ModelQuery[T] {
	return newModelQuery(*schema, fields...)
}

// Check validates a possibly nested field path such as "books.name".
func (schema *ModelSchema[T]) Check(field string) error {
	field, rest := isNested(field)

	switch {
	case field == "" || field == "*":
		return nil
	case schema.hasRelation(field):
		return schema.Relations[field].Check(rest)
	case schema.hasField(field) && rest == "":
		return nil
	case schema.hasField(field):
		return errors.Wrap(ErrNoSuchRelation, field)
	}

	return errors.Wrap(ErrNoSuchField, field)
}

func (schema *ModelSchema[T]) hasRelation(name string) bool {
	_, ok := schema.Relations[name]
	return ok
}

func (schema *ModelSchema[T]) hasField(name string) bool {
	_, ok := schema.Fields[name]
	return ok
}
