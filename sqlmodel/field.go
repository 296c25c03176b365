package sqlmodel

type (
	// Ptrs are the scan destinations for one or more columns of a row.
	Ptrs []any
	// RowScan hands out scan destinations inside t. The optional Action runs after
	// the row was scanned, e.g. to split a packed column into a slice.
	RowScan[T any] func(t *T) (Ptrs, Action)
	Action         func()

	FieldType[T any] struct {
		Mod     QueryMod
		RowScan RowScan[T]
	}
)

// Ptr scans a single column straight into the pointer returned by ptr.
func Ptr[T any](ptr func(t *T) any) RowScan[T] {
	return func(t *T) (Ptrs, Action) {
		return Ptrs{ptr(t)}, nil
	}
}

func Field[T any](mod QueryMod, scan RowScan[T]) FieldType[T] {
	return FieldType[T]{Mod: mod, RowScan: scan}
}

func flattenRowScan[T any](rowScans []RowScan[T]) RowScan[T] {
	return func(t *T) (Ptrs, Action) {
		var (
			pointers Ptrs
			actions  []Action
		)
		for _, rowScan := range rowScans {
			ptrs, action := rowScan(t)
			pointers = append(pointers, ptrs...)
			if action != nil {
				actions = append(actions, action)
			}
		}

		return pointers, func() {
			for _, action := range actions {
				action()
			}
		}
	}
}
