package model

// Optional is a patch field that distinguishes "leave alone" (Set false)
// from "set to NULL" (Set true, Value nil) and "set to value".
type Optional[T any] struct {
	Set   bool
	Value *T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

func putString(cols map[string]interface{}, column string, v *string) {
	if v != nil {
		cols[column] = *v
	}
}

func putOptional[T any](cols map[string]interface{}, column string, v Optional[T]) {
	if !v.Set {
		return
	}
	if v.Value == nil {
		cols[column] = nil
		return
	}
	cols[column] = *v.Value
}

func putValue[T any](cols map[string]interface{}, column string, v *T) {
	if v != nil {
		cols[column] = *v
	}
}
