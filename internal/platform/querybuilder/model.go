package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// UpsertModel inserts the db-tagged fields of model and overwrites every
// non-key column when the conflict key already exists. Columns listed in
// keep are left untouched on conflict.
func UpsertModel(table string, model any, conflict []string, keep ...string) (string, []any, error) {
	cols, vals, err := columnsAndValuesFromModel(model)
	if err != nil {
		return "", nil, err
	}

	skip := make(map[string]struct{}, len(conflict)+len(keep))
	for _, col := range conflict {
		skip[col] = struct{}{}
	}
	for _, col := range keep {
		skip[col] = struct{}{}
	}
	updates := make([]string, 0, len(cols))
	for _, col := range cols {
		if _, ok := skip[col]; !ok {
			updates = append(updates, col)
		}
	}

	b := InsertInto(table).Columns(cols...).Values(vals...).OnConflict(conflict...)
	if len(updates) == 0 {
		b.DoNothing()
	} else {
		b.DoUpdate(updates...)
	}
	return b.ToSQL()
}

// Columns lists the db tags of model in field order, for SELECT lists.
func Columns(model any) []string {
	cols, _, err := columnsAndValuesFromModel(model)
	if err != nil {
		return nil
	}
	return cols
}

func columnsAndValuesFromModel(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct")
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		col := strings.TrimSpace(strings.Split(field.Tag.Get("db"), ",")[0])
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return cols, vals, nil
}
