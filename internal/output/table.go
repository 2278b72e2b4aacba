package output

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Table represents a pre-rendered table for table output formatting.
type Table struct {
	Headers []string   `json:"headers" yaml:"headers"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

// toTable converts data to a Table: a Table value passes through, a
// slice of structs or maps is rendered with field names as headers.
func toTable(data interface{}) (Table, error) {
	if tbl, ok := data.(Table); ok {
		return tbl, nil
	}
	if tbl, ok := data.(*Table); ok {
		return *tbl, nil
	}

	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return Table{}, nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return Table{}, fmt.Errorf("table output needs a list, got %T", data)
	}

	var tbl Table
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		for elem.Kind() == reflect.Ptr || elem.Kind() == reflect.Interface {
			elem = elem.Elem()
		}

		switch elem.Kind() {
		case reflect.Struct:
			headers, row := structRow(elem)
			if i == 0 {
				tbl.Headers = headers
			}
			tbl.Rows = append(tbl.Rows, row)
		case reflect.Map:
			headers, row := mapRow(elem)
			if i == 0 {
				tbl.Headers = headers
			}
			tbl.Rows = append(tbl.Rows, row)
		default:
			tbl.Rows = append(tbl.Rows, []string{fmt.Sprint(elem.Interface())})
		}
	}
	return tbl, nil
}

func structRow(v reflect.Value) (headers, row []string) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" && tag != "-" {
			name = strings.Split(tag, ",")[0]
		}
		headers = append(headers, name)
		row = append(row, fmt.Sprint(v.Field(i).Interface()))
	}
	return headers, row
}

func mapRow(v reflect.Value) (headers, row []string) {
	keys := make([]string, 0, v.Len())
	byKey := make(map[string]string, v.Len())
	for _, k := range v.MapKeys() {
		key := fmt.Sprint(k.Interface())
		keys = append(keys, key)
		byKey[key] = fmt.Sprint(v.MapIndex(k).Interface())
	}
	sort.Strings(keys)
	for _, k := range keys {
		headers = append(headers, k)
		row = append(row, byKey[k])
	}
	return headers, row
}
