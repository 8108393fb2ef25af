package field

import "reflect"

// Clean strips nil values and empty strings from a tree of maps and slices,
// dropping any map or slice that ends up empty. It returns false when v
// itself cleans away. Maps with string keys come back as map[string]any and
// slices as []any. Clean(Clean(v)) equals Clean(v).
func Clean(v any) (any, bool) {
	if v == nil {
		return nil, false
	}

	switch t := v.(type) {
	case string:
		return t, t != ""
	case map[string]any:
		return cleanMap(t)
	case []any:
		return cleanSlice(t)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, false
		}
		return Clean(rv.Elem().Interface())
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v, true
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return cleanMap(m)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, false
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v, rv.Len() > 0
		}
		s := make([]any, rv.Len())
		for i := range s {
			s[i] = rv.Index(i).Interface()
		}
		return cleanSlice(s)
	case reflect.String:
		return v, rv.Len() > 0
	}
	return v, true
}

func cleanMap(m map[string]any) (any, bool) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if cleaned, ok := Clean(v); ok {
			out[k] = cleaned
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func cleanSlice(s []any) (any, bool) {
	out := make([]any, 0, len(s))
	for _, v := range s {
		if cleaned, ok := Clean(v); ok {
			out = append(out, cleaned)
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}
