package sanitizer

import (
	"net/url"
	"reflect"
)

// Clean returns a copy of v in which every reachable string has been passed
// through String. The result has the same shape as the input. Nil maps, slices
// and pointers stay nil; map keys and unexported struct fields are preserved.
// Cyclic values are supported: a revisited pointer, map or slice resolves to
// its cleaned copy.
func Clean[T any](v T) T {
	var result T
	c := cleaner{seen: make(map[ref]reflect.Value)}
	out := c.value(reflect.ValueOf(&v).Elem())
	reflect.ValueOf(&result).Elem().Set(out)
	return result
}

// Values sanitizes every value of a url.Values form.
func Values(v url.Values) url.Values {
	return Clean(v)
}

// Map sanitizes a decoded JSON-like document.
func Map(m map[string]any) map[string]any {
	return Clean(m)
}

type ref struct {
	typ reflect.Type
	ptr uintptr
	len int
}

type cleaner struct {
	seen map[ref]reflect.Value
}

func (c *cleaner) value(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.String:
		out := reflect.New(v.Type()).Elem()
		out.SetString(String(v.String()))
		return out

	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		key := ref{v.Type(), v.Pointer(), v.Len()}
		if out, ok := c.seen[key]; ok {
			return out
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		if v.Len() > 0 {
			c.seen[key] = out
		}
		for i := range v.Len() {
			out.Index(i).Set(c.value(v.Index(i)))
		}
		return out

	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := range v.Len() {
			out.Index(i).Set(c.value(v.Index(i)))
		}
		return out

	case reflect.Map:
		if v.IsNil() {
			return v
		}
		key := ref{typ: v.Type(), ptr: v.Pointer()}
		if out, ok := c.seen[key]; ok {
			return out
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		c.seen[key] = out
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), c.value(iter.Value()))
		}
		return out

	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		key := ref{typ: v.Type(), ptr: v.Pointer()}
		if out, ok := c.seen[key]; ok {
			return out
		}
		out := reflect.New(v.Type().Elem())
		c.seen[key] = out
		out.Elem().Set(c.value(v.Elem()))
		return out

	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(c.value(v.Elem()))
		return out

	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		t := v.Type()
		for i := range t.NumField() {
			field := t.Field(i)
			if !field.IsExported() || field.Tag.Get("sanitize") == "-" {
				continue
			}
			out.Field(i).Set(c.value(v.Field(i)))
		}
		return out

	default:
		return v
	}
}
