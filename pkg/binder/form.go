package binder

import (
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

const maxMultipartMemory = 1 << 20

// Form returns a binder for form-encoded bodies. Supported field kinds are
// string, bool, the signed and unsigned integers, floats, []string and
// pointers to those scalars. Missing fields keep their zero value.
func Form() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		ct := r.Header.Get("Content-Type")
		if ct == "" {
			return ErrMissingContentType
		}
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidForm, err)
		}

		var values url.Values
		switch mediaType {
		case "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidForm, err)
			}
			values = r.PostForm
		case "multipart/form-data":
			if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidForm, err)
			}
			values = url.Values(r.MultipartForm.Value)
		case "application/json":
			return ErrNotApplicable
		default:
			return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
		}
		return Values(values, v)
	}
}

// Values binds already-parsed values into v.
func Values(values url.Values, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrInvalidTarget
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(sf.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			continue
		}
		raw, ok := values[name]
		if !ok || len(raw) == 0 {
			continue
		}
		if err := setField(rv.Field(i), raw); err != nil {
			return fmt.Errorf("%w: field %s: %v", ErrInvalidForm, name, err)
		}
	}
	return nil
}

func setField(field reflect.Value, raw []string) error {
	if field.Kind() == reflect.Slice {
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", field.Type())
		}
		field.Set(reflect.ValueOf(append([]string(nil), raw...)).Convert(field.Type()))
		return nil
	}
	if field.Kind() == reflect.Pointer {
		ptr := reflect.New(field.Type().Elem())
		if err := setScalar(ptr.Elem(), raw[0]); err != nil {
			return err
		}
		field.Set(ptr)
		return nil
	}
	return setScalar(field, raw[0])
}

func setScalar(field reflect.Value, s string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(s)
	case reflect.Bool:
		if s == "" {
			return nil
		}
		switch strings.ToLower(s) {
		case "on", "yes", "agree":
			field.SetBool(true)
			return nil
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if s == "" {
			return nil
		}
		n, err := strconv.ParseInt(s, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if s == "" {
			return nil
		}
		n, err := strconv.ParseUint(s, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(f)
	default:
		return fmt.Errorf("unsupported type %s", field.Type())
	}
	return nil
}
