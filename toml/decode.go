package toml

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Unmarshal parses data and decodes it into v, ignoring keys with no matching field
func Unmarshal(data []byte, v any) error {
	return unmarshal(data, v, false)
}

// UnmarshalStrict is Unmarshal that rejects keys with no matching field
func UnmarshalStrict(data []byte, v any) error {
	return unmarshal(data, v, true)
}

func unmarshal(data []byte, v any, strict bool) error {
	doc, err := NewParser(data).Parse()
	if err != nil {
		return err
	}
	d := &decoder{strict: strict}
	return d.decodeRoot(doc, v)
}

// Decode maps a parsed document onto v using `toml` tags, falling back to field names
func Decode(doc map[string]any, v any) error {
	d := &decoder{}
	return d.decodeRoot(doc, v)
}

type decoder struct {
	strict bool
}

func (d *decoder) decodeRoot(doc map[string]any, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrTarget
	}
	return d.decode(doc, rv.Elem(), "")
}

func (d *decoder) decode(data any, rv reflect.Value, path string) error {
	if rv.Type() == durationType {
		return decodeDuration(data, rv, path)
	}

	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return d.decode(data, rv.Elem(), path)

	case reflect.Struct:
		m, ok := data.(map[string]any)
		if !ok {
			return typeErr(path, "table", data)
		}
		return d.decodeStruct(m, rv, path)

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("%s: map key must be string: %w", path, ErrType)
		}
		m, ok := data.(map[string]any)
		if !ok {
			return typeErr(path, "table", data)
		}
		if rv.IsNil() {
			rv.Set(reflect.MakeMapWithSize(rv.Type(), len(m)))
		}
		for k, v := range m {
			elem := reflect.New(rv.Type().Elem()).Elem()
			if err := d.decode(v, elem, join(path, k)); err != nil {
				return err
			}
			rv.SetMapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()), elem)
		}
		return nil

	case reflect.Slice:
		items, ok := asList(data)
		if !ok {
			return typeErr(path, "array", data)
		}
		out := reflect.MakeSlice(rv.Type(), len(items), len(items))
		for i, item := range items {
			if err := d.decode(item, out.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		rv.Set(out)
		return nil

	case reflect.Array:
		items, ok := asList(data)
		if !ok {
			return typeErr(path, "array", data)
		}
		if len(items) != rv.Len() {
			return fmt.Errorf("%s: want %d elements, got %d: %w", path, rv.Len(), len(items), ErrType)
		}
		for i, item := range items {
			if err := d.decode(item, rv.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Interface:
		if data != nil {
			rv.Set(reflect.ValueOf(data))
		}
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := asInt(data)
		if !ok || rv.OverflowInt(n) {
			return typeErr(path, rv.Type().String(), data)
		}
		rv.SetInt(n)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := asInt(data)
		if !ok || n < 0 || rv.OverflowUint(uint64(n)) {
			return typeErr(path, rv.Type().String(), data)
		}
		rv.SetUint(uint64(n))
		return nil

	case reflect.Float32, reflect.Float64:
		switch v := data.(type) {
		case float64:
			rv.SetFloat(v)
		case int64:
			rv.SetFloat(float64(v))
		default:
			return typeErr(path, "float", data)
		}
		return nil

	case reflect.String:
		s, ok := data.(string)
		if !ok {
			return typeErr(path, "string", data)
		}
		rv.SetString(s)
		return nil

	case reflect.Bool:
		b, ok := data.(bool)
		if !ok {
			return typeErr(path, "bool", data)
		}
		rv.SetBool(b)
		return nil
	}

	return fmt.Errorf("%s: unsupported field kind %s: %w", path, rv.Kind(), ErrType)
}

func (d *decoder) decodeStruct(m map[string]any, rv reflect.Value, path string) error {
	typ := rv.Type()
	seen := make(map[string]bool, len(m))

	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		key, _ := fieldKey(f)
		if key == "-" {
			continue
		}
		v, ok := m[key]
		if !ok {
			continue
		}
		seen[key] = true
		if err := d.decode(v, rv.Field(i), join(path, key)); err != nil {
			return err
		}
	}

	if d.strict {
		for k := range m {
			if !seen[k] {
				return fmt.Errorf("%s: %w", join(path, k), ErrUnknownKey)
			}
		}
	}
	return nil
}

func decodeDuration(data any, rv reflect.Value, path string) error {
	switch v := data.(type) {
	case string:
		dur, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %v: %w", path, err, ErrType)
		}
		rv.SetInt(int64(dur))
	case int64:
		rv.SetInt(v)
	default:
		return typeErr(path, "duration", data)
	}
	return nil
}

// fieldKey returns the tag name (or field name) and whether omitempty is set
func fieldKey(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("toml")
	if tag == "" {
		return f.Name, false
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	return name, opts == "omitempty"
}

func asList(data any) ([]any, bool) {
	switch v := data.(type) {
	case []any:
		return v, true
	case []map[string]any:
		out := make([]any, len(v))
		for i, m := range v {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

// asInt accepts integers and integral floats
func asInt(data any) (int64, bool) {
	switch v := data.(type) {
	case int64:
		return v, true
	case float64:
		if v == math.Trunc(v) && v >= math.MinInt64 && v <= math.MaxInt64 {
			return int64(v), true
		}
	}
	return 0, false
}

func typeErr(path, want string, got any) error {
	return fmt.Errorf("%s: want %s, got %T: %w", path, want, got, ErrType)
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
