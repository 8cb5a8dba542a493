package toml

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"
)

// Marshal encodes a struct (or map with string keys) as a TOML document
// Struct fields keep declaration order, map keys are sorted; scalar keys of a
// table are written before its sub-tables. Durations are written as strings
func Marshal(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("marshal nil pointer: %w", ErrType)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct && rv.Kind() != reflect.Map {
		return nil, fmt.Errorf("marshal root %s: %w", rv.Kind(), ErrType)
	}

	var buf bytes.Buffer
	e := &encoder{w: &buf}
	if err := e.table(rv, ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type encoder struct {
	w *bytes.Buffer
}

type entry struct {
	key string
	val reflect.Value
}

func (e *encoder) entries(rv reflect.Value) ([]entry, error) {
	var out []entry
	switch rv.Kind() {
	case reflect.Struct:
		typ := rv.Type()
		for i := 0; i < typ.NumField(); i++ {
			f := typ.Field(i)
			if !f.IsExported() {
				continue
			}
			key, omitEmpty := fieldKey(f)
			if key == "-" {
				continue
			}
			fv := rv.Field(i)
			if omitEmpty && fv.IsZero() {
				continue
			}
			out = append(out, entry{key, fv})
		}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("map key %s: %w", rv.Type().Key(), ErrType)
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		for _, k := range keys {
			out = append(out, entry{k.String(), rv.MapIndex(k)})
		}
	default:
		return nil, fmt.Errorf("table of kind %s: %w", rv.Kind(), ErrType)
	}
	return out, nil
}

func (e *encoder) table(rv reflect.Value, prefix string) error {
	items, err := e.entries(rv)
	if err != nil {
		return err
	}

	var nested []entry
	for _, it := range items {
		v := indirect(it.val)
		if !v.IsValid() {
			continue
		}
		if isTable(v) || isTableArray(v) {
			nested = append(nested, entry{it.key, v})
			continue
		}
		e.w.WriteString(quoteKey(it.key))
		e.w.WriteString(" = ")
		if err := e.value(v); err != nil {
			return fmt.Errorf("%s: %w", join(prefix, it.key), err)
		}
		e.w.WriteByte('\n')
	}

	for _, it := range nested {
		path := join(prefix, quoteKey(it.key))
		if isTableArray(it.val) {
			for i := 0; i < it.val.Len(); i++ {
				fmt.Fprintf(e.w, "\n[[%s]]\n", path)
				if err := e.table(indirect(it.val.Index(i)), path); err != nil {
					return err
				}
			}
			continue
		}
		fmt.Fprintf(e.w, "\n[%s]\n", path)
		if err := e.table(it.val, path); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) value(v reflect.Value) error {
	if v.Type() == durationType {
		e.w.WriteString(strconv.Quote(time.Duration(v.Int()).String()))
		return nil
	}

	switch v.Kind() {
	case reflect.String:
		e.w.WriteString(strconv.Quote(v.String()))
	case reflect.Bool:
		e.w.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.w.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		e.w.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		e.w.WriteString(formatFloat(v.Float()))
	case reflect.Slice, reflect.Array:
		e.w.WriteByte('[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				e.w.WriteString(", ")
			}
			if err := e.value(indirect(v.Index(i))); err != nil {
				return err
			}
		}
		e.w.WriteByte(']')
	case reflect.Map, reflect.Struct:
		items, err := e.entries(v)
		if err != nil {
			return err
		}
		e.w.WriteByte('{')
		for i, it := range items {
			if i > 0 {
				e.w.WriteString(", ")
			}
			e.w.WriteString(quoteKey(it.key))
			e.w.WriteString(" = ")
			if err := e.value(indirect(it.val)); err != nil {
				return err
			}
		}
		e.w.WriteByte('}')
	default:
		return fmt.Errorf("cannot encode %s: %w", v.Kind(), ErrType)
	}
	return nil
}

// formatFloat keeps a decimal point so the value reads back as a float
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !bytes.ContainsAny([]byte(s), ".eE") {
		s += ".0"
	}
	return s
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func isTable(v reflect.Value) bool {
	return (v.Kind() == reflect.Struct && v.Type() != durationType) || v.Kind() == reflect.Map
}

func isTableArray(v reflect.Value) bool {
	if v.Kind() != reflect.Slice || v.Len() == 0 {
		return false
	}
	elem := v.Type().Elem()
	for elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	return elem.Kind() == reflect.Struct
}

func quoteKey(k string) string {
	if k == "" {
		return `""`
	}
	for i := 0; i < len(k); i++ {
		if !isBareChar(k[i]) {
			return strconv.Quote(k)
		}
	}
	return k
}
