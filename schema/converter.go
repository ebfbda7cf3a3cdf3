package schema

import (
	"database/sql"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
)

// convertFunc turns a driver value of one fixed type into a destination type.
type convertFunc func(src reflect.Value) (reflect.Value, error)

type converterKey struct {
	dest, src reflect.Type
}

// converterCache holds one convertFunc per (dest, src) pair, built on first use.
var converterCache = sync.Map{} // map[converterKey]convertFunc

var (
	scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
	timeType    = reflect.TypeOf(time.Time{})
	bytesType   = reflect.TypeOf([]byte(nil))
)

// timeLayouts are tried in order when parsing textual timestamps.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Convert converts a driver value into a value of type dest. nil becomes the
// zero value; pointer destinations stay nil for NULL.
func Convert(value any, dest reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(dest), nil
	}

	if reflect.PointerTo(dest).Implements(scannerType) {
		ptr := reflect.New(dest)
		if err := ptr.Interface().(sql.Scanner).Scan(value); err != nil {
			return reflect.Value{}, err
		}
		return ptr.Elem(), nil
	}

	if dest.Kind() == reflect.Pointer {
		elem, err := Convert(value, dest.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(dest.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	}

	src := reflect.ValueOf(value)
	if src.Kind() == reflect.Pointer {
		if src.IsNil() {
			return reflect.Zero(dest), nil
		}
		src = src.Elem()
	}

	key := converterKey{dest: dest, src: src.Type()}
	if cached, ok := converterCache.Load(key); ok {
		return cached.(convertFunc)(src)
	}

	fn, err := buildConverter(dest, src.Type())
	if err != nil {
		return reflect.Value{}, err
	}
	converterCache.Store(key, fn)
	return fn(src)
}

func buildConverter(dest, src reflect.Type) (convertFunc, error) {
	if src.AssignableTo(dest) {
		return func(v reflect.Value) (reflect.Value, error) { return v, nil }, nil
	}

	switch {
	case dest == timeType:
		return buildTimeConverter(src)
	case dest == bytesType || (dest.Kind() == reflect.Slice && dest.Elem().Kind() == reflect.Uint8):
		return buildBytesConverter(dest, src)
	}

	switch dest.Kind() {
	case reflect.String:
		return buildStringConverter(dest, src)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return buildIntConverter(dest, src)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return buildUintConverter(dest, src)
	case reflect.Float32, reflect.Float64:
		return buildFloatConverter(dest, src)
	case reflect.Bool:
		return buildBoolConverter(src)
	case reflect.Interface:
		if src.Implements(dest) {
			return func(v reflect.Value) (reflect.Value, error) {
				out := reflect.New(dest).Elem()
				out.Set(v)
				return out, nil
			}, nil
		}
	}

	if src.ConvertibleTo(dest) {
		return func(v reflect.Value) (reflect.Value, error) { return v.Convert(dest), nil }, nil
	}
	return nil, fmt.Errorf("schema: cannot convert %s to %s", src, dest)
}

func buildStringConverter(dest, src reflect.Type) (convertFunc, error) {
	switch {
	case src == bytesType || (src.Kind() == reflect.Slice && src.Elem().Kind() == reflect.Uint8):
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(string(v.Bytes())).Convert(dest), nil
		}, nil
	case src == timeType:
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(v.Interface().(time.Time).Format(time.RFC3339Nano)).Convert(dest), nil
		}, nil
	case isInt(src.Kind()):
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(strconv.FormatInt(v.Int(), 10)).Convert(dest), nil
		}, nil
	case isUint(src.Kind()):
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(strconv.FormatUint(v.Uint(), 10)).Convert(dest), nil
		}, nil
	case isFloat(src.Kind()):
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(strconv.FormatFloat(v.Float(), 'f', -1, 64)).Convert(dest), nil
		}, nil
	case src.Kind() == reflect.Bool:
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(strconv.FormatBool(v.Bool())).Convert(dest), nil
		}, nil
	case src.Kind() == reflect.String:
		return func(v reflect.Value) (reflect.Value, error) { return v.Convert(dest), nil }, nil
	}
	if src.Implements(reflect.TypeOf((*fmt.Stringer)(nil)).Elem()) {
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(v.Interface().(fmt.Stringer).String()).Convert(dest), nil
		}, nil
	}
	return nil, fmt.Errorf("schema: cannot convert %s to %s", src, dest)
}

func buildIntConverter(dest, src reflect.Type) (convertFunc, error) {
	set := func(n int64) (reflect.Value, error) {
		out := reflect.New(dest).Elem()
		if out.OverflowInt(n) {
			return reflect.Value{}, fmt.Errorf("schema: %d overflows %s", n, dest)
		}
		out.SetInt(n)
		return out, nil
	}

	switch {
	case isInt(src.Kind()):
		return func(v reflect.Value) (reflect.Value, error) { return set(v.Int()) }, nil
	case isUint(src.Kind()):
		return func(v reflect.Value) (reflect.Value, error) { return set(int64(v.Uint())) }, nil
	case isFloat(src.Kind()):
		return func(v reflect.Value) (reflect.Value, error) { return set(int64(v.Float())) }, nil
	case src.Kind() == reflect.Bool:
		return func(v reflect.Value) (reflect.Value, error) {
			if v.Bool() {
				return set(1)
			}
			return set(0)
		}, nil
	case src.Kind() == reflect.String || src == bytesType:
		return func(v reflect.Value) (reflect.Value, error) {
			n, err := strconv.ParseInt(strings.TrimSpace(text(v)), 10, 64)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("schema: cannot convert %q to %s: %w", text(v), dest, err)
			}
			return set(n)
		}, nil
	}
	return nil, fmt.Errorf("schema: cannot convert %s to %s", src, dest)
}

func buildUintConverter(dest, src reflect.Type) (convertFunc, error) {
	set := func(n uint64) (reflect.Value, error) {
		out := reflect.New(dest).Elem()
		if out.OverflowUint(n) {
			return reflect.Value{}, fmt.Errorf("schema: %d overflows %s", n, dest)
		}
		out.SetUint(n)
		return out, nil
	}

	switch {
	case isUint(src.Kind()):
		return func(v reflect.Value) (reflect.Value, error) { return set(v.Uint()) }, nil
	case isInt(src.Kind()):
		return func(v reflect.Value) (reflect.Value, error) {
			if v.Int() < 0 {
				return reflect.Value{}, fmt.Errorf("schema: negative value %d for %s", v.Int(), dest)
			}
			return set(uint64(v.Int()))
		}, nil
	case isFloat(src.Kind()):
		return func(v reflect.Value) (reflect.Value, error) { return set(uint64(v.Float())) }, nil
	case src.Kind() == reflect.String || src == bytesType:
		return func(v reflect.Value) (reflect.Value, error) {
			n, err := strconv.ParseUint(strings.TrimSpace(text(v)), 10, 64)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("schema: cannot convert %q to %s: %w", text(v), dest, err)
			}
			return set(n)
		}, nil
	}
	return nil, fmt.Errorf("schema: cannot convert %s to %s", src, dest)
}

func buildFloatConverter(dest, src reflect.Type) (convertFunc, error) {
	set := func(f float64) (reflect.Value, error) {
		out := reflect.New(dest).Elem()
		out.SetFloat(f)
		return out, nil
	}

	switch {
	case isFloat(src.Kind()):
		return func(v reflect.Value) (reflect.Value, error) { return set(v.Float()) }, nil
	case isInt(src.Kind()):
		return func(v reflect.Value) (reflect.Value, error) { return set(float64(v.Int())) }, nil
	case isUint(src.Kind()):
		return func(v reflect.Value) (reflect.Value, error) { return set(float64(v.Uint())) }, nil
	case src.Kind() == reflect.String || src == bytesType:
		return func(v reflect.Value) (reflect.Value, error) {
			f, err := strconv.ParseFloat(strings.TrimSpace(text(v)), 64)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("schema: cannot convert %q to %s: %w", text(v), dest, err)
			}
			return set(f)
		}, nil
	}
	return nil, fmt.Errorf("schema: cannot convert %s to %s", src, dest)
}

func buildBoolConverter(src reflect.Type) (convertFunc, error) {
	switch {
	case isInt(src.Kind()):
		return func(v reflect.Value) (reflect.Value, error) { return reflect.ValueOf(v.Int() != 0), nil }, nil
	case isUint(src.Kind()):
		return func(v reflect.Value) (reflect.Value, error) { return reflect.ValueOf(v.Uint() != 0), nil }, nil
	case src.Kind() == reflect.String || src == bytesType:
		return func(v reflect.Value) (reflect.Value, error) {
			b, err := strconv.ParseBool(strings.TrimSpace(text(v)))
			if err != nil {
				return reflect.Value{}, fmt.Errorf("schema: cannot convert %q to bool: %w", text(v), err)
			}
			return reflect.ValueOf(b), nil
		}, nil
	}
	return nil, fmt.Errorf("schema: cannot convert %s to bool", src)
}

func buildTimeConverter(src reflect.Type) (convertFunc, error) {
	switch {
	case src.Kind() == reflect.String || src == bytesType:
		return func(v reflect.Value) (reflect.Value, error) {
			s := strings.TrimSpace(text(v))
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, s); err == nil {
					return reflect.ValueOf(t), nil
				}
			}
			return reflect.Value{}, fmt.Errorf("schema: cannot parse %q as time", s)
		}, nil
	case isInt(src.Kind()):
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(time.Unix(v.Int(), 0).UTC()), nil
		}, nil
	}
	return nil, fmt.Errorf("schema: cannot convert %s to time.Time", src)
}

func buildBytesConverter(dest, src reflect.Type) (convertFunc, error) {
	if src.Kind() == reflect.String {
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf([]byte(v.String())).Convert(dest), nil
		}, nil
	}
	if src.Kind() == reflect.Slice && src.Elem().Kind() == reflect.Uint8 {
		return func(v reflect.Value) (reflect.Value, error) {
			// Drivers reuse byte buffers between rows.
			out := make([]byte, v.Len())
			copy(out, v.Bytes())
			return reflect.ValueOf(out).Convert(dest), nil
		}, nil
	}
	return nil, fmt.Errorf("schema: cannot convert %s to %s", src, dest)
}

func text(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	return string(v.Bytes())
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
