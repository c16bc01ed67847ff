package value

import (
	"encoding/json"
	"math/big"
	"reflect"
	"regexp"
	"time"
)

// Classify returns the tag of v. It never panics: values that match no
// specific check fall through to TagObject.
func Classify(v any) Tag {
	if v == nil {
		return TagNull
	}
	if isUndefined(v) {
		return TagUndefined
	}

	rv := reflect.ValueOf(v)
	if isNil(rv) {
		return TagNull
	}

	switch t := v.(type) {
	case Tagger:
		return t.TypeTag()
	case error:
		return TagError
	case time.Time, *time.Time:
		return TagDate
	case *regexp.Regexp:
		return TagRegExp
	case *big.Int, big.Int:
		return TagBigInt
	case Symbol, *Symbol:
		return TagSymbol
	case json.Number:
		return TagNumber
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return Classify(rv.Elem().Interface())
	case reflect.String:
		return TagString
	case reflect.Bool:
		return TagBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return TagNumber
	case reflect.Func:
		return TagFunction
	case reflect.Slice, reflect.Array:
		return TagArray
	case reflect.Map:
		return mapTag(rv.Type())
	}
	return TagObject
}

// Count returns the number of direct children of a container, 0 for
// everything else.
func Count(v any, tag Tag) int {
	if !tag.IsContainer() || v == nil {
		return 0
	}
	if e, ok := v.(Enumerable); ok {
		return e.Len()
	}

	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return 0
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len()
	case reflect.Struct:
		return len(structFields(rv.Type()))
	}
	return 0
}

func isUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

func isNil(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func mapTag(t reflect.Type) Tag {
	if elem := t.Elem(); elem.Kind() == reflect.Struct && elem.NumField() == 0 {
		return TagSet
	}
	if t.Key().Kind() == reflect.String {
		return TagObject
	}
	return TagMap
}

// indirect follows pointers and interfaces down to the concrete value.
// The result is invalid when a nil is reached.
func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}
