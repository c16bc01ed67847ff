package flatten

import "reflect"

// identity names a container instance by address. Two values share an
// identity only if they alias the same underlying storage.
type identity struct {
	typ reflect.Type
	ptr uintptr
	len int
}

// identityOf returns the identity of reference-like values (pointers,
// maps, non-empty slices). Plain values cannot form cycles and are not
// tracked.
func identityOf(v any) (identity, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map:
		if rv.IsNil() {
			return identity{}, false
		}
		return identity{typ: rv.Type(), ptr: rv.Pointer()}, true
	case reflect.Slice:
		if rv.Len() == 0 {
			return identity{}, false
		}
		return identity{typ: rv.Type(), ptr: rv.Pointer(), len: rv.Len()}, true
	}
	return identity{}, false
}
