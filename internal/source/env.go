package source

import (
	"os"
	"sort"
	"strings"

	"github.com/flavono123/peek/internal/value"
)

// Environ returns the process environment as an object sorted by name.
// Only variables starting with prefix are kept.
func Environ(prefix string) *value.Object {
	vars := os.Environ()
	sort.Strings(vars)

	obj := value.NewObject()
	for _, kv := range vars {
		name, val, _ := strings.Cut(kv, "=")
		if name == "" || !strings.HasPrefix(name, prefix) {
			continue
		}
		obj.Set(name, val)
	}
	return obj
}
