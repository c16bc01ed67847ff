package source

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Query selects the part of a JSON document matched by a gjson path and
// returns its raw text.
func Query(data []byte, path string) ([]byte, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("query %q: input is not valid json", path)
	}
	res := gjson.GetBytes(data, path)
	if !res.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrNoMatch, path)
	}
	return []byte(res.Raw), nil
}
