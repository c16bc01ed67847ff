package value

// Tag classifies an inspected value. Every value maps to exactly one tag.
type Tag int

const (
	TagString Tag = iota
	TagNumber
	TagBigInt
	TagBoolean
	TagNull
	TagUndefined
	TagFunction
	TagSymbol
	TagDate
	TagRegExp
	TagError
	TagArray
	TagObject
	TagMap
	TagSet
)

var tagNames = [...]string{
	TagString:    "string",
	TagNumber:    "number",
	TagBigInt:    "bigint",
	TagBoolean:   "boolean",
	TagNull:      "null",
	TagUndefined: "undefined",
	TagFunction:  "function",
	TagSymbol:    "symbol",
	TagDate:      "date",
	TagRegExp:    "regexp",
	TagError:     "error",
	TagArray:     "array",
	TagObject:    "object",
	TagMap:       "map",
	TagSet:       "set",
}

func (t Tag) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return "unknown"
	}
	return tagNames[t]
}

// IsContainer reports whether values with this tag have children.
func (t Tag) IsContainer() bool {
	switch t {
	case TagArray, TagObject, TagMap, TagSet:
		return true
	}
	return false
}

// Tags returns every known tag in declaration order.
func Tags() []Tag {
	tags := make([]Tag, len(tagNames))
	for i := range tagNames {
		tags[i] = Tag(i)
	}
	return tags
}
