package geocoding

import (
	"github.com/tidwall/gjson"
)

// child returns the value stored under key in an object. Keys are looked up
// literally, so census section names containing spaces need no escaping.
func child(data gjson.Result, key string) gjson.Result {
	if !data.IsObject() {
		return gjson.Result{}
	}

	return data.Map()[key]
}

// ExtractFields returns the requested fields of the first element of the named
// section. The section must exist, be a non-empty array and carry every field.
func ExtractFields(data gjson.Result, section string, fields ...string) (map[string]string, error) {
	list := child(data, section)
	if !list.Exists() {
		return nil, newError(KindMissingField, nil, "missing section %q", section)
	}
	if !list.IsArray() {
		return nil, newError(KindMissingField, nil, "section %q is not a list", section)
	}

	items := list.Array()
	if len(items) == 0 {
		return nil, newError(KindMissingField, nil, "section %q has no entries", section)
	}

	first := items[0]
	out := make(map[string]string, len(fields))
	for _, field := range fields {
		value := child(first, field)
		if !value.Exists() {
			return nil, newError(KindMissingField, nil, "missing field %q in section %q", field, section)
		}
		out[field] = value.String()
	}

	return out, nil
}
