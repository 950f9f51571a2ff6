package geocoding

import (
	"github.com/UnknownOlympus/meridian/internal/models"
	"github.com/tidwall/gjson"
)

// BuildAddress flattens a census address match into AddressComponents.
// An empty or absent match yields ErrEmptyInput.
func BuildAddress(match gjson.Result) (*models.AddressComponents, error) {
	if isEmpty(match) {
		return nil, ErrEmptyInput
	}

	fullAddress := child(match, "matchedAddress")
	if !fullAddress.Exists() {
		return nil, newError(KindMissingField, nil, "missing field %q", "matchedAddress")
	}

	components := child(match, "addressComponents")
	if !components.Exists() {
		return nil, newError(KindMissingField, nil, "missing field %q", "addressComponents")
	}

	get := func(key string) (string, error) {
		value := child(components, key)
		if !value.Exists() {
			return "", newError(KindMissingField, nil, "missing field %q in %q", key, "addressComponents")
		}
		return value.String(), nil
	}

	out := &models.AddressComponents{FullAddress: fullAddress.String()}
	targets := []struct {
		key string
		dst *string
	}{
		{"fromAddress", &out.FromAddress},
		{"toAddress", &out.ToAddress},
		{"preType", &out.PreType},
		{"preDirection", &out.PreDirection},
		{"streetName", &out.StreetName},
		{"suffixType", &out.SuffixType},
		{"suffixDirection", &out.SuffixDirection},
		{"suffixQualifier", &out.SuffixQualifier},
		{"city", &out.City},
		{"state", &out.State},
		{"zip", &out.Zip},
	}
	for _, target := range targets {
		value, err := get(target.key)
		if err != nil {
			return nil, err
		}
		*target.dst = value
	}

	return out, nil
}

func isEmpty(value gjson.Result) bool {
	switch {
	case !value.Exists(), value.Type == gjson.Null:
		return true
	case value.IsObject():
		return len(value.Map()) == 0
	case value.IsArray():
		return len(value.Array()) == 0
	case value.Type == gjson.String:
		return value.Str == ""
	default:
		return false
	}
}
