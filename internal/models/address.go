package models

// AddressRecord is one caller-supplied row of an address collection.
type AddressRecord struct {
	Street string            // Street is the street line, including the house number.
	City   string            // City is the city or place name.
	State  string            // State is the state name or postal abbreviation.
	Zip    string            // Zip is the postal code.
	Extra  map[string]string // Extra holds every other column of the row, untouched.
}

// ColumnRoles names the caller's columns that carry the four address parts.
type ColumnRoles struct {
	Street string `mapstructure:"street"`
	City   string `mapstructure:"city"`
	State  string `mapstructure:"state"`
	Zip    string `mapstructure:"zip"`
}

// AddressComponents is the flattened form of a census matched address.
type AddressComponents struct {
	FullAddress     string `json:"fullAddress"`
	FromAddress     string `json:"fromAddress"`
	ToAddress       string `json:"toAddress"`
	PreType         string `json:"preType"`
	PreDirection    string `json:"preDirection"`
	StreetName      string `json:"streetName"`
	SuffixType      string `json:"suffixType"`
	SuffixDirection string `json:"suffixDirection"`
	SuffixQualifier string `json:"suffixQualifier"`
	City            string `json:"city"`
	State           string `json:"state"`
	Zip             string `json:"zip"`
}

// Map returns the components as a flat field name to value mapping.
func (ac AddressComponents) Map() map[string]string {
	return map[string]string{
		"fullAddress":     ac.FullAddress,
		"fromAddress":     ac.FromAddress,
		"toAddress":       ac.ToAddress,
		"preType":         ac.PreType,
		"preDirection":    ac.PreDirection,
		"streetName":      ac.StreetName,
		"suffixType":      ac.SuffixType,
		"suffixDirection": ac.SuffixDirection,
		"suffixQualifier": ac.SuffixQualifier,
		"city":            ac.City,
		"state":           ac.State,
		"zip":             ac.Zip,
	}
}
