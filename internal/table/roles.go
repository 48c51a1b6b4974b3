package table

import "strings"

var (
	latitudeKeywords  = []string{"latitude", "lat", "y", "ycoord", "northing", "lat1", "lat2"}
	longitudeKeywords = []string{"longitude", "lon", "x", "xcoord", "easting", "lon1", "lon2"}
	nameKeywords      = []string{"name", "nama", "title", "label"}
	groupKeywords     = []string{"sto", "group", "site", "area", "region", "cluster"}
)

// Roles holds suggested column names for each semantic role.
// An empty Group means no grouping.
type Roles struct {
	Lat   string `json:"lat"`
	Lon   string `json:"lon"`
	Name  string `json:"name"`
	Group string `json:"group,omitempty"`
}

// SuggestCoordinates guesses the latitude and longitude columns.
// Without a keyword match latitude falls back to the first column and
// longitude to the second, or the first when there is only one.
func SuggestCoordinates(columns []string) (lat, lon string) {
	if len(columns) == 0 {
		return "", ""
	}

	lat = firstMatch(columns, latitudeKeywords)
	if lat == "" {
		lat = columns[0]
	}

	lon = firstMatch(columns, longitudeKeywords)
	if lon == "" {
		lon = columns[0]
		if len(columns) > 1 {
			lon = columns[1]
		}
	}

	return lat, lon
}

// SuggestRoles extends SuggestCoordinates with name and group guesses.
func SuggestRoles(columns []string) Roles {
	var r Roles
	r.Lat, r.Lon = SuggestCoordinates(columns)

	r.Name = firstMatch(columns, nameKeywords)
	if r.Name == "" && len(columns) > 0 {
		r.Name = columns[0]
	}
	r.Group = firstMatch(columns, groupKeywords)

	return r
}

// firstMatch returns the first column whose lower-cased name contains any keyword.
func firstMatch(columns, keywords []string) string {
	for _, col := range columns {
		lc := strings.ToLower(col)
		for _, k := range keywords {
			if strings.Contains(lc, k) {
				return col
			}
		}
	}
	return ""
}
