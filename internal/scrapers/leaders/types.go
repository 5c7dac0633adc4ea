package leaders

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"
)

// Token is the session cookie set handed out by the cookie endpoint.
type Token struct {
	Cookies    []*http.Cookie
	AcquiredAt time.Time
}

func (t Token) Empty() bool {
	return len(t.Cookies) == 0
}

// CountryNames maps country codes to display names.
type CountryNames map[string]string

func DefaultCountryNames() CountryNames {
	return CountryNames{
		"us": "United States",
		"be": "Belgium",
		"fr": "France",
		"ma": "Morocco",
		"ru": "Russia",
	}
}

// Name returns the display name for a code, or the code itself if it is unknown.
func (n CountryNames) Name(code string) string {
	name, ok := n[code]
	if !ok {
		return code
	}
	return name
}

// CodeFor is the reverse of Name, it returns the first code (in sorted order)
// whose display name is `name`, ignoring case.
func (n CountryNames) CodeFor(name string) (string, bool) {
	codes := make([]string, 0, len(n))
	for code := range n {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	for _, code := range codes {
		if strings.EqualFold(n[code], name) {
			return code, true
		}
	}
	return "", false
}

type Country struct {
	Code string
	Name string
}

type Leader struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	WikipediaUrl string `json:"wikipedia_url"`
}

func (l Leader) FullName() string {
	return fmt.Sprintf("%s %s", l.FirstName, l.LastName)
}

// Record is a leader keyed by a name that is unique within its batch.
type Record struct {
	Key string
	Url string
}

// Disambiguate keys each leader by "First Last", a key that was already
// taken in the batch gets the smallest free "_N" suffix starting at 1.
func Disambiguate(leaders []Leader) []Record {
	taken := make(map[string]struct{}, len(leaders))
	records := make([]Record, 0, len(leaders))
	for _, l := range leaders {
		key := l.FullName()
		if _, exists := taken[key]; exists {
			i := 1
			for {
				candidate := fmt.Sprintf("%s_%d", key, i)
				if _, exists := taken[candidate]; !exists {
					key = candidate
					break
				}
				i++
			}
		}
		taken[key] = struct{}{}
		records = append(records, Record{Key: key, Url: l.WikipediaUrl})
	}
	return records
}
