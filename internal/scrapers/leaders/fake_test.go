package leaders

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"leaders-scraper/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

// fakeApi imitates the country leaders api, every cookie request hands out a
// new cookie and only the latest one is accepted.
type fakeApi struct {
	lock sync.Mutex

	countries []string
	leaders   map[string][]Leader

	cookieStatus int
	// number of upcoming data requests to reject regardless of the cookie
	reject int

	issued        int
	cookieCalls   int
	dataCalls     int
	cookiesOnData []string
}

func (f *fakeApi) currentCookie() string {
	return fmt.Sprintf("token-%d", f.issued)
}

func (f *fakeApi) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if r.URL.Path == "/cookie/" {
		f.cookieCalls++
		if f.cookieStatus != 0 && f.cookieStatus != http.StatusOK {
			w.WriteHeader(f.cookieStatus)
			return
		}
		f.issued++
		http.SetCookie(w, &http.Cookie{Name: "user_cookie", Value: f.currentCookie()})
		w.WriteHeader(http.StatusOK)
		return
	}

	f.dataCalls++
	cookie, err := r.Cookie("user_cookie")
	value := ""
	if err == nil {
		value = cookie.Value
	}
	f.cookiesOnData = append(f.cookiesOnData, value)

	if f.reject > 0 {
		f.reject--
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "The cookie has expired"}`))
		return
	}
	if value == "" || value != f.currentCookie() {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "The cookie is missing"}`))
		return
	}

	w.Header().Set("content-type", "application/json")
	switch r.URL.Path {
	case "/countries/":
		json.NewEncoder(w).Encode(f.countries)
	case "/leaders/":
		json.NewEncoder(w).Encode(f.leaders[r.URL.Query().Get("country")])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeApi) calls() (cookie int, data int) {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.cookieCalls, f.dataCalls
}

func (f *fakeApi) sentCookies() []string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]string(nil), f.cookiesOnData...)
}

func (f *fakeApi) set(fn func(f *fakeApi)) {
	f.lock.Lock()
	defer f.lock.Unlock()
	fn(f)
}

func newTestClient(t testing.TB, api *fakeApi) (*Client, *telemetry.Recorder) {
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	rec := &telemetry.Recorder{}
	client, err := NewClient(ClientOptions{
		BaseUrl:           server.URL + "/",
		CookieEndpoint:    "cookie/",
		CountriesEndpoint: "countries/",
		LeadersEndpoint:   "leaders/",
		CountryNames:      DefaultCountryNames(),
	}, rec)
	require.NoError(t, err)
	return client, rec
}
