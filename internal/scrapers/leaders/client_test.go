package leaders

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"leaders-scraper/internal/components/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestRefresh(t *testing.T) {
	api := &fakeApi{}
	client, _ := newTestClient(t, api)
	session := client.Session()

	require.Equal(t, SESSION_UNAUTHENTICATED, session.State())
	require.NoError(t, session.Refresh(context.Background()))
	require.Equal(t, SESSION_AUTHENTICATED, session.State())
	require.Len(t, session.Token().Cookies, 1)
	require.Equal(t, "token-1", session.Token().Cookies[0].Value)
}

func TestRefreshFailureKeepsToken(t *testing.T) {
	api := &fakeApi{}
	client, rec := newTestClient(t, api)
	session := client.Session()

	require.NoError(t, session.Refresh(context.Background()))
	previous := session.Token()

	api.set(func(f *fakeApi) { f.cookieStatus = http.StatusInternalServerError })
	err := session.Refresh(context.Background())
	require.ErrorIs(t, err, ErrConnection)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusInternalServerError, statusErr.Status)

	require.Equal(t, previous, session.Token())
	require.True(t, rec.Has(telemetry.REPORT_WARNING, report_session_refresh))
}

func TestCountries(t *testing.T) {
	api := &fakeApi{countries: []string{"us", "be", "fr", "ma", "ru", "xx", "be"}}
	client, _ := newTestClient(t, api)

	countries, err := client.Countries(context.Background())
	require.NoError(t, err)

	expected := []Country{
		{Code: "us", Name: "United States"},
		{Code: "be", Name: "Belgium"},
		{Code: "fr", Name: "France"},
		{Code: "ma", Name: "Morocco"},
		{Code: "ru", Name: "Russia"},
		{Code: "xx", Name: "xx"},
	}
	if diff := cmp.Diff(expected, countries); diff != "" {
		t.Fatal(diff)
	}
	// the token is acquired lazily before the first request
	cookieCalls, _ := api.calls()
	require.Equal(t, 1, cookieCalls)
}

func TestCountriesRetriesWithRefreshedToken(t *testing.T) {
	api := &fakeApi{countries: []string{"be"}}
	client, _ := newTestClient(t, api)
	require.NoError(t, client.Session().Refresh(context.Background()))

	api.set(func(f *fakeApi) { f.reject = 1 })
	countries, err := client.Countries(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Country{{Code: "be", Name: "Belgium"}}, countries)

	cookieCalls, dataCalls := api.calls()
	require.Equal(t, 2, cookieCalls)
	require.Equal(t, 2, dataCalls)
	require.Equal(t, []string{"token-1", "token-2"}, api.sentCookies())
	require.Equal(t, SESSION_AUTHENTICATED, client.Session().State())
}

func TestCountriesTerminalAfterOneRetry(t *testing.T) {
	api := &fakeApi{countries: []string{"be"}, reject: 2}
	client, rec := newTestClient(t, api)

	_, err := client.Countries(context.Background())
	require.ErrorIs(t, err, ErrCountriesFetch)
	require.ErrorIs(t, err, ErrRejected)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusForbidden, statusErr.Status)

	_, dataCalls := api.calls()
	require.Equal(t, 2, dataCalls)
	require.Equal(t, SESSION_UNAUTHENTICATED, client.Session().State())
	require.True(t, rec.Has(telemetry.REPORT_BROKEN, report_client_countries))
}

func TestCountriesSurvivesRefusedCookie(t *testing.T) {
	api := &fakeApi{countries: []string{"be"}, cookieStatus: http.StatusServiceUnavailable}
	client, _ := newTestClient(t, api)

	_, err := client.Countries(context.Background())
	require.ErrorIs(t, err, ErrCountriesFetch)
	require.NotErrorIs(t, err, ErrConnection)
	_, dataCalls := api.calls()
	require.Equal(t, 2, dataCalls)
}

func TestLeaders(t *testing.T) {
	api := &fakeApi{leaders: map[string][]Leader{
		"be": {
			{FirstName: "John", LastName: "Smith", WikipediaUrl: "https://en.wikipedia.org/wiki/1"},
			{FirstName: "Jane", LastName: "Doe", WikipediaUrl: "https://en.wikipedia.org/wiki/2"},
			{FirstName: "John", LastName: "Smith", WikipediaUrl: "https://en.wikipedia.org/wiki/3"},
		},
	}}
	client, _ := newTestClient(t, api)

	records, err := client.Leaders(context.Background(), "be")
	require.NoError(t, err)

	expected := []Record{
		{Key: "John Smith", Url: "https://en.wikipedia.org/wiki/1"},
		{Key: "Jane Doe", Url: "https://en.wikipedia.org/wiki/2"},
		{Key: "John Smith_1", Url: "https://en.wikipedia.org/wiki/3"},
	}
	if diff := cmp.Diff(expected, records); diff != "" {
		t.Fatal(diff)
	}

	records, err = client.Leaders(context.Background(), "fr")
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestLeadersRetry(t *testing.T) {
	api := &fakeApi{leaders: map[string][]Leader{
		"fr": {{FirstName: "A", LastName: "B", WikipediaUrl: "http://x"}},
	}}
	client, _ := newTestClient(t, api)

	api.set(func(f *fakeApi) { f.reject = 1 })
	records, err := client.Leaders(context.Background(), "fr")
	require.NoError(t, err)
	require.Equal(t, []Record{{Key: "A B", Url: "http://x"}}, records)

	api.set(func(f *fakeApi) { f.reject = 2 })
	_, err = client.Leaders(context.Background(), "fr")
	require.ErrorIs(t, err, ErrLeadersFetch)
}
