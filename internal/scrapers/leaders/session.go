package leaders

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"leaders-scraper/internal/components/telemetry"

	"github.com/go-resty/resty/v2"
)

const (
	report_session_refresh = "session.refresh"
	report_session_get     = "session.get"
)

const statusCodesHelp = "https://en.wikipedia.org/wiki/List_of_HTTP_status_codes"

type SessionState int

const (
	SESSION_UNAUTHENTICATED SessionState = iota
	SESSION_AUTHENTICATED
)

func (s SessionState) String() string {
	switch s {
	case SESSION_AUTHENTICATED:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// a rejected request is retried at most this many times, each retry is
// preceded by a token refresh.
const maxRetries = 1

// Session owns the cookie token and attaches it to every request made through
// Get.
type Session struct {
	http           *resty.Client
	cookieEndpoint string
	token          Token
	state          SessionState
	tel            telemetry.API
}

func newSession(http *resty.Client, cookieEndpoint string, tel telemetry.API) *Session {
	return &Session{
		http:           http,
		cookieEndpoint: cookieEndpoint,
		state:          SESSION_UNAUTHENTICATED,
		tel:            tel,
	}
}

func (s *Session) State() SessionState {
	return s.state
}

func (s *Session) Token() Token {
	return s.token
}

// Refresh requests a new token from the cookie endpoint. If the endpoint does
// not respond with 200 the previous token is kept and an error wrapping
// ErrConnection is returned.
func (s *Session) Refresh(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Session.Refresh")
	defer span.End()

	res, err := s.http.R().
		SetContext(ctx).
		Get(s.cookieEndpoint)
	if err != nil {
		s.tel.ReportBroken(
			report_session_refresh,
			fmt.Errorf("fetch: %w", err),
		)
		return err
	}

	if res.StatusCode() != http.StatusOK {
		s.tel.ReportWarning(
			report_session_refresh,
			fmt.Sprintf("connection failed with status code %d, for further explanation see %s", res.StatusCode(), statusCodesHelp),
		)
		return &StatusError{
			Url:    res.Request.URL,
			Status: res.StatusCode(),
			Err:    ErrConnection,
		}
	}

	s.token = Token{
		Cookies:    res.Cookies(),
		AcquiredAt: time.Now(),
	}
	s.state = SESSION_AUTHENTICATED
	s.tel.ReportDebug("connection to the server was successful", len(s.token.Cookies))
	return nil
}

// refreshTolerant refreshes the token, a refused cookie is not an error here
// since the request that follows will find out on its own.
func (s *Session) refreshTolerant(ctx context.Context) error {
	err := s.Refresh(ctx)
	if errors.Is(err, ErrConnection) {
		return nil
	}
	return err
}

// Get makes a GET request with the current token attached. A response that is
// not 200 moves the session back to unauthenticated, the token is refreshed and
// the request is retried with the new token. Once retries are exhausted an
// error wrapping ErrRejected is returned.
func (s *Session) Get(ctx context.Context, path string, query url.Values) (*resty.Response, error) {
	if s.token.Empty() {
		err := s.refreshTolerant(ctx)
		if err != nil {
			return nil, err
		}
	}

	var res *resty.Response
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			s.state = SESSION_UNAUTHENTICATED
			err := s.refreshTolerant(ctx)
			if err != nil {
				return nil, err
			}
		}

		req := s.http.R().
			SetContext(ctx).
			SetCookies(s.token.Cookies)
		if query != nil {
			req.SetQueryParamsFromValues(query)
		}

		var err error
		res, err = req.Get(path)
		if err != nil {
			s.tel.ReportBroken(
				report_session_get,
				fmt.Errorf("fetch: %w", err),
				path,
			)
			return nil, err
		}
		if res.StatusCode() == http.StatusOK {
			return res, nil
		}

		s.tel.ReportWarning(
			report_session_get,
			fmt.Errorf("rejected with status %d", res.StatusCode()),
			path,
			attempt,
			res.String(),
		)
	}

	s.state = SESSION_UNAUTHENTICATED
	return nil, &StatusError{
		Url:    res.Request.URL,
		Status: res.StatusCode(),
		Err:    ErrRejected,
	}
}
