package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	httpapi "github.com/aussiebroadwan/quizdesk/internal/http"
	"github.com/aussiebroadwan/quizdesk/internal/service"
	"github.com/aussiebroadwan/quizdesk/internal/store"
	"github.com/aussiebroadwan/quizdesk/internal/store/drivers/sqlite"
	"github.com/aussiebroadwan/quizdesk/internal/verifier"
	"github.com/aussiebroadwan/quizdesk/pkg/cryptox"
	"github.com/aussiebroadwan/quizdesk/pkg/slogx"
	"github.com/stretchr/testify/require"
)

var cheapParams = cryptox.Params{Memory: 64, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

type services struct {
	store     store.Store
	identity  *service.IdentityService
	questions *service.QuestionService
	grader    *service.GraderService
	ledger    *service.LedgerService
}

func newServices(t *testing.T) services {
	t.Helper()

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "http.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	return services{
		store: st,
		identity: &service.IdentityService{
			Store:    st,
			Hasher:   cryptox.NewHasher("pepper", 4, cheapParams),
			TokenTTL: service.DefaultTokenTTL,
		},
		questions: &service.QuestionService{Store: st},
		grader:    &service.GraderService{Store: st},
		ledger:    &service.LedgerService{Store: st},
	}
}

func newAuthServer(t *testing.T, s services) *httptest.Server {
	t.Helper()
	r := httpapi.NewRouter(s.store, "test", slogx.Discard())
	r.IdentityService = s.identity
	r.ApplyRoutes()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newQuizServer(t *testing.T, s services, v verifier.Verifier) *httptest.Server {
	t.Helper()
	r := httpapi.NewRouter(s.store, "test", slogx.Discard())
	r.Verifier = v
	r.QuestionService = s.questions
	r.GraderService = s.grader
	r.ApplyRoutes()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newUsersServer(t *testing.T, s services, v verifier.Verifier) *httptest.Server {
	t.Helper()
	r := httpapi.NewRouter(s.store, "test", slogx.Discard())
	r.Verifier = v
	r.LedgerService = s.ledger
	r.ApplyRoutes()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// call sends body (JSON-encoded unless it is a string) and decodes the
// response into out when out is non-nil.
func call(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		buf, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, url, rdr)
	require.NoError(t, err)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}
