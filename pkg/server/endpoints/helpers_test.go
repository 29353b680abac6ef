package endpoints

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/petition-in-go/pkg/auth"
	"github.com/doodlesbykumbi/petition-in-go/pkg/credential"
	"github.com/doodlesbykumbi/petition-in-go/pkg/listing"
	"github.com/doodlesbykumbi/petition-in-go/pkg/model"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/store"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/store/mocks"
	"github.com/doodlesbykumbi/petition-in-go/pkg/session"
	"github.com/doodlesbykumbi/petition-in-go/pkg/views"
)

const (
	testBaseURL  = "http://petition.test"
	testPassword = "correct-horse"
)

var (
	hashOnce  sync.Once
	adminHash string
)

func passwordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		var err error
		adminHash, err = credential.HashPassword(testPassword)
		require.NoError(t, err)
	})
	return adminHash
}

// signatureSpy is an in-memory SignaturesStore that counts Delete calls
type signatureSpy struct {
	mu          sync.Mutex
	records     []model.Signature
	nextID      uint
	deleteCalls int
	countErr    error
	block       bool
}

var _ store.SignaturesStore = (*signatureSpy)(nil)

func newSignatureSpy(n int) *signatureSpy {
	s := &signatureSpy{nextID: 1}
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		s.records = append(s.records, model.Signature{
			ID:         s.nextID,
			Name:       fmt.Sprintf("Signer %d", s.nextID),
			NationalID: fmt.Sprintf("%010d", s.nextID),
			CreatedAt:  start.Add(time.Duration(i) * time.Minute),
		})
		s.nextID++
	}
	return s
}

func (s *signatureSpy) Count(ctx context.Context) (int64, error) {
	if s.block {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countErr != nil {
		return 0, s.countErr
	}
	return int64(len(s.records)), nil
}

func (s *signatureSpy) List(ctx context.Context, offset, limit int) ([]model.Signature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if offset >= len(s.records) {
		return nil, nil
	}
	end := min(offset+limit, len(s.records))
	return append([]model.Signature(nil), s.records[offset:end]...), nil
}

func (s *signatureSpy) Create(ctx context.Context, signature *model.Signature) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.NationalID == signature.NationalID {
			return store.ErrDuplicate
		}
	}
	signature.ID = s.nextID
	signature.CreatedAt = time.Now()
	s.nextID++
	s.records = append(s.records, *signature)
	return nil
}

func (s *signatureSpy) Delete(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	return nil
}

func (s *signatureSpy) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *signatureSpy) deletes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteCalls
}

type testServer struct {
	server     *server.Server
	handler    http.Handler
	principals *mocks.MockPrincipalsStore
	signatures *signatureSpy
	health     *mocks.MockHealthStore
	sessions   *session.MemoryStore

	mu    sync.Mutex
	clock time.Time
}

type testOption func(*server.Options)

func withRequestTimeout(d time.Duration) testOption {
	return func(o *server.Options) {
		o.RequestTimeout = d
	}
}

// newTestServer builds the full handler stack over in-memory stores with
// one administrator, "admin", and n signatures.
func newTestServer(t *testing.T, n int, opts ...testOption) *testServer {
	t.Helper()

	ts := &testServer{
		principals: mocks.NewMockPrincipalsStore(),
		signatures: newSignatureSpy(n),
		health:     mocks.NewMockHealthStore(),
		clock:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	ts.sessions = session.NewMemoryStore(session.DefaultTTL, session.WithClock(ts.now))

	admin := &model.Principal{ID: 1, Username: "admin", PasswordHash: passwordHash(t), IsAdmin: true}
	ts.principals.On("FindByUsername", mock.Anything, "admin").Return(admin, nil)
	ts.principals.On("FindByUsername", mock.Anything, mock.Anything).Return(nil, store.ErrNotFound)
	ts.principals.On("FindByID", mock.Anything, uint(1)).Return(admin, nil)

	credentials, err := credential.NewStore(ts.principals)
	require.NoError(t, err)
	gate := auth.NewGate(credentials, ts.principals, ts.sessions)
	lister, err := listing.NewLister(ts.signatures, testBaseURL)
	require.NoError(t, err)
	renderer, err := views.New()
	require.NoError(t, err)

	options := server.Options{
		Addr:             "127.0.0.1:0",
		Gate:             gate,
		Deletion:         auth.NewDeletionGate(gate, ts.signatures),
		Lister:           lister,
		Signatures:       ts.signatures,
		Health:           ts.health,
		Views:            renderer,
		Cookies:          middleware.NewCookies([]byte("0123456789abcdef0123456789abcdef"), false, session.DefaultTTL),
		RequestTimeout:   5 * time.Second,
		ListLimitDefault: listing.DefaultLimit,
		ListLimitMax:     listing.MaxLimit,
	}
	for _, opt := range opts {
		opt(&options)
	}

	ts.server = server.NewServer(options)
	RegisterAll(ts.server)
	ts.handler = ts.server.Handler()
	return ts
}

func (ts *testServer) now() time.Time {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.clock
}

func (ts *testServer) advance(d time.Duration) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.clock = ts.clock.Add(d)
}

// browser keeps the session cookie between requests like a user agent
type browser struct {
	t      *testing.T
	ts     *testServer
	cookie *http.Cookie
	header http.Header
}

func (ts *testServer) browser(t *testing.T) *browser {
	return &browser{t: t, ts: ts, header: http.Header{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for k, v := range b.header {
		req.Header[k] = v
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}

	w := httptest.NewRecorder()
	b.ts.handler.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name != middleware.SessionCookieName {
			continue
		}
		if c.MaxAge < 0 {
			b.cookie = nil
		} else {
			b.cookie = c
		}
	}
	return w
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	b.t.Helper()
	return b.do(httptest.NewRequest("GET", target, nil))
}

func (b *browser) post(target string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) login(password string) *httptest.ResponseRecorder {
	b.t.Helper()
	return b.post("/login", url.Values{"username": {"admin"}, "password": {password}})
}
