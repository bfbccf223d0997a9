package translate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/mithrel/hinglish/internal/cache"
	"github.com/mithrel/hinglish/internal/gemini"
	"github.com/mithrel/hinglish/internal/keys"
	"github.com/mithrel/hinglish/internal/metrics"
	"github.com/mithrel/hinglish/pkg/api"
)

type fakeModel struct {
	mu      sync.Mutex
	out     string
	err     error
	calls   int
	apiKey  string
	system  string
	prompts []string
}

func (f *fakeModel) Generate(ctx context.Context, apiKey, system, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.apiKey, f.system = apiKey, system
	f.prompts = append(f.prompts, prompt)
	return f.out, f.err
}

func (f *fakeModel) Model() string { return "fake-model" }

type fixture struct {
	svc   *Service
	model *fakeModel
	store cache.Store
	keys  keys.KeyStore
	m     *metrics.Metrics
	now   time.Time
}

func newFixture(t *testing.T, withKey bool) *fixture {
	t.Helper()
	keyring.MockInit()
	ks := &keys.KeyringStore{Service: "hinglish-test"}
	if withKey {
		require.NoError(t, ks.Put(keys.APIKeyName, "secret"))
	} else {
		require.NoError(t, ks.Delete(keys.APIKeyName))
	}
	store, err := cache.Open(context.Background(), "memory://")
	require.NoError(t, err)
	f := &fixture{
		model: &fakeModel{out: "**Diya gaya** array"},
		store: store,
		keys:  ks,
		m:     metrics.New(),
		now:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = New(Options{
		Keys:    ks,
		Model:   f.model,
		Cache:   store,
		TTL:     time.Hour,
		Metrics: f.m,
		Now:     func() time.Time { return f.now },
	})
	return f
}

func TestTranslateMissingKey(t *testing.T) {
	f := newFixture(t, false)
	resp := f.svc.Handle(context.Background(), api.Request{Action: api.ActionTranslate, Text: "x"})
	assert.Equal(t, `[Info] API Key missing! Run "hinglish key set" to save and validate your key.`, resp.Result)
	assert.Zero(t, f.model.calls)
}

func TestTranslateSuccessAndCache(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	req := api.Request{Action: api.ActionTranslate, Text: "<p>Given an array</p>"}

	resp := f.svc.Handle(ctx, req)
	assert.Equal(t, "**Diya gaya** array", resp.Result)
	assert.Equal(t, "<p><strong>Diya gaya</strong> array</p>", resp.HTML)
	assert.False(t, resp.Cached)
	assert.Equal(t, "secret", f.model.apiKey)
	assert.Contains(t, f.model.system, "into Hinglish")
	assert.Equal(t, []string{"<p>Given an array</p>"}, f.model.prompts)

	resp = f.svc.Handle(ctx, req)
	assert.True(t, resp.Cached)
	assert.Equal(t, "**Diya gaya** array", resp.Result)
	assert.Equal(t, 1, f.model.calls)
	assert.InDelta(t, 1, testutil.ToFloat64(f.m.CacheLookups.WithLabelValues("hit")), 0)

	req.NoCache = true
	f.svc.Handle(ctx, req)
	assert.Equal(t, 2, f.model.calls)
	assert.InDelta(t, 3, testutil.ToFloat64(f.m.Messages.WithLabelValues(api.ActionTranslate, metrics.OutcomeOK)), 0)
}

func TestTranslateStaleCacheEntryIsRefreshed(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	req := api.Request{Action: api.ActionTranslate, Text: "text"}
	f.svc.Handle(ctx, req)

	f.now = f.now.Add(2 * time.Hour)
	resp := f.svc.Handle(ctx, req)
	assert.False(t, resp.Cached)
	assert.Equal(t, 2, f.model.calls)
	assert.InDelta(t, 1, testutil.ToFloat64(f.m.CacheLookups.WithLabelValues("stale")), 0)
}

func TestTranslateLanguage(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	f.svc.Handle(ctx, api.Request{Action: api.ActionTranslate, Text: "x", Language: "tanglish"})
	assert.Contains(t, f.model.system, "into Tanglish")

	// Different language is a different cache key.
	f.svc.Handle(ctx, api.Request{Action: api.ActionTranslate, Text: "x"})
	assert.Equal(t, 2, f.model.calls)

	resp := f.svc.Handle(ctx, api.Request{Action: api.ActionTranslate, Text: "x", Language: "Klingon"})
	assert.True(t, api.IsError(resp.Result))
	assert.Equal(t, 2, f.model.calls)
}

func TestTranslateErrorNotices(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"Unauthorized", gemini.ErrUnauthorized, `(Error) API Key Invalid or Unauthorized. Please check your key with "hinglish key set".`},
		{"APIError", &gemini.APIError{Status: 500, Message: "Internal"}, "(Error) API Error (500): Internal"},
		{"APIErrorNoMessage", &gemini.APIError{Status: 429}, "(Error) API Error (429): Unknown error."},
		{"NoCandidate", gemini.ErrNoCandidate, "[Info] No explanation received."},
		{"Network", errors.New("dial tcp: connection refused"), "(Error) Network or unexpected error calling Gemini API."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, true)
			f.model.err = tc.err
			resp := f.svc.Handle(context.Background(), api.Request{Action: api.ActionTranslate, Text: "x"})
			assert.Equal(t, tc.want, resp.Result)
			assert.Empty(t, resp.HTML)

			st, err := f.store.Stats(context.Background())
			require.NoError(t, err)
			assert.Zero(t, st.Entries, "failures are not cached")
		})
	}
}

func TestTranslateNoticeFromModelIsNotCached(t *testing.T) {
	f := newFixture(t, true)
	f.model.out = "(Error) I cannot do that"
	f.svc.Handle(context.Background(), api.Request{Action: api.ActionTranslate, Text: "x"})
	st, err := f.store.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, st.Entries)
}

func TestTranslateEmptyText(t *testing.T) {
	f := newFixture(t, true)
	resp := f.svc.Handle(context.Background(), api.Request{Action: api.ActionTranslate, Text: "  "})
	assert.Equal(t, "[Info] No problem text to translate.", resp.Result)
	assert.Zero(t, f.model.calls)
}

func TestRender(t *testing.T) {
	f := newFixture(t, false)
	resp := f.svc.Handle(context.Background(), api.Request{Action: api.ActionRender, Text: "# T"})
	assert.Equal(t, "<h1>T</h1>", resp.Result)
	assert.Equal(t, resp.Result, resp.HTML)
}

func TestStatus(t *testing.T) {
	f := newFixture(t, false)
	resp := f.svc.Handle(context.Background(), api.Request{Action: api.ActionStatus})
	assert.Equal(t, `[Info] API Key Missing! Run "hinglish key set" to set it up.`, resp.Result)
	assert.False(t, f.svc.HasKey())

	require.NoError(t, f.keys.Put(keys.APIKeyName, "k"))
	resp = f.svc.Handle(context.Background(), api.Request{Action: api.ActionStatus})
	assert.Equal(t, "API Key is set.", resp.Result)
}

func TestUnknownAction(t *testing.T) {
	f := newFixture(t, true)
	resp := f.svc.Handle(context.Background(), api.Request{Action: "explode"})
	assert.Equal(t, `(Error) Unknown action "explode".`, resp.Result)
	assert.InDelta(t, 1, testutil.ToFloat64(f.m.Messages.WithLabelValues("unknown", metrics.OutcomeError)), 0)
}
