// Package translate answers {action, text} messages: it owns the API key
// lookup, the translation cache and the language model call, and turns
// every failure into a notice string the page side can show.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mithrel/hinglish/internal/cache"
	"github.com/mithrel/hinglish/internal/config"
	"github.com/mithrel/hinglish/internal/gemini"
	"github.com/mithrel/hinglish/internal/keys"
	"github.com/mithrel/hinglish/internal/metrics"
	"github.com/mithrel/hinglish/internal/page"
	"github.com/mithrel/hinglish/internal/render"
	"github.com/mithrel/hinglish/pkg/api"
)

// Notice texts, without their prefixes.
const (
	msgKeyMissing    = `API Key missing! Run "hinglish key set" to save and validate your key.`
	msgKeyMissingAlt = `API Key Missing! Run "hinglish key set" to set it up.`
	msgKeySet        = "API Key is set."
	msgUnauthorized  = `API Key Invalid or Unauthorized. Please check your key with "hinglish key set".`
	msgNoExplanation = "No explanation received."
	msgNetwork       = "Network or unexpected error calling Gemini API."
	msgNoText        = "No problem text to translate."
	msgUnknownError  = "Unknown error."
)

// Generator is the language model used for translation.
type Generator interface {
	Generate(ctx context.Context, apiKey, system, prompt string) (string, error)
	Model() string
}

type Options struct {
	Keys     keys.KeyStore
	Model    Generator
	Cache    cache.Store // nil disables caching
	TTL      time.Duration
	Language string
	Sanitize bool
	Metrics  *metrics.Metrics
	Log      *zap.Logger
	Now      func() time.Time
}

type Service struct {
	opts Options
}

func New(opts Options) *Service {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if strings.TrimSpace(opts.Language) == "" {
		opts.Language = config.DefaultLanguage
	}
	return &Service{opts: opts}
}

// Handle dispatches one message. It never returns an error: failures are
// reported as (Error)/[Info] results.
func (s *Service) Handle(ctx context.Context, req api.Request) api.Response {
	var resp api.Response
	switch req.Action {
	case api.ActionTranslate:
		resp = s.translate(ctx, req)
	case api.ActionRender:
		html := s.html(req.Text)
		resp = api.Response{Result: html, HTML: html}
	case api.ActionStatus:
		resp = s.status()
	default:
		resp = api.ErrorResult(fmt.Sprintf("Unknown action %q.", req.Action))
	}
	s.opts.Metrics.Messages.WithLabelValues(actionLabel(req.Action), outcome(resp.Result)).Inc()
	return resp
}

// HasKey reports whether an API key is stored.
func (s *Service) HasKey() bool {
	_, err := s.opts.Keys.Get(keys.APIKeyName)
	return err == nil
}

func (s *Service) status() api.Response {
	if s.HasKey() {
		return api.Response{Result: msgKeySet}
	}
	return api.InfoResult(msgKeyMissingAlt)
}

func (s *Service) translate(ctx context.Context, req api.Request) api.Response {
	log := s.opts.Log.With(zap.String("action", req.Action))

	apiKey, err := s.opts.Keys.Get(keys.APIKeyName)
	if err != nil {
		if !errors.Is(err, keys.ErrKeyNotFound) {
			log.Warn("read api key", zap.Error(err))
		}
		return api.InfoResult(msgKeyMissing)
	}
	if strings.TrimSpace(req.Text) == "" {
		return api.InfoResult(msgNoText)
	}

	lang := s.opts.Language
	if req.Language != "" {
		if lang, err = config.ResolveLanguage(req.Language); err != nil {
			return api.ErrorResult(err.Error())
		}
	}
	key := api.TranslationKey{Model: s.opts.Model.Model(), Language: lang, Text: req.Text}.Hash()

	if s.opts.Cache != nil && !req.NoCache {
		e, err := s.opts.Cache.Get(ctx, key)
		switch {
		case err == nil && cache.Fresh(e, s.opts.TTL, s.opts.Now()):
			s.opts.Metrics.CacheLookups.WithLabelValues("hit").Inc()
			log.Debug("cache hit", zap.String("key", key[:12]))
			return api.Response{Result: e.Result, HTML: s.html(e.Result), Cached: true}
		case err == nil:
			s.opts.Metrics.CacheLookups.WithLabelValues("stale").Inc()
		case errors.Is(err, cache.ErrNotFound):
			s.opts.Metrics.CacheLookups.WithLabelValues("miss").Inc()
		default:
			s.opts.Metrics.CacheLookups.WithLabelValues("error").Inc()
			log.Warn("cache lookup", zap.Error(err))
		}
	}

	start := s.opts.Now()
	out, err := s.opts.Model.Generate(ctx, apiKey, gemini.SystemInstruction(lang), req.Text)
	took := s.opts.Now().Sub(start)
	if err != nil {
		s.opts.Metrics.ModelDuration.WithLabelValues(metrics.OutcomeError).Observe(took.Seconds())
		log.Warn("translation failed", zap.Error(err), zap.Duration("took", took))
		return notice(err)
	}
	s.opts.Metrics.ModelDuration.WithLabelValues(metrics.OutcomeOK).Observe(took.Seconds())
	log.Info("translated", zap.String("language", lang), zap.Int("chars", len(req.Text)), zap.Duration("took", took))

	if s.opts.Cache != nil && !api.IsNotice(out) {
		e := cache.Entry{Key: key, Model: s.opts.Model.Model(), Language: lang, Result: out, CreatedAt: s.opts.Now()}
		if err := s.opts.Cache.Put(ctx, e); err != nil {
			log.Warn("cache store", zap.Error(err))
		}
	}
	return api.Response{Result: out, HTML: s.html(out)}
}

func (s *Service) html(md string) string {
	out := render.Markdown(md)
	if s.opts.Sanitize {
		out = page.Sanitize(out)
	}
	return out
}

// notice maps a model error onto the reply shown to the user.
func notice(err error) api.Response {
	var apiErr *gemini.APIError
	switch {
	case errors.Is(err, gemini.ErrUnauthorized):
		return api.ErrorResult(msgUnauthorized)
	case errors.As(err, &apiErr):
		msg := apiErr.Message
		if msg == "" {
			msg = msgUnknownError
		}
		return api.ErrorResult(fmt.Sprintf("API Error (%d): %s", apiErr.Status, msg))
	case errors.Is(err, gemini.ErrNoCandidate):
		return api.InfoResult(msgNoExplanation)
	default:
		return api.ErrorResult(msgNetwork)
	}
}

func outcome(result string) string {
	switch {
	case api.IsError(result):
		return metrics.OutcomeError
	case api.IsNotice(result):
		return metrics.OutcomeInfo
	}
	return metrics.OutcomeOK
}

// actionLabel keeps the metric label set bounded.
func actionLabel(action string) string {
	switch action {
	case api.ActionTranslate, api.ActionRender, api.ActionStatus:
		return action
	}
	return "unknown"
}
