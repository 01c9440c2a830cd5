// Package classifier provides the stage that assigns taxonomy labels
// to extracted sections through a completion backend. Results are
// cached by content hash and calls are paced by a shared rate limiter,
// so repeated runs over the same corpus stay cheap.
package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/taxa-cli/internal/core/domain"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/taxa-cli/internal/logger"
	"github.com/custodia-labs/taxa-cli/internal/pipeline/sectioner"
	"github.com/custodia-labs/taxa-cli/internal/ratelimit"
)

// StageName is the name the classifier registers under.
const StageName = "classifier"

const (
	// defaultBackoffBase is the delay before the first retry. Each
	// further retry doubles it.
	defaultBackoffBase = 500 * time.Millisecond

	// defaultMaxTokens bounds the completion length. A label plus a
	// confidence fits comfortably.
	defaultMaxTokens = 96
)

// Stage classifies eligible sections of a document against a taxonomy.
// Sections are processed independently: one section failing all its
// attempts never blocks its siblings.
type Stage struct {
	completion  driven.CompletionService
	cache       driven.ClassificationCache
	limiter     *ratelimit.Limiter
	taxonomy    domain.Taxonomy
	prompts     driven.PromptStore
	maxRetries  int
	eligible    map[domain.SectionKind]struct{}
	backoffBase time.Duration
	maxTokens   int
}

var (
	_ driven.Stage            = (*Stage)(nil)
	_ driven.PromptStoreAware = (*Stage)(nil)
)

// Option configures a classifier stage.
type Option func(*Stage)

// WithMaxRetries sets how many times a failed completion attempt is
// retried. Zero disables retries entirely.
func WithMaxRetries(n int) Option {
	return func(s *Stage) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

// WithEligibleKinds restricts classification to the given section kinds.
func WithEligibleKinds(kinds []domain.SectionKind) Option {
	return func(s *Stage) {
		s.setEligible(kinds)
	}
}

// WithBackoffBase sets the delay before the first retry.
func WithBackoffBase(d time.Duration) Option {
	return func(s *Stage) {
		if d > 0 {
			s.backoffBase = d
		}
	}
}

// New creates a classifier stage. The cache may be nil to disable
// caching; a nil limiter falls back to the default rate.
func New(completion driven.CompletionService, cache driven.ClassificationCache, limiter *ratelimit.Limiter, taxonomy domain.Taxonomy, opts ...Option) *Stage {
	if limiter == nil {
		limiter = ratelimit.New(domain.RateLimitSettings{})
	}

	s := &Stage{
		completion:  completion,
		cache:       cache,
		limiter:     limiter,
		taxonomy:    taxonomy,
		maxRetries:  domain.DefaultMaxRetries,
		backoffBase: defaultBackoffBase,
		maxTokens:   defaultMaxTokens,
	}
	s.setEligible(domain.DefaultEligibleKinds())

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the stage name.
func (s *Stage) Name() string {
	return StageName
}

// Requires declares that sections must exist before classification.
func (s *Stage) Requires() []string {
	return []string{sectioner.StageName}
}

// SetPromptStore installs custom prompt templates. Without a store the
// compiled-in defaults are used.
func (s *Stage) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// Process classifies every eligible section of the document. The stage
// fails only when there were eligible sections and none of them could
// be classified; a document without eligible sections passes through
// untouched.
func (s *Stage) Process(ctx context.Context, doc *domain.Document) domain.StageResult {
	var eligible, classified, cacheHits, failed int
	var lastErr error

	for i := range doc.Sections {
		section := &doc.Sections[i]
		if !s.isEligible(section.Kind) {
			continue
		}
		eligible++

		fromCache, err := s.classifySection(ctx, doc, section)
		switch {
		case err != nil && ctx.Err() != nil:
			return domain.StageResult{
				Outcome: domain.OutcomeFailed,
				Error:   fmt.Sprintf("classification interrupted: %v", err),
			}
		case err != nil:
			failed++
			lastErr = err
		case fromCache:
			cacheHits++
			classified++
		default:
			classified++
		}
	}

	doc.SetStageMetadata(StageName, "eligible", strconv.Itoa(eligible))
	doc.SetStageMetadata(StageName, "sections_classified", strconv.Itoa(classified))
	doc.SetStageMetadata(StageName, "sections_failed", strconv.Itoa(failed))
	doc.SetStageMetadata(StageName, "cache_hits", strconv.Itoa(cacheHits))

	if eligible > 0 && classified == 0 {
		return domain.StageResult{
			Outcome: domain.OutcomeFailed,
			Error:   fmt.Sprintf("all %d eligible sections failed: %v", eligible, lastErr),
		}
	}
	return domain.StageResult{Outcome: domain.OutcomeOK}
}

// classifySection resolves one section, first from the cache and then
// from the completion backend with bounded retries. The returned bool
// reports a cache hit. A context error aborts immediately and is the
// only failure that leaves the section unrecorded.
func (s *Stage) classifySection(ctx context.Context, doc *domain.Document, section *domain.Section) (bool, error) {
	key := CacheKey(section.Text, s.taxonomy.ID, s.completion.ModelName())

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			logger.Docf(doc.ID, "cache read failed for section %d: %v", section.Position, err)
		} else if cached != nil {
			hit := *cached
			hit.Source = domain.SourceCache
			section.Classification = &hit
			return true, nil
		}
	}

	prompt := s.buildPrompt(section)

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			if err := s.backoff(ctx, attempt); err != nil {
				return false, err
			}
		}

		result, err := s.completeOnce(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			lastErr = err
			logger.Docf(doc.ID, "section %d attempt %d/%d: %v",
				section.Position, attempt+1, s.maxRetries+1, err)
			continue
		}

		section.Classification = result
		if s.cache != nil {
			if err := s.cache.Set(ctx, key, *result); err != nil {
				logger.Docf(doc.ID, "cache write failed for section %d: %v", section.Position, err)
			}
		}
		return false, nil
	}

	section.Classification = &domain.ClassificationResult{
		Failed: true,
		Error:  lastErr.Error(),
	}
	return false, lastErr
}

// completeOnce performs a single rate-limited completion call and
// parses the response into a classification result.
func (s *Stage) completeOnce(ctx context.Context, prompt string) (*domain.ClassificationResult, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	raw, err := s.completion.Complete(ctx, prompt, driven.CompleteOptions{
		MaxTokens:   s.maxTokens,
		Temperature: 0,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			s.limiter.RecordRateLimitError(0)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrCompletion, err)
	}

	label, confidence, err := s.parseResponse(raw)
	if err != nil {
		return nil, err
	}

	return &domain.ClassificationResult{
		Label:      label,
		Confidence: confidence,
		Raw:        raw,
		Source:     domain.SourceLive,
	}, nil
}

// backoff sleeps before retry attempt n, doubling the base delay for
// every further attempt.
func (s *Stage) backoff(ctx context.Context, attempt int) error {
	delay := s.backoffBase << (attempt - 1)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

func (s *Stage) setEligible(kinds []domain.SectionKind) {
	s.eligible = make(map[domain.SectionKind]struct{}, len(kinds))
	for _, k := range kinds {
		s.eligible[k] = struct{}{}
	}
}

func (s *Stage) isEligible(kind domain.SectionKind) bool {
	_, ok := s.eligible[kind]
	return ok
}

// CacheKey derives the cache key for a section text classified against
// a taxonomy by a model. Changing the taxonomy or the model produces
// fresh keys, so stale entries age out without explicit invalidation.
func CacheKey(text, taxonomyID, model string) string {
	h := sha256.New()
	h.Write([]byte(text))
	h.Write([]byte{0})
	h.Write([]byte(taxonomyID))
	h.Write([]byte{0})
	h.Write([]byte(model))
	return hex.EncodeToString(h.Sum(nil))
}
