// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/critics/internal/cache"
	"github.com/tomtom215/critics/internal/metrics"
)

// Engine holds a loaded dataset and its item similarity table and serves
// recommendations from them. It is safe for concurrent use: rebuilds swap
// in a complete new state while readers keep using the previous one.
type Engine struct {
	config *Config
	logger zerolog.Logger

	source DataSource
	store  TableStore
	events EventPublisher

	// Loaded state, replaced wholesale on rebuild
	stateMu sync.RWMutex
	state   *state

	// Rebuild state
	rebuildMu sync.Mutex
	statusMu  sync.RWMutex
	status    rebuildStatus
	version   atomic.Int32

	cache *cache.LRU[*Response]

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// state is an immutable snapshot of everything a request reads.
type state struct {
	ratings     RatingMatrix
	titles      map[string]string
	table       ItemSimilarityTable
	fingerprint string
	version     int
	builtAt     time.Time
	ratingCount int
	fromStore   bool
}

type rebuildStatus struct {
	isRebuilding   bool
	progress       int
	lastDurationMS int64
	lastError      string
}

// Option configures optional Engine collaborators.
type Option func(*Engine)

// WithDataSource sets the source Rebuild loads from.
func WithDataSource(ds DataSource) Option {
	return func(e *Engine) { e.source = ds }
}

// WithTableStore sets a store used to reuse tables across restarts.
func WithTableStore(s TableStore) Option {
	return func(e *Engine) { e.store = s }
}

// WithEventPublisher sets a publisher for rebuild events.
func WithEventPublisher(p EventPublisher) Option {
	return func(e *Engine) { e.events = p }
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "recommend").Logger(),
	}
	if cfg.Cache.Enabled {
		e.cache = cache.NewLRU[*Response](cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Rebuild loads a fresh dataset from the configured DataSource and rebuilds
// the item similarity table. It returns ErrRebuildInProgress immediately if
// another rebuild is running.
func (e *Engine) Rebuild(ctx context.Context) error {
	if e.source == nil {
		return fmt.Errorf("data source not set")
	}
	return e.withRebuildLock(func() error {
		return e.build(ctx, e.source.Load)
	})
}

// StartRebuild begins a Rebuild in the background and returns a channel
// that receives its result. If another rebuild is running it returns
// ErrRebuildInProgress and starts nothing.
func (e *Engine) StartRebuild(ctx context.Context) (<-chan error, error) {
	if e.source == nil {
		return nil, fmt.Errorf("data source not set")
	}
	if !e.rebuildMu.TryLock() {
		metrics.RecordRebuildSkipped()
		return nil, ErrRebuildInProgress
	}

	done := make(chan error, 1)
	go func() {
		err := e.build(ctx, e.source.Load)
		e.rebuildMu.Unlock()
		done <- err
		close(done)
	}()
	return done, nil
}

// Load replaces the served dataset with ds and rebuilds the item
// similarity table. The engine keeps serving the previous state until the
// new one is complete; on error the previous state stays active.
func (e *Engine) Load(ctx context.Context, ds *Dataset) error {
	return e.withRebuildLock(func() error {
		return e.build(ctx, func(context.Context) (*Dataset, error) { return ds, nil })
	})
}

func (e *Engine) withRebuildLock(fn func() error) error {
	if !e.rebuildMu.TryLock() {
		metrics.RecordRebuildSkipped()
		return ErrRebuildInProgress
	}
	defer e.rebuildMu.Unlock()
	return fn()
}

// build must be called with rebuildMu held.
func (e *Engine) build(ctx context.Context, load func(context.Context) (*Dataset, error)) (err error) {
	start := time.Now()
	e.beginRebuild()
	e.logger.Info().Msg("starting rebuild")

	defer func() {
		e.finishRebuild(start, err)
		metrics.RecordRebuild(time.Since(start), err)
		if err != nil {
			e.logger.Error().Err(err).Msg("rebuild failed")
			e.publish(context.WithoutCancel(ctx), RebuildEvent{
				Phase:      PhaseFailed,
				DurationMS: time.Since(start).Milliseconds(),
				Error:      err.Error(),
			})
		}
	}()

	buildCtx, cancel := context.WithTimeout(ctx, e.config.RebuildTimeout)
	defer cancel()

	ds, err := load(buildCtx)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	if ds == nil || ds.Ratings == nil {
		return errors.New("load dataset: no ratings")
	}

	fingerprint := Fingerprint(ds.Ratings)
	e.publish(buildCtx, RebuildEvent{Phase: PhaseStarted, Fingerprint: fingerprint})

	table, fromStore, err := e.loadOrComputeTable(buildCtx, ds.Ratings, fingerprint)
	if err != nil {
		return err
	}

	st := &state{
		ratings:     ds.Ratings,
		titles:      ds.Titles,
		table:       table,
		fingerprint: fingerprint,
		version:     int(e.version.Add(1)),
		builtAt:     time.Now(),
		ratingCount: ds.Ratings.Ratings(),
		fromStore:   fromStore,
	}
	if st.titles == nil {
		st.titles = map[string]string{}
	}

	e.stateMu.Lock()
	e.state = st
	e.stateMu.Unlock()

	if e.cache != nil {
		e.cache.Clear()
	}

	metrics.UpdateDatasetGauges(len(st.ratings), len(st.table), st.ratingCount, st.version)

	e.logger.Info().
		Int("version", st.version).
		Int("people", len(st.ratings)).
		Int("items", len(st.table)).
		Int("ratings", st.ratingCount).
		Bool("from_store", fromStore).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("rebuild complete")

	e.publish(buildCtx, RebuildEvent{
		Phase:        PhaseCompleted,
		Total:        len(st.table),
		TableVersion: st.version,
		Fingerprint:  fingerprint,
		FromStore:    fromStore,
		DurationMS:   time.Since(start).Milliseconds(),
	})
	return nil
}

// tableKey identifies a table by the ratings and parameters it was built with.
func (e *Engine) tableKey(fingerprint string) string {
	return fmt.Sprintf("%s:%s:%d", fingerprint, e.config.TableSimilarity, e.config.Neighbors)
}

func (e *Engine) loadOrComputeTable(ctx context.Context, ratings RatingMatrix, fingerprint string) (ItemSimilarityTable, bool, error) {
	key := e.tableKey(fingerprint)

	if e.store != nil {
		table, ok, err := e.store.GetTable(ctx, key)
		metrics.RecordTableStoreLookup(ok, err)
		switch {
		case err != nil:
			e.logger.Warn().Err(err).Msg("table store lookup failed, recomputing")
		case ok:
			e.logger.Info().Int("items", len(table)).Msg("reusing stored similarity table")
			return table, true, nil
		}
	}

	sim, err := SimilarityByName(e.config.TableSimilarity)
	if err != nil {
		return nil, false, err
	}

	table, err := CalculateSimilarItems(ctx, ratings, SimilarItemsConfig{
		Neighbors:     e.config.Neighbors,
		Similarity:    sim,
		Workers:       e.config.Workers,
		ProgressEvery: e.config.ProgressEvery,
		Progress: func(done, total int) {
			e.setProgress(done * 100 / total)
			e.logger.Info().Int("done", done).Int("total", total).Msgf("%d / %d", done, total)
			e.publish(ctx, RebuildEvent{Phase: PhaseProgress, Done: done, Total: total})
		},
	})
	if err != nil {
		return nil, false, fmt.Errorf("calculate similar items: %w", err)
	}
	metrics.RebuildItemsProcessed.Add(float64(len(table)))

	if e.store != nil {
		if err := e.store.PutTable(ctx, key, table); err != nil {
			e.logger.Warn().Err(err).Msg("failed to store similarity table")
		}
	}
	return table, false, nil
}

func (e *Engine) publish(ctx context.Context, event RebuildEvent) {
	if e.events == nil {
		return
	}
	event.Timestamp = time.Now()
	if err := e.events.PublishRebuildEvent(ctx, event); err != nil {
		e.logger.Warn().Err(err).Str("phase", string(event.Phase)).Msg("failed to publish rebuild event")
	}
}

func (e *Engine) beginRebuild() {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	e.status.isRebuilding = true
	e.status.progress = 0
	e.status.lastError = ""
}

func (e *Engine) setProgress(pct int) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	e.status.progress = pct
}

func (e *Engine) finishRebuild(start time.Time, err error) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	e.status.isRebuilding = false
	e.status.lastDurationMS = time.Since(start).Milliseconds()
	if err != nil {
		e.status.lastError = err.Error()
		return
	}
	e.status.progress = 100
}

// current returns the active state or ErrNotLoaded.
func (e *Engine) current() (*state, error) {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	if e.state == nil {
		return nil, ErrNotLoaded
	}
	return e.state, nil
}

// RecommendForUser ranks unrated items for req.User, either from similar
// people (ModeUser) or from the item similarity table (ModeItem).
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) RecommendForUser(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req = e.prepareRequest(req)
	logger := e.createRequestLogger(req)
	op := req.Mode.String()

	resp, err := e.recommend(ctx, req, start, logger)
	metrics.RecordRecommend(op, time.Since(start), err)
	if err != nil {
		e.errorCount.Add(1)
		logger.Debug().Err(err).Msg("recommendation failed")
		return nil, err
	}
	return resp, nil
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) recommend(ctx context.Context, req Request, start time.Time, logger zerolog.Logger) (*Response, error) {
	st, err := e.current()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := cacheKey(st.version, req)
	if resp := e.tryGetCachedResponse(key, start, logger); resp != nil {
		return resp, nil
	}

	var scored []Scored
	switch req.Mode {
	case ModeUser:
		sim, simErr := SimilarityByName(req.Similarity)
		if simErr != nil {
			return nil, simErr
		}
		scored, err = GetRecommendations(st.ratings, req.User, sim)
	case ModeItem:
		scored, err = GetRecommendedItems(st.ratings, st.table, req.User)
	default:
		return nil, newInvalidParamError("mode", req.Mode.String())
	}
	if err != nil {
		return nil, fmt.Errorf("recommend for %q: %w", req.User, err)
	}

	resp := &Response{
		Items: st.resolve(truncate(scored, req.K)),
		Metadata: ResponseMetadata{
			RequestID:    req.RequestID,
			User:         req.User,
			Mode:         req.Mode.String(),
			Similarity:   req.Similarity,
			Candidates:   len(scored),
			LatencyMS:    time.Since(start).Milliseconds(),
			TableVersion: st.version,
			BuiltAt:      st.builtAt,
			Timestamp:    time.Now(),
		},
	}

	if e.cache != nil {
		e.cache.Add(key, copyResponse(resp))
	}

	logger.Debug().
		Int("candidates", len(scored)).
		Int("returned", len(resp.Items)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// SimilarItems returns up to k items most similar to item, read from the
// precomputed table.
func (e *Engine) SimilarItems(ctx context.Context, item string, k int) ([]Recommendation, error) {
	start := time.Now()
	items, err := e.similarItems(ctx, item, k)
	metrics.RecordRecommend("similar_items", time.Since(start), err)
	return items, err
}

func (e *Engine) similarItems(ctx context.Context, item string, k int) ([]Recommendation, error) {
	st, err := e.current()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	neighbors, ok := st.table[item]
	if !ok {
		return nil, unknownEntity("item", item)
	}
	return st.resolve(truncate(neighbors, e.clampK(k))), nil
}

// SimilarUsers ranks the people most similar to user. An empty similarity
// uses the configured default.
func (e *Engine) SimilarUsers(ctx context.Context, user string, k int, similarity string) ([]Scored, error) {
	start := time.Now()
	matches, err := e.similarUsers(ctx, user, k, similarity)
	metrics.RecordRecommend("similar_users", time.Since(start), err)
	return matches, err
}

func (e *Engine) similarUsers(ctx context.Context, user string, k int, similarity string) ([]Scored, error) {
	st, err := e.current()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if similarity == "" {
		similarity = e.config.Similarity
	}
	sim, err := SimilarityByName(similarity)
	if err != nil {
		return nil, err
	}
	matches, err := TopMatches(st.ratings, user, e.clampK(k), sim)
	if err != nil {
		return nil, fmt.Errorf("similar users for %q: %w", user, err)
	}
	return matches, nil
}

// Status returns the current dataset and rebuild status.
func (e *Engine) Status() Status {
	e.statusMu.RLock()
	rs := e.status
	e.statusMu.RUnlock()

	s := Status{
		IsRebuilding:   rs.isRebuilding,
		Progress:       rs.progress,
		LastDurationMS: rs.lastDurationMS,
		LastError:      rs.lastError,
		RequestCount:   e.requestCount.Load(),
		ErrorCount:     e.errorCount.Load(),
	}

	if st, err := e.current(); err == nil {
		s.Loaded = true
		s.TableVersion = st.version
		s.Fingerprint = st.fingerprint
		s.People = len(st.ratings)
		s.Items = len(st.table)
		s.Ratings = st.ratingCount
		s.Titles = len(st.titles)
		s.LastBuiltAt = st.builtAt
		s.TableFromStore = st.fromStore
	}

	if e.cache != nil {
		stats := e.cache.Stats()
		s.CacheHits = stats.Hits
		s.CacheMisses = stats.Misses
		s.CacheEntries = stats.Size
	}
	return s
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// prepareRequest applies defaults and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	req.K = e.clampK(req.K)

	switch req.Mode {
	case ModeItem:
		req.Similarity = e.config.TableSimilarity
	default:
		if req.Similarity == "" {
			req.Similarity = e.config.Similarity
		}
	}
	return req
}

func (e *Engine) clampK(k int) int {
	if k <= 0 {
		return e.config.Limits.DefaultK
	}
	if k > e.config.Limits.MaxK {
		return e.config.Limits.MaxK
	}
	return k
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Str("user", req.User).
		Str("mode", req.Mode.String()).
		Logger()
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) tryGetCachedResponse(key string, start time.Time, logger zerolog.Logger) *Response {
	if e.cache == nil {
		return nil
	}

	cached, ok := e.cache.Get(key)
	metrics.RecordCacheLookup(ok)
	if !ok {
		return nil
	}

	resp := copyResponse(cached)
	resp.Metadata.CacheHit = true
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
	logger.Debug().Msg("cache hit")
	return resp
}

// cacheKey includes the table version so a rebuild never serves stale entries.
//
//nolint:gocritic // hugeParam: req passed by value for simplicity
func cacheKey(version int, req Request) string {
	return fmt.Sprintf("rec:%d:%s:%s:%q:%d", version, req.Mode.String(), req.Similarity, req.User, req.K)
}

// copyResponse copies the item slice so callers cannot mutate cached entries.
func copyResponse(resp *Response) *Response {
	items := make([]Recommendation, len(resp.Items))
	copy(items, resp.Items)
	return &Response{Items: items, Metadata: resp.Metadata}
}

func (st *state) resolve(scored []Scored) []Recommendation {
	out := make([]Recommendation, len(scored))
	for i, s := range scored {
		out[i] = Recommendation{ID: s.ID, Title: st.titles[s.ID], Score: s.Score}
	}
	return out
}

func truncate(s []Scored, k int) []Scored {
	if len(s) > k {
		return s[:k]
	}
	return s
}
