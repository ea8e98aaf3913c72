package workout

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL = 5 * time.Minute

	// freecache refuses anything below 512KB
	minCacheSize = 512 * 1024
	// every index entry is a fixed 8 byte generation, far below freecache's
	// 1/1024 of the cache size entry limit
	indexValueSize = 8

	programKeyPrefix = "program::"
)

var (
	ErrProgramNotFound  = errors.New("workout program not found")
	ErrExerciseNotFound = errors.New("workout exercise not found")
	ErrMalformedProgram = errors.New("malformed workout program")
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=workout_test

type ProgramFetcher interface {
	FetchProgram(ctx context.Context, programID string) (*Program, error)
}

type StoreOptions struct {
	TTL time.Duration
	// CacheSizeBytes sizes the expiry index, not the programs themselves.
	CacheSizeBytes int
	// Timer drives entry expiry. Nil means wall clock.
	Timer   freecache.Timer
	Metrics *metrics.Manager
}

// Store is the shared program cache. freecache holds the expiry index (key to
// generation, with the TTL); the programs live JSON encoded in bodies so any
// program size fits and every reader gets its own copy. A program is
// immutable once cached and replaced wholesale on refresh.
type Store struct {
	fetcher       ProgramFetcher
	index         *freecache.Cache
	expireSeconds int
	inflight      singleflight.Group
	metrics       *metrics.Manager

	mu         sync.Mutex
	generation uint64
	bodies     map[string]storedProgram
}

type storedProgram struct {
	generation uint64
	raw        []byte
}

func NewStore(fetcher ProgramFetcher, opts StoreOptions) *Store {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	expireSeconds := int(ttl / time.Second)
	if expireSeconds < 1 {
		expireSeconds = 1
	}

	size := opts.CacheSizeBytes
	if size < minCacheSize {
		size = minCacheSize
	}

	var index *freecache.Cache
	if opts.Timer != nil {
		index = freecache.NewCacheCustomTimer(size, opts.Timer)
	} else {
		index = freecache.NewCache(size)
	}

	m := opts.Metrics
	if m == nil {
		m = metrics.NewTestManager()
	}

	return &Store{
		fetcher:       fetcher,
		index:         index,
		expireSeconds: expireSeconds,
		metrics:       m,
		bodies:        make(map[string]storedProgram),
	}
}

// GetProgram returns the cached program when present and unexpired, otherwise
// fetches it. Concurrent misses for the same id share one fetch.
func (s *Store) GetProgram(ctx context.Context, programID string) (*Program, error) {
	if program, ok := s.CachedProgram(programID); ok {
		s.metrics.CounterProgramCacheHits.Inc()
		log.Debugf("workout store: program [%s] found in cache", programID)
		return program, nil
	}

	s.metrics.CounterProgramCacheMisses.Inc()
	log.Debugf("workout store: program [%s] not in cache, fetching", programID)
	return s.fetch(ctx, programID)
}

// Refresh reloads the program regardless of the cached copy. On failure the
// previous entry, if any, stays in place.
func (s *Store) Refresh(ctx context.Context, programID string) (*Program, error) {
	log.Debugf("workout store: refreshing program [%s]", programID)
	return s.fetch(ctx, programID)
}

// CachedProgram never fetches. Expired entries are evicted by the read.
func (s *Store) CachedProgram(programID string) (*Program, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.bodies[programID]
	if !ok {
		return nil, false
	}

	value, err := s.index.Get(programKey(programID))
	if err != nil || len(value) != indexValueSize || binary.BigEndian.Uint64(value) != stored.generation {
		if err != nil && !errors.Is(err, freecache.ErrNotFound) {
			log.Errorf("workout store: get program [%s]: %s", programID, err)
		}
		// expired or evicted from the index
		delete(s.bodies, programID)
		return nil, false
	}

	var program Program
	if err := json.Unmarshal(stored.raw, &program); err != nil {
		log.Errorf("workout store: decode cached program [%s]: %s", programID, err)
		s.deleteLocked(programID)
		return nil, false
	}
	return &program, true
}

// FindExercise looks the exercise up in the cached program only.
func (s *Store) FindExercise(programID, exerciseID string) (*Exercise, bool) {
	program, ok := s.CachedProgram(programID)
	if !ok {
		return nil, false
	}
	return program.FindExercise(exerciseID)
}

// LoadExercise resolves an exercise, fetching the program when it is not
// cached or when force is set.
func (s *Store) LoadExercise(ctx context.Context, programID, exerciseID string, force bool) (*Exercise, error) {
	var (
		program *Program
		err     error
	)
	if force {
		program, err = s.Refresh(ctx, programID)
	} else {
		program, err = s.GetProgram(ctx, programID)
	}
	if err != nil {
		return nil, err
	}

	exercise, ok := program.FindExercise(exerciseID)
	if !ok {
		log.Warnf("workout store: exercise [%s] missing from program [%s]", exerciseID, programID)
		return nil, fmt.Errorf("%w: exercise %s in program %s", ErrExerciseNotFound, exerciseID, programID)
	}
	return exercise, nil
}

func (s *Store) Invalidate(programID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteLocked(programID) {
		log.Debugf("workout store: program [%s] invalidated", programID)
	}
}

func (s *Store) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index.Clear()
	s.bodies = make(map[string]storedProgram)
	log.Debugln("workout store: all programs invalidated")
}

// Len counts stored entries, expired ones included until they are read.
func (s *Store) Len() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.bodies))
}

func (s *Store) put(programID string, raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	value := make([]byte, indexValueSize)
	binary.BigEndian.PutUint64(value, s.generation)
	if err := s.index.Set(programKey(programID), value, s.expireSeconds); err != nil {
		return err
	}
	s.bodies[programID] = storedProgram{generation: s.generation, raw: raw}
	return nil
}

func (s *Store) deleteLocked(programID string) bool {
	_, ok := s.bodies[programID]
	delete(s.bodies, programID)
	s.index.Del(programKey(programID))
	return ok
}

func (s *Store) fetch(ctx context.Context, programID string) (*Program, error) {
	ch := s.inflight.DoChan(programID, func() (any, error) {
		// detached so one impatient caller does not fail the others
		return s.fetchAndStore(context.WithoutCancel(ctx), programID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Debugf("workout store: program [%s] fetch shared", programID)
		}
		return res.Val.(*Program), nil
	}
}

func (s *Store) fetchAndStore(ctx context.Context, programID string) (_ *Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutStore.fetch")
	span.SetAttributes(attribute.String("program.id", programID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	start := time.Now()
	program, err := s.fetcher.FetchProgram(ctx, programID)
	s.metrics.HistProgramFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.CounterProgramFetches.WithLabelValues("failed").Inc()
		log.Errorf("workout store: fetch program [%s]: %s", programID, err)
		return nil, fmt.Errorf("fetch program %s: %w", programID, err)
	}
	if program == nil {
		s.metrics.CounterProgramFetches.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("%w: %s", ErrProgramNotFound, programID)
	}
	if err := program.Validate(); err != nil {
		s.metrics.CounterProgramFetches.WithLabelValues("malformed").Inc()
		return nil, err
	}
	s.metrics.CounterProgramFetches.WithLabelValues("ok").Inc()

	raw, err := json.Marshal(program)
	if err != nil {
		return nil, fmt.Errorf("encode program %s: %w", programID, err)
	}
	if err := s.put(programID, raw); err != nil {
		return nil, fmt.Errorf("cache program %s: %w", programID, err)
	}

	return program, nil
}

func programKey(programID string) []byte {
	return []byte(programKeyPrefix + programID)
}
