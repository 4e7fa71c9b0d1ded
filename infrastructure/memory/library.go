package memory

import (
	"context"
	"fmt"
	"os"
	"sync"

	"tscut/domain/media"
)

// Library is an in-memory media library. Inputs are registered by path;
// outputs are recorded in memory and also created on disk so that file
// operations around them behave as with a real library.
type Library struct {
	mu sync.Mutex

	inputs  map[string]*Input
	outputs map[string]*Output
	created []string

	outputTimeBase media.Rational
	failures       map[string]*failurePlan

	initErr   error
	initCalls int
	level     media.LogLevel
}

type failurePlan struct {
	create   error
	addTrack error
	header   error
	trailer  error
	packets  map[int]error
}

// Option configures a Library
type Option func(*Library)

// WithInput registers an input container under path
func WithInput(path string, in *Input) Option {
	return func(l *Library) {
		l.inputs[path] = in
	}
}

// WithOutputTimeBase sets the time base outputs assign to every track when
// the header is written
func WithOutputTimeBase(tb media.Rational) Option {
	return func(l *Library) {
		l.outputTimeBase = tb
	}
}

// WithInitError makes Init fail
func WithInitError(err error) Option {
	return func(l *Library) {
		l.initErr = err
	}
}

// NewLibrary creates an empty in-memory library
func NewLibrary(opts ...Option) *Library {
	l := &Library{
		inputs:         make(map[string]*Input),
		outputs:        make(map[string]*Output),
		failures:       make(map[string]*failurePlan),
		outputTimeBase: media.NewRational(1, 1000),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Name implements media.Library
func (l *Library) Name() string {
	return "memory"
}

// Init implements media.Library
func (l *Library) Init(level media.LogLevel) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.initCalls++
	l.level = level
	return l.initErr
}

// InitCalls returns how many times Init was called
func (l *Library) InitCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.initCalls
}

// AddInput registers an input container under path
func (l *Library) AddInput(path string, in *Input) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inputs[path] = in
}

// OpenInput implements media.Library
func (l *Library) OpenInput(ctx context.Context, path string) (media.Demuxer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	in, ok := l.inputs[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	return &demuxer{in: in}, nil
}

// CreateOutput implements media.Library
func (l *Library) CreateOutput(ctx context.Context, path string) (media.Muxer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	plan := l.plan(path)
	if plan.create != nil {
		return nil, plan.create
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output: %w", err)
	}

	out := &Output{
		path:     path,
		file:     f,
		timeBase: l.outputTimeBase,
		plan:     plan,
	}
	l.outputs[path] = out
	l.created = append(l.created, path)
	return out, nil
}

// Output returns the output created at path
func (l *Library) Output(path string) (*Output, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out, ok := l.outputs[path]
	return out, ok
}

// Created returns the paths of all created outputs in creation order
func (l *Library) Created() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.created...)
}

// FailCreate makes CreateOutput fail for path
func (l *Library) FailCreate(path string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.plan(path).create = err
}

// FailAddTrack makes AddTrack fail on the output created at path
func (l *Library) FailAddTrack(path string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.plan(path).addTrack = err
}

// FailHeader makes WriteHeader fail on the output created at path
func (l *Library) FailHeader(path string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.plan(path).header = err
}

// FailTrailer makes WriteTrailer fail on the output created at path
func (l *Library) FailTrailer(path string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.plan(path).trailer = err
}

// FailPacket makes the n-th (0-based) WritePacket call fail on the output
// created at path
func (l *Library) FailPacket(path string, n int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	plan := l.plan(path)
	if plan.packets == nil {
		plan.packets = make(map[int]error)
	}
	plan.packets[n] = err
}

func (l *Library) plan(path string) *failurePlan {
	p, ok := l.failures[path]
	if !ok {
		p = &failurePlan{}
		l.failures[path] = p
	}
	return p
}

var _ media.Library = (*Library)(nil)
