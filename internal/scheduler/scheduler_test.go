package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/nyhet/internal/storage"
)

type fakeCollector struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeCollector) CollectAll(context.Context) ([]*storage.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []*storage.Article{{ID: "x"}}, nil
}

func (f *fakeCollector) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recordingListener struct {
	mu   sync.Mutex
	seen int
	err  error
}

func (r *recordingListener) OnArticlesAdded(articles []*storage.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen += len(articles)
	return r.err
}

func TestRunOnce(t *testing.T) {
	c := &fakeCollector{}
	l := &recordingListener{}
	s := New(c, time.Hour, l)

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, l.seen)
}

func TestRunOnce_ListenerErrorIsNotFatal(t *testing.T) {
	s := New(&fakeCollector{}, time.Hour, &recordingListener{err: errors.New("index closed")})
	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRunOnce_CollectorError(t *testing.T) {
	l := &recordingListener{}
	s := New(&fakeCollector{err: errors.New("boom")}, time.Hour, l)
	_, err := s.RunOnce(context.Background())
	assert.Error(t, err)
	assert.Zero(t, l.seen)
}

func TestRun_CollectsImmediatelyAndPeriodically(t *testing.T) {
	c := &fakeCollector{}
	s := New(c, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return c.Calls() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
