package inflight

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasdonena/admin-console/pkg/apiclient"
	"github.com/tasdonena/admin-console/pkg/logging"
)

func TestTracker_PerEntity(t *testing.T) {
	t.Parallel()

	tr := NewTracker("users", false)
	release1, err := tr.Acquire("1")
	require.NoError(t, err)

	_, err = tr.Acquire("1")
	require.ErrorIs(t, err, ErrBusy)

	release2, err := tr.Acquire("2")
	require.NoError(t, err, "non-exclusive trackers allow other entities")
	assert.Equal(t, []string{"1", "2"}, tr.Active())

	release1()
	release1()
	release2()
	assert.Empty(t, tr.Active())
	assert.False(t, tr.IsBusy("1"))
}

func TestTracker_Exclusive(t *testing.T) {
	t.Parallel()

	tr := NewTracker("tasks", true)
	release, err := tr.Acquire("7")
	require.NoError(t, err)
	assert.True(t, tr.Locked("8"))

	_, err = tr.Acquire("8")
	var busy *BusyError
	require.ErrorAs(t, err, &busy)
	assert.Equal(t, "7", busy.Holder)
	assert.Equal(t, "8", busy.Requested)

	release()
	assert.False(t, tr.Locked("8"))
}

func TestTracker_ConcurrentAcquireAdmitsOne(t *testing.T) {
	t.Parallel()

	tr := NewTracker("users", true)
	var wins atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := tr.Acquire("1"); err == nil {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

type scriptedConfirmer struct {
	conf   Confirmation
	err    error
	prompt Prompt
}

func (s *scriptedConfirmer) Confirm(ctx context.Context, p Prompt) (Confirmation, error) {
	s.prompt = p
	return s.conf, s.err
}

func TestRunner_SuccessRefreshes(t *testing.T) {
	t.Parallel()

	conf := &scriptedConfirmer{conf: Confirmation{Confirmed: true, Input: "looks good"}}
	r := NewRunner(NewTracker("users", true), conf, logging.Discard())

	var gotInput string
	refreshed := false
	out, err := r.Run(context.Background(), Action{
		Name:     "approve",
		EntityID: "5",
		Prompt:   &Prompt{Title: "Approve?", InputLabel: "Remarks"},
		Call: func(ctx context.Context, input string) error {
			gotInput = input
			assert.True(t, r.Tracker().IsBusy("5"), "entity is busy during the call")
			return nil
		},
		Refresh:        func(ctx context.Context) error { refreshed = true; return nil },
		SuccessMessage: "Maria has been approved.",
		FailureMessage: "Failed to approve user.",
	})
	require.NoError(t, err)
	assert.Equal(t, "looks good", gotInput)
	assert.True(t, refreshed)
	assert.Equal(t, "Maria has been approved.", out.Message)
	assert.Equal(t, "Approve?", conf.prompt.Title)
	assert.False(t, r.Tracker().IsBusy("5"))
}

func TestRunner_Canceled(t *testing.T) {
	t.Parallel()

	r := NewRunner(NewTracker("users", true), &scriptedConfirmer{}, nil)
	called := false
	_, err := r.Run(context.Background(), Action{
		Name:   "reject",
		Prompt: &Prompt{},
		Call:   func(ctx context.Context, input string) error { called = true; return nil },
	})
	require.ErrorIs(t, err, ErrCanceled)
	assert.False(t, called)
}

func TestRunner_DeleteRequiresExactWord(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"delete", "DELETE ", "", "Delete"} {
		r := NewRunner(NewTracker("users", true), AutoConfirm{Input: input}, nil)
		_, err := r.Run(context.Background(), Action{
			Name:   "delete",
			Prompt: &Prompt{RequireWord: "DELETE"},
			Call: func(ctx context.Context, input string) error {
				t.Fatalf("call must not run for %q", input)
				return nil
			},
		})
		require.ErrorIs(t, err, ErrNotConfirmed, input)
	}

	r := NewRunner(NewTracker("users", true), AutoConfirm{Input: "DELETE"}, nil)
	called := false
	_, err := r.Run(context.Background(), Action{
		Name:   "delete",
		Prompt: &Prompt{RequireWord: "DELETE"},
		Call:   func(ctx context.Context, input string) error { called = true; return nil },
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestRunner_FailureMessages(t *testing.T) {
	t.Parallel()

	r := NewRunner(NewTracker("users", true), nil, logging.Discard())
	refreshed := false
	run := func(callErr error) error {
		_, err := r.Run(context.Background(), Action{
			Name:           "deactivate",
			EntityID:       "3",
			Call:           func(ctx context.Context, input string) error { return callErr },
			Refresh:        func(ctx context.Context) error { refreshed = true; return nil },
			FailureMessage: "Failed to deactivate personnel.",
		})
		return err
	}

	err := run(&apiclient.APIError{StatusCode: 422, Data: apiclient.ErrorBody{Message: "Cannot deactivate an admin."}})
	var ae *ActionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Cannot deactivate an admin.", ae.Message)

	err = run(&apiclient.TransportError{Err: errors.New("dial tcp: refused")})
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apiclient.ConnectionMessage, ae.Message)

	err = run(&apiclient.APIError{StatusCode: 500})
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Failed to deactivate personnel.", ae.Message)

	assert.False(t, refreshed, "failures never refresh")
	assert.False(t, r.Tracker().IsBusy("3"), "failures release the row")
}

func TestRunner_BusyRejects(t *testing.T) {
	t.Parallel()

	tr := NewTracker("users", true)
	release, err := tr.Acquire("1")
	require.NoError(t, err)
	defer release()

	r := NewRunner(tr, nil, nil)
	_, err = r.Run(context.Background(), Action{
		Name:     "approve",
		EntityID: "2",
		Call:     func(ctx context.Context, input string) error { return nil },
	})
	require.ErrorIs(t, err, ErrBusy)
}
