package job_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/samandr77/microservices/portal/pkg/job"
)

func TestService_RunsJobsUntilStopped(t *testing.T) {
	t.Parallel()

	var (
		ok      atomic.Int32
		failing atomic.Int32
		panics  atomic.Int32
	)

	ctx, cancel := context.WithCancel(context.Background())

	s := job.NewService().
		RegisterJob("ok", 5*time.Millisecond, func(context.Context) error {
			ok.Add(1)
			return nil
		}).
		RegisterJob("failing", 5*time.Millisecond, func(context.Context) error {
			failing.Add(1)
			return errors.New("boom")
		}).
		RegisterJob("panicking", 5*time.Millisecond, func(context.Context) error {
			panics.Add(1)
			panic("boom")
		}).
		TryRegisterJob(false, "disabled", 5*time.Millisecond, func(context.Context) error {
			t.Error("disabled job must not run")
			return nil
		})

	s.Start(ctx)

	require.Eventually(t, func() bool {
		return ok.Load() >= 2 && failing.Load() >= 2 && panics.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	s.Stop()

	stopped := ok.Load()

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, stopped, ok.Load())
}
