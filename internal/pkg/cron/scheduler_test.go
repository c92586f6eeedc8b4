package cron_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/worktally/attendance-backend-go/internal/pkg/clock"
	"github.com/worktally/attendance-backend-go/internal/pkg/cron"
)

func TestScheduler(t *testing.T) {
	t.Run("runs registered jobs once", func(t *testing.T) {
		clk := &clock.Fixed{Current: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)}
		s := cron.NewScheduler(clk)

		var ran []string
		s.AddJob("first", time.Hour, func(ctx context.Context) error {
			ran = append(ran, "first")
			return nil
		})
		s.AddJob("second", time.Hour, func(ctx context.Context) error {
			ran = append(ran, "second")
			return nil
		})

		s.RunOnce(context.Background())
		assert.Equal(t, []string{"first", "second"}, ran)
	})

	t.Run("a failing job does not stop the others", func(t *testing.T) {
		s := cron.NewScheduler(nil)

		var ran bool
		s.AddJob("broken", time.Hour, func(ctx context.Context) error {
			return errors.New("boom")
		})
		s.AddJob("healthy", time.Hour, func(ctx context.Context) error {
			ran = true
			return nil
		})

		s.RunOnce(context.Background())
		assert.True(t, ran)
	})
}
