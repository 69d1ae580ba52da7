package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	apperrors "skillhub/internal/errors"
)

func TestRecorder_SwapEvent(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())

	r.SwapEvent("accept", nil)
	r.SwapEvent("accept", nil)
	r.SwapEvent("accept", fmt.Errorf("transition: %w", apperrors.ErrForbidden))
	r.SwapEvent("complete", apperrors.ErrConflict)
	r.SwapEvent("rate", fmt.Errorf("db down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.swapEvents.WithLabelValues("accept", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.swapEvents.WithLabelValues("accept", "forbidden")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.swapEvents.WithLabelValues("complete", "conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.swapEvents.WithLabelValues("rate", OutcomeError)))
}

func TestRecorder_ModerationAndSignup(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())

	r.ProfileCreated()
	r.Moderation(true)
	r.Moderation(false)
	r.Moderation(true)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.profilesCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.moderation.WithLabelValues("ban")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.moderation.WithLabelValues("unban")))
}

func TestNewRecorder_PanicsOnDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRecorder(reg)
	assert.Panics(t, func() { NewRecorder(reg) })
}
