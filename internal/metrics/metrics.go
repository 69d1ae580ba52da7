package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	apperrors "skillhub/internal/errors"
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Recorder counts domain events for the /metrics endpoint.
type Recorder struct {
	swapEvents      *prometheus.CounterVec
	profilesCreated prometheus.Counter
	moderation      *prometheus.CounterVec
	suggestions     *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		swapEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skillhub",
			Name:      "swap_events_total",
			Help:      "Swap request lifecycle events by event and outcome.",
		}, []string{"event", "outcome"}),
		profilesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skillhub",
			Name:      "profiles_created_total",
			Help:      "Profiles created through signup.",
		}),
		moderation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skillhub",
			Name:      "moderation_actions_total",
			Help:      "Admin ban and unban actions.",
		}, []string{"action"}),
		suggestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skillhub",
			Name:      "skill_suggestions_total",
			Help:      "Skill suggestion requests by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(r.swapEvents, r.profilesCreated, r.moderation, r.suggestions)
	return r
}

// NewNop returns a recorder registered with a throwaway registry.
func NewNop() *Recorder {
	return NewRecorder(prometheus.NewRegistry())
}

// SwapEvent records a lifecycle event (create, accept, reject, cancel,
// complete, rate). Expected refusals are labelled by error kind.
func (r *Recorder) SwapEvent(event string, err error) {
	r.swapEvents.WithLabelValues(event, outcome(err)).Inc()
}

// ProfileCreated records a signup.
func (r *Recorder) ProfileCreated() {
	r.profilesCreated.Inc()
}

// Moderation records a ban or unban.
func (r *Recorder) Moderation(banned bool) {
	action := "unban"
	if banned {
		action = "ban"
	}
	r.moderation.WithLabelValues(action).Inc()
}

// Suggestion records a suggestion request.
func (r *Recorder) Suggestion(err error) {
	r.suggestions.WithLabelValues(outcome(err)).Inc()
}

var outcomeKinds = []struct {
	err   error
	label string
}{
	{apperrors.ErrForbidden, "forbidden"},
	{apperrors.ErrActorBanned, "banned"},
	{apperrors.ErrInvalidTransition, "invalid_transition"},
	{apperrors.ErrConflict, "conflict"},
	{apperrors.ErrAlreadyRated, "already_rated"},
	{apperrors.ErrInvalidState, "invalid_state"},
}

func outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	for _, k := range outcomeKinds {
		if errors.Is(err, k.err) {
			return k.label
		}
	}
	return OutcomeError
}
