package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrDuplicateEmail is returned when a profile with the same email already exists.
	ErrDuplicateEmail = errors.New("a profile with this email already exists")
	// ErrProfileNotFound is returned when a profile is not found.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrSwapNotFound is returned when a swap request is not found.
	ErrSwapNotFound = errors.New("swap request not found")
	// ErrInvalidParticipants is returned when a swap request targets its own sender.
	ErrInvalidParticipants = errors.New("sender and receiver must differ")
	// ErrInvalidState is returned when a swap request is not in a state that allows the operation.
	ErrInvalidState = errors.New("swap request is not in a valid state for this operation")
	// ErrAlreadyRated is returned when a participant rates the same swap twice.
	ErrAlreadyRated = errors.New("swap request already rated by this participant")
	// ErrInvalidRating is returned when a rating falls outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrForbidden is returned when the actor may not perform the operation.
	ErrForbidden = errors.New("operation not permitted")
	// ErrInvalidTransition is returned when an event does not apply to the current status.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrActorBanned is returned when a banned actor attempts a mutation.
	ErrActorBanned = errors.New("account is banned")
	// ErrConflict is returned when a concurrent update changed the record first.
	ErrConflict = errors.New("swap request was modified concurrently")
	// ErrSkillNotOffered is returned when a swap references a skill the owner does not offer.
	ErrSkillNotOffered = errors.New("skill is not offered by that profile")
	// ErrInvalidSkill is returned when a skill name or category is invalid.
	ErrInvalidSkill = errors.New("invalid skill")
	// ErrSuggestionsUnavailable is returned when no suggestion backend is configured.
	ErrSuggestionsUnavailable = errors.New("skill suggestions are unavailable")
	// ErrSuggestionFailed is returned when the suggestion backend call fails.
	ErrSuggestionFailed = errors.New("skill suggestion request failed")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

var httpMappings = []struct {
	err    error
	status int
	code   string
}{
	{ErrDuplicateEmail, http.StatusConflict, "DUPLICATE_EMAIL"},
	{ErrProfileNotFound, http.StatusNotFound, "NOT_FOUND"},
	{ErrSwapNotFound, http.StatusNotFound, "NOT_FOUND"},
	{ErrInvalidParticipants, http.StatusBadRequest, "INVALID_PARTICIPANTS"},
	{ErrInvalidState, http.StatusConflict, "INVALID_STATE"},
	{ErrAlreadyRated, http.StatusConflict, "ALREADY_RATED"},
	{ErrInvalidRating, http.StatusBadRequest, "INVALID_RATING"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
	{ErrActorBanned, http.StatusForbidden, "ACTOR_BANNED"},
	{ErrConflict, http.StatusConflict, "CONFLICT"},
	{ErrSkillNotOffered, http.StatusBadRequest, "SKILL_NOT_OFFERED"},
	{ErrInvalidSkill, http.StatusBadRequest, "INVALID_SKILL"},
	{ErrSuggestionsUnavailable, http.StatusServiceUnavailable, "SUGGESTIONS_UNAVAILABLE"},
	{ErrSuggestionFailed, http.StatusBadGateway, "SUGGESTION_FAILED"},
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range httpMappings {
		if errors.Is(err, m.err) {
			return NewHTTPError(m.status, m.err.Error(), m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
