package api

import (
	"strconv"
	"time"

	"github.com/2beens/fitcoach/internal/workout"
)

// progressTimeLayout is the backend's local timestamp format.
const progressTimeLayout = "2006-01-02 15:04:05"

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`

	// LatestWorkoutDates are YYYY-MM-DD days with a recorded workout, newest first.
	LatestWorkoutDates []string `json:"latestWorkoutDates,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
	Message string `json:"message,omitempty"`
}

type profileResponse struct {
	Success bool   `json:"success"`
	User    *User  `json:"user"`
	Message string `json:"message,omitempty"`
}

type idRequest struct {
	ID string `json:"id"`
}

type pageRequest struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type programResponse struct {
	Success bool             `json:"success"`
	Item    *workout.Program `json:"item"`
	Message string           `json:"message,omitempty"`
}

// Page is one page of a paged list endpoint.
type Page[T any] struct {
	Success bool `json:"success"`
	Items   []T  `json:"items"`
	HasMore bool `json:"hasMore"`
	Total   int  `json:"total"`
	Page    int  `json:"page"`
}

type NutritionItem struct {
	ID          string `json:"id"`
	Period      string `json:"periodo"`
	Description string `json:"descrizione"`
	PlanFileURL string `json:"file_scheda"`
}

type CalendarEntry struct {
	Description string `json:"descrizione"`
	Seduta      int    `json:"seduta"`
}

type calendarRequest struct {
	Year  string `json:"year"`
	Month string `json:"month"`
}

type calendarResponse struct {
	Success bool                       `json:"success"`
	Dates   map[string][]CalendarEntry `json:"dates"`
	Message string                     `json:"message,omitempty"`
}

// ProgressRequest is the exercise progress body. Weight is sent as a string
// and only when known.
type ProgressRequest struct {
	ProgramID   string   `json:"id"`
	ExerciseIDs []string `json:"ix"`
	StartedAt   string   `json:"ts"`
	EndedAt     string   `json:"te"`
	Series      int      `json:"sr"`
	WeightKg    *string  `json:"kg,omitempty"`

	// IdempotencyKey goes into a header, not the body.
	IdempotencyKey string `json:"-"`
}

func NewProgressRequest(programID string, exerciseIDs []string, startedAt, endedAt time.Time, series int, weightKg *float64) ProgressRequest {
	req := ProgressRequest{
		ProgramID:   programID,
		ExerciseIDs: exerciseIDs,
		StartedAt:   startedAt.Local().Format(progressTimeLayout),
		EndedAt:     endedAt.Local().Format(progressTimeLayout),
		Series:      series,
	}
	if weightKg != nil {
		kg := strconv.FormatFloat(*weightKg, 'f', -1, 64)
		req.WeightKg = &kg
	}
	return req
}

type ackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
