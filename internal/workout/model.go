package workout

import (
	"fmt"
	"time"
)

// JSON tags follow the coaching backend wire format.

type ExerciseType string

const (
	ExerciseTypeTime ExerciseType = "time"
	ExerciseTypeReps ExerciseType = "reps"

	ymdLayout = "2006-01-02"
)

type Exercise struct {
	ID              string       `json:"id"`
	Thumb           string       `json:"thumb,omitempty"`
	Description     string       `json:"descrizione"`
	Text            string       `json:"testo,omitempty"`
	Images          []string     `json:"images,omitempty"`
	Video           string       `json:"video,omitempty"`
	Type            ExerciseType `json:"tipo"`
	Series          string       `json:"serie,omitempty"`
	Duration        string       `json:"durata,omitempty"`
	DurationSeconds int          `json:"durata_s"`
	Rest            string       `json:"recupero,omitempty"`
	RestSeconds     int          `json:"recupero_s"`
	Weight          string       `json:"peso,omitempty"`
	Note            string       `json:"note,omitempty"`
}

func (e *Exercise) IsTimed() bool {
	return e.Type == ExerciseTypeTime
}

// MediaURLs lists the exercise media worth warming: thumbnail first, then images.
func (e *Exercise) MediaURLs() []string {
	var urls []string
	if e.Thumb != "" {
		urls = append(urls, e.Thumb)
	}
	for _, img := range e.Images {
		if img != "" {
			urls = append(urls, img)
		}
	}
	return urls
}

type Group struct {
	Number    int        `json:"gruppo"`
	Exercises []Exercise `json:"esercizi"`
}

// IsSuperset reports whether the group's exercises are done back-to-back.
func (g *Group) IsSuperset() bool {
	return len(g.Exercises) > 1
}

type Day struct {
	Seduta      int     `json:"seduta"`
	Description string  `json:"descrizione"`
	Groups      []Group `json:"gruppi"`
}

type Program struct {
	ID              string `json:"id"`
	Description     string `json:"descrizione"`
	Duration        string `json:"durata,omitempty"`
	DeliveryDate    string `json:"data_consegna,omitempty"`
	DeliveryDateYMD string `json:"data_consegna_ymd,omitempty"`
	StartDate       string `json:"data_inizio,omitempty"`
	StartDateYMD    string `json:"data_inizio_ymd,omitempty"`
	ExpiryDate      string `json:"data_scadenza,omitempty"`
	ExpiryDateYMD   string `json:"data_scadenza_ymd,omitempty"`
	Note            string `json:"note,omitempty"`
	Days            []Day  `json:"esercizi"`
}

// ProgramSummary is a row of the paged program list.
type ProgramSummary struct {
	ID              string `json:"id"`
	Description     string `json:"descrizione"`
	Duration        string `json:"durata,omitempty"`
	StartDateYMD    string `json:"data_inizio_ymd,omitempty"`
	ExpiryDateYMD   string `json:"data_scadenza_ymd,omitempty"`
	DeliveryDateYMD string `json:"data_consegna_ymd,omitempty"`
}

// Validate checks the shape the session engine relies on.
func (p *Program) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: empty program id", ErrMalformedProgram)
	}
	for di := range p.Days {
		for gi := range p.Days[di].Groups {
			for ei, ex := range p.Days[di].Groups[gi].Exercises {
				if ex.ID == "" {
					return fmt.Errorf("%w: day %d group %d exercise %d has no id", ErrMalformedProgram, di, gi, ei)
				}
				if ex.DurationSeconds < 0 || ex.RestSeconds < 0 {
					return fmt.Errorf("%w: exercise %s has negative duration or rest", ErrMalformedProgram, ex.ID)
				}
			}
		}
	}
	return nil
}

// Flatten returns all exercises in day, group, exercise order.
func (p *Program) Flatten() []Exercise {
	var all []Exercise
	for di := range p.Days {
		for gi := range p.Days[di].Groups {
			all = append(all, p.Days[di].Groups[gi].Exercises...)
		}
	}
	return all
}

// FindExercise does a depth-first scan; the first match wins.
func (p *Program) FindExercise(exerciseID string) (*Exercise, bool) {
	group, idx := p.GroupOf(exerciseID)
	if group == nil {
		return nil, false
	}
	ex := group.Exercises[idx]
	return &ex, true
}

// GroupOf returns the group holding the first exercise with the given id and
// the exercise's index inside it, or nil.
func (p *Program) GroupOf(exerciseID string) (*Group, int) {
	for di := range p.Days {
		for gi := range p.Days[di].Groups {
			group := &p.Days[di].Groups[gi]
			for ei := range group.Exercises {
				if group.Exercises[ei].ID == exerciseID {
					return group, ei
				}
			}
		}
	}
	return nil, -1
}

// NextAfter returns the exercise following exerciseID in the flattened program,
// crossing group and day boundaries.
func (p *Program) NextAfter(exerciseID string) (*Exercise, bool) {
	all := p.Flatten()
	for i := range all {
		if all[i].ID != exerciseID {
			continue
		}
		if i+1 < len(all) {
			next := all[i+1]
			return &next, true
		}
		return nil, false
	}
	return nil, false
}

// MediaURLs collects every exercise media url of the program, without duplicates.
func (p *Program) MediaURLs() []string {
	seen := make(map[string]struct{})
	var urls []string
	for _, ex := range p.Flatten() {
		for _, u := range ex.MediaURLs() {
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			urls = append(urls, u)
		}
	}
	return urls
}

// ActiveOn reports whether day falls inside the program validity window.
// Missing bounds are treated as open.
func (p *Program) ActiveOn(day time.Time) bool {
	d := day.Format(ymdLayout)
	if p.StartDateYMD != "" && d < p.StartDateYMD {
		return false
	}
	if p.ExpiryDateYMD != "" && d > p.ExpiryDateYMD {
		return false
	}
	return true
}
