package workout

// Position is where an exercise sits in its program: its group siblings and
// the exercise that follows it in the flattened program.
type Position struct {
	Exercise Exercise
	Siblings []Exercise
	Index    int
	Next     *Exercise
}

func (p *Position) IsSuperset() bool {
	return len(p.Siblings) > 1
}

func (p *Position) IsLastInGroup() bool {
	return p.Index == len(p.Siblings)-1
}

// Resolver answers superset and traversal questions from cached programs only.
type Resolver struct {
	store *Store
}

func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// SiblingsOf returns the whole group holding the exercise, in order, or an
// empty slice when the program is not cached or the exercise is unknown.
func (r *Resolver) SiblingsOf(programID, exerciseID string) []Exercise {
	program, ok := r.store.CachedProgram(programID)
	if !ok {
		return []Exercise{}
	}
	return siblingsOf(program, exerciseID)
}

// NextAfter crosses group and day boundaries.
func (r *Resolver) NextAfter(programID, exerciseID string) (*Exercise, bool) {
	program, ok := r.store.CachedProgram(programID)
	if !ok {
		return nil, false
	}
	return program.NextAfter(exerciseID)
}

// Locate resolves siblings, index and next exercise from a single cache read.
func (r *Resolver) Locate(programID, exerciseID string) (*Position, bool) {
	program, ok := r.store.CachedProgram(programID)
	if !ok {
		return nil, false
	}
	return Locate(program, exerciseID)
}

func Locate(program *Program, exerciseID string) (*Position, bool) {
	group, idx := program.GroupOf(exerciseID)
	if group == nil {
		return nil, false
	}
	next, _ := program.NextAfter(exerciseID)
	return &Position{
		Exercise: group.Exercises[idx],
		Siblings: append([]Exercise(nil), group.Exercises...),
		Index:    idx,
		Next:     next,
	}, true
}

func siblingsOf(program *Program, exerciseID string) []Exercise {
	group, _ := program.GroupOf(exerciseID)
	if group == nil {
		return []Exercise{}
	}
	return append([]Exercise(nil), group.Exercises...)
}
