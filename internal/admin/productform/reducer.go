package productform

// Reducer computes the next state for an action.
type Reducer func(State, Action) State

// Reduce is the form reducer. It never mutates its input and returns the input
// unchanged for unknown action types, unknown collections and missing entries.
//
// Add actions are ignored while the target collection is not idle. Toggling the
// editing flag always flips it.
func Reduce(state State, action Action) State {
	if t, ok := addTarget(action.Type); ok {
		return addEntry(state, t, action.Payload.ID)
	}

	switch action.Type {
	case ActionSetFormData:
		return setFormData(state, action.Payload)
	case ActionSetFormIsEditing:
		return toggleEditing(state, action.Payload)
	case ActionRemoveForm:
		return removeEntry(state, action.Payload)
	default:
		return state
	}
}

func addEntry(state State, t FormType, id int64) State {
	if !IsIdle(state, t) {
		return state
	}
	if id == 0 {
		id = state.maxID() + 1
	}
	current := state.Collection(t)
	next := make([]Entry, len(current), len(current)+1)
	copy(next, current)
	next = append(next, Entry{
		ID:        id,
		Data:      defaultFields(t),
		IsEditing: true,
	})
	return state.withCollection(t, next)
}

func setFormData(state State, p Payload) State {
	current := state.Collection(p.FormType)
	idx := indexOf(current, p.ID)
	if idx < 0 {
		return state
	}
	next := make([]Entry, len(current))
	copy(next, current)
	next[idx] = Entry{
		ID:        current[idx].ID,
		Data:      current[idx].Data.Merge(p.FormData),
		IsEditing: current[idx].IsEditing,
	}
	return state.withCollection(p.FormType, next)
}

func toggleEditing(state State, p Payload) State {
	current := state.Collection(p.FormType)
	idx := indexOf(current, p.ID)
	if idx < 0 {
		return state
	}
	next := make([]Entry, len(current))
	copy(next, current)
	next[idx] = Entry{
		ID:        current[idx].ID,
		Data:      current[idx].Data,
		IsEditing: !current[idx].IsEditing,
	}
	return state.withCollection(p.FormType, next)
}

func removeEntry(state State, p Payload) State {
	current := state.Collection(p.FormType)
	if indexOf(current, p.ID) < 0 {
		return state
	}
	next := make([]Entry, 0, len(current)-1)
	for _, entry := range current {
		if entry.ID != p.ID {
			next = append(next, entry)
		}
	}
	return state.withCollection(p.FormType, next)
}

func indexOf(entries []Entry, id int64) int {
	for i, entry := range entries {
		if entry.ID == id {
			return i
		}
	}
	return -1
}

func hasEditing(entries []Entry) bool {
	for _, entry := range entries {
		if entry.IsEditing {
			return true
		}
	}
	return false
}
