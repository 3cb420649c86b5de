package game

import "encoding/json"

// ActedSet is the set of player ids that have acted since the round's bet
// level last changed. In memory it behaves as a set; on the wire it is an
// ordered list of ids (insertion order, duplicates impossible by
// construction), so it survives JSON round trips to external collaborators.
type ActedSet struct {
	ids []string
}

// NewActedSet returns an empty set
func NewActedSet() ActedSet {
	return ActedSet{}
}

// Add inserts an id; adding an existing id is a no-op
func (a *ActedSet) Add(id string) {
	if a.Has(id) {
		return
	}
	a.ids = append(a.ids, id)
}

// Has reports whether the id is in the set
func (a ActedSet) Has(id string) bool {
	for _, existing := range a.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// Len returns the number of ids in the set
func (a ActedSet) Len() int {
	return len(a.ids)
}

// Clone returns an independent copy
func (a ActedSet) Clone() ActedSet {
	return ActedSet{ids: append([]string(nil), a.ids...)}
}

// MarshalJSON encodes the set as an ordered JSON array of ids
func (a ActedSet) MarshalJSON() ([]byte, error) {
	if a.ids == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a.ids)
}

// UnmarshalJSON decodes an array of ids, dropping any duplicates
func (a *ActedSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	a.ids = nil
	for _, id := range ids {
		a.Add(id)
	}
	return nil
}
