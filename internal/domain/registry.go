package domain

// Registry is the single persisted document: every user profile, the static
// category table, and the derived collaboration network. It is read fully
// into memory, mutated, and rewritten wholesale on every change.
type Registry struct {
	Users      []UserProfile           `json:"users"`
	Categories map[string]CategoryInfo `json:"categories"`
	Network    NetworkGraph            `json:"network"`
}

// NewRegistry returns an empty registry document, the bootstrap state used
// when no registry file exists yet.
func NewRegistry() *Registry {
	return &Registry{
		Users:      []UserProfile{},
		Categories: map[string]CategoryInfo{},
	}
}

// FindUser returns the index of the user with the given ID, or -1.
func (r *Registry) FindUser(id string) int {
	for i := range r.Users {
		if r.Users[i].ID == id {
			return i
		}
	}
	return -1
}
