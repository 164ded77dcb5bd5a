package domain

// NetworkNode is one user in the collaboration graph. Nodes are rebuilt from
// the profile on every upsert; manual edits to node fields do not survive.
type NetworkNode struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Group  string `json:"group"`
	Field  string `json:"field"`
}

// NetworkEdge connects two users who share at least one specialization.
// The pair is unordered: at most one edge exists per user pair regardless of
// which direction it was inserted in.
type NetworkEdge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Label    string `json:"label"`
	Strength int    `json:"strength"`
}

// Connects reports whether the edge links users a and b in either direction.
func (e NetworkEdge) Connects(a, b string) bool {
	return (e.From == a && e.To == b) || (e.From == b && e.To == a)
}

// Touches reports whether the edge is incident to the given user.
func (e NetworkEdge) Touches(id string) bool {
	return e.From == id || e.To == id
}

// NetworkGraph is the derived graph of users and shared-specialization links.
type NetworkGraph struct {
	Nodes []NetworkNode `json:"nodes"`
	Edges []NetworkEdge `json:"edges"`
}
