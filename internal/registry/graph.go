package registry

import (
	"strings"

	"github.com/myshelfapp/myshelf-server/internal/domain"
)

// defaultNodeGroup is the group every generated node belongs to; the
// dashboard uses it for node coloring.
const defaultNodeGroup = "student"

// fieldFallback labels nodes for users without any mapped specialization.
const fieldFallback = "その他"

// maxSharedInLabel caps how many shared specializations an edge label shows.
const maxSharedInLabel = 2

// UpsertUser replaces the profile with the same ID in place, or appends it.
// Reports whether an existing profile was replaced.
func UpsertUser(reg *domain.Registry, profile *domain.UserProfile) bool {
	if idx := reg.FindUser(profile.ID); idx >= 0 {
		reg.Users[idx] = *profile
		return true
	}
	reg.Users = append(reg.Users, *profile)
	return false
}

// UpsertNode rebuilds the user's network node from the profile and replaces
// or appends it. Manually edited node fields do not survive an upsert.
func UpsertNode(reg *domain.Registry, profile *domain.UserProfile) {
	node := domain.NetworkNode{
		ID:     profile.ID,
		Label:  profile.Name,
		Name:   profile.Name,
		Avatar: profile.Avatar,
		Group:  defaultNodeGroup,
		Field:  nodeField(profile.Specializations),
	}

	for i := range reg.Network.Nodes {
		if reg.Network.Nodes[i].ID == profile.ID {
			reg.Network.Nodes[i] = node
			return
		}
	}
	reg.Network.Nodes = append(reg.Network.Nodes, node)
}

// nodeField joins the top two specializations as the node's field label.
func nodeField(specializations []string) string {
	if len(specializations) == 0 {
		return fieldFallback
	}
	if len(specializations) > 2 {
		specializations = specializations[:2]
	}
	return strings.Join(specializations, ", ")
}

// ConnectUsers infers shared-specialization edges for the given profile
// against every other user in the registry. An edge is added only when the
// specialization intersection is non-empty and no edge for that unordered
// pair exists yet. Returns the number of edges added.
func ConnectUsers(reg *domain.Registry, profile *domain.UserProfile) int {
	added := 0
	for i := range reg.Users {
		other := &reg.Users[i]
		if other.ID == profile.ID {
			continue
		}

		shared := sharedSpecializations(profile.Specializations, other.Specializations)
		if len(shared) == 0 {
			continue
		}
		if hasEdge(reg, profile.ID, other.ID) {
			continue
		}

		label := shared
		if len(label) > maxSharedInLabel {
			label = label[:maxSharedInLabel]
		}
		reg.Network.Edges = append(reg.Network.Edges, domain.NetworkEdge{
			From:     profile.ID,
			To:       other.ID,
			Label:    "共通分野: " + strings.Join(label, ", "),
			Strength: len(shared),
		})
		added++
	}
	return added
}

// RemoveNode deletes the user's node and every edge incident to it.
func RemoveNode(reg *domain.Registry, id string) {
	nodes := reg.Network.Nodes[:0]
	for _, node := range reg.Network.Nodes {
		if node.ID != id {
			nodes = append(nodes, node)
		}
	}
	reg.Network.Nodes = nodes

	edges := reg.Network.Edges[:0]
	for _, edge := range reg.Network.Edges {
		if !edge.Touches(id) {
			edges = append(edges, edge)
		}
	}
	reg.Network.Edges = edges
}

// sharedSpecializations returns the intersection of a and b, preserving a's
// order so edge labels are deterministic.
func sharedSpecializations(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, s := range b {
		inB[s] = true
	}
	var shared []string
	for _, s := range a {
		if inB[s] {
			shared = append(shared, s)
		}
	}
	return shared
}

// hasEdge checks both orderings of the pair, so re-running inference never
// duplicates an edge.
func hasEdge(reg *domain.Registry, a, b string) bool {
	for _, edge := range reg.Network.Edges {
		if edge.Connects(a, b) {
			return true
		}
	}
	return false
}
