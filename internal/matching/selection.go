package matching

import (
	"sort"

	"github.com/google/uuid"

	"github.com/jonathan/talent-graph/internal/graph"
	"github.com/jonathan/talent-graph/internal/types"
)

// SelectContent derives the renderer emphasis summary from a match result:
// the projects and skills that appeared in any matched or partial evidence
// set, directly or on the evidence path back to the root. All profile
// sections still render; this only decides emphasis.
func SelectContent(g *graph.Graph, result *types.MatchResult) types.SelectedContent {
	projects := make(map[uuid.UUID]bool)
	skills := make(map[uuid.UUID]bool)

	collect := func(nodeID string) {
		n := g.Node(nodeID)
		if n == nil {
			return
		}
		entityID, ok := n.Attributes["entity_id"].(string)
		if !ok {
			return
		}
		id, err := uuid.Parse(entityID)
		if err != nil {
			return
		}
		switch n.Type {
		case graph.NodeProject:
			projects[id] = true
		case graph.NodeSkill:
			skills[id] = true
		}
	}

	for _, match := range result.Matched {
		for _, item := range match.Evidence {
			collect(item.NodeID)
			// Pull in the supporting nodes along the evidence path, so a
			// skill matched through a project also selects that project.
			for _, e := range g.EdgesToRoot(item.NodeID) {
				collect(e.Source)
			}
		}
	}

	selected := types.SelectedContent{
		ProjectIDs:    sortedIDs(projects),
		SkillIDs:      sortedIDs(skills),
		MatchStrength: result.MatchStrength,
	}
	return selected
}

func sortedIDs(set map[uuid.UUID]bool) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}
