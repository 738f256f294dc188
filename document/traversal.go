package document

// Step is one hop of a traversal: descend to children at Level whose tag is
// one of Tags.
type Step struct {
	Level Level
	Tags  []string
}

// Traversal is the ordered path from the nation to the result-bearing units
// of one election type.
type Traversal []Step

// traversals is the schema table. National and municipal files nest the
// municipalities inside riksdag constituencies; regional files carry results
// directly on the region.
var traversals = map[ElectionType]Traversal{
	National: {
		{Level: Region, Tags: []string{"LÄN"}},
		{Level: Constituency, Tags: []string{"KRETS_RIKSDAG"}},
		{Level: Municipality, Tags: []string{"KOMMUN"}},
	},
	Regional: {
		{Level: Region, Tags: []string{"LÄN"}},
	},
	Municipal: {
		{Level: Region, Tags: []string{"LÄN"}},
		{Level: Constituency, Tags: []string{"KRETS_RIKSDAG"}},
		{Level: Municipality, Tags: []string{"KOMMUN"}},
	},
}

// TraversalFor returns the traversal for t and whether one is defined.
func TraversalFor(t ElectionType) (Traversal, bool) {
	tr, ok := traversals[t]
	return tr, ok
}

// Walk follows tr from root and returns the nodes reached by the last step.
func (tr Traversal) Walk(root *GeoNode) []*GeoNode {
	nodes := []*GeoNode{root}
	for _, step := range tr {
		var next []*GeoNode
		for _, n := range nodes {
			next = append(next, n.ChildrenAt(step.Level, step.Tags)...)
		}
		nodes = next
	}
	return nodes
}

// Units returns the result-bearing units of the document according to its
// election type.
func (d *ElectionDocument) Units() []*GeoNode {
	tr, ok := traversals[d.Type]
	if !ok {
		return nil
	}
	return tr.Walk(d.Nation)
}
