package migration

// Peer-group names used for chart coloring.
const (
	GroupFocal        = "focal"
	GroupSameRegion   = "same-region"
	GroupAspirational = "aspirational"
	GroupPeer         = "peer"
	GroupOther        = "other"
)

// Groups classifies metro areas into named peer groups by membership
// lists. The lists are configuration data, loaded at startup, so
// membership stays auditable away from chart code.
type Groups struct {
	byCode map[int]string
}

// NewGroups builds the lookup. Later lists do not override earlier ones,
// so a code appearing twice keeps its first classification (focal wins
// over same-region and so on).
func NewGroups(focal int, sameRegion, aspirational, peers []int) *Groups {
	g := &Groups{byCode: make(map[int]string)}
	g.add([]int{focal}, GroupFocal)
	g.add(sameRegion, GroupSameRegion)
	g.add(aspirational, GroupAspirational)
	g.add(peers, GroupPeer)
	return g
}

func (g *Groups) add(codes []int, name string) {
	for _, c := range codes {
		if _, ok := g.byCode[c]; !ok {
			g.byCode[c] = name
		}
	}
}

// Classify returns the peer group for a metro code, "other" when the code
// is in no list.
func (g *Groups) Classify(code int) string {
	if name, ok := g.byCode[code]; ok {
		return name
	}
	return GroupOther
}
