package scheduler

// ZoneID identifies a gameplay area as reported by the zone subsystem.
type ZoneID string

// ZoneGate restricts break admission to an allow-list of zones. An empty
// allow-list permits every zone.
type ZoneGate struct {
	allowed map[ZoneID]struct{}
	current ZoneID
}

func NewZoneGate(allowed []string) *ZoneGate {
	g := &ZoneGate{allowed: make(map[ZoneID]struct{}, len(allowed))}
	for _, z := range allowed {
		g.allowed[ZoneID(z)] = struct{}{}
	}
	return g
}

func (g *ZoneGate) Set(zone ZoneID) {
	g.current = zone
}

func (g *ZoneGate) Current() ZoneID {
	return g.current
}

func (g *ZoneGate) Allowed(zone ZoneID) bool {
	if len(g.allowed) == 0 {
		return true
	}
	_, ok := g.allowed[zone]
	return ok
}

func (g *ZoneGate) CurrentAllowed() bool {
	return g.Allowed(g.current)
}
