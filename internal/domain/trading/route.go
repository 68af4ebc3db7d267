package trading

// Route is a directed (source, destination) region pair evaluated for
// arbitrage: buy in Source, sell in Destination.
type Route struct {
	Source      string
	Destination string
}

func (r Route) String() string {
	return r.Source + " → " + r.Destination
}

// ExpandPairs expands unordered region pairs into directed routes covering
// both directions: pair (A, B) becomes routes A→B and B→A.
func ExpandPairs(pairs [][2]string) []Route {
	routes := make([]Route, 0, len(pairs)*2)
	for _, p := range pairs {
		routes = append(routes,
			Route{Source: p[0], Destination: p[1]},
			Route{Source: p[1], Destination: p[0]},
		)
	}
	return routes
}
