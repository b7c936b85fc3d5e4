package match

import "github.com/arnavasoni/tango/internal/model"

// Registry maps the closed category set to matcher implementations. An
// unknown category is a lookup miss the orchestrator reports, never a panic.
type Registry map[model.Category]Matcher

// NewRegistry wires every known category to its matcher with one shared
// configuration.
func NewRegistry(cfg Config) Registry {
	matchers := []Matcher{
		NewMBAGProduction(cfg),
		NewMBAGAfterSales(cfg),
		NewMBAGCBU(cfg),
		NewMBUSACBU(cfg),
		NewMBUSI(cfg),
		NewBBACProduction(cfg),
		NewBBACAfterSales(cfg),
		NewAPAC(cfg),
	}

	r := make(Registry, len(matchers))
	for _, m := range matchers {
		r[m.Category()] = m
	}
	return r
}

// For returns the matcher registered for a category.
func (r Registry) For(category model.Category) (Matcher, bool) {
	m, ok := r[category]
	return m, ok
}
