package rule

import "github.com/mechforge/mechforge/internal/unit"

// Options carries caller-supplied filters and budgets for one pass.
type Options struct {
	// SkipRules lists rule ids excluded from the pass.
	SkipRules []string
	// Categories, when non-empty, keeps only rules in these categories.
	Categories []Category
	// MaxErrors stops the pass once the running error count reaches it.
	// Zero means no budget.
	MaxErrors int
	// TargetYear is the campaign year availability rules check against.
	// Zero means no era constraint.
	TargetYear int
	// RulesLevelCeiling caps the permitted rules level. Empty means no
	// ceiling.
	RulesLevelCeiling unit.RulesLevel
	// Extra carries free-form caller options for custom rules.
	Extra map[string]any
}

// SkipsRule reports whether the skip list names the rule id.
func (o *Options) SkipsRule(id string) bool {
	if o == nil {
		return false
	}
	for _, skip := range o.SkipRules {
		if skip == id {
			return true
		}
	}
	return false
}

// KeepsCategory reports whether the category filter admits the category.
// An empty filter admits everything.
func (o *Options) KeepsCategory(cat Category) bool {
	if o == nil || len(o.Categories) == 0 {
		return true
	}
	for _, keep := range o.Categories {
		if keep == cat {
			return true
		}
	}
	return false
}

// Context is the read-only bundle passed to every rule in one pass.
//
// The Cache map is the only mutable surface: rules may memoize
// sub-computations there for the duration of a single pass. It is never
// persisted across passes.
type Context struct {
	Unit       *unit.Unit
	Subtype    unit.Subtype
	Category   unit.Category
	TechBase   unit.TechBase
	RulesLevel unit.RulesLevel
	Options    *Options
	Cache      map[string]any
}

// NewContext builds a pass context from a unit and options, resolving
// the unit's classification. A nil options pointer is replaced with an
// empty Options so rules never need a nil check.
func NewContext(u *unit.Unit, opts *Options) *Context {
	if opts == nil {
		opts = &Options{}
	}
	ctx := &Context{
		Unit:    u,
		Options: opts,
		Cache:   make(map[string]any),
	}
	if u != nil {
		ctx.Subtype = u.Subtype
		ctx.Category = u.Category()
		ctx.TechBase = u.TechBase
		ctx.RulesLevel = u.RulesLevel
	}
	return ctx
}
