package rule

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	apperrors "github.com/mechforge/mechforge/internal/platform/errors"
	"github.com/mechforge/mechforge/internal/unit"
)

var (
	// ErrRuleIDRequired indicates a missing rule id.
	ErrRuleIDRequired = apperrors.New(apperrors.CodeRuleIDRequired, "rule id is required")
	// ErrValidateRequired indicates a definition without a validate function.
	ErrValidateRequired = apperrors.New(apperrors.CodeRuleValidateRequired, "rule validate function is required")
	// ErrCategoryRequired indicates a definition without a category.
	ErrCategoryRequired = apperrors.New(apperrors.CodeRuleCategoryRequired, "rule category is required")
	// ErrDuplicateRuleID indicates the id is already registered in some tier.
	ErrDuplicateRuleID = apperrors.New(apperrors.CodeRuleDuplicateID, "rule id is already registered")
	// ErrUnknownReference indicates an overrides/extends target that is not
	// registered. References must point at already-registered rules, which
	// also keeps the relation graph acyclic.
	ErrUnknownReference = apperrors.New(apperrors.CodeRuleUnknownReference, "rule reference is not registered")
	// ErrExtendExtension indicates an extends target that is itself an
	// extension. Extension chains fold one level deep only.
	ErrExtendExtension = apperrors.New(apperrors.CodeRuleExtendExtension, "cannot extend an extension rule")
)

// tier identifies which applicability tier a rule was registered into.
type tier int

const (
	tierUniversal tier = iota
	tierCategory
	tierSubtype
)

// entry is a registered rule plus its tier key and mutable enabled flag.
type entry struct {
	def          *Definition
	tier         tier
	unitCategory unit.Category
	subtype      unit.Subtype
	seq          uint64
	enabled      bool
}

// Registry stores construction rules across three applicability tiers and
// resolves effective, ordered rule sets per subtype.
//
// Resolution results are memoized per subtype under a monotonic generation
// counter: every structural mutation bumps the generation, and stale cache
// entries are recomputed lazily on the next read. Repeated reads between
// mutations return the same slice instance so callers can detect "no
// change" by reference comparison.
type Registry struct {
	mu         sync.RWMutex
	entries    map[string]*entry
	nextSeq    uint64
	generation uint64
	cache      map[unit.Subtype]*cacheEntry
}

type cacheEntry struct {
	generation uint64
	rules      []*Resolved
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		cache:   make(map[unit.Subtype]*cacheEntry),
	}
}

// RegisterUniversal registers a rule that applies to every subtype.
func (r *Registry) RegisterUniversal(def *Definition) error {
	return r.register(def, &entry{tier: tierUniversal})
}

// RegisterCategory registers a rule for all subtypes in a unit category.
func (r *Registry) RegisterCategory(category unit.Category, def *Definition) error {
	if category == "" {
		return fmt.Errorf("unit category is required")
	}
	return r.register(def, &entry{tier: tierCategory, unitCategory: category})
}

// RegisterSubtype registers a rule for one specific subtype.
func (r *Registry) RegisterSubtype(subtype unit.Subtype, def *Definition) error {
	if subtype == "" {
		return fmt.Errorf("unit subtype is required")
	}
	return r.register(def, &entry{tier: tierSubtype, subtype: subtype})
}

func (r *Registry) register(def *Definition, e *entry) error {
	if def == nil {
		return ErrRuleIDRequired
	}
	id := strings.TrimSpace(def.ID)
	if id == "" {
		return ErrRuleIDRequired
	}
	if def.Validate == nil {
		return ErrValidateRequired
	}
	if def.Category == "" {
		return ErrCategoryRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; exists {
		return apperrors.WithMetadata(
			apperrors.CodeRuleDuplicateID,
			fmt.Sprintf("rule %s is already registered", id),
			map[string]string{"RuleID": id},
		)
	}
	if def.Overrides != "" {
		if _, ok := r.entries[def.Overrides]; !ok {
			return apperrors.WithMetadata(
				apperrors.CodeRuleUnknownReference,
				fmt.Sprintf("rule %s overrides unknown rule %s", id, def.Overrides),
				map[string]string{"RuleID": id, "Reference": def.Overrides},
			)
		}
	}
	if def.Extends != "" {
		base, ok := r.entries[def.Extends]
		if !ok {
			return apperrors.WithMetadata(
				apperrors.CodeRuleUnknownReference,
				fmt.Sprintf("rule %s extends unknown rule %s", id, def.Extends),
				map[string]string{"RuleID": id, "Reference": def.Extends},
			)
		}
		if base.def.Extends != "" {
			return apperrors.WithMetadata(
				apperrors.CodeRuleExtendExtension,
				fmt.Sprintf("rule %s cannot extend extension %s", id, def.Extends),
				map[string]string{"RuleID": id, "Reference": def.Extends},
			)
		}
	}

	copied := *def
	copied.ID = id
	e.def = &copied
	e.seq = r.nextSeq
	e.enabled = true
	r.nextSeq++
	r.entries[id] = e
	r.generation++
	return nil
}

// Unregister removes a rule from whichever tier holds it. Unknown ids are
// a no-op. References left dangling by the removal are ignored at resolve
// time.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return
	}
	delete(r.entries, id)
	r.generation++
}

// Enable re-enables a rule. Unknown ids are a no-op.
func (r *Registry) Enable(id string) {
	r.setEnabled(id, true)
}

// Disable disables a rule: it stays registered and stays in resolved
// sets, but CanValidate reports false under every context.
func (r *Registry) Disable(id string) {
	r.setEnabled(id, false)
}

func (r *Registry) setEnabled(id string, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || e.enabled == enabled {
		return
	}
	e.enabled = enabled
	r.generation++
}

// Rule returns the registered definition for an id.
func (r *Registry) Rule(id string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.def, true
}

// IsEnabled reports the enabled flag for an id. Unknown ids report false.
func (r *Registry) IsEnabled(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return ok && e.enabled
}

// ListDefinitions returns all registered definitions sorted by id.
func (r *Registry) ListDefinitions() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]*Definition, 0, len(r.entries))
	for _, e := range r.entries {
		defs = append(defs, e.def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}

// Clear removes all rules from all tiers in one critical section.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]*entry)
	r.cache = make(map[unit.Subtype]*cacheEntry)
	r.generation++
}

// RulesForSubtype resolves the effective, ordered rule list for a
// subtype: universal rules, plus category rules matching the subtype's
// category, plus rules registered for the exact subtype. Overridden
// rules are suppressed and extensions fold into their base rule. The
// list is sorted by priority ascending, ties broken by registration
// order.
func (r *Registry) RulesForSubtype(subtype unit.Subtype) []*Resolved {
	r.mu.RLock()
	if ce, ok := r.cache[subtype]; ok && ce.generation == r.generation {
		rules := ce.rules
		r.mu.RUnlock()
		return rules
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if ce, ok := r.cache[subtype]; ok && ce.generation == r.generation {
		return ce.rules
	}
	rules := r.resolveLocked(subtype)
	r.cache[subtype] = &cacheEntry{generation: r.generation, rules: rules}
	return rules
}

// ResolveRule materializes a single rule by id for direct execution,
// with its extensions folded in under the same suppression semantics as
// RulesForSubtype. The id may name a rule in any tier; applicability is
// still checked per context at execution time.
func (r *Registry) ResolveRule(id string) (*Resolved, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return r.materializeLocked(e, r.extensionsLocked(r.overriddenLocked())[id]), true
}

// resolveLocked recomputes the effective set. Override suppression runs
// before sorting so a suppressed rule never appears even transiently.
func (r *Registry) resolveLocked(subtype unit.Subtype) []*Resolved {
	category := unit.CategoryOf(subtype)

	overridden := r.overriddenLocked()
	extensions := r.extensionsLocked(overridden)

	var bases []*entry
	for _, e := range r.entries {
		if e.def.Extends != "" {
			continue // folds into its base
		}
		if _, ok := overridden[e.def.ID]; ok {
			continue
		}
		switch e.tier {
		case tierUniversal:
			// applies everywhere
		case tierCategory:
			if e.unitCategory != category {
				continue
			}
		case tierSubtype:
			if e.subtype != subtype {
				continue
			}
		}
		if !e.def.appliesTo(subtype) {
			continue
		}
		bases = append(bases, e)
	}

	sort.Slice(bases, func(i, j int) bool {
		pi, pj := bases[i].def.effectivePriority(), bases[j].def.effectivePriority()
		if pi != pj {
			return pi < pj
		}
		return bases[i].seq < bases[j].seq
	})

	resolved := make([]*Resolved, 0, len(bases))
	for _, e := range bases {
		resolved = append(resolved, r.materializeLocked(e, extensions[e.def.ID]))
	}
	return resolved
}

// overriddenLocked collects every rule id suppressed by an override.
func (r *Registry) overriddenLocked() map[string]struct{} {
	overridden := make(map[string]struct{})
	for _, e := range r.entries {
		if e.def.Overrides != "" {
			overridden[e.def.Overrides] = struct{}{}
		}
	}
	return overridden
}

// extensionsLocked groups extension entries by base id in registration
// order, skipping extensions that are themselves suppressed.
func (r *Registry) extensionsLocked(overridden map[string]struct{}) map[string][]*entry {
	extensions := make(map[string][]*entry)
	for _, e := range r.entries {
		base := e.def.Extends
		if base == "" {
			continue
		}
		if overridden != nil {
			if _, ok := overridden[e.def.ID]; ok {
				continue
			}
		}
		if _, ok := r.entries[base]; !ok {
			continue // base was unregistered
		}
		extensions[base] = append(extensions[base], e)
	}
	for _, exts := range extensions {
		sort.Slice(exts, func(i, j int) bool { return exts[i].seq < exts[j].seq })
	}
	return extensions
}

// materializeLocked builds the composite executable for a base entry and
// its extensions. The composite keeps the base's id, priority, and
// applicability; execution runs the base check first, then each
// extension, merging all findings under the base id.
func (r *Registry) materializeLocked(base *entry, exts []*entry) *Resolved {
	steps := make([]ValidateFunc, 0, 1+len(exts))
	steps = append(steps, base.def.Validate)
	for _, ext := range exts {
		if !ext.enabled {
			continue
		}
		steps = append(steps, ext.def.Validate)
	}
	return &Resolved{
		ID:          base.def.ID,
		Name:        base.def.Name,
		Description: base.def.Description,
		Category:    base.def.Category,
		Priority:    base.def.effectivePriority(),
		Enabled:     base.enabled,
		subtypes:    base.def.ApplicableSubtypes,
		canValidate: base.def.CanValidate,
		steps:       steps,
	}
}

// Resolved is a materialized, executable rule: the base definition's
// identity plus the chained validate steps of any extensions.
type Resolved struct {
	ID          string
	Name        string
	Description string
	Category    Category
	Priority    int
	Enabled     bool

	subtypes    []unit.Subtype
	canValidate CanValidateFunc
	steps       []ValidateFunc
}

// CanValidate reports whether the rule applies under the context.
// Disabled rules report false universally; otherwise the base rule's
// allow-list and predicate decide.
func (rr *Resolved) CanValidate(ctx *Context) bool {
	if !rr.Enabled {
		return false
	}
	if len(rr.subtypes) > 0 && ctx != nil {
		found := false
		for _, st := range rr.subtypes {
			if st == ctx.Subtype {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if rr.canValidate != nil {
		return rr.canValidate(ctx)
	}
	return true
}

// Execute runs the base check then each extension check, merging their
// findings into one result keyed by the base id. The result passes only
// when every step passed and no error findings were produced.
func (rr *Resolved) Execute(ctx *Context) Result {
	start := time.Now()
	merged := Result{RuleID: rr.ID, Passed: true}
	for _, step := range rr.steps {
		out := step(ctx)
		merged.Errors = append(merged.Errors, out.Errors...)
		merged.Warnings = append(merged.Warnings, out.Warnings...)
		merged.Infos = append(merged.Infos, out.Infos...)
		if !out.Passed {
			merged.Passed = false
		}
	}
	if len(merged.Errors) > 0 {
		merged.Passed = false
	}
	merged.Duration = time.Since(start)
	return merged
}
