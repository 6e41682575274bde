package rules

import "github.com/mechforge/mechforge/internal/validation/rule"

// RegisterAll installs the full construction rule library into the
// registry. This is the shared bootstrap point: application wiring calls
// it once against a fresh registry, so every rule id below is registered
// exactly once per process.
func RegisterAll(r *rule.Registry) error {
	if err := RegisterWeight(r); err != nil {
		return err
	}
	if err := RegisterTech(r); err != nil {
		return err
	}
	if err := RegisterConstruction(r); err != nil {
		return err
	}
	if err := RegisterSlots(r); err != nil {
		return err
	}
	if err := RegisterArmor(r); err != nil {
		return err
	}
	return nil
}
