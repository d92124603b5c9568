package model

import (
	"encoding/json"
	"fmt"
)

// PatchPersonalInfo shallow-merges patch into the personal info. Keys absent
// from patch keep their value.
func (r *Resume) PatchPersonalInfo(patch any) error {
	raw, err := toJSON(patch)
	if err != nil {
		return fmt.Errorf("model: encoding personal info patch: %w", err)
	}
	next := r.PersonalInfo
	if err := json.Unmarshal(raw, &next); err != nil {
		return fmt.Errorf("model: applying personal info patch: %w", err)
	}
	r.PersonalInfo = next
	return nil
}

// PatchCustomization shallow-merges patch into the customization. When the
// patch names a template it is copied to the top-level Template as well.
func (r *Resume) PatchCustomization(patch any) error {
	raw, err := toJSON(patch)
	if err != nil {
		return fmt.Errorf("model: encoding customization patch: %w", err)
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return fmt.Errorf("model: applying customization patch: %w", err)
	}
	next := r.Customization
	if err := json.Unmarshal(raw, &next); err != nil {
		return fmt.Errorf("model: applying customization patch: %w", err)
	}
	r.Customization = next
	if _, ok := keys["template"]; ok {
		r.Template = next.Template
	}
	return nil
}
