package components

// FieldDescriptor describes a component field for UI display.
type FieldDescriptor struct {
	ID     string  // Unique identifier
	Label  string  // Display name
	Format string  // Printf format (e.g., "%.2f")
	Min    float32 // Minimum value (for bars)
	Max    float32 // Maximum value (for bars)
	IsBar  bool    // True to render as progress bar
	Group  string  // Logical grouping
}

// String returns the display name for a BehaviorState.
func (s BehaviorState) String() string {
	names := BehaviorStateNames()
	if int(s) < len(names) {
		return names[s]
	}
	return "Unknown"
}

// BehaviorStateNames returns the display names for all behavior states.
// The order matches the BehaviorState constants.
func BehaviorStateNames() []string {
	return []string{"Wandering", "Engaging"}
}

// CreatureFieldDescriptors returns metadata for the inspector panel rows.
func CreatureFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "vigor", Label: "Vigor", Format: "%.0f/%.0f", Min: 0, Max: 1, IsBar: true, Group: "state"},
		{ID: "state", Label: "State", Group: "state"},
		{ID: "fingerprint", Label: "Fingerprint", Format: "%d", Group: "genome"},
		{ID: "attack_power", Label: "Attack", Format: "%.2f", Group: "genome"},
		{ID: "move_speed", Label: "Speed", Format: "%.2f", Group: "genome"},
		{ID: "hit_cooldown", Label: "Hit CD", Format: "%.2fs", Group: "genome"},
		{ID: "reproduce_cooldown", Label: "Repro CD", Format: "%.2fs", Group: "genome"},
		{ID: "generation", Label: "Generation", Format: "%d", Group: "lineage"},
	}
}
