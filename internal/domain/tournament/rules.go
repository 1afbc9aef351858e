package tournament

// DefaultRules is the rule sheet attached to tournaments created without
// an explicit one.
func DefaultRules() []string {
	return []string{
		"No emulators allowed - only mobile devices",
		"No teaming, hacking or cheating",
		"Kill + rank points calculation",
		"Be punctual - late entry not allowed",
		"Screenshots required for verification",
		"Follow room guidelines strictly",
		"Respect other players and admins",
		"Admin decisions are final",
	}
}
