package tournament

// Bracket groups a roster into play units for a tournament type. Groups
// follow roster order with no shuffling, so output is deterministic for a
// given roster.
type Bracket struct {
	Type   Type
	Groups [][]string
}

func (b Bracket) GroupCount() int {
	return len(b.Groups)
}

// GenerateBrackets builds the play units: solo keeps everyone in one group,
// duo pairs consecutive entries (a trailing odd participant is an explicit
// bye singleton), squad cuts consecutive groups of four with a short final
// group when the roster does not divide evenly.
func GenerateBrackets(participants []string, t Type) Bracket {
	switch t {
	case TypeDuo:
		return groupedBracket(participants, TypeDuo, 2)
	case TypeSquad:
		return groupedBracket(participants, TypeSquad, 4)
	default:
		group := make([]string, len(participants))
		copy(group, participants)
		return Bracket{Type: TypeSolo, Groups: [][]string{group}}
	}
}

func groupedBracket(participants []string, t Type, size int) Bracket {
	groups := make([][]string, 0, (len(participants)+size-1)/size)
	for start := 0; start < len(participants); start += size {
		end := start + size
		if end > len(participants) {
			end = len(participants)
		}
		group := make([]string, end-start)
		copy(group, participants[start:end])
		groups = append(groups, group)
	}
	return Bracket{Type: t, Groups: groups}
}
