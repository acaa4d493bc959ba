package contact

// PeerState is what the tie-break needs to know about one side of a pair.
type PeerState struct {
	Reflected bool
	Empowered bool
}

// Outcome of a peer tie-break.
type Outcome uint8

const (
	// OutcomeNone means no tie-break; ordinary accounting applies.
	OutcomeNone Outcome = iota
	OutcomeDestroyBoth
	OutcomeDestroyFirst
	OutcomeDestroySecond
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDestroyBoth:
		return "destroy_both"
	case OutcomeDestroyFirst:
		return "destroy_first"
	case OutcomeDestroySecond:
		return "destroy_second"
	default:
		return "none"
	}
}

// Swap returns the outcome seen from the other side of the pair.
func (o Outcome) Swap() Outcome {
	switch o {
	case OutcomeDestroyFirst:
		return OutcomeDestroySecond
	case OutcomeDestroySecond:
		return OutcomeDestroyFirst
	default:
		return o
	}
}

// ResolvePeers decides mutual destruction between two same-type projectiles.
// Only a reflected, empowered projectile survives an unreflected one.
func ResolvePeers(first, second PeerState) Outcome {
	switch {
	case !first.Reflected && !second.Reflected:
		return OutcomeNone
	case first.Reflected && second.Reflected:
		return OutcomeDestroyBoth
	case first.Reflected:
		if first.Empowered {
			return OutcomeDestroySecond
		}
		return OutcomeDestroyBoth
	default:
		if second.Empowered {
			return OutcomeDestroyFirst
		}
		return OutcomeDestroyBoth
	}
}
