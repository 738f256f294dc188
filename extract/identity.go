package extract

// Sentinel party codes used in the canonical tables for the pseudo-parties.
const (
	OtherMinorParties = "OTHER_MINOR_PARTIES"
	InvalidBlank      = "INVALID_BLANK"
	InvalidOther      = "INVALID_OTHER"
)

// IdentityKind tells what a PartyIdentity stands for.
type IdentityKind int

const (
	RealParty IdentityKind = iota
	AggregatedMinor
	SpoiledBlank
	SpoiledOther
)

func (k IdentityKind) String() string {
	switch k {
	case RealParty:
		return "party"
	case AggregatedMinor:
		return "aggregated-minor"
	case SpoiledBlank:
		return "spoiled-blank"
	case SpoiledOther:
		return "spoiled-other"
	}
	return "unknown"
}

// PartyIdentity is who a result belongs to: a real party, the aggregate of
// minor parties, or one of the spoiled-ballot categories. Compare identities
// by Kind, not by their code strings.
type PartyIdentity struct {
	Kind   IdentityKind
	code   string
	reason string
}

// Real returns the identity of a party with the given code.
func Real(code string) PartyIdentity { return PartyIdentity{Kind: RealParty, code: code} }

// Minor returns the aggregated-minor-parties identity.
func Minor() PartyIdentity { return PartyIdentity{Kind: AggregatedMinor} }

// Blank returns the identity of blank ballots.
func Blank() PartyIdentity { return PartyIdentity{Kind: SpoiledBlank} }

// Spoiled returns the identity of ballots rejected for reason.
func Spoiled(reason string) PartyIdentity {
	return PartyIdentity{Kind: SpoiledOther, reason: reason}
}

// Code is the party code written to the canonical tables.
func (p PartyIdentity) Code() string {
	switch p.Kind {
	case AggregatedMinor:
		return OtherMinorParties
	case SpoiledBlank:
		return InvalidBlank
	case SpoiledOther:
		return InvalidOther
	}
	return p.code
}

// Reason is the free-text reason of a SpoiledOther identity.
func (p PartyIdentity) Reason() string { return p.reason }

// Sentinel reports whether p is a pseudo-party.
func (p PartyIdentity) Sentinel() bool { return p.Kind != RealParty }

func (p PartyIdentity) String() string {
	if p.Kind == SpoiledOther && p.reason != "" {
		return InvalidOther + "(" + p.reason + ")"
	}
	return p.Code()
}
