package domain

import "strings"

// KDDKind classifies a spec document into one of 15 recognized tags.
type KDDKind string

const (
	KindEntity         KDDKind = "entity"
	KindEvent          KDDKind = "event"
	KindBusinessRule   KDDKind = "business-rule"
	KindBusinessPolicy KDDKind = "business-policy"
	KindCrossPolicy    KDDKind = "cross-policy"
	KindCommand        KDDKind = "command"
	KindQuery          KDDKind = "query"
	KindProcess        KDDKind = "process"
	KindUseCase        KDDKind = "use-case"
	KindUIView         KDDKind = "ui-view"
	KindUIComponent    KDDKind = "ui-component"
	KindRequirement    KDDKind = "requirement"
	KindObjective      KDDKind = "objective"
	KindPRD            KDDKind = "prd"
	KindADR            KDDKind = "adr"
)

// kindPrefixes maps each KDDKind to the fixed node-ID prefix used in
// "{KindPrefix}:{DocumentId}".
var kindPrefixes = map[KDDKind]string{
	KindEntity:         "Entity",
	KindEvent:          "Event",
	KindBusinessRule:   "BR",
	KindBusinessPolicy: "BP",
	KindCrossPolicy:    "XP",
	KindCommand:        "CMD",
	KindQuery:          "QRY",
	KindProcess:        "PROC",
	KindUseCase:        "UC",
	KindUIView:         "UIView",
	KindUIComponent:    "UIComp",
	KindRequirement:    "REQ",
	KindObjective:      "OBJ",
	KindPRD:            "PRD",
	KindADR:            "ADR",
}

// allKinds is the closed set of recognized kinds, used for validation.
var allKinds = map[KDDKind]bool{
	KindEntity: true, KindEvent: true, KindBusinessRule: true,
	KindBusinessPolicy: true, KindCrossPolicy: true, KindCommand: true,
	KindQuery: true, KindProcess: true, KindUseCase: true, KindUIView: true,
	KindUIComponent: true, KindRequirement: true, KindObjective: true,
	KindPRD: true, KindADR: true,
}

// KindPrefix returns the canonical node-ID prefix for a kind and whether the
// kind is recognized.
func KindPrefix(k KDDKind) (string, bool) {
	p, ok := kindPrefixes[k]
	return p, ok
}

// ParseKind normalizes a raw front-matter kind value (trimmed,
// case-insensitive) against the closed set of 15 recognized kinds.
func ParseKind(raw string) (KDDKind, bool) {
	k := KDDKind(strings.ToLower(strings.TrimSpace(raw)))
	if !allKinds[k] {
		return "", false
	}
	return k, true
}

// expectedPathSegment is the directory segment a kind's documents are
// conventionally filed under, used only to produce a location warning — it
// never blocks routing.
var expectedPathSegment = map[KDDKind]string{
	KindEntity:         "entities/",
	KindEvent:          "events/",
	KindBusinessRule:   "business-rules/",
	KindBusinessPolicy: "business-policies/",
	KindCrossPolicy:    "cross-policies/",
	KindCommand:        "commands/",
	KindQuery:          "queries/",
	KindProcess:        "processes/",
	KindUseCase:        "use-cases/",
	KindUIView:         "ui-views/",
	KindUIComponent:    "ui-components/",
	KindRequirement:    "requirements/",
	KindObjective:      "objectives/",
	KindPRD:            "prds/",
	KindADR:            "adrs/",
}

// ExpectedPathSegment returns the conventional directory segment for a kind.
func ExpectedPathSegment(k KDDKind) (string, bool) {
	s, ok := expectedPathSegment[k]
	return s, ok
}

// knownWikiLinkPrefixes maps a wiki-link's leading token (e.g. "BR-") to the
// node-ID prefix it resolves to, used by the wiki-link edge resolver.
var knownWikiLinkPrefixes = map[string]string{
	"EVT-":  "Event",
	"BR-":   "BR",
	"BP-":   "BP",
	"XP-":   "XP",
	"CMD-":  "CMD",
	"QRY-":  "QRY",
	"UC-":   "UC",
	"PROC-": "PROC",
	"REQ-":  "REQ",
	"OBJ-":  "OBJ",
	"ADR-":  "ADR",
	"PRD-":  "PRD",
	"UI-":   "UIView",
}

// ResolveWikiLinkPrefix returns the node-ID prefix a raw wiki-link target
// resolves to, defaulting to Entity when no known prefix matches.
func ResolveWikiLinkPrefix(target string) string {
	for prefix, nodePrefix := range knownWikiLinkPrefixes {
		if strings.HasPrefix(target, prefix) {
			return nodePrefix
		}
	}
	return "Entity"
}

// kindByPrefix is the inverse of kindPrefixes, used to guess a destination
// node's kind (and thus layer) from its resolved node-ID prefix.
var kindByPrefix = func() map[string]KDDKind {
	m := make(map[string]KDDKind, len(kindPrefixes))
	for k, p := range kindPrefixes {
		m[p] = k
	}
	return m
}()

// KindForPrefix returns the kind that owns a given node-ID prefix.
func KindForPrefix(prefix string) (KDDKind, bool) {
	k, ok := kindByPrefix[prefix]
	return k, ok
}
