package listing

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ConditionSet is the approved condition enumeration the joiner validates
// against. The set comes from configuration, never from code.
type ConditionSet struct {
	ids map[string]struct{}
}

// NewConditionSet builds a set from the configured IDs.
func NewConditionSet(ids []string) ConditionSet {
	set := ConditionSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		set.ids[id] = struct{}{}
	}
	return set
}

// Contains reports whether id belongs to the approved enumeration.
func (s ConditionSet) Contains(id string) bool {
	_, ok := s.ids[strings.TrimSpace(id)]
	return ok
}

// IDs returns the approved IDs in sorted order.
func (s ConditionSet) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var conditionNames = map[string]string{
	"1000": "brand new",
	"1500": "new other",
	"2750": "like new",
	"3000": "very good",
	"4000": "good",
	"5000": "acceptable",
	"7000": "for parts or not working",
}

// ConditionLabel returns the human-readable name for an eBay condition ID,
// title-cased for report output. Unknown IDs come back unchanged.
func ConditionLabel(id string) string {
	name, ok := conditionNames[strings.TrimSpace(id)]
	if !ok {
		return strings.TrimSpace(id)
	}
	// Casers are not safe for concurrent use, so build one per call.
	return cases.Title(language.AmericanEnglish).String(name)
}
