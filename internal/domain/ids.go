package domain

// The packaged question bank keys categories as CAT-xxx while the API and
// the fallback set use slugs. Slugs are canonical; bank ids are translated
// at the question bank boundary.
var bankToSlug = map[string]string{
	"CAT-001": "mental-health",
	"CAT-002": "personality",
	"CAT-003": "emotional-intelligence",
	"CAT-004": "stress-assessment",
	"CAT-005": "relationship",
}

var slugToBank = func() map[string]string {
	m := make(map[string]string, len(bankToSlug))
	for bank, slug := range bankToSlug {
		m[slug] = bank
	}
	return m
}()

// CanonicalTestTypeID maps any known test-type id to its slug. Unknown ids
// are returned unchanged.
func CanonicalTestTypeID(id string) string {
	if slug, ok := bankToSlug[id]; ok {
		return slug
	}
	return id
}

// BankCategoryID maps a test-type id to the question bank's category id.
// Unknown ids are returned unchanged.
func BankCategoryID(id string) string {
	if bank, ok := slugToBank[id]; ok {
		return bank
	}
	return id
}
