package search

import "strings"

// defaultSynonyms maps study-domain terms to substitution candidates. The
// table is intentionally small; expansion is a recall aid, not a thesaurus.
var defaultSynonyms = map[string][]string{
	"math":        {"mathematics", "mathematical", "calculation", "computation"},
	"programming": {"coding", "software development", "computer programming"},
	"physics":     {"physical science", "mechanics", "dynamics"},
	"chemistry":   {"chemical science", "molecular science"},
	"biology":     {"biological science", "life science"},
	"study":       {"learn", "research", "investigate", "examine"},
	"understand":  {"comprehend", "grasp", "fathom", "realize"},
	"practice":    {"exercise", "drill", "rehearse", "train"},
}

// maxVariants caps the number of query variants Expand returns, the
// original included. Each variant costs one embedding call.
const maxVariants = 4

// QueryExpander rewrites a query into variants by substituting known
// synonyms one term at a time.
type QueryExpander struct {
	synonyms map[string][]string
}

// NewQueryExpander creates an expander with the built-in synonym table.
func NewQueryExpander() *QueryExpander {
	return &QueryExpander{synonyms: defaultSynonyms}
}

// NewQueryExpanderWith creates an expander with a caller-supplied table.
// Keys must be lowercase single terms.
func NewQueryExpanderWith(synonyms map[string][]string) *QueryExpander {
	return &QueryExpander{synonyms: synonyms}
}

// Expand returns the query followed by up to maxVariants-1 rewrites, each
// replacing one matched term with one synonym. The original query is always
// first.
func (e *QueryExpander) Expand(query string) []string {
	variants := []string{query}

	for _, word := range strings.Fields(strings.ToLower(query)) {
		syns, ok := e.synonyms[word]
		if !ok {
			continue
		}
		for _, syn := range syns {
			if len(variants) >= maxVariants {
				return variants
			}
			rewritten := replaceTerm(query, word, syn)
			if rewritten != query {
				variants = append(variants, rewritten)
			}
		}
	}

	return variants
}

// replaceTerm substitutes term for syn wherever it appears as a whole
// lowercase-matched field of query.
func replaceTerm(query, term, syn string) string {
	fields := strings.Fields(query)
	for i, f := range fields {
		if strings.ToLower(f) == term {
			fields[i] = syn
		}
	}
	return strings.Join(fields, " ")
}
