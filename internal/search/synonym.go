package search

// Synonyms maps a normalized term to alternative spellings recruiters use.
var Synonyms = map[string][]string{
	"golang":     {"go"},
	"go":         {"golang"},
	"js":         {"javascript"},
	"ts":         {"typescript"},
	"k8s":        {"kubernetes"},
	"frontend":   {"front end", "ui developer"},
	"backend":    {"back end", "server developer"},
	"full stack": {"fullstack"},
	"devops":     {"site reliability", "sre", "platform engineer"},
	"ml":         {"machine learning"},
	"qa":         {"quality assurance", "tester"},
}

func GetSynonyms(term string) []string {
	v, ok := Synonyms[term]
	if !ok {
		return []string{}
	}
	out := make([]string, len(v))
	copy(out, v)
	return out
}
