package search

import (
	"strings"
	"unicode"
)

const maxVariants = 10

type Query struct {
	Original   string
	Normalized string
	Variants   []string
}

// NormalizeQuery lowercases the input, keeps letters, digits and the symbols
// that matter in tech names (c++, c#, node.js), and collapses whitespace.
func NormalizeQuery(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), r == '+', r == '#', r == '.':
			b.WriteRune(r)
		case unicode.IsSpace(r), r == ',', r == '/', r == '-', r == '_':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ExpandQuery returns the normalized query followed by synonym variants.
// A compact token matching a spaced synonym key ("fullstack") is expanded too.
func ExpandQuery(normalized string) []string {
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return []string{}
	}

	out := make([]string, 0, maxVariants)
	seen := make(map[string]struct{}, maxVariants)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	add(normalized)
	for _, syn := range GetSynonyms(normalized) {
		add(syn)
	}

	words := strings.Fields(normalized)
	for _, w := range words {
		for _, syn := range GetSynonyms(w) {
			add(strings.Replace(normalized, w, syn, 1))
		}
		for k, syns := range Synonyms {
			if !strings.Contains(k, " ") || strings.ReplaceAll(k, " ", "") != w {
				continue
			}
			add(strings.Replace(normalized, w, k, 1))
			for _, syn := range syns {
				add(strings.Replace(normalized, w, syn, 1))
			}
		}
	}

	if len(out) > maxVariants {
		out = out[:maxVariants]
	}
	return out
}

func ProcessQuery(input string) Query {
	q := Query{Original: input, Normalized: NormalizeQuery(input)}
	q.Variants = ExpandQuery(q.Normalized)
	return q
}

func (q Query) Empty() bool {
	return q.Normalized == ""
}
