package outreach

import (
	"math/rand/v2"
	"strings"
)

// Synonyms maps a lower-cased word to the alternatives it may be replaced with.
type Synonyms map[string][]string

// ParseSynonyms parses a dictionary of the form
// "word: alt1, alt2; other: alt3". Entries without a colon or without
// alternatives are ignored.
func ParseSynonyms(text string) Synonyms {
	out := make(Synonyms)
	for _, entry := range strings.Split(text, ";") {
		word, alts, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		var list []string
		for _, alt := range strings.Split(alts, ",") {
			if alt = strings.TrimSpace(alt); alt != "" {
				list = append(list, alt)
			}
		}
		if len(list) > 0 {
			out[word] = list
		}
	}
	return out
}

// Compose renders template into a message, replacing each word that has
// synonyms with a random alternative. Words are re-joined with single
// spaces and the two-character sequence `\n` becomes a line break.
func Compose(template string, synonyms Synonyms, rnd *rand.Rand) string {
	words := strings.Fields(template)
	for i, w := range words {
		alts := synonyms[strings.ToLower(w)]
		if len(alts) == 0 {
			continue
		}
		words[i] = alts[rnd.IntN(len(alts))]
	}
	return strings.ReplaceAll(strings.Join(words, " "), `\n`, "\n")
}
