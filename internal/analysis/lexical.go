package analysis

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenLength drops articles and most prepositions without a stop list hit
const minTokenLength = 3

// excludedTokens are too common on cards to carry meaning
var excludedTokens = map[string]bool{
	"card": true, "cards": true, "pokemon": true, "turn": true,
}

var stopWords = map[string]bool{
	"a": true, "about": true, "after": true, "again": true, "all": true, "also": true,
	"an": true, "and": true, "any": true, "are": true, "as": true, "at": true,
	"be": true, "been": true, "before": true, "being": true, "both": true, "but": true,
	"by": true, "can": true, "could": true, "did": true, "do": true, "does": true,
	"doing": true, "during": true, "each": true, "either": true, "else": true, "every": true,
	"few": true, "for": true, "from": true, "had": true, "has": true, "have": true,
	"having": true, "her": true, "here": true, "him": true, "his": true, "how": true,
	"if": true, "in": true, "into": true, "is": true, "it": true, "its": true,
	"itself": true, "just": true, "many": true, "may": true, "more": true, "most": true,
	"much": true, "must": true, "neither": true, "no": true, "nor": true, "not": true,
	"now": true, "of": true, "off": true, "on": true, "once": true, "one": true,
	"only": true, "onto": true, "or": true, "other": true, "our": true, "out": true,
	"over": true, "own": true, "same": true, "she": true, "should": true, "so": true,
	"some": true, "such": true, "than": true, "that": true, "the": true, "their": true,
	"them": true, "then": true, "there": true, "these": true, "they": true, "this": true,
	"those": true, "three": true, "through": true, "to": true, "too": true, "two": true,
	"under": true, "until": true, "up": true, "upon": true, "very": true, "was": true,
	"way": true, "we": true, "were": true, "what": true, "when": true, "where": true,
	"whether": true, "which": true, "while": true, "who": true, "whole": true, "whose": true,
	"why": true, "will": true, "with": true, "within": true, "without": true, "would": true,
	"yet": true, "you": true, "your": true, "yours": true, "yourself": true,
}

// irregularLemmas covers the inflections that suffix stripping gets wrong
var irregularLemmas = map[string]string{
	"attached": "attach", "attaching": "attach",
	"searched": "search", "searching": "search",
	"drawn": "draw", "drew": "draw", "drawing": "draw",
	"discarded": "discard", "discarding": "discard",
	"healed": "heal", "healing": "heal",
	"shuffled": "shuffle", "shuffling": "shuffle",
	"damaged": "damage", "damages": "damage",
	"evolved": "evolve", "evolves": "evolve", "evolving": "evolve",
	"switched": "switch", "switching": "switch",
	"prevented": "prevent", "preventing": "prevent",
	"flipped": "flip", "flipping": "flip",
	"retreated": "retreat", "retreating": "retreat",
	"benched": "bench", "played": "play", "playing": "play",
	"revealed": "reveal", "moved": "move", "moving": "move",
	"knocked": "knock", "took": "take", "taken": "take", "taking": "take",
	"chose": "choose", "chosen": "choose", "choosing": "choose",
	"abilities": "ability", "energies": "energy",
}

// LexicalAugmenter is the built-in Augmenter. It emits lemmatized content
// words and capitalized multi-word names ("basic energy", "pokemon tool")
// that appear mid-sentence. It holds no state and is safe for concurrent use.
type LexicalAugmenter struct{}

func NewLexicalAugmenter() *LexicalAugmenter {
	return &LexicalAugmenter{}
}

func (l *LexicalAugmenter) ExtractTokens(ctx context.Context, text string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var tokens []string
	add := func(tok string) {
		if tok != "" && !seen[tok] {
			seen[tok] = true
			tokens = append(tokens, tok)
		}
	}

	for _, sentence := range splitSentences(text) {
		words := strings.FieldsFunc(sentence, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
		})

		var phrase []string
		flush := func() {
			if len(phrase) >= 2 {
				add(foldText(strings.Join(phrase, " ")))
			}
			phrase = phrase[:0]
		}

		for i, word := range words {
			word = strings.Trim(word, "'")
			if i > 0 && isCapitalized(word) {
				phrase = append(phrase, word)
			} else {
				flush()
			}
			add(lemmatize(foldText(word)))
		}
		flush()
	}

	return tokens, nil
}

// lemmatize reduces a folded word to its base form, returning "" for words
// that should not be emitted
func lemmatize(word string) string {
	word = strings.TrimSuffix(word, "'s")
	if len(word) < minTokenLength || isNumeric(word) || stopWords[word] || excludedTokens[word] {
		return ""
	}

	if lemma, ok := irregularLemmas[word]; ok {
		return lemma
	}

	lemma := word
	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		lemma = strings.TrimSuffix(word, "ies") + "y"
	case strings.HasSuffix(word, "ches"), strings.HasSuffix(word, "shes"),
		strings.HasSuffix(word, "sses"), strings.HasSuffix(word, "xes"):
		lemma = strings.TrimSuffix(word, "es")
	case strings.HasSuffix(word, "s") && len(word) > 3 &&
		!strings.HasSuffix(word, "ss") && !strings.HasSuffix(word, "us") && !strings.HasSuffix(word, "is"):
		lemma = strings.TrimSuffix(word, "s")
	}

	if stopWords[lemma] || excludedTokens[lemma] {
		return ""
	}
	return lemma
}

func splitSentences(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == ';' || r == ':' || r == '\n'
	})
}

func isCapitalized(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return r != utf8.RuneError && unicode.IsUpper(r)
}

func isNumeric(word string) bool {
	for _, r := range word {
		if r < '0' || r > '9' {
			return false
		}
	}
	return word != ""
}
