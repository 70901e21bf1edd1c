package keywords

import "strings"

// Token returns the normalized form of a skill name as it appears inside
// keyword documents. It is empty when the name consists only of punctuation
// or stop words.
func Token(name string) string {
	return Normalize(name)
}

// Tokens normalizes names and drops the ones that normalize to nothing.
func Tokens(names []string) []string {
	tokens := make([]string, 0, len(names))
	for _, n := range names {
		if t := Token(n); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// ContainsToken reports whether doc contains token bounded by a single space
// on both sides. The document edges count as spaces, so "java" matches
// "java go" but never "javascript".
func ContainsToken(doc, token string) bool {
	if token == "" {
		return false
	}
	return strings.Contains(" "+doc+" ", " "+token+" ")
}

// ContainsAllTokens reports whether doc contains every token.
// An empty token list is trivially contained.
func ContainsAllTokens(doc string, tokens []string) bool {
	for _, t := range tokens {
		if !ContainsToken(doc, t) {
			return false
		}
	}
	return true
}
