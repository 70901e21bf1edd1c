// Package keywords turns staffing records into normalized keyword documents.
//
// A keyword document is a lowercase, punctuation-free, stop-word-free string of
// space separated words. Term importance is encoded by repeating words, since
// the matching engine weights terms by frequency only.
package keywords

import (
	"strings"

	"github.com/sha1n/staffing-mcp/internal/domain"
)

const (
	// GeneralRepeatMultiplier is how many times heavily weighted text fields
	// (position names, experience customers and titles) are repeated.
	GeneralRepeatMultiplier = 4

	// SkillRepeatMultiplier scales skill levels into repetition counts.
	SkillRepeatMultiplier = 4
)

var (
	punctuationReplacer = newPunctuationReplacer()
	stopWords           = newStopWordSet(englishStopWords, finnishStopWords)
)

func newPunctuationReplacer() *strings.Replacer {
	pairs := make([]string, 0, len(punctuation)*2)
	for _, p := range punctuation {
		pairs = append(pairs, p, "")
	}
	return strings.NewReplacer(pairs...)
}

func newStopWordSet(lists ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, list := range lists {
		for _, w := range list {
			set[strings.ToLower(w)] = struct{}{}
		}
	}
	return set
}

// Normalize lowercases text, strips punctuation and stop words and collapses
// whitespace. A stop word is removed only when it stands alone between
// whitespace; "theory" or "ja-va" are never touched by "the" or "ja".
func Normalize(text string) string {
	// Padding keeps words at either edge whitespace-bounded.
	padded := " " + strings.ToLower(text) + " "
	stripped := punctuationReplacer.Replace(padded)

	words := strings.Fields(stripped)
	kept := words[:0]
	for _, w := range words {
		if isStopWord(w) {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// Join normalizes the concatenation of fragments separated by single spaces.
func Join(fragments ...string) string {
	return Normalize(strings.Join(fragments, " "))
}

// isStopWord reports whether word is in the stop-word list, ignoring case.
func isStopWord(word string) bool {
	_, ok := stopWords[strings.ToLower(word)]
	return ok
}

// Repeat returns s repeated n times, space separated. n <= 0 yields "".
func Repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat(s+" ", n), " ")
}

// Skills emits every skill name level*SkillRepeatMultiplier times. The result
// is not normalized; it is meant as a fragment for Join.
func Skills(skills []domain.Skill) string {
	parts := make([]string, 0, len(skills))
	for _, s := range skills {
		if r := Repeat(s.Name, s.Level*SkillRepeatMultiplier); r != "" {
			parts = append(parts, r)
		}
	}
	return strings.Join(parts, " ")
}

// Project derives a project's keyword document from name and description.
func Project(p domain.Project) string {
	return Join(p.Name, p.Description)
}

// Position derives a position's keyword document. The name carries
// GeneralRepeatMultiplier weight and skills are weighted by level.
func Position(p domain.Position) string {
	return Join(
		Repeat(p.Name, GeneralRepeatMultiplier),
		p.Description,
		Skills(p.PlainSkills()),
	)
}

// Experience derives an experience record's keyword document.
func Experience(e domain.Experience) string {
	return Join(
		e.Name,
		Repeat(e.Customer, GeneralRepeatMultiplier),
		Repeat(e.Position, GeneralRepeatMultiplier),
		Repeat(strings.Join(e.Skills, " "), SkillRepeatMultiplier),
		e.Description,
	)
}

// Employee derives the aggregate keyword document of an employee: its own
// preferences and skills followed by the already normalized keyword documents
// of its experience records, which are appended as they are.
func Employee(profile domain.EmployeeProfile) string {
	parts := make([]string, 0, len(profile.ExperienceKeywords)+1)
	if own := Join(profile.Preferences, Skills(profile.Skills)); own != "" {
		parts = append(parts, own)
	}
	for _, kw := range profile.ExperienceKeywords {
		if kw != "" {
			parts = append(parts, kw)
		}
	}
	return strings.Join(parts, " ")
}
