package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

// PlaceholderBody is inserted for an expected section that has no matching
// heading in the generated document.
const PlaceholderBody = "*Content for this section was not generated.*"

// fuzzyThreshold is the minimum score (exclusive) for a fuzzy candidate to
// be accepted over a placeholder.
const fuzzyThreshold = 40.0

var (
	level2HeadingRe = regexp.MustCompile(`^## (.+?)\s*$`)
	parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)\s*`)
)

// CoreTitle strips any parenthetical qualifier from an expected section
// title. "Executive Summary (Summarizes the plan)" -> "Executive Summary".
func CoreTitle(title string) string {
	return strings.TrimSpace(parentheticalRe.ReplaceAllString(title, ""))
}

// SplitBySections partitions a full Markdown document on its level-2
// headings and reconciles the partitions against the caller's expected
// section titles. The generator writes headings in its own words, so after
// exact and core-title lookups fail the expected title is matched fuzzily:
// a candidate heading contained in the core title scores by length ratio
// (x100), the reverse containment scores x80, and plain word overlap scores
// x60. The best candidate wins when its score exceeds 40; otherwise the
// section gets a placeholder chunk.
//
// The result always has exactly one entry per expected title, keyed by the
// expected title as given. It never fails: worst case every value is a
// placeholder.
func SplitBySections(fullMarkdown string, expectedSections []string) map[string]string {
	headings, parsed := splitOnHeadings(fullMarkdown)

	sections := make(map[string]string, len(expectedSections))
	for _, expected := range expectedSections {
		core := CoreTitle(expected)
		expectedLower := strings.ToLower(expected)
		coreLower := strings.ToLower(core)

		if chunk, ok := parsed[expectedLower]; ok {
			sections[expected] = chunk
			continue
		}
		if chunk, ok := parsed[coreLower]; ok {
			sections[expected] = chunk
			continue
		}

		if chunk, ok := bestFuzzyMatch(coreLower, headings, parsed); ok {
			sections[expected] = chunk
			continue
		}
		sections[expected] = fmt.Sprintf("## %s\n\n%s", core, PlaceholderBody)
	}
	return sections
}

// splitOnHeadings builds the working map: lowercased level-2 heading text ->
// reconstructed "## Heading\n\nbody" chunk, plus the headings in document
// order so fuzzy ties resolve to the earlier heading. Content before the
// first level-2 heading (usually the document title and intro) is dropped;
// headings of other levels are body text, not split boundaries.
func splitOnHeadings(fullMarkdown string) ([]string, map[string]string) {
	parsed := map[string]string{}
	var headings []string
	lines := strings.Split(fullMarkdown, "\n")

	currentTitle := ""
	var body []string
	flush := func() {
		if currentTitle == "" {
			return
		}
		key := strings.ToLower(currentTitle)
		content := strings.TrimSpace(strings.Join(body, "\n"))
		if _, seen := parsed[key]; !seen {
			headings = append(headings, key)
		}
		parsed[key] = fmt.Sprintf("## %s\n\n%s", currentTitle, content)
	}
	for _, line := range lines {
		if m := level2HeadingRe.FindStringSubmatch(line); m != nil {
			flush()
			currentTitle = strings.TrimSpace(m[1])
			body = body[:0]
			continue
		}
		if currentTitle != "" {
			body = append(body, line)
		}
	}
	flush()
	return headings, parsed
}

func bestFuzzyMatch(coreLower string, headings []string, parsed map[string]string) (string, bool) {
	bestScore := 0.0
	bestChunk := ""
	found := false
	for _, candidate := range headings {
		score := matchScore(coreLower, candidate)
		if score > bestScore {
			bestScore = score
			bestChunk = parsed[candidate]
			found = true
		}
	}
	if found && bestScore > fuzzyThreshold {
		return bestChunk, true
	}
	return "", false
}

// matchScore scores a parsed heading against the lowercased core title.
// Containment beats word overlap; an empty overlap scores zero.
func matchScore(coreLower, candidate string) float64 {
	if coreLower == "" || candidate == "" {
		return 0
	}
	if strings.Contains(coreLower, candidate) {
		return float64(len(candidate)) / float64(len(coreLower)) * 100
	}
	if strings.Contains(candidate, coreLower) {
		return float64(len(coreLower)) / float64(len(candidate)) * 80
	}
	expectedWords := wordSet(coreLower)
	candidateWords := wordSet(candidate)
	common := 0
	for w := range expectedWords {
		if _, ok := candidateWords[w]; ok {
			common++
		}
	}
	if common == 0 {
		return 0
	}
	max := len(expectedWords)
	if len(candidateWords) > max {
		max = len(candidateWords)
	}
	return float64(common) / float64(max) * 60
}

func wordSet(s string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}
