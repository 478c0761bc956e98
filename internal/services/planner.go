package services

import "strings"

// Outline is the parsed result of a structure-planning response: the project
// title plus the ordered slide or section titles.
type Outline struct {
	Title string
	Items []string
}

// OutlineKind selects which item marker the planner response uses.
type OutlineKind string

const (
	OutlineSlides   OutlineKind = "slides"
	OutlineSections OutlineKind = "sections"
)

// ParseOutline reads the TITLE:/SLIDES:/SECTIONS: planning grammar. The
// parser is lenient: a duplicate TITLE line wins last, item lines are only
// honored after the list marker, and a response that yields no usable title
// or items falls back to generic defaults rather than failing.
func ParseOutline(text string, kind OutlineKind) Outline {
	marker := strings.ToUpper(string(kind)) + ":"
	var outline Outline
	inItems := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "TITLE:"):
			outline.Title = strings.TrimSpace(strings.TrimPrefix(line, "TITLE:"))
		case strings.HasPrefix(strings.ToUpper(line), marker):
			inItems = true
		case inItems && strings.HasPrefix(line, "-"):
			if item := strings.TrimSpace(strings.TrimLeft(line, "- ")); item != "" {
				outline.Items = append(outline.Items, item)
			}
		}
	}
	if outline.Title == "" {
		outline.Title = defaultOutlineTitle(kind)
	}
	if len(outline.Items) == 0 {
		outline.Items = defaultOutlineItems(kind)
	}
	return outline
}

func defaultOutlineTitle(kind OutlineKind) string {
	if kind == OutlineSlides {
		return "Untitled Presentation"
	}
	return "Untitled Document"
}

func defaultOutlineItems(kind OutlineKind) []string {
	if kind == OutlineSlides {
		return []string{"Opening", "Main Content", "Closing"}
	}
	return []string{"Introduction", "Main Body", "Conclusion"}
}

// fallbackOutline is the structure used when planning fails outright, such
// as an unreachable model. Distinct from the lenient-parse defaults.
func fallbackOutline(kind OutlineKind) Outline {
	if kind == OutlineSlides {
		return Outline{
			Title: "Untitled Presentation",
			Items: []string{"Opening Slide", "Main Content", "Key Takeaways", "Closing"},
		}
	}
	return Outline{
		Title: "Untitled Document",
		Items: []string{"Introduction", "Background", "Main Discussion", "Analysis", "Conclusion"},
	}
}
