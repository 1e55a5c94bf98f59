package scanner

// Source tags diagnostics produced from scan results.
const Source = "wordOrigin"

// WarningMessage is the diagnostic text for a match.
func WarningMessage(m Match) string {
	return `Word of Latin, Greek, or French origin. Consider replacing with "` + m.Replacement + `"`
}

// QuickFixLabel is the title of the quick fix that replaces a match.
func QuickFixLabel(m Match) string {
	return `Replace with "` + m.Replacement + `"`
}

// HoverMessage is the markdown shown when hovering a dictionary word.
func HoverMessage(replacement string) string {
	return `Consider using "**` + replacement + `**" instead.`
}
