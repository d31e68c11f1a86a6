package selection

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/regionedit/model"
)

// Normalize prepares region text for matching by stripping combining marks
// and folding case. Whitespace runs collapse to single spaces.
func Normalize(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.Join(strings.Fields(cases.Fold().String(stripped)), " ")
}

// MatchingText returns the ids of non-cancelled regions whose normalized
// text equals the normalized needle. An empty needle matches nothing.
func MatchingText(regions []model.Region, needle string) []string {
	want := Normalize(needle)
	if want == "" {
		return nil
	}
	var ids []string
	for _, r := range regions {
		if r.Active() && Normalize(r.Text) == want {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// EditKey is the looser key label and text edits propagate by: surrounding
// whitespace trimmed and lower-cased, nothing else. It matches the backend,
// so local propagation touches the same regions the backend updates.
func EditKey(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}
