package trend

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Country is one gazetteer entry.
type Country struct {
	Name    string
	Aliases []string
}

// Gazetteer is the fixed country list used for location detection.
var Gazetteer = []Country{
	{"United States", []string{"USA", "US", "U.S.", "U.S.A.", "United States of America"}},
	{"United Kingdom", []string{"UK", "U.K.", "Britain", "Great Britain", "England", "Scotland", "Wales"}},
	{"Canada", nil},
	{"Mexico", nil},
	{"Brazil", nil},
	{"Argentina", nil},
	{"Chile", nil},
	{"Colombia", nil},
	{"Peru", nil},
	{"Germany", []string{"Deutschland"}},
	{"France", nil},
	{"Italy", nil},
	{"Spain", nil},
	{"Portugal", nil},
	{"Netherlands", []string{"Holland", "Dutch"}},
	{"Belgium", nil},
	{"Switzerland", []string{"Swiss"}},
	{"Austria", nil},
	{"Ireland", []string{"Irish"}},
	{"Sweden", []string{"Swedish"}},
	{"Norway", []string{"Norwegian"}},
	{"Denmark", []string{"Danish"}},
	{"Finland", []string{"Finnish"}},
	{"Poland", []string{"Polish"}},
	{"Czech Republic", []string{"Czechia"}},
	{"Ukraine", []string{"Ukrainian"}},
	{"Russia", []string{"Russian Federation", "Russian"}},
	{"Turkey", []string{"Türkiye", "Turkiye"}},
	{"Greece", nil},
	{"Romania", nil},
	{"Israel", []string{"Israeli"}},
	{"Iran", []string{"Iranian"}},
	{"Saudi Arabia", []string{"KSA"}},
	{"United Arab Emirates", []string{"UAE", "U.A.E.", "Emirates"}},
	{"Qatar", nil},
	{"Egypt", nil},
	{"Nigeria", nil},
	{"Kenya", nil},
	{"South Africa", nil},
	{"India", []string{"Indian"}},
	{"Pakistan", nil},
	{"Bangladesh", nil},
	{"China", []string{"PRC", "Chinese"}},
	{"Hong Kong", nil},
	{"Taiwan", nil},
	{"Japan", []string{"Japanese"}},
	{"South Korea", []string{"Republic of Korea", "ROK"}},
	{"North Korea", []string{"DPRK"}},
	{"Singapore", nil},
	{"Malaysia", nil},
	{"Indonesia", nil},
	{"Philippines", []string{"Filipino"}},
	{"Thailand", nil},
	{"Vietnam", []string{"Viet Nam"}},
	{"Australia", []string{"Australian"}},
	{"New Zealand", []string{"NZ"}},
}

type countryMatcher struct {
	name string
	re   *regexp.Regexp
}

var countryMatchers = buildCountryMatchers(Gazetteer)

// buildCountryMatchers compiles one case-insensitive whole-word pattern per
// country. Word edges are any non letter/digit rune so dotted aliases like
// "U.S." still match at a sentence end.
func buildCountryMatchers(countries []Country) []countryMatcher {
	out := make([]countryMatcher, 0, len(countries))
	for _, c := range countries {
		names := append([]string{c.Name}, c.Aliases...)
		quoted := make([]string, len(names))
		for i, n := range names {
			quoted[i] = regexp.QuoteMeta(foldText(n))
		}
		pattern := `(?i)(?:^|[^\p{L}\p{N}])(?:` + strings.Join(quoted, "|") + `)(?:$|[^\p{L}\p{N}])`
		out = append(out, countryMatcher{name: c.Name, re: regexp.MustCompile(pattern)})
	}
	return out
}

// FindLocations returns every gazetteer country mentioned in text, in
// gazetteer order, each at most once.
func FindLocations(text string) []string {
	text = foldText(text)
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	found := make([]string, 0, 2)
	for _, m := range countryMatchers {
		if m.re.MatchString(text) {
			found = append(found, m.name)
		}
	}
	return found
}

// foldText applies NFKC so full-width and compatibility forms compare equal
// to their plain spellings.
func foldText(s string) string {
	return norm.NFKC.String(s)
}
