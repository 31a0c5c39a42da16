package models

import (
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"companyfinder/internal/dataset"
)

// AvatarPalette is the fixed set of initials avatar colors.
var AvatarPalette = [...]string{
	"#1f9fff", "#ff6b6b", "#4ecdc4", "#45b7d1", "#96ceb4",
	"#feca57", "#ff9ff3", "#54a0ff", "#5f27cd", "#00d2d3",
}

// CompanyView is one company row as shown to a user.
type CompanyView struct {
	Key           string `json:"key"`
	Name          string `json:"name"`
	Initials      string `json:"initials"`
	Color         string `json:"color"`
	AllTime       string `json:"alltime,omitempty"`
	SixMonths     string `json:"six_months,omitempty"`
	OneYear       string `json:"one_year,omitempty"`
	TwoYear       string `json:"two_year,omitempty"`
	FrequencyText string `json:"frequency_text"`
	URL           string `json:"url"`
}

// NewCompanyView builds the row for a company entry. site is the base URL
// company links point at.
func NewCompanyView(site string, e dataset.CompanyEntry) CompanyView {
	return CompanyView{
		Key:           e.Key,
		Name:          DisplayName(e.Key),
		Initials:      Initials(e.Key),
		Color:         AvatarColor(e.Key),
		AllTime:       e.Stats.AllTime,
		SixMonths:     e.Stats.SixMonths,
		OneYear:       e.Stats.OneYear,
		TwoYear:       e.Stats.TwoYear,
		FrequencyText: FrequencyText(e.Stats),
		URL:           CompanyURL(site, e.Key),
	}
}

// DisplayName turns a company key into a title: "goldman-sachs" becomes
// "Goldman Sachs".
func DisplayName(key string) string {
	words := strings.Split(key, "-")
	for i, w := range words {
		words[i] = upperFirst(w)
	}
	return strings.Join(words, " ")
}

// Initials returns the upper-cased first letters of the first two words of
// a company key.
func Initials(key string) string {
	var b strings.Builder
	n := 0
	for _, w := range strings.Split(key, "-") {
		if n == 2 {
			break
		}
		n++
		if r, _ := utf8.DecodeRuneInString(w); r != utf8.RuneError {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// AvatarColor picks a palette color from a 32-bit string hash of the key, so
// a company always gets the same color.
func AvatarColor(key string) string {
	var h int32
	for _, c := range utf16.Encode([]rune(key)) {
		h = (h << 5) - h + int32(c)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return AvatarPalette[abs%int64(len(AvatarPalette))]
}

// FrequencyText summarizes how often a company asked a problem.
func FrequencyText(s dataset.FrequencyStats) string {
	allTime := s.Float(dataset.WindowAllTime)
	if allTime <= 0 {
		return "No recent data"
	}
	text := strconv.FormatFloat(allTime, 'f', 2, 64) + " times (all time)"
	if oneYear := s.Float(dataset.WindowOneYear); oneYear > 0 {
		text += ", " + strconv.FormatFloat(oneYear, 'f', 2, 64) + " in last year"
	}
	return text
}

// CompanyURL links to a company's problem list on site.
func CompanyURL(site, key string) string {
	return strings.TrimRight(site, "/") + "/company/" + url.PathEscape(key)
}

// SearchURL links to a problem search on site.
func SearchURL(site, slug string) string {
	return strings.TrimRight(site, "/") + "/?q=" + strings.ReplaceAll(url.QueryEscape(slug), "+", "%20")
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
