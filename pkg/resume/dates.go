package resume

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

//nolint:gochecknoglobals // compiled once
var (
	yearPattern    = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	monthPattern   = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+((?:19|20)\d{2})\b`)
	ongoingPattern = regexp.MustCompile(`(?i)\b(present|current|now|ongoing)\b`)
)

//nolint:gochecknoglobals // lookup table
var months = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

const ongoing = 9999 * 12

// DateKey orders date ranges by age. Larger values are more recent.
type DateKey struct {
	End   int
	Start int
}

// Older reports whether k is strictly older than other: earlier end first, then earlier start.
func (k DateKey) Older(other DateKey) (older bool) {
	if k.End != other.End {
		older = k.End < other.End
		return older
	}
	older = k.Start < other.Start
	return older
}

// ParseDateRange extracts a sortable key from free-form ranges such as
// "Jan 2019 - Mar 2021", "2015-2019" or "2020 - Present". Unparseable input yields the zero key,
// which sorts as oldest.
func ParseDateRange(s string) (key DateKey) {
	points := datePoints(s)

	if len(points) > 0 {
		key.Start = points[0]
		key.End = points[len(points)-1]
	}

	if ongoingPattern.MatchString(s) {
		key.End = ongoing
	}

	return key
}

type datePoint struct {
	pos   int
	value int
}

// datePoints returns month-year and bare-year points in the order they appear. A bare year
// counts as the start of that year.
func datePoints(s string) (points []int) {
	var found []datePoint
	monthYears := make(map[int]bool)

	for _, m := range monthPattern.FindAllStringSubmatchIndex(s, -1) {
		month := months[strings.ToLower(s[m[2]:m[3]])]
		year, _ := strconv.Atoi(s[m[4]:m[5]])
		found = append(found, datePoint{pos: m[0], value: year*12 + month})
		monthYears[m[4]] = true
	}

	for _, y := range yearPattern.FindAllStringIndex(s, -1) {
		if monthYears[y[0]] {
			continue
		}
		year, _ := strconv.Atoi(s[y[0]:y[1]])
		found = append(found, datePoint{pos: y[0], value: year * 12})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	for _, p := range found {
		points = append(points, p.value)
	}
	return points
}
