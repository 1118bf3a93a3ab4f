package analyze

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/montanaflynn/stats"

	"github.com/rick2x/fieldprofiler/domain/field"
	"github.com/rick2x/fieldprofiler/domain/profile"
)

const topWordLimit = 10

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "he": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "that": {}, "the": {}, "to": {},
	"was": {}, "were": {}, "will": {}, "with": {},
}

// Permissive but anchored: scheme optional, at least one dot-separated host
// segment, optional path.
var (
	urlPattern   = regexp.MustCompile(`^(?:https?://)?(?:[A-Za-z0-9-]+\.)+[A-Za-z]{2,}(?:[/?#]\S*)?$`)
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

type strEntry struct {
	id field.RecordID
	s  string
}

// analyzeText fills rec with the text statistic groups. Non-null values are
// coerced to strings; empty strings stay in the set but are excluded from
// length, case and word statistics.
func (a *Analyzer) analyzeText(set *field.ValueSet, cfg profile.Config, rec *profile.Record) {
	entries := make([]strEntry, 0, set.Len())
	for _, e := range set.NonNull() {
		entries = append(entries, strEntry{id: e.ID, s: e.Value.String()})
	}

	count := len(entries)
	rec.Add(profile.KeyCount, count)
	if count == 0 {
		rec.Add(profile.KeyStatus, "no text data")
		rec.Add(profile.KeyEmptyStringCount, 0)
		rec.Add(profile.KeyVariety, 0)
		return
	}

	var emptyIDs []field.RecordID
	var leadingIDs, trailingIDs []field.RecordID
	untrimmed := 0
	nonEmpty := make([]strEntry, 0, count)
	for _, e := range entries {
		if e.s == "" {
			emptyIDs = append(emptyIDs, e.id)
			continue
		}
		nonEmpty = append(nonEmpty, e)
		if trimmed := strings.TrimLeft(e.s, " \t"); trimmed != e.s {
			leadingIDs = append(leadingIDs, e.id)
		}
		if trimmed := strings.TrimRight(e.s, " \t"); trimmed != e.s {
			trailingIDs = append(trailingIDs, e.id)
		}
		if strings.TrimSpace(e.s) != e.s {
			untrimmed++
		}
	}

	rec.AddFlagged(profile.KeyEmptyStringCount, len(emptyIDs),
		profile.EqualsEvidence(rec.Field, field.Text("")))
	rec.Add(profile.KeyPctEmpty, float64(len(emptyIDs))/float64(count))
	rec.AddFlagged(profile.KeyLeadingSpaceCount, len(leadingIDs), profile.IDEvidence(leadingIDs))
	rec.AddFlagged(profile.KeyTrailingSpaceCount, len(trailingIDs), profile.IDEvidence(trailingIDs))
	// Untrimmed values stay selectable after the run via the live layer, so
	// the combined count carries the condition rather than captured IDs.
	rec.AddFlagged(profile.KeyUntrimmedCount, untrimmed,
		profile.CondEvidence(profile.Condition{Field: rec.Field, Op: profile.OpNotTrimmed}))

	if len(nonEmpty) > 0 {
		lengths := make([]float64, len(nonEmpty))
		firstLen := len([]rune(nonEmpty[0].s))
		minLen, maxLen := firstLen, firstLen
		for i, e := range nonEmpty {
			l := len([]rune(e.s))
			lengths[i] = float64(l)
			if l < minLen {
				minLen = l
			}
			if l > maxLen {
				maxLen = l
			}
		}
		avg, _ := stats.Mean(lengths)
		rec.Add(profile.KeyMinLength, minLen)
		rec.Add(profile.KeyMaxLength, maxLen)
		rec.Add(profile.KeyAvgLength, avg)
	}

	// Frequency table over non-empty values; record IDs kept for evidence.
	freq := make(map[string]int, len(nonEmpty))
	idsByValue := make(map[string][]field.RecordID, len(nonEmpty))
	for _, e := range nonEmpty {
		freq[e.s]++
		idsByValue[e.s] = append(idsByValue[e.s], e.id)
	}
	rec.Add(profile.KeyVariety, len(freq))

	addTopTextValues(freq, idsByValue, cfg.TopValueLimit, rec)

	if cfg.TextRarity {
		var singletonIDs []field.RecordID
		for v, c := range freq {
			if c == 1 {
				singletonIDs = append(singletonIDs, idsByValue[v][0])
			}
		}
		sortRecordIDs(singletonIDs)
		rec.AddFlagged(profile.KeySingletonCount, len(singletonIDs), profile.IDEvidence(singletonIDs))

		var nonPrintableIDs []field.RecordID
		for _, e := range entries {
			if hasNonPrintable(e.s) {
				nonPrintableIDs = append(nonPrintableIDs, e.id)
			}
		}
		rec.AddFlagged(profile.KeyNonPrintableCount, len(nonPrintableIDs), profile.IDEvidence(nonPrintableIDs))
	}

	nonEmptyStrs := nonEmpty2strings(nonEmpty)
	if cfg.TextCase {
		addCaseStats(nonEmptyStrs, rec)
	}
	addTopWords(nonEmptyStrs, rec)
	addPatternCounts(nonEmptyStrs, rec)
}

func nonEmpty2strings(entries []strEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.s
	}
	return out
}

// addTopTextValues reports the most frequent non-empty values, ranked by
// descending count then ascending value for determinism. The single top value
// carries the record IDs holding that exact string.
func addTopTextValues(freq map[string]int, idsByValue map[string][]field.RecordID, limit int, rec *profile.Record) {
	if len(freq) == 0 {
		return
	}
	values := make([]string, 0, len(freq))
	for v := range freq {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		if freq[values[i]] != freq[values[j]] {
			return freq[values[i]] > freq[values[j]]
		}
		return values[i] < values[j]
	})

	if limit > len(values) {
		limit = len(values)
	}
	top := make([]profile.TopValue, limit)
	for i := 0; i < limit; i++ {
		top[i] = profile.TopValue{Display: values[i], Count: freq[values[i]]}
	}
	rec.Add(profile.KeyTopValues, top)
	rec.AddFlagged(profile.KeyTopValue, values[0], profile.IDEvidence(idsByValue[values[0]]))
}

// addCaseStats partitions non-empty strings into exactly one of
// upper/lower/title/mixed, in that priority order, so the four counts always
// sum to the non-empty count with no overlap and no gap.
func addCaseStats(values []string, rec *profile.Record) {
	var upper, lower, title, mixed, multiSpace int
	for _, s := range values {
		switch {
		case isUpperString(s):
			upper++
		case isLowerString(s):
			lower++
		case isTitleString(s):
			title++
		default:
			mixed++
		}
		if strings.Contains(strings.TrimSpace(s), "  ") {
			multiSpace++
		}
	}
	rec.Add(profile.KeyUpperCount, upper)
	rec.Add(profile.KeyLowerCount, lower)
	rec.Add(profile.KeyTitleCount, title)
	rec.Add(profile.KeyMixedCount, mixed)

	n := len(values)
	if n > 0 {
		rec.Add(profile.KeyPctUpper, float64(upper)/float64(n))
		rec.Add(profile.KeyPctLower, float64(lower)/float64(n))
		rec.Add(profile.KeyPctTitle, float64(title)/float64(n))
		rec.Add(profile.KeyPctMixed, float64(mixed)/float64(n))
	}
	rec.Add(profile.KeyMultiSpaceCount, multiSpace)
}

// addTopWords tokenizes on whitespace and punctuation while preserving
// internal hyphens, lower-cases, drops stop words and pure digits, and ranks
// by frequency.
func addTopWords(values []string, rec *profile.Record) {
	counts := make(map[string]int)
	for _, s := range values {
		for _, w := range tokenizeWords(s) {
			counts[w]++
		}
	}
	if len(counts) == 0 {
		rec.AddUnavailable(profile.KeyTopWords, "no words found")
		return
	}
	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	limit := topWordLimit
	if limit > len(words) {
		limit = len(words)
	}
	top := make([]profile.TopValue, limit)
	for i := 0; i < limit; i++ {
		top[i] = profile.TopValue{Display: words[i], Count: counts[words[i]]}
	}
	rec.Add(profile.KeyTopWords, top)
}

func tokenizeWords(s string) []string {
	raw := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	var words []string
	for _, w := range raw {
		w = strings.Trim(w, "-")
		if w == "" {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if isAllDigits(w) {
			continue
		}
		words = append(words, w)
	}
	return words
}

func addPatternCounts(values []string, rec *profile.Record) {
	var urls, emails int
	for _, s := range values {
		v := strings.TrimSpace(s)
		if urlPattern.MatchString(v) {
			urls++
		}
		if emailPattern.MatchString(v) {
			emails++
		}
	}
	rec.Add(profile.KeyPatternURLCount, urls)
	rec.Add(profile.KeyPatternEmailCount, emails)
}

// hasNonPrintable reports whether a string contains characters that are not
// printable, ignoring tab, newline and carriage return.
func hasNonPrintable(s string) bool {
	for _, r := range s {
		if r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		if !unicode.IsPrint(r) {
			return true
		}
	}
	return false
}

// isUpperString reports whether the string has at least one cased character
// and every cased character is upper case.
func isUpperString(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// isLowerString reports whether the string has at least one cased character
// and every cased character is lower case.
func isLowerString(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsUpper(r) {
			return false
		}
		if unicode.IsLower(r) {
			cased = true
		}
	}
	return cased
}

// isTitleString reports whether the string is title-cased: each run of cased
// characters starts upper case and continues lower case.
func isTitleString(s string) bool {
	cased := false
	prevCased := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			if prevCased {
				return false
			}
			cased = true
			prevCased = true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			cased = true
			prevCased = true
		default:
			prevCased = false
		}
	}
	return cased
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

func sortRecordIDs(ids []field.RecordID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
