// Package strtransform implements the per-value string transforms the
// transform engine chains together: normalization, character
// filtering, number and date/time reformatting, character mapping,
// and phonetic encoding.
package strtransform

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ul-mds/pprl-go/pkg/model"
)

// Fn transforms a single string value, or reports why it couldn't.
type Fn func(string) (string, error)

var whitespaceRunRe = regexp.MustCompile(`\s{2,}`)

// Normalize transliterates non-ASCII characters to their closest ASCII
// form, lowercases the result, and collapses runs of whitespace.
func Normalize() Fn {
	return func(in string) (string, error) {
		out := foldToASCII(in)
		out = strings.ToLower(out)
		out = whitespaceRunRe.ReplaceAllString(out, " ")
		return strings.TrimSpace(out), nil
	}
}

// CharacterFilter removes every rune found in chars from the input.
func CharacterFilter(chars string) Fn {
	return func(in string) (string, error) {
		var sb strings.Builder
		sb.Grow(len(in))
		for _, r := range in {
			if strings.ContainsRune(chars, r) {
				continue
			}
			sb.WriteRune(r)
		}
		return sb.String(), nil
	}
}

// Number parses the input as a float and reformats it with a fixed
// number of decimal places.
func Number(decimalPlaces int) Fn {
	return func(in string) (string, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(in), 64)
		if err != nil {
			return "", fmt.Errorf("value `%s` is not a number: %w", in, err)
		}
		return strconv.FormatFloat(f, 'f', decimalPlaces, 64), nil
	}
}

// DateTime reparses the input under a strptime-style input layout and
// reformats it under a strftime-style output layout.
func DateTime(inputFormat, outputFormat string) Fn {
	goIn := strftimeToGoLayout(inputFormat)
	goOut := strftimeToGoLayout(outputFormat)

	return func(in string) (string, error) {
		t, err := time.Parse(goIn, in)
		if err != nil {
			return "", fmt.Errorf("value `%s` does not match format `%s`: %w", in, inputFormat, err)
		}
		return t.Format(goOut), nil
	}
}

// Mapping replaces the whole input with its mapped counterpart, or
// defaultVal if no mapping exists and one was provided.
func Mapping(charDict model.Mapping, defaultVal *string) Fn {
	return func(in string) (string, error) {
		if out, ok := charDict.Get(in); ok {
			return out, nil
		}
		if defaultVal != nil {
			return *defaultVal, nil
		}
		return "", fmt.Errorf("value `%s` has no mapping, or no default value is present", in)
	}
}

type mappingReplacement struct {
	index  int
	source string
	target string
}

// InlineMapping replaces every non-overlapping occurrence of a
// dictionary key found as a substring of the input with its mapped
// value. Overlapping replacement ranges are rejected. Entries are
// tried in their declared order, since the index and source/target
// named in an overlap error depend on that order, not on any sorted
// or otherwise canonicalized one.
func InlineMapping(charDict model.Mapping) Fn {
	return func(in string) (string, error) {
		runes := []rune(in)
		affected := make([]bool, len(runes))
		var pending []mappingReplacement

		for _, entry := range charDict {
			source, target := entry.Key, entry.Value
			sourceRunes := []rune(source)
			sourceLen := len(sourceRunes)

			i := indexOfRunes(runes, sourceRunes, 0)
			for i != -1 {
				for _, v := range affected[i : i+sourceLen] {
					if v {
						return "", fmt.Errorf(
							"cannot resolve inline mapping: replacement of `%s` with `%s` at index %d overlaps",
							source, target, i,
						)
					}
				}

				pending = append(pending, mappingReplacement{index: i, source: source, target: target})
				for j := i; j < i+sourceLen; j++ {
					affected[j] = true
				}

				i = indexOfRunes(runes, sourceRunes, i+1)
			}
		}

		if len(pending) == 0 {
			return in, nil
		}

		sort.Slice(pending, func(a, b int) bool { return pending[a].index < pending[b].index })

		var sb strings.Builder
		i := 0
		for _, r := range pending {
			sb.WriteString(string(runes[i:r.index]))
			sb.WriteString(r.target)
			i = r.index + len([]rune(r.source))
		}
		sb.WriteString(string(runes[i:]))

		return sb.String(), nil
	}
}

func indexOfRunes(haystack, needle []rune, from int) int {
	if len(needle) == 0 {
		return -1
	}
	for i := from; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, r := range needle {
			if haystack[i+j] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// NewMapping dispatches to Mapping or InlineMapping per tf.Inline.
func NewMapping(tf model.Transformer) Fn {
	if tf.Inline {
		return InlineMapping(tf.Mapping)
	}
	return Mapping(tf.Mapping, tf.DefaultValue)
}

// strftimeToGoLayout translates the small set of strptime/strftime
// directives the service exposes into Go's reference-time layout
// syntax.
func strftimeToGoLayout(format string) string {
	replacer := strings.NewReplacer(
		"%Y", "2006",
		"%y", "06",
		"%m", "01",
		"%d", "02",
		"%H", "15",
		"%M", "04",
		"%S", "05",
		"%B", "January",
		"%b", "Jan",
		"%A", "Monday",
		"%a", "Mon",
		"%%", "%",
	)
	return replacer.Replace(format)
}
