package grammar

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dhamidi/nbtkit/packrat"
)

// Grammar is a dictionary of text rules with a designated top rule.
type Grammar[T any] struct {
	rules *packrat.Dictionary[*Reader]
	top   *packrat.NamedRule[*Reader, T]
}

// NewGrammar fails when a rule referenced from the dictionary was never bound.
func NewGrammar[T any](rules *packrat.Dictionary[*Reader], top *packrat.NamedRule[*Reader, T]) (*Grammar[T], error) {
	if err := rules.CheckAllBound(); err != nil {
		return nil, err
	}
	return &Grammar[T]{rules: rules, top: top}, nil
}

// Parse runs the top rule against state.
func (g *Grammar[T]) Parse(state *State) (T, bool, error) {
	return packrat.ParseTopRule(state, g.top)
}

// ParseForCommands parses a prefix of r. On failure the reasons recorded at
// the furthest position are turned into an error; the first *SyntaxError
// among them is preferred.
func (g *Grammar[T]) ParseForCommands(r *Reader) (T, error) {
	collector := packrat.NewLongestOnly[*Reader]()
	state := packrat.NewState(r, collector)
	v, ok, err := g.Parse(state)
	if err != nil {
		return v, err
	}
	if ok {
		return v, nil
	}

	entries := collector.Entries()
	var errs []error
	for _, e := range entries {
		switch reason := e.Reason.(type) {
		case DelayedError:
			errs = append(errs, reason.Create(r.Input(), e.Cursor))
		case error:
			errs = append(errs, reason)
		}
	}
	for _, err := range errs {
		var syntax *SyntaxError
		if errors.As(err, &syntax) {
			return v, syntax
		}
	}
	if len(errs) == 1 {
		return v, errs[0]
	}
	descs := make([]string, len(entries))
	for i, e := range entries {
		descs[i] = fmt.Sprintf("ErrorEntry[cursor=%d, reason=%v]", e.Cursor, e.Reason)
	}
	return v, fmt.Errorf("failed to parse: %s", strings.Join(descs, ", "))
}

// Suggestions are completion candidates that replace input from Start.
type Suggestions struct {
	Start  int
	Values []string
}

func (s Suggestions) IsEmpty() bool { return len(s.Values) == 0 }

// ParseForSuggestions parses input from start and lists the completions
// offered at the furthest failure. Candidates are filtered against the text
// already typed there.
func (g *Grammar[T]) ParseForSuggestions(input string, start int) Suggestions {
	collector := packrat.NewLongestOnly[*Reader]()
	state := packrat.NewState(NewReaderAt(input, start), collector)
	g.Parse(state)
	entries := collector.Entries()
	if len(entries) == 0 {
		return Suggestions{Start: start}
	}

	offset := collector.Cursor()
	typed := strings.ToLower(input[offset:])
	var values []string
	for _, e := range entries {
		switch s := e.Suggestions.(type) {
		case nil:
		case ResourceSuggestion:
			values = append(values, filterResources(s.PossibleResources(), typed)...)
		default:
			for _, v := range s.PossibleValues(state) {
				if MatchesSubStr(typed, strings.ToLower(v)) {
					values = append(values, v)
				}
			}
		}
	}
	slices.SortFunc(values, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return Suggestions{Start: offset, Values: slices.Compact(values)}
}

// MatchesSubStr reports whether input is a prefix of candidate or of any of
// its segments after '.', '_' or '/'.
func MatchesSubStr(input, candidate string) bool {
	for i := 0; !strings.HasPrefix(candidate[i:], input); {
		j := strings.IndexAny(candidate[i:], "._/")
		if j < 0 {
			return false
		}
		i += j + 1
	}
	return true
}

func filterResources(ids []Identifier, typed string) []string {
	qualified := strings.ContainsRune(typed, ':')
	var out []string
	for _, id := range ids {
		if qualified {
			if MatchesSubStr(typed, id.String()) {
				out = append(out, id.String())
			}
		} else if MatchesSubStr(typed, id.Namespace) || MatchesSubStr(typed, id.Path) {
			out = append(out, id.String())
		}
	}
	return out
}
