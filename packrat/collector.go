package packrat

// SuggestionSupplier lists completion candidates for a failure position.
type SuggestionSupplier[S Input] interface {
	PossibleValues(state *State[S]) []string
}

// SuggestValues is a fixed list of candidates.
type SuggestValues[S Input] []string

func (v SuggestValues[S]) PossibleValues(*State[S]) []string { return v }

// ErrorCollector receives failure reasons during a parse. A reason is
// typically an error, a DelayedError-style factory or a string.
type ErrorCollector[S Input] interface {
	Store(cursor int, suggestions SuggestionSupplier[S], reason any)
	Finish(cursor int)
}

type ErrorEntry[S Input] struct {
	Cursor      int
	Suggestions SuggestionSupplier[S]
	Reason      any
}

// LongestOnly keeps the reasons recorded at the furthest cursor.
type LongestOnly[S Input] struct {
	entries    []ErrorEntry[S]
	lastCursor int
}

func NewLongestOnly[S Input]() *LongestOnly[S] {
	return &LongestOnly[S]{lastCursor: -1}
}

func (c *LongestOnly[S]) discardShorter(cursor int) {
	if cursor > c.lastCursor {
		c.lastCursor = cursor
		clear(c.entries)
		c.entries = c.entries[:0]
	}
}

func (c *LongestOnly[S]) Store(cursor int, suggestions SuggestionSupplier[S], reason any) {
	c.discardShorter(cursor)
	if cursor == c.lastCursor {
		c.entries = append(c.entries, ErrorEntry[S]{Cursor: cursor, Suggestions: suggestions, Reason: reason})
	}
}

func (c *LongestOnly[S]) Finish(cursor int) {
	c.discardShorter(cursor)
}

// Entries returns a copy of the reasons kept at Cursor.
func (c *LongestOnly[S]) Entries() []ErrorEntry[S] {
	return append([]ErrorEntry[S](nil), c.entries...)
}

// Cursor returns the furthest position seen, or -1.
func (c *LongestOnly[S]) Cursor() int { return c.lastCursor }

// Nop discards everything.
type Nop[S Input] struct{}

func (Nop[S]) Store(int, SuggestionSupplier[S], any) {}
func (Nop[S]) Finish(int)                            {}

// Control records whether a cut was reached inside an alternative.
type Control interface {
	Cut()
	HasCut() bool
}

// Unbound is the control passed to a rule body: cuts there commit nothing.
var Unbound Control = unbound{}

type unbound struct{}

func (unbound) Cut()         {}
func (unbound) HasCut() bool { return false }

type simpleControl struct {
	cut bool
}

func (c *simpleControl) Cut()         { c.cut = true }
func (c *simpleControl) HasCut() bool { return c.cut }
