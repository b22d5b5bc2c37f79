package document

// Style is a set of optional text properties. Zero values mean
// "inherit"; numeric properties use pointers only where zero is a
// meaningful value.
type Style struct {
	Font             string
	FontSize         float64
	LineHeight       float64
	CharacterSpacing float64
	Alignment        string
	Color            string
	Background       string
	MarkerColor      string
	Bold             *bool
	Italics          *bool
	NoWrap           *bool
}

// StyleStack resolves style properties through a stack of scopes, the
// innermost scope winning, with a default style at the bottom.
type StyleStack struct {
	dict     map[string]*Style
	defaults *Style
	stack    []*Style
}

// NewStyleStack builds a stack over the named style dictionary and the
// default style. Both may be nil.
func NewStyleStack(dict map[string]*Style, defaults *Style) *StyleStack {
	if defaults == nil {
		defaults = &Style{}
	}
	return &StyleStack{dict: dict, defaults: defaults}
}

// Clone returns an independent copy sharing the dictionary and
// defaults, for isolated sub-traversals.
func (s *StyleStack) Clone() *StyleStack {
	c := &StyleStack{dict: s.dict, defaults: s.defaults}
	c.stack = append([]*Style(nil), s.stack...)
	return c
}

// Push adds a scope; Pop removes the most recent n scopes.
func (s *StyleStack) Push(st *Style) {
	if st != nil {
		s.stack = append(s.stack, st)
	}
}

func (s *StyleStack) Pop(n int) {
	if n > len(s.stack) {
		n = len(s.stack)
	}
	s.stack = s.stack[:len(s.stack)-n]
}

// AutoPush applies a node's style names and inline overrides and
// returns the number of scopes pushed, to be undone with Pop.
func (s *StyleStack) AutoPush(n *Node) int {
	pushed := 0
	for _, name := range n.Style {
		if st, ok := s.dict[name]; ok {
			s.Push(st)
			pushed++
		}
	}
	if n.Props != nil {
		s.Push(n.Props)
		pushed++
	}
	return pushed
}

func (s *StyleStack) stringProp(get func(*Style) string, fallback string) string {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if v := get(s.stack[i]); v != "" {
			return v
		}
	}
	if v := get(s.defaults); v != "" {
		return v
	}
	return fallback
}

func (s *StyleStack) floatProp(get func(*Style) float64, fallback float64) float64 {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if v := get(s.stack[i]); v != 0 {
			return v
		}
	}
	if v := get(s.defaults); v != 0 {
		return v
	}
	return fallback
}

func (s *StyleStack) boolProp(get func(*Style) *bool, fallback bool) bool {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if v := get(s.stack[i]); v != nil {
			return *v
		}
	}
	if v := get(s.defaults); v != nil {
		return *v
	}
	return fallback
}

func (s *StyleStack) Font() string {
	return s.stringProp(func(st *Style) string { return st.Font }, "Roboto")
}

func (s *StyleStack) FontSize() float64 {
	return s.floatProp(func(st *Style) float64 { return st.FontSize }, 12)
}

func (s *StyleStack) LineHeight() float64 {
	return s.floatProp(func(st *Style) float64 { return st.LineHeight }, 1)
}

func (s *StyleStack) CharacterSpacing() float64 {
	return s.floatProp(func(st *Style) float64 { return st.CharacterSpacing }, 0)
}

func (s *StyleStack) Alignment() string {
	return s.stringProp(func(st *Style) string { return st.Alignment }, "left")
}

func (s *StyleStack) Color() string {
	return s.stringProp(func(st *Style) string { return st.Color }, "black")
}

func (s *StyleStack) Background() string {
	return s.stringProp(func(st *Style) string { return st.Background }, "")
}

func (s *StyleStack) MarkerColor() string {
	return s.stringProp(func(st *Style) string { return st.MarkerColor }, s.Color())
}

func (s *StyleStack) Bold() bool {
	return s.boolProp(func(st *Style) *bool { return st.Bold }, false)
}

func (s *StyleStack) Italics() bool {
	return s.boolProp(func(st *Style) *bool { return st.Italics }, false)
}

func (s *StyleStack) NoWrap() bool {
	return s.boolProp(func(st *Style) *bool { return st.NoWrap }, false)
}
