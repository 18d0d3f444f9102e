package dom

// QuirksMode is the rendering mode a document's doctype selects.
type QuirksMode uint

const (
	NoQuirks QuirksMode = iota
	Quirks
	LimitedQuirks
)

func (q QuirksMode) String() string {
	switch q {
	case Quirks:
		return "quirks"
	case LimitedQuirks:
		return "limited-quirks"
	default:
		return "no-quirks"
	}
}

// Document is the payload of the DocumentNode at the root of every tree. The
// doctype fields are empty when HasDoctype is false.
type Document struct {
	Name       string
	PublicID   string
	SystemID   string
	HasDoctype bool
	QuirksMode QuirksMode
}
