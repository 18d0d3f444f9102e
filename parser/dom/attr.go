package dom

// Attr is a single attribute of an element.
type Attr struct {
	Name  string
	Value string
}

// Attributes holds an element's attributes in source order.
type Attributes []Attr

// Get returns the value of the first attribute called name.
func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Names returns the attribute names in source order.
func (a Attributes) Names() []string {
	names := make([]string, 0, len(a))
	for _, attr := range a {
		names = append(names, attr.Name)
	}
	return names
}
