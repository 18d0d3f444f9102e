package dom

// Text is the payload of a TextNode.
type Text struct {
	CharacterData
}
