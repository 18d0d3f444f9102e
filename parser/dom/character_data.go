package dom

// CharacterData is shared by text and comment nodes. Data is the decoded
// content; OriginalText is the literal source markup, delimiters included.
type CharacterData struct {
	Data         string
	OriginalText string
	StartPos     Position
}
