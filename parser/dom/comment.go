package dom

// Comment is the payload of a CommentNode. OriginalText includes the
// "<!--" and "-->" delimiters.
type Comment struct {
	CharacterData
}
