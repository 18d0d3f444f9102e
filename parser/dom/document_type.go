package dom

// DocumentType is the payload of a DocumentTypeNode.
type DocumentType struct {
	Name         string
	PublicID     string
	SystemID     string
	OriginalText string
	StartPos     Position
}
