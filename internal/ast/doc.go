package ast

// Doc is a doc comment (`/** ... */`) together with the span it covers.
type Doc struct {
	Text string `json:"text"`
	Span Span   `json:"span"`
}

// DocSlot holds the doc comment of a node. Original is what the parser saw and
// is never modified, so a printer can tell which comments were rewritten.
type DocSlot struct {
	Doc      *Doc
	Original *Doc

	// Anchor is the byte offset a new comment is inserted at when the node
	// had none. Indent is the whitespace preceding the node on its line.
	Anchor int
	Indent string
}

// NewDocSlot returns a slot whose current comment is the parsed one.
func NewDocSlot(doc *Doc, anchor int, indent string) DocSlot {
	return DocSlot{Doc: doc, Original: doc, Anchor: anchor, Indent: indent}
}

// DocComment returns the current doc comment, or nil.
func (s *DocSlot) DocComment() *Doc { return s.Doc }

// SetDocComment replaces the current doc comment.
func (s *DocSlot) SetDocComment(d *Doc) { s.Doc = d }

// Modified reports whether the comment was replaced since parsing.
func (s *DocSlot) Modified() bool { return s.Doc != s.Original }
