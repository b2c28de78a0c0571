package model

// TitleHeaderFooter is a header or footer showing a single line of text
type TitleHeaderFooter struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// NewTitle creates a title header/footer. The key defaults to a generated one.
func NewTitle(id, title string) *TitleHeaderFooter {
	if id == "" {
		id = NewKey()
	}
	return &TitleHeaderFooter{ID: id, Title: title}
}

func (t *TitleHeaderFooter) Key() string {
	return t.ID
}

func (t *TitleHeaderFooter) ContentEquals(other HeaderFooter) bool {
	o, ok := other.(*TitleHeaderFooter)
	return ok && o != nil && o.Title == t.Title
}

// SpacerHeaderFooter is a header or footer without content, drawn in a background color
type SpacerHeaderFooter struct {
	ID    string `json:"id"`
	Color string `json:"color"`
}

func (s *SpacerHeaderFooter) Key() string {
	return s.ID
}

func (s *SpacerHeaderFooter) ContentEquals(other HeaderFooter) bool {
	o, ok := other.(*SpacerHeaderFooter)
	return ok && o != nil && o.Color == s.Color
}
