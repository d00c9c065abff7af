package reindent

import "strings"

// Document is the ordered sequence of lines of one input file.
type Document []string

// Split breaks text into lines on '\n'. Empty text yields an empty Document.
func Split(text string) Document {
	if text == "" {
		return Document{}
	}
	return Document(strings.Split(text, "\n"))
}

// String joins the lines back with '\n'.
func (d Document) String() string {
	return strings.Join(d, "\n")
}
