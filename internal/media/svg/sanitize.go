package svg

import (
	"bytes"
	"errors"
	"regexp"
)

var (
	scriptTagPattern = regexp.MustCompile(`(?is)<\s*script[\s>].*?<\s*/\s*script\s*>`)
	eventAttrPattern = regexp.MustCompile(`(?is)\son[a-z]+\s*=\s*("[^"]*"|'[^']*')`)
	scriptHrefAttr   = regexp.MustCompile(`(?is)\s(?:xlink:)?href\s*=\s*("\s*javascript:[^"]*"|'\s*javascript:[^']*')`)
)

// Sanitize strips executable content from an uploaded SVG so it is safe to
// serve inline. Cat profile galleries accept SVGs straight from the admin UI.
func Sanitize(input []byte) ([]byte, error) {
	if !bytes.Contains(bytes.ToLower(input), []byte("<svg")) {
		return nil, errors.New("not an svg document")
	}

	clean := scriptTagPattern.ReplaceAll(input, nil)
	clean = eventAttrPattern.ReplaceAll(clean, nil)
	clean = scriptHrefAttr.ReplaceAll(clean, nil)

	return clean, nil
}
