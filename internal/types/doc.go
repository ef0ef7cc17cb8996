package types

import "strings"

// signatureEnd terminates a call signature embedded at the start of a
// doc string, as in "Widget(x)\n--\n\nA widget.".
const signatureEnd = ")\n--\n\n"

// findSignature returns the doc from the opening parenthesis of an embedded
// signature, or "" if the doc does not start with the short name followed
// by "(".
func findSignature(name, doc string) (string, bool) {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	if !strings.HasPrefix(doc, name) {
		return "", false
	}
	doc = doc[len(name):]
	if !strings.HasPrefix(doc, "(") {
		return "", false
	}
	return doc, true
}

// skipSignature returns the doc after the signature end marker. A blank
// line before the marker means there is no signature.
func skipSignature(doc string) (string, bool) {
	for i := 0; i < len(doc); i++ {
		if strings.HasPrefix(doc[i:], signatureEnd) {
			return doc[i+len(signatureEnd):], true
		}
		if doc[i] == '\n' && i+1 < len(doc) && doc[i+1] == '\n' {
			return "", false
		}
	}
	return "", false
}

// DocWithoutSignature returns doc with an embedded call signature removed.
// Docs without a well-formed signature are returned unchanged.
func DocWithoutSignature(name, doc string) string {
	if sig, ok := findSignature(name, doc); ok {
		if rest, ok := skipSignature(sig); ok {
			return rest
		}
	}
	return doc
}

// TextSignature returns the embedded call signature of doc, parentheses
// included, e.g. "(x)".
func TextSignature(name, doc string) (string, bool) {
	sig, ok := findSignature(name, doc)
	if !ok {
		return "", false
	}
	rest, ok := skipSignature(sig)
	if !ok {
		return "", false
	}
	return sig[:len(sig)-len(rest)-len(signatureEnd)+1], true
}

// DocValue returns the value published as __doc__: None for a type
// without a doc, otherwise the doc without its signature, which may be
// empty.
func DocValue(name, doc string) any {
	if doc == "" {
		return None
	}
	return DocWithoutSignature(name, doc)
}
