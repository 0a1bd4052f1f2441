// Package mime extracts readable text from Gmail message payloads.
package mime

import (
	"encoding/base64"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	gm "google.golang.org/api/gmail/v1"
)

// NoBodyFound is returned when a payload carries no extractable text part.
const NoBodyFound = "No body found"

// stripPolicy removes every tag and the contents of script/style elements,
// leaving only the text a reader would see.
var stripPolicy = bluemonday.StrictPolicy()

// ExtractText returns the plain text of a message payload.
//
// Only the payload's immediate parts are searched: an HTML part wins and is
// tag-stripped, otherwise a plain-text part is returned verbatim. Nested
// multipart containers are not descended into, so deeply nested messages
// yield NoBodyFound.
func ExtractText(payload *gm.MessagePart) string {
	if payload == nil {
		return NoBodyFound
	}

	if part := findPart(payload.Parts, "text/html"); part != nil {
		if decoded, err := DecodeBase64URL(part.Body.Data); err == nil {
			return StripHTML(decoded)
		}
	}

	if part := findPart(payload.Parts, "text/plain"); part != nil {
		if decoded, err := DecodeBase64URL(part.Body.Data); err == nil {
			return decoded
		}
	}

	return NoBodyFound
}

// findPart returns the first immediate part of the given MIME type that
// carries inline data.
func findPart(parts []*gm.MessagePart, mimeType string) *gm.MessagePart {
	for _, part := range parts {
		if part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
			return part
		}
	}
	return nil
}

// StripHTML reduces an HTML document to its text content. Tag markup and
// script/style payloads are discarded and entities are resolved.
func StripHTML(htmlContent string) string {
	return html.UnescapeString(stripPolicy.Sanitize(htmlContent))
}

// DecodeBase64URL decodes Gmail's base64url-encoded content. The decoded
// bytes are interpreted as UTF-8.
func DecodeBase64URL(data string) (string, error) {
	// Gmail uses URL-safe base64 without padding.
	data = strings.ReplaceAll(data, "-", "+")
	data = strings.ReplaceAll(data, "_", "/")
	// Add padding if needed.
	switch len(data) % 4 {
	case 2:
		data += "=="
	case 3:
		data += "="
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
