package generate

import (
	"strings"

	"github.com/voicedraft/voicedraft/internal/fault"
)

// Placeholder is the single substitution point a prompt template must carry.
// Everything else in the template is opaque text.
const Placeholder = "{transcript}"

// Fill substitutes the transcript into the template's placeholder.
func Fill(template, transcript string) (string, error) {
	if !strings.Contains(template, Placeholder) {
		return "", fault.New(fault.KindInvalidInput, "template has no %s placeholder", Placeholder)
	}
	return strings.ReplaceAll(template, Placeholder, transcript), nil
}
