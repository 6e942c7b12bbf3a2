// internal/elicit/tokens.go
package elicit

import "strings"

// Reserved literals recognized as user input regardless of workflow and
// phase. The sets are bilingual, matching the original conversation
// surface.
var (
	resetTokens = map[string]bool{
		"reset":     true,
		"reiniciar": true,
	}

	acceptTokens = map[string]bool{
		"yes":      true,
		"si":       true,
		"sí":       true,
		"ok":       true,
		"vale":     true,
		"perfecto": true,
		"me gusta": true,
	}

	declineTokens = map[string]bool{
		"no":          true,
		"nah":         true,
		"otro":        true,
		"siguiente":   true,
		"no me gusta": true,
	}

	cancelTokens = map[string]bool{
		"cancel":   true,
		"cancelar": true,
	}
)

func normalizeToken(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// IsReset reports whether the input is the reset literal. Workflows
// check this before anything else and short-circuit to a fresh
// conversation.
func IsReset(input string) bool {
	return resetTokens[normalizeToken(input)]
}

func IsAccept(input string) bool {
	return acceptTokens[normalizeToken(input)]
}

func IsDecline(input string) bool {
	return declineTokens[normalizeToken(input)]
}

// IsCancel reports whether the input explicitly ends the conversation.
// Cancellation is a Final outcome, never an error.
func IsCancel(input string) bool {
	return cancelTokens[normalizeToken(input)]
}
