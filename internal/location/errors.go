package location

import "fmt"

// GrammarError reports malformed location text.
type GrammarError struct {
	Text    string
	Message string
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("location grammar error in %q: %s", e.Text, e.Message)
}

// GeometryError reports a violated location invariant.
type GeometryError struct {
	Message string
}

func (e *GeometryError) Error() string {
	return "location geometry error: " + e.Message
}
