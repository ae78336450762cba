package driven

// TemplateStore provides access to the markdown templates behind the
// generated documents. Implementations may load templates from files or
// fall back to defaults embedded in the binary.
type TemplateStore interface {
	// Load returns the template source for the given name.
	Load(name string) (string, error)

	// Reload clears any cached templates, forcing fresh loads on next access.
	Reload()
}

// Well-known template names.
const (
	// TemplateAssessment renders the implementation readiness assessment.
	// It is a text/template executed against a domain.Assessment value.
	TemplateAssessment = "assessment"
)
