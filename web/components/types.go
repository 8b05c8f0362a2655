package components

// Variant selects the styling of a toast.
type Variant string

const (
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantWarning Variant = "warning"
	VariantInfo    Variant = "info"
)

// ParseVariant maps form values onto a Variant, defaulting to success.
func ParseVariant(s string) Variant {
	switch s {
	case "error", "destructive":
		return VariantError
	case "warning":
		return VariantWarning
	case "info":
		return VariantInfo
	default:
		return VariantSuccess
	}
}

// ToastProps configures a Toast.
type ToastProps struct {
	Title       string
	Description string
	Variant     Variant
	Dismissible bool
	Class       string
}

// ResultProps configures the generation result fragment. Frames holds one
// URL for a still image and several for an animation.
type ResultProps struct {
	Toast  ToastProps
	Frames []string
}
