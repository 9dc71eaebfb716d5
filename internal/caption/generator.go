package caption

import "context"

// Pair is a two-line meme caption.
type Pair struct {
	Top    string `json:"topText"`
	Bottom string `json:"bottomText"`
}

// DefaultPair is the fallback caption used when generation fails or returns
// nothing usable.
var DefaultPair = Pair{
	Top:    "When she says she's just going out with friends",
	Bottom: "But comes home with another man's scent",
}

// Generator produces a caption pair for an image.
type Generator interface {
	// Generate returns a caption pair for the image. Implementations may
	// return DefaultPair alongside a nil error when the upstream response is
	// unusable but the call itself succeeded.
	Generate(ctx context.Context, image []byte, mimeType string) (Pair, error)
}
