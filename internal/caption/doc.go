// Package caption generates the two-line meme caption for an uploaded image.
//
// Generation is an opaque external call; the shipped implementation uses
// Google Gemini. The model is asked for JSON but does not reliably return it,
// so parsing degrades gracefully: JSON first, then the first two non-empty
// lines, then a fixed default pair. Callers additionally substitute
// DefaultPair when the call itself fails, so a broken model never blocks a
// generation the user is entitled to.
package caption
