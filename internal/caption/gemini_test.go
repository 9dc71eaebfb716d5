package caption_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/memeforge/memeforge/internal/caption"
)

func TestParseResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want caption.Pair
	}{
		{
			name: "clean json",
			raw:  `{"topText": "Top line", "bottomText": "Bottom line"}`,
			want: caption.Pair{Top: "Top line", Bottom: "Bottom line"},
		},
		{
			name: "json wrapped in prose",
			raw:  "Sure! Here's your meme:\n```json\n{\"topText\": \"Top line\", \"bottomText\": \"Bottom line\"}\n```\nEnjoy!",
			want: caption.Pair{Top: "Top line", Bottom: "Bottom line"},
		},
		{
			name: "plain two lines",
			raw:  "Top line\nBottom line",
			want: caption.Pair{Top: "Top line", Bottom: "Bottom line"},
		},
		{
			name: "lines with blank padding",
			raw:  "\n\n  Top line  \n\n  Bottom line  \n",
			want: caption.Pair{Top: "Top line", Bottom: "Bottom line"},
		},
		{
			name: "single line falls back to default bottom",
			raw:  "Only line",
			want: caption.Pair{Top: "Only line", Bottom: caption.DefaultPair.Bottom},
		},
		{
			name: "empty response falls back entirely",
			raw:  "",
			want: caption.DefaultPair,
		},
		{
			name: "whitespace only falls back entirely",
			raw:  "   \n  \n",
			want: caption.DefaultPair,
		},
		{
			name: "json missing a field uses line fallback",
			raw:  `{"topText": "Top only"}`,
			want: caption.Pair{Top: `{"topText": "Top only"}`, Bottom: caption.DefaultPair.Bottom},
		},
		{
			name: "invalid json uses line fallback",
			raw:  "{broken json\nBottom line",
			want: caption.Pair{Top: "{broken json", Bottom: "Bottom line"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, caption.ParseResponse(tt.raw))
		})
	}
}

func TestDefaultPair(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "When she says she's just going out with friends", caption.DefaultPair.Top)
	assert.Equal(t, "But comes home with another man's scent", caption.DefaultPair.Bottom)
}
