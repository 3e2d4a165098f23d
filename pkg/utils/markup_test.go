package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripMarkup(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  Visit the\n\tForum  ", "Visit the Forum"},
		{"tags", "<p>Book <b>Vatican</b> tickets</p>", "Book Vatican tickets"},
		{"block boundaries", "<li>Colosseum</li><li>Pantheon</li>", "Colosseum Pantheon"},
		{"entities", "Fish &amp; chips &lt;3", "Fish & chips <3"},
		{"script skipped", "Keep<script>alert('x')</script> this", "Keep this"},
		{"style skipped", "<style>p{color:red}</style>Gelato", "Gelato"},
		{"unclosed", "<div>Trastevere dinner", "Trastevere dinner"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripMarkup(tc.in))
		})
	}
}
