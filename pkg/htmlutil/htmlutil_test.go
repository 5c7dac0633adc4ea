package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestGetText(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(
		`<p><b>Jean</b> Dupont <i>(born 1900)</i> was <a href="/x">mayor</a>.</p>`,
	))
	require.NoError(t, err)
	require.Equal(t, "Jean Dupont (born 1900) was mayor.", GetText(doc))
	require.Equal(t, "", GetText(nil))
}

func TestCollapseWhitespace(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{in: "  a  b\tc\n", expected: "a b c"},
		{in: "a  b", expected: "a b"},
		{in: "\n\n", expected: ""},
		{in: "Élysée\u00a0 Palace", expected: "Élysée Palace"},
	}
	for _, test := range cases {
		require.Equal(t, test.expected, CollapseWhitespace(test.in))
	}
}
