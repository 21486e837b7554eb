package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Iron Temple":           "iron-temple",
		"  CrossFit  Period.  ": "crossfit-period",
		"24/7 Gym & Spa":        "24-7-gym-spa",
		"studio-one":            "studio-one",
		"ÜberFit":               "berfit",
	}
	for input, want := range cases {
		assert.Equal(t, want, slugify(input), "input %q", input)
	}
}
