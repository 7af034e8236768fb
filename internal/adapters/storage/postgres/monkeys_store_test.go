package postgres

import "testing"

func TestEscapeLike_NeutralizesMetacharacters(t *testing.T) {
	cases := map[string]string{
		"luna":       "luna",
		"100%":       `100\%`,
		"lu_na":      `lu\_na`,
		`lu\na`:      `lu\\na`,
		`%_\`:        `\%\_\\`,
		"":           "",
		"sin tocar!": "sin tocar!",
	}
	for in, want := range cases {
		if got := escapeLike(in); got != want {
			t.Errorf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}
