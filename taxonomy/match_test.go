package taxonomy

import "testing"

func TestMatch(t *testing.T) {
	cases := []struct {
		pattern string
		code    string
		want    bool
	}{
		{"ore-copper", "ore-copper", true},
		{"ore-copper", "ore-tin", false},
		{"*", "anything-at-all", true},
		{"*", "", true},

		{"ore-*", "ore-copper", true},
		{"ore-*", "ore-poor-copper-granite", true},
		{"ore-*", "ore", false},
		{"ore-*", "stone", false},
		{"ore-*", "ore-", true},

		{"*-copper", "ore-copper", true},
		{"*-copper", "nugget-copper", true},
		{"*-copper", "copper", false},

		{"*-ore-*", "rich-ore-granite", true},
		{"*-ore-*", "ore-granite", false},
		{"*-ore-*", "rich-ore", false},

		{"ore-*-granite", "ore-poor-copper-granite", true},
		{"ore-*-granite", "ore-granite", false},
		{"ore-*-granite", "ore-x-granite", true},

		{"bush-*-ripe", "bush-blueberry-ripe", true},
		{"bush-*-ripe", "bush-blueberry-empty", false},

		{"wolf-*", "wolf-male", true},
		{"wolf-*", "direwolf-male", false},

		// Case-sensitive against canonical lowercase codes.
		{"Ore-*", "ore-copper", false},
	}
	for _, tc := range cases {
		if got := Match(tc.pattern, tc.code); got != tc.want {
			t.Fatalf("Match(%q, %q) = %v, want %v", tc.pattern, tc.code, got, tc.want)
		}
	}
}
