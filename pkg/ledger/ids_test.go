package ledger

import "testing"

func TestNextID(t *testing.T) {
	cases := []struct {
		name     string
		prefix   string
		existing []string
		want     string
	}{
		{"empty", "CID", nil, "CID001"},
		{"sequential", "P", []string{"P001", "P002", "P005"}, "P006"},
		{"ignores other prefixes", "L", []string{"CID001", "CID002"}, "L001"},
		{"ignores non-numeric", "R", []string{"R001", "Rxyz", "R"}, "R002"},
		{"grows past padding", "L", []string{"L999"}, "L1000"},
		{"receipt namespace", "RCP", []string{"RCP001", "RCP002", "R003"}, "RCP003"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextID(tc.prefix, tc.existing)
			if got != tc.want {
				t.Errorf("NextID(%q, %v) = %q, want %q", tc.prefix, tc.existing, got, tc.want)
			}
		})
	}
}
