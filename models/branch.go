package models

import "sort"

// Branches maps branch numbers to branch names. Branch numbers are the
// store identifiers employees know; names are what the call log records.
var Branches = map[int]string{
	1:  "Cambridge",
	2:  "North Canton",
	3:  "Gallipolis",
	4:  "Dublin",
	5:  "Monroe",
	6:  "Burlington",
	7:  "Perrysburg",
	9:  "Brunswick",
	11: "Mentor",
	12: "Fort Wayne",
	13: "Indianapolis",
	14: "Mansfield",
	15: "Heath",
	16: "Marietta",
	17: "Evansville",
	18: "Brilliant",
	19: "Holt",
	20: "Novi",
	24: "South Charleston",
}

// ValidBranchName reports whether the name is a known branch.
func ValidBranchName(name string) bool {
	for _, n := range Branches {
		if n == name {
			return true
		}
	}
	return false
}

// BranchNames returns every branch name sorted alphabetically.
func BranchNames() []string {
	names := make([]string, 0, len(Branches))
	for _, name := range Branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
