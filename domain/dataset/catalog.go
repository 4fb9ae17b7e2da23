package dataset

import "strings"

// Titles maps the known result files to their display titles
var Titles = map[string]string{
	"mri_association.csv":           "MRI association",
	"protein_mri_association.csv":   "Protein–MRI association",
	"protein_prevalence.csv":        "Protein–disease prevalence",
	"protein_incidence.csv":         "Protein–disease incidence",
	"protein_disease_causality.csv": "Protein–disease causality (MR)",
}

// Group is a named selection of result files. Files lists explicit members;
// otherwise a file belongs to the group when it contains every Match token.
type Group struct {
	Label string   `json:"label"`
	Value string   `json:"value"`
	Files []string `json:"files,omitempty"`
	Match []string `json:"match,omitempty"`
}

// AllGroup is the value of the group that applies no narrowing
const AllGroup = "all"

// Groups lists the dataset groups in display order
var Groups = []Group{
	{Label: "All datasets", Value: AllGroup},
	{Label: "MRI association", Value: "mri-association", Match: []string{"mri", "association"}},
	{Label: "Protein–MRI association", Value: "protein-mri", Match: []string{"protein", "mri"}},
	{
		Label: "Protein–disease association",
		Value: "disease-association",
		Files: []string{"protein_prevalence.csv", "protein_incidence.csv"},
	},
	{
		Label: "Protein–disease causality",
		Value: "disease-causality",
		Files: []string{"protein_disease_causality.csv"},
		Match: []string{"causality"},
	},
}

// FindGroup returns the group with the given value
func FindGroup(value string) (Group, bool) {
	for _, g := range Groups {
		if strings.EqualFold(g.Value, value) {
			return g, true
		}
	}
	return Group{}, false
}

// ResolveGroup returns the members of group among available, in available order.
// A nil result means no narrowing: the group is "all", empty or unknown.
func ResolveGroup(value string, available []string) []string {
	g, ok := FindGroup(value)
	if !ok || g.Value == AllGroup {
		return nil
	}

	members := make([]string, 0, len(available))
	if len(g.Files) > 0 {
		for _, name := range available {
			for _, f := range g.Files {
				if strings.EqualFold(name, f) {
					members = append(members, name)
					break
				}
			}
		}
		return members
	}

	for _, name := range available {
		if matchesAll(name, g.Match) {
			members = append(members, name)
		}
	}
	return members
}

func matchesAll(filename string, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	lower := strings.ToLower(filename)
	for _, token := range tokens {
		if !strings.Contains(lower, strings.ToLower(token)) {
			return false
		}
	}
	return true
}

// TitleFor returns the display title of filename, falling back to the filename itself
func TitleFor(filename string) string {
	for name, title := range Titles {
		if strings.EqualFold(name, filename) {
			return title
		}
	}
	return filename
}
