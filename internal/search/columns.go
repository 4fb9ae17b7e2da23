package search

import "strings"

// Field category tokens accepted by the type and filterType parameters
const (
	TypeAll            = "all"
	TypeProtein        = "protein"
	TypeDisease        = "disease"
	TypeMRI            = "mri"
	TypeDiseaseMRI     = "disease_mri"
	TypeProteinDisease = "protein_disease"
	TypeProteinMRI     = "protein_mri"
)

var (
	proteinColumns = []string{"protein", "protein_name", "gene", "gene_name", "uniprot_id"}
	diseaseColumns = []string{"disease", "disease_name", "disease_category", "disease_group", "outcome", "phenotype"}
	mriColumns     = []string{
		"mri", "mri_phenotype", "mri_trait", "mri_category",
		"cmr_trait", "cmr_category", "bmr_trait", "bmr_category",
		"imaging", "brain_region",
	}
)

var columnSets = map[string][]string{
	TypeProtein:        proteinColumns,
	TypeDisease:        diseaseColumns,
	TypeMRI:            mriColumns,
	TypeDiseaseMRI:     union(diseaseColumns, mriColumns),
	TypeProteinDisease: union(proteinColumns, diseaseColumns),
	TypeProteinMRI:     union(proteinColumns, mriColumns),
}

// Columns returns the column names searched for a category token.
// "all", empty and unknown tokens return nil, meaning every column.
func Columns(token string) []string {
	set, ok := columnSets[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return nil
	}
	out := make([]string, len(set))
	copy(out, set)
	return out
}

// IsKnownType reports whether token names a category or "all"
func IsKnownType(token string) bool {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == TypeAll {
		return true
	}
	_, ok := columnSets[token]
	return ok
}

func union(sets ...[]string) []string {
	var out []string
	for _, set := range sets {
		out = append(out, set...)
	}
	return out
}
