package visualization

import (
	"strings"
	"unicode"
)

// Role is the meaning a column plays in a figure
type Role string

const (
	RoleOddsRatio   Role = "odds_ratio"
	RoleHazardRatio Role = "hazard_ratio"
	RoleCILower     Role = "ci_lower"
	RoleCIUpper     Role = "ci_upper"
	RolePValue      Role = "pvalue"
	RoleModel       Role = "model"
	RoleProtein     Role = "protein"
	RoleDisease     Role = "disease"
	RoleLabel       Role = "label"
	RoleBeta        Role = "beta"
)

// roleCandidates is evaluated top to bottom: the first candidate present in a
// table's headers decides the column for that role.
var roleCandidates = map[Role][]string{
	RoleOddsRatio:   {"odds_ratio", "odds ratio", "or"},
	RoleHazardRatio: {"hazard_ratio", "hazard ratio", "hr"},
	RoleCILower:     {"ci_lower", "95% CI lower", "lower_ci", "ci_low", "lower95", "l95", "lower"},
	RoleCIUpper:     {"ci_upper", "95% CI upper", "upper_ci", "ci_high", "upper95", "u95", "upper"},
	RolePValue:      {"pvalue", "p_value", "pval", "p"},
	RoleModel:       {"model", "analysis_model", "mr_method", "method"},
	RoleProtein:     {"protein", "protein_name", "gene", "gene_name"},
	RoleDisease:     {"disease", "disease_name", "outcome", "phenotype"},
	RoleLabel: {
		"label", "protein", "protein_name", "gene", "disease", "disease_name",
		"phenotype", "trait", "mri_trait", "cmr_trait", "outcome",
	},
	RoleBeta: {"beta", "coefficient", "correlation", "effect", "effect_size", "estimate"},
}

// Default heatmap axis precedence. The column axis never reuses the row axis header.
var (
	DefaultRowAxes = []string{"cmr_trait", "protein", "protein_name", "gene", "mri_trait", "disease"}
	DefaultColAxes = []string{
		"bmr_trait", "mri_trait", "mri_phenotype", "disease", "disease_name", "outcome",
		"cmr_category", "bmr_category", "mri_category", "disease_category",
	}
)

// normalizeName lowercases name and drops everything but letters and digits,
// so "P value", "p_value", "p-value" and "pvalue" compare equal.
func normalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ResolveColumn returns the first header matching a candidate, trying
// candidates in order and comparing normalized names.
func ResolveColumn(headers []string, candidates ...string) (string, bool) {
	return resolveExcluding(headers, "", candidates)
}

// resolveExcluding is ResolveColumn ignoring the header named exclude
func resolveExcluding(headers []string, exclude string, candidates []string) (string, bool) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeName(h)
	}
	for _, candidate := range candidates {
		want := normalizeName(candidate)
		if want == "" {
			continue
		}
		for i, h := range headers {
			if h != exclude && normalized[i] == want {
				return h, true
			}
		}
	}
	return "", false
}

// resolveRole resolves a role through the strategy table
func resolveRole(headers []string, role Role) (string, bool) {
	return ResolveColumn(headers, roleCandidates[role]...)
}
