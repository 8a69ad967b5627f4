package template

import (
	"assethub/domain/constraint"
	"regexp"
	"sort"
	"strings"
)

var variablePattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Substitute replaces every literal {{NAME}} occurrence in every string field
// of the constraint definitions with values[NAME]. Substitution is plain text
// replacement: no escaping, and a substituted value is not re-scanned for
// further tokens. Variables are applied in sorted name order so the output is
// reproducible.
func Substitute(definitions []ConstraintDefinition, values map[string]string) []ConstraintDefinition {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	replace := func(s string) string {
		for _, name := range names {
			s = strings.ReplaceAll(s, "{{"+name+"}}", values[name])
		}
		return s
	}

	substituted := make([]ConstraintDefinition, len(definitions))
	for i, def := range definitions {
		out := ConstraintDefinition{
			Name:        replace(def.Name),
			Description: replace(def.Description),
			ObjectType:  replace(def.ObjectType),
		}
		out.CriteriaAnd = substituteCriteria(def.CriteriaAnd, replace)
		out.CriteriaOr = substituteCriteria(def.CriteriaOr, replace)
		if def.GroupPermissions != nil {
			out.GroupPermissions = make([]ConstraintPermission, len(def.GroupPermissions))
			for j, perm := range def.GroupPermissions {
				out.GroupPermissions[j] = ConstraintPermission{Action: replace(perm.Action), Type: replace(perm.Type)}
			}
		}
		substituted[i] = out
	}
	return substituted
}

func substituteCriteria(criteria []constraint.Criterion, replace func(string) string) []constraint.Criterion {
	if criteria == nil {
		return nil
	}
	out := make([]constraint.Criterion, len(criteria))
	for i, criterion := range criteria {
		out[i] = constraint.Criterion{
			Field:    replace(criterion.Field),
			Operator: replace(criterion.Operator),
			Value:    criterion.Value.Map(replace),
		}
	}
	return out
}

// FindUnreplaced scans already substituted definitions and collects every
// {{NAME}} token still present. The result is sorted and free of duplicates
// so error messages are stable.
func FindUnreplaced(definitions []ConstraintDefinition) []string {
	found := map[string]bool{}
	scan := func(s string) {
		for _, match := range variablePattern.FindAllStringSubmatch(s, -1) {
			found[match[1]] = true
		}
	}

	for _, def := range definitions {
		scan(def.Name)
		scan(def.Description)
		scan(def.ObjectType)
		for _, criterion := range append(append([]constraint.Criterion{}, def.CriteriaAnd...), def.CriteriaOr...) {
			scan(criterion.Field)
			scan(criterion.Operator)
			for _, s := range criterion.Value.Strings() {
				scan(s)
			}
		}
		for _, perm := range def.GroupPermissions {
			scan(perm.Action)
			scan(perm.Type)
		}
	}

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
