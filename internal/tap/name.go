package tap

import "strings"

// SanitizeName collapses every run of characters outside [A-Za-z0-9._-]
// into a single underscore, the name-normalisation rule applied to TAP
// result names before they're reported.
func SanitizeName(name string) string {
	var sb strings.Builder
	inRun := false
	for _, r := range name {
		if isNameChar(r) {
			sb.WriteRune(r)
			inRun = false
			continue
		}
		if !inRun {
			sb.WriteByte('_')
			inRun = true
		}
	}
	return sb.String()
}

func isNameChar(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '.' || r == '_' || r == '-':
		return true
	default:
		return false
	}
}

// PrefixName joins a relative test-executable path to a sanitised result
// name ("relpath:name"), disambiguating identically-named sub-tests across
// different test executables in one run.
func PrefixName(relExecPath, name string) string {
	return relExecPath + ":" + SanitizeName(name)
}
