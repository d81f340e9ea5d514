// Package entitylink extracts table and column names from entity links such as
// <#E::table::shop.public.users::columns::email>.
package entitylink

import "strings"

const separator = "::"

func segments(link string) []string {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil
	}
	return strings.Split(link, separator)
}

// ColumnName returns the last segment of the link with any '>' removed.
func ColumnName(link string) string {
	parts := segments(link)
	if len(parts) == 0 {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(parts[len(parts)-1], ">", ""))
}

// Table returns the segment following the "table" marker, reduced to its base
// name, or "" when the link carries none.
func Table(link string) string {
	parts := segments(link)
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] != "table" {
			continue
		}
		fqn := strings.TrimSpace(strings.ReplaceAll(parts[i+1], ">", ""))
		if idx := strings.LastIndex(fqn, "."); idx >= 0 {
			return fqn[idx+1:]
		}
		return fqn
	}
	return ""
}
