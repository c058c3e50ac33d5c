package staging

import "strings"

// ScopeAll is the sentinel firm scope that bypasses row filtering. It lives
// on the user, never on records.
const ScopeAll = "all"

// UserContext is the caller's identity for scoping and permission gates.
// It is passed explicitly to every call; the engine keeps no ambient
// session state.
type UserContext struct {
	UserID      string
	Name        string
	FirmScope   string
	Permissions map[string]bool
}

// Allowed reports whether the user holds the given permission bit.
func (u UserContext) Allowed(perm string) bool {
	return u.Permissions[perm]
}

// SeesAll reports whether the user's scope bypasses firm filtering.
func (u UserContext) SeesAll() bool {
	return strings.EqualFold(strings.TrimSpace(u.FirmScope), ScopeAll)
}

// CanSee reports row visibility for a single record: scope "all" sees
// everything, otherwise the record's firm must match case-insensitively.
// Records with a blank firm are hidden from scoped users.
func (u UserContext) CanSee(r Record, firmField string) bool {
	if u.SeesAll() {
		return true
	}
	firm := r.Str(firmField)
	if firm == "" {
		return false
	}
	return strings.EqualFold(firm, strings.TrimSpace(u.FirmScope))
}

// FilterVisible keeps the records the user may see, preserving input
// order. Single O(n) pass, no caching between renders.
func FilterVisible(records []Record, firmField string, user UserContext) []Record {
	if user.SeesAll() {
		out := make([]Record, len(records))
		copy(out, records)
		return out
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if user.CanSee(r, firmField) {
			out = append(out, r)
		}
	}
	return out
}
