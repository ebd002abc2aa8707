package services

import (
	"strings"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
)

// FilterEntries keeps the resolved entries whose user name or raw user id
// contains query, ignoring case. Relative order is preserved and an empty
// query keeps every resolved entry. Unresolved entries never pass.
func FilterEntries(entries []domain.Entry, query string) []domain.Entry {
	needle := strings.ToLower(query)
	out := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Resolved() {
			continue
		}
		if needle == "" ||
			strings.Contains(strings.ToLower(e.User.Name), needle) ||
			strings.Contains(strings.ToLower(e.Report.UserID), needle) {
			out = append(out, e)
		}
	}
	return out
}

// CountUnresolved returns how many entries reference an unknown user.
func CountUnresolved(entries []domain.Entry) int {
	n := 0
	for _, e := range entries {
		if !e.Resolved() {
			n++
		}
	}
	return n
}

// BuildView turns a settled, joined set into Empty or Populated.
func BuildView(entries []domain.Entry, query string) domain.View {
	unresolved := CountUnresolved(entries)
	if unresolved == len(entries) {
		return domain.Empty{Reason: domain.EmptyNoReports, Unresolved: unresolved}
	}

	filtered := FilterEntries(entries, query)
	if len(filtered) == 0 {
		return domain.Empty{Reason: domain.EmptyNoMatches, Unresolved: unresolved}
	}
	return domain.Populated{Entries: filtered, Unresolved: unresolved}
}
