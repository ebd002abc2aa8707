package services_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/services"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/mocks"
)

func joinedFixture(t *testing.T) []domain.Entry {
	t.Helper()
	r, err := services.NewUserResolver(mocks.TestUsers())
	require.NoError(t, err)

	return r.Join([]domain.SafetyStatus{
		mocks.TestStatus("1", "u1", domain.StatusSafe),
		mocks.TestStatus("2", "u99", domain.StatusNeedHelp),
		mocks.TestStatus("3", "u3", domain.StatusSafe),
		mocks.TestStatus("4", "u2", domain.StatusNeedHelp),
		mocks.TestStatus("5", "u1", domain.StatusUnknown),
	})
}

func reportIDs(entries []domain.Entry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.Report.ID)
	}
	return ids
}

func TestFilterEntries_EmptyQueryKeepsResolved(t *testing.T) {
	entries := joinedFixture(t)

	got := services.FilterEntries(entries, "")
	assert.Equal(t, []string{"1", "3", "4", "5"}, reportIDs(got))
}

func TestFilterEntries_IdentityOnResolvedSet(t *testing.T) {
	resolved := services.FilterEntries(joinedFixture(t), "")

	assert.Equal(t, resolved, services.FilterEntries(resolved, ""))
}

func TestFilterEntries_Queries(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"by name", "田中", []string{"1", "5"}},
		{"case insensitive name", "SMITH", []string{"3"}},
		{"by user id", "u2", []string{"4"}},
		{"user id upper case", "U3", []string{"3"}},
		{"matches both", "u", []string{"1", "3", "4", "5"}},
		{"no match", "佐藤 次郎", []string{}},
		{"unresolved id never matches", "u99", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := services.FilterEntries(joinedFixture(t), tt.query)
			assert.Equal(t, tt.want, reportIDs(got))
		})
	}
}

func TestFilterEntries_Properties(t *testing.T) {
	entries := joinedFixture(t)

	for _, q := range []string{"田", "u", "john", "U1", "x", "花子"} {
		t.Run(q, func(t *testing.T) {
			once := services.FilterEntries(entries, q)

			// idempotent
			assert.Equal(t, once, services.FilterEntries(once, q))

			// every element matches and is resolved
			for _, e := range once {
				require.True(t, e.Resolved())
				lq := strings.ToLower(q)
				assert.True(t,
					strings.Contains(strings.ToLower(e.User.Name), lq) ||
						strings.Contains(strings.ToLower(e.Report.UserID), lq))
			}

			// subsequence of the input in original order
			i := 0
			for _, e := range once {
				for i < len(entries) && entries[i].Report.ID != e.Report.ID {
					i++
				}
				require.Less(t, i, len(entries), "result is not a subsequence")
				i++
			}
		})
	}
}

func TestBuildView(t *testing.T) {
	entries := joinedFixture(t)

	t.Run("populated", func(t *testing.T) {
		v := services.BuildView(entries, "")
		p, ok := v.(domain.Populated)
		require.True(t, ok)
		assert.Len(t, p.Entries, 4)
		assert.Equal(t, 1, p.Unresolved)
	})

	t.Run("no matches", func(t *testing.T) {
		v := services.BuildView(entries, "佐藤 次郎")
		assert.Equal(t, domain.Empty{Reason: domain.EmptyNoMatches, Unresolved: 1}, v)
	})

	t.Run("no reports", func(t *testing.T) {
		assert.Equal(t, domain.Empty{Reason: domain.EmptyNoReports}, services.BuildView(nil, ""))
		assert.Equal(t, domain.Empty{Reason: domain.EmptyNoReports}, services.BuildView(nil, "田中"))
	})

	t.Run("only unresolved reports", func(t *testing.T) {
		only := []domain.Entry{{Report: mocks.TestStatus("9", "u99", domain.StatusSafe)}}
		assert.Equal(t, domain.Empty{Reason: domain.EmptyNoReports, Unresolved: 1}, services.BuildView(only, ""))
	})
}
