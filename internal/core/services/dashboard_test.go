package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/services"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/metrics"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/mocks"
)

func newResolver(t *testing.T, users ...domain.User) *services.UserResolver {
	t.Helper()
	r, err := services.NewUserResolver(users)
	require.NoError(t, err)
	return r
}

func waitSettled(t *testing.T, d *services.Dashboard) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Wait(ctx))
}

func TestDashboard_LoadsAndRendersScenario(t *testing.T) {
	resolver := newResolver(t, domain.User{ID: "u1", Name: "田中 一郎"})
	fetcher := mocks.NewMockStatusFetcher(domain.SafetyStatus{
		ID:        "1",
		UserID:    "u1",
		Status:    domain.StatusSafe,
		Timestamp: "2023-09-01 14:30",
		Location:  "東京都中央区",
	})

	d := services.NewDashboard("d1", fetcher, resolver, nil, nil)
	require.NoError(t, d.Mount(context.Background()))
	waitSettled(t, d)

	v, ok := d.View("").(domain.Populated)
	require.True(t, ok)
	require.Len(t, v.Entries, 1)
	assert.Equal(t, "田中 一郎", v.Entries[0].DisplayName())
	assert.Equal(t, "安全", v.Entries[0].Report.Status.Label())

	assert.Equal(t, domain.Empty{Reason: domain.EmptyNoMatches}, d.View("佐藤"))
}

func TestDashboard_LoadingThenError(t *testing.T) {
	fetcher := mocks.NewBlockingStatusFetcher()
	fetcher.SetError(errors.New("HTTP 500"))

	d := services.NewDashboard("d1", fetcher, newResolver(t), nil, nil)
	assert.Equal(t, domain.Loading{}, d.View(""), "idle dashboards render as loading")

	require.NoError(t, d.Mount(context.Background()))
	<-fetcher.Started
	assert.Equal(t, domain.ViewLoading, d.View("").Kind())

	fetcher.Unblock()
	waitSettled(t, d)

	assert.Equal(t, domain.Failed{Message: domain.FetchFailedMessage}, d.View(""))
	assert.Equal(t, domain.ViewError, d.View("田中").Kind(), "queries do not hide the error")
}

func TestDashboard_MountOnlyOnce(t *testing.T) {
	fetcher := mocks.NewMockStatusFetcher()
	d := services.NewDashboard("d1", fetcher, newResolver(t), nil, nil)

	require.NoError(t, d.Mount(context.Background()))
	assert.ErrorIs(t, d.Mount(context.Background()), services.ErrAlreadyMounted)

	waitSettled(t, d)
	assert.ErrorIs(t, d.Mount(context.Background()), services.ErrAlreadyMounted)
	assert.Equal(t, 1, fetcher.GetFetchCount())
}

func TestDashboard_UnmountDiscardsLateResponse(t *testing.T) {
	resolver := newResolver(t, mocks.TestUsers()...)
	fetcher := mocks.NewBlockingStatusFetcher(mocks.TestStatus("1", "u1", domain.StatusSafe))

	d := services.NewDashboard("d1", fetcher, resolver, nil, nil)
	require.NoError(t, d.Mount(context.Background()))
	<-fetcher.Started

	d.Unmount()
	waitSettled(t, d)
	fetcher.Unblock()

	// give a late response the chance to land
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, domain.Loading{}, d.View(""))

	d.Unmount()
	assert.ErrorIs(t, d.Mount(context.Background()), services.ErrAlreadyMounted)
}

func TestDashboard_UnmountRecordsCancelledFetch(t *testing.T) {
	resolver := newResolver(t, mocks.TestUsers()...)
	fetcher := mocks.NewBlockingStatusFetcher(mocks.TestStatus("1", "u1", domain.StatusSafe))
	m := metrics.New()

	d := services.NewDashboard("d1", fetcher, resolver, nil, m)
	require.NoError(t, d.Mount(context.Background()))
	<-fetcher.Started
	d.Unmount()

	const want = `
# HELP safety_dashboard_status_fetch_total Safety status fetches by outcome
# TYPE safety_dashboard_status_fetch_total counter
safety_dashboard_status_fetch_total{outcome="cancelled"} 1
`
	assert.Eventually(t, func() bool {
		return testutil.GatherAndCompare(m.Registry(), strings.NewReader(want), "safety_dashboard_status_fetch_total") == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDashboard_UnresolvedExcludedForEveryQuery(t *testing.T) {
	resolver := newResolver(t, mocks.TestUsers()...)
	fetcher := mocks.NewMockStatusFetcher(
		mocks.TestStatus("1", "u1", domain.StatusSafe),
		mocks.TestStatus("2", "u99", domain.StatusNeedHelp),
	)

	d := services.NewDashboard("d1", fetcher, resolver, nil, nil)
	require.NoError(t, d.Mount(context.Background()))
	waitSettled(t, d)

	for _, q := range []string{"", "u", "u99", "99", "田中"} {
		v := d.View(q)
		if p, ok := v.(domain.Populated); ok {
			for _, e := range p.Entries {
				assert.NotEqual(t, "u99", e.Report.UserID, "query %q", q)
			}
			assert.Equal(t, 1, p.Unresolved)
		}
	}
	assert.Equal(t, domain.Empty{Reason: domain.EmptyNoMatches, Unresolved: 1}, d.View("u99"))
}
