package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/services"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/metrics"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/mocks"
)

func newDashboardService(t *testing.T, fetcher *mocks.MockStatusFetcher) *services.DashboardService {
	t.Helper()
	svc := services.NewDashboardService(fetcher, newResolver(t, mocks.TestUsers()...), time.Minute, nil, metrics.New())
	t.Cleanup(svc.Shutdown)
	return svc
}

func TestDashboardService_Snapshot(t *testing.T) {
	fetcher := mocks.NewMockStatusFetcher(
		mocks.TestStatus("1", "u1", domain.StatusSafe),
		mocks.TestStatus("2", "u2", domain.StatusNeedHelp),
	)
	svc := newDashboardService(t, fetcher)

	v, err := svc.Snapshot(context.Background(), "佐藤")
	require.NoError(t, err)

	p, ok := v.(domain.Populated)
	require.True(t, ok)
	require.Len(t, p.Entries, 1)
	assert.Equal(t, "2", p.Entries[0].Report.ID)
}

func TestDashboardService_SnapshotFetchesEveryTime(t *testing.T) {
	fetcher := mocks.NewMockStatusFetcher(mocks.TestStatus("1", "u1", domain.StatusSafe))
	svc := newDashboardService(t, fetcher)

	_, err := svc.Snapshot(context.Background(), "")
	require.NoError(t, err)

	fetcher.SetError(errors.New("connection refused"))
	v, err := svc.Snapshot(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, domain.ViewError, v.Kind())
	assert.Equal(t, 2, fetcher.GetFetchCount())
}

func TestDashboardService_SnapshotContextCancelled(t *testing.T) {
	fetcher := mocks.NewBlockingStatusFetcher()
	svc := newDashboardService(t, fetcher)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.Snapshot(ctx, "")
	assert.Error(t, err)
}

func TestDashboardService_SessionLifecycle(t *testing.T) {
	fetcher := mocks.NewBlockingStatusFetcher(mocks.TestStatus("1", "u1", domain.StatusSafe))
	svc := newDashboardService(t, fetcher)

	id, first, err := svc.Open(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, domain.ViewLoading, first.Kind())
	assert.Equal(t, 1, svc.OpenSessions())

	fetcher.Unblock()
	d, err := svc.Dashboard(id)
	require.NoError(t, err)
	waitSettled(t, d)

	v, err := svc.View(id, "")
	require.NoError(t, err)
	assert.Equal(t, domain.ViewPopulated, v.Kind())

	require.NoError(t, svc.Close(id))
	assert.Equal(t, 0, svc.OpenSessions())

	_, err = svc.View(id, "")
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
	assert.ErrorIs(t, svc.Close(id), services.ErrSessionNotFound)
}

func TestDashboardService_CloseWhileLoadingDiscardsResponse(t *testing.T) {
	fetcher := mocks.NewBlockingStatusFetcher(mocks.TestStatus("1", "u1", domain.StatusSafe))
	svc := newDashboardService(t, fetcher)

	id, _, err := svc.Open(context.Background())
	require.NoError(t, err)
	<-fetcher.Started

	d, err := svc.Dashboard(id)
	require.NoError(t, err)

	require.NoError(t, svc.Close(id))
	fetcher.Unblock()
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, domain.Loading{}, d.View(""))
}

func TestDashboardService_SessionSurvivesRequestContext(t *testing.T) {
	fetcher := mocks.NewBlockingStatusFetcher(mocks.TestStatus("1", "u1", domain.StatusSafe))
	svc := newDashboardService(t, fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	id, _, err := svc.Open(ctx)
	require.NoError(t, err)
	cancel()

	fetcher.Unblock()
	d, err := svc.Dashboard(id)
	require.NoError(t, err)
	waitSettled(t, d)

	assert.Equal(t, domain.ViewPopulated, d.View("").Kind())
}

func TestDashboardService_Shutdown(t *testing.T) {
	fetcher := mocks.NewMockStatusFetcher()
	svc := newDashboardService(t, fetcher)

	for i := 0; i < 3; i++ {
		_, _, err := svc.Open(context.Background())
		require.NoError(t, err)
	}
	require.Equal(t, 3, svc.OpenSessions())

	svc.Shutdown()
	assert.Equal(t, 0, svc.OpenSessions())
}
