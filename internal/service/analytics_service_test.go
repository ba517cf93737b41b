package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/stringing-service/internal/domain"
	apperrors "github.com/spec-kit/stringing-service/pkg/util"
)

func newAnalyticsFixture(t *testing.T) (*AnalyticsService, *memStringingRepo, *memUserRepo, *memAnalyticsCache) {
	t.Helper()
	users := newMemUserRepo()
	stringings := newMemStringingRepo()
	cache := newMemAnalyticsCache()
	svc := NewAnalyticsService(stringings, users, cache, zap.NewNop())
	return svc, stringings, users, cache
}

func tsPtr(t time.Time) *time.Time { return &t }

func completedJob(owner, stringer string, requestedAt time.Time, duration time.Duration) domain.Stringing {
	completedAt := requestedAt.Add(duration)
	return domain.Stringing{
		OwnerUserID:    owner,
		StringerUserID: stringer,
		RacketMake:     "Yonex",
		RacketModel:    "Astrox 99",
		StringType:     "BG80",
		State:          domain.StateCompleted,
		RequestedAt:    requestedAt,
		CompletedAt:    tsPtr(completedAt),
	}
}

func TestStringerStatsAverageAndSuccessRate(t *testing.T) {
	svc, stringings, users, _ := newAnalyticsFixture(t)
	ctx := context.Background()

	stringer := users.add(domain.User{GivenName: "Mia", FamilyName: "Wong", Username: "miawong", IsStringer: true})
	owner := users.add(domain.User{GivenName: "Lin", FamilyName: "Dan", Username: "lindan"})

	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	stringings.add(completedJob(owner.ID, stringer.ID, base, 2*time.Hour))
	stringings.add(completedJob(owner.ID, stringer.ID, base.Add(24*time.Hour), 4*time.Hour))
	stringings.add(completedJob(owner.ID, stringer.ID, base.Add(48*time.Hour), 6*time.Hour))
	stringings.add(domain.Stringing{
		OwnerUserID:       owner.ID,
		StringerUserID:    stringer.ID,
		State:             domain.StateFailedCompleted,
		RequestedAt:       base.Add(72 * time.Hour),
		FailedCompletedAt: tsPtr(base.Add(75 * time.Hour)),
	})
	// In-flight work stays out of both the average and the success rate.
	stringings.add(domain.Stringing{
		OwnerUserID:    owner.ID,
		StringerUserID: stringer.ID,
		State:          domain.StateInProgress,
		RequestedAt:    base.Add(96 * time.Hour),
	})

	analytics, err := svc.GetAnalytics(ctx, stringer.ID, false)
	require.NoError(t, err)
	require.NotNil(t, analytics.Stringer)

	stats := analytics.Stringer
	assert.Equal(t, 5, stats.TotalStringings)
	require.NotNil(t, stats.AverageCompletionTimeHours)
	assert.InDelta(t, 4.0, *stats.AverageCompletionTimeHours, 1e-9)
	require.NotNil(t, stats.SuccessRate)
	assert.InDelta(t, 0.75, *stats.SuccessRate, 1e-9)
	assert.Equal(t, map[string]int{"Lin Dan": 5}, stats.TopCustomers)
}

func TestStringerStatsNilWhenNeverStringer(t *testing.T) {
	svc, stringings, users, _ := newAnalyticsFixture(t)
	ctx := context.Background()

	owner := users.add(domain.User{GivenName: "Lin", FamilyName: "Dan", Username: "lindan"})
	stringer := users.add(domain.User{GivenName: "Mia", FamilyName: "Wong", Username: "miawong", IsStringer: true})
	stringings.add(completedJob(owner.ID, stringer.ID, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), time.Hour))

	analytics, err := svc.GetAnalytics(ctx, owner.ID, false)
	require.NoError(t, err)

	assert.Nil(t, analytics.Stringer, "users with no stringer-side jobs get no stringer block")
	assert.Equal(t, 1, analytics.Owner.TotalStringings)
}

func TestEmptyRatesStayNil(t *testing.T) {
	svc, stringings, users, _ := newAnalyticsFixture(t)
	ctx := context.Background()

	stringer := users.add(domain.User{GivenName: "Mia", FamilyName: "Wong", Username: "miawong", IsStringer: true})
	// One declined job: the stringer block exists, but no job ever reached
	// a worked terminal state, so both derived rates stay undefined.
	stringings.add(domain.Stringing{
		OwnerUserID:    "someone",
		StringerUserID: stringer.ID,
		State:          domain.StateDeclined,
		RequestedAt:    time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	})

	analytics, err := svc.GetAnalytics(ctx, stringer.ID, false)
	require.NoError(t, err)
	require.NotNil(t, analytics.Stringer)
	assert.Nil(t, analytics.Stringer.AverageCompletionTimeHours)
	assert.Nil(t, analytics.Stringer.SuccessRate)
}

func TestMostUsedTensionTieBreak(t *testing.T) {
	svc, stringings, users, _ := newAnalyticsFixture(t)
	ctx := context.Background()

	owner := users.add(domain.User{GivenName: "Lin", FamilyName: "Dan", Username: "lindan"})
	addWithTension := func(mains, crosses float64) {
		stringings.add(domain.Stringing{
			OwnerUserID:       owner.ID,
			StringerUserID:    "s1",
			State:             domain.StateRequestedButNotDelivered,
			RequestedAt:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			MainsTensionLbs:   mains,
			CrossesTensionLbs: crosses,
		})
	}
	addWithTension(24, 24)
	addWithTension(26, 25)
	addWithTension(26, 25)
	addWithTension(24, 24)

	analytics, err := svc.GetAnalytics(ctx, owner.ID, false)
	require.NoError(t, err)

	require.NotNil(t, analytics.Owner.MostUsedTensionCombination)
	assert.Equal(t, "24 x 24 lbs", *analytics.Owner.MostUsedTensionCombination,
		"ties resolve to the combination encountered first")
	require.NotNil(t, analytics.Owner.MostUsedTensionCount)
	assert.Equal(t, 2, *analytics.Owner.MostUsedTensionCount)
}

func TestMonthlyTrendSortedAndBusiestMonth(t *testing.T) {
	svc, stringings, users, _ := newAnalyticsFixture(t)
	ctx := context.Background()

	stringer := users.add(domain.User{GivenName: "Mia", FamilyName: "Wong", Username: "miawong", IsStringer: true})
	addInMonth := func(month time.Month, n int) {
		for i := 0; i < n; i++ {
			stringings.add(domain.Stringing{
				OwnerUserID:    "o1",
				StringerUserID: stringer.ID,
				State:          domain.StateRequestedButNotDelivered,
				RequestedAt:    time.Date(2026, month, 10, 12, 0, 0, 0, time.UTC),
			})
		}
	}
	addInMonth(time.March, 2)
	addInMonth(time.January, 1)
	addInMonth(time.February, 2)

	analytics, err := svc.GetAnalytics(ctx, stringer.ID, false)
	require.NoError(t, err)
	require.NotNil(t, analytics.Stringer)

	trend := analytics.Stringer.MonthlyTrend
	require.Len(t, trend, 3)
	assert.Equal(t, "2026-01", trend[0].Month)
	assert.Equal(t, "2026-02", trend[1].Month)
	assert.Equal(t, "2026-03", trend[2].Month)
	assert.Equal(t, 1, trend[0].Count)

	// February and March tie at two jobs; the earlier month wins.
	require.NotNil(t, analytics.Stringer.BusiestMonth)
	assert.Equal(t, "2026-02", *analytics.Stringer.BusiestMonth)
}

func TestTopCustomersUnknownFallback(t *testing.T) {
	svc, stringings, users, _ := newAnalyticsFixture(t)
	ctx := context.Background()

	stringer := users.add(domain.User{GivenName: "Mia", FamilyName: "Wong", Username: "miawong", IsStringer: true})
	stringings.add(domain.Stringing{
		OwnerUserID:    "ghost-user",
		StringerUserID: stringer.ID,
		State:          domain.StateRequestedButNotDelivered,
		RequestedAt:    time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	})

	analytics, err := svc.GetAnalytics(ctx, stringer.ID, false)
	require.NoError(t, err)
	require.NotNil(t, analytics.Stringer)
	assert.Equal(t, map[string]int{"Unknown": 1}, analytics.Stringer.TopCustomers)
}

func TestAnalyticsCachedUntilRefresh(t *testing.T) {
	svc, stringings, users, cache := newAnalyticsFixture(t)
	ctx := context.Background()

	owner := users.add(domain.User{GivenName: "Lin", FamilyName: "Dan", Username: "lindan"})
	stringings.add(completedJob(owner.ID, "s1", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), time.Hour))

	first, err := svc.GetAnalytics(ctx, owner.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.puts)

	// Data keeps changing underneath, but a plain read serves the cached
	// document.
	stringings.add(completedJob(owner.ID, "s1", time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), time.Hour))
	second, err := svc.GetAnalytics(ctx, owner.ID, false)
	require.NoError(t, err)
	assert.Equal(t, first.ComputedAt, second.ComputedAt)
	assert.Equal(t, 1, second.Owner.TotalStringings)
	assert.Equal(t, 1, cache.puts)

	refreshed, err := svc.GetAnalytics(ctx, owner.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 2, refreshed.Owner.TotalStringings)
	assert.Equal(t, 2, cache.puts)
}

func TestAnalyticsUnknownUser(t *testing.T) {
	svc, _, _, _ := newAnalyticsFixture(t)

	_, err := svc.GetAnalytics(context.Background(), "nobody", false)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestAnalyticsEmptyHistory(t *testing.T) {
	svc, _, users, _ := newAnalyticsFixture(t)

	owner := users.add(domain.User{GivenName: "Lin", FamilyName: "Dan", Username: "lindan"})
	analytics, err := svc.GetAnalytics(context.Background(), owner.ID, false)
	require.NoError(t, err)

	assert.Equal(t, 0, analytics.Owner.TotalStringings)
	assert.Nil(t, analytics.Owner.MostUsedTensionCombination)
	assert.Empty(t, analytics.Owner.MonthlyTrend)
	assert.Nil(t, analytics.Stringer)
}
