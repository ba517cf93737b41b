package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/stringing-service/internal/domain"
	"github.com/spec-kit/stringing-service/internal/repository"
)

const topEntriesLimit = 5

// AnalyticsService computes and caches per-user stringing statistics.
//
// Analytics are derived state: every computation is a full recompute over a
// point-in-time snapshot of the user's jobs, never an incremental patch, so
// the cache can never drift from the entity store by more than its
// ComputedAt watermark admits.
type AnalyticsService struct {
	stringings repository.StringingRepository
	users      repository.UserRepository
	cache      repository.AnalyticsCache
	logger     *zap.Logger
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(stringings repository.StringingRepository, users repository.UserRepository, cache repository.AnalyticsCache, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{stringings: stringings, users: users, cache: cache, logger: logger}
}

// GetAnalytics returns the user's analytics document. A plain read serves
// the cached document when one exists; refresh always recomputes and
// overwrites the cache. Staleness is caller-visible via ComputedAt.
func (s *AnalyticsService) GetAnalytics(ctx context.Context, userID string, refresh bool) (*domain.UserAnalytics, error) {
	if !refresh && s.cache != nil {
		cached, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn("analytics cache read failed", zap.String("user_id", userID), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}
	return s.computeAndSave(ctx, userID)
}

func (s *AnalyticsService) computeAndSave(ctx context.Context, userID string) (*domain.UserAnalytics, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	ownerJobs, err := s.stringings.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	stringerJobs, err := s.stringings.ListByStringer(ctx, userID)
	if err != nil {
		return nil, err
	}

	analytics := &domain.UserAnalytics{
		UserID:     userID,
		ComputedAt: time.Now().UTC(),
		Owner:      s.computeOwnerStats(ctx, ownerJobs),
	}
	if len(stringerJobs) > 0 {
		stats := s.computeStringerStats(ctx, stringerJobs)
		analytics.Stringer = &stats
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, analytics); err != nil {
			s.logger.Warn("analytics cache write failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	s.logger.Info("computed analytics",
		zap.String("user_id", userID),
		zap.Int("owner_jobs", len(ownerJobs)),
		zap.Int("stringer_jobs", len(stringerJobs)))
	return analytics, nil
}

func (s *AnalyticsService) computeOwnerStats(ctx context.Context, jobs []domain.Stringing) domain.OwnerStats {
	stats := domain.OwnerStats{
		TotalStringings:   len(jobs),
		StringingsByState: countByState(jobs),
		StringTypeUsage:   countByStringType(jobs),
		RacketUsage:       countByRacket(jobs),
		MonthlyTrend:      monthlyTrend(jobs),
	}

	if combo, count, ok := mostUsedTension(jobs); ok {
		stats.MostUsedTensionCombination = &combo
		stats.MostUsedTensionCount = &count
	}

	stringerCounts := map[string]int{}
	for _, job := range jobs {
		if job.StringerUserID != "" {
			stringerCounts[job.StringerUserID]++
		}
	}
	stats.TopStringers = s.resolveTopUsers(ctx, stringerCounts)
	return stats
}

func (s *AnalyticsService) computeStringerStats(ctx context.Context, jobs []domain.Stringing) domain.StringerStats {
	stats := domain.StringerStats{
		TotalStringings:   len(jobs),
		StringingsByState: countByState(jobs),
		StringTypeUsage:   countByStringType(jobs),
		RacketUsage:       countByRacket(jobs),
		MonthlyTrend:      monthlyTrend(jobs),
	}

	ownerCounts := map[string]int{}
	for _, job := range jobs {
		if job.OwnerUserID != "" {
			ownerCounts[job.OwnerUserID]++
		}
	}
	stats.TopCustomers = s.resolveTopUsers(ctx, ownerCounts)

	// Average request-to-completion duration over jobs that actually
	// completed; jobs that never reached COMPLETED are excluded, not
	// treated as zero.
	var totalHours float64
	var completed int
	for _, job := range jobs {
		if job.State == domain.StateCompleted && job.CompletedAt != nil {
			totalHours += job.CompletedAt.Sub(job.RequestedAt).Hours()
			completed++
		}
	}
	if completed > 0 {
		avg := totalHours / float64(completed)
		stats.AverageCompletionTimeHours = &avg
	}

	// Success rate over terminal worked states only; in-flight, canceled,
	// and declined jobs stay out of the denominator.
	var failed int
	for _, job := range jobs {
		if job.State == domain.StateFailedCompleted {
			failed++
		}
	}
	successCount := countState(jobs, domain.StateCompleted)
	if successCount+failed > 0 {
		rate := float64(successCount) / float64(successCount+failed)
		stats.SuccessRate = &rate
	}

	if month, ok := busiestMonth(jobs); ok {
		stats.BusiestMonth = &month
	}
	return stats
}

// resolveTopUsers maps the highest-count user IDs to display names,
// keeping at most topEntriesLimit entries.
func (s *AnalyticsService) resolveTopUsers(ctx context.Context, counts map[string]int) map[string]int {
	type entry struct {
		userID string
		count  int
	}
	entries := make([]entry, 0, len(counts))
	for userID, count := range counts {
		entries = append(entries, entry{userID: userID, count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].userID < entries[j].userID
	})
	if len(entries) > topEntriesLimit {
		entries = entries[:topEntriesLimit]
	}

	top := make(map[string]int, len(entries))
	for _, e := range entries {
		name := "Unknown"
		if user, err := s.users.GetByID(ctx, e.userID); err == nil {
			name = user.DisplayName()
		}
		top[name] += e.count
	}
	return top
}

func countByState(jobs []domain.Stringing) map[string]int {
	counts := map[string]int{}
	for _, job := range jobs {
		counts[string(job.State)]++
	}
	return counts
}

func countState(jobs []domain.Stringing, state domain.StringingState) int {
	var n int
	for _, job := range jobs {
		if job.State == state {
			n++
		}
	}
	return n
}

func countByStringType(jobs []domain.Stringing) map[string]int {
	counts := map[string]int{}
	for _, job := range jobs {
		if job.StringType != "" {
			counts[job.StringType]++
		}
	}
	return counts
}

func countByRacket(jobs []domain.Stringing) map[string]int {
	counts := map[string]int{}
	for _, job := range jobs {
		if job.RacketMake != "" && job.RacketModel != "" {
			counts[job.RacketMake+" "+job.RacketModel]++
		}
	}
	return counts
}

// mostUsedTension returns the most frequent (mains, crosses) pair. Ties are
// broken by the pair first encountered in store iteration order; that
// tie-break is part of the contract, not an accident of map ordering.
func mostUsedTension(jobs []domain.Stringing) (string, int, bool) {
	type tension struct {
		counted    int
		firstIndex int
	}
	counts := map[string]*tension{}
	for i, job := range jobs {
		key := fmt.Sprintf("%d x %d lbs", int(job.MainsTensionLbs), int(job.CrossesTensionLbs))
		if existing, ok := counts[key]; ok {
			existing.counted++
		} else {
			counts[key] = &tension{counted: 1, firstIndex: i}
		}
	}
	if len(counts) == 0 {
		return "", 0, false
	}

	var bestKey string
	var best *tension
	for key, t := range counts {
		if best == nil || t.counted > best.counted ||
			(t.counted == best.counted && t.firstIndex < best.firstIndex) {
			bestKey, best = key, t
		}
	}
	return bestKey, best.counted, true
}

// monthlyTrend buckets RequestedAt by calendar month across the full
// history, ascending by month.
func monthlyTrend(jobs []domain.Stringing) []domain.MonthlyCount {
	counts := map[string]int{}
	for _, job := range jobs {
		counts[job.RequestedAt.UTC().Format("2006-01")]++
	}

	months := make([]string, 0, len(counts))
	for month := range counts {
		months = append(months, month)
	}
	sort.Strings(months)

	trend := make([]domain.MonthlyCount, 0, len(months))
	for _, month := range months {
		trend = append(trend, domain.MonthlyCount{Month: month, Count: counts[month]})
	}
	return trend
}

// busiestMonth returns the calendar month with the most requested jobs.
// Ties resolve to the earliest month for determinism.
func busiestMonth(jobs []domain.Stringing) (string, bool) {
	counts := map[string]int{}
	for _, job := range jobs {
		counts[job.RequestedAt.UTC().Format("2006-01")]++
	}
	var best string
	var bestCount int
	for month, count := range counts {
		if count > bestCount || (count == bestCount && (best == "" || month < best)) {
			best, bestCount = month, count
		}
	}
	return best, best != ""
}
