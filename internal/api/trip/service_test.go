package trip

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/wanderplan/wanderplan/app/observability/metrics"
	"github.com/wanderplan/wanderplan/internal/planner"
	"github.com/wanderplan/wanderplan/internal/types"
)

type MockSpotService struct{ mock.Mock }

func (m *MockSpotService) FetchCandidateSpots(ctx context.Context, destination string, interests []string) []types.CandidateSpot {
	args := m.Called(ctx, destination, interests)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]types.CandidateSpot)
}

type MockHotspotService struct{ mock.Mock }

func (m *MockHotspotService) SearchCityHotspots(ctx context.Context, destination string) []types.Hotspot {
	args := m.Called(ctx, destination)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]types.Hotspot)
}

type MockMediaService struct{ mock.Mock }

func (m *MockMediaService) LookupMediaRating(ctx context.Context, spotName, city string) types.MediaReport {
	args := m.Called(ctx, spotName, city)
	return args.Get(0).(types.MediaReport)
}

type MockCompleter struct{ mock.Mock }

func (m *MockCompleter) CompleteText(ctx context.Context, systemPrompt, userPrompt string, maxTokens int32) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt, maxTokens)
	return args.String(0), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func poolOfSix() []types.CandidateSpot {
	return []types.CandidateSpot{
		{ID: "s1", Title: "Old Town", Category: "sightseeing", Rating: 4.8},
		{ID: "s2", Title: "Night Market", Category: "food", Rating: 4.6},
		{ID: "s3", Title: "City Museum", Category: "museum", Rating: 4.5},
		{ID: "s4", Title: "Harbour Walk", Category: "scenic", Rating: 4.4},
		{ID: "s5", Title: "Noodle Alley", Category: "food", Rating: 4.3},
		{ID: "s6", Title: "Grand Mall", Category: "shopping", Rating: 4.2},
	}
}

func newTestService(t *testing.T) (*ServiceImpl, *MockSpotService, *MockHotspotService, *MockMediaService, *MockCompleter) {
	t.Helper()
	spotSvc := new(MockSpotService)
	hotspotSvc := new(MockHotspotService)
	mediaSvc := new(MockMediaService)
	completer := new(MockCompleter)
	svc := NewService(NewSessionStore(time.Hour), spotSvc, hotspotSvc, mediaSvc, completer, testLogger())
	return svc, spotSvc, hotspotSvc, mediaSvc, completer
}

// drive sends the utterances in order on one session and returns the last
// response plus the session id.
func drive(t *testing.T, svc *ServiceImpl, sessionID string, utterances ...string) (types.ChatResponse, string) {
	t.Helper()
	var resp types.ChatResponse
	var err error
	for _, u := range utterances {
		resp, err = svc.ProcessMessage(context.Background(), types.ChatRequest{SessionID: sessionID, Message: u})
		require.NoError(t, err)
		sessionID = resp.SessionID
	}
	return resp, sessionID
}

func TestConversationEndToEnd(t *testing.T) {
	svc, spotSvc, hotspotSvc, _, completer := newTestService(t)

	spotSvc.On("FetchCandidateSpots", mock.Anything, "上海", mock.Anything).Return(poolOfSix()).Once()
	hotspotSvc.On("SearchCityHotspots", mock.Anything, "上海").Return([]types.Hotspot{
		{ID: "h1", Title: "Riverside Concert", Rank: 1, Category: "concert"},
	}).Once()
	// Re-prompts while facts are still missing.
	completer.On("CompleteText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(
		"Could you tell me a bit more?", nil)

	resp, sessionID := drive(t, svc, "",
		"hi",
		"I want to go to Shanghai",
		"3 days",
		"2 people",
		"food, sightseeing",
		"medium budget",
	)

	session, _ := svc.store.Acquire(sessionID)
	facts := session.State.Facts
	assert.Equal(t, "上海", facts.Destination)
	assert.Equal(t, 3, facts.Days)
	assert.Equal(t, 2, facts.Travelers)
	assert.Subset(t, facts.Interests, []string{"food", "sightseeing"})
	assert.Equal(t, types.BudgetMedium, facts.Budget)

	assert.Equal(t, types.PhaseRefiningDay, resp.Phase)
	assert.Equal(t, 0, session.State.DayIndex)
	require.NotNil(t, resp.Updates)
	require.Len(t, resp.Updates.UpdateItinerary, 1, "exactly one day planned so far")
	assert.Len(t, resp.Updates.UpdateFeaturedSpots, 6)
	require.Len(t, resp.Updates.UpdateHotActivities, 1)
	assert.Equal(t, "Riverside Concert (Rank 1)", resp.Updates.UpdateHotActivities[0].Title)

	spotSvc.AssertExpectations(t)
	hotspotSvc.AssertExpectations(t)
}

func TestApprovalLoopCompletesTrip(t *testing.T) {
	svc, spotSvc, hotspotSvc, _, completer := newTestService(t)

	spotSvc.On("FetchCandidateSpots", mock.Anything, mock.Anything, mock.Anything).Return(poolOfSix())
	hotspotSvc.On("SearchCityHotspots", mock.Anything, mock.Anything).Return(nil)
	completer.On("CompleteText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ask", nil)

	_, sessionID := drive(t, svc, "",
		"hi", "3 days in Beijing", "food and sightseeing please")

	resp, _ := drive(t, svc, sessionID, "satisfied", "satisfied", "satisfied")

	assert.Equal(t, types.PhaseCompleted, resp.Phase)
	require.NotNil(t, resp.Updates)
	assert.Len(t, resp.Updates.UpdateItinerary, 3)
	assert.Contains(t, resp.Reply, "complete")
}

func TestApprovalAfterCompletionIsNoOp(t *testing.T) {
	svc, spotSvc, hotspotSvc, _, completer := newTestService(t)

	spotSvc.On("FetchCandidateSpots", mock.Anything, mock.Anything, mock.Anything).Return(poolOfSix())
	hotspotSvc.On("SearchCityHotspots", mock.Anything, mock.Anything).Return(nil)
	completer.On("CompleteText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ask", nil)

	_, sessionID := drive(t, svc, "",
		"hi", "2 days in Beijing, sightseeing", "satisfied", "satisfied")

	resp, _ := drive(t, svc, sessionID, "ok")

	assert.Equal(t, types.PhaseCompleted, resp.Phase)
	assert.Len(t, resp.Updates.UpdateItinerary, 2, "no extra day appended")
}

func TestMediaRatingLookupScopedToDay(t *testing.T) {
	svc, spotSvc, hotspotSvc, mediaSvc, completer := newTestService(t)

	spotSvc.On("FetchCandidateSpots", mock.Anything, mock.Anything, mock.Anything).Return(poolOfSix())
	hotspotSvc.On("SearchCityHotspots", mock.Anything, mock.Anything).Return(nil)
	completer.On("CompleteText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ask", nil)
	mediaSvc.On("LookupMediaRating", mock.Anything, mock.Anything, "北京").Return(types.MediaReport{
		Success:  true,
		SpotName: "Old Town",
		Rating:   4.5,
		Summary:  "Loved by visitors.",
	}).Once()

	_, sessionID := drive(t, svc, "", "hi", "3 days in Beijing, sightseeing and food")

	resp, _ := drive(t, svc, sessionID, "what are the reviews like?")

	assert.Equal(t, types.PhaseRefiningDay, resp.Phase)
	assert.Contains(t, resp.Reply, "4.5")
	mediaSvc.AssertExpectations(t)

	// The rated spot must be a real activity of the current day, not filler.
	ratedSpot := mediaSvc.Calls[0].Arguments.String(1)
	assert.NotContains(t, []string{"Lunch", "Dinner", "Rest"}, ratedSpot)
}

func TestFreeFormEditReplacesDayInPlace(t *testing.T) {
	svc, spotSvc, hotspotSvc, _, completer := newTestService(t)

	spotSvc.On("FetchCandidateSpots", mock.Anything, mock.Anything, mock.Anything).Return(poolOfSix())
	hotspotSvc.On("SearchCityHotspots", mock.Anything, mock.Anything).Return(nil)

	_, sessionID := drive(t, svc, "", "hi", "3 days in Beijing, sightseeing and food")

	completer.On("CompleteText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(
		`{"id":"day_1","day":"Day 1","summary":"Slow start","activities":[{"id":"x1","icon":"☕","title":"Late breakfast","time":"10:00 - 11:00","description":""}]}`, nil).Once()

	resp, _ := drive(t, svc, sessionID, "please make the morning more relaxed with a late breakfast")

	assert.Equal(t, types.PhaseRefiningDay, resp.Phase)
	require.Len(t, resp.Updates.UpdateItinerary, 1)
	day := resp.Updates.UpdateItinerary[0]
	assert.Equal(t, "day_1", day.ID)
	require.Len(t, day.Activities, 1)
	assert.Equal(t, "Late breakfast", day.Activities[0].Title)
}

func TestMalformedEditKeepsPriorPlan(t *testing.T) {
	svc, spotSvc, hotspotSvc, _, completer := newTestService(t)

	spotSvc.On("FetchCandidateSpots", mock.Anything, mock.Anything, mock.Anything).Return(poolOfSix())
	hotspotSvc.On("SearchCityHotspots", mock.Anything, mock.Anything).Return(nil)

	_, sessionID := drive(t, svc, "", "hi", "3 days in Beijing, sightseeing and food")

	session, _ := svc.store.Acquire(sessionID)
	original := session.State.Itinerary.Plans[0]

	completer.On("CompleteText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(
		"I think that would be a wonderful change to make!", nil).Once()

	resp, _ := drive(t, svc, sessionID, "please rearrange everything into something magical")

	assert.Contains(t, resp.Reply, "rephrase")
	assert.Equal(t, original, session.State.Itinerary.Plans[0])

	// LLM transport failure also keeps the plan and the session alive.
	completer.On("CompleteText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("timeout")).Once()
	resp, _ = drive(t, svc, sessionID, "please swap the afternoon activities around")
	assert.Equal(t, types.PhaseRefiningDay, resp.Phase)
	assert.Equal(t, original, session.State.Itinerary.Plans[0])
}

func TestLateBudgetStatementIsAcknowledged(t *testing.T) {
	svc, spotSvc, hotspotSvc, _, completer := newTestService(t)

	spotSvc.On("FetchCandidateSpots", mock.Anything, mock.Anything, mock.Anything).Return(poolOfSix())
	hotspotSvc.On("SearchCityHotspots", mock.Anything, mock.Anything).Return(nil)
	completer.On("CompleteText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ask", nil)

	_, sessionID := drive(t, svc, "", "hi", "3 days in Beijing, sightseeing")

	resp, _ := drive(t, svc, sessionID, "high budget")

	assert.Contains(t, resp.Reply, "high")
	session, _ := svc.store.Acquire(sessionID)
	assert.Equal(t, types.BudgetHigh, session.State.Facts.Budget)
	assert.Equal(t, types.PhaseRefiningDay, resp.Phase)
}

func TestLegacyGeneratingPlanPhaseGeneratesDay(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)

	session, sessionID := svc.store.Acquire("")
	session.State.Facts = types.TripFacts{Destination: "北京", Days: 3, Travelers: 2, Interests: []string{"food"}}
	session.State.RankedSpots = planner.RankSpots(poolOfSix(), []string{"food"}, types.BudgetMedium)
	session.State.Phase = types.Phase("generating_plan")

	resp, _ := drive(t, svc, sessionID, "let me see the first day")

	assert.Equal(t, types.PhaseRefiningDay, resp.Phase)
	assert.Contains(t, resp.Reply, "Day 1 of 3")
}

func TestLegacyRefiningPhaseAcceptsApproval(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)

	session, sessionID := svc.store.Acquire("")
	ranked := planner.RankSpots(poolOfSix(), []string{"food"}, types.BudgetMedium)
	session.State.Facts = types.TripFacts{Destination: "北京", Days: 2, Travelers: 1, Interests: []string{"food"}}
	session.State.RankedSpots = ranked
	bucket := planner.BucketForDay(ranked, 0, 2, planner.AllocateEvenSplit)
	session.State.Itinerary.UpsertDay(0, planner.BuildDayPlan(0, "北京", bucket, types.BudgetMedium))
	session.State.Phase = types.Phase("refining")

	resp, _ := drive(t, svc, sessionID, "satisfied")

	assert.Equal(t, types.PhaseRefiningDay, resp.Phase)
	assert.Contains(t, resp.Reply, "Day 2 of 2")
}

func TestApprovalMatchesWholeWordsOnly(t *testing.T) {
	assert.True(t, isApproval("ok"))
	assert.True(t, isApproval("OK, continue"))
	assert.True(t, isApproval("looks good"))
	assert.True(t, isApproval("没问题"))
	assert.False(t, isApproval("book it"))
	assert.False(t, isApproval("look around"))
	assert.False(t, isApproval("satisfied? not until the museum is gone"), "too long to be an approval")
}

func TestShortEditRequestIsNotApproval(t *testing.T) {
	svc, spotSvc, hotspotSvc, _, completer := newTestService(t)

	spotSvc.On("FetchCandidateSpots", mock.Anything, mock.Anything, mock.Anything).Return(poolOfSix())
	hotspotSvc.On("SearchCityHotspots", mock.Anything, mock.Anything).Return(nil)

	_, sessionID := drive(t, svc, "", "hi", "3 days in Beijing, sightseeing and food")

	// "book it" carries "ok" mid-word; it must reach the edit path, not approval.
	completer.On("CompleteText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(`{"no_change": true}`, nil).Once()

	resp, _ := drive(t, svc, sessionID, "book it")

	assert.Equal(t, types.PhaseRefiningDay, resp.Phase)
	session, _ := svc.store.Acquire(sessionID)
	assert.Equal(t, 0, session.State.DayIndex, "day cursor unchanged")
	completer.AssertExpectations(t)
}

func TestDayGenerationRecordsMetric(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	metrics.InitAppMetrics()

	svc, spotSvc, hotspotSvc, _, completer := newTestService(t)
	spotSvc.On("FetchCandidateSpots", mock.Anything, mock.Anything, mock.Anything).Return(poolOfSix())
	hotspotSvc.On("SearchCityHotspots", mock.Anything, mock.Anything).Return(nil)
	completer.On("CompleteText", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ask", nil)

	_, sessionID := drive(t, svc, "", "hi", "2 days in Beijing, sightseeing")
	drive(t, svc, sessionID, "satisfied")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "days_generated_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	assert.Equal(t, int64(2), total, "one count per generated day")
}

func TestSessionStoreMintsAndKeepsSessions(t *testing.T) {
	store := NewSessionStore(time.Hour)

	first, id := store.Acquire("")
	require.NotEmpty(t, id)
	assert.Equal(t, types.PhaseGreeting, first.State.Phase)

	again, sameID := store.Acquire(id)
	assert.Equal(t, id, sameID)
	assert.Same(t, first, again)

	other, otherID := store.Acquire("")
	assert.NotEqual(t, id, otherID)
	assert.NotSame(t, first, other)
}
