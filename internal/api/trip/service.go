// Package trip runs the conversation that turns chat messages into a
// day-by-day itinerary. A turn moves one session through the phase machine:
// greeting, fact gathering, day generation, day refinement, completion.
package trip

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/wanderplan/wanderplan/app/observability/metrics"
	generativeAI "github.com/wanderplan/wanderplan/internal/api/generative_ai"
	"github.com/wanderplan/wanderplan/internal/api/hotspots"
	"github.com/wanderplan/wanderplan/internal/api/media"
	"github.com/wanderplan/wanderplan/internal/api/spots"
	"github.com/wanderplan/wanderplan/internal/planner"
	"github.com/wanderplan/wanderplan/internal/types"
)

const (
	gatherReplyMaxTokens = 250
	editReplyMaxTokens   = 1500

	// Approval must be a short message; long messages are edit requests
	// even when they happen to contain an approval word.
	approvalMaxRunes = 20
)

// English approval words match on word boundaries so "ok" never fires inside
// "book it"; the Chinese ones have no word boundaries and stay substring-matched.
var approvalWordPattern = regexp.MustCompile(`(?i)\b(?:satisfied|next|ok|okay|continue|no problem|looks good)\b`)

var approvalKeywordsCJK = []string{
	"满意", "下一", "好的", "继续", "没问题", "可以",
}

var mediaTriggerKeywords = []string{
	"rating", "reviews", "review", "media score",
	"评分", "口碑", "小红书", "媒体",
}

type Service interface {
	ProcessMessage(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error)
}

type ServiceImpl struct {
	store          SessionStore
	spotService    spots.Service
	hotspotService hotspots.Service
	mediaService   media.Service
	completer      generativeAI.Completer
	logger         *slog.Logger
}

var _ Service = (*ServiceImpl)(nil)

func NewService(
	store SessionStore,
	spotService spots.Service,
	hotspotService hotspots.Service,
	mediaService media.Service,
	completer generativeAI.Completer,
	logger *slog.Logger,
) *ServiceImpl {
	return &ServiceImpl{
		store:          store,
		spotService:    spotService,
		hotspotService: hotspotService,
		mediaService:   mediaService,
		completer:      completer,
		logger:         logger,
	}
}

// ProcessMessage handles one conversation turn synchronously. The session
// lock is held for the whole turn, so state never interleaves between
// concurrent requests for the same session.
func (s *ServiceImpl) ProcessMessage(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "ProcessMessage")
	defer span.End()

	session, sessionID := s.store.Acquire(req.SessionID)
	session.Lock()
	defer session.Unlock()

	state := session.State
	// Sessions written by the earlier whole-trip agent may still carry the
	// deprecated generating_plan/refining phases; fold them onto the day-wise
	// phases before dispatching.
	state.Phase = types.ParsePhase(string(state.Phase))
	span.SetAttributes(
		attribute.String("trip.session_id", sessionID),
		attribute.String("trip.phase", string(state.Phase)),
	)

	state.AppendMessage(types.RoleUser, req.Message)

	var reply string
	switch state.Phase {
	case types.PhaseGreeting:
		reply = s.greet(state)
	case types.PhaseGatheringInfo:
		reply = s.gatherInfo(ctx, state)
	case types.PhaseGeneratingDay:
		reply = s.generateDay(ctx, state, state.DayIndex)
	case types.PhaseRefiningDay, types.PhaseCompleted:
		reply = s.refineDay(ctx, state)
	default:
		state.Phase = types.PhaseGreeting
		reply = s.greet(state)
	}

	state.AppendMessage(types.RoleAssistant, reply)
	span.SetAttributes(attribute.String("trip.phase_after", string(state.Phase)))

	return types.ChatResponse{
		SessionID: sessionID,
		Reply:     reply,
		Phase:     state.Phase,
		Updates:   buildUpdates(state),
	}, nil
}

func (s *ServiceImpl) greet(state *types.SessionState) string {
	state.Phase = types.PhaseGatheringInfo
	return "Hi! I'm your trip planning assistant. 🌏 I'll put together a day-by-day " +
		"itinerary for you — we'll go one day at a time so you can tweak each day " +
		"before moving on. Where would you like to go?"
}

func (s *ServiceImpl) gatherInfo(ctx context.Context, state *types.SessionState) string {
	state.Facts = ExtractFacts(state.Facts, state.LastUserMessage())

	if state.Facts.ReadyToPlan() {
		return s.startPlanning(ctx, state)
	}
	return s.askForMissing(ctx, state)
}

// askForMissing re-prompts for the facts that still block planning. The LLM
// phrases the question; a static prompt covers LLM failure.
func (s *ServiceImpl) askForMissing(ctx context.Context, state *types.SessionState) string {
	missing := missingFacts(state.Facts)

	systemPrompt := fmt.Sprintf(`You are a travel planning assistant collecting trip details.

Collected so far:
- Destination: %s
- Days: %d
- Travelers: %d
- Interests: %s
- Budget: %s

Politely ask for the missing items only: %s.
Do not generate an itinerary or recommendations yet. One or two short sentences.`,
		orUnknown(state.Facts.Destination),
		state.Facts.Days,
		state.Facts.Travelers,
		orUnknown(strings.Join(state.Facts.Interests, ", ")),
		orUnknown(string(state.Facts.Budget)),
		strings.Join(missing, ", "))

	reply, err := s.completer.CompleteText(ctx, systemPrompt, state.LastUserMessage(), gatherReplyMaxTokens)
	if err != nil || strings.TrimSpace(reply) == "" {
		s.logger.WarnContext(ctx, "Gathering prompt fell back to static text", slog.Any("error", err))
		return fmt.Sprintf("Got it so far! Could you also tell me your %s?", strings.Join(missing, " and "))
	}
	return reply
}

// startPlanning runs the one-time setup once destination, days and interests
// are all known: fetch spots and hotspots in parallel, rank the pool once,
// reset the itinerary and generate day one in the same turn.
func (s *ServiceImpl) startPlanning(ctx context.Context, state *types.SessionState) string {
	ctx, span := otel.Tracer("TripService").Start(ctx, "startPlanning")
	defer span.End()

	if state.Facts.Travelers <= 0 {
		state.Facts.Travelers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		state.Spots = s.spotService.FetchCandidateSpots(gctx, state.Facts.Destination, state.Facts.Interests)
		return nil
	})
	g.Go(func() error {
		state.Hotspots = s.hotspotService.SearchCityHotspots(gctx, state.Facts.Destination)
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "collaborator fan-out failed")
	}

	state.RankedSpots = planner.RankSpots(state.Spots, state.Facts.Interests, state.Facts.Budget)
	state.Itinerary = types.Itinerary{}
	state.DayIndex = 0
	state.Phase = types.PhaseGeneratingDay

	intro := fmt.Sprintf(
		"All set! Planning a %d-day trip to %s for %d traveler(s), focused on %s (%s budget).\n\n",
		state.Facts.Days, state.Facts.Destination, state.Facts.Travelers,
		strings.Join(state.Facts.Interests, ", "), state.Facts.Budget)

	return intro + s.generateDay(ctx, state, 0)
}

// generateDay builds day i's plan from the session's ranked pool and moves
// the session into refinement for that day.
func (s *ServiceImpl) generateDay(ctx context.Context, state *types.SessionState, dayIndex int) string {
	bucket := planner.BucketForDay(state.RankedSpots, dayIndex, state.Facts.Days, planner.AllocateEvenSplit)
	plan := planner.BuildDayPlan(dayIndex, state.Facts.Destination, bucket, state.Facts.Budget)
	state.Itinerary.UpsertDay(dayIndex, plan)
	state.DayIndex = dayIndex
	state.DayApproved = false
	state.Phase = types.PhaseRefiningDay
	if m := metrics.TryGet(); m != nil {
		m.DaysGeneratedTotal.Add(ctx, 1)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here is Day %d of %d — %s\n\n", dayIndex+1, state.Facts.Days, planner.FormatDaySummary(plan.Meta))
	for _, a := range plan.Activities {
		fmt.Fprintf(&b, "%s %s  %s\n", a.Icon, a.Time, a.Title)
	}
	b.WriteString("\nHappy with this day? Say \"satisfied\" or \"next\" to move on, " +
		"ask for a media rating of any spot, or tell me what to change.")
	return b.String()
}

func (s *ServiceImpl) refineDay(ctx context.Context, state *types.SessionState) string {
	message := state.LastUserMessage()

	// Late fact statements ("medium budget", "actually 4 of us") still land
	// during refinement; pick them up before interpreting the message.
	before := state.Facts
	state.Facts = ExtractFacts(state.Facts, message)

	switch {
	case isApproval(message):
		return s.approveDay(ctx, state)
	case isMediaTrigger(message):
		return s.mediaLookup(ctx, state, message)
	case state.Facts.Budget != before.Budget || state.Facts.Travelers != before.Travelers:
		return fmt.Sprintf("Noted! I've updated your trip details (budget: %s, travelers: %d). "+
			"Anything you'd like to change about the current day?",
			orUnknown(string(state.Facts.Budget)), state.Facts.Travelers)
	default:
		return s.applyEdit(ctx, state, message)
	}
}

// approveDay advances the day cursor; past the last day the trip is done.
// Approval after completion is a friendly no-op.
func (s *ServiceImpl) approveDay(ctx context.Context, state *types.SessionState) string {
	if state.Phase == types.PhaseCompleted {
		return "Your trip is already fully planned! You can still ask me to adjust any day or look up spot ratings."
	}

	state.DayApproved = true
	next := state.DayIndex + 1
	if next >= state.Facts.Days {
		state.Phase = types.PhaseCompleted
		return fmt.Sprintf(
			"🎉 That was the last day — your %d-day %s itinerary is complete! "+
				"You can keep refining any day or ask for spot ratings whenever you like.",
			state.Facts.Days, state.Facts.Destination)
	}

	return "Great, day approved! " + s.generateDay(ctx, state, next)
}

// mediaLookup scopes the rating request to the current day's real spot
// activities; lunch, dinner, rest and free-day filler never get rated.
func (s *ServiceImpl) mediaLookup(ctx context.Context, state *types.SessionState, message string) string {
	day := state.Itinerary.Day(state.DayIndex)
	if day == nil {
		return "Sorry, I don't have a day plan to look that up against yet."
	}

	candidates := spotActivities(day.Activities)
	if len(candidates) == 0 {
		return "This day has no specific spots to rate — it's a free day. Ask me about another day's spots!"
	}

	target := candidates[0]
	lower := strings.ToLower(message)
	for _, a := range candidates {
		if strings.Contains(lower, strings.ToLower(a.Title)) {
			target = a
			break
		}
	}

	report := s.mediaService.LookupMediaRating(ctx, target.Title, state.Facts.Destination)
	return media.FormatReportForUser(report)
}

// applyEdit hands a free-form change request to the LLM with the current day
// as context and swaps the day plan in place when the reply parses. Every
// failure keeps the prior plan and stays in refinement.
func (s *ServiceImpl) applyEdit(ctx context.Context, state *types.SessionState, message string) string {
	day := state.Itinerary.Day(state.DayIndex)
	if day == nil {
		return "Sorry, that day isn't in your itinerary, so there's nothing to adjust there."
	}

	currentJSON, err := json.Marshal(day)
	if err != nil {
		return "Sorry, I ran into a problem reading the current day plan. Please try again."
	}

	systemPrompt := fmt.Sprintf(`You are a travel planning assistant. The user wants to adjust one day of
their %s itinerary.

Current plan for %s:
%s

User request: %s

Return the adjusted plan for this single day as strict JSON:
{"id":"%s","day":"%s","summary":"...","activities":[{"id":"...","icon":"🗺️","title":"...","time":"HH:MM - HH:MM","description":"..."}]}

If the user is only chatting or asking a question, return {"no_change": true}.
Output JSON only.`,
		state.Facts.Destination, day.Day, currentJSON, message, day.ID, day.Day)

	reply, err := s.completer.CompleteText(ctx, systemPrompt, message, editReplyMaxTokens)
	if err != nil {
		s.logger.WarnContext(ctx, "Day edit LLM call failed", slog.Any("error", err))
		return "Sorry, I hit a problem while working on that change. Could you try asking again?"
	}

	edit, err := ParseDayEdit(reply, state.DayIndex)
	if err != nil {
		s.logger.DebugContext(ctx, "Day edit reply did not parse", slog.Any("error", err))
		return "I couldn't apply that change — could you rephrase it? For example: " +
			"\"swap the museum for a street food tour\" or \"start the day later\"."
	}
	if edit.NoChange {
		return "Sure! If you'd like to change this day, tell me which activity to adjust, add or remove."
	}

	state.Itinerary.UpsertDay(state.DayIndex, *edit.Plan)
	return fmt.Sprintf("Done — I've updated %s. Check the refreshed plan on the right, and keep the tweaks coming or say \"satisfied\" to move on.", day.Day)
}

// isApproval treats only short messages as approvals so that longer edit
// requests containing an approval word still reach the edit path.
func isApproval(message string) bool {
	trimmed := strings.TrimSpace(message)
	if utf8.RuneCountInString(trimmed) >= approvalMaxRunes {
		return false
	}
	if approvalWordPattern.MatchString(trimmed) {
		return true
	}
	for _, kw := range approvalKeywordsCJK {
		if strings.Contains(trimmed, kw) {
			return true
		}
	}
	return false
}

func isMediaTrigger(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range mediaTriggerKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// spotActivities filters out the fixed filler rows (lunch, dinner, rest,
// free day) that carry no rateable spot.
func spotActivities(activities []types.Activity) []types.Activity {
	var out []types.Activity
	for _, a := range activities {
		if strings.HasSuffix(a.ID, "_lunch") || strings.HasSuffix(a.ID, "_dinner") ||
			strings.HasSuffix(a.ID, "_rest") || strings.HasSuffix(a.ID, "_free") {
			continue
		}
		out = append(out, a)
	}
	return out
}

func buildUpdates(state *types.SessionState) *types.FrontendUpdates {
	updates := &types.FrontendUpdates{}
	if len(state.Itinerary.Plans) > 0 {
		updates.UpdateItinerary = state.Itinerary.Plans
	}
	if len(state.Spots) > 0 {
		updates.UpdateFeaturedSpots = state.Spots
	}
	for _, h := range state.Hotspots {
		link := h.SourceURL
		if link == "" {
			link = "#"
		}
		updates.UpdateHotActivities = append(updates.UpdateHotActivities, types.HotActivity{
			ID:    h.ID,
			Title: fmt.Sprintf("%s (Rank %d)", h.Title, h.Rank),
			Link:  link,
			Hot:   true,
		})
	}
	if updates.UpdateItinerary == nil && updates.UpdateFeaturedSpots == nil && updates.UpdateHotActivities == nil {
		return nil
	}
	return updates
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not provided"
	}
	return s
}
