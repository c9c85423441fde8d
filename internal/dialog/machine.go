package dialog

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"example.com/fitcoach/internal/catalog"
	"example.com/fitcoach/internal/domain"
	"example.com/fitcoach/internal/events"
	"example.com/fitcoach/internal/observability"
	"example.com/fitcoach/internal/progress"
)

// Machine drives every user dialogue. It owns no transport concerns: it
// consumes tagged inputs and produces replies, and touches durable state
// only through the record store and catalog resolver.
type Machine struct {
	sessions   *Store
	repo       domain.Repository
	catalog    *catalog.Resolver
	aggregator *progress.Aggregator
	producer   *events.Producer
	logger     *zap.Logger
	now        func() time.Time
}

// NewMachine wires the machine to its collaborators. producer may be nil.
func NewMachine(sessions *Store, repo domain.Repository, resolver *catalog.Resolver, aggregator *progress.Aggregator, producer *events.Producer, logger *zap.Logger) *Machine {
	return &Machine{
		sessions:   sessions,
		repo:       repo,
		catalog:    resolver,
		aggregator: aggregator,
		producer:   producer,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Handle processes one inbound message for a user and returns the replies
// to send. Messages for the same user serialize on the session mutex, so
// two deliveries can never race the same pending entry.
func (m *Machine) Handle(ctx context.Context, userID string, in Input) []Reply {
	session := m.sessions.Get(userID)
	session.mu.Lock()
	defer session.mu.Unlock()

	switch in.Command {
	case CommandStart:
		return m.handleStart(session)
	case CommandHelp:
		return []Reply{textReply(msgHelp)}
	case CommandCancel:
		return m.handleCancel(ctx, session)
	}

	// The main-menu button doubles as a cancel inside any flow.
	if in.Action == ActionMainMenu && session.State() != StateIdle {
		return m.handleCancel(ctx, session)
	}

	switch session.State() {
	case StateIdle:
		return m.handleIdle(ctx, session, in)
	case StateAwaitExerciseChoice:
		return m.handleExerciseChoice(ctx, session, in)
	case StateAwaitSetCount:
		return m.handleSetCount(ctx, session, in)
	case StateAwaitWeight:
		return m.handleWeight(ctx, session, in)
	case StateAwaitHydration:
		return m.handleHydration(ctx, session, in)
	case StateAwaitNewExerciseCat:
		return m.handleNewExerciseCategory(ctx, session, in)
	case StateAwaitNewExerciseName:
		return m.handleNewExerciseName(ctx, session, in)
	case StateAwaitTemplateName:
		return m.handleTemplateName(ctx, session, in)
	case StateAwaitTemplateList:
		return m.handleTemplateList(ctx, session, in)
	default:
		m.logger.Error("session in unknown state", zap.String("state", session.State()), zap.String("user_id", session.UserID))
		session.fsm.SetState(StateIdle)
		session.clearPending()
		return []Reply{textReply(msgWelcome, m.mainMenu()...)}
	}
}

func (m *Machine) handleStart(session *Session) []Reply {
	session.fsm.SetState(StateIdle)
	session.clearPending()
	return []Reply{textReply(msgWelcome, m.mainMenu()...)}
}

// handleCancel is unconditional: it must succeed whatever the pending
// entry looks like.
func (m *Machine) handleCancel(ctx context.Context, session *Session) []Reply {
	if session.State() == StateIdle {
		return []Reply{textReply(msgNothingActive, m.mainMenu()...)}
	}
	m.fire(ctx, session, eventReset)
	session.clearPending()
	observability.RecordFlowCancelled()
	return []Reply{textReply(msgCancelled, m.mainMenu()...)}
}

func (m *Machine) handleIdle(ctx context.Context, session *Session, in Input) []Reply {
	switch in.Action {
	case ActionMainMenu:
		return []Reply{textReply(msgWelcome, m.mainMenu()...)}
	case ActionShowWorkout:
		return m.handleShowWorkout(ctx, session, in.Category)
	case ActionAddResult:
		view, err := m.catalog.Resolve(ctx, session.UserID)
		if err != nil {
			return m.storageTrouble(session, "resolve catalog", err)
		}
		m.fire(ctx, session, eventBeginResult)
		menu := append(view.AllExercises(), LabelFreeText, LabelCancel)
		return []Reply{textReply(msgPickExercise, menu...)}
	case ActionTrackWater:
		m.fire(ctx, session, eventBeginWater)
		return []Reply{textReply(msgAskWater, LabelCancel)}
	case ActionProgress:
		return m.handleProgress(ctx, session)
	case ActionWaterProgress:
		return m.handleWaterProgress(ctx, session)
	case ActionFinishWorkout:
		return []Reply{textReply(msgWorkoutDone, m.mainMenu()...)}
	case ActionMotivation:
		return []Reply{textReply(motivationQuote(), m.mainMenu()...)}
	case ActionAddExercise:
		m.fire(ctx, session, eventBeginExercise)
		menu := append(m.catalog.Categories(), LabelMainMenu)
		return []Reply{textReply(msgPickCategory, menu...)}
	case ActionAddTemplate:
		m.fire(ctx, session, eventBeginTemplate)
		return []Reply{textReply(msgAskTemplate, LabelCancel)}
	default:
		observability.RecordValidationError(StateIdle)
		return []Reply{textReply(msgUnknownChoice, m.mainMenu()...)}
	}
}

func (m *Machine) handleShowWorkout(ctx context.Context, session *Session, category string) []Reply {
	guide := m.catalog.CategoryGuide(category)
	if guide == nil {
		observability.RecordValidationError(StateIdle)
		return []Reply{textReply(msgUnknownChoice, m.mainMenu()...)}
	}

	view, err := m.catalog.Resolve(ctx, session.UserID)
	if err != nil {
		return m.storageTrouble(session, "resolve catalog", err)
	}
	builtins := make(map[string]bool, len(guide))
	for _, ex := range guide {
		builtins[ex.Name] = true
	}
	var extra []string
	for _, name := range view.ExercisesIn(category) {
		if !builtins[name] {
			extra = append(extra, name)
		}
	}
	return []Reply{textReply(categoryGuide(category, guide, extra), m.mainMenu()...)}
}

func (m *Machine) handleExerciseChoice(ctx context.Context, session *Session, in Input) []Reply {
	if in.Action == ActionFreeTextExercise {
		session.freeText = true
		return []Reply{textReply(msgTypeExercise, LabelCancel)}
	}

	name := strings.TrimSpace(in.Text)
	if name == "" {
		observability.RecordValidationError(StateAwaitExerciseChoice)
		return []Reply{textReply(msgBadExercise, LabelCancel)}
	}

	view, err := m.catalog.Resolve(ctx, session.UserID)
	if err != nil {
		return m.abortFlow(ctx, session, "resolve catalog", err)
	}

	if !session.freeText && !view.HasExercise(name) {
		observability.RecordValidationError(StateAwaitExerciseChoice)
		return []Reply{textReply(msgBadExercise, LabelCancel)}
	}

	session.pending.Exercise = name
	session.pending.Category = view.CategoryOf(name)
	session.freeText = false
	m.fire(ctx, session, eventExerciseChosen)
	return []Reply{textReply(askSets(name), LabelCancel)}
}

func (m *Machine) handleSetCount(ctx context.Context, session *Session, in Input) []Reply {
	sets, err := strconv.Atoi(strings.TrimSpace(in.Text))
	if err != nil || sets <= 0 {
		observability.RecordValidationError(StateAwaitSetCount)
		return []Reply{textReply(msgBadSets, LabelCancel)}
	}

	session.pending.Sets = sets
	m.fire(ctx, session, eventSetsEntered)
	return []Reply{textReply(askWeight(session.pending.Exercise), LabelCancel)}
}

func (m *Machine) handleWeight(ctx context.Context, session *Session, in Input) []Reply {
	weight, err := strconv.ParseFloat(strings.TrimSpace(in.Text), 64)
	if err != nil || weight < 0 {
		observability.RecordValidationError(StateAwaitWeight)
		return []Reply{textReply(msgBadWeight, LabelCancel)}
	}

	entry := domain.WorkoutEntry{
		ID:         uuid.NewString(),
		UserID:     session.UserID,
		Exercise:   session.pending.Exercise,
		Category:   session.pending.Category,
		Sets:       session.pending.Sets,
		Weight:     weight,
		RecordedAt: m.now(),
	}
	if err := m.repo.AppendWorkout(ctx, entry); err != nil {
		return m.abortFlow(ctx, session, "append workout", err)
	}

	m.producer.Publish(ctx, events.TopicWorkoutRecorded, session.UserID, events.WorkoutRecorded{
		EntryID:    entry.ID,
		UserID:     entry.UserID,
		Exercise:   entry.Exercise,
		Category:   entry.Category,
		Sets:       entry.Sets,
		Weight:     entry.Weight,
		RecordedAt: entry.RecordedAt,
	})
	observability.RecordFlowCompleted("workout")

	reply := savedWorkout(entry.Exercise, entry.Sets, entry.Weight)
	session.clearPending()
	m.fire(ctx, session, eventEntrySaved)
	return []Reply{textReply(reply, m.mainMenu()...)}
}

func (m *Machine) handleHydration(ctx context.Context, session *Session, in Input) []Reply {
	ml, err := strconv.Atoi(strings.TrimSpace(in.Text))
	if err != nil || ml <= 0 {
		observability.RecordValidationError(StateAwaitHydration)
		return []Reply{textReply(msgBadWater, LabelCancel)}
	}

	entry := domain.HydrationEntry{
		ID:         uuid.NewString(),
		UserID:     session.UserID,
		VolumeML:   ml,
		RecordedAt: m.now(),
	}
	if err := m.repo.AppendHydration(ctx, entry); err != nil {
		return m.abortFlow(ctx, session, "append hydration", err)
	}

	m.producer.Publish(ctx, events.TopicHydrationRecorded, session.UserID, events.HydrationRecorded{
		EntryID:    entry.ID,
		UserID:     entry.UserID,
		VolumeML:   entry.VolumeML,
		RecordedAt: entry.RecordedAt,
	})
	observability.RecordFlowCompleted("hydration")

	m.fire(ctx, session, eventWaterSaved)
	return []Reply{textReply(savedWater(ml), m.mainMenu()...)}
}

func (m *Machine) handleNewExerciseCategory(ctx context.Context, session *Session, in Input) []Reply {
	category := strings.TrimSpace(in.Text)
	valid := false
	for _, c := range m.catalog.Categories() {
		if c == category {
			valid = true
			break
		}
	}
	if !valid {
		observability.RecordValidationError(StateAwaitNewExerciseCat)
		menu := append(m.catalog.Categories(), LabelMainMenu)
		return []Reply{textReply(msgBadCategory, menu...)}
	}

	session.pending.NewCategory = category
	m.fire(ctx, session, eventCategoryChosen)
	return []Reply{textReply(msgAskNewName, LabelCancel)}
}

// handleNewExerciseName completes the add-exercise flow. A duplicate name
// is reported and still lands back in IDLE; this is not a retry loop.
func (m *Machine) handleNewExerciseName(ctx context.Context, session *Session, in Input) []Reply {
	name := strings.TrimSpace(in.Text)
	if name == "" {
		observability.RecordValidationError(StateAwaitNewExerciseName)
		return []Reply{textReply(msgEmptyName, LabelCancel)}
	}

	category := session.pending.NewCategory
	err := m.catalog.AddExercise(ctx, session.UserID, category, name)
	switch {
	case errors.Is(err, domain.ErrExerciseExists):
		session.clearPending()
		m.fire(ctx, session, eventExerciseAdded)
		return []Reply{textReply(msgDuplicateName, m.mainMenu()...)}
	case err != nil:
		return m.abortFlow(ctx, session, "add exercise", err)
	}

	observability.RecordFlowCompleted("add_exercise")
	session.clearPending()
	m.fire(ctx, session, eventExerciseAdded)
	return []Reply{textReply(savedExercise(name, category), m.mainMenu()...)}
}

func (m *Machine) handleTemplateName(ctx context.Context, session *Session, in Input) []Reply {
	name := strings.TrimSpace(in.Text)
	if name == "" {
		observability.RecordValidationError(StateAwaitTemplateName)
		return []Reply{textReply(msgEmptyName, LabelCancel)}
	}

	session.pending.TemplateName = name
	m.fire(ctx, session, eventTemplateNamed)
	return []Reply{textReply(askTemplateExercises(name), LabelCancel)}
}

func (m *Machine) handleTemplateList(ctx context.Context, session *Session, in Input) []Reply {
	exercises := splitList(in.Text)
	if len(exercises) == 0 {
		observability.RecordValidationError(StateAwaitTemplateList)
		return []Reply{textReply(msgEmptyTplList, LabelCancel)}
	}

	name := session.pending.TemplateName
	replaced, err := m.catalog.AddTemplate(ctx, session.UserID, name, exercises)
	if err != nil {
		return m.abortFlow(ctx, session, "add template", err)
	}

	observability.RecordFlowCompleted("add_template")
	session.clearPending()
	m.fire(ctx, session, eventTemplateSaved)
	return []Reply{textReply(savedTemplate(name, exercises, replaced), m.mainMenu()...)}
}

func (m *Machine) handleProgress(ctx context.Context, session *Session) []Reply {
	series, err := m.aggregator.WorkoutSeries(ctx, session.UserID)
	if errors.Is(err, domain.ErrNoData) {
		return []Reply{textReply(msgNoProgress, m.mainMenu()...)}
	}
	if err != nil {
		return m.storageTrouble(session, "workout series", err)
	}

	var replies []Reply
	for _, exercise := range progress.SortedExercises(series) {
		points := series[exercise]
		png, err := progress.RenderWeightChart(exercise, points)
		if err != nil {
			m.logger.Error("render weight chart", zap.String("exercise", exercise), zap.Error(err))
			continue
		}
		replies = append(replies, photoReply(png, weightCaption(exercise, points)))
	}
	if len(replies) == 0 {
		return []Reply{textReply(msgNoProgress, m.mainMenu()...)}
	}
	return replies
}

func (m *Machine) handleWaterProgress(ctx context.Context, session *Session) []Reply {
	series, err := m.aggregator.HydrationSeries(ctx, session.UserID)
	if errors.Is(err, domain.ErrNoData) {
		return []Reply{textReply(msgNoWater, m.mainMenu()...)}
	}
	if err != nil {
		return m.storageTrouble(session, "hydration series", err)
	}

	png, err := progress.RenderHydrationChart(series)
	if err != nil {
		m.logger.Error("render hydration chart", zap.Error(err))
		return []Reply{textReply(msgStorageFailure, m.mainMenu()...)}
	}
	return []Reply{photoReply(png, "Your water intake by day")}
}

// abortFlow lands the session back in IDLE after a storage failure.
// Nothing is partially committed and nothing is retried here; the user is
// told and may start over.
func (m *Machine) abortFlow(ctx context.Context, session *Session, op string, err error) []Reply {
	m.logger.Error("storage failure, aborting flow",
		zap.String("op", op),
		zap.String("user_id", session.UserID),
		zap.String("state", session.State()),
		zap.Error(err))
	m.fire(ctx, session, eventReset)
	session.clearPending()
	return []Reply{textReply(msgStorageFailure, m.mainMenu()...)}
}

// storageTrouble reports a read failure from IDLE; the session stays put.
func (m *Machine) storageTrouble(session *Session, op string, err error) []Reply {
	m.logger.Error("storage failure",
		zap.String("op", op),
		zap.String("user_id", session.UserID),
		zap.Error(err))
	return []Reply{textReply(msgStorageFailure, m.mainMenu()...)}
}

func (m *Machine) fire(ctx context.Context, session *Session, event string) {
	if err := session.fsm.Event(ctx, event); err != nil {
		m.logger.Error("dialogue transition rejected",
			zap.String("event", event),
			zap.String("state", session.State()),
			zap.String("user_id", session.UserID),
			zap.Error(err))
	}
}

func (m *Machine) mainMenu() []string {
	return mainMenu(m.catalog.Categories())
}

// splitList parses a comma-separated exercise list: trim whitespace, drop
// empty segments, keep duplicates and order.
func splitList(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
