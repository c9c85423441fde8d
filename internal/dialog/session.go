package dialog

import (
	"sync"

	"github.com/looplab/fsm"

	"example.com/fitcoach/internal/observability"
)

// Dialogue states. IDLE is both the initial state and the landing state
// after every completed, cancelled or aborted flow.
const (
	StateIdle                 = "idle"
	StateAwaitExerciseChoice  = "await_exercise_choice"
	StateAwaitSetCount        = "await_set_count"
	StateAwaitWeight          = "await_weight"
	StateAwaitHydration       = "await_hydration_volume"
	StateAwaitNewExerciseCat  = "await_new_exercise_category"
	StateAwaitNewExerciseName = "await_new_exercise_name"
	StateAwaitTemplateName    = "await_template_name"
	StateAwaitTemplateList    = "await_template_exercise_list"
)

// FSM event names. The transition table is the single source of truth for
// which state changes are legal; handlers fire events, they never assign
// states directly.
const (
	eventBeginResult    = "begin_result"
	eventExerciseChosen = "exercise_chosen"
	eventSetsEntered    = "sets_entered"
	eventEntrySaved     = "entry_saved"
	eventBeginWater     = "begin_water"
	eventWaterSaved     = "water_saved"
	eventBeginExercise  = "begin_exercise"
	eventCategoryChosen = "category_chosen"
	eventExerciseAdded  = "exercise_added"
	eventBeginTemplate  = "begin_template"
	eventTemplateNamed  = "template_named"
	eventTemplateSaved  = "template_saved"
	eventReset          = "reset"
)

var nonIdleStates = []string{
	StateAwaitExerciseChoice,
	StateAwaitSetCount,
	StateAwaitWeight,
	StateAwaitHydration,
	StateAwaitNewExerciseCat,
	StateAwaitNewExerciseName,
	StateAwaitTemplateName,
	StateAwaitTemplateList,
}

func newDialogueFSM() *fsm.FSM {
	return fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: eventBeginResult, Src: []string{StateIdle}, Dst: StateAwaitExerciseChoice},
			{Name: eventExerciseChosen, Src: []string{StateAwaitExerciseChoice}, Dst: StateAwaitSetCount},
			{Name: eventSetsEntered, Src: []string{StateAwaitSetCount}, Dst: StateAwaitWeight},
			{Name: eventEntrySaved, Src: []string{StateAwaitWeight}, Dst: StateIdle},
			{Name: eventBeginWater, Src: []string{StateIdle}, Dst: StateAwaitHydration},
			{Name: eventWaterSaved, Src: []string{StateAwaitHydration}, Dst: StateIdle},
			{Name: eventBeginExercise, Src: []string{StateIdle}, Dst: StateAwaitNewExerciseCat},
			{Name: eventCategoryChosen, Src: []string{StateAwaitNewExerciseCat}, Dst: StateAwaitNewExerciseName},
			{Name: eventExerciseAdded, Src: []string{StateAwaitNewExerciseName}, Dst: StateIdle},
			{Name: eventBeginTemplate, Src: []string{StateIdle}, Dst: StateAwaitTemplateName},
			{Name: eventTemplateNamed, Src: []string{StateAwaitTemplateName}, Dst: StateAwaitTemplateList},
			{Name: eventTemplateSaved, Src: []string{StateAwaitTemplateList}, Dst: StateIdle},
			{Name: eventReset, Src: nonIdleStates, Dst: StateIdle},
		},
		fsm.Callbacks{},
	)
}

// pendingEntry is the partially built record filled in across states.
// Discarded on commit, cancel or abort; never persisted.
type pendingEntry struct {
	Exercise     string
	Category     string
	Sets         int
	TemplateName string
	NewCategory  string
}

// Session is one user's in-memory dialogue progress. The mutex serializes
// messages for the user: a second message queues behind the first instead
// of racing the pending entry.
type Session struct {
	UserID string

	mu       sync.Mutex
	fsm      *fsm.FSM
	pending  pendingEntry
	freeText bool // next exercise-choice input is taken literally
}

// State returns the current dialogue state.
func (s *Session) State() string {
	return s.fsm.Current()
}

func (s *Session) clearPending() {
	s.pending = pendingEntry{}
	s.freeText = false
}

// Store owns the per-user sessions, created lazily on first contact.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Get returns the user's session, creating an IDLE one on first sight.
func (s *Store) Get(userID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		session = &Session{UserID: userID, fsm: newDialogueFSM()}
		s.sessions[userID] = session
		observability.SetActiveSessions(len(s.sessions))
	}
	return session
}

// Evict drops a session; the next message recreates it in IDLE.
func (s *Store) Evict(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	observability.SetActiveSessions(len(s.sessions))
}

// Len reports how many sessions are held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
