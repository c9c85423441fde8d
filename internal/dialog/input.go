// Package dialog implements the per-user dialogue state machine: it
// tracks where each user is in a multi-step flow, validates free-text
// input against the active state, and commits completed entries through
// the record store.
package dialog

// Command is a transport-level command, recognized independently of the
// session's current state.
type Command int

const (
	CommandNone Command = iota
	CommandStart
	CommandHelp
	CommandCancel
)

// Action is a tagged main-menu selection. The transport adapter maps
// button labels onto actions; the machine never compares display strings.
type Action int

const (
	ActionNone Action = iota
	ActionMainMenu
	ActionShowWorkout
	ActionAddResult
	ActionTrackWater
	ActionProgress
	ActionWaterProgress
	ActionFinishWorkout
	ActionMotivation
	ActionAddExercise
	ActionAddTemplate
	ActionFreeTextExercise
)

// Input is one inbound message after transport adaptation.
type Input struct {
	Command  Command
	Action   Action
	Category string // set for ActionShowWorkout
	Text     string // raw message text, trimmed
}

// Reply is one outbound message. Either Text (with an optional
// reply-keyboard menu) or Photo with a caption.
type Reply struct {
	Text    string
	Menu    []string
	Photo   []byte
	Caption string
}

func textReply(text string, menu ...string) Reply {
	return Reply{Text: text, Menu: menu}
}

func photoReply(photo []byte, caption string) Reply {
	return Reply{Photo: photo, Caption: caption}
}
