package dialog

import (
	"fmt"
	"math/rand"
	"strings"

	"example.com/fitcoach/internal/catalog"
	"example.com/fitcoach/internal/progress"
)

// Button labels shared with the transport adapter. The adapter maps these
// back onto tagged actions; the machine itself only emits them in menus.
const (
	LabelAddResult     = "Log a result"
	LabelTrackWater    = "Log water"
	LabelProgress      = "My progress"
	LabelWaterProgress = "Water chart"
	LabelFinishWorkout = "Workout done"
	LabelMotivation    = "Motivate me"
	LabelAddExercise   = "Add exercise"
	LabelAddTemplate   = "Add workout"
	LabelMainMenu      = "Back to menu"
	LabelCancel        = "Cancel"
	LabelFreeText      = "Type my own exercise"
)

func mainMenu(categories []string) []string {
	menu := append([]string(nil), categories...)
	return append(menu,
		LabelAddResult, LabelTrackWater,
		LabelProgress, LabelWaterProgress,
		LabelAddExercise, LabelAddTemplate,
		LabelMotivation, LabelFinishWorkout,
	)
}

const (
	msgWelcome        = "Welcome to FitCoach! Pick an action:"
	msgHelp           = "FitCoach tracks your workouts and water intake.\n\n/start - main menu\n/help - this text\n/cancel - abort the current step\n\nUse the buttons to navigate."
	msgCancelled      = "Cancelled. Back to the main menu."
	msgNothingActive  = "Nothing in progress."
	msgUnknownChoice  = "I did not recognize that choice. Pick an option from the menu."
	msgStorageFailure = "Something went wrong while saving. Nothing was stored, please try again."
	msgPickExercise   = "Pick an exercise:"
	msgTypeExercise   = "Type the exercise name:"
	msgBadExercise    = "I don't know that exercise. Pick one from the list or choose free entry."
	msgBadSets        = "Enter a whole number of sets greater than 0."
	msgBadWeight      = "Enter a valid weight, 0 or more (e.g. 42.5). Use 0 for bodyweight."
	msgAskWater       = "How many ml of water did you drink?"
	msgBadWater       = "Enter a whole number of ml greater than 0."
	msgPickCategory   = "Which category does the new exercise belong to?"
	msgBadCategory    = "Pick one of the listed categories."
	msgAskNewName     = "What is the new exercise called?"
	msgDuplicateName  = "That exercise already exists in this category."
	msgAskTemplate    = "What should the workout be called?"
	msgAskTplList     = "List the exercises for it, separated by commas.\nFor example: Plank, Barbell Squat, Push-Up"
	msgEmptyName      = "The name cannot be empty."
	msgEmptyTplList   = "Give me at least one exercise, separated by commas."
	msgNoProgress     = "No workout data to chart yet. Log at least two results for one exercise."
	msgNoWater        = "No water intake recorded yet."
	msgWorkoutDone    = "Workout finished, well done!\n\nRecovery checklist:\n- drink water\n- eat something nourishing\n- sleep 7-8 hours"
)

var motivations = []string{
	"Every rep is an investment in tomorrow.",
	"Strength is built one session at a time.",
	"You showed up. That is the hardest part.",
	"Discomfort today, pride tomorrow.",
	"Progress over perfection, always.",
	"Your only competition is yesterday's you.",
}

func motivationQuote() string {
	return motivations[rand.Intn(len(motivations))]
}

func askSets(exercise string) string {
	return fmt.Sprintf("How many sets of %s?", exercise)
}

func askWeight(exercise string) string {
	return fmt.Sprintf("Weight in kg for %s? Enter 0 if bodyweight.", exercise)
}

func savedWorkout(exercise string, sets int, weight float64) string {
	return fmt.Sprintf("Saved!\n%s: %d sets x %g kg", exercise, sets, weight)
}

func savedWater(ml int) string {
	return fmt.Sprintf("+%d ml of water saved!", ml)
}

func savedExercise(name, category string) string {
	return fmt.Sprintf("Exercise %q added to %s.", name, category)
}

func savedTemplate(name string, exercises []string, replaced bool) string {
	verb := "saved"
	if replaced {
		verb = "updated"
	}
	return fmt.Sprintf("Workout %q %s.\nExercises: %s", name, verb, strings.Join(exercises, ", "))
}

func askTemplateExercises(name string) string {
	return fmt.Sprintf("Now the exercises for %q.\n%s", name, msgAskTplList)
}

func categoryGuide(category string, guide []catalog.ExerciseSpec, extra []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n\n", category)
	i := 0
	for _, ex := range guide {
		i++
		fmt.Fprintf(&b, "%d. %s - %dx%s\n", i, ex.Name, ex.Sets, ex.Reps)
	}
	for _, name := range extra {
		i++
		fmt.Fprintf(&b, "%d. %s\n", i, name)
	}
	b.WriteString("\nPress \"" + LabelFinishWorkout + "\" when you are done.")
	return b.String()
}

func weightCaption(exercise string, points []progress.WeightPoint) string {
	return fmt.Sprintf("Progress for %s (%d entries)", exercise, len(points))
}
