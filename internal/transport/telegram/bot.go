// Package telegram adapts Telegram updates onto the dialogue machine's
// tagged inputs and sends its replies back as messages and photos.
package telegram

import (
	"context"
	"strconv"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"example.com/fitcoach/internal/dialog"
)

// Bot runs the long-polling loop. Updates are fanned out to one worker
// per chat so a user's messages are handled strictly in arrival order
// while distinct users proceed concurrently.
type Bot struct {
	api         *tgbotapi.BotAPI
	machine     *dialog.Machine
	categories  map[string]bool
	logger      *zap.Logger
	pollTimeout int

	mu     sync.Mutex
	queues map[int64]chan tgbotapi.Update
	wg     sync.WaitGroup
}

// New constructs a Bot. categories are the catalog's category names, used
// to recognize category browse buttons.
func New(api *tgbotapi.BotAPI, machine *dialog.Machine, categories []string, pollTimeoutSeconds int, logger *zap.Logger) *Bot {
	set := make(map[string]bool, len(categories))
	for _, c := range categories {
		set[c] = true
	}
	return &Bot{
		api:         api,
		machine:     machine,
		categories:  set,
		logger:      logger,
		pollTimeout: pollTimeoutSeconds,
		queues:      make(map[int64]chan tgbotapi.Update),
	}
}

// Run polls until the context is cancelled, then drains the per-chat
// workers before returning.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(cfg)

	b.logger.Info("telegram polling started", zap.String("bot", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.closeQueues()
			b.wg.Wait()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				b.closeQueues()
				b.wg.Wait()
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			b.dispatch(ctx, update)
		}
	}
}

// dispatch queues the update on its chat's worker, spawning one lazily.
func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	chatID := update.Message.Chat.ID

	b.mu.Lock()
	queue, ok := b.queues[chatID]
	if !ok {
		queue = make(chan tgbotapi.Update, 16)
		b.queues[chatID] = queue
		b.wg.Add(1)
		go b.worker(ctx, queue)
	}
	b.mu.Unlock()

	select {
	case queue <- update:
	default:
		// Backpressure: a user flooding faster than we process loses the
		// overflow rather than stalling every other chat.
		b.logger.Warn("dropping update, chat queue full", zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) worker(ctx context.Context, queue <-chan tgbotapi.Update) {
	defer b.wg.Done()
	for update := range queue {
		b.handle(ctx, update)
	}
}

func (b *Bot) closeQueues() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for chatID, queue := range b.queues {
		close(queue)
		delete(b.queues, chatID)
	}
}

func (b *Bot) handle(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	userID := strconv.FormatInt(msg.From.ID, 10)

	replies := b.machine.Handle(ctx, userID, b.adapt(msg))
	for _, reply := range replies {
		b.send(msg.Chat.ID, reply)
	}
}

// adapt maps a Telegram message onto a tagged input. Display-string
// comparison happens only here, never inside the machine.
func (b *Bot) adapt(msg *tgbotapi.Message) dialog.Input {
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			return dialog.Input{Command: dialog.CommandStart}
		case "help":
			return dialog.Input{Command: dialog.CommandHelp}
		case "cancel":
			return dialog.Input{Command: dialog.CommandCancel}
		}
		return dialog.Input{Text: msg.Text}
	}

	text := msg.Text
	if b.categories[text] {
		return dialog.Input{Action: dialog.ActionShowWorkout, Category: text, Text: text}
	}

	switch text {
	case dialog.LabelCancel:
		return dialog.Input{Command: dialog.CommandCancel, Text: text}
	case dialog.LabelMainMenu:
		return dialog.Input{Action: dialog.ActionMainMenu, Text: text}
	case dialog.LabelAddResult:
		return dialog.Input{Action: dialog.ActionAddResult, Text: text}
	case dialog.LabelTrackWater:
		return dialog.Input{Action: dialog.ActionTrackWater, Text: text}
	case dialog.LabelProgress:
		return dialog.Input{Action: dialog.ActionProgress, Text: text}
	case dialog.LabelWaterProgress:
		return dialog.Input{Action: dialog.ActionWaterProgress, Text: text}
	case dialog.LabelFinishWorkout:
		return dialog.Input{Action: dialog.ActionFinishWorkout, Text: text}
	case dialog.LabelMotivation:
		return dialog.Input{Action: dialog.ActionMotivation, Text: text}
	case dialog.LabelAddExercise:
		return dialog.Input{Action: dialog.ActionAddExercise, Text: text}
	case dialog.LabelAddTemplate:
		return dialog.Input{Action: dialog.ActionAddTemplate, Text: text}
	case dialog.LabelFreeText:
		return dialog.Input{Action: dialog.ActionFreeTextExercise, Text: text}
	}
	return dialog.Input{Text: text}
}

func (b *Bot) send(chatID int64, reply dialog.Reply) {
	var msg tgbotapi.Chattable
	if len(reply.Photo) > 0 {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "chart.png", Bytes: reply.Photo})
		photo.Caption = reply.Caption
		msg = photo
	} else {
		text := tgbotapi.NewMessage(chatID, reply.Text)
		if len(reply.Menu) > 0 {
			text.ReplyMarkup = keyboard(reply.Menu)
		}
		msg = text
	}

	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("send reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// keyboard lays menu options out two per row.
func keyboard(options []string) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	for i := 0; i < len(options); i += 2 {
		end := i + 2
		if end > len(options) {
			end = len(options)
		}
		var row []tgbotapi.KeyboardButton
		for _, option := range options[i:end] {
			row = append(row, tgbotapi.NewKeyboardButton(option))
		}
		rows = append(rows, row)
	}
	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.ResizeKeyboard = true
	return markup
}
