package tgbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"
	"vadimgribanov.com/tg-reminder/internal/middleware"
	"vadimgribanov.com/tg-reminder/internal/models"
	"vadimgribanov.com/tg-reminder/internal/parser"
	"vadimgribanov.com/tg-reminder/internal/services"
	"vadimgribanov.com/tg-reminder/internal/telegram_utils"
)

const dateLayout = "02.01.2006 15:04"

const (
	startText = "Merhaba! Ben hatırlatma botunuz. Size nasıl yardımcı olabilirim?\n\n" +
		"Komutlar:\n" +
		"/remind - Yeni hatırlatma oluştur\n" +
		"/list - Hatırlatmalarınızı görüntüle\n" +
		"/delete - Hatırlatma sil\n" +
		"/help - Yardım"

	helpText = "Hatırlatma oluşturmak için şu formatta yazın:\n\n" +
		"Örnekler:\n" +
		"• \"Yarın saat 10:00'da toplantı\"\n" +
		"• \"Her gün saat 11:00'da su iç\"\n" +
		"• \"Her pazartesi saat 09:00'da spor\"\n" +
		"• \"Her ayın 1'inde saat 09:00'da fatura öde\"\n" +
		"• \"Hafta içi saat 08:00'de servis\"\n\n" +
		"Email ile hatırlatma için:\n" +
		"• \"email@example.com: Yarın saat 10:00'da toplantı\""

	formatHelpText = "Hatırlatma formatını anlayamadım. Örnekler:\n" +
		"• \"Yarın saat 10:00'da toplantı\"\n" +
		"• \"Her gün saat 11:00'da su iç\"\n" +
		"• \"email@example.com: Yarın saat 10:00'da toplantı\""

	emptyReminderText   = "Lütfen hatırlatma metnini yazın. Örnek: \"Yarın saat 10:00'da toplantı\""
	createFailedText    = "Hatırlatma oluşturulurken bir hata oluştu. Lütfen tekrar deneyin."
	noRemindersText     = "Henüz hatırlatmanız bulunmuyor."
	listFailedText      = "Hatırlatmalar listelenirken bir hata oluştu."
	deleteUsageText     = "Lütfen silmek istediğiniz hatırlatmanın numarasını yazın. Örnek: /delete 1"
	invalidPositionText = "Geçersiz numara. /list yazarak hatırlatmalarınızı görebilirsiniz."
	deleteFailedText    = "Hatırlatma silinirken bir hata oluştu."
	unknownCommandText  = "Anlamadım. /help yazarak komutları görebilirsiniz."
)

type ReminderService interface {
	CreateReminder(ctx context.Context, chatID int64, text string) (parser.ParsedReminder, error)
	ListReminders(ctx context.Context, chatID int64) ([]models.Reminder, error)
	DeleteReminder(ctx context.Context, chatID int64, position int) (models.Reminder, error)
}

// Commands is the menu published with SetCommands.
var Commands = []tele.Command{
	{Text: "/remind", Description: "Yeni hatırlatma oluştur"},
	{Text: "/list", Description: "Hatırlatmalarınızı görüntüle"},
	{Text: "/delete", Description: "Hatırlatma sil"},
	{Text: "/help", Description: "Yardım"},
}

func RegisterHandlers(
	bot *tele.Bot,
	rateLimiter *middleware.RateLimiter,
	reminderService ReminderService,
) {
	handler := NewBotHandler(reminderService)

	protected := bot.Group()
	protected.Use(rateLimiter.Middleware())
	protected.Handle("/start", handler.Start)
	protected.Handle("/help", handler.Help)
	protected.Handle("/remind", handler.Remind)
	protected.Handle("/list", handler.List)
	protected.Handle("/delete", handler.Delete)
	protected.Handle(tele.OnText, handler.HandleText)
}

type BotHandler struct {
	reminderService ReminderService
}

func NewBotHandler(reminderService ReminderService) *BotHandler {
	return &BotHandler{reminderService: reminderService}
}

func (h *BotHandler) Start(c tele.Context) error {
	return c.Send(startText)
}

func (h *BotHandler) Help(c tele.Context) error {
	return c.Send(helpText)
}

func (h *BotHandler) Remind(c tele.Context) error {
	return h.createReminder(c, c.Message().Payload)
}

// HandleText treats any plain message as a reminder. Commands without a
// handler of their own end up here too.
func (h *BotHandler) HandleText(c tele.Context) error {
	text := c.Text()
	if strings.HasPrefix(text, "/") {
		return c.Send(unknownCommandText)
	}
	return h.createReminder(c, text)
}

func (h *BotHandler) createReminder(c tele.Context, text string) error {
	ctx := middleware.ContextOf(c)
	text = strings.TrimSpace(text)
	if text == "" {
		return c.Send(emptyReminderText)
	}

	parsed, err := h.reminderService.CreateReminder(ctx, c.Chat().ID, text)
	switch {
	case errors.Is(err, parser.ErrNoMatch):
		slog.DebugContext(ctx, "No time found in reminder", "text", text)
		return c.Send(formatHelpText)
	case errors.Is(err, parser.ErrTimeOutOfRange):
		return c.Send("Saat geçersiz. Lütfen 00:00 ile 23:59 arasında bir saat yazın.")
	case err != nil:
		if sendErr := c.Send(createFailedText); sendErr != nil {
			slog.ErrorContext(ctx, "Failed to send error reply", "error", sendErr)
		}
		return err
	}

	return c.Send(confirmationMessage(parsed))
}

func confirmationMessage(parsed parser.ParsedReminder) string {
	var b strings.Builder
	b.WriteString("✅ Hatırlatma oluşturuldu!\n\n")
	fmt.Fprintf(&b, "📝 Metin: %s\n", parsed.Text)
	fmt.Fprintf(&b, "⏰ Zaman: %s\n", parsed.DisplayTime)
	if parsed.Recurrence.IsRecurring() {
		fmt.Fprintf(&b, "🔄 Tekrar: %s\n", parsed.DisplayRecurrence)
	}
	if parsed.Email != "" {
		fmt.Fprintf(&b, "📧 Email: %s\n", parsed.Email)
	}
	fmt.Fprintf(&b, "📅 İlk hatırlatma: %s", parsed.NextOccurrence.Format(dateLayout))
	return b.String()
}

func (h *BotHandler) List(c tele.Context) error {
	ctx := middleware.ContextOf(c)

	reminders, err := h.reminderService.ListReminders(ctx, c.Chat().ID)
	if err != nil {
		if sendErr := c.Send(listFailedText); sendErr != nil {
			slog.ErrorContext(ctx, "Failed to send error reply", "error", sendErr)
		}
		return err
	}
	if len(reminders) == 0 {
		return c.Send(noRemindersText)
	}

	for _, chunk := range telegram_utils.SplitMessage(listMessage(reminders), telegram_utils.MaxTelegramMessageLength) {
		if err := c.Send(chunk); err != nil {
			return err
		}
	}
	return nil
}

func listMessage(reminders []models.Reminder) string {
	var b strings.Builder
	b.WriteString("📋 Hatırlatmalarınız:\n\n")
	for i, reminder := range reminders {
		fmt.Fprintf(&b, "%d. %s\n", i+1, reminder.Text)
		fmt.Fprintf(&b, "   ⏰ %s\n", reminder.NextReminder.Format(dateLayout))
		if reminder.IsRecurring() {
			fmt.Fprintf(&b, "   🔄 %s\n", parser.DisplayRecurrence(reminder.Recurrence))
		}
		if reminder.Email != "" {
			fmt.Fprintf(&b, "   📧 %s\n", reminder.Email)
		}
		b.WriteString("\n")
	}
	b.WriteString("Silmek için: /delete [numara]")
	return b.String()
}

func (h *BotHandler) Delete(c tele.Context) error {
	ctx := middleware.ContextOf(c)

	args := c.Args()
	if len(args) == 0 {
		return c.Send(deleteUsageText)
	}
	position, err := strconv.Atoi(args[0])
	if err != nil {
		return c.Send(deleteUsageText)
	}

	deleted, err := h.reminderService.DeleteReminder(ctx, c.Chat().ID, position)
	switch {
	case errors.Is(err, services.ErrInvalidPosition):
		return c.Send(invalidPositionText)
	case err != nil:
		if sendErr := c.Send(deleteFailedText); sendErr != nil {
			slog.ErrorContext(ctx, "Failed to send error reply", "error", sendErr)
		}
		return err
	}

	return c.Send(fmt.Sprintf("✅ Hatırlatma silindi: \"%s\"", deleted.Text))
}
