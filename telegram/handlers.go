package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"meetup-bot/database"
	"meetup-bot/payments"
	"meetup-bot/state"
	"meetup-bot/utils"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"go.uber.org/zap"
)

const (
	DispatcherCommandHandlerGroup      = 0
	DispatcherCallbackHandlerGroup     = 1
	DispatcherConversationHandlerGroup = 2
)

type meetupBotCommand struct {
	command     handlers.Command
	description string
}

var commands = []meetupBotCommand{}

func AddTelegramHandlers() {
	dispatcher := state.State.TelegramDispatcher

	commands = append(commands,
		meetupBotCommand{
			handlers.NewCommand("start", StartCommandHandler),
			"Начало работы",
		},
		meetupBotCommand{
			handlers.NewCommand("help", HelpCommandHandler),
			"Список команд",
		},
		meetupBotCommand{
			handlers.NewCommand("program", ProgramCommandHandler),
			"Программа мероприятия",
		},
		meetupBotCommand{
			handlers.NewCommand("ask", AskCommandHandler),
			"Задать вопрос спикеру",
		},
		meetupBotCommand{
			handlers.NewCommand("donate", DonateCommandHandler),
			"Поддержать мероприятие",
		},
		meetupBotCommand{
			handlers.NewCommand("network", NetworkCommandHandler),
			"Познакомиться с участниками",
		},
		meetupBotCommand{
			handlers.NewCommand("cancel", CancelCommandHandler),
			"Отменить текущее действие",
		},
		meetupBotCommand{
			handlers.NewCommand("findspeaker", FindSpeakerCommandHandler),
			"",
		},
	)

	for _, command := range commands {
		dispatcher.AddHandlerToGroup(command.command, DispatcherCommandHandlerGroup)
		if command.description != "" {
			state.State.TelegramCommands = append(state.State.TelegramCommands,
				gotgbot.BotCommand{
					Command:     command.command.Command,
					Description: command.description,
				},
			)
		}
	}

	// Exact matches are registered before their prefix handlers.
	addCallback(dispatcher, func(data string) bool { return data == "schedule" }, ScheduleCallbackHandler)
	addCallback(dispatcher, func(data string) bool { return data == "ask_speaker" }, AskSpeakerMenuCallbackHandler)
	addCallback(dispatcher, func(data string) bool { return strings.HasPrefix(data, "ask_") }, AskSpeakerPickCallbackHandler)
	addCallback(dispatcher, func(data string) bool { return data == "back" }, BackCallbackHandler)
	addCallback(dispatcher, func(data string) bool { return data == "confirm_question" }, ConfirmQuestionCallbackHandler)
	addCallback(dispatcher, func(data string) bool { return data == "cancel_question" }, CancelQuestionCallbackHandler)
	addCallback(dispatcher, func(data string) bool { return data == "donate_custom" }, DonateCustomCallbackHandler)
	addCallback(dispatcher, func(data string) bool { return strings.HasPrefix(data, "donate_") }, DonateFixedCallbackHandler)
	addCallback(dispatcher, func(data string) bool { return strings.HasPrefix(data, "answer_") }, AnswerCallbackHandler)
	addCallback(dispatcher, func(data string) bool { return strings.HasPrefix(data, "connect_") }, ConnectCallbackHandler)
	addCallback(dispatcher, func(data string) bool { return strings.HasPrefix(data, "accept_") }, AcceptCallbackHandler)

	dispatcher.AddHandlerToGroup(handlers.NewMessage(
		func(msg *gotgbot.Message) bool {
			return msg.Text != "" && !strings.HasPrefix(msg.Text, "/")
		}, ConversationMessageHandler,
	), DispatcherConversationHandlerGroup)
}

func addCallback(dispatcher *ext.Dispatcher, match func(data string) bool, response handlers.Response) {
	dispatcher.AddHandlerToGroup(handlers.NewCallback(
		func(cq *gotgbot.CallbackQuery) bool { return match(cq.Data) },
		response,
	), DispatcherCallbackHandlerGroup)
}

func commandListText(isStaff bool) string {
	text := "Доступные команды:\n" +
		"/start - начало работы\n" +
		"/program - программа мероприятия\n" +
		"/ask - задать вопрос спикеру\n" +
		"/donate - поддержать мероприятие\n" +
		"/network - познакомиться с участниками"
	if isStaff {
		text += "\n/findspeaker - поиск спикера (для организаторов)"
	}
	return text
}

func StartCommandHandler(b *gotgbot.Bot, c *ext.Context) error {
	user := c.EffectiveUser

	if _, err := database.ParticipantGetOrCreate(user.Id, user.Username, user.FirstName); err != nil {
		return utils.TgReplyWithErrorByContext(b, c, "Не удалось зарегистрировать участника", err)
	}

	eventName := "Python Meetup"
	if event, err := database.EventGetActive(); err == nil {
		eventName = event.Title
	}

	isStaff := false
	if staff, err := database.StaffIDs(); err == nil {
		isStaff = staff[user.Id]
	}

	text := fmt.Sprintf("Привет! Я бот для %s\n\n%s", eventName, commandListText(isStaff))
	_, err := utils.TgReplyTextByContext(b, c, text, mainMenuKeyboard())
	return err
}

func HelpCommandHandler(b *gotgbot.Bot, c *ext.Context) error {
	isStaff := false
	if staff, err := database.StaffIDs(); err == nil {
		isStaff = staff[c.EffectiveUser.Id]
	}
	_, err := utils.TgReplyTextByContext(b, c, commandListText(isStaff), mainMenuKeyboard())
	return err
}

func todayProgramText() (string, error) {
	if _, err := database.EventGetActive(); err != nil {
		if errors.Is(err, database.ErrNoActiveEvent) {
			return "Сейчас нет активных мероприятий", nil
		}
		return "", err
	}

	program, err := database.ProgramFor(time.Now().In(state.State.LocalLocation))
	if err != nil {
		return "", err
	}
	return "Программа на сегодня:\n\n" + program, nil
}

func ProgramCommandHandler(b *gotgbot.Bot, c *ext.Context) error {
	text, err := todayProgramText()
	if err != nil {
		return utils.TgReplyWithErrorByContext(b, c, "Не удалось получить программу", err)
	}
	_, err = utils.TgReplyTextByContext(b, c, text, nil)
	return err
}

func ScheduleCallbackHandler(b *gotgbot.Bot, c *ext.Context) error {
	utils.TgAnswerCallback(b, c.CallbackQuery)

	text, err := todayProgramText()
	if err != nil {
		return utils.TgReplyWithErrorByContext(b, c, "Не удалось получить программу", err)
	}
	return utils.TgEditTextByContext(b, c, text, nil)
}

// Question flow: selecting_speaker -> awaiting_question -> confirming_question.

func speakerMenu(userID int64) (string, *gotgbot.InlineKeyboardMarkup, error) {
	speakers, err := database.CurrentSpeakers(time.Now().In(state.State.LocalLocation))
	if err != nil {
		return "", nil, err
	}
	if len(speakers) == 0 {
		conversations.Clear(userID)
		return "Сейчас нет активных докладов.", nil, nil
	}

	conversations.Begin(userID, "ask", StepSelectingSpeaker)
	return "Кому хотите задать вопрос?", speakersKeyboard(speakers), nil
}

func AskCommandHandler(b *gotgbot.Bot, c *ext.Context) error {
	text, markup, err := speakerMenu(c.EffectiveUser.Id)
	if err != nil {
		return utils.TgReplyWithErrorByContext(b, c, "Не удалось получить список спикеров", err)
	}
	_, err = utils.TgReplyTextByContext(b, c, text, markup)
	return err
}

func AskSpeakerMenuCallbackHandler(b *gotgbot.Bot, c *ext.Context) error {
	utils.TgAnswerCallback(b, c.CallbackQuery)

	text, markup, err := speakerMenu(c.EffectiveUser.Id)
	if err != nil {
		return utils.TgReplyWithErrorByContext(b, c, "Не удалось получить список спикеров", err)
	}
	return utils.TgEditTextByContext(b, c, text, markup)
}

func AskSpeakerPickCallbackHandler(b *gotgbot.Bot, c *ext.Context) error {
	utils.TgAnswerCallback(b, c.CallbackQuery)

	username := strings.TrimPrefix(c.CallbackQuery.Data, "ask_")
	session := conversations.Begin(c.EffectiveUser.Id, "ask", StepAwaitingQuestion)
	session.Data["speaker"] = username

	return utils.TgEditTextByContext(b, c,
		fmt.Sprintf("Введите ваш вопрос для @%s:", username), nil)
}

func BackCallbackHandler(b *gotgbot.Bot, c *ext.Context) error {
	utils.TgAnswerCallback(b, c.CallbackQuery)
	conversations.Clear(c.EffectiveUser.Id)
	return utils.TgEditTextByContext(b, c, commandListText(false), mainMenuKeyboard())
}

func ConfirmQuestionCallbackHandler(b *gotgbot.Bot, c *ext.Context) error {
	utils.TgAnswerCallback(b, c.CallbackQuery)

	user := c.EffectiveUser
	session := conversations.Get(user.Id)
	if session == nil || session.Step != StepConfirmingQuestion {
		conversations.Clear(user.Id)
		return utils.TgEditTextByContext(b, c,
			"Не удалось отправить вопрос. Начните заново: /ask", nil)
	}

	speakerUsername := session.Data["speaker"]
	questionText := session.Data["question"]
	conversations.Clear(user.Id)

	question, speaker, err := database.QuestionAdd(speakerUsername, user.Id, user.FirstName, questionText)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrSpeakerNotFound):
			return utils.TgEditTextByContext(b, c,
				fmt.Sprintf("Спикер @%s не найден", speakerUsername), nil)
		case errors.Is(err, database.ErrSpeakerNotActive):
			return utils.TgEditTextByContext(b, c,
				"Спикер не привязан к активному мероприятию", nil)
		default:
			_ = utils.TgReplyWithErrorByContext(b, c, "Ошибка при отправке вопроса", err)
			return err
		}
	}

	if speaker.TelegramID.Valid {
		notifyErr := utils.TgSendMessageById(b, speaker.TelegramID.Int64,
			fmt.Sprintf("❓ Новый вопрос от %s:\n\n%s",
				html.EscapeString(user.FirstName), html.EscapeString(questionText)),
			answerKeyboard(question.ID))
		if notifyErr != nil {
			state.State.Logger.Warn("failed to notify speaker about a new question",
				zap.Uint("question_id", question.ID),
				zap.Error(notifyErr),
			)
		}
	}

	return utils.TgEditTextByContext(b, c, "Вопрос отправлен спикеру!", nil)
}

func CancelQuestionCallbackHandler(b *gotgbot.Bot, c *ext.Context) error {
	utils.TgAnswerCallback(b, c.CallbackQuery)
	conversations.Clear(c.EffectiveUser.Id)
	return utils.TgEditTextByContext(b, c, "Вопрос отменён.", nil)
}

// AnswerCallbackHandler lets the speaker respond to a question from the
// notification message.
func AnswerCallbackHandler(b *gotgbot.Bot, c *ext.Context) error {
	utils.TgAnswerCallback(b, c.CallbackQuery)

	questionID, err := strconv.ParseUint(strings.TrimPrefix(c.CallbackQuery.Data, "answer_"), 10, 64)
	if err != nil {
		return utils.TgEditTextByContext(b, c, "Вопрос не найден.", nil)
	}

	question, err := database.QuestionGet(uint(questionID))
	if err != nil {
		if errors.Is(err, database.ErrQuestionNotFound) {
			return utils.TgEditTextByContext(b, c, "Вопрос не найден.", nil)
		}
		return utils.TgReplyWithErrorByContext(b, c, "Не удалось получить вопрос", err)
	}

	if !question.Speaker.TelegramID.Valid || question.Speaker.TelegramID.Int64 != c.EffectiveUser.Id {
		return utils.TgEditTextByContext(b, c, "Этот вопрос адресован не вам.", nil)
	}

	session := conversations.Begin(c.EffectiveUser.Id, "answer", StepAwaitingAnswer)
	session.Data["question_id"] = fmt.Sprintf("%d", question.ID)

	_, err = utils.TgReplyTextByContext(b, c, "Введите ваш ответ:", nil)
	return err
}

// Donation flow.

func DonateCommandHandler(b *gotgbot.Bot, c *ext.Context) error {
	if _, err := database.EventGetActive(); err != nil {
		if errors.Is(err, database.ErrNoActiveEvent) {
			_, replyErr := utils.TgReplyTextByContext(b, c, "Сейчас нет активных мероприятий для доната", nil)
			return replyErr
		}
		return utils.TgReplyWithErrorByContext(b, c, "Не удалось проверить мероприятие", err)
	}

	_, err := utils.TgReplyTextByContext(b, c, "Выберите сумму доната:",
		donateKeyboard(state.State.Config.Donations.PresetAmounts))
	return err
}

func DonateFixedCallbackHandler(b *gotgbot.Bot, c *ext.Context) error {
	utils.TgAnswerCallback(b, c.CallbackQuery)

	if _, err := database.EventGetActive(); err != nil {
		if errors.Is(err, database.ErrNoActiveEvent) {
			return utils.TgEditTextByContext(b, c, "Сейчас нет активных мероприятий для доната", nil)
		}
		return utils.TgReplyWithErrorByContext(b, c, "Не удалось проверить мероприятие", err)
	}

	amount, err := amountFromCallback(c.CallbackQuery.Data)
	if err != nil {
		return utils.TgEditTextByContext(b, c, "Ошибка при обработке суммы.", nil)
	}

	return createDonationPayment(b, c, amount)
}

func DonateCustomCallbackHandler(b *gotgbot.Bot, c *ext.Context) error {
	utils.TgAnswerCallback(b, c.CallbackQuery)

	if _, err := database.EventGetActive(); err != nil {
		if errors.Is(err, database.ErrNoActiveEvent) {
			return utils.TgEditTextByContext(b, c, "Сейчас нет активных мероприятий для доната", nil)
		}
		return utils.TgReplyWithErrorByContext(b, c, "Не удалось проверить мероприятие", err)
	}

	cfg := state.State.Config
	conversations.Begin(c.EffectiveUser.Id, "donate", StepAwaitingCustomAmount)

	return utils.TgEditTextByContext(b, c,
		fmt.Sprintf("Введите сумму доната в рублях (от %d до %d):",
			cfg.Donations.MinCustom, cfg.Donations.MaxCustom), nil)
}

// createDonationPayment records a pending donation, creates the provider
// charge and attaches its id, so every charge attempt has a row to
// reconcile against. Only the provider webhook confirms the donation.
func createDonationPayment(b *gotgbot.Bot, c *ext.Context, amount int64) error {
	var (
		cfg  = state.State.Config
		user = c.EffectiveUser
	)

	event, err := database.EventGetActive()
	if err != nil {
		conversations.Clear(user.Id)
		if errors.Is(err, database.ErrNoActiveEvent) {
			_, replyErr := utils.TgReplyTextByContext(b, c, "Сейчас нет активных мероприятий для доната", nil)
			return replyErr
		}
		return utils.TgReplyWithErrorByContext(b, c, "Не удалось проверить мероприятие", err)
	}

	participant, err := database.ParticipantGetOrCreate(user.Id, user.Username, user.FirstName)
	if err != nil {
		conversations.Clear(user.Id)
		return utils.TgReplyWithErrorByContext(b, c, "Не удалось зарегистрировать участника", err)
	}

	donation, err := database.DonationAddPending(event.ID, participant.ID, amount)
	if err != nil {
		conversations.Clear(user.Id)
		return utils.TgReplyWithErrorByContext(b, c, "Не удалось сохранить донат", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	payment, err := state.State.PaymentProvider.CreatePayment(ctx, payments.CreateRequest{
		Amount:      amount,
		Currency:    cfg.YooKassa.Currency,
		Description: "Донат на " + event.Title,
		ReturnURL:   "https://t.me/" + cfg.Telegram.BotUsername,
		Metadata: map[string]string{
			"user_id":  strconv.FormatInt(user.Id, 10),
			"event_id": strconv.FormatUint(uint64(event.ID), 10),
		},
	})
	conversations.Clear(user.Id)
	if err != nil {
		if cancelErr := database.DonationCancel(donation.ID); cancelErr != nil {
			state.State.Logger.Error("failed to cancel donation after provider failure",
				zap.Uint("donation_id", donation.ID),
				zap.Error(cancelErr),
			)
		}
		return utils.TgReplyWithErrorByContext(b, c, "Ошибка при создании платежа. Попробуйте позже.", err)
	}

	if err := database.DonationAttachPayment(donation.ID, payment.ID); err != nil {
		// The charge exists; keep its id in the log for reconciliation.
		state.State.Logger.Error("failed to attach payment id to donation",
			zap.Uint("donation_id", donation.ID),
			zap.String("payment_id", payment.ID),
			zap.Error(err),
		)
	}

	_, err = utils.TgReplyTextByContext(b, c,
		fmt.Sprintf("Ссылка для оплаты %d₽:", amount), payKeyboard(payment.ConfirmationURL))
	if err != nil {
		return err
	}

	return utils.TgSendTextById(b, c.EffectiveChat.Id, thankYouText(event.Title, amount))
}

func thankYouText(eventTitle string, amount int64) string {
	return fmt.Sprintf("✨<b>Благодарим за поддержку %s!</b>\n\n"+
		"Твой донат %d₽ — это:\n"+
		"• ☕ 10 чашек кофе для спикеров\n"+
		"• 📚 Новые материалы для участников\n"+
		"• 💻 Лучшее оборудование для трансляций\n\n"+
		"<i>Спасибо за вклад в развитие комьюнити!</i>",
		html.EscapeString(eventTitle), amount)
}

// Networking.

func NetworkCommandHandler(b *gotgbot.Bot, c *ext.Context) error {
	user := c.EffectiveUser

	event, err := database.EventGetActive()
	if err != nil {
		if errors.Is(err, database.ErrNoActiveEvent) {
			_, replyErr := utils.TgReplyTextByContext(b, c, "Сейчас нет активных мероприятий", nil)
			return replyErr
		}
		return utils.TgReplyWithErrorByContext(b, c, "Не удалось проверить мероприятие", err)
	}

	if _, err := database.ParticipantGetOrCreate(user.Id, user.Username, user.FirstName); err != nil {
		return utils.TgReplyWithErrorByContext(b, c, "Не удалось зарегистрировать участника", err)
	}

	others, err := database.EventParticipants(event.ID, user.Id)
	if err != nil {
		return utils.TgReplyWithErrorByContext(b, c, "Не удалось получить список участников", err)
	}
	if len(others) == 0 {
		_, replyErr := utils.TgReplyTextByContext(b, c, "Пока некого показать: участники ещё не зарегистрировались.", nil)
		return replyErr
	}

	_, err = utils.TgReplyTextByContext(b, c, "С кем хотите познакомиться?", participantsKeyboard(others))
	return err
}

func ConnectCallbackHandler(b *gotgbot.Bot, c *ext.Context) error {
	utils.TgAnswerCallback(b, c.CallbackQuery)
	user := c.EffectiveUser

	targetID, err := strconv.ParseUint(strings.TrimPrefix(c.CallbackQuery.Data, "connect_"), 10, 64)
	if err != nil {
		return utils.TgEditTextByContext(b, c, "Участник не найден.", nil)
	}

	target, err := database.ParticipantGetByID(uint(targetID))
	if err != nil {
		return utils.TgEditTextByContext(b, c, "Участник не найден.", nil)
	}

	requester, err := database.ParticipantGetOrCreate(user.Id, user.Username, user.FirstName)
	if err != nil {
		return utils.TgReplyWithErrorByContext(b, c, "Не удалось зарегистрировать участника", err)
	}

	request, created, err := database.ConnectionRequestAdd(requester.ID, target.ID)
	if err != nil {
		return utils.TgReplyWithErrorByContext(b, c, "Не удалось отправить запрос", err)
	}
	if !created {
		return utils.TgEditTextByContext(b, c,
			fmt.Sprintf("Запрос для %s уже отправлен.", target.Name), nil)
	}

	notifyErr := utils.TgSendMessageById(b, target.TelegramID,
		fmt.Sprintf("🤝 %s хочет с вами познакомиться!", html.EscapeString(requester.Name)),
		acceptKeyboard(request.ID))
	if notifyErr != nil {
		state.State.Logger.Warn("failed to notify connection target",
			zap.Uint("request_id", request.ID),
			zap.Error(notifyErr),
		)
	}

	return utils.TgEditTextByContext(b, c,
		fmt.Sprintf("Запрос отправлен %s!", target.Name), nil)
}

func AcceptCallbackHandler(b *gotgbot.Bot, c *ext.Context) error {
	utils.TgAnswerCallback(b, c.CallbackQuery)

	requestID, err := strconv.ParseUint(strings.TrimPrefix(c.CallbackQuery.Data, "accept_"), 10, 64)
	if err != nil {
		return utils.TgEditTextByContext(b, c, "Запрос не найден.", nil)
	}

	request, err := database.ConnectionRequestAccept(uint(requestID))
	if err != nil {
		return utils.TgReplyWithErrorByContext(b, c, "Не удалось принять запрос", err)
	}

	contact := request.TargetParticipant.Name
	if request.TargetParticipant.TelegramUsername != "" {
		contact += " (@" + request.TargetParticipant.TelegramUsername + ")"
	}
	notifyErr := utils.TgSendTextById(b, request.Participant.TelegramID,
		fmt.Sprintf("🤝 %s принимает ваш запрос на знакомство!", html.EscapeString(contact)))
	if notifyErr != nil {
		state.State.Logger.Warn("failed to notify connection requester",
			zap.Uint("request_id", request.ID),
			zap.Error(notifyErr),
		)
	}

	return utils.TgEditTextByContext(b, c, "Запрос принят!", nil)
}

// Cancel and free-text input.

func CancelCommandHandler(b *gotgbot.Bot, c *ext.Context) error {
	user := c.EffectiveUser
	session := conversations.Get(user.Id)
	conversations.Clear(user.Id)

	text := "Действие отменено."
	if session != nil {
		switch session.Command {
		case "donate":
			text = "Донат отменён."
		case "ask":
			text = "Вопрос отменён."
		case "answer":
			text = "Ответ отменён."
		}
	}

	_, err := utils.TgReplyTextByContext(b, c, text, nil)
	return err
}

func FindSpeakerCommandHandler(b *gotgbot.Bot, c *ext.Context) error {
	staff, err := database.StaffIDs()
	if err != nil {
		return utils.TgReplyWithErrorByContext(b, c, "Не удалось проверить права", err)
	}
	if !staff[c.EffectiveUser.Id] {
		_, replyErr := utils.TgReplyTextByContext(b, c, "Команда доступна только организаторам.", nil)
		return replyErr
	}

	args := c.Args()
	query := strings.TrimSpace(strings.Join(args[1:], " "))
	if query == "" {
		_, replyErr := utils.TgReplyTextByContext(b, c, "Использование: /findspeaker имя или username", nil)
		return replyErr
	}

	speakers, err := utils.SpeakerFuzzyFind(query)
	if err != nil {
		return utils.TgReplyWithErrorByContext(b, c, "Не удалось выполнить поиск", err)
	}
	if len(speakers) == 0 {
		_, replyErr := utils.TgReplyTextByContext(b, c, "Никого не нашлось.", nil)
		return replyErr
	}

	lines := make([]string, 0, len(speakers))
	for _, speaker := range speakers {
		line := speaker.Name
		if speaker.TelegramUsername.Valid && speaker.TelegramUsername.String != "" {
			line += " (@" + speaker.TelegramUsername.String + ")"
		}
		lines = append(lines, line)
	}
	_, err = utils.TgReplyTextByContext(b, c, strings.Join(lines, "\n"), nil)
	return err
}

func ConversationMessageHandler(b *gotgbot.Bot, c *ext.Context) error {
	var (
		cfg  = state.State.Config
		user = c.EffectiveUser
		text = c.EffectiveMessage.Text
	)

	session := conversations.Get(user.Id)
	if session == nil {
		// Explicit response instead of silently dropping stray input.
		_, err := utils.TgReplyTextByContext(b, c, "Не понимаю. Список команд: /help", nil)
		return err
	}

	switch session.Step {
	case StepAwaitingQuestion:
		session.Data["question"] = text
		session.Step = StepConfirmingQuestion
		_, err := utils.TgReplyTextByContext(b, c,
			fmt.Sprintf("Ваш вопрос для @%s:\n\n<i>%s</i>\n\nОтправить?",
				session.Data["speaker"], html.EscapeString(text)),
			confirmQuestionKeyboard())
		return err

	case StepAwaitingCustomAmount:
		amount, err := parseDonationAmount(text, cfg.Donations.MinCustom, cfg.Donations.MaxCustom)
		switch {
		case errors.Is(err, errAmountNotANumber):
			_, replyErr := utils.TgReplyTextByContext(b, c, "Пожалуйста, введите число (например: 250):", nil)
			return replyErr
		case errors.Is(err, errAmountOutOfRange):
			_, replyErr := utils.TgReplyTextByContext(b, c,
				fmt.Sprintf("Сумма должна быть от %d до %d ₽. Пожалуйста, введите корректную сумму:",
					cfg.Donations.MinCustom, cfg.Donations.MaxCustom), nil)
			return replyErr
		}
		return createDonationPayment(b, c, amount)

	case StepAwaitingAnswer:
		return relaySpeakerAnswer(b, c, session, text)

	default:
		conversations.Clear(user.Id)
		_, err := utils.TgReplyTextByContext(b, c, "Что-то пошло не так. Начните заново: /help", nil)
		return err
	}
}

func relaySpeakerAnswer(b *gotgbot.Bot, c *ext.Context, session *BotConversationState, answerText string) error {
	user := c.EffectiveUser

	questionID, err := strconv.ParseUint(session.Data["question_id"], 10, 64)
	if err != nil {
		conversations.Clear(user.Id)
		_, replyErr := utils.TgReplyTextByContext(b, c, "Вопрос не найден.", nil)
		return replyErr
	}

	question, err := database.QuestionGet(uint(questionID))
	if err != nil {
		conversations.Clear(user.Id)
		if errors.Is(err, database.ErrQuestionNotFound) {
			_, replyErr := utils.TgReplyTextByContext(b, c, "Вопрос не найден.", nil)
			return replyErr
		}
		return utils.TgReplyWithErrorByContext(b, c, "Не удалось получить вопрос", err)
	}

	conversations.Clear(user.Id)

	err = utils.TgSendTextById(b, question.Participant.TelegramID,
		fmt.Sprintf("💬 Ответ спикера %s на ваш вопрос:\n\n<i>%s</i>\n\n%s",
			html.EscapeString(question.Speaker.Name),
			html.EscapeString(question.Text),
			html.EscapeString(answerText)))
	if err != nil {
		return utils.TgReplyWithErrorByContext(b, c, "Не удалось доставить ответ участнику", err)
	}

	if err := database.QuestionMarkAnswered(question.ID); err != nil {
		return utils.TgReplyWithErrorByContext(b, c, "Не удалось отметить вопрос отвеченным", err)
	}

	_, err = utils.TgReplyTextByContext(b, c, "Ответ отправлен!", nil)
	return err
}
