package telegram

import (
	"fmt"

	"meetup-bot/database"

	"github.com/PaulSonOfLars/gotgbot/v2"
)

func mainMenuKeyboard() *gotgbot.InlineKeyboardMarkup {
	return &gotgbot.InlineKeyboardMarkup{
		InlineKeyboard: [][]gotgbot.InlineKeyboardButton{
			{{Text: "📅 Программа на сегодня", CallbackData: "schedule"}},
			{{Text: "❓ Задать вопрос спикеру", CallbackData: "ask_speaker"}},
		},
	}
}

// speakersKeyboard lists the speakers of in-progress talks. Speakers without
// a Telegram username cannot be addressed and are skipped.
func speakersKeyboard(speakers []database.Speaker) *gotgbot.InlineKeyboardMarkup {
	var rows [][]gotgbot.InlineKeyboardButton
	for _, speaker := range speakers {
		if !speaker.TelegramUsername.Valid || speaker.TelegramUsername.String == "" {
			continue
		}
		rows = append(rows, []gotgbot.InlineKeyboardButton{{
			Text:         speaker.Name,
			CallbackData: "ask_" + speaker.TelegramUsername.String,
		}})
	}
	rows = append(rows, []gotgbot.InlineKeyboardButton{{Text: "⬅️ Назад", CallbackData: "back"}})
	return &gotgbot.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func confirmQuestionKeyboard() *gotgbot.InlineKeyboardMarkup {
	return &gotgbot.InlineKeyboardMarkup{
		InlineKeyboard: [][]gotgbot.InlineKeyboardButton{
			{
				{Text: "✅ Отправить", CallbackData: "confirm_question"},
				{Text: "❌ Отменить", CallbackData: "cancel_question"},
			},
		},
	}
}

func donateKeyboard(presetAmounts []int64) *gotgbot.InlineKeyboardMarkup {
	var rows [][]gotgbot.InlineKeyboardButton
	for _, amount := range presetAmounts {
		rows = append(rows, []gotgbot.InlineKeyboardButton{{
			Text:         fmt.Sprintf("%d ₽", amount),
			CallbackData: fmt.Sprintf("donate_%d", amount),
		}})
	}
	rows = append(rows, []gotgbot.InlineKeyboardButton{{Text: "Другая сумма", CallbackData: "donate_custom"}})
	return &gotgbot.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func payKeyboard(confirmationURL string) *gotgbot.InlineKeyboardMarkup {
	return &gotgbot.InlineKeyboardMarkup{
		InlineKeyboard: [][]gotgbot.InlineKeyboardButton{
			{{Text: "💳 Оплатить", Url: confirmationURL}},
		},
	}
}

func answerKeyboard(questionID uint) *gotgbot.InlineKeyboardMarkup {
	return &gotgbot.InlineKeyboardMarkup{
		InlineKeyboard: [][]gotgbot.InlineKeyboardButton{
			{{Text: "✅ Ответить", CallbackData: fmt.Sprintf("answer_%d", questionID)}},
		},
	}
}

func participantsKeyboard(participants []database.Participant) *gotgbot.InlineKeyboardMarkup {
	var rows [][]gotgbot.InlineKeyboardButton
	for _, participant := range participants {
		rows = append(rows, []gotgbot.InlineKeyboardButton{{
			Text:         participant.Name,
			CallbackData: fmt.Sprintf("connect_%d", participant.ID),
		}})
	}
	rows = append(rows, []gotgbot.InlineKeyboardButton{{Text: "⬅️ Назад", CallbackData: "back"}})
	return &gotgbot.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func acceptKeyboard(requestID uint) *gotgbot.InlineKeyboardMarkup {
	return &gotgbot.InlineKeyboardMarkup{
		InlineKeyboard: [][]gotgbot.InlineKeyboardButton{
			{{Text: "🤝 Принять", CallbackData: fmt.Sprintf("accept_%d", requestID)}},
		},
	}
}
