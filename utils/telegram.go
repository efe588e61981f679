package utils

import (
	"meetup-bot/state"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"go.uber.org/zap"
)

func TgReplyTextByContext(b *gotgbot.Bot, c *ext.Context, text string, markup *gotgbot.InlineKeyboardMarkup) (*gotgbot.Message, error) {
	opts := &gotgbot.SendMessageOpts{ParseMode: gotgbot.ParseModeHTML}
	if markup != nil {
		opts.ReplyMarkup = *markup
	}

	if c.EffectiveMessage != nil {
		return c.EffectiveMessage.Reply(b, text, opts)
	}
	return b.SendMessage(c.EffectiveChat.Id, text, opts)
}

// TgReplyWithErrorByContext logs the cause and replies with the given text
// only. Raw collaborator errors never reach the chat.
func TgReplyWithErrorByContext(b *gotgbot.Bot, c *ext.Context, text string, err error) error {
	logger := state.State.Logger
	logger.Error(text,
		zap.Int64("chat_id", c.EffectiveChat.Id),
		zap.Error(err),
	)
	logger.Sync()

	_, replyErr := TgReplyTextByContext(b, c, text, nil)
	return replyErr
}

// TgEditTextByContext rewrites the message a callback button was attached to.
func TgEditTextByContext(b *gotgbot.Bot, c *ext.Context, text string, markup *gotgbot.InlineKeyboardMarkup) error {
	cq := c.CallbackQuery
	if cq == nil || cq.Message == nil {
		_, err := TgReplyTextByContext(b, c, text, markup)
		return err
	}

	opts := &gotgbot.EditMessageTextOpts{
		ChatId:    cq.Message.GetChat().Id,
		MessageId: cq.Message.GetMessageId(),
		ParseMode: gotgbot.ParseModeHTML,
	}
	if markup != nil {
		opts.ReplyMarkup = *markup
	}
	_, _, err := b.EditMessageText(text, opts)
	return err
}

func TgAnswerCallback(b *gotgbot.Bot, cq *gotgbot.CallbackQuery) {
	_, _ = cq.Answer(b, nil)
}

func TgSendTextById(b *gotgbot.Bot, chatID int64, text string) error {
	_, err := b.SendMessage(chatID, text, &gotgbot.SendMessageOpts{ParseMode: gotgbot.ParseModeHTML})
	return err
}

func TgSendMessageById(b *gotgbot.Bot, chatID int64, text string, markup *gotgbot.InlineKeyboardMarkup) error {
	opts := &gotgbot.SendMessageOpts{ParseMode: gotgbot.ParseModeHTML}
	if markup != nil {
		opts.ReplyMarkup = *markup
	}
	_, err := b.SendMessage(chatID, text, opts)
	return err
}

func TgRegisterBotCommands(b *gotgbot.Bot, commands ...gotgbot.BotCommand) error {
	_, err := b.SetMyCommands(commands, &gotgbot.SetMyCommandsOpts{})
	return err
}
