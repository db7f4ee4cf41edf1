package telegram

import (
	"fmt"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/SummitSummer/Botishe/internal/logger"
	"github.com/SummitSummer/Botishe/internal/service"
)

const (
	imageMain = "attached_assets/main.jpg"
	imageHelp = "attached_assets/help.jpg"
	imageFAQ  = "attached_assets/faq.jpg"
)

const (
	textMainMenu = `❇️*Добро пожаловать в Blesk !*❇️

*❗️ВАЖНО❗️*
Перед покупкой вы должны быть уверены, что аккаунт в ближайший год не состоял в семейном плане!
Если вы не уверены, обращайтесь в саппорт!`

	textBuyInfo = `📋 *Описание процесса покупки:*

После оплаты вам нужно будет ввести логин и пароль от вашего аккаунта Spotify, чтобы мы могли подключить вас к подписке.

⏱ Подписка длится *1 месяц*

⚠️ Главное, чтобы вы раньше не состояли в семейном плане подписки!`

	textSupport = `💬 *Саппорт*

По всем вопросам и проблемам с подпиской обращайтесь:
@chanceofrain`

	textFAQ = `❓ *FAQ - Часто задаваемые вопросы*

*Вопрос:* Куда обращаться если что то случилось с подпиской?
*Ответ:* Если вдруг не по вашей вине, произошел казус, мы со своей стороны все восстановим и дополнительно продлим еще на 1 месяц вашу подписку. Обращайтесь в саппорт

*Вопрос:* Что делать если подписку хочу, но за последний год уже находился в семейном плане?
*Ответ:* Это не такая большая проблема, после оплаты обязательно обратитесь в саппорт и уведомите, что уже состояли ранее в семейном плане.

*Вопрос:* Что по времени?
*Ответ:* Не больше получаса, обычно 5-10 минут`

	textPaymentPending = "⏳ Создаю ссылку на оплату..."
	textPaymentLink    = "✅ Ссылка на оплату готова!\n\nНажмите кнопку ниже для перехода к оплате."
	textPaymentError   = "❌ Произошла ошибка при создании платежа. Попробуйте позже или обратитесь в саппорт."
	textPaymentFailed  = "❌ Оплата не прошла. Попробуйте ещё раз или обратитесь в саппорт."
	textAskLogin       = "✅ *Оплата прошла успешно!*\n\n📝 Теперь введите ваш логин от аккаунта Spotify:"
	textAskPassword    = "🔐 Теперь введите пароль от вашего аккаунта Spotify:"
	textCredentialsOK  = "✅ Спасибо! Ваши данные получены.\n\n⏳ Ожидайте подключения подписки. Обычно это занимает 5-10 минут, но не более получаса."
	textReady          = "✅ *Ваша подписка готова!*\n\nПодписка успешно активирована. Приятного использования Spotify! 🎵"
	textNoPermission   = "❌ У вас нет прав для этого действия"
)

// presenter renders the core's outbound intents into Telegram messages. All
// delivery failures are logged and swallowed; the core never sees them.
type presenter struct {
	api     sender
	adminID int64
	price   int64
}

// sender is the slice of the bot API the presenter needs; *tgbotapi.BotAPI
// satisfies it.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

func NewPresenter(api sender, adminID, price int64) service.Presenter {
	return &presenter{api: api, adminID: adminID, price: price}
}

func (p *presenter) ShowMainMenu(chatID int64) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("💳 Купить подписку (%d рублей)", p.price), "buy"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💬 Саппорт", "support"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❓ FAQ", "faq"),
		),
	)
	p.sendWithPhoto(chatID, imageMain, textMainMenu, &keyboard)
}

func (p *presenter) ShowBuyInfo(chatID int64) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("💳 Оплатить %d рублей", p.price), "pay"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Назад в меню", "menu"),
		),
	)
	p.sendMarkdown(chatID, textBuyInfo, &keyboard)
}

func (p *presenter) ShowSupport(chatID int64) {
	keyboard := backToMenuKeyboard()
	p.sendWithPhoto(chatID, imageHelp, textSupport, &keyboard)
}

func (p *presenter) ShowFAQ(chatID int64) {
	keyboard := backToMenuKeyboard()
	p.sendWithPhoto(chatID, imageFAQ, textFAQ, &keyboard)
}

func (p *presenter) ShowPaymentPending(chatID int64) {
	p.sendPlain(chatID, textPaymentPending)
}

func (p *presenter) ShowPaymentLink(chatID int64, url string) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("💳 Перейти к оплате", url),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Назад в меню", "menu"),
		),
	)
	msg := tgbotapi.NewMessage(chatID, textPaymentLink)
	msg.ReplyMarkup = keyboard
	p.send(msg)
}

func (p *presenter) ReportPaymentError(chatID int64) {
	p.sendPlain(chatID, textPaymentError)
}

func (p *presenter) ReportPaymentFailed(chatID int64) {
	p.sendPlain(chatID, textPaymentFailed)
}

func (p *presenter) AskLogin(chatID int64) {
	p.sendMarkdown(chatID, textAskLogin, nil)
}

func (p *presenter) AskPassword(chatID int64) {
	p.sendPlain(chatID, textAskPassword)
}

func (p *presenter) ConfirmCredentials(chatID int64) {
	p.sendPlain(chatID, textCredentialsOK)
}

func (p *presenter) NotifySubscriptionReady(chatID int64) {
	p.sendMarkdown(chatID, textReady, nil)
}

func (p *presenter) PermissionDenied(chatID int64) {
	p.sendPlain(chatID, textNoPermission)
}

func (p *presenter) NotifyAdminCredentials(cred service.AdminCredentials) {
	text := fmt.Sprintf(`🆕 *Новая оплата!*

👤 *Контакт клиента:* %s
🆔 *User ID:* %d

📧 *Логин Spotify:* `+"`%s`"+`
🔐 *Пароль Spotify:* `+"`%s`", cred.Contact, cred.ChatID, cred.Login, cred.Password)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Готово", fmt.Sprintf("complete_%d", cred.ChatID)),
		),
	)
	p.sendMarkdown(p.adminID, text, &keyboard)
}

func (p *presenter) ConfirmCompletion(adminChatID, buyerChatID int64) {
	p.sendPlain(adminChatID, fmt.Sprintf("✅ Уведомление отправлено пользователю %d", buyerChatID))
}

func (p *presenter) AlertAdmin(text string) {
	p.sendPlain(p.adminID, text)
}

// sendWithPhoto attaches the image when it exists on disk and falls back to
// a plain markdown message when it is missing or the upload fails.
func (p *presenter) sendWithPhoto(chatID int64, imagePath, caption string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	if _, err := os.Stat(imagePath); err == nil {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(imagePath))
		photo.Caption = caption
		photo.ParseMode = tgbotapi.ModeMarkdown
		if keyboard != nil {
			photo.ReplyMarkup = keyboard
		}
		if _, err := p.api.Send(photo); err == nil {
			return
		}
		logger.Logger.Warn().Str("image", imagePath).Msg("photo send failed, falling back to text")
	}
	p.sendMarkdown(chatID, caption, keyboard)
}

func (p *presenter) sendMarkdown(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	p.send(msg)
}

func (p *presenter) sendPlain(chatID int64, text string) {
	p.send(tgbotapi.NewMessage(chatID, text))
}

func (p *presenter) send(c tgbotapi.Chattable) {
	if _, err := p.api.Send(c); err != nil {
		logger.Logger.Error().Err(err).Msg("telegram send failed")
	}
}

func backToMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Назад в меню", "menu"),
		),
	)
}
