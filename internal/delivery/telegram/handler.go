package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/telegram-stock-bot/internal/domain/entity"
	"github.com/yourusername/telegram-stock-bot/internal/usecase"
)

type uploadStage int

const (
	stageNeedMode uploadStage = iota
	stageCollecting
	stageAskContinue
)

// uploadSession накопление списка позиций из нескольких сообщений
type uploadSession struct {
	Stage uploadStage
	Mode  string // "replace" или "add"
	Parts []string
}

// BotHandler Telegram-обработчик: команды, меню и топики группы
type BotHandler struct {
	bot *tgbotapi.BotAPI

	adminID          int64
	mainGroupID      int64
	threadSales      int
	threadAssortment int
	threadArrival    int
	threadPreorder   int

	inventoryUC usecase.InventoryUseCase
	salesUC     usecase.SalesUseCase
	parser      repositoryListingParser

	uploadMu       sync.RWMutex
	uploadSessions map[int64]*uploadSession

	confirmMu      sync.RWMutex
	pendingUploads map[int64]entity.Catalog
}

// repositoryListingParser локальный алиас, чтобы не тянуть весь пакет repository в сигнатуры
type repositoryListingParser interface {
	ParseLines(ctx context.Context, data []byte, filename string) ([]string, error)
}

// Options параметры обработчика
type Options struct {
	AdminID          int64
	MainGroupID      int64
	ThreadSales      int
	ThreadAssortment int
	ThreadArrival    int
	ThreadPreorder   int
}

// NewBotHandler новый bot handler
func NewBotHandler(
	token string,
	opts Options,
	inventoryUC usecase.InventoryUseCase,
	salesUC usecase.SalesUseCase,
	parser repositoryListingParser,
) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать бота: %w", err)
	}

	return &BotHandler{
		bot:              bot,
		adminID:          opts.AdminID,
		mainGroupID:      opts.MainGroupID,
		threadSales:      opts.ThreadSales,
		threadAssortment: opts.ThreadAssortment,
		threadArrival:    opts.ThreadArrival,
		threadPreorder:   opts.ThreadPreorder,
		inventoryUC:      inventoryUC,
		salesUC:          salesUC,
		parser:           parser,
		uploadSessions:   make(map[int64]*uploadSession),
		pendingUploads:   make(map[int64]entity.Catalog),
	}, nil
}

// Start запуск long polling. Сообщения обрабатываются последовательно:
// каталог живёт в одном файле, и дисциплина "один писатель" держится
// именно на этом цикле.
func (h *BotHandler) Start(ctx context.Context) error {
	log.Printf("Бот @%s запущен", h.bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			log.Println("Останавливаем бота...")
			h.bot.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.CallbackQuery != nil {
				h.handleCallback(ctx, update.CallbackQuery)
				continue
			}
			if update.Message == nil {
				continue
			}
			h.handleMessage(ctx, update.Message)
		}
	}
}

// topicID ID топика сообщения. Библиотека не знает про message_thread_id,
// но в топиках (кроме General) Telegram подставляет reply_to_message на
// сервисное сообщение создания топика, чей message_id равен ID топика.
func topicID(message *tgbotapi.Message) int {
	if message.ReplyToMessage != nil {
		return message.ReplyToMessage.MessageID
	}
	return 0
}

// handleMessage маршрутизация входящего сообщения
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.Chat != nil && message.Chat.ID == h.mainGroupID {
		h.handleGroupMessage(ctx, message)
		return
	}

	if message.IsCommand() {
		h.handleCommand(ctx, message)
		return
	}

	if message.Document != nil {
		h.handleDocumentMessage(ctx, message)
		return
	}

	if message.Text != "" {
		h.handleUploadPart(ctx, message)
	}
}

// handleGroupMessage сообщения в рабочей группе по топикам.
// Сообщения из General (topicID == 0) не обслуживаются: иначе при
// незаданном необязательном топике под его обработчик попадала бы
// вся общая переписка группы.
func (h *BotHandler) handleGroupMessage(ctx context.Context, message *tgbotapi.Message) {
	topic := topicID(message)
	if topic == 0 {
		return
	}
	switch {
	case topic == h.threadAssortment:
		h.handleAssortmentTopic(ctx, message)
	case topic == h.threadArrival:
		h.handleArrivalTopic(ctx, message)
	case h.threadPreorder != 0 && topic == h.threadPreorder:
		h.handlePreorderTopic(ctx, message)
	case topic == h.threadSales:
		h.handleSalesTopic(ctx, message)
	}
}

// handleCommand команды в личных сообщениях
func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		msg := tgbotapi.NewMessage(message.Chat.ID, "👋 Добро пожаловать! Используйте кнопки ниже для управления.")
		msg.ReplyMarkup = mainMenuKeyboard()
		h.send(msg)
	case "help":
		h.sendMessage(message.Chat.ID, helpMessage)
	case "inventory":
		h.sendInventory(ctx, message.Chat.ID)
	case "upload":
		h.startUploadSelection(message.Chat.ID)
	case "done":
		h.finishUpload(ctx, message.From.ID, message.Chat.ID)
	case "cancel":
		h.cancelUpload(message.From.ID, message.Chat.ID)
	case "undo":
		h.handleUndoCommand(ctx, message)
	case "stats":
		h.sendStats(ctx, message.Chat.ID)
	case "finances":
		h.sendFinances(ctx, message.Chat.ID)
	case "pay":
		h.handlePayCommand(ctx, message)
	default:
		h.sendMessage(message.Chat.ID, "Неизвестная команда. /help для справки.")
	}
}

const helpMessage = `👋 Бот для учёта продаж.
Команды (можно также использовать кнопки меню):
/inventory – показать текущий ассортимент
/upload – загрузить ассортимент (замена или добавление)
/undo – откатить последнюю продажу или бронь
/stats – статистика за день
/finances – финансы за день
/pay <terminal|cash|qr> <сумма> – записать оплату
/cancel – отменить текущее действие

В топике «Продажи» бот снимает позиции по серийным номерам,
в топике «Прибытие» добавляет новые, в топике «Ассортимент»
заменяет весь список после подтверждения.`

// mainMenuKeyboard главное меню
func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📦 Показать ассортимент", "menu:inventory"),
			tgbotapi.NewInlineKeyboardButtonData("📤 Загрузить ассортимент", "menu:upload"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Статистика", "menu:stats"),
			tgbotapi.NewInlineKeyboardButtonData("💰 Финансы", "menu:finances"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📤 Выгрузить в топик", "menu:export"),
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ Помощь", "menu:help"),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Очистить", "menu:clear"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", "menu:cancel"),
		),
	)
}

// -------------------------------------------------------------------
// Топик «Ассортимент»: полная замена с подтверждением
// -------------------------------------------------------------------

func (h *BotHandler) handleAssortmentTopic(ctx context.Context, message *tgbotapi.Message) {
	text, err := h.messageText(ctx, message)
	if err != nil {
		h.reply(message, fmt.Sprintf("⚠️ %v", err))
		return
	}
	if text == "" {
		return
	}

	catalog, err := h.inventoryUC.PreviewUpload(ctx, text)
	if err != nil {
		h.reply(message, fmt.Sprintf("❌ %v", err))
		return
	}

	h.confirmMu.Lock()
	h.pendingUploads[message.From.ID] = catalog
	h.confirmMu.Unlock()

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Подтвердить", "assort_confirm:yes"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", "assort_confirm:no"),
		),
	)
	msg := tgbotapi.NewMessage(message.Chat.ID,
		fmt.Sprintf("📦 Найдено категорий: %d, всего позиций: %d\nПодтвердите загрузку (это заменит весь текущий ассортимент).",
			len(catalog), catalog.TotalItems()))
	msg.ReplyToMessageID = message.MessageID
	msg.ReplyMarkup = keyboard
	h.send(msg)
}

// -------------------------------------------------------------------
// Топик «Прибытие»: добавление с дедупликацией
// -------------------------------------------------------------------

func (h *BotHandler) handleArrivalTopic(ctx context.Context, message *tgbotapi.Message) {
	text, err := h.messageText(ctx, message)
	if err != nil {
		h.reply(message, fmt.Sprintf("⚠️ %v", err))
		return
	}
	if text == "" {
		return
	}

	report, err := h.inventoryUC.AddArrival(ctx, strings.Split(text, "\n"), message.From.ID)
	if err != nil {
		h.reply(message, fmt.Sprintf("❌ %v", err))
		return
	}

	var sb strings.Builder
	if len(report.Added) > 0 {
		fmt.Fprintf(&sb, "=== ДОБАВЛЕННЫЕ (%d) ===\n", len(report.Added))
		sb.WriteString(strings.Join(report.Added, "\n"))
		sb.WriteString("\n\n")
	}
	if len(report.Skipped) > 0 {
		fmt.Fprintf(&sb, "=== ПРОПУЩЕННЫЕ (%d) ===\n", len(report.Skipped))
		sb.WriteString(strings.Join(report.Skipped, "\n"))
	}

	filename := fmt.Sprintf("прибытие_%s.txt", time.Now().Format("02.01.2006"))
	doc := tgbotapi.NewDocument(message.Chat.ID, tgbotapi.FileBytes{Name: filename, Bytes: []byte(sb.String())})
	doc.Caption = fmt.Sprintf("Обработано позиций: %d\n✅ Добавлено: %d | ⏭ Пропущено: %d",
		report.Total(), len(report.Added), len(report.Skipped))
	doc.ReplyToMessageID = message.MessageID
	h.send(doc)
}

// -------------------------------------------------------------------
// Топик «Предзаказ»: брони и предзаказы
// -------------------------------------------------------------------

func (h *BotHandler) handlePreorderTopic(ctx context.Context, message *tgbotapi.Message) {
	if message.Text == "" {
		return
	}
	lines := strings.Split(strings.TrimSpace(message.Text), "\n")
	if len(lines) == 0 {
		return
	}

	if !isBookingTrigger(lines[0]) {
		if err := h.salesUC.RecordPreorder(ctx); err != nil {
			log.Printf("Ошибка счётчика предзаказов: %v", err)
		}
		h.reply(message, "👌")
		return
	}

	if len(lines) < 2 {
		h.reply(message, "❌ Не найдено описание товара для брони.")
		return
	}
	newItem, err := h.inventoryUC.AddBooking(ctx, lines[1:], message.From.ID)
	if err != nil {
		h.reply(message, fmt.Sprintf("❌ %v", err))
		return
	}
	h.reply(message, fmt.Sprintf("👍 Добавлена бронь:\n%s", newItem))
}

// isBookingTrigger первая строка вида "бронь", "Бронь:", "бронь :"
func isBookingTrigger(line string) bool {
	first := strings.ToLower(strings.TrimSpace(line))
	first = strings.TrimSpace(strings.TrimSuffix(first, ":"))
	return first == "бронь"
}

// -------------------------------------------------------------------
// Топик «Продажи»: снятие позиций по серийникам
// -------------------------------------------------------------------

func (h *BotHandler) handleSalesTopic(ctx context.Context, message *tgbotapi.Message) {
	if message.Text == "" {
		return
	}
	result, err := h.salesUC.Sell(ctx, message.Text, message.From.ID)
	if err != nil {
		log.Printf("Ошибка продажи: %v", err)
		h.reply(message, "❌ Не удалось обработать продажу.")
		return
	}
	if len(result.Removed) > 0 {
		h.reply(message, "🔥")
	}
	if len(result.NotFound) > 0 {
		h.reply(message, "❌ Серийные номера не найдены в ассортименте:\n"+strings.Join(result.NotFound, "\n"))
	}
}

// -------------------------------------------------------------------
// Загрузка ассортимента из личных сообщений
// -------------------------------------------------------------------

func (h *BotHandler) startUploadSelection(chatID int64) {
	h.uploadMu.Lock()
	h.uploadSessions[chatID] = &uploadSession{Stage: stageNeedMode}
	h.uploadMu.Unlock()

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Заменить весь ассортимент", "upload_mode:replace"),
			tgbotapi.NewInlineKeyboardButtonData("➕ Добавить к существующему", "upload_mode:add"),
		),
	)
	msg := tgbotapi.NewMessage(chatID, "Выберите режим загрузки:")
	msg.ReplyMarkup = keyboard
	h.send(msg)
}

func (h *BotHandler) session(userID int64) *uploadSession {
	h.uploadMu.RLock()
	defer h.uploadMu.RUnlock()
	return h.uploadSessions[userID]
}

// handleUploadPart текстовая часть списка в активной сессии загрузки
func (h *BotHandler) handleUploadPart(ctx context.Context, message *tgbotapi.Message) {
	s := h.session(message.From.ID)
	if s == nil || s.Stage != stageCollecting {
		return
	}
	s.Parts = append(s.Parts, strings.TrimSpace(message.Text))
	h.reply(message, fmt.Sprintf("✅ Часть %d принята. Отправьте следующую или нажмите «✅ Готово» / команду /done.", len(s.Parts)))
}

// finishUpload обработка накопленных частей
func (h *BotHandler) finishUpload(ctx context.Context, userID, chatID int64) {
	s := h.session(userID)
	if s == nil || s.Stage != stageCollecting {
		h.sendMessage(chatID, "❌ Сейчас нет накопленных данных для завершения.")
		return
	}
	if len(s.Parts) == 0 {
		h.sendMessage(chatID, "❌ Нет ни одной части для обработки. Отправьте текст или используйте /cancel.")
		return
	}
	h.processFullText(ctx, userID, chatID, strings.Join(s.Parts, "\n"), s.Mode)
}

func (h *BotHandler) cancelUpload(userID, chatID int64) {
	h.uploadMu.Lock()
	delete(h.uploadSessions, userID)
	h.uploadMu.Unlock()

	msg := tgbotapi.NewMessage(chatID, "✅ Действие отменено.")
	msg.ReplyMarkup = mainMenuKeyboard()
	h.send(msg)
}

// handleDocumentMessage файл со списком в активной сессии загрузки
func (h *BotHandler) handleDocumentMessage(ctx context.Context, message *tgbotapi.Message) {
	s := h.session(message.From.ID)
	if s == nil || s.Stage != stageCollecting {
		return
	}

	lines, err := h.documentLines(ctx, message)
	if err != nil {
		h.reply(message, fmt.Sprintf("⚠️ %v", err))
		return
	}
	h.processFullText(ctx, message.From.ID, message.Chat.ID, strings.Join(lines, "\n"), s.Mode)
}

// processFullText замена или добавление по накопленному тексту
func (h *BotHandler) processFullText(ctx context.Context, userID, chatID int64, text, mode string) {
	if mode == "replace" {
		catalog, err := h.inventoryUC.PreviewUpload(ctx, text)
		if err != nil {
			h.sendMessage(chatID, fmt.Sprintf("❌ %v. Загрузка отменена.", err))
			h.clearSession(userID)
			return
		}
		if err := h.inventoryUC.ReplaceCatalog(ctx, catalog, userID); err != nil {
			h.sendMessage(chatID, fmt.Sprintf("❌ Не удалось сохранить ассортимент: %v", err))
			return
		}
		h.clearSession(userID)
		h.sendMessage(chatID, fmt.Sprintf("✅ Ассортимент полностью заменён. Категорий: %d, позиций: %d",
			len(catalog), catalog.TotalItems()))
		msg := tgbotapi.NewMessage(chatID, "Главное меню:")
		msg.ReplyMarkup = mainMenuKeyboard()
		h.send(msg)
		return
	}

	report, err := h.inventoryUC.AddArrival(ctx, strings.Split(text, "\n"), userID)
	if err != nil {
		h.sendMessage(chatID, fmt.Sprintf("❌ %v", err))
		return
	}

	var sb strings.Builder
	if len(report.Added) > 0 {
		fmt.Fprintf(&sb, "=== ДОБАВЛЕННЫЕ (%d) ===\n%s\n\n", len(report.Added), strings.Join(report.Added, "\n"))
	}
	if len(report.Skipped) > 0 {
		fmt.Fprintf(&sb, "=== ПРОПУЩЕННЫЕ (%d) ===\n%s", len(report.Skipped), strings.Join(report.Skipped, "\n"))
	}
	caption := fmt.Sprintf("Обработано позиций: %d\n✅ Добавлено новых: %d\n⏭ Пропущено (дубликаты): %d\n\n📄 Подробности в файле result.txt",
		report.Total(), len(report.Added), len(report.Skipped))
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "result.txt", Bytes: []byte(sb.String())})
	doc.Caption = caption
	h.send(doc)

	if s := h.session(userID); s != nil {
		s.Stage = stageAskContinue
		s.Parts = nil
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Добавить ещё", "continue:add_more"),
			tgbotapi.NewInlineKeyboardButtonData("✅ Завершить", "continue:finish"),
		),
	)
	msg := tgbotapi.NewMessage(chatID, "Хотите добавить ещё позиции?")
	msg.ReplyMarkup = keyboard
	h.send(msg)
}

func (h *BotHandler) clearSession(userID int64) {
	h.uploadMu.Lock()
	delete(h.uploadSessions, userID)
	h.uploadMu.Unlock()
}

// -------------------------------------------------------------------
// Команды статистики, финансов и отката
// -------------------------------------------------------------------

func (h *BotHandler) handleUndoCommand(ctx context.Context, message *tgbotapi.Message) {
	description, err := h.salesUC.Undo(ctx, message.From.ID)
	if err != nil {
		h.sendMessage(message.Chat.ID, fmt.Sprintf("❌ %v", err))
		return
	}
	h.sendMessage(message.Chat.ID, fmt.Sprintf("↩️ Откат выполнен: %s", description))
}

func (h *BotHandler) sendStats(ctx context.Context, chatID int64) {
	s, err := h.salesUC.Stats(ctx)
	if err != nil {
		h.sendMessage(chatID, fmt.Sprintf("❌ Не удалось получить статистику: %v", err))
		return
	}
	text := fmt.Sprintf("📊 Статистика за %s:\n• Предзаказов: %d\n• Броней: %d\n• Продаж: %d",
		s.Date, s.Preorders, s.Bookings, s.Sales)
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Сбросить статистику", "reset_stats:confirm"),
		),
	)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	h.send(msg)
}

func (h *BotHandler) statsText(ctx context.Context) string {
	s, err := h.salesUC.Stats(ctx)
	if err != nil {
		return fmt.Sprintf("❌ Не удалось получить статистику: %v", err)
	}
	return fmt.Sprintf("📊 Статистика за %s:\n• Предзаказов: %d\n• Броней: %d\n• Продаж: %d",
		s.Date, s.Preorders, s.Bookings, s.Sales)
}

func (h *BotHandler) sendFinances(ctx context.Context, chatID int64) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Сбросить финансы", "reset_finances:confirm"),
		),
	)
	msg := tgbotapi.NewMessage(chatID, h.financesText(ctx))
	msg.ReplyMarkup = keyboard
	h.send(msg)
}

func (h *BotHandler) financesText(ctx context.Context) string {
	f, err := h.salesUC.Finances(ctx)
	if err != nil {
		return fmt.Sprintf("❌ Не удалось получить финансы: %v", err)
	}
	return fmt.Sprintf("💰 Финансы за %s:\nТерминал: %d руб.\nНаличные: %d руб.\nQR-код: %d руб.\nИТОГО: %d руб.",
		f.Date, f.Terminal, f.Cash, f.QR, f.Total)
}

// handlePayCommand запись оплаты: /pay terminal 12000
func (h *BotHandler) handlePayCommand(ctx context.Context, message *tgbotapi.Message) {
	if message.From.ID != h.adminID {
		h.sendMessage(message.Chat.ID, "❌ Команда доступна только администратору.")
		return
	}
	args := strings.Fields(message.CommandArguments())
	if len(args) != 2 {
		h.sendMessage(message.Chat.ID, "Формат: /pay <terminal|cash|qr> <сумма>")
		return
	}
	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || amount <= 0 {
		h.sendMessage(message.Chat.ID, "❌ Сумма должна быть положительным числом.")
		return
	}
	kind := entity.PaymentKind(strings.ToLower(args[0]))
	if err := h.salesUC.AddPayment(ctx, kind, amount); err != nil {
		h.sendMessage(message.Chat.ID, fmt.Sprintf("❌ %v", err))
		return
	}
	h.sendMessage(message.Chat.ID, fmt.Sprintf("✅ Записано: %s %d руб.\n\n%s", kind, amount, h.financesText(ctx)))
}

// -------------------------------------------------------------------
// Callback-кнопки
// -------------------------------------------------------------------

func (h *BotHandler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		log.Printf("Не удалось ответить на callback: %v", err)
	}
	if cq.Message == nil {
		return
	}

	parts := strings.SplitN(cq.Data, ":", 2)
	if len(parts) != 2 {
		return
	}
	group, action := parts[0], parts[1]
	userID := cq.From.ID
	chatID := cq.Message.Chat.ID

	switch group {
	case "menu":
		h.handleMenuCallback(ctx, cq, action)
	case "upload_mode":
		h.handleUploadModeCallback(cq, action)
	case "done":
		h.finishUpload(ctx, userID, chatID)
	case "continue":
		h.handleContinueCallback(cq, action)
	case "assort_confirm":
		h.handleAssortConfirmCallback(ctx, cq, action)
	case "confirm_clear":
		h.handleClearConfirmCallback(ctx, cq, action)
	case "reset_stats":
		h.handleResetStatsCallback(ctx, cq, action)
	case "reset_finances":
		h.handleResetFinancesCallback(ctx, cq, action)
	}
}

func (h *BotHandler) handleMenuCallback(ctx context.Context, cq *tgbotapi.CallbackQuery, action string) {
	chatID := cq.Message.Chat.ID
	switch action {
	case "inventory":
		h.sendInventory(ctx, chatID)
	case "upload":
		h.startUploadSelection(chatID)
	case "stats":
		h.sendStats(ctx, chatID)
	case "finances":
		h.sendFinances(ctx, chatID)
	case "export":
		h.exportToAssortmentTopic(ctx, cq.From.ID)
	case "clear":
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Да, очистить", "confirm_clear:yes"),
				tgbotapi.NewInlineKeyboardButtonData("❌ Нет, отмена", "confirm_clear:no"),
			),
		)
		h.editText(cq, "⚠️ Вы уверены, что хотите полностью очистить ассортимент? Это действие необратимо.", &keyboard)
	case "help":
		h.sendMessage(chatID, helpMessage)
	case "cancel":
		h.cancelUpload(cq.From.ID, chatID)
	}
}

func (h *BotHandler) handleUploadModeCallback(cq *tgbotapi.CallbackQuery, mode string) {
	s := h.session(cq.From.ID)
	if s == nil || s.Stage != stageNeedMode {
		return
	}
	s.Mode = mode
	s.Stage = stageCollecting
	s.Parts = nil

	modeLabel := "➕ добавление"
	if mode == "replace" {
		modeLabel = "🔁 замена"
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Готово", "done:finish"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", "menu:cancel"),
		),
	)
	h.editText(cq, fmt.Sprintf(
		"Режим: %s\n\nОтправляйте текстовые сообщения с позициями (каждое попадёт в буфер).\nКогда закончите, нажмите «✅ Готово» или отправьте /done.\nМожно загрузить готовый файл .txt или .xlsx (он обработается сразу).\nДля отмены — /cancel или кнопка ниже.",
		modeLabel), &keyboard)
}

func (h *BotHandler) handleContinueCallback(cq *tgbotapi.CallbackQuery, action string) {
	s := h.session(cq.From.ID)
	if action == "add_more" {
		if s != nil {
			s.Stage = stageCollecting
			s.Parts = nil
		}
		h.editText(cq, "Отправляйте новый список позиций (можно несколько сообщений).\nКогда закончите, нажмите «✅ Готово» или отправьте /done.", nil)
		return
	}
	h.clearSession(cq.From.ID)
	h.editText(cq, "✅ Загрузка завершена. Ассортимент обновлён.", nil)
	msg := tgbotapi.NewMessage(cq.Message.Chat.ID, "Главное меню:")
	msg.ReplyMarkup = mainMenuKeyboard()
	h.send(msg)
}

func (h *BotHandler) handleAssortConfirmCallback(ctx context.Context, cq *tgbotapi.CallbackQuery, action string) {
	h.confirmMu.Lock()
	catalog, ok := h.pendingUploads[cq.From.ID]
	delete(h.pendingUploads, cq.From.ID)
	h.confirmMu.Unlock()

	if action != "yes" {
		h.editText(cq, "❌ Загрузка отменена.", nil)
		return
	}
	if !ok {
		h.editText(cq, "❌ Ошибка: данные не найдены.", nil)
		return
	}
	if err := h.inventoryUC.ReplaceCatalog(ctx, catalog, cq.From.ID); err != nil {
		h.editText(cq, fmt.Sprintf("❌ Не удалось сохранить: %v", err), nil)
		return
	}
	h.editText(cq, "✅ Ассортимент успешно загружен и сохранён.", nil)
}

func (h *BotHandler) handleClearConfirmCallback(ctx context.Context, cq *tgbotapi.CallbackQuery, action string) {
	if action == "yes" {
		if err := h.inventoryUC.Clear(ctx, cq.From.ID); err != nil {
			h.editText(cq, fmt.Sprintf("❌ Не удалось очистить: %v", err), nil)
			return
		}
		h.editText(cq, "✅ Ассортимент полностью очищен.", nil)
	} else {
		h.editText(cq, "❌ Очистка отменена.", nil)
	}
	msg := tgbotapi.NewMessage(cq.Message.Chat.ID, "Главное меню:")
	msg.ReplyMarkup = mainMenuKeyboard()
	h.send(msg)
}

func (h *BotHandler) handleResetStatsCallback(ctx context.Context, cq *tgbotapi.CallbackQuery, action string) {
	switch action {
	case "confirm":
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Да, сбросить", "reset_stats:yes"),
				tgbotapi.NewInlineKeyboardButtonData("❌ Нет", "reset_stats:no"),
			),
		)
		h.editText(cq, "Вы уверены, что хотите обнулить статистику?", &keyboard)
	case "yes":
		if err := h.salesUC.ResetStats(ctx); err != nil {
			h.editText(cq, fmt.Sprintf("❌ %v", err), nil)
			return
		}
		h.editText(cq, h.statsText(ctx), nil)
	default:
		h.editText(cq, h.statsText(ctx), nil)
	}
}

func (h *BotHandler) handleResetFinancesCallback(ctx context.Context, cq *tgbotapi.CallbackQuery, action string) {
	switch action {
	case "confirm":
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Да, сбросить", "reset_finances:yes"),
				tgbotapi.NewInlineKeyboardButtonData("❌ Нет", "reset_finances:no"),
			),
		)
		h.editText(cq, "Вы уверены, что хотите обнулить финансы?", &keyboard)
	case "yes":
		if err := h.salesUC.ResetFinances(ctx); err != nil {
			h.editText(cq, fmt.Sprintf("❌ %v", err), nil)
			return
		}
		h.editText(cq, h.financesText(ctx), nil)
	default:
		h.editText(cq, h.financesText(ctx), nil)
	}
}

// -------------------------------------------------------------------
// Выгрузка ассортимента
// -------------------------------------------------------------------

// sendInventory текущий ассортимент файлом в чат
func (h *BotHandler) sendInventory(ctx context.Context, chatID int64) {
	text, categories, err := h.inventoryUC.ExportText(ctx)
	if err != nil {
		h.sendMessage(chatID, fmt.Sprintf("❌ Не удалось загрузить ассортимент: %v", err))
		return
	}
	if categories == 0 {
		h.sendMessage(chatID, "📭 Ассортимент пуст.")
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "assortiment.txt", Bytes: []byte(text)})
	doc.Caption = fmt.Sprintf("📦 Текущий ассортимент (категорий: %d)", categories)
	h.send(doc)
}

// exportToAssortmentTopic выгрузка ассортимента файлом в топик группы
func (h *BotHandler) exportToAssortmentTopic(ctx context.Context, requesterID int64) {
	text, categories, err := h.inventoryUC.ExportText(ctx)
	if err != nil {
		h.sendMessage(requesterID, fmt.Sprintf("❌ Не удалось загрузить ассортимент: %v", err))
		return
	}
	if categories == 0 {
		h.sendMessage(requesterID, "📭 Ассортимент пуст, нечего выгружать.")
		return
	}
	filename := fmt.Sprintf("assortiment_%s.txt", time.Now().Format("02.01.2006"))
	doc := tgbotapi.NewDocument(h.mainGroupID, tgbotapi.FileBytes{Name: filename, Bytes: []byte(text)})
	doc.Caption = fmt.Sprintf("📦 Текущий ассортимент (категорий: %d)", categories)
	// Ответ на сервисное сообщение топика кладёт документ в нужный топик
	doc.ReplyToMessageID = h.threadAssortment
	h.send(doc)
	h.sendMessage(requesterID, "✅ Ассортимент выгружен в топик «Ассортимент».")
}

// -------------------------------------------------------------------
// Вспомогательные
// -------------------------------------------------------------------

// messageText текст сообщения либо содержимое присланного файла
func (h *BotHandler) messageText(ctx context.Context, message *tgbotapi.Message) (string, error) {
	if message.Text != "" {
		return strings.TrimSpace(message.Text), nil
	}
	if message.Document == nil {
		return "", nil
	}
	lines, err := h.documentLines(ctx, message)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// documentLines строки из присланного файла (.txt или .xlsx)
func (h *BotHandler) documentLines(ctx context.Context, message *tgbotapi.Message) ([]string, error) {
	doc := message.Document
	name := strings.ToLower(doc.FileName)
	if doc.MimeType != "text/plain" && !strings.HasSuffix(name, ".txt") &&
		!strings.HasSuffix(name, ".xlsx") && !strings.HasSuffix(name, ".xlsm") {
		return nil, fmt.Errorf("отправьте текстовый файл .txt или таблицу .xlsx")
	}
	data, err := h.downloadFile(doc.FileID)
	if err != nil {
		return nil, fmt.Errorf("не удалось скачать файл: %w", err)
	}
	return h.parser.ParseLines(ctx, data, doc.FileName)
}

// downloadFile скачивание файла из Telegram
func (h *BotHandler) downloadFile(fileID string) ([]byte, error) {
	file, err := h.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}
	url := file.Link(h.bot.Token)
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram вернул статус %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (h *BotHandler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		log.Printf("Ошибка отправки: %v", err)
	}
}

func (h *BotHandler) sendMessage(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

func (h *BotHandler) reply(to *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(to.Chat.ID, text)
	msg.ReplyToMessageID = to.MessageID
	h.send(msg)
}

func (h *BotHandler) editText(cq *tgbotapi.CallbackQuery, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(cq.Message.Chat.ID, cq.Message.MessageID, text)
	if keyboard != nil {
		edit.ReplyMarkup = keyboard
	}
	if _, err := h.bot.Send(edit); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			return
		}
		log.Printf("Не удалось отредактировать сообщение: %v", err)
	}
}
