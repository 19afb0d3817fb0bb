package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/omarshaarawi/fantraxbot/internal/service"
)

type Handler struct {
	manager *service.Manager
}

func NewHandler(manager *service.Manager) *Handler {
	return &Handler{manager: manager}
}

func (h *Handler) HandleCommand(update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	msg.ParseMode = "Markdown"

	switch command {
	case "start":
		msg.Text = "Welcome to FantraxBot! Use /help to see available commands."
	case "help":
		msg.Text = "Available commands:\n/lineup - Show the last submitted lineup\n/values - Show the roster ranked by gameweek value"
	case "lineup":
		h.handleLineup(&msg)
	case "values":
		h.handleValues(&msg)
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) handleLineup(msg *tgbotapi.MessageConfig) {
	report, err := h.manager.LineupReport()
	if err != nil {
		msg.Text = fmt.Sprintf("Error fetching lineup: %v", err)
	} else {
		msg.Text = report
	}
}

func (h *Handler) handleValues(msg *tgbotapi.MessageConfig) {
	report, err := h.manager.ValueReport()
	if err != nil {
		msg.Text = fmt.Sprintf("Error fetching player values: %v", err)
	} else {
		msg.Text = report
	}
}
