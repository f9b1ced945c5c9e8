package handler

import (
	"fmt"

	tele "gopkg.in/telebot.v3"
)

// SendReminder tells a user how many words are waiting for review
func (h *Handler) SendReminder(userID int64, due int) error {
	text := fmt.Sprintf("⏰ You have %d word(s) due for review today.", due)
	_, err := h.bot.Send(&tele.User{ID: userID}, text, mainMenuMarkup())
	return err
}
