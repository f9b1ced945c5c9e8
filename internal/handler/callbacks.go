package handler

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	// Message was already edited by another callback
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
		)
		c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
	)
	// Always acknowledge callback before sending new message
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// callbackRoute is what a callback asks for
type callbackRoute int

const (
	routeUnknown callbackRoute = iota
	routePractice
	routeStats
	routeLevelMenu
	routeCancel
	routeMainMenu
	routeAssessment
	routeSetLevel
)

// routeCallback maps a button's unique id or cleaned data to a route
func routeCallback(unique, data string) callbackRoute {
	key := unique
	if key == "" {
		key = data
	}

	switch key {
	case "practice":
		return routePractice
	case "stats":
		return routeStats
	case "level":
		return routeLevelMenu
	case "cancel":
		return routeCancel
	case "main_menu":
		return routeMainMenu
	}

	switch {
	case strings.HasPrefix(data, assessPrefix):
		return routeAssessment
	case strings.HasPrefix(data, levelPrefix):
		return routeSetLevel
	}
	return routeUnknown
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	h.logger.Debug("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	switch routeCallback(callback.Unique, data) {
	case routePractice:
		return h.handlePractice(c)
	case routeStats:
		return h.handleStats(c)
	case routeLevelMenu:
		return h.handleLevel(c)
	case routeCancel:
		return h.handleCancel(c)
	case routeMainMenu:
		return h.handleStart(c)
	case routeAssessment:
		return h.handleAssessment(c, data)
	case routeSetLevel:
		return h.handleLevelSelection(c, data)
	}

	// If it's not handled, acknowledge it anyway
	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}
