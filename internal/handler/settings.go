package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"farsiflash/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleLevel shows the level picker, or sets the level given as /level N
func (h *Handler) handleLevel(c tele.Context) error {
	userID := c.Sender().ID

	if level, ok := parseLevelArg(c.Args()); ok && c.Callback() == nil {
		return h.setLevel(c, level)
	}

	ctx, cancel := requestContext()
	defer cancel()

	current, err := h.authService.GetLevel(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to get level", zap.Error(err), zap.Int64("user_id", userID))
		return c.Send(msgError)
	}

	text := fmt.Sprintf("🎚 Your level is %d.\n\nChoose a new level (%d-%d) or send /level N:",
		current, domain.MinLevel, domain.MaxLevel)

	if c.Callback() != nil {
		if err := c.Edit(text, levelMarkup(current)); err != nil {
			if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
				return nil
			}
			return c.Send(text, levelMarkup(current))
		}
		return c.Respond()
	}
	return c.Send(text, levelMarkup(current))
}

// handleLevelSelection handles a level_N button
func (h *Handler) handleLevelSelection(c tele.Context, data string) error {
	level, err := strconv.Atoi(strings.TrimPrefix(data, levelPrefix))
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown level"})
	}
	if err := c.Respond(); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}
	return h.setLevel(c, level)
}

func (h *Handler) setLevel(c tele.Context, level int) error {
	userID := c.Sender().ID
	ctx, cancel := requestContext()
	defer cancel()

	err := h.authService.SetLevel(ctx, userID, level)
	if errors.Is(err, domain.ErrInvalidLevel) {
		return c.Send(fmt.Sprintf("Level must be between %d and %d.", domain.MinLevel, domain.MaxLevel))
	}
	if err != nil {
		h.logger.Error("Failed to set level", zap.Error(err), zap.Int64("user_id", userID))
		return c.Send(msgError)
	}

	h.logger.Info("Level changed", zap.Int64("user_id", userID), zap.Int("level", level))
	return c.Send(fmt.Sprintf("✅ Level set to %d.", level), mainMenuMarkup())
}

// handleStats shows the learner's statistics
func (h *Handler) handleStats(c tele.Context) error {
	userID := c.Sender().ID
	ctx, cancel := requestContext()
	defer cancel()

	if c.Callback() != nil {
		if err := c.Respond(); err != nil {
			h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
		}
	}

	stats, err := h.statsService.Summary(ctx, userID)
	if err != nil {
		return c.Send(msgError)
	}
	level, err := h.authService.GetLevel(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to get level", zap.Error(err), zap.Int64("user_id", userID))
		return c.Send(msgError)
	}

	return c.Send(formatStats(stats, level), mainMenuMarkup())
}
