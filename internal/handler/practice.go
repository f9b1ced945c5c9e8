package handler

import (
	"errors"
	"strings"

	"farsiflash/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	msgNoWords        = "No words available for practice yet. Please check back later."
	msgUseButtons     = "Please rate your answer with one of the buttons above."
	msgStartPractice  = "Send /practice to start a session."
	msgWrongPassword  = "Wrong password."
	msgAccessGranted  = "✅ Access granted!\n\n"
	msgNoActiveAnswer = "This question is no longer active"
)

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	ctx, cancel := requestContext()
	defer cancel()

	// Ensure user exists
	if err := h.authService.EnsureUserExists(ctx, userID); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return nil
	}

	// Check authorization first
	authorized, err := h.authService.IsAuthorized(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(msgError)
	}

	// If not authorized, check password
	if !authorized {
		if !h.authService.CheckPassword(text) {
			return c.Send(msgWrongPassword)
		}
		if err := h.authService.AuthorizeUser(ctx, userID); err != nil {
			h.logger.Error("Failed to authorize user", zap.Error(err))
			return c.Send(msgError)
		}

		h.logger.Info("User authorized", zap.Int64("user_id", userID))
		h.ResetState(userID)
		return c.Send(msgAccessGranted+msgMainMenu, mainMenuMarkup())
	}

	lock := h.lockUser(userID)
	defer lock.Unlock()

	// User is authorized, handle based on state
	state := h.GetState(userID)

	switch state.State {
	case domain.StateWaitingAnswer:
		return h.checkAnswer(c, state, text)
	case domain.StateWaitingAssessment:
		return c.Send(msgUseButtons)
	default:
		return c.Send(msgStartPractice, mainMenuMarkup())
	}
}

// handlePractice starts a new practice session
func (h *Handler) handlePractice(c tele.Context) error {
	userID := c.Sender().ID
	ctx, cancel := requestContext()
	defer cancel()

	lock := h.lockUser(userID)
	defer lock.Unlock()

	if c.Callback() != nil {
		if err := c.Respond(); err != nil {
			h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
		}
	}

	level, err := h.authService.GetLevel(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to get level", zap.Error(err), zap.Int64("user_id", userID))
		return c.Send(msgError)
	}

	items, err := h.sessionService.BuildSession(ctx, userID, h.sessionSize, level)
	if err != nil {
		h.logger.Error("Failed to build session", zap.Error(err), zap.Int64("user_id", userID))
		return c.Send(msgError)
	}

	if len(items) == 0 {
		h.ResetState(userID)
		return c.Send(msgNoWords, mainMenuMarkup())
	}

	h.logger.Info("Session started",
		zap.Int64("user_id", userID),
		zap.Int("level", level),
		zap.Int("items", len(items)),
	)

	state := &domain.StateData{
		State:   domain.StateWaitingAnswer,
		Session: items,
	}
	h.SetState(userID, state)

	return c.Send(formatPrompt(state), cancelMarkup())
}

// checkAnswer evaluates a typed answer and asks for an assessment
func (h *Handler) checkAnswer(c tele.Context, state *domain.StateData, text string) error {
	userID := c.Sender().ID
	ctx, cancel := requestContext()
	defer cancel()

	item := state.CurrentItem()
	if item == nil {
		h.ResetState(userID)
		return c.Send(msgStartPractice, mainMenuMarkup())
	}

	correct, current, err := h.reviewService.CheckAnswer(ctx, item.ID, text)
	if errors.Is(err, domain.ErrItemNotFound) {
		// retired while the session was running
		h.logger.Warn("Skipping removed item", zap.Int64("item_id", item.ID))
		return h.advance(c, state)
	}
	if err != nil {
		h.logger.Error("Failed to check answer", zap.Error(err), zap.Int64("user_id", userID))
		return c.Send(msgError)
	}

	next := *state
	next.State = domain.StateWaitingAssessment
	next.IsCorrect = correct
	if correct {
		next.Correct++
	}
	h.SetState(userID, &next)

	return c.Send(formatVerdict(current, correct), assessmentMarkup())
}

// handleAssessment records the learner's self-assessment and moves on
func (h *Handler) handleAssessment(c tele.Context, data string) error {
	userID := c.Sender().ID
	ctx, cancel := requestContext()
	defer cancel()

	lock := h.lockUser(userID)
	defer lock.Unlock()

	state := h.GetState(userID)
	item := state.CurrentItem()
	if state.State != domain.StateWaitingAssessment || item == nil {
		return c.Respond(&tele.CallbackResponse{Text: msgNoActiveAnswer})
	}

	assessment, err := domain.ParseAssessment(strings.TrimPrefix(data, assessPrefix))
	if err != nil {
		h.logger.Warn("Invalid assessment", zap.String("data", data))
		return c.Respond(&tele.CallbackResponse{Text: msgNoActiveAnswer})
	}

	_, err = h.reviewService.SubmitReview(ctx, userID, item.ID, assessment, state.IsCorrect)
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		h.logger.Warn("Item removed before review was recorded", zap.Int64("item_id", item.ID))
	case err != nil:
		h.logger.Error("Failed to submit review",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int64("item_id", item.ID),
		)
		return c.Respond(&tele.CallbackResponse{Text: msgError})
	}

	if err := c.Respond(); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}
	return h.advance(c, state)
}

// advance moves the session to the next item or finishes it
func (h *Handler) advance(c tele.Context, state *domain.StateData) error {
	userID := c.Sender().ID

	next := *state
	next.Position++
	next.IsCorrect = false

	if next.CurrentItem() == nil {
		h.logger.Info("Session finished",
			zap.Int64("user_id", userID),
			zap.Int("correct", next.Correct),
			zap.Int("total", len(next.Session)),
		)
		h.ResetState(userID)
		return c.Send(formatSummary(&next), mainMenuMarkup())
	}

	next.State = domain.StateWaitingAnswer
	h.SetState(userID, &next)
	return c.Send(formatPrompt(&next), cancelMarkup())
}

// handleCancel stops the current session
func (h *Handler) handleCancel(c tele.Context) error {
	userID := c.Sender().ID

	lock := h.lockUser(userID)
	h.ResetState(userID)
	lock.Unlock()

	if err := c.Edit(msgMainMenu, mainMenuMarkup()); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return c.Send(msgMainMenu, mainMenuMarkup())
	}
	return c.Respond()
}

func cancelMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnCancel))
	return markup
}
