package handler

import (
	"context"
	"sync"
	"time"

	"farsiflash/internal/domain"
	"farsiflash/internal/middleware"
	"farsiflash/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// requestTimeout bounds the storage work done for one update
const requestTimeout = 10 * time.Second

// Handler manages all bot interactions
type Handler struct {
	bot            *tele.Bot
	authService    *service.AuthService
	sessionService *service.SessionService
	reviewService  *service.ReviewService
	statsService   *service.StatsService
	sessionSize    int
	logger         *zap.Logger

	// User states (in-memory state machine)
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex

	// Serializes updates of one user so a double tap can't score an item twice
	callbackLocks map[int64]*sync.Mutex
	callbackMux   sync.Mutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	authService *service.AuthService,
	sessionService *service.SessionService,
	reviewService *service.ReviewService,
	statsService *service.StatsService,
	sessionSize int,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:            bot,
		authService:    authService,
		sessionService: sessionService,
		reviewService:  reviewService,
		statsService:   statsService,
		sessionSize:    sessionSize,
		logger:         logger,
		states:         make(map[int64]*domain.StateData),
		callbackLocks:  make(map[int64]*sync.Mutex),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Open to everyone: /start and the password prompt
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle(tele.OnText, h.handleText)

	// Everything else requires an authorized user
	practice := h.bot.Group()
	practice.Use(middleware.AuthMiddleware(h.authService, h.logger))

	practice.Handle("/practice", h.handlePractice)
	practice.Handle("/level", h.handleLevel)
	practice.Handle("/stats", h.handleStats)

	// Callback queries (inline buttons)
	practice.Handle(&btnPractice, h.handlePractice)
	practice.Handle(&btnStats, h.handleStats)
	practice.Handle(&btnLevel, h.handleLevel)
	practice.Handle(&btnCancel, h.handleCancel)
	practice.Handle(&btnMainMenu, h.handleStart)

	// Generic callback handler for dynamic data
	practice.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns user's current state
func (h *Handler) GetState(userID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	return state
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// ResetState resets user to idle state
func (h *Handler) ResetState(userID int64) {
	h.SetState(userID, &domain.StateData{State: domain.StateIdle})
}

// lockUser returns the user's update lock, locked
func (h *Handler) lockUser(userID int64) *sync.Mutex {
	h.callbackMux.Lock()
	lock, exists := h.callbackLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		h.callbackLocks[userID] = lock
	}
	h.callbackMux.Unlock()

	lock.Lock()
	return lock
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// Inline keyboard buttons
var (
	btnPractice = tele.Btn{
		Unique: "practice",
		Text:   "📚 Practice",
	}
	btnStats = tele.Btn{
		Unique: "stats",
		Text:   "📊 Statistics",
	}
	btnLevel = tele.Btn{
		Unique: "level",
		Text:   "🎚 Level",
	}
	btnCancel = tele.Btn{
		Unique: "cancel",
		Text:   "❌ Stop",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Main menu",
	}
)

const (
	assessPrefix = "assess_"
	levelPrefix  = "level_"
)

var assessmentLabels = map[domain.Assessment]string{
	domain.AssessmentAgain: "🔁 Again",
	domain.AssessmentHard:  "😓 Hard",
	domain.AssessmentGood:  "🙂 Good",
	domain.AssessmentEasy:  "😎 Easy",
}

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnPractice),
		menu.Row(btnStats, btnLevel),
	)
	return menu
}

// assessmentMarkup returns the again/hard/good/easy keyboard
func assessmentMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	row := tele.Row{}
	for _, a := range domain.Assessments {
		row = append(row, markup.Data(assessmentLabels[a], assessPrefix+string(a)))
	}
	markup.Inline(row, markup.Row(btnCancel))
	return markup
}

// levelMarkup returns a keyboard with one button per level
func levelMarkup(current int) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	row := tele.Row{}
	for level := domain.MinLevel; level <= domain.MaxLevel; level++ {
		text := levelLabel(level, current)
		row = append(row, markup.Data(text, levelPrefix+itoa(level)))
	}
	markup.Inline(row, markup.Row(btnMainMenu))
	return markup
}
