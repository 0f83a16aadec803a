package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"riddleward/internal/models"
	"riddleward/internal/repository"
	"riddleward/internal/service"
)

// Answer verdicts returned to clients; wording is part of the public contract.
const (
	msgIncorrect    = "Sorry, your answer is incorrect."
	msgAlreadyWon   = "Your answer is correct, but unfortunately you are not the first person to answer correctly."
	msgFirstCorrect = "Congratulations! Your answer is correct, and you are the first person to answer correctly."
)

type RiddleRotator interface {
	SelectNext(ctx context.Context) (*models.Riddle, error)
}

type AnswerChecker interface {
	Check(ctx context.Context, riddleID uint64, submitted string) (service.AnswerOutcome, error)
}

type RiddleHandler struct {
	Rotator RiddleRotator
	Checker AnswerChecker
	Repo    repository.Repository
	Logger  *zap.Logger
}

func (h *RiddleHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/riddles")
	group.GET("/next", h.next)
	group.POST("/answer", h.answer)
	group.POST("", h.create)
	group.GET("", h.list)
}

type nextRiddleResponse struct {
	RiddleID uint64 `json:"riddle_id"`
	Question string `json:"question"`
}

// @Summary Rotate to the next riddle
// @Tags riddles
// @Success 200 {object} nextRiddleResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/riddles/next [get]
func (h *RiddleHandler) next(c *gin.Context) {
	riddle, err := h.Rotator.SelectNext(c.Request.Context())
	if err != nil {
		if err == service.ErrNoRiddles {
			Error(c, http.StatusNotFound, "No riddles in database", nil)
			return
		}
		if h.Logger != nil {
			h.Logger.Error("riddle rotation failed", zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	c.JSON(http.StatusOK, nextRiddleResponse{RiddleID: riddle.ID, Question: riddle.Question})
}

type checkAnswerRequest struct {
	RiddleID uint64 `json:"riddle_id"`
	Answer   string `json:"answer"`
}

// @Summary Submit an answer for a riddle
// @Tags riddles
// @Accept json
// @Param body body checkAnswerRequest true "submission"
// @Success 200 {object} map[string]string
// @Router /api/v1/riddles/answer [post]
func (h *RiddleHandler) answer(c *gin.Context) {
	var req checkAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "Missing parameters: riddleId or answer", nil)
		return
	}
	if req.RiddleID == 0 || strings.TrimSpace(req.Answer) == "" {
		Error(c, http.StatusBadRequest, "Missing parameters: riddleId or answer", nil)
		return
	}

	outcome, err := h.Checker.Check(c.Request.Context(), req.RiddleID, req.Answer)
	if err != nil {
		switch err {
		case service.ErrMissingParams:
			Error(c, http.StatusBadRequest, "Missing parameters: riddleId or answer", nil)
		case service.ErrRiddleNotFound:
			Error(c, http.StatusNotFound, "Riddle not found", nil)
		case service.ErrRiddleNotAsked:
			Error(c, http.StatusBadRequest, "This riddle has not been asked yet", nil)
		case service.ErrAnswerNotFound:
			Error(c, http.StatusNotFound, "No answer found for this riddle", nil)
		default:
			if h.Logger != nil {
				h.Logger.Error("answer check failed", zap.Uint64("riddle_id", req.RiddleID), zap.Error(err))
			}
			Error(c, http.StatusInternalServerError, "internal error", nil)
		}
		return
	}

	switch outcome {
	case service.AnswerFirstCorrect:
		c.JSON(http.StatusOK, gin.H{"message": msgFirstCorrect})
	case service.AnswerAlreadyWon:
		c.JSON(http.StatusOK, gin.H{"message": msgAlreadyWon})
	default:
		c.JSON(http.StatusOK, gin.H{"message": msgIncorrect})
	}
}

type createRiddleRequest struct {
	Type     string `json:"type"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// @Summary Seed a riddle with its canonical answer
// @Tags riddles
// @Accept json
// @Param body body createRiddleRequest true "riddle"
// @Success 200 {object} apiResponse
// @Router /api/v1/riddles [post]
func (h *RiddleHandler) create(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	var req createRiddleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	req.Answer = strings.TrimSpace(req.Answer)
	if req.Question == "" || req.Answer == "" {
		Error(c, http.StatusBadRequest, "question and answer required", nil)
		return
	}

	riddle := &models.Riddle{
		Type:     strings.TrimSpace(req.Type),
		Question: req.Question,
	}
	answer := &models.RiddleAnswer{Answer: req.Answer}
	if err := h.Repo.CreateRiddle(c.Request.Context(), riddle, answer); err != nil {
		if h.Logger != nil {
			h.Logger.Error("riddle create failed", zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	Ok(c, gin.H{"riddle_id": riddle.ID}, nil)
}

// @Summary List riddles
// @Tags riddles
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Param type query string false "type filter"
// @Success 200 {object} apiResponse
// @Router /api/v1/riddles [get]
func (h *RiddleHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	params := repository.ListRiddlesParams{
		Limit:  queryInt(c, "limit", 100),
		Offset: queryInt(c, "offset", 0),
	}
	if t := strings.TrimSpace(c.Query("type")); t != "" {
		params.Type = &t
	}
	if raw := strings.TrimSpace(c.Query("asked")); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			params.Asked = &v
		}
	}

	items, err := h.Repo.ListRiddles(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	total, err := h.Repo.CountRiddles(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	Ok(c, items, map[string]any{"total": total, "limit": params.Limit, "offset": params.Offset})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
