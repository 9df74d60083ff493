package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-goals/internal/core/domain"
	"github.com/comitanigiacomo/kanso-goals/internal/core/services"
	"github.com/comitanigiacomo/kanso-goals/internal/core/undo"
)

type GoalHandler struct {
	svc *services.GoalService
}

func NewGoalHandler(svc *services.GoalService) *GoalHandler {
	return &GoalHandler{svc: svc}
}

type createGoalRequest struct {
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content" binding:"required"`
	Deadline   string `json:"deadline"`
	Difficulty string `json:"difficulty"`
}

// Fields left out of the body stay as they are; an explicit null clears
// them. An empty string also clears deadline and difficulty.
type updateGoalRequest struct {
	Title      domain.Patch[string] `json:"title" swaggertype:"string"`
	Content    domain.Patch[string] `json:"content" swaggertype:"string"`
	Deadline   domain.Patch[string] `json:"deadline" swaggertype:"string"`
	Difficulty domain.Patch[string] `json:"difficulty" swaggertype:"string"`
}

type toggleDeleteRequest struct {
	ID        string     `json:"id" binding:"required"`
	DeletedAt *time.Time `json:"deleted_at"`
}

type toggleCompleteRequest struct {
	ID          string     `json:"id" binding:"required"`
	CompletedAt *time.Time `json:"completed_at"`
}

type goalResponse struct {
	Success bool         `json:"success"`
	Goal    *domain.Goal `json:"goal"`
}

// mutationResponse carries the pre-change snapshot in Goal. Posting it back
// to /goals/:id/update reverts an edit; /goals/:id/undo also reverts the
// delete flag, which update never touches.
type mutationResponse struct {
	Success bool         `json:"success"`
	Goal    *domain.Goal `json:"goal"`
	Current *domain.Goal `json:"current"`
	Message string       `json:"message"`
}

type pendingUndoResponse struct {
	Goal      *domain.Goal `json:"goal"`
	Kind      undo.Kind    `json:"kind"`
	Message   string       `json:"message"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *GoalHandler) RegisterRoutes(router *gin.RouterGroup) {
	goals := router.Group("/goals")
	{
		goals.GET("", h.List)
		goals.POST("/new", h.Create)
		goals.POST("/delete", h.ToggleDelete)
		goals.POST("/complete", h.ToggleComplete)
		goals.GET("/undo", h.PendingUndo)
		goals.GET("/:id", h.Get)
		goals.POST("/:id/update", h.Update)
		goals.POST("/:id/undo", h.Undo)
	}
}

// List godoc
// @Summary List goals
// @Description Sorted by the query parameters when given, otherwise by the stored sort preference.
// @Tags goals
// @Produce json
// @Param type query string false "Sort key" Enums(created-at, completed-at, deadline, difficulty, title)
// @Param order query string false "Sort order" Enums(asc, desc)
// @Param include_deleted query bool false "Include soft-deleted goals"
// @Success 200 {array} domain.Goal
// @Failure 400 {object} errorResponse
// @Router /goals [get]
func (h *GoalHandler) List(c *gin.Context) {
	input := services.ListGoalsInput{}

	if raw := c.Query("include_deleted"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "include_deleted must be a boolean"})
			return
		}
		input.IncludeDeleted = include
	}

	key, order := c.Query("type"), c.Query("order")
	if key != "" || order != "" {
		spec := domain.DefaultSortSpec
		if key != "" {
			k, err := domain.ParseSortKey(key)
			if err != nil {
				respondError(c, err)
				return
			}
			spec.Key = k
		}
		if order != "" {
			o, err := domain.ParseSortOrder(order)
			if err != nil {
				respondError(c, err)
				return
			}
			spec.Order = o
		}
		input.Sort = &spec
	}

	goals, err := h.svc.List(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	if goals == nil {
		goals = []*domain.Goal{}
	}
	c.JSON(http.StatusOK, goals)
}

// Get godoc
// @Summary Get a goal
// @Tags goals
// @Produce json
// @Param id path string true "Goal ID"
// @Success 200 {object} domain.Goal
// @Failure 404 {object} errorResponse
// @Router /goals/{id} [get]
func (h *GoalHandler) Get(c *gin.Context) {
	goal, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// Create godoc
// @Summary Create a goal
// @Tags goals
// @Accept json
// @Produce json
// @Param request body createGoalRequest true "New goal"
// @Success 201 {object} goalResponse
// @Failure 400 {object} errorResponse
// @Router /goals/new [post]
func (h *GoalHandler) Create(c *gin.Context) {
	var req createGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		respondError(c, err)
		return
	}

	input := services.CreateGoalInput{
		Title:    req.Title,
		Content:  req.Content,
		Deadline: deadline,
	}
	if strings.TrimSpace(req.Difficulty) != "" {
		d := domain.Difficulty(req.Difficulty)
		input.Difficulty = &d
	}

	goal, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, goalResponse{Success: true, Goal: goal})
}

// Update godoc
// @Summary Edit a goal
// @Description Partial update. The response's goal is the state before the edit.
// @Tags goals
// @Accept json
// @Produce json
// @Param id path string true "Goal ID"
// @Param request body updateGoalRequest true "Fields to change"
// @Success 200 {object} mutationResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /goals/{id}/update [post]
func (h *GoalHandler) Update(c *gin.Context) {
	var req updateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deadline, err := deadlinePatch(req.Deadline)
	if err != nil {
		respondError(c, err)
		return
	}

	input := services.UpdateGoalInput{
		ID:         c.Param("id"),
		Title:      req.Title,
		Content:    req.Content,
		Deadline:   deadline,
		Difficulty: difficultyPatch(req.Difficulty),
	}

	res, err := h.svc.Update(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, mutationResponse{
		Success: true,
		Goal:    res.Previous,
		Current: res.Goal,
		Message: res.Message,
	})
}

// ToggleDelete godoc
// @Summary Delete or restore a goal
// @Description Flips the soft-delete flag. deleted_at is the value the client currently holds.
// @Tags goals
// @Accept json
// @Produce json
// @Param request body toggleDeleteRequest true "Goal and its current deleted_at"
// @Success 200 {object} mutationResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /goals/delete [post]
func (h *GoalHandler) ToggleDelete(c *gin.Context) {
	var req toggleDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.ToggleDelete(c.Request.Context(), req.ID, req.DeletedAt != nil)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, mutationResponse{
		Success: true,
		Goal:    res.Previous,
		Current: res.Goal,
		Message: res.Message,
	})
}

// ToggleComplete godoc
// @Summary Complete or reopen a goal
// @Tags goals
// @Accept json
// @Produce json
// @Param request body toggleCompleteRequest true "Goal and its current completed_at"
// @Success 200 {object} goalResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /goals/complete [post]
func (h *GoalHandler) ToggleComplete(c *gin.Context) {
	var req toggleCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := h.svc.ToggleComplete(c.Request.Context(), req.ID, req.CompletedAt != nil)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, goalResponse{Success: true, Goal: goal})
}

// PendingUndo godoc
// @Summary Most recent undoable change
// @Tags goals
// @Produce json
// @Success 200 {object} pendingUndoResponse
// @Failure 404 {object} errorResponse
// @Router /goals/undo [get]
func (h *GoalHandler) PendingUndo(c *gin.Context) {
	entry, ok := h.svc.PendingUndo()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "nothing to undo"})
		return
	}

	c.JSON(http.StatusOK, pendingUndoResponse{
		Goal:      entry.Snapshot,
		Kind:      entry.Kind,
		Message:   entry.Message,
		ExpiresAt: entry.ExpiresAt,
	})
}

// Undo godoc
// @Summary Revert the last edit, delete or restore of a goal
// @Tags goals
// @Produce json
// @Param id path string true "Goal ID"
// @Success 200 {object} goalResponse
// @Failure 404 {object} errorResponse
// @Router /goals/{id}/undo [post]
func (h *GoalHandler) Undo(c *gin.Context) {
	goal, err := h.svc.Undo(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, goalResponse{Success: true, Goal: goal})
}

// Layouts accepted for deadlines, besides RFC 3339. Values without an
// offset are taken as UTC.
var deadlineLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseDeadline(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, domain.ErrInvalidDeadline
}

func deadlinePatch(p domain.Patch[string]) (domain.Patch[time.Time], error) {
	switch {
	case p.IsUnchanged():
		return domain.Unchanged[time.Time](), nil
	case p.IsClear():
		return domain.Clear[time.Time](), nil
	}

	t, err := parseDeadline(p.Value())
	if err != nil {
		return domain.Patch[time.Time]{}, err
	}
	return domain.SetPtr(t), nil
}

func difficultyPatch(p domain.Patch[string]) domain.Patch[domain.Difficulty] {
	switch {
	case p.IsUnchanged():
		return domain.Unchanged[domain.Difficulty]()
	case p.IsClear(), strings.TrimSpace(p.Value()) == "":
		return domain.Clear[domain.Difficulty]()
	}
	return domain.Set(domain.Difficulty(p.Value()))
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrGoalAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
