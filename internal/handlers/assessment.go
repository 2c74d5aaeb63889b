package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mindscreen/internal/analysis"
	"mindscreen/internal/catalog"
	"mindscreen/internal/database"
	"mindscreen/internal/history"
	"mindscreen/internal/models"
	"mindscreen/internal/recorder"
	"mindscreen/internal/repository"
	"mindscreen/internal/risk"
	"mindscreen/internal/scoring"
	"mindscreen/internal/services"
)

type AssessmentHandler struct {
	log       *zap.Logger
	generator *catalog.Generator
	sessions  *recorder.Manager
	analysis  *analysis.Manager
	history   *history.Chain
	speech    *services.SpeechService
}

func NewAssessmentHandler(log *zap.Logger, generator *catalog.Generator, sessions *recorder.Manager, analysisMgr *analysis.Manager, historyChain *history.Chain, speech *services.SpeechService) *AssessmentHandler {
	return &AssessmentHandler{
		log:       log,
		generator: generator,
		sessions:  sessions,
		analysis:  analysisMgr,
		history:   historyChain,
		speech:    speech,
	}
}

// cognitiveTaskView is what the client sees: the task without its answer key.
type cognitiveTaskView struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options,omitempty"`
	Sequence    bool     `json:"sequence"`
	AnswerLen   int      `json:"answerLength,omitempty"`
}

func viewOf(task catalog.CognitiveTask) cognitiveTaskView {
	return cognitiveTaskView{
		ID:          task.ID,
		Type:        task.Type,
		Title:       task.Title,
		Description: task.Description,
		Prompt:      task.Prompt,
		Options:     task.Options,
		Sequence:    len(task.SequenceAnswer) > 0,
		AnswerLen:   len(task.SequenceAnswer),
	}
}

// Start validates the onboarding profile and opens a new assessment session.
func (h *AssessmentHandler) Start(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var profile models.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}
	if errs := profile.Validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	assessmentID := uuid.NewString()
	profile.ID = assessmentID

	speechTasks := catalog.SpeechTasks()
	cognitiveTasks := h.generator.CognitiveTasks(profile.Language)

	if database.DB != nil {
		order := make([]int64, len(cognitiveTasks))
		for i := range order {
			order[i] = int64(i)
		}
		if _, err := repository.CreateAssessmentState(c, assessmentID, identity, &profile, order); err != nil {
			// Local-only mode still works; the DB row is bookkeeping.
			h.log.Warn("Failed to persist assessment state", zap.Error(err))
		}
	}

	h.sessions.Create(assessmentID, identity, profile, speechTasks, cognitiveTasks)
	h.log.Info("Assessment started",
		zap.String("assessmentID", assessmentID),
		zap.String("language", profile.Language),
	)

	c.JSON(http.StatusCreated, gin.H{
		"assessmentId":   assessmentID,
		"speechTasks":    speechTasks,
		"cognitiveTasks": len(cognitiveTasks),
	})
}

func (h *AssessmentHandler) session(c *gin.Context) (*recorder.Assessment, bool) {
	identity, ok := requireIdentity(c)
	if !ok {
		return nil, false
	}
	a, ok := h.sessions.Get(c.Param("id"))
	if !ok || a.Identity != identity {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown assessment."})
		return nil, false
	}
	return a, true
}

// SpeechStatus reports the current speech task and, when it is still locked,
// how long until it opens. Clients poll this while the countdown runs.
func (h *AssessmentHandler) SpeechStatus(c *gin.Context) {
	a, ok := h.session(c)
	if !ok {
		return
	}

	if a.Speech.Finished() {
		c.JSON(http.StatusOK, gin.H{"finished": true})
		return
	}

	task, _ := a.Speech.CurrentTask()
	remaining, scheduled, err := a.Speech.RemainingLock(task.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read task state."})
		return
	}

	resp := gin.H{
		"finished":       false,
		"task":           task,
		"locked":         remaining > 0 || !scheduled,
		"pollIntervalMs": recorder.LockPollInterval.Milliseconds(),
	}
	if scheduled {
		resp["remainingMs"] = remaining.Milliseconds()
	}
	c.JSON(http.StatusOK, resp)
}

// SpeechUpload stores one recorded sample and marks the task complete. A
// processing failure leaves the task current so the client can retry.
func (h *AssessmentHandler) SpeechUpload(c *gin.Context) {
	a, ok := h.session(c)
	if !ok {
		return
	}
	taskID := c.Param("taskID")

	if locked, err := a.Speech.Locked(taskID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown task."})
		return
	} else if locked {
		c.JSON(http.StatusConflict, gin.H{"error": "Task is still locked."})
		return
	}

	durationMs, err := parseDurationMs(c.PostForm("durationMs"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid durationMs."})
		return
	}

	file, _, err := c.Request.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing audio file."})
		return
	}
	defer file.Close()

	result, err := h.speech.Upload(c, a.ID, taskID, a.Profile.Language, file)
	if err != nil {
		h.log.Error("Speech upload failed",
			zap.String("assessmentID", a.ID),
			zap.String("taskID", taskID),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Speech processing failed. Please try again."})
		return
	}

	if err := a.Speech.Complete(taskID, durationMs); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result, "finished": a.Speech.Finished()})
}

// CognitiveStatus returns the current cognitive task, stripped of answers.
func (h *AssessmentHandler) CognitiveStatus(c *gin.Context) {
	a, ok := h.session(c)
	if !ok {
		return
	}

	if a.Cognitive.Finished() {
		c.JSON(http.StatusOK, gin.H{"finished": true})
		return
	}
	task, _ := a.Cognitive.CurrentTask()
	c.JSON(http.StatusOK, gin.H{"finished": false, "task": viewOf(task)})
}

type cognitiveAction struct {
	Action      string `json:"action"`
	OptionIndex *int   `json:"optionIndex,omitempty"`
	Text        string `json:"text,omitempty"`
	AutoStopMs  *int   `json:"autoStopMs,omitempty"`
}

// CognitiveAct applies one interaction to the current cognitive task:
// begin, select, append, undo, freetext, or complete.
func (h *AssessmentHandler) CognitiveAct(c *gin.Context) {
	a, ok := h.session(c)
	if !ok {
		return
	}
	taskID := c.Param("taskID")

	var action cognitiveAction
	if err := c.ShouldBindJSON(&action); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}

	var err error
	switch action.Action {
	case "begin":
		err = a.Cognitive.Begin(taskID)
	case "select":
		if action.OptionIndex == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "optionIndex is required."})
			return
		}
		err = a.Cognitive.SelectOption(taskID, *action.OptionIndex)
	case "append":
		if action.OptionIndex == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "optionIndex is required."})
			return
		}
		err = a.Cognitive.AppendSequence(taskID, *action.OptionIndex)
	case "undo":
		err = a.Cognitive.UndoSequence(taskID)
	case "freetext":
		err = a.Cognitive.SetFreeText(taskID, action.Text)
	case "complete":
		err = a.Cognitive.Complete(taskID, action.AutoStopMs)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action."})
		return
	}
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	// select and complete are the only actions that advance the pointer.
	if database.DB != nil && (action.Action == "select" || action.Action == "complete") {
		if err := repository.UpdateAssessmentIndex(c, a.ID, a.Cognitive.Index()); err != nil {
			h.log.Warn("Failed to persist task index", zap.Error(err))
		}
	}

	resp := gin.H{"finished": a.Cognitive.Finished()}
	if task, ok := a.Cognitive.CurrentTask(); ok {
		resp["task"] = viewOf(task)
	}
	c.JSON(http.StatusOK, resp)
}

// Finish closes the assessment: scores are aggregated, the risk estimate is
// computed, and the analysis reveal starts. The result itself stays hidden
// behind the analysis state until it completes.
func (h *AssessmentHandler) Finish(c *gin.Context) {
	a, ok := h.session(c)
	if !ok {
		return
	}
	if !a.Cognitive.Finished() {
		c.JSON(http.StatusConflict, gin.H{"error": "Cognitive tasks are not finished."})
		return
	}

	scores := scoring.Aggregate(a.Cognitive.Tasks(), a.Cognitive.Outcomes())
	result := risk.Estimate(a.ID, scores, a.Speech.Durations(), a.Speech.ExpectedDurations())

	h.analysis.Begin(a.ID)
	h.analysis.Deliver(a.ID, result)

	if err := h.history.Save(c, a.Identity, result); err != nil {
		// History must never block the result.
		h.log.Warn("Failed to save history", zap.Error(err))
	}

	if database.DB != nil {
		if err := repository.SaveInteractionLogs(c, a.ID, a.Cognitive.Logs()); err != nil {
			h.log.Warn("Failed to persist interaction logs", zap.Error(err))
		}
		if err := repository.CompleteAssessment(c, a.ID); err != nil {
			h.log.Warn("Failed to mark assessment complete", zap.Error(err))
		}
	}

	h.log.Info("Assessment finished",
		zap.String("assessmentID", a.ID),
		zap.Float64("probability", result.Probability),
		zap.String("riskLevel", string(result.RiskLevel)),
	)
	c.JSON(http.StatusAccepted, gin.H{"state": "pending"})
}

// Result reports analysis progress until the reveal completes, then the
// full risk estimate.
func (h *AssessmentHandler) Result(c *gin.Context) {
	a, ok := h.session(c)
	if !ok {
		return
	}

	status, known := h.analysis.Status(a.ID)
	if !known {
		c.JSON(http.StatusConflict, gin.H{"error": "Assessment is not finished."})
		return
	}

	resp := gin.H{"state": status.State, "progress": status.Progress}
	if status.Result != nil {
		resp["result"] = status.Result
	}
	c.JSON(http.StatusOK, resp)
}

func parseDurationMs(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

// Reset abandons the session and cancels any running analysis timers.
func (h *AssessmentHandler) Reset(c *gin.Context) {
	a, ok := h.session(c)
	if !ok {
		return
	}
	h.analysis.Reset(a.ID)
	h.sessions.Remove(a.ID)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
