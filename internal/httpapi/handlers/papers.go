package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/paper-explorer/internal/common"
	"github.com/suPer8Hu/paper-explorer/internal/quiz"
)

type paperTitleReq struct {
	PaperTitle string `json:"paper_title" binding:"notblank"`
}

type generateQuizReq struct {
	PaperTitle   string `json:"paper_title" binding:"notblank"`
	NumQuestions int    `json:"num_questions"`
}

type submitQuizReq struct {
	PaperTitle string            `json:"paper_title" binding:"notblank"`
	Answers    map[string]string `json:"answers" binding:"required"`
}

func (h *Handler) SummarizePaper(c *gin.Context) {
	var req paperTitleReq
	if !h.bind(c, &req) {
		return
	}
	s, err := h.Papers.Summarize(req.PaperTitle)
	if err != nil {
		h.writeError(c, err)
		return
	}
	common.OK(c, s)
}

func (h *Handler) PaperSuggestions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	common.OK(c, gin.H{"suggestions": h.Papers.Suggestions(c.Query("q"), limit)})
}

func (h *Handler) SearchPapers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	q := c.Query("q")
	found := h.Papers.Search(q, limit)
	common.OK(c, gin.H{"papers": found, "total": len(found), "query": q})
}

func (h *Handler) GenerateQuiz(c *gin.Context) {
	var req generateQuizReq
	if !h.bind(c, &req) {
		return
	}
	q, err := quiz.Generate(req.PaperTitle, req.NumQuestions)
	if err != nil {
		h.writeError(c, err)
		return
	}
	common.OK(c, q)
}

func (h *Handler) SubmitQuiz(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req submitQuizReq
	if !h.bind(c, &req) {
		return
	}
	out, err := h.Quiz.Submit(c.Request.Context(), p.UserID, req.PaperTitle, req.Answers)
	if err != nil {
		h.writeError(c, err)
		return
	}
	common.OK(c, out)
}

func (h *Handler) QuizHistory(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	items, err := h.Quiz.History(c.Request.Context(), p.UserID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	common.OK(c, gin.H{"history": items})
}
