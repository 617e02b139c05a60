package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/paper-explorer/internal/common"
)

type saveHistoryReq struct {
	Query     string          `json:"query"`
	ModelType string          `json:"model_type"`
	Response  string          `json:"response"`
	Sources   json.RawMessage `json:"sources"`
}

func (h *Handler) SaveHistory(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req saveHistoryReq
	if !h.bind(c, &req) {
		return
	}
	e, err := h.History.Append(c.Request.Context(), p.UserID, req.Query, req.ModelType, req.Response, req.Sources)
	if err != nil {
		h.writeError(c, err)
		return
	}
	common.OK(c, gin.H{"id": e.ID})
}

func (h *Handler) ListHistory(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	entries, err := h.History.List(c.Request.Context(), p.UserID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	common.OK(c, gin.H{"history": entries})
}

func (h *Handler) DeleteHistory(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, codeInvalidID, "invalid history id")
		return
	}
	if err := h.History.DeleteOne(c.Request.Context(), p.UserID, id); err != nil {
		h.writeError(c, err)
		return
	}
	common.OK(c, gin.H{})
}

func (h *Handler) ClearHistory(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := h.History.ClearAll(c.Request.Context(), p.UserID); err != nil {
		h.writeError(c, err)
		return
	}
	common.OK(c, gin.H{})
}
