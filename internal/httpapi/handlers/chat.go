package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/paper-explorer/internal/chat"
	"github.com/suPer8Hu/paper-explorer/internal/common"
)

type postMessageReq struct {
	SessionID string `json:"session_id" binding:"notblank"`
	Role      string `json:"role" binding:"notblank"`
	Content   string `json:"content" binding:"notblank"`
	ModelType string `json:"model_type"`
}

type renameSessionReq struct {
	SessionName string `json:"session_name" binding:"notblank"`
}

func (h *Handler) ListChatSessions(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	sessions, err := h.Chat.ListSessions(c.Request.Context(), p.UserID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	common.OK(c, gin.H{"sessions": sessions})
}

func (h *Handler) GetChatSession(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	msgs, err := h.Chat.GetSession(c.Request.Context(), p.UserID, c.Param("session_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	common.OK(c, gin.H{"messages": msgs})
}

func (h *Handler) PostChatMessage(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req postMessageReq
	if !h.bind(c, &req) {
		return
	}
	id, err := h.Chat.PostMessage(c.Request.Context(), p.UserID, req.SessionID, chat.Role(req.Role), req.Content, req.ModelType)
	if err != nil {
		h.writeError(c, err)
		return
	}
	common.OK(c, gin.H{"message_id": id})
}

func (h *Handler) RenameChatSession(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req renameSessionReq
	if !h.bind(c, &req) {
		return
	}
	if err := h.Chat.RenameSession(c.Request.Context(), p.UserID, c.Param("session_id"), req.SessionName); err != nil {
		h.writeError(c, err)
		return
	}
	common.OK(c, gin.H{})
}

func (h *Handler) DeleteChatSession(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := h.Chat.DeleteSession(c.Request.Context(), p.UserID, c.Param("session_id")); err != nil {
		h.writeError(c, err)
		return
	}
	common.OK(c, gin.H{})
}

func (h *Handler) ExportChatSession(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	exp, err := h.Chat.ExportSession(c.Request.Context(), p.UserID, c.Param("session_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	common.OK(c, exp)
}

func (h *Handler) ClearChatSessions(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := h.Chat.ClearAllSessions(c.Request.Context(), p.UserID); err != nil {
		h.writeError(c, err)
		return
	}
	common.OK(c, gin.H{})
}
