package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	mediqerrors "mediq/internal/errors"
	"mediq/internal/service"
)

const maxQueryLength = 500

type queryRequest struct {
	Query string `json:"query"`
	Mode  string `json:"mode"`
}

type queryResponse struct {
	Success   bool   `json:"success"`
	Query     string `json:"query"`
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) handleQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{
			Error:   "查詢內容不能為空",
			Message: "請提供有效的查詢內容",
		})
		return
	}

	trimmed := strings.TrimSpace(req.Query)
	if trimmed == "" {
		c.JSON(http.StatusBadRequest, errorResponse{
			Error:   "查詢內容不能為空",
			Message: "請提供有效的查詢內容",
		})
		return
	}
	if len([]rune(req.Query)) > maxQueryLength {
		c.JSON(http.StatusBadRequest, errorResponse{
			Error:   "查詢內容過長",
			Message: "查詢內容不能超過 500 個字元",
		})
		return
	}

	mode := service.Mode(req.Mode)
	switch mode {
	case service.ModeSimple, service.ModeFull, service.ModeAgentic:
	case "":
		mode = service.ModeFull
	default:
		c.JSON(http.StatusBadRequest, errorResponse{
			Error:   "不支援的查詢模式",
			Message: "mode 必須為 simple、full 或 agentic",
		})
		return
	}

	s.logger.Info("query received", "mode", string(mode), "length", len([]rune(trimmed)))

	answer, err := s.svc.Process(c.Request.Context(), trimmed, mode)
	if err != nil {
		s.logger.Error("query processing failed", "error", err)

		if mediqerrors.IsSynthesis(err) {
			c.JSON(http.StatusInternalServerError, errorResponse{
				Error:   "AI 分析失敗",
				Message: "無法處理您的查詢，請稍後再試",
			})
			return
		}
		if mediqerrors.IsTransient(err) {
			c.JSON(http.StatusServiceUnavailable, errorResponse{
				Error:   "搜尋服務暫時無法使用",
				Message: "請稍後再試",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{
			Error:   "查詢處理失敗",
			Message: "無法處理您的查詢，請稍後再試",
		})
		return
	}

	c.JSON(http.StatusOK, queryResponse{
		Success:   true,
		Query:     trimmed,
		Response:  answer.Text,
		Timestamp: answer.Timestamp,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"uptime":    time.Since(s.startTime).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
