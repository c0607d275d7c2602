package main

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smsagro/books_backend/config"
	"github.com/smsagro/books_backend/models"
	"github.com/smsagro/books_backend/models/reports"
	"github.com/smsagro/books_backend/utils"
	"github.com/smsagro/books_backend/workflow"
)

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
}

// balanceSheetExportHandler streams the balance sheet as a spreadsheet download.
func balanceSheetExportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgId, _ := utils.GetOrganizationIdFromContext(c.Request.Context())
		report, err := reports.GetBalanceSheet(c.Request.Context(), uuid.MustParse(orgId))
		if err != nil {
			respondError(c, err)
			return
		}

		var buf bytes.Buffer
		if err := reports.ExportBalanceSheetExcel(report, &buf); err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename=balance-sheet.xlsx")
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	}
}

type outboxReplayRequest struct {
	RecordId int `json:"record_id" binding:"required,gt=0"`
}

func outboxReplayHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req outboxReplayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if err := workflow.ReplayOutboxEvent(c.Request.Context(), config.GetDB(), req.RecordId); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"record_id":      req.RecordId,
			"publish_status": models.OutboxPublishStatusFailed,
		})
	}
}
