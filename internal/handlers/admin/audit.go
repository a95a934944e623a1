package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vastra_back_end/internal/database"
	"vastra_back_end/internal/models"
)

//
// 🟢 GET /api/admin/audit
//
// Journal d'audit du back office (ScyllaDB), du plus récent au plus ancien
func ListAuditLogs(c *gin.Context) {
	if database.AuditScylla == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Audit log is disabled"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit < 1 || limit > 1000 {
		limit = 100
	}

	iter := database.AuditScylla.Query(`
		SELECT id, user_id, user_email, action, resource, resource_id,
			old_value, new_value, ip_address, user_agent, success, error_msg, timestamp
		FROM audit_logs LIMIT ?`, limit).Iter()

	logs := []models.AuditLog{}
	var entry models.AuditLog
	for iter.Scan(&entry.ID, &entry.UserID, &entry.UserEmail, &entry.Action,
		&entry.Resource, &entry.ResourceID, &entry.OldValue, &entry.NewValue,
		&entry.IPAddress, &entry.UserAgent, &entry.Success, &entry.ErrorMsg,
		&entry.Timestamp) {
		logs = append(logs, entry)
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not read audit log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs, "count": len(logs)})
}
