package api

import (
	"errors"                            // Typed upstream error matching
	"net/http"                          // HTTP status codes
	"strings"                           // Prompt composition
	"wenxing_backend/internal/domain"   // Importing domain models
	"wenxing_backend/internal/store"    // User store
	"wenxing_backend/internal/upstream" // Webhook client

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Request struct for AI questions
type AIRequest struct {
	Prompt            string `json:"prompt" binding:"required"` // The user's question
	SystemInstruction string `json:"systemInstruction"`         // Optional instruction prepended to the question
}

// composeQuestion prepends the instruction to the prompt when present
func composeQuestion(prompt, instruction string) string {
	if strings.TrimSpace(instruction) != "" {
		return instruction + "\n\n" + prompt // Instruction first, blank line, then the question
	}
	return prompt
}

// withQuota merges the quota view fields into a response body
func withQuota(h gin.H, v domain.QuotaView) gin.H {
	h["total"] = v.Total         // Lifetime allowance
	h["used"] = v.Used           // Calls consumed
	h["remaining"] = v.Remaining // Derived remainder
	h["isPro"] = v.IsPro         // Pro flag
	return h
}

// upstreamDetail renders the diagnostic string attached to 502 responses
func upstreamDetail(err error) string {
	var ue *upstream.Error
	if errors.As(err, &ue) {
		// Status and body captured from the failed webhook call
		return ue.Error()
	}
	return err.Error()
}

// AIHandler is the quota-gated proxy to the AI webhook.
//
// Free users pay first: one quota unit is reserved with a durable write
// before the upstream call and refunded if the call fails. The reserve and
// refund are independent atomic UPDATEs, not a transaction around the
// network round trip, so two concurrent requests can both reserve the last
// unit; each refunds independently on failure. Pro users are never metered.
func AIHandler(s *store.Store, up *upstream.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AIRequest // Bind JSON request to struct
		// The prompt must be present and non-blank
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST", "message": "prompt must not be empty"})
			return
		}
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED", "message": "Please log in first"})
			return
		}
		// Reload the user; the session may have been invalidated since token issuance
		user, err := s.GetByID(userID.(uint))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED", "message": "Please log in again"})
			return
		}
		quota := user.Quota()                                         // Current quota view
		question := composeQuestion(req.Prompt, req.SystemInstruction) // Composed question for the webhook

		// Pro path: unlimited, no quota mutation in either outcome
		if quota.IsPro {
			text, err := up.Ask(c.Request.Context(), question) // Call upstream directly
			if err != nil {
				logUpstreamFailure(user.ID, err) // Diagnostics for the failed call
				c.JSON(http.StatusBadGateway, gin.H{
					"error":   "UPSTREAM_ERROR",                   // Machine-readable kind
					"message": "AI service temporarily unavailable", // Human-readable message
					"detail":  upstreamDetail(err),                // Captured diagnostics
				})
				return
			}
			// Quota view is returned unchanged
			c.JSON(http.StatusOK, withQuota(gin.H{"text": text}, quota))
			return
		}

		// Free path: fail fast when the lifetime allowance is spent, no upstream call
		if quota.Remaining <= 0 {
			c.JSON(http.StatusPaymentRequired, withQuota(gin.H{
				"error":   "QUOTA_EXHAUSTED", // Machine-readable kind
				"message": "Free quota exhausted (3 lifetime calls). Upgrade to Pro to continue.",
			}, quota))
			return
		}

		// Reserve one unit before calling upstream. Paying first closes the race
		// where two concurrent requests both pass the remaining-check above.
		if _, err := s.AdjustQuotaUsed(user.ID, +1); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // User ID
				"error":   err.Error(), // Error message
			}).Error("Quota reservation failed") // Log reservation failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "SERVER_ERROR", "message": "AI request failed"})
			return
		}

		text, err := up.Ask(c.Request.Context(), question) // Call upstream with the reserved unit
		if err != nil {
			// Refund the reserved unit; a failed refund is logged, never retried
			if _, refundErr := s.AdjustQuotaUsed(user.ID, -1); refundErr != nil {
				logrus.WithFields(logrus.Fields{
					"user_id": user.ID,           // User ID
					"error":   refundErr.Error(), // Error message
				}).Error("Quota refund failed") // The unit stays charged
			}
			logUpstreamFailure(user.ID, err) // Diagnostics for the failed call
			view := reloadQuota(s, user.ID, quota)
			c.JSON(http.StatusBadGateway, withQuota(gin.H{
				"error":   "UPSTREAM_ERROR",                                         // Machine-readable kind
				"message": "AI service temporarily unavailable; no quota was charged", // Refund already applied
				"detail":  upstreamDetail(err),                                      // Captured diagnostics
			}, view))
			return
		}
		// Success: return the answer with the post-reservation quota view
		view := reloadQuota(s, user.ID, quota)
		c.JSON(http.StatusOK, withQuota(gin.H{"text": text}, view))
	}
}

// reloadQuota recomputes the quota view from a fresh row, falling back to the
// last known view if the reload fails
func reloadQuota(s *store.Store, userID uint, last domain.QuotaView) domain.QuotaView {
	fresh, err := s.GetByID(userID)
	if err != nil {
		return last // Stale but better than nothing
	}
	return fresh.Quota()
}

// logUpstreamFailure records the status and body of a failed webhook call
func logUpstreamFailure(userID uint, err error) {
	fields := logrus.Fields{
		"user_id": userID,      // User ID
		"error":   err.Error(), // Error message
	}
	var ue *upstream.Error
	if errors.As(err, &ue) {
		fields["upstream_status"] = ue.Status // Non-success status
		fields["upstream_body"] = ue.Body     // Response body for diagnostics
	}
	logrus.WithFields(fields).Error("Upstream call failed") // Log the failure
}
