package delivery

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"mailmind-backend/internal/mailcache/domain"
	"mailmind-backend/internal/mailcache/usecase"

	"github.com/gin-gonic/gin"
)

type MailCacheHandler struct {
	service *usecase.Service
}

func NewMailCacheHandler(service *usecase.Service) *MailCacheHandler {
	return &MailCacheHandler{service: service}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingParameter), errors.Is(err, domain.ErrMalformedID):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRemoteProvider):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func limitQuery(c *gin.Context) int {
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return 0
}

func (h *MailCacheHandler) Import(c *gin.Context) {
	userID := c.GetString("userID")
	if err := h.service.ImportNewMessages(c.Request.Context(), userID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "import completed"})
}

func (h *MailCacheHandler) Process(c *gin.Context) {
	userID := c.GetString("userID")
	if err := h.service.ProcessSummarizationQueue(c.Request.Context(), userID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "queue processed"})
}

func (h *MailCacheHandler) Rescore(c *gin.Context) {
	userID := c.GetString("userID")
	if err := h.service.Rescore(c.Request.Context(), userID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rescore completed"})
}

// Refresh runs the full cycle in the background and returns immediately.
func (h *MailCacheHandler) Refresh(c *gin.Context) {
	userID := c.GetString("userID")
	go func() {
		// Detached from the request context; the refresh outlives the
		// HTTP call.
		_ = h.service.Refresh(context.Background(), userID)
	}()
	c.JSON(http.StatusAccepted, gin.H{"message": "refresh started"})
}

func (h *MailCacheHandler) RefreshStatus(c *gin.Context) {
	userID := c.GetString("userID")
	job, running := h.service.RefreshStatus(userID)
	if !running {
		c.JSON(http.StatusOK, gin.H{"running": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"running": true, "job": job})
}

func (h *MailCacheHandler) GetInbox(c *gin.Context) {
	userID := c.GetString("userID")
	ids, err := h.service.GetInbox(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inbox": ids})
}

func (h *MailCacheHandler) GetDeletables(c *gin.Context) {
	userID := c.GetString("userID")
	ids, err := h.service.GetDeletables(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletables": ids})
}

func (h *MailCacheHandler) GetMessage(c *gin.Context) {
	msg, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *MailCacheHandler) GetBrief(c *gin.Context) {
	msg, err := h.service.GetBrief(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *MailCacheHandler) Archive(c *gin.Context) {
	if err := h.service.Archive(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "archived"})
}

func (h *MailCacheHandler) Trash(c *gin.Context) {
	if err := h.service.Trash(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "moved to trash"})
}

func (h *MailCacheHandler) Junk(c *gin.Context) {
	if err := h.service.Junk(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "moved to junk"})
}

func (h *MailCacheHandler) ResetEnrichment(c *gin.Context) {
	if err := h.service.ResetEnrichment(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "enrichment reset"})
}

// Search dispatches on query parameters: exactly one of q, label, tier,
// sentiment, category, importance, spam, or from/to must be supplied.
func (h *MailCacheHandler) Search(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetString("userID")
	limit := limitQuery(c)

	var (
		msgs []*domain.CachedMessage
		err  error
	)
	switch {
	case c.Query("q") != "":
		msgs, err = h.service.Search(ctx, userID, c.Query("q"), limit)
	case c.Query("label") != "":
		msgs, err = h.service.SearchByLabel(ctx, userID, c.Query("label"), limit)
	case c.Query("tier") != "":
		msgs, err = h.service.SearchByPriority(ctx, userID, c.Query("tier"), limit)
	case c.Query("sentiment") != "":
		msgs, err = h.service.SearchBySentiment(ctx, userID, domain.Sentiment(c.Query("sentiment")), limit)
	case c.Query("category") != "":
		msgs, err = h.service.SearchByCategory(ctx, userID, domain.Category(c.Query("category")), limit)
	case c.Query("importance") != "":
		min, parseErr := strconv.ParseFloat(c.Query("importance"), 64)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "importance must be a number"})
			return
		}
		msgs, err = h.service.SearchByImportance(ctx, userID, min, limit)
	case c.Query("spam") != "":
		min, parseErr := strconv.ParseFloat(c.Query("spam"), 64)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "spam must be a number"})
			return
		}
		msgs, err = h.service.SearchBySpam(ctx, userID, min, limit)
	case c.Query("from") != "" || c.Query("to") != "":
		var from, to time.Time
		if raw := c.Query("from"); raw != "" {
			from, err = time.Parse(time.RFC3339, raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "from must be RFC3339"})
				return
			}
		}
		if raw := c.Query("to"); raw != "" {
			to, err = time.Parse(time.RFC3339, raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "to must be RFC3339"})
				return
			}
		}
		msgs, err = h.service.SearchByDateRange(ctx, userID, from, to, limit)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "no search criteria supplied"})
		return
	}

	if err != nil {
		fail(c, err)
		return
	}

	// List views never carry bodies.
	briefs := make([]*domain.CachedMessage, len(msgs))
	for i, msg := range msgs {
		briefs[i] = msg.Brief()
	}
	c.JSON(http.StatusOK, gin.H{"results": briefs, "count": len(briefs)})
}
