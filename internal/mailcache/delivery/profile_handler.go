package delivery

import (
	"net/http"

	"mailmind-backend/internal/mailcache/domain"
	"mailmind-backend/internal/mailcache/repository"

	"github.com/gin-gonic/gin"
)

// ProfileHandler exposes the per-user enrichment context document.
type ProfileHandler struct {
	profiles repository.ProfileRepository
}

func NewProfileHandler(profiles repository.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.profiles.Get(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

type updateProfileRequest struct {
	KnownContacts  []string `json:"knownContacts"`
	Notes          string   `json:"notes"`
	InternalDomain string   `json:"internalDomain"`
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile := &domain.Profile{
		UserID:         c.GetString("userID"),
		KnownContacts:  req.KnownContacts,
		Notes:          req.Notes,
		InternalDomain: req.InternalDomain,
	}
	if err := h.profiles.Save(c.Request.Context(), profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}
