package delivery

import (
	"net/http"

	accountdomain "mailmind-backend/internal/account/domain"
	"mailmind-backend/internal/account/repository"
	"mailmind-backend/pkg/crypto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AccountHandler struct {
	accounts  repository.AccountRepository
	encryptor *crypto.Encryptor
}

func NewAccountHandler(accounts repository.AccountRepository, encryptor *crypto.Encryptor) *AccountHandler {
	return &AccountHandler{accounts: accounts, encryptor: encryptor}
}

type linkGoogleRequest struct {
	Email        string `json:"email" binding:"required"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LinkGoogle stores an already-authorized Google account. The OAuth
// consent flow happens at the client; only the resulting tokens land here.
func (h *AccountHandler) LinkGoogle(c *gin.Context) {
	var req linkGoogleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account := &accountdomain.Account{
		ID:           uuid.New().String(),
		UserID:       c.GetString("userID"),
		Provider:     accountdomain.ProviderGoogle,
		Email:        req.Email,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
	}
	if err := h.accounts.Save(c.Request.Context(), account); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, sanitize(account))
}

type linkIMAPRequest struct {
	Email    string `json:"email" binding:"required"`
	Server   string `json:"server" binding:"required"`
	Port     int    `json:"port" binding:"required"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required"`
}

func (h *AccountHandler) LinkIMAP(c *gin.Context) {
	var req linkIMAPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	encrypted, err := h.encryptor.Encrypt(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encrypt password"})
		return
	}

	account := &accountdomain.Account{
		ID:                uuid.New().String(),
		UserID:            c.GetString("userID"),
		Provider:          accountdomain.ProviderIMAP,
		Email:             req.Email,
		IMAPServer:        req.Server,
		IMAPPort:          req.Port,
		IMAPUsername:      req.Username,
		EncryptedPassword: encrypted,
	}
	if err := h.accounts.Save(c.Request.Context(), account); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, sanitize(account))
}

func (h *AccountHandler) List(c *gin.Context) {
	accounts, err := h.accounts.ListByUser(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]*accountdomain.Account, len(accounts))
	for i, account := range accounts {
		out[i] = sanitize(account)
	}
	c.JSON(http.StatusOK, gin.H{"accounts": out})
}

// sanitize strips credentials before an account leaves the API.
func sanitize(account *accountdomain.Account) *accountdomain.Account {
	clean := *account
	clean.AccessToken = ""
	clean.RefreshToken = ""
	clean.EncryptedPassword = ""
	return &clean
}
