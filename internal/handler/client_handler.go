package handler

import (
	"net/http"

	"letsarc/internal/service/clients"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ClientHandler struct {
	directory *clients.Directory
	logger    *zap.Logger
}

func NewClientHandler(directory *clients.Directory, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{directory: directory, logger: logger}
}

// GetClients handles GET /api/clients by relaying the external user store's
// directory, cached.
func (h *ClientHandler) GetClients(c *gin.Context) {
	list, err := h.directory.List(c.Request.Context())
	if err != nil {
		h.logger.Error("GetClients: failed to fetch client directory", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch clients"})
		return
	}

	if list == nil {
		list = []clients.Client{}
	}
	c.JSON(http.StatusOK, list)
}
