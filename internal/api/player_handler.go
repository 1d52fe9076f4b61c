package api

import (
	"fmt"
	"net/http"

	"DugoutSync/internal/model"
	"DugoutSync/internal/repository"
	"DugoutSync/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PlayerHandler 球员名册接口
type PlayerHandler struct {
	playerRepo repository.PlayerRepository
	logger     *logrus.Logger
}

// NewPlayerHandler 创建 PlayerHandler
func NewPlayerHandler(store *storage.Store, logger *logrus.Logger) *PlayerHandler {
	return &PlayerHandler{
		playerRepo: repository.NewPlayerRepository(store),
		logger:     logger,
	}
}

// ListPlayers 全部球员
// GET /players
func (h *PlayerHandler) ListPlayers(c *gin.Context) {
	players, err := h.playerRepo.List()
	if err != nil {
		h.logger.WithError(err).Error("读取球员列表失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, players)
}

// CreatePlayer 创建球员（服务端生成ID，状态默认active）
// POST /players
func (h *PlayerHandler) CreatePlayer(c *gin.Context) {
	var body model.PlayerCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := body.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	player := model.Player{
		ID:                 uuid.NewString(),
		Name:               body.Name,
		Number:             body.Number,
		PrimaryPosition:    body.PrimaryPosition,
		SecondaryPositions: body.SecondaryPositions,
		Bats:               body.Bats,
		Throws:             body.Throws,
		Status:             "active",
		Notes:              body.Notes,
	}
	if err := h.playerRepo.Add(player); err != nil {
		h.logger.WithError(err).Error("保存球员失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, player)
}

// GetPlayer 按ID查询球员
// GET /players/:player_id
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	playerID := c.Param("player_id")
	player, err := h.playerRepo.GetByID(playerID)
	if err != nil {
		h.logger.WithError(err).Error("读取球员失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if player == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Player with ID %s not found", playerID)})
		return
	}
	c.JSON(http.StatusOK, player)
}

// UpdatePlayer 局部更新球员（只改提供的字段，空更新报400）
// PUT /players/:player_id
func (h *PlayerHandler) UpdatePlayer(c *gin.Context) {
	playerID := c.Param("player_id")

	var body model.PlayerUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if !body.HasFields() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields provided to update"})
		return
	}
	if err := body.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.playerRepo.Update(playerID, &body)
	if err != nil {
		h.logger.WithError(err).Error("更新球员失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Player with ID %s not found", playerID)})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeletePlayer 删除球员并级联清理打线、守位和已存配置里的引用
// DELETE /players/:player_id
func (h *PlayerHandler) DeletePlayer(c *gin.Context) {
	playerID := c.Param("player_id")

	deleted, cleanup, err := h.playerRepo.Delete(playerID)
	if err != nil {
		h.logger.WithError(err).Error("删除球员失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Player with ID %s not found", playerID)})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"player_id":               playerID,
		"lineup_slots_cleared":    cleanup.LineupSlotsCleared,
		"field_positions_cleared": cleanup.FieldPositionsCleared,
		"configurations_updated":  cleanup.ConfigurationsUpdated,
	}).Info("球员已删除，引用已清理")
	c.Status(http.StatusNoContent)
}
