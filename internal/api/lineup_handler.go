package api

import (
	"net/http"

	"DugoutSync/internal/model"
	"DugoutSync/internal/repository"
	"DugoutSync/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LineupHandler 打线与守位接口（两者都是整体替换式更新）
type LineupHandler struct {
	lineupRepo repository.LineupRepository
	logger     *logrus.Logger
}

// NewLineupHandler 创建 LineupHandler
func NewLineupHandler(store *storage.Store, logger *logrus.Logger) *LineupHandler {
	return &LineupHandler{
		lineupRepo: repository.NewLineupRepository(store),
		logger:     logger,
	}
}

// GetLineup 当前打线
// GET /lineup
func (h *LineupHandler) GetLineup(c *gin.Context) {
	lineup, err := h.lineupRepo.GetLineup()
	if err != nil {
		h.logger.WithError(err).Error("读取打线失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, lineup)
}

// UpdateLineup 整体替换打线，必须是1-9棒各一个
// PUT /lineup
func (h *LineupHandler) UpdateLineup(c *gin.Context) {
	var body model.LineupUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := model.ValidateLineup(body.Lineup); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.lineupRepo.SaveLineup(body.Lineup); err != nil {
		h.logger.WithError(err).Error("保存打线失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, body.Lineup)
}

// GetField 当前守备布阵
// GET /field
func (h *LineupHandler) GetField(c *gin.Context) {
	positions, err := h.lineupRepo.GetField()
	if err != nil {
		h.logger.WithError(err).Error("读取守位失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, positions)
}

// UpdateField 整体替换守备布阵，9个基础守位必须齐全，DH可选
// PUT /field
func (h *LineupHandler) UpdateField(c *gin.Context) {
	var body model.FieldUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := model.ValidateFieldSet(body.FieldPositions); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.lineupRepo.SaveField(body.FieldPositions); err != nil {
		h.logger.WithError(err).Error("保存守位失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, body.FieldPositions)
}
