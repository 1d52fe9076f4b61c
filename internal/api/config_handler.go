package api

import (
	"fmt"
	"net/http"
	"time"

	"DugoutSync/internal/model"
	"DugoutSync/internal/repository"
	"DugoutSync/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ConfigHandler 已存阵容配置接口
type ConfigHandler struct {
	configRepo repository.ConfigurationRepository
	logger     *logrus.Logger
}

// NewConfigHandler 创建 ConfigHandler
func NewConfigHandler(store *storage.Store, logger *logrus.Logger) *ConfigHandler {
	return &ConfigHandler{
		configRepo: repository.NewConfigurationRepository(store),
		logger:     logger,
	}
}

// ListConfigurations 全部已存配置
// GET /configurations
func (h *ConfigHandler) ListConfigurations(c *gin.Context) {
	configs, err := h.configRepo.List()
	if err != nil {
		h.logger.WithError(err).Error("读取配置列表失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, configs)
}

// CreateConfiguration 把一套打线+守位存成命名配置
// POST /configurations
func (h *ConfigHandler) CreateConfiguration(c *gin.Context) {
	var body model.ConfigurationCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := body.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	config := model.Configuration{
		ID:                uuid.NewString(),
		Name:              body.Name,
		Lineup:            body.Lineup,
		FieldPositions:    body.FieldPositions,
		UseDH:             body.UseDH,
		Notes:             body.Notes,
		LastUsedTimestamp: time.Now().Format(time.RFC3339),
	}
	if err := h.configRepo.Save(config); err != nil {
		h.logger.WithError(err).Error("保存配置失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, config)
}

// GetConfiguration 按ID加载配置，加载即刷新last_used_timestamp并落盘
// GET /configurations/:config_id
func (h *ConfigHandler) GetConfiguration(c *gin.Context) {
	configID := c.Param("config_id")
	config, err := h.configRepo.GetByID(configID)
	if err != nil {
		h.logger.WithError(err).Error("读取配置失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if config == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Configuration with ID %s not found", configID)})
		return
	}

	config.LastUsedTimestamp = time.Now().Format(time.RFC3339)
	if err := h.configRepo.Save(*config); err != nil {
		h.logger.WithError(err).Error("刷新配置使用时间失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, config)
}

// DeleteConfiguration 删除配置
// DELETE /configurations/:config_id
func (h *ConfigHandler) DeleteConfiguration(c *gin.Context) {
	configID := c.Param("config_id")
	deleted, err := h.configRepo.Delete(configID)
	if err != nil {
		h.logger.WithError(err).Error("删除配置失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Configuration with ID %s not found", configID)})
		return
	}
	c.Status(http.StatusNoContent)
}
