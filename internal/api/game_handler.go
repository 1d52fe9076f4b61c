package api

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"DugoutSync/internal/model"
	"DugoutSync/internal/repository"
	"DugoutSync/internal/service"
	"DugoutSync/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// GameHandler 比赛与统计接口
type GameHandler struct {
	gameRepo     repository.GameRepository
	statsRepo    repository.GameStatsRepository
	playerRepo   repository.PlayerRepository
	statsService *service.StatsService
	logger       *logrus.Logger
}

// NewGameHandler 创建 GameHandler
func NewGameHandler(store *storage.Store, logger *logrus.Logger) *GameHandler {
	statsRepo := repository.NewGameStatsRepository(store)
	gameRepo := repository.NewGameRepository(store, statsRepo)
	return &GameHandler{
		gameRepo:     gameRepo,
		statsRepo:    statsRepo,
		playerRepo:   repository.NewPlayerRepository(store),
		statsService: service.NewStatsService(statsRepo, gameRepo, logger),
		logger:       logger,
	}
}

// ListGames 全部比赛，按日期倒序（最近的在前）。
// 读取时顺带修复老记录缺失的source/status。
// GET /games
func (h *GameHandler) ListGames(c *gin.Context) {
	games, err := h.gameRepo.List()
	if err != nil {
		h.logger.WithError(err).Error("读取比赛列表失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].Date > games[j].Date
	})
	c.JSON(http.StatusOK, games)
}

// CreateGame 创建比赛。status由result推断：有result即completed，否则scheduled
// POST /games
func (h *GameHandler) CreateGame(c *gin.Context) {
	var body model.GameCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := body.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	game := model.Game{
		ID:        uuid.NewString(),
		Date:      body.Date,
		Opponent:  body.Opponent,
		HomeAway:  body.HomeAway,
		Result:    body.Result,
		ScoreUs:   body.ScoreUs,
		ScoreThem: body.ScoreThem,
		Notes:     body.Notes,
		CreatedAt: time.Now().Format(time.RFC3339),
		Source:    body.Source,
	}
	game.Normalize()

	if err := h.gameRepo.Add(game); err != nil {
		h.logger.WithError(err).Error("保存比赛失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, game)
}

// GetGame 按ID查询比赛
// GET /games/:game_id
func (h *GameHandler) GetGame(c *gin.Context) {
	gameID := c.Param("game_id")
	game, err := h.gameRepo.GetByID(gameID)
	if err != nil {
		h.logger.WithError(err).Error("读取比赛失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if game == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Game with ID %s not found", gameID)})
		return
	}
	c.JSON(http.StatusOK, game)
}

// UpdateGame 局部更新比赛（补填result会同时把status置为completed）
// PUT /games/:game_id
func (h *GameHandler) UpdateGame(c *gin.Context) {
	gameID := c.Param("game_id")

	var body model.GameUpdate
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

	updated, err := h.gameRepo.Update(gameID, &body)
	if err != nil {
		h.logger.WithError(err).Error("更新比赛失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Game with ID %s not found", gameID)})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteGame 删除比赛并级联删除该场全部统计
// DELETE /games/:game_id
func (h *GameHandler) DeleteGame(c *gin.Context) {
	gameID := c.Param("game_id")

	deleted, statsDeleted, err := h.gameRepo.Delete(gameID)
	if err != nil {
		h.logger.WithError(err).Error("删除比赛失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Game with ID %s not found", gameID)})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"game_id":       gameID,
		"stats_deleted": statsDeleted,
	}).Info("比赛已删除")
	c.Status(http.StatusNoContent)
}

// GetGameStats 一场比赛的全部球员统计
// GET /games/:game_id/stats
func (h *GameHandler) GetGameStats(c *gin.Context) {
	gameID := c.Param("game_id")
	game, err := h.gameRepo.GetByID(gameID)
	if err != nil {
		h.logger.WithError(err).Error("读取比赛失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if game == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Game with ID %s not found", gameID)})
		return
	}

	stats, err := h.statsRepo.ByGame(gameID)
	if err != nil {
		h.logger.WithError(err).Error("读取比赛统计失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// SaveGameStats 批量录入/覆盖一场比赛多名球员的统计。任一球员不存在则整批拒绝；
// 保存成功后比赛自动标记为completed。
// POST /games/:game_id/stats
func (h *GameHandler) SaveGameStats(c *gin.Context) {
	gameID := c.Param("game_id")
	game, err := h.gameRepo.GetByID(gameID)
	if err != nil {
		h.logger.WithError(err).Error("读取比赛失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if game == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Game with ID %s not found", gameID)})
		return
	}

	var body model.BulkGameStatsCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	stats := make([]model.GameStats, 0, len(body.Stats))
	for _, entry := range body.Stats {
		player, err := h.playerRepo.GetByID(entry.PlayerID)
		if err != nil {
			h.logger.WithError(err).Error("读取球员失败")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if player == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Player with ID %s not found", entry.PlayerID)})
			return
		}
		stats = append(stats, entry.ToGameStats(gameID))
	}

	if err := h.statsRepo.SaveMany(stats); err != nil {
		h.logger.WithError(err).Error("保存比赛统计失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := h.gameRepo.MarkCompleted(gameID); err != nil {
		h.logger.WithError(err).Warn("标记比赛完成失败")
	}
	c.JSON(http.StatusOK, stats)
}

// GetPlayerStats 一名球员的全部单场统计，按比赛日期倒序
// GET /players/:player_id/stats
func (h *GameHandler) GetPlayerStats(c *gin.Context) {
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

	stats, err := h.statsService.PlayerGameLog(playerID)
	if err != nil {
		h.logger.WithError(err).Error("读取球员统计失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetPlayerSeasonStats 一名球员的赛季汇总
// GET /players/:player_id/stats/season
func (h *GameHandler) GetPlayerSeasonStats(c *gin.Context) {
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

	season, err := h.statsService.PlayerSeason(playerID)
	if err != nil {
		h.logger.WithError(err).Error("汇总赛季统计失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, season)
}
