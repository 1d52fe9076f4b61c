package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"DugoutSync/internal/model"

	"github.com/sirupsen/logrus"
)

// 集合文件名。每个实体类型独占一个JSON文件，整存整取。
const (
	FilePlayers        = "players.json"
	FileLineup         = "lineup.json"
	FileField          = "field.json"
	FileConfigurations = "configurations.json"
	FileGames          = "games.json"
	FileGameStats      = "game_stats.json"
)

// Store JSON文件集合存储。写入走临时文件+rename保证原子替换，
// 进程内用单把互斥锁串行化所有写入。读-改-写的整个周期不加锁，
// 并发更新同一实体时后写覆盖先写（单教练本地工具的取舍，保持原样）。
type Store struct {
	dataDir string
	mu      sync.Mutex
	logger  *logrus.Logger
}

// NewStore 创建存储实例，确保数据目录存在并播种缺失的集合文件
func NewStore(dataDir string, logger *logrus.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}
	s := &Store{dataDir: dataDir, logger: logger}
	if err := s.initDefaults(); err != nil {
		return nil, err
	}
	return s, nil
}

// DataDir 数据目录路径（启动日志用）
func (s *Store) DataDir() string {
	return s.dataDir
}

// initDefaults 集合文件不存在时写入默认内容：
// 空的球员/配置/比赛/统计列表、9个空棒次、9个空的基础守位。
func (s *Store) initDefaults() error {
	if err := s.seedIfMissing(FilePlayers, []model.Player{}); err != nil {
		return err
	}

	defaultLineup := make([]model.LineupSlot, 0, 9)
	for i := 1; i <= 9; i++ {
		defaultLineup = append(defaultLineup, model.LineupSlot{SlotNumber: i})
	}
	if err := s.seedIfMissing(FileLineup, defaultLineup); err != nil {
		return err
	}

	defaultField := make([]model.FieldPosition, 0, 9)
	for _, pos := range model.BasePositions {
		defaultField = append(defaultField, model.FieldPosition{Position: pos})
	}
	if err := s.seedIfMissing(FileField, defaultField); err != nil {
		return err
	}

	if err := s.seedIfMissing(FileConfigurations, []model.Configuration{}); err != nil {
		return err
	}
	if err := s.seedIfMissing(FileGames, []model.Game{}); err != nil {
		return err
	}
	return s.seedIfMissing(FileGameStats, []model.GameStats{})
}

func (s *Store) seedIfMissing(filename string, data any) error {
	if _, err := os.Stat(s.filePath(filename)); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("检查集合文件%s失败: %w", filename, err)
	}
	s.logger.WithField("file", filename).Info("集合文件不存在，写入默认内容")
	return s.Save(filename, data)
}

func (s *Store) filePath(filename string) string {
	return filepath.Join(s.dataDir, filename)
}

// Load 读取整个集合并反序列化到v
func (s *Store) Load(filename string, v any) error {
	raw, err := os.ReadFile(s.filePath(filename))
	if err != nil {
		return fmt.Errorf("读取集合文件%s失败: %w", filename, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("解析集合文件%s失败: %w", filename, err)
	}
	return nil
}

// Save 整体写回集合。先写<name>.tmp再rename，写入期间持有全局写锁。
func (s *Store) Save(filename string, data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化集合%s失败: %w", filename, err)
	}

	tmpPath := s.filePath(filename + ".tmp")
	if err := os.WriteFile(tmpPath, raw, 0o644); err != nil {
		return fmt.Errorf("写入临时文件%s失败: %w", filename, err)
	}
	if err := os.Rename(tmpPath, s.filePath(filename)); err != nil {
		return fmt.Errorf("原子替换集合文件%s失败: %w", filename, err)
	}
	return nil
}
