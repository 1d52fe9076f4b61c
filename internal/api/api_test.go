package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"DugoutSync/internal/model"
	"DugoutSync/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	store, err := storage.NewStore(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	r := gin.New()
	playerHandler := NewPlayerHandler(store, logger)
	r.GET("/players", playerHandler.ListPlayers)
	r.POST("/players", playerHandler.CreatePlayer)
	r.GET("/players/:player_id", playerHandler.GetPlayer)
	r.PUT("/players/:player_id", playerHandler.UpdatePlayer)
	r.DELETE("/players/:player_id", playerHandler.DeletePlayer)

	lineupHandler := NewLineupHandler(store, logger)
	r.GET("/lineup", lineupHandler.GetLineup)
	r.PUT("/lineup", lineupHandler.UpdateLineup)
	r.GET("/field", lineupHandler.GetField)
	r.PUT("/field", lineupHandler.UpdateField)

	gameHandler := NewGameHandler(store, logger)
	r.GET("/games", gameHandler.ListGames)
	r.POST("/games", gameHandler.CreateGame)
	r.GET("/games/:game_id", gameHandler.GetGame)
	r.POST("/games/:game_id/stats", gameHandler.SaveGameStats)
	r.GET("/players/:player_id/stats/season", gameHandler.GetPlayerSeasonStats)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body failed: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestPlayerCRUDFlow 创建→查询→更新→删除的完整闭环
func TestPlayerCRUDFlow(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/players", gin.H{
		"name": "Casey Jones", "number": 12, "primary_position": "SS",
		"bats": "L", "throws": "R",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created model.Player
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created player: %v", err)
	}
	if created.ID == "" {
		t.Fatal("server did not assign an ID")
	}
	if created.Status != "active" {
		t.Errorf("Status = %q, want active", created.Status)
	}

	w = doJSON(t, r, http.MethodGet, "/players/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPut, "/players/"+created.ID, gin.H{"status": "inactive"})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", w.Code, w.Body.String())
	}
	var updated model.Player
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Status != "inactive" || updated.Name != "Casey Jones" {
		t.Errorf("partial update wrong: %+v", updated)
	}

	// 空更新报400
	w = doJSON(t, r, http.MethodPut, "/players/"+created.ID, gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty update status = %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, "/players/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/players/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", w.Code)
	}
}

// TestCreatePlayerValidation 非法请求体返回422
func TestCreatePlayerValidation(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/players", gin.H{
		"name": "A", "primary_position": "SS", "bats": "L", "throws": "R",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

// TestLineupEndpointValidation 打线整体替换的校验
func TestLineupEndpointValidation(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/lineup", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get lineup status = %d", w.Code)
	}
	var lineup []model.LineupSlot
	json.Unmarshal(w.Body.Bytes(), &lineup)
	if len(lineup) != 9 {
		t.Fatalf("default lineup has %d slots", len(lineup))
	}

	// 8个棒次：拒绝
	w = doJSON(t, r, http.MethodPut, "/lineup", gin.H{"lineup": lineup[:8]})
	if w.Code != http.StatusBadRequest {
		t.Errorf("short lineup status = %d, want 400", w.Code)
	}

	// 完整打线：通过
	w = doJSON(t, r, http.MethodPut, "/lineup", gin.H{"lineup": lineup})
	if w.Code != http.StatusOK {
		t.Errorf("full lineup status = %d, body = %s", w.Code, w.Body.String())
	}
}

// TestFieldEndpointValidation 守位整体替换：DH可选但基础9位必须齐全
func TestFieldEndpointValidation(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/field", nil)
	var field []model.FieldPosition
	json.Unmarshal(w.Body.Bytes(), &field)

	withDH := append(append([]model.FieldPosition{}, field...), model.FieldPosition{Position: "DH"})
	w = doJSON(t, r, http.MethodPut, "/field", gin.H{"field_positions": withDH})
	if w.Code != http.StatusOK {
		t.Errorf("field with DH status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPut, "/field", gin.H{"field_positions": field[:8]})
	if w.Code != http.StatusBadRequest {
		t.Errorf("incomplete field status = %d, want 400", w.Code)
	}
}

// TestListGamesSortedByDate 比赛列表按日期倒序，最近的在前
func TestListGamesSortedByDate(t *testing.T) {
	r := newTestRouter(t)

	for _, date := range []string{"2026-04-01", "2026-04-10", "2026-04-05"} {
		w := doJSON(t, r, http.MethodPost, "/games", gin.H{"date": date, "opponent": "Hawks"})
		if w.Code != http.StatusCreated {
			t.Fatalf("create game %s status = %d", date, w.Code)
		}
	}

	w := doJSON(t, r, http.MethodGet, "/games", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var games []model.Game
	json.Unmarshal(w.Body.Bytes(), &games)

	want := []string{"2026-04-10", "2026-04-05", "2026-04-01"}
	if len(games) != len(want) {
		t.Fatalf("got %d games, want %d", len(games), len(want))
	}
	for i, date := range want {
		if games[i].Date != date {
			t.Errorf("games[%d].Date = %s, want %s", i, games[i].Date, date)
		}
	}
}

// TestGameStatsFlow 建比赛→录统计→赛季汇总，录统计后比赛completed
func TestGameStatsFlow(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/players", gin.H{
		"name": "Casey Jones", "primary_position": "SS", "bats": "L", "throws": "R",
	})
	var player model.Player
	json.Unmarshal(w.Body.Bytes(), &player)

	w = doJSON(t, r, http.MethodPost, "/games", gin.H{"date": "2026-04-01", "opponent": "Hawks"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create game status = %d, body = %s", w.Code, w.Body.String())
	}
	var game model.Game
	json.Unmarshal(w.Body.Bytes(), &game)
	if game.Status != model.GameStatusScheduled || game.Source != model.GameSourceManual {
		t.Errorf("inferred fields wrong: %+v", game)
	}

	// 球员不存在：整批404
	w = doJSON(t, r, http.MethodPost, "/games/"+game.ID+"/stats", gin.H{
		"stats": []gin.H{{"player_id": "ghost", "ab": 3}},
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown player status = %d, want 404", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/games/"+game.ID+"/stats", gin.H{
		"stats": []gin.H{{"player_id": player.ID, "ab": 4, "h": 2, "doubles": 1, "bb": 1}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("save stats status = %d, body = %s", w.Code, w.Body.String())
	}

	// 录完统计比赛应为completed
	w = doJSON(t, r, http.MethodGet, "/games/"+game.ID, nil)
	json.Unmarshal(w.Body.Bytes(), &game)
	if game.Status != model.GameStatusCompleted {
		t.Errorf("game status = %q, want completed", game.Status)
	}

	w = doJSON(t, r, http.MethodGet, "/players/"+player.ID+"/stats/season", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("season status = %d", w.Code)
	}
	var season model.SeasonStats
	json.Unmarshal(w.Body.Bytes(), &season)
	if season.GamesPlayed != 1 {
		t.Errorf("GamesPlayed = %d, want 1", season.GamesPlayed)
	}
	if avg, ok := season.Hitting["avg"].(float64); !ok || avg != 0.5 {
		t.Errorf("avg = %v, want 0.5", season.Hitting["avg"])
	}
}
