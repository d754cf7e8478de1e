package mcagent

import (
	"encoding/json"

	"github.com/go-gl/mathgl/mgl64"
)

// ========================= wire-протокол агента =========================
//
// Запрос:  {"op":"chat","seq":3,"data":{...}}
// Ответ:   {"type":"response","seq":3,"ok":true,"data":{...}}
// Событие: {"type":"event","event":"chat","data":{...}}

type request struct {
	Op   string      `json:"op"`
	Seq  uint32      `json:"seq"`
	Data interface{} `json:"data,omitempty"`
}

type envelope struct {
	Type  string          `json:"type"`
	Seq   uint32          `json:"seq,omitempty"`
	OK    bool            `json:"ok,omitempty"`
	Error string          `json:"error,omitempty"`
	Event string          `json:"event,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Config — параметры игрового подключения, которые агент передаст mineflayer.
type Config struct {
	AgentURL string `json:"-"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Auth     string `json:"auth,omitempty"`
	Version  string `json:"version,omitempty"`
}

// Player — снимок игрока из авторитетного списка сервера.
// Position == nil, если сущность игрока вне зоны видимости бота.
type Player struct {
	Ping     int         `json:"ping"`
	Position *mgl64.Vec3 `json:"position,omitempty"`
}

// Entity — видимая сущность мира.
type Entity struct {
	ID       int        `json:"id"`
	Type     string     `json:"type"`
	Name     string     `json:"name,omitempty"`
	Position mgl64.Vec3 `json:"position"`
}

// Movement — конфигурация передвижения pathfinder-а.
type Movement struct {
	AllowSprint bool `json:"allowSprint"`
	CanDig      bool `json:"canDig"`
	MaxDropDown int  `json:"maxDropDown"`
}

// Goal — цель передвижения: подойти к точке на дистанцию Range.
type Goal struct {
	Position mgl64.Vec3 `json:"position"`
	Range    float64    `json:"range"`
}

// GotoResult — итог goto-запроса: дошёл ли pathfinder и финальная
// дистанция до цели.
type GotoResult struct {
	Arrived  bool    `json:"arrived"`
	Distance float64 `json:"distance"`
}

// данные событий

type helloData struct {
	Username   string `json:"username"`
	Navigation bool   `json:"navigation"`
}

type chatData struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

type playerData struct {
	Username string `json:"username"`
}

type kickedData struct {
	Reason string `json:"reason"`
}

type errorData struct {
	Message string `json:"message"`
}

type entityGoneData struct {
	ID int `json:"id"`
}

type snapshotData struct {
	Players   map[string]Player `json:"players"`
	TimeOfDay int               `json:"timeOfDay"`
	Raining   bool              `json:"raining"`
	Self      *mgl64.Vec3       `json:"self,omitempty"`
}
