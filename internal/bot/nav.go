package bot

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/EgorLis/mcbridge/internal/mcagent"
	"github.com/EgorLis/mcbridge/pkg/logger"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	followRange       = 2.0  // подойти на столько блоков к цели
	arriveDistance    = 4.0  // ближе — считаем "дошёл"
	attackRange       = 32.0 // радиус ручного поиска цели
	reactRange        = 3.0  // реактивная атака на близкую угрозу
	defaultAutoRadius = 5.0
)

// фиксированный список враждебных типов для авто-атаки
var hostileTypes = map[string]bool{
	"zombie":   true,
	"skeleton": true,
	"spider":   true,
	"creeper":  true,
	"witch":    true,
	"enderman": true,
}

type followState struct {
	target string
	active bool
}

type attackState struct {
	targetID  int
	active    bool
	expiresAt time.Time
}

type autoAttackConfig struct {
	enabled bool
	radius  float64
}

// ========================= follow =========================

func (b *Bridge) startFollow(name string) error {
	s := b.session()
	if s == nil {
		return ErrOffline
	}
	pos, ok := s.PlayerPosition(name)
	if !ok {
		return fmt.Errorf("player %s is not online or not visible", name)
	}

	b.navMu.Lock()
	b.follow = followState{target: name, active: true}
	b.navMu.Unlock()

	return s.SetGoal(&mcagent.Goal{Position: pos, Range: followRange})
}

func (b *Bridge) stopFollow() {
	b.navMu.Lock()
	active := b.follow.active
	b.follow = followState{}
	b.navMu.Unlock()

	if active {
		if s := b.session(); s != nil {
			_ = s.SetGoal(nil)
		}
	}
}

// followLoop раз в 3с переустанавливает цель по свежей позиции игрока.
// Если игрок пропал из зоны видимости — следование снимается само.
func (b *Bridge) followLoop(stop <-chan struct{}) {
	defer b.wg.Done()
	t := time.NewTicker(followInterval)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
			b.refreshFollow()
		}
	}
}

func (b *Bridge) refreshFollow() {
	b.navMu.Lock()
	target, active := b.follow.target, b.follow.active
	b.navMu.Unlock()
	if !active {
		return
	}
	s := b.session()
	if s == nil {
		return
	}
	pos, ok := s.PlayerPosition(target)
	if !ok {
		b.clearFollow()
		b.toBridge(fmt.Sprintf("⚠️ Lost track of **%s**, stopped following.", target))
		return
	}
	if err := s.SetGoal(&mcagent.Goal{Position: pos, Range: followRange}); err != nil {
		logger.Log.WithError(err).Warn("follow goal refresh failed")
		b.clearFollow()
	}
}

func (b *Bridge) clearFollow() {
	b.navMu.Lock()
	b.follow = followState{}
	b.navMu.Unlock()
}

// ========================= comehere (goto) =========================

// comeHere отправляет бота к текущей позиции игрока (снапшот, не
// трекинг). Итог строго один из трёх: дошёл / частично / таймаут.
// Гонку "завершение против таймера" решает флаг done: действует тот,
// кто первым его перевернул.
func (b *Bridge) comeHere(channelID, name string) {
	s := b.session()
	if s == nil {
		b.sendTemp(channelID, "⚠️ Not connected to Minecraft server. Try again later.")
		return
	}
	pos, ok := s.PlayerPosition(name)
	if !ok {
		b.sendTemp(channelID, fmt.Sprintf("⚠️ Player **%s** is not online or not visible.", name))
		return
	}

	_ = s.SetGoal(nil)
	_ = s.SetMovement(defaultMovement)

	var done atomic.Bool
	timer := time.AfterFunc(b.gotoTimeout, func() {
		if !done.CompareAndSwap(false, true) {
			return
		}
		_ = s.SetGoal(nil)
		b.send(channelID, fmt.Sprintf("⏱️ Could not reach **%s** in time.", name))
	})

	err := s.Goto(mcagent.Goal{Position: pos, Range: followRange}, func(res mcagent.GotoResult, err error) {
		if !done.CompareAndSwap(false, true) {
			return
		}
		timer.Stop()
		switch {
		case err != nil:
			b.send(channelID, fmt.Sprintf("⚠️ Navigation error: %v", err))
		case res.Distance <= arriveDistance:
			b.send(channelID, fmt.Sprintf("✅ Arrived at **%s**.", name))
		default:
			b.send(channelID, fmt.Sprintf("⚠️ Stopped %.1f blocks away from **%s**.", res.Distance, name))
		}
	})
	if err != nil && done.CompareAndSwap(false, true) {
		timer.Stop()
		b.send(channelID, fmt.Sprintf("⚠️ Navigation error: %v", err))
	}
}

// ========================= attack =========================

// beginAttack — единственный in-flight флаг атаки: пока он взведён,
// новые атаки (ручные и авто) отклоняются.
func (b *Bridge) beginAttack(targetID int) bool {
	b.navMu.Lock()
	defer b.navMu.Unlock()
	// просроченный флаг не блокирует: таймер мог не успеть снять его
	if b.attack.active && time.Now().Before(b.attack.expiresAt) {
		return false
	}
	b.attack = attackState{
		targetID:  targetID,
		active:    true,
		expiresAt: time.Now().Add(b.attackCooldown),
	}
	return true
}

func (b *Bridge) releaseAttack() {
	b.navMu.Lock()
	b.attack = attackState{}
	b.navMu.Unlock()
}

// engage — собственно боевая последовательность: сброс цели, конфиг
// передвижения, подход, взгляд, один удар. Флаг снимается строго по
// таймеру, независимо от исхода.
func (b *Bridge) engage(s mcagent.Session, e mcagent.Entity) {
	_ = s.SetGoal(nil)
	_ = s.SetMovement(defaultMovement)
	_ = s.SetGoal(&mcagent.Goal{Position: e.Position, Range: followRange})
	_ = s.LookAt(e.Position)
	if err := s.Attack(e.ID); err != nil {
		logger.Log.WithError(err).Warn("attack failed")
	}
	time.AfterFunc(b.attackCooldown, b.releaseAttack)
}

func (b *Bridge) manualAttack(channelID, mobType string) {
	s := b.session()
	if s == nil {
		b.sendTemp(channelID, "⚠️ Not connected to Minecraft server. Try again later.")
		return
	}
	self, ok := s.Position()
	if !ok {
		b.sendTemp(channelID, "⚠️ Bot position unknown.")
		return
	}
	q := strings.ToLower(mobType)
	target, found := nearestEntity(s.Entities(), self, attackRange, func(e mcagent.Entity) bool {
		return e.Type != "player" && strings.Contains(strings.ToLower(e.Type), q)
	})
	if !found {
		b.sendTemp(channelID, fmt.Sprintf("No matching mob found within %g blocks.", attackRange))
		return
	}
	if !b.beginAttack(target.ID) {
		b.sendTemp(channelID, "⚠️ Attack already in progress.")
		return
	}
	b.send(channelID, fmt.Sprintf("🗡️ Attacking **%s**.", target.Type))
	b.engage(s, target)
}

// autoEngage — атака по инициативе сканера/реактивного триггера.
// Молча уступает, если атака уже идёт.
func (b *Bridge) autoEngage(s mcagent.Session, e mcagent.Entity) {
	if !b.beginAttack(e.ID) {
		return
	}
	b.toBridge(fmt.Sprintf("⚔️ Hostile **%s** nearby, engaging.", e.Type))
	b.engage(s, e)
}

// scanLoop каждые 2с ищет ближайшую враждебную сущность в радиусе
// автообороны.
func (b *Bridge) scanLoop(stop <-chan struct{}) {
	defer b.wg.Done()
	t := time.NewTicker(scanInterval)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
			b.scanTick()
		}
	}
}

func (b *Bridge) scanTick() {
	b.navMu.Lock()
	enabled, radius := b.auto.enabled, b.auto.radius
	b.navMu.Unlock()
	if !enabled {
		return
	}
	s := b.session()
	if s == nil || !s.HasEntity() {
		return
	}
	self, ok := s.Position()
	if !ok {
		return
	}
	if target, found := nearestEntity(s.Entities(), self, radius, isHostile); found {
		b.autoEngage(s, target)
	}
}

// onHostileNearby — реактивный триггер на появление/движение сущности:
// враждебная цель ближе 3 блоков атакуется, не дожидаясь сканера.
func (b *Bridge) onHostileNearby(s mcagent.Session, e mcagent.Entity) {
	b.navMu.Lock()
	enabled := b.auto.enabled
	b.navMu.Unlock()
	if !enabled || !isHostile(e) {
		return
	}
	self, ok := s.Position()
	if !ok || self.Sub(e.Position).Len() > reactRange {
		return
	}
	b.autoEngage(s, e)
}

func (b *Bridge) handleAutoAttack(m Message, args []string) {
	if len(args) < 1 {
		b.sendTemp(m.ChannelID, "Usage: !mc autoattack <on|off> [radius]")
		return
	}
	switch strings.ToLower(args[0]) {
	case "on":
		radius := float64(defaultAutoRadius)
		if len(args) >= 2 {
			if v, err := strconv.ParseFloat(args[1], 64); err == nil && v > 0 {
				radius = v
			}
		}
		b.navMu.Lock()
		b.auto = autoAttackConfig{enabled: true, radius: radius}
		b.navMu.Unlock()
		b.send(m.ChannelID, fmt.Sprintf("🛡️ Auto-attack enabled (radius %g blocks).", radius))
	case "off":
		b.navMu.Lock()
		b.auto.enabled = false
		b.navMu.Unlock()
		b.send(m.ChannelID, "🛡️ Auto-attack disabled.")
	default:
		b.sendTemp(m.ChannelID, "Usage: !mc autoattack <on|off> [radius]")
	}
}

// ========================= утилиты =========================

func isHostile(e mcagent.Entity) bool {
	return hostileTypes[strings.ToLower(e.Type)]
}

func nearestEntity(entities []mcagent.Entity, from mgl64.Vec3, maxDist float64, match func(mcagent.Entity) bool) (mcagent.Entity, bool) {
	var best mcagent.Entity
	bestDist := maxDist
	found := false
	for _, e := range entities {
		if !match(e) {
			continue
		}
		if d := from.Sub(e.Position).Len(); d <= bestDist {
			best, bestDist, found = e, d, true
		}
	}
	return best, found
}
