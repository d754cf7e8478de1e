package bot

import (
	"errors"
	"fmt"
	"time"

	"github.com/EgorLis/mcbridge/internal/mcagent"
	"github.com/EgorLis/mcbridge/pkg/logger"
)

// ErrOffline возвращается операциями, которым нужна живая сессия.
var ErrOffline = errors.New("not connected to minecraft server")

// дефолты передвижения, применяются на spawn при наличии навигации
var defaultMovement = mcagent.Movement{
	AllowSprint: true,
	CanDig:      false,
	MaxDropDown: 4,
}

// Connect — идемпотентная точка входа супервизора: первый коннект,
// реконнект по таймеру и явный restart проходят через неё.
func (b *Bridge) Connect() {
	logger.Log.Info("attempting to connect to minecraft server")

	s := b.dial()
	b.subscribe(s)

	b.mu.Lock()
	old := b.sess
	b.sess = s
	b.lastHealth = time.Now()
	b.mu.Unlock()
	if old != nil {
		old.Quit()
	}

	if err := s.Connect(b.ctx); err != nil {
		logger.Log.WithError(err).Error("minecraft connect failed")
		b.mu.Lock()
		if b.sess == s {
			b.sess = nil
		}
		b.mu.Unlock()
		b.failed(nil, func() {
			b.toBridge(fmt.Sprintf("⚠️ Connection error: %v. Attempting to reconnect in 30 seconds...", err))
		})
	}
}

// failed — единственный путь обработки отказа сессии. Гарантирует не
// более одного запланированного реконнекта: повторный сигнал отказа до
// срабатывания таймера — no-op.
func (b *Bridge) failed(s mcagent.Session, notify func()) {
	b.mu.Lock()
	if s != nil && s != b.sess {
		// сигнал от уже заменённой сессии
		b.mu.Unlock()
		return
	}
	b.online = false
	if b.pendingReconnect {
		b.mu.Unlock()
		return
	}
	b.pendingReconnect = true
	b.mu.Unlock()

	b.dc.SetPresence(false)
	if notify != nil {
		notify()
	}
	time.AfterFunc(b.reconnectDelay, b.reconnect)
}

func (b *Bridge) reconnect() {
	b.mu.Lock()
	b.pendingReconnect = false
	if b.online {
		// сессия успела ожить, пока таймер ждал
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()
	b.Connect()
}

func (b *Bridge) handleSpawn(s mcagent.Session) {
	b.mu.Lock()
	if s != b.sess {
		b.mu.Unlock()
		return
	}
	b.online = true
	b.pendingReconnect = false
	b.lastHealth = time.Now()
	b.mu.Unlock()

	logger.Log.Info("minecraft bot connected to server")
	b.dc.SetPresence(true)
	b.toBridgeEmbed(connectEmbed(b.cfg.MCHost, b.cfg.MCPort))

	if s.HasNavigation() {
		if err := s.SetMovement(defaultMovement); err != nil {
			logger.Log.WithError(err).Warn("movement defaults not applied")
		}
	}
}

// healthLoop — сторожевой опрос: каждые 30с проверяем, что сессия
// сообщает живую сущность; 60с тишины считаются отказом.
func (b *Bridge) healthLoop(stop <-chan struct{}) {
	defer b.wg.Done()
	t := time.NewTicker(healthInterval)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
			s := b.session()
			if s == nil {
				// осознанно оффлайн (disconnect) — не реконнектим
				continue
			}
			if s.HasEntity() {
				b.mu.Lock()
				b.lastHealth = time.Now()
				b.online = true
				b.mu.Unlock()
				continue
			}
			b.mu.Lock()
			stale := time.Since(b.lastHealth) > healthStaleness
			b.mu.Unlock()
			if stale {
				b.failed(s, func() {
					b.toBridge("⚠️ Health check failed. Attempting to reconnect in 30 seconds...")
				})
			}
		}
	}
}

// Restart — явный перезапуск: quit текущей сессии, пауза, Connect.
// done вызывается после того, как попытка подключения инициирована.
func (b *Bridge) Restart(done func()) {
	if s := b.detachSession(); s != nil {
		s.Quit()
	}
	b.dc.SetPresence(false)
	time.AfterFunc(b.restartGrace, func() {
		b.Connect()
		if done != nil {
			done()
		}
	})
}

// DisconnectGame — штатное отключение без автопереподключения.
func (b *Bridge) DisconnectGame() error {
	b.mu.Lock()
	s := b.sess
	if s == nil || !b.online {
		b.mu.Unlock()
		return ErrOffline
	}
	b.sess = nil
	b.online = false
	b.mu.Unlock()

	s.Quit()
	b.dc.SetPresence(false)
	logger.Log.Info("minecraft session disconnected by command")
	return nil
}

// subscribe регистрирует обработчики на новую сессию. Вызывается один
// раз на экземпляр сессии, до Connect.
func (b *Bridge) subscribe(s mcagent.Session) {
	s.Subscribe(mcagent.Events{
		Spawn: func() { b.handleSpawn(s) },

		Chat:         func(user, msg string) { b.relayChat(user, msg) },
		PlayerJoined: func(user string) { b.relayJoin(user) },
		PlayerLeft:   func(user string) { b.relayLeave(user) },
		Death:        func() { b.relayDeath() },
		Rain:         func() { b.relayRain() },

		Kicked: func(reason string) {
			logger.Log.WithField("reason", reason).Warn("kicked from server")
			b.failed(s, func() {
				b.toBridgeEmbed(disconnectEmbed(reason))
			})
		},
		Error: func(err error) {
			logger.Log.WithError(err).Error("minecraft session error")
			b.failed(s, func() {
				b.toBridge(fmt.Sprintf("⚠️ Connection error: %v. Attempting to reconnect in 30 seconds...", err))
			})
		},
		End: func() {
			logger.Log.Info("connection to minecraft server ended")
			b.failed(s, nil)
		},

		EntitySpawn: func(e mcagent.Entity) { b.onHostileNearby(s, e) },
		EntityMoved: func(e mcagent.Entity) { b.onHostileNearby(s, e) },
	})
}
