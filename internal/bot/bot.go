package bot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/EgorLis/mcbridge/internal/mcagent"
	"github.com/EgorLis/mcbridge/pkg/logger"
)

// SessionFactory создаёт новую (ещё не подключённую) игровую сессию.
// Супервизор вызывает её на каждый (ре)коннект: сессия заменяется
// целиком, а не переиспользуется.
type SessionFactory func() mcagent.Session

// тайминги по умолчанию
const (
	reconnectDelay  = 30 * time.Second
	restartGrace    = 5 * time.Second
	healthInterval  = 30 * time.Second
	healthStaleness = time.Minute
	followInterval  = 3 * time.Second
	scanInterval    = 2 * time.Second
	gotoTimeout     = 30 * time.Second
	attackCooldown  = 10 * time.Second
	tempMessageTTL  = 5 * time.Second
)

// Bridge — мост Discord ↔ Minecraft: супервизор соединения, ретрансляция
// событий, роутер команд и навигация.
type Bridge struct {
	cfg  Config
	dc   Messenger
	dial SessionFactory

	ctx    context.Context
	cancel context.CancelFunc

	// состояние соединения; писатель — супервизор
	mu               sync.Mutex
	sess             mcagent.Session
	online           bool
	lastHealth       time.Time
	pendingReconnect bool

	// навигация/бой
	navMu  sync.Mutex
	follow followState
	attack attackState
	auto   autoAttackConfig

	// тайминги вынесены в поля, чтобы тесты могли их ужимать
	reconnectDelay time.Duration
	restartGrace   time.Duration
	gotoTimeout    time.Duration
	attackCooldown time.Duration

	stopMu sync.Mutex
	stopCh chan struct{}
	wg     sync.WaitGroup
}

func New(cfg Config, dc Messenger, dial SessionFactory) *Bridge {
	return &Bridge{
		cfg:            cfg,
		dc:             dc,
		dial:           dial,
		lastHealth:     time.Now(),
		auto:           autoAttackConfig{radius: defaultAutoRadius},
		reconnectDelay: reconnectDelay,
		restartGrace:   restartGrace,
		gotoTimeout:    gotoTimeout,
		attackCooldown: attackCooldown,
	}
}

func (b *Bridge) Start() error {
	if b.dc == nil {
		return errors.New("messenger not set")
	}
	if b.dial == nil {
		return errors.New("session factory not set")
	}
	b.stopMu.Lock()
	if b.stopCh != nil {
		b.stopMu.Unlock()
		return errors.New("already running")
	}
	b.stopCh = make(chan struct{})
	stop := b.stopCh
	b.stopMu.Unlock()

	b.ctx, b.cancel = context.WithCancel(context.Background())

	go b.Connect()

	b.wg.Add(3)
	go b.healthLoop(stop)
	go b.followLoop(stop)
	go b.scanLoop(stop)

	// сторож для остановки
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		<-stop
		b.cancel()
		if s := b.detachSession(); s != nil {
			s.Quit()
		}
	}()

	logger.Log.Info("bridge started")
	return nil
}

func (b *Bridge) Stop() {
	b.stopMu.Lock()
	ch := b.stopCh
	b.stopCh = nil
	b.stopMu.Unlock()

	if ch != nil {
		close(ch) // повторный Stop() ничего не делает
		b.wg.Wait()
	}
}

// session — текущая сессия (может быть nil). Хендлеры не кэшируют её
// между ожиданиями: после реконнекта ссылка устаревает.
func (b *Bridge) session() mcagent.Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sess
}

// detachSession снимает текущую сессию с учёта и возвращает её.
func (b *Bridge) detachSession() mcagent.Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.sess
	b.sess = nil
	b.online = false
	return s
}

// Online — единый источник истины "подключён ли мост к игре".
func (b *Bridge) Online() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.online
}

// ========================= отправка в Discord =========================

func (b *Bridge) bridgeChannelID() string {
	return b.dc.ChannelID(b.cfg.BridgeChannel)
}

func (b *Bridge) toBridge(text string) {
	if ch := b.bridgeChannelID(); ch != "" {
		if _, err := b.dc.Send(ch, text); err != nil {
			logger.Log.WithError(err).Warn("discord send failed")
		}
	}
}

func (b *Bridge) toBridgeEmbed(e Embed) {
	if ch := b.bridgeChannelID(); ch != "" {
		if _, err := b.dc.SendEmbed(ch, e); err != nil {
			logger.Log.WithError(err).Warn("discord send failed")
		}
	}
}

// sendTemp — отправить сообщение и удалить его через tempMessageTTL.
func (b *Bridge) sendTemp(channelID, text string) {
	id, err := b.dc.Send(channelID, text)
	if err != nil {
		logger.Log.WithError(err).Warn("discord send failed")
		return
	}
	time.AfterFunc(tempMessageTTL, func() {
		_ = b.dc.Delete(channelID, id)
	})
}
