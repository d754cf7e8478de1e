// Package bot — мост Discord ↔ Minecraft. Состоит из четырёх частей:
//   - супервизор соединения: владеет игровой сессией, детектит отказ
//     (error/kicked/end/протухший health-check) и планирует ровно один
//     реконнект с паузой 30с; публикует флаг online;
//   - ретранслятор событий: игровой чат, входы/выходы, смерть и дождь
//     уходят в мостовой канал Discord, собственные эхо подавляются;
//   - роутер команд: префикс "!mc", три уровня доступа (публичные /
//     allow-list / администратор), гейт по каналу и по подключению;
//   - навигация: follow с периодическим обновлением цели, comehere с
//     единственным исходом (дошёл/частично/таймаут), ручная и
//     автоматическая атака с одним in-flight флагом и снятием по
//     таймеру.
//
// Жизненный цикл:
//   - создать мост через New(cfg, messenger, sessionFactory);
//   - повесить HandleMessage на входящие сообщения Discord;
//   - запустить Start() и остановить Stop().
//
// Сессия заменяется целиком на каждый реконнект; обработчики не
// кэшируют ссылку на неё между ожиданиями.
package bot
