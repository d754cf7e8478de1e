// Package mcagent реализует WebSocket-клиент к агенту Minecraft
// (sidecar-процесс на mineflayer), который держит собственно игровое
// соединение. Клиент отправляет JSON-запросы (chat, goal, goto, attack и
// т.д.), получает события и периодические снапшоты состояния мира и
// поддерживает зеркало этого состояния: список игроков (пинг/позиция),
// видимые сущности, игровое время, погоду и позицию самого бота.
//
// События (регистрируются один раз на сессию через Subscribe):
//   - Spawn, Chat, PlayerJoined, PlayerLeft, Death, Kicked, Rain,
//     End, Error, EntitySpawn, EntityMoved.
//
// Запросы с ответом (goto) коррелируются по seq: на каждый запрос
// вешается колбэк, который будет вызван при ответе с тем же seq; при
// потере соединения все ожидающие колбэки получают ошибку.
//
// ВАЖНО: клиент НЕ реконнектится сам. Потеря соединения — это конец
// сессии (событие End/Error); политика переподключения целиком на
// стороне супервизора, который заменяет сессию новой целиком.
//
// Пример:
//
//	s := mcagent.New(mcagent.Config{AgentURL: "ws://127.0.0.1:3001", Host: "mc.example.com", Port: 25565, Username: "bridge"})
//	s.Subscribe(mcagent.Events{
//		Spawn: func() { fmt.Println("spawned") },
//		Chat:  func(user, msg string) { fmt.Println(user, msg) },
//	})
//	if err := s.Connect(ctx); err != nil { log.Fatal(err) }
//	defer s.Quit()
//
//	_ = s.Chat("hello from the bridge")
package mcagent
