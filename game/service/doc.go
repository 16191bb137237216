// Package service provides the business logic layer for Art of War.
//
// GameService is the single entry point used by every transport (REST,
// websocket, MCP, the simulate command). It resolves sessions, serializes
// access to their games, turns engine results into response DTOs with
// GameEvents, and logs notable outcomes.
//
// SessionManager and ConfigManager are implemented by the session and config
// packages; tests substitute in-memory doubles.
//
// Usage:
//
//	sessions := session.NewManager(logger)
//	configs, _ := config.NewManager("configs")
//	svc := service.NewGameService(sessions, configs, logger)
//
//	info, err := svc.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if _, err := svc.PlaceBase(ctx, info.ID, 10, 10); err != nil {
//		log.Fatal(err)
//	}
//	batch, err := svc.Step(ctx, info.ID, 100)
//
// Step advances at most MaxStepsPerCall generations per call and checks the
// context between generations.
package service
