// Package engine implements the Art of War cellular automaton.
//
// Two factions share a rectangular grid. Every cell is empty, an army cell or
// a base cell of faction 1 (the player) or faction 2 (the computer). Each
// generation is computed from a snapshot of the previous one:
//
//   - Army cells survive with three to five friendly neighbours and at most
//     two enemy neighbours.
//   - Base cells survive until three or more enemy army cells surround them.
//   - Empty cells are born into a faction with exactly three of its army
//     neighbours, or next to a single friendly base with no enemy army near.
//
// A faction loses when a snapshot holds none of its base cells. Faction 1 is
// checked first, so a snapshot without any base goes to faction 2.
//
// Usage:
//
//	game, err := engine.NewGame(engine.DefaultConfig(), engine.NewRandom(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if _, err := game.PlacePlayerBase(10, 10); err != nil {
//		log.Fatal(err)
//	}
//
//	for !game.IsGameOver() {
//		if _, err := game.Step(); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// A Game is not safe for concurrent use. Advance shards rows across
// goroutines internally; the result does not depend on the worker count.
package engine
