// Package strategy chooses player moves from a board snapshot.
//
// Systematic plants the base a quarter of the way into the board and sends
// each army toward the nearest enemy base cell that the exclusion radius
// allows. Run drives an in-process engine.Game with any Strategy, which is
// what the simulate command uses; the bot command uses the same strategy
// over the REST API.
package strategy
