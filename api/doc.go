// Package api provides the HTTP REST API for Art of War sessions.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"config_id": "classic"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Full game state including the grid
//   - GET /api/sessions/{id}/cells/{x}/{y} - Describe one cell and its neighbourhood
//   - POST /api/sessions/{id}/base - Place the player base ({"x": 10, "y": 10})
//   - POST /api/sessions/{id}/army - Place a player army block ({"x": 25, "y": 25})
//   - POST /api/sessions/{id}/step - Advance generations ({"count": 10}, default 1)
//   - POST /api/sessions/{id}/reset - Restart with the session seed
//   - PUT /api/sessions/{id}/cells - Load cells, as JSON {"cells": [...]} or a
//     text/plain layout of "x y state" lines
//   - GET /api/sessions/{id}/history - Placement history (?page=&limit=&order=)
//
// Configuration:
//   - GET /api/configs - List configurations
//   - POST /api/configs - Save a configuration
//   - GET /api/configs/{name} - Get a configuration
//
// Other:
//   - GET /ws?session={id} - Live updates over WebSocket
//   - GET /health - Liveness probe
//
// Errors are returned as {"error": "message"}. Unknown sessions and configs
// map to 404, illegal placements and malformed input to 400, and actions that
// do not fit the game phase (a second base, a move after the game ended) to
// 409.
//
// Every mutation broadcasts the new state to WebSocket clients of the
// session, followed by a game_over event when the game has just ended.
package api
