// Package mcp exposes Art of War to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call is translated into a request
// against the REST API, and the JSON response is rendered as text with an
// ASCII board ('.', 'a', 'A', 'b', 'B').
//
// Tools:
//   - create_session, list_sessions, get_session
//   - game_state, describe_cell, move_history
//   - place_base, place_army, step, reset_game, load_layout
//   - list_configs, game_instructions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// stdio
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP: one JSON-RPC message per POST
//	response := client.GetMCPServer().HandleMessage(ctx, body)
//
// Tool failures, including API errors, are returned as tool results with
// IsError set rather than as protocol errors.
package mcp
