// Package session keeps the in-memory set of running Art of War games.
//
// Each session owns one engine.Game together with the configuration and the
// random seed it was created from, so the service can rebuild the game for a
// reset and replay the computer's choices.
//
// Session IDs are the first eight hex characters of a random UUID and are
// matched case-insensitively. Sessions live in memory only; idle sessions are
// dropped by CleanupExpiredSessions.
//
// Usage:
//
//	manager := session.NewManager(logger)
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// The manager is safe for concurrent use. It does not serialize access to a
// session's game; the service layer does.
package session
