// Package config loads Art of War game configurations from a directory.
//
// Configurations are JSON (*.json) or YAML (*.yaml, *.yml) files decoding
// into engine.GameConfig. A config is addressed by its file name without the
// extension, its config ID. An optional layout_file names an "x y state"
// layout next to the config whose cells are preloaded into every game.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("skirmish")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// The default configuration is classic when present, otherwise the first
// valid config, otherwise engine.DefaultConfig.
package config
