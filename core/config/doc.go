// Package config assembles the process configuration from the environment.
//
// A .env file in the working directory, when present, overrides the process
// environment. Every section struct declares its keys with `mapstructure` tags
// and its fallbacks with `default` tags; keys map to variables by joining the
// section and key with an underscore, so storage.bucket reads STORAGE_BUCKET
// and scheduler.spec reads SCHEDULER_SPEC.
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//		return err
//	}
//	db, err := database.Connect(cfg.Database)
package config
