// Package config provides a hierarchical configuration tree with value
// semantics, plus file/env loading.
//
// A Node is a nested string-keyed tree. Workers receive independent deep
// copies via Clone, so mutations never cross worker boundaries:
//
//	cfg := config.New()
//	cfg.Set("model.path", "weights.bin")
//	workerCfg := cfg.Clone()
//
// Load builds a Node from a config.yml and .env overlay using viper and
// godotenv, following the standard search locations.
package config
