package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watch re-reads the config file on change and hands the rebuilt config to onChange.
// Invalid edits are reported through onError and otherwise ignored.
// It reports false when no file was loaded and there is nothing to watch.
func Watch(onChange func(*Config), onError func(error)) bool {
	if viper.ConfigFileUsed() == "" {
		return false
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg := build()
		if err := cfg.validate(); err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	viper.WatchConfig()
	return true
}
