package confloader

// WatchLogLevel re-reads path whenever it changes and passes log.level
// (after environment overrides) to apply. Other keys need a restart.
func WatchLogLevel(w *Watcher, path, envPrefix string, apply func(level string)) error {
	if err := w.Watch(path); err != nil {
		return err
	}
	w.OnFileChange(path, func() {
		l := NewLoader(WithConfigFile(path), WithEnvPrefix(envPrefix))
		var section struct {
			Log struct {
				Level string `koanf:"level"`
			} `koanf:"log"`
		}
		if err := l.Load(&section); err != nil {
			w.logger.Warn("config reload failed", "file", path, "error", err)
			return
		}
		if section.Log.Level == "" {
			return
		}
		w.logger.Info("applying log level from config", "level", section.Log.Level)
		apply(section.Log.Level)
	})
	return nil
}
