package config

// NewSeedForTest creates a Seed config pointing at the given file
func NewSeedForTest(path string) *Seed {
	return &Seed{path: path}
}

// NewLoggerForTest creates a Logger config with explicit settings
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}
