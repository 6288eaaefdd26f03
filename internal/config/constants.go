package config

// Defaults applied when the environment leaves a value unset.
const (
	DefaultSeed     = 1337
	DefaultDaysBack = 30

	// EnvSeed is the variable holding the generator seed.
	EnvSeed = "DEMO_SEED"
)
