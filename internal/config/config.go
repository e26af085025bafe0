// Package config loads optional environment overrides for the matchmaker's
// default construction parameters. It never replaces explicit constructor
// arguments — callers apply overrides only for fields they want sourced
// from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Overrides holds environment-sourced defaults. Each value is meaningful
// only when its Has* flag is true; otherwise it was not set.
type Overrides struct {
	TeamSize    int
	HasTeamSize bool

	PNorm    float64
	HasPNorm bool

	QNorm    float64
	HasQNorm bool

	FairnessWeight    float64
	HasFairnessWeight bool

	QueueWeight    float64
	HasQueueWeight bool

	ExecutionTimeoutSeconds float64
	HasExecutionTimeout     bool

	Approximate    bool
	HasApproximate bool

	Recording    bool
	HasRecording bool

	UseHistoricalWindow    bool
	HasUseHistoricalWindow bool
}

// Load reads a .env file if present (ignored when absent) and returns
// whichever MATCHCORE_* env vars were set.
func Load() *Overrides {
	_ = godotenv.Load()

	o := &Overrides{}
	if v, ok := getEnvAsInt("MATCHCORE_TEAM_SIZE"); ok {
		o.TeamSize, o.HasTeamSize = v, true
	}
	if v, ok := getEnvAsFloat("MATCHCORE_P_NORM"); ok {
		o.PNorm, o.HasPNorm = v, true
	}
	if v, ok := getEnvAsFloat("MATCHCORE_Q_NORM"); ok {
		o.QNorm, o.HasQNorm = v, true
	}
	if v, ok := getEnvAsFloat("MATCHCORE_FAIRNESS_WEIGHT"); ok {
		o.FairnessWeight, o.HasFairnessWeight = v, true
	}
	if v, ok := getEnvAsFloat("MATCHCORE_QUEUE_WEIGHT"); ok {
		o.QueueWeight, o.HasQueueWeight = v, true
	}
	if v, ok := getEnvAsFloat("MATCHCORE_EXECUTION_TIMEOUT_SECONDS"); ok {
		o.ExecutionTimeoutSeconds, o.HasExecutionTimeout = v, true
	}
	if v, ok := getEnvAsBool("MATCHCORE_APPROXIMATE"); ok {
		o.Approximate, o.HasApproximate = v, true
	}
	if v, ok := getEnvAsBool("MATCHCORE_RECORDING"); ok {
		o.Recording, o.HasRecording = v, true
	}
	if v, ok := getEnvAsBool("MATCHCORE_HISTORICAL_WINDOW"); ok {
		o.UseHistoricalWindow, o.HasUseHistoricalWindow = v, true
	}
	return o
}

func getEnvAsInt(key string) (int, bool) {
	value := os.Getenv(key)
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

func getEnvAsFloat(key string) (float64, bool) {
	value := os.Getenv(key)
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

func getEnvAsBool(key string) (bool, bool) {
	value := os.Getenv(key)
	if value == "" {
		return false, false
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, false
	}
	return parsed, true
}
