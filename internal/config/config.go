package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything Process Wiring (C9) needs to build a
// Coordinator and serve it. Grounded on the teacher's gateway config:
// godotenv loads a local .env file into the environment (never
// replacing a variable that is already set), flags override the
// built-in defaults, and the PORT, BUILD_MEMO_SIZE, TRACE_CAPACITY and
// COORDINATOR_DEV environment variables, whether set directly or loaded
// from .env, override the matching flags.
type Config struct {
	Port string
	Env  string

	// BuildMemoSize bounds the C10 analyzer-set build memo; 0 disables
	// it entirely.
	BuildMemoSize int

	// TraceCapacity bounds the C7 in-memory trace ring; 0 disables
	// trace collection.
	TraceCapacity int

	// Dev selects the in-process FakeHostAdapter instead of a real
	// analyzer host, for local runs that have no host to talk to.
	Dev bool

	ShutdownGraceSeconds int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8082", "server port")
	buildMemoSize := flag.Int("build-memo-size", 256, "analyzer-set build memo capacity (0 disables)")
	traceCapacity := flag.Int("trace-capacity", 512, "in-memory trace ring capacity (0 disables)")
	dev := flag.Bool("dev", false, "use the in-process fake analyzer host instead of a real one")
	shutdownGrace := flag.Int("shutdown-grace-seconds", 5, "grace period for in-flight requests during shutdown")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	if v := strings.TrimSpace(os.Getenv("BUILD_MEMO_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*buildMemoSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("TRACE_CAPACITY")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*traceCapacity = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("COORDINATOR_DEV")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dev = b
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:                 *port,
		Env:                  env,
		BuildMemoSize:        *buildMemoSize,
		TraceCapacity:        *traceCapacity,
		Dev:                  *dev,
		ShutdownGraceSeconds: *shutdownGrace,
	}, nil
}
