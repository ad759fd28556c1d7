package commands

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/BeamLabEU/phoenix-kit-sub002/internal/api"
	"github.com/BeamLabEU/phoenix-kit-sub002/internal/db"
)

// DefaultContentDir is the content root used when CONTENT_DIR is unset.
const DefaultContentDir = "content"

// cliState holds the shared runtime state for the application.
type cliState struct {
	DB     *db.DB
	Config config
}

// config holds the environment configuration.
type config struct {
	ContentDir        string
	DBPath            string
	LogDBPath         string
	CacheBackend      string
	BoltPath          string
	RedisAddr         string
	RedisDB           int
	JWTSecret         string
	JWKSURL           string
	JWTIssuer         string
	AppName           string
	Production        bool
	TrustProxyHeaders bool
	WatchContent      bool
	Port              int
}

// NewRootCmd creates the entire command tree and returns the root command.
func NewRootCmd() *cobra.Command {
	state := &cliState{}

	var portNumber int
	port := os.Getenv("PORT")
	if port != "" {
		cnvPort, err := strconv.Atoi(port)
		if err != nil {
			log.Fatalf("Invalid PORT value: %v", err)
		}

		portNumber = cnvPort
	} else {
		portNumber = api.DefaultPort
	}

	rootCmd := &cobra.Command{
		Use:   "postkit",
		Short: "PostKit CLI",
		Long:  `CLI for managing the PostKit content rendering and caching service.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			redisDB := 0
			if raw := os.Getenv("REDIS_DB"); raw != "" {
				parsed, err := strconv.Atoi(raw)
				if err != nil {
					return fmt.Errorf("invalid REDIS_DB value: %w", err)
				}

				redisDB = parsed
			}

			state.Config = config{
				ContentDir:        os.Getenv("CONTENT_DIR"),
				DBPath:            os.Getenv("DB_PATH"),
				LogDBPath:         os.Getenv("LOG_DB_PATH"),
				CacheBackend:      os.Getenv("CACHE_BACKEND"),
				BoltPath:          os.Getenv("BOLT_PATH"),
				RedisAddr:         os.Getenv("REDIS_ADDR"),
				RedisDB:           redisDB,
				JWTSecret:         os.Getenv("JWT_SECRET"),
				JWKSURL:           os.Getenv("JWKS_URL"),
				JWTIssuer:         os.Getenv("JWT_ISSUER"),
				AppName:           os.Getenv("APP_NAME"),
				Production:        !(os.Getenv("IS_DEVELOPMENT") == "true"),
				TrustProxyHeaders: os.Getenv("TRUST_PROXY_HEADERS") == "true",
				WatchContent:      os.Getenv("WATCH_CONTENT") == "true",
				Port:              portNumber,
			}

			if state.Config.ContentDir == "" {
				state.Config.ContentDir = DefaultContentDir
			}

			settingsDbPath := db.DefaultSettingsDb
			if state.Config.DBPath != "" {
				settingsDbPath = state.Config.DBPath
			}

			logDbPath := db.DefaultLogDb
			if state.Config.LogDBPath != "" {
				logDbPath = state.Config.LogDBPath
			}

			var err error
			state.DB, err = db.New(
				"file:"+settingsDbPath+"?cache=shared",
				"file:"+logDbPath+"?cache=shared",
			)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}

			return nil
		},
		// PersistentPostRun ensures the DB is closed after the command finishes.
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if state.DB != nil {
				err := state.DB.Close()
				if err != nil {
					log.Printf("Error closing database: %v", err)
				}
			}
		},
	}

	rootCmd.AddCommand(newServerCmd(state))
	rootCmd.AddCommand(newPruneLogsCmd(state))
	rootCmd.AddCommand(newCacheCmd(state))
	rootCmd.AddCommand(newSettingsCmd(state))
	rootCmd.AddCommand(newTokenCmd(state))

	return rootCmd
}

// requireAuthConfig enforces that some token verification source exists.
// Only commands that mint or verify tokens need it.
func requireAuthConfig(cfg *config) error {
	if cfg.JWTSecret == "" && cfg.JWKSURL == "" {
		return fmt.Errorf(
			"missing authentication configuration. Set either JWT_SECRET (for local HMAC tokens) or JWKS_URL (for an external IDP)",
		)
	}

	return nil
}
