package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/quizdash/quizdash-backend/internal/authclient"
	"github.com/quizdash/quizdash-backend/internal/game"
	"github.com/quizdash/quizdash-backend/internal/questionclient"
	"github.com/quizdash/quizdash-backend/internal/server"
	"github.com/quizdash/quizdash-backend/internal/ws"
)

const releaseVersion = "1.0.0"

type Config struct {
	bind               string
	port               int
	authServiceURL     string
	questionServiceURL string
	gameTTL            time.Duration
	sweepInterval      time.Duration
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.gameTTL <= 0 || c.sweepInterval <= 0 {
		return fmt.Errorf("game-ttl and sweep-interval must be positive")
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("QUIZDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "gamesvc",
		Short:         "Realtime trivia game service: lobbies, questions, scoring over websockets.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: QUIZDASH_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 5002, "port to listen on (env: QUIZDASH_PORT)")
	fs.StringVar(&cfg.authServiceURL, "auth-service-url", "http://localhost:5001", "base URL of the auth service (env: QUIZDASH_AUTH_SERVICE_URL)")
	fs.StringVar(&cfg.questionServiceURL, "question-service-url", "http://localhost:5003", "base URL of the question service (env: QUIZDASH_QUESTION_SERVICE_URL)")
	fs.DurationVar(&cfg.gameTTL, "game-ttl", 60*time.Minute, "time before idle games are removed (env: QUIZDASH_GAME_TTL)")
	fs.DurationVar(&cfg.sweepInterval, "sweep-interval", 5*time.Minute, "how often idle games are swept (env: QUIZDASH_SWEEP_INTERVAL)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("gamesvc v{{.Version}}\n")

	return cmd
}

func run(cmd *cobra.Command, cfg *Config) error {
	store := game.NewStore()
	registry := game.NewRegistry()
	hub := ws.NewHub()
	verifier := authclient.New(cfg.authServiceURL)
	source := questionclient.New(cfg.questionServiceURL)

	engine := game.NewEngine(store, registry, verifier, source, hub)
	handler := ws.NewHandler(hub, engine)
	srv := server.New(engine, handler, releaseVersion)

	store.StartJanitor(cfg.gameTTL, cfg.sweepInterval, cmd.Context().Done(), source.Forget)

	addr := server.ListenAddr(cfg.bind, cfg.port)
	log.Printf("[gamesvc] Listening on %s (auth=%s, questions=%s)",
		addr, cfg.authServiceURL, cfg.questionServiceURL)
	return srv.HTTPServer(addr).ListenAndServe()
}

func main() {
	log.SetFlags(0)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := &Config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}
