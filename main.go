package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cloudcranesss/javbus-bot/internal/bot"
	"github.com/cloudcranesss/javbus-bot/internal/config"
	"github.com/cloudcranesss/javbus-bot/internal/delivery"
	"github.com/cloudcranesss/javbus-bot/internal/javbus"
	"github.com/cloudcranesss/javbus-bot/internal/logging"
	"github.com/cloudcranesss/javbus-bot/internal/onebot"
	"github.com/cloudcranesss/javbus-bot/internal/translate"
)

func main() {
	// .env is optional; real deployments use config.yml or environment.
	_ = godotenv.Load()

	log, err := logging.NewSugaredLogger(os.Getenv("JAVBOT_DEV") != "")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("configuration error", "error", err)
	}
	log.Infow("starting javbus bot",
		"api", cfg.JavbusAPIURL,
		"forward_configured", cfg.ForwardURL != "",
		"image_proxy", cfg.ImageProxy,
		"actor_match", cfg.ActorMatch)

	router := buildRouter(cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := onebot.NewAPIClient(cfg.Bot.APIURL, cfg.AccessToken)

	if cfg.Bot.WSURL != "" {
		ws := onebot.NewWSClient(cfg.Bot.WSURL, cfg.AccessToken, router, log)
		go ws.Run(ctx)
	}

	server := onebot.NewServer(router, api, cfg.Bot.WebhookPort, log)
	if err := server.Run(ctx); err != nil {
		log.Fatalw("webhook server failed", "error", err)
	}
	log.Infow("bot exiting")
}

func buildRouter(cfg *config.Config, log *zap.SugaredLogger) *bot.Router {
	client := javbus.New(cfg.JavbusAPIURL, time.Duration(cfg.HTTPTimeout)*time.Second)
	resolver := javbus.NewStarResolver(client, javbus.MatchMode(cfg.ActorMatch))
	gateway := delivery.NewGateway(cfg.ForwardURL, cfg.AccessToken, cfg.Bot.UserID, cfg.Bot.Nickname, log)

	var translator bot.Translator
	if cfg.Translate.Enabled {
		baidu, err := translate.NewBaidu(cfg.Translate.AppID, cfg.Translate.Secret, cfg.Translate.To)
		if err != nil {
			log.Warnw("translate disabled", "error", err)
		} else {
			translator = baidu
		}
	}

	return bot.New(client, resolver, gateway, translator, cfg.ImageProxy, log)
}
