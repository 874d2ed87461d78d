package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CristianNieto3/Technician-Memo/internal/pkg/inform"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/postgres"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/utils"
	ainform "github.com/airenas/async-api/pkg/inform"
	"github.com/airenas/go-app/pkg/goapp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/color"
	"github.com/vgarvardt/gue/v5"
	"github.com/vgarvardt/gue/v5/adapter/pgxv5"
)

func main() {
	_ = godotenv.Load()
	goapp.StartWithDefault()
	cfg := goapp.Config
	cfg.SetDefault("worker.count", 2)

	data := &inform.ServiceData{}
	ctx := context.Background()

	dbConfig, err := pgxpool.ParseConfig(cfg.GetString("db.url"))
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init db pool")
	}

	dbPool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init db pool")
	}
	defer dbPool.Close()

	db, err := postgres.NewDB(dbPool)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init db")
	}
	if err := utils.WaitFor(ctx, "db", db.Live, utils.StartupBackoff(2*time.Minute)); err != nil {
		goapp.Log.Fatal().Err(err).Send()
	}
	data.DB = db

	data.GueClient, err = gue.NewClient(pgxv5.NewConnPool(dbPool))
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init gue")
	}
	data.WorkerCount = cfg.GetInt("worker.count")

	var location *time.Location
	if l := cfg.GetString("timezone"); l != "" {
		location, err = time.LoadLocation(l)
		if err != nil {
			goapp.Log.Fatal().Err(err).Msg("can't init location")
		}
	}
	data.EmailMaker, err = inform.NewOrderEmailMaker(cfg, location)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init email maker")
	}

	if cfg.GetString("smtp.fakeUrl") == "" {
		goapp.Log.Info().Str("sender", "real").Msg("smtp")
		data.EmailSender, err = ainform.NewSimpleEmailSender(cfg)
		if err != nil {
			goapp.Log.Fatal().Err(err).Msg("can't init email sender")
		}
	} else {
		goapp.Log.Info().Str("sender", "fake").Msg("smtp")
		data.EmailSender, err = inform.NewFakeEmailSender(cfg)
		if err != nil {
			goapp.Log.Fatal().Err(err).Msg("can't init fake email sender")
		}
	}

	printBanner()

	ctx, cancelFunc := context.WithCancel(ctx)
	doneCh, err := inform.StartWorkerService(ctx, data)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't start inform service")
	}
	/////////////////////// Waiting for terminate
	waitCh := make(chan os.Signal, 2)
	signal.Notify(waitCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-waitCh:
		goapp.Log.Info().Msg("Got exit signal")
	case <-doneCh:
		goapp.Log.Info().Msg("Service exit")
	}
	cancelFunc()
	select {
	case <-doneCh:
		goapp.Log.Info().Msg("All code returned. Now exit. Bye")
	case <-time.After(time.Second * 15):
		goapp.Log.Warn().Msg("Timeout gracefull shutdown")
	}
}

var (
	version = "DEV"
)

func printBanner() {
	banner := `
      ____  ____     _       ____
     / __ \/ __ \   (_)___  / __/___  _________ ___
    / /_/ / / / /  / / __ \/ /_/ __ \/ ___/ __ ` + "`" + `__ \
   / ____/ /_/ /  / / / / / __/ /_/ / /  / / / / / /
  /_/    \____/  /_/_/ /_/_/  \____/_/  /_/ /_/ /_/  v: %s

%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("https://github.com/CristianNieto3/Technician-Memo"))
}
