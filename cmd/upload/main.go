package main

import (
	"context"
	"time"

	"github.com/CristianNieto3/Technician-Memo/internal/pkg/cost"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/llm"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/memo"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/pipeline"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/postgres"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/transcriber"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/upload"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/utils"
	"github.com/airenas/go-app/pkg/goapp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/color"
)

func main() {
	_ = godotenv.Load()
	goapp.StartWithDefault()

	printBanner()

	cfg := goapp.Config
	cfg.SetDefault("port", 3000)
	cfg.SetDefault("memo.file", "memos.txt")
	cfg.SetDefault("upload.maxSize", "25M")
	cfg.SetDefault("elevenlabs.timeout", 2*time.Minute)
	cfg.SetDefault("openai.timeout", time.Minute)

	data := &upload.Data{}
	data.Port = cfg.GetInt("port")
	data.BodyLimit = cfg.GetString("upload.maxSize")
	data.StaticDir = cfg.GetString("static.dir")
	var err error

	ctx := context.Background()

	dbConfig, err := pgxpool.ParseConfig(cfg.GetString("db.url"))
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init db pool")
	}
	addDBLog(dbConfig)

	dbPool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init db pool")
	}
	defer dbPool.Close()

	db, err := postgres.NewDB(dbPool)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init db")
	}
	if cfg.GetBool("db.migrate") {
		if err := utils.WaitFor(ctx, "db", dbPool.Ping, utils.StartupBackoff(time.Minute)); err != nil {
			goapp.Log.Fatal().Err(err).Send()
		}
		if err := db.Migrate(ctx); err != nil {
			goapp.Log.Fatal().Err(err).Msg("can't migrate db")
		}
	}
	if err := utils.WaitFor(ctx, "db", db.Live, utils.StartupBackoff(time.Minute)); err != nil {
		goapp.Log.Fatal().Err(err).Send()
	}
	data.DB = db

	pData := &pipeline.Data{DB: db}
	stt, err := transcriber.NewClient(cfg.GetString("elevenlabs.url"), cfg.GetString("elevenlabs.key"),
		cfg.GetString("elevenlabs.model"), cfg.GetDuration("elevenlabs.timeout"))
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init speech-to-text client")
	}
	if pData.Transcriber, err = transcriber.NewAdapter(stt); err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init transcriber")
	}
	oc, err := llm.NewOpenAIClient(cfg.GetString("openai.key"), cfg.GetString("openai.url"))
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init openai client")
	}
	if pData.Translator, err = llm.NewTranslator(oc, cfg.GetString("openai.model"), cfg.GetDuration("openai.timeout")); err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init translator")
	}
	if pData.Extractor, err = llm.NewExtractor(oc, cfg.GetString("openai.model"), cfg.GetDuration("openai.timeout")); err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init extractor")
	}
	if pData.Memo, err = memo.NewWriter(cfg.GetString("memo.file")); err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init memo log")
	}
	pData.Rates = cost.Rates{TranscriptionPerMinute: cfg.GetFloat64("costs.transcriptionPerMinute"),
		InputPer1K: cfg.GetFloat64("costs.inputPer1K"), OutputPer1K: cfg.GetFloat64("costs.outputPer1K")}
	if location := cfg.GetString("timezone"); location != "" {
		pData.Location, err = time.LoadLocation(location)
		if err != nil {
			goapp.Log.Fatal().Err(err).Msg("can't init location")
		}
		goapp.Log.Info().Str("local", time.Now().In(pData.Location).Format(time.RFC3339)).Msg("time")
	}
	if data.Processor, err = pipeline.NewPipeline(pData); err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init pipeline")
	}

	if cfg.GetBool("inform.enabled") {
		data.MsgSender, err = postgres.NewSender(dbPool)
		if err != nil {
			goapp.Log.Fatal().Err(err).Msg("can't init gue sender")
		}
	}

	go utils.RunPerfEndpoint()

	err = upload.StartWebServer(data)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't start web server")
	}
}

func addDBLog(dbConfig *pgxpool.Config) {
	logFunc := goapp.Log.Debug().Msg
	dbConfig.AfterConnect = func(ctx context.Context, c *pgx.Conn) error {
		logFunc("after connect")
		return nil
	}
}

var (
	version = "DEV"
)

func printBanner() {
	banner := `
      ____  ____
     / __ \/ __ \   ____ ___  ___  ____ ___  ____
    / /_/ / / / /  / __ ` + "`" + `__ \/ _ \/ __ ` + "`" + `__ \/ __ \
   / ____/ /_/ /  / / / / / /  __/ / / / / / /_/ /
  /_/    \____/  /_/ /_/ /_/\___/_/ /_/ /_/\____/   v: %s

%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("https://github.com/CristianNieto3/Technician-Memo"))
}
