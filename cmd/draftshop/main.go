package main

import (
	"context"
	"io"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"draftshop/internal/config"
	"draftshop/internal/http/handlers"
	applog "draftshop/internal/log"
	"draftshop/internal/repos"
)

func main() {
	logger := applog.Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	applog.SetLevel(cfg.LogLevel)

	// Optional rotated file logging
	if cfg.LogFile != "" {
		applog.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
		}))
	}

	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN, cfg.SeedDemo)
	if err != nil {
		logger.Fatal(err)
	}

	engine := html.New("./web/templates", ".html")
	app := handlers.NewApp(db, cfg, engine)

	serve(app, ":"+cfg.Port, func(err error) { logger.Fatalf("listen: %v", err) })

	wait := gfshutdown.GracefulShutdown(context.Background(), cfg.ShutdownTimeout, map[string]gfshutdown.Operation{
		// close the DB only after the server has drained
		"http": func(ctx context.Context) error {
			if err := app.ShutdownWithContext(ctx); err != nil {
				return err
			}
			return db.Close()
		},
	})
	code := <-wait
	logger.Infof("[shutdown] exited with code %d", code)
	os.Exit(code)
}

// serve runs the listener in the background and hands any listen error,
// such as a port already in use, to onFail.
func serve(app *fiber.App, addr string, onFail func(error)) {
	go func() {
		if err := app.Listen(addr); err != nil {
			onFail(err)
		}
	}()
}
