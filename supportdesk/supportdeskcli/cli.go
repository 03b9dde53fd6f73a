package supportdeskcli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/camsops/supportdesk-app/log"
	"github.com/camsops/supportdesk-app/supportdesk/constants"
	"github.com/camsops/supportdesk-app/supportdesk/database"
	"github.com/camsops/supportdesk-app/supportdesk/ingest"
	"github.com/camsops/supportdesk-app/supportdesk/models/postgres"
	"github.com/camsops/supportdesk-app/supportdesk/utils"
	"github.com/camsops/supportdesk-app/supportdesk/web"
)

// App Name and usage.  Edit them here to prevent breaking tests
const Name = "supportdesk"
const Usage = "CAMS Operations Support Desk CLI"

func GetApp() *cli.App {
	return setUpApp()
}

func setUpApp() *cli.App {
	app := cli.NewApp()
	app.Name = Name
	app.Usage = Usage
	app.Version = constants.Version
	var filePath, migrationPath string
	var inchargeID int
	app.Commands = []cli.Command{
		{
			Name:  "start-api",
			Usage: "Start the API",
			Action: func(c *cli.Context) error {
				db, err := database.Connect()
				if err != nil {
					return err
				}
				defer db.Close()

				fmt.Fprintf(app.Writer, "%s\n", "Starting supportdesk...")

				srv := &http.Server{
					Handler:      web.NewAPIRouter(postgres.NewRepository(db), db),
					Addr:         fmt.Sprintf(":%d", utils.GetEnvInt("SUPPORTDESK_PORT", 3000)),
					ReadTimeout:  time.Duration(utils.GetEnvInt("API_READ_TIMEOUT", 10)) * time.Second,
					WriteTimeout: time.Duration(utils.GetEnvInt("API_WRITE_TIMEOUT", 20)) * time.Second,
					IdleTimeout:  time.Duration(utils.GetEnvInt("API_IDLE_TIMEOUT", 120)) * time.Second,
				}
				return srv.ListenAndServe()
			},
		},
		{
			Name:     "import-log-file",
			Category: "Data import",
			Usage:    "Import a pasted support-log submission from a text file",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:        "file",
					Usage:       "Path of the file containing the raw log text",
					Destination: &filePath,
				},
				cli.IntFlag{
					Name:        "incharge-id",
					Usage:       "ID of the responsible incharge submitting the logs",
					Destination: &inchargeID,
				},
			},
			Action: func(c *cli.Context) error {
				if filePath == "" || inchargeID == 0 {
					return errors.New("file and incharge-id are required")
				}

				db, err := database.Connect()
				if err != nil {
					return err
				}
				defer db.Close()

				importer := &ingest.Importer{
					Logger:     log.Ingest,
					Repository: postgres.NewRepository(db),
				}
				result, err := importer.ImportLogFile(context.Background(), inchargeID, filePath)
				if err != nil {
					return err
				}

				fmt.Fprintf(app.Writer, "%s\n", result.Message)
				for _, segErr := range result.Errors {
					fmt.Fprintf(app.Writer, "error (%s): %s\n", segErr.Type, segErr.Error)
				}
				return nil
			},
		},
		{
			Name:     "migrate-db",
			Category: "Database tools",
			Usage:    "Apply database migrations",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:        "path",
					Usage:       "Path of the migrations directory",
					Value:       "db/migrations",
					Destination: &migrationPath,
				},
			},
			Action: func(c *cli.Context) error {
				cfg, err := database.LoadConfig()
				if err != nil {
					return err
				}

				m, err := migrate.New("file://"+migrationPath, cfg.DatabaseURL)
				if err != nil {
					return errors.Wrap(err, "could not initialize migrations")
				}
				defer m.Close()

				if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return errors.Wrap(err, "could not apply migrations")
				}

				fmt.Fprintf(app.Writer, "%s\n", "Migrations applied.")
				return nil
			},
		},
	}
	return app
}
