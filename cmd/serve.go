package cmd

import (
	"blog-server/db"
	"blog-server/handlers"
	"blog-server/routes"
	"blog-server/setup"
	"blog-server/templates"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the HTTP server",
	Args:  cobra.NoArgs,
	Run:   serve,
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	setup.InitLogger(cfg)

	conn := setup.MustInitDb(cfg)
	defer conn.Close()

	store := db.NewPostStore(conn)
	setup.RegisterHooks(store)

	pages, err := templates.Parse()
	if err != nil {
		log.Fatal("Error parsing templates", "err", err)
	}

	h := handlers.NewHandler(store, pages, cfg.FailurePolicy)

	err = setup.StartServer(cfg, routes.NewRouter(h, Version))
	if err != nil {
		log.Fatal("Server error", "err", err)
	}
}
