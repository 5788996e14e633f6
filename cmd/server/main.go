package main

import (
	"context"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/rahat09/peerly/backend/internal/router"
	"github.com/rahat09/peerly/backend/pkg/config"
	"github.com/rahat09/peerly/backend/pkg/firebase"
	"github.com/rahat09/peerly/backend/validators"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize databases")
	}
	defer db.CloseDB()

	// Firebase is only needed when it is the configured identity provider
	var authClient *fbauth.Client
	if cfg.AuthMode == "firebase" {
		app, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to initialize Firebase")
		}
		authClient = app.AuthClient
	}

	e := echo.New()
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e)
	router.SetupRoutes(e, cfg, db.Postgres, db.Mongo, authClient)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
