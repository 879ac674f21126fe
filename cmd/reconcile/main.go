// Command reconcile runs one progression pass against the configured
// database and prints its summary as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/yungbote/contentflow-backend/internal/app"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	"github.com/yungbote/contentflow-backend/internal/progression"
)

func main() {
	pass := flag.String("pass", "reconcile", "pass to run: reconcile, weekly_content, daily_content, daily_advance, grant")
	userID := flag.String("user", "", "with -pass=grant, grant only this user")
	seriesID := flag.String("series", "", "with -pass=grant, grant only this series")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	svc := a.Services.Progression
	dbc := dbctx.Context{Ctx: ctx}

	var sum progression.Summary
	switch *pass {
	case "reconcile":
		sum, err = svc.RunReconciliation(dbc)
	case "weekly_content":
		sum, err = svc.GenerateWeeklyContent(dbc)
	case "daily_content":
		sum, err = svc.GenerateDailyContent(dbc)
	case "daily_advance":
		sum, err = svc.IncrementDailyContentForAllUsers(dbc)
	case "grant":
		switch {
		case *userID != "":
			id, perr := uuid.Parse(*userID)
			if perr != nil {
				a.Log.Fatal("invalid -user", "error", perr)
			}
			sum, err = svc.GrantAccessForUser(dbc, id)
		case *seriesID != "":
			id, perr := uuid.Parse(*seriesID)
			if perr != nil {
				a.Log.Fatal("invalid -series", "error", perr)
			}
			sum, err = svc.GrantAccessForSeries(dbc, id)
		default:
			sum, err = svc.BulkGrantAccessToAllUsers(dbc)
		}
	default:
		a.Log.Fatal("unknown pass", "pass", *pass)
	}
	if err != nil {
		a.Log.Error("pass failed", "pass", *pass, "error", err)
		a.Close()
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(sum)
}
