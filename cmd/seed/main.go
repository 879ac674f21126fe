// Command seed loads a YAML catalog (or the built-in sample) into the
// configured database and optionally prints a bearer token for an admin.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yungbote/contentflow-backend/internal/app"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	"github.com/yungbote/contentflow-backend/internal/services"
)

func main() {
	file := flag.String("file", "", "catalog YAML; the sample catalog is used when empty")
	grant := flag.Bool("grant", true, "run the bulk access grant after seeding")
	tokenFor := flag.String("token-for", "", "print a signed token for this user email")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of the printed token")
	flag.Parse()

	catalog := services.SampleCatalog()
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open catalog: %v\n", err)
			os.Exit(1)
		}
		catalog, err = services.ParseCatalog(f)
		_ = f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse catalog: %v\n", err)
			os.Exit(1)
		}
	}

	a, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	dbc := dbctx.Context{Ctx: context.Background()}
	res, err := a.Services.Catalog.Seed(dbc, catalog)
	if err != nil {
		a.Log.Error("seed failed", "error", err)
		a.Close()
		os.Exit(1)
	}
	out := map[string]any{"seed": res}

	if *grant {
		sum, err := a.Services.Progression.BulkGrantAccessToAllUsers(dbc)
		if err != nil {
			a.Log.Error("bulk grant failed", "error", err)
			a.Close()
			os.Exit(1)
		}
		out["grant"] = sum
	}

	if email := strings.ToLower(strings.TrimSpace(*tokenFor)); email != "" {
		users, err := a.Repos.User.GetByEmails(dbc, []string{email})
		if err != nil || len(users) == 0 {
			a.Log.Error("token user not found", "email", email, "error", err)
			a.Close()
			os.Exit(1)
		}
		token, err := a.Services.Auth.SignToken(users[0].ID, users[0].Role, *tokenTTL)
		if err != nil {
			a.Log.Error("sign token failed", "error", err)
			a.Close()
			os.Exit(1)
		}
		out["token"] = token
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}
