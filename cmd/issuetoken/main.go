// Command issuetoken mints a signed bearer token for an auction caller.
//
//	issuetoken --user-id admin-1 --username alice --role Admin --ttl 12h
//
// The signing secret comes from --secret, or AUTH_SECRET in app.env / the environment.
package main

import (
	"fmt"
	"os"
	"time"

	"player-auction/internal/auth"
	"player-auction/internal/config"
	"player-auction/internal/models"
	"player-auction/utils"

	"github.com/spf13/pflag"
)

func main() {
	var (
		userID   = pflag.String("user-id", "", "caller id embedded in the token (required)")
		username = pflag.String("username", "", "display name embedded in the token")
		role     = pflag.String("role", string(models.RoleTeamOwner), "Admin or TeamOwner")
		ttl      = pflag.Duration("ttl", 24*time.Hour, "token lifetime, 0 for no expiry")
		secret   = pflag.String("secret", "", "signing secret, overrides AUTH_SECRET")
		cfgDir   = pflag.String("config", ".", "directory holding app.env")
	)
	pflag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "issuetoken: --user-id is required")
		pflag.Usage()
		os.Exit(2)
	}
	r := models.Role(*role)
	if r != models.RoleAdmin && r != models.RoleTeamOwner {
		fmt.Fprintf(os.Stderr, "issuetoken: unknown role %q\n", *role)
		os.Exit(2)
	}

	key := *secret
	if key == "" {
		cfg, err := config.LoadConfig(*cfgDir)
		if err != nil {
			utils.Fatal("cannot load config", map[string]any{"error": err.Error()})
		}
		key = cfg.AuthSecret
	}

	issuer, err := auth.NewIssuer(key, *ttl)
	if err != nil {
		utils.Fatal("cannot create issuer", map[string]any{"error": err.Error()})
	}
	token, err := issuer.Issue(models.Caller{ID: *userID, Username: *username, Role: r})
	if err != nil {
		utils.Fatal("cannot sign token", map[string]any{"error": err.Error()})
	}
	fmt.Println(token)
}
