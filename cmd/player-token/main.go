// Command player-token signs a bearer token for a player id with the
// server's JWT settings, for calling the API from curl or scripts.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/pretty"

	"github.com/forgo/gildr/internal/config"
	"github.com/forgo/gildr/pkg/jwt"
)

const defaultExpiry = 7 * 24 * time.Hour

var errUsage = errors.New("usage")

type tokenOutput struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	PlayerID  string `json:"player_id"`
	ExpiresIn int    `json:"expires_in,omitempty"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	err = run(os.Args[1:], cfg.JWT, time.Now, os.Stdout)
	switch {
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run parses args with defaults taken from the server's JWT config and
// writes the token to out
func run(args []string, defaults config.JWTConfig, now func() time.Time, out io.Writer) error {
	fs := flag.NewFlagSet("player-token", flag.ContinueOnError)
	player := fs.String("player", "", "player id (UUID) to sign for")
	secret := fs.String("secret", defaults.Secret, "HMAC secret, defaults to JWT_SECRET")
	issuer := fs.String("issuer", defaults.Issuer, "token issuer, defaults to JWT_ISSUER")
	expiry := fs.Duration("exp", defaultExpiry, "token lifetime, 0 for a token that never expires")
	asJSON := fs.Bool("json", false, "print a JSON object instead of text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := uuid.Parse(*player)
	if err != nil {
		fmt.Fprintf(fs.Output(), "-player must be a UUID, got %q\n", *player)
		return errUsage
	}

	svc, err := jwt.NewService(jwt.Config{
		Secret:         []byte(*secret),
		Issuer:         *issuer,
		ExpirationMins: int(expiry.Minutes()),
	})
	if err != nil {
		return fmt.Errorf("jwt: %w", err)
	}
	token, err := svc.SignPlayer(id.String())
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}

	lifetime := svc.GetExpiration()
	if *asJSON {
		b, err := json.Marshal(tokenOutput{
			Token:     token,
			TokenType: "Bearer",
			PlayerID:  id.String(),
			ExpiresIn: int(lifetime.Seconds()),
		})
		if err != nil {
			return err
		}
		_, err = out.Write(pretty.Pretty(b))
		return err
	}

	expires := "never"
	if lifetime > 0 {
		expires = now().Add(lifetime).Format(time.RFC3339)
	}
	_, err = fmt.Fprintf(out, "player:  %s\nexpires: %s\n\n%s\n\ncurl -H 'Authorization: Bearer %s' http://localhost:8080/v1/guilds\n",
		id, expires, token, token)
	return err
}
