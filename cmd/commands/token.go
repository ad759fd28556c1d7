package commands

import (
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

// newTokenCmd creates the "token" command to mint local HMAC bearer tokens
// for the protected cache and log endpoints.
func newTokenCmd(state *cliState) *cobra.Command {
	var subject string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the protected API endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := requireAuthConfig(&state.Config)
			if err != nil {
				return err
			}

			if state.Config.JWTSecret == "" {
				return fmt.Errorf("token minting requires JWT_SECRET; external IDP tokens come from the IDP")
			}

			now := time.Now()
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"sub": subject,
				"iat": now.Unix(),
				"exp": now.Add(ttl).Unix(),
			})

			signed, err := token.SignedString([]byte(state.Config.JWTSecret))
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}

			log.Printf("Token (expires %s):", now.Add(ttl).Format(time.RFC3339))
			fmt.Println(signed)

			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "ops", "Token subject recorded in request logs")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}
