// Command makeadmin promotes an existing account to ADMIN.
//
//	go run ./cmd/makeadmin -email farmer@example.com
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/willowtrellis/farmstand-api/internal/application/auth"
	"github.com/willowtrellis/farmstand-api/internal/domain"
	"github.com/willowtrellis/farmstand-api/internal/infrastructure/postgres"
	"github.com/willowtrellis/farmstand-api/pkg/config"
	"github.com/willowtrellis/farmstand-api/pkg/logger"
)

func main() {
	email := flag.String("email", "", "email of the account to promote")
	flag.Parse()
	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: makeadmin -email <address>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load configuration:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	uc := auth.NewAuthUseCase(
		postgres.NewUserRepository(pool),
		postgres.NewOrderRepository(pool),
		nil,
		auth.JWTConfig{},
		log,
	)

	user, err := uc.PromoteToAdmin(ctx, *email)
	if errors.Is(err, domain.ErrUserNotFound) {
		fmt.Printf("No account found for %s. Existing accounts:\n", *email)
		users, lerr := uc.ListUsers(ctx)
		if lerr != nil {
			log.Fatal().Err(lerr).Msg("list users")
		}
		for _, u := range users {
			fmt.Printf("  %-40s %-10s %s\n", u.Email, u.Role, u.Name)
		}
		os.Exit(1)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("promote user")
	}
	fmt.Printf("%s (%s) is now %s\n", user.Name, user.Email, user.Role)
}
