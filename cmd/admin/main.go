package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/product-service/internal/auth"
	"github.com/spec-kit/product-service/internal/config"
	"github.com/spec-kit/product-service/internal/domain"
	"github.com/spec-kit/product-service/internal/events"
	"github.com/spec-kit/product-service/internal/observability"
	"github.com/spec-kit/product-service/internal/persistence"
	"github.com/spec-kit/product-service/internal/repository"
	"github.com/spec-kit/product-service/internal/service"
	apperrors "github.com/spec-kit/product-service/pkg/util"
)

// product-admin is the privileged, non-networked entry point for minting
// tokens and seeding principals. It talks straight to Postgres and is never
// mounted on the HTTP router.
func main() {
	root := &cobra.Command{
		Use:           "product-admin",
		Short:         "Offline administration for the product service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newMintTokenCmd(), newSeedUsersCmd(), newSetActiveCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

type adminEnv struct {
	cfg        *config.Config
	logger     *zap.Logger
	pg         *persistence.Postgres
	principals repository.PrincipalRepository
}

func setup(ctx context.Context) (*adminEnv, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	if pg.PoolHandle() == nil {
		pg.Close()
		return nil, nil, errors.New("POSTGRES_DSN must be set")
	}

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			pg.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	env := &adminEnv{
		cfg:        cfg,
		logger:     logger,
		pg:         pg,
		principals: repository.NewPrincipalRepository(pg.PoolHandle()),
	}
	cleanup := func() {
		pg.Close()
		_ = logger.Sync()
	}
	return env, cleanup, nil
}

func newMintTokenCmd() *cobra.Command {
	var (
		actor      string
		ttlMinutes int
	)

	cmd := &cobra.Command{
		Use:   "mint-token <username>",
		Short: "Mint a short-lived access token for a principal",
		Long: "Mints a signed token for the named principal on behalf of the " +
			"invoking administrator. Nothing is stored; the token is valid " +
			"until its embedded expiry.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, cleanup, err := setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			tokenService := service.NewTokenService(*env.cfg, env.principals, events.NewInMemoryDispatcher())

			ttl := time.Duration(ttlMinutes) * time.Minute
			result, err := tokenService.Mint(ctx, actor, args[0], ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Token)
			fmt.Fprintf(cmd.ErrOrStderr(), "subject=%s role=%s expires_at=%s\n",
				result.Subject, result.Role, result.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "username of the invoking administrator")
	cmd.Flags().IntVar(&ttlMinutes, "ttl", 0, "token lifetime in minutes (0 uses the configured default)")
	_ = cmd.MarkFlagRequired("actor")
	return cmd
}

func newSeedUsersCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "seed-users",
		Short: "Create the default test principals (admin, alice, bob)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, cleanup, err := setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			seeds := []struct {
				username string
				role     domain.Role
			}{
				{"admin", domain.RoleAdmin},
				{"alice", domain.RolePrivileged},
				{"bob", domain.RoleNonAdmin},
			}

			for _, seed := range seeds {
				if _, err := env.principals.GetByUsername(ctx, seed.username); err == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", seed.username)
					continue
				}

				hash, err := auth.HashPassword(password, env.cfg.Auth.BcryptCost)
				if err != nil {
					return err
				}
				principal := &domain.Principal{
					Username:     seed.username,
					Role:         seed.role,
					PasswordHash: hash,
					Active:       true,
				}
				if err := env.principals.Create(ctx, principal); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created: %s (%s)\n", seed.username, seed.role)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "test123", "default password for seeded principals")
	return cmd
}

func newSetActiveCmd() *cobra.Command {
	var active bool

	cmd := &cobra.Command{
		Use:   "set-active <username>",
		Short: "Activate or deactivate a principal",
		Long: "Flips the active flag for the named principal. Deactivation does " +
			"not revoke outstanding tokens; it stops new ones from being minted " +
			"and makes the verifier reject the principal's requests.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, cleanup, err := setup(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			principal, err := setPrincipalActive(ctx, env.principals, args[0], active)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s active=%t\n", principal.Username, principal.Active)
			return nil
		},
	}

	cmd.Flags().BoolVar(&active, "active", true, "desired active state")
	return cmd
}

// setPrincipalActive loads the named principal and persists the new flag.
func setPrincipalActive(ctx context.Context, principals repository.PrincipalRepository, username string, active bool) (*domain.Principal, error) {
	principal, err := principals.GetByUsername(ctx, username)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewUnknownPrincipal(username)
		}
		return nil, err
	}

	principal.Active = active
	if err := principals.Update(ctx, principal); err != nil {
		return nil, err
	}
	return principal, nil
}
