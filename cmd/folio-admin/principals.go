package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	redisadapter "github.com/target/folio/internal/adapters/redis"
	"github.com/target/folio/internal/bootstrap"
)

func parsePrincipalID(name string, args []string) (string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	id := fs.String("id", "", "principal id (required)")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if strings.TrimSpace(*id) == "" {
		return "", errors.New("-id is required")
	}
	return strings.TrimSpace(*id), nil
}

// withPrincipalStore connects to Redis and hands fn the same store the server uses.
func withPrincipalStore(cmdCtx *commandContext, fn func(*redisadapter.PrincipalStore) error) (err error) {
	if !cmdCtx.Config.Redis.Enabled {
		return errors.New("REDIS_ENABLED is false; local principals live in server memory only")
	}
	client, err := bootstrap.ConnectRedis(cmdCtx.Ctx, bootstrap.RedisConnectConfig{
		RedisConfig: cmdCtx.Config.Redis,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close redis client: %w", cerr))
		}
	}()
	return fn(redisadapter.NewPrincipalStoreWithPrefix(client, cmdCtx.Config.Redis.KeyPrefix+"principal:"))
}

func runShowPrincipal(cmdCtx *commandContext, args []string) error {
	id, err := parsePrincipalID("show-principal", args)
	if err != nil {
		return err
	}
	return withPrincipalStore(cmdCtx, func(store *redisadapter.PrincipalStore) error {
		p, err := store.Get(cmdCtx.Ctx, id)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmdCtx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	})
}

func runDeletePrincipal(cmdCtx *commandContext, args []string) error {
	id, err := parsePrincipalID("delete-principal", args)
	if err != nil {
		return err
	}
	return withPrincipalStore(cmdCtx, func(store *redisadapter.PrincipalStore) error {
		if err := store.Delete(cmdCtx.Ctx, id); err != nil {
			return err
		}
		return writef(cmdCtx.Out, "deleted principal %s\n", id)
	})
}
