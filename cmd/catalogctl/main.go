package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"Storefront/internal/admin"
	"Storefront/internal/catalog"
	"Storefront/pkg/kit"
)

const (
	dirFlag     = "dir"
	dsnFlag     = "dsn"
	secretFlag  = "secret"
	ttlFlag     = "ttl"
	subjectFlag = "subject"
)

const usage = `usage: catalogctl <command> [flags]

commands:
  validate  check every product descriptor under --dir
  import    copy the descriptors under --dir into Postgres
  token     print an admin token for the cache invalidation endpoint
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		fallDown()
	}

	log := kit.NewLogger("catalogctl", kit.LogConfig{Level: "info"})
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "validate":
		err = runValidate(ctx, args, log)
	case "import":
		err = runImport(ctx, args, log)
	case "token":
		err = runToken(args)
	default:
		fmt.Fprint(os.Stderr, usage)
		fallDown()
	}
	if err != nil {
		log.Error(cmd+" failed", zap.Error(err))
		fallDown()
	}
}

type descriptor struct {
	id   string
	raw  []byte
	slug string
}

// readDir decodes every descriptor under dir and returns the valid ones in
// catalog order along with one error per rejected descriptor.
func readDir(ctx context.Context, dir string) ([]descriptor, []error, error) {
	src := catalog.NewDirSource(dir)
	ids, err := src.IDs(ctx)
	if err != nil {
		return nil, nil, err
	}

	var (
		out  []descriptor
		errs []error
	)
	for _, id := range ids {
		raw, err := src.Read(ctx, id)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
			continue
		}
		p, err := catalog.DecodeDescriptor(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
			continue
		}
		if p.Slug != id {
			errs = append(errs, fmt.Errorf("%s: %w: slug %q", id, catalog.ErrMalformed, p.Slug))
			continue
		}
		out = append(out, descriptor{id: id, raw: raw, slug: p.Slug})
	}
	return out, errs, nil
}

func runValidate(ctx context.Context, args []string, log *zap.Logger) error {
	fs := pflag.NewFlagSet("validate", pflag.ExitOnError)
	dir := fs.StringP(dirFlag, "d", "./products", "catalog directory")
	_ = fs.Parse(args)

	valid, errs, err := readDir(ctx, *dir)
	if err != nil {
		return err
	}
	for _, e := range errs {
		log.Warn("invalid descriptor", zap.Error(e))
	}
	log.Info("validated catalog", zap.Int("valid", len(valid)), zap.Int("invalid", len(errs)))

	if len(errs) != 0 {
		return errors.Join(errs...)
	}
	return nil
}

func runImport(ctx context.Context, args []string, log *zap.Logger) error {
	fs := pflag.NewFlagSet("import", pflag.ExitOnError)
	dir := fs.StringP(dirFlag, "d", "./products", "catalog directory")
	dsn := fs.String(dsnFlag, os.Getenv("DATABASE_URL"), "postgres connection string")
	_ = fs.Parse(args)

	if *dsn == "" {
		return fmt.Errorf("--%s flag: required", dsnFlag)
	}

	valid, errs, err := readDir(ctx, *dir)
	if err != nil {
		return err
	}
	for _, e := range errs {
		log.Warn("skipping descriptor", zap.Error(e))
	}

	pool, err := pgxpool.New(ctx, *dsn)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	pg := catalog.NewPostgresSource(pool)
	if err := pg.EnsureSchema(ctx); err != nil {
		return err
	}

	for i, d := range valid {
		if err := pg.Upsert(ctx, d.slug, i, d.raw); err != nil {
			return fmt.Errorf("%s: %w", d.id, err)
		}
	}
	log.Info("imported catalog", zap.Int("products", len(valid)), zap.Int("skipped", len(errs)))
	return nil
}

func runToken(args []string) error {
	fs := pflag.NewFlagSet("token", pflag.ExitOnError)
	secret := fs.String(secretFlag, os.Getenv("ADMIN_JWT_SECRET"), "signing secret")
	ttl := fs.Duration(ttlFlag, time.Hour, "token lifetime")
	subject := fs.String(subjectFlag, "catalogctl", "token subject")
	_ = fs.Parse(args)

	if *secret == "" {
		return fmt.Errorf("--%s flag: required", secretFlag)
	}

	tok, err := admin.NewTokenMaker(*secret).New(*subject, admin.RoleAdmin, *ttl)
	if err != nil {
		return err
	}
	fmt.Println(tok)
	return nil
}

func fallDown() {
	os.Exit(2)
}
