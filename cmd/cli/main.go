package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/wadjakorntonsri/go-link-directory/pkg/adapters/handler"
	"github.com/wadjakorntonsri/go-link-directory/pkg/adapters/repository"
	"github.com/wadjakorntonsri/go-link-directory/pkg/config"
	"github.com/wadjakorntonsri/go-link-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-link-directory/pkg/logger"
	"github.com/wadjakorntonsri/go-link-directory/pkg/ports"
)

const usage = "expected 'export', 'import' or 'hash-password' subcommands"

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importFile := importCmd.String("file", "", "JSON file to import")
	hashCmd := flag.NewFlagSet("hash-password", flag.ExitOnError)
	hashCost := hashCmd.Int("cost", bcrypt.DefaultCost, "bcrypt cost")

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "hash-password":
		_ = hashCmd.Parse(os.Args[2:])
		hash, err := hashPassword(os.Stdin, *hashCost)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	case "export", "import":
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.AppEnv, cfg.LogLevel)

	ctx := context.Background()
	repo, closeRepo, err := repository.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer closeRepo()

	switch os.Args[1] {
	case "export":
		_ = exportCmd.Parse(os.Args[2:])
		err = doExport(ctx, repo, os.Stdout)
	case "import":
		_ = importCmd.Parse(os.Args[2:])
		if *importFile == "" {
			importCmd.PrintDefaults()
			closeRepo()
			os.Exit(1)
		}
		err = importFromFile(ctx, repo, *importFile, log)
	}
	if err != nil {
		closeRepo()
		log.Fatal().Err(err).Msgf("%s failed", os.Args[1])
	}
}

func doExport(ctx context.Context, repo ports.LinkRepository, w io.Writer) error {
	links, err := repo.Dump(ctx)
	if err != nil {
		return err
	}
	if links == nil {
		links = []domain.Link{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(links)
}

func importFromFile(ctx context.Context, repo ports.LinkRepository, filename string, log zerolog.Logger) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	imported, err := doImport(ctx, repo, file, log)
	if err != nil {
		return err
	}
	log.Info().Int("count", imported).Msg("import finished")
	return nil
}

// doImport inserts every valid link whose alias is not taken yet. IDs are
// reassigned by the target store; created_at is kept. Invalid rows and taken
// aliases are skipped; any storage failure makes the import return an error
// after the remaining rows were tried.
func doImport(ctx context.Context, repo ports.LinkRepository, r io.Reader, log zerolog.Logger) (int, error) {
	var links []domain.Link
	if err := json.NewDecoder(r).Decode(&links); err != nil {
		return 0, fmt.Errorf("decoding links: %w", err)
	}

	count := 0
	var storeErrs []error
	for i, l := range links {
		in, fieldErrs := handler.ValidateLink(domain.LinkInput{Alias: l.Alias, URL: l.URL, Title: l.Title})
		if len(fieldErrs) > 0 {
			ev := log.Warn().Int("row", i).Str("alias", l.Alias)
			for _, fe := range fieldErrs {
				ev = ev.Str(fe.Field, fe.Error)
			}
			ev.Msg("skipping invalid link")
			continue
		}

		link := domain.Link{Alias: in.Alias, URL: in.URL, Title: in.Title, CreatedAt: l.CreatedAt.UTC()}
		if link.CreatedAt.IsZero() {
			link.CreatedAt = time.Now().UTC()
		}

		err := repo.Create(ctx, &link)
		switch {
		case errors.Is(err, domain.ErrAliasTaken):
			log.Info().Str("alias", link.Alias).Msg("skipping existing alias")
		case err != nil:
			log.Error().Err(err).Str("alias", link.Alias).Msg("failed to import")
			storeErrs = append(storeErrs, fmt.Errorf("%s: %w", link.Alias, err))
		default:
			count++
		}
	}

	if len(storeErrs) > 0 {
		return count, fmt.Errorf("%d of %d links failed to import: %w", len(storeErrs), len(links), errors.Join(storeErrs...))
	}
	return count, nil
}

// hashPassword reads one line from r and returns its bcrypt hash for
// ADMIN_PASSWORD_HASH.
func hashPassword(r io.Reader, cost int) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password is empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
