package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AdiDevClick/teachboard/internal/classfile"
	appI18n "github.com/AdiDevClick/teachboard/internal/i18n"
	"github.com/AdiDevClick/teachboard/internal/model"
	"github.com/AdiDevClick/teachboard/internal/report"
	"github.com/AdiDevClick/teachboard/internal/script"
	"github.com/AdiDevClick/teachboard/internal/session"
	"github.com/AdiDevClick/teachboard/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "teachboard",
		Short: "Run and report on class evaluation sessions",
	}

	evaluate := evaluateCmd()
	root.AddCommand(evaluate, importCmd(), classesCmd())

	// Make "evaluate" the default when no subcommand is given.
	root.RunE = evaluate.RunE
	root.Flags().AddFlagSet(evaluate.Flags())

	return root
}

func addCommonFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("db", "teachboard.db", "SQLite class catalog path")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func evaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Load a class, replay a session script and print the report",
		RunE:  runEvaluate,
	}
	f := cmd.Flags()
	f.String("class-id", "", "Class to load from the catalog")
	f.StringP("class-file", "c", "", "Class file to load instead of the catalog (JSON or YAML)")
	f.StringP("script", "s", "", "Session script to replay (YAML)")
	f.StringP("format", "f", "text", "Report format (text, json)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.StringP("lang", "l", "en", "Report language (en, fr)")
	addCommonFlags(cmd)
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Import class files into the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runImport,
	}
	addCommonFlags(cmd)
	return cmd
}

func classesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classes",
		Short: "List the classes in the catalog",
		RunE:  runClasses,
	}
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
	addCommonFlags(cmd)
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("TEACHBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("teachboard")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/teachboard")
	v.AddConfigPath("/etc/teachboard")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	class, err := loadClass(v)
	if err != nil {
		return err
	}

	engine := session.New(session.WithLogger(slog.Default()))
	engine.SetSelectedClass(*class)

	if path := v.GetString("script"); path != "" {
		s, err := script.Load(path)
		if err != nil {
			return fmt.Errorf("load script: %w", err)
		}
		res, err := script.Run(engine, s)
		if err != nil {
			return fmt.Errorf("replay %s: %w", path, err)
		}
		slog.Info("script replayed", "path", path, "applied", res.Applied, "unchanged", res.Unchanged)
	}

	rep := report.Build(engine.Snapshot())

	return withOutput(v.GetString("output"), func(w io.Writer) error {
		switch strings.ToLower(v.GetString("format")) {
		case "json":
			return report.WriteJSON(w, rep)
		case "text", "":
			lang := v.GetString("lang")
			if err := appI18n.Init(lang); err != nil {
				return fmt.Errorf("init i18n: %w", err)
			}
			return report.WriteText(appI18n.WithLanguage(cmd.Context(), lang), w, rep)
		default:
			return fmt.Errorf("unknown format %q (want text or json)", v.GetString("format"))
		}
	})
}

func loadClass(v *viper.Viper) (*model.ClassSnapshot, error) {
	if id := v.GetString("class-id"); id != "" {
		db, err := store.New(v.GetString("db"))
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		return db.LoadClass(id)
	}
	if path := v.GetString("class-file"); path != "" {
		class, _, err := classfile.Load(path)
		return class, err
	}
	return nil, errors.New("a class is required: set --class-id or --class-file")
}

func runImport(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	return importClasses(db, args)
}

func importClasses(db *store.Store, paths []string) error {
	for _, path := range paths {
		class, data, err := classfile.Load(path)
		if err != nil {
			return err
		}

		hash := sha256sum(data)
		storedHash, err := db.GetImportedFileHash(path)
		if err != nil {
			return fmt.Errorf("check import status for %s: %w", path, err)
		}
		if storedHash == hash {
			slog.Info("class file unchanged, skipping", "path", path)
			continue
		}
		if storedHash != "" {
			slog.Info("class file changed since last import, replacing", "path", path, "class_id", class.ID)
		}

		if err := db.SaveClass(*class); err != nil {
			return fmt.Errorf("save class from %s: %w", path, err)
		}
		if err := db.SetImportedFileHash(path, hash); err != nil {
			return fmt.Errorf("record import for %s: %w", path, err)
		}
		slog.Info("imported class", "path", path, "class_id", class.ID,
			"students", len(class.Students), "tasks", len(class.Templates))
	}
	return nil
}

func runClasses(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	classes, err := db.ListClasses()
	if err != nil {
		return fmt.Errorf("list classes: %w", err)
	}
	return writeClasses(cmd.OutOrStdout(), v.GetString("format"), classes)
}

func writeClasses(w io.Writer, format string, classes []model.ClassSummary) error {
	if strings.ToLower(format) == "json" {
		if classes == nil {
			classes = []model.ClassSummary{}
		}
		data, err := json.MarshalIndent(classes, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTUDENTS\tTASKS\tIMPORTED")
	for _, c := range classes {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", c.ID, c.Name, c.StudentCount, c.TaskCount, c.ImportedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

// withOutput runs fn against stdout or the named file.
func withOutput(outPath string, fn func(io.Writer) error) error {
	if outPath == "" || outPath == "-" {
		return fn(os.Stdout)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func sha256sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
