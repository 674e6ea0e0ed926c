package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"springerdl/internal/catalog"
	"springerdl/internal/config"
	"springerdl/internal/download"
	httpx "springerdl/internal/http"
	"springerdl/internal/logging"
	"springerdl/internal/model"
	"springerdl/internal/springer"
)

func main() {
	// Command line flags
	var (
		packagesFlag     = flag.Bool("packages", false, "Print list of available packages (general topics) with their identifiers")
		subjectsFlag     = flag.Bool("subjects", false, "Print list of available subjects with their identifiers")
		inFlag           = flag.String("in", "", "Restrict -subjects to the given package IDs (comma-separated)")
		topicsFlag       = flag.Bool("topics", false, "Print list of all available topics (packages and subjects)")
		packageBooksFlag = flag.String("package-books", "", "Print book titles in the given package IDs (comma-separated)")
		subjectBooksFlag = flag.String("subject-books", "", "Print book titles in the given subject IDs (comma-separated)")
		pdfFlag          = flag.String("pdf", "", "Download books of the given topic IDs (comma-separated) in .pdf format")
		epubFlag         = flag.String("epub", "", "Download books of the given topic IDs (comma-separated) in .epub format")
		destFlag         = flag.String("dest", "", "Destination directory (overrides config)")
		groupFlag        = flag.Bool("group", false, "Save files into subdirectories named after each book's package")
		forceFlag        = flag.Bool("force", false, "Refetch the book listing instead of using the cached copy")
		configFlag       = flag.String("config", "", "Path to config file")
		verboseFlag      = flag.Bool("verbose", false, "Print more information to stdout")
		debugFlag        = flag.Bool("debug", false, "Print debug logs")
		silentFlag       = flag.Bool("silent", false, "Only errors are displayed")
	)

	flag.Parse()

	anyAction := *packagesFlag || *subjectsFlag || *topicsFlag ||
		*packageBooksFlag != "" || *subjectBooksFlag != "" ||
		*pdfFlag != "" || *epubFlag != ""
	if !anyAction {
		fmt.Println("springer-dl - Download multiple free Springer books at once")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  springer-dl -packages")
		fmt.Println("  springer-dl -subjects [-in 1,2]")
		fmt.Println("  springer-dl -pdf 1,3 -dest /books [-group]")
		fmt.Println()
		fmt.Println("For interactive mode, use: springer-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := slog.LevelWarn
	switch {
	case *debugFlag:
		level = slog.LevelDebug
	case *verboseFlag:
		level = slog.LevelInfo
	case *silentFlag:
		level = slog.LevelError
	}
	logger := logging.NewDefaultLogger(level)

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *destFlag != "" {
		settings.Destination = *destFlag
	}
	if *groupFlag {
		settings.GroupByPackage = true
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	client := httpx.NewClient(time.Duration(settings.HTTPTimeoutSeconds)*time.Second, settings.UserAgent)
	listing := springer.NewListing(client, settings.ListingURL, settings.CachePath, logger)

	// Create manager with progress callback
	manager := download.NewManager(settings, listing, logger, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := "   "
		switch event.Level {
		case download.LevelError:
			prefix = "ERROR: "
		case download.LevelWarning:
			prefix = "WARNING: "
		case download.LevelSuccess:
			prefix = "OK: "
		}

		fmt.Println(prefix + event.Message)
	})

	ix, err := manager.Catalog(ctx, *forceFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *topicsFlag || (*packagesFlag && *subjectsFlag):
		printPackages(ix)
		printSubjects(ix, nil)

	case *packagesFlag:
		printPackages(ix)

	case *subjectsFlag:
		filter, err := parseIDs(*inFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid -in list: %v\n", err)
			os.Exit(1)
		}
		printSubjects(ix, filter)

	case *packageBooksFlag != "" || *subjectBooksFlag != "":
		if err := printBooks(ix, *packageBooksFlag, *subjectBooksFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	default:
		if err := runDownloads(ctx, manager, *pdfFlag, *epubFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func parseIDs(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var ids []int
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%q is not a topic ID", strings.TrimSpace(part))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...).
		Render()
}

func printPackages(ix *catalog.Index) {
	fmt.Println("\nList of available packages:")

	var rows [][]string
	for _, p := range ix.Packages() {
		rows = append(rows, []string{strconv.Itoa(p.ID), p.Name, strconv.Itoa(p.Books)})
	}
	fmt.Println(renderTable([]string{"ID", "PACKAGE NAME", "BOOKS"}, rows))
}

func printSubjects(ix *catalog.Index, filter []int) {
	fmt.Println("\nList of subjects in requested packages:")

	var rows [][]string
	for _, s := range ix.Subjects(filter) {
		pkgIDs := make([]string, 0, len(s.Packages))
		for _, id := range s.Packages {
			pkgIDs = append(pkgIDs, strconv.Itoa(id))
		}
		rows = append(rows, []string{
			strconv.Itoa(s.ID), s.Name, strings.Join(pkgIDs, ", "), strconv.Itoa(s.Books),
		})
	}
	fmt.Println(renderTable([]string{"SUBJ ID", "SUBJECT NAME", "IN PACKAGES", "BOOKS"}, rows))
}

func printBooks(ix *catalog.Index, packageIDs, subjectIDs string) error {
	pkgIDs, err := parseIDs(packageIDs)
	if err != nil {
		return fmt.Errorf("invalid -package-books list: %w", err)
	}
	subjIDs, err := parseIDs(subjectIDs)
	if err != nil {
		return fmt.Errorf("invalid -subject-books list: %w", err)
	}

	printTopicBooks(ix.BooksFor(catalog.CategoryPackage, pkgIDs), "package")
	printTopicBooks(ix.BooksFor(catalog.CategorySubject, subjIDs), "subject")
	return nil
}

func printTopicBooks(results []catalog.TopicBooks, kind string) {
	for _, res := range results {
		if res.Err != nil {
			fmt.Printf("NO %s WITH ID = %d.\n", strings.ToUpper(kind), res.ID)
			continue
		}
		fmt.Printf("\nBooks in %s %q:\n", kind, res.Name)
		for _, title := range res.Titles {
			fmt.Println("   " + title)
		}
	}
}

func runDownloads(ctx context.Context, manager *download.Manager, pdfIDs, epubIDs string) error {
	batches := []struct {
		format model.Format
		raw    string
	}{
		{model.FormatPDF, pdfIDs},
		{model.FormatEPUB, epubIDs},
	}

	for _, batch := range batches {
		if batch.raw == "" {
			continue
		}
		ids, err := parseIDs(batch.raw)
		if err != nil {
			return fmt.Errorf("invalid -%s list: %w", batch.format, err)
		}

		report, err := manager.DownloadByTopics(ctx, ids, batch.format)
		if err != nil {
			return err
		}
		fmt.Printf("%d %s files downloaded, %d failed.\n", report.Downloaded, batch.format, report.Failed)
	}
	return nil
}
