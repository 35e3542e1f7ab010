package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tidymark/internal/ai"
	"tidymark/internal/config"
	"tidymark/internal/exporter"
	"tidymark/internal/importer"
	"tidymark/internal/linkcheck"
	"tidymark/internal/model"
	"tidymark/internal/organizer"
	"tidymark/internal/picker"
	"tidymark/internal/search"
	"tidymark/internal/store"
)

var (
	folderStyle = lipgloss.NewStyle().Bold(true)
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	deadStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if len(os.Args) < 2 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "help", "--help", "-h":
		printHelp()
	case "import":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Usage: tidymark import <file.html>\n")
			os.Exit(1)
		}
		runImport(os.Args[2])
	case "organize":
		runOrganize(hasFlag("--dry-run"))
	case "consolidate":
		runConsolidate(intFlag("--threshold"))
	case "cleanup":
		runCleanup()
	case "tree":
		runTree()
	case "export":
		var outputPath string
		if len(os.Args) >= 3 && !strings.HasPrefix(os.Args[2], "--") {
			outputPath = os.Args[2]
		}
		runExport(outputPath, hasFlag("--html"))
	case "search":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Usage: tidymark search <query>\n")
			os.Exit(1)
		}
		runSearch(os.Args[2], hasFlag("--copy"))
	case "check":
		runCheck()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	help := `tidymark - bookmark folder organizer

Usage:
  tidymark import <file>        Import a browser bookmark HTML export
  tidymark organize [--dry-run] Categorize unfiled bookmarks into folders
  tidymark consolidate [--threshold n]
                                Merge sparse folders into their parents
  tidymark cleanup              Remove empty folders
  tidymark tree                 Show the folder tree with bookmark counts
  tidymark export [path] [--html]
                                Write a backup snapshot (JSON, or HTML)
  tidymark search <query> [--copy]
                                Fuzzy-search bookmarks
  tidymark check                Probe bookmark URLs for dead links
  tidymark help                 Show this help

Organizing uses the Anthropic API and requires ANTHROPIC_API_KEY.

Data Storage:
  ~/.config/tidymark/bookmarks.db
  ~/.config/tidymark/config.json
`
	fmt.Print(help)
}

// hasFlag reports whether a literal flag is present after the command.
func hasFlag(name string) bool {
	for _, arg := range os.Args[2:] {
		if arg == name {
			return true
		}
	}
	return false
}

// intFlag returns the integer following a flag, or 0 when absent.
func intFlag(name string) int {
	for i, arg := range os.Args[2:] {
		if arg == name && i+3 < len(os.Args) {
			if n, err := strconv.Atoi(os.Args[i+3]); err == nil {
				return n
			}
		}
	}
	return 0
}

// openAll opens the config and the bookmark database.
func openAll() (*config.Config, *store.SQLiteStore) {
	configPath, err := config.DefaultPath()
	if err != nil {
		fatal("resolve config path", err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fatal("load config", err)
	}

	dbPath, err := store.DefaultDatabasePath()
	if err != nil {
		fatal("resolve database path", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		fatal("open bookmark database", err)
	}
	return cfg, s
}

// findContainer returns the ID of the top-level container with the given
// title.
func findContainer(ctx context.Context, s *store.SQLiteStore, title string) string {
	children, err := s.ListChildren(ctx, store.RootID)
	if err != nil {
		fatal("list top-level containers", err)
	}
	for _, child := range children {
		if child.IsFolder() && child.Title == title {
			return child.ID
		}
	}
	fatal("find container", fmt.Errorf("no top-level folder titled %q", title))
	return ""
}

func fatal(what string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", what, err)
	os.Exit(1)
}

// runImport loads a Netscape bookmark HTML file into the base container.
func runImport(filePath string) {
	cfg, s := openAll()
	defer s.Close()
	ctx := context.Background()

	f, err := os.Open(filePath)
	if err != nil {
		fatal("open import file", err)
	}
	defer f.Close()

	baseID := findContainer(ctx, s, cfg.BaseFolder)
	stats, err := importer.Import(ctx, s, baseID, f)
	if err != nil {
		fatal("import bookmarks", err)
	}

	fmt.Printf("Imported %d bookmarks and %d folders into %q\n",
		stats.Bookmarks, stats.Folders, cfg.BaseFolder)
}

// runOrganize asks the categorization oracle for a category per unfiled
// bookmark, creates the category folders, and moves the bookmarks.
func runOrganize(dryRun bool) {
	cfg, s := openAll()
	defer s.Close()
	ctx := context.Background()

	baseID := findContainer(ctx, s, cfg.BaseFolder)
	manager := organizer.NewFolderManager(organizer.FolderManagerParams{
		Store:  s,
		BaseID: baseID,
	})

	export, err := manager.ExportOrganization(ctx)
	if err != nil {
		fatal("snapshot bookmarks", err)
	}

	// Unfiled = sitting directly in the base container
	var unfiled []model.ExportedBookmark
	for _, b := range export.Bookmarks {
		if b.FolderPath == cfg.BaseFolder {
			unfiled = append(unfiled, b)
		}
	}
	if len(unfiled) == 0 {
		fmt.Println("Nothing to organize.")
		return
	}

	client, err := ai.NewClient(cfg.AIModel)
	if err != nil {
		fatal("create AI client", err)
	}
	aiContext := ai.BuildContext(export)

	// One suggestion per bookmark; failures skip that bookmark only
	assignments := make(map[string][]string) // category -> bookmark IDs
	var categories []string
	for i, b := range unfiled {
		fmt.Printf("\rCategorizing %d/%d...", i+1, len(unfiled))
		suggestion, err := client.SuggestCategory(b, aiContext)
		if err != nil {
			slog.Warn("categorization failed", "bookmark", b.Title, "err", err)
			continue
		}
		category := suggestion.Category
		if len(model.SplitCategoryPath(category)) == 0 {
			category = cfg.FallbackFolder
		}
		if _, seen := assignments[category]; !seen {
			categories = append(categories, category)
		}
		assignments[category] = append(assignments[category], b.ID)
		if dryRun {
			fmt.Printf("\r%-60s -> %s (%s)\n", b.Title, category, suggestion.Confidence)
		}
	}
	fmt.Println()

	if dryRun {
		fmt.Printf("Dry run: %d bookmarks across %d categories, nothing moved.\n",
			len(unfiled), len(categories))
		return
	}

	folders := manager.CreateCategoryFolders(ctx, categories)

	var moves []model.MoveRequest
	for category, bookmarkIDs := range assignments {
		folderID, ok := folders[category]
		if !ok {
			continue
		}
		for _, id := range bookmarkIDs {
			moves = append(moves, model.MoveRequest{BookmarkID: id, FolderID: folderID})
		}
	}

	result := manager.MoveBookmarks(ctx, moves)
	fmt.Printf("Organized %d bookmarks into %d folders (%d errors)\n",
		result.Success, len(folders), result.Errors)
	for _, detail := range result.ErrorDetails {
		fmt.Printf("  failed: %s: %s\n", detail.BookmarkID, detail.Err)
	}
}

// runConsolidate merges sparse folders and prints the run summary.
func runConsolidate(threshold int) {
	cfg, s := openAll()
	defer s.Close()
	ctx := context.Background()

	consolidator := organizer.NewFolderConsolidator(organizer.FolderConsolidatorParams{
		Store:          s,
		Threshold:      cfg.MinBookmarks,
		FallbackFolder: cfg.FallbackFolder,
		ReservedTitles: cfg.ReservedFolders,
	})
	consolidator.SetMinBookmarksThreshold(threshold) // ignored unless >= 1

	result := consolidator.ConsolidateSparseFolders(ctx)

	fmt.Printf("Processed %d folders: moved %d bookmarks, removed %d folders\n",
		result.FoldersProcessed, result.BookmarksMoved, result.FoldersRemoved)
	for _, path := range result.Paths {
		fmt.Printf("  %-12s %s (%d bookmarks)\n", path.Action, path.FolderName, path.BookmarkCount)
	}
}

// runCleanup removes empty folders everywhere below the root.
func runCleanup() {
	cfg, s := openAll()
	defer s.Close()
	ctx := context.Background()

	manager := organizer.NewFolderManager(organizer.FolderManagerParams{
		Store:          s,
		ReservedTitles: cfg.ReservedFolders,
	})
	removed := manager.CleanupEmptyFolders(ctx, store.RootID)
	fmt.Printf("Removed %d empty folders\n", removed)
}

// runTree prints the folder tree with bookmark counts.
func runTree() {
	_, s := openAll()
	defer s.Close()
	ctx := context.Background()

	manager := organizer.NewFolderManager(organizer.FolderManagerParams{Store: s})
	structure := manager.FolderStructure(ctx, store.RootID)
	if structure == nil {
		fatal("read folder structure", fmt.Errorf("structure unavailable"))
	}

	for _, child := range structure.Children {
		printTree(child, 0)
	}
	fmt.Printf("\n%s\n", countStyle.Render(fmt.Sprintf("%d bookmarks total", structure.BookmarkCount)))
}

func printTree(n *model.FolderNode, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s %s\n",
		indent,
		folderStyle.Render(n.Title),
		countStyle.Render(fmt.Sprintf("(%d)", n.BookmarkCount)),
	)
	for _, child := range n.Children {
		printTree(child, depth+1)
	}
}

// runExport writes a backup snapshot.
func runExport(outputPath string, asHTML bool) {
	_, s := openAll()
	defer s.Close()
	ctx := context.Background()

	if asHTML {
		roots, err := s.Tree(ctx)
		if err != nil {
			fatal("read bookmark tree", err)
		}
		if outputPath == "" {
			outputPath, err = exporter.DefaultExportPath("html")
			if err != nil {
				fatal("resolve export path", err)
			}
		}
		if err := os.WriteFile(outputPath, []byte(exporter.ExportHTML(roots)), 0644); err != nil {
			fatal("write export file", err)
		}
		fmt.Printf("Exported bookmarks to %s\n", outputPath)
		return
	}

	manager := organizer.NewFolderManager(organizer.FolderManagerParams{Store: s})
	export, err := manager.ExportOrganization(ctx)
	if err != nil {
		fatal("snapshot bookmarks", err)
	}

	if outputPath == "" {
		outputPath, err = exporter.DefaultExportPath("json")
		if err != nil {
			fatal("resolve export path", err)
		}
	}
	if err := exporter.WriteJSON(export, outputPath); err != nil {
		fatal("write export file", err)
	}
	fmt.Printf("Exported %d bookmarks to %s\n", len(export.Bookmarks), outputPath)
}

// runSearch fuzzy-searches bookmark titles and prints (or copies) the
// selected URL.
func runSearch(query string, copyURL bool) {
	_, s := openAll()
	defer s.Close()
	ctx := context.Background()

	manager := organizer.NewFolderManager(organizer.FolderManagerParams{Store: s})
	export, err := manager.ExportOrganization(ctx)
	if err != nil {
		fatal("snapshot bookmarks", err)
	}

	results := search.FuzzySearch(export.Bookmarks, query)
	if len(results) == 0 {
		fmt.Printf("No bookmarks found for %q\n", query)
		return
	}

	var selected *model.ExportedBookmark
	if len(results) == 1 {
		selected = &results[0].Bookmark
	} else {
		p := picker.New(results, query)
		program := tea.NewProgram(p)
		finalModel, err := program.Run()
		if err != nil {
			fatal("run picker", err)
		}
		finalPicker := finalModel.(picker.Picker)
		if finalPicker.Cancelled() {
			return
		}
		selected = finalPicker.Selected()
	}
	if selected == nil {
		return
	}

	if copyURL {
		if err := clipboard.WriteAll(selected.URL); err != nil {
			fatal("copy to clipboard", err)
		}
		fmt.Printf("Copied %s\n", selected.URL)
		return
	}
	fmt.Printf("%s\n  /%s\n  %s\n", selected.Title, selected.FolderPath, selected.URL)
}

// runCheck probes every bookmark URL and reports dead or unreachable ones.
func runCheck() {
	cfg, s := openAll()
	defer s.Close()
	ctx := context.Background()

	manager := organizer.NewFolderManager(organizer.FolderManagerParams{Store: s})
	export, err := manager.ExportOrganization(ctx)
	if err != nil {
		fatal("snapshot bookmarks", err)
	}
	if len(export.Bookmarks) == 0 {
		fmt.Println("No bookmarks to check.")
		return
	}

	results := linkcheck.CheckURLs(export.Bookmarks, 8, 10*time.Second, cfg.CheckExcludeDomains,
		func(completed, total int) {
			fmt.Printf("\rChecking %d/%d...", completed, total)
		})
	fmt.Println()

	healthy := 0
	for _, r := range results {
		switch r.Status {
		case linkcheck.Healthy:
			healthy++
		case linkcheck.Dead:
			fmt.Printf("%s %s (%d)\n  %s\n",
				deadStyle.Render("dead"), r.Bookmark.Title, r.StatusCode, r.Bookmark.URL)
		case linkcheck.Unreachable:
			fmt.Printf("%s %s (%s)\n  %s\n",
				countStyle.Render("unreachable"), r.Bookmark.Title, r.Error, r.Bookmark.URL)
		}
	}
	fmt.Printf("%d of %d bookmarks healthy\n", healthy, len(results))
}
