package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/meghashyamc/picsearch/config"
	"github.com/meghashyamc/picsearch/engines"
	"github.com/meghashyamc/picsearch/engines/google"
	"github.com/meghashyamc/picsearch/imaging"
	"github.com/meghashyamc/picsearch/logger"
	"github.com/meghashyamc/picsearch/services/search"
	"github.com/spf13/cobra"
)

const maxPrintedResults = 5

var (
	imagePath     string
	imageURL      string
	engineNames   []string
	minSimilarity float64
	shrink        bool
	googlePages   int
)

func main() {
	godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "picsearch-demo",
		Short: "Run every reverse image search engine once and print what each found",
		Long: `Runs the configured engines one after another against a local image and an image URL.

Inputs default to DEMO_IMAGE_PATH and DEMO_IMAGE_URL. Engine failures are reported
in the summary; the process only exits non-zero when it cannot be set up.`,
		SilenceUsage: true,
		RunE:         runDemo,
	}

	rootCmd.Flags().StringVarP(&imagePath, "image", "i", "", "Path of a local image to search for")
	rootCmd.Flags().StringVarP(&imageURL, "url", "u", "", "URL of an image to search for")
	rootCmd.Flags().StringSliceVarP(&engineNames, "engines", "e", nil, "Engines to run (default: all)")
	rootCmd.Flags().Float64Var(&minSimilarity, "min-similarity", -1, "Drop scored results below this similarity (default: config)")
	rootCmd.Flags().BoolVar(&shrink, "shrink", false, "Shrink the local image to 250x250 PNG before uploading")
	rootCmd.Flags().IntVar(&googlePages, "google-pages", 1, "Google result pages to walk for the URL search")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(cfg.GetLogLevel())

	if imagePath == "" {
		imagePath = cfg.GetDemoImagePath()
	}
	if imageURL == "" {
		imageURL = cfg.GetDemoImageURL()
	}
	if imagePath == "" && imageURL == "" {
		return fmt.Errorf("nothing to search for: set --image or --url")
	}

	searchers, err := search.NewEngines(log, search.Settings{
		UserAgent:         cfg.GetUserAgent(),
		RequestsPerSecond: cfg.GetRequestsPerSecond(),
		SauceNAOAPIKey:    cfg.GetSauceNAOAPIKey(),
		YandexCookie:      cfg.GetYandexCookie(),
	})
	if err != nil {
		return fmt.Errorf("failed to set up engines: %w", err)
	}
	searchers, err = selectEngines(searchers, engineNames)
	if err != nil {
		return err
	}

	opts := engines.Options{
		Proxy:         cfg.GetProxy(),
		Timeout:       cfg.GetTimeout(),
		MinSimilarity: engines.Float(cfg.GetMinSimilarity()),
	}
	if minSimilarity >= 0 {
		opts.MinSimilarity = engines.Float(minSimilarity)
	}

	var encoded string
	if imagePath != "" && shrink {
		if encoded, err = imaging.FileToBase64(imagePath); err != nil {
			return fmt.Errorf("failed to prepare %s: %w", imagePath, err)
		}
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	for _, searcher := range searchers {
		if imagePath != "" {
			label := "file " + imagePath
			var resp *engines.Response
			if encoded != "" {
				resp, err = searcher.SearchBase64(ctx, encoded, opts)
			} else {
				resp, err = searcher.SearchFile(ctx, imagePath, opts)
			}
			printOutcome(out, searcher.Name(), label, resp, err)
		}
		if imageURL != "" {
			resp, err := searcher.SearchURL(ctx, imageURL, opts)
			printOutcome(out, searcher.Name(), "url "+imageURL, resp, err)
			if err == nil && googlePages > 1 {
				walkGooglePages(ctx, out, searcher, opts)
			}
		}
	}

	return nil
}

// walkGooglePages prints the pages after the first one, for engines that
// paginate. Other engines are skipped.
func walkGooglePages(ctx context.Context, out io.Writer, searcher engines.ImageSearch, opts engines.Options) {
	wrapped, ok := searcher.(*engines.Engine)
	if !ok {
		return
	}
	backend, ok := wrapped.Backend().(*google.Engine)
	if !ok {
		return
	}

	page, err := backend.SearchURLPage(ctx, imageURL, opts)
	if err != nil {
		printOutcome(out, searcher.Name(), "url "+imageURL+" page 1", nil, err)
		return
	}
	for i := 2; i <= googlePages; i++ {
		next, ok, err := backend.Next(ctx, page, opts)
		label := fmt.Sprintf("url %s page %d", imageURL, i)
		if err != nil {
			printOutcome(out, searcher.Name(), label, nil, err)
			return
		}
		if !ok {
			fmt.Fprintf(out, "\n== %s (%s)\n   no further pages\n", searcher.Name(), label)
			return
		}
		page = next
		printOutcome(out, searcher.Name(), label, page.Response(), nil)
	}
}

func selectEngines(searchers []engines.ImageSearch, names []string) ([]engines.ImageSearch, error) {
	if len(names) == 0 {
		return searchers, nil
	}

	selected := []engines.ImageSearch{}
	for _, name := range names {
		found := false
		for _, searcher := range searchers {
			if strings.EqualFold(searcher.Name(), strings.TrimSpace(name)) {
				selected = append(selected, searcher)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown engine %q, known engines: %s", name, strings.Join(search.EngineNames(), ", "))
		}
	}
	return selected, nil
}

func printOutcome(out io.Writer, engine string, input string, resp *engines.Response, err error) {
	fmt.Fprintf(out, "\n== %s (%s)\n", engine, input)
	if err != nil {
		fmt.Fprintf(out, "   failed [%s]: %s\n", engines.Kind(err), err)
		return
	}

	if resp.PageURL != "" {
		fmt.Fprintf(out, "   results page: %s\n", resp.PageURL)
	}
	fmt.Fprintf(out, "   %d results\n", len(resp.Results))
	for i, result := range resp.Results {
		if i == maxPrintedResults {
			fmt.Fprintf(out, "   ... %d more\n", len(resp.Results)-maxPrintedResults)
			break
		}
		similarity := "-"
		if result.Similarity != nil {
			similarity = fmt.Sprintf("%.1f", *result.Similarity)
		}
		fmt.Fprintf(out, "   #%d [%s] %s\n      %s\n", i+1, similarity, result.Title, result.URL)
	}
}
