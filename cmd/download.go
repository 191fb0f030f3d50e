package cmd

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"github.com/mlazzje/dlgmail/internal/attachment"
	"github.com/mlazzje/dlgmail/internal/batch"
	"github.com/mlazzje/dlgmail/internal/download"
	"github.com/mlazzje/dlgmail/internal/gmail"
	"github.com/mlazzje/dlgmail/internal/logging"
)

func newDownloadCmd() *cobra.Command {
	var (
		account    string
		dir        string
		archive    string
		query      string
		maxResults int64
		retries    int
		progress   bool
		urlMode    bool
		debugMode  bool
	)

	cmd := &cobra.Command{
		Use:   "download [messageID...]",
		Short: "Download all attachments of the given Gmail messages",
		Long: `Download every attachment of one or more Gmail messages into a local
directory. Messages can be named by ID or found with a Gmail search query:

  dlgmail download 18c2f3a9d4e5b6f7
  dlgmail download --query 'has:attachment from:billing@example.com'

Filename collisions are resolved by uniquifying ("invoice (1).pdf"), never
by overwriting. With --zip, the downloaded files are additionally bundled
into one archive.

With --urls, the arguments are treated as direct attachment URLs and
fetched over plain HTTP instead of the Gmail API. No authentication is
used in that mode.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(debugMode)
			ctx := cmd.Context()

			if urlMode {
				return downloadURLs(ctx, args, dir, archive, retries, progress, logger)
			}

			client, err := gmail.NewClientForAccount(ctx, account)
			if err != nil {
				return fmt.Errorf("failed to create Gmail client for account %s: %w", account, err)
			}

			messageIDs := args
			if query != "" {
				found, err := client.SearchMessages(query, maxResults)
				if err != nil {
					return fmt.Errorf("failed to search messages: %w", err)
				}
				messageIDs = append(messageIDs, found...)
			}
			if len(messageIDs) == 0 {
				return fmt.Errorf("nothing to download; pass message IDs or --query")
			}

			var handles []attachment.Handle
			for _, id := range messageIDs {
				msgHandles, err := client.MessageHandles(ctx, id)
				if err != nil {
					return fmt.Errorf("failed to read message %s: %w", id, err)
				}
				handles = append(handles, msgHandles...)
			}

			sink, err := gmail.NewAPISink(client, dir, logger)
			if err != nil {
				return err
			}

			orchestrator := &download.Orchestrator{
				Sink: sink,
				Resolver: &attachment.Resolver{
					Retries: retries,
					Probe:   gmail.RefreshProbe(),
					Logger:  logger,
				},
				Logger: logger,
			}

			br, err := orchestrator.DownloadAll(ctx, handles)
			if err != nil {
				return err
			}

			return finishBatch(sink.Dir(), archive, br)
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().StringVar(&dir, "dir", defaultDownloadDir(), "Directory to save attachments into")
	cmd.Flags().StringVar(&archive, "zip", "", "Bundle the downloaded files into this zip archive in the download directory")
	cmd.Flags().StringVar(&query, "query", "", "Gmail search query; matching messages are downloaded in addition to the ones given as arguments")
	cmd.Flags().Int64Var(&maxResults, "max-results", 10, "Maximum number of messages a --query may add")
	cmd.Flags().IntVar(&retries, "retries", 0, "Retry budget for attachments that are not ready yet (0 uses the default)")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show a per-file progress bar (--urls mode only)")
	cmd.Flags().BoolVar(&urlMode, "urls", false, "Treat arguments as direct attachment URLs and fetch them over HTTP")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	return cmd
}

// downloadURLs fetches direct attachment URLs through the HTTP sink. The
// URLs run through the same resolution and batch pipeline as API downloads
// so sanitization, uniquifying and per-item isolation behave identically.
func downloadURLs(ctx context.Context, urls []string, dir, archive string, retries int, progress bool, logger logging.Logger) error {
	if len(urls) == 0 {
		return fmt.Errorf("nothing to download; pass attachment URLs")
	}

	opts := []download.HTTPSinkOption{download.WithLogger(logger)}
	if progress {
		opts = append(opts, download.WithProgress())
	}
	sink, err := download.NewHTTPSink(dir, opts...)
	if err != nil {
		return err
	}

	handles := make([]attachment.Handle, len(urls))
	for i, u := range urls {
		handles[i] = urlHandle{raw: u}
	}

	orchestrator := &download.Orchestrator{
		Sink:     sink,
		Resolver: &attachment.Resolver{Retries: retries, Logger: logger},
		Logger:   logger,
	}

	br, err := orchestrator.DownloadAll(ctx, handles)
	if err != nil {
		return err
	}

	return finishBatch(sink.Dir(), archive, br)
}

// urlHandle adapts a plain URL to the attachment pipeline.
type urlHandle struct {
	raw string
}

func (h urlHandle) Title(ctx context.Context) (string, error) {
	u, err := url.Parse(h.raw)
	if err != nil {
		return "", fmt.Errorf("unparseable URL: %w", err)
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." || base == "" {
		return "", fmt.Errorf("URL carries no filename")
	}
	return base, nil
}

func (h urlHandle) AttachmentType() (string, error) { return "FILE", nil }

func (h urlHandle) DownloadURL(ctx context.Context) (string, error) { return h.raw, nil }

func (h urlHandle) Element() *goquery.Selection { return nil }

// finishBatch reports the batch outcome on stdout, optionally bundles the
// saved files into a zip archive, and turns a partial failure into a
// non-zero exit.
func finishBatch(dir, archive string, br *batch.BatchResult) error {
	for _, r := range br.Results {
		if r.Status == batch.StatusSuccess {
			fmt.Printf("saved %s\n", r.Detail)
		} else {
			fmt.Printf("error: %s\n", r.Error)
		}
	}

	if archive != "" {
		var files []string
		for _, r := range br.Results {
			if r.Status == batch.StatusSuccess && r.Detail != "" {
				files = append(files, r.Detail)
			}
		}
		if len(files) == 0 {
			return fmt.Errorf("no files downloaded, nothing to archive")
		}

		name := attachment.SanitizeFilename(archive, "attachments")
		if filepath.Ext(name) != ".zip" {
			name += ".zip"
		}
		zipPath := filepath.Join(dir, name)
		if err := download.BundleZip(zipPath, files); err != nil {
			return fmt.Errorf("failed to bundle archive: %w", err)
		}
		fmt.Printf("bundled %d file(s) into %s\n", len(files), zipPath)
	}

	fmt.Printf("%d/%d attachment(s) downloaded\n", br.Succeeded, br.Total)
	if br.Failed > 0 {
		return fmt.Errorf("%d of %d attachment(s) failed", br.Failed, br.Total)
	}
	return nil
}
