// Command download fetches a single video URL through the same strategy
// chain the server uses and prints the result, handy for debugging
// source classification and download failures.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"reelscope/internal/logging"
	"reelscope/internal/media"
	"reelscope/internal/webfetch"
	"reelscope/internal/youtube"
)

func main() {
	var (
		cookieFile = flag.String("cookies", os.Getenv("INSTAGRAM_COOKIE_FILE"), "Netscape cookie file for restricted social hosts")
		output     = flag.String("o", "", "Copy the downloaded video to this path")
		keep       = flag.Bool("keep", false, "Keep the temporary workspace")
	)
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <video URL>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	url := flag.Arg(0)
	logger := logging.NewLogger("info")

	var pages media.PageFetcher
	if fetcher, err := webfetch.NewClient(nil); err != nil {
		logger.Warn("headless browser unavailable, embed-page strategy disabled", "error", err)
	} else {
		pages = fetcher
		defer fetcher.Close()
	}

	ws, err := media.NewWorkspace()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !*keep {
		defer ws.Release()
	}

	class := media.Classify(url, *cookieFile)
	fmt.Printf("Source: %s (cookie available: %v)\n", class.Kind, class.CookieAvailable)

	dl := media.NewDownloader(youtube.NewClient(), pages, *cookieFile, logger)
	result, err := dl.Download(context.Background(), class, url, ws)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Download failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Video: %s\n", result.VideoPath)
	if result.Title != nil {
		fmt.Printf("Title: %s\n", *result.Title)
	}
	if result.Uploader != nil {
		fmt.Printf("Uploader: %s\n", *result.Uploader)
	}
	if result.Caption != nil {
		fmt.Printf("Caption: %s\n", *result.Caption)
	}
	if *keep {
		fmt.Printf("Workspace kept at: %s\n", ws.Root())
	}

	if *output != "" {
		if err := copyFile(result.VideoPath, *output); err != nil {
			fmt.Fprintf(os.Stderr, "Error copying video: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved to: %s\n", *output)
	}
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
