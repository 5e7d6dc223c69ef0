package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	serverURL   string
	noAutoStart bool
	rootCmd     = &cobra.Command{
		Use:   "musicvault",
		Short: "MusicVault CLI - Local cache for downloadable audio",
		Long:  `A command-line interface for managing a local content-addressed cache of audio files and cover art.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Server URL")
	rootCmd.PersistentFlags().BoolVar(&noAutoStart, "no-auto-start", false, "Don't auto-start server if not running")

	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(playedCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
}

// ensureServer checks if server is running and starts it if needed (unless --no-auto-start)
func ensureServer() {
	if noAutoStart {
		return
	}
	if err := ensureServerRunning(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

var downloadCmd = &cobra.Command{
	Use:   "download [url]",
	Short: "Download an audio into the local cache",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()

		id, _ := cmd.Flags().GetString("id")
		title, _ := cmd.Flags().GetString("title")
		platform, _ := cmd.Flags().GetString("platform")
		format, _ := cmd.Flags().GetString("format")
		cover, _ := cmd.Flags().GetString("cover")

		audio := map[string]interface{}{
			"id":           id,
			"title":        title,
			"download_url": args[0],
			"platform":     platform,
		}
		if format != "" {
			audio["format"] = format
		}
		if cover != "" {
			audio["cover"] = cover
		}

		data, _ := json.Marshal(map[string]interface{}{"audio": audio})
		resp, err := http.Post(serverURL+"/api/v1/audios", "application/json", bytes.NewBuffer(data))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusCreated {
			fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
			os.Exit(1)
		}

		var result map[string]interface{}
		json.Unmarshal(body, &result)
		fmt.Printf("Audio cached successfully!\n")
		fmt.Printf("Path: %s\n", result["path"])
		if cover := str(result["cover_path"]); cover != "" {
			fmt.Printf("Cover: %s\n", cover)
		}
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cached audios",
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()

		resp, err := http.Get(serverURL + "/api/v1/audios")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		var result struct {
			Audios []map[string]interface{} `json:"audios"`
		}
		json.Unmarshal(body, &result)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tPLATFORM\tPLAYS\tPATH")
		for _, entry := range result.Audios {
			audio, _ := entry["audio"].(map[string]interface{})
			if audio == nil {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\n",
				truncate(str(audio["id"]), 16),
				truncate(str(audio["title"]), 40),
				audio["platform"],
				entry["play_count"],
				truncate(str(entry["path"]), 50))
		}
		w.Flush()
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Remove a cached audio and its files",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()

		req, _ := http.NewRequest(http.MethodDelete, serverURL+"/api/v1/audios/"+args[0], nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
			os.Exit(1)
		}
		fmt.Println("Audio deleted successfully")
	},
}

var playedCmd = &cobra.Command{
	Use:   "played [id]",
	Short: "Record a playback of a cached audio",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()

		resp, err := http.Post(serverURL+"/api/v1/audios/"+args[0]+"/played", "application/json", nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
			os.Exit(1)
		}
		fmt.Println("Playback recorded")
	},
}

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show cache storage usage",
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()

		resp, err := http.Get(serverURL + "/api/v1/storage/usage")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		var usage map[string]interface{}
		json.Unmarshal(body, &usage)

		fmt.Println("Storage Usage:")
		fmt.Printf("  Total:  %s\n", humanBytes(usage["total_bytes"]))
		fmt.Printf("  Audios: %s\n", humanBytes(usage["audio_bytes"]))
		fmt.Printf("  Covers: %s\n", humanBytes(usage["cover_bytes"]))
		fmt.Printf("  Count:  %v\n", usage["audio_count"])
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup [max-size-mb]",
	Short: "Evict least-recently-played audios until usage fits the budget",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()

		maxSize, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid size %q\n", args[0])
			os.Exit(1)
		}

		data, _ := json.Marshal(map[string]uint64{"max_size_mb": maxSize})
		resp, err := http.Post(serverURL+"/api/v1/storage/cleanup", "application/json", bytes.NewBuffer(data))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK {
			fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
			os.Exit(1)
		}

		var result map[string]interface{}
		json.Unmarshal(body, &result)
		fmt.Println("Cleanup complete:")
		fmt.Printf("  Files deleted: %v\n", result["deleted_files"])
		fmt.Printf("  Bytes freed:   %s\n", humanBytes(result["freed_bytes"]))
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent download history",
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()
		limit, _ := cmd.Flags().GetInt("limit")

		resp, err := http.Get(serverURL + "/api/v1/downloads/history?limit=" + strconv.Itoa(limit))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		var result struct {
			Records []map[string]interface{} `json:"records"`
		}
		json.Unmarshal(body, &result)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "AUDIO\tTITLE\tPLATFORM\tSTATUS")
		for _, r := range result.Records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				truncate(str(r["audio_id"]), 16),
				truncate(str(r["title"]), 40),
				r["platform"],
				r["status"])
		}
		w.Flush()
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show download statistics",
	Run: func(cmd *cobra.Command, args []string) {
		ensureServer()

		resp, err := http.Get(serverURL + "/api/v1/downloads/stats")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		var stats map[string]interface{}
		json.Unmarshal(body, &stats)

		fmt.Println("Download Statistics:")
		fmt.Printf("  Total:     %v\n", stats["total"])
		fmt.Printf("  Completed: %v\n", stats["completed"])
		fmt.Printf("  Failed:    %v\n", stats["failed"])
		fmt.Printf("  Skipped:   %v\n", stats["skipped"])
	},
}

func init() {
	downloadCmd.Flags().StringP("id", "i", "", "Audio identifier (required)")
	downloadCmd.Flags().StringP("title", "t", "", "Audio title")
	downloadCmd.Flags().StringP("platform", "p", "youtube", "Platform (youtube, bilibili, local)")
	downloadCmd.Flags().StringP("format", "f", "", "Audio format (mp3, m4a, flac, wav, ogg)")
	downloadCmd.Flags().StringP("cover", "c", "", "Cover art URL")
	downloadCmd.MarkFlagRequired("id")
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum records to show")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

func humanBytes(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	switch {
	case f >= 1<<30:
		return fmt.Sprintf("%.2f GB", f/(1<<30))
	case f >= 1<<20:
		return fmt.Sprintf("%.2f MB", f/(1<<20))
	case f >= 1<<10:
		return fmt.Sprintf("%.2f KB", f/(1<<10))
	default:
		return fmt.Sprintf("%.0f B", f)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
