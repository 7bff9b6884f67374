package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode/utf8"

	"torrentmeta/internal/bencode"
	"torrentmeta/internal/torrent"
	"torrentmeta/internal/tracker"
)

type config struct {
	port       uint
	peerPrefix string
	timeout    time.Duration
	maxDepth   int
	out        string
}

func main() {
	var (
		cfg   config
		level logLevel
	)
	flag.Var(&level, "debug", "log level (debug, info, warn)")
	flag.UintVar(&cfg.port, "port", 6881, "port reported to the tracker")
	flag.StringVar(&cfg.peerPrefix, "peer-prefix", tracker.DefaultPeerIDPrefix, "peer ID prefix")
	flag.DurationVar(&cfg.timeout, "timeout", tracker.DefaultTimeout, "tracker announce timeout")
	flag.IntVar(&cfg.maxDepth, "max-depth", bencode.DefaultMaxDepth, "maximum bencode nesting depth")
	flag.StringVar(&cfg.out, "o", "", "info: also write the torrent, re-encoded, to this file")
	flag.Usage = usage
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(
		os.Stderr,
		&slog.HandlerOptions{Level: level.Level()},
	)))

	args := flag.Args()
	if len(args) < 2 {
		usage()
		os.Exit(2)
	}
	if cfg.port == 0 || cfg.port > 65535 {
		fmt.Fprintf(os.Stderr, "invalid port %d\n", cfg.port)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch command := args[0]; command {
	case "decode":
		err = runDecode(cfg, args[1])
	case "info":
		err = runInfo(cfg, args[1])
	case "peers":
		err = runPeers(ctx, cfg, args[1])
	default:
		err = fmt.Errorf("unknown command %q", command)
	}

	if err != nil {
		slog.Error("command failed", "command", args[0], "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <command> <argument>\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  decode <bencoded>      print a bencoded value as JSON")
	fmt.Fprintln(os.Stderr, "  info <file.torrent>    print torrent metadata (-o writes a re-encoded copy)")
	fmt.Fprintln(os.Stderr, "  peers <file.torrent>   announce to the tracker and list peers")
	fmt.Fprintln(os.Stderr, "\nFlags:")
	flag.PrintDefaults()
}

func runDecode(cfg config, input string) error {
	v, err := bencode.DecodeAll([]byte(input), bencode.Options{MaxDepth: cfg.maxDepth})
	if err != nil {
		return err
	}

	out, err := json.Marshal(toJSON(v))
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// toJSON maps a bencode value onto types encoding/json understands. Byte
// strings that are not valid UTF-8 are shown as hex.
func toJSON(v bencode.Value) any {
	switch v := v.(type) {
	case bencode.Int:
		return int64(v)
	case bencode.Bytes:
		return displayBytes(v)
	case bencode.List:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = toJSON(item)
		}
		return out
	case bencode.Dict:
		out := make(map[string]any, len(v))
		for _, e := range v {
			out[displayBytes(e.Key)] = toJSON(e.Value)
		}
		return out
	default:
		return nil
	}
}

func displayBytes(b bencode.Bytes) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return hex.EncodeToString(b)
}

func openTorrent(cfg config, path string) (*torrent.Metainfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read torrent file: %w", err)
	}
	return torrent.ParseWith(data, bencode.Options{MaxDepth: cfg.maxDepth})
}

func runInfo(cfg config, path string) error {
	m, err := openTorrent(cfg, path)
	if err != nil {
		return err
	}

	fmt.Printf("Tracker URL: %s\n", m.Announce)
	fmt.Printf("Name: %s\n", m.Info.Name)
	fmt.Printf("Length: %d (%s)\n", m.Info.TotalLength(), formatBytes(m.Info.TotalLength()))
	fmt.Printf("Info Hash: %s\n", m.InfoHash)
	if !m.Canonical {
		fmt.Println("Warning: info dictionary is not canonically encoded")
	}
	fmt.Printf("Piece Length: %d\n", m.Info.PieceLength)
	fmt.Println("Piece Hashes:")
	for _, h := range m.Info.Pieces {
		fmt.Printf("%x\n", h[:])
	}

	if !m.Info.IsSingleFile() {
		fmt.Println("Files:")
		for _, f := range m.Info.Files() {
			fmt.Printf("  %s (%s)\n", f.Join(), formatBytes(f.Length))
		}
	}

	if cfg.out != "" {
		return writeTorrent(cfg.out, m)
	}
	return nil
}

// writeTorrent re-encodes m from its typed fields.
func writeTorrent(path string, m *torrent.Metainfo) error {
	data, err := torrent.Marshal(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write torrent file: %w", err)
	}
	slog.Info("wrote torrent", "path", path, "bytes", len(data))
	return nil
}

func runPeers(ctx context.Context, cfg config, path string) error {
	m, err := openTorrent(cfg, path)
	if err != nil {
		return err
	}

	trackers := m.Trackers()
	if len(trackers) == 0 {
		return errors.New("torrent has no tracker")
	}

	peerID, err := tracker.GeneratePeerID(cfg.peerPrefix)
	if err != nil {
		return err
	}
	req := tracker.NewRequest(m.InfoHash, peerID, uint16(cfg.port), m.Info.TotalLength())

	client := tracker.NewClient(tracker.WithTimeout(cfg.timeout))
	defer client.Close()

	var lastErr error
	for _, announce := range trackers {
		ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
		resp, err := client.Announce(ctx, announce, req)
		cancel()
		if err != nil {
			slog.Warn("tracker announce failed", "tracker", announce, "error", err)
			lastErr = err
			continue
		}

		for _, p := range resp.Peers {
			fmt.Println(p)
		}
		return nil
	}
	return fmt.Errorf("all trackers failed: %w", lastErr)
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// LOGGING

// logLevel implements flag.Value for the -debug flag.
type logLevel struct {
	level slog.Level
	set   bool
}

func (l *logLevel) String() string {
	if l == nil || !l.set {
		return "warn"
	}
	return l.level.String()
}

func (l *logLevel) Set(s string) error {
	switch s {
	case "debug":
		l.level = slog.LevelDebug
	case "info":
		l.level = slog.LevelInfo
	case "warn", "warning":
		l.level = slog.LevelWarn
	default:
		return fmt.Errorf("unknown log level %q", s)
	}
	l.set = true
	return nil
}

func (l *logLevel) Level() slog.Level {
	if !l.set {
		return slog.LevelWarn
	}
	return l.level
}
