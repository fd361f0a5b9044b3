package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gonkalabs/validutf8/internal/config"
	"github.com/gonkalabs/validutf8/internal/fileio"
	"github.com/gonkalabs/validutf8/internal/selftest"
	"github.com/gonkalabs/validutf8/internal/transcode"
)

// Build contains the current git commit id
// compile passing -ldflags "-X main.Build=<build sha1>" to set the id.
var Build string

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

type options struct {
	skipInvalid bool
	test        bool
	stream      bool
	verbose     bool
	version     bool
	in, out     string
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, code, ok := parseArgs(args, stdout, stderr)
	if !ok {
		return code
	}

	cfg, err := config.Load()
	if err != nil {
		setupLogging(stderr, slog.LevelInfo)
		slog.Error("config error", "err", err)
		return exitFail
	}
	level := cfg.LogLevel
	if opts.verbose {
		level = slog.LevelDebug
	}
	setupLogging(stderr, level)

	if opts.test {
		res, err := selftest.Run("", func(in, out string, p transcode.Policy) error {
			_, _, err := convert(cfg, in, out, p, cfg.Stream)
			return err
		}, stdout)
		if err != nil {
			slog.Error("selftest error", "err", err)
			return exitFail
		}
		if !res.OK() {
			return exitFail
		}
		return exitOK
	}

	policy := cfg.Policy
	if opts.skipInvalid {
		policy = transcode.Drop
	}

	rep, w, err := convert(cfg, opts.in, opts.out, policy, cfg.Stream || opts.stream)
	if err != nil {
		switch {
		case fileio.Is(err, fileio.MissingInput):
			slog.Error("input file is missing", "path", opts.in)
		case fileio.Is(err, fileio.TooLarge):
			slog.Error("input file is too large", "path", opts.in, "limit", cfg.MaxInput, "err", err)
		default:
			slog.Error("transcode failed", "err", err)
		}
		return exitFail
	}

	slog.Info("wrote valid utf-8",
		"in", opts.in,
		"out", opts.out,
		"policy", policy,
		"groups", rep.Groups,
		"dropped", rep.Dropped,
		"bytes", w.Bytes,
		"sha3", w.Digest,
	)
	return exitOK
}

// parseArgs handles the command line. ok is false when the process should
// exit right away with code.
func parseArgs(args []string, stdout, stderr io.Writer) (opts options, code int, ok bool) {
	// -t/--test needs no file arguments and wins over everything else.
	for _, a := range args[1:] {
		if a == "-t" || a == "--test" || a == "-test" {
			opts.test = true
			return opts, exitOK, true
		}
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [arguments] in_filename out_filename\n", fs.Name())
		fmt.Fprintf(fs.Output(), "\nDescription:\n\n  Read an input file and write it to a utf8 output file.\n\nArguments:\n\n")
		fs.PrintDefaults()
	}
	fs.BoolVar(&opts.skipInvalid, "s", false, "skip invalid bytes, else replace them with U+FFFD")
	fs.BoolVar(&opts.skipInvalid, "skipInvalid", false, "skip invalid bytes, else replace them with U+FFFD")
	fs.BoolVar(&opts.test, "t", false, "run the self tests")
	fs.BoolVar(&opts.test, "test", false, "run the self tests")
	fs.BoolVar(&opts.stream, "stream", false, "transcode without reading the whole input into memory")
	fs.BoolVar(&opts.verbose, "v", false, "enable verbose output")
	fs.BoolVar(&opts.verbose, "verbose", false, "enable verbose output")
	fs.BoolVar(&opts.version, "V", false, "print version and exit")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return opts, exitOK, false
		}
		return opts, exitUsage, false
	}

	if opts.version {
		fmt.Fprintf(stdout, "validutf8 - version %s\n", version())
		return opts, exitOK, false
	}

	if fs.NArg() != 2 {
		fmt.Fprintf(stderr, "ERROR: expected in_filename and out_filename, got %d argument(s)\n\n", fs.NArg())
		fs.Usage()
		return opts, exitUsage, false
	}
	opts.in, opts.out = fs.Arg(0), fs.Arg(1)
	return opts, exitOK, true
}

func version() string {
	if Build == "" {
		return "dev"
	}
	return Build
}

func setupLogging(w io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// convert transcodes the file at in into out.
func convert(cfg *config.Cfg, in, out string, p transcode.Policy, stream bool) (transcode.Report, fileio.Written, error) {
	if stream {
		t := transcode.NewTransformer(p)
		if debugEnabled() {
			t.OnGroup = func(g transcode.Group) {
				slog.Debug("invalid utf-8", "offset", g.Offset, "len", g.Len)
			}
		}
		w, err := fileio.Stream(in, out, t, cfg.BufferSize)
		return t.Report(), w, err
	}

	data, err := fileio.ReadAll(in, cfg.MaxInput)
	if err != nil {
		return transcode.Report{}, fileio.Written{}, err
	}
	if debugEnabled() {
		transcode.Walk(data, func(g transcode.Group) {
			slog.Debug("invalid utf-8", "offset", g.Offset, "len", g.Len,
				"bytes", hex.EncodeToString(data[g.Offset:g.Offset+g.Len]))
		})
	}
	result, rep := transcode.Append(make([]byte, 0, len(data)), data, p)
	w, err := fileio.WriteAll(out, result)
	return rep, w, err
}

func debugEnabled() bool {
	return slog.Default().Enabled(context.Background(), slog.LevelDebug)
}
