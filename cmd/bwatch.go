package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	ct "github.com/daviddengcn/go-colortext"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/pflag"
	glog "github.com/subchen/go-log"
	"github.com/subchen/go-log/writers"

	"github.com/revpol/bwatch"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var kindColors = map[bwatch.Kind]ct.Color{
	bwatch.KindStorage: ct.Cyan,
	bwatch.KindClient:  ct.Green,
}

const usageHeader = `
Usage:
    %[1]s [-b <bconsole>] [-c <config>] [-S <storage>...] [-C <client>...]
           [-V yes|no] [-N yes|no] [-s yes|no] [-j yes|no] [-l yes|no]
           [-f <file>] [-t <timeout>] [--json] [--color]
           [--log_file <file>] [--metrics_file <file>]
    %[1]s -h | --help
    %[1]s -v | --version

Options:
`

const usageNotes = `
Notes:
  * A valid storage or a client, or both must be specified
  * Storages and clients may be comma separated lists, or the option
    may be repeated
  * Run it under watch(1), e.g.: watch -tn 5 %[1]s -S File1 -C web01-fd
`

func usage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(w, usageHeader, bwatch.PROG_NAME)
	fmt.Fprint(w, fs.FlagUsages())
	fmt.Fprintf(w, usageNotes, bwatch.PROG_NAME)
	fmt.Fprintln(w)
	fmt.Fprintln(w, bwatch.VersionString())
}

func setupLogging(path string) {
	glog.Default.Level = glog.INFO
	if path == "" {
		glog.Default.Out = io.Discard
		return
	}
	glog.Default.Out = &writers.FixedSizeFileWriter{
		Name:     path,
		MaxSize:  1 * 1024 * 1024, // 1m
		MaxCount: 10,
	}
}

func printReport(w io.Writer, statuses []*bwatch.Status, opts bwatch.Options, color bool) {
	if !color {
		fmt.Fprint(w, bwatch.Render(statuses, opts))
		return
	}
	for _, s := range statuses {
		ct.ChangeColor(kindColors[s.Target.Kind], true, ct.None, false)
		fmt.Fprint(w, s.Banner(opts))
		ct.ResetColor()
		fmt.Fprint(w, s.Body(opts)+"\n")
	}
}

func snapshot(statuses []*bwatch.Status, opts bwatch.Options, m *bwatch.Metrics) string {
	now := time.Now()
	b, _ := json.MarshalIndent(map[string]interface{}{
		"now":            now,
		"now_unix":       now.Unix(),
		"options":        opts,
		"statuses":       statuses,
		"running_total":  m.TotalRunning(),
		"version_string": bwatch.VersionString(),
		"version":        bwatch.VERSION_NUMBER,
	}, "", "  ")
	return string(b)
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	log.SetOutput(stderr)
	log.SetFlags(log.Ltime | log.Lshortfile | log.Lmicroseconds | log.Ldate)

	fs := pflag.NewFlagSet(bwatch.PROG_NAME, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false
	fs.Usage = func() { usage(stdout, fs) }

	fl := bwatch.DefaultSettings()
	fs.StringVarP(&fl.Bconsole, "bconsole", "b", fl.Bconsole,
		"path to bconsole")
	fs.StringVarP(&fl.Config, "config", "c", fl.Config,
		"bconsole configuration file")
	fs.StringSliceVarP(&fl.Storages, "storage", "S", nil,
		"storage(s) to monitor")
	fs.StringSliceVarP(&fl.Clients, "client", "C", nil,
		"client(s) to monitor")
	fs.VarP((*bwatch.YesNo)(&fl.Options.ShowVersion), "daemon_ver", "V",
		"print the daemon version in the header")
	fs.VarP((*bwatch.YesNo)(&fl.Options.ShowName), "daemon_name", "N",
		"print the daemon name in the header")
	fs.VarP((*bwatch.YesNo)(&fl.Options.ShowSpool), "spool_lines", "s",
		"print the storage spooling lines")
	fs.VarP((*bwatch.YesNo)(&fl.Options.StripJobNames), "strip_jobname", "j",
		"strip the date/time suffix from job names")
	fs.VarP((*bwatch.YesNo)(&fl.Options.ShowCloud), "cloud", "l",
		"print the storage cloud transfer status")
	fs.DurationVarP(&fl.Timeout, "timeout", "t", fl.Timeout,
		"bconsole timeout per storage/client")

	flag_file := fs.StringP("file", "f", "",
		"YAML file with default settings")
	flag_json := fs.Bool("json", false,
		"print the snapshot as JSON")
	flag_color := fs.Bool("color", false,
		"colored headers (use watch -c)")
	flag_log_file := fs.String("log_file", "",
		"rotating log file")
	flag_metrics_file := fs.String("metrics_file", "",
		"write prometheus metrics to this textfile")
	flag_help := fs.BoolP("help", "h", false,
		"print this help message")
	flag_version := fs.BoolP("version", "v", false,
		"print the program name and version")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(stdout, "\n"+err.Error())
		usage(stdout, fs)
		return 1
	}
	if *flag_help {
		usage(stdout, fs)
		return 0
	}
	if *flag_version {
		fmt.Fprintln(stdout, bwatch.VersionString())
		return 0
	}

	settings := bwatch.DefaultSettings()
	if *flag_file != "" {
		fc, err := bwatch.LoadFile(*flag_file)
		if err != nil {
			fmt.Fprintln(stdout, "\n"+err.Error())
			usage(stdout, fs)
			return 1
		}
		settings.ApplyFile(fc)
	}
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "bconsole":
			settings.Bconsole = fl.Bconsole
		case "config":
			settings.Config = fl.Config
		case "storage":
			settings.Storages = fl.Storages
		case "client":
			settings.Clients = fl.Clients
		case "daemon_ver":
			settings.Options.ShowVersion = fl.Options.ShowVersion
		case "daemon_name":
			settings.Options.ShowName = fl.Options.ShowName
		case "spool_lines":
			settings.Options.ShowSpool = fl.Options.ShowSpool
		case "strip_jobname":
			settings.Options.StripJobNames = fl.Options.StripJobNames
		case "cloud":
			settings.Options.ShowCloud = fl.Options.ShowCloud
		case "timeout":
			settings.Timeout = fl.Timeout
		}
	})

	if err := settings.Validate(); err != nil {
		fmt.Fprintln(stdout, "\n"+err.Error())
		usage(stdout, fs)
		return 1
	}

	setupLogging(*flag_log_file)
	targets := settings.Targets()
	names := make([]string, 0, len(targets))
	for _, t := range targets {
		names = append(names, t.String())
	}
	glog.Default.Print("poll: " + strings.Join(names, " "))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := bwatch.NewMetrics()
	poller := &bwatch.Poller{
		Runner: &bwatch.Console{
			Binary: settings.Bconsole,
			Config: settings.Config,
			Log:    glog.Default,
			Lines:  metrics.StatConsoleLines,
		},
		Options: settings.Options,
		Timeout: settings.Timeout,
		Metrics: metrics,
		Log:     glog.Default,
	}
	statuses := poller.PollAll(ctx, targets)

	if *flag_json {
		fmt.Fprintln(stdout, snapshot(statuses, settings.Options, metrics))
	} else {
		color := *flag_color && stdout == io.Writer(os.Stdout)
		printReport(stdout, statuses, settings.Options, color)
	}

	if *flag_metrics_file != "" {
		if err := metrics.WriteTextfile(*flag_metrics_file); err != nil {
			log.Println("WARNING: failed to write the metrics file:", *flag_metrics_file, err.Error())
		}
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
