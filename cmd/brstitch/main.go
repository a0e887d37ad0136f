package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
	bs "github.com/t7a/brstitch"

	"github.com/docopt/docopt-go"
)

func init() {
	var debug string
	debug = os.Getenv("DEBUG")
	if debug == "1" {
		log.SetLevel(log.DebugLevel)
	}
	logrus.SetReportCaller(true)
	formatter := &logrus.TextFormatter{
		CallerPrettyfier: caller(),
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyFile: "caller",
		},
	}
	formatter.TimestampFormat = "15:04:05.999999999"
	logrus.SetFormatter(formatter)
}

// caller returns string presentation of log caller which is formatted as
// `/path/to/file.go:line_number`. e.g. `/cmd/brstitch/main.go:25`
func caller() func(*runtime.Frame) (function string, file string) {
	return func(f *runtime.Frame) (function string, file string) {
		p, _ := os.Getwd()
		return "", fmt.Sprintf("%s:%d", strings.TrimPrefix(f.File, p), f.Line)
	}
}

type Opts struct {
	Split   bool     `docopt:"--split"`
	Size    string   `docopt:"--size"`
	Keep    bool     `docopt:"--keep"`
	Replace bool     `docopt:"--replace"`
	Nest    bool     `docopt:"--nest"`
	Yes     bool     `docopt:"--yes"`
	Quiet   bool     `docopt:"--quiet"`
	Paths   []string `docopt:"<path>"`
}

func main() {
	// see https://github.com/google/go-cmdtest
	os.Exit(run())
}

func run() (rc int) {

	usage := `brstitch

Split files into numbered section files, or stitch section files back
into the original files.  With no arguments, stitches all the section
files in the current directory.  Section files (which can be stitched
back together) carry the extension '` + bs.Ext + `'.

Usage:
  brstitch [options] [<path>...]

Options:
  -h --help         Show this screen.
  -s --split        Split each of the given file(s) into sections.
  -x --size=<size>  Maximum payload bytes per section when splitting,
                    e.g. 500b, 512kb, 8mb [default: 8mb].
  -k --keep         Keep the section files after stitching.
  -r --replace      Delete each original file after splitting it.
  -n --nest         Place the sections of each file into a separate directory.
  -y --yes          Assume yes on every confirmation prompt.
  -q --quiet        Don't print progress output.
`
	parser := &docopt.Parser{OptionsFirst: false}
	o, _ := parser.ParseArgs(usage, os.Args[1:], "0.1")
	var opts Opts
	err := o.Bind(&opts)
	if err != nil {
		log.Error(err)
		return 22
	}
	log.Debug(opts)

	size, err := parseSize(opts.Size)
	if err != nil {
		log.Error(err)
		return 22
	}

	var ask bs.Asker = &bs.TermAsker{In: os.Stdin, Out: os.Stdout}
	if opts.Yes {
		ask = bs.YesAsker{}
	}
	var out io.Writer = os.Stdout
	if opts.Quiet {
		out = nil
	}

	if opts.Split {
		if len(opts.Paths) == 0 {
			log.Error("split mode needs at least one file")
			return 22
		}
		splitter := bs.Splitter{
			Size:    size,
			Nest:    opts.Nest,
			Replace: opts.Replace,
			Ask:     ask,
			Out:     out,
		}
		for _, path := range opts.Paths {
			_, err := splitter.Split(path)
			if _, ok := err.(*bs.AbortedError); ok {
				// declined overwrite; move on to the next file
				continue
			}
			if err != nil {
				log.Error(err)
				return 42
			}
		}
		return 0
	}

	paths := opts.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}
	stitcher := bs.Stitcher{Keep: opts.Keep, Ask: ask, Out: out}
	_, err = stitcher.Stitch(paths...)
	if err != nil {
		log.Error(err)
		return 42
	}
	return 0
}

// parseSize converts strings like "500b", "512kb", "1.5mb", or "2gb"
// into a byte count.  A bare number means bytes.
func parseSize(arg string) (size int64, err error) {
	arg = strings.ToLower(strings.TrimSpace(arg))
	units := []struct {
		suffix string
		mult   int64
	}{
		{"kb", 1 << 10},
		{"mb", 1 << 20},
		{"gb", 1 << 30},
		{"b", 1},
	}
	for _, u := range units {
		if !strings.HasSuffix(arg, u.suffix) {
			continue
		}
		f, ferr := strconv.ParseFloat(strings.TrimSuffix(arg, u.suffix), 64)
		if ferr != nil {
			break
		}
		return int64(f * float64(u.mult)), nil
	}
	f, ferr := strconv.ParseFloat(arg, 64)
	if ferr == nil {
		return int64(f), nil
	}
	return 0, fmt.Errorf("invalid size: %s", arg)
}
