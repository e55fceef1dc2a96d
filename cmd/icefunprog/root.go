package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/synthread/go-icefun/flash"
)

var (
	portFlag   string
	offsetFlag string
	skipVerify bool
	verbosity  int
	buildInfo  bool
)

// rootCmd represents the programmer itself
var rootCmd = &cobra.Command{
	Use:   "icefunprog [flags] <image>",
	Short: "Programming tool for the Devantech iceFUN board",
	Long: `icefunprog writes an FPGA image into the flash of an iceFUN board over
its USB serial port, verifies it and then lets the FPGA boot from it.

The image is a raw binary, or Intel HEX when the file ends in .hex or .ihx.
Without -P the board is looked up under /dev/serial/by-id, falling back to
/dev/ttyACM0.

Exit status is 0 on success and 1 when the operation failed.`,
	Example: "  icefunprog -P /dev/ttyACM1 blinky.bin\n  icefunprog -o 0x10000 blinky.bin",

	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(verbosity)

		if buildInfo {
			printBuildInfo(cmd.OutOrStdout())
			return nil
		}

		return run(args)
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&portFlag, "port", "P", "", "use the specified serial device (default: auto-detect)")
	f.StringVarP(&offsetFlag, "offset", "o", "0", "start address for write, accepts 0x hex and k or M suffixes")
	f.BoolVarP(&skipVerify, "skip-verify", "s", false, "skip verification")
	f.CountVarP(&verbosity, "verbose", "v", "increase verbosity")
	f.BoolVarP(&buildInfo, "build-info", "V", false, "show version and binary build hash")
}

// setupLogging will map the -v count onto a logrus level
func setupLogging(v int) {
	logrus.SetOutput(os.Stderr)
	switch {
	case v <= 0:
		logrus.SetLevel(logrus.WarnLevel)
	case v == 1:
		logrus.SetLevel(logrus.InfoLevel)
	case v == 2:
		logrus.SetLevel(logrus.DebugLevel)
	default:
		logrus.SetLevel(logrus.TraceLevel)
	}
}

func run(args []string) error {
	switch {
	case len(args) == 0:
		return &ArgumentError{Flag: "image", Err: errors.New("missing argument, try --help")}
	case len(args) > 1:
		return &ArgumentError{Flag: "image", Value: args[1], Err: errors.New("too many arguments, try --help")}
	}

	offset, err := parseOffset(offsetFlag)
	if err != nil {
		return err
	}

	tty := portFlag
	if tty == "" {
		tty = flash.FindTTY()
	}
	logrus.Infof("using serial port %s", tty)

	img, err := flash.LoadImageFile(args[0], offset, flash.DefaultCapacity)
	if err != nil {
		return err
	}

	bars := newProgressBars()
	defer bars.finish()

	board := flash.NewBoard(&flash.Config{
		TTY:      tty,
		Logger:   logrus.StandardLogger(),
		Progress: bars.update,
	})

	return board.FlashImage(img, !skipVerify)
}

// progressBars keeps one stderr bar per programming phase
type progressBars struct {
	phase flash.Phase
	bar   *progressbar.ProgressBar
}

func newProgressBars() *progressBars {
	return &progressBars{}
}

func (p *progressBars) update(pr flash.Progress) {
	if pr.Phase != p.phase || p.bar == nil {
		p.finish()
		p.phase = pr.Phase
		p.bar = progressbar.NewOptions(pr.Total,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription(string(pr.Phase)),
			progressbar.OptionOnCompletion(func() { os.Stderr.WriteString("\n") }),
		)
	}
	p.bar.Set(pr.Done)
}

func (p *progressBars) finish() {
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}
