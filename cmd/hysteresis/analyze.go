package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-hysteresis/dsp/saturation"
	"github.com/cwbudde/algo-hysteresis/dsp/window"
	"github.com/cwbudde/algo-hysteresis/internal/cli"
	"github.com/cwbudde/algo-hysteresis/measure/loop"
	"github.com/cwbudde/algo-hysteresis/measure/thd"
)

type windowEntry struct {
	name string
	typ  window.Type
}

var windowRegistry = []windowEntry{
	{"rectangular", window.TypeRectangular},
	{"hann", window.TypeHann},
	{"hamming", window.TypeHamming},
	{"blackman", window.TypeBlackman},
	{"blackman-harris", window.TypeBlackmanHarris4Term},
	{"flat-top", window.TypeFlatTop},
}

func lookupWindow(name string) (window.Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, e := range windowRegistry {
		if e.name == name {
			return e.typ, nil
		}
	}
	return 0, fmt.Errorf("unknown window %q", name)
}

type thdCmd struct {
	SampleRate float64 `name:"rate" default:"48000" help:"Sample rate in Hz."`
	Frequency  float64 `name:"freq" default:"1000" help:"Test tone frequency in Hz."`
	Amplitude  float64 `default:"0.5" help:"Test tone peak amplitude."`
	FFTSize    int     `name:"fft-size" default:"8192" help:"Analysis length in samples."`
	Harmonics  int     `default:"9" help:"Number of overtones evaluated."`
	Window     string  `default:"blackman-harris" enum:"rectangular,hann,hamming,blackman,blackman-harris,flat-top" help:"Analysis window."`

	Engine engineFlags `embed:""`
}

func (c *thdCmd) Run(e *env) error {
	wt, err := lookupWindow(c.Window)
	if err != nil {
		return err
	}

	cfg := thd.Config{
		SampleRate:      c.SampleRate,
		FFTSize:         c.FFTSize,
		FundamentalFreq: c.Frequency,
		MaxHarmonics:    c.Harmonics,
		WindowType:      thd.Window(wt),
	}
	settle := int(c.SampleRate / 4)

	rows := make([][]string, 0, len(saturation.Curves()))
	for _, curve := range saturation.Curves() {
		flags := c.Engine
		flags.Curve = curve.String()

		eng, err := flags.newEngine(c.SampleRate, 1)
		if err != nil {
			return err
		}

		res, err := thd.MeasureProcessor(monoProcessor(eng), cfg, c.Amplitude, settle)
		eng.Close()
		if err != nil {
			return err
		}

		e.log.Debug("measured", "curve", curve, "fundamental", res.FundamentalFreq, "harmonics", len(res.Harmonics))
		rows = append(rows, thdRow(curve, res))
	}

	fmt.Fprintln(e.out, cli.TitleStyle.Render(fmt.Sprintf("THD at %.0f Hz, %+.1f dB drive", c.Frequency, c.Engine.Pre)))
	fmt.Fprint(e.out, cli.Table([]string{"Curve", "THD", "THD+N", "H2", "H3", "H5", "Odd/Even"}, rows))

	return nil
}

func thdRow(curve saturation.Curve, res thd.Result) []string {
	oddEven := "-"
	if res.EvenHD > 0 {
		oddEven = fmt.Sprintf("%.1f", res.OddHD/res.EvenHD)
	}

	return []string{
		curve.String(),
		fmt.Sprintf("%.3f%%", 100*res.THD),
		fmt.Sprintf("%.1f dB", res.THDN_dB),
		formatLevel(res.Level(2)),
		formatLevel(res.Level(3)),
		formatLevel(res.Level(5)),
		oddEven,
	}
}

func formatLevel(ratio float64) string {
	if ratio <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f dB", (thd.Harmonic{Ratio: ratio}).DB())
}

type curveCmd struct {
	Squareness float64 `default:"0.5" help:"Knee hardness [0, 1]."`
	Range      float64 `default:"4" help:"Input range, evaluated over [-range, range]."`
	Points     int     `default:"401" help:"Number of points."`
	Output     string  `short:"o" type:"path" help:"CSV output file (default stdout)."`
}

func (c *curveCmd) Run(e *env) error {
	if c.Points < 2 {
		return fmt.Errorf("points must be >= 2: %d", c.Points)
	}
	if !(c.Range > 0) {
		return fmt.Errorf("range must be > 0: %f", c.Range)
	}

	w := e.out
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("create %s: %w", c.Output, err)
		}
		defer f.Close()
		w = f
	}

	if err := writeCurves(w, c.Squareness, c.Range, c.Points); err != nil {
		return err
	}
	e.log.Debug("wrote curves", "points", c.Points, "squareness", c.Squareness)

	return nil
}

// writeCurves writes one row per input value with a column per curve.
func writeCurves(w io.Writer, squareness, span float64, points int) error {
	cw := csv.NewWriter(w)

	curves := saturation.Curves()
	header := []string{"x"}
	for _, curve := range curves {
		header = append(header, curve.String())
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for i := 0; i < points; i++ {
		x := -span + 2*span*float64(i)/float64(points-1)
		row[0] = formatFloat(x)
		for j, curve := range curves {
			row[j+1] = formatFloat(saturation.Evaluate(x, squareness, curve))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 8, 64)
}

type loopCmd struct {
	SampleRate float64 `name:"rate" default:"48000" help:"Sample rate in Hz."`
	Frequency  float64 `name:"freq" default:"200" help:"Drive frequency in Hz."`
	Amplitude  float64 `default:"1" help:"Drive peak amplitude."`
	Settle     float64 `default:"0.25" help:"Settle time in seconds before capture."`
	Normalize  bool    `help:"Scale the captured output to unit peak before measuring."`
	CSV        string  `name:"csv" type:"path" help:"Write the captured input/output pairs to this CSV file."`

	Engine engineFlags `embed:""`
}

func (c *loopCmd) Run(e *env) error {
	eng, err := c.Engine.newEngine(c.SampleRate, 1)
	if err != nil {
		return err
	}
	defer eng.Close()

	l, err := loop.Capture(monoProcessor(eng), loop.Config{
		SampleRate: c.SampleRate,
		Frequency:  c.Frequency,
		Amplitude:  c.Amplitude,
		SettleTime: c.Settle,
	})
	if err != nil {
		return err
	}
	if c.Normalize {
		loop.Normalize(l.Output)
		l = loop.Measure(l.Input, l.Output, l.Frequency)
	}

	fmt.Fprintln(e.out, cli.TitleStyle.Render(fmt.Sprintf("Loop at %.1f Hz, curve %s", l.Frequency, c.Engine.Curve)))
	cli.PrintKV(e.out, "Area:", fmt.Sprintf("%.6f", l.Area))
	cli.PrintKV(e.out, "Remanence:", fmt.Sprintf("%.6f", l.Remanence))
	cli.PrintKV(e.out, "Width:", fmt.Sprintf("%.6f", l.Width))
	cli.PrintKV(e.out, "Peak output:", fmt.Sprintf("%.6f", l.PeakOutput))

	if c.CSV == "" {
		return nil
	}

	f, err := os.Create(c.CSV)
	if err != nil {
		return fmt.Errorf("create %s: %w", c.CSV, err)
	}
	defer f.Close()

	if err := writeLoop(f, l); err != nil {
		return err
	}
	e.log.Info("wrote loop", "path", c.CSV, "samples", len(l.Input))

	return nil
}

func writeLoop(w io.Writer, l loop.Loop) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"input", "output", "branch"}); err != nil {
		return err
	}

	half := len(l.Input) / 2
	for i := range l.Input {
		branch := "rising"
		if i > half {
			branch = "falling"
		}
		if err := cw.Write([]string{formatFloat(l.Input[i]), formatFloat(l.Output[i]), branch}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type windowsCmd struct {
	Size     int  `default:"4096" help:"Window length used for the measured columns."`
	Periodic bool `help:"Use the periodic (FFT) form instead of the symmetric one."`
}

func (c *windowsCmd) Run(e *env) error {
	if c.Size < 2 {
		return fmt.Errorf("size must be >= 2: %d", c.Size)
	}

	var opts []window.Option
	if c.Periodic {
		opts = append(opts, window.WithPeriodic())
	}

	rows := make([][]string, 0, len(windowRegistry))
	for _, entry := range windowRegistry {
		coeffs := window.Generate(entry.typ, c.Size, opts...)

		cg, err := window.CoherentGain(coeffs)
		if err != nil {
			return err
		}
		enbw, err := window.EquivalentNoiseBandwidth(coeffs)
		if err != nil {
			return err
		}

		info := window.Info(entry.typ)
		rows = append(rows, []string{
			entry.name,
			fmt.Sprintf("%.4f", cg),
			fmt.Sprintf("%.3f", enbw),
			fmt.Sprintf("%.1f", info.HighestSidelobe),
			strconv.Itoa(info.FirstMinimumBins),
		})
	}

	fmt.Fprint(e.out, cli.Table([]string{"Window", "Coherent Gain", "ENBW [bins]", "Sidelobe [dB]", "Capture [bins]"}, rows))

	return nil
}
