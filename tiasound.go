// This file is part of TIASound.
//
// TIASound is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// TIASound is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with TIASound.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/jetsetilly/tiasound/logger"
	"github.com/jetsetilly/tiasound/otoaudio"
	"github.com/jetsetilly/tiasound/script"
	"github.com/jetsetilly/tiasound/sdlaudio"
	"github.com/jetsetilly/tiasound/sound"
	"github.com/jetsetilly/tiasound/version"
	"github.com/jetsetilly/tiasound/wavwriter"
)

type playCmd struct {
	Script  string  `arg:"" help:"Register write transcript to play." type:"existingfile"`
	Backend string  `help:"Playback backend." enum:"sdl,oto" default:"sdl"`
	Stereo  bool    `help:"Two channel output."`
	Volume  int     `help:"Playback volume (0 to 100)." default:"100"`
	Tail    float64 `help:"Seconds of audio to play after the last write." default:"2"`
}

type wavCmd struct {
	Script string  `arg:"" help:"Register write transcript to synthesize." type:"existingfile"`
	Output string  `help:"Output file." short:"o" default:"out.wav"`
	Stereo bool    `help:"Two channel output."`
	Volume int     `help:"Synthesis volume (0 to 100)." default:"100"`
	Tail   float64 `help:"Seconds of audio to synthesize after the last write." default:"2"`
}

type versionCmd struct{}

type cli struct {
	Play    playCmd    `cmd:"" help:"Play a register write transcript."`
	Wav     wavCmd     `cmd:"" help:"Synthesize a register write transcript to a WAV file."`
	Version versionCmd `cmd:"" help:"Show version."`

	Quiet bool `help:"Suppress log output."`
}

// feeder drives a Sound implementation with transcript writes, one fragment
// window at a time. the cycle counter is rebased after every window so that
// the absolute cycles of a long transcript never overflow the 32bit counter
// the sound sub-system works in - the same pattern a console emulation uses
// at the end of every video frame.
type feeder struct {
	writes []script.Write
	next   int

	// cycles per fragment window
	window int32

	// absolute cycle of the current window's start
	base int64
}

func newFeeder(writes []script.Write, spec sound.Spec) *feeder {
	return &feeder{
		writes: writes,
		window: int32(float64(spec.Fragment) / float64(spec.SampleFreq) * sound.ClockRate),
	}
}

// step feeds the writes that fall in the next fragment window.
func (f *feeder) step(snd sound.Sound) {
	limit := f.base + int64(f.window)
	for f.next < len(f.writes) && f.writes[f.next].Cycle <= limit {
		w := f.writes[f.next]
		snd.Set(w.Addr, w.Value, int32(w.Cycle-f.base))
		f.next++
	}
	snd.AdjustCycleCounter(-f.window)
	f.base = limit
}

func (f *feeder) done() bool {
	return f.next >= len(f.writes)
}

func (c *playCmd) Run() error {
	writes, err := script.Load(c.Script)
	if err != nil {
		return err
	}

	var dev sound.Device
	switch c.Backend {
	case "oto":
		dev = otoaudio.NewDevice()
	default:
		dev = sdlaudio.NewDevice()
	}

	spec := sound.Spec{Channels: 1}
	if c.Stereo {
		spec.Channels = 2
	}

	syn := sound.NewSynth(spec, dev)
	if err := syn.Open(); err != nil {
		return err
	}
	defer syn.Close()

	syn.SetVolume(c.Volume)

	spec = syn.Spec()
	f := newFeeder(writes, spec)

	period := time.Duration(float64(spec.Fragment) / float64(spec.SampleFreq) * float64(time.Second))
	tck := time.NewTicker(period)
	defer tck.Stop()

	for !f.done() {
		<-tck.C
		f.step(syn)
	}

	// let the backlog and the device queue play out
	time.Sleep(time.Duration(c.Tail * float64(time.Second)))

	return nil
}

func (c *wavCmd) Run() error {
	writes, err := script.Load(c.Script)
	if err != nil {
		return err
	}

	spec := sound.Spec{Channels: 1}
	if c.Stereo {
		spec.Channels = 2
	}

	// no playback device. fragments are pulled by the loop below, as fast
	// as they can be synthesized
	syn := sound.NewSynth(spec, nil)
	if err := syn.Open(); err != nil {
		return err
	}
	defer syn.Close()

	syn.SetVolume(c.Volume)

	spec = syn.Spec()
	f := newFeeder(writes, spec)
	aw := wavwriter.New(c.Output, spec)

	stream := make([]int16, spec.Fragment*spec.Channels)

	for !f.done() {
		f.step(syn)
		syn.ProcessFragment(stream, spec.Fragment)
		aw.Write(stream)
	}

	tail := int(c.Tail*float64(spec.SampleFreq))/spec.Fragment + 1
	for i := 0; i < tail; i++ {
		syn.ProcessFragment(stream, spec.Fragment)
		aw.Write(stream)
	}

	return aw.EndWriting()
}

func (c *versionCmd) Run() error {
	fmt.Printf("%s (%s)\n", version.ApplicationName, version.Version)
	return nil
}

func main() {
	var cli cli

	ctx := kong.Parse(&cli,
		kong.Name("tiasound"),
		kong.Description("Play TIA register write transcripts as PCM audio."),
	)

	if !cli.Quiet {
		logger.SetEcho(os.Stderr)
	}

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "* %v\n", err)
		os.Exit(10)
	}
}
