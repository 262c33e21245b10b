package robust

import (
	"bytes"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vearutop/imwatermark"
)

// Image is a named source image.
type Image struct {
	Name   string
	Pixels *imwatermark.Pixels
}

// Trial is the outcome of one encode, attack, decode cycle.
type Trial struct {
	Image     string
	Attack    string
	BER       float64
	Recovered bool
	// PSNR of the attacked image against the unmarked source.
	PSNR float64
}

// Report holds trials in image-major, attack-minor order.
type Report struct {
	Trials []Trial
}

// RecoveryRate returns the fraction of exactly recovered payloads for the attack.
func (r *Report) RecoveryRate(attack string) float64 {
	total, ok := 0, 0
	for _, t := range r.Trials {
		if t.Attack != attack {
			continue
		}
		total++
		if t.Recovered {
			ok++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(ok) / float64(total)
}

// Attacks returns attack names in first-seen order.
func (r *Report) Attacks() []string {
	seen := make(map[string]bool)
	var names []string
	for _, t := range r.Trials {
		if !seen[t.Attack] {
			seen[t.Attack] = true
			names = append(names, t.Attack)
		}
	}
	return names
}

// Runner embeds Payload into every image and tries to recover it after each attack.
type Runner struct {
	Payload []byte
	Attacks []Attack
	Codec   []func(o *imwatermark.Options)
	// Concurrency limits images processed at once, GOMAXPROCS if <= 0.
	Concurrency int
	Logger      zerolog.Logger
}

// Run executes all trials.
func (r Runner) Run(images []Image) (*Report, error) {
	if len(r.Payload) == 0 {
		return nil, imwatermark.ErrEmptyPayload
	}
	attacks := r.Attacks
	if len(attacks) == 0 {
		attacks = []Attack{Identity{}}
	}

	trials := make([]Trial, len(images)*len(attacks))

	var g errgroup.Group
	limit := r.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)

	for i, img := range images {
		g.Go(func() error {
			marked, err := imwatermark.Encode(img.Pixels, r.Payload, r.Codec...)
			if err != nil {
				return fmt.Errorf("encode %s: %w", img.Name, err)
			}
			for j, a := range attacks {
				t, err := r.trial(img, marked, a)
				if err != nil {
					return fmt.Errorf("%s on %s: %w", a.Name(), img.Name, err)
				}
				trials[i*len(attacks)+j] = t
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Report{Trials: trials}, nil
}

func (r Runner) trial(img Image, marked *imwatermark.Pixels, a Attack) (Trial, error) {
	t := Trial{Image: img.Name, Attack: a.Name()}

	attacked, err := a.Apply(marked)
	if err != nil {
		return t, err
	}
	t.PSNR = PSNR(img.Pixels, attacked)

	got, err := imwatermark.Decode(attacked, len(r.Payload)*8, r.Codec...)
	if err != nil {
		return t, err
	}
	t.BER = BitErrorRate(r.Payload, got)
	t.Recovered = bytes.Equal(r.Payload, got)

	r.Logger.Debug().
		Str("image", t.Image).
		Str("attack", t.Attack).
		Float64("ber", t.BER).
		Float64("psnr", t.PSNR).
		Bool("recovered", t.Recovered).
		Msg("trial done")

	return t, nil
}
