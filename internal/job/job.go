// Package job reads a prepoint job file: the texts an operator would type
// for the site, the target and the plate solution, in TOML.
//
//	[site]
//	longitude = "-105:31:40"
//	latitude  = "32:54:10"
//
//	[target]
//	ra         = "05:55:10.3"
//	dec        = "+07:24:25"
//	event_time = "03:45:00"
//
//	[plate]
//	sharpcap = "solve.txt"   # or ra/dec for a manual capture
package job

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/naoina/toml"

	"github.com/signalsfoundry/prepoint/session"
)

// Job is the decoded job file.
type Job struct {
	Site   Site   `toml:"site"`
	Target Target `toml:"target"`
	Plate  Plate  `toml:"plate"`
}

// Site holds the raw observer site texts.
type Site struct {
	Longitude string `toml:"longitude"`
	Latitude  string `toml:"latitude"`
}

// Target holds the raw target texts.
type Target struct {
	RA        string `toml:"ra"`
	Dec       string `toml:"dec"`
	EventTime string `toml:"event_time"`
}

// Plate holds either raw plate texts or the path of a saved SharpCap block.
type Plate struct {
	RA       string `toml:"ra"`
	Dec      string `toml:"dec"`
	SharpCap string `toml:"sharpcap"`
}

// Load reads and decodes the job file at path. A relative plate.sharpcap is
// resolved against the job file's directory.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job: %w", err)
	}
	j, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if j.Plate.SharpCap != "" && !filepath.IsAbs(j.Plate.SharpCap) {
		j.Plate.SharpCap = filepath.Join(filepath.Dir(path), j.Plate.SharpCap)
	}
	return j, nil
}

// Parse decodes job file contents.
func Parse(data []byte) (*Job, error) {
	var j Job
	if err := toml.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	if j.Plate.SharpCap != "" && (j.Plate.RA != "" || j.Plate.Dec != "") {
		return nil, errors.New("decode job: plate takes either sharpcap or ra/dec, not both")
	}
	return &j, nil
}

// Apply feeds the job's texts into s and locks the site and the target.
// The plate solution is imported from the SharpCap file, or the image time
// is captured at the session clock's now and the ra/dec texts are entered.
// Every step is attempted; the refusals are returned together.
func (j *Job) Apply(ctx context.Context, s *session.Session) error {
	var errs []error

	if j.Site != (Site{}) {
		_ = s.SetLongitudeText(j.Site.Longitude)
		_ = s.SetLatitudeText(j.Site.Latitude)
		if _, err := s.LockSite(ctx); err != nil {
			errs = append(errs, fmt.Errorf("site: %w", err))
		}
	}

	if j.Target != (Target{}) {
		_ = s.SetTargetRAText(j.Target.RA)
		_ = s.SetTargetDecText(j.Target.Dec)
		_ = s.SetEventTimeText(j.Target.EventTime)
		if _, err := s.LockTarget(ctx); err != nil {
			errs = append(errs, fmt.Errorf("target: %w", err))
		}
	}

	switch {
	case j.Plate.SharpCap != "":
		data, err := os.ReadFile(j.Plate.SharpCap)
		if err != nil {
			errs = append(errs, fmt.Errorf("plate: read sharpcap: %w", err))
			break
		}
		if _, err := s.ImportSharpCap(ctx, string(data)); err != nil {
			errs = append(errs, fmt.Errorf("plate: %w", err))
		}
	case j.Plate.RA != "" || j.Plate.Dec != "":
		s.CaptureImageTime(ctx)
		if err := s.SetPlateRAText(j.Plate.RA); err != nil {
			errs = append(errs, fmt.Errorf("plate ra: %w", err))
		}
		if err := s.SetPlateDecText(j.Plate.Dec); err != nil {
			errs = append(errs, fmt.Errorf("plate dec: %w", err))
		}
	}

	return errors.Join(errs...)
}
