// Package processor converts many files at once with a pool of workers.
package processor

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/woozymasta/kmlsheet/internal/convert"
	"github.com/woozymasta/kmlsheet/internal/kml"
	"github.com/woozymasta/kmlsheet/internal/table"

	"github.com/rs/zerolog/log"
)

// ErrDuplicateOutput is returned for a job whose output name is taken by an
// earlier job of the same batch.
var ErrDuplicateOutput = errors.New("duplicate output file")

// Direction selects which pipeline a job runs through.
type Direction int

const (
	// ToXLSX exports KML/KMZ placemarks to a workbook.
	ToXLSX Direction = iota
	// ToKML writes CSV/XLSX rows as KML placemarks.
	ToKML
)

// Job is one file to convert. Source is a local path or an http(s) URL.
// A ToKML job without latitude and longitude columns uses suggested roles.
type Job struct {
	Source    string
	Direction Direction
	Layout    convert.Layout
	Mapping   kml.Mapping
}

// Outcome is the result of one Job.
type Outcome struct {
	Job     Job
	Output  string
	Emitted int
	Skipped int
	Exists  bool
	Err     error
}

// Options controls where and how a batch runs.
type Options struct {
	OutDir      string
	Concurrency int
	Force       bool
	Client      *http.Client
}

type task struct {
	idx int
	job Job
}

// Run converts every job and returns outcomes in job order. A failed job
// does not stop the others.
func Run(conv *convert.Converter, jobs []Job, opts Options) []Outcome {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}

	tasks := make(chan task, len(jobs))
	results := make(chan task, len(jobs))
	outcomes := make([]Outcome, len(jobs))

	// Jobs writing the same output as an earlier job fail instead of racing it.
	queued := make([]task, 0, len(jobs))
	owners := make(map[string]string, len(jobs))
	for i, j := range jobs {
		output := filepath.Join(opts.OutDir, OutputName(j))
		if owner, dup := owners[output]; dup {
			outcomes[i] = Outcome{
				Job:    j,
				Output: output,
				Err:    fmt.Errorf("%s: %w (already written from %s)", j.Source, ErrDuplicateOutput, owner),
			}
			results <- task{idx: i, job: j}
			continue
		}
		owners[output] = j.Source
		queued = append(queued, task{idx: i, job: j})
	}

	go func() {
		for _, t := range queued {
			tasks <- t
		}
		close(tasks)
	}()

	var wg sync.WaitGroup
	for i := 0; i < opts.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				outcomes[t.idx] = process(conv, t.job, opts)
				results <- t
			}
		}()
	}
	wg.Wait()
	close(results)

	failed := 0
	for t := range results {
		if o := outcomes[t.idx]; o.Err != nil {
			failed++
			log.Error().Err(o.Err).Str("source", o.Job.Source).Msg("Failed to convert file")
		}
	}

	log.Info().
		Int("jobs", len(jobs)).
		Int("failed", failed).
		Int("concurrency", opts.Concurrency).
		Msg("Batch finished")

	return outcomes
}

func process(conv *convert.Converter, j Job, opts Options) Outcome {
	out := Outcome{Job: j, Output: filepath.Join(opts.OutDir, OutputName(j))}

	// Check existence if not forcing overwrite
	if !opts.Force {
		if info, err := os.Stat(out.Output); err == nil && info.Size() > 0 {
			log.Debug().Str("path", out.Output).Msg("Output exists, skipping")
			out.Exists = true
			return out
		}
	}

	data, name, err := loadSource(opts.Client, j.Source)
	if err != nil {
		out.Err = err
		return out
	}

	var res *convert.Result
	switch j.Direction {
	case ToXLSX:
		res, err = conv.KMLToXLSX(data, name, j.Layout)
	case ToKML:
		res, err = ConvertTable(conv, data, name, j.Mapping)
	default:
		err = fmt.Errorf("unknown direction %d", j.Direction)
	}
	if err != nil {
		out.Err = fmt.Errorf("%s: %w", j.Source, err)
		return out
	}

	out.Emitted, out.Skipped = res.Emitted, res.Skipped
	out.Err = saveFile(out.Output, res.Data)

	log.Debug().
		Str("source", j.Source).
		Str("output", out.Output).
		Int("emitted", res.Emitted).
		Int("skipped", res.Skipped).
		Msg("File converted")

	return out
}

// ConvertTable runs TableToKML, filling missing roles from the suggested
// columns of the file.
func ConvertTable(conv *convert.Converter, data []byte, name string, m kml.Mapping) (*convert.Result, error) {
	if m.Lat != "" && m.Lon != "" {
		return conv.TableToKML(data, name, m)
	}

	t, err := table.Read(data, name)
	if err != nil {
		return nil, err
	}

	roles := table.SuggestRoles(t.Header)
	if m.Name == "" {
		m.Name = roles.Name
	}
	m.Lat, m.Lon = roles.Lat, roles.Lon
	if m.Group == "" {
		m.Group = roles.Group
	}

	log.Debug().
		Str("file", name).
		Str("lat", m.Lat).
		Str("lon", m.Lon).
		Str("name", m.Name).
		Str("group", m.Group).
		Msg("Using suggested column roles")

	return conv.WriteTable(t, m, baseName(name))
}

// OutputName returns the file name a job writes.
func OutputName(j Job) string {
	base := baseName(sourceName(j.Source))
	switch {
	case j.Direction == ToKML:
		return base + ".kml"
	case j.Layout == convert.LayoutDescriptions:
		return base + "_deskripsi_kml.xlsx"
	default:
		return base + ".xlsx"
	}
}

func baseName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// saveFile writes data, creating parent directories.
func saveFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	_, err = f.Write(data)
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return errors.Join(err, os.Remove(path))
	}

	return nil
}
