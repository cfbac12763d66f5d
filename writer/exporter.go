package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	appconfig "matchflow/config"
	"matchflow/logger"
	"matchflow/models"
)

// Exporter publishes the artifacts derived from one timeline into
// outputDir/<match_name>/. Every file is written to a temp path first and
// renamed into place, so a crash mid-export never leaves a partial artifact
// under the final name.
type Exporter struct {
	config appconfig.WriterConfig
	log    *logger.Log
}

func NewExporter(cfg appconfig.WriterConfig) *Exporter {
	return &Exporter{config: cfg, log: logger.GetLogger()}
}

// Export writes every artifact the timeline's sections allow and returns the
// published paths. The timeline JSON and insights are always written; event
// and curve artifacts only when their section is present. Formats disabled in
// configuration are skipped.
func (e *Exporter) Export(timeline *models.Timeline) ([]string, error) {
	dir := filepath.Join(e.config.OutputDir, timeline.MatchName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}

	log := e.log.WithComponent("exporter").WithFields(logger.Fields{
		"match":  timeline.MatchName,
		"run_id": timeline.RunID,
		"dir":    dir,
	})
	log.Info("publishing artifacts")

	prefix := filepath.Join(dir, timeline.MatchName)
	published := []string{}

	publish := func(path string, data []byte) error {
		if err := writeAtomic(path, data); err != nil {
			return err
		}
		published = append(published, path)
		logger.IncrementArtifactPublished(int64(len(data)))
		return nil
	}

	timelineJSON, err := renderTimelineJSON(timeline)
	if err != nil {
		return published, fmt.Errorf("render timeline: %w", err)
	}
	if err := publish(prefix+"_timeline.json", timelineJSON); err != nil {
		return published, err
	}

	insightsJSON, err := renderInsightsJSON(BuildInsights(timeline))
	if err != nil {
		return published, fmt.Errorf("render insights: %w", err)
	}
	if err := publish(prefix+"_insights.json", insightsJSON); err != nil {
		return published, err
	}

	if timeline.EventSection.Present {
		if e.config.Formats.CSV {
			data, err := renderEventsCSV(timeline)
			if err != nil {
				return published, fmt.Errorf("render events csv: %w", err)
			}
			if err := publish(prefix+"_events.csv", data); err != nil {
				return published, err
			}
		}
		if e.config.Formats.Parquet {
			data, err := renderEventsParquet(timeline)
			if err != nil {
				return published, fmt.Errorf("render events parquet: %w", err)
			}
			if err := publish(prefix+"_events.parquet", data); err != nil {
				return published, err
			}
		}
		if e.config.Formats.Report {
			if err := publish(prefix+"_report.txt", renderReport(timeline)); err != nil {
				return published, err
			}
		}
	}

	if timeline.CurveSection.Present && e.config.Formats.CSV {
		data, err := renderCurveCSV(timeline)
		if err != nil {
			return published, fmt.Errorf("render curve csv: %w", err)
		}
		if err := publish(prefix+"_curve.csv", data); err != nil {
			return published, err
		}
	}

	log.WithFields(logger.Fields{"artifacts": len(published)}).Info("artifacts published")
	return published, nil
}

// writeAtomic writes data to a temp file in the target directory and renames
// it over the final path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish %s: %w", path, err)
	}
	return nil
}

// formatFloat renders every float artifact field with fixed precision so
// exports are byte-stable across runs.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
