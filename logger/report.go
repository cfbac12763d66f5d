package logger

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

type streamStat struct {
	items int64
	bytes int64
}

var (
	errorsReader  int64
	errorsFusion  int64
	errorsWriter  int64
	warnsReader   int64
	warnsFusion   int64
	warnsWriter   int64
	matchesRun    int64
	artifactsPub  int64
	streams       sync.Map // map[string]*streamStat
)

func recordWarn(component string) {
	switch {
	case strings.Contains(component, "reader") || strings.Contains(component, "asr") || strings.Contains(component, "detector") || strings.Contains(component, "loudness") || strings.Contains(component, "sentiment"):
		atomic.AddInt64(&warnsReader, 1)
	case strings.Contains(component, "fusion") || strings.Contains(component, "engine") || strings.Contains(component, "merger"):
		atomic.AddInt64(&warnsFusion, 1)
	case strings.Contains(component, "writer") || strings.Contains(component, "exporter") || strings.Contains(component, "s3"):
		atomic.AddInt64(&warnsWriter, 1)
	}
}

func recordError(component string) {
	switch {
	case strings.Contains(component, "reader") || strings.Contains(component, "asr") || strings.Contains(component, "detector") || strings.Contains(component, "loudness") || strings.Contains(component, "sentiment"):
		atomic.AddInt64(&errorsReader, 1)
	case strings.Contains(component, "fusion") || strings.Contains(component, "engine") || strings.Contains(component, "merger"):
		atomic.AddInt64(&errorsFusion, 1)
	case strings.Contains(component, "writer") || strings.Contains(component, "exporter") || strings.Contains(component, "s3"):
		atomic.AddInt64(&errorsWriter, 1)
	}
}

// IncrementMatchRun records a completed match run.
func IncrementMatchRun() {
	atomic.AddInt64(&matchesRun, 1)
}

// IncrementArtifactPublished records one published artifact file of the given
// size in bytes.
func IncrementArtifactPublished(size int64) {
	atomic.AddInt64(&artifactsPub, 1)
	recordStream("artifacts", int(size))
}

// RecordStreamItem tracks item/byte counts per named data stream
// (transcript segments, raw events, loudness samples...).
func RecordStreamItem(name string, size int) {
	recordStream(name, size)
}

func recordStream(name string, size int) {
	v, _ := streams.LoadOrStore(name, &streamStat{})
	cs := v.(*streamStat)
	atomic.AddInt64(&cs.items, 1)
	atomic.AddInt64(&cs.bytes, int64(size))
}

// StartReport begins periodic logging of system and pipeline statistics.
func StartReport(ctx context.Context, log *Log, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-ticker.C:
				logReport(ctx, log)
			}
		}
	}()
}

func logReport(ctx context.Context, log *Log) {
	cpuPercent, _ := cpu.Percent(0, false)
	memStats, _ := mem.VirtualMemory()
	diskStats, _ := disk.Usage("/")

	streamData := map[string]map[string]int64{}
	streams.Range(func(k, v any) bool {
		name := k.(string)
		cs := v.(*streamStat)
		streamData[name] = map[string]int64{
			"items": atomic.LoadInt64(&cs.items),
			"bytes": atomic.LoadInt64(&cs.bytes),
		}
		return true
	})

	cpuPct := 0.0
	if len(cpuPercent) > 0 {
		cpuPct = cpuPercent[0]
	}

	fields := Fields{
		"errors_reader":       atomic.LoadInt64(&errorsReader),
		"errors_fusion":       atomic.LoadInt64(&errorsFusion),
		"errors_writer":       atomic.LoadInt64(&errorsWriter),
		"warns_reader":        atomic.LoadInt64(&warnsReader),
		"warns_fusion":        atomic.LoadInt64(&warnsFusion),
		"warns_writer":        atomic.LoadInt64(&warnsWriter),
		"matches_run":         atomic.LoadInt64(&matchesRun),
		"artifacts_published": atomic.LoadInt64(&artifactsPub),
		"goroutines":          runtime.NumGoroutine(),
		"cpu_percent":         cpuPct,
		"memory_mb":           int64(memStats.Used) / 1024 / 1024,
		"disk_mb":             int64(diskStats.Used) / 1024 / 1024,
		"streams":             streamData,
	}

	log.WithComponent("report").WithFields(fields).Info("runtime report")

	var data []cwtypes.MetricDatum
	data = append(data,
		cwtypes.MetricDatum{MetricName: aws.String("CPUPercent"), Unit: cwtypes.StandardUnitPercent, Value: aws.Float64(cpuPct)},
		cwtypes.MetricDatum{MetricName: aws.String("MemoryMB"), Unit: cwtypes.StandardUnitMegabytes, Value: aws.Float64(float64(memStats.Used) / 1024 / 1024)},
		cwtypes.MetricDatum{MetricName: aws.String("MatchesRun"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&matchesRun)))},
		cwtypes.MetricDatum{MetricName: aws.String("ArtifactsPublished"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&artifactsPub)))},
		cwtypes.MetricDatum{MetricName: aws.String("ErrorsReader"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&errorsReader)))},
		cwtypes.MetricDatum{MetricName: aws.String("ErrorsFusion"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&errorsFusion)))},
		cwtypes.MetricDatum{MetricName: aws.String("ErrorsWriter"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&errorsWriter)))},
	)

	for name, stats := range streamData {
		data = append(data,
			cwtypes.MetricDatum{
				MetricName: aws.String("StreamItems"),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{{Name: aws.String("Stream"), Value: aws.String(name)}},
				Value:      aws.Float64(float64(stats["items"])),
			},
			cwtypes.MetricDatum{
				MetricName: aws.String("StreamBytes"),
				Unit:       cwtypes.StandardUnitBytes,
				Dimensions: []cwtypes.Dimension{{Name: aws.String("Stream"), Value: aws.String(name)}},
				Value:      aws.Float64(float64(stats["bytes"])),
			},
		)
	}

	publishMetrics(ctx, data)
}
