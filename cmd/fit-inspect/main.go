// fit-inspect parses a FIT or GPX file through the ingestion pipeline and
// prints the normalized activity, for debugging heuristics against real files.
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/neotrasher/fitness-dashboard/pkg/domain/classifier"
	"github.com/neotrasher/fitness-dashboard/pkg/domain/fit_parser"
	"github.com/neotrasher/fitness-dashboard/pkg/domain/gpx_parser"
	"github.com/neotrasher/fitness-dashboard/pkg/domain/units"
	"github.com/neotrasher/fitness-dashboard/pkg/types"
	"github.com/neotrasher/fitness-dashboard/pkg/upload"
)

func main() {
	showLaps := flag.Bool("laps", false, "print per-lap detail")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: fit-inspect [-laps] <file.fit|file.gpx>")
		os.Exit(1)
	}

	path := flag.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
		os.Exit(1)
	}

	var rec *types.FileRecord
	switch format := upload.DetectFormat(data); format {
	case upload.FormatFIT:
		rec, err = fit_parser.ParseFitFile(data)
	case upload.FormatGPX:
		rec, err = gpx_parser.ParseGPXFile(data)
	default:
		fmt.Fprintf(os.Stderr, "unrecognized file format: %s\n", path)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse %s: %v\n", path, err)
		os.Exit(1)
	}

	activity := units.FromFileRecord(rec)
	activity.WorkoutType = classifier.New().Classify(activity)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Name\t%s\n", activity.Name)
	fmt.Fprintf(w, "Category\t%s\n", activity.Category)
	fmt.Fprintf(w, "Workout type\t%s\n", activity.WorkoutType)
	fmt.Fprintf(w, "Start\t%s\n", activity.StartTime.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Distance\t%.2f km\n", activity.DistanceMeters/1000)
	fmt.Fprintf(w, "Moving time\t%s\n", hms(activity.MovingTimeSec))
	fmt.Fprintf(w, "Elapsed time\t%s\n", hms(activity.ElapsedTimeSec))
	if activity.PaceMinPerKm > 0 {
		fmt.Fprintf(w, "Pace\t%.2f min/km\n", activity.PaceMinPerKm)
	}
	if activity.AvgHeartRate > 0 {
		fmt.Fprintf(w, "Heart rate\t%.0f avg / %.0f max\n", activity.AvgHeartRate, activity.MaxHeartRate)
	}
	if activity.CadenceSPM > 0 {
		fmt.Fprintf(w, "Cadence\t%.0f spm\n", activity.CadenceSPM)
	}
	fmt.Fprintf(w, "Elevation\t+%.0f / -%.0f m\n", activity.ElevGainMeters, activity.ElevLossMeters)
	fmt.Fprintf(w, "GPS\t%v (%d points)\n", activity.HasGPS, len(activity.Points))
	fmt.Fprintf(w, "Laps\t%d\n", len(activity.Laps))
	w.Flush()

	if *showLaps && len(activity.Laps) > 0 {
		fmt.Println()
		lw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(lw, "#\tDistance\tMoving\tPace\tAvg HR")
		for i, lap := range activity.Laps {
			pace := 0.0
			if lap.DistanceMeters > 0 {
				dur := lap.MovingSec
				if dur == 0 {
					dur = lap.ElapsedSec
				}
				pace = (dur / 60) / (lap.DistanceMeters / 1000)
			}
			fmt.Fprintf(lw, "%d\t%.0f m\t%s\t%.2f min/km\t%.0f\n",
				i+1, lap.DistanceMeters, hms(int(lap.MovingSec)), pace, lap.AvgHeartRate)
		}
		lw.Flush()

		variance := classifier.AnalyzeLapVariance(activity.Laps)
		fmt.Printf("\nLap variance: %s (confidence %d)\n", variance.Type, variance.Confidence)
	}
}

func hms(sec int) string {
	if sec >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", sec/3600, (sec%3600)/60, sec%60)
	}
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}
