package armakalman

import (
	"os"
	"strings"
	"testing"
)

func TestCSVExporter(t *testing.T) {
	y := arma11Series()
	kf, err := NewArmaFilter(NewStateSpace(y, []float64{0.5}, []float64{0.4}))
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	exp, err := NewCSVExporter(dir, "filter.csv")
	if err != nil {
		t.Fatal(err)
	}
	if err := exp.Write(kf); err != nil {
		t.Fatal(err)
	}
	if err := exp.Close(); err != nil {
		t.Fatal(err)
	}

	contents, err := os.ReadFile(dir + "/filter.csv")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(contents), "\n"), "\n")
	if !strings.HasPrefix(lines[0], "#") {
		t.Fatal("missing creation comment line")
	}
	if lines[1] != "t,predictionError,predictionErrorVariance" {
		t.Fatalf("unexpected header: %s", lines[1])
	}
	var rows int
	for _, line := range lines[2:] {
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}
		if got := len(strings.Split(line, ",")); got != 3 {
			t.Fatalf("row %q has %d fields, want 3", line, got)
		}
		rows++
	}
	if rows != len(y) {
		t.Fatalf("%d data rows for %d observations", rows, len(y))
	}
}
