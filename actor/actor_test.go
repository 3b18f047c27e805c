package main

import (
	"path/filepath"
	"testing"

	"github.com/OutstandingWork/Demon-Slayer-AI/record"
)

func TestRunAppendsEpisodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	for _, args := range [][]string{
		{"-episodes", "2", "-random", "-out-logfile", path},
		{"-episodes", "1", "-seed", "9", "-out-logfile", path},
	} {
		if err := run(args); err != nil {
			t.Fatalf("run(%v): %v", args, err)
		}
	}

	records, err := record.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("log has %d records, want 3", len(records))
	}
	if records[0].RunID != records[1].RunID || records[1].RunID == records[2].RunID {
		t.Errorf("run ids %q %q %q do not follow the runs", records[0].RunID, records[1].RunID, records[2].RunID)
	}
	for _, r := range records {
		if r.Ticks < 1 || r.Ticks > 190 {
			t.Errorf("episode %d lasted %d ticks", r.Episode, r.Ticks)
		}
	}
}

func BenchmarkActor(b *testing.B) {
	path := filepath.Join(b.TempDir(), "log.txt")
	log.Debugf("About to run the actor %d times", b.N)
	for i := 0; i < b.N; i++ {
		if err := run([]string{"-episodes", "1", "-out-logfile", path}); err != nil {
			b.Fatal(err)
		}
	}
}
